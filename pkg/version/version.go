// Package version exposes the build version of the footprint binary.
package version

// version is overridden at build time with -ldflags "-X".
//
//nolint:gochecknoglobals // Set via ldflags.
var version = "dev"

// GetVersion returns the build version.
func GetVersion() string {
	return version
}
