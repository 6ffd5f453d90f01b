package config

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/rshade/footprint/internal/logging"
)

// ResolveProjectDir locates the project-local .footprint directory. An
// explicit flagValue wins over FOOTPRINT_PROJECT_DIR; without either, the
// nearest .footprint directory at or above startDir is used. The global config
// directory never counts as a project. Returns an absolute path, or "" when
// there is no project.
func ResolveProjectDir(ctx context.Context, flagValue, startDir string) string {
	for _, explicit := range []string{flagValue, os.Getenv(EnvProjectDir)} {
		if explicit != "" {
			return toAbsProjectDir(ctx, explicit)
		}
	}
	return findProjectDir(startDir)
}

// findProjectDir walks from startDir toward the filesystem root.
func findProjectDir(startDir string) string {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return ""
	}
	global, _ := filepath.Abs(Dir())

	for prev := ""; dir != prev; prev, dir = dir, filepath.Dir(dir) {
		candidate := filepath.Join(dir, dirName)
		if candidate == global {
			continue
		}
		if info, statErr := os.Stat(candidate); statErr == nil && info.IsDir() {
			return candidate
		}
	}
	return ""
}

// NewWithProjectDir creates a Config by loading the global config, then
// shallow-merging projectDir/config.yaml on top. A missing or broken
// overlay leaves the global config in effect.
func NewWithProjectDir(ctx context.Context, projectDir string) *Config {
	cfg := New()
	if projectDir == "" {
		return cfg
	}

	overlayPath := filepath.Join(projectDir, configFileName)
	if _, err := os.Stat(overlayPath); err != nil {
		return cfg
	}

	merged := New()
	if err := ShallowMergeYAML(merged, overlayPath); err != nil {
		logging.FromContext(ctx).Warn().
			Str("component", "config").
			Str("operation", "merge_project_config").
			Err(err).
			Str("overlay_path", overlayPath).
			Msg("failed to merge project config, using global defaults")
		return cfg
	}
	return merged
}

// toAbsProjectDir converts dir to an absolute path ending in ".footprint".
func toAbsProjectDir(ctx context.Context, dir string) string {
	abs, err := filepath.Abs(dir)
	if err != nil {
		logging.FromContext(ctx).Warn().
			Str("component", "config").
			Err(err).
			Str("dir", dir).
			Msg("failed to resolve absolute path for project directory")
		abs = dir
	}
	if filepath.Base(abs) == dirName {
		return abs
	}
	return filepath.Join(abs, dirName)
}

var (
	resolvedProjectDir   string       //nolint:gochecknoglobals // set once per CLI invocation
	resolvedProjectDirMu sync.RWMutex //nolint:gochecknoglobals // guards resolvedProjectDir
)

// SetResolvedProjectDir records the project directory the CLI resolved.
func SetResolvedProjectDir(dir string) {
	resolvedProjectDirMu.Lock()
	defer resolvedProjectDirMu.Unlock()
	resolvedProjectDir = dir
}

// GetResolvedProjectDir returns the directory set by SetResolvedProjectDir,
// or "" outside a project.
func GetResolvedProjectDir() string {
	resolvedProjectDirMu.RLock()
	defer resolvedProjectDirMu.RUnlock()
	return resolvedProjectDir
}
