// Package pagination slices and orders list output for the CLI: the
// --limit/--offset window, the --sort expression for scenario lists, and the
// metadata reported alongside paginated JSON.
package pagination
