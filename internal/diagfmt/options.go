// Package diagfmt renders diagnostics and token streams for the CLI:
// a human-readable form with source context and caret underlines, and
// a machine-readable JSON form.
package diagfmt

// PathMode specifies how file paths are displayed.
type PathMode uint8

const (
	// PathModeAuto prints the path as stored.
	PathModeAuto PathMode = iota
	// PathModeBasename prints only the file name.
	PathModeBasename
)

// PrettyOpts configures pretty-printing of diagnostics.
type PrettyOpts struct {
	Color     bool
	PathMode  PathMode
	ShowNotes bool
}

// JSONOpts configures JSON output of diagnostics.
type JSONOpts struct {
	IncludePositions bool
	IncludeNotes     bool
	Max              int // output truncation; 0 means everything
}
