package diagfmt

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"autoc/internal/diag"
	"autoc/internal/source"
)

var (
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	infoColor    = color.New(color.FgCyan, color.Bold)
	caretColor   = color.New(color.FgGreen, color.Bold)
	codeColor    = color.New(color.Faint)
)

// Pretty renders every diagnostic in the bag as
//
//	path:line:col: SEV CODE: message
//	    source line
//	    ^~~~~~
//
// followed by any notes in the same shape. Call bag.Sort() first for
// deterministic order.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	for _, d := range bag.Items() {
		writeHeading(w, fs, d.Primary, d.Severity, d.Code, d.Message, opts)
		writeContext(w, fs, d.Primary, opts)
		if opts.ShowNotes {
			for _, n := range d.Notes {
				writeHeading(w, fs, n.Span, diag.SevInfo, diag.UnknownCode, n.Msg, opts)
				writeContext(w, fs, n.Span, opts)
			}
		}
	}
}

func writeHeading(w io.Writer, fs *source.FileSet, sp source.Span, sev diag.Severity, code diag.Code, msg string, opts PrettyOpts) {
	start, _ := fs.Resolve(sp)
	path := displayPath(fs.Get(sp.File).Path, opts.PathMode)

	sevText := sev.String()
	codeText := code.ID()
	if opts.Color {
		sevText = severityColor(sev).Sprint(sevText)
		codeText = codeColor.Sprint(codeText)
	}
	if code == diag.UnknownCode {
		fmt.Fprintf(w, "%s:%d:%d: %s: %s\n", path, start.Line, start.Col, sevText, msg)
		return
	}
	fmt.Fprintf(w, "%s:%d:%d: %s %s: %s\n", path, start.Line, start.Col, sevText, codeText, msg)
}

// writeContext prints the offending line and a caret underline
// covering the span's portion of it.
func writeContext(w io.Writer, fs *source.FileSet, sp source.Span, opts PrettyOpts) {
	start, end := fs.Resolve(sp)
	line := fs.Get(sp.File).GetLine(start.Line)
	if line == "" {
		return
	}

	fmt.Fprintf(w, "    %s\n", strings.ReplaceAll(line, "\t", " "))

	startCol := int(start.Col) - 1
	if startCol > len(line) {
		startCol = len(line)
	}
	// Underline stops at the end of the line even for multi-line spans.
	endCol := len(line)
	if end.Line == start.Line && int(end.Col)-1 < endCol {
		endCol = int(end.Col) - 1
	}
	if endCol <= startCol {
		endCol = startCol + 1
	}

	// Display columns, not byte columns: wide runes occupy two cells.
	pad := runewidth.StringWidth(line[:startCol])
	width := runewidth.StringWidth(slice(line, startCol, endCol))
	if width < 1 {
		width = 1
	}

	marker := "^" + strings.Repeat("~", width-1)
	if opts.Color {
		marker = caretColor.Sprint(marker)
	}
	fmt.Fprintf(w, "    %s%s\n", strings.Repeat(" ", pad), marker)
}

func slice(s string, lo, hi int) string {
	if hi > len(s) {
		hi = len(s)
	}
	if lo > hi {
		lo = hi
	}
	return s[lo:hi]
}

func severityColor(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return errorColor
	case diag.SevWarning:
		return warningColor
	default:
		return infoColor
	}
}

func displayPath(path string, mode PathMode) string {
	if mode == PathModeBasename {
		return filepath.Base(path)
	}
	return path
}
