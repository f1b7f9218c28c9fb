package diagfmt_test

import (
	"strings"
	"testing"

	"autoc/internal/diag"
	"autoc/internal/diagfmt"
	"autoc/internal/source"
)

func oneErrorBag(fs *source.FileSet) *diag.Bag {
	id := fs.AddVirtual("demo.at", []byte("let x = missing\n"))
	bag := diag.NewBag(8)
	bag.Add(diag.NewError(diag.SemaUnresolvedIdent,
		source.Span{File: id, Start: 8, End: 15},
		"unresolved identifier 'missing'"))
	return bag
}

func TestPrettyHeadingAndCaret(t *testing.T) {
	fs := source.NewFileSet()
	bag := oneErrorBag(fs)

	var sb strings.Builder
	diagfmt.Pretty(&sb, bag, fs, diagfmt.PrettyOpts{})
	out := sb.String()

	if !strings.Contains(out, "demo.at:1:9: ERROR SEMA3001: unresolved identifier 'missing'") {
		t.Errorf("heading missing:\n%s", out)
	}
	if !strings.Contains(out, "let x = missing") {
		t.Errorf("source context missing:\n%s", out)
	}
	if !strings.Contains(out, "^~~~~~~") {
		t.Errorf("caret underline missing:\n%s", out)
	}
}

func TestPrettyUnderlineAlignment(t *testing.T) {
	fs := source.NewFileSet()
	bag := oneErrorBag(fs)

	var sb strings.Builder
	diagfmt.Pretty(&sb, bag, fs, diagfmt.PrettyOpts{})

	lines := strings.Split(sb.String(), "\n")
	if len(lines) < 3 {
		t.Fatalf("short output: %q", sb.String())
	}
	src, marker := lines[1], lines[2]
	if strings.Index(src, "missing") != strings.Index(marker, "^") {
		t.Errorf("caret misaligned:\n%s\n%s", src, marker)
	}
}

func TestPrettyNotesShownOnDemand(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("demo.at", []byte("type T as Flyer {\n}\n"))
	bag := diag.NewBag(8)
	d := diag.NewError(diag.SemaSpecNotSatisfied,
		source.Span{File: id, Start: 5, End: 6}, "T does not satisfy Flyer")
	d = d.WithNote(source.Span{File: id, Start: 10, End: 15}, "missing method fly")
	bag.Add(d)

	var quiet strings.Builder
	diagfmt.Pretty(&quiet, bag, fs, diagfmt.PrettyOpts{})
	if strings.Contains(quiet.String(), "missing method fly") {
		t.Error("notes shown without ShowNotes")
	}

	var verbose strings.Builder
	diagfmt.Pretty(&verbose, bag, fs, diagfmt.PrettyOpts{ShowNotes: true})
	if !strings.Contains(verbose.String(), "missing method fly") {
		t.Error("ShowNotes did not print the note")
	}
}

func TestJSONOutput(t *testing.T) {
	fs := source.NewFileSet()
	bag := oneErrorBag(fs)

	out := diagfmt.BuildDiagnosticsOutput(bag, fs, diagfmt.JSONOpts{IncludePositions: true})
	if out.Count != 1 || len(out.Diagnostics) != 1 {
		t.Fatalf("count = %d, diags = %d", out.Count, len(out.Diagnostics))
	}
	d := out.Diagnostics[0]
	if d.Code != "SEMA3001" || d.Severity != "ERROR" {
		t.Errorf("code/severity: %s %s", d.Code, d.Severity)
	}
	if d.Location.StartLine != 1 || d.Location.StartCol != 9 {
		t.Errorf("position: %d:%d", d.Location.StartLine, d.Location.StartCol)
	}
}

func TestJSONTruncation(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("demo.at", []byte("x\n"))
	bag := diag.NewBag(8)
	for i := 0; i < 5; i++ {
		bag.Add(diag.NewError(diag.SemaTypeMismatch, source.Span{File: id}, "boom"))
	}

	out := diagfmt.BuildDiagnosticsOutput(bag, fs, diagfmt.JSONOpts{Max: 2})
	if len(out.Diagnostics) != 2 {
		t.Errorf("truncated to %d, want 2", len(out.Diagnostics))
	}
	if out.Count != 5 {
		t.Errorf("count should report the full bag, got %d", out.Count)
	}
}
