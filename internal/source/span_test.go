package source

import "testing"

func TestSpanCover(t *testing.T) {
	a := Span{File: 1, Start: 10, End: 20}
	b := Span{File: 1, Start: 5, End: 15}

	got := a.Cover(b)
	if got.Start != 5 || got.End != 20 {
		t.Fatalf("Cover = %v, want 1:5-20", got)
	}

	other := Span{File: 2, Start: 0, End: 100}
	if got := a.Cover(other); got != a {
		t.Fatalf("Cover across files must be a no-op, got %v", got)
	}
}

func TestSpanEmptyLen(t *testing.T) {
	s := Span{File: 0, Start: 7, End: 7}
	if !s.Empty() {
		t.Fatal("expected empty span")
	}
	s.End = 12
	if s.Empty() || s.Len() != 5 {
		t.Fatalf("Len = %d, want 5", s.Len())
	}
}

func TestResolveLineCol(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("mod.at", []byte("fn main() {\n    42\n}\n"))

	// "42" starts at offset 16 on line 2 column 5.
	start, end := fs.Resolve(Span{File: id, Start: 16, End: 18})
	if start.Line != 2 || start.Col != 5 {
		t.Fatalf("start = %+v, want 2:5", start)
	}
	if end.Line != 2 || end.Col != 7 {
		t.Fatalf("end = %+v, want 2:7", end)
	}

	// "}" at offset 19 sits on line 3 column 1.
	start, _ = fs.Resolve(Span{File: id, Start: 19, End: 20})
	if start.Line != 3 || start.Col != 1 {
		t.Fatalf("start = %+v, want 3:1", start)
	}
}

func TestResolveNewlineBelongsToItsLine(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("mod.at", []byte("ab\ncd\n"))

	// An offset addressing the newline byte reports the line that
	// newline terminates, one column past its last character.
	start, _ := fs.Resolve(Span{File: id, Start: 2, End: 3})
	if start.Line != 1 || start.Col != 3 {
		t.Fatalf("first newline = %+v, want 1:3", start)
	}
	start, _ = fs.Resolve(Span{File: id, Start: 5, End: 6})
	if start.Line != 2 || start.Col != 3 {
		t.Fatalf("second newline = %+v, want 2:3", start)
	}
}

func TestGetLine(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("mod.at", []byte("one\ntwo\nthree"))
	f := fs.Get(id)

	cases := []struct {
		line uint32
		want string
	}{
		{1, "one"},
		{2, "two"},
		{3, "three"},
		{4, ""},
		{0, ""},
	}
	for _, tc := range cases {
		if got := f.GetLine(tc.line); got != tc.want {
			t.Errorf("GetLine(%d) = %q, want %q", tc.line, got, tc.want)
		}
	}
}

func TestLoadNormalization(t *testing.T) {
	content, changed := normalizeCRLF([]byte("a\r\nb\rc"))
	if !changed || string(content) != "a\nb\rc" {
		t.Fatalf("normalizeCRLF = %q changed=%v", content, changed)
	}

	stripped, had := removeBOM([]byte{0xEF, 0xBB, 0xBF, 'x'})
	if !had || string(stripped) != "x" {
		t.Fatalf("removeBOM = %q had=%v", stripped, had)
	}
}
