package diag

import (
	"testing"

	"autoc/internal/source"
)

func TestBagLimit(t *testing.T) {
	b := NewBag(2)
	if !b.Add(NewError(LexUnknownChar, source.Span{}, "a")) {
		t.Fatal("first add rejected")
	}
	if !b.Add(NewError(LexUnknownChar, source.Span{}, "b")) {
		t.Fatal("second add rejected")
	}
	if b.Add(NewError(LexUnknownChar, source.Span{}, "c")) {
		t.Fatal("bag over capacity")
	}
	if b.Len() != 2 {
		t.Fatalf("Len = %d, want 2", b.Len())
	}
}

func TestBagHasErrors(t *testing.T) {
	b := NewBag(10)
	b.Add(New(SevWarning, SynUnexpectedToken, source.Span{}, "w"))
	if b.HasErrors() {
		t.Fatal("warning alone must not count as error")
	}
	b.Add(NewError(SemaUnresolvedIdent, source.Span{}, "e"))
	if !b.HasErrors() {
		t.Fatal("error not detected")
	}
}

func TestBagSortDeterministic(t *testing.T) {
	b := NewBag(10)
	b.Add(NewError(SynUnexpectedToken, source.Span{File: 1, Start: 40}, "late"))
	b.Add(NewError(SynUnexpectedToken, source.Span{File: 0, Start: 10}, "early"))
	b.Add(New(SevWarning, SynExpectTerminator, source.Span{File: 0, Start: 10}, "same-pos warning"))
	b.Sort()

	items := b.Items()
	if items[0].Message != "early" {
		t.Fatalf("first after sort = %q", items[0].Message)
	}
	// Same position: error sorts before warning.
	if items[1].Severity != SevError && items[0].Severity != SevError {
		t.Fatal("severity tie-break lost")
	}
	if items[2].Message != "late" {
		t.Fatalf("last after sort = %q", items[2].Message)
	}
}

func TestDedupReporter(t *testing.T) {
	bag := NewBag(10)
	r := NewDedupReporter(BagReporter{Bag: bag})

	sp := source.Span{File: 0, Start: 5, End: 6}
	r.Report(SynUnexpectedToken, SevError, sp, "boom", nil)
	r.Report(SynUnexpectedToken, SevError, sp, "boom", nil)
	r.Report(SynUnexpectedToken, SevError, sp, "different message", nil)

	if bag.Len() != 2 {
		t.Fatalf("dedup kept %d items, want 2", bag.Len())
	}
}

func TestCodePhase(t *testing.T) {
	cases := map[Code]string{
		LexUnknownChar:          "lex",
		SynUnexpectedToken:      "parse",
		SemaSpecNotSatisfied:    "bind",
		GenUnsupportedConstruct: "codegen",
	}
	for code, want := range cases {
		if got := code.Phase(); got != want {
			t.Errorf("%v.Phase() = %q, want %q", code, got, want)
		}
	}
	if LexUnterminatedString.ID() != "LEX1002" {
		t.Fatalf("ID = %q", LexUnterminatedString.ID())
	}
}
