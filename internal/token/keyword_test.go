package token_test

import (
	"testing"

	"autoc/internal/token"
)

func TestLookupKeyword(t *testing.T) {
	cases := map[string]token.Kind{
		"fn":   token.KwFn,
		"tag":  token.KwTag,
		"spec": token.KwSpec,
		"has":  token.KwHas,
		"is":   token.KwIs,
		"use":  token.KwUse,
		"var":  token.KwVar,
	}
	for text, want := range cases {
		got, ok := lookup(t, text)
		if !ok || got != want {
			t.Errorf("LookupKeyword(%q) = %v,%v, want %v", text, got, ok, want)
		}
	}
}

func lookup(t *testing.T, s string) (token.Kind, bool) {
	t.Helper()
	return token.LookupKeyword(s)
}

func TestLookupKeywordCaseSensitive(t *testing.T) {
	if _, ok := token.LookupKeyword("Fn"); ok {
		t.Fatal("keywords must be case-sensitive")
	}
	if _, ok := token.LookupKeyword("specs"); ok {
		t.Fatal("near-miss must not be a keyword")
	}
}
