package token

var keywords = map[string]Kind{
	"fn":       KwFn,
	"let":      KwLet,
	"var":      KwVar,
	"mut":      KwMut,
	"if":       KwIf,
	"else":     KwElse,
	"while":    KwWhile,
	"for":      KwFor,
	"in":       KwIn,
	"break":    KwBreak,
	"continue": KwContinue,
	"return":   KwReturn,
	"use":      KwUse,
	"as":       KwAs,
	"type":     KwType,
	"tag":      KwTag,
	"spec":     KwSpec,
	"has":      KwHas,
	"is":       KwIs,
	"true":     KwTrue,
	"false":    KwFalse,
	"nil":      KwNil,
}

// LookupKeyword reports whether ident is a keyword and which one.
// Keywords are case-sensitive; only the lowercase spelling is recognized.
func LookupKeyword(ident string) (Kind, bool) {
	k, ok := keywords[ident]
	return k, ok
}
