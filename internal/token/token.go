package token

import (
	"autoc/internal/source"
)

// Token represents a single source token with its location.
type Token struct {
	Kind Kind
	Span source.Span
	Text string
}

// IsLiteral reports whether the token is a numeric, boolean, string, or char literal.
func (t Token) IsLiteral() bool {
	switch t.Kind {
	case IntLit, UintLit, U8Lit, I8Lit, FloatLit, DoubleLit,
		StrLit, CStrLit, CharLit, KwTrue, KwFalse, KwNil:
		return true
	default:
		return false
	}
}

// IsKeyword reports whether the token is a language keyword.
func (t Token) IsKeyword() bool {
	switch t.Kind {
	case KwFn, KwLet, KwVar, KwMut, KwIf, KwElse, KwWhile, KwFor, KwIn,
		KwBreak, KwContinue, KwReturn, KwUse, KwAs, KwType, KwTag,
		KwSpec, KwHas, KwIs, KwTrue, KwFalse, KwNil:
		return true
	default:
		return false
	}
}

// IsPunctOrOp reports whether the token is a punctuation or operator.
func (t Token) IsPunctOrOp() bool {
	switch t.Kind {
	case Plus, Minus, Star, Slash, Percent, Assign, PlusAssign, MinusAssign,
		StarAssign, SlashAssign, EqEq, Bang, BangEq, Lt, LtEq, Gt, GtEq,
		AndAnd, OrOr, Amp, Pipe, Colon, Semicolon, Comma, Dot, DotDot,
		DotDotEq, Arrow, FatArrow, Question, At, Hash, Dollar,
		LParen, RParen, LBrace, RBrace, LBracket, RBracket:
		return true
	default:
		return false
	}
}

// IsIdent reports whether the token is an identifier.
func (t Token) IsIdent() bool { return t.Kind == Ident }

// Terminates reports whether the token ends a statement.
func (t Token) Terminates() bool {
	return t.Kind == Newline || t.Kind == Semicolon || t.Kind == EOF
}
