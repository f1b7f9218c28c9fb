package token_test

import (
	"testing"

	"autoc/internal/source"
	"autoc/internal/token"
)

func tok(k token.Kind) token.Token {
	return token.Token{Kind: k, Span: source.Span{Start: 0, End: 0}}
}

func TestIsLiteral(t *testing.T) {
	lits := []token.Kind{
		token.IntLit, token.UintLit, token.U8Lit, token.I8Lit,
		token.FloatLit, token.DoubleLit, token.StrLit, token.CStrLit,
		token.CharLit, token.KwTrue, token.KwFalse,
	}
	for _, k := range lits {
		if !tok(k).IsLiteral() {
			t.Fatalf("%v should be literal", k)
		}
	}
	non := []token.Kind{token.Ident, token.KwLet, token.Plus, token.LParen, token.FStrPart}
	for _, k := range non {
		if tok(k).IsLiteral() {
			t.Fatalf("%v must NOT be literal", k)
		}
	}
}

func TestIsPunctOrOp(t *testing.T) {
	ops := []token.Kind{
		token.Plus, token.Minus, token.Star, token.Slash, token.Percent,
		token.Assign, token.PlusAssign, token.MinusAssign, token.StarAssign,
		token.SlashAssign, token.EqEq, token.Bang, token.BangEq,
		token.Lt, token.LtEq, token.Gt, token.GtEq, token.AndAnd, token.OrOr,
		token.Colon, token.Semicolon, token.Comma, token.Dot, token.DotDot,
		token.DotDotEq, token.Arrow, token.FatArrow, token.Dollar,
		token.LParen, token.RParen, token.LBrace, token.RBrace,
	}
	for _, k := range ops {
		if !tok(k).IsPunctOrOp() {
			t.Fatalf("%v should be punct/op", k)
		}
	}
	non := []token.Kind{token.Ident, token.KwIf, token.IntLit, token.Newline}
	for _, k := range non {
		if tok(k).IsPunctOrOp() {
			t.Fatalf("%v must NOT be punct/op", k)
		}
	}
}

func TestIsKeyword(t *testing.T) {
	kws := []token.Kind{
		token.KwFn, token.KwLet, token.KwVar, token.KwMut, token.KwIf,
		token.KwElse, token.KwWhile, token.KwFor, token.KwIn, token.KwBreak,
		token.KwContinue, token.KwReturn, token.KwUse, token.KwAs,
		token.KwType, token.KwTag, token.KwSpec, token.KwHas, token.KwIs,
	}
	for _, k := range kws {
		if !tok(k).IsKeyword() {
			t.Fatalf("%v should be keyword", k)
		}
	}
}

func TestTerminates(t *testing.T) {
	for _, k := range []token.Kind{token.Newline, token.Semicolon, token.EOF} {
		if !tok(k).Terminates() {
			t.Fatalf("%v should terminate a statement", k)
		}
	}
	if tok(token.RBrace).Terminates() {
		t.Fatal("RBrace is not a statement terminator by itself")
	}
}
