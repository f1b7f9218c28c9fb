package parser

import "autoc/internal/token"

// Binary operator precedence, low to high. Assignment is handled in
// statement parsing, so the climb starts at range.
const (
	precNone           = 0
	precRange          = 1 // .. ..=
	precLogicalOr      = 2 // ||
	precLogicalAnd     = 3 // &&
	precEquality       = 4 // == !=
	precComparison     = 5 // < <= > >=
	precAdditive       = 6 // + -
	precMultiplicative = 7 // * / %
)

// binaryPrec returns the climbing precedence for k, or precNone when
// k is not a binary operator.
func binaryPrec(k token.Kind) int {
	switch k {
	case token.DotDot, token.DotDotEq:
		return precRange
	case token.OrOr:
		return precLogicalOr
	case token.AndAnd:
		return precLogicalAnd
	case token.EqEq, token.BangEq:
		return precEquality
	case token.Lt, token.LtEq, token.Gt, token.GtEq:
		return precComparison
	case token.Plus, token.Minus:
		return precAdditive
	case token.Star, token.Slash, token.Percent:
		return precMultiplicative
	default:
		return precNone
	}
}

// isAssignOp reports whether k starts an assignment statement tail.
func isAssignOp(k token.Kind) bool {
	switch k {
	case token.Assign, token.PlusAssign, token.MinusAssign, token.StarAssign, token.SlashAssign:
		return true
	default:
		return false
	}
}
