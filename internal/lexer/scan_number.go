package lexer

import (
	"autoc/internal/diag"
	"autoc/internal/token"
)

// scanNumber scans decimal, hex (0x), binary (0b) and floating point
// literals. Width/signedness suffixes pick the literal kind: 'u' for
// uint, 'u8'/'i8' for the byte-sized kinds, 'f' for 32-bit float. No
// suffix means the widest signed integer, unless a decimal point or
// exponent makes it a double. A leading minus is never part of the
// literal; negation stays a unary operator in the parser.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()
	kind := token.IntLit

	bad := func(msg string) token.Token {
		lx.skipToLineEnd()
		sp := lx.cursor.SpanFrom(start)
		lx.errLex(diag.LexBadNumber, sp, msg)
		return token.Token{Kind: token.Invalid, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
	}

	// ".5" form: leading dot with a digit after it.
	if lx.cursor.Peek() == '.' {
		lx.cursor.Bump()
		kind = token.DoubleLit
		for isDec(lx.cursor.Peek()) || lx.cursor.Peek() == '_' {
			lx.cursor.Bump()
		}
		return lx.scanExponentAndSuffix(start, kind)
	}

	// Hex and binary bases.
	if lx.cursor.Peek() == '0' {
		if b0, b1, ok := lx.cursor.Peek2(); ok && b0 == '0' {
			switch b1 {
			case 'x', 'X':
				lx.cursor.Bump()
				lx.cursor.Bump()
				if !isHex(lx.cursor.Peek()) {
					return bad("expected hex digit after 0x")
				}
				for isHex(lx.cursor.Peek()) || lx.cursor.Peek() == '_' {
					lx.cursor.Bump()
				}
				return lx.scanIntSuffix(start)
			case 'b', 'B':
				lx.cursor.Bump()
				lx.cursor.Bump()
				b := lx.cursor.Peek()
				if b != '0' && b != '1' {
					return bad("expected binary digit after 0b")
				}
				for {
					b := lx.cursor.Peek()
					if b == '0' || b == '1' || b == '_' {
						lx.cursor.Bump()
					} else {
						break
					}
				}
				return lx.scanIntSuffix(start)
			}
		}
	}

	for isDec(lx.cursor.Peek()) || lx.cursor.Peek() == '_' {
		lx.cursor.Bump()
	}

	// Fractional part. ".." after the integer part is a range operator,
	// not a fraction.
	if b0, b1, ok := lx.cursor.Peek2(); ok && b0 == '.' && b1 != '.' && isDec(b1) {
		lx.cursor.Bump()
		kind = token.DoubleLit
		for isDec(lx.cursor.Peek()) || lx.cursor.Peek() == '_' {
			lx.cursor.Bump()
		}
	}

	return lx.scanExponentAndSuffix(start, kind)
}

func (lx *Lexer) scanExponentAndSuffix(start Mark, kind token.Kind) token.Token {
	if b := lx.cursor.Peek(); b == 'e' || b == 'E' {
		kind = token.DoubleLit
		lx.cursor.Bump()
		if b := lx.cursor.Peek(); b == '+' || b == '-' {
			lx.cursor.Bump()
		}
		if !isDec(lx.cursor.Peek()) {
			lx.skipToLineEnd()
			sp := lx.cursor.SpanFrom(start)
			lx.errLex(diag.LexBadNumber, sp, "expected digit after exponent")
			return token.Token{Kind: token.Invalid, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
		}
		for isDec(lx.cursor.Peek()) || lx.cursor.Peek() == '_' {
			lx.cursor.Bump()
		}
	}

	if kind == token.IntLit {
		return lx.scanIntSuffix(start)
	}

	// 'f' narrows a double literal to float.
	if lx.cursor.Eat('f') {
		kind = token.FloatLit
	}
	sp := lx.cursor.SpanFrom(start)
	return token.Token{Kind: kind, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
}

// scanIntSuffix applies 'u', 'u8', 'i8' and 'f' suffixes to an integer
// literal.
func (lx *Lexer) scanIntSuffix(start Mark) token.Token {
	kind := token.IntLit
	switch lx.cursor.Peek() {
	case 'u':
		kind = token.UintLit
		lx.cursor.Bump()
		if lx.cursor.Eat('8') {
			kind = token.U8Lit
		}
	case 'i':
		if _, b1, ok := lx.cursor.Peek2(); ok && b1 == '8' {
			lx.cursor.Bump()
			lx.cursor.Bump()
			kind = token.I8Lit
		}
	case 'f':
		lx.cursor.Bump()
		kind = token.FloatLit
	}
	sp := lx.cursor.SpanFrom(start)
	return token.Token{Kind: kind, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
}
