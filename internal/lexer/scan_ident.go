package lexer

import (
	"golang.org/x/text/unicode/norm"

	"autoc/internal/token"
)

// scanIdentOrKeyword scans an identifier and classifies keywords.
// Token.Text is the exact source slice for ASCII identifiers and the
// NFC normalization of it otherwise, so two spellings of the same
// grapheme resolve to one symbol.
func (lx *Lexer) scanIdentOrKeyword() token.Token {
	start := lx.cursor.Mark()

	r, sz := lx.peekRune()
	if sz == 0 {
		sp := lx.cursor.SpanFrom(start)
		return token.Token{Kind: token.Invalid, Span: sp}
	}

	ascii := true
	if r < 0x80 {
		if !isIdentStartByte(byte(r)) {
			return lx.scanOperatorOrPunct()
		}
		lx.cursor.Bump()
		for {
			b := lx.cursor.Peek()
			if isIdentContinueByte(b) {
				lx.cursor.Bump()
				continue
			}
			if b >= 0x80 {
				ascii = false
				r2, sz2 := lx.peekRune()
				if sz2 == 0 || !isIdentContinueRune(r2) {
					break
				}
				lx.bumpRune()
				continue
			}
			break
		}
	} else {
		ascii = false
		if !isIdentStartRune(r) {
			return lx.scanOperatorOrPunct()
		}
		lx.bumpRune()
		for {
			r2, sz2 := lx.peekRune()
			if sz2 == 0 || !isIdentContinueRune(r2) {
				break
			}
			lx.bumpRune()
		}
	}

	sp := lx.cursor.SpanFrom(start)
	text := string(lx.file.Content[sp.Start:sp.End])
	if !ascii {
		text = norm.NFC.String(text)
	}

	if k, ok := token.LookupKeyword(text); ok {
		return token.Token{Kind: k, Span: sp, Text: text}
	}
	// Repeated identifiers share one backing string.
	return token.Token{Kind: token.Ident, Span: sp, Text: lx.names.Canonical(text)}
}
