package lexer

import (
	"autoc/internal/diag"
	"autoc/internal/token"
)

// scanString scans a plain double-quoted string literal. Escapes are
// consumed byte-for-byte; decoding happens in the parser.
func (lx *Lexer) scanString() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // opening '"'

	for !lx.cursor.EOF() {
		switch b := lx.cursor.Peek(); b {
		case '"':
			lx.cursor.Bump()
			sp := lx.cursor.SpanFrom(start)
			return token.Token{Kind: token.StrLit, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
		case '\\':
			lx.cursor.Bump()
			if lx.cursor.EOF() {
				break
			}
			lx.cursor.Bump()
		case '\n':
			sp := lx.cursor.SpanFrom(start)
			lx.errLex(diag.LexUnterminatedString, sp, "newline in string literal")
			return token.Token{Kind: token.Invalid, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
		default:
			lx.cursor.Bump()
		}
	}

	sp := lx.cursor.SpanFrom(start)
	lx.errLex(diag.LexUnterminatedString, sp, "unterminated string literal")
	return token.Token{Kind: token.Invalid, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
}

// scanCString scans the raw form c"...". No escapes are recognized;
// the bytes pass through to the emitted C verbatim.
func (lx *Lexer) scanCString() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // 'c'
	lx.cursor.Bump() // '"'

	for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
		if lx.cursor.Peek() == '"' {
			lx.cursor.Bump()
			sp := lx.cursor.SpanFrom(start)
			return token.Token{Kind: token.CStrLit, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
		}
		lx.cursor.Bump()
	}

	sp := lx.cursor.SpanFrom(start)
	lx.errLex(diag.LexUnterminatedString, sp, "unterminated c string literal")
	return token.Token{Kind: token.Invalid, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
}

// scanChar scans a single-quoted char literal, including '\n' style
// escapes.
func (lx *Lexer) scanChar() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // opening '\''

	if lx.cursor.Peek() == '\\' {
		lx.cursor.Bump()
		if !lx.cursor.EOF() {
			lx.cursor.Bump()
		}
	} else if !lx.cursor.EOF() && lx.cursor.Peek() != '\'' && lx.cursor.Peek() != '\n' {
		lx.bumpRune()
	}

	if !lx.cursor.Eat('\'') {
		lx.skipToLineEnd()
		sp := lx.cursor.SpanFrom(start)
		lx.errLex(diag.LexUnterminatedChar, sp, "unterminated char literal")
		return token.Token{Kind: token.Invalid, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
	}

	sp := lx.cursor.SpanFrom(start)
	return token.Token{Kind: token.CharLit, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
}
