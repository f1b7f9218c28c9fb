package lexer

import (
	"autoc/internal/diag"
	"autoc/internal/source"
	"autoc/internal/token"
)

// skipBlanksAndComments consumes whitespace and comments. It returns a
// token (and true) in two cases: a Newline statement terminator when at
// least one line break was crossed, and an Invalid token for an
// unterminated block comment. Runs of blank lines collapse into a
// single Newline.
func (lx *Lexer) skipBlanksAndComments() (token.Token, bool) {
	sawNewline := false
	var nlSpan source.Span

	for !lx.cursor.EOF() {
		switch b := lx.cursor.Peek(); b {
		case ' ', '\t', '\r':
			lx.cursor.Bump()

		case '\n':
			if !sawNewline {
				start := lx.cursor.Mark()
				lx.cursor.Bump()
				nlSpan = lx.cursor.SpanFrom(start)
				sawNewline = true
			} else {
				lx.cursor.Bump()
			}

		case '/':
			b0, b1, ok := lx.cursor.Peek2()
			if !ok || b0 != '/' || (b1 != '/' && b1 != '*') {
				goto done
			}
			if b1 == '/' {
				lx.skipToLineEnd()
				continue
			}
			if tok, bad := lx.skipBlockComment(); bad {
				return tok, true
			}

		default:
			goto done
		}
	}

done:
	if sawNewline && lx.started {
		return token.Token{Kind: token.Newline, Span: nlSpan, Text: "\n"}, true
	}
	return token.Token{}, false
}

// skipBlockComment consumes a /* ... */ comment. Block comments do not
// nest: the first */ terminates. An unterminated comment yields an
// Invalid token and scanning resumes at the next line boundary.
func (lx *Lexer) skipBlockComment() (token.Token, bool) {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // '/'
	lx.cursor.Bump() // '*'

	for !lx.cursor.EOF() {
		if lx.try2('*', '/') {
			return token.Token{}, false
		}
		lx.cursor.Bump()
	}

	sp := lx.cursor.SpanFrom(start)
	lx.errLex(diag.LexUnterminatedBlockComment, sp, "unterminated block comment")
	return token.Token{Kind: token.Invalid, Span: sp}, true
}
