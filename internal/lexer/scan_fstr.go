package lexer

import (
	"autoc/internal/diag"
	"autoc/internal/token"
)

// Interpolated strings come in two spellings with one protocol:
// f"text $name ${expr} more" and `text $name ${expr} more`. Literal
// text is copied verbatim into FStrPart tokens until a '$'. A '$'
// followed by identifier characters yields Dollar + Ident; '$' followed
// by '{' yields Dollar + LBrace and hands the interior back to the
// normal lexer until the matching brace, tracked by depth so nested
// braces do not close the interpolation. FStrEnd closes the literal,
// distinct from the closing quote itself.

// beginFStr emits the FStrStart token and pushes the interpolation
// state. term is the closing delimiter ('"' or '`'); opener is the
// opener length in bytes: 1 for a backtick, 2 for f".
func (lx *Lexer) beginFStr(term byte, opener int) token.Token {
	start := lx.cursor.Mark()
	for i := 0; i < opener; i++ {
		lx.cursor.Bump()
	}
	lx.fstr = append(lx.fstr, fstrState{term: term})
	sp := lx.cursor.SpanFrom(start)
	return token.Token{Kind: token.FStrStart, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
}

// scanFStrRegion scans literal text inside an f-string until the next
// interpolation, the closing delimiter, or an error.
func (lx *Lexer) scanFStrRegion() token.Token {
	st := lx.topFStr()
	start := lx.cursor.Mark()

	flushPart := func() (token.Token, bool) {
		sp := lx.cursor.SpanFrom(start)
		if sp.Empty() {
			return token.Token{}, false
		}
		return token.Token{Kind: token.FStrPart, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}, true
	}

	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()

		// The f"..." form must close on one line; backticks may span lines.
		if b == '\n' && st.term == '"' {
			break
		}

		if b == st.term {
			part, hasPart := flushPart()
			endStart := lx.cursor.Mark()
			lx.cursor.Bump() // closing delimiter
			endSp := lx.cursor.SpanFrom(endStart)
			end := token.Token{Kind: token.FStrEnd, Span: endSp, Text: string(lx.file.Content[endSp.Start:endSp.End])}
			lx.fstr = lx.fstr[:len(lx.fstr)-1]
			if hasPart {
				lx.pending = append(lx.pending, end)
				return part
			}
			return end
		}

		if b == '$' {
			_, b1, ok := lx.cursor.Peek2()
			if ok && (isIdentStartByte(b1) || b1 == '{') {
				part, hasPart := flushPart()

				dollarStart := lx.cursor.Mark()
				lx.cursor.Bump() // '$'
				dollarSp := lx.cursor.SpanFrom(dollarStart)
				dollar := token.Token{Kind: token.Dollar, Span: dollarSp, Text: "$"}

				var next token.Token
				if b1 == '{' {
					braceStart := lx.cursor.Mark()
					lx.cursor.Bump() // '{'
					braceSp := lx.cursor.SpanFrom(braceStart)
					next = token.Token{Kind: token.LBrace, Span: braceSp, Text: "{"}
					st.inExpr = true
					st.depth = 0
				} else {
					next = lx.scanIdentOrKeyword()
				}

				if hasPart {
					lx.pending = append(lx.pending, dollar, next)
					return part
				}
				lx.pending = append(lx.pending, next)
				return dollar
			}
			// Lone '$': literal text.
			lx.cursor.Bump()
			continue
		}

		if b == '\\' {
			lx.cursor.Bump()
			if !lx.cursor.EOF() {
				lx.cursor.Bump()
			}
			continue
		}

		lx.cursor.Bump()
	}

	// Unterminated interpolated string.
	sp := lx.cursor.SpanFrom(start)
	lx.errLex(diag.LexUnterminatedFStr, sp, "unterminated interpolated string")
	lx.fstr = lx.fstr[:len(lx.fstr)-1]
	lx.skipToLineEnd()
	return token.Token{Kind: token.Invalid, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
}
