// Package lexer turns Auto source text into a token stream. The lexer
// never aborts: illegal input produces an Invalid token and scanning
// resumes at the next line boundary.
package lexer

import (
	"autoc/internal/source"
	"autoc/internal/token"
)

// fstrState tracks one level of interpolated-string scanning. Nested
// interpolations push additional states.
type fstrState struct {
	term   byte // closing delimiter: '"' for f"...", '`' for backticks
	inExpr bool // inside ${...}
	depth  int  // brace nesting inside the embedded expression
}

// Lexer produces significant tokens for one file.
type Lexer struct {
	file    *source.File
	cursor  Cursor
	opts    Options
	names   *source.Interner // canonical identifier text
	look    *token.Token     // one-token lookahead buffer
	pending []token.Token    // queued tokens from f-string scanning
	fstr    []fstrState      // interpolation mode stack
	started bool             // suppresses a Newline before the first token
}

// New creates a lexer over file.
func New(file *source.File, opts Options) *Lexer {
	return &Lexer{
		file:   file,
		cursor: NewCursor(file),
		opts:   opts,
		names:  source.NewInterner(),
	}
}

// Next returns the next significant token. After EOF it always
// returns EOF.
func (lx *Lexer) Next() token.Token {
	if lx.look != nil {
		tok := *lx.look
		lx.look = nil
		return tok
	}
	if len(lx.pending) > 0 {
		tok := lx.pending[0]
		lx.pending = lx.pending[1:]
		return tok
	}

	// Inside an f-string literal region, scan parts instead of tokens.
	if st := lx.topFStr(); st != nil && !st.inExpr {
		return lx.scanFStrRegion()
	}

	if nl, ok := lx.skipBlanksAndComments(); ok {
		return nl
	}

	if lx.cursor.EOF() {
		return token.Token{Kind: token.EOF, Span: lx.EmptySpan()}
	}

	ch := lx.cursor.Peek()
	var tok token.Token

	switch {
	case ch == '`':
		tok = lx.beginFStr('`', 1)

	case isIdentStartByte(ch):
		// "f" or "c" immediately followed by a quote begins a string form.
		if b0, b1, ok := lx.cursor.Peek2(); ok && b1 == '"' && (b0 == 'f' || b0 == 'c') {
			if b0 == 'f' {
				tok = lx.beginFStr('"', 2)
			} else {
				tok = lx.scanCString()
			}
			break
		}
		tok = lx.scanIdentOrKeyword()

	case ch >= 0x80:
		tok = lx.scanIdentOrKeyword()

	case isDec(ch):
		tok = lx.scanNumber()

	case ch == '.' && lx.isNumberAfterDot():
		tok = lx.scanNumber()

	case ch == '"':
		tok = lx.scanString()

	case ch == '\'':
		tok = lx.scanChar()

	default:
		tok = lx.scanOperatorOrPunct()
	}

	lx.started = true
	lx.trackInterpBraces(tok)
	return tok
}

// Peek returns the next token without consuming it.
func (lx *Lexer) Peek() token.Token {
	t := lx.Next()
	lx.look = &t
	return t
}

// EmptySpan returns a zero-width span at the current position.
func (lx *Lexer) EmptySpan() source.Span {
	return source.Span{File: lx.file.ID, Start: lx.cursor.Off, End: lx.cursor.Off}
}

// File returns the file the lexer scans.
func (lx *Lexer) File() *source.File { return lx.file }

func (lx *Lexer) topFStr() *fstrState {
	if len(lx.fstr) == 0 {
		return nil
	}
	return &lx.fstr[len(lx.fstr)-1]
}

// trackInterpBraces keeps the ${...} brace depth in sync while an
// embedded expression is being scanned, so nested braces do not close
// the interpolation early.
func (lx *Lexer) trackInterpBraces(tok token.Token) {
	st := lx.topFStr()
	if st == nil || !st.inExpr {
		return
	}
	switch tok.Kind {
	case token.LBrace:
		st.depth++
	case token.RBrace:
		if st.depth == 0 {
			// This brace closed the interpolation; back to literal text.
			st.inExpr = false
		} else {
			st.depth--
		}
	}
}

// Checks the ".5" case: a dot directly followed by a digit.
func (lx *Lexer) isNumberAfterDot() bool {
	b0, b1, ok := lx.cursor.Peek2()
	return ok && b0 == '.' && isDec(b1)
}
