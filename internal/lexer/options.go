package lexer

import (
	"autoc/internal/diag"
	"autoc/internal/source"
)

// Options configures a Lexer. A nil Reporter drops diagnostics but the
// lexer keeps scanning; it never aborts the token stream.
type Options struct {
	Reporter diag.Reporter
}

func (lx *Lexer) errLex(code diag.Code, sp source.Span, msg string) {
	if lx.opts.Reporter != nil {
		lx.opts.Reporter.Report(code, diag.SevError, sp, msg, nil)
	}
}
