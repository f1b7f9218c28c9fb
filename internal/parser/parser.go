// Package parser builds the AST for one Auto module with a recursive
// descent parser and precedence climbing for expressions. Errors are
// reported through diag and recovery resynchronizes at the next
// top-level starter, so one bad declaration never hides the rest of
// the module.
package parser

import (
	"slices"
	"strings"

	"autoc/internal/ast"
	"autoc/internal/diag"
	"autoc/internal/lexer"
	"autoc/internal/source"
	"autoc/internal/token"
)

// Options configures a single parse.
type Options struct {
	MaxErrors uint // 0 means unlimited
	Reporter  diag.Reporter
}

// Parser holds the state for one file.
type Parser struct {
	lx          *lexer.Lexer
	opts        Options
	errors      uint
	lastSpan    source.Span // span of the last consumed token, for diagnostics at EOF
	noStructLit bool        // set inside if/while/for/is headers, where '{' opens the body
	noClosure   bool        // set inside is-guard conditions, where '=>' opens the branch body
}

// ParseFile parses one module. The lexer must be positioned at the
// start of the file.
func ParseFile(lx *lexer.Lexer, opts Options) *ast.File {
	p := &Parser{
		lx:       lx,
		opts:     opts,
		lastSpan: lx.EmptySpan(),
	}
	file := &ast.File{
		FileID: lx.File().ID,
		Module: moduleName(lx.File().Path),
	}
	p.parseTop(file)
	return file
}

// moduleName derives the module name from the file path: base name
// without extension.
func moduleName(path string) string {
	base := path
	if i := strings.LastIndexByte(base, '/'); i >= 0 {
		base = base[i+1:]
	}
	if i := strings.LastIndexByte(base, '.'); i > 0 {
		base = base[:i]
	}
	return base
}

// parseTop is the top-level loop: declarations are collected into
// file.Decls, loose statements (script-style modules) into file.Stmts.
func (p *Parser) parseTop(file *ast.File) {
	for !p.at(token.EOF) {
		if p.eat(token.Newline) {
			continue
		}
		switch p.lx.Peek().Kind {
		case token.KwUse:
			if d, ok := p.parseUse(); ok {
				file.Decls = append(file.Decls, d)
			} else {
				p.resyncTop()
			}
		case token.KwFn:
			if d, ok := p.parseFn(ast.Name{}); ok {
				file.Decls = append(file.Decls, d)
			} else {
				p.resyncTop()
			}
		case token.KwType:
			if d, ok := p.parseTypeDecl(); ok {
				file.Decls = append(file.Decls, d)
			} else {
				p.resyncTop()
			}
		case token.KwTag:
			if d, ok := p.parseTag(); ok {
				file.Decls = append(file.Decls, d)
			} else {
				p.resyncTop()
			}
		case token.KwSpec:
			if d, ok := p.parseSpec(); ok {
				file.Decls = append(file.Decls, d)
			} else {
				p.resyncTop()
			}
		default:
			if s, ok := p.parseStmt(); ok {
				file.Stmts = append(file.Stmts, s)
			} else {
				p.resyncTop()
			}
		}
	}
}

// resyncTop skips tokens until the next top-level starter, a
// statement boundary, or EOF. Recovery point for a failed item.
func (p *Parser) resyncTop() {
	for !p.at(token.EOF) {
		k := p.lx.Peek().Kind
		if isTopStarter(k) {
			return
		}
		p.advance()
		if k == token.Newline || k == token.Semicolon {
			return
		}
	}
}

func isTopStarter(k token.Kind) bool {
	switch k {
	case token.KwUse, token.KwFn, token.KwType, token.KwTag, token.KwSpec:
		return true
	default:
		return false
	}
}

func (p *Parser) at(k token.Kind) bool {
	return p.lx.Peek().Kind == k
}

func (p *Parser) atOr(kinds ...token.Kind) bool {
	return slices.Contains(kinds, p.lx.Peek().Kind)
}

func (p *Parser) advance() token.Token {
	tok := p.lx.Next()
	if tok.Kind != token.EOF && tok.Kind != token.Invalid {
		p.lastSpan = tok.Span
	}
	return tok
}

// eat consumes the next token when it matches k.
func (p *Parser) eat(k token.Kind) bool {
	if p.at(k) {
		p.advance()
		return true
	}
	return false
}

// skipNewlines consumes a run of newline terminators, e.g. inside
// braced bodies where blank lines are allowed.
func (p *Parser) skipNewlines() {
	for p.eat(token.Newline) {
	}
}

// diagSpan picks the best span for a diagnostic at the current
// position: the lookahead token's span, or just past the last
// consumed token at EOF.
func (p *Parser) diagSpan() source.Span {
	peek := p.lx.Peek()
	if peek.Kind == token.EOF && p.lastSpan.End > 0 {
		return source.Span{File: p.lastSpan.File, Start: p.lastSpan.End, End: p.lastSpan.End}
	}
	return peek.Span
}

// expect consumes a token of kind k or reports code.
func (p *Parser) expect(k token.Kind, code diag.Code, msg string) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	sp := p.diagSpan()
	p.report(code, sp, msg)
	return token.Token{Kind: token.Invalid, Span: sp}, false
}

func (p *Parser) err(code diag.Code, msg string) {
	p.report(code, p.diagSpan(), msg)
}

func (p *Parser) report(code diag.Code, sp source.Span, msg string) {
	if p.opts.Reporter == nil {
		return
	}
	p.errors++
	if p.opts.MaxErrors != 0 && p.errors > p.opts.MaxErrors {
		return
	}
	p.opts.Reporter.Report(code, diag.SevError, sp, msg, nil)
}

// parseName expects an identifier.
func (p *Parser) parseName(code diag.Code) (ast.Name, bool) {
	if p.at(token.Ident) {
		tok := p.advance()
		return ast.Name{Text: tok.Text, Pos: tok.Span}, true
	}
	p.err(code, "expected identifier, got "+p.lx.Peek().Kind.String())
	return ast.Name{}, false
}

// parseMemberName is parseName that also admits the literal keywords
// nil/true/false, which are legal variant and member names (May.nil).
func (p *Parser) parseMemberName(code diag.Code) (ast.Name, bool) {
	if p.atOr(token.Ident, token.KwNil, token.KwTrue, token.KwFalse) {
		tok := p.advance()
		return ast.Name{Text: tok.Text, Pos: tok.Span}, true
	}
	p.err(code, "expected identifier, got "+p.lx.Peek().Kind.String())
	return ast.Name{}, false
}

// endOfStmt consumes the statement terminator. A closing brace or EOF
// terminates without being consumed.
func (p *Parser) endOfStmt() bool {
	switch p.lx.Peek().Kind {
	case token.Newline, token.Semicolon:
		p.advance()
		return true
	case token.RBrace, token.EOF:
		return true
	default:
		p.err(diag.SynExpectTerminator, "expected end of statement, got "+p.lx.Peek().Kind.String())
		return false
	}
}
