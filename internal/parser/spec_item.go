package parser

import (
	"autoc/internal/ast"
	"autoc/internal/diag"
	"autoc/internal/token"
)

// parseSpec parses a method-signature set:
//
//	spec Storage<T> {
//	    fn get(i int) T
//	    fn put(i int, v T)
//	}
func (p *Parser) parseSpec() (*ast.SpecDecl, bool) {
	kw := p.advance() // 'spec'

	name, ok := p.parseName(diag.SynExpectIdentifier)
	if !ok {
		return nil, false
	}
	decl := &ast.SpecDecl{Name: name, Pos: kw.Span}

	decl.TypeParams, ok = p.parseTypeParams()
	if !ok {
		return nil, false
	}

	if _, ok := p.expect(token.LBrace, diag.SynUnclosedBlock, "expected '{' to open spec body"); !ok {
		return nil, false
	}

	p.skipNewlines()
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		if !p.at(token.KwFn) {
			p.err(diag.SynExpectSpecMethod, "expected 'fn' signature in spec body, got "+p.lx.Peek().Kind.String())
			return nil, false
		}
		sig, ok := p.parseFnSig()
		if !ok {
			return nil, false
		}
		decl.Methods = append(decl.Methods, sig)
		if !p.endOfStmt() {
			return nil, false
		}
		p.skipNewlines()
	}

	closeTok, ok := p.expect(token.RBrace, diag.SynUnclosedBlock, "expected '}' to close spec body")
	if !ok {
		return nil, false
	}
	decl.Pos = kw.Span.Cover(closeTok.Span)
	p.eat(token.Newline)
	return decl, true
}
