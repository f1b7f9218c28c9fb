package parser

import (
	"autoc/internal/ast"
	"autoc/internal/diag"
	"autoc/internal/token"
)

// parseTypeRef parses a type as written: Name, Name<Arg, ...> or an
// array type [Elem]. In type position '<' always opens a generic
// argument list.
func (p *Parser) parseTypeRef() (*ast.TypeRef, bool) {
	if p.at(token.LBracket) {
		open := p.advance()
		elem, ok := p.parseTypeRef()
		if !ok {
			return nil, false
		}
		closeTok, ok := p.expect(token.RBracket, diag.SynExpectType, "expected ']' to close array type")
		if !ok {
			return nil, false
		}
		return &ast.TypeRef{Elem: elem, Pos: open.Span.Cover(closeTok.Span)}, true
	}

	name, ok := p.parseName(diag.SynExpectType)
	if !ok {
		return nil, false
	}
	ref := &ast.TypeRef{Name: name, Pos: name.Pos}

	if p.eat(token.Lt) {
		for {
			arg, ok := p.parseTypeRef()
			if !ok {
				return nil, false
			}
			ref.Args = append(ref.Args, arg)
			if !p.eat(token.Comma) {
				break
			}
		}
		closeTok, ok := p.expect(token.Gt, diag.SynExpectType, "expected '>' to close type arguments")
		if !ok {
			return nil, false
		}
		ref.Pos = name.Pos.Cover(closeTok.Span)
	}
	return ref, true
}

// parseTypeParams parses an optional <T, S> parameter list on a
// declaration.
func (p *Parser) parseTypeParams() ([]ast.Name, bool) {
	if !p.eat(token.Lt) {
		return nil, true
	}
	var params []ast.Name
	for {
		name, ok := p.parseName(diag.SynExpectIdentifier)
		if !ok {
			return nil, false
		}
		params = append(params, name)
		if !p.eat(token.Comma) {
			break
		}
	}
	if _, ok := p.expect(token.Gt, diag.SynExpectType, "expected '>' to close type parameters"); !ok {
		return nil, false
	}
	return params, true
}
