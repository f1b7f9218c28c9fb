package parser

import (
	"autoc/internal/ast"
	"autoc/internal/diag"
	"autoc/internal/token"
)

// parseUse parses an import directive:
//
//	use math        Auto module import
//	use c stdio     C header pass-through (#include <stdio.h>)
func (p *Parser) parseUse() (*ast.UseDecl, bool) {
	kw := p.advance() // 'use'

	first, ok := p.parseName(diag.SynBadUseDirective)
	if !ok {
		return nil, false
	}

	decl := &ast.UseDecl{Kind: ast.UseAuto, Path: first, Pos: kw.Span.Cover(first.Pos)}
	if first.Text == "c" && p.at(token.Ident) {
		header, ok := p.parseName(diag.SynBadUseDirective)
		if !ok {
			return nil, false
		}
		decl.Kind = ast.UseC
		decl.Path = header
		decl.Pos = kw.Span.Cover(header.Pos)
	}

	if !p.endOfStmt() {
		return nil, false
	}
	return decl, true
}
