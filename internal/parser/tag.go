package parser

import (
	"autoc/internal/ast"
	"autoc/internal/diag"
	"autoc/internal/token"
)

// parseTag parses a tagged union:
//
//	tag May<T> {
//	    nil Nil
//	    val T
//	    fn method(...) { ... }
//	}
//
// Variants may also be comma separated on one line. Declaration order
// is discriminant order; duplicate names are rejected here.
func (p *Parser) parseTag() (*ast.TagDecl, bool) {
	kw := p.advance() // 'tag'

	name, ok := p.parseName(diag.SynExpectIdentifier)
	if !ok {
		return nil, false
	}
	decl := &ast.TagDecl{Name: name, Pos: kw.Span}

	decl.TypeParams, ok = p.parseTypeParams()
	if !ok {
		return nil, false
	}

	if _, ok := p.expect(token.LBrace, diag.SynUnclosedBlock, "expected '{' to open tag body"); !ok {
		return nil, false
	}

	seen := make(map[string]bool)
	p.skipNewlines()
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		if p.at(token.KwFn) {
			m, ok := p.parseFn(name)
			if !ok {
				return nil, false
			}
			decl.Methods = append(decl.Methods, m)
			p.skipNewlines()
			continue
		}

		vname, ok := p.parseMemberName(diag.SynExpectVariant)
		if !ok {
			return nil, false
		}
		if seen[vname.Text] {
			p.report(diag.SynDuplicateVariant, vname.Pos, "duplicate variant "+vname.Text)
		}
		seen[vname.Text] = true

		variant := ast.Variant{Name: vname}
		if p.at(token.Ident) {
			variant.Payload, ok = p.parseTypeRef()
			if !ok {
				return nil, false
			}
		}
		decl.Variants = append(decl.Variants, variant)

		if !p.eat(token.Comma) && !p.at(token.RBrace) {
			if !p.endOfStmt() {
				return nil, false
			}
		}
		p.skipNewlines()
	}

	closeTok, ok := p.expect(token.RBrace, diag.SynUnclosedBlock, "expected '}' to close tag body")
	if !ok {
		return nil, false
	}
	decl.Pos = kw.Span.Cover(closeTok.Span)
	p.eat(token.Newline)
	return decl, true
}
