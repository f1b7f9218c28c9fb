package parser

import (
	"autoc/internal/ast"
	"autoc/internal/diag"
	"autoc/internal/token"
)

// parseTypeDecl parses a struct-like type:
//
//	type Name<T> as Spec1, Spec2 {
//	    field Type
//	    has member MemberType for Spec
//	    fn method(...) Ret { ... }
//	}
func (p *Parser) parseTypeDecl() (*ast.TypeDecl, bool) {
	kw := p.advance() // 'type'

	name, ok := p.parseName(diag.SynExpectIdentifier)
	if !ok {
		return nil, false
	}
	decl := &ast.TypeDecl{Name: name, Pos: kw.Span}

	decl.TypeParams, ok = p.parseTypeParams()
	if !ok {
		return nil, false
	}

	if p.eat(token.KwAs) {
		for {
			spec, ok := p.parseName(diag.SynExpectType)
			if !ok {
				return nil, false
			}
			decl.Conforms = append(decl.Conforms, spec)
			if !p.eat(token.Comma) {
				break
			}
		}
	}

	if _, ok := p.expect(token.LBrace, diag.SynUnclosedBlock, "expected '{' to open type body"); !ok {
		return nil, false
	}

	p.skipNewlines()
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		switch p.lx.Peek().Kind {
		case token.KwHas:
			del, ok := p.parseDelegation()
			if !ok {
				return nil, false
			}
			decl.Delegations = append(decl.Delegations, del)

		case token.KwFn:
			m, ok := p.parseFn(name)
			if !ok {
				return nil, false
			}
			decl.Methods = append(decl.Methods, m)

		case token.Ident:
			fname, ok := p.parseName(diag.SynExpectField)
			if !ok {
				return nil, false
			}
			ftype, ok := p.parseTypeRef()
			if !ok {
				return nil, false
			}
			decl.Fields = append(decl.Fields, ast.Field{Name: fname, Type: ftype})
			if !p.endOfStmt() {
				return nil, false
			}

		default:
			p.err(diag.SynExpectField, "expected field, 'has' or 'fn' in type body, got "+p.lx.Peek().Kind.String())
			return nil, false
		}
		p.skipNewlines()
	}

	closeTok, ok := p.expect(token.RBrace, diag.SynUnclosedBlock, "expected '}' to close type body")
	if !ok {
		return nil, false
	}
	decl.Pos = kw.Span.Cover(closeTok.Span)
	p.eat(token.Newline)
	return decl, true
}

// parseDelegation parses `has member MemberType for Spec`: the
// composite forwards Spec's methods to the named member.
func (p *Parser) parseDelegation() (ast.Delegation, bool) {
	kw := p.advance() // 'has'

	member, ok := p.parseName(diag.SynExpectIdentifier)
	if !ok {
		return ast.Delegation{}, false
	}
	mtype, ok := p.parseTypeRef()
	if !ok {
		return ast.Delegation{}, false
	}
	if _, ok := p.expect(token.KwFor, diag.SynUnexpectedToken, "expected 'for' after delegation member"); !ok {
		return ast.Delegation{}, false
	}
	spec, ok := p.parseName(diag.SynExpectType)
	if !ok {
		return ast.Delegation{}, false
	}
	if !p.endOfStmt() {
		return ast.Delegation{}, false
	}
	return ast.Delegation{
		Member: member,
		Type:   mtype,
		Spec:   spec,
		Pos:    kw.Span.Cover(spec.Pos),
	}, true
}
