package parser

import (
	"autoc/internal/ast"
	"autoc/internal/diag"
	"autoc/internal/token"
)

// parseFnSig parses `fn name(params) RetType?` without a body.
func (p *Parser) parseFnSig() (ast.FnSig, bool) {
	kw, ok := p.expect(token.KwFn, diag.SynUnexpectedToken, "expected 'fn'")
	if !ok {
		return ast.FnSig{}, false
	}

	name, ok := p.parseName(diag.SynExpectIdentifier)
	if !ok {
		return ast.FnSig{}, false
	}

	if _, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "expected '(' after function name"); !ok {
		return ast.FnSig{}, false
	}

	var params []ast.Param
	for !p.at(token.RParen) {
		pname, ok := p.parseName(diag.SynExpectIdentifier)
		if !ok {
			return ast.FnSig{}, false
		}
		ptype, ok := p.parseTypeRef()
		if !ok {
			return ast.FnSig{}, false
		}
		params = append(params, ast.Param{Name: pname, Type: ptype})
		if !p.eat(token.Comma) {
			break
		}
	}
	closeTok, ok := p.expect(token.RParen, diag.SynUnexpectedToken, "expected ')' after parameters")
	if !ok {
		return ast.FnSig{}, false
	}

	sig := ast.FnSig{Name: name, Params: params, Pos: kw.Span.Cover(closeTok.Span)}

	// The return type follows the parameter list directly: fn get() T.
	if p.at(token.Ident) || p.at(token.LBracket) {
		sig.Ret, ok = p.parseTypeRef()
		if !ok {
			return ast.FnSig{}, false
		}
		sig.Pos = sig.Pos.Cover(sig.Ret.Pos)
	}
	return sig, true
}

// parseFn parses a full function declaration with a body. owner names
// the enclosing type or tag for methods; zero for free functions.
func (p *Parser) parseFn(owner ast.Name) (*ast.FnDecl, bool) {
	sig, ok := p.parseFnSig()
	if !ok {
		return nil, false
	}
	body, ok := p.parseBlock()
	if !ok {
		return nil, false
	}
	p.eat(token.Newline)
	return &ast.FnDecl{Sig: sig, Body: body, Owner: owner}, true
}
