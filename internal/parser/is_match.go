package parser

import (
	"autoc/internal/ast"
	"autoc/internal/diag"
	"autoc/internal/token"
)

// parseIs parses `is target { branches }`. Branch forms:
//
//	pattern => body      literal or Tag.variant(binding) case
//	if cond => body      guard branch
//	else => body         default branch
//
// Branches are newline separated; a body is either a block or a bare
// expression.
func (p *Parser) parseIs() (ast.Expr, bool) {
	kw := p.advance() // 'is'

	saved := p.noStructLit
	p.noStructLit = true
	target, ok := p.parseExpr()
	p.noStructLit = saved
	if !ok {
		return nil, false
	}

	if _, ok := p.expect(token.LBrace, diag.SynUnclosedBlock, "expected '{' after is target"); !ok {
		return nil, false
	}

	var branches []ast.IsBranch
	p.skipNewlines()
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		br, ok := p.parseIsBranch()
		if !ok {
			return nil, false
		}
		branches = append(branches, br)
		p.skipNewlines()
	}
	closeTok, ok := p.expect(token.RBrace, diag.SynUnclosedBlock, "expected '}' to close is")
	if !ok {
		return nil, false
	}
	return &ast.IsExpr{Target: target, Branches: branches, Pos: kw.Span.Cover(closeTok.Span)}, true
}

func (p *Parser) parseIsBranch() (ast.IsBranch, bool) {
	start := p.lx.Peek().Span

	switch p.lx.Peek().Kind {
	case token.KwElse:
		p.advance()
		if _, ok := p.expect(token.FatArrow, diag.SynUnexpectedToken, "expected '=>' after else"); !ok {
			return ast.IsBranch{}, false
		}
		body, ok := p.parseBranchBody()
		if !ok {
			return ast.IsBranch{}, false
		}
		return ast.IsBranch{Kind: ast.IsElse, Body: body, Pos: start.Cover(body.Span())}, true

	case token.KwIf:
		p.advance()
		savedLit, savedClo := p.noStructLit, p.noClosure
		p.noStructLit, p.noClosure = true, true
		cond, ok := p.parseExpr()
		p.noStructLit, p.noClosure = savedLit, savedClo
		if !ok {
			return ast.IsBranch{}, false
		}
		if _, ok := p.expect(token.FatArrow, diag.SynUnexpectedToken, "expected '=>' after guard"); !ok {
			return ast.IsBranch{}, false
		}
		body, ok := p.parseBranchBody()
		if !ok {
			return ast.IsBranch{}, false
		}
		return ast.IsBranch{Kind: ast.IsGuard, Pattern: cond, Body: body, Pos: start.Cover(body.Span())}, true

	default:
		pat, ok := p.parseIsPattern()
		if !ok {
			return ast.IsBranch{}, false
		}
		if _, ok := p.expect(token.FatArrow, diag.SynUnexpectedToken, "expected '=>' after pattern"); !ok {
			return ast.IsBranch{}, false
		}
		body, ok := p.parseBranchBody()
		if !ok {
			return ast.IsBranch{}, false
		}
		return ast.IsBranch{Kind: ast.IsCase, Pattern: pat, Body: body, Pos: start.Cover(body.Span())}, true
	}
}

// parseIsPattern parses a case pattern: a literal, or a tag variant
// reference Tag.variant with an optional payload binding in parens.
func (p *Parser) parseIsPattern() (ast.Expr, bool) {
	tok := p.lx.Peek()
	if tok.Kind == token.Ident {
		p.advance()
		tag := ast.Name{Text: tok.Text, Pos: tok.Span}
		if !p.eat(token.Dot) {
			// Bare identifier pattern compares by value.
			return &ast.IdentExpr{Name: tag}, true
		}
		variant, ok := p.parseMemberName(diag.SynExpectVariant)
		if !ok {
			return nil, false
		}
		pat := &ast.TagPattern{Tag: tag, Variant: variant, Pos: tag.Pos.Cover(variant.Pos)}
		if p.eat(token.LParen) {
			binding, ok := p.parseName(diag.SynExpectIdentifier)
			if !ok {
				return nil, false
			}
			closeTok, ok := p.expect(token.RParen, diag.SynUnexpectedToken, "expected ')' after binding")
			if !ok {
				return nil, false
			}
			pat.Binding = binding
			pat.Pos = pat.Pos.Cover(closeTok.Span)
		}
		return pat, true
	}

	switch tok.Kind {
	case token.IntLit, token.UintLit, token.U8Lit, token.I8Lit,
		token.CharLit, token.StrLit, token.KwTrue, token.KwFalse, token.KwNil:
		p.advance()
		return &ast.LitExpr{Kind: tok.Kind, Text: tok.Text, Pos: tok.Span}, true
	}
	p.err(diag.SynExpectVariant, "expected case pattern, got "+tok.Kind.String())
	return nil, false
}

// parseBranchBody parses a block or wraps a bare expression in one.
func (p *Parser) parseBranchBody() (*ast.BlockExpr, bool) {
	if p.at(token.LBrace) {
		return p.parseBlock()
	}
	x, ok := p.parseExprAllowStructLit()
	if !ok {
		return nil, false
	}
	return &ast.BlockExpr{
		Stmts: []ast.Stmt{&ast.ExprStmt{X: x}},
		Pos:   x.Span(),
	}, true
}
