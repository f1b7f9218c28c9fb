package parser

import (
	"autoc/internal/ast"
	"autoc/internal/diag"
	"autoc/internal/token"
)

// parseStmt parses one statement including its terminator.
func (p *Parser) parseStmt() (ast.Stmt, bool) {
	switch p.lx.Peek().Kind {
	case token.KwLet, token.KwVar:
		return p.parseStore()

	case token.KwReturn:
		return p.parseReturn()

	case token.KwBreak:
		kw := p.advance()
		if !p.endOfStmt() {
			return nil, false
		}
		return &ast.BreakStmt{Pos: kw.Span}, true

	case token.KwContinue:
		kw := p.advance()
		if !p.endOfStmt() {
			return nil, false
		}
		return &ast.ContinueStmt{Pos: kw.Span}, true

	case token.KwWhile:
		return p.parseWhile()

	case token.KwFor:
		return p.parseForIn()

	case token.KwIf:
		// Statement position: else is optional.
		x, ok := p.parseIf(false)
		if !ok || !p.endOfStmt() {
			return nil, false
		}
		return &ast.ExprStmt{X: x}, true

	case token.KwIs:
		x, ok := p.parseIs()
		if !ok || !p.endOfStmt() {
			return nil, false
		}
		return &ast.ExprStmt{X: x}, true

	case token.LBrace:
		block, ok := p.parseBlock()
		if !ok || !p.endOfStmt() {
			return nil, false
		}
		return &ast.ExprStmt{X: block}, true

	default:
		return p.parseSimpleStmt()
	}
}

// parseStore parses let/var bindings:
//
//	let x = e
//	let x T = e
//	var x = e
//	let mut x = e
func (p *Parser) parseStore() (ast.Stmt, bool) {
	kw := p.advance()
	mut := kw.Kind == token.KwVar
	if p.eat(token.KwMut) {
		mut = true
	}

	name, ok := p.parseName(diag.SynExpectIdentifier)
	if !ok {
		return nil, false
	}

	var typ *ast.TypeRef
	if p.at(token.Ident) || p.at(token.LBracket) {
		typ, ok = p.parseTypeRef()
		if !ok {
			return nil, false
		}
	}

	var value ast.Expr
	if p.eat(token.Assign) {
		value, ok = p.parseExprAllowStructLit()
		if !ok {
			return nil, false
		}
	}
	if !p.endOfStmt() {
		return nil, false
	}

	end := name.Pos
	if value != nil {
		end = value.Span()
	} else if typ != nil {
		end = typ.Pos
	}
	return &ast.StoreStmt{
		Name:  name,
		Mut:   mut,
		Type:  typ,
		Value: value,
		Pos:   kw.Span.Cover(end),
	}, true
}

func (p *Parser) parseReturn() (ast.Stmt, bool) {
	kw := p.advance()
	var value ast.Expr
	if !p.lx.Peek().Terminates() && !p.at(token.RBrace) {
		var ok bool
		value, ok = p.parseExprAllowStructLit()
		if !ok {
			return nil, false
		}
	}
	if !p.endOfStmt() {
		return nil, false
	}
	end := kw.Span
	if value != nil {
		end = value.Span()
	}
	return &ast.ReturnStmt{Value: value, Pos: kw.Span.Cover(end)}, true
}

func (p *Parser) parseWhile() (ast.Stmt, bool) {
	kw := p.advance()

	saved := p.noStructLit
	p.noStructLit = true
	cond, ok := p.parseExpr()
	p.noStructLit = saved
	if !ok {
		return nil, false
	}

	body, ok := p.parseBlock()
	if !ok || !p.endOfStmt() {
		return nil, false
	}
	return &ast.WhileStmt{Cond: cond, Body: body, Pos: kw.Span.Cover(body.Span())}, true
}

func (p *Parser) parseForIn() (ast.Stmt, bool) {
	kw := p.advance()

	name, ok := p.parseName(diag.SynExpectIdentifier)
	if !ok {
		return nil, false
	}
	if _, ok := p.expect(token.KwIn, diag.SynForMissingIn, "expected 'in' after loop variable"); !ok {
		return nil, false
	}

	saved := p.noStructLit
	p.noStructLit = true
	iterable, ok := p.parseExpr()
	p.noStructLit = saved
	if !ok {
		return nil, false
	}

	body, ok := p.parseBlock()
	if !ok || !p.endOfStmt() {
		return nil, false
	}
	return &ast.ForInStmt{
		Var:      name,
		Iterable: iterable,
		Body:     body,
		Pos:      kw.Span.Cover(body.Span()),
	}, true
}

// parseSimpleStmt parses an expression statement or an assignment.
func (p *Parser) parseSimpleStmt() (ast.Stmt, bool) {
	x, ok := p.parseExpr()
	if !ok {
		return nil, false
	}

	if isAssignOp(p.lx.Peek().Kind) {
		op := p.advance()
		value, ok := p.parseExprAllowStructLit()
		if !ok {
			return nil, false
		}
		if !p.endOfStmt() {
			return nil, false
		}
		return &ast.AssignStmt{Op: op.Kind, Target: x, Value: value}, true
	}

	if !p.endOfStmt() {
		return nil, false
	}
	return &ast.ExprStmt{X: x}, true
}
