package parser

import (
	"autoc/internal/ast"
	"autoc/internal/diag"
	"autoc/internal/source"
	"autoc/internal/token"
)

// parseExpr parses a full expression.
func (p *Parser) parseExpr() (ast.Expr, bool) {
	return p.parseBinary(precRange)
}

// parseBinary climbs the operator precedence ladder. All binary
// operators are left-associative; ranges are non-chaining but parse
// the same way and are rejected in sema if nested.
func (p *Parser) parseBinary(minPrec int) (ast.Expr, bool) {
	left, ok := p.parseUnary()
	if !ok {
		return nil, false
	}
	for {
		k := p.lx.Peek().Kind
		prec := binaryPrec(k)
		if prec == precNone || prec < minPrec {
			return left, true
		}
		p.advance()
		right, ok := p.parseBinary(prec + 1)
		if !ok {
			return nil, false
		}
		if k == token.DotDot || k == token.DotDotEq {
			left = &ast.RangeExpr{
				Low:       left,
				High:      right,
				Inclusive: k == token.DotDotEq,
				Pos:       left.Span().Cover(right.Span()),
			}
		} else {
			left = &ast.BinaryExpr{Op: k, Left: left, Right: right}
		}
	}
}

// parseUnary handles prefix minus and logical not. Negation is a
// unary node; -1 is never a negative literal token.
func (p *Parser) parseUnary() (ast.Expr, bool) {
	if p.atOr(token.Minus, token.Bang) {
		op := p.advance()
		operand, ok := p.parseUnary()
		if !ok {
			return nil, false
		}
		return &ast.UnaryExpr{Op: op.Kind, Operand: operand, Pos: op.Span}, true
	}
	return p.parsePostfix()
}

// parsePostfix parses an atom followed by any chain of calls,
// indexing and member access.
func (p *Parser) parsePostfix() (ast.Expr, bool) {
	x, ok := p.parseAtom()
	if !ok {
		return nil, false
	}
	for {
		switch p.lx.Peek().Kind {
		case token.LParen:
			args, closeSp, ok := p.parseArgs()
			if !ok {
				return nil, false
			}
			x = &ast.CallExpr{Callee: x, Args: args, Pos: x.Span().Cover(closeSp)}
		case token.LBracket:
			p.advance()
			idx, ok := p.parseExpr()
			if !ok {
				return nil, false
			}
			closeTok, ok := p.expect(token.RBracket, diag.SynUnexpectedToken, "expected ']' after index")
			if !ok {
				return nil, false
			}
			x = &ast.IndexExpr{Seq: x, Index: idx, Pos: x.Span().Cover(closeTok.Span)}
		case token.Dot:
			p.advance()
			member, ok := p.parseMemberName(diag.SynExpectIdentifier)
			if !ok {
				return nil, false
			}
			x = &ast.DotExpr{Object: x, Member: member}
		default:
			return x, true
		}
	}
}

// parseArgs parses a parenthesized argument list and returns the span
// of the closing paren.
func (p *Parser) parseArgs() ([]ast.Expr, source.Span, bool) {
	p.advance() // '('
	var args []ast.Expr
	p.skipNewlines()
	for !p.at(token.RParen) {
		arg, ok := p.parseExprAllowStructLit()
		if !ok {
			return nil, source.Span{}, false
		}
		args = append(args, arg)
		p.skipNewlines()
		if !p.eat(token.Comma) {
			break
		}
		p.skipNewlines()
	}
	closeTok, ok := p.expect(token.RParen, diag.SynUnexpectedToken, "expected ')' after arguments")
	if !ok {
		return nil, source.Span{}, false
	}
	return args, closeTok.Span, true
}

// parseExprAllowStructLit lifts the struct-literal restriction inside
// bracketed contexts, where a following '{' is unambiguous.
func (p *Parser) parseExprAllowStructLit() (ast.Expr, bool) {
	saved := p.noStructLit
	p.noStructLit = false
	x, ok := p.parseExpr()
	p.noStructLit = saved
	return x, ok
}

// parseAtom parses the smallest expression units.
func (p *Parser) parseAtom() (ast.Expr, bool) {
	tok := p.lx.Peek()
	switch tok.Kind {
	case token.IntLit, token.UintLit, token.U8Lit, token.I8Lit,
		token.FloatLit, token.DoubleLit,
		token.StrLit, token.CStrLit, token.CharLit,
		token.KwTrue, token.KwFalse, token.KwNil:
		p.advance()
		return &ast.LitExpr{Kind: tok.Kind, Text: tok.Text, Pos: tok.Span}, true

	case token.Ident:
		p.advance()
		name := ast.Name{Text: tok.Text, Pos: tok.Span}
		if p.at(token.FatArrow) && !p.noClosure {
			return p.parseClosureBody([]ast.Param{{Name: name}}, name.Pos)
		}
		if p.at(token.LBrace) && !p.noStructLit {
			return p.parseStructLit(name)
		}
		return &ast.IdentExpr{Name: name}, true

	case token.LParen:
		return p.parseParenOrClosure()

	case token.LBracket:
		return p.parseArrayLit()

	case token.LBrace:
		block, ok := p.parseBlock()
		if !ok {
			return nil, false
		}
		return block, true

	case token.KwIf:
		return p.parseIf(true)

	case token.KwIs:
		return p.parseIs()

	case token.FStrStart:
		return p.parseFStr()

	default:
		p.err(diag.SynExpectExpression, "expected expression, got "+tok.Kind.String())
		return nil, false
	}
}

// parseParenOrClosure disambiguates (expr) grouping from a closure
// parameter list (a, b) => body. The expressions are parsed first; a
// following '=>' reinterprets them as parameters, which must all be
// bare identifiers.
func (p *Parser) parseParenOrClosure() (ast.Expr, bool) {
	open := p.advance() // '('

	var exprs []ast.Expr
	for !p.at(token.RParen) {
		x, ok := p.parseExprAllowStructLit()
		if !ok {
			return nil, false
		}
		exprs = append(exprs, x)
		if !p.eat(token.Comma) {
			break
		}
	}
	if _, ok := p.expect(token.RParen, diag.SynUnexpectedToken, "expected ')'"); !ok {
		return nil, false
	}

	if p.at(token.FatArrow) && !p.noClosure {
		params := make([]ast.Param, 0, len(exprs))
		for _, x := range exprs {
			id, ok := x.(*ast.IdentExpr)
			if !ok {
				p.report(diag.SynUnexpectedToken, x.Span(), "closure parameter must be an identifier")
				return nil, false
			}
			params = append(params, ast.Param{Name: id.Name})
		}
		return p.parseClosureBody(params, open.Span)
	}

	if len(exprs) != 1 {
		p.report(diag.SynExpectExpression, open.Span, "parenthesized expression must hold exactly one value")
		return nil, false
	}
	return exprs[0], true
}

// parseClosureBody parses the tail after the parameter list: '=>'
// then a block or a bare expression wrapped in one.
func (p *Parser) parseClosureBody(params []ast.Param, start source.Span) (ast.Expr, bool) {
	p.advance() // '=>'

	var body *ast.BlockExpr
	if p.at(token.LBrace) {
		b, ok := p.parseBlock()
		if !ok {
			return nil, false
		}
		body = b
	} else {
		x, ok := p.parseExpr()
		if !ok {
			return nil, false
		}
		body = &ast.BlockExpr{Stmts: []ast.Stmt{&ast.ExprStmt{X: x}}, Pos: x.Span()}
	}
	return &ast.ClosureExpr{Params: params, Body: body, Pos: start.Cover(body.Span())}, true
}

// parseArrayLit parses [e1, e2, ...].
func (p *Parser) parseArrayLit() (ast.Expr, bool) {
	open := p.advance() // '['
	var elems []ast.Expr
	p.skipNewlines()
	for !p.at(token.RBracket) {
		el, ok := p.parseExprAllowStructLit()
		if !ok {
			return nil, false
		}
		elems = append(elems, el)
		p.skipNewlines()
		if !p.eat(token.Comma) {
			break
		}
		p.skipNewlines()
	}
	closeTok, ok := p.expect(token.RBracket, diag.SynUnexpectedToken, "expected ']' after array elements")
	if !ok {
		return nil, false
	}
	return &ast.ArrayExpr{Elems: elems, Pos: open.Span.Cover(closeTok.Span)}, true
}

// parseStructLit parses Name{field: value, ...} after the type name
// has been consumed.
func (p *Parser) parseStructLit(name ast.Name) (ast.Expr, bool) {
	p.advance() // '{'
	var inits []ast.FieldInit
	p.skipNewlines()
	for !p.at(token.RBrace) {
		fname, ok := p.parseName(diag.SynExpectField)
		if !ok {
			return nil, false
		}
		if _, ok := p.expect(token.Colon, diag.SynExpectField, "expected ':' after field name"); !ok {
			return nil, false
		}
		value, ok := p.parseExprAllowStructLit()
		if !ok {
			return nil, false
		}
		inits = append(inits, ast.FieldInit{Name: fname, Value: value})
		p.skipNewlines()
		if !p.eat(token.Comma) {
			break
		}
		p.skipNewlines()
	}
	closeTok, ok := p.expect(token.RBrace, diag.SynUnexpectedToken, "expected '}' after struct literal")
	if !ok {
		return nil, false
	}
	return &ast.StructLitExpr{
		Type:  &ast.TypeRef{Name: name, Pos: name.Pos},
		Inits: inits,
		Pos:   name.Pos.Cover(closeTok.Span),
	}, true
}

// parseBlock parses { stmts }.
func (p *Parser) parseBlock() (*ast.BlockExpr, bool) {
	open, ok := p.expect(token.LBrace, diag.SynUnclosedBlock, "expected '{'")
	if !ok {
		return nil, false
	}
	saved := p.noStructLit
	p.noStructLit = false

	var stmts []ast.Stmt
	p.skipNewlines()
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		s, ok := p.parseStmt()
		if !ok {
			p.noStructLit = saved
			return nil, false
		}
		stmts = append(stmts, s)
		p.skipNewlines()
	}
	p.noStructLit = saved
	closeTok, ok := p.expect(token.RBrace, diag.SynUnclosedBlock, "expected '}' to close block")
	if !ok {
		return nil, false
	}
	return &ast.BlockExpr{Stmts: stmts, Pos: open.Span.Cover(closeTok.Span)}, true
}

// parseIf parses an if with optional else chain. When asExpr is true
// the else branch is required, since both arms must produce a value.
func (p *Parser) parseIf(asExpr bool) (ast.Expr, bool) {
	kw := p.advance() // 'if'

	saved := p.noStructLit
	p.noStructLit = true
	cond, ok := p.parseExpr()
	p.noStructLit = saved
	if !ok {
		return nil, false
	}

	then, ok := p.parseBlock()
	if !ok {
		return nil, false
	}

	var els ast.Expr
	if p.eat(token.KwElse) {
		if p.at(token.KwIf) {
			els, ok = p.parseIf(asExpr)
		} else {
			els, ok = p.parseBlock()
		}
		if !ok {
			return nil, false
		}
	} else if asExpr {
		p.report(diag.SynIfExprMissingElse, kw.Span, "if used as an expression requires an else branch")
	}

	end := then.Span()
	if els != nil {
		end = els.Span()
	}
	return &ast.IfExpr{Cond: cond, Then: then, Else: els, Pos: kw.Span.Cover(end)}, true
}
