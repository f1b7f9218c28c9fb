package parser

import (
	"autoc/internal/ast"
	"autoc/internal/diag"
	"autoc/internal/token"
)

// parseFStr assembles an interpolated string from the lexer's marker
// protocol: FStrStart, then FStrPart / Dollar+Ident / Dollar+LBrace
// expr RBrace segments, closed by FStrEnd.
func (p *Parser) parseFStr() (ast.Expr, bool) {
	start := p.advance() // FStrStart
	fstr := &ast.FStrExpr{Pos: start.Span}

	for {
		tok := p.lx.Peek()
		switch tok.Kind {
		case token.FStrPart:
			p.advance()
			fstr.Parts = append(fstr.Parts, ast.FStrPart{Text: tok.Text, Pos: tok.Span})

		case token.Dollar:
			p.advance()
			if p.at(token.LBrace) {
				p.advance()
				x, ok := p.parseExprAllowStructLit()
				if !ok {
					return nil, false
				}
				if _, ok := p.expect(token.RBrace, diag.SynUnexpectedToken, "expected '}' to close interpolation"); !ok {
					return nil, false
				}
				fstr.Parts = append(fstr.Parts, ast.FStrPart{Embed: x, Pos: tok.Span.Cover(x.Span())})
				continue
			}
			name, ok := p.parseName(diag.SynExpectIdentifier)
			if !ok {
				return nil, false
			}
			fstr.Parts = append(fstr.Parts, ast.FStrPart{
				Embed: &ast.IdentExpr{Name: name},
				Pos:   tok.Span.Cover(name.Pos),
			})

		case token.FStrEnd:
			end := p.advance()
			fstr.Pos = fstr.Pos.Cover(end.Span)
			return fstr, true

		default:
			p.report(diag.SynUnexpectedToken, tok.Span, "malformed interpolated string")
			return nil, false
		}
	}
}
