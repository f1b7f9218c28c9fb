package sema

import (
	"fmt"

	"autoc/internal/ast"
	"autoc/internal/diag"
	"autoc/internal/token"
)

// exprType infers the type of x. want is the contextual type, used to
// shape numeric literals, empty arrays, nil and closure parameters;
// it may be nil. The result is memoized in Module.ExprTypes and is
// never the internal placeholder unless an error was reported.
func (b *binder) exprType(sc *Scope, x ast.Expr, want *Type) *Type {
	t := b.inferExpr(sc, x, want)
	if t == nil {
		t = invalidType
	}
	b.mod.ExprTypes[x] = t
	return t
}

func (b *binder) inferExpr(sc *Scope, x ast.Expr, want *Type) *Type {
	switch e := x.(type) {
	case *ast.LitExpr:
		return b.litType(e, want)

	case *ast.IdentExpr:
		if sym, ok := sc.Lookup(e.Name.Text); ok {
			return sym.Type
		}
		b.errorf(diag.SemaUnresolvedIdent, e.Name.Pos, "unresolved name "+e.Name.Text)
		return invalidType

	case *ast.UnaryExpr:
		operand := b.exprType(sc, e.Operand, want)
		switch e.Op {
		case token.Minus:
			if !operand.IsNumeric() && operand.Kind != TypeInvalid {
				b.errorf(diag.SemaTypeMismatch, e.Operand.Span(), "cannot negate "+operand.String())
			}
			return operand
		case token.Bang:
			if operand.Kind != TypeBool && operand.Kind != TypeInvalid {
				b.errorf(diag.SemaTypeMismatch, e.Operand.Span(), "logical not needs bool, got "+operand.String())
			}
			return boolType
		}
		return invalidType

	case *ast.BinaryExpr:
		return b.binaryType(sc, e)

	case *ast.RangeExpr:
		lo := b.exprType(sc, e.Low, intType)
		hi := b.exprType(sc, e.High, lo)
		if (!lo.IsNumeric() || !hi.IsNumeric()) && lo.Kind != TypeInvalid && hi.Kind != TypeInvalid {
			b.errorf(diag.SemaTypeMismatch, e.Pos, "range bounds must be numeric")
		}
		return &Type{Kind: TypeRange, Elem: lo}

	case *ast.ArrayExpr:
		return b.arrayType(sc, e, want)

	case *ast.StructLitExpr:
		return b.structLitType(sc, e)

	case *ast.FStrExpr:
		for _, part := range e.Parts {
			if part.Embed != nil {
				b.exprType(sc, part.Embed, nil)
			}
		}
		return strType

	case *ast.ClosureExpr:
		return b.closureType(sc, e, want)

	case *ast.BlockExpr:
		return b.bindBlock(sc, e, want)

	case *ast.IfExpr:
		return b.ifType(sc, e, want)

	case *ast.IsExpr:
		return b.isType(sc, e, want)

	case *ast.CallExpr:
		return b.callType(sc, e)

	case *ast.DotExpr:
		return b.dotType(sc, e)

	case *ast.IndexExpr:
		seq := b.exprType(sc, e.Seq, nil)
		idx := b.exprType(sc, e.Index, intType)
		if idx.Kind != TypeInt && idx.Kind != TypeUint && idx.Kind != TypeInvalid {
			b.errorf(diag.SemaTypeMismatch, e.Index.Span(), "index must be an integer, got "+idx.String())
		}
		switch seq.Kind {
		case TypeArray:
			return seq.Elem
		case TypeStr:
			return charType
		case TypeInvalid:
			return invalidType
		}
		b.errorf(diag.SemaTypeMismatch, e.Seq.Span(), seq.String()+" is not indexable")
		return invalidType

	case *ast.TagPattern:
		// Patterns are typed where the is branch binds them.
		return invalidType
	}
	return invalidType
}

func (b *binder) litType(e *ast.LitExpr, want *Type) *Type {
	switch e.Kind {
	case token.IntLit:
		// A plain integer literal takes its width from context.
		if want != nil && want.IsNumeric() {
			return want
		}
		return intType
	case token.UintLit:
		return uintType
	case token.U8Lit:
		return u8Type
	case token.I8Lit:
		return i8Type
	case token.FloatLit:
		return floatType
	case token.DoubleLit:
		if want != nil && want.Kind == TypeFloat {
			return floatType
		}
		return doubleType
	case token.StrLit:
		return strType
	case token.CStrLit:
		return cstrType
	case token.CharLit:
		return charType
	case token.KwTrue, token.KwFalse:
		return boolType
	case token.KwNil:
		// nil adopts a tag context that declares a nil variant.
		if want != nil && want.Kind == TypeTag {
			return want
		}
		return unitType
	}
	return invalidType
}

func (b *binder) binaryType(sc *Scope, e *ast.BinaryExpr) *Type {
	switch e.Op {
	case token.AndAnd, token.OrOr:
		l := b.exprType(sc, e.Left, boolType)
		r := b.exprType(sc, e.Right, boolType)
		if (l.Kind != TypeBool || r.Kind != TypeBool) && l.Kind != TypeInvalid && r.Kind != TypeInvalid {
			b.errorf(diag.SemaTypeMismatch, e.Span(), "logical operands must be bool")
		}
		return boolType

	case token.EqEq, token.BangEq, token.Lt, token.LtEq, token.Gt, token.GtEq:
		l := b.exprType(sc, e.Left, nil)
		r := b.exprType(sc, e.Right, l)
		if !b.assignable(l, r) && !b.assignable(r, l) {
			b.errorf(diag.SemaTypeMismatch, e.Span(),
				"cannot compare "+l.String()+" with "+r.String())
		}
		return boolType

	default: // + - * / %
		l := b.exprType(sc, e.Left, nil)
		r := b.exprType(sc, e.Right, l)
		if l.Kind == TypeInvalid || r.Kind == TypeInvalid {
			return invalidType
		}
		if e.Op == token.Plus && l.Kind == TypeStr && r.Kind == TypeStr {
			return strType
		}
		if !l.IsNumeric() || !r.IsNumeric() || !l.Equal(r) {
			b.errorf(diag.SemaTypeMismatch, e.Span(),
				"invalid operands "+l.String()+" and "+r.String())
			return invalidType
		}
		return l
	}
}

func (b *binder) arrayType(sc *Scope, e *ast.ArrayExpr, want *Type) *Type {
	var elemWant *Type
	if want != nil && want.Kind == TypeArray {
		elemWant = want.Elem
	}
	if len(e.Elems) == 0 {
		if elemWant == nil {
			b.errorf(diag.SemaTypeMismatch, e.Pos, "empty array needs a type annotation")
			return invalidType
		}
		return &Type{Kind: TypeArray, Elem: elemWant}
	}
	elem := b.exprType(sc, e.Elems[0], elemWant)
	for _, el := range e.Elems[1:] {
		t := b.exprType(sc, el, elem)
		if !b.assignable(elem, t) {
			b.errorf(diag.SemaTypeMismatch, el.Span(),
				"array element "+t.String()+" does not match "+elem.String())
		}
	}
	return &Type{Kind: TypeArray, Elem: elem}
}

func (b *binder) structLitType(sc *Scope, e *ast.StructLitExpr) *Type {
	t := b.resolveTypeRef(e.Type)
	if t.Kind != TypeStruct {
		if t.Kind != TypeInvalid {
			b.errorf(diag.SemaTypeMismatch, e.Pos, t.String()+" is not a struct type")
		}
		return invalidType
	}
	ti := b.mod.typesByName[t.Name]
	env := bindTypeArgs(ti.TypeParams, t.Args)

	// Initializers must follow declaration order.
	fieldIdx := -1
	for _, init := range e.Inits {
		idx := -1
		for i, f := range ti.Fields {
			if f.Name == init.Name.Text {
				idx = i
				break
			}
		}
		if idx < 0 {
			b.errorf(diag.SemaUnresolvedIdent, init.Name.Pos,
				t.Name+" has no field "+init.Name.Text)
			continue
		}
		if idx <= fieldIdx {
			b.errorf(diag.SemaTypeMismatch, init.Name.Pos,
				"field "+init.Name.Text+" is out of declaration order")
		}
		fieldIdx = idx

		fieldType := substitute(ti.Fields[idx].Type, env)
		got := b.exprType(sc, init.Value, fieldType)
		if !b.assignable(fieldType, got) {
			b.errorf(diag.SemaTypeMismatch, init.Value.Span(),
				"field "+init.Name.Text+" needs "+fieldType.String()+", got "+got.String())
		}
	}
	return t
}

func (b *binder) closureType(sc *Scope, e *ast.ClosureExpr, want *Type) *Type {
	if want == nil || want.Kind != TypeFn {
		b.errorf(diag.SemaTypeMismatch, e.Pos,
			"closure type cannot be inferred outside a call context")
		return invalidType
	}
	if len(e.Params) != len(want.Args) {
		b.errorf(diag.SemaArityMismatch, e.Pos,
			fmt.Sprintf("closure takes %d parameters, context wants %d", len(e.Params), len(want.Args)))
		return invalidType
	}

	inner := newScope(sc)
	for i, p := range e.Params {
		inner.Declare(&Symbol{Name: p.Name.Text, Kind: SymParam, Type: want.Args[i], Decl: p.Name.Pos})
	}
	got := b.bindBlock(inner, e.Body, want.Elem)

	ret := want.Elem
	if ret == nil || ret.Kind == TypeInvalid {
		ret = got
	} else if !got.IsUnit() && !b.assignable(ret, got) {
		b.errorf(diag.SemaTypeMismatch, e.Body.Span(),
			"closure yields "+got.String()+", context wants "+ret.String())
	}
	return &Type{Kind: TypeFn, Args: want.Args, Elem: ret}
}

func (b *binder) ifType(sc *Scope, e *ast.IfExpr, want *Type) *Type {
	cond := b.exprType(sc, e.Cond, boolType)
	if cond.Kind != TypeBool && cond.Kind != TypeInvalid {
		b.errorf(diag.SemaTypeMismatch, e.Cond.Span(), "if condition must be bool, got "+cond.String())
	}

	thenT := b.bindBlock(sc, e.Then, want)
	if e.Else == nil {
		return unitType
	}
	elseT := b.exprType(sc, e.Else, want)

	if thenT.IsUnit() || elseT.IsUnit() {
		return unitType
	}
	if !b.assignable(thenT, elseT) && !b.assignable(elseT, thenT) {
		b.errorf(diag.SemaTypeMismatch, e.Pos,
			"if branches disagree: "+thenT.String()+" vs "+elseT.String())
		return invalidType
	}
	return thenT
}
