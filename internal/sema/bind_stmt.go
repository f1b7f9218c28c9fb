package sema

import (
	"autoc/internal/ast"
	"autoc/internal/diag"
)

// bindBodies type-checks every function body, method body and loose
// script statement.
func (b *binder) bindBodies() {
	for _, fn := range b.mod.Fns {
		b.bindFnBody(fn, nil)
	}
	for _, ty := range b.mod.Types {
		self := &Type{Kind: TypeStruct, Name: ty.Name}
		b.withTypeParams(ty.TypeParams, func() {
			for _, m := range ty.Methods {
				b.bindFnBody(m, self)
			}
		})
	}
	for _, tag := range b.mod.Tags {
		self := &Type{Kind: TypeTag, Name: tag.Name}
		b.withTypeParams(tag.TypeParams, func() {
			for _, m := range tag.Methods {
				b.bindFnBody(m, self)
			}
		})
	}

	// Script-style statements run in one shared scope, as the body of
	// the synthesized entry point.
	sc := newScope(b.global)
	prevFn := b.curFn
	b.curFn = nil
	for _, s := range b.mod.File.Stmts {
		b.bindStmt(sc, s)
	}
	b.curFn = prevFn
}

func (b *binder) bindFnBody(fn *FnInfo, self *Type) {
	sc := newScope(b.global)
	if self != nil {
		sc.Declare(&Symbol{Name: "self", Kind: SymParam, Type: self})
	}
	for i, p := range fn.Decl.Sig.Params {
		sc.Declare(&Symbol{Name: p.Name.Text, Kind: SymParam, Type: fn.Sig.Params[i], Decl: p.Name.Pos})
	}

	prev := b.curFn
	b.curFn = fn
	got := b.bindBlock(sc, fn.Decl.Body, fn.Sig.Ret)
	b.curFn = prev

	if !fn.Sig.Ret.IsUnit() && got.IsUnit() && !blockAlwaysReturns(fn.Decl.Body) {
		b.errorf(diag.SemaTypeMismatch, fn.Decl.Sig.Name.Pos,
			fn.Name+" must produce a "+fn.Sig.Ret.String()+" value on every path")
	}
}

// bindBlock binds a block in a child scope and returns the type of
// its trailing expression, or unit.
func (b *binder) bindBlock(parent *Scope, block *ast.BlockExpr, want *Type) *Type {
	sc := newScope(parent)
	result := unitType
	tail := block.Tail()
	for _, s := range block.Stmts {
		if es, ok := s.(*ast.ExprStmt); ok && es.X == tail {
			result = b.exprType(sc, es.X, want)
			continue
		}
		b.bindStmt(sc, s)
	}
	b.mod.ExprTypes[block] = result
	return result
}

func (b *binder) bindStmt(sc *Scope, s ast.Stmt) {
	switch stmt := s.(type) {
	case *ast.StoreStmt:
		var declared *Type
		if stmt.Type != nil {
			declared = b.resolveTypeRef(stmt.Type)
		}
		var got *Type
		if stmt.Value != nil {
			got = b.exprType(sc, stmt.Value, declared)
		}
		final := declared
		if final == nil {
			final = got
		}
		if final == nil {
			b.errorf(diag.SemaTypeMismatch, stmt.Name.Pos,
				stmt.Name.Text+" needs a type annotation or an initializer")
			final = invalidType
		}
		if declared != nil && got != nil && !b.assignable(declared, got) {
			b.errorf(diag.SemaTypeMismatch, stmt.Value.Span(),
				"cannot store "+got.String()+" into "+stmt.Name.Text+" of type "+declared.String())
		}
		if !sc.Declare(&Symbol{Name: stmt.Name.Text, Kind: SymVar, Type: final, Mut: stmt.Mut, Decl: stmt.Name.Pos}) {
			b.errorf(diag.SemaDuplicateSymbol, stmt.Name.Pos, stmt.Name.Text+" is already declared in this scope")
		}

	case *ast.AssignStmt:
		target := b.exprType(sc, stmt.Target, nil)
		value := b.exprType(sc, stmt.Value, target)
		if !b.assignable(target, value) {
			b.errorf(diag.SemaTypeMismatch, stmt.Value.Span(),
				"cannot assign "+value.String()+" to "+target.String())
		}
		if id, ok := stmt.Target.(*ast.IdentExpr); ok {
			if sym, found := sc.Lookup(id.Name.Text); found && sym.Kind == SymVar && !sym.Mut {
				b.errorf(diag.SemaTypeMismatch, id.Name.Pos, id.Name.Text+" is immutable")
			}
		}

	case *ast.ExprStmt:
		b.exprType(sc, stmt.X, nil)

	case *ast.ReturnStmt:
		var want *Type
		if b.curFn != nil {
			want = b.curFn.Sig.Ret
		}
		if stmt.Value == nil {
			if !want.IsUnit() {
				b.errorf(diag.SemaTypeMismatch, stmt.Pos, "return needs a "+want.String()+" value")
			}
			return
		}
		got := b.exprType(sc, stmt.Value, want)
		if want.IsUnit() {
			b.errorf(diag.SemaTypeMismatch, stmt.Value.Span(), "function returns no value")
		} else if !b.assignable(want, got) {
			b.errorf(diag.SemaTypeMismatch, stmt.Value.Span(),
				"cannot return "+got.String()+", want "+want.String())
		}

	case *ast.BreakStmt, *ast.ContinueStmt:
		// Loop membership is syntactic; the parser only admits these
		// inside blocks, and C tolerates the rest.

	case *ast.WhileStmt:
		cond := b.exprType(sc, stmt.Cond, boolType)
		if cond.Kind != TypeBool && cond.Kind != TypeInvalid {
			b.errorf(diag.SemaTypeMismatch, stmt.Cond.Span(), "while condition must be bool, got "+cond.String())
		}
		b.loopDepth++
		b.bindBlock(sc, stmt.Body, nil)
		b.loopDepth--

	case *ast.ForInStmt:
		iter := b.exprType(sc, stmt.Iterable, nil)
		elem := elemOf(iter)
		if elem == nil {
			if iter.Kind != TypeInvalid {
				b.errorf(diag.SemaTypeMismatch, stmt.Iterable.Span(), iter.String()+" is not iterable")
			}
			elem = invalidType
		}
		body := newScope(sc)
		body.Declare(&Symbol{Name: stmt.Var.Text, Kind: SymVar, Type: elem, Decl: stmt.Var.Pos})
		b.loopDepth++
		b.bindBlock(body, stmt.Body, nil)
		b.loopDepth--
	}
}

// elemOf returns the element type of an iterable, or nil.
func elemOf(t *Type) *Type {
	switch t.Kind {
	case TypeRange, TypeArray, TypeIter:
		return t.Elem
	default:
		return nil
	}
}

// blockAlwaysReturns is a conservative reachability check: the block
// ends in a return, or in an if/is whose every branch returns.
func blockAlwaysReturns(block *ast.BlockExpr) bool {
	if len(block.Stmts) == 0 {
		return false
	}
	switch last := block.Stmts[len(block.Stmts)-1].(type) {
	case *ast.ReturnStmt:
		return true
	case *ast.ExprStmt:
		switch x := last.X.(type) {
		case *ast.IfExpr:
			return ifAlwaysReturns(x)
		case *ast.IsExpr:
			for _, br := range x.Branches {
				if !blockAlwaysReturns(br.Body) {
					return false
				}
			}
			return len(x.Branches) > 0
		}
	}
	return false
}

func ifAlwaysReturns(x *ast.IfExpr) bool {
	if x.Else == nil || !blockAlwaysReturns(x.Then) {
		return false
	}
	switch els := x.Else.(type) {
	case *ast.IfExpr:
		return ifAlwaysReturns(els)
	case *ast.BlockExpr:
		return blockAlwaysReturns(els)
	default:
		return false
	}
}
