package cgen

import (
	"strings"

	"autoc/internal/ast"
	"autoc/internal/sema"
	"autoc/internal/token"
)

// emitMethod generates one method definition. self comes in by
// pointer; selfType carries the concrete receiver for specialized
// generics.
func (e *emitter) emitMethod(ownerMangled string, m *sema.FnInfo, selfType *sema.Type) {
	e.ptrVars = map[string]bool{"self": true}
	defer func() { e.ptrVars = make(map[string]bool) }()

	var sb strings.Builder
	sb.WriteString(spaced(e.cRet(m.Sig.Ret)))
	sb.WriteString(methodName(ownerMangled, m.Name))
	sb.WriteString("(")
	sb.WriteString(ownerMangled)
	sb.WriteString(" *self")
	for i, p := range m.Sig.Params {
		sb.WriteString(", ")
		sb.WriteString(spaced(e.cTypeOf(p)))
		sb.WriteString(m.Decl.Sig.Params[i].Name.Text)
	}
	sb.WriteString(")")

	e.linef("%s {", sb.String())
	e.indent++
	e.emitFnBody(m)
	e.indent--
	e.linef("}")
	e.linef("")
}

func (e *emitter) emitFn(fn *sema.FnInfo) {
	e.ptrVars = make(map[string]bool)
	e.linef("%s {", e.fnSigText(fn))
	e.indent++
	e.emitFnBody(fn)
	e.indent--
	e.linef("}")
	e.linef("")
}

// emitFnBody lowers the statements and handles the implicit tail
// value and the sentinel return after exhaustive control flow.
func (e *emitter) emitFnBody(fn *sema.FnInfo) {
	body := fn.Decl.Body
	ret := e.subst(fn.Sig.Ret)
	savedRet := e.curRet
	e.curRet = ret
	defer func() { e.curRet = savedRet }()
	tail := body.Tail()

	returned := false
	for _, s := range body.Stmts {
		if es, ok := s.(*ast.ExprStmt); ok && es.X == tail && !ret.IsUnit() && !e.exprCType(es.X).IsUnit() {
			v := e.genExpr(es.X, ret)
			e.linef("return %s;", v)
			returned = true
			continue
		}
		e.emitStmt(s)
		if _, ok := s.(*ast.ReturnStmt); ok {
			returned = true
		} else {
			returned = false
		}
	}

	if !ret.IsUnit() && !returned {
		// Unreachable when the body covered every path; keeps the C
		// compiler satisfied about control reaching the end.
		e.linef("return %s;", e.zeroValue(ret))
	}
}

func (e *emitter) emitStmt(s ast.Stmt) {
	switch stmt := s.(type) {
	case *ast.StoreStmt:
		e.emitStore(stmt)

	case *ast.AssignStmt:
		target := e.genExpr(stmt.Target, nil)
		want := e.exprCType(stmt.Target)
		value := e.genExpr(stmt.Value, want)
		value = e.coerce(want, e.exprCType(stmt.Value), value)
		e.linef("%s %s %s;", target, assignOpText(stmt.Op), value)

	case *ast.ExprStmt:
		e.emitExprStmt(stmt.X)

	case *ast.ReturnStmt:
		if stmt.Value == nil {
			e.linef("return;")
			return
		}
		var ret *sema.Type
		if e.curRet != nil {
			ret = e.curRet
		} else {
			ret = e.exprCType(stmt.Value)
		}
		v := e.genExpr(stmt.Value, ret)
		v = e.coerce(ret, e.exprCType(stmt.Value), v)
		e.linef("return %s;", v)

	case *ast.BreakStmt:
		e.linef("%s", e.chainBreak())

	case *ast.ContinueStmt:
		e.linef("continue;")

	case *ast.WhileStmt:
		e.emitWhile(stmt)

	case *ast.ForInStmt:
		e.emitForIn(stmt)
	}
}

// emitExprStmt lowers an expression used for effect. if and is get
// their statement forms, everything else becomes a C expression
// statement unless its lowering already emitted the work.
func (e *emitter) emitExprStmt(x ast.Expr) {
	switch v := x.(type) {
	case *ast.IfExpr:
		e.emitIfStmt(v)
	case *ast.IsExpr:
		e.emitIsStmt(v)
	case *ast.BlockExpr:
		e.linef("{")
		e.indent++
		for _, s := range v.Stmts {
			e.emitStmt(s)
		}
		e.indent--
		e.linef("}")
	default:
		out := e.genExpr(x, nil)
		if out != "" {
			e.linef("%s;", out)
		}
	}
}

func (e *emitter) emitStore(stmt *ast.StoreStmt) {
	t := e.storeType(stmt)
	ct := e.cTypeOf(t)
	if stmt.Value == nil {
		e.linef("%s%s = %s;", spaced(ct), stmt.Name.Text, e.zeroValue(t))
		return
	}
	v := e.genExpr(stmt.Value, t)
	v = e.coerce(t, e.exprCType(stmt.Value), v)
	e.linef("%s%s = %s;", spaced(ct), stmt.Name.Text, v)
}

// storeType recovers the binding's type: the initializer's inferred
// type, which sema already checked against any annotation.
func (e *emitter) storeType(stmt *ast.StoreStmt) *sema.Type {
	if stmt.Value != nil {
		if t, ok := e.mod.TypeOf(stmt.Value); ok {
			return e.subst(t)
		}
	}
	return &sema.Type{Kind: sema.TypeInvalid}
}

func (e *emitter) emitWhile(stmt *ast.WhileStmt) {
	var pre strings.Builder
	cond := e.capture(&pre, func() string { return e.genExpr(stmt.Cond, nil) })

	if pre.Len() == 0 {
		e.linef("while (%s) {", cond)
		e.indent++
		e.emitLoopBody(stmt.Body)
		e.indent--
		e.linef("}")
		return
	}

	// The condition needs scaffolding, so re-evaluate it per
	// iteration inside an open loop.
	e.linef("while (true) {")
	e.indent++
	e.raw(pre.String())
	e.linef("if (!(%s)) {", cond)
	e.linef("    break;")
	e.linef("}")
	e.emitLoopBody(stmt.Body)
	e.indent--
	e.linef("}")
}

// emitLoopBody lowers the body of a plain C loop; break statements
// inside bind to this loop, not to any enclosing iterator pipeline.
func (e *emitter) emitLoopBody(block *ast.BlockExpr) {
	saved := e.chainStop
	e.chainStop = ""
	e.emitBlockStmts(block)
	e.chainStop = saved
}

// capture runs gen with emission redirected into pre and returns its
// result.
func (e *emitter) capture(pre *strings.Builder, gen func() string) string {
	prev := e.buf
	e.buf = pre
	out := gen()
	e.buf = prev
	return out
}

func (e *emitter) emitBlockStmts(block *ast.BlockExpr) {
	for _, s := range block.Stmts {
		e.emitStmt(s)
	}
}

// emitBlockInto lowers a block in value position, assigning its tail
// expression to target.
func (e *emitter) emitBlockInto(block *ast.BlockExpr, target string, want *sema.Type) {
	tail := block.Tail()
	for _, s := range block.Stmts {
		if es, ok := s.(*ast.ExprStmt); ok && es.X == tail && target != "" {
			v := e.genExpr(es.X, want)
			v = e.coerce(want, e.exprCType(es.X), v)
			e.linef("%s = %s;", target, v)
			continue
		}
		e.emitStmt(s)
	}
}

func assignOpText(k token.Kind) string {
	switch k {
	case token.PlusAssign:
		return "+="
	case token.MinusAssign:
		return "-="
	case token.StarAssign:
		return "*="
	case token.SlashAssign:
		return "/="
	default:
		return "="
	}
}
