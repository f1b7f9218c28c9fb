package cgen

import (
	"strings"

	"autoc/internal/ast"
	"autoc/internal/diag"
	"autoc/internal/sema"
)

// coerce adapts a value to the slot it flows into. The only
// representation change is wrapping a concrete struct into a spec's
// fat value for dynamic dispatch.
func (e *emitter) coerce(want, got *sema.Type, expr string) string {
	if want == nil || got == nil {
		return expr
	}
	want = e.subst(want)
	got = e.subst(got)
	if want.Kind != sema.TypeSpec || got.Kind != sema.TypeStruct {
		return expr
	}
	addr := e.addressOf(got, expr)
	return "(" + want.Name + "){ .self = " + addr + ", .vt = &" + mangled(got) + "_" + want.Name + "_vtable }"
}

// addressOf yields a pointer to the value. Non-lvalue expressions are
// parked in a temporary first.
func (e *emitter) addressOf(t *sema.Type, expr string) string {
	if isLValue(expr) {
		return "&" + expr
	}
	tmp := e.nextTmp("val")
	e.linef("%s%s = %s;", spaced(e.cTypeOf(t)), tmp, expr)
	return "&" + tmp
}

func isLValue(expr string) bool {
	if expr == "" {
		return false
	}
	for _, r := range expr {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '.':
		default:
			return false
		}
	}
	return true
}

func (e *emitter) genCall(v *ast.CallExpr, want *sema.Type) string {
	switch callee := v.Callee.(type) {
	case *ast.IdentExpr:
		name := callee.Name.Text
		switch name {
		case "print", "println", "panic":
			if _, isFn := e.mod.FnOf(name); !isFn {
				return e.genBuiltin(v, name)
			}
		}
		if fn, ok := e.mod.FnOf(name); ok {
			return name + "(" + e.genArgs(v.Args, fn.Sig.Params) + ")"
		}
		e.errorf(diag.GenUnsupportedConstruct, v.Pos, "cannot lower call to "+name)
		return "0"

	case *ast.DotExpr:
		return e.genDotCall(v, callee, want)
	}
	e.errorf(diag.GenUnsupportedConstruct, v.Pos, "unsupported call form")
	return "0"
}

func (e *emitter) genBuiltin(v *ast.CallExpr, name string) string {
	if name == "panic" {
		arg := "\"panic\""
		if len(v.Args) == 1 {
			arg = e.genExpr(v.Args[0], nil)
		}
		e.linef("fprintf(stderr, \"panic: %%s\\n\", %s);", arg)
		e.linef("exit(1);")
		return ""
	}
	nl := ""
	if name == "println" {
		nl = "\\n"
	}
	if len(v.Args) != 1 {
		e.linef("printf(\"%s\");", nl)
		return ""
	}
	t := e.exprCType(v.Args[0])
	arg := e.genExpr(v.Args[0], nil)
	spec, wrapped := e.fmtSpec(t, arg)
	e.linef("printf(\"%s%s\", %s);", spec, nl, wrapped)
	return ""
}

func (e *emitter) genArgs(args []ast.Expr, params []*sema.Type) string {
	parts := make([]string, len(args))
	for i, a := range args {
		var want *sema.Type
		if i < len(params) {
			want = e.subst(params[i])
		}
		out := e.genExpr(a, want)
		parts[i] = e.coerce(want, e.exprCType(a), out)
	}
	return strings.Join(parts, ", ")
}

func (e *emitter) genDotCall(v *ast.CallExpr, callee *ast.DotExpr, want *sema.Type) string {
	// Tag variant construction: May.val(x) -> May_int_val(x).
	if id, ok := callee.Object.(*ast.IdentExpr); ok {
		if tag, isTag := e.mod.TagOf(id.Name.Text); isTag {
			return e.genVariantCall(v, callee, tag, want)
		}
	}

	recv := e.exprCType(callee.Object)
	method := callee.Member.Text

	switch recv.Kind {
	case sema.TypeRange, sema.TypeArray, sema.TypeIter:
		if recv.Kind == sema.TypeArray && method == "len" {
			return "(" + e.genExpr(callee.Object, nil) + ").len"
		}
		return e.genIterExpr(v)

	case sema.TypeStr, sema.TypeCStr:
		if method == "len" {
			return "(int64_t)strlen(" + e.genExpr(callee.Object, nil) + ")"
		}

	case sema.TypeStruct:
		ti, ok := e.mod.TypeInfoOf(recv.Name)
		if !ok {
			break
		}
		obj := e.genExpr(callee.Object, nil)
		self := e.receiverAddr(recv, callee.Object, obj)
		var sig sema.MethodSig
		if m, found := ti.Method(method); found {
			sig = m.Sig
		} else if br, found := e.bridgeFor(ti, method); found {
			sig = br.Method
		} else {
			break
		}
		call := methodName(mangled(recv), method) + "(" + self
		if len(v.Args) > 0 {
			call += ", " + e.genArgs(v.Args, sig.Params)
		}
		return call + ")"

	case sema.TypeTag:
		obj := e.genExpr(callee.Object, nil)
		self := e.receiverAddr(recv, callee.Object, obj)
		call := methodName(mangled(recv), method) + "(" + self
		if len(v.Args) > 0 {
			call += ", " + e.genArgs(v.Args, e.tagMethodParams(recv, method))
		}
		return call + ")"

	case sema.TypeSpec:
		obj := e.genExpr(callee.Object, nil)
		if !isLValue(obj) {
			tmp := e.nextTmp("spec")
			e.linef("%s %s = %s;", recv.Name, tmp, obj)
			obj = tmp
		}
		spec, _ := e.mod.SpecOf(recv.Name)
		var params []*sema.Type
		if spec != nil {
			for _, m := range spec.Methods {
				if m.Name == method {
					params = m.Params
				}
			}
		}
		call := obj + ".vt->" + strings.ToLower(method) + "(" + obj + ".self"
		if len(v.Args) > 0 {
			call += ", " + e.genArgs(v.Args, params)
		}
		return call + ")"
	}

	e.errorf(diag.GenUnsupportedConstruct, v.Pos,
		"cannot lower method call "+method)
	return "0"
}

func (e *emitter) bridgeFor(ti *sema.TypeInfo, method string) (sema.Bridge, bool) {
	for _, br := range e.mod.Bridges {
		if br.Composite == ti && br.Method.Name == method {
			return br, true
		}
	}
	return sema.Bridge{}, false
}

func (e *emitter) tagMethodParams(recv *sema.Type, method string) []*sema.Type {
	tag, ok := e.mod.TagOf(recv.Name)
	if !ok {
		return nil
	}
	for _, m := range tag.Methods {
		if m.Name == method {
			return m.Sig.Params
		}
	}
	return nil
}

// receiverAddr produces the self argument for a method call.
func (e *emitter) receiverAddr(t *sema.Type, obj ast.Expr, rendered string) string {
	if id, ok := obj.(*ast.IdentExpr); ok && e.ptrVars[id.Name.Text] {
		return id.Name.Text
	}
	return e.addressOf(t, rendered)
}

func (e *emitter) genVariantCall(v *ast.CallExpr, callee *ast.DotExpr, tag *sema.TagInfo, want *sema.Type) string {
	t := e.exprCType(v)
	if (t.Kind != sema.TypeTag || !concreteArgs(t)) && want != nil && want.Kind == sema.TypeTag {
		t = e.subst(want)
	}
	name := mangled(t) + "_" + callee.Member.Text
	if len(v.Args) == 0 {
		return name + "()"
	}
	var payload *sema.Type
	env := tagEnv(tag, t)
	for _, variant := range tag.Variants {
		if variant.Name == callee.Member.Text {
			payload = substOther(variant.Payload, env)
		}
	}
	arg := e.genExpr(v.Args[0], payload)
	return name + "(" + arg + ")"
}

func concreteArgs(t *sema.Type) bool {
	for _, a := range t.Args {
		if a == nil || a.Kind == sema.TypeInvalid {
			return false
		}
	}
	return true
}

func tagEnv(tag *sema.TagInfo, t *sema.Type) map[string]*sema.Type {
	if len(tag.TypeParams) == 0 || len(tag.TypeParams) != len(t.Args) {
		return nil
	}
	env := make(map[string]*sema.Type, len(tag.TypeParams))
	for i, p := range tag.TypeParams {
		env[p] = t.Args[i]
	}
	return env
}

func substOther(t *sema.Type, env map[string]*sema.Type) *sema.Type {
	if t == nil || env == nil {
		return t
	}
	if t.Kind == sema.TypeParam {
		if bound, ok := env[t.Name]; ok {
			return bound
		}
		return t
	}
	if len(t.Args) == 0 && t.Elem == nil {
		return t
	}
	out := &sema.Type{Kind: t.Kind, Name: t.Name}
	for _, a := range t.Args {
		out.Args = append(out.Args, substOther(a, env))
	}
	out.Elem = substOther(t.Elem, env)
	return out
}

// genDot lowers member access outside call position.
func (e *emitter) genDot(v *ast.DotExpr, want *sema.Type) string {
	// Unit variant value: May.nil.
	if id, ok := v.Object.(*ast.IdentExpr); ok {
		if tag, isTag := e.mod.TagOf(id.Name.Text); isTag {
			t := e.exprCType(v)
			if (t.Kind != sema.TypeTag || !concreteArgs(t)) && want != nil && want.Kind == sema.TypeTag {
				t = e.subst(want)
			}
			if _, found := e.unitVariantName(tag, v.Member.Text); found {
				return mangled(t) + "_" + v.Member.Text + "()"
			}
		}
	}

	obj := e.genExpr(v.Object, nil)
	if id, ok := v.Object.(*ast.IdentExpr); ok && e.ptrVars[id.Name.Text] {
		return obj + "->" + v.Member.Text
	}
	return obj + "." + v.Member.Text
}
