package cgen

import (
	"strings"

	"autoc/internal/sema"
)

// emitStructDef lowers one struct type (possibly a specialization
// under env). Delegation members were appended to Fields by sema, so
// they come out as ordinary embedded values.
func (e *emitter) emitStructDef(ty *sema.TypeInfo, env map[string]*sema.Type, name string) {
	saved := e.typeEnv
	e.typeEnv = env
	defer func() { e.typeEnv = saved }()

	e.linef("struct %s {", name)
	if len(ty.Fields) == 0 {
		e.linef("    uint8_t _unused;")
	}
	for _, f := range ty.Fields {
		e.linef("    %s%s;", spaced(e.cTypeOf(f.Type)), f.Name)
	}
	e.linef("};")
	e.linef("")
}

// emitSpecDef lowers a spec to its vtable shape and the fat value
// struct used for dynamic dispatch.
func (e *emitter) emitSpecDef(spec *sema.SpecInfo) {
	e.linef("struct %s_vtable {", spec.Name)
	for _, m := range spec.Methods {
		e.linef("    %s(*%s)(%s);", spaced(e.cRet(m.Ret)), strings.ToLower(m.Name), e.thunkParams(m))
	}
	e.linef("};")
	e.linef("")
	e.linef("struct %s {", spec.Name)
	e.linef("    void *self;")
	e.linef("    const %s_vtable *vt;", spec.Name)
	e.linef("};")
	e.linef("")
}

func (e *emitter) cRet(t *sema.Type) string {
	if t.IsUnit() {
		return "void"
	}
	return e.cTypeOf(t)
}

func (e *emitter) thunkParams(m sema.MethodSig) string {
	parts := []string{"void *self"}
	for _, p := range m.Params {
		parts = append(parts, strings.TrimRight(spaced(e.cTypeOf(p)), " "))
	}
	return strings.Join(parts, ", ")
}

// emitPrototypes declares every externally linked function: methods,
// delegation forwarders and free functions.
func (e *emitter) emitPrototypes() {
	any := false
	for _, ty := range e.mod.Types {
		if len(ty.TypeParams) != 0 {
			continue
		}
		for _, m := range ty.Methods {
			e.linef("%s;", e.methodSigText(ty.Name, m.Name, m.Sig))
			any = true
		}
	}
	for _, tag := range e.mod.Tags {
		if len(tag.TypeParams) != 0 {
			continue
		}
		for _, m := range tag.Methods {
			e.linef("%s;", e.methodSigText(tag.Name, m.Name, m.Sig))
			any = true
		}
	}
	for _, br := range e.mod.Bridges {
		e.linef("%s;", e.methodSigText(br.Composite.Name, br.Method.Name, br.Method))
		any = true
	}
	for _, fn := range e.mod.Fns {
		e.linef("%s;", e.fnSigText(fn))
		any = true
	}
	if any {
		e.linef("")
	}
}

func (e *emitter) methodSigText(owner, method string, sig sema.MethodSig) string {
	var sb strings.Builder
	sb.WriteString(spaced(e.cRet(sig.Ret)))
	sb.WriteString(methodName(owner, method))
	sb.WriteString("(")
	sb.WriteString(owner)
	sb.WriteString(" *self")
	for i, p := range sig.Params {
		sb.WriteString(", ")
		sb.WriteString(spaced(e.cTypeOf(p)))
		sb.WriteString(e.paramName(sig, i))
	}
	sb.WriteString(")")
	return sb.String()
}

func (e *emitter) fnSigText(fn *sema.FnInfo) string {
	var sb strings.Builder
	sb.WriteString(spaced(e.cRet(fn.Sig.Ret)))
	sb.WriteString(fn.Name)
	sb.WriteString("(")
	if len(fn.Sig.Params) == 0 {
		sb.WriteString("void")
	}
	for i, p := range fn.Sig.Params {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(spaced(e.cTypeOf(p)))
		sb.WriteString(fn.Decl.Sig.Params[i].Name.Text)
	}
	sb.WriteString(")")
	return sb.String()
}

// paramName falls back to positional names for signatures without a
// declaration (bridge forwarders reuse the spec's signature).
func (e *emitter) paramName(sig sema.MethodSig, i int) string {
	return "a" + string(rune('0'+i))
}

// emitVtables generates one static vtable per spec the type can stand
// in for, with casting thunks adapting void *self.
func (e *emitter) emitVtables(ty *sema.TypeInfo, name string) {
	for _, spec := range e.specsOf(ty) {
		for _, m := range spec.Methods {
			e.linef("static %s%s(%s) {", spaced(e.cRet(m.Ret)), thunkName(name, spec.Name, m.Name), e.thunkParams(m))
			call := methodName(name, m.Name) + "((" + name + " *)self" + e.forwardArgs(m) + ")"
			if m.Ret.IsUnit() {
				e.linef("    %s;", call)
			} else {
				e.linef("    return %s;", call)
			}
			e.linef("}")
			e.linef("")
		}
		e.linef("static const %s_vtable %s_%s_vtable = {", spec.Name, name, spec.Name)
		for _, m := range spec.Methods {
			e.linef("    .%s = %s,", strings.ToLower(m.Name), thunkName(name, spec.Name, m.Name))
		}
		e.linef("};")
		e.linef("")
	}
}

func thunkName(typeName, specName, method string) string {
	return typeName + "_" + specName + "_" + strings.ToLower(method) + "_thunk"
}

func (e *emitter) forwardArgs(m sema.MethodSig) string {
	var sb strings.Builder
	for i := range m.Params {
		sb.WriteString(", ")
		sb.WriteString(e.paramName(m, i))
	}
	return sb.String()
}

// specsOf lists the specs a type provides: declared conformances plus
// any spec reached through a delegation bridge.
func (e *emitter) specsOf(ty *sema.TypeInfo) []*sema.SpecInfo {
	seen := make(map[string]bool)
	var out []*sema.SpecInfo
	for _, spec := range ty.Conforms {
		if !seen[spec.Name] {
			seen[spec.Name] = true
			out = append(out, spec)
		}
	}
	for _, br := range e.mod.Bridges {
		if br.Composite == ty && !seen[br.Spec.Name] {
			seen[br.Spec.Name] = true
			out = append(out, br.Spec)
		}
	}
	return out
}

// emitBridges generates delegation forwarders: Composite_method calls
// the member's own implementation. Each `has` clause produced its own
// bridge set, so routing is fixed at bind time.
func (e *emitter) emitBridges(ty *sema.TypeInfo, name string) {
	for _, br := range e.mod.Bridges {
		if br.Composite != ty {
			continue
		}
		m := br.Method
		e.linef("%s {", e.methodSigText(name, m.Name, m))
		call := methodName(br.MemberType.Name, m.Name) + "(&self->" + br.Member + e.forwardArgs(m) + ")"
		if m.Ret.IsUnit() {
			e.linef("    %s;", call)
		} else {
			e.linef("    return %s;", call)
		}
		e.linef("}")
		e.linef("")
	}
}
