package sema

import (
	"fmt"

	"autoc/internal/ast"
	"autoc/internal/diag"
	"autoc/internal/mono"
)

// assignable reports whether a got value can flow into a want slot.
// Beyond structural equality it admits a conforming struct where a
// spec value is expected, which is what powers dynamic dispatch.
// The recovery type is compatible with everything so one error does
// not cascade.
func (b *binder) assignable(want, got *Type) bool {
	if want == nil || got == nil {
		return want.IsUnit() && got.IsUnit()
	}
	if want.Kind == TypeInvalid || got.Kind == TypeInvalid {
		return true
	}
	if compatible(want, got) {
		return true
	}
	if want.Kind == TypeSpec && got.Kind == TypeStruct {
		spec, okSpec := b.mod.specsByName[want.Name]
		ti, okType := b.mod.typesByName[got.Name]
		if okSpec && okType {
			if Satisfies(ti, spec) {
				return true
			}
			// Delegation bridges also satisfy the spec surface.
			covered := 0
			for _, m := range spec.Methods {
				if _, ok := b.bridgeFor(ti, m.Name); ok {
					covered++
				} else if own, found := ti.Method(m.Name); found && own.Sig.Matches(m) {
					covered++
				}
			}
			return covered == len(spec.Methods)
		}
	}
	return false
}

// compatible is Equal with holes: a component still unresolved on
// either side (a generic tag construction whose argument context has
// not pinned it yet) matches anything.
func compatible(want, got *Type) bool {
	if want == nil || got == nil {
		return want.IsUnit() && got.IsUnit()
	}
	if want.Kind == TypeInvalid || got.Kind == TypeInvalid {
		return true
	}
	if want.Kind != got.Kind || want.Name != got.Name || len(want.Args) != len(got.Args) {
		return false
	}
	for i := range want.Args {
		if !compatible(want.Args[i], got.Args[i]) {
			return false
		}
	}
	if (want.Elem == nil) != (got.Elem == nil) {
		return false
	}
	if want.Elem != nil && !compatible(want.Elem, got.Elem) {
		return false
	}
	return true
}

func (b *binder) callType(sc *Scope, e *ast.CallExpr) *Type {
	switch callee := e.Callee.(type) {
	case *ast.IdentExpr:
		name := callee.Name.Text
		if t, handled := b.builtinCall(sc, e, name); handled {
			return t
		}
		if fn, ok := b.mod.fnsByName[name]; ok {
			return b.checkCall(sc, e, fn.Sig, name)
		}
		if sym, ok := sc.Lookup(name); ok {
			if sym.Type != nil && sym.Type.Kind == TypeFn {
				sig := MethodSig{Name: name, Params: sym.Type.Args, Ret: sym.Type.Elem}
				return b.checkCall(sc, e, sig, name)
			}
			b.errorf(diag.SemaTypeMismatch, callee.Name.Pos, name+" is not callable")
			return invalidType
		}
		b.errorf(diag.SemaUnresolvedIdent, callee.Name.Pos, "unresolved function "+name)
		return invalidType

	case *ast.DotExpr:
		return b.dotCallType(sc, e, callee)
	}

	// Anything else must itself evaluate to a function value.
	fnT := b.exprType(sc, e.Callee, nil)
	if fnT.Kind == TypeFn {
		return b.checkCall(sc, e, MethodSig{Params: fnT.Args, Ret: fnT.Elem}, fnT.String())
	}
	if fnT.Kind != TypeInvalid {
		b.errorf(diag.SemaTypeMismatch, e.Callee.Span(), fnT.String()+" is not callable")
	}
	return invalidType
}

// builtinCall handles print, println and panic. They accept a single
// argument of any printable type.
func (b *binder) builtinCall(sc *Scope, e *ast.CallExpr, name string) (*Type, bool) {
	switch name {
	case "print", "println", "panic":
	default:
		return nil, false
	}
	if _, shadowed := sc.Lookup(name); shadowed {
		return nil, false
	}
	if len(e.Args) != 1 {
		b.errorf(diag.SemaArityMismatch, e.Pos,
			fmt.Sprintf("%s takes 1 argument, got %d", name, len(e.Args)))
	}
	for _, a := range e.Args {
		b.exprType(sc, a, nil)
	}
	return unitType, true
}

// dotCallType resolves obj.member(...) calls: tag variant
// construction, methods on structs and tags, dynamic dispatch through
// spec values and the iterator surface.
func (b *binder) dotCallType(sc *Scope, e *ast.CallExpr, callee *ast.DotExpr) *Type {
	// Tag.variant(payload) construction: the object names a tag, not a
	// value.
	if id, ok := callee.Object.(*ast.IdentExpr); ok && !b.shadowedByValue(sc, id.Name.Text) {
		if tag, isTag := b.mod.tagsByName[id.Name.Text]; isTag {
			return b.variantCall(sc, e, tag, callee)
		}
	}

	recv := b.exprType(sc, callee.Object, nil)
	method := callee.Member.Text

	switch recv.Kind {
	case TypeInvalid:
		for _, a := range e.Args {
			b.exprType(sc, a, nil)
		}
		return invalidType

	case TypeRange, TypeArray, TypeIter:
		return b.iterCall(sc, e, recv, method, callee)

	case TypeStr:
		if method == "len" && len(e.Args) == 0 {
			return intType
		}

	case TypeStruct:
		ti, ok := b.mod.typesByName[recv.Name]
		if !ok {
			break
		}
		env := bindTypeArgs(ti.TypeParams, recv.Args)
		if m, found := ti.Method(method); found {
			return b.checkCall(sc, e, substituteSig(m.Sig, env), recv.Name+"."+method)
		}
		if br, found := b.bridgeFor(ti, method); found {
			return b.checkCall(sc, e, br.Method, recv.Name+"."+method)
		}

	case TypeTag:
		tag, ok := b.mod.tagsByName[recv.Name]
		if !ok {
			break
		}
		env := bindTypeArgs(tag.TypeParams, recv.Args)
		for _, m := range tag.Methods {
			if m.Name == method {
				return b.checkCall(sc, e, substituteSig(m.Sig, env), recv.Name+"."+method)
			}
		}

	case TypeSpec:
		spec, ok := b.mod.specsByName[recv.Name]
		if !ok {
			break
		}
		for _, m := range spec.Methods {
			if m.Name == method {
				return b.checkCall(sc, e, m, recv.Name+"."+method)
			}
		}
	}

	b.errorf(diag.SemaUnresolvedIdent, callee.Member.Pos,
		recv.String()+" has no method "+method)
	for _, a := range e.Args {
		b.exprType(sc, a, nil)
	}
	return invalidType
}

// shadowedByValue reports whether name currently resolves to a local
// value binding. Top-level names share the scope chain with locals,
// so a mere Lookup hit says nothing about what kind of thing name is.
func (b *binder) shadowedByValue(sc *Scope, name string) bool {
	sym, ok := sc.Lookup(name)
	return ok && (sym.Kind == SymVar || sym.Kind == SymParam)
}

// variantCall types Tag.variant(payload) and checks the payload
// against the declared variant.
func (b *binder) variantCall(sc *Scope, e *ast.CallExpr, tag *TagInfo, callee *ast.DotExpr) *Type {
	variant := callee.Member.Text
	var vi *VariantInfo
	for i := range tag.Variants {
		if tag.Variants[i].Name == variant {
			vi = &tag.Variants[i]
			break
		}
	}
	if vi == nil {
		b.errorf(diag.SemaUnknownVariant, callee.Member.Pos,
			tag.Name+" has no variant "+variant)
		for _, a := range e.Args {
			b.exprType(sc, a, nil)
		}
		return invalidType
	}

	result := &Type{Kind: TypeTag, Name: tag.Name}

	if vi.Unit {
		if len(e.Args) != 0 {
			b.errorf(diag.SemaArityMismatch, e.Pos,
				tag.Name+"."+variant+" carries no payload")
		}
		// A unit construction of a generic tag leaves the arguments to
		// context; concrete payload constructions pin them below.
		if len(tag.TypeParams) != 0 {
			for range tag.TypeParams {
				result.Args = append(result.Args, invalidType)
			}
		}
		return result
	}

	if len(e.Args) != 1 {
		b.errorf(diag.SemaArityMismatch, e.Pos,
			fmt.Sprintf("%s.%s takes 1 payload argument, got %d", tag.Name, variant, len(e.Args)))
		return invalidType
	}
	got := b.exprType(sc, e.Args[0], nil)

	if vi.Payload.Kind == TypeParam {
		// Infer the tag's type argument from the payload.
		for _, p := range tag.TypeParams {
			if p == vi.Payload.Name {
				result.Args = append(result.Args, got)
			} else {
				result.Args = append(result.Args, invalidType)
			}
		}
		b.recordTagUse(tag, result, callee)
		return result
	}
	if !b.assignable(vi.Payload, got) {
		b.errorf(diag.SemaTypeMismatch, e.Args[0].Span(),
			tag.Name+"."+variant+" payload needs "+vi.Payload.String()+", got "+got.String())
	}
	return result
}

func (b *binder) recordTagUse(tag *TagInfo, t *Type, callee *ast.DotExpr) {
	if b.opts.Insts == nil || len(t.Args) == 0 || !isConcrete(t) {
		return
	}
	rendered := make([]string, len(t.Args))
	for i, a := range t.Args {
		rendered[i] = a.String()
	}
	b.opts.Insts.Record(mono.InstTag, tag.Name, rendered,
		mono.UseSite{Span: callee.Member.Pos, Module: b.mod.Name})
}

// checkCall validates argument count and types against sig and yields
// the return type. Closure arguments receive the parameter type as
// their context so their own parameters can be typed.
func (b *binder) checkCall(sc *Scope, e *ast.CallExpr, sig MethodSig, label string) *Type {
	if len(e.Args) != len(sig.Params) {
		b.errorf(diag.SemaArityMismatch, e.Pos,
			fmt.Sprintf("%s takes %d arguments, got %d", label, len(sig.Params), len(e.Args)))
		for _, a := range e.Args {
			b.exprType(sc, a, nil)
		}
		return orUnit(sig.Ret)
	}
	for i, a := range e.Args {
		want := sig.Params[i]
		got := b.exprType(sc, a, want)
		if !b.assignable(want, got) {
			b.errorf(diag.SemaTypeMismatch, a.Span(),
				fmt.Sprintf("argument %d of %s needs %s, got %s", i+1, label, want.String(), got.String()))
		}
	}
	return orUnit(sig.Ret)
}

func orUnit(t *Type) *Type {
	if t == nil {
		return unitType
	}
	return t
}

func substituteSig(sig MethodSig, env map[string]*Type) MethodSig {
	if env == nil {
		return sig
	}
	out := MethodSig{Name: sig.Name, Ret: substitute(sig.Ret, env)}
	for _, p := range sig.Params {
		out.Params = append(out.Params, substitute(p, env))
	}
	return out
}

// dotType handles member access outside call position: struct fields,
// synthetic pair halves and unit tag variants like May.nil.
func (b *binder) dotType(sc *Scope, e *ast.DotExpr) *Type {
	if id, ok := e.Object.(*ast.IdentExpr); ok && !b.shadowedByValue(sc, id.Name.Text) {
		if tag, isTag := b.mod.tagsByName[id.Name.Text]; isTag {
			return b.unitVariant(tag, e)
		}
	}

	recv := b.exprType(sc, e.Object, nil)
	member := e.Member.Text

	switch recv.Kind {
	case TypeInvalid:
		return invalidType

	case TypeStruct:
		if recv.Name == pairTypeName && len(recv.Args) == 2 {
			switch member {
			case "a":
				return recv.Args[0]
			case "b":
				return recv.Args[1]
			}
		}
		if ti, ok := b.mod.typesByName[recv.Name]; ok {
			env := bindTypeArgs(ti.TypeParams, recv.Args)
			for _, f := range ti.Fields {
				if f.Name == member {
					return substitute(f.Type, env)
				}
			}
			if m, found := ti.Method(member); found {
				sig := substituteSig(m.Sig, env)
				return &Type{Kind: TypeFn, Args: sig.Params, Elem: orUnit(sig.Ret)}
			}
		}

	case TypeStr, TypeArray:
		if member == "len" {
			return &Type{Kind: TypeFn, Elem: intType}
		}
	}

	b.errorf(diag.SemaUnresolvedIdent, e.Member.Pos,
		recv.String()+" has no member "+member)
	return invalidType
}

// unitVariant types a bare Tag.variant reference, which constructs the
// payload-less variant value.
func (b *binder) unitVariant(tag *TagInfo, e *ast.DotExpr) *Type {
	for i := range tag.Variants {
		if tag.Variants[i].Name == e.Member.Text {
			if !tag.Variants[i].Unit {
				b.errorf(diag.SemaTypeMismatch, e.Member.Pos,
					tag.Name+"."+e.Member.Text+" needs a payload argument")
				return invalidType
			}
			result := &Type{Kind: TypeTag, Name: tag.Name}
			for range tag.TypeParams {
				result.Args = append(result.Args, invalidType)
			}
			return result
		}
	}
	b.errorf(diag.SemaUnknownVariant, e.Member.Pos,
		tag.Name+" has no variant "+e.Member.Text)
	return invalidType
}
