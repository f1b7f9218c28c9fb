package sema

import (
	"fmt"

	"autoc/internal/ast"
	"autoc/internal/diag"
	"autoc/internal/mono"
)

// invalidType is the internal recovery type after a resolution error.
// It never reaches code generation: any error withholds the module.
var invalidType = &Type{Kind: TypeInvalid, Name: "<invalid>"}

// resolveTypeRef turns a written type into a semantic type, checking
// generic arity and recording concrete instantiations in the shared
// cache.
func (b *binder) resolveTypeRef(ref *ast.TypeRef) *Type {
	if ref.Elem != nil {
		elem := b.resolveTypeRef(ref.Elem)
		if elem.Kind == TypeInvalid {
			return invalidType
		}
		return &Type{Kind: TypeArray, Elem: elem}
	}

	name := ref.Name.Text

	if t, ok := b.typeParams[name]; ok {
		if len(ref.Args) != 0 {
			b.errorf(diag.SemaNotAGeneric, ref.Pos, name+" is a type parameter and takes no arguments")
			return invalidType
		}
		return t
	}

	if t, ok := builtinTypes[name]; ok {
		if len(ref.Args) != 0 {
			b.errorf(diag.SemaNotAGeneric, ref.Pos, name+" is not generic")
			return invalidType
		}
		return t
	}

	args := make([]*Type, 0, len(ref.Args))
	for _, a := range ref.Args {
		args = append(args, b.resolveTypeRef(a))
	}

	if tag, ok := b.mod.tagsByName[name]; ok {
		if !b.checkArity(ref, len(tag.TypeParams), len(args)) {
			return invalidType
		}
		b.recordInstantiation(mono.InstTag, name, args, ref)
		return &Type{Kind: TypeTag, Name: name, Args: args}
	}
	if ti, ok := b.mod.typesByName[name]; ok {
		if !b.checkArity(ref, len(ti.TypeParams), len(args)) {
			return invalidType
		}
		b.recordInstantiation(mono.InstType, name, args, ref)
		return &Type{Kind: TypeStruct, Name: name, Args: args}
	}
	if spec, ok := b.mod.specsByName[name]; ok {
		if !b.checkArity(ref, len(spec.TypeParams), len(args)) {
			return invalidType
		}
		b.recordInstantiation(mono.InstSpec, name, args, ref)
		return &Type{Kind: TypeSpec, Name: name, Args: args}
	}

	b.errorf(diag.SemaUnresolvedIdent, ref.Pos, "unknown type "+name)
	return invalidType
}

func (b *binder) checkArity(ref *ast.TypeRef, want, got int) bool {
	if want == got {
		return true
	}
	if want == 0 {
		b.errorf(diag.SemaNotAGeneric, ref.Pos, ref.Name.Text+" is not generic")
		return false
	}
	b.errorf(diag.SemaArityMismatch, ref.Pos,
		fmt.Sprintf("%s expects %d type arguments, got %d", ref.Name.Text, want, got))
	return false
}

// recordInstantiation registers a fully concrete generic use. Uses
// that still mention a type parameter are recorded later, when the
// enclosing generic is itself instantiated.
func (b *binder) recordInstantiation(kind mono.InstKind, base string, args []*Type, ref *ast.TypeRef) {
	if b.opts.Insts == nil || len(args) == 0 {
		return
	}
	rendered := make([]string, len(args))
	for i, a := range args {
		if !isConcrete(a) {
			return
		}
		rendered[i] = a.String()
	}
	b.opts.Insts.Record(kind, base, rendered, mono.UseSite{Span: ref.Pos, Module: b.mod.Name})
}

func isConcrete(t *Type) bool {
	if t == nil || t.Kind == TypeParam || t.Kind == TypeInvalid {
		return false
	}
	for _, a := range t.Args {
		if !isConcrete(a) {
			return false
		}
	}
	return true
}

// substitute replaces type parameters by the bindings in env,
// rebuilding composites as needed.
func substitute(t *Type, env map[string]*Type) *Type {
	if t == nil {
		return nil
	}
	if t.Kind == TypeParam {
		if bound, ok := env[t.Name]; ok {
			return bound
		}
		return t
	}
	if len(t.Args) == 0 && t.Elem == nil {
		return t
	}
	out := &Type{Kind: t.Kind, Name: t.Name}
	for _, a := range t.Args {
		out.Args = append(out.Args, substitute(a, env))
	}
	out.Elem = substitute(t.Elem, env)
	return out
}

// bindTypeArgs pairs a declaration's parameters with concrete
// arguments from a use site.
func bindTypeArgs(params []string, args []*Type) map[string]*Type {
	if len(params) == 0 || len(params) != len(args) {
		return nil
	}
	env := make(map[string]*Type, len(params))
	for i, p := range params {
		env[p] = args[i]
	}
	return env
}
