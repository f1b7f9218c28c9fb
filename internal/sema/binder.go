// Package sema binds one parsed module: it resolves names through a
// lexical scope chain, checks spec conformance, expands delegation
// clauses into forwarding bridges, records generic instantiations in
// the shared cache and infers a concrete type for every expression.
// A module that produces any error here is withheld from code
// generation, which is in turn total over what sema lets through.
package sema

import (
	"autoc/internal/ast"
	"autoc/internal/diag"
	"autoc/internal/mono"
	"autoc/internal/source"
)

// Options configures one binding pass.
type Options struct {
	Reporter diag.Reporter
	Insts    *mono.Cache // shared across modules; may be nil in tests
}

// Module is the bound result handed to code generation.
type Module struct {
	File    *ast.File
	Name    string
	Types   []*TypeInfo
	Tags    []*TagInfo
	Specs   []*SpecInfo
	Fns     []*FnInfo // free functions
	Bridges []Bridge

	// ExprTypes holds the inferred type of every expression, keyed by
	// node identity. Closures appear here with TypeFn entries.
	ExprTypes map[ast.Expr]*Type

	// Errors counts diagnostics produced while binding. A nonzero
	// count withholds the module from code generation.
	Errors int

	typesByName map[string]*TypeInfo
	tagsByName  map[string]*TagInfo
	specsByName map[string]*SpecInfo
	fnsByName   map[string]*FnInfo
}

// TypeOf returns the inferred type of x.
func (m *Module) TypeOf(x ast.Expr) (*Type, bool) {
	t, ok := m.ExprTypes[x]
	return t, ok
}

// TypeInfoOf looks up a struct type declared in this module.
func (m *Module) TypeInfoOf(name string) (*TypeInfo, bool) {
	t, ok := m.typesByName[name]
	return t, ok
}

// TagOf looks up a tag declared in this module.
func (m *Module) TagOf(name string) (*TagInfo, bool) {
	t, ok := m.tagsByName[name]
	return t, ok
}

// SpecOf looks up a spec declared in this module.
func (m *Module) SpecOf(name string) (*SpecInfo, bool) {
	s, ok := m.specsByName[name]
	return s, ok
}

// FnOf looks up a free function declared in this module.
func (m *Module) FnOf(name string) (*FnInfo, bool) {
	f, ok := m.fnsByName[name]
	return f, ok
}

type binder struct {
	opts   Options
	mod    *Module
	global *Scope

	// typeParams holds the active generic parameters while resolving
	// a generic declaration's own body.
	typeParams map[string]*Type

	curFn     *FnInfo // function whose body is being bound
	loopDepth int
	errors    int
}

// Bind runs the full binding pass over file.
func Bind(file *ast.File, opts Options) *Module {
	mod := &Module{
		File:        file,
		Name:        file.Module,
		ExprTypes:   make(map[ast.Expr]*Type),
		typesByName: make(map[string]*TypeInfo),
		tagsByName:  make(map[string]*TagInfo),
		specsByName: make(map[string]*SpecInfo),
		fnsByName:   make(map[string]*FnInfo),
	}
	b := &binder{opts: opts, mod: mod, global: newScope(nil)}

	b.declareDecls()
	b.resolveSignatures()
	b.checkConformances()
	b.expandDelegations()
	b.bindBodies()
	mod.Errors = b.errors
	return mod
}

func (b *binder) errorf(code diag.Code, sp source.Span, msg string) {
	b.errors++
	if b.opts.Reporter != nil {
		b.opts.Reporter.Report(code, diag.SevError, sp, msg, nil)
	}
}

// declareDecls registers every top-level name before any reference is
// resolved, so declaration order never matters.
func (b *binder) declareDecls() {
	for _, d := range b.mod.File.Decls {
		switch decl := d.(type) {
		case *ast.TypeDecl:
			info := &TypeInfo{Decl: decl, Name: decl.Name.Text, TypeParams: paramNames(decl.TypeParams)}
			if !b.declareGlobal(decl.Name, SymType) {
				continue
			}
			b.mod.Types = append(b.mod.Types, info)
			b.mod.typesByName[info.Name] = info

		case *ast.TagDecl:
			info := &TagInfo{Decl: decl, Name: decl.Name.Text, TypeParams: paramNames(decl.TypeParams)}
			if !b.declareGlobal(decl.Name, SymTag) {
				continue
			}
			b.mod.Tags = append(b.mod.Tags, info)
			b.mod.tagsByName[info.Name] = info

		case *ast.SpecDecl:
			info := &SpecInfo{Decl: decl, Name: decl.Name.Text, TypeParams: paramNames(decl.TypeParams)}
			if !b.declareGlobal(decl.Name, SymSpec) {
				continue
			}
			b.mod.Specs = append(b.mod.Specs, info)
			b.mod.specsByName[info.Name] = info

		case *ast.FnDecl:
			info := &FnInfo{Decl: decl, Name: decl.Sig.Name.Text}
			if !b.declareGlobal(decl.Sig.Name, SymFn) {
				continue
			}
			b.mod.Fns = append(b.mod.Fns, info)
			b.mod.fnsByName[info.Name] = info

		case *ast.UseDecl:
			// Imports participate in codegen, not name binding.
		}
	}
}

func (b *binder) declareGlobal(name ast.Name, kind SymKind) bool {
	ok := b.global.Declare(&Symbol{Name: name.Text, Kind: kind, Decl: name.Pos})
	if !ok {
		b.errorf(diag.SemaDuplicateSymbol, name.Pos, "duplicate top-level name "+name.Text)
	}
	return ok
}

func paramNames(params []ast.Name) []string {
	if len(params) == 0 {
		return nil
	}
	out := make([]string, len(params))
	for i, p := range params {
		out[i] = p.Text
	}
	return out
}

// resolveSignatures resolves every declared type reference: fields,
// variants, spec signatures, method and function signatures.
func (b *binder) resolveSignatures() {
	for _, tag := range b.mod.Tags {
		b.withTypeParams(tag.TypeParams, func() {
			for _, v := range tag.Decl.Variants {
				info := VariantInfo{Name: v.Name.Text}
				if v.Payload == nil {
					info.Unit = true
				} else {
					info.Payload = b.resolveTypeRef(v.Payload)
					info.Unit = info.Payload.IsUnit()
				}
				tag.Variants = append(tag.Variants, info)
			}
			for _, m := range tag.Decl.Methods {
				tag.Methods = append(tag.Methods, b.resolveFn(m))
			}
		})
	}

	for _, spec := range b.mod.Specs {
		b.withTypeParams(spec.TypeParams, func() {
			for _, sig := range spec.Decl.Methods {
				spec.Methods = append(spec.Methods, b.resolveSig(sig))
			}
		})
	}

	for _, ty := range b.mod.Types {
		b.withTypeParams(ty.TypeParams, func() {
			for _, f := range ty.Decl.Fields {
				ty.Fields = append(ty.Fields, FieldInfo{Name: f.Name.Text, Type: b.resolveTypeRef(f.Type)})
			}
			for _, m := range ty.Decl.Methods {
				ty.Methods = append(ty.Methods, b.resolveFn(m))
			}
		})
		for _, claim := range ty.Decl.Conforms {
			spec, ok := b.mod.specsByName[claim.Text]
			if !ok {
				b.errorf(diag.SemaNotASpec, claim.Pos, claim.Text+" is not a spec")
				continue
			}
			ty.Conforms = append(ty.Conforms, spec)
		}
	}

	for _, fn := range b.mod.Fns {
		fn.Sig = b.resolveSig(fn.Decl.Sig)
	}
}

func (b *binder) withTypeParams(names []string, fn func()) {
	if len(names) == 0 {
		fn()
		return
	}
	saved := b.typeParams
	b.typeParams = make(map[string]*Type, len(names))
	for _, n := range names {
		b.typeParams[n] = &Type{Kind: TypeParam, Name: n}
	}
	fn()
	b.typeParams = saved
}

func (b *binder) resolveSig(sig ast.FnSig) MethodSig {
	out := MethodSig{Name: sig.Name.Text}
	for _, p := range sig.Params {
		out.Params = append(out.Params, b.resolveTypeRef(p.Type))
	}
	if sig.Ret != nil {
		out.Ret = b.resolveTypeRef(sig.Ret)
	}
	return out
}

func (b *binder) resolveFn(decl *ast.FnDecl) *FnInfo {
	return &FnInfo{
		Decl:  decl,
		Name:  decl.Sig.Name.Text,
		Owner: decl.Owner.Text,
		Sig:   b.resolveSig(decl.Sig),
	}
}
