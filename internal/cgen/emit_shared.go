package cgen

import (
	"strings"

	"autoc/internal/diag"
	"autoc/internal/mono"
	"autoc/internal/sema"
	"autoc/internal/source"
)

// EmitShared generates the header holding every monomorphized generic
// definition the instantiation cache collected across modules. Each
// distinct specialization is emitted exactly once; specializations
// whose fields mention further generic uses are recorded back into
// the cache and processed until the queue drains, with the cycle
// guard bounding self-feeding instantiations.
func EmitShared(modules []*sema.Module, cache *mono.Cache, opts Options) (Output, bool) {
	s := &sharedEmitter{
		emitter: emitter{
			opts:    opts,
			ptrVars: make(map[string]bool),
			arrays:  make(map[string]*sema.Type),
		},
		modules: modules,
		cache:   cache,
		guard:   opts.Guard,
		done:    make(map[mono.Key]bool),
	}
	if s.guard == nil {
		s.guard = mono.NewCycleGuard(mono.DefaultCycleLimit)
	}
	s.emitter.shared = s

	var chunks []string
	for {
		batch := cache.Drain()
		if len(batch) == 0 {
			break
		}
		for _, desc := range batch {
			if s.done[desc.Key] {
				continue
			}
			s.done[desc.Key] = true
			chunks = append(chunks, s.emitDescriptor(desc))
		}
	}

	var out strings.Builder
	out.WriteString("#pragma once\n\n")
	out.WriteString("#include <stdint.h>\n")
	out.WriteString("#include <stdbool.h>\n\n")

	s.buf = &s.hdr
	s.hdr.Reset()
	s.emitSharedForwards()
	s.emitArrayDefs()
	out.WriteString(s.hdr.String())

	// Later chunks are dependencies discovered while emitting earlier
	// ones, so reverse order defines before use.
	for i := len(chunks) - 1; i >= 0; i-- {
		out.WriteString(chunks[i])
	}

	return Output{
		HeaderName: SharedHeaderName,
		Header:     []byte(out.String()),
	}, s.errors == 0
}

type sharedEmitter struct {
	emitter
	modules []*sema.Module
	cache   *mono.Cache
	guard   *mono.CycleGuard
	done    map[mono.Key]bool
	names   []string // mangled names in emission order, for forwards
}

func (s *sharedEmitter) emitDescriptor(desc *mono.Descriptor) string {
	var chunk strings.Builder
	prev := s.buf
	s.buf = &chunk
	defer func() { s.buf = prev }()

	args := make([]*sema.Type, len(desc.TypeArgs))
	for i, a := range desc.TypeArgs {
		args[i] = s.typeFromString(a)
	}

	// Specializations discovered while emitting feed back through the
	// queue, so the guard counts emissions per base instead of stack
	// depth: a self-feeding generic trips the limit here.
	if !s.guard.Enter(desc.Base) {
		s.errorf(diag.GenInstantiationCycle, source.Span{},
			"instantiations of "+desc.Base+" exceed the recursion limit")
		return ""
	}

	s.names = append(s.names, desc.MangledName)

	if desc.Base == "Pair" {
		s.emitPair(desc, args)
		return chunk.String()
	}

	switch desc.Kind {
	case mono.InstTag:
		if tag, mod := s.findTag(desc.Base); tag != nil {
			s.withModule(mod, func() {
				env := bindParams(tag.TypeParams, args)
				s.emitTagDef(tag, env, desc.MangledName)
				s.emitSpecializedMethods(desc.MangledName, tag.Methods, env, sema.TypeTag)
			})
		}
	case mono.InstType:
		if ti, mod := s.findType(desc.Base); ti != nil {
			s.withModule(mod, func() {
				env := bindParams(ti.TypeParams, args)
				s.emitStructDef(ti, env, desc.MangledName)
				s.emitSpecializedMethods(desc.MangledName, ti.Methods, env, sema.TypeStruct)
			})
		}
	case mono.InstSpec:
		if spec, mod := s.findSpec(desc.Base); spec != nil {
			s.withModule(mod, func() {
				s.emitSpecializedSpec(spec, args, desc.MangledName)
			})
		}
	}
	return chunk.String()
}

// withModule points expression emission at the defining module while
// specializing its method bodies.
func (s *sharedEmitter) withModule(mod *sema.Module, fn func()) {
	saved := s.mod
	s.mod = mod
	fn()
	s.mod = saved
}

func (s *sharedEmitter) emitPair(desc *mono.Descriptor, args []*sema.Type) {
	if len(args) != 2 {
		return
	}
	s.linef("typedef struct %s {", desc.MangledName)
	s.linef("    %sa;", spaced(s.cTypeOf(args[0])))
	s.linef("    %sb;", spaced(s.cTypeOf(args[1])))
	s.linef("} %s;", desc.MangledName)
	s.linef("")
}

// emitSpecializedMethods lowers method bodies under the argument
// environment. Shared definitions are static inline so every
// translation unit can include them.
func (s *sharedEmitter) emitSpecializedMethods(name string, methods []*sema.FnInfo, env map[string]*sema.Type, kind sema.TypeKind) {
	saved := s.typeEnv
	s.typeEnv = env
	defer func() { s.typeEnv = saved }()

	for _, m := range methods {
		s.ptrVars = map[string]bool{"self": true}
		var sb strings.Builder
		sb.WriteString("static inline ")
		sb.WriteString(spaced(s.cRet(m.Sig.Ret)))
		sb.WriteString(methodName(name, m.Name))
		sb.WriteString("(")
		sb.WriteString(name)
		sb.WriteString(" *self")
		for i, p := range m.Sig.Params {
			sb.WriteString(", ")
			sb.WriteString(spaced(s.cTypeOf(p)))
			sb.WriteString(m.Decl.Sig.Params[i].Name.Text)
		}
		sb.WriteString(")")
		s.linef("%s {", sb.String())
		s.indent++
		s.emitFnBody(m)
		s.indent--
		s.linef("}")
		s.linef("")
	}
	s.ptrVars = make(map[string]bool)
}

func (s *sharedEmitter) emitSpecializedSpec(spec *sema.SpecInfo, args []*sema.Type, name string) {
	saved := s.typeEnv
	s.typeEnv = bindParams(spec.TypeParams, args)
	defer func() { s.typeEnv = saved }()

	s.linef("typedef struct %s_vtable {", name)
	for _, m := range spec.Methods {
		s.linef("    %s(*%s)(%s);", spaced(s.cRet(m.Ret)), strings.ToLower(m.Name), s.thunkParams(m))
	}
	s.linef("} %s_vtable;", name)
	s.linef("")
	s.linef("typedef struct %s {", name)
	s.linef("    void *self;")
	s.linef("    const %s_vtable *vt;", name)
	s.linef("} %s;", name)
	s.linef("")
}

// recordNested registers a generic use discovered while lowering a
// specialization, so its own definition lands in the queue.
func (s *sharedEmitter) recordNested(t *sema.Type) {
	if s.cache == nil {
		return
	}
	rendered := make([]string, len(t.Args))
	for i, a := range t.Args {
		if a == nil || a.Kind == sema.TypeParam || a.Kind == sema.TypeInvalid {
			return
		}
		rendered[i] = a.String()
	}
	kind := mono.InstType
	switch t.Kind {
	case sema.TypeTag:
		kind = mono.InstTag
	case sema.TypeSpec:
		kind = mono.InstSpec
	}
	s.cache.Record(kind, t.Name, rendered, mono.UseSite{})
}

func (s *sharedEmitter) emitSharedForwards() {
	for _, n := range s.names {
		s.linef("typedef struct %s %s;", n, n)
	}
	if len(s.names) > 0 {
		s.linef("")
	}
}

func (s *sharedEmitter) findTag(name string) (*sema.TagInfo, *sema.Module) {
	for _, m := range s.modules {
		if t, ok := m.TagOf(name); ok {
			return t, m
		}
	}
	return nil, nil
}

func (s *sharedEmitter) findType(name string) (*sema.TypeInfo, *sema.Module) {
	for _, m := range s.modules {
		if t, ok := m.TypeInfoOf(name); ok {
			return t, m
		}
	}
	return nil, nil
}

func (s *sharedEmitter) findSpec(name string) (*sema.SpecInfo, *sema.Module) {
	for _, m := range s.modules {
		if sp, ok := m.SpecOf(name); ok {
			return sp, m
		}
	}
	return nil, nil
}

// typeFromString parses a rendered type back into its semantic form:
// builtins, [elem] arrays and Name<args> instantiations.
func (s *sharedEmitter) typeFromString(text string) *sema.Type {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "[") && strings.HasSuffix(text, "]") {
		return &sema.Type{Kind: sema.TypeArray, Elem: s.typeFromString(text[1 : len(text)-1])}
	}
	if t, ok := sema.BuiltinType(text); ok {
		return t
	}

	name := text
	var args []*sema.Type
	if open := strings.IndexByte(text, '<'); open >= 0 && strings.HasSuffix(text, ">") {
		name = text[:open]
		for _, part := range splitArgs(text[open+1 : len(text)-1]) {
			args = append(args, s.typeFromString(part))
		}
	}

	if _, m := s.findTag(name); m != nil {
		return &sema.Type{Kind: sema.TypeTag, Name: name, Args: args}
	}
	if _, m := s.findSpec(name); m != nil {
		return &sema.Type{Kind: sema.TypeSpec, Name: name, Args: args}
	}
	return &sema.Type{Kind: sema.TypeStruct, Name: name, Args: args}
}

// splitArgs splits a rendered argument list on top-level commas.
func splitArgs(s string) []string {
	var out []string
	depth := 0
	start := 0
	for i, r := range s {
		switch r {
		case '<', '[':
			depth++
		case '>', ']':
			depth--
		case ',':
			if depth == 0 {
				out = append(out, s[start:i])
				start = i + 1
			}
		}
	}
	if strings.TrimSpace(s[start:]) != "" {
		out = append(out, s[start:])
	}
	return out
}

func bindParams(params []string, args []*sema.Type) map[string]*sema.Type {
	if len(params) == 0 || len(params) != len(args) {
		return nil
	}
	env := make(map[string]*sema.Type, len(params))
	for i, p := range params {
		env[p] = args[i]
	}
	return env
}
