package cgen

import (
	"sort"
	"strings"

	"autoc/internal/mono"
	"autoc/internal/sema"
)

// cTypeOf maps a semantic type to its C spelling. Named types use
// their mangled monomorphic name; arrays use the slice struct emitted
// on demand.
func (e *emitter) cTypeOf(t *sema.Type) string {
	t = e.subst(t)
	switch t.Kind {
	case sema.TypeUnit:
		return "void"
	case sema.TypeInt:
		return "int64_t"
	case sema.TypeUint:
		return "uint64_t"
	case sema.TypeI8:
		return "int8_t"
	case sema.TypeU8:
		return "uint8_t"
	case sema.TypeFloat:
		return "float"
	case sema.TypeDouble:
		return "double"
	case sema.TypeBool:
		return "bool"
	case sema.TypeChar:
		return "char"
	case sema.TypeStr, sema.TypeCStr:
		return "const char *"
	case sema.TypeStruct, sema.TypeTag, sema.TypeSpec:
		if e.shared != nil && len(t.Args) > 0 {
			e.shared.recordNested(t)
		}
		return mangled(t)
	case sema.TypeArray:
		return e.arrName(t.Elem)
	case sema.TypeRange:
		return "int64_t" // ranges only exist as loop bounds
	}
	return "void"
}

// subst applies the active specialization environment.
func (e *emitter) subst(t *sema.Type) *sema.Type {
	if e.typeEnv == nil || t == nil {
		return t
	}
	if t.Kind == sema.TypeParam {
		if bound, ok := e.typeEnv[t.Name]; ok {
			return bound
		}
	}
	if len(t.Args) == 0 && t.Elem == nil {
		return t
	}
	out := &sema.Type{Kind: t.Kind, Name: t.Name}
	for _, a := range t.Args {
		out.Args = append(out.Args, e.subst(a))
	}
	out.Elem = e.subst(t.Elem)
	return out
}

// mangled renders the C identifier of a named type: May<int> becomes
// May_int.
func mangled(t *sema.Type) string {
	if len(t.Args) == 0 {
		return t.Name
	}
	args := make([]string, len(t.Args))
	for i, a := range t.Args {
		args[i] = a.String()
	}
	return mono.Mangle(t.Name, args)
}

// methodName is the emitted function name of a method: the mangled
// owner joined with the lowercased method segment.
func methodName(owner, method string) string {
	return owner + "_" + strings.ToLower(method)
}

// enumMember is the discriminant spelling: the mangled tag and the
// variant, uppercased.
func enumMember(tagMangled, variant string) string {
	return strings.ToUpper(tagMangled + "_" + variant)
}

// arrName registers and names the slice struct for an element type.
func (e *emitter) arrName(elem *sema.Type) string {
	elem = e.subst(elem)
	name := "Arr_" + sanitizeIdent(elem.String())
	if _, ok := e.arrays[name]; !ok {
		e.arrays[name] = elem
	}
	return name
}

func sanitizeIdent(s string) string {
	var sb strings.Builder
	for _, r := range s {
		switch r {
		case '<', ',', '[':
			sb.WriteByte('_')
		case '>', ']', ' ':
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// zeroValue is the sentinel used after an exhaustive switch and for
// unreachable return paths.
func (e *emitter) zeroValue(t *sema.Type) string {
	ct := e.cTypeOf(t)
	if ct == "void" {
		return ""
	}
	if strings.HasSuffix(ct, "*") {
		return "NULL"
	}
	switch ct {
	case "int64_t", "uint64_t", "int8_t", "uint8_t", "char":
		return "0"
	case "float", "double":
		return "0.0"
	case "bool":
		return "false"
	}
	return "(" + ct + "){0}"
}

// fmtSpec picks the printf conversion for a printable type. The
// second result wraps the argument expression when a cast or
// rendering expression is needed.
func (e *emitter) fmtSpec(t *sema.Type, arg string) (string, string) {
	t = e.subst(t)
	switch t.Kind {
	case sema.TypeInt, sema.TypeI8:
		return "%lld", "(long long)(" + arg + ")"
	case sema.TypeUint, sema.TypeU8:
		return "%llu", "(unsigned long long)(" + arg + ")"
	case sema.TypeFloat, sema.TypeDouble:
		return "%g", "(double)(" + arg + ")"
	case sema.TypeBool:
		return "%s", "((" + arg + ") ? \"true\" : \"false\")"
	case sema.TypeChar:
		return "%c", arg
	case sema.TypeStr, sema.TypeCStr:
		return "%s", arg
	}
	return "%p", "(void *)0"
}

func (e *emitter) emitArrayDefs() {
	if len(e.arrays) == 0 {
		return
	}
	// Deterministic order keeps rebuilds byte-identical.
	names := make([]string, 0, len(e.arrays))
	for n := range e.arrays {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		e.linef("typedef struct %s {", n)
		e.linef("    %s*data;", spaced(e.cTypeOf(e.arrays[n])))
		e.linef("    int64_t len;")
		e.linef("} %s;", n)
		e.linef("")
	}
}

// spaced appends a space unless the type already ends in one (pointer
// spellings carry their own).
func spaced(ct string) string {
	if strings.HasSuffix(ct, "*") || strings.HasSuffix(ct, " ") {
		return ct
	}
	return ct + " "
}
