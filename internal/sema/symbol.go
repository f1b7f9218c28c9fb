package sema

import (
	"autoc/internal/ast"
	"autoc/internal/source"
)

// SymKind classifies symbols.
type SymKind uint8

const (
	SymVar SymKind = iota
	SymParam
	SymFn
	SymType
	SymTag
	SymSpec
)

func (k SymKind) String() string {
	switch k {
	case SymVar:
		return "variable"
	case SymParam:
		return "parameter"
	case SymFn:
		return "function"
	case SymType:
		return "type"
	case SymTag:
		return "tag"
	case SymSpec:
		return "spec"
	default:
		return "symbol"
	}
}

// Symbol is one named entity.
type Symbol struct {
	Name string
	Kind SymKind
	Type *Type
	Mut  bool
	Decl source.Span
}

// Scope is one level of the lexical scope chain.
type Scope struct {
	parent *Scope
	names  map[string]*Symbol
}

func newScope(parent *Scope) *Scope {
	return &Scope{parent: parent, names: make(map[string]*Symbol)}
}

// Declare binds sym in this scope. Reports false when the name is
// already bound at this level; shadowing an outer scope is allowed.
func (s *Scope) Declare(sym *Symbol) bool {
	if _, ok := s.names[sym.Name]; ok {
		return false
	}
	s.names[sym.Name] = sym
	return true
}

// Lookup walks the chain outward.
func (s *Scope) Lookup(name string) (*Symbol, bool) {
	for sc := s; sc != nil; sc = sc.parent {
		if sym, ok := sc.names[name]; ok {
			return sym, true
		}
	}
	return nil, false
}

// FnInfo is a bound function or method.
type FnInfo struct {
	Decl  *ast.FnDecl
	Name  string
	Owner string // enclosing type/tag name; empty for free functions
	Sig   MethodSig
}

// FieldInfo is one resolved struct field.
type FieldInfo struct {
	Name string
	Type *Type
}

// VariantInfo is one resolved tag variant. Unit variants carry no
// payload storage.
type VariantInfo struct {
	Name    string
	Payload *Type
	Unit    bool
}

// TagInfo is a bound tag declaration.
type TagInfo struct {
	Decl       *ast.TagDecl
	Name       string
	TypeParams []string
	Variants   []VariantInfo
	Methods    []*FnInfo
}

// SpecInfo is a bound spec declaration.
type SpecInfo struct {
	Decl       *ast.SpecDecl
	Name       string
	TypeParams []string
	Methods    []MethodSig
}

// TypeInfo is a bound struct-like type declaration.
type TypeInfo struct {
	Decl       *ast.TypeDecl
	Name       string
	TypeParams []string
	Fields     []FieldInfo
	Conforms   []*SpecInfo
	Methods    []*FnInfo
}

// Method returns the named method, if defined directly on the type.
func (t *TypeInfo) Method(name string) (*FnInfo, bool) {
	for _, m := range t.Methods {
		if m.Name == name {
			return m, true
		}
	}
	return nil, false
}

// Bridge is a synthesized delegation forwarder: Composite.Method
// forwards to Member's implementation. One bridge per spec method per
// `has` clause.
type Bridge struct {
	Composite  *TypeInfo
	Member     string
	MemberType *TypeInfo
	Spec       *SpecInfo
	Method     MethodSig
}
