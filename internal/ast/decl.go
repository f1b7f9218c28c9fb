package ast

import "autoc/internal/source"

// Param is one function parameter.
type Param struct {
	Name Name
	Type *TypeRef
}

// FnSig is a function signature: name, parameters, optional return
// type. Specs declare bare signatures; FnDecl pairs one with a body.
type FnSig struct {
	Name   Name
	Params []Param
	Ret    *TypeRef // nil means void
	Pos    source.Span
}

// FnDecl is a function declaration, either free-standing or a method
// inside a type/tag body. Owner is set by the parser for methods.
type FnDecl struct {
	Sig   FnSig
	Body  *BlockExpr
	Owner Name // enclosing type or tag; zero for free functions
}

// Field is one data member of a type declaration.
type Field struct {
	Name Name
	Type *TypeRef
}

// Delegation is `has member MemberType for Spec` inside a type body:
// the composite exposes Spec's methods by forwarding to the member.
type Delegation struct {
	Member Name
	Type   *TypeRef
	Spec   Name
	Pos    source.Span
}

// TypeDecl is a struct-like type. Conforms lists the specs claimed
// with `as`; Delegations lists `has` members; Methods are the fn items
// of the body.
type TypeDecl struct {
	Name        Name
	TypeParams  []Name
	Conforms    []Name
	Fields      []Field
	Delegations []Delegation
	Methods     []*FnDecl
	Pos         source.Span
}

// Variant is one alternative of a tag. Payload is nil for unit
// variants.
type Variant struct {
	Name    Name
	Payload *TypeRef
}

// TagDecl is a tagged union. Variant order is discriminant order.
type TagDecl struct {
	Name       Name
	TypeParams []Name
	Variants   []Variant
	Methods    []*FnDecl
	Pos        source.Span
}

// SpecDecl is a named set of method signatures.
type SpecDecl struct {
	Name       Name
	TypeParams []Name
	Methods    []FnSig
	Pos        source.Span
}

// UseKind selects the import namespace of a use directive.
type UseKind uint8

const (
	// UseAuto imports another Auto module by name.
	UseAuto UseKind = iota
	// UseC passes through as #include <path.h> in the emitted unit.
	UseC
)

// UseDecl is `use name` or `use c name`.
type UseDecl struct {
	Kind UseKind
	Path Name
	Pos  source.Span
}

func (d *FnDecl) Span() source.Span   { return d.Sig.Pos }
func (d *TypeDecl) Span() source.Span { return d.Pos }
func (d *TagDecl) Span() source.Span  { return d.Pos }
func (d *SpecDecl) Span() source.Span { return d.Pos }
func (d *UseDecl) Span() source.Span  { return d.Pos }

func (*FnDecl) declNode()   {}
func (*TypeDecl) declNode() {}
func (*TagDecl) declNode()  {}
func (*SpecDecl) declNode() {}
func (*UseDecl) declNode()  {}

// Variant lookup by name; returns the declaration index for the
// discriminant and false when absent.
func (d *TagDecl) VariantIndex(name string) (int, bool) {
	for i, v := range d.Variants {
		if v.Name.Text == name {
			return i, true
		}
	}
	return 0, false
}

// Method returns the fn item with the given name, if declared.
func (d *TypeDecl) Method(name string) (*FnDecl, bool) {
	for _, m := range d.Methods {
		if m.Sig.Name.Text == name {
			return m, true
		}
	}
	return nil, false
}
