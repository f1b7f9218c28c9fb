package ast

import "autoc/internal/source"

// TypeRef is a type as written in source: a named type with optional
// generic arguments, e.g. int, str, May<int>, List<int, ArrayStorage>,
// or an array type [Elem].
type TypeRef struct {
	Name Name
	Args []*TypeRef
	Elem *TypeRef // set for [Elem]; Name is zero then
	Pos  source.Span
}

func (t *TypeRef) Span() source.Span { return t.Pos }

// IsGeneric reports whether the reference carries type arguments.
func (t *TypeRef) IsGeneric() bool { return len(t.Args) > 0 }

// String renders the reference the way it was written, May<int> style.
// Used for diagnostics and instantiation keys.
func (t *TypeRef) String() string {
	if t.Elem != nil {
		return "[" + t.Elem.String() + "]"
	}
	if len(t.Args) == 0 {
		return t.Name.Text
	}
	s := t.Name.Text + "<"
	for i, a := range t.Args {
		if i > 0 {
			s += ", "
		}
		s += a.String()
	}
	return s + ">"
}
