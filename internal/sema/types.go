package sema

import "strings"

// TypeKind classifies semantic types.
type TypeKind uint8

const (
	TypeInvalid TypeKind = iota
	TypeUnit             // no value; void in C
	TypeInt
	TypeUint
	TypeI8
	TypeU8
	TypeFloat
	TypeDouble
	TypeBool
	TypeChar
	TypeStr
	TypeCStr
	TypeStruct
	TypeTag
	TypeSpec
	TypeRange // int range, for-in iterable
	TypeArray
	TypeIter  // lazy iterator chain value
	TypeParam // generic parameter inside a generic declaration body
	TypeFn    // closure or function value; Args are parameters, Elem the result
)

// Type is a resolved semantic type. Builtins are shared singletons;
// named types carry their name and any concrete generic arguments.
type Type struct {
	Kind TypeKind
	Name string  // struct/tag/spec/param name
	Args []*Type // concrete generic arguments
	Elem *Type   // element type for arrays, ranges and iterators
}

var (
	unitType   = &Type{Kind: TypeUnit, Name: "void"}
	intType    = &Type{Kind: TypeInt, Name: "int"}
	uintType   = &Type{Kind: TypeUint, Name: "uint"}
	i8Type     = &Type{Kind: TypeI8, Name: "i8"}
	u8Type     = &Type{Kind: TypeU8, Name: "u8"}
	floatType  = &Type{Kind: TypeFloat, Name: "float"}
	doubleType = &Type{Kind: TypeDouble, Name: "double"}
	boolType   = &Type{Kind: TypeBool, Name: "bool"}
	charType   = &Type{Kind: TypeChar, Name: "char"}
	strType    = &Type{Kind: TypeStr, Name: "str"}
	cstrType   = &Type{Kind: TypeCStr, Name: "cstr"}
)

// builtinTypes maps source-level names to singleton types.
var builtinTypes = map[string]*Type{
	"void":   unitType,
	"Nil":    unitType,
	"int":    intType,
	"uint":   uintType,
	"i8":     i8Type,
	"u8":     u8Type,
	"float":  floatType,
	"double": doubleType,
	"bool":   boolType,
	"char":   charType,
	"str":    strType,
	"cstr":   cstrType,
}

// BuiltinType resolves a source-level builtin type name.
func BuiltinType(name string) (*Type, bool) {
	t, ok := builtinTypes[name]
	return t, ok
}

// IsNumeric reports whether arithmetic applies.
func (t *Type) IsNumeric() bool {
	switch t.Kind {
	case TypeInt, TypeUint, TypeI8, TypeU8, TypeFloat, TypeDouble:
		return true
	default:
		return false
	}
}

// IsUnit reports a valueless type.
func (t *Type) IsUnit() bool { return t == nil || t.Kind == TypeUnit }

// Equal is structural equality over kind, name and arguments.
func (t *Type) Equal(other *Type) bool {
	if t == other {
		return true
	}
	if t == nil || other == nil {
		return false
	}
	if t.Kind != other.Kind || t.Name != other.Name || len(t.Args) != len(other.Args) {
		return false
	}
	for i := range t.Args {
		if !t.Args[i].Equal(other.Args[i]) {
			return false
		}
	}
	if (t.Elem == nil) != (other.Elem == nil) {
		return false
	}
	if t.Elem != nil && !t.Elem.Equal(other.Elem) {
		return false
	}
	return true
}

// String renders the type the way it is written in source.
func (t *Type) String() string {
	if t == nil {
		return "void"
	}
	switch t.Kind {
	case TypeArray:
		return "[" + t.Elem.String() + "]"
	case TypeRange:
		return "range"
	case TypeIter:
		return "iter<" + t.Elem.String() + ">"
	}
	if len(t.Args) == 0 {
		return t.Name
	}
	var sb strings.Builder
	sb.WriteString(t.Name)
	sb.WriteByte('<')
	for i, a := range t.Args {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(a.String())
	}
	sb.WriteByte('>')
	return sb.String()
}

// MethodSig is a resolved method signature.
type MethodSig struct {
	Name   string
	Params []*Type
	Ret    *Type // nil means void
}

// Matches compares two signatures by arity and parameter/return types.
func (s MethodSig) Matches(other MethodSig) bool {
	if s.Name != other.Name || len(s.Params) != len(other.Params) {
		return false
	}
	for i := range s.Params {
		if !s.Params[i].Equal(other.Params[i]) {
			return false
		}
	}
	if s.Ret.IsUnit() != other.Ret.IsUnit() {
		return false
	}
	if !s.Ret.IsUnit() && !s.Ret.Equal(other.Ret) {
		return false
	}
	return true
}
