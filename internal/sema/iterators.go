package sema

import (
	"fmt"

	"autoc/internal/ast"
	"autoc/internal/diag"
	"autoc/internal/mono"
)

// pairTypeName is the synthetic two-field struct yielded by zip and
// enumerate. It is monomorphized like a user generic; its fields are
// a and b.
const pairTypeName = "Pair"

// iterCall types the iterator surface available on ranges, arrays and
// adapter chains. Adapters are lazy and yield iterator values;
// terminals consume the chain.
func (b *binder) iterCall(sc *Scope, e *ast.CallExpr, recv *Type, method string, callee *ast.DotExpr) *Type {
	elem := elemOf(recv)
	if elem == nil {
		elem = invalidType
	}

	switch method {
	// Adapters.
	case "map":
		fnT := b.oneClosureArg(sc, e, method, &Type{Kind: TypeFn, Args: []*Type{elem}})
		if fnT == nil {
			return invalidType
		}
		return &Type{Kind: TypeIter, Elem: orUnit(fnT.Elem)}

	case "filter":
		fnT := b.oneClosureArg(sc, e, method, &Type{Kind: TypeFn, Args: []*Type{elem}, Elem: boolType})
		if fnT == nil {
			return invalidType
		}
		if !fnT.Elem.IsUnit() && fnT.Elem.Kind != TypeBool && fnT.Elem.Kind != TypeInvalid {
			b.errorf(diag.SemaTypeMismatch, e.Args[0].Span(),
				"filter predicate must yield bool, got "+fnT.Elem.String())
		}
		return &Type{Kind: TypeIter, Elem: elem}

	case "zip":
		if !b.wantArgs(e, method, 1) {
			return invalidType
		}
		other := b.exprType(sc, e.Args[0], nil)
		otherElem := elemOf(other)
		if otherElem == nil {
			if other.Kind != TypeInvalid {
				b.errorf(diag.SemaTypeMismatch, e.Args[0].Span(), other.String()+" is not iterable")
			}
			otherElem = invalidType
		}
		return &Type{Kind: TypeIter, Elem: b.pairOf(elem, otherElem, callee)}

	case "enumerate":
		if !b.wantArgs(e, method, 0) {
			return invalidType
		}
		return &Type{Kind: TypeIter, Elem: b.pairOf(intType, elem, callee)}

	case "chain":
		if !b.wantArgs(e, method, 1) {
			return invalidType
		}
		other := b.exprType(sc, e.Args[0], recv)
		otherElem := elemOf(other)
		if otherElem == nil || (!b.assignable(elem, otherElem) && other.Kind != TypeInvalid) {
			b.errorf(diag.SemaTypeMismatch, e.Args[0].Span(),
				"chain needs a sequence of "+elem.String())
		}
		return &Type{Kind: TypeIter, Elem: elem}

	case "skip", "limit":
		if !b.wantArgs(e, method, 1) {
			return invalidType
		}
		n := b.exprType(sc, e.Args[0], intType)
		if n.Kind != TypeInt && n.Kind != TypeUint && n.Kind != TypeInvalid {
			b.errorf(diag.SemaTypeMismatch, e.Args[0].Span(), method+" count must be an integer")
		}
		return &Type{Kind: TypeIter, Elem: elem}

	// Terminals.
	case "collect":
		if !b.wantArgs(e, method, 0) {
			return invalidType
		}
		return &Type{Kind: TypeArray, Elem: elem}

	case "count":
		if !b.wantArgs(e, method, 0) {
			return invalidType
		}
		return intType

	case "reduce":
		if !b.wantArgs(e, method, 2) {
			return invalidType
		}
		acc := b.exprType(sc, e.Args[0], nil)
		fnWant := &Type{Kind: TypeFn, Args: []*Type{acc, elem}, Elem: acc}
		got := b.exprType(sc, e.Args[1], fnWant)
		if got.Kind != TypeFn && got.Kind != TypeInvalid {
			b.errorf(diag.SemaTypeMismatch, e.Args[1].Span(), "reduce needs a combining function")
		}
		return acc

	case "for_each":
		fnT := b.oneClosureArg(sc, e, method, &Type{Kind: TypeFn, Args: []*Type{elem}, Elem: unitType})
		if fnT == nil {
			return invalidType
		}
		return unitType

	case "any", "all", "find":
		fnT := b.oneClosureArg(sc, e, method, &Type{Kind: TypeFn, Args: []*Type{elem}, Elem: boolType})
		if fnT == nil {
			return invalidType
		}
		if !fnT.Elem.IsUnit() && fnT.Elem.Kind != TypeBool && fnT.Elem.Kind != TypeInvalid {
			b.errorf(diag.SemaTypeMismatch, e.Args[0].Span(),
				method+" predicate must yield bool, got "+fnT.Elem.String())
		}
		if method == "find" {
			return elem
		}
		return boolType

	case "len":
		if recv.Kind == TypeArray && b.wantArgs(e, method, 0) {
			return intType
		}
	}

	b.errorf(diag.SemaUnresolvedIdent, callee.Member.Pos,
		recv.String()+" has no method "+method)
	for _, a := range e.Args {
		b.exprType(sc, a, nil)
	}
	return invalidType
}

func (b *binder) wantArgs(e *ast.CallExpr, method string, n int) bool {
	if len(e.Args) == n {
		return true
	}
	b.errorf(diag.SemaArityMismatch, e.Pos,
		fmt.Sprintf("%s takes %d arguments, got %d", method, n, len(e.Args)))
	return false
}

// oneClosureArg checks a single function-valued argument against want
// and returns its resolved function type.
func (b *binder) oneClosureArg(sc *Scope, e *ast.CallExpr, method string, want *Type) *Type {
	if len(e.Args) != 1 {
		b.errorf(diag.SemaArityMismatch, e.Pos,
			fmt.Sprintf("%s takes 1 argument, got %d", method, len(e.Args)))
		for _, a := range e.Args {
			b.exprType(sc, a, nil)
		}
		return nil
	}
	got := b.exprType(sc, e.Args[0], want)
	if got.Kind == TypeInvalid {
		return nil
	}
	if got.Kind != TypeFn {
		b.errorf(diag.SemaTypeMismatch, e.Args[0].Span(),
			method+" needs a function argument, got "+got.String())
		return nil
	}
	return got
}

// pairOf builds the synthetic pair struct type and records its
// monomorphization so the generator emits exactly one definition per
// element combination.
func (b *binder) pairOf(a, bt *Type, callee *ast.DotExpr) *Type {
	t := &Type{Kind: TypeStruct, Name: pairTypeName, Args: []*Type{a, bt}}
	if b.opts.Insts != nil && isConcrete(t) {
		b.opts.Insts.Record(mono.InstType, pairTypeName,
			[]string{a.String(), bt.String()},
			mono.UseSite{Span: callee.Member.Pos, Module: b.mod.Name})
	}
	return t
}
