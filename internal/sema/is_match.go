package sema

import (
	"autoc/internal/ast"
	"autoc/internal/diag"
)

// isType types an is match. Tag targets must cover every variant or
// carry an else branch; any other target must carry an else. Covered
// payload bindings are in scope inside their branch body only.
func (b *binder) isType(sc *Scope, e *ast.IsExpr, want *Type) *Type {
	target := b.exprType(sc, e.Target, nil)

	var tag *TagInfo
	var env map[string]*Type
	if target.Kind == TypeTag {
		if ti, ok := b.mod.tagsByName[target.Name]; ok {
			tag = ti
			env = bindTypeArgs(ti.TypeParams, target.Args)
		}
	}

	covered := make(map[string]bool)
	hasElse := false
	var result *Type

	for i := range e.Branches {
		br := &e.Branches[i]
		branchScope := newScope(sc)

		switch br.Kind {
		case ast.IsCase:
			if pat, ok := br.Pattern.(*ast.TagPattern); ok {
				b.bindTagPattern(branchScope, pat, target, tag, env, covered)
			} else {
				got := b.exprType(branchScope, br.Pattern, target)
				if !b.assignable(target, got) {
					b.errorf(diag.SemaTypeMismatch, br.Pattern.Span(),
						"case "+got.String()+" cannot match "+target.String())
				}
			}
		case ast.IsGuard:
			cond := b.exprType(branchScope, br.Pattern, boolType)
			if cond.Kind != TypeBool && cond.Kind != TypeInvalid {
				b.errorf(diag.SemaTypeMismatch, br.Pattern.Span(),
					"guard must be bool, got "+cond.String())
			}
		case ast.IsElse:
			hasElse = true
		}

		bodyT := b.bindBlock(branchScope, br.Body, want)
		result = b.unifyBranch(result, bodyT, br)
	}

	if !hasElse {
		if tag != nil {
			var missing []string
			for _, v := range tag.Variants {
				if !covered[v.Name] {
					missing = append(missing, tag.Name+"."+v.Name)
				}
			}
			if len(missing) > 0 {
				b.errorf(diag.SemaNonExhaustiveMatch, e.Pos,
					"match does not cover "+joinNames(missing))
			}
		} else if target.Kind != TypeInvalid {
			b.errorf(diag.SemaNonExhaustiveMatch, e.Pos,
				"match over "+target.String()+" needs an else branch")
		}
	}

	if result == nil {
		return unitType
	}
	return result
}

func (b *binder) bindTagPattern(sc *Scope, pat *ast.TagPattern, target *Type, tag *TagInfo, env map[string]*Type, covered map[string]bool) {
	if tag == nil || pat.Tag.Text != tag.Name {
		name := pat.Tag.Text
		b.errorf(diag.SemaTypeMismatch, pat.Pos,
			"pattern "+name+"."+pat.Variant.Text+" cannot match "+target.String())
		if !pat.Binding.IsZero() {
			sc.Declare(&Symbol{Name: pat.Binding.Text, Kind: SymVar, Type: invalidType, Decl: pat.Binding.Pos})
		}
		return
	}

	var vi *VariantInfo
	for i := range tag.Variants {
		if tag.Variants[i].Name == pat.Variant.Text {
			vi = &tag.Variants[i]
			break
		}
	}
	if vi == nil {
		b.errorf(diag.SemaUnknownVariant, pat.Variant.Pos,
			tag.Name+" has no variant "+pat.Variant.Text)
		return
	}
	if covered[vi.Name] {
		b.errorf(diag.SemaDuplicateVariant, pat.Variant.Pos,
			tag.Name+"."+vi.Name+" is matched twice")
	}
	covered[vi.Name] = true

	if pat.Binding.IsZero() {
		return
	}
	if vi.Unit {
		b.errorf(diag.SemaTypeMismatch, pat.Binding.Pos,
			tag.Name+"."+vi.Name+" carries no payload to bind")
		return
	}
	payload := substitute(vi.Payload, env)
	sc.Declare(&Symbol{Name: pat.Binding.Text, Kind: SymVar, Type: payload, Decl: pat.Binding.Pos})
}

// unifyBranch folds one branch body type into the running result.
// Any unit branch makes the whole match a statement.
func (b *binder) unifyBranch(acc, bodyT *Type, br *ast.IsBranch) *Type {
	if acc == nil {
		return bodyT
	}
	if acc.IsUnit() || bodyT.IsUnit() {
		return unitType
	}
	if !b.assignable(acc, bodyT) && !b.assignable(bodyT, acc) {
		b.errorf(diag.SemaTypeMismatch, br.Body.Span(),
			"branch yields "+bodyT.String()+", earlier branches yield "+acc.String())
		return invalidType
	}
	return acc
}

func joinNames(names []string) string {
	out := ""
	for i, n := range names {
		if i > 0 {
			out += ", "
		}
		out += n
	}
	return out
}
