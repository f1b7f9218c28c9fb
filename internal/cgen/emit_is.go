package cgen

import (
	"autoc/internal/ast"
	"autoc/internal/sema"
)

// genIsValue lowers an is match in value position: the result lands
// in a temporary initialized to the sentinel, then either a switch
// over the tag discriminant or an if chain fills it in.
func (e *emitter) genIsValue(v *ast.IsExpr, want *sema.Type) string {
	t := e.exprCType(v)
	if want != nil && !want.IsUnit() {
		t = want
	}
	tmp := e.nextTmp("is")
	e.linef("%s%s = %s;", spaced(e.cTypeOf(t)), tmp, e.zeroValue(t))
	e.emitIsInto(v, tmp, t)
	return tmp
}

func (e *emitter) emitIsStmt(v *ast.IsExpr) {
	e.emitIsInto(v, "", nil)
}

func (e *emitter) emitIsInto(v *ast.IsExpr, target string, want *sema.Type) {
	targetType := e.exprCType(v.Target)
	scrut := e.genExpr(v.Target, nil)
	if !isLValue(scrut) {
		tmp := e.nextTmp("t")
		e.linef("%s%s = %s;", spaced(e.cTypeOf(targetType)), tmp, scrut)
		scrut = tmp
	}

	if targetType.Kind == sema.TypeTag && switchable(v) {
		e.emitIsSwitch(v, scrut, targetType, target, want)
		return
	}
	e.emitIsChain(v, scrut, targetType, target, want)
}

// switchable reports whether every branch is a variant case, with at
// most a trailing else; that shape maps onto a C switch.
func switchable(v *ast.IsExpr) bool {
	for i, br := range v.Branches {
		switch br.Kind {
		case ast.IsCase:
			if _, ok := br.Pattern.(*ast.TagPattern); !ok {
				return false
			}
		case ast.IsElse:
			if i != len(v.Branches)-1 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func (e *emitter) emitIsSwitch(v *ast.IsExpr, scrut string, targetType *sema.Type, target string, want *sema.Type) {
	tagMangled := mangled(targetType)
	tag, _ := e.mod.TagOf(targetType.Name)
	env := tagEnv(tag, targetType)

	e.linef("switch (%s.kind) {", scrut)
	hasElse := false
	for i := range v.Branches {
		br := &v.Branches[i]
		if br.Kind == ast.IsElse {
			hasElse = true
			e.linef("default: {")
			e.indent++
			e.emitBlockInto(br.Body, target, want)
			e.linef("break;")
			e.indent--
			e.linef("}")
			continue
		}
		pat := br.Pattern.(*ast.TagPattern)
		e.linef("case %s: {", enumMember(tagMangled, pat.Variant.Text))
		e.indent++
		if !pat.Binding.IsZero() {
			payload := e.payloadType(tag, pat.Variant.Text, env)
			e.linef("%s%s = %s.as.%s;", spaced(e.cTypeOf(payload)), pat.Binding.Text, scrut, pat.Variant.Text)
		}
		e.emitBlockInto(br.Body, target, want)
		e.linef("break;")
		e.indent--
		e.linef("}")
	}
	if !hasElse {
		// The bind pass proved the variants exhaustive; the default
		// only placates -Wswitch style diagnostics.
		e.linef("default:")
		e.linef("    break;")
	}
	e.linef("}")
}

func (e *emitter) payloadType(tag *sema.TagInfo, variant string, env map[string]*sema.Type) *sema.Type {
	if tag == nil {
		return &sema.Type{Kind: sema.TypeInvalid}
	}
	for _, vi := range tag.Variants {
		if vi.Name == variant {
			return e.subst(substOther(vi.Payload, env))
		}
	}
	return &sema.Type{Kind: sema.TypeInvalid}
}

// emitIsChain lowers a mixed match (guards, literal cases, non-tag
// targets) into an if chain over the scrutinee.
func (e *emitter) emitIsChain(v *ast.IsExpr, scrut string, targetType *sema.Type, target string, want *sema.Type) {
	var tag *sema.TagInfo
	var env map[string]*sema.Type
	if targetType.Kind == sema.TypeTag {
		tag, _ = e.mod.TagOf(targetType.Name)
		env = tagEnv(tag, targetType)
	}

	first := true
	open := 0
	for i := range v.Branches {
		br := &v.Branches[i]
		var cond string
		switch br.Kind {
		case ast.IsCase:
			if pat, ok := br.Pattern.(*ast.TagPattern); ok {
				cond = scrut + ".kind == " + enumMember(mangled(targetType), pat.Variant.Text)
			} else if targetType.Kind == sema.TypeStr {
				cond = "strcmp(" + scrut + ", " + e.genExpr(br.Pattern, targetType) + ") == 0"
			} else {
				cond = scrut + " == " + e.genExpr(br.Pattern, targetType)
			}
		case ast.IsGuard:
			cond = e.genExpr(br.Pattern, nil)
		case ast.IsElse:
			cond = ""
		}

		if cond == "" {
			if first {
				e.linef("{")
			} else {
				e.linef("} else {")
			}
		} else if first {
			e.linef("if (%s) {", cond)
		} else {
			e.linef("} else if (%s) {", cond)
		}
		first = false
		open++

		e.indent++
		if pat, ok := br.Pattern.(*ast.TagPattern); ok && !pat.Binding.IsZero() {
			payload := e.payloadType(tag, pat.Variant.Text, env)
			e.linef("%s%s = %s.as.%s;", spaced(e.cTypeOf(payload)), pat.Binding.Text, scrut, pat.Variant.Text)
		}
		e.emitBlockInto(br.Body, target, want)
		e.indent--
	}
	if open > 0 {
		e.linef("}")
	}
}
