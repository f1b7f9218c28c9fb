package cgen

import (
	"strings"

	"autoc/internal/ast"
	"autoc/internal/diag"
	"autoc/internal/sema"
	"autoc/internal/token"
)

// exprCType returns the substituted semantic type sema recorded for x.
func (e *emitter) exprCType(x ast.Expr) *sema.Type {
	if t, ok := e.mod.TypeOf(x); ok {
		return e.subst(t)
	}
	return &sema.Type{Kind: sema.TypeInvalid}
}

// genExpr lowers x to a C expression, emitting any scaffolding
// statements first. want shapes constructs whose own type is
// contextual (nil literals and unit variant references).
func (e *emitter) genExpr(x ast.Expr, want *sema.Type) string {
	switch v := x.(type) {
	case *ast.LitExpr:
		return e.genLit(v, want)

	case *ast.IdentExpr:
		return v.Name.Text

	case *ast.UnaryExpr:
		op := "-"
		if v.Op == token.Bang {
			op = "!"
		}
		return op + "(" + e.genExpr(v.Operand, want) + ")"

	case *ast.BinaryExpr:
		return e.genBinary(v)

	case *ast.RangeExpr:
		e.errorf(diag.GenUnsupportedConstruct, v.Pos,
			"a range is only usable as a loop or iterator source")
		return "0"

	case *ast.ArrayExpr:
		return e.genArrayLit(v)

	case *ast.StructLitExpr:
		return e.genStructLit(v)

	case *ast.FStrExpr:
		return e.genFStr(v)

	case *ast.ClosureExpr:
		e.errorf(diag.GenUnsupportedConstruct, v.Pos,
			"a closure is only usable as an iterator argument")
		return "0"

	case *ast.BlockExpr:
		t := e.exprCType(x)
		tmp := e.nextTmp("blk")
		e.linef("%s%s = %s;", spaced(e.cTypeOf(t)), tmp, e.zeroValue(t))
		e.linef("{")
		e.indent++
		e.emitBlockInto(v, tmp, t)
		e.indent--
		e.linef("}")
		return tmp

	case *ast.IfExpr:
		return e.genIfValue(v, want)

	case *ast.IsExpr:
		return e.genIsValue(v, want)

	case *ast.CallExpr:
		return e.genCall(v, want)

	case *ast.DotExpr:
		return e.genDot(v, want)

	case *ast.IndexExpr:
		seq := e.genExpr(v.Seq, nil)
		idx := e.genExpr(v.Index, nil)
		if e.exprCType(v.Seq).Kind == sema.TypeArray {
			return seq + ".data[" + idx + "]"
		}
		return seq + "[" + idx + "]"
	}
	return "0"
}

func (e *emitter) genLit(v *ast.LitExpr, want *sema.Type) string {
	switch v.Kind {
	case token.IntLit, token.UintLit, token.FloatLit, token.DoubleLit, token.CharLit:
		return v.Text
	case token.U8Lit:
		return "(uint8_t)" + strings.TrimSuffix(v.Text, "u8")
	case token.I8Lit:
		return "(int8_t)" + strings.TrimSuffix(v.Text, "i8")
	case token.StrLit:
		return v.Text
	case token.CStrLit:
		return strings.TrimPrefix(v.Text, "c")
	case token.KwTrue:
		return "true"
	case token.KwFalse:
		return "false"
	case token.KwNil:
		t := want
		if t == nil || t.Kind != sema.TypeTag {
			t = e.exprCType(v)
		}
		if t.Kind == sema.TypeTag {
			if tag, ok := e.mod.TagOf(t.Name); ok {
				if name, found := e.unitVariantName(tag, "nil"); found {
					return mangled(t) + "_" + name + "()"
				}
			}
		}
		e.errorf(diag.GenUnsupportedConstruct, v.Pos, "nil needs a tag context with a nil variant")
		return "0"
	}
	return v.Text
}

func (e *emitter) unitVariantName(tag *sema.TagInfo, name string) (string, bool) {
	for _, variant := range tag.Variants {
		if variant.Name == name && variant.Unit {
			return variant.Name, true
		}
	}
	return "", false
}

func (e *emitter) genBinary(v *ast.BinaryExpr) string {
	lt := e.exprCType(v.Left)
	l := e.genExpr(v.Left, nil)
	r := e.genExpr(v.Right, lt)

	if lt.Kind == sema.TypeStr || lt.Kind == sema.TypeCStr {
		switch v.Op {
		case token.EqEq:
			return "(strcmp(" + l + ", " + r + ") == 0)"
		case token.BangEq:
			return "(strcmp(" + l + ", " + r + ") != 0)"
		case token.Plus:
			e.needConcat = true
			return "auto_str_concat(" + l + ", " + r + ")"
		}
	}
	return "(" + l + " " + v.Op.String() + " " + r + ")"
}

func (e *emitter) genArrayLit(v *ast.ArrayExpr) string {
	t := e.exprCType(v)
	arr := e.arrName(t.Elem)
	name := e.nextTmp("arr")
	if len(v.Elems) == 0 {
		e.linef("%s %s = { NULL, 0 };", arr, name)
		return name
	}
	elems := make([]string, len(v.Elems))
	for i, el := range v.Elems {
		elems[i] = e.genExpr(el, t.Elem)
	}
	e.linef("%s%s_data[] = { %s };", spaced(e.cTypeOf(t.Elem)), name, strings.Join(elems, ", "))
	e.linef("%s %s = { %s_data, %d };", arr, name, name, len(v.Elems))
	return name
}

func (e *emitter) genStructLit(v *ast.StructLitExpr) string {
	t := e.exprCType(v)
	if len(v.Inits) == 0 {
		return "(" + mangled(t) + "){0}"
	}
	parts := make([]string, len(v.Inits))
	for i, init := range v.Inits {
		parts[i] = "." + init.Name.Text + " = " + e.genExpr(init.Value, e.exprCType(init.Value))
	}
	return "(" + mangled(t) + "){ " + strings.Join(parts, ", ") + " }"
}

// genFStr lowers an interpolated string: a measuring snprintf sizes a
// heap buffer, a second pass fills it. Embedded values are pinned in
// locals first so the two passes see them exactly once. The buffer
// outlives the enclosing scope, so the value can be returned; like
// collect, it is never freed.
func (e *emitter) genFStr(v *ast.FStrExpr) string {
	var format strings.Builder
	var args []string
	for _, part := range v.Parts {
		if part.Embed == nil {
			format.WriteString(strings.ReplaceAll(part.Text, "%", "%%"))
			continue
		}
		t := e.exprCType(part.Embed)
		val := e.genExpr(part.Embed, nil)
		pin := e.nextTmp("fv")
		e.linef("%s%s = %s;", spaced(e.cTypeOf(t)), pin, val)
		spec, wrapped := e.fmtSpec(t, pin)
		format.WriteString(spec)
		args = append(args, wrapped)
	}

	argText := "\"" + format.String() + "\""
	if len(args) == 0 {
		argText = "\"%s\", \"" + format.String() + "\""
	} else {
		argText += ", " + strings.Join(args, ", ")
	}
	buf := e.nextTmp("fstr")
	e.linef("int %s_n = snprintf(NULL, 0, %s);", buf, argText)
	e.linef("char *%s = malloc((size_t)%s_n + 1);", buf, buf)
	e.linef("snprintf(%s, (size_t)%s_n + 1, %s);", buf, buf, argText)
	return buf
}

func (e *emitter) genIfValue(v *ast.IfExpr, want *sema.Type) string {
	t := e.exprCType(v)
	if want != nil && !want.IsUnit() {
		t = want
	}
	tmp := e.nextTmp("if")
	e.linef("%s%s = %s;", spaced(e.cTypeOf(t)), tmp, e.zeroValue(t))
	e.emitIfInto(v, tmp, t)
	return tmp
}

func (e *emitter) emitIfInto(v *ast.IfExpr, target string, want *sema.Type) {
	cond := e.genExpr(v.Cond, nil)
	e.linef("if (%s) {", cond)
	e.indent++
	e.emitBlockInto(v.Then, target, want)
	e.indent--
	if v.Else == nil {
		e.linef("}")
		return
	}
	switch els := v.Else.(type) {
	case *ast.IfExpr:
		e.linef("} else {")
		e.indent++
		e.emitIfInto(els, target, want)
		e.indent--
		e.linef("}")
	case *ast.BlockExpr:
		e.linef("} else {")
		e.indent++
		e.emitBlockInto(els, target, want)
		e.indent--
		e.linef("}")
	}
}

func (e *emitter) emitIfStmt(v *ast.IfExpr) {
	e.emitIfInto(v, "", nil)
}
