package cgen

import (
	"fmt"

	"autoc/internal/ast"
	"autoc/internal/diag"
	"autoc/internal/sema"
	"autoc/internal/source"
)

// Iterator chains are fused: the whole adapter pipeline plus its
// terminal collapses into one loop per source, so adapters stay lazy
// and the short-circuiting terminals stop iteration as soon as the
// answer is known. Every `chain` step contributes one more source
// loop; adapter state (skip/limit/enumerate/zip counters) is declared
// once above all loops so it carries across the seam, and a shared
// stop level lets a break cross exactly the loops feeding the adapter
// that raised it. A chain must be consumed where it is built; storing
// an unterminated iterator value has no C representation.

type chainStep struct {
	method string
	fn     *ast.ClosureExpr
	arg    ast.Expr // count for skip/limit, second sequence for zip/chain
	pos    source.Span
	out    *sema.Type // element type after this step
}

type iterChain struct {
	source ast.Expr
	steps  []chainStep
}

// collectChain unwinds the call spine down to a range or array
// source.
func (e *emitter) collectChain(x ast.Expr) (*iterChain, bool) {
	switch t := e.exprCType(x); t.Kind {
	case sema.TypeRange, sema.TypeArray:
		return &iterChain{source: x}, true
	}

	call, ok := x.(*ast.CallExpr)
	if !ok {
		return nil, false
	}
	dot, ok := call.Callee.(*ast.DotExpr)
	if !ok {
		return nil, false
	}
	ch, ok := e.collectChain(dot.Object)
	if !ok {
		return nil, false
	}

	step := chainStep{method: dot.Member.Text, pos: call.Pos, out: elemType(e.exprCType(x))}
	switch step.method {
	case "map", "filter":
		if cl, isCl := call.Args[0].(*ast.ClosureExpr); isCl {
			step.fn = cl
		} else {
			return nil, false
		}
	case "skip", "limit", "chain", "zip":
		step.arg = call.Args[0]
	case "enumerate":
	default:
		return nil, false
	}
	ch.steps = append(ch.steps, step)
	return ch, true
}

func elemType(t *sema.Type) *sema.Type {
	if t != nil && t.Elem != nil {
		return t.Elem
	}
	return &sema.Type{Kind: sema.TypeInvalid}
}

// genIterExpr lowers a terminal call on an iterator chain.
func (e *emitter) genIterExpr(v *ast.CallExpr) string {
	dot := v.Callee.(*ast.DotExpr)
	terminal := dot.Member.Text

	ch, ok := e.collectChain(dot.Object)
	if !ok {
		e.errorf(diag.GenUnsupportedConstruct, v.Pos,
			"iterator chains must start from a range or array and be consumed in place")
		return "0"
	}
	srcType := e.exprCType(ch.source)
	elem := e.chainElem(ch, srcType)

	switch terminal {
	case "collect":
		out := e.nextTmp("col")
		data := out + "_data"
		arr := e.arrName(elem)
		e.linef("%s*%s = malloc(sizeof(%s) * (size_t)(%s));",
			spaced(e.cTypeOf(elem)), data, e.cTypeOf(elem), e.chainCapacity(ch, srcType))
		e.linef("int64_t %s_len = 0;", out)
		e.emitChainLoop(ch, func(item string, _ *sema.Type) {
			e.linef("%s[%s_len++] = %s;", data, out, item)
		})
		e.linef("%s %s = { %s, %s_len };", arr, out, data, out)
		return out

	case "count":
		n := e.nextTmp("cnt")
		e.linef("int64_t %s = 0;", n)
		e.emitChainLoop(ch, func(string, *sema.Type) {
			e.linef("%s++;", n)
		})
		return n

	case "reduce":
		accType := e.exprCType(v.Args[0])
		acc := e.nextTmp("acc")
		e.linef("%s%s = %s;", spaced(e.cTypeOf(accType)), acc, e.genExpr(v.Args[0], accType))
		cl, isCl := v.Args[1].(*ast.ClosureExpr)
		if !isCl {
			e.errorf(diag.GenUnsupportedConstruct, v.Pos, "reduce needs an inline closure")
			return acc
		}
		e.emitChainLoop(ch, func(item string, it *sema.Type) {
			res := e.inlineClosure(cl, []string{acc, item}, []*sema.Type{accType, it}, accType)
			e.linef("%s = %s;", acc, res)
		})
		return acc

	case "for_each":
		cl, isCl := v.Args[0].(*ast.ClosureExpr)
		if !isCl {
			e.errorf(diag.GenUnsupportedConstruct, v.Pos, "for_each needs an inline closure")
			return ""
		}
		e.emitChainLoop(ch, func(item string, it *sema.Type) {
			e.inlineClosure(cl, []string{item}, []*sema.Type{it}, nil)
		})
		return ""

	case "any", "all", "find":
		return e.genSearch(v, ch, elem, terminal)
	}

	e.errorf(diag.GenUnsupportedConstruct, v.Pos, "unsupported iterator terminal "+terminal)
	return "0"
}

// genSearch emits the short-circuiting terminals: the loop breaks the
// moment the verdict is known, so later elements are never touched.
func (e *emitter) genSearch(v *ast.CallExpr, ch *iterChain, elem *sema.Type, terminal string) string {
	cl, isCl := v.Args[0].(*ast.ClosureExpr)
	if !isCl {
		e.errorf(diag.GenUnsupportedConstruct, v.Pos, terminal+" needs an inline closure")
		return "0"
	}

	res := e.nextTmp(terminal)
	switch terminal {
	case "any":
		e.linef("bool %s = false;", res)
	case "all":
		e.linef("bool %s = true;", res)
	case "find":
		e.linef("%s%s = %s;", spaced(e.cTypeOf(elem)), res, e.zeroValue(elem))
	}

	e.emitChainLoop(ch, func(item string, it *sema.Type) {
		pred := e.inlineClosure(cl, []string{item}, []*sema.Type{it}, &sema.Type{Kind: sema.TypeBool})
		switch terminal {
		case "any":
			e.linef("if (%s) {", pred)
			e.linef("    %s = true;", res)
			e.linef("    %s", e.chainBreak())
			e.linef("}")
		case "all":
			e.linef("if (!(%s)) {", pred)
			e.linef("    %s = false;", res)
			e.linef("    %s", e.chainBreak())
			e.linef("}")
		case "find":
			e.linef("if (%s) {", pred)
			e.linef("    %s = %s;", res, item)
			e.linef("    %s", e.chainBreak())
			e.linef("}")
		}
	})
	return res
}

// emitForIn lowers for-in loops over ranges, arrays and adapter
// chains.
func (e *emitter) emitForIn(stmt *ast.ForInStmt) {
	t := e.exprCType(stmt.Iterable)
	switch t.Kind {
	case sema.TypeRange:
		r, ok := stmt.Iterable.(*ast.RangeExpr)
		if !ok {
			e.errorf(diag.GenUnsupportedConstruct, stmt.Pos, "range loops need a literal range")
			return
		}
		lo := e.genExpr(r.Low, nil)
		hi := e.genExpr(r.High, nil)
		cmp := "<"
		if r.Inclusive {
			cmp = "<="
		}
		v := stmt.Var.Text
		e.linef("for (int64_t %s = %s; %s %s %s; %s++) {", v, lo, v, cmp, hi, v)
		e.indent++
		e.emitLoopBody(stmt.Body)
		e.indent--
		e.linef("}")

	case sema.TypeArray:
		src := e.genExpr(stmt.Iterable, nil)
		if !isLValue(src) {
			tmp := e.nextTmp("src")
			e.linef("%s %s = %s;", e.arrName(elemType(t)), tmp, src)
			src = tmp
		}
		i := e.nextTmp("i")
		e.linef("for (int64_t %s = 0; %s < %s.len; %s++) {", i, i, src, i)
		e.indent++
		e.linef("%s%s = %s.data[%s];", spaced(e.cTypeOf(elemType(t))), stmt.Var.Text, src, i)
		e.emitLoopBody(stmt.Body)
		e.indent--
		e.linef("}")

	case sema.TypeIter:
		e.emitIterForIn(stmt)

	default:
		e.errorf(diag.GenUnsupportedConstruct, stmt.Pos, "not an iterable")
	}
}

// emitIterForIn lowers `for x in chain { body }`.
func (e *emitter) emitIterForIn(stmt *ast.ForInStmt) {
	ch, ok := e.collectChain(stmt.Iterable)
	if !ok {
		e.errorf(diag.GenUnsupportedConstruct, stmt.Pos,
			"iterator chains must start from a range or array")
		return
	}
	e.emitChainLoop(ch, func(item string, it *sema.Type) {
		e.linef("%s%s = %s;", spaced(e.cTypeOf(it)), stmt.Var.Text, item)
		e.emitBlockStmts(stmt.Body)
	})
}

// chainElem is the element type after the last step.
func (e *emitter) chainElem(ch *iterChain, srcType *sema.Type) *sema.Type {
	if len(ch.steps) == 0 {
		return elemType(srcType)
	}
	return ch.steps[len(ch.steps)-1].out
}

// chainCapacity is an upper bound on the number of produced elements,
// used to size collect's allocation.
func (e *emitter) chainCapacity(ch *iterChain, srcType *sema.Type) string {
	cap := e.sourceLen(ch.source, srcType)
	for _, step := range ch.steps {
		if step.method == "chain" {
			other := e.exprCType(step.arg)
			cap = "(" + cap + ") + (" + e.sourceLen(step.arg, other) + ")"
		}
	}
	return "(" + cap + ") + 1"
}

func (e *emitter) sourceLen(src ast.Expr, t *sema.Type) string {
	switch t.Kind {
	case sema.TypeRange:
		r, ok := src.(*ast.RangeExpr)
		if !ok {
			return "0"
		}
		lo := e.genExpr(r.Low, nil)
		hi := e.genExpr(r.High, nil)
		if r.Inclusive {
			return "(" + hi + ") - (" + lo + ") + 1"
		}
		return "(" + hi + ") - (" + lo + ")"
	case sema.TypeArray:
		return "(" + e.genExpr(src, nil) + ").len"
	}
	return "0"
}

// emitChainLoop drives items from the source through every adapter
// and hands survivors to yield. Each chain step contributes one more
// source loop; all loops share the adapter state declared up front,
// and a stop level short-circuits across loops. A break at adapter
// index k only silences the loops feeding that adapter: sources
// entering past it (a later chain seam) still run.
func (e *emitter) emitChainLoop(ch *iterChain, yield func(item string, t *sema.Type)) {
	type segment struct {
		source ast.Expr
		start  int // first step index this source flows through
	}
	segs := []segment{{source: ch.source, start: 0}}
	for i, step := range ch.steps {
		if step.method == "chain" {
			segs = append(segs, segment{source: step.arg, start: i + 1})
		}
	}

	savedStop, savedAll := e.chainStop, e.chainStopAll
	e.chainStop = ""
	if len(segs) > 1 {
		e.chainStop = e.nextTmp("stop")
		e.chainStopAll = len(ch.steps)
		e.linef("int %s = -1;", e.chainStop)
	}
	counters := e.emitStepCounters(ch)

	for _, seg := range segs {
		e.emitSegmentLoop(ch, seg.source, seg.start, counters, yield)
	}
	e.chainStop, e.chainStopAll = savedStop, savedAll
}

// emitSegmentLoop runs one source through the pipeline from step
// `start` on.
func (e *emitter) emitSegmentLoop(ch *iterChain, src ast.Expr, start int, counters []string, yield func(string, *sema.Type)) {
	srcType := e.exprCType(src)
	guard := ""
	if e.chainStop != "" {
		guard = fmt.Sprintf("%s < %d && ", e.chainStop, start)
	}

	switch srcType.Kind {
	case sema.TypeRange:
		r, ok := src.(*ast.RangeExpr)
		if !ok {
			e.errorf(diag.GenUnsupportedConstruct, src.Span(), "range sources need a literal range")
			return
		}
		lo := e.genExpr(r.Low, nil)
		hi := e.genExpr(r.High, nil)
		cmp := "<"
		if r.Inclusive {
			cmp = "<="
		}
		i := e.nextTmp("i")
		e.linef("for (int64_t %s = %s; %s%s %s %s; %s++) {", i, lo, guard, i, cmp, hi, i)
		e.indent++
		e.emitSteps(ch, start, i, elemType(srcType), counters, yield)
		e.indent--
		e.linef("}")

	case sema.TypeArray:
		text := e.genExpr(src, nil)
		if !isLValue(text) {
			tmp := e.nextTmp("src")
			e.linef("%s %s = %s;", e.arrName(elemType(srcType)), tmp, text)
			text = tmp
		}
		i := e.nextTmp("i")
		e.linef("for (int64_t %s = 0; %s%s < %s.len; %s++) {", i, guard, i, text, i)
		e.indent++
		item := e.nextTmp("it")
		it := elemType(srcType)
		e.linef("%s%s = %s.data[%s];", spaced(e.cTypeOf(it)), item, text, i)
		e.emitSteps(ch, start, item, it, counters, yield)
		e.indent--
		e.linef("}")

	default:
		e.errorf(diag.GenUnsupportedConstruct, src.Span(),
			"iterator source must be a range or array")
	}
}

// chainBreakAt is the statement text for a break raised by the
// adapter at index level; loops whose elements enter the pipeline
// after that adapter keep running.
func (e *emitter) chainBreakAt(level int) string {
	if e.chainStop != "" {
		return fmt.Sprintf("%s = %d; break;", e.chainStop, level)
	}
	return "break;"
}

// chainBreak stops the whole pipeline, crossing every source loop.
// Terminals and user breaks sit past the last adapter, so they always
// silence everything.
func (e *emitter) chainBreak() string {
	return e.chainBreakAt(e.chainStopAll)
}

// emitStepCounters declares the per-step state (skip/limit/enumerate
// counters and zip cursors) once, above every source loop.
func (e *emitter) emitStepCounters(ch *iterChain) []string {
	counters := make([]string, len(ch.steps))
	for i, step := range ch.steps {
		switch step.method {
		case "skip", "limit", "enumerate", "zip":
			c := e.nextTmp("n")
			e.linef("int64_t %s = 0;", c)
			counters[i] = c
		}
	}
	return counters
}

// emitSteps applies adapters from index k onward to item, calling
// yield on elements that survive the whole pipeline.
func (e *emitter) emitSteps(ch *iterChain, k int, item string, it *sema.Type, counters []string, yield func(string, *sema.Type)) {
	if k >= len(ch.steps) {
		yield(item, it)
		return
	}
	step := ch.steps[k]
	switch step.method {
	case "map":
		out := e.inlineClosure(step.fn, []string{item}, []*sema.Type{it}, step.out)
		next := e.nextTmp("m")
		e.linef("%s%s = %s;", spaced(e.cTypeOf(step.out)), next, out)
		e.emitSteps(ch, k+1, next, step.out, counters, yield)

	case "filter":
		pred := e.inlineClosure(step.fn, []string{item}, []*sema.Type{it}, &sema.Type{Kind: sema.TypeBool})
		e.linef("if (!(%s)) {", pred)
		e.linef("    continue;")
		e.linef("}")
		e.emitSteps(ch, k+1, item, it, counters, yield)

	case "skip":
		n := e.genExpr(step.arg, nil)
		e.linef("if (%s++ < %s) {", counters[k], n)
		e.linef("    continue;")
		e.linef("}")
		e.emitSteps(ch, k+1, item, it, counters, yield)

	case "limit":
		n := e.genExpr(step.arg, nil)
		e.linef("if (%s++ >= %s) {", counters[k], n)
		e.linef("    %s", e.chainBreakAt(k))
		e.linef("}")
		e.emitSteps(ch, k+1, item, it, counters, yield)

	case "chain":
		// Concatenation contributes a source loop, not a per-item step;
		// elements already in flight pass through unchanged.
		e.emitSteps(ch, k+1, item, it, counters, yield)

	case "enumerate":
		pair := step.out
		next := e.nextTmp("en")
		e.linef("%s%s = { .a = %s, .b = %s };", spaced(e.cTypeOf(pair)), next, counters[k]+"++", item)
		e.emitSteps(ch, k+1, next, pair, counters, yield)

	case "zip":
		otherType := e.exprCType(step.arg)
		if otherType.Kind != sema.TypeArray {
			e.errorf(diag.GenUnsupportedConstruct, step.pos, "zip pairs with an array sequence")
			return
		}
		other := e.genExpr(step.arg, nil)
		e.linef("if (%s >= (%s).len) {", counters[k], other)
		e.linef("    %s", e.chainBreakAt(k))
		e.linef("}")
		pair := step.out
		next := e.nextTmp("zp")
		e.linef("%s%s = { .a = %s, .b = (%s).data[%s] };", spaced(e.cTypeOf(pair)), next, item, other, counters[k]+"++")
		e.emitSteps(ch, k+1, next, pair, counters, yield)
	}
}

// inlineClosure binds the closure parameters to the supplied values
// and lowers the body in place, yielding the result temporary.
func (e *emitter) inlineClosure(cl *ast.ClosureExpr, args []string, argTypes []*sema.Type, ret *sema.Type) string {
	if ret == nil || ret.IsUnit() {
		e.linef("{")
		e.indent++
		e.bindClosureParams(cl, args, argTypes)
		e.emitBlockStmts(cl.Body)
		e.indent--
		e.linef("}")
		return ""
	}
	res := e.nextTmp("cl")
	e.linef("%s%s = %s;", spaced(e.cTypeOf(ret)), res, e.zeroValue(ret))
	e.linef("{")
	e.indent++
	e.bindClosureParams(cl, args, argTypes)
	e.emitBlockInto(cl.Body, res, ret)
	e.indent--
	e.linef("}")
	return res
}

func (e *emitter) bindClosureParams(cl *ast.ClosureExpr, args []string, argTypes []*sema.Type) {
	for i, p := range cl.Params {
		if i >= len(args) {
			break
		}
		t := argTypes[i]
		e.linef("%s%s = %s;", spaced(e.cTypeOf(t)), p.Name.Text, args[i])
	}
}
