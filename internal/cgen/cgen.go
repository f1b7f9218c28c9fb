// Package cgen lowers a bound module to C99. Every module becomes a
// header and implementation pair; monomorphized generics shared
// between modules are emitted exactly once into a common header fed
// by the instantiation cache. The generator is total over what sema
// accepts: a GenUnsupportedConstruct diagnostic here means a construct
// sema validated but the lowering cannot express yet.
package cgen

import (
	"fmt"
	"strings"

	"autoc/internal/ast"
	"autoc/internal/diag"
	"autoc/internal/mono"
	"autoc/internal/sema"
	"autoc/internal/source"
)

// SharedHeaderName is the file holding monomorphized generic
// definitions used across modules.
const SharedHeaderName = "autogen_types.h"

// Options configures one emission pass.
type Options struct {
	Reporter diag.Reporter
	Guard    *mono.CycleGuard
	// SharedHeader is included by module headers when monomorphized
	// definitions were emitted separately.
	SharedHeader bool
}

// Output is the generated pair for one module.
type Output struct {
	HeaderName string
	ImplName   string
	Header     []byte
	Impl       []byte
}

type emitter struct {
	mod  *sema.Module
	opts Options

	hdr strings.Builder
	src strings.Builder
	buf *strings.Builder // current sink, usually &src

	indent int
	tmp    int

	// typeEnv substitutes generic parameters while emitting a
	// specialized method body.
	typeEnv map[string]*sema.Type

	// curRet is the return type of the function being emitted.
	curRet *sema.Type

	// shared is set while emitting the cross-module header so nested
	// generic uses found during lowering are recorded for emission.
	shared *sharedEmitter

	// ptrVars names locals that hold pointers (self and delegation
	// members), so member access emits -> instead of dot.
	ptrVars map[string]bool

	// arrays collects element types whose slice struct must be defined.
	arrays map[string]*sema.Type

	// chainStop names the stop level of a concatenated iterator
	// pipeline: a break at adapter index k records k there, and a
	// source loop entering the pipeline at step s runs only while the
	// level stays below s. Empty for a single source, where a plain
	// break suffices. chainStopAll is the level that halts every loop.
	chainStop    string
	chainStopAll int

	needConcat bool
	errors     int
}

// EmitModule lowers mod into its header and implementation pair.
// The bool result is false when any construct could not be lowered.
func EmitModule(mod *sema.Module, opts Options) (Output, bool) {
	e := &emitter{
		mod:     mod,
		opts:    opts,
		ptrVars: make(map[string]bool),
		arrays:  make(map[string]*sema.Type),
	}
	e.buf = &e.src

	// The implementation is generated first so every array element
	// type used in bodies is known before the header is assembled.
	e.emitImpl()
	e.emitHeader()

	out := Output{
		HeaderName: mod.Name + ".h",
		ImplName:   mod.Name + ".c",
		Header:     []byte(e.hdr.String()),
		Impl:       []byte(e.finishImpl()),
	}
	return out, e.errors == 0
}

func (e *emitter) errorf(code diag.Code, sp source.Span, msg string) {
	e.errors++
	if e.opts.Reporter != nil {
		e.opts.Reporter.Report(code, diag.SevError, sp, msg, nil)
	}
}

func (e *emitter) linef(format string, args ...any) {
	for i := 0; i < e.indent; i++ {
		e.buf.WriteString("    ")
	}
	fmt.Fprintf(e.buf, format, args...)
	e.buf.WriteByte('\n')
}

func (e *emitter) raw(s string) {
	e.buf.WriteString(s)
}

func (e *emitter) nextTmp(prefix string) string {
	e.tmp++
	return fmt.Sprintf("__%s%d", prefix, e.tmp)
}

// emitHeader assembles the module header: preamble, forward
// declarations, slice structs, full definitions, prototypes. Full
// definitions and prototypes are generated into a scratch buffer
// first because they discover the slice structs they depend on.
func (e *emitter) emitHeader() {
	var defs strings.Builder
	prev := e.buf
	e.buf = &defs

	for _, tag := range e.mod.Tags {
		if len(tag.TypeParams) == 0 {
			e.emitTagDef(tag, nil, tag.Name)
		}
	}
	for _, ty := range e.mod.Types {
		if len(ty.TypeParams) == 0 {
			e.emitStructDef(ty, nil, ty.Name)
		}
	}
	for _, spec := range e.mod.Specs {
		e.emitSpecDef(spec)
	}
	e.emitPrototypes()

	e.buf = &e.hdr
	e.linef("#pragma once")
	e.linef("")
	e.linef("#include <stdint.h>")
	e.linef("#include <stdbool.h>")
	if e.opts.SharedHeader {
		e.linef("#include \"%s\"", SharedHeaderName)
	}
	e.linef("")
	e.emitForwardDecls()
	e.emitArrayDefs()
	e.raw(defs.String())
	e.buf = prev
}

// emitForwardDecls typedefs every named type up front so slice
// structs and mutually referential fields resolve in any order.
func (e *emitter) emitForwardDecls() {
	any := false
	for _, tag := range e.mod.Tags {
		if len(tag.TypeParams) == 0 {
			e.linef("typedef struct %s %s;", tag.Name, tag.Name)
			any = true
		}
	}
	for _, ty := range e.mod.Types {
		if len(ty.TypeParams) == 0 {
			e.linef("typedef struct %s %s;", ty.Name, ty.Name)
			any = true
		}
	}
	for _, spec := range e.mod.Specs {
		e.linef("typedef struct %s %s;", spec.Name, spec.Name)
		e.linef("typedef struct %s_vtable %s_vtable;", spec.Name, spec.Name)
		any = true
	}
	if any {
		e.linef("")
	}
}

func (e *emitter) emitImpl() {
	e.linef("#include \"%s\"", e.mod.Name+".h")
	e.linef("")
	e.linef("#include <stdio.h>")
	e.linef("#include <stdlib.h>")
	e.linef("#include <string.h>")
	for _, use := range e.mod.File.Uses() {
		if use.Kind == ast.UseC {
			e.linef("#include <%s.h>", use.Path.Text)
		}
	}
	e.linef("")

	for _, ty := range e.mod.Types {
		if len(ty.TypeParams) != 0 {
			continue
		}
		for _, m := range ty.Methods {
			e.emitMethod(ty.Name, m, &sema.Type{Kind: sema.TypeStruct, Name: ty.Name})
		}
		e.emitVtables(ty, ty.Name)
		e.emitBridges(ty, ty.Name)
	}
	for _, tag := range e.mod.Tags {
		if len(tag.TypeParams) != 0 {
			continue
		}
		for _, m := range tag.Methods {
			e.emitMethod(tag.Name, m, &sema.Type{Kind: sema.TypeTag, Name: tag.Name})
		}
	}
	for _, fn := range e.mod.Fns {
		e.emitFn(fn)
	}
	e.emitEntryPoint()
}

// finishImpl splices late-discovered support code (the string concat
// helper) behind the include block.
func (e *emitter) finishImpl() string {
	body := e.src.String()
	if !e.needConcat {
		return body
	}
	marker := "\n\n"
	idx := strings.Index(body, marker)
	if idx < 0 {
		return concatHelper + body
	}
	return body[:idx+len(marker)] + concatHelper + body[idx+len(marker):]
}

const concatHelper = `static const char *auto_str_concat(const char *a, const char *b) {
    size_t na = strlen(a), nb = strlen(b);
    char *out = malloc(na + nb + 1);
    memcpy(out, a, na);
    memcpy(out + na, b, nb + 1);
    return out;
}

`

// emitEntryPoint lowers loose script statements into main.
func (e *emitter) emitEntryPoint() {
	if len(e.mod.File.Stmts) == 0 {
		return
	}
	e.linef("int main(void) {")
	e.indent++
	for _, s := range e.mod.File.Stmts {
		e.emitStmt(s)
	}
	e.linef("return 0;")
	e.indent--
	e.linef("}")
	e.linef("")
}
