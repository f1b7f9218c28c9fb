package cgen_test

import (
	"regexp"
	"strings"
	"testing"

	"autoc/internal/cgen"
	"autoc/internal/diag"
	"autoc/internal/lexer"
	"autoc/internal/mono"
	"autoc/internal/parser"
	"autoc/internal/sema"
	"autoc/internal/source"
)

func emit(t *testing.T, input string) (cgen.Output, *mono.Cache) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("main.at", []byte(input))
	bag := diag.NewBag(64)
	reporter := diag.BagReporter{Bag: bag}
	lx := lexer.New(fs.Get(id), lexer.Options{Reporter: reporter})
	file := parser.ParseFile(lx, parser.Options{Reporter: reporter})
	cache := mono.NewCache()
	mod := sema.Bind(file, sema.Options{Reporter: reporter, Insts: cache})
	if bag.HasErrors() {
		for _, d := range bag.Items() {
			t.Logf("%s: %s", d.Code, d.Message)
		}
		t.Fatalf("front end rejected input")
	}
	out, ok := cgen.EmitModule(mod, cgen.Options{Reporter: reporter, SharedHeader: cache.Len() > 0})
	if !ok {
		for _, d := range bag.Items() {
			t.Logf("%s: %s", d.Code, d.Message)
		}
		t.Fatalf("emission failed")
	}
	return out, cache
}

func wantAll(t *testing.T, text string, fragments ...string) {
	t.Helper()
	for _, f := range fragments {
		if !strings.Contains(text, f) {
			t.Errorf("missing %q in output:\n%s", f, text)
		}
	}
}

func TestTagLowersToEnumUnionAndConstructors(t *testing.T) {
	out, _ := emit(t, `
tag Shape {
	dot Nil
	line int
	label str
}
`)
	hdr := string(out.Header)
	wantAll(t, hdr,
		"typedef enum {",
		"SHAPE_DOT,",
		"SHAPE_LINE,",
		"SHAPE_LABEL",
		"} Shape_Kind;",
		"struct Shape {",
		"Shape_Kind kind;",
		"union {",
		"uint8_t dot;",
		"int64_t line;",
		"const char *label;",
		"static inline Shape Shape_dot(void)",
		"static inline Shape Shape_line(int64_t payload)",
	)
	// Declaration order fixes discriminant order.
	if strings.Index(hdr, "SHAPE_DOT") > strings.Index(hdr, "SHAPE_LINE") {
		t.Error("variant order not preserved")
	}
}

func TestIsMatchBecomesExhaustiveSwitch(t *testing.T) {
	out, _ := emit(t, `
tag Coin {
	heads Nil
	tails Nil
}

fn score(c Coin) int {
	is c {
		Coin.heads => 1
		Coin.tails => 2
	}
	return 0
}
`)
	impl := string(out.Impl)
	wantAll(t, impl,
		"switch (c.kind) {",
		"case COIN_HEADS: {",
		"case COIN_TAILS: {",
		"break;",
	)
}

func TestIsPayloadBindingExtractsUnionMember(t *testing.T) {
	out, _ := emit(t, `
tag May {
	none Nil
	some int
}

fn unwrap(m May) int {
	is m {
		May.none => 0
		May.some(v) => v
	}
	return 0
}
`)
	wantAll(t, string(out.Impl), "int64_t v = m.as.some;")
}

func TestSpecBecomesVtableWithPerTypeInstance(t *testing.T) {
	out, _ := emit(t, `
spec Flyer {
	fn fly() int
}

type Pigeon as Flyer {
	fn fly() int {
		return 1
	}
}

type Jet as Flyer {
	fn fly() int {
		return 2
	}
}
`)
	hdr := string(out.Header)
	impl := string(out.Impl)
	wantAll(t, hdr,
		"struct Flyer_vtable {",
		"int64_t (*fly)(void *self);",
		"void *self;",
		"const Flyer_vtable *vt;",
	)
	wantAll(t, impl,
		"static const Flyer_vtable Pigeon_Flyer_vtable",
		"static const Flyer_vtable Jet_Flyer_vtable",
		"Pigeon_fly((Pigeon *)self)",
		"Jet_fly((Jet *)self)",
	)
}

func TestDynamicDispatchGoesThroughVtable(t *testing.T) {
	out, _ := emit(t, `
spec Flyer {
	fn fly() int
}

type Pigeon as Flyer {
	fn fly() int {
		return 1
	}
}

fn launch(f Flyer) int {
	return f.fly()
}

fn run() int {
	let p = Pigeon{}
	return launch(p)
}
`)
	impl := string(out.Impl)
	wantAll(t, impl,
		"f.vt->fly(f.self)",
		".self = &p",
		".vt = &Pigeon_Flyer_vtable",
	)
}

func TestDelegationEmitsIndependentForwarders(t *testing.T) {
	out, _ := emit(t, `
spec Engine {
	fn thrust() int
}

spec Radio {
	fn ping() int
}

type WarpDrive {
	fn thrust() int {
		return 9000
	}
}

type Beacon {
	fn ping() int {
		return 7
	}
}

type Ship {
	has core WarpDrive for Engine
	has comms Beacon for Radio
}
`)
	impl := string(out.Impl)
	wantAll(t, impl,
		"WarpDrive_thrust(&self->core)",
		"Beacon_ping(&self->comms)",
	)
}

func TestMapFilterCollectFusesIntoOneLoop(t *testing.T) {
	out, _ := emit(t, `
fn doubledBig() [int] {
	let xs = [1, 2, 3, 4, 5]
	return xs.map(x => x * 2).filter(x => x > 5).collect()
}
`)
	impl := string(out.Impl)
	wantAll(t, impl,
		"malloc(",
		"for (int64_t",
		"(x * 2)",
		"continue;",
		"_len++",
	)
	if strings.Count(impl, "for (int64_t") != 1 {
		t.Errorf("map/filter/collect should fuse into a single loop:\n%s", impl)
	}
}

func TestAnyShortCircuits(t *testing.T) {
	out, _ := emit(t, `
fn hasBig() bool {
	return [1, 2, 3].any(x => x > 2)
}
`)
	impl := string(out.Impl)
	wantAll(t, impl,
		"= false;",
		"= true;",
		"break;",
	)
}

func TestChainAppendsBothSourcesMidPipeline(t *testing.T) {
	out, _ := emit(t, `
fn doubledThenNine() [int] {
	let xs = [1, 2, 3]
	return xs.map(x => x * 2).chain([9]).collect()
}
`)
	impl := string(out.Impl)
	wantAll(t, impl, "(x * 2)", "9")
	if got := strings.Count(impl, "for (int64_t"); got != 2 {
		t.Errorf("want one loop per chained source, got %d:\n%s", got, impl)
	}
	if got := strings.Count(impl, "_len++]"); got != 2 {
		t.Errorf("both sources must append into the result, got %d append sites:\n%s", got, impl)
	}
}

func TestChainSharesLimitCounter(t *testing.T) {
	out, _ := emit(t, `
fn firstThree() [int] {
	return [1, 2].chain([3, 4]).limit(3).collect()
}
`)
	impl := string(out.Impl)
	re := regexp.MustCompile(`(__n\d+)\+\+ >= 3`)
	matches := re.FindAllStringSubmatch(impl, -1)
	if len(matches) != 2 {
		t.Fatalf("limit must guard both source loops, got %d guards:\n%s", len(matches), impl)
	}
	if matches[0][1] != matches[1][1] {
		t.Errorf("limit counter must be shared across the chain seam: %s vs %s\n%s",
			matches[0][1], matches[1][1], impl)
	}
	if got := strings.Count(impl, "int64_t "+matches[0][1]+" = 0;"); got != 1 {
		t.Errorf("counter declared %d times, want once:\n%s", got, impl)
	}
}

func TestFindStopsAtChainSeam(t *testing.T) {
	out, _ := emit(t, `
fn firstBig() int {
	return [1, 5].chain([7]).find(x => x > 2)
}
`)
	impl := string(out.Impl)
	re := regexp.MustCompile(`int (__stop\d+) = -1;`)
	m := re.FindStringSubmatch(impl)
	if m == nil {
		t.Fatalf("chained search needs a stop level:\n%s", impl)
	}
	stop := m[1]
	if !strings.Contains(impl, stop+" = 1; break;") {
		t.Errorf("find must raise the stop level past every adapter:\n%s", impl)
	}
	if !strings.Contains(impl, stop+" < 1 && ") {
		t.Errorf("second source loop must honor the stop level:\n%s", impl)
	}
}

func TestLimitBeforeChainCutsOnlyItsSource(t *testing.T) {
	out, _ := emit(t, `
fn oneThenNine() [int] {
	return [1, 2, 3].limit(1).chain([9]).collect()
}
`)
	impl := string(out.Impl)
	wantAll(t, impl, " = 0; break;")
	re := regexp.MustCompile(`__stop\d+ < 2 && `)
	if re.FindString(impl) == "" {
		t.Errorf("second source enters past the limit and must keep running:\n%s", impl)
	}
}

func TestMonomorphizedTagEmittedOnceInSharedHeader(t *testing.T) {
	fsrc := `
tag May<T> {
	none Nil
	some T
}

fn a(m May<int>) int {
	return 0
}

fn b(m May<int>) int {
	return 1
}
`
	out, cache := emit(t, fsrc)
	if !strings.Contains(string(out.Header), "#include \"autogen_types.h\"") {
		t.Fatalf("module header should pull in the shared header:\n%s", out.Header)
	}

	fs := source.NewFileSet()
	id := fs.AddVirtual("main.at", []byte(fsrc))
	bag := diag.NewBag(64)
	reporter := diag.BagReporter{Bag: bag}
	lx := lexer.New(fs.Get(id), lexer.Options{Reporter: reporter})
	file := parser.ParseFile(lx, parser.Options{Reporter: reporter})
	mod := sema.Bind(file, sema.Options{Reporter: reporter, Insts: cache})

	shared, ok := cgen.EmitShared([]*sema.Module{mod}, cache, cgen.Options{Reporter: reporter})
	if !ok {
		t.Fatal("shared emission failed")
	}
	text := string(shared.Header)
	if strings.Count(text, "struct May_int {") != 1 {
		t.Errorf("May<int> must be defined exactly once:\n%s", text)
	}
	wantAll(t, text, "MAY_INT_NONE", "MAY_INT_SOME", "May_int_some(int64_t payload)")

	// A second drain hands out nothing.
	if rest := cache.Drain(); len(rest) != 0 {
		t.Errorf("queue should be empty after shared emission, got %d", len(rest))
	}
}

func TestFStringAllocatesForItsContent(t *testing.T) {
	out, _ := emit(t, `
fn greet(name str) str {
	return f"hello $name"
}
`)
	impl := string(out.Impl)
	wantAll(t, impl,
		"snprintf(NULL, 0,",
		"malloc(",
		"hello %s",
	)
	if strings.Contains(impl, "[512]") {
		t.Errorf("interpolation must not use fixed stack storage:\n%s", impl)
	}
}

func TestUseCDirectiveBecomesInclude(t *testing.T) {
	out, _ := emit(t, `
use c stdio

fn run() int {
	return 0
}
`)
	wantAll(t, string(out.Impl), "#include <stdio.h>")
}

func TestHeaderHasPragmaOnce(t *testing.T) {
	out, _ := emit(t, `
fn run() int {
	return 0
}
`)
	if !strings.HasPrefix(string(out.Header), "#pragma once") {
		t.Errorf("header must start with #pragma once:\n%s", out.Header)
	}
}

func TestScriptStatementsBecomeMain(t *testing.T) {
	out, _ := emit(t, `
let x = 2 + 3
println(x)
`)
	impl := string(out.Impl)
	wantAll(t, impl,
		"int main(void) {",
		"int64_t x = (2 + 3);",
		"printf(\"%lld\\n\", (long long)(x));",
		"return 0;",
	)
}

func TestReturnPathSentinel(t *testing.T) {
	out, _ := emit(t, `
fn pick(b bool) int {
	if b {
		return 1
	} else {
		return 2
	}
}
`)
	wantAll(t, string(out.Impl), "return 0;")
}
