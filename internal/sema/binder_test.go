package sema_test

import (
	"strings"
	"testing"

	"autoc/internal/diag"
	"autoc/internal/lexer"
	"autoc/internal/mono"
	"autoc/internal/parser"
	"autoc/internal/sema"
	"autoc/internal/source"
)

func bindSource(t *testing.T, input string) (*sema.Module, *diag.Bag, *mono.Cache) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.at", []byte(input))
	bag := diag.NewBag(64)
	reporter := diag.BagReporter{Bag: bag}
	lx := lexer.New(fs.Get(id), lexer.Options{Reporter: reporter})
	file := parser.ParseFile(lx, parser.Options{Reporter: reporter})
	if bag.HasErrors() {
		for _, d := range bag.Items() {
			t.Logf("%s: %s", d.Code, d.Message)
		}
		t.Fatalf("unexpected parse errors in %q", input)
	}
	cache := mono.NewCache()
	mod := sema.Bind(file, sema.Options{Reporter: reporter, Insts: cache})
	return mod, bag, cache
}

func mustBind(t *testing.T, input string) *sema.Module {
	t.Helper()
	mod, bag, _ := bindSource(t, input)
	if bag.HasErrors() {
		for _, d := range bag.Items() {
			t.Logf("%s: %s", d.Code, d.Message)
		}
		t.Fatalf("unexpected binding errors")
	}
	return mod
}

func wantError(t *testing.T, bag *diag.Bag, code diag.Code, fragment string) {
	t.Helper()
	for _, d := range bag.Items() {
		if d.Code == code && strings.Contains(d.Message, fragment) {
			return
		}
	}
	for _, d := range bag.Items() {
		t.Logf("have %s: %s", d.Code, d.Message)
	}
	t.Fatalf("want %s mentioning %q", code, fragment)
}

const flyerDecls = `
spec Flyer {
	fn fly() str
}

type Pigeon as Flyer {
	fn fly() str {
		return "flap"
	}
}
`

func TestConformanceSatisfied(t *testing.T) {
	mod := mustBind(t, flyerDecls)
	ti, ok := mod.TypeInfoOf("Pigeon")
	if !ok {
		t.Fatal("Pigeon not bound")
	}
	if len(ti.Conforms) != 1 || ti.Conforms[0].Name != "Flyer" {
		t.Fatalf("conformance list = %+v", ti.Conforms)
	}
}

func TestConformanceMissingMethodNamesIt(t *testing.T) {
	_, bag, _ := bindSource(t, `
spec Flyer {
	fn fly() str
	fn land() int
}

type Brick as Flyer {
	fn fly() str {
		return "nope"
	}
}
`)
	wantError(t, bag, diag.SemaSpecNotSatisfied, "land")
}

func TestConformanceSignatureMismatch(t *testing.T) {
	_, bag, _ := bindSource(t, `
spec Flyer {
	fn fly() str
}

type Ostrich as Flyer {
	fn fly() int {
		return 0
	}
}
`)
	wantError(t, bag, diag.SemaSpecMethodMismatch, "fly")
}

func TestDelegationProducesBridgePerSpecMethod(t *testing.T) {
	mod := mustBind(t, `
spec Engine {
	fn thrust() int
	fn idle() int
}

type WarpDrive {
	fn thrust() int {
		return 9000
	}
	fn idle() int {
		return 1
	}
}

type Ship {
	has core WarpDrive for Engine
}
`)
	if len(mod.Bridges) != 2 {
		t.Fatalf("want 2 bridges, got %d", len(mod.Bridges))
	}
	for _, br := range mod.Bridges {
		if br.Composite.Name != "Ship" || br.Member != "core" || br.MemberType.Name != "WarpDrive" {
			t.Fatalf("bridge routed wrong: %+v", br)
		}
	}
}

func TestDelegationClausesAreIndependent(t *testing.T) {
	mod := mustBind(t, `
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
	byMember := map[string]string{}
	for _, br := range mod.Bridges {
		byMember[br.Method.Name] = br.Member
	}
	if byMember["thrust"] != "core" || byMember["ping"] != "comms" {
		t.Fatalf("bridge routing = %v", byMember)
	}
}

func TestDelegationMemberMustSatisfySpec(t *testing.T) {
	_, bag, _ := bindSource(t, `
spec Engine {
	fn thrust() int
}

type Rock {
}

type Ship {
	has core Rock for Engine
}
`)
	wantError(t, bag, diag.SemaBadDelegationTarget, "Rock")
}

func TestDuplicateTopLevelName(t *testing.T) {
	_, bag, _ := bindSource(t, `
fn twice() int {
	return 1
}

fn twice() int {
	return 2
}
`)
	wantError(t, bag, diag.SemaDuplicateSymbol, "twice")
}

func TestInstantiationRecordedOncePerKey(t *testing.T) {
	_, bag, cache := bindSource(t, `
type List<T> {
	head T
}

fn first(a List<int>) int {
	return a.head
}

fn second(b List<int>) int {
	return b.head
}
`)
	if bag.HasErrors() {
		for _, d := range bag.Items() {
			t.Logf("%s: %s", d.Code, d.Message)
		}
		t.Fatal("unexpected errors")
	}
	if cache.Len() != 1 {
		t.Fatalf("want 1 distinct instantiation, got %d", cache.Len())
	}
	desc, ok := cache.Lookup("List", []string{"int"})
	if !ok {
		t.Fatal("List<int> not recorded")
	}
	if desc.MangledName != "List_int" {
		t.Fatalf("mangled = %s", desc.MangledName)
	}
	if len(desc.UseSites) != 2 {
		t.Fatalf("want 2 use sites, got %d", len(desc.UseSites))
	}
	if drained := cache.Drain(); len(drained) != 1 {
		t.Fatalf("drain handed %d descriptors", len(drained))
	}
}

func TestGenericArityMismatch(t *testing.T) {
	_, bag, _ := bindSource(t, `
type List<T> {
	head T
}

fn f(a List<int, str>) {
	return
}
`)
	wantError(t, bag, diag.SemaArityMismatch, "List")
}

func TestMatchMustCoverAllVariants(t *testing.T) {
	_, bag, _ := bindSource(t, `
tag Coin {
	heads Nil
	tails Nil
}

fn flip(c Coin) int {
	is c {
		Coin.heads => 1
	}
	return 0
}
`)
	wantError(t, bag, diag.SemaNonExhaustiveMatch, "Coin.tails")
}

func TestMatchElseCoversRemainder(t *testing.T) {
	mustBind(t, `
tag Coin {
	heads Nil
	tails Nil
}

fn flip(c Coin) int {
	is c {
		Coin.heads => 1
		else => 0
	}
	return 0
}
`)
}

func TestMatchBindsPayload(t *testing.T) {
	mustBind(t, `
tag May<T> {
	nil Nil
	val T
}

fn unwrap(m May<int>) int {
	is m {
		May.nil => 0
		May.val(v) => v
	}
	return 0
}
`)
}

func TestMatchOverScalarNeedsElse(t *testing.T) {
	_, bag, _ := bindSource(t, `
fn describe(n int) int {
	is n {
		0 => 10
		1 => 20
	}
	return 0
}
`)
	wantError(t, bag, diag.SemaNonExhaustiveMatch, "else")
}

func TestImmutableAssignmentRejected(t *testing.T) {
	_, bag, _ := bindSource(t, `
fn f() {
	let x = 1
	x = 2
}
`)
	wantError(t, bag, diag.SemaTypeMismatch, "immutable")
}

func TestMutableAssignmentAccepted(t *testing.T) {
	mustBind(t, `
fn f() int {
	let mut x = 1
	x = 2
	return x
}
`)
}

func TestStoreTypeMismatch(t *testing.T) {
	_, bag, _ := bindSource(t, `
fn f() {
	let s str = 1
}
`)
	wantError(t, bag, diag.SemaTypeMismatch, "str")
}

func TestUnresolvedIdent(t *testing.T) {
	_, bag, _ := bindSource(t, `
fn f() int {
	return ghost
}
`)
	wantError(t, bag, diag.SemaUnresolvedIdent, "ghost")
}

func TestTagPayloadTypeChecked(t *testing.T) {
	_, bag, _ := bindSource(t, `
tag Result {
	ok int
	err str
}

fn f() Result {
	return Result.ok("oops")
}
`)
	wantError(t, bag, diag.SemaTypeMismatch, "ok")
}

func TestTagUnknownVariantRejected(t *testing.T) {
	_, bag, _ := bindSource(t, `
tag Result {
	ok int
	err str
}

fn f() Result {
	return Result.oops(1)
}
`)
	wantError(t, bag, diag.SemaUnknownVariant, "oops")
}

func TestUnitVariantRejectsPayload(t *testing.T) {
	_, bag, _ := bindSource(t, `
tag May {
	nil Nil
	val int
}

fn f() May {
	return May.nil(1)
}
`)
	wantError(t, bag, diag.SemaArityMismatch, "carries no payload")
}

func TestTagConstructionRecordsInstantiation(t *testing.T) {
	_, bag, cache := bindSource(t, `
tag May<T> {
	nil Nil
	val T
}

fn f() int {
	let m = May.val(1)
	return 1
}
`)
	if bag.HasErrors() {
		for _, d := range bag.Items() {
			t.Logf("%s: %s", d.Code, d.Message)
		}
		t.Fatal("unexpected errors")
	}
	if _, ok := cache.Lookup("May", []string{"int"}); !ok {
		t.Fatal("May<int> construction not recorded")
	}
}

func TestValueBindingShadowsTagName(t *testing.T) {
	mustBind(t, `
tag Status {
	ok Nil
	bad Nil
}

fn first(Status [int]) int {
	return Status.len()
}
`)
}

func TestIteratorChainTypes(t *testing.T) {
	mustBind(t, `
fn doubledEvens() [int] {
	let xs = [1, 2, 3, 4, 5]
	return xs.map(x => x * 2).filter(x => x > 5).collect()
}

fn total() int {
	return (1..10).reduce(0, (acc, x) => acc + x)
}

fn hasBig() bool {
	return [1, 2, 3].any(x => x > 2)
}

fn firstOfBoth() [int] {
	let xs = [1, 2]
	return xs.map(x => x * 2).chain([9]).limit(3).collect()
}
`)
}

func TestClosureNeedsCallContext(t *testing.T) {
	_, bag, _ := bindSource(t, `
fn f() {
	let g = x => x + 1
}
`)
	wantError(t, bag, diag.SemaTypeMismatch, "closure")
}

func TestSpecValueDispatch(t *testing.T) {
	mustBind(t, `
spec Flyer {
	fn fly() str
}

type Pigeon as Flyer {
	fn fly() str {
		return "flap"
	}
}

fn launch(f Flyer) str {
	return f.fly()
}

fn go() str {
	let p = Pigeon{}
	return launch(p)
}
`)
}

func TestReturnPathsChecked(t *testing.T) {
	_, bag, _ := bindSource(t, `
fn f(b bool) int {
	if b {
		return 1
	}
}
`)
	wantError(t, bag, diag.SemaTypeMismatch, "every path")
}

func TestMethodOnGenericSubstitutes(t *testing.T) {
	mustBind(t, `
type Box<T> {
	item T

	fn get() T {
		return self.item
	}
}

fn f(b Box<int>) int {
	return b.get()
}
`)
}
