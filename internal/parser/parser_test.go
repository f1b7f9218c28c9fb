package parser_test

import (
	"testing"

	"autoc/internal/ast"
	"autoc/internal/diag"
	"autoc/internal/lexer"
	"autoc/internal/parser"
	"autoc/internal/source"
	"autoc/internal/token"
)

func parseSource(t *testing.T, input string) (*ast.File, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.at", []byte(input))
	bag := diag.NewBag(64)
	reporter := diag.BagReporter{Bag: bag}
	lx := lexer.New(fs.Get(id), lexer.Options{Reporter: reporter})
	file := parser.ParseFile(lx, parser.Options{Reporter: reporter})
	return file, bag
}

func mustParse(t *testing.T, input string) *ast.File {
	t.Helper()
	file, bag := parseSource(t, input)
	if bag.HasErrors() {
		for _, d := range bag.Items() {
			t.Logf("%s: %s", d.Code, d.Message)
		}
		t.Fatalf("unexpected parse errors in %q", input)
	}
	return file
}

func onlyExpr(t *testing.T, input string) ast.Expr {
	t.Helper()
	file := mustParse(t, input)
	if len(file.Stmts) != 1 {
		t.Fatalf("want 1 statement, got %d", len(file.Stmts))
	}
	es, ok := file.Stmts[0].(*ast.ExprStmt)
	if !ok {
		t.Fatalf("want expression statement, got %T", file.Stmts[0])
	}
	return es.X
}

func TestAdditiveLeftAssociativity(t *testing.T) {
	x := onlyExpr(t, "1 - 2 - 3")
	outer, ok := x.(*ast.BinaryExpr)
	if !ok || outer.Op != token.Minus {
		t.Fatalf("outer = %T", x)
	}
	inner, ok := outer.Left.(*ast.BinaryExpr)
	if !ok || inner.Op != token.Minus {
		t.Fatalf("left-associative grouping expected, left = %T", outer.Left)
	}
	if lit, ok := outer.Right.(*ast.LitExpr); !ok || lit.Text != "3" {
		t.Fatalf("right operand = %v", outer.Right)
	}
}

func TestMultiplicativeBindsTighter(t *testing.T) {
	x := onlyExpr(t, "1 + 2 * 3")
	outer := x.(*ast.BinaryExpr)
	if outer.Op != token.Plus {
		t.Fatalf("outer op = %v", outer.Op)
	}
	inner, ok := outer.Right.(*ast.BinaryExpr)
	if !ok || inner.Op != token.Star {
		t.Fatalf("2*3 should group under +, got %T", outer.Right)
	}
}

func TestUnaryMinusIsNode(t *testing.T) {
	x := onlyExpr(t, "a - -1")
	outer := x.(*ast.BinaryExpr)
	un, ok := outer.Right.(*ast.UnaryExpr)
	if !ok || un.Op != token.Minus {
		t.Fatalf("negation should be a unary node, got %T", outer.Right)
	}
}

func TestRangeExpr(t *testing.T) {
	x := onlyExpr(t, "1..10")
	r, ok := x.(*ast.RangeExpr)
	if !ok || r.Inclusive {
		t.Fatalf("exclusive range expected, got %T", x)
	}
	x = onlyExpr(t, "1..=10")
	if r := x.(*ast.RangeExpr); !r.Inclusive {
		t.Fatal("..= must parse inclusive")
	}
}

func TestCallChain(t *testing.T) {
	x := onlyExpr(t, "xs.map(f).filter(g)")
	call, ok := x.(*ast.CallExpr)
	if !ok {
		t.Fatalf("got %T", x)
	}
	dot, ok := call.Callee.(*ast.DotExpr)
	if !ok || dot.Member.Text != "filter" {
		t.Fatalf("callee = %v", call.Callee)
	}
	if _, ok := dot.Object.(*ast.CallExpr); !ok {
		t.Fatalf("map call should nest under filter, got %T", dot.Object)
	}
}

func TestIfExprRequiresElse(t *testing.T) {
	_, bag := parseSource(t, "let x = if a { 1 } { 2 }")
	if !bag.HasErrors() {
		t.Fatal("if-expression without else must be rejected")
	}

	file := mustParse(t, "if a { b() }")
	if len(file.Stmts) != 1 {
		t.Fatalf("statement if must not require else, stmts = %d", len(file.Stmts))
	}
}

func TestIfElseChain(t *testing.T) {
	file := mustParse(t, "let r = if a { 1 } else if b { 2 } else { 3 }")
	store := file.Stmts[0].(*ast.StoreStmt)
	ifx := store.Value.(*ast.IfExpr)
	chain, ok := ifx.Else.(*ast.IfExpr)
	if !ok {
		t.Fatalf("else-if should chain as nested if, got %T", ifx.Else)
	}
	if _, ok := chain.Else.(*ast.BlockExpr); !ok {
		t.Fatalf("final else should be a block, got %T", chain.Else)
	}
}

func TestStoreForms(t *testing.T) {
	file := mustParse(t, "let a = 1\nvar b = 2\nlet c int = 3\nlet mut d = 4")
	wantMut := []bool{false, true, false, true}
	for i, s := range file.Stmts {
		store, ok := s.(*ast.StoreStmt)
		if !ok {
			t.Fatalf("stmt %d = %T", i, s)
		}
		if store.Mut != wantMut[i] {
			t.Errorf("stmt %d mut = %v, want %v", i, store.Mut, wantMut[i])
		}
	}
	if file.Stmts[2].(*ast.StoreStmt).Type.Name.Text != "int" {
		t.Fatal("type annotation lost")
	}
}

func TestForInLoop(t *testing.T) {
	file := mustParse(t, "for x in 1..5 { sum += x }")
	loop := file.Stmts[0].(*ast.ForInStmt)
	if loop.Var.Text != "x" {
		t.Fatalf("loop var = %q", loop.Var.Text)
	}
	if _, ok := loop.Iterable.(*ast.RangeExpr); !ok {
		t.Fatalf("iterable = %T", loop.Iterable)
	}
	if _, ok := loop.Body.Stmts[0].(*ast.AssignStmt); !ok {
		t.Fatalf("body stmt = %T", loop.Body.Stmts[0])
	}
}

func TestTagDeclVariantOrder(t *testing.T) {
	file := mustParse(t, "tag Light {\n  red\n  yellow\n  green\n}")
	tag := file.Decls[0].(*ast.TagDecl)
	want := []string{"red", "yellow", "green"}
	if len(tag.Variants) != len(want) {
		t.Fatalf("variants = %d", len(tag.Variants))
	}
	for i, w := range want {
		if tag.Variants[i].Name.Text != w {
			t.Errorf("variant %d = %q, want %q", i, tag.Variants[i].Name.Text, w)
		}
	}
}

func TestTagDeclWithPayloads(t *testing.T) {
	file := mustParse(t, "tag May<T> { nil Nil, val T }")
	tag := file.Decls[0].(*ast.TagDecl)
	if len(tag.TypeParams) != 1 || tag.TypeParams[0].Text != "T" {
		t.Fatalf("type params = %v", tag.TypeParams)
	}
	if tag.Variants[0].Name.Text != "nil" || tag.Variants[0].Payload.Name.Text != "Nil" {
		t.Fatalf("first variant = %+v", tag.Variants[0])
	}
	if tag.Variants[1].Payload.Name.Text != "T" {
		t.Fatalf("second variant payload = %v", tag.Variants[1].Payload)
	}
}

func TestDuplicateVariantRejected(t *testing.T) {
	_, bag := parseSource(t, "tag T { a, a }")
	if !bag.HasErrors() {
		t.Fatal("duplicate variant must be a parse error")
	}
}

func TestSpecDecl(t *testing.T) {
	file := mustParse(t, "spec Storage<T> {\n  fn get(i int) T\n  fn put(i int, v T)\n}")
	spec := file.Decls[0].(*ast.SpecDecl)
	if len(spec.Methods) != 2 {
		t.Fatalf("methods = %d", len(spec.Methods))
	}
	get := spec.Methods[0]
	if get.Name.Text != "get" || get.Ret == nil || get.Ret.Name.Text != "T" {
		t.Fatalf("get sig = %+v", get)
	}
	put := spec.Methods[1]
	if len(put.Params) != 2 || put.Ret != nil {
		t.Fatalf("put sig = %+v", put)
	}
}

func TestTypeDeclConformanceAndDelegation(t *testing.T) {
	src := `type Starship as Flyer {
  name str
  has engine WarpDrive for Engine
  fn fly() {
    go()
  }
}`
	file := mustParse(t, src)
	ty := file.Decls[0].(*ast.TypeDecl)
	if len(ty.Conforms) != 1 || ty.Conforms[0].Text != "Flyer" {
		t.Fatalf("conforms = %v", ty.Conforms)
	}
	if len(ty.Fields) != 1 || ty.Fields[0].Type.Name.Text != "str" {
		t.Fatalf("fields = %+v", ty.Fields)
	}
	if len(ty.Delegations) != 1 {
		t.Fatalf("delegations = %d", len(ty.Delegations))
	}
	del := ty.Delegations[0]
	if del.Member.Text != "engine" || del.Type.Name.Text != "WarpDrive" || del.Spec.Text != "Engine" {
		t.Fatalf("delegation = %+v", del)
	}
	if len(ty.Methods) != 1 || ty.Methods[0].Owner.Text != "Starship" {
		t.Fatalf("methods = %+v", ty.Methods)
	}
}

func TestUseDirectives(t *testing.T) {
	file := mustParse(t, "use c stdio\nuse math")
	uses := file.Uses()
	if len(uses) != 2 {
		t.Fatalf("uses = %d", len(uses))
	}
	if uses[0].Kind != ast.UseC || uses[0].Path.Text != "stdio" {
		t.Fatalf("first use = %+v", uses[0])
	}
	if uses[1].Kind != ast.UseAuto || uses[1].Path.Text != "math" {
		t.Fatalf("second use = %+v", uses[1])
	}
}

func TestIsMatch(t *testing.T) {
	src := `is m {
  May.nil => 0
  May.val(v) => v
  else => -1
}`
	file := mustParse(t, src)
	isx := file.Stmts[0].(*ast.ExprStmt).X.(*ast.IsExpr)
	if len(isx.Branches) != 3 {
		t.Fatalf("branches = %d", len(isx.Branches))
	}
	pat := isx.Branches[0].Pattern.(*ast.TagPattern)
	if pat.Tag.Text != "May" || pat.Variant.Text != "nil" || !pat.Binding.IsZero() {
		t.Fatalf("first pattern = %+v", pat)
	}
	pat = isx.Branches[1].Pattern.(*ast.TagPattern)
	if pat.Binding.Text != "v" {
		t.Fatalf("payload binding = %q", pat.Binding.Text)
	}
	if isx.Branches[2].Kind != ast.IsElse {
		t.Fatalf("last branch kind = %v", isx.Branches[2].Kind)
	}
}

func TestStructLiteral(t *testing.T) {
	file := mustParse(t, "let p = Point{x: 1, y: 2}")
	store := file.Stmts[0].(*ast.StoreStmt)
	lit := store.Value.(*ast.StructLitExpr)
	if lit.Type.Name.Text != "Point" || len(lit.Inits) != 2 {
		t.Fatalf("struct literal = %+v", lit)
	}
	if lit.Inits[1].Name.Text != "y" {
		t.Fatalf("second init = %+v", lit.Inits[1])
	}
}

func TestFStringExpr(t *testing.T) {
	file := mustParse(t, `let s = f"hi $name and ${a + b}"`)
	store := file.Stmts[0].(*ast.StoreStmt)
	fstr := store.Value.(*ast.FStrExpr)
	if len(fstr.Parts) != 4 {
		t.Fatalf("parts = %d", len(fstr.Parts))
	}
	if fstr.Parts[0].Text != "hi " {
		t.Fatalf("part 0 = %q", fstr.Parts[0].Text)
	}
	if _, ok := fstr.Parts[1].Embed.(*ast.IdentExpr); !ok {
		t.Fatalf("part 1 = %T", fstr.Parts[1].Embed)
	}
	if _, ok := fstr.Parts[3].Embed.(*ast.BinaryExpr); !ok {
		t.Fatalf("part 3 = %T", fstr.Parts[3].Embed)
	}
}

func TestClosureForms(t *testing.T) {
	x := onlyExpr(t, "xs.map(x => x * 2)")
	call := x.(*ast.CallExpr)
	clo, ok := call.Args[0].(*ast.ClosureExpr)
	if !ok {
		t.Fatalf("arg = %T", call.Args[0])
	}
	if len(clo.Params) != 1 || clo.Params[0].Name.Text != "x" {
		t.Fatalf("params = %+v", clo.Params)
	}
	if clo.Body.Tail() == nil {
		t.Fatal("bare-expression closure body must carry a value")
	}

	file := mustParse(t, "let f = (acc, x) => acc + x")
	clo = file.Stmts[0].(*ast.StoreStmt).Value.(*ast.ClosureExpr)
	if len(clo.Params) != 2 || clo.Params[1].Name.Text != "x" {
		t.Fatalf("params = %+v", clo.Params)
	}
}

func TestParenStaysGrouping(t *testing.T) {
	x := onlyExpr(t, "(1 + 2) * 3")
	outer := x.(*ast.BinaryExpr)
	if outer.Op != token.Star {
		t.Fatalf("outer op = %v", outer.Op)
	}
	if inner, ok := outer.Left.(*ast.BinaryExpr); !ok || inner.Op != token.Plus {
		t.Fatalf("grouped sum expected, got %T", outer.Left)
	}
}

func TestIsGuardIsNotAClosure(t *testing.T) {
	file := mustParse(t, "is n {\n  if ready => 1\n  else => 0\n}")
	isx := file.Stmts[0].(*ast.ExprStmt).X.(*ast.IsExpr)
	if isx.Branches[0].Kind != ast.IsGuard {
		t.Fatalf("branch kind = %v", isx.Branches[0].Kind)
	}
	if _, ok := isx.Branches[0].Pattern.(*ast.IdentExpr); !ok {
		t.Fatalf("guard condition = %T", isx.Branches[0].Pattern)
	}
}

func TestRecoveryAfterBadDecl(t *testing.T) {
	file, bag := parseSource(t, "type {\nfn ok() { return 1 }")
	if !bag.HasErrors() {
		t.Fatal("bad type declaration must report")
	}
	found := false
	for _, d := range file.Decls {
		if fn, ok := d.(*ast.FnDecl); ok && fn.Sig.Name.Text == "ok" {
			found = true
		}
	}
	if !found {
		t.Fatal("parser must recover and parse the following function")
	}
}

func TestScriptStatementsKeepOrder(t *testing.T) {
	file := mustParse(t, "let a = 1\nprint(a)\n")
	if len(file.Stmts) != 2 {
		t.Fatalf("stmts = %d", len(file.Stmts))
	}
	if _, ok := file.Stmts[1].(*ast.ExprStmt); !ok {
		t.Fatalf("second stmt = %T", file.Stmts[1])
	}
}
