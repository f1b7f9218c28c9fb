package ast_test

import (
	"testing"

	"autoc/internal/ast"
	"autoc/internal/token"
)

func TestTypeRefString(t *testing.T) {
	cases := []struct {
		ref  *ast.TypeRef
		want string
	}{
		{&ast.TypeRef{Name: ast.Name{Text: "int"}}, "int"},
		{
			&ast.TypeRef{
				Name: ast.Name{Text: "May"},
				Args: []*ast.TypeRef{{Name: ast.Name{Text: "int"}}},
			},
			"May<int>",
		},
		{
			&ast.TypeRef{
				Name: ast.Name{Text: "List"},
				Args: []*ast.TypeRef{
					{Name: ast.Name{Text: "int"}},
					{Name: ast.Name{Text: "ArrayStorage"}},
				},
			},
			"List<int, ArrayStorage>",
		},
	}
	for _, tc := range cases {
		if got := tc.ref.String(); got != tc.want {
			t.Errorf("String() = %q, want %q", got, tc.want)
		}
	}
}

func TestBlockTail(t *testing.T) {
	lit := &ast.LitExpr{Kind: token.IntLit, Text: "1"}
	block := &ast.BlockExpr{Stmts: []ast.Stmt{&ast.ExprStmt{X: lit}}}
	if block.Tail() != lit {
		t.Fatal("trailing expression statement should be the block value")
	}

	block = &ast.BlockExpr{Stmts: []ast.Stmt{
		&ast.ExprStmt{X: lit},
		&ast.BreakStmt{},
	}}
	if block.Tail() != nil {
		t.Fatal("block ending in a non-expression statement has no value")
	}

	if (&ast.BlockExpr{}).Tail() != nil {
		t.Fatal("empty block has no value")
	}
}

func TestVariantIndexFollowsDeclarationOrder(t *testing.T) {
	tag := &ast.TagDecl{
		Name: ast.Name{Text: "Light"},
		Variants: []ast.Variant{
			{Name: ast.Name{Text: "red"}},
			{Name: ast.Name{Text: "yellow"}},
			{Name: ast.Name{Text: "green"}},
		},
	}
	for i, name := range []string{"red", "yellow", "green"} {
		idx, ok := tag.VariantIndex(name)
		if !ok || idx != i {
			t.Fatalf("VariantIndex(%q) = %d, %v; want %d, true", name, idx, ok, i)
		}
	}
	if _, ok := tag.VariantIndex("blue"); ok {
		t.Fatal("unknown variant must not resolve")
	}
}
