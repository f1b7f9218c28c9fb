package lexer_test

import (
	"testing"

	"autoc/internal/diag"
	"autoc/internal/lexer"
	"autoc/internal/source"
	"autoc/internal/token"
)

// testReporter collects every diagnostic the lexer reports.
type testReporter struct {
	diagnostics []diag.Diagnostic
}

func (r *testReporter) Report(code diag.Code, sev diag.Severity, primary source.Span, msg string, notes []diag.Note) {
	r.diagnostics = append(r.diagnostics, diag.Diagnostic{
		Severity: sev,
		Code:     code,
		Message:  msg,
		Primary:  primary,
		Notes:    notes,
	})
}

func (r *testReporter) errorCount() int {
	n := 0
	for _, d := range r.diagnostics {
		if d.Severity == diag.SevError {
			n++
		}
	}
	return n
}

func makeTestLexer(input string) (*lexer.Lexer, *testReporter) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.at", []byte(input))
	file := fs.Get(fileID)

	reporter := &testReporter{}
	lx := lexer.New(file, lexer.Options{Reporter: reporter})
	return lx, reporter
}

func collectAllTokens(lx *lexer.Lexer) []token.Token {
	var tokens []token.Token
	for {
		tok := lx.Next()
		tokens = append(tokens, tok)
		if tok.Kind == token.EOF {
			break
		}
	}
	return tokens
}

func expectKinds(t *testing.T, input string, expected []token.Kind) []token.Token {
	t.Helper()
	lx, _ := makeTestLexer(input)
	tokens := collectAllTokens(lx)
	// Drop the trailing EOF for comparison.
	got := tokens[:len(tokens)-1]
	if len(got) != len(expected) {
		t.Fatalf("%q: got %d tokens, want %d: %v", input, len(got), len(expected), kindsOf(got))
	}
	for i, k := range expected {
		if got[i].Kind != k {
			t.Fatalf("%q: token %d = %v, want %v", input, i, got[i].Kind, k)
		}
	}
	return got
}

func kindsOf(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, tk := range toks {
		out[i] = tk.Kind
	}
	return out
}

func TestParenInt(t *testing.T) {
	got := expectKinds(t, "(123)", []token.Kind{token.LParen, token.IntLit, token.RParen})
	if got[1].Text != "123" {
		t.Fatalf("int text = %q", got[1].Text)
	}
}

func TestPlainString(t *testing.T) {
	got := expectKinds(t, `"Hello, World!"`, []token.Kind{token.StrLit})
	if got[0].Text != `"Hello, World!"` {
		t.Fatalf("str text = %q", got[0].Text)
	}
}

func TestNumericSuffixes(t *testing.T) {
	cases := []struct {
		input string
		kind  token.Kind
	}{
		{"125u", token.UintLit},
		{"125u8", token.U8Lit},
		{"41i8", token.I8Lit},
		{"125", token.IntLit},
		{"3.14", token.DoubleLit},
		{"2.5f", token.FloatLit},
		{"1e3", token.DoubleLit},
		{"0xFF", token.IntLit},
		{"0b1010", token.IntLit},
	}
	for _, tc := range cases {
		got := expectKinds(t, tc.input, []token.Kind{tc.kind})
		if got[0].Text != tc.input {
			t.Errorf("%q: text = %q", tc.input, got[0].Text)
		}
	}
}

func TestLongestMatchOperators(t *testing.T) {
	expectKinds(t, ">=", []token.Kind{token.GtEq})
	expectKinds(t, "> =", []token.Kind{token.Gt, token.Assign})
	expectKinds(t, "..=", []token.Kind{token.DotDotEq})
	expectKinds(t, "..", []token.Kind{token.DotDot})
	expectKinds(t, "->", []token.Kind{token.Arrow})
}

func TestMinusBeforeDigitIsNotNegativeLiteral(t *testing.T) {
	got := expectKinds(t, "a-1", []token.Kind{token.Ident, token.Minus, token.IntLit})
	if got[2].Text != "1" {
		t.Fatalf("literal text = %q, want 1", got[2].Text)
	}
}

func TestFStringIdentInterpolation(t *testing.T) {
	got := expectKinds(t, `f"hello $you again"`, []token.Kind{
		token.FStrStart, token.FStrPart, token.Dollar, token.Ident,
		token.FStrPart, token.FStrEnd,
	})
	if got[1].Text != "hello " {
		t.Fatalf("first part = %q, want %q", got[1].Text, "hello ")
	}
	if got[3].Text != "you" {
		t.Fatalf("ident = %q, want you", got[3].Text)
	}
	if got[4].Text != " again" {
		t.Fatalf("second part = %q, want %q", got[4].Text, " again")
	}
}

func TestBacktickFStringSharesProtocol(t *testing.T) {
	expectKinds(t, "`hi $name`", []token.Kind{
		token.FStrStart, token.FStrPart, token.Dollar, token.Ident, token.FStrEnd,
	})
}

func TestFStringBraceInterpolation(t *testing.T) {
	expectKinds(t, `f"v=${a + b}"`, []token.Kind{
		token.FStrStart, token.FStrPart, token.Dollar, token.LBrace,
		token.Ident, token.Plus, token.Ident, token.RBrace, token.FStrEnd,
	})
}

func TestFStringNestedBraces(t *testing.T) {
	// Braces inside the embedded expression must not close the
	// interpolation early.
	expectKinds(t, "f\"${ if a { b } else { c } }\"", []token.Kind{
		token.FStrStart, token.Dollar, token.LBrace,
		token.KwIf, token.Ident, token.LBrace, token.Ident, token.RBrace,
		token.KwElse, token.LBrace, token.Ident, token.RBrace,
		token.RBrace, token.FStrEnd,
	})
}

func TestCStringLiteral(t *testing.T) {
	got := expectKinds(t, `c"raw\n"`, []token.Kind{token.CStrLit})
	if got[0].Text != `c"raw\n"` {
		t.Fatalf("cstr text = %q", got[0].Text)
	}
}

func TestCharLiteral(t *testing.T) {
	expectKinds(t, "'x'", []token.Kind{token.CharLit})
	expectKinds(t, `'\n'`, []token.Kind{token.CharLit})
}

func TestKeywordsAndIdents(t *testing.T) {
	expectKinds(t, "tag spec has fn taggy", []token.Kind{
		token.KwTag, token.KwSpec, token.KwHas, token.KwFn, token.Ident,
	})
}

func TestNewlineCollapse(t *testing.T) {
	expectKinds(t, "a\n\n\nb", []token.Kind{
		token.Ident, token.Newline, token.Ident,
	})
}

func TestLeadingNewlineSuppressed(t *testing.T) {
	expectKinds(t, "\n\nx", []token.Kind{token.Ident})
}

func TestComments(t *testing.T) {
	expectKinds(t, "a // trailing\nb", []token.Kind{token.Ident, token.Newline, token.Ident})
	expectKinds(t, "a /* mid */ b", []token.Kind{token.Ident, token.Ident})
}

func TestBlockCommentDoesNotNest(t *testing.T) {
	// The first */ terminates; the rest lexes as ordinary tokens.
	expectKinds(t, "/* outer /* inner */ x", []token.Kind{token.Ident})
}

func TestUnterminatedBlockComment(t *testing.T) {
	lx, rep := makeTestLexer("/* never closed")
	toks := collectAllTokens(lx)
	if toks[0].Kind != token.Invalid {
		t.Fatalf("first token = %v, want Invalid", toks[0].Kind)
	}
	if rep.errorCount() != 1 {
		t.Fatalf("errors = %d, want 1", rep.errorCount())
	}
}

func TestUnterminatedStringRecovers(t *testing.T) {
	lx, rep := makeTestLexer("\"open\nnext")
	toks := collectAllTokens(lx)
	if toks[0].Kind != token.Invalid {
		t.Fatalf("first token = %v, want Invalid", toks[0].Kind)
	}
	// Scanning resumes: "next" still comes out as an identifier.
	var sawIdent bool
	for _, tk := range toks {
		if tk.Kind == token.Ident && tk.Text == "next" {
			sawIdent = true
		}
	}
	if !sawIdent {
		t.Fatal("lexer did not resume after unterminated string")
	}
	if rep.errorCount() == 0 {
		t.Fatal("missing diagnostic for unterminated string")
	}
}

func TestIllegalByteRecovers(t *testing.T) {
	lx, rep := makeTestLexer("~\nok")
	toks := collectAllTokens(lx)
	if toks[0].Kind != token.Invalid {
		t.Fatalf("first token = %v, want Invalid", toks[0].Kind)
	}
	if rep.errorCount() != 1 {
		t.Fatalf("errors = %d, want 1", rep.errorCount())
	}
	last := toks[len(toks)-2]
	if last.Kind != token.Ident || last.Text != "ok" {
		t.Fatalf("recovery token = %v %q", last.Kind, last.Text)
	}
}

func TestTokenPositions(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("pos.at", []byte("let x = 1"))
	lx := lexer.New(fs.Get(id), lexer.Options{})

	let := lx.Next()
	if let.Span.Start != 0 || let.Span.End != 3 {
		t.Fatalf("let span = %v", let.Span)
	}
	x := lx.Next()
	start, _ := fs.Resolve(x.Span)
	if start.Line != 1 || start.Col != 5 {
		t.Fatalf("x position = %+v, want 1:5", start)
	}
}

func TestPeekDoesNotConsume(t *testing.T) {
	lx, _ := makeTestLexer("a b")
	p := lx.Peek()
	n := lx.Next()
	if p.Kind != n.Kind || p.Text != n.Text {
		t.Fatalf("Peek %v != Next %v", p, n)
	}
	if lx.Next().Text != "b" {
		t.Fatal("Peek consumed a token")
	}
}
