// Package driver runs the compilation pipeline: it loads modules,
// lexes, parses and binds them in parallel, then lowers every clean
// module to C. Bound results are memoized on disk keyed by content
// hash so unchanged modules skip straight to their cached output.
package driver

import (
	"fortio.org/safecast"

	"autoc/internal/ast"
	"autoc/internal/diag"
	"autoc/internal/lexer"
	"autoc/internal/mono"
	"autoc/internal/parser"
	"autoc/internal/sema"
	"autoc/internal/source"
	"autoc/internal/token"
)

// errorLimit converts the diagnostic budget into the parser's error
// cap; anything unrepresentable means unlimited.
func errorLimit(maxDiagnostics int) uint {
	limit, err := safecast.Conv[uint](maxDiagnostics)
	if err != nil {
		return 0
	}
	return limit
}

// TokenizeResult holds the token stream of one module.
type TokenizeResult struct {
	Path    string
	FileID  source.FileID
	FileSet *source.FileSet
	Tokens  []token.Token
	Bag     *diag.Bag
}

// Tokenize lexes a single module from disk.
func Tokenize(path string, maxDiagnostics int) (*TokenizeResult, error) {
	fs := source.NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		return nil, err
	}
	bag := diag.NewBag(maxDiagnostics)
	lx := lexer.New(fs.Get(id), lexer.Options{Reporter: diag.BagReporter{Bag: bag}})

	var toks []token.Token
	for {
		tok := lx.Next()
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			break
		}
	}
	return &TokenizeResult{
		Path:    path,
		FileID:  id,
		FileSet: fs,
		Tokens:  toks,
		Bag:     bag,
	}, nil
}

// ParseResult holds the AST of one module.
type ParseResult struct {
	Path    string
	FileID  source.FileID
	FileSet *source.FileSet
	File    *ast.File
	Bag     *diag.Bag
}

// Parse lexes and parses a single module from disk.
func Parse(path string, maxDiagnostics int) (*ParseResult, error) {
	fs := source.NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		return nil, err
	}
	bag := diag.NewBag(maxDiagnostics)
	reporter := diag.BagReporter{Bag: bag}
	lx := lexer.New(fs.Get(id), lexer.Options{Reporter: reporter})
	file := parser.ParseFile(lx, parser.Options{MaxErrors: errorLimit(maxDiagnostics), Reporter: reporter})
	return &ParseResult{
		Path:    path,
		FileID:  id,
		FileSet: fs,
		File:    file,
		Bag:     bag,
	}, nil
}

// DiagnoseResult holds the fully bound module and its diagnostics.
type DiagnoseResult struct {
	Path    string
	FileID  source.FileID
	FileSet *source.FileSet
	File    *ast.File
	Module  *sema.Module
	Bag     *diag.Bag
}

// Diagnose runs the full front end over a single module: lex, parse
// and bind, collecting every diagnostic along the way.
func Diagnose(path string, maxDiagnostics int) (*DiagnoseResult, error) {
	fs := source.NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		return nil, err
	}
	bag := diag.NewBag(maxDiagnostics)
	reporter := diag.NewDedupReporter(diag.BagReporter{Bag: bag})
	lx := lexer.New(fs.Get(id), lexer.Options{Reporter: reporter})
	file := parser.ParseFile(lx, parser.Options{MaxErrors: errorLimit(maxDiagnostics), Reporter: reporter})
	mod := sema.Bind(file, sema.Options{Reporter: reporter, Insts: mono.NewCache()})
	return &DiagnoseResult{
		Path:    path,
		FileID:  id,
		FileSet: fs,
		File:    file,
		Module:  mod,
		Bag:     bag,
	}, nil
}
