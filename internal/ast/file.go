package ast

import "autoc/internal/source"

// File is the parse result for one module: the ordered top-level
// declarations plus any loose statements (script-style modules run
// them inside a synthesized main).
type File struct {
	FileID source.FileID
	Module string
	Decls  []Decl
	Stmts  []Stmt
}

// Uses returns the use directives in declaration order.
func (f *File) Uses() []*UseDecl {
	var out []*UseDecl
	for _, d := range f.Decls {
		if u, ok := d.(*UseDecl); ok {
			out = append(out, u)
		}
	}
	return out
}

// Fns returns the free functions in declaration order.
func (f *File) Fns() []*FnDecl {
	var out []*FnDecl
	for _, d := range f.Decls {
		if fn, ok := d.(*FnDecl); ok {
			out = append(out, fn)
		}
	}
	return out
}
