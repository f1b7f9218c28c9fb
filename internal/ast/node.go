// Package ast defines the syntax tree for Auto modules. Nodes are
// plain pointers; the tree lives only for the duration of one module's
// compilation and is discarded after its C pair is emitted.
package ast

import "autoc/internal/source"

// Node is implemented by every syntax node.
type Node interface {
	Span() source.Span
}

// Expr is the expression subset of nodes.
type Expr interface {
	Node
	exprNode()
}

// Stmt is the statement subset of nodes.
type Stmt interface {
	Node
	stmtNode()
}

// Decl is the top-level declaration subset of nodes.
type Decl interface {
	Node
	declNode()
}

// Name is an identifier occurrence.
type Name struct {
	Text string
	Pos  source.Span
}

func (n Name) Span() source.Span { return n.Pos }

// IsZero reports whether the name is absent.
func (n Name) IsZero() bool { return n.Text == "" }
