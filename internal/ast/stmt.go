package ast

import (
	"autoc/internal/source"
	"autoc/internal/token"
)

// StoreStmt is a binding: let (immutable) or var (mutable). Type is
// nil when inferred from the initializer.
type StoreStmt struct {
	Name  Name
	Mut   bool
	Type  *TypeRef
	Value Expr
	Pos   source.Span
}

// AssignStmt is target = value or a compound form (+=, -=, *=, /=).
type AssignStmt struct {
	Op     token.Kind // Assign, PlusAssign, MinusAssign, StarAssign, SlashAssign
	Target Expr
	Value  Expr
}

// ExprStmt is an expression in statement position. Blocks, if and is
// reach statement position through this wrapper.
type ExprStmt struct {
	X Expr
}

// ReturnStmt returns from the enclosing function. Value may be nil.
type ReturnStmt struct {
	Value Expr
	Pos   source.Span
}

// BreakStmt exits the innermost loop.
type BreakStmt struct {
	Pos source.Span
}

// ContinueStmt resumes the innermost loop.
type ContinueStmt struct {
	Pos source.Span
}

// WhileStmt is while cond { body }.
type WhileStmt struct {
	Cond Expr
	Body *BlockExpr
	Pos  source.Span
}

// ForInStmt is for x in iterable { body }. Iterable is a range, an
// array, or an iterator chain.
type ForInStmt struct {
	Var      Name
	Iterable Expr
	Body     *BlockExpr
	Pos      source.Span
}

func (s *StoreStmt) Span() source.Span    { return s.Pos }
func (s *AssignStmt) Span() source.Span   { return s.Target.Span().Cover(s.Value.Span()) }
func (s *ExprStmt) Span() source.Span     { return s.X.Span() }
func (s *ReturnStmt) Span() source.Span   { return s.Pos }
func (s *BreakStmt) Span() source.Span    { return s.Pos }
func (s *ContinueStmt) Span() source.Span { return s.Pos }
func (s *WhileStmt) Span() source.Span    { return s.Pos }
func (s *ForInStmt) Span() source.Span    { return s.Pos }

func (*StoreStmt) stmtNode()    {}
func (*AssignStmt) stmtNode()   {}
func (*ExprStmt) stmtNode()     {}
func (*ReturnStmt) stmtNode()   {}
func (*BreakStmt) stmtNode()    {}
func (*ContinueStmt) stmtNode() {}
func (*WhileStmt) stmtNode()    {}
func (*ForInStmt) stmtNode()    {}
