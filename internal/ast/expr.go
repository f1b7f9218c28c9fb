package ast

import (
	"autoc/internal/source"
	"autoc/internal/token"
)

// LitExpr is a literal of any kind. Kind is one of the literal token
// kinds (IntLit, UintLit, U8Lit, I8Lit, FloatLit, DoubleLit, StrLit,
// CStrLit, CharLit, KwTrue, KwFalse, KwNil). Text is the raw source
// text including quotes and suffixes.
type LitExpr struct {
	Kind token.Kind
	Text string
	Pos  source.Span
}

// IdentExpr is a bare identifier reference.
type IdentExpr struct {
	Name Name
}

// UnaryExpr is a prefix operation: negation or logical not.
type UnaryExpr struct {
	Op      token.Kind // Minus or Bang
	Operand Expr
	Pos     source.Span
}

// BinaryExpr is an infix operation. Op is the operator token kind.
type BinaryExpr struct {
	Op    token.Kind
	Left  Expr
	Right Expr
}

// RangeExpr is lo..hi or lo..=hi.
type RangeExpr struct {
	Low       Expr
	High      Expr
	Inclusive bool
	Pos       source.Span
}

// CallExpr is callee(args...). The callee may be an identifier or a
// dot expression (method call).
type CallExpr struct {
	Callee Expr
	Args   []Expr
	Pos    source.Span
}

// DotExpr is object.field, covering field access, method references
// and tag variant references (May.nil).
type DotExpr struct {
	Object Expr
	Member Name
}

// IndexExpr is seq[index].
type IndexExpr struct {
	Seq   Expr
	Index Expr
	Pos   source.Span
}

// ArrayExpr is [e1, e2, ...].
type ArrayExpr struct {
	Elems []Expr
	Pos   source.Span
}

// FieldInit is one name: value pair inside a struct literal.
type FieldInit struct {
	Name  Name
	Value Expr
}

// StructLitExpr is TypeName{field: value, ...}.
type StructLitExpr struct {
	Type  *TypeRef
	Inits []FieldInit
	Pos   source.Span
}

// FStrPart is one segment of an interpolated string: either literal
// text or an embedded expression.
type FStrPart struct {
	Text  string // literal text; empty when Embed is set
	Embed Expr
	Pos   source.Span
}

// FStrExpr is an interpolated string, f"..." or backtick form.
type FStrExpr struct {
	Parts []FStrPart
	Pos   source.Span
}

// ClosureExpr is x => expr or (a, b) => expr. Parameter types are
// inferred from the call context; the body is a block holding the
// single result expression or explicit statements.
type ClosureExpr struct {
	Params []Param
	Body   *BlockExpr
	Pos    source.Span
}

// BlockExpr is { stmts... }. In expression position its value is the
// value of the trailing expression statement; a block ending in a
// non-expression statement has no value.
type BlockExpr struct {
	Stmts []Stmt
	Pos   source.Span
}

// Tail returns the trailing expression if the block ends in an
// expression statement, else nil.
func (b *BlockExpr) Tail() Expr {
	if len(b.Stmts) == 0 {
		return nil
	}
	if es, ok := b.Stmts[len(b.Stmts)-1].(*ExprStmt); ok {
		return es.X
	}
	return nil
}

// IfExpr is if/else. In expression position Else must be present and
// both arms must yield compatible values; in statement position Else
// may be nil. Else is either another *IfExpr (else-if chain) or a
// *BlockExpr.
type IfExpr struct {
	Cond Expr
	Then *BlockExpr
	Else Expr
	Pos  source.Span
}

// IsBranchKind distinguishes the three branch forms of an is match.
type IsBranchKind uint8

const (
	// IsCase matches the target against a pattern value: a literal or
	// a tag variant, with an optional payload binding.
	IsCase IsBranchKind = iota
	// IsGuard evaluates an arbitrary condition: if cond => body.
	IsGuard
	// IsElse is the default branch: else => body.
	IsElse
)

// TagPattern is Tag.variant or Tag.variant(binding) in an is branch.
type TagPattern struct {
	Tag     Name
	Variant Name
	Binding Name // payload binding; zero when absent
	Pos     source.Span
}

func (p *TagPattern) Span() source.Span { return p.Pos }
func (p *TagPattern) exprNode()         {}

// IsBranch is one arm of an is match.
type IsBranch struct {
	Kind    IsBranchKind
	Pattern Expr // IsCase: literal or *TagPattern; IsGuard: condition; IsElse: nil
	Body    *BlockExpr
	Pos     source.Span
}

// IsExpr is an exhaustive match over a tag or scalar value. Usable in
// both statement and expression position, like if.
type IsExpr struct {
	Target   Expr
	Branches []IsBranch
	Pos      source.Span
}

func (e *LitExpr) Span() source.Span       { return e.Pos }
func (e *IdentExpr) Span() source.Span     { return e.Name.Pos }
func (e *UnaryExpr) Span() source.Span     { return e.Pos.Cover(e.Operand.Span()) }
func (e *BinaryExpr) Span() source.Span    { return e.Left.Span().Cover(e.Right.Span()) }
func (e *RangeExpr) Span() source.Span     { return e.Pos }
func (e *CallExpr) Span() source.Span      { return e.Pos }
func (e *DotExpr) Span() source.Span       { return e.Object.Span().Cover(e.Member.Pos) }
func (e *IndexExpr) Span() source.Span     { return e.Pos }
func (e *ArrayExpr) Span() source.Span     { return e.Pos }
func (e *StructLitExpr) Span() source.Span { return e.Pos }
func (e *FStrExpr) Span() source.Span      { return e.Pos }
func (e *ClosureExpr) Span() source.Span   { return e.Pos }
func (e *BlockExpr) Span() source.Span     { return e.Pos }
func (e *IfExpr) Span() source.Span        { return e.Pos }
func (e *IsExpr) Span() source.Span        { return e.Pos }

func (*LitExpr) exprNode()       {}
func (*IdentExpr) exprNode()     {}
func (*UnaryExpr) exprNode()     {}
func (*BinaryExpr) exprNode()    {}
func (*RangeExpr) exprNode()     {}
func (*CallExpr) exprNode()      {}
func (*DotExpr) exprNode()       {}
func (*IndexExpr) exprNode()     {}
func (*ArrayExpr) exprNode()     {}
func (*StructLitExpr) exprNode() {}
func (*FStrExpr) exprNode()      {}
func (*ClosureExpr) exprNode()   {}
func (*BlockExpr) exprNode()     {}
func (*IfExpr) exprNode()        {}
func (*IsExpr) exprNode()        {}
