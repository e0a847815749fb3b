package ast

import (
	"wallaby/report"
	"wallaby/typing"
)

// ASTNode is the abstract interface for all model nodes.  The model is
// produced by the parsing and type-checking collaborators and consumed
// read-only by the back ends.
type ASTNode interface {
	// The text span of the source which produced the node.
	Span() *report.TextSpan
}

// ASTBase is a utility base struct for all model nodes.
type ASTBase struct {
	// The span over which the node occurs.
	span *report.TextSpan
}

// NewASTBaseOn creates a new AST base with the given span.
func NewASTBaseOn(span *report.TextSpan) ASTBase {
	return ASTBase{span: span}
}

// NewASTBaseOver creates a new AST base spanning over two spans.
func NewASTBaseOver(start, end *report.TextSpan) ASTBase {
	return ASTBase{span: report.NewSpanOver(start, end)}
}

func (ab ASTBase) Span() *report.TextSpan {
	return ab.span
}

// -----------------------------------------------------------------------------

// ASTExpr is the interface for all expression nodes.  Every expression
// carries the primitive kind resolved for it by the type checker.
type ASTExpr interface {
	ASTNode

	// Type is the yielded kind of the expression.
	Type() typing.Kind
}

// ExprBase is the base struct for all expressions.
type ExprBase struct {
	ASTBase

	typ typing.Kind
}

// NewExprBase creates a new expression base with the given resolved kind.
func NewExprBase(span *report.TextSpan, typ typing.Kind) ExprBase {
	return ExprBase{ASTBase: NewASTBaseOn(span), typ: typ}
}

func (eb *ExprBase) Type() typing.Kind {
	return eb.typ
}

// -----------------------------------------------------------------------------

// Program is the root of the typed model for a single source file: an ordered
// sequence of top level declarations and statements.  Function definitions may
// appear anywhere in the sequence; all other top level nodes execute in order
// as the body of the program's synthetic entry function.
type Program struct {
	ASTBase

	Stmts []ASTNode
}
