package ast

import (
	"wallaby/common"
	"wallaby/typing"
)

// IntLit represents an integer literal.
type IntLit struct {
	ExprBase

	Value int64
}

// FloatLit represents a floating point literal.
type FloatLit struct {
	ExprBase

	Value float64
}

// BoolLit represents a boolean literal.
type BoolLit struct {
	ExprBase

	Value bool
}

// CharLit represents a character literal.
type CharLit struct {
	ExprBase

	Value rune
}

// -----------------------------------------------------------------------------

// Identifier represents a reference to a named value.  The symbol is resolved
// by the front end; an identifier whose symbol is nil is a contract violation.
type Identifier struct {
	ExprBase

	Sym *common.Symbol
}

// -----------------------------------------------------------------------------

// Enumeration of binary and unary operator kinds.
const (
	OpAdd = iota
	OpSub
	OpMul
	OpDiv

	OpEq
	OpNeq
	OpLt
	OpLtEq
	OpGt
	OpGtEq

	OpAnd // short-circuit &&
	OpOr  // short-circuit ||

	OpNeg
	OpNot
	OpPos // unary +, an identity
)

// IsComparison returns whether the operator kind is one of the six relational
// operators, which yield a boolean regardless of their operand kind.
func IsComparison(op int) bool {
	return OpEq <= op && op <= OpGtEq
}

// BinaryOp represents an arithmetic or relational binary operator application.
// The short-circuit logical operators use LogicalOp instead since their right
// operand is conditionally evaluated.
type BinaryOp struct {
	ExprBase

	Op       int
	Lhs, Rhs ASTExpr
}

// LogicalOp represents a short-circuit logical operator application: OpAnd or
// OpOr.  The right operand must never be evaluated unconditionally.
type LogicalOp struct {
	ExprBase

	Op       int
	Lhs, Rhs ASTExpr
}

// UnaryOp represents a unary operator application: OpNeg or OpNot.
type UnaryOp struct {
	ExprBase

	Op      int
	Operand ASTExpr
}

// -----------------------------------------------------------------------------

// Call is a function call expression.  Arguments are evaluated left to right.
type Call struct {
	ExprBase

	Func *common.Symbol
	Args []ASTExpr
}

// Cast represents a numeric type cast.  The destination kind is stored in the
// expression base; the only casts the front end produces are int to float and
// float to int.
type Cast struct {
	ExprBase

	Src ASTExpr
}

// -----------------------------------------------------------------------------

// Block represents a sequence of statements.  A block may be used as an
// expression, in which case its last statement must be an ExprStmt whose value
// becomes the value of the block; otherwise its kind is unit.  Locals declared
// inside a block are deallocated at block exit and their storage slots may be
// reused by sibling blocks.
type Block struct {
	ExprBase

	Stmts []ASTNode
}

// NewBlock creates a block yielding no value.
func NewBlock(base ASTBase, stmts []ASTNode) *Block {
	return &Block{
		ExprBase: ExprBase{ASTBase: base, typ: typing.KindUnit},
		Stmts:    stmts,
	}
}

// NewBlockExpr creates a block expression yielding the given kind.
func NewBlockExpr(base ASTBase, stmts []ASTNode, typ typing.Kind) *Block {
	return &Block{
		ExprBase: ExprBase{ASTBase: base, typ: typ},
		Stmts:    stmts,
	}
}
