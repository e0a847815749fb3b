package ast

import "wallaby/common"

// VarDecl represents a variable or constant declaration, either at the top
// level (global storage) or inside a block (local storage).  The initializer
// is required: the front end synthesizes a zero-value initializer for
// declarations written without one.
type VarDecl struct {
	ASTBase

	Sym         *common.Symbol
	Initializer ASTExpr
}

// Assign represents an assignment statement to a named location.
type Assign struct {
	ASTBase

	Sym   *common.Symbol
	Value ASTExpr
}

// PrintStmt represents a print statement.  Each printable kind maps to one
// entry point of the native print runtime; the per-type output formatting is
// the runtime's contract, not the back ends'.
type PrintStmt struct {
	ASTBase

	Value ASTExpr
}

// ExprStmt represents an expression evaluated for effect.  Its value is
// discarded unless the statement is the last statement of a block expression.
type ExprStmt struct {
	ASTBase

	Expr ASTExpr
}

// ReturnStmt represents a return statement.  Value is nil for functions which
// return no value.
type ReturnStmt struct {
	ASTBase

	Value ASTExpr
}

// BreakStmt represents a break statement.  The front end guarantees that an
// enclosing loop exists.
type BreakStmt struct {
	ASTBase
}

// ContinueStmt represents a continue statement.  The front end guarantees that
// an enclosing loop exists.
type ContinueStmt struct {
	ASTBase
}
