package ast

// IfStmt represents an if statement with an optional else branch.  An else-if
// chain is represented as a nested if statement in the else branch.
type IfStmt struct {
	ASTBase

	// The condition of the if statement.  Always of kind bool.
	Condition ASTExpr

	// The body executed when the condition is true.
	Then *Block

	// The (optional) body executed when the condition is false.
	Else *Block
}

// WhileLoop represents a while loop.
type WhileLoop struct {
	ASTBase

	// The condition of the loop.  Always of kind bool.
	Condition ASTExpr

	// The body of the loop.
	Body *Block
}
