package ast

import "wallaby/common"

// FuncDef is a model node for a function definition.  The function's symbol
// carries its signature; Params holds the parameter symbols in declaration
// order.
type FuncDef struct {
	ASTBase

	Sym    *common.Symbol
	Params []*common.Symbol
	Body   *Block
}
