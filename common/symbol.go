package common

import (
	"wallaby/report"
	"wallaby/typing"
)

// Symbol represents a semantic symbol: a named value or function.  Symbols are
// created and resolved by the front end; the back ends treat them as read-only
// and keep their own symbol-to-storage tables so that independent compilations
// of the same model never share mutable state.
type Symbol struct {
	// The name of the symbol.
	Name string

	// Where the symbol was defined.
	DefSpan *report.TextSpan

	// The kind of the value stored in the symbol.  Unused for functions.
	Type typing.Kind

	// The signature of the symbol if it names a function.
	Signature *typing.FuncType

	// The symbol's definition kind.  This must be one of the enumerated
	// definition kinds.
	DefKind int

	// The symbol's storage kind.  This must be one of the enumerated storage
	// kinds.  Unused for functions.
	Storage int

	// The lexical scope depth at which the symbol was declared: zero for
	// globals and parameters, increasing by one per nested block.
	ScopeDepth int

	// Whether or not the symbol is immutable.
	Constant bool
}

// Enumeration of different symbol definition kinds.
const (
	DefKindValue = iota
	DefKindFunc
)

// Enumeration of different symbol storage kinds.
const (
	StorageGlobal = iota
	StorageLocal
	StorageParam
)
