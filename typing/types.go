package typing

import "strings"

// Kind represents one of the primitive value types of the Wallaby language.
// The front end guarantees that every expression node is annotated with a
// kind before the back ends run; KindUnit marks statements and functions
// which yield no value.
type Kind int

// Enumeration of the primitive type kinds.
const (
	KindInt   Kind = iota // 32-bit signed integer
	KindFloat             // 64-bit IEEE float
	KindBool
	KindChar
	KindUnit
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindChar:
		return "char"
	default:
		return "unit"
	}
}

// IsIntegral returns whether values of the kind are carried in integer
// registers and on integer stacks.  Booleans and characters share all of the
// integer machinery of the targets; only floats are kept apart.
func (k Kind) IsIntegral() bool {
	return k == KindInt || k == KindBool || k == KindChar
}

// -----------------------------------------------------------------------------

// FuncType represents a function signature: an ordered list of parameter
// kinds and a return kind.  Signatures are fixed at declaration and must
// match at every call site.
type FuncType struct {
	ParamTypes []Kind
	ReturnType Kind
}

func (ft *FuncType) String() string {
	sb := strings.Builder{}
	sb.WriteRune('(')

	for i, pt := range ft.ParamTypes {
		if i > 0 {
			sb.WriteString(", ")
		}

		sb.WriteString(pt.String())
	}

	sb.WriteString(") ")
	sb.WriteString(ft.ReturnType.String())
	return sb.String()
}
