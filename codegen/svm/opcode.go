package svm

import (
	"fmt"
	"strconv"

	"wallaby/ast"
)

// Opcode identifies one instruction of the stack virtual machine.  The machine
// keeps two independent evaluation stacks, one for integer values and one for
// floating point values; every opcode is typed so that a value can never move
// between the stacks except through an explicit conversion.
type Opcode int

const (
	// Integer stack operations.
	IPush Opcode = iota // push integer immediate
	IPop                // pop and discard
	IAdd
	ISub
	IMul
	IDiv
	BitAnd
	BitOr
	BitXor
	ICmp // pop two ints, push comparison result
	IToF // move top of int stack to float stack

	// Float stack operations.
	FPush // push float immediate
	FPop  // pop and discard
	FAdd
	FSub
	FMul
	FDiv
	FCmp // pop two floats, push result on the *integer* stack
	FToI // move top of float stack to int stack

	// Global variable load/store.  The operand is a global slot index.
	ILoadGlobal
	IStoreGlobal
	FLoadGlobal
	FStoreGlobal

	// Local variable load/store.  The operand is a slot index in the current
	// activation frame.
	ILoadLocal
	IStoreLocal
	FLoadLocal
	FStoreLocal

	// Control flow.  The operand is a symbolic label.
	Label      // declares a label; executes as a no-op
	Goto       // unconditional jump
	BranchZero // jump if the top of the int stack is zero

	// Subroutines.  Call pushes a fresh activation frame; Ret destroys it.
	Call
	Ret

	// Output.  Each printable kind has its own opcode, mirroring the native
	// print runtime's per-type entry points.
	IPrint
	FPrint
	BPrint
	CPrint

	Halt
)

var opNames = map[Opcode]string{
	IPush:        "IPUSH",
	IPop:         "IPOP",
	IAdd:         "IADD",
	ISub:         "ISUB",
	IMul:         "IMUL",
	IDiv:         "IDIV",
	BitAnd:       "AND",
	BitOr:        "OR",
	BitXor:       "XOR",
	ICmp:         "ICMP",
	IToF:         "ITOF",
	FPush:        "FPUSH",
	FPop:         "FPOP",
	FAdd:         "FADD",
	FSub:         "FSUB",
	FMul:         "FMUL",
	FDiv:         "FDIV",
	FCmp:         "FCMP",
	FToI:         "FTOI",
	ILoadGlobal:  "ILOAD_GLOBAL",
	IStoreGlobal: "ISTORE_GLOBAL",
	FLoadGlobal:  "FLOAD_GLOBAL",
	FStoreGlobal: "FSTORE_GLOBAL",
	ILoadLocal:   "ILOAD_LOCAL",
	IStoreLocal:  "ISTORE_LOCAL",
	FLoadLocal:   "FLOAD_LOCAL",
	FStoreLocal:  "FSTORE_LOCAL",
	Label:        "LABEL",
	Goto:         "GOTO",
	BranchZero:   "BZ",
	Call:         "CALL",
	Ret:          "RET",
	IPrint:       "IPRINT",
	FPrint:       "FPRINT",
	BPrint:       "BPRINT",
	CPrint:       "CPRINT",
	Halt:         "HALT",
}

func (op Opcode) String() string {
	return opNames[op]
}

// -----------------------------------------------------------------------------

// Instr is a single instruction: an opcode plus at most one operand.  Which of
// the operand fields is meaningful depends on the opcode.
type Instr struct {
	Op Opcode

	// Int is the immediate for IPush or the slot index for load/store opcodes.
	Int int64

	// Float is the immediate for FPush.
	Float float64

	// Cmp is the comparison operator for ICmp and FCmp.  It is one of the
	// relational operator kinds of the ast package.
	Cmp int

	// Label is the label operand for Label, Goto, BranchZero and Call.
	Label string
}

var cmpNames = map[int]string{
	ast.OpEq:   "==",
	ast.OpNeq:  "!=",
	ast.OpLt:   "<",
	ast.OpLtEq: "<=",
	ast.OpGt:   ">",
	ast.OpGtEq: ">=",
}

func (in Instr) String() string {
	switch in.Op {
	case IPush:
		return fmt.Sprintf("%s %d", in.Op, in.Int)
	case FPush:
		return fmt.Sprintf("%s %s", in.Op, strconv.FormatFloat(in.Float, 'g', -1, 64))
	case ICmp, FCmp:
		return fmt.Sprintf("%s %s", in.Op, cmpNames[in.Cmp])
	case ILoadGlobal, IStoreGlobal, FLoadGlobal, FStoreGlobal,
		ILoadLocal, IStoreLocal, FLoadLocal, FStoreLocal:
		return fmt.Sprintf("%s %d", in.Op, in.Int)
	case Label, Goto, BranchZero, Call:
		return fmt.Sprintf("%s %s", in.Op, in.Label)
	default:
		return in.Op.String()
	}
}
