package svm

import (
	"fmt"
	"io"
	"strconv"

	"wallaby/ast"
)

// Machine executes a finalized stack machine program.  It exists primarily so
// that compiled programs can be run in conformance tests; it is not an
// optimizing interpreter.
type Machine struct {
	out io.Writer

	pc      int
	running bool

	istack []int64
	fstack []float64

	iglobals map[int]int64
	fglobals map[int]float64

	frames []*activationFrame
}

// activationFrame is the per-call storage of a subroutine invocation.  Each
// call gets a fresh frame, so recursive calls cannot disturb their caller's
// locals and locals can never alias global storage.
type activationFrame struct {
	ilocals map[int]int64
	flocals map[int]float64

	// retAddr is the instruction index to resume at after Ret.
	retAddr int
}

func newActivationFrame(retAddr int) *activationFrame {
	return &activationFrame{
		ilocals: make(map[int]int64),
		flocals: make(map[int]float64),
		retAddr: retAddr,
	}
}

// NewMachine creates a machine writing program output to out.
func NewMachine(out io.Writer) *Machine {
	return &Machine{
		out:      out,
		iglobals: make(map[int]int64),
		fglobals: make(map[int]float64),
		frames:   []*activationFrame{newActivationFrame(-1)},
	}
}

// Run executes the program from its first instruction until Halt.  The
// program must have been finalized; execution faults are returned as errors.
func (m *Machine) Run(p *Program) (err error) {
	if p.Offsets == nil {
		return fmt.Errorf("program has not been finalized")
	}

	defer func() {
		if x := recover(); x != nil {
			err = fmt.Errorf("machine fault at pc %d: %v", m.pc, x)
		}
	}()

	m.pc = 0
	m.running = true

	for m.running {
		in := p.Instrs[m.pc]
		m.pc++
		m.step(p, in)
	}

	return nil
}

func (m *Machine) step(p *Program, in Instr) {
	switch in.Op {
	case IPush:
		m.ipush(in.Int)
	case IPop:
		m.ipop()
	case IAdd:
		r, l := m.ipop(), m.ipop()
		m.ipush(l + r)
	case ISub:
		r, l := m.ipop(), m.ipop()
		m.ipush(l - r)
	case IMul:
		r, l := m.ipop(), m.ipop()
		m.ipush(l * r)
	case IDiv:
		r, l := m.ipop(), m.ipop()
		m.ipush(l / r)
	case BitAnd:
		r, l := m.ipop(), m.ipop()
		m.ipush(l & r)
	case BitOr:
		r, l := m.ipop(), m.ipop()
		m.ipush(l | r)
	case BitXor:
		r, l := m.ipop(), m.ipop()
		m.ipush(l ^ r)
	case ICmp:
		r, l := m.ipop(), m.ipop()
		m.ipush(boolWord(compareInts(in.Cmp, l, r)))
	case IToF:
		m.fpush(float64(m.ipop()))

	case FPush:
		m.fpush(in.Float)
	case FPop:
		m.fpop()
	case FAdd:
		r, l := m.fpop(), m.fpop()
		m.fpush(l + r)
	case FSub:
		r, l := m.fpop(), m.fpop()
		m.fpush(l - r)
	case FMul:
		r, l := m.fpop(), m.fpop()
		m.fpush(l * r)
	case FDiv:
		r, l := m.fpop(), m.fpop()
		m.fpush(l / r)
	case FCmp:
		r, l := m.fpop(), m.fpop()
		m.ipush(boolWord(compareFloats(in.Cmp, l, r)))
	case FToI:
		m.ipush(int64(m.fpop()))

	case ILoadGlobal:
		m.ipush(m.iglobals[int(in.Int)])
	case IStoreGlobal:
		m.iglobals[int(in.Int)] = m.ipop()
	case FLoadGlobal:
		m.fpush(m.fglobals[int(in.Int)])
	case FStoreGlobal:
		m.fglobals[int(in.Int)] = m.fpop()

	case ILoadLocal:
		m.ipush(m.topFrame().ilocals[int(in.Int)])
	case IStoreLocal:
		m.topFrame().ilocals[int(in.Int)] = m.ipop()
	case FLoadLocal:
		m.fpush(m.topFrame().flocals[int(in.Int)])
	case FStoreLocal:
		m.topFrame().flocals[int(in.Int)] = m.fpop()

	case Label:
		// no-op
	case Goto:
		m.pc = p.Offsets[in.Label]
	case BranchZero:
		if m.ipop() == 0 {
			m.pc = p.Offsets[in.Label]
		}

	case Call:
		m.frames = append(m.frames, newActivationFrame(m.pc))
		m.pc = p.Offsets[in.Label]
	case Ret:
		m.pc = m.topFrame().retAddr
		m.frames = m.frames[:len(m.frames)-1]

	case IPrint:
		fmt.Fprintf(m.out, "%d\n", m.ipop())
	case FPrint:
		fmt.Fprintf(m.out, "%s\n", strconv.FormatFloat(m.fpop(), 'g', -1, 64))
	case BPrint:
		if m.ipop() != 0 {
			fmt.Fprint(m.out, "true\n")
		} else {
			fmt.Fprint(m.out, "false\n")
		}
	case CPrint:
		fmt.Fprintf(m.out, "%c", rune(m.ipop()))

	case Halt:
		m.running = false
	}
}

// -----------------------------------------------------------------------------

func (m *Machine) topFrame() *activationFrame {
	return m.frames[len(m.frames)-1]
}

func (m *Machine) ipush(v int64) {
	m.istack = append(m.istack, v)
}

func (m *Machine) ipop() int64 {
	v := m.istack[len(m.istack)-1]
	m.istack = m.istack[:len(m.istack)-1]
	return v
}

func (m *Machine) fpush(v float64) {
	m.fstack = append(m.fstack, v)
}

func (m *Machine) fpop() float64 {
	v := m.fstack[len(m.fstack)-1]
	m.fstack = m.fstack[:len(m.fstack)-1]
	return v
}

func boolWord(b bool) int64 {
	if b {
		return 1
	}

	return 0
}

func compareInts(op int, l, r int64) bool {
	switch op {
	case ast.OpEq:
		return l == r
	case ast.OpNeq:
		return l != r
	case ast.OpLt:
		return l < r
	case ast.OpLtEq:
		return l <= r
	case ast.OpGt:
		return l > r
	default:
		return l >= r
	}
}

func compareFloats(op int, l, r float64) bool {
	switch op {
	case ast.OpEq:
		return l == r
	case ast.OpNeq:
		return l != r
	case ast.OpLt:
		return l < r
	case ast.OpLtEq:
		return l <= r
	case ast.OpGt:
		return l > r
	default:
		return l >= r
	}
}
