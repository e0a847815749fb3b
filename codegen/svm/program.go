package svm

import (
	"strings"

	"wallaby/report"
)

// Program is an ordered sequence of instructions for the stack machine.
// Labels stay symbolic during generation; Finalize assigns each defined label
// its absolute instruction offset in a final fix-up pass.
type Program struct {
	Instrs []Instr

	// Offsets maps each defined label to the index of its Label instruction.
	// Populated by Finalize.
	Offsets map[string]int
}

// Finalize resolves every symbolic label to an absolute instruction offset.
// A label defined more than once or referenced but never defined violates the
// generator's own output invariant and raises an internal error.
func (p *Program) Finalize() {
	p.Offsets = make(map[string]int)

	for i, in := range p.Instrs {
		if in.Op == Label {
			if _, ok := p.Offsets[in.Label]; ok {
				report.RaiseICE(nil, "label `%s` defined more than once", in.Label)
			}

			p.Offsets[in.Label] = i
		}
	}

	for _, in := range p.Instrs {
		switch in.Op {
		case Goto, BranchZero, Call:
			if _, ok := p.Offsets[in.Label]; !ok {
				report.RaiseICE(nil, "jump to undefined label `%s`", in.Label)
			}
		}
	}
}

// String returns a plain text disassembly of the program.
func (p *Program) String() string {
	sb := strings.Builder{}

	for _, in := range p.Instrs {
		if in.Op != Label {
			sb.WriteString("    ")
		}

		sb.WriteString(in.String())
		sb.WriteRune('\n')
	}

	return sb.String()
}
