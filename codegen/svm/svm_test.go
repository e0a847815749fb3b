package svm

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"wallaby/ast"
	"wallaby/common"
	"wallaby/report"
	"wallaby/samples"
	"wallaby/typing"
)

func TestMain(m *testing.M) {
	report.InitReporter(report.LogLevelSilent)
	os.Exit(m.Run())
}

// TestSamplesProduceExpectedOutput compiles every registered sample and runs
// the bytecode on the stack machine, comparing the observable output against
// the sample's recorded output.
func TestSamplesProduceExpectedOutput(t *testing.T) {
	for _, s := range samples.All() {
		s := s
		t.Run(s.Name, func(t *testing.T) {
			p, err := Compile(s.Model())
			if err != nil {
				t.Fatalf("compiling `%s`: %v", s.Name, err)
			}

			var out bytes.Buffer
			if err := NewMachine(&out).Run(p); err != nil {
				t.Fatalf("running `%s`: %v", s.Name, err)
			}

			if out.String() != s.Output {
				t.Errorf("output of `%s` = %q; want %q", s.Name, out.String(), s.Output)
			}
		})
	}
}

func TestFinalizeResolvesEveryJump(t *testing.T) {
	s, _ := samples.Lookup("loop")

	p, err := Compile(s.Model())
	if err != nil {
		t.Fatal(err)
	}

	for _, in := range p.Instrs {
		switch in.Op {
		case Goto, BranchZero, Call:
			offset, ok := p.Offsets[in.Label]
			if !ok {
				t.Fatalf("jump to `%s` has no resolved offset", in.Label)
			}

			target := p.Instrs[offset]
			if target.Op != Label || target.Label != in.Label {
				t.Errorf("offset of `%s` points at %s", in.Label, target)
			}
		}
	}
}

func TestBreakOutsideLoopFails(t *testing.T) {
	span := &report.TextSpan{}
	model := &ast.Program{
		ASTBase: ast.NewASTBaseOn(span),
		Stmts:   []ast.ASTNode{&ast.BreakStmt{ASTBase: ast.NewASTBaseOn(span)}},
	}

	if _, err := Compile(model); err == nil {
		t.Fatal("compiling a top level break did not fail")
	}
}

func TestUnresolvedSymbolFails(t *testing.T) {
	span := &report.TextSpan{}
	model := &ast.Program{
		ASTBase: ast.NewASTBaseOn(span),
		Stmts: []ast.ASTNode{
			&ast.PrintStmt{
				ASTBase: ast.NewASTBaseOn(span),
				Value:   &ast.Identifier{ExprBase: ast.NewExprBase(span, typing.KindInt)},
			},
		},
	}

	if _, err := Compile(model); err == nil {
		t.Fatal("compiling a reference to an unresolved symbol did not fail")
	}
}

func TestEmptyBlockExpressionFails(t *testing.T) {
	span := &report.TextSpan{}
	base := ast.NewASTBaseOn(span)
	model := &ast.Program{
		ASTBase: base,
		Stmts: []ast.ASTNode{
			&ast.PrintStmt{
				ASTBase: base,
				Value:   ast.NewBlockExpr(base, nil, typing.KindInt),
			},
		},
	}

	if _, err := Compile(model); err == nil {
		t.Fatal("compiling an empty block expression did not fail")
	}
}

// TestSiblingBlocksReuseSlots checks that a local declared in one block and a
// local declared in a sibling block share a storage slot.
func TestSiblingBlocksReuseSlots(t *testing.T) {
	span := &report.TextSpan{}
	base := ast.NewASTBaseOn(span)

	declBlock := func(name string) *ast.Block {
		decl := &ast.VarDecl{
			ASTBase: base,
			Sym:     localIntSym(name, span),
			Initializer: &ast.IntLit{
				ExprBase: ast.NewExprBase(span, typing.KindInt),
				Value:    1,
			},
		}

		return ast.NewBlock(base, []ast.ASTNode{decl})
	}

	model := &ast.Program{
		ASTBase: base,
		Stmts:   []ast.ASTNode{declBlock("a"), declBlock("b")},
	}

	p, err := Compile(model)
	if err != nil {
		t.Fatal(err)
	}

	var slots []int64
	for _, in := range p.Instrs {
		if in.Op == IStoreLocal {
			slots = append(slots, in.Int)
		}
	}

	if len(slots) != 2 || slots[0] != slots[1] {
		t.Errorf("sibling locals stored to slots %v; want a single shared slot", slots)
	}
}

func TestDisassemblyShape(t *testing.T) {
	s, _ := samples.Lookup("func")

	p, err := Compile(s.Model())
	if err != nil {
		t.Fatal(err)
	}

	dis := p.String()

	// Label lines are flush left; instruction lines are indented.
	if !strings.Contains(dis, "LABEL fact\n") {
		t.Error("disassembly does not contain an unindented label for `fact`")
	}
	if !strings.Contains(dis, "    CALL fact\n") {
		t.Error("disassembly does not contain an indented call to `fact`")
	}
	if !strings.Contains(dis, "    HALT\n") {
		t.Error("disassembly does not contain a halt")
	}
}

func TestMachineRejectsUnfinalizedPrograms(t *testing.T) {
	p := &Program{Instrs: []Instr{{Op: Halt}}}

	if err := NewMachine(&bytes.Buffer{}).Run(p); err == nil {
		t.Fatal("running an unfinalized program did not fail")
	}
}

func TestMachineFaultsAreReported(t *testing.T) {
	// Popping an empty stack must surface as an error, not a crash.
	p := &Program{Instrs: []Instr{{Op: IAdd}, {Op: Halt}}}
	p.Finalize()

	if err := NewMachine(&bytes.Buffer{}).Run(p); err == nil {
		t.Fatal("a stack underflow did not fail")
	}
}

// -----------------------------------------------------------------------------

func localIntSym(name string, span *report.TextSpan) *common.Symbol {
	return &common.Symbol{
		Name:    name,
		DefSpan: span,
		Type:    typing.KindInt,
		DefKind: common.DefKindValue,
		Storage: common.StorageLocal,
	}
}
