package ssa

import (
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

// TestSamplesCompile lowers every registered sample.  Compile verifies the
// one-terminator invariant internally, so a nil error means every reachable
// block of every function was properly terminated.
func TestSamplesCompile(t *testing.T) {
	for _, s := range samples.All() {
		s := s
		t.Run(s.Name, func(t *testing.T) {
			mod, err := Compile(s.Model())
			if err != nil {
				t.Fatalf("compiling `%s`: %v", s.Name, err)
			}

			ir := mod.String()
			for _, want := range []string{"@main(", "@_printi", "@_printf", "@_printb", "@_printc"} {
				if !strings.Contains(ir, want) {
					t.Errorf("module for `%s` does not contain %q", s.Name, want)
				}
			}
		})
	}
}

func TestRecursionLowers(t *testing.T) {
	s, _ := samples.Lookup("func")

	mod, err := Compile(s.Model())
	if err != nil {
		t.Fatal(err)
	}

	ir := mod.String()
	for _, want := range []string{"@fact(", "call i32 @fact", "@n = global i32 0"} {
		if !strings.Contains(ir, want) {
			t.Errorf("module does not contain %q", want)
		}
	}
}

// TestShortCircuitUsesPhi checks that the short-circuit operators merge their
// two results with a phi rather than evaluating both operands.
func TestShortCircuitUsesPhi(t *testing.T) {
	s, _ := samples.Lookup("shortcircuit")

	mod, err := Compile(s.Model())
	if err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(mod.String(), "phi i1") {
		t.Error("module contains no boolean phi")
	}
}

func TestStatementsAfterReturnArePruned(t *testing.T) {
	span := &report.TextSpan{}
	base := ast.NewASTBaseOn(span)

	fn := &common.Symbol{
		Name:      "answer",
		DefSpan:   span,
		DefKind:   common.DefKindFunc,
		Signature: &typing.FuncType{ReturnType: typing.KindInt},
	}

	model := &ast.Program{
		ASTBase: base,
		Stmts: []ast.ASTNode{
			&ast.FuncDef{
				ASTBase: base,
				Sym:     fn,
				Body: ast.NewBlock(base, []ast.ASTNode{
					&ast.ReturnStmt{
						ASTBase: base,
						Value:   &ast.IntLit{ExprBase: ast.NewExprBase(span, typing.KindInt), Value: 42},
					},
					&ast.PrintStmt{
						ASTBase: base,
						Value:   &ast.IntLit{ExprBase: ast.NewExprBase(span, typing.KindInt), Value: 7},
					},
				}),
			},
		},
	}

	mod, err := Compile(model)
	if err != nil {
		t.Fatal(err)
	}

	ir := mod.String()
	if !strings.Contains(ir, "ret i32 42") {
		t.Error("module does not return the constant")
	}
	if strings.Contains(ir, "i32 7") {
		t.Error("the unreachable print survived pruning")
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
