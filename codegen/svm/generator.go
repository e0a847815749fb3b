// Package svm compiles a typed Wallaby model into bytecode for the stack
// virtual machine and provides the Machine that executes it.
package svm

import (
	"fmt"

	"wallaby/ast"
	"wallaby/codegen"
	"wallaby/common"
	"wallaby/report"
	"wallaby/typing"
)

// Generator is responsible for converting a typed model into a stack machine
// program.  Each generator owns all of its label, slot and output state, so
// independent compilations may run concurrently.
type Generator struct {
	// instrs is the instruction stream being emitted.
	instrs []Instr

	// labelCount is a counter used to generate fresh branch labels.
	labelCount int

	// globals maps each global symbol to its storage slot.
	globals map[*common.Symbol]int

	// frame is the slot allocator of the function currently being compiled.
	// Top level code runs in a base frame of its own.
	frame *frame

	// funcs maps function symbols to their entry labels.
	funcs map[*common.Symbol]string

	// loops tracks the continue/break labels of the enclosing loops.
	loops codegen.LoopStack[string]
}

// Compile lowers a typed model to a stack machine program.  The returned
// program has all labels resolved to absolute offsets.  Compilation is
// all-or-nothing: on error the partial program is discarded.
func Compile(prog *ast.Program) (p *Program, err error) {
	defer report.CatchErrors(&err)

	g := &Generator{
		globals: make(map[*common.Symbol]int),
		funcs:   make(map[*common.Symbol]string),
		frame:   newFrame(),
	}

	// Function bodies are placed after the top level code so that execution
	// begins with the first top level statement.
	var funcs []*ast.FuncDef
	for _, item := range prog.Stmts {
		if fd, ok := item.(*ast.FuncDef); ok {
			g.funcs[fd.Sym] = fd.Sym.Name
			funcs = append(funcs, fd)
			continue
		}

		g.genStmt(item)
	}

	g.emit(Instr{Op: Halt})

	for _, fd := range funcs {
		g.genFuncDef(fd)
	}

	p = &Program{Instrs: g.instrs}
	p.Finalize()
	return p, nil
}

// genFuncDef generates a labeled function body.  The caller pushes arguments
// left to right, so the callee's first instructions pop them into parameter
// slots right to left.
func (g *Generator) genFuncDef(fd *ast.FuncDef) {
	outerFrame := g.frame
	g.frame = newFrame()

	g.emit(Instr{Op: Label, Label: fd.Sym.Name})

	slots := make([]int, len(fd.Params))
	for i, param := range fd.Params {
		slots[i] = g.frame.define(param)
	}

	for i := len(fd.Params) - 1; i >= 0; i-- {
		if fd.Params[i].Type.IsIntegral() {
			g.emit(Instr{Op: IStoreLocal, Int: int64(slots[i])})
		} else {
			g.emit(Instr{Op: FStoreLocal, Int: int64(slots[i])})
		}
	}

	g.genBlock(fd.Body)

	// Functions which fall off the end return without a value.
	if len(g.instrs) == 0 || g.instrs[len(g.instrs)-1].Op != Ret {
		g.emit(Instr{Op: Ret})
	}

	g.frame = outerFrame
}

// genBlock generates a block, reclaiming its local slots at exit.  If the
// block is used as an expression, the value of its final expression statement
// is left on the appropriate stack.
func (g *Generator) genBlock(b *ast.Block) {
	if b.Type() != typing.KindUnit && len(b.Stmts) == 0 {
		report.RaiseICE(b.Span(), "block expression with no statements")
	}

	g.frame.pushScope()

	for i, stmt := range b.Stmts {
		if i == len(b.Stmts)-1 && b.Type() != typing.KindUnit {
			es, ok := stmt.(*ast.ExprStmt)
			if !ok {
				report.RaiseICE(b.Span(), "block expression does not end in an expression")
			}

			g.genExpr(es.Expr)
			break
		}

		g.genStmt(stmt)
	}

	g.frame.popScope()
}

// -----------------------------------------------------------------------------

// emit appends an instruction to the output stream.
func (g *Generator) emit(in Instr) {
	g.instrs = append(g.instrs, in)
}

// newLabel allocates a fresh branch label.
func (g *Generator) newLabel() string {
	g.labelCount++
	return fmt.Sprintf("L%d", g.labelCount)
}

// slotOf returns the storage slot of a resolved value symbol along with
// whether the symbol has global storage.  An unresolved symbol is a contract
// violation by the front end.
func (g *Generator) slotOf(sym *common.Symbol, span *report.TextSpan) (int, bool) {
	if sym == nil {
		report.RaiseICE(span, "reference to unresolved symbol")
	}

	if sym.Storage == common.StorageGlobal {
		slot, ok := g.globals[sym]
		if !ok {
			report.RaiseICE(span, "reference to undefined global `%s`", sym.Name)
		}

		return slot, true
	}

	slot, ok := g.frame.lookup(sym)
	if !ok {
		report.RaiseICE(span, "reference to undefined local `%s`", sym.Name)
	}

	return slot, false
}
