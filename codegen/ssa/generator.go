// Package ssa compiles a typed Wallaby model into an LLVM IR module.  Mutable
// variables are lowered to stack slots with explicit loads and stores; no phi
// construction is attempted except where short-circuit operators require a
// merge value.
package ssa

import (
	"fmt"

	"wallaby/ast"
	"wallaby/codegen"
	"wallaby/common"
	"wallaby/report"
	"wallaby/typing"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// Generator is responsible for converting a typed model into an LLVM module.
type Generator struct {
	// mod is the LLVM module being generated.
	mod *ir.Module

	// fn is the function enclosing the block being compiled.
	fn *ir.Func

	// block stores the current block being generated.
	block *ir.Block

	// retKind is the return kind of the function being compiled.
	retKind typing.Kind

	// printFns holds the declared print runtime functions by argument kind.
	printFns map[typing.Kind]*ir.Func

	// funcs maps function symbols to their declared LLVM functions.
	funcs map[*common.Symbol]*ir.Func

	// globals maps global symbols to their LLVM global definitions.
	globals map[*common.Symbol]*ir.Global

	// localScopes is the stack of local scopes mapping symbols to their
	// stack slots.
	localScopes []map[*common.Symbol]value.Value

	// loops tracks the test and exit blocks of the enclosing loops.
	loops codegen.LoopStack[*ir.Block]
}

// Compile lowers a typed model to an LLVM module.  Top level statements become
// the body of `void @main()`; the print runtime is declared as the external
// functions `_printi`, `_printf`, `_printb` and `_printc`.
func Compile(prog *ast.Program) (mod *ir.Module, err error) {
	defer report.CatchErrors(&err)

	g := &Generator{
		mod:      ir.NewModule(),
		printFns: make(map[typing.Kind]*ir.Func),
		funcs:    make(map[*common.Symbol]*ir.Func),
		globals:  make(map[*common.Symbol]*ir.Global),
	}

	g.declarePrintRuntime()

	// Declare every function up front so that calls, including recursive and
	// forward ones, always have a callee to reference.
	var funcs []*ast.FuncDef
	for _, item := range prog.Stmts {
		if fd, ok := item.(*ast.FuncDef); ok {
			g.declareFunc(fd)
			funcs = append(funcs, fd)
		}
	}

	// Top level code becomes the body of main.
	mainFn := g.mod.NewFunc("main", types.Void)
	g.fn = mainFn
	g.retKind = typing.KindUnit
	g.block = mainFn.NewBlock("entry")
	g.pushScope()

	for _, item := range prog.Stmts {
		if _, ok := item.(*ast.FuncDef); ok {
			continue
		}

		g.genStmt(item)
	}

	g.popScope()
	g.finishFunc()

	for _, fd := range funcs {
		g.genFuncBody(fd)
	}

	return g.mod, nil
}

// declarePrintRuntime declares the four external entry points of the native
// print runtime, one per printable kind.
func (g *Generator) declarePrintRuntime() {
	decls := []struct {
		name string
		kind typing.Kind
	}{
		{"_printi", typing.KindInt},
		{"_printf", typing.KindFloat},
		{"_printb", typing.KindBool},
		{"_printc", typing.KindChar},
	}

	for _, d := range decls {
		g.printFns[d.kind] = g.mod.NewFunc(d.name, types.Void,
			ir.NewParam("value", g.convType(d.kind)))
	}
}

// declareFunc declares an LLVM function matching a function definition's
// signature without generating its body.
func (g *Generator) declareFunc(fd *ast.FuncDef) {
	if fd.Sym == nil || fd.Sym.Signature == nil {
		report.RaiseICE(fd.Span(), "function definition with unresolved symbol")
	}

	params := make([]*ir.Param, len(fd.Params))
	for i, p := range fd.Params {
		params[i] = ir.NewParam(p.Name, g.convType(p.Type))
	}

	g.funcs[fd.Sym] = g.mod.NewFunc(fd.Sym.Name, g.convType(fd.Sym.Signature.ReturnType), params...)
}

// genFuncBody generates the body of a previously declared function.
// Parameters are spilled to stack slots in the entry block so that they obey
// the same load/store discipline as every other mutable variable.
func (g *Generator) genFuncBody(fd *ast.FuncDef) {
	fn := g.funcs[fd.Sym]
	g.fn = fn
	g.retKind = fd.Sym.Signature.ReturnType
	g.block = fn.NewBlock("entry")

	g.pushScope()

	for i, p := range fd.Params {
		slot := g.block.NewAlloca(g.convType(p.Type))
		g.block.NewStore(fn.Params[i], slot)
		g.defineLocal(p, slot)
	}

	g.genBlockInner(fd.Body)

	g.popScope()
	g.finishFunc()
}

// finishFunc terminates the current block if control can fall off the end of
// a void function, prunes unreachable blocks, and verifies the one-terminator
// invariant for everything that remains.
func (g *Generator) finishFunc() {
	if g.block.Term == nil && g.retKind == typing.KindUnit {
		g.block.NewRet(nil)
	}

	g.pruneUnreachable()

	for _, b := range g.fn.Blocks {
		if b.Term == nil {
			report.RaiseICE(nil, "unterminated basic block `%s` in function `%s`",
				b.LocalIdent.Name(), g.fn.Name())
		}
	}
}

// pruneUnreachable removes every block not reachable from the entry block.
// Dead blocks appear when statements follow a return, break or continue.
func (g *Generator) pruneUnreachable() {
	if len(g.fn.Blocks) == 0 {
		return
	}

	reachable := make(map[*ir.Block]bool)
	stack := []*ir.Block{g.fn.Blocks[0]}

	for len(stack) > 0 {
		b := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if reachable[b] {
			continue
		}

		reachable[b] = true
		stack = append(stack, successors(b)...)
	}

	var kept []*ir.Block
	for _, b := range g.fn.Blocks {
		if reachable[b] {
			kept = append(kept, b)
		}
	}

	g.fn.Blocks = kept
}

// successors returns the successor blocks of a block's terminator.
func successors(b *ir.Block) []*ir.Block {
	switch t := b.Term.(type) {
	case *ir.TermBr:
		return []*ir.Block{t.Target.(*ir.Block)}
	case *ir.TermCondBr:
		return []*ir.Block{t.TargetTrue.(*ir.Block), t.TargetFalse.(*ir.Block)}
	default:
		return nil
	}
}

// -----------------------------------------------------------------------------

// convType converts a Wallaby kind to its LLVM type.
func (g *Generator) convType(kind typing.Kind) types.Type {
	switch kind {
	case typing.KindInt:
		return types.I32
	case typing.KindFloat:
		return types.Double
	case typing.KindBool:
		return types.I1
	case typing.KindChar:
		return types.I8
	default:
		return types.Void
	}
}

// zeroValue returns the zero constant of a Wallaby kind.
func (g *Generator) zeroValue(kind typing.Kind) constant.Constant {
	if kind == typing.KindFloat {
		return constant.NewFloat(types.Double, 0)
	}

	return constant.NewInt(g.convType(kind).(*types.IntType), 0)
}

// appendBlock adds a new basic block to the current function.  It does *not*
// set the current block to this new block.
func (g *Generator) appendBlock() *ir.Block {
	return g.fn.NewBlock(fmt.Sprintf("bb%d", len(g.fn.Blocks)))
}

// pushScope pushes a new local scope onto the scope stack.
func (g *Generator) pushScope() {
	g.localScopes = append(g.localScopes, make(map[*common.Symbol]value.Value))
}

// popScope pops a local scope off of the scope stack.
func (g *Generator) popScope() {
	g.localScopes = g.localScopes[:len(g.localScopes)-1]
}

// defineLocal binds a symbol to its stack slot in the current scope.
func (g *Generator) defineLocal(sym *common.Symbol, slot value.Value) {
	g.localScopes[len(g.localScopes)-1][sym] = slot
}

// lookup returns the storage pointer of a resolved value symbol.
func (g *Generator) lookup(sym *common.Symbol, span *report.TextSpan) value.Value {
	if sym == nil {
		report.RaiseICE(span, "reference to unresolved symbol")
	}

	for i := len(g.localScopes) - 1; i >= 0; i-- {
		if slot, ok := g.localScopes[i][sym]; ok {
			return slot
		}
	}

	if global, ok := g.globals[sym]; ok {
		return global
	}

	report.RaiseICE(span, "reference to undefined variable `%s`", sym.Name)
	return nil
}
