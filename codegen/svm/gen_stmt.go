package svm

import (
	"wallaby/ast"
	"wallaby/common"
	"wallaby/report"
	"wallaby/typing"
)

// genStmt generates a single statement.
func (g *Generator) genStmt(stmt ast.ASTNode) {
	switch v := stmt.(type) {
	case *ast.VarDecl:
		g.genVarDecl(v)
	case *ast.Assign:
		g.genExpr(v.Value)
		g.genStore(v.Sym, v.Span())
	case *ast.PrintStmt:
		g.genPrint(v)
	case *ast.ExprStmt:
		g.genExpr(v.Expr)
		g.genDiscard(v.Expr.Type())
	case *ast.ReturnStmt:
		if v.Value != nil {
			g.genExpr(v.Value)
		}

		g.emit(Instr{Op: Ret})
	case *ast.BreakStmt:
		g.emit(Instr{Op: Goto, Label: g.loops.Top(v.Span()).Break})
	case *ast.ContinueStmt:
		g.emit(Instr{Op: Goto, Label: g.loops.Top(v.Span()).Continue})
	case *ast.IfStmt:
		g.genIfStmt(v)
	case *ast.WhileLoop:
		g.genWhileLoop(v)
	case *ast.Block:
		g.genBlock(v)
	default:
		report.RaiseICE(stmt.Span(), "statement node cannot be generated")
	}
}

// genVarDecl generates a variable declaration: the initializer is evaluated
// and stored into a freshly assigned slot.
func (g *Generator) genVarDecl(vd *ast.VarDecl) {
	g.genExpr(vd.Initializer)

	if vd.Sym.Storage == common.StorageGlobal {
		slot := len(g.globals)
		g.globals[vd.Sym] = slot

		if vd.Sym.Type.IsIntegral() {
			g.emit(Instr{Op: IStoreGlobal, Int: int64(slot)})
		} else {
			g.emit(Instr{Op: FStoreGlobal, Int: int64(slot)})
		}
	} else {
		slot := g.frame.define(vd.Sym)

		if vd.Sym.Type.IsIntegral() {
			g.emit(Instr{Op: IStoreLocal, Int: int64(slot)})
		} else {
			g.emit(Instr{Op: FStoreLocal, Int: int64(slot)})
		}
	}
}

// genStore stores the top of the appropriate stack into a named location.
func (g *Generator) genStore(sym *common.Symbol, span *report.TextSpan) {
	slot, global := g.slotOf(sym, span)

	switch {
	case global && sym.Type.IsIntegral():
		g.emit(Instr{Op: IStoreGlobal, Int: int64(slot)})
	case global:
		g.emit(Instr{Op: FStoreGlobal, Int: int64(slot)})
	case sym.Type.IsIntegral():
		g.emit(Instr{Op: IStoreLocal, Int: int64(slot)})
	default:
		g.emit(Instr{Op: FStoreLocal, Int: int64(slot)})
	}
}

// genPrint generates a print statement using the print opcode matching the
// printed kind.
func (g *Generator) genPrint(ps *ast.PrintStmt) {
	g.genExpr(ps.Value)

	switch ps.Value.Type() {
	case typing.KindInt:
		g.emit(Instr{Op: IPrint})
	case typing.KindFloat:
		g.emit(Instr{Op: FPrint})
	case typing.KindBool:
		g.emit(Instr{Op: BPrint})
	case typing.KindChar:
		g.emit(Instr{Op: CPrint})
	default:
		report.RaiseICE(ps.Span(), "print of unprintable kind `%s`", ps.Value.Type())
	}
}

// genDiscard pops a value that an expression statement left behind.
func (g *Generator) genDiscard(kind typing.Kind) {
	switch {
	case kind == typing.KindUnit:
	case kind.IsIntegral():
		g.emit(Instr{Op: IPop})
	default:
		g.emit(Instr{Op: FPop})
	}
}

// genIfStmt generates a two-way branch.  The else label is omitted when the
// statement has no else branch.
func (g *Generator) genIfStmt(is *ast.IfStmt) {
	endLabel := g.newLabel()

	g.genExpr(is.Condition)

	if is.Else == nil {
		g.emit(Instr{Op: BranchZero, Label: endLabel})
		g.genBlock(is.Then)
	} else {
		elseLabel := g.newLabel()
		g.emit(Instr{Op: BranchZero, Label: elseLabel})
		g.genBlock(is.Then)
		g.emit(Instr{Op: Goto, Label: endLabel})
		g.emit(Instr{Op: Label, Label: elseLabel})
		g.genBlock(is.Else)
	}

	g.emit(Instr{Op: Label, Label: endLabel})
}

// genWhileLoop generates a test-at-top loop:
//
//	test:  <condition>
//	       BZ end
//	       <body>
//	       GOTO test
//	end:
//
// Continue jumps to the test label; break jumps to the end label.
func (g *Generator) genWhileLoop(wl *ast.WhileLoop) {
	testLabel := g.newLabel()
	endLabel := g.newLabel()

	g.emit(Instr{Op: Label, Label: testLabel})
	g.genExpr(wl.Condition)
	g.emit(Instr{Op: BranchZero, Label: endLabel})

	g.loops.Push(testLabel, endLabel)
	g.genBlock(wl.Body)
	g.loops.Pop()

	g.emit(Instr{Op: Goto, Label: testLabel})
	g.emit(Instr{Op: Label, Label: endLabel})
}
