package ssa

import (
	"wallaby/ast"
	"wallaby/common"
	"wallaby/report"
)

// genStmt generates a single statement into the current block.
func (g *Generator) genStmt(stmt ast.ASTNode) {
	switch v := stmt.(type) {
	case *ast.VarDecl:
		g.genVarDecl(v)
	case *ast.Assign:
		val := g.genExpr(v.Value)
		g.block.NewStore(val, g.lookup(v.Sym, v.Span()))
	case *ast.PrintStmt:
		val := g.genExpr(v.Value)
		printFn, ok := g.printFns[v.Value.Type()]
		if !ok {
			report.RaiseICE(v.Span(), "print of unprintable kind `%s`", v.Value.Type())
		}

		g.block.NewCall(printFn, val)
	case *ast.ExprStmt:
		// The value is computed for its side effects and dropped.
		g.genExpr(v.Expr)
	case *ast.ReturnStmt:
		if v.Value != nil {
			g.block.NewRet(g.genExpr(v.Value))
		} else {
			g.block.NewRet(nil)
		}

		// Anything generated after the return lands in a dead block which is
		// pruned when the function is finished.
		g.block = g.appendBlock()
	case *ast.BreakStmt:
		g.block.NewBr(g.loops.Top(v.Span()).Break)
		g.block = g.appendBlock()
	case *ast.ContinueStmt:
		g.block.NewBr(g.loops.Top(v.Span()).Continue)
		g.block = g.appendBlock()
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

// genVarDecl generates a variable declaration.  Globals become module level
// definitions initialized to zero and assigned their real initial value where
// the declaration executes; locals become stack slots.
func (g *Generator) genVarDecl(vd *ast.VarDecl) {
	init := g.genExpr(vd.Initializer)

	if vd.Sym.Storage == common.StorageGlobal {
		global := g.mod.NewGlobalDef(vd.Sym.Name, g.zeroValue(vd.Sym.Type))
		g.globals[vd.Sym] = global
		g.block.NewStore(init, global)
	} else {
		slot := g.block.NewAlloca(g.convType(vd.Sym.Type))
		g.defineLocal(vd.Sym, slot)
		g.block.NewStore(init, slot)
	}
}

// genBlock generates a statement block in its own lexical scope.
func (g *Generator) genBlock(b *ast.Block) {
	g.pushScope()
	g.genBlockInner(b)
	g.popScope()
}

// genBlockInner generates a block's statements without opening a scope.  It is
// split out for function bodies, whose scope must also hold the parameters.
func (g *Generator) genBlockInner(b *ast.Block) {
	for _, stmt := range b.Stmts {
		g.genStmt(stmt)
	}
}

// genIfStmt generates a conditional: one block per arm plus a shared merge
// block.  Arms which do not already end in a terminator branch to the merge.
func (g *Generator) genIfStmt(is *ast.IfStmt) {
	cond := g.genExpr(is.Condition)

	thenBlock := g.appendBlock()
	endBlock := g.appendBlock()

	elseBlock := endBlock
	if is.Else != nil {
		elseBlock = g.appendBlock()
	}

	g.block.NewCondBr(cond, thenBlock, elseBlock)

	g.block = thenBlock
	g.genBlock(is.Then)
	if g.block.Term == nil {
		g.block.NewBr(endBlock)
	}

	if is.Else != nil {
		g.block = elseBlock
		g.genBlock(is.Else)
		if g.block.Term == nil {
			g.block.NewBr(endBlock)
		}
	}

	g.block = endBlock
}

// genWhileLoop generates a loop as a test block, a body block and an exit
// block; the test block is a predecessor of both the body and the exit.
// Continue re-enters the test block; break branches to the exit block.
func (g *Generator) genWhileLoop(wl *ast.WhileLoop) {
	testBlock := g.appendBlock()
	bodyBlock := g.appendBlock()
	endBlock := g.appendBlock()

	g.block.NewBr(testBlock)

	g.block = testBlock
	cond := g.genExpr(wl.Condition)
	g.block.NewCondBr(cond, bodyBlock, endBlock)

	g.loops.Push(testBlock, endBlock)
	g.block = bodyBlock
	g.genBlock(wl.Body)
	if g.block.Term == nil {
		g.block.NewBr(testBlock)
	}
	g.loops.Pop()

	g.block = endBlock
}
