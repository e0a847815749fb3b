package samples

import (
	"wallaby/ast"
	"wallaby/common"
	"wallaby/report"
	"wallaby/typing"
)

// The helpers in this file build typed model fragments the way the front end
// would produce them: every node carries a span and a resolved kind, and every
// name reference points at its symbol.  Spans are synthesized from a line
// counter since sample models have no source text.

type modelBuilder struct {
	line int
}

// at returns a fresh single-line span, advancing the line counter so that
// diagnostics raised against a sample point at distinct locations.
func (mb *modelBuilder) at() *report.TextSpan {
	mb.line++
	return &report.TextSpan{StartLine: mb.line, EndLine: mb.line}
}

func (mb *modelBuilder) base() ast.ASTBase {
	return ast.NewASTBaseOn(mb.at())
}

func (mb *modelBuilder) expr(kind typing.Kind) ast.ExprBase {
	return ast.NewExprBase(mb.at(), kind)
}

// -----------------------------------------------------------------------------

func (mb *modelBuilder) global(name string, kind typing.Kind) *common.Symbol {
	return &common.Symbol{
		Name:    name,
		DefSpan: mb.at(),
		Type:    kind,
		DefKind: common.DefKindValue,
		Storage: common.StorageGlobal,
	}
}

func (mb *modelBuilder) local(name string, kind typing.Kind, depth int) *common.Symbol {
	return &common.Symbol{
		Name:       name,
		DefSpan:    mb.at(),
		Type:       kind,
		DefKind:    common.DefKindValue,
		Storage:    common.StorageLocal,
		ScopeDepth: depth,
	}
}

func (mb *modelBuilder) param(name string, kind typing.Kind) *common.Symbol {
	return &common.Symbol{
		Name:    name,
		DefSpan: mb.at(),
		Type:    kind,
		DefKind: common.DefKindValue,
		Storage: common.StorageParam,
	}
}

func (mb *modelBuilder) function(name string, params []typing.Kind, ret typing.Kind) *common.Symbol {
	return &common.Symbol{
		Name:    name,
		DefSpan: mb.at(),
		DefKind: common.DefKindFunc,
		Signature: &typing.FuncType{
			ParamTypes: params,
			ReturnType: ret,
		},
	}
}

// -----------------------------------------------------------------------------

func (mb *modelBuilder) intLit(v int64) *ast.IntLit {
	return &ast.IntLit{ExprBase: mb.expr(typing.KindInt), Value: v}
}

func (mb *modelBuilder) floatLit(v float64) *ast.FloatLit {
	return &ast.FloatLit{ExprBase: mb.expr(typing.KindFloat), Value: v}
}

func (mb *modelBuilder) boolLit(v bool) *ast.BoolLit {
	return &ast.BoolLit{ExprBase: mb.expr(typing.KindBool), Value: v}
}

func (mb *modelBuilder) charLit(v rune) *ast.CharLit {
	return &ast.CharLit{ExprBase: mb.expr(typing.KindChar), Value: v}
}

func (mb *modelBuilder) ref(sym *common.Symbol) *ast.Identifier {
	return &ast.Identifier{ExprBase: mb.expr(sym.Type), Sym: sym}
}

func (mb *modelBuilder) arith(op int, lhs, rhs ast.ASTExpr) *ast.BinaryOp {
	return &ast.BinaryOp{ExprBase: mb.expr(lhs.Type()), Op: op, Lhs: lhs, Rhs: rhs}
}

func (mb *modelBuilder) compare(op int, lhs, rhs ast.ASTExpr) *ast.BinaryOp {
	return &ast.BinaryOp{ExprBase: mb.expr(typing.KindBool), Op: op, Lhs: lhs, Rhs: rhs}
}

func (mb *modelBuilder) logical(op int, lhs, rhs ast.ASTExpr) *ast.LogicalOp {
	return &ast.LogicalOp{ExprBase: mb.expr(typing.KindBool), Op: op, Lhs: lhs, Rhs: rhs}
}

func (mb *modelBuilder) neg(operand ast.ASTExpr) *ast.UnaryOp {
	return &ast.UnaryOp{ExprBase: mb.expr(operand.Type()), Op: ast.OpNeg, Operand: operand}
}

func (mb *modelBuilder) not(operand ast.ASTExpr) *ast.UnaryOp {
	return &ast.UnaryOp{ExprBase: mb.expr(typing.KindBool), Op: ast.OpNot, Operand: operand}
}

func (mb *modelBuilder) call(fn *common.Symbol, args ...ast.ASTExpr) *ast.Call {
	return &ast.Call{ExprBase: mb.expr(fn.Signature.ReturnType), Func: fn, Args: args}
}

func (mb *modelBuilder) cast(dest typing.Kind, src ast.ASTExpr) *ast.Cast {
	return &ast.Cast{ExprBase: mb.expr(dest), Src: src}
}

func (mb *modelBuilder) block(stmts ...ast.ASTNode) *ast.Block {
	return ast.NewBlock(mb.base(), stmts)
}

func (mb *modelBuilder) blockExpr(kind typing.Kind, stmts ...ast.ASTNode) *ast.Block {
	return ast.NewBlockExpr(mb.base(), stmts, kind)
}

// -----------------------------------------------------------------------------

func (mb *modelBuilder) decl(sym *common.Symbol, init ast.ASTExpr) *ast.VarDecl {
	return &ast.VarDecl{ASTBase: mb.base(), Sym: sym, Initializer: init}
}

func (mb *modelBuilder) assign(sym *common.Symbol, value ast.ASTExpr) *ast.Assign {
	return &ast.Assign{ASTBase: mb.base(), Sym: sym, Value: value}
}

func (mb *modelBuilder) print(value ast.ASTExpr) *ast.PrintStmt {
	return &ast.PrintStmt{ASTBase: mb.base(), Value: value}
}

func (mb *modelBuilder) exprStmt(expr ast.ASTExpr) *ast.ExprStmt {
	return &ast.ExprStmt{ASTBase: mb.base(), Expr: expr}
}

func (mb *modelBuilder) ret(value ast.ASTExpr) *ast.ReturnStmt {
	return &ast.ReturnStmt{ASTBase: mb.base(), Value: value}
}

func (mb *modelBuilder) brk() *ast.BreakStmt {
	return &ast.BreakStmt{ASTBase: mb.base()}
}

func (mb *modelBuilder) cont() *ast.ContinueStmt {
	return &ast.ContinueStmt{ASTBase: mb.base()}
}

func (mb *modelBuilder) ifElse(cond ast.ASTExpr, then, els *ast.Block) *ast.IfStmt {
	return &ast.IfStmt{ASTBase: mb.base(), Condition: cond, Then: then, Else: els}
}

func (mb *modelBuilder) while(cond ast.ASTExpr, body *ast.Block) *ast.WhileLoop {
	return &ast.WhileLoop{ASTBase: mb.base(), Condition: cond, Body: body}
}

func (mb *modelBuilder) funcDef(sym *common.Symbol, params []*common.Symbol, body *ast.Block) *ast.FuncDef {
	return &ast.FuncDef{ASTBase: mb.base(), Sym: sym, Params: params, Body: body}
}

func (mb *modelBuilder) program(stmts ...ast.ASTNode) *ast.Program {
	return &ast.Program{ASTBase: mb.base(), Stmts: stmts}
}
