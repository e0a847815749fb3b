package ssa

import (
	"wallaby/ast"
	"wallaby/report"
	"wallaby/typing"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// genExpr generates an expression into the current block and returns the
// value it yields, or nil for unit-kinded expressions.
func (g *Generator) genExpr(expr ast.ASTExpr) value.Value {
	switch v := expr.(type) {
	case *ast.IntLit:
		return constant.NewInt(types.I32, v.Value)
	case *ast.FloatLit:
		return constant.NewFloat(types.Double, v.Value)
	case *ast.BoolLit:
		return constant.NewBool(v.Value)
	case *ast.CharLit:
		return constant.NewInt(types.I8, int64(v.Value))
	case *ast.Identifier:
		slot := g.lookup(v.Sym, v.Span())
		return g.block.NewLoad(g.convType(v.Sym.Type), slot)
	case *ast.BinaryOp:
		return g.genBinaryOp(v)
	case *ast.LogicalOp:
		return g.genLogicalOp(v)
	case *ast.UnaryOp:
		return g.genUnaryOp(v)
	case *ast.Call:
		return g.genCall(v)
	case *ast.Cast:
		return g.genCast(v)
	case *ast.Block:
		return g.genBlockExpr(v)
	default:
		report.RaiseICE(expr.Span(), "expression node cannot be generated")
		return nil
	}
}

var intPreds = map[int]enum.IPred{
	ast.OpEq:   enum.IPredEQ,
	ast.OpNeq:  enum.IPredNE,
	ast.OpLt:   enum.IPredSLT,
	ast.OpLtEq: enum.IPredSLE,
	ast.OpGt:   enum.IPredSGT,
	ast.OpGtEq: enum.IPredSGE,
}

var floatPreds = map[int]enum.FPred{
	ast.OpEq:   enum.FPredOEQ,
	ast.OpNeq:  enum.FPredONE,
	ast.OpLt:   enum.FPredOLT,
	ast.OpLtEq: enum.FPredOLE,
	ast.OpGt:   enum.FPredOGT,
	ast.OpGtEq: enum.FPredOGE,
}

// genBinaryOp generates an arithmetic or relational operator application.
func (g *Generator) genBinaryOp(bo *ast.BinaryOp) value.Value {
	lhs := g.genExpr(bo.Lhs)
	rhs := g.genExpr(bo.Rhs)

	isInt := bo.Lhs.Type().IsIntegral()

	if ast.IsComparison(bo.Op) {
		if isInt {
			return g.block.NewICmp(intPreds[bo.Op], lhs, rhs)
		}

		return g.block.NewFCmp(floatPreds[bo.Op], lhs, rhs)
	}

	if isInt {
		switch bo.Op {
		case ast.OpAdd:
			return g.block.NewAdd(lhs, rhs)
		case ast.OpSub:
			return g.block.NewSub(lhs, rhs)
		case ast.OpMul:
			return g.block.NewMul(lhs, rhs)
		case ast.OpDiv:
			return g.block.NewSDiv(lhs, rhs)
		}
	} else {
		switch bo.Op {
		case ast.OpAdd:
			return g.block.NewFAdd(lhs, rhs)
		case ast.OpSub:
			return g.block.NewFSub(lhs, rhs)
		case ast.OpMul:
			return g.block.NewFMul(lhs, rhs)
		case ast.OpDiv:
			return g.block.NewFDiv(lhs, rhs)
		}
	}

	report.RaiseICE(bo.Span(), "unknown binary operator %d", bo.Op)
	return nil
}

// genLogicalOp generates a short-circuit logical operator as a conditional
// branch around the right operand with a phi merging the two results.
func (g *Generator) genLogicalOp(lo *ast.LogicalOp) value.Value {
	lhs := g.genExpr(lo.Lhs)
	lhsExit := g.block

	rhsBlock := g.appendBlock()
	endBlock := g.appendBlock()

	var short constant.Constant
	if lo.Op == ast.OpAnd {
		// a && b: if a is false the result is false without evaluating b.
		g.block.NewCondBr(lhs, rhsBlock, endBlock)
		short = constant.False
	} else {
		// a || b: if a is true the result is true without evaluating b.
		g.block.NewCondBr(lhs, endBlock, rhsBlock)
		short = constant.True
	}

	g.block = rhsBlock
	rhs := g.genExpr(lo.Rhs)
	rhsExit := g.block
	g.block.NewBr(endBlock)

	g.block = endBlock
	return g.block.NewPhi(
		ir.NewIncoming(short, lhsExit),
		ir.NewIncoming(rhs, rhsExit),
	)
}

// genUnaryOp generates a unary operator application.
func (g *Generator) genUnaryOp(uo *ast.UnaryOp) value.Value {
	operand := g.genExpr(uo.Operand)

	switch uo.Op {
	case ast.OpNeg:
		if uo.Operand.Type().IsIntegral() {
			return g.block.NewSub(constant.NewInt(types.I32, 0), operand)
		}

		return g.block.NewFNeg(operand)
	case ast.OpNot:
		return g.block.NewXor(operand, constant.True)
	case ast.OpPos:
		return operand
	default:
		report.RaiseICE(uo.Span(), "unknown unary operator %d", uo.Op)
		return nil
	}
}

// genCall generates a function call after verifying the call site against the
// callee's signature.
func (g *Generator) genCall(call *ast.Call) value.Value {
	if call.Func == nil || call.Func.Signature == nil {
		report.RaiseICE(call.Span(), "call to unresolved function")
	}

	callee, ok := g.funcs[call.Func]
	if !ok {
		report.RaiseICE(call.Span(), "call to undeclared function `%s`", call.Func.Name)
	}

	sig := call.Func.Signature
	if len(call.Args) != len(sig.ParamTypes) {
		report.RaiseICE(call.Span(), "call to `%s` with %d arguments; signature takes %d",
			call.Func.Name, len(call.Args), len(sig.ParamTypes))
	}

	args := make([]value.Value, len(call.Args))
	for i, arg := range call.Args {
		if arg.Type() != sig.ParamTypes[i] {
			report.RaiseICE(arg.Span(), "argument %d of call to `%s` has kind `%s`; signature requires `%s`",
				i+1, call.Func.Name, arg.Type(), sig.ParamTypes[i])
		}

		args[i] = g.genExpr(arg)
	}

	return g.block.NewCall(callee, args...)
}

// genCast generates a numeric conversion.
func (g *Generator) genCast(cast *ast.Cast) value.Value {
	src := g.genExpr(cast.Src)

	srcInt := cast.Src.Type().IsIntegral()
	dstInt := cast.Type().IsIntegral()

	switch {
	case srcInt && !dstInt:
		return g.block.NewSIToFP(src, types.Double)
	case !srcInt && dstInt:
		return g.block.NewFPToSI(src, g.convType(cast.Type()))
	default:
		return src
	}
}

// genBlockExpr generates a block used as an expression: every statement but
// the last executes for effect, and the last must be an expression statement
// whose value becomes the value of the block.
func (g *Generator) genBlockExpr(b *ast.Block) value.Value {
	if b.Type() == typing.KindUnit {
		g.genBlock(b)
		return nil
	}

	if len(b.Stmts) == 0 {
		report.RaiseICE(b.Span(), "block expression with no statements")
	}

	g.pushScope()
	defer g.popScope()

	for _, stmt := range b.Stmts[:len(b.Stmts)-1] {
		g.genStmt(stmt)
	}

	es, ok := b.Stmts[len(b.Stmts)-1].(*ast.ExprStmt)
	if !ok {
		report.RaiseICE(b.Span(), "block expression does not end in an expression")
	}

	return g.genExpr(es.Expr)
}
