package svm

import (
	"wallaby/ast"
	"wallaby/report"
)

// genExpr generates an expression, leaving its value on the integer or float
// stack according to the expression's kind.
func (g *Generator) genExpr(expr ast.ASTExpr) {
	switch v := expr.(type) {
	case *ast.IntLit:
		g.emit(Instr{Op: IPush, Int: v.Value})
	case *ast.FloatLit:
		g.emit(Instr{Op: FPush, Float: v.Value})
	case *ast.BoolLit:
		if v.Value {
			g.emit(Instr{Op: IPush, Int: 1})
		} else {
			g.emit(Instr{Op: IPush, Int: 0})
		}
	case *ast.CharLit:
		g.emit(Instr{Op: IPush, Int: int64(v.Value)})
	case *ast.Identifier:
		g.genLoad(v)
	case *ast.BinaryOp:
		g.genBinaryOp(v)
	case *ast.LogicalOp:
		g.genLogicalOp(v)
	case *ast.UnaryOp:
		g.genUnaryOp(v)
	case *ast.Call:
		g.genCall(v)
	case *ast.Cast:
		g.genCast(v)
	case *ast.Block:
		g.genBlock(v)
	default:
		report.RaiseICE(expr.Span(), "expression node cannot be generated")
	}
}

// genLoad loads a named value onto the appropriate stack.
func (g *Generator) genLoad(id *ast.Identifier) {
	slot, global := g.slotOf(id.Sym, id.Span())

	switch {
	case global && id.Sym.Type.IsIntegral():
		g.emit(Instr{Op: ILoadGlobal, Int: int64(slot)})
	case global:
		g.emit(Instr{Op: FLoadGlobal, Int: int64(slot)})
	case id.Sym.Type.IsIntegral():
		g.emit(Instr{Op: ILoadLocal, Int: int64(slot)})
	default:
		g.emit(Instr{Op: FLoadLocal, Int: int64(slot)})
	}
}

// genBinaryOp generates an arithmetic or relational operator application.
// Both operand kinds match; comparisons leave their boolean result on the
// integer stack.
func (g *Generator) genBinaryOp(bo *ast.BinaryOp) {
	g.genExpr(bo.Lhs)
	g.genExpr(bo.Rhs)

	isInt := bo.Lhs.Type().IsIntegral()

	if ast.IsComparison(bo.Op) {
		if isInt {
			g.emit(Instr{Op: ICmp, Cmp: bo.Op})
		} else {
			g.emit(Instr{Op: FCmp, Cmp: bo.Op})
		}

		return
	}

	var op Opcode
	switch bo.Op {
	case ast.OpAdd:
		op = IAdd
	case ast.OpSub:
		op = ISub
	case ast.OpMul:
		op = IMul
	case ast.OpDiv:
		op = IDiv
	default:
		report.RaiseICE(bo.Span(), "unknown binary operator %d", bo.Op)
	}

	if !isInt {
		// The float opcodes are laid out in the same order as the integer
		// ones starting at FAdd.
		op = FAdd + (op - IAdd)
	}

	g.emit(Instr{Op: op})
}

// genLogicalOp generates a short-circuit logical operator.  The right operand
// is only evaluated when the left operand does not already decide the result;
// in that case the result is the right operand's value.
func (g *Generator) genLogicalOp(lo *ast.LogicalOp) {
	endLabel := g.newLabel()

	switch lo.Op {
	case ast.OpAnd:
		shortLabel := g.newLabel()

		g.genExpr(lo.Lhs)
		g.emit(Instr{Op: BranchZero, Label: shortLabel})
		g.genExpr(lo.Rhs)
		g.emit(Instr{Op: Goto, Label: endLabel})
		g.emit(Instr{Op: Label, Label: shortLabel})
		g.emit(Instr{Op: IPush, Int: 0})
	case ast.OpOr:
		rhsLabel := g.newLabel()

		g.genExpr(lo.Lhs)
		g.emit(Instr{Op: BranchZero, Label: rhsLabel})
		g.emit(Instr{Op: IPush, Int: 1})
		g.emit(Instr{Op: Goto, Label: endLabel})
		g.emit(Instr{Op: Label, Label: rhsLabel})
		g.genExpr(lo.Rhs)
	default:
		report.RaiseICE(lo.Span(), "unknown logical operator %d", lo.Op)
	}

	g.emit(Instr{Op: Label, Label: endLabel})
}

// genUnaryOp generates a unary operator application.
func (g *Generator) genUnaryOp(uo *ast.UnaryOp) {
	switch uo.Op {
	case ast.OpNeg:
		// Negation is subtraction from zero, keeping the opcode set minimal.
		if uo.Operand.Type().IsIntegral() {
			g.emit(Instr{Op: IPush, Int: 0})
			g.genExpr(uo.Operand)
			g.emit(Instr{Op: ISub})
		} else {
			g.emit(Instr{Op: FPush, Float: 0})
			g.genExpr(uo.Operand)
			g.emit(Instr{Op: FSub})
		}
	case ast.OpNot:
		g.genExpr(uo.Operand)
		g.emit(Instr{Op: IPush, Int: 1})
		g.emit(Instr{Op: BitXor})
	case ast.OpPos:
		g.genExpr(uo.Operand)
	default:
		report.RaiseICE(uo.Span(), "unknown unary operator %d", uo.Op)
	}
}

// genCall generates a function call.  Arguments are pushed left to right; the
// callee copies them into its parameter slots and leaves its return value on
// the appropriate stack.
func (g *Generator) genCall(call *ast.Call) {
	if call.Func == nil || call.Func.Signature == nil {
		report.RaiseICE(call.Span(), "call to unresolved function")
	}

	sig := call.Func.Signature
	if len(call.Args) != len(sig.ParamTypes) {
		report.RaiseICE(call.Span(), "call to `%s` with %d arguments; signature takes %d",
			call.Func.Name, len(call.Args), len(sig.ParamTypes))
	}

	for i, arg := range call.Args {
		if arg.Type() != sig.ParamTypes[i] {
			report.RaiseICE(arg.Span(), "argument %d of call to `%s` has kind `%s`; signature requires `%s`",
				i+1, call.Func.Name, arg.Type(), sig.ParamTypes[i])
		}

		g.genExpr(arg)
	}

	g.emit(Instr{Op: Call, Label: call.Func.Name})
}

// genCast generates a numeric conversion.
func (g *Generator) genCast(cast *ast.Cast) {
	g.genExpr(cast.Src)

	srcInt := cast.Src.Type().IsIntegral()
	dstInt := cast.Type().IsIntegral()

	switch {
	case srcInt && !dstInt:
		g.emit(Instr{Op: IToF})
	case !srcInt && dstInt:
		g.emit(Instr{Op: FToI})
	}
}
