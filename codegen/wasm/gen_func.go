package wasm

import (
	"encoding/binary"
	"math"

	"wallaby/ast"
	"wallaby/codegen"
	"wallaby/common"
	"wallaby/report"
	"wallaby/typing"
)

// scopedLocal records a local slot owned by a lexical scope so that its index
// can be reclaimed when the scope exits.
type scopedLocal struct {
	sym   *common.Symbol
	idx   int
	vtype byte
}

// funcCompiler compiles one function body into a code section entry.
type funcCompiler struct {
	g *Generator

	body []byte

	// paramCount is the number of parameters; they occupy local indices
	// [0, paramCount).
	paramCount int

	// localTypes holds the value types of the declared (non-parameter)
	// locals in index order.
	localTypes []byte

	// free holds reclaimed local indices by value type.
	free map[byte][]int

	// locals maps symbols to their current local indices.
	locals map[*common.Symbol]int

	// scopes tracks which locals each open scope owns.
	scopes [][]scopedLocal

	// blockDepth counts the structured blocks currently open; branch label
	// indices are computed relative to it.
	blockDepth int

	// loops holds the absolute block depths of the enclosing loops' continue
	// and break targets.
	loops codegen.LoopStack[int]

	// retLocal carries the function's return value to the end of the body
	// when hasRetLocal is set.
	retLocal    int
	hasRetLocal bool
}

func newFuncCompiler(g *Generator, paramCount int) *funcCompiler {
	return &funcCompiler{
		g:          g,
		paramCount: paramCount,
		free:       make(map[byte][]int),
		locals:     make(map[*common.Symbol]int),
	}
}

// finish assembles the complete code entry: the locals vector, the body, and
// the terminating `end`.
func (fc *funcCompiler) finish() []byte {
	out := compactLocals(fc.localTypes)
	out = append(out, fc.body...)
	return append(out, opEnd)
}

// -----------------------------------------------------------------------------

// genStmt compiles a single statement.
func (fc *funcCompiler) genStmt(stmt ast.ASTNode) {
	switch v := stmt.(type) {
	case *ast.VarDecl:
		fc.genVarDecl(v)
	case *ast.Assign:
		fc.genExpr(v.Value)
		fc.genStore(v.Sym, v.Span())
	case *ast.PrintStmt:
		fc.genExpr(v.Value)

		idx, ok := fc.g.printIdx[v.Value.Type()]
		if !ok {
			report.RaiseICE(v.Span(), "print of unprintable kind `%s`", v.Value.Type())
		}

		fc.emit(opCall)
		fc.uleb(idx)
	case *ast.ExprStmt:
		fc.genExpr(v.Expr)

		if v.Expr.Type() != typing.KindUnit {
			fc.emit(opDrop)
		}
	case *ast.ReturnStmt:
		if v.Value != nil {
			fc.genExpr(v.Value)
			fc.emit(opLocalSet)
			fc.uleb(fc.retLocal)
		}

		// Branch to the end of the body's outermost block.
		fc.emit(opBr)
		fc.uleb(fc.blockDepth - 1)
	case *ast.BreakStmt:
		fc.emit(opBr)
		fc.uleb(fc.blockDepth - fc.loops.Top(v.Span()).Break)
	case *ast.ContinueStmt:
		fc.emit(opBr)
		fc.uleb(fc.blockDepth - fc.loops.Top(v.Span()).Continue)
	case *ast.IfStmt:
		fc.genIfStmt(v)
	case *ast.WhileLoop:
		fc.genWhileLoop(v)
	case *ast.Block:
		fc.genBlock(v)
	default:
		report.RaiseICE(stmt.Span(), "statement node cannot be generated")
	}
}

// genVarDecl compiles a variable declaration.  Global slots were assigned
// before body compilation began; local slots come from the function's local
// allocator.
func (fc *funcCompiler) genVarDecl(vd *ast.VarDecl) {
	fc.genExpr(vd.Initializer)

	if vd.Sym.Storage == common.StorageGlobal {
		idx, ok := fc.g.globalIdx[vd.Sym]
		if !ok {
			report.RaiseICE(vd.Span(), "global `%s` has no assigned slot", vd.Sym.Name)
		}

		fc.emit(opGlobalSet)
		fc.uleb(idx)
	} else {
		idx := fc.defineLocal(vd.Sym, fc.g.valType(vd.Sym.Type, vd.Span()))
		fc.emit(opLocalSet)
		fc.uleb(idx)
	}
}

// genStore compiles a store of the value on top of the stack into a variable.
func (fc *funcCompiler) genStore(sym *common.Symbol, span *report.TextSpan) {
	if sym == nil {
		report.RaiseICE(span, "assignment to unresolved symbol")
	}

	if idx, ok := fc.locals[sym]; ok {
		fc.emit(opLocalSet)
		fc.uleb(idx)
		return
	}

	if idx, ok := fc.g.globalIdx[sym]; ok {
		fc.emit(opGlobalSet)
		fc.uleb(idx)
		return
	}

	report.RaiseICE(span, "assignment to undefined variable `%s`", sym.Name)
}

// genBlock compiles a statement block in its own lexical scope.
func (fc *funcCompiler) genBlock(b *ast.Block) {
	fc.pushScope()
	fc.genBlockInner(b)
	fc.popScope()
}

// genBlockInner compiles a block's statements without opening a scope.  It is
// split out for function bodies, whose scope must also hold the parameters.
func (fc *funcCompiler) genBlockInner(b *ast.Block) {
	for _, stmt := range b.Stmts {
		fc.genStmt(stmt)
	}
}

// genIfStmt compiles a conditional directly onto the structured `if`
// instruction.
func (fc *funcCompiler) genIfStmt(is *ast.IfStmt) {
	fc.genExpr(is.Condition)

	fc.emit(opIf, blockVoid)
	fc.blockDepth++

	fc.genBlock(is.Then)

	if is.Else != nil {
		fc.emit(opElse)
		fc.genBlock(is.Else)
	}

	fc.emit(opEnd)
	fc.blockDepth--
}

// genWhileLoop compiles a loop as a breakable block wrapping a loop block:
// the condition is tested at the top of each iteration and its failure
// branches out of the wrapper.  Break targets the wrapper; continue targets
// the loop header.
func (fc *funcCompiler) genWhileLoop(wl *ast.WhileLoop) {
	fc.emit(opBlock, blockVoid)
	fc.blockDepth++
	breakDepth := fc.blockDepth

	fc.emit(opLoop, blockVoid)
	fc.blockDepth++
	contDepth := fc.blockDepth

	fc.genExpr(wl.Condition)
	fc.emit(opI32Eqz, opBrIf)
	fc.uleb(fc.blockDepth - breakDepth)

	fc.loops.Push(contDepth, breakDepth)
	fc.genBlock(wl.Body)
	fc.loops.Pop()

	fc.emit(opBr)
	fc.uleb(fc.blockDepth - contDepth)

	fc.emit(opEnd)
	fc.blockDepth--
	fc.emit(opEnd)
	fc.blockDepth--
}

// -----------------------------------------------------------------------------

// genExpr compiles an expression, leaving its value on the operand stack.
func (fc *funcCompiler) genExpr(expr ast.ASTExpr) {
	switch v := expr.(type) {
	case *ast.IntLit:
		if v.Value < math.MinInt32 || v.Value > math.MaxInt32 {
			report.RaiseEncodeError(v.Span(), "integer literal %d exceeds the 32-bit range", v.Value)
		}

		fc.emit(opI32Const)
		fc.sleb(v.Value)
	case *ast.FloatLit:
		var bits [8]byte
		binary.LittleEndian.PutUint64(bits[:], math.Float64bits(v.Value))

		fc.emit(opF64Const)
		fc.emit(bits[:]...)
	case *ast.BoolLit:
		fc.emit(opI32Const)
		if v.Value {
			fc.sleb(1)
		} else {
			fc.sleb(0)
		}
	case *ast.CharLit:
		fc.emit(opI32Const)
		fc.sleb(int64(v.Value))
	case *ast.Identifier:
		fc.genLoad(v.Sym, v.Span())
	case *ast.BinaryOp:
		fc.genBinaryOp(v)
	case *ast.LogicalOp:
		fc.genLogicalOp(v)
	case *ast.UnaryOp:
		fc.genUnaryOp(v)
	case *ast.Call:
		fc.genCall(v)
	case *ast.Cast:
		fc.genCast(v)
	case *ast.Block:
		fc.genBlockExpr(v)
	default:
		report.RaiseICE(expr.Span(), "expression node cannot be generated")
	}
}

// genLoad compiles a load of a variable onto the operand stack.
func (fc *funcCompiler) genLoad(sym *common.Symbol, span *report.TextSpan) {
	if sym == nil {
		report.RaiseICE(span, "reference to unresolved symbol")
	}

	if idx, ok := fc.locals[sym]; ok {
		fc.emit(opLocalGet)
		fc.uleb(idx)
		return
	}

	if idx, ok := fc.g.globalIdx[sym]; ok {
		fc.emit(opGlobalGet)
		fc.uleb(idx)
		return
	}

	report.RaiseICE(span, "reference to undefined variable `%s`", sym.Name)
}

var intCmpOps = map[int]byte{
	ast.OpEq:   opI32Eq,
	ast.OpNeq:  opI32Ne,
	ast.OpLt:   opI32LtS,
	ast.OpLtEq: opI32LeS,
	ast.OpGt:   opI32GtS,
	ast.OpGtEq: opI32GeS,
}

var floatCmpOps = map[int]byte{
	ast.OpEq:   opF64Eq,
	ast.OpNeq:  opF64Ne,
	ast.OpLt:   opF64Lt,
	ast.OpLtEq: opF64Le,
	ast.OpGt:   opF64Gt,
	ast.OpGtEq: opF64Ge,
}

var intArithOps = map[int]byte{
	ast.OpAdd: opI32Add,
	ast.OpSub: opI32Sub,
	ast.OpMul: opI32Mul,
	ast.OpDiv: opI32DivS,
}

var floatArithOps = map[int]byte{
	ast.OpAdd: opF64Add,
	ast.OpSub: opF64Sub,
	ast.OpMul: opF64Mul,
	ast.OpDiv: opF64Div,
}

// genBinaryOp compiles an arithmetic or relational operator application.
func (fc *funcCompiler) genBinaryOp(bo *ast.BinaryOp) {
	fc.genExpr(bo.Lhs)
	fc.genExpr(bo.Rhs)

	isInt := bo.Lhs.Type().IsIntegral()

	var op byte
	var ok bool
	switch {
	case ast.IsComparison(bo.Op) && isInt:
		op, ok = intCmpOps[bo.Op]
	case ast.IsComparison(bo.Op):
		op, ok = floatCmpOps[bo.Op]
	case isInt:
		op, ok = intArithOps[bo.Op]
	default:
		op, ok = floatArithOps[bo.Op]
	}

	if !ok {
		report.RaiseICE(bo.Span(), "unknown binary operator %d", bo.Op)
	}

	fc.emit(op)
}

// genLogicalOp compiles a short-circuit logical operator as an `if`
// instruction yielding an i32, so the right operand only executes when the
// left operand has not already decided the result.
func (fc *funcCompiler) genLogicalOp(lo *ast.LogicalOp) {
	fc.genExpr(lo.Lhs)

	fc.emit(opIf, ValI32)
	fc.blockDepth++

	if lo.Op == ast.OpAnd {
		fc.genExpr(lo.Rhs)
		fc.emit(opElse)
		fc.emit(opI32Const)
		fc.sleb(0)
	} else {
		fc.emit(opI32Const)
		fc.sleb(1)
		fc.emit(opElse)
		fc.genExpr(lo.Rhs)
	}

	fc.emit(opEnd)
	fc.blockDepth--
}

// genUnaryOp compiles a unary operator application.
func (fc *funcCompiler) genUnaryOp(uo *ast.UnaryOp) {
	switch uo.Op {
	case ast.OpNeg:
		if uo.Operand.Type().IsIntegral() {
			fc.emit(opI32Const)
			fc.sleb(0)
			fc.genExpr(uo.Operand)
			fc.emit(opI32Sub)
		} else {
			fc.genExpr(uo.Operand)
			fc.emit(opF64Neg)
		}
	case ast.OpNot:
		fc.genExpr(uo.Operand)
		fc.emit(opI32Eqz)
	case ast.OpPos:
		fc.genExpr(uo.Operand)
	default:
		report.RaiseICE(uo.Span(), "unknown unary operator %d", uo.Op)
	}
}

// genCall compiles a function call after verifying the call site against the
// callee's signature.
func (fc *funcCompiler) genCall(call *ast.Call) {
	if call.Func == nil || call.Func.Signature == nil {
		report.RaiseICE(call.Span(), "call to unresolved function")
	}

	idx, ok := fc.g.funcIdx[call.Func]
	if !ok {
		report.RaiseICE(call.Span(), "call to undeclared function `%s`", call.Func.Name)
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

		fc.genExpr(arg)
	}

	fc.emit(opCall)
	fc.uleb(idx)
}

// genCast compiles a numeric conversion.
func (fc *funcCompiler) genCast(cast *ast.Cast) {
	fc.genExpr(cast.Src)

	srcInt := cast.Src.Type().IsIntegral()
	dstInt := cast.Type().IsIntegral()

	switch {
	case srcInt && !dstInt:
		fc.emit(opF64ConvertI32S)
	case !srcInt && dstInt:
		fc.emit(opI32TruncF64S)
	}
}

// genBlockExpr compiles a block used as an expression: every statement but
// the last executes for effect, and the last must be an expression statement
// whose value stays on the operand stack.
func (fc *funcCompiler) genBlockExpr(b *ast.Block) {
	if b.Type() == typing.KindUnit {
		fc.genBlock(b)
		return
	}

	if len(b.Stmts) == 0 {
		report.RaiseICE(b.Span(), "block expression with no statements")
	}

	fc.pushScope()
	defer fc.popScope()

	for _, stmt := range b.Stmts[:len(b.Stmts)-1] {
		fc.genStmt(stmt)
	}

	es, ok := b.Stmts[len(b.Stmts)-1].(*ast.ExprStmt)
	if !ok {
		report.RaiseICE(b.Span(), "block expression does not end in an expression")
	}

	fc.genExpr(es.Expr)
}

// -----------------------------------------------------------------------------

func (fc *funcCompiler) emit(bs ...byte) {
	fc.body = append(fc.body, bs...)
}

func (fc *funcCompiler) uleb(v int) {
	fc.body = AppendUleb128(fc.body, uint64(v))
}

func (fc *funcCompiler) sleb(v int64) {
	fc.body = AppendSleb128(fc.body, v)
}

// pushScope opens a lexical scope.
func (fc *funcCompiler) pushScope() {
	fc.scopes = append(fc.scopes, nil)
}

// popScope closes the innermost scope and reclaims its local slots so that
// sibling blocks can reuse them.
func (fc *funcCompiler) popScope() {
	owned := fc.scopes[len(fc.scopes)-1]
	fc.scopes = fc.scopes[:len(fc.scopes)-1]

	for _, sl := range owned {
		delete(fc.locals, sl.sym)
		fc.free[sl.vtype] = append(fc.free[sl.vtype], sl.idx)
	}
}

// allocLocal returns a fresh local index of the given value type, reusing a
// reclaimed slot of the same type when one exists.
func (fc *funcCompiler) allocLocal(vtype byte) int {
	if frees := fc.free[vtype]; len(frees) > 0 {
		idx := frees[len(frees)-1]
		fc.free[vtype] = frees[:len(frees)-1]
		return idx
	}

	idx := fc.paramCount + len(fc.localTypes)
	fc.localTypes = append(fc.localTypes, vtype)
	return idx
}

// defineLocal binds a symbol to a local slot owned by the current scope.
func (fc *funcCompiler) defineLocal(sym *common.Symbol, vtype byte) int {
	idx := fc.allocLocal(vtype)
	fc.locals[sym] = idx
	fc.scopes[len(fc.scopes)-1] = append(fc.scopes[len(fc.scopes)-1], scopedLocal{
		sym:   sym,
		idx:   idx,
		vtype: vtype,
	})
	return idx
}
