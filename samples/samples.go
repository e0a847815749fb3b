// Package samples provides a registry of small typed models with known
// outputs.  The models stand in for a front end: the compile driver uses them
// as compilation inputs, and the conformance tests compile them with each back
// end and check the observable behavior against the recorded output.
package samples

import (
	"sort"

	"wallaby/ast"
	"wallaby/common"
	"wallaby/typing"
)

// Sample is a named typed model plus the output its execution must produce.
type Sample struct {
	// The registry name of the sample.
	Name string

	// A one line description of what the sample exercises.
	Description string

	// The exact output the compiled program writes when run.
	Output string

	build func() *ast.Program
}

// Model builds a fresh copy of the sample's typed model.  Each call returns
// independent nodes and symbols, so compilations of the same sample never
// share state.
func (s *Sample) Model() *ast.Program {
	return s.build()
}

var registry = map[string]*Sample{}

func register(s *Sample) {
	registry[s.Name] = s
}

// Lookup returns the sample registered under the given name.
func Lookup(name string) (*Sample, bool) {
	s, ok := registry[name]
	return s, ok
}

// All returns every registered sample ordered by name.
func All() []*Sample {
	all := make([]*Sample, 0, len(registry))
	for _, s := range registry {
		all = append(all, s)
	}

	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	return all
}

// Names returns the names of every registered sample in order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}

	sort.Strings(names)
	return names
}

// -----------------------------------------------------------------------------

func init() {
	register(&Sample{
		Name:        "arith",
		Description: "integer and float arithmetic with precedence and negation",
		Output:      "-10\n3\n10\n3.5\n-5\n-2.5\n",
		build:       buildArith,
	})

	register(&Sample{
		Name:        "vars",
		Description: "global variables, constants and assignment",
		Output:      "12\n3\n2\n",
		build:       buildVars,
	})

	register(&Sample{
		Name:        "branch",
		Description: "if statements and boolean negation",
		Output:      "true\n0\ny\ntrue\n1\n",
		build:       buildBranch,
	})

	register(&Sample{
		Name:        "loop",
		Description: "a while loop steered by break and continue",
		Output:      "12\n6\n",
		build:       buildLoop,
	})

	register(&Sample{
		Name:        "nestedloop",
		Description: "break and continue inside nested loops exit only the inner loop",
		Output:      "3\n3\n3\n33\n3\n",
		build:       buildNestedLoop,
	})

	register(&Sample{
		Name:        "func",
		Description: "recursion and a local shadowing a global",
		Output:      "120\n20\n10\n",
		build:       buildFunc,
	})

	register(&Sample{
		Name:        "shortcircuit",
		Description: "short-circuit operators guarding division by zero",
		Output:      "1\n1\n0\ntrue\n",
		build:       buildShortCircuit,
	})

	register(&Sample{
		Name:        "blockexpr",
		Description: "blocks used as expressions",
		Output:      "9\n7\n",
		build:       buildBlockExpr,
	})

	register(&Sample{
		Name:        "cast",
		Description: "numeric casts and character output",
		Output:      "3.5\n3\n-3\nA\n",
		build:       buildCast,
	})
}

// buildArith models:
//
//	print 2 + 3 * -4;
//	print (10 - 4) / 2;
//	print 2.5 * 4.0;
//	print 7.0 / 2.0;
//	print -5;
//	print -2.5;
func buildArith() *ast.Program {
	mb := &modelBuilder{}

	return mb.program(
		mb.print(mb.arith(ast.OpAdd, mb.intLit(2),
			mb.arith(ast.OpMul, mb.intLit(3), mb.neg(mb.intLit(4))))),
		mb.print(mb.arith(ast.OpDiv,
			mb.arith(ast.OpSub, mb.intLit(10), mb.intLit(4)), mb.intLit(2))),
		mb.print(mb.arith(ast.OpMul, mb.floatLit(2.5), mb.floatLit(4))),
		mb.print(mb.arith(ast.OpDiv, mb.floatLit(7), mb.floatLit(2))),
		mb.print(mb.neg(mb.intLit(5))),
		mb.print(mb.neg(mb.floatLit(2.5))),
	)
}

// buildVars models:
//
//	var x = 10;
//	const y = 2;
//	x = x + y;
//	print x;
//	var f = 1.5;
//	f = f * 2.0;
//	print f;
//	print y;
func buildVars() *ast.Program {
	mb := &modelBuilder{}

	x := mb.global("x", typing.KindInt)
	y := mb.global("y", typing.KindInt)
	y.Constant = true
	f := mb.global("f", typing.KindFloat)

	return mb.program(
		mb.decl(x, mb.intLit(10)),
		mb.decl(y, mb.intLit(2)),
		mb.assign(x, mb.arith(ast.OpAdd, mb.ref(x), mb.ref(y))),
		mb.print(mb.ref(x)),
		mb.decl(f, mb.floatLit(1.5)),
		mb.assign(f, mb.arith(ast.OpMul, mb.ref(f), mb.floatLit(2))),
		mb.print(mb.ref(f)),
		mb.print(mb.ref(y)),
	)
}

// buildBranch models:
//
//	var a = 3;
//	if a < 5 { print true; } else { print false; }
//	if a == 4 { print 1; } else { print 0; }
//	if a >= 3 { print 'y'; print '\n'; }
//	print !false;
//	if !(a == 3) { print 0; } else { print 1; }
func buildBranch() *ast.Program {
	mb := &modelBuilder{}

	a := mb.global("a", typing.KindInt)

	return mb.program(
		mb.decl(a, mb.intLit(3)),
		mb.ifElse(mb.compare(ast.OpLt, mb.ref(a), mb.intLit(5)),
			mb.block(mb.print(mb.boolLit(true))),
			mb.block(mb.print(mb.boolLit(false)))),
		mb.ifElse(mb.compare(ast.OpEq, mb.ref(a), mb.intLit(4)),
			mb.block(mb.print(mb.intLit(1))),
			mb.block(mb.print(mb.intLit(0)))),
		mb.ifElse(mb.compare(ast.OpGtEq, mb.ref(a), mb.intLit(3)),
			mb.block(mb.print(mb.charLit('y')), mb.print(mb.charLit('\n'))),
			nil),
		mb.print(mb.not(mb.boolLit(false))),
		mb.ifElse(mb.not(mb.compare(ast.OpEq, mb.ref(a), mb.intLit(3))),
			mb.block(mb.print(mb.intLit(0))),
			mb.block(mb.print(mb.intLit(1)))),
	)
}

// buildLoop models:
//
//	var i = 0;
//	var total = 0;
//	while true {
//	    i = i + 1;
//	    if i > 5 { break; }
//	    if i == 3 { continue; }
//	    total = total + i;
//	}
//	print total;
//	print i;
func buildLoop() *ast.Program {
	mb := &modelBuilder{}

	i := mb.global("i", typing.KindInt)
	total := mb.global("total", typing.KindInt)

	return mb.program(
		mb.decl(i, mb.intLit(0)),
		mb.decl(total, mb.intLit(0)),
		mb.while(mb.boolLit(true), mb.block(
			mb.assign(i, mb.arith(ast.OpAdd, mb.ref(i), mb.intLit(1))),
			mb.ifElse(mb.compare(ast.OpGt, mb.ref(i), mb.intLit(5)),
				mb.block(mb.brk()), nil),
			mb.ifElse(mb.compare(ast.OpEq, mb.ref(i), mb.intLit(3)),
				mb.block(mb.cont()), nil),
			mb.assign(total, mb.arith(ast.OpAdd, mb.ref(total), mb.ref(i))),
		)),
		mb.print(mb.ref(total)),
		mb.print(mb.ref(i)),
	)
}

// buildNestedLoop models:
//
//	var i = 0;
//	var total = 0;
//	while i < 3 {
//	    i = i + 1;
//	    var j = 0;
//	    while true {
//	        j = j + 1;
//	        if j > 2 { break; }
//	        if j == 1 { continue; }
//	        total = total + 10;
//	    }
//	    total = total + 1;
//	    print j;
//	}
//	print total;
//	print i;
//
// The inner break and continue must leave the outer loop running: each outer
// iteration sees j reach 3 and adds 11 to total.
func buildNestedLoop() *ast.Program {
	mb := &modelBuilder{}

	i := mb.global("i", typing.KindInt)
	total := mb.global("total", typing.KindInt)
	j := mb.local("j", typing.KindInt, 1)

	return mb.program(
		mb.decl(i, mb.intLit(0)),
		mb.decl(total, mb.intLit(0)),
		mb.while(mb.compare(ast.OpLt, mb.ref(i), mb.intLit(3)), mb.block(
			mb.assign(i, mb.arith(ast.OpAdd, mb.ref(i), mb.intLit(1))),
			mb.decl(j, mb.intLit(0)),
			mb.while(mb.boolLit(true), mb.block(
				mb.assign(j, mb.arith(ast.OpAdd, mb.ref(j), mb.intLit(1))),
				mb.ifElse(mb.compare(ast.OpGt, mb.ref(j), mb.intLit(2)),
					mb.block(mb.brk()), nil),
				mb.ifElse(mb.compare(ast.OpEq, mb.ref(j), mb.intLit(1)),
					mb.block(mb.cont()), nil),
				mb.assign(total, mb.arith(ast.OpAdd, mb.ref(total), mb.intLit(10))),
			)),
			mb.assign(total, mb.arith(ast.OpAdd, mb.ref(total), mb.intLit(1))),
			mb.print(mb.ref(j)),
		)),
		mb.print(mb.ref(total)),
		mb.print(mb.ref(i)),
	)
}

// buildFunc models:
//
//	var n = 10;
//	func fact(k int) int {
//	    if k < 2 { return 1; }
//	    return k * fact(k - 1);
//	}
//	func twice(x int) int {
//	    var n = x + x;
//	    return n;
//	}
//	print fact(5);
//	print twice(n);
//	print n;
func buildFunc() *ast.Program {
	mb := &modelBuilder{}

	n := mb.global("n", typing.KindInt)

	fact := mb.function("fact", []typing.Kind{typing.KindInt}, typing.KindInt)
	k := mb.param("k", typing.KindInt)

	twice := mb.function("twice", []typing.Kind{typing.KindInt}, typing.KindInt)
	x := mb.param("x", typing.KindInt)
	localN := mb.local("n", typing.KindInt, 1)

	return mb.program(
		mb.decl(n, mb.intLit(10)),
		mb.funcDef(fact, []*common.Symbol{k}, mb.block(
			mb.ifElse(mb.compare(ast.OpLt, mb.ref(k), mb.intLit(2)),
				mb.block(mb.ret(mb.intLit(1))), nil),
			mb.ret(mb.arith(ast.OpMul, mb.ref(k),
				mb.call(fact, mb.arith(ast.OpSub, mb.ref(k), mb.intLit(1))))),
		)),
		mb.funcDef(twice, []*common.Symbol{x}, mb.block(
			mb.decl(localN, mb.arith(ast.OpAdd, mb.ref(x), mb.ref(x))),
			mb.ret(mb.ref(localN)),
		)),
		mb.print(mb.call(fact, mb.intLit(5))),
		mb.print(mb.call(twice, mb.ref(n))),
		mb.print(mb.ref(n)),
	)
}

// buildShortCircuit models:
//
//	var a = 0;
//	if a == 0 || 1 / a > 0 { print 1; } else { print 0; }
//	a = 2;
//	if a != 0 && 10 / a == 5 { print 1; } else { print 0; }
//	if a == 0 && 1 / a > 0 { print 1; } else { print 0; }
//	print false || true;
func buildShortCircuit() *ast.Program {
	mb := &modelBuilder{}

	a := mb.global("a", typing.KindInt)

	divPositive := func() ast.ASTExpr {
		return mb.compare(ast.OpGt,
			mb.arith(ast.OpDiv, mb.intLit(1), mb.ref(a)), mb.intLit(0))
	}

	return mb.program(
		mb.decl(a, mb.intLit(0)),
		mb.ifElse(mb.logical(ast.OpOr,
			mb.compare(ast.OpEq, mb.ref(a), mb.intLit(0)), divPositive()),
			mb.block(mb.print(mb.intLit(1))),
			mb.block(mb.print(mb.intLit(0)))),
		mb.assign(a, mb.intLit(2)),
		mb.ifElse(mb.logical(ast.OpAnd,
			mb.compare(ast.OpNeq, mb.ref(a), mb.intLit(0)),
			mb.compare(ast.OpEq,
				mb.arith(ast.OpDiv, mb.intLit(10), mb.ref(a)), mb.intLit(5))),
			mb.block(mb.print(mb.intLit(1))),
			mb.block(mb.print(mb.intLit(0)))),
		mb.ifElse(mb.logical(ast.OpAnd,
			mb.compare(ast.OpEq, mb.ref(a), mb.intLit(0)), divPositive()),
			mb.block(mb.print(mb.intLit(1))),
			mb.block(mb.print(mb.intLit(0)))),
		mb.print(mb.logical(ast.OpOr, mb.boolLit(false), mb.boolLit(true))),
	)
}

// buildBlockExpr models:
//
//	var x = { var t = 3; t * t };
//	print x;
//	var y = 2 + { var t = 10; t / 2 };
//	print y;
func buildBlockExpr() *ast.Program {
	mb := &modelBuilder{}

	x := mb.global("x", typing.KindInt)
	t1 := mb.local("t", typing.KindInt, 1)
	y := mb.global("y", typing.KindInt)
	t2 := mb.local("t", typing.KindInt, 1)

	return mb.program(
		mb.decl(x, mb.blockExpr(typing.KindInt,
			mb.decl(t1, mb.intLit(3)),
			mb.exprStmt(mb.arith(ast.OpMul, mb.ref(t1), mb.ref(t1))),
		)),
		mb.print(mb.ref(x)),
		mb.decl(y, mb.arith(ast.OpAdd, mb.intLit(2), mb.blockExpr(typing.KindInt,
			mb.decl(t2, mb.intLit(10)),
			mb.exprStmt(mb.arith(ast.OpDiv, mb.ref(t2), mb.intLit(2))),
		))),
		mb.print(mb.ref(y)),
	)
}

// buildCast models:
//
//	var i = 7;
//	print float(i) / 2.0;
//	var f = 3.9;
//	print int(f);
//	print int(-3.9);
//	print 'A';
//	print '\n';
func buildCast() *ast.Program {
	mb := &modelBuilder{}

	i := mb.global("i", typing.KindInt)
	f := mb.global("f", typing.KindFloat)

	return mb.program(
		mb.decl(i, mb.intLit(7)),
		mb.print(mb.arith(ast.OpDiv,
			mb.cast(typing.KindFloat, mb.ref(i)), mb.floatLit(2))),
		mb.decl(f, mb.floatLit(3.9)),
		mb.print(mb.cast(typing.KindInt, mb.ref(f))),
		mb.print(mb.cast(typing.KindInt, mb.neg(mb.floatLit(3.9)))),
		mb.print(mb.charLit('A')),
		mb.print(mb.charLit('\n')),
	)
}
