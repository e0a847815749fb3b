// Package wasm compiles a typed Wallaby model into a binary WebAssembly
// module.  Integer, boolean and character values are represented as `i32`;
// floats as `f64`.  The print runtime is imported from the `env` module, and
// top level code becomes an exported `main` function.
package wasm

import (
	"wallaby/ast"
	"wallaby/common"
	"wallaby/report"
	"wallaby/typing"
)

// Generator is responsible for converting a typed model into a WebAssembly
// module.
type Generator struct {
	b *builder

	// printIdx holds the function index of the imported print routine for
	// each printable kind.
	printIdx map[typing.Kind]int

	// funcIdx maps function symbols to their function indices.
	funcIdx map[*common.Symbol]int

	// globalIdx maps global symbols to their global indices.
	globalIdx map[*common.Symbol]int
}

// Compile lowers a typed model to the bytes of a WebAssembly module.
func Compile(prog *ast.Program) (module []byte, err error) {
	defer report.CatchErrors(&err)

	g := &Generator{
		b:         newBuilder(),
		printIdx:  make(map[typing.Kind]int),
		funcIdx:   make(map[*common.Symbol]int),
		globalIdx: make(map[*common.Symbol]int),
	}

	g.importPrintRuntime()

	// Assign global and function indices up front so that every body,
	// including bodies containing forward and recursive calls, compiles
	// against a complete index space.
	var funcs []*ast.FuncDef
	for _, item := range prog.Stmts {
		switch v := item.(type) {
		case *ast.VarDecl:
			if v.Sym.Storage == common.StorageGlobal {
				g.globalIdx[v.Sym] = g.b.addGlobal(g.valType(v.Sym.Type, v.Span()))
			}
		case *ast.FuncDef:
			if v.Sym == nil || v.Sym.Signature == nil {
				report.RaiseICE(v.Span(), "function definition with unresolved symbol")
			}

			g.funcIdx[v.Sym] = len(g.b.imports) + len(funcs)
			funcs = append(funcs, v)
		}
	}

	for _, fd := range funcs {
		idx := g.genFunc(fd)
		g.b.addExport(fd.Sym.Name, idx)
	}

	g.b.addExport("main", g.genMain(prog))

	return g.b.emit(), nil
}

// importPrintRuntime imports the four print routines from the host's `env`
// module.  These occupy function indices 0 through 3.
func (g *Generator) importPrintRuntime() {
	imports := []struct {
		name  string
		vtype byte
		kind  typing.Kind
	}{
		{"_printi", ValI32, typing.KindInt},
		{"_printf", ValF64, typing.KindFloat},
		{"_printb", ValI32, typing.KindBool},
		{"_printc", ValI32, typing.KindChar},
	}

	for _, imp := range imports {
		g.printIdx[imp.kind] = g.b.addImport("env", imp.name, []byte{imp.vtype}, nil)
	}
}

// genFunc compiles a function definition and returns its function index.
func (g *Generator) genFunc(fd *ast.FuncDef) int {
	params := make([]byte, len(fd.Params))
	for i, p := range fd.Params {
		params[i] = g.valType(p.Type, fd.Span())
	}

	var results []byte
	retKind := fd.Sym.Signature.ReturnType
	if retKind != typing.KindUnit {
		results = []byte{g.valType(retKind, fd.Span())}
	}

	fc := newFuncCompiler(g, len(fd.Params))
	fc.pushScope()

	for i, p := range fd.Params {
		fc.locals[p] = i
	}

	if retKind != typing.KindUnit {
		fc.retLocal = fc.allocLocal(g.valType(retKind, fd.Span()))
		fc.hasRetLocal = true
	}

	// The whole body sits inside one block so that return statements can
	// branch to its end; the return value travels in a dedicated local.
	fc.emit(opBlock, blockVoid)
	fc.blockDepth++

	fc.genBlockInner(fd.Body)

	fc.emit(opEnd)
	fc.blockDepth--

	if fc.hasRetLocal {
		fc.emit(opLocalGet)
		fc.uleb(fc.retLocal)
	}

	fc.popScope()

	idx := g.b.addFunc(params, results, fc.finish())
	if idx != g.funcIdx[fd.Sym] {
		report.RaiseICE(fd.Span(), "function `%s` compiled out of index order", fd.Sym.Name)
	}

	return idx
}

// genMain compiles the top level statements into an exported nullary `main`
// function and returns its function index.
func (g *Generator) genMain(prog *ast.Program) int {
	fc := newFuncCompiler(g, 0)
	fc.pushScope()

	fc.emit(opBlock, blockVoid)
	fc.blockDepth++

	for _, item := range prog.Stmts {
		if _, ok := item.(*ast.FuncDef); ok {
			continue
		}

		fc.genStmt(item)
	}

	fc.emit(opEnd)
	fc.blockDepth--

	fc.popScope()

	return g.b.addFunc(nil, nil, fc.finish())
}

// valType converts a Wallaby kind to its WebAssembly value type.
func (g *Generator) valType(kind typing.Kind, span *report.TextSpan) byte {
	switch kind {
	case typing.KindInt, typing.KindBool, typing.KindChar:
		return ValI32
	case typing.KindFloat:
		return ValF64
	default:
		report.RaiseICE(span, "kind `%s` has no value representation", kind)
		return 0
	}
}
