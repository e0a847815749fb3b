package samples

import (
	"sort"
	"testing"

	"wallaby/ast"
)

func TestRegistryIsOrdered(t *testing.T) {
	all := All()
	if len(all) == 0 {
		t.Fatal("no samples registered")
	}

	names := make([]string, len(all))
	for i, s := range all {
		names[i] = s.Name
	}

	if !sort.StringsAreSorted(names) {
		t.Errorf("All() is not ordered by name: %v", names)
	}
}

func TestLookup(t *testing.T) {
	for _, name := range Names() {
		s, ok := Lookup(name)
		if !ok {
			t.Fatalf("Lookup(%q) failed for a registered name", name)
		}

		if s.Name != name {
			t.Errorf("Lookup(%q) returned sample %q", name, s.Name)
		}

		if s.Output == "" {
			t.Errorf("sample %q records no output", name)
		}
	}

	if _, ok := Lookup("no-such-sample"); ok {
		t.Error("Lookup of an unregistered name succeeded")
	}
}

// TestModelsAreIndependent checks that repeated builds of a sample share no
// nodes or symbols, so compilations never see each other's state.
func TestModelsAreIndependent(t *testing.T) {
	s, _ := Lookup("func")

	first := s.Model()
	second := s.Model()

	if first == second {
		t.Fatal("Model() returned the same program twice")
	}

	firstDecl := first.Stmts[0].(*ast.VarDecl)
	secondDecl := second.Stmts[0].(*ast.VarDecl)

	if firstDecl == secondDecl || firstDecl.Sym == secondDecl.Sym {
		t.Error("models share declaration nodes or symbols")
	}
}

// TestModelsAreWellFormed spot checks the front end contract the back ends
// rely on: resolved symbols and signatures on every reference and call.
func TestModelsAreWellFormed(t *testing.T) {
	for _, s := range All() {
		s := s
		t.Run(s.Name, func(t *testing.T) {
			var walk func(node ast.ASTNode)
			walk = func(node ast.ASTNode) {
				switch v := node.(type) {
				case *ast.Identifier:
					if v.Sym == nil {
						t.Error("identifier with nil symbol")
					}
				case *ast.Call:
					if v.Func == nil || v.Func.Signature == nil {
						t.Error("call with unresolved callee")
					}
					if v.Func != nil && v.Func.Signature != nil &&
						len(v.Args) != len(v.Func.Signature.ParamTypes) {
						t.Errorf("call to `%s` with wrong arity", v.Func.Name)
					}
					for _, arg := range v.Args {
						walk(arg)
					}
				case *ast.BinaryOp:
					walk(v.Lhs)
					walk(v.Rhs)
				case *ast.LogicalOp:
					walk(v.Lhs)
					walk(v.Rhs)
				case *ast.UnaryOp:
					walk(v.Operand)
				case *ast.Cast:
					walk(v.Src)
				case *ast.Block:
					for _, stmt := range v.Stmts {
						walk(stmt)
					}
				case *ast.VarDecl:
					if v.Sym == nil {
						t.Error("declaration with nil symbol")
					}
					walk(v.Initializer)
				case *ast.Assign:
					if v.Sym == nil {
						t.Error("assignment with nil symbol")
					}
					walk(v.Value)
				case *ast.PrintStmt:
					walk(v.Value)
				case *ast.ExprStmt:
					walk(v.Expr)
				case *ast.ReturnStmt:
					if v.Value != nil {
						walk(v.Value)
					}
				case *ast.IfStmt:
					walk(v.Condition)
					walk(v.Then)
					if v.Else != nil {
						walk(v.Else)
					}
				case *ast.WhileLoop:
					walk(v.Condition)
					walk(v.Body)
				case *ast.FuncDef:
					walk(v.Body)
				}
			}

			for _, stmt := range s.Model().Stmts {
				walk(stmt)
			}
		})
	}
}
