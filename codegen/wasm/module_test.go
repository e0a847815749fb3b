package wasm

import (
	"bytes"
	"os"
	"testing"

	"wallaby/ast"
	"wallaby/report"
	"wallaby/samples"
	"wallaby/typing"
)

func TestMain(m *testing.M) {
	report.InitReporter(report.LogLevelSilent)
	os.Exit(m.Run())
}

// compileSample compiles a registered sample, failing the test on error.
func compileSample(t *testing.T, name string) []byte {
	t.Helper()

	s, ok := samples.Lookup(name)
	if !ok {
		t.Fatalf("sample `%s` is not registered", name)
	}

	module, err := Compile(s.Model())
	if err != nil {
		t.Fatalf("compiling `%s`: %v", name, err)
	}

	return module
}

// parseSections splits a module into its sections, checking the header and
// that section ids appear in strictly ascending order.
func parseSections(t *testing.T, module []byte) map[byte][]byte {
	t.Helper()

	header := []byte{0x00, 0x61, 0x73, 0x6D, 0x01, 0x00, 0x00, 0x00}
	if len(module) < len(header) || !bytes.Equal(module[:8], header) {
		t.Fatalf("module header = % x; want % x", module[:8], header)
	}

	sections := make(map[byte][]byte)
	rest := module[8:]
	lastID := byte(0)

	for len(rest) > 0 {
		id := rest[0]
		if id <= lastID {
			t.Fatalf("section id %d follows section id %d", id, lastID)
		}
		lastID = id

		size, n := DecodeUleb128(rest[1:])
		if n == 0 || len(rest) < 1+n+int(size) {
			t.Fatalf("truncated section %d", id)
		}

		sections[id] = rest[1+n : 1+n+int(size)]
		rest = rest[1+n+int(size):]
	}

	return sections
}

func TestModuleSections(t *testing.T) {
	sections := parseSections(t, compileSample(t, "func"))

	for _, id := range []byte{sectionType, sectionImport, sectionFunction, sectionExport, sectionCode} {
		if _, ok := sections[id]; !ok {
			t.Errorf("module is missing section %d", id)
		}
	}

	// The func sample declares one global.
	if count, _ := DecodeUleb128(sections[sectionGlobal]); count != 1 {
		t.Errorf("global section holds %d globals; want 1", count)
	}
}

func TestImportSection(t *testing.T) {
	module := compileSample(t, "arith")
	sections := parseSections(t, module)

	if count, _ := DecodeUleb128(sections[sectionImport]); count != 4 {
		t.Errorf("import section holds %d imports; want 4", count)
	}

	for _, name := range []string{"env", "_printi", "_printf", "_printb", "_printc"} {
		if !bytes.Contains(sections[sectionImport], []byte(name)) {
			t.Errorf("import section does not name `%s`", name)
		}
	}
}

func TestGlobalSection(t *testing.T) {
	sections := parseSections(t, compileSample(t, "vars"))

	payload := sections[sectionGlobal]
	count, n := DecodeUleb128(payload)
	if count != 3 {
		t.Fatalf("global section holds %d globals; want 3", count)
	}

	// Every entry must be mutable with a zero initializer: x and y are i32,
	// f is f64.
	want := []byte{
		ValI32, 0x01, opI32Const, 0x00, opEnd,
		ValI32, 0x01, opI32Const, 0x00, opEnd,
		ValF64, 0x01, opF64Const, 0, 0, 0, 0, 0, 0, 0, 0, opEnd,
	}
	if !bytes.Equal(payload[n:], want) {
		t.Errorf("global entries = % x; want % x", payload[n:], want)
	}
}

func TestCodeSection(t *testing.T) {
	cases := []struct {
		sample    string
		wantCount uint64
	}{
		{"arith", 1}, // main only
		{"func", 3},  // fact, twice, main
	}

	for _, c := range cases {
		t.Run(c.sample, func(t *testing.T) {
			sections := parseSections(t, compileSample(t, c.sample))

			payload := sections[sectionCode]
			count, n := DecodeUleb128(payload)
			if count != c.wantCount {
				t.Fatalf("code section holds %d bodies; want %d", count, c.wantCount)
			}

			rest := payload[n:]
			for i := uint64(0); i < count; i++ {
				size, n := DecodeUleb128(rest)
				if n == 0 || len(rest) < n+int(size) {
					t.Fatalf("truncated body %d", i)
				}

				body := rest[n : n+int(size)]
				if body[len(body)-1] != opEnd {
					t.Errorf("body %d ends with %#x; want %#x", i, body[len(body)-1], opEnd)
				}

				rest = rest[n+int(size):]
			}

			if len(rest) != 0 {
				t.Errorf("%d trailing bytes after the last body", len(rest))
			}
		})
	}
}

func TestExportSection(t *testing.T) {
	sections := parseSections(t, compileSample(t, "func"))

	for _, name := range []string{"fact", "twice", "main"} {
		if !bytes.Contains(sections[sectionExport], []byte(name)) {
			t.Errorf("export section does not name `%s`", name)
		}
	}
}

func TestIntLiteralOutOfRange(t *testing.T) {
	span := &report.TextSpan{}
	model := &ast.Program{
		ASTBase: ast.NewASTBaseOn(span),
		Stmts: []ast.ASTNode{
			&ast.PrintStmt{
				ASTBase: ast.NewASTBaseOn(span),
				Value:   &ast.IntLit{ExprBase: ast.NewExprBase(span, typing.KindInt), Value: 1 << 40},
			},
		},
	}

	if _, err := Compile(model); err == nil {
		t.Fatal("compiling a 41-bit integer literal did not fail")
	}
}

func TestEmptyBlockExpressionFails(t *testing.T) {
	span := &report.TextSpan{}
	base := ast.NewASTBaseOn(span)
	model := &ast.Program{
		ASTBase: base,
		Stmts: []ast.ASTNode{
			&ast.PrintStmt{
				ASTBase: base,
				Value:   ast.NewBlockExpr(base, nil, typing.KindInt),
			},
		},
	}

	if _, err := Compile(model); err == nil {
		t.Fatal("compiling an empty block expression did not fail")
	}
}

func TestSamplesCompile(t *testing.T) {
	for _, s := range samples.All() {
		s := s
		t.Run(s.Name, func(t *testing.T) {
			parseSections(t, compileSample(t, s.Name))
		})
	}
}
