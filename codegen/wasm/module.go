package wasm

// Section identifiers, in the order sections must appear in the module.
const (
	sectionType     byte = 1
	sectionImport   byte = 2
	sectionFunction byte = 3
	sectionGlobal   byte = 6
	sectionExport   byte = 7
	sectionCode     byte = 10
)

// Value type encodings.
const (
	ValI32 byte = 0x7F
	ValI64 byte = 0x7E
	ValF32 byte = 0x7D
	ValF64 byte = 0x7C
)

// funcTypeTag introduces a function type in the type section.
const funcTypeTag byte = 0x60

// exportKindFunc marks an export entry as a function export.
const exportKindFunc byte = 0x00

// blockVoid is the block type of a block producing no value.
const blockVoid byte = 0x40

// Instruction opcodes.
const (
	opBlock byte = 0x02
	opLoop  byte = 0x03
	opIf    byte = 0x04
	opElse  byte = 0x05
	opEnd   byte = 0x0B
	opBr    byte = 0x0C
	opBrIf  byte = 0x0D
	opCall  byte = 0x10

	opDrop byte = 0x1A

	opLocalGet  byte = 0x20
	opLocalSet  byte = 0x21
	opGlobalGet byte = 0x23
	opGlobalSet byte = 0x24

	opI32Const byte = 0x41
	opF64Const byte = 0x44

	opI32Eqz byte = 0x45
	opI32Eq  byte = 0x46
	opI32Ne  byte = 0x47
	opI32LtS byte = 0x48
	opI32GtS byte = 0x4A
	opI32LeS byte = 0x4C
	opI32GeS byte = 0x4E

	opF64Eq byte = 0x61
	opF64Ne byte = 0x62
	opF64Lt byte = 0x63
	opF64Gt byte = 0x64
	opF64Le byte = 0x65
	opF64Ge byte = 0x66

	opI32Add  byte = 0x6A
	opI32Sub  byte = 0x6B
	opI32Mul  byte = 0x6C
	opI32DivS byte = 0x6D
	opI32And  byte = 0x71
	opI32Or   byte = 0x72
	opI32Xor  byte = 0x73

	opF64Neg byte = 0x9A
	opF64Add byte = 0xA0
	opF64Sub byte = 0xA1
	opF64Mul byte = 0xA2
	opF64Div byte = 0xA3

	opI32TruncF64S   byte = 0xAA
	opF64ConvertI32S byte = 0xB7
)

// funcSig is the parameter and result signature of a function type entry.
type funcSig struct {
	params  []byte
	results []byte
}

// funcImport is an imported function: a two level name plus a type index.
type funcImport struct {
	module  string
	name    string
	typeIdx int
}

// funcExport exposes a defined function under a name.
type funcExport struct {
	name    string
	funcIdx int
}

// builder accumulates the contents of each module section and serializes them
// in the required order.
type builder struct {
	types     []funcSig
	typeCache map[string]int

	imports []funcImport

	// funcTypes holds the type index of each defined function; codes holds
	// the corresponding function bodies in the same order.
	funcTypes []int
	codes     [][]byte

	// globalTypes holds the value type of each mutable module global.
	globalTypes []byte

	exports []funcExport
}

func newBuilder() *builder {
	return &builder{typeCache: make(map[string]int)}
}

// typeIndex interns a function signature in the type section and returns its
// index.  Identical signatures share one entry.
func (b *builder) typeIndex(params, results []byte) int {
	key := string(params) + "->" + string(results)
	if idx, ok := b.typeCache[key]; ok {
		return idx
	}

	idx := len(b.types)
	b.types = append(b.types, funcSig{params: params, results: results})
	b.typeCache[key] = idx
	return idx
}

// addImport appends an imported function and returns its function index.
// Imports occupy the front of the function index space.
func (b *builder) addImport(module, name string, params, results []byte) int {
	idx := len(b.imports)
	b.imports = append(b.imports, funcImport{
		module:  module,
		name:    name,
		typeIdx: b.typeIndex(params, results),
	})
	return idx
}

// addFunc appends a defined function with the given signature and body and
// returns its function index.
func (b *builder) addFunc(params, results []byte, body []byte) int {
	idx := len(b.imports) + len(b.funcTypes)
	b.funcTypes = append(b.funcTypes, b.typeIndex(params, results))
	b.codes = append(b.codes, body)
	return idx
}

// addGlobal appends a mutable module global of the given value type and
// returns its global index.
func (b *builder) addGlobal(vtype byte) int {
	idx := len(b.globalTypes)
	b.globalTypes = append(b.globalTypes, vtype)
	return idx
}

// addExport exposes a function index under a name.
func (b *builder) addExport(name string, funcIdx int) {
	b.exports = append(b.exports, funcExport{name: name, funcIdx: funcIdx})
}

// emit serializes the module: magic, version, and every populated section in
// ascending section id order.
func (b *builder) emit() []byte {
	out := []byte{0x00, 0x61, 0x73, 0x6D, 0x01, 0x00, 0x00, 0x00}

	out = appendSection(out, sectionType, b.emitTypes())
	out = appendSection(out, sectionImport, b.emitImports())
	out = appendSection(out, sectionFunction, b.emitFunctions())
	out = appendSection(out, sectionGlobal, b.emitGlobals())
	out = appendSection(out, sectionExport, b.emitExports())
	out = appendSection(out, sectionCode, b.emitCodes())

	return out
}

// appendSection appends a section header and payload; empty payloads produce
// no section at all.
func appendSection(out []byte, id byte, payload []byte) []byte {
	if payload == nil {
		return out
	}

	out = append(out, id)
	out = AppendUleb128(out, uint64(len(payload)))
	return append(out, payload...)
}

func (b *builder) emitTypes() []byte {
	if len(b.types) == 0 {
		return nil
	}

	var p []byte
	p = AppendUleb128(p, uint64(len(b.types)))
	for _, sig := range b.types {
		p = append(p, funcTypeTag)
		p = AppendUleb128(p, uint64(len(sig.params)))
		p = append(p, sig.params...)
		p = AppendUleb128(p, uint64(len(sig.results)))
		p = append(p, sig.results...)
	}

	return p
}

func (b *builder) emitImports() []byte {
	if len(b.imports) == 0 {
		return nil
	}

	var p []byte
	p = AppendUleb128(p, uint64(len(b.imports)))
	for _, imp := range b.imports {
		p = appendName(p, imp.module)
		p = appendName(p, imp.name)
		p = append(p, exportKindFunc)
		p = AppendUleb128(p, uint64(imp.typeIdx))
	}

	return p
}

func (b *builder) emitFunctions() []byte {
	if len(b.funcTypes) == 0 {
		return nil
	}

	var p []byte
	p = AppendUleb128(p, uint64(len(b.funcTypes)))
	for _, ti := range b.funcTypes {
		p = AppendUleb128(p, uint64(ti))
	}

	return p
}

func (b *builder) emitGlobals() []byte {
	if len(b.globalTypes) == 0 {
		return nil
	}

	var p []byte
	p = AppendUleb128(p, uint64(len(b.globalTypes)))
	for _, vtype := range b.globalTypes {
		// Every global is mutable and zero initialized; real initial values
		// are stored by the top level code that declared them.
		p = append(p, vtype, 0x01)

		if vtype == ValF64 {
			p = append(p, opF64Const, 0, 0, 0, 0, 0, 0, 0, 0)
		} else {
			p = append(p, opI32Const)
			p = AppendSleb128(p, 0)
		}

		p = append(p, opEnd)
	}

	return p
}

func (b *builder) emitExports() []byte {
	if len(b.exports) == 0 {
		return nil
	}

	var p []byte
	p = AppendUleb128(p, uint64(len(b.exports)))
	for _, exp := range b.exports {
		p = appendName(p, exp.name)
		p = append(p, exportKindFunc)
		p = AppendUleb128(p, uint64(exp.funcIdx))
	}

	return p
}

func (b *builder) emitCodes() []byte {
	if len(b.codes) == 0 {
		return nil
	}

	var p []byte
	p = AppendUleb128(p, uint64(len(b.codes)))
	for _, body := range b.codes {
		p = AppendUleb128(p, uint64(len(body)))
		p = append(p, body...)
	}

	return p
}

// appendName appends a length-prefixed UTF-8 name.
func appendName(p []byte, name string) []byte {
	p = AppendUleb128(p, uint64(len(name)))
	return append(p, name...)
}

// compactLocals groups a flat list of local value types into the run length
// encoded locals vector used in function bodies.
func compactLocals(localTypes []byte) []byte {
	var runs []struct {
		count uint64
		vtype byte
	}

	for _, vt := range localTypes {
		if n := len(runs); n > 0 && runs[n-1].vtype == vt {
			runs[n-1].count++
		} else {
			runs = append(runs, struct {
				count uint64
				vtype byte
			}{1, vt})
		}
	}

	var p []byte
	p = AppendUleb128(p, uint64(len(runs)))
	for _, r := range runs {
		p = AppendUleb128(p, r.count)
		p = append(p, r.vtype)
	}

	return p
}
