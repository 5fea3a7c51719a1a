package wasm

import (
	"errors"
	"fmt"
	"slices"

	"github.com/tetratelabs/wazero/api"
)

const (
	sectionType     = 0x01
	sectionImport   = 0x02
	sectionFunction = 0x03
	sectionMemory   = 0x05
	sectionExport   = 0x07
	sectionCode     = 0x0a

	externFunc   = 0x00
	externMemory = 0x02

	limitsMin    = 0x00
	limitsMinMax = 0x01

	opLocalGet = 0x20
	opCall     = 0x10
	opEnd      = 0x0b
)

var magic = []byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00}

// ErrEmpty is returned by Build when nothing was added to the module.
var ErrEmpty = errors.New("wasm: empty module")

type signature struct {
	params  []api.ValueType
	results []api.ValueType
}

type trampoline struct {
	module  string
	name    string
	typeIdx uint32
	params  int
}

// Builder assembles a module out of one memory and any number of forwarded
// functions. Function i is imported as index i and exported under the same
// name as defined function n+i, which calls the import.
type Builder struct {
	types     []signature
	funcs     []trampoline
	memImport [2]string
	memExport string
	memMin    uint32
	memMax    uint32
	memDefine bool
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// DefineMemory declares a memory of minPages..maxPages exported as export.
func (b *Builder) DefineMemory(minPages, maxPages uint32, export string) *Builder {
	b.memDefine = true
	b.memMin, b.memMax = minPages, maxPages
	b.memExport = export
	return b
}

// ImportMemory imports module.name as the module memory and exports it
// again as export. An empty export keeps it private.
func (b *Builder) ImportMemory(module, name, export string) *Builder {
	b.memImport = [2]string{module, name}
	b.memExport = export
	return b
}

// Forward imports module.name with the given signature and exports a
// function of the same name and signature that calls it.
func (b *Builder) Forward(module, name string, params, results []api.ValueType) *Builder {
	b.funcs = append(b.funcs, trampoline{
		module:  module,
		name:    name,
		typeIdx: b.typeIndex(params, results),
		params:  len(params),
	})
	return b
}

func (b *Builder) typeIndex(params, results []api.ValueType) uint32 {
	for i, s := range b.types {
		if slices.Equal(s.params, params) && slices.Equal(s.results, results) {
			return uint32(i)
		}
	}
	b.types = append(b.types, signature{params: slices.Clone(params), results: slices.Clone(results)})
	return uint32(len(b.types) - 1)
}

func (b *Builder) importsMemory() bool {
	return b.memImport[0] != ""
}

// Build encodes the module.
func (b *Builder) Build() ([]byte, error) {
	if b.memDefine && b.importsMemory() {
		return nil, errors.New("wasm: memory both defined and imported")
	}
	if b.memDefine && b.memMax < b.memMin {
		return nil, fmt.Errorf("wasm: memory max %d pages below min %d", b.memMax, b.memMin)
	}
	if len(b.funcs) == 0 && !b.memDefine && !b.importsMemory() {
		return nil, ErrEmpty
	}

	bin := slices.Clone(magic)
	if len(b.types) > 0 {
		bin = appendSection(bin, sectionType, b.typeSection())
	}
	if len(b.funcs) > 0 || b.importsMemory() {
		bin = appendSection(bin, sectionImport, b.importSection())
	}
	if len(b.funcs) > 0 {
		bin = appendSection(bin, sectionFunction, b.functionSection())
	}
	if b.memDefine {
		mem := []byte{1, limitsMinMax}
		mem = append(mem, EncodeULEB128(b.memMin)...)
		mem = append(mem, EncodeULEB128(b.memMax)...)
		bin = appendSection(bin, sectionMemory, mem)
	}
	if exports := b.exportSection(); exports != nil {
		bin = appendSection(bin, sectionExport, exports)
	}
	if len(b.funcs) > 0 {
		bin = appendSection(bin, sectionCode, b.codeSection())
	}
	return bin, nil
}

func (b *Builder) typeSection() []byte {
	sec := EncodeULEB128(uint32(len(b.types)))
	for _, s := range b.types {
		sec = append(sec, 0x60)
		sec = append(sec, EncodeULEB128(uint32(len(s.params)))...)
		for _, t := range s.params {
			sec = append(sec, ValType(t))
		}
		sec = append(sec, EncodeULEB128(uint32(len(s.results)))...)
		for _, t := range s.results {
			sec = append(sec, ValType(t))
		}
	}
	return sec
}

func (b *Builder) importSection() []byte {
	n := len(b.funcs)
	if b.importsMemory() {
		n++
	}
	sec := EncodeULEB128(uint32(n))
	for _, f := range b.funcs {
		sec = appendName(sec, f.module)
		sec = appendName(sec, f.name)
		sec = append(sec, externFunc)
		sec = append(sec, EncodeULEB128(f.typeIdx)...)
	}
	if b.importsMemory() {
		sec = appendName(sec, b.memImport[0])
		sec = appendName(sec, b.memImport[1])
		sec = append(sec, externMemory, limitsMin, 0)
	}
	return sec
}

func (b *Builder) functionSection() []byte {
	sec := EncodeULEB128(uint32(len(b.funcs)))
	for _, f := range b.funcs {
		sec = append(sec, EncodeULEB128(f.typeIdx)...)
	}
	return sec
}

func (b *Builder) exportSection() []byte {
	n := len(b.funcs)
	if b.memExport != "" {
		n++
	}
	if n == 0 {
		return nil
	}
	sec := EncodeULEB128(uint32(n))
	if b.memExport != "" {
		sec = appendName(sec, b.memExport)
		sec = append(sec, externMemory, 0)
	}
	imported := uint32(len(b.funcs))
	for i, f := range b.funcs {
		sec = appendName(sec, f.name)
		sec = append(sec, externFunc)
		sec = append(sec, EncodeULEB128(imported+uint32(i))...)
	}
	return sec
}

func (b *Builder) codeSection() []byte {
	sec := EncodeULEB128(uint32(len(b.funcs)))
	for i, f := range b.funcs {
		body := []byte{0} // no locals
		for p := 0; p < f.params; p++ {
			body = append(body, opLocalGet)
			body = append(body, EncodeULEB128(uint32(p))...)
		}
		body = append(body, opCall)
		body = append(body, EncodeULEB128(uint32(i))...)
		body = append(body, opEnd)

		sec = append(sec, EncodeULEB128(uint32(len(body)))...)
		sec = append(sec, body...)
	}
	return sec
}
