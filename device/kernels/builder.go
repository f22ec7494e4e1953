package kernels

import (
	"github.com/tetratelabs/wazero/api"
)

// ModuleBuilder builds small kernel modules that define and export one
// linear memory plus a set of functions.
type ModuleBuilder struct {
	memoryExportName string
	funcs            []kernelFunc
}

type kernelFunc struct {
	name        string
	paramTypes  []api.ValueType
	resultTypes []api.ValueType
	localTypes  []api.ValueType
	body        []byte
}

// NewModuleBuilder creates a builder whose memory is exported under
// memoryExportName with an initial size of one page. The device grows
// memory per call to fit the descriptor and data buffer.
func NewModuleBuilder(memoryExportName string) *ModuleBuilder {
	return &ModuleBuilder{memoryExportName: memoryExportName}
}

// AddFunc adds an exported function. Locals are declared after the
// parameters; body is the instruction sequence without the final end.
func (b *ModuleBuilder) AddFunc(name string, params, results, locals []api.ValueType, body *Code) {
	b.funcs = append(b.funcs, kernelFunc{
		name:        name,
		paramTypes:  params,
		resultTypes: results,
		localTypes:  locals,
		body:        body.Bytes(),
	})
}

// Build generates the WASM module bytes.
func (b *ModuleBuilder) Build() []byte {
	var wasm []byte

	// Magic and version
	wasm = append(wasm, 0x00, 0x61, 0x73, 0x6d)
	wasm = append(wasm, 0x01, 0x00, 0x00, 0x00)

	if len(b.funcs) > 0 {
		wasm = appendSection(wasm, 0x01, b.buildTypeSection())
		wasm = appendSection(wasm, 0x03, b.buildFuncSection())
	}
	wasm = appendSection(wasm, 0x05, b.buildMemorySection())
	wasm = appendSection(wasm, 0x07, b.buildExportSection())
	if len(b.funcs) > 0 {
		wasm = appendSection(wasm, 0x0a, b.buildCodeSection())
	}

	return wasm
}

func appendSection(wasm []byte, id byte, section []byte) []byte {
	wasm = append(wasm, id)
	wasm = append(wasm, EncodeULEB128(uint32(len(section)))...)
	return append(wasm, section...)
}

func (b *ModuleBuilder) buildTypeSection() []byte {
	var section []byte
	section = append(section, EncodeULEB128(uint32(len(b.funcs)))...)

	for _, f := range b.funcs {
		section = append(section, 0x60)
		section = append(section, EncodeULEB128(uint32(len(f.paramTypes)))...)
		for _, t := range f.paramTypes {
			section = append(section, ValTypeToWasm(t))
		}
		section = append(section, EncodeULEB128(uint32(len(f.resultTypes)))...)
		for _, t := range f.resultTypes {
			section = append(section, ValTypeToWasm(t))
		}
	}

	return section
}

func (b *ModuleBuilder) buildFuncSection() []byte {
	var section []byte
	section = append(section, EncodeULEB128(uint32(len(b.funcs)))...)
	for i := range b.funcs {
		section = append(section, EncodeULEB128(uint32(i))...)
	}
	return section
}

func (b *ModuleBuilder) buildMemorySection() []byte {
	var section []byte
	section = append(section, 0x01)
	section = append(section, 0x00) // limits: min only
	section = append(section, EncodeULEB128(1)...)
	return section
}

func (b *ModuleBuilder) buildExportSection() []byte {
	var section []byte
	section = append(section, EncodeULEB128(uint32(len(b.funcs)+1))...)

	section = append(section, encodeName(b.memoryExportName)...)
	section = append(section, 0x02, 0x00)

	for i, f := range b.funcs {
		section = append(section, encodeName(f.name)...)
		section = append(section, 0x00)
		section = append(section, EncodeULEB128(uint32(i))...)
	}

	return section
}

func (b *ModuleBuilder) buildCodeSection() []byte {
	var section []byte
	section = append(section, EncodeULEB128(uint32(len(b.funcs)))...)

	for _, f := range b.funcs {
		funcBody := buildFuncBody(f)
		section = append(section, EncodeULEB128(uint32(len(funcBody)))...)
		section = append(section, funcBody...)
	}

	return section
}

// buildFuncBody groups consecutive locals of the same type into one entry.
func buildFuncBody(f kernelFunc) []byte {
	type localEntry struct {
		count uint32
		typ   api.ValueType
	}
	var entries []localEntry
	for _, t := range f.localTypes {
		if n := len(entries); n > 0 && entries[n-1].typ == t {
			entries[n-1].count++
			continue
		}
		entries = append(entries, localEntry{count: 1, typ: t})
	}

	var body []byte
	body = append(body, EncodeULEB128(uint32(len(entries)))...)
	for _, e := range entries {
		body = append(body, EncodeULEB128(e.count)...)
		body = append(body, ValTypeToWasm(e.typ))
	}
	body = append(body, f.body...)
	body = append(body, 0x0b)
	return body
}
