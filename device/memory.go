package device

import (
	"github.com/tetratelabs/wazero/api"

	kerneldesc "github.com/wippyai/kernel-descriptor"
	"github.com/wippyai/kernel-descriptor/errors"
)

// WazeroMemory wraps wazero memory to implement kerneldesc.Memory
type WazeroMemory struct {
	mem api.Memory
}

// NewWazeroMemory wraps a guest's linear memory.
func NewWazeroMemory(mem api.Memory) *WazeroMemory {
	return &WazeroMemory{mem: mem}
}

func (m *WazeroMemory) Read(offset uint32, length uint32) ([]byte, error) {
	data, ok := m.mem.Read(offset, length)
	if !ok {
		return nil, errors.OutOfBounds(errors.PhaseDispatch, offset, length)
	}
	return data, nil
}

func (m *WazeroMemory) Write(offset uint32, data []byte) error {
	ok := m.mem.Write(offset, data)
	if !ok {
		return errors.OutOfBounds(errors.PhaseDispatch, offset, uint32(len(data)))
	}
	return nil
}

func (m *WazeroMemory) Size() uint32 {
	if m.mem == nil {
		return 0
	}
	return m.mem.Size()
}

// ensure grows the memory so that [0, end) is addressable.
func (m *WazeroMemory) ensure(end uint64) error {
	size := uint64(m.Size())
	if end <= size {
		return nil
	}
	pages := (end - size + pageSize - 1) / pageSize
	if pages > 1<<16 {
		return errors.OutOfBounds(errors.PhaseDispatch, uint32(size), uint32(end-size))
	}
	if _, ok := m.mem.Grow(uint32(pages)); !ok {
		return errors.New(errors.PhaseDispatch, errors.KindOutOfBounds).
			Value(end).
			Detail("cannot grow kernel memory to %d bytes", end).
			Build()
	}
	return nil
}

// Compile-time check that WazeroMemory implements kerneldesc.Memory and MemorySizer
var _ kerneldesc.Memory = (*WazeroMemory)(nil)
var _ kerneldesc.MemorySizer = (*WazeroMemory)(nil)
