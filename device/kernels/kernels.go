// Package kernels builds reference PMWD kernels as WebAssembly modules.
//
// The kernels decode the descriptor inside the guest using the same offsets
// as the descriptor package, so they act as an independently compiled
// consumer for cross-boundary tests and for the CLI probe command. Every
// kernel traps when desc_len differs from descriptor.Size.
package kernels

import (
	"github.com/tetratelabs/wazero/api"

	"github.com/wippyai/kernel-descriptor/descriptor"
	"github.com/wippyai/kernel-descriptor/device"
)

// Status codes returned by the reference kernels.
const (
	StatusOK          = 0
	StatusShortBuffer = -1
)

// Entry point parameter indices.
const (
	paramDescPtr = iota
	paramDescLen
	paramBufPtr
	paramBufLen
)

// Probe returns a kernel that decodes the descriptor field by field with
// typed loads and stores each field back into the data buffer at its
// record offset. The data buffer must be at least descriptor.Size bytes.
func Probe[T descriptor.Float]() []byte {
	c := &Code{}
	checkDescLen(c)

	c.LocalGet(paramBufLen).I32Const(descriptor.Size).I32LtU().
		If().I32Const(StatusShortBuffer).Return().End()

	c.LocalGet(paramBufPtr).LocalGet(paramDescPtr)
	if descriptor.Precision[T]() == "f32" {
		c.F32Load(descriptor.OffsetCellSize).F32Store(descriptor.OffsetCellSize)
	} else {
		c.F64Load(descriptor.OffsetCellSize).F64Store(descriptor.OffsetCellSize)
	}
	for off := uint32(descriptor.OffsetNParticle); off < descriptor.Size; off += 8 {
		c.LocalGet(paramBufPtr).LocalGet(paramDescPtr).I64Load(off).I64Store(off)
	}
	c.I32Const(StatusOK)

	return build(c, nil)
}

// FlatIndex returns a kernel that treats the data buffer as n_particle
// triples of int64 mesh coordinates (i, j, k). For each particle it writes
// i*stride[0] + j*stride[1] + k*stride[2] over the triple's first slot and
// returns the number of particles processed. A buffer too small for
// n_particle triples returns StatusShortBuffer; a negative n_particle
// compares as a huge unsigned count and is rejected the same way.
func FlatIndex() []byte {
	const (
		localI = paramBufLen + 1 + iota
		localN
		localP
	)

	c := &Code{}
	checkDescLen(c)

	c.LocalGet(paramDescPtr).I64Load(descriptor.OffsetNParticle).LocalSet(localN)

	// buf_len / 24 < n
	c.LocalGet(paramBufLen).I32Const(24).I32DivU().I64ExtendI32U().
		LocalGet(localN).I64LtU().
		If().I32Const(StatusShortBuffer).Return().End()

	c.LocalGet(paramBufPtr).LocalSet(localP)

	c.Block().Loop()
	c.LocalGet(localI).LocalGet(localN).I64GeU().BrIf(1)

	c.LocalGet(localP)
	for axis := uint32(0); axis < 3; axis++ {
		c.LocalGet(localP).I64Load(8 * axis).
			LocalGet(paramDescPtr).I64Load(descriptor.OffsetStride + 8*axis).
			I64Mul()
		if axis > 0 {
			c.I64Add()
		}
	}
	c.I64Store(0)

	c.LocalGet(localP).I32Const(24).I32Add().LocalSet(localP)
	c.LocalGet(localI).I64Const(1).I64Add().LocalSet(localI)
	c.Br(0)
	c.End().End()

	c.LocalGet(localN).I32WrapI64()

	return build(c, []api.ValueType{api.ValueTypeI64, api.ValueTypeI64, api.ValueTypeI32})
}

// checkDescLen traps unless desc_len is exactly one record.
func checkDescLen(c *Code) {
	c.LocalGet(paramDescLen).I32Const(descriptor.Size).I32Ne().
		If().Unreachable().End()
}

func build(body *Code, locals []api.ValueType) []byte {
	params, results := device.EntrySignature()
	b := NewModuleBuilder(device.MemoryExport)
	b.AddFunc(device.EntryPoint, params, results, locals, body)
	return b.Build()
}
