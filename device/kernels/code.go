package kernels

// Opcodes used by the reference kernels.
const (
	opUnreachable = 0x00
	opBlock       = 0x02
	opLoop        = 0x03
	opIf          = 0x04
	opEnd         = 0x0b
	opBr          = 0x0c
	opBrIf        = 0x0d
	opReturn      = 0x0f
	opLocalGet    = 0x20
	opLocalSet    = 0x21
	opI64Load     = 0x29
	opF32Load     = 0x2a
	opF64Load     = 0x2b
	opI64Store    = 0x37
	opF32Store    = 0x38
	opF64Store    = 0x39
	opI32Const    = 0x41
	opI64Const    = 0x42
	opI32Ne       = 0x47
	opI32LtU      = 0x49
	opI64LtU      = 0x54
	opI64GeU      = 0x5a
	opI32Add      = 0x6a
	opI32DivU     = 0x6e
	opI64Add      = 0x7c
	opI64Mul      = 0x7e
	opI32WrapI64  = 0xa7
	opI64ExtendU  = 0xad

	blockTypeEmpty = 0x40
)

// Code accumulates a function body.
type Code struct {
	buf []byte
}

func (c *Code) Bytes() []byte { return c.buf }

func (c *Code) op(ops ...byte) *Code {
	c.buf = append(c.buf, ops...)
	return c
}

func (c *Code) LocalGet(idx uint32) *Code {
	c.buf = append(c.buf, opLocalGet)
	c.buf = append(c.buf, EncodeULEB128(idx)...)
	return c
}

func (c *Code) LocalSet(idx uint32) *Code {
	c.buf = append(c.buf, opLocalSet)
	c.buf = append(c.buf, EncodeULEB128(idx)...)
	return c
}

func (c *Code) I32Const(v int32) *Code {
	c.buf = append(c.buf, opI32Const)
	c.buf = append(c.buf, EncodeSLEB128(v)...)
	return c
}

func (c *Code) I64Const(v int64) *Code {
	c.buf = append(c.buf, opI64Const)
	c.buf = append(c.buf, EncodeSLEB128(v)...)
	return c
}

// mem emits a load or store with a natural alignment hint.
func (c *Code) mem(op byte, alignLog2, offset uint32) *Code {
	c.buf = append(c.buf, op)
	c.buf = append(c.buf, EncodeULEB128(alignLog2)...)
	c.buf = append(c.buf, EncodeULEB128(offset)...)
	return c
}

func (c *Code) I64Load(offset uint32) *Code { return c.mem(opI64Load, 3, offset) }
func (c *Code) I64Store(offset uint32) *Code { return c.mem(opI64Store, 3, offset) }
func (c *Code) F32Load(offset uint32) *Code { return c.mem(opF32Load, 2, offset) }
func (c *Code) F32Store(offset uint32) *Code { return c.mem(opF32Store, 2, offset) }
func (c *Code) F64Load(offset uint32) *Code { return c.mem(opF64Load, 3, offset) }
func (c *Code) F64Store(offset uint32) *Code { return c.mem(opF64Store, 3, offset) }

// If opens a block-typed if with no result; close it with End.
func (c *Code) If() *Code { return c.op(opIf, blockTypeEmpty) }
func (c *Code) Block() *Code { return c.op(opBlock, blockTypeEmpty) }
func (c *Code) Loop() *Code { return c.op(opLoop, blockTypeEmpty) }
func (c *Code) End() *Code { return c.op(opEnd) }

func (c *Code) Br(depth uint32) *Code {
	c.buf = append(c.buf, opBr)
	c.buf = append(c.buf, EncodeULEB128(depth)...)
	return c
}

func (c *Code) BrIf(depth uint32) *Code {
	c.buf = append(c.buf, opBrIf)
	c.buf = append(c.buf, EncodeULEB128(depth)...)
	return c
}

func (c *Code) Return() *Code { return c.op(opReturn) }
func (c *Code) Unreachable() *Code { return c.op(opUnreachable) }
func (c *Code) I32Ne() *Code { return c.op(opI32Ne) }
func (c *Code) I32LtU() *Code { return c.op(opI32LtU) }
func (c *Code) I32Add() *Code { return c.op(opI32Add) }
func (c *Code) I32DivU() *Code { return c.op(opI32DivU) }
func (c *Code) I64LtU() *Code { return c.op(opI64LtU) }
func (c *Code) I64GeU() *Code { return c.op(opI64GeU) }
func (c *Code) I64Add() *Code { return c.op(opI64Add) }
func (c *Code) I64Mul() *Code { return c.op(opI64Mul) }
func (c *Code) I32WrapI64() *Code { return c.op(opI32WrapI64) }
func (c *Code) I64ExtendI32U() *Code { return c.op(opI64ExtendU) }
