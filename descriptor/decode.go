package descriptor

import (
	"math"
	"unsafe"

	kerneldesc "github.com/wippyai/kernel-descriptor"
	"github.com/wippyai/kernel-descriptor/errors"
)

// CheckSize returns a fatal layout_mismatch error when buf is not exactly
// one record long.
func CheckSize[T Float](buf []byte) error {
	if len(buf) != Size {
		return errors.LayoutMismatch(errors.PhaseDecode, TypeName[T](), len(buf), Size)
	}
	return nil
}

// Decode reinterprets buf as a record built for precision T. A buffer of
// any other length than Size is a layout contract violation and panics
// with a *errors.Error; it is never truncated or padded.
func Decode[T Float](buf []byte) Descriptor[T] {
	var d Descriptor[T]
	d.UnmarshalBytes(buf)
	return d
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler. Unlike Decode it
// returns the layout_mismatch error instead of panicking.
func (d *Descriptor[T]) UnmarshalBinary(buf []byte) error {
	if err := CheckSize[T](buf); err != nil {
		return err
	}
	d.UnmarshalBytes(buf)
	return nil
}

// UnmarshalBytes reads the record from src field by field. Padding bytes
// are ignored. Panics if src is not exactly Size bytes.
func (d *Descriptor[T]) UnmarshalBytes(src []byte) {
	if err := CheckSize[T](src); err != nil {
		panic(err)
	}
	if isSingle[T]() {
		d.CellSize = T(math.Float32frombits(ByteOrder.Uint32(src[OffsetCellSize:])))
	} else {
		d.CellSize = T(math.Float64frombits(ByteOrder.Uint64(src[OffsetCellSize:])))
	}
	d.NParticle = int64(ByteOrder.Uint64(src[OffsetNParticle:]))
	for i := range d.Stride {
		d.Stride[i] = int64(ByteOrder.Uint64(src[OffsetStride+8*i:]))
	}
}

// UnmarshalUnsafe copies src directly into the record's memory when the Go
// struct has the record layout on this platform, and falls back to
// UnmarshalBytes otherwise.
func (d *Descriptor[T]) UnmarshalUnsafe(src []byte) {
	if !NativeLayout[T]() {
		d.UnmarshalBytes(src)
		return
	}
	if err := CheckSize[T](src); err != nil {
		panic(err)
	}
	copy(unsafe.Slice((*byte)(unsafe.Pointer(d)), Size), src)
}

// DecodeFrom reads one record from foreign memory at offset.
func DecodeFrom[T Float](mem kerneldesc.Memory, offset uint32) (Descriptor[T], error) {
	buf, err := mem.Read(offset, Size)
	if err != nil {
		return Descriptor[T]{}, errors.Wrap(errors.PhaseDecode, errors.KindOutOfBounds, err, "read descriptor")
	}
	if err := CheckSize[T](buf); err != nil {
		return Descriptor[T]{}, err
	}
	return Decode[T](buf), nil
}
