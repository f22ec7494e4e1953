package descriptor

import (
	"encoding/binary"
	"math"
	"unsafe"

	kerneldesc "github.com/wippyai/kernel-descriptor"
	"github.com/wippyai/kernel-descriptor/errors"
)

// ByteOrder is the byte order of every multi-byte field in the record.
var ByteOrder = binary.LittleEndian

var littleEndianHost = binary.NativeEndian.Uint16([]byte{1, 0}) == 1

// Encode validates the parameters and returns the record as exactly Size
// bytes. No buffer is returned when validation fails.
func Encode[T Float](cellSize T, nParticle int64, stride []int64) ([]byte, error) {
	d, err := New(cellSize, nParticle, stride)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, Size)
	d.MarshalBytes(buf)
	return buf, nil
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (d *Descriptor[T]) MarshalBinary() ([]byte, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	buf := make([]byte, Size)
	d.MarshalBytes(buf)
	return buf, nil
}

// AppendBinary appends the encoded record to b.
func (d *Descriptor[T]) AppendBinary(b []byte) ([]byte, error) {
	if err := d.Validate(); err != nil {
		return b, err
	}
	n := len(b)
	b = append(b, make([]byte, Size)...)
	d.MarshalBytes(b[n:])
	return b, nil
}

// SizeBytes returns the encoded size of the record.
func (d *Descriptor[T]) SizeBytes() int {
	return Size
}

// MarshalBytes writes the record into dst field by field. dst must be
// exactly Size bytes. Padding bytes are zeroed. It does not validate.
func (d *Descriptor[T]) MarshalBytes(dst []byte) {
	if len(dst) != Size {
		panic(errors.LayoutMismatch(errors.PhaseEncode, TypeName[T](), len(dst), Size))
	}
	if isSingle[T]() {
		ByteOrder.PutUint32(dst[OffsetCellSize:], math.Float32bits(float32(d.CellSize)))
		clear(dst[OffsetCellSize+4 : OffsetNParticle])
	} else {
		ByteOrder.PutUint64(dst[OffsetCellSize:], math.Float64bits(float64(d.CellSize)))
	}
	ByteOrder.PutUint64(dst[OffsetNParticle:], uint64(d.NParticle))
	for i, s := range d.Stride {
		ByteOrder.PutUint64(dst[OffsetStride+8*i:], uint64(s))
	}
}

// MarshalUnsafe copies the record's memory into dst when the Go struct has
// the record layout on this platform, and falls back to MarshalBytes
// otherwise.
func (d *Descriptor[T]) MarshalUnsafe(dst []byte) {
	if !NativeLayout[T]() {
		d.MarshalBytes(dst)
		return
	}
	if len(dst) != Size {
		panic(errors.LayoutMismatch(errors.PhaseEncode, TypeName[T](), len(dst), Size))
	}
	copy(dst, unsafe.Slice((*byte)(unsafe.Pointer(d)), Size))
	if isSingle[T]() {
		clear(dst[OffsetCellSize+4 : OffsetNParticle])
	}
}

// EncodeTo validates d and writes it into foreign memory at offset.
func (d *Descriptor[T]) EncodeTo(mem kerneldesc.Memory, offset uint32) error {
	if err := d.Validate(); err != nil {
		return err
	}
	var buf [Size]byte
	d.MarshalBytes(buf[:])
	if err := mem.Write(offset, buf[:]); err != nil {
		return errors.Wrap(errors.PhaseEncode, errors.KindOutOfBounds, err, "write descriptor")
	}
	return nil
}

func cellBits[T Float](v T) uint64 {
	if isSingle[T]() {
		return uint64(math.Float32bits(float32(v)))
	}
	return math.Float64bits(float64(v))
}
