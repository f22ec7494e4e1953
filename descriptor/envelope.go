package descriptor

import (
	"hash/crc32"

	"github.com/wippyai/kernel-descriptor/errors"
)

// Sealed buffer trailer, appended after the record:
//
//	offset 0   magic        u32  "PMWD"
//	offset 4   version      u16
//	offset 6   reserved     u16  zero
//	offset 8   fingerprint  u32  Fingerprint[T]()
//	offset 12  checksum     u32  CRC-32C of the record bytes
const (
	TrailerSize    = 16
	SealedSize     = Size + TrailerSize
	Magic          = 0x44574d50
	TrailerVersion = 1
)

var castagnoli = crc32.MakeTable(crc32.Castagnoli)

// Seal returns the record followed by a trailer identifying its layout and
// checksum. record must be exactly Size bytes.
func Seal[T Float](record []byte) ([]byte, error) {
	if len(record) != Size {
		return nil, errors.LayoutMismatch(errors.PhaseEncode, TypeName[T](), len(record), Size)
	}
	out := make([]byte, SealedSize)
	copy(out, record)
	t := out[Size:]
	ByteOrder.PutUint32(t[0:], Magic)
	ByteOrder.PutUint16(t[4:], TrailerVersion)
	ByteOrder.PutUint32(t[8:], Fingerprint[T]())
	ByteOrder.PutUint32(t[12:], crc32.Checksum(record, castagnoli))
	return out, nil
}

// EncodeSealed is Encode followed by Seal.
func EncodeSealed[T Float](cellSize T, nParticle int64, stride []int64) ([]byte, error) {
	record, err := Encode(cellSize, nParticle, stride)
	if err != nil {
		return nil, err
	}
	return Seal[T](record)
}

// Open verifies a sealed buffer and returns the record bytes, which alias
// sealed. A wrong length or fingerprint is a fatal layout_mismatch.
func Open[T Float](sealed []byte) ([]byte, error) {
	if len(sealed) != SealedSize {
		return nil, errors.LayoutMismatch(errors.PhaseValidate, TypeName[T](), len(sealed), SealedSize)
	}
	record, t := sealed[:Size], sealed[Size:]

	if magic := ByteOrder.Uint32(t[0:]); magic != Magic {
		return nil, errors.New(errors.PhaseValidate, errors.KindVersion).
			Value(magic).
			Detail("bad trailer magic %#08x", magic).
			Build()
	}
	if v := ByteOrder.Uint16(t[4:]); v != TrailerVersion {
		return nil, errors.New(errors.PhaseValidate, errors.KindVersion).
			Value(v).
			Detail("trailer version %d, want %d", v, TrailerVersion).
			Build()
	}
	if r := ByteOrder.Uint16(t[6:]); r != 0 {
		return nil, errors.New(errors.PhaseValidate, errors.KindVersion).
			Value(r).
			Detail("reserved trailer field is %#04x, want 0", r).
			Build()
	}
	if fp := ByteOrder.Uint32(t[8:]); fp != Fingerprint[T]() {
		return nil, errors.New(errors.PhaseValidate, errors.KindLayoutMismatch).
			GoType(TypeName[T]()).
			Value(fp).
			Detail("layout fingerprint %#08x, want %#08x", fp, Fingerprint[T]()).
			Build()
	}
	if sum := crc32.Checksum(record, castagnoli); sum != ByteOrder.Uint32(t[12:]) {
		return nil, errors.New(errors.PhaseValidate, errors.KindChecksum).
			Value(sum).
			Detail("record checksum %#08x, trailer has %#08x", sum, ByteOrder.Uint32(t[12:])).
			Build()
	}
	return record, nil
}

// DecodeSealed is Open followed by Decode.
func DecodeSealed[T Float](sealed []byte) (Descriptor[T], error) {
	record, err := Open[T](sealed)
	if err != nil {
		return Descriptor[T]{}, err
	}
	return Decode[T](record), nil
}
