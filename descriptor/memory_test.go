package descriptor

import (
	"fmt"
	"testing"

	"github.com/wippyai/kernel-descriptor/errors"
)

type testMem struct {
	data []byte
}

func (m *testMem) Read(offset uint32, length uint32) ([]byte, error) {
	if uint64(offset)+uint64(length) > uint64(len(m.data)) {
		return nil, fmt.Errorf("read out of bounds: offset=%d, length=%d", offset, length)
	}
	return m.data[offset : offset+length], nil
}

func (m *testMem) Write(offset uint32, data []byte) error {
	if uint64(offset)+uint64(len(data)) > uint64(len(m.data)) {
		return fmt.Errorf("write out of bounds: offset=%d, length=%d", offset, len(data))
	}
	copy(m.data[offset:], data)
	return nil
}

func TestEncodeToDecodeFrom(t *testing.T) {
	mem := &testMem{data: make([]byte, 256)}
	in := Descriptor64{CellSize: 0.125, NParticle: 4096, Stride: [3]int64{256, 16, 1}}

	if err := in.EncodeTo(mem, 64); err != nil {
		t.Fatal(err)
	}
	out, err := DecodeFrom[float64](mem, 64)
	if err != nil {
		t.Fatal(err)
	}
	if !out.Equal(in) {
		t.Errorf("got %v, want %v", out, in)
	}
}

func TestEncodeTo_Errors(t *testing.T) {
	mem := &testMem{data: make([]byte, 48)}

	in := Descriptor32{CellSize: 1, NParticle: 1}
	err := in.EncodeTo(mem, 16)
	if err == nil {
		t.Fatal("expected out of bounds error")
	}
	if !errorsIsKind(err, errors.KindOutOfBounds) {
		t.Errorf("err = %v, want out_of_bounds", err)
	}

	bad := Descriptor32{NParticle: -1}
	if err := bad.EncodeTo(mem, 0); !errorsIsKind(err, errors.KindInvalidInput) {
		t.Errorf("err = %v, want invalid_input", err)
	}

	if _, err := DecodeFrom[float32](mem, 40); !errorsIsKind(err, errors.KindOutOfBounds) {
		t.Errorf("DecodeFrom err = %v, want out_of_bounds", err)
	}
}

type shortMem struct {
	testMem
}

func (m *shortMem) Read(offset uint32, length uint32) ([]byte, error) {
	buf, err := m.testMem.Read(offset, length)
	if err != nil {
		return nil, err
	}
	return buf[:length/2], nil
}

func TestDecodeFrom_ShortRead(t *testing.T) {
	mem := &shortMem{testMem{data: make([]byte, 64)}}

	_, err := DecodeFrom[float64](mem, 0)
	if !errorsIsKind(err, errors.KindLayoutMismatch) {
		t.Fatalf("err = %v, want layout_mismatch", err)
	}
	if !errors.IsFatal(err) {
		t.Error("short read should be fatal")
	}
}

func errorsIsKind(err error, kind errors.Kind) bool {
	e, ok := err.(*errors.Error)
	return ok && e.Kind == kind
}
