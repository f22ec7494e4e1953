package descriptor

import (
	stderrors "errors"
	"testing"

	"github.com/wippyai/kernel-descriptor/errors"
)

func TestSealOpen(t *testing.T) {
	sealed, err := EncodeSealed[float64](2.5, 1000, []int64{1, 3, 9})
	if err != nil {
		t.Fatal(err)
	}
	if len(sealed) != SealedSize {
		t.Fatalf("len = %d, want %d", len(sealed), SealedSize)
	}

	d, err := DecodeSealed[float64](sealed)
	if err != nil {
		t.Fatal(err)
	}
	if d.CellSize != 2.5 || d.NParticle != 1000 || d.Stride != [3]int64{1, 3, 9} {
		t.Errorf("decoded %v", d)
	}

	record, err := Open[float64](sealed)
	if err != nil {
		t.Fatal(err)
	}
	plain, _ := Encode[float64](2.5, 1000, []int64{1, 3, 9})
	if string(record) != string(plain) {
		t.Error("sealed record bytes differ from the plain encoding")
	}
}

func TestOpen_Rejects(t *testing.T) {
	fresh := func() []byte {
		b, err := EncodeSealed[float32](1, 8, []int64{4, 2, 1})
		if err != nil {
			t.Fatal(err)
		}
		return b
	}

	tests := []struct {
		name   string
		mutate func([]byte) []byte
		kind   errors.Kind
		fatal  bool
	}{
		{"truncated", func(b []byte) []byte { return b[:Size] }, errors.KindLayoutMismatch, true},
		{"bad magic", func(b []byte) []byte { b[Size] ^= 0xff; return b }, errors.KindVersion, false},
		{"bad version", func(b []byte) []byte { b[Size+4] = 9; return b }, errors.KindVersion, false},
		{"reserved set", func(b []byte) []byte { b[Size+7] = 1; return b }, errors.KindVersion, false},
		{"flipped record bit", func(b []byte) []byte { b[OffsetNParticle] ^= 1; return b }, errors.KindChecksum, false},
		{"flipped checksum", func(b []byte) []byte { b[Size+12] ^= 1; return b }, errors.KindChecksum, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Open[float32](tt.mutate(fresh()))
			var e *errors.Error
			if !stderrors.As(err, &e) {
				t.Fatalf("err = %v, want *errors.Error", err)
			}
			if e.Kind != tt.kind {
				t.Errorf("kind = %s, want %s", e.Kind, tt.kind)
			}
			if errors.IsFatal(err) != tt.fatal {
				t.Errorf("IsFatal = %v, want %v", errors.IsFatal(err), tt.fatal)
			}
		})
	}
}

func TestOpen_PrecisionMismatchIsFatal(t *testing.T) {
	sealed, err := EncodeSealed[float32](1, 8, []int64{4, 2, 1})
	if err != nil {
		t.Fatal(err)
	}
	_, err = Open[float64](sealed)
	if !errors.IsFatal(err) {
		t.Errorf("opening an f32 record as f64: err = %v, want fatal", err)
	}
}

func TestSeal_WrongLength(t *testing.T) {
	if _, err := Seal[float32](make([]byte, 12)); !errors.IsFatal(err) {
		t.Errorf("err = %v, want fatal", err)
	}
}
