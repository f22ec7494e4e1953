package descriptor

import (
	stderrors "errors"
	"math"
	"testing"

	"github.com/wippyai/kernel-descriptor/errors"
)

var errInvalidInput = &errors.Error{Phase: errors.PhaseEncode, Kind: errors.KindInvalidInput}

func TestEncodeDecode_Scenario(t *testing.T) {
	t.Run("f32", func(t *testing.T) {
		buf, err := Encode[float32](2.5, 1000, []int64{1, 3, 9})
		if err != nil {
			t.Fatalf("Encode: %v", err)
		}
		d := Decode[float32](buf)
		if d.CellSize != 2.5 || d.NParticle != 1000 || d.Stride != [3]int64{1, 3, 9} {
			t.Errorf("decoded %v", d)
		}
	})

	t.Run("f64", func(t *testing.T) {
		buf, err := Encode[float64](2.5, 1000, []int64{1, 3, 9})
		if err != nil {
			t.Fatalf("Encode: %v", err)
		}
		d := Decode[float64](buf)
		if d.CellSize != 2.5 || d.NParticle != 1000 || d.Stride != [3]int64{1, 3, 9} {
			t.Errorf("decoded %v", d)
		}
	})
}

func TestRoundTrip(t *testing.T) {
	cases := []struct {
		name   string
		cell   float64
		n      int64
		stride [3]int64
	}{
		{"zero particles", 1, 0, [3]int64{1, 1, 1}},
		{"degenerate strides", 0.25, 7, [3]int64{0, 0, 1}},
		{"large count", 1e-3, math.MaxInt64, [3]int64{1 << 40, 1 << 20, 1}},
		{"negative stride", 3, 12, [3]int64{-1, 4, 16}},
		{"negative cell", -2, 1, [3]int64{16, 4, 1}},
		{"infinite cell", math.Inf(1), 1, [3]int64{1, 2, 3}},
	}

	for _, tc := range cases {
		t.Run(tc.name+"/f32", func(t *testing.T) {
			roundTrip(t, float32(tc.cell), tc.n, tc.stride)
		})
		t.Run(tc.name+"/f64", func(t *testing.T) {
			roundTrip(t, tc.cell, tc.n, tc.stride)
		})
	}
}

func roundTrip[T Float](t *testing.T, cell T, n int64, stride [3]int64) {
	t.Helper()
	buf, err := Encode(cell, n, stride[:])
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if len(buf) != Size {
		t.Fatalf("len = %d, want %d", len(buf), Size)
	}
	want := Descriptor[T]{CellSize: cell, NParticle: n, Stride: stride}
	if got := Decode[T](buf); !got.Equal(want) {
		t.Errorf("Decode = %v, want %v", got, want)
	}
}

func TestRoundTrip_NaN(t *testing.T) {
	nan := math.Float64frombits(0x7ff8000000000001)
	buf, err := Encode(nan, 1, []int64{1, 1, 1})
	if err != nil {
		t.Fatal(err)
	}
	got := Decode[float64](buf)
	if math.Float64bits(got.CellSize) != 0x7ff8000000000001 {
		t.Errorf("NaN payload not preserved: %#x", math.Float64bits(got.CellSize))
	}
}

func TestEncode_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		n      int64
		stride []int64
	}{
		{"negative count", "n_particle", -1, []int64{1, 3, 9}},
		{"min int64 count", "n_particle", math.MinInt64, []int64{1, 3, 9}},
		{"short stride", "stride", 10, []int64{1, 3}},
		{"long stride", "stride", 10, []int64{1, 3, 9, 27}},
		{"nil stride", "stride", 10, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf, err := Encode[float32](1, tt.n, tt.stride)
			if err == nil {
				t.Fatal("expected error")
			}
			if buf != nil {
				t.Errorf("buffer produced on failure: %x", buf)
			}
			if !stderrors.Is(err, errInvalidInput) {
				t.Errorf("error = %v, want invalid_input", err)
			}
			var e *errors.Error
			if !stderrors.As(err, &e) {
				t.Fatalf("error %T is not *errors.Error", err)
			}
			if len(e.Path) != 1 || e.Path[0] != tt.path {
				t.Errorf("error path = %v, want %s", e.Path, tt.path)
			}
			if errors.IsFatal(err) {
				t.Error("validation failure must not be fatal")
			}
		})
	}
}

func TestDecode_WrongLengthIsFatal(t *testing.T) {
	for _, n := range []int{0, 1, Size - 1, Size + 1, SealedSize} {
		func() {
			defer func() {
				r := recover()
				if r == nil {
					t.Fatalf("len %d: Decode did not panic", n)
				}
				err, ok := r.(error)
				if !ok || !errors.IsFatal(err) {
					t.Errorf("len %d: panic value %v is not a fatal layout error", n, r)
				}
			}()
			Decode[float64](make([]byte, n))
		}()
	}
}

func TestCheckSize(t *testing.T) {
	if err := CheckSize[float32](make([]byte, Size)); err != nil {
		t.Errorf("CheckSize(Size) = %v", err)
	}
	err := CheckSize[float32](make([]byte, 32))
	if err == nil || !errors.IsFatal(err) {
		t.Errorf("CheckSize(32) = %v, want fatal layout mismatch", err)
	}
}

func TestBinaryMarshaler(t *testing.T) {
	in := Descriptor64{CellSize: 0.5, NParticle: 64, Stride: RowMajor([3]int64{4, 4, 4})}
	buf, err := in.MarshalBinary()
	if err != nil {
		t.Fatal(err)
	}

	var out Descriptor64
	if err := out.UnmarshalBinary(buf); err != nil {
		t.Fatal(err)
	}
	if !out.Equal(in) {
		t.Errorf("got %v, want %v", out, in)
	}

	if err := out.UnmarshalBinary(buf[:Size-8]); !errors.IsFatal(err) {
		t.Errorf("short buffer: err = %v, want fatal", err)
	}

	bad := Descriptor64{NParticle: -5}
	if _, err := bad.MarshalBinary(); !stderrors.Is(err, errInvalidInput) {
		t.Errorf("MarshalBinary(-5) err = %v", err)
	}
}

func TestAppendBinary(t *testing.T) {
	d := Descriptor32{CellSize: 1, NParticle: 2, Stride: [3]int64{3, 4, 5}}
	prefix := []byte{0xaa, 0xbb}
	out, err := d.AppendBinary(prefix)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 2+Size || out[0] != 0xaa {
		t.Fatalf("unexpected output %x", out)
	}
	if got := Decode[float32](out[2:]); !got.Equal(d) {
		t.Errorf("got %v, want %v", got, d)
	}
}

func TestMarshalBytes_ZeroesPadding(t *testing.T) {
	buf := make([]byte, Size)
	for i := range buf {
		buf[i] = 0xff
	}
	d := Descriptor32{CellSize: 1, NParticle: 1, Stride: [3]int64{1, 1, 1}}
	d.MarshalBytes(buf)
	for i := 4; i < OffsetNParticle; i++ {
		if buf[i] != 0 {
			t.Errorf("padding byte %d = %#x, want 0", i, buf[i])
		}
	}
}

func TestMarshalBytes_DoesNotAllocate(t *testing.T) {
	d := Descriptor64{CellSize: 2, NParticle: 3, Stride: [3]int64{4, 5, 6}}
	buf := make([]byte, Size)
	allocs := testing.AllocsPerRun(100, func() {
		d.MarshalBytes(buf)
		var out Descriptor64
		out.UnmarshalBytes(buf)
	})
	if allocs != 0 {
		t.Errorf("allocs = %v, want 0", allocs)
	}
}

func TestUnsafeMatchesBytes(t *testing.T) {
	d := Descriptor32{CellSize: 2.5, NParticle: 1000, Stride: [3]int64{1, 3, 9}}

	safe := make([]byte, Size)
	d.MarshalBytes(safe)
	fast := make([]byte, Size)
	d.MarshalUnsafe(fast)
	if string(safe) != string(fast) {
		t.Errorf("MarshalUnsafe = %x, MarshalBytes = %x", fast, safe)
	}

	var out Descriptor32
	out.UnmarshalUnsafe(safe)
	if !out.Equal(d) {
		t.Errorf("UnmarshalUnsafe = %v, want %v", out, d)
	}
}

func TestString(t *testing.T) {
	d := Descriptor32{CellSize: 2.5, NParticle: 1000, Stride: [3]int64{1, 3, 9}}
	want := "Descriptor[float32]{cell_size=2.5 n_particle=1000 stride=[1 3 9]}"
	if got := d.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
