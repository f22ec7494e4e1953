package descriptor

import (
	"fmt"
	"hash/crc32"
	"strings"
	"unsafe"

	"go.bytecodealliance.org/wit"

	"github.com/wippyai/kernel-descriptor/descriptor/internal/layout"
	"github.com/wippyai/kernel-descriptor/errors"
)

// Record layout. Identical for both precisions: a float32 cell size is
// followed by 4 bytes of padding so NParticle stays 8-byte aligned.
const (
	Size  = 40
	Align = 8

	OffsetCellSize  = 0
	OffsetNParticle = 8
	OffsetStride    = 16
)

// Field describes one member of the record as laid out in memory.
type Field struct {
	Name   string
	Type   string
	Offset int
	Size   int
}

var (
	layout32 = layout.NewCalculator().Calculate(recordType(wit.F32{}))
	layout64 = layout.NewCalculator().Calculate(recordType(wit.F64{}))

	fingerprint32 = fingerprint(layout32)
	fingerprint64 = fingerprint(layout64)
)

func init() {
	for _, info := range []layout.Info{layout32, layout64} {
		if err := checkConstants(info); err != nil {
			panic(err)
		}
	}
}

// recordType declares the descriptor as a WIT record. This declaration is
// the single source the constants above and guest kernels are checked against.
func recordType(cell wit.Type) *wit.TypeDef {
	stride := &wit.TypeDef{Kind: &wit.Tuple{Types: []wit.Type{wit.S64{}, wit.S64{}, wit.S64{}}}}
	return &wit.TypeDef{Kind: &wit.Record{
		Fields: []wit.Field{
			{Name: "cell-size", Type: cell},
			{Name: "n-particle", Type: wit.S64{}},
			{Name: "stride", Type: stride},
		},
	}}
}

func checkConstants(info layout.Info) error {
	if info.Size != Size || info.Align != Align {
		return errors.New(errors.PhaseLayout, errors.KindLayoutMismatch).
			Detail("calculated size %d align %d, declared %d and %d", info.Size, info.Align, Size, Align).
			Build()
	}
	want := map[string]uint32{
		"cell-size":  OffsetCellSize,
		"n-particle": OffsetNParticle,
		"stride":     OffsetStride,
	}
	for name, off := range want {
		if got, ok := info.FieldOffs[name]; !ok || got != off {
			return errors.FieldDrift("pmwd-descriptor", name, uintptr(got), uintptr(off))
		}
	}
	return nil
}

func layoutFor[T Float]() layout.Info {
	if isSingle[T]() {
		return layout32
	}
	return layout64
}

// Layout returns the calculated field table for the given precision.
func Layout[T Float]() []Field {
	info := layoutFor[T]()
	fields := make([]Field, len(info.Fields))
	for i, f := range info.Fields {
		fields[i] = Field{
			Name:   f.Name,
			Type:   witName(f.Type),
			Offset: int(f.Offset),
			Size:   int(f.Size),
		}
	}
	return fields
}

// Padding returns the number of unused bytes in the record.
func Padding[T Float]() int {
	return int(layoutFor[T]().Padding())
}

// Fingerprint identifies the layout and precision. Producer and consumer
// built from the same definition compute the same value.
func Fingerprint[T Float]() uint32 {
	if isSingle[T]() {
		return fingerprint32
	}
	return fingerprint64
}

func fingerprint(info layout.Info) uint32 {
	var b strings.Builder
	b.WriteString("pmwd-descriptor{")
	for i, f := range info.Fields {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, "%s:%s@%d/%d", f.Name, witName(f.Type), f.Offset, f.Size)
	}
	fmt.Fprintf(&b, "}size=%d,align=%d", info.Size, info.Align)
	return crc32.ChecksumIEEE([]byte(b.String()))
}

func witName(t wit.Type) string {
	switch typ := t.(type) {
	case wit.F32:
		return "f32"
	case wit.F64:
		return "f64"
	case wit.S64:
		return "s64"
	case *wit.TypeDef:
		if tuple, ok := typ.Kind.(*wit.Tuple); ok {
			names := make([]string, len(tuple.Types))
			for i, e := range tuple.Types {
				names[i] = witName(e)
			}
			return "tuple<" + strings.Join(names, ",") + ">"
		}
	}
	return fmt.Sprintf("%T", t)
}

// NativeLayout reports whether the Go struct for T has the record layout
// on this platform, which allows MarshalUnsafe to copy memory directly.
// It is false on 32-bit platforms where int64 is only 4-byte aligned.
func NativeLayout[T Float]() bool {
	var d Descriptor[T]
	return unsafe.Sizeof(d) == Size &&
		unsafe.Offsetof(d.CellSize) == OffsetCellSize &&
		unsafe.Offsetof(d.NParticle) == OffsetNParticle &&
		unsafe.Offsetof(d.Stride) == OffsetStride &&
		littleEndianHost
}
