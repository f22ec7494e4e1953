package descriptor

import (
	"fmt"
	"structs"
	"unsafe"

	"github.com/wippyai/kernel-descriptor/errors"
)

// Float is the set of cell size precisions a kernel can be built for.
type Float interface {
	~float32 | ~float64
}

// Descriptor is the per-call kernel metadata record.
type Descriptor[T Float] struct {
	_ structs.HostLayout

	// CellSize is the mesh spacing used to interpret coordinate data.
	CellSize T
	// NParticle is the number of particles the kernel processes.
	NParticle int64
	// Stride is the element stride along each of the three mesh axes.
	Stride [3]int64
}

// Descriptor32 and Descriptor64 are the two supported kernel builds.
type (
	Descriptor32 = Descriptor[float32]
	Descriptor64 = Descriptor[float64]
)

// New builds a validated descriptor. stride must have exactly three
// entries; unused axes of lower-dimensional meshes carry degenerate strides.
func New[T Float](cellSize T, nParticle int64, stride []int64) (Descriptor[T], error) {
	var d Descriptor[T]
	if len(stride) != 3 {
		return d, errors.New(errors.PhaseEncode, errors.KindInvalidInput).
			Path("stride").
			GoType(TypeName[T]()).
			Value(len(stride)).
			Detail("want 3 entries, got %d", len(stride)).
			Build()
	}
	d.CellSize = cellSize
	d.NParticle = nParticle
	copy(d.Stride[:], stride)
	if err := d.Validate(); err != nil {
		return Descriptor[T]{}, err
	}
	return d, nil
}

// Validate checks the producer-side invariants.
func (d *Descriptor[T]) Validate() error {
	if d.NParticle < 0 {
		return errors.New(errors.PhaseEncode, errors.KindInvalidInput).
			Path("n_particle").
			GoType(TypeName[T]()).
			Value(d.NParticle).
			Detail("particle count %d is negative", d.NParticle).
			Build()
	}
	return nil
}

// Equal reports whether two descriptors carry the same field values.
// CellSize is compared bitwise so NaN payloads round-trip as equal.
func (d Descriptor[T]) Equal(o Descriptor[T]) bool {
	return cellBits(d.CellSize) == cellBits(o.CellSize) &&
		d.NParticle == o.NParticle &&
		d.Stride == o.Stride
}

func (d Descriptor[T]) String() string {
	return fmt.Sprintf("%s{cell_size=%v n_particle=%d stride=%v}",
		TypeName[T](), d.CellSize, d.NParticle, d.Stride)
}

// TypeName returns the instantiated type name, e.g. "Descriptor[float32]".
func TypeName[T Float]() string {
	var zero T
	return fmt.Sprintf("Descriptor[%T]", zero)
}

// Precision returns the WIT name of the cell size type, "f32" or "f64".
func Precision[T Float]() string {
	if isSingle[T]() {
		return "f32"
	}
	return "f64"
}

func isSingle[T Float]() bool {
	var zero T
	return unsafe.Sizeof(zero) == 4
}
