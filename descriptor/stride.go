package descriptor

import (
	"math/bits"

	"github.com/wippyai/kernel-descriptor/errors"
)

// RowMajor returns C-order element strides for a 3-axis mesh shape.
func RowMajor(shape [3]int64) [3]int64 {
	return [3]int64{shape[1] * shape[2], shape[2], 1}
}

// ColumnMajor returns Fortran-order element strides for a 3-axis mesh shape.
func ColumnMajor(shape [3]int64) [3]int64 {
	return [3]int64{1, shape[0], shape[0] * shape[1]}
}

// Strides returns row-major strides for a mesh of one to three axes.
// Missing trailing axes are treated as extent 1, so they get stride 1 and
// the stride triple is always complete.
func Strides(shape ...int64) ([3]int64, error) {
	padded, err := padShape(shape)
	if err != nil {
		return [3]int64{}, err
	}
	if err := checkProduct(shape, padded[1], padded[2]); err != nil {
		return [3]int64{}, err
	}
	return RowMajor(padded), nil
}

// ColumnStrides is Strides for column-major order.
func ColumnStrides(shape ...int64) ([3]int64, error) {
	padded, err := padShape(shape)
	if err != nil {
		return [3]int64{}, err
	}
	if err := checkProduct(shape, padded[0], padded[1]); err != nil {
		return [3]int64{}, err
	}
	return ColumnMajor(padded), nil
}

func padShape(shape []int64) ([3]int64, error) {
	padded := [3]int64{1, 1, 1}
	if len(shape) == 0 || len(shape) > 3 {
		return [3]int64{}, errors.InvalidInput(errors.PhaseEncode, "shape", len(shape),
			"mesh must have 1 to 3 axes")
	}
	for i, n := range shape {
		if n <= 0 {
			return [3]int64{}, errors.New(errors.PhaseEncode, errors.KindInvalidInput).
				Path("shape").
				Value(n).
				Detail("axis %d has extent %d", i, n).
				Build()
		}
		padded[i] = n
	}
	return padded, nil
}

// checkProduct rejects extents whose product, the largest stride, does not
// fit in int64. Both extents are positive.
func checkProduct(shape []int64, a, b int64) error {
	hi, lo := bits.Mul64(uint64(a), uint64(b))
	if hi != 0 || lo > 1<<63-1 {
		return errors.InvalidInput(errors.PhaseEncode, "shape", shape, "stride overflows int64")
	}
	return nil
}
