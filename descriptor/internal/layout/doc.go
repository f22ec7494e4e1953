// Package layout computes natural-alignment layouts for descriptor records.
//
// Records are declared as WIT types and laid out with the Canonical ABI
// rules, which coincide with C natural alignment for the scalar and tuple
// types descriptors use:
//   - Primitives: size equals alignment (s64=8, f32=4, f64=8, ...)
//   - Records and tuples: members laid out in order, each aligned to its
//     own alignment, total size rounded up to the largest alignment
//
// # Usage
//
//	info := layout.NewCalculator().Calculate(recordTypeDef)
//	// info.Size, info.Align, info.Fields available
//
// This package is internal to the descriptor package.
package layout
