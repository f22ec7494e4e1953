// Package errors provides structured error types for the kernel-descriptor module.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type carries the offending field path, Go type name, value and cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseEncode, errors.KindInvalidInput).
//		Path("n_particle").
//		Value(int64(-1)).
//		Detail("particle count must be non-negative").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.LayoutMismatch(errors.PhaseDecode, "Descriptor[float64]", 39, 40)
//
// Layout mismatches are fatal: they mean the two sides of the boundary were
// built from different record definitions. IsFatal detects them anywhere in a
// cause chain. All errors implement the standard error interface and support
// errors.Is/As.
package errors
