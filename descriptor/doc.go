// Package descriptor defines the PMWD kernel descriptor and its byte codec.
//
// A Descriptor is a fixed-layout record passed as an opaque buffer from the
// orchestration layer to a compute kernel:
//
//	type Descriptor[T Float] struct {
//	    CellSize  T         // offset 0
//	    NParticle int64     // offset 8
//	    Stride    [3]int64  // offset 16
//	}
//
// The precision of CellSize is chosen at build time by instantiating
// Descriptor[float32] or Descriptor[float64]; producer and consumer must
// agree on it. The record carries no version, length or precision tag.
//
// # Encoding
//
// Encode validates the inputs and returns exactly Size bytes. MarshalBytes
// writes into a caller-owned buffer and allocates nothing:
//
//	buf, err := descriptor.Encode[float64](0.5, n, []int64{1, 64, 4096})
//
// # Decoding
//
// Decode reinterprets a buffer of exactly Size bytes. Any other length means
// the two sides were built from different definitions and Decode panics with
// a layout_mismatch error. Boundary code that must fail a call instead of the
// process uses CheckSize first.
//
// # Sealed Buffers
//
// Seal and Open add an optional 16-byte trailer with a layout fingerprint and
// a CRC-32C of the record. Both sides must opt in; the plain record remains
// the default wire format.
package descriptor
