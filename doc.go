// Package kerneldesc carries simulation-kernel metadata across a foreign-call
// boundary that only transports opaque byte buffers.
//
// The producer (host orchestration) and the consumer (a separately compiled
// kernel, possibly in another address space) share one fixed-layout record,
// the PMWD descriptor. Compatibility is guaranteed by both sides being built
// from the same layout definition; nothing in the buffer identifies it.
//
// # Architecture Overview
//
//	kerneldesc/          Root package with the foreign Memory interface
//	├── descriptor/      Record definition, encoder, decoder, stride helpers
//	├── device/          wazero-backed dispatch of descriptors to WASM kernels
//	│   └── kernels/     Reference guest kernels that decode the record in-guest
//	├── errors/          Structured error types
//	└── cmd/pmwdesc/     Command line encoder, decoder and layout inspector
//
// # Quick Start
//
// Encode on the host side:
//
//	buf, err := descriptor.Encode[float32](2.5, 1000, []int64{1, 3, 9})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Decode on the kernel side, built against the same precision:
//
//	d := descriptor.Decode[float32](buf)
//	fmt.Println(d.CellSize, d.NParticle, d.Stride) // 2.5 1000 [1 3 9]
//
// # Record Layout
//
// Both precisions occupy 40 bytes with 8-byte alignment:
//
//	offset  0  cell_size   f32 (+4 padding) or f64
//	offset  8  n_particle  s64
//	offset 16  stride      [3]s64
//
// Bytes are little-endian, which matches WASM linear memory and the in-memory
// representation on every little-endian host.
//
// # Thread Safety
//
// Descriptors are plain values. Each kernel invocation must own its buffer;
// buffers are never shared across in-flight calls. Device is safe for
// concurrent use, and every Kernel.Invoke runs in a private module instance.
package kerneldesc
