package device

import (
	"strings"

	"github.com/tetratelabs/wazero/api"
)

// Kernel module ABI. A kernel module exports its linear memory and one
// entry point taking the descriptor and one raw data buffer:
//
//	(func (export "pmwd_kernel")
//	  (param $desc_ptr i32) (param $desc_len i32)
//	  (param $buf_ptr i32) (param $buf_len i32)
//	  (result i32))
//
// The descriptor bytes are delivered as the producer wrote them. The kernel
// is responsible for rejecting a desc_len other than the record size, by
// trapping, because that means it was built against a different layout.
const (
	EntryPoint   = "pmwd_kernel"
	MemoryExport = "memory"

	// DescOffset is where the descriptor is placed in guest memory. The data
	// buffer follows at the next DataAlign boundary.
	DescOffset = 1024
	DataAlign  = 16

	pageSize = 65536
)

var (
	entryParams  = []api.ValueType{api.ValueTypeI32, api.ValueTypeI32, api.ValueTypeI32, api.ValueTypeI32}
	entryResults = []api.ValueType{api.ValueTypeI32}
)

// EntrySignature returns the parameter and result types of the entry point.
func EntrySignature() (params, results []api.ValueType) {
	return append([]api.ValueType(nil), entryParams...), append([]api.ValueType(nil), entryResults...)
}

func signatureMatches(def api.FunctionDefinition) bool {
	return typesEqual(def.ParamTypes(), entryParams) && typesEqual(def.ResultTypes(), entryResults)
}

func typesEqual(a, b []api.ValueType) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func signature(params, results []api.ValueType) string {
	names := func(types []api.ValueType) string {
		s := make([]string, len(types))
		for i, t := range types {
			s[i] = api.ValueTypeName(t)
		}
		return "(" + strings.Join(s, ",") + ")"
	}
	return names(params) + " -> " + names(results)
}

func alignTo(offset, align uint32) uint32 {
	return (offset + align - 1) &^ (align - 1)
}
