// Package device dispatches descriptors to kernels compiled to WebAssembly.
//
// A Device owns one wazero runtime. Kernels are compiled once by LoadKernel
// and instantiated per call, so each Invoke has private linear memory. The
// descriptor is written at DescOffset and the data buffer at the next
// DataAlign boundary; the kernel's entry point receives both as
// (pointer, length) pairs and returns an i32 status.
//
// Example:
//
//	dev, err := device.New(ctx, nil)
//	if err != nil {
//	    return err
//	}
//	defer dev.Close(ctx)
//
//	k, err := dev.LoadKernel(ctx, "probe", kernels.Probe[float32]())
//	if err != nil {
//	    return err
//	}
//
//	d, _ := descriptor.New[float32](2.5, 1000, []int64{1, 3, 9})
//	res, err := device.Dispatch(ctx, k, d, make([]byte, descriptor.Size))
//
// A guest trap is returned as an error of kind trap. Kernels built against a
// different record size trap on the desc_len check, which is how a layout
// mismatch surfaces across this boundary.
package device
