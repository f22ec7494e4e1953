package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/wippyai/kernel-descriptor/descriptor"
	"github.com/wippyai/kernel-descriptor/device"
	"github.com/wippyai/kernel-descriptor/device/kernels"
	"github.com/wippyai/kernel-descriptor/errors"
)

func newProbeCommand() *cobra.Command {
	var (
		flags  descriptorFlags
		kernel string
	)

	cmd := &cobra.Command{
		Use:   "probe",
		Short: "Round-trip a descriptor through a WebAssembly kernel",
		Long: `Encode a descriptor, dispatch it to a kernel that decodes it field by field
inside the guest, and compare what the kernel saw with what was sent.

By default the built-in probe kernel for the chosen precision is used. A
custom kernel may be given with --kernel; it must export "memory" and
"pmwd_kernel" and write the decoded record back into the data buffer.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := flags.resolve(cmd)
			if err != nil {
				return err
			}
			if p.Precision == "f32" {
				return runProbe[float32](cmd.Context(), cmd.OutOrStdout(), p, kernel)
			}
			return runProbe[float64](cmd.Context(), cmd.OutOrStdout(), p, kernel)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&kernel, "kernel", "", "path to a kernel .wasm instead of the built-in probe")

	return cmd
}

func runProbe[T descriptor.Float](ctx context.Context, w io.Writer, p *params, kernelPath string) error {
	d, err := buildDescriptor[T](p)
	if err != nil {
		return err
	}

	wasm := kernels.Probe[T]()
	name := "probe-" + descriptor.Precision[T]()
	if kernelPath != "" {
		wasm, err = os.ReadFile(kernelPath)
		if err != nil {
			return errors.Wrap(errors.PhaseLoad, errors.KindNotFound, err, "read kernel")
		}
		name = kernelPath
	}

	dev, err := device.New(ctx, nil)
	if err != nil {
		return err
	}
	defer dev.Close(ctx)

	k, err := dev.LoadKernel(ctx, name, wasm)
	if err != nil {
		return err
	}

	res, err := device.Dispatch(ctx, k, d, make([]byte, descriptor.Size))
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "kernel      %s\ncall_id     %s\nstatus      %d\n", k.Name(), res.CallID, res.Status)
	if res.Status != kernels.StatusOK {
		return errors.New(errors.PhaseDispatch, errors.KindInvalidData).
			Path(k.Name()).
			Value(res.Status).
			Detail("kernel returned status %d", res.Status).
			Build()
	}

	got := descriptor.Decode[T](res.Data)
	fmt.Fprintf(w, "sent        %v\nreceived    %v\n", d, got)
	if !got.Equal(d) {
		return errors.New(errors.PhaseDispatch, errors.KindLayoutMismatch).
			GoType(descriptor.TypeName[T]()).
			Detail("kernel decoded %v, sent %v", got, d).
			Build()
	}
	_, err = fmt.Fprintln(w, "match       ok")
	return err
}
