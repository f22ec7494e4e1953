package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wippyai/kernel-descriptor/device"
	"github.com/wippyai/kernel-descriptor/errors"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if errors.IsFatal(err) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

type rootOptions struct {
	verbose bool
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "pmwdesc",
		Short: "Encode, inspect and probe PMWD kernel descriptors",
		Long: `pmwdesc works with the fixed-layout descriptor record passed to
particle-mesh kernels: it encodes and decodes records, prints the calculated
layout, and round-trips records through a WebAssembly probe kernel.

A record whose size does not match the layout is fatal and exits with status 2.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !opts.verbose {
				return nil
			}
			l, err := zap.NewDevelopment()
			if err != nil {
				return fmt.Errorf("create logger: %w", err)
			}
			device.SetLogger(l)
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log kernel loading and dispatch to stderr")

	cmd.AddCommand(newEncodeCommand())
	cmd.AddCommand(newDecodeCommand())
	cmd.AddCommand(newLayoutCommand())
	cmd.AddCommand(newProbeCommand())
	cmd.AddCommand(newTUICommand())

	return cmd
}
