package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wippyai/kernel-descriptor/descriptor"
	"github.com/wippyai/kernel-descriptor/errors"
)

func newEncodeCommand() *cobra.Command {
	var (
		flags  descriptorFlags
		sealed bool
		dump   bool
	)

	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Encode a descriptor and print it as hex",
		Example: `  pmwdesc encode --precision f32 --cell-size 2.5 --n-particle 1000 --stride 1,3,9
  pmwdesc encode --shape 64,64,64 --n-particle 262144
  pmwdesc encode --params run.yaml --sealed`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := flags.resolve(cmd)
			if err != nil {
				return err
			}
			var out []byte
			switch p.Precision {
			case "f32":
				out, err = encodeAs[float32](p, sealed)
			default:
				out, err = encodeAs[float64](p, sealed)
			}
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if dump {
				if err := writeDump(w, p.Precision, out[:descriptor.Size]); err != nil {
					return err
				}
			}
			_, err = fmt.Fprintln(w, hex.EncodeToString(out))
			return err
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&sealed, "sealed", false, "append the layout and checksum trailer")
	cmd.Flags().BoolVar(&dump, "dump", false, "print an annotated byte dump before the hex")

	return cmd
}

func encodeAs[T descriptor.Float](p *params, sealed bool) ([]byte, error) {
	d, err := buildDescriptor[T](p)
	if err != nil {
		return nil, err
	}
	record, err := d.MarshalBinary()
	if err != nil {
		return nil, err
	}
	if sealed {
		return descriptor.Seal[T](record)
	}
	return record, nil
}

func newDecodeCommand() *cobra.Command {
	var (
		precision string
		sealed    bool
		dump      bool
	)

	cmd := &cobra.Command{
		Use:   "decode [hex|-]",
		Short: "Decode a hex descriptor and print its fields",
		Long: `Decode a descriptor given as hex, or read from stdin when the argument is
omitted or "-". Whitespace in the input is ignored.

A record of the wrong size is a layout mismatch and is reported as fatal.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkPrecision(precision); err != nil {
				return err
			}
			in, err := readHexArg(cmd, args)
			if err != nil {
				return err
			}

			if sealed {
				in, err = openSealed(precision, in)
				if err != nil {
					return err
				}
			}

			w := cmd.OutOrStdout()
			if dump {
				return writeDump(w, precision, in)
			}
			switch precision {
			case "f32":
				return writeFields[float32](w, in)
			default:
				return writeFields[float64](w, in)
			}
		},
	}

	cmd.Flags().StringVar(&precision, "precision", "f64", "cell size precision (f32|f64)")
	cmd.Flags().BoolVar(&sealed, "sealed", false, "verify and strip the layout and checksum trailer")
	cmd.Flags().BoolVar(&dump, "dump", false, "print an annotated byte dump instead of fields")

	return cmd
}

func readHexArg(cmd *cobra.Command, args []string) ([]byte, error) {
	var text string
	if len(args) == 0 || args[0] == "-" {
		b, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, errors.Wrap(errors.PhaseConfig, errors.KindInvalidData, err, "read stdin")
		}
		text = string(b)
	} else {
		text = args[0]
	}

	buf, err := hex.DecodeString(strings.Join(strings.Fields(text), ""))
	if err != nil {
		return nil, errors.Wrap(errors.PhaseConfig, errors.KindInvalidData, err, "parse hex")
	}
	return buf, nil
}

func openSealed(precision string, sealed []byte) ([]byte, error) {
	if precision == "f32" {
		return descriptor.Open[float32](sealed)
	}
	return descriptor.Open[float64](sealed)
}

func writeFields[T descriptor.Float](w io.Writer, buf []byte) error {
	if err := descriptor.CheckSize[T](buf); err != nil {
		return err
	}
	d := descriptor.Decode[T](buf)
	_, err := fmt.Fprintf(w, "precision   %s\ncell_size   %v\nn_particle  %d\nstride      %v\n",
		descriptor.Precision[T](), d.CellSize, d.NParticle, d.Stride)
	return err
}

func writeDump(w io.Writer, precision string, buf []byte) error {
	var (
		text string
		err  error
	)
	if precision == "f32" {
		text, err = descriptor.Dump[float32](buf)
	} else {
		text, err = descriptor.Dump[float64](buf)
	}
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, text)
	return err
}

func newLayoutCommand() *cobra.Command {
	var precision string

	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Print the calculated record layout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			switch precision {
			case "":
				if err := writeLayout[float32](w); err != nil {
					return err
				}
				fmt.Fprintln(w)
				return writeLayout[float64](w)
			case "f32":
				return writeLayout[float32](w)
			case "f64":
				return writeLayout[float64](w)
			default:
				return checkPrecision(precision)
			}
		},
	}

	cmd.Flags().StringVar(&precision, "precision", "", "only show one precision (f32|f64)")

	return cmd
}

func writeLayout[T descriptor.Float](w io.Writer) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%s size=%d align=%d padding=%d fingerprint=%08x\n",
		descriptor.TypeName[T](), descriptor.Size, descriptor.Align,
		descriptor.Padding[T](), descriptor.Fingerprint[T]())
	fmt.Fprintf(&b, "  %6s  %4s  %-12s %s\n", "offset", "size", "field", "type")

	end := 0
	for _, f := range descriptor.Layout[T]() {
		if f.Offset > end {
			fmt.Fprintf(&b, "  %6d  %4d  (padding)\n", end, f.Offset-end)
		}
		fmt.Fprintf(&b, "  %6d  %4d  %-12s %s\n", f.Offset, f.Size, f.Name, f.Type)
		end = f.Offset + f.Size
	}
	_, err := io.WriteString(w, b.String())
	return err
}
