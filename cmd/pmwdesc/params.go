package main

import (
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/wippyai/kernel-descriptor/descriptor"
	"github.com/wippyai/kernel-descriptor/errors"
)

// params is the descriptor input, from flags or a YAML file.
type params struct {
	Precision string  `yaml:"precision"`
	CellSize  float64 `yaml:"cell_size"`
	NParticle int64   `yaml:"n_particle"`
	Stride    []int64 `yaml:"stride,omitempty"`
	Shape     []int64 `yaml:"shape,omitempty"`
	Order     string  `yaml:"order,omitempty"`
}

func loadParams(path string) (*params, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseConfig, errors.KindNotFound, err, "open params file")
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)

	var p params
	if err := dec.Decode(&p); err != nil {
		return nil, errors.Wrap(errors.PhaseConfig, errors.KindInvalidData, err, "parse "+path)
	}
	return &p, nil
}

func (p *params) validate() error {
	if p.Precision == "" {
		p.Precision = "f64"
	}
	if err := checkPrecision(p.Precision); err != nil {
		return err
	}
	if len(p.Shape) > 0 && len(p.Stride) > 0 {
		return errors.InvalidInput(errors.PhaseConfig, "shape", p.Shape,
			"shape and stride are mutually exclusive")
	}
	switch p.Order {
	case "", "row", "column":
	default:
		return errors.InvalidInput(errors.PhaseConfig, "order", p.Order, "want row or column")
	}
	return nil
}

// strides returns the explicit stride or derives it from the mesh shape.
func (p *params) strides() ([]int64, error) {
	if len(p.Shape) == 0 {
		return p.Stride, nil
	}
	derive := descriptor.Strides
	if p.Order == "column" {
		derive = descriptor.ColumnStrides
	}
	s, err := derive(p.Shape...)
	if err != nil {
		return nil, err
	}
	return s[:], nil
}

func checkPrecision(p string) error {
	if p != "f32" && p != "f64" {
		return errors.InvalidInput(errors.PhaseConfig, "precision", p, "want f32 or f64")
	}
	return nil
}

// descriptorFlags binds the descriptor parameters to a command. Flags set
// on the command line override values from --params.
type descriptorFlags struct {
	file string
	p    params
}

func (f *descriptorFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.file, "params", "", "YAML file with descriptor parameters")
	fs.StringVar(&f.p.Precision, "precision", "f64", "cell size precision (f32|f64)")
	fs.Float64Var(&f.p.CellSize, "cell-size", 1, "mesh cell size")
	fs.Int64Var(&f.p.NParticle, "n-particle", 0, "number of particles")
	fs.Int64SliceVar(&f.p.Stride, "stride", []int64{1, 1, 1}, "element strides of the three mesh axes")
	fs.Int64SliceVar(&f.p.Shape, "shape", nil, "mesh extents; derives the stride instead of --stride")
	fs.StringVar(&f.p.Order, "order", "row", "stride order for --shape (row|column)")
}

func (f *descriptorFlags) resolve(cmd *cobra.Command) (*params, error) {
	fs := cmd.Flags()
	p := f.p
	if fs.Changed("shape") && !fs.Changed("stride") {
		p.Stride = nil
	}

	if f.file != "" {
		loaded, err := loadParams(f.file)
		if err != nil {
			return nil, err
		}
		if fs.Changed("precision") {
			loaded.Precision = p.Precision
		}
		if fs.Changed("cell-size") {
			loaded.CellSize = p.CellSize
		}
		if fs.Changed("n-particle") {
			loaded.NParticle = p.NParticle
		}
		if fs.Changed("stride") {
			loaded.Stride, loaded.Shape = p.Stride, nil
		}
		if fs.Changed("shape") {
			loaded.Shape, loaded.Stride = p.Shape, nil
		}
		if fs.Changed("order") {
			loaded.Order = p.Order
		}
		p = *loaded
	}

	if err := p.validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

func buildDescriptor[T descriptor.Float](p *params) (descriptor.Descriptor[T], error) {
	stride, err := p.strides()
	if err != nil {
		return descriptor.Descriptor[T]{}, err
	}
	return descriptor.New(T(p.CellSize), p.NParticle, stride)
}
