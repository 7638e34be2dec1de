package loader

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kiln-ml/kiln/internal/graph"
)

type axisSpec struct {
	Name   string `yaml:"name"`
	Extent int    `yaml:"extent"`
	Kind   string `yaml:"kind"` // iter (default), broadcast, expanded, reduction
}

type transformSpec struct {
	Split  *splitSpec  `yaml:"split"`
	Merge  *mergeSpec  `yaml:"merge"`
	Resize *resizeSpec `yaml:"resize"`
}

type splitSpec struct {
	In    string `yaml:"in"`
	Outer string `yaml:"outer"`
	Inner string `yaml:"inner"`
}

type mergeSpec struct {
	Outer string `yaml:"outer"`
	Inner string `yaml:"inner"`
	Out   string `yaml:"out"`
}

type resizeSpec struct {
	In  string `yaml:"in"`
	Out string `yaml:"out"`
}

type tensorSpec struct {
	Name       string          `yaml:"name"`
	Root       []string        `yaml:"root"`
	Logical    []string        `yaml:"logical"`
	Transforms []transformSpec `yaml:"transforms"`
	Allocation []string        `yaml:"allocation"`
	Contiguity []string        `yaml:"contiguity"`
	Input      bool            `yaml:"input"`
	Output     bool            `yaml:"output"`
}

type opSpec struct {
	Kind         string   `yaml:"kind"`
	In           string   `yaml:"in"`
	Out          string   `yaml:"out"`
	Inputs       []string `yaml:"inputs"`
	NewDims      []bool   `yaml:"new_dims"`
	SqueezedDims []bool   `yaml:"squeezed_dims"`
}

type graphSpec struct {
	Name    string       `yaml:"name"`
	Axes    []axisSpec   `yaml:"axes"`
	Tensors []tensorSpec `yaml:"tensors"`
	Ops     []opSpec     `yaml:"ops"`
}

// Load parses a YAML graph description and builds the graph.
func Load(data []byte) (*graph.Graph, error) {
	var spec graphSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("parse graph description: %w", err)
	}
	return build(&spec)
}

// LoadFile reads and parses a YAML graph description file.
func LoadFile(path string) (*graph.Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read graph description: %w", err)
	}
	g, err := Load(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}

type builder struct {
	g       *graph.Graph
	axes    map[string]*graph.Axis
	tensors map[string]*graph.Tensor
}

func build(spec *graphSpec) (*graph.Graph, error) {
	b := &builder{
		g:       graph.New(),
		axes:    make(map[string]*graph.Axis),
		tensors: make(map[string]*graph.Tensor),
	}
	for _, a := range spec.Axes {
		if err := b.addAxis(a); err != nil {
			return nil, err
		}
	}
	for _, t := range spec.Tensors {
		if err := b.addTensor(t); err != nil {
			return nil, err
		}
	}
	for _, op := range spec.Ops {
		if err := b.addOp(op); err != nil {
			return nil, err
		}
	}
	return b.g, nil
}

func (b *builder) addAxis(spec axisSpec) error {
	if spec.Name == "" {
		return fmt.Errorf("axis without a name")
	}
	if _, ok := b.axes[spec.Name]; ok {
		return fmt.Errorf("duplicate axis %q", spec.Name)
	}
	var a *graph.Axis
	switch spec.Kind {
	case "", "iter":
		a = b.g.NewAxis(spec.Name, spec.Extent)
	case "broadcast":
		a = b.g.NewBroadcastAxis(spec.Name)
	case "expanded":
		a = b.g.NewExpandedAxis(spec.Name, spec.Extent)
	case "reduction":
		a = b.g.NewReductionAxis(spec.Name, spec.Extent)
	default:
		return fmt.Errorf("axis %q: unknown kind %q", spec.Name, spec.Kind)
	}
	b.axes[spec.Name] = a
	return nil
}

func (b *builder) lookupAxes(names []string) ([]*graph.Axis, error) {
	axes := make([]*graph.Axis, len(names))
	for i, name := range names {
		a, ok := b.axes[name]
		if !ok {
			return nil, fmt.Errorf("unknown axis %q", name)
		}
		axes[i] = a
	}
	return axes, nil
}

func parseContiguity(values []string) ([]graph.Contiguity, error) {
	flags := make([]graph.Contiguity, len(values))
	for i, v := range values {
		switch v {
		case "contiguous", "t":
			flags[i] = graph.Contiguous
		case "dense", "f":
			flags[i] = graph.Dense
		case "na", "n":
			flags[i] = graph.NotApplicable
		default:
			return nil, fmt.Errorf("unknown contiguity %q", v)
		}
	}
	return flags, nil
}

func (b *builder) parseTransforms(specs []transformSpec) ([]graph.Transform, error) {
	transforms := make([]graph.Transform, 0, len(specs))
	for _, spec := range specs {
		switch {
		case spec.Split != nil:
			axes, err := b.lookupAxes([]string{spec.Split.In, spec.Split.Outer, spec.Split.Inner})
			if err != nil {
				return nil, err
			}
			transforms = append(transforms, &graph.Split{In: axes[0], Outer: axes[1], Inner: axes[2]})
		case spec.Merge != nil:
			axes, err := b.lookupAxes([]string{spec.Merge.Outer, spec.Merge.Inner, spec.Merge.Out})
			if err != nil {
				return nil, err
			}
			transforms = append(transforms, &graph.Merge{Outer: axes[0], Inner: axes[1], Out: axes[2]})
		case spec.Resize != nil:
			axes, err := b.lookupAxes([]string{spec.Resize.In, spec.Resize.Out})
			if err != nil {
				return nil, err
			}
			transforms = append(transforms, &graph.Resize{In: axes[0], Out: axes[1]})
		default:
			return nil, fmt.Errorf("transform with no split, merge or resize")
		}
	}
	return transforms, nil
}

func (b *builder) addTensor(spec tensorSpec) error {
	if spec.Name == "" {
		return fmt.Errorf("tensor without a name")
	}
	if _, ok := b.tensors[spec.Name]; ok {
		return fmt.Errorf("duplicate tensor %q", spec.Name)
	}

	var t *graph.Tensor
	switch {
	case len(spec.Transforms) > 0:
		root, err := b.lookupAxes(spec.Root)
		if err != nil {
			return fmt.Errorf("tensor %q: %w", spec.Name, err)
		}
		transforms, err := b.parseTransforms(spec.Transforms)
		if err != nil {
			return fmt.Errorf("tensor %q: %w", spec.Name, err)
		}
		t, err = b.g.NewReshapedTensor(spec.Name, root, transforms)
		if err != nil {
			return err
		}
	case len(spec.Root) > 0 && len(spec.Logical) > 0:
		root, err := b.lookupAxes(spec.Root)
		if err != nil {
			return fmt.Errorf("tensor %q: %w", spec.Name, err)
		}
		logical, err := b.lookupAxes(spec.Logical)
		if err != nil {
			return fmt.Errorf("tensor %q: %w", spec.Name, err)
		}
		t, err = b.g.NewPermutedTensor(spec.Name, root, logical)
		if err != nil {
			return err
		}
	case len(spec.Logical) > 0:
		logical, err := b.lookupAxes(spec.Logical)
		if err != nil {
			return fmt.Errorf("tensor %q: %w", spec.Name, err)
		}
		t = b.g.NewTensor(spec.Name, logical...)
	default:
		return fmt.Errorf("tensor %q: no logical domain", spec.Name)
	}

	if len(spec.Allocation) > 0 {
		allocation, err := b.lookupAxes(spec.Allocation)
		if err != nil {
			return fmt.Errorf("tensor %q: %w", spec.Name, err)
		}
		contiguity, err := parseContiguity(spec.Contiguity)
		if err != nil {
			return fmt.Errorf("tensor %q: %w", spec.Name, err)
		}
		if err := t.SetAllocationDomain(allocation, contiguity); err != nil {
			return err
		}
	}

	if spec.Input {
		b.g.AddInput(t)
	}
	if spec.Output {
		b.g.AddOutput(t)
	}
	b.tensors[spec.Name] = t
	return nil
}

func (b *builder) addOp(spec opSpec) error {
	out, ok := b.tensors[spec.Out]
	if !ok {
		return fmt.Errorf("op %q: unknown tensor %q", spec.Kind, spec.Out)
	}
	in, ok := b.tensors[spec.In]
	if !ok {
		return fmt.Errorf("op %q: unknown tensor %q", spec.Kind, spec.In)
	}

	switch spec.Kind {
	case "view":
		b.g.AddView(in, out)
	case "permute":
		b.g.AddPermute(in, out)
	case "slice":
		b.g.AddSlice(in, out)
	case "broadcast":
		if _, err := b.g.AddBroadcast(in, out, spec.NewDims); err != nil {
			return err
		}
	case "squeeze":
		if _, err := b.g.AddSqueeze(in, out, spec.SqueezedDims); err != nil {
			return err
		}
	default:
		ins := []*graph.Tensor{in}
		for _, name := range spec.Inputs {
			extra, ok := b.tensors[name]
			if !ok {
				return fmt.Errorf("op %q: unknown tensor %q", spec.Kind, name)
			}
			ins = append(ins, extra)
		}
		b.g.AddOther(spec.Kind, out, ins...)
	}
	return nil
}
