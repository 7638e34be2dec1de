package graph

import (
	"fmt"

	"github.com/google/uuid"
)

// Graph is an acyclic dataflow graph of shape-transforming operations.
// It owns every Axis, Tensor and Op created through it; operations are
// recorded in the order they are added, which is required to be a
// topological order of the dataflow.
type Graph struct {
	id      string
	axes    []*Axis
	tensors []*Tensor
	inputs  []*Tensor
	outputs []*Tensor
	ops     []Op
}

// New returns an empty graph with a fresh compilation-unit ID.
func New() *Graph {
	return &Graph{id: uuid.NewString()}
}

// ID returns the compilation-unit ID assigned at construction.
func (g *Graph) ID() string { return g.id }

// Ops returns the operations in topological order.
func (g *Graph) Ops() []Op { return g.ops }

// Inputs returns the graph input tensors in registration order.
func (g *Graph) Inputs() []*Tensor { return g.inputs }

// Outputs returns the graph output tensors in registration order.
func (g *Graph) Outputs() []*Tensor { return g.outputs }

// Tensors returns every tensor created through the graph.
func (g *Graph) Tensors() []*Tensor { return g.tensors }

// NewAxis creates a plain iteration axis.
func (g *Graph) NewAxis(name string, extent int) *Axis {
	return g.addAxis(&Axis{name: name, extent: extent})
}

// NewBroadcastAxis creates a broadcast axis of extent 1.
func (g *Graph) NewBroadcastAxis(name string) *Axis {
	return g.addAxis(&Axis{name: name, extent: 1, broadcast: true})
}

// NewExpandedAxis creates a broadcast axis expanded to the given
// extent without materialization.
func (g *Graph) NewExpandedAxis(name string, extent int) *Axis {
	return g.addAxis(&Axis{name: name, extent: extent, broadcast: true, expanded: true})
}

// NewReductionAxis creates a reduction axis.
func (g *Graph) NewReductionAxis(name string, extent int) *Axis {
	return g.addAxis(&Axis{name: name, extent: extent, reduction: true})
}

func (g *Graph) addAxis(a *Axis) *Axis {
	g.axes = append(g.axes, a)
	return a
}

// NewTensor creates a tensor whose root and logical domains are both
// the given axis sequence.
func (g *Graph) NewTensor(name string, axes ...*Axis) *Tensor {
	t := &Tensor{name: name, root: axes, logical: axes}
	g.tensors = append(g.tensors, t)
	return t
}

// NewPermutedTensor creates a tensor whose logical domain is a
// reordering of its root domain, as produced by a permute operation.
func (g *Graph) NewPermutedTensor(name string, root, logical []*Axis) (*Tensor, error) {
	if !IsPermutationOf(root, logical) {
		return nil, fmt.Errorf("tensor %s: logical domain %v is not a permutation of root %v",
			name, logical, root)
	}
	t := &Tensor{name: name, root: root, logical: logical}
	g.tensors = append(g.tensors, t)
	return t, nil
}

// NewReshapedTensor creates a tensor whose logical domain is derived
// from root by replaying the given transform chain, as produced by a
// view or slice operation.
func (g *Graph) NewReshapedTensor(name string, root []*Axis, transforms []Transform) (*Tensor, error) {
	logical, err := replayTransforms(root, transforms)
	if err != nil {
		return nil, fmt.Errorf("tensor %s: %w", name, err)
	}
	t := &Tensor{name: name, root: root, logical: logical, transforms: transforms}
	g.tensors = append(g.tensors, t)
	return t, nil
}

// AddInput marks a tensor as a graph input.
func (g *Graph) AddInput(t *Tensor) {
	t.isInput = true
	g.inputs = append(g.inputs, t)
}

// AddOutput marks a tensor as a graph output.
func (g *Graph) AddOutput(t *Tensor) {
	t.isOutput = true
	g.outputs = append(g.outputs, t)
}
