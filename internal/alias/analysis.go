// Package alias implements the layout alias analysis over a tensor
// dataflow graph.
//
// The analysis walks the graph's operations once, in topological
// order, and determines for each supported shape operation (view,
// permute, slice, broadcast, squeeze) whether its output can reuse the
// memory of its input, by propagating a symbolic memory layout
// (allocation order plus tri-state per-axis contiguity) through the
// operation. A finalize sweep then confirms, for every graph output,
// whether the chain of aliases back to a graph input or output is
// compatible with the output's own declared layout. The code generator
// uses the confirmed aliases to skip buffer allocation and the
// preferred layouts to pick the physical layouts it must honor.
//
// The analysis never moves data and never mutates the graph; it only
// produces an overlay mapping that must not outlive the graph.
package alias

import (
	"fmt"
	"slices"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/kiln-ml/kiln/internal/graph"
)

type aliasEdge struct {
	source *graph.Tensor
	layout Layout
}

// Result holds the findings of one analysis run: an alias edge for
// every tensor found to be aliasable, and the subset of graph outputs
// confirmed to transitively alias a graph input or output. A Result is
// immutable once FindAliases returns it.
type Result struct {
	aliasToSource map[*graph.Tensor]aliasEdge
	aliasOrder    []*graph.Tensor
	outToRoot     map[*graph.Tensor]*graph.Tensor
	outOrder      []*graph.Tensor
}

func newResult() *Result {
	return &Result{
		aliasToSource: make(map[*graph.Tensor]aliasEdge),
		outToRoot:     make(map[*graph.Tensor]*graph.Tensor),
	}
}

// add records that alias can reuse source's memory if alias is laid
// out as layout. Each tensor has exactly one producing operation, so a
// second registration for the same tensor means the graph is
// malformed.
func (r *Result) add(alias, source *graph.Tensor, layout Layout) error {
	if err := validateLayout(layout); err != nil {
		return fmt.Errorf("alias %s of %s: %w", alias, source, err)
	}
	if prev, ok := r.aliasToSource[alias]; ok {
		return fmt.Errorf("found two sources for alias %s: %s and %s", alias, prev.source, source)
	}
	r.aliasToSource[alias] = aliasEdge{source: source, layout: layout}
	r.aliasOrder = append(r.aliasOrder, alias)
	return nil
}

// PreferredLayout returns the layout the tensor would need for its
// alias edge to hold, or its own declared layout (falling back to the
// logical order with undetermined contiguity) when it has no edge.
func (r *Result) PreferredLayout(t *graph.Tensor) Layout {
	if edge, ok := r.aliasToSource[t]; ok {
		return edge.layout
	}
	return Layout{
		Allocation: slices.Clone(t.MaybeAllocationDomain()),
		Contiguity: slices.Clone(t.MaybeContiguity()),
	}
}

// FindNearestAliasedIo follows alias edges from t until it reaches a
// graph input or output, which it returns. It returns nil when the
// chain dead-ends at a tensor that is neither. The walk terminates
// because edges only point at earlier-produced tensors.
func (r *Result) FindNearestAliasedIo(t *graph.Tensor) *graph.Tensor {
	root := t
	for {
		edge, ok := r.aliasToSource[root]
		if !ok {
			return nil
		}
		root = edge.source
		if root.IsGraphInput() || root.IsGraphOutput() {
			return root
		}
	}
}

// GetNearestAliasedIo returns the confirmed aliased ancestor of a
// graph output, or nil when finalize discarded (or never found) the
// opportunity.
func (r *Result) GetNearestAliasedIo(out *graph.Tensor) *graph.Tensor {
	return r.outToRoot[out]
}

// okToRelayout reports whether out may be given newLayout. When
// canOverrideEmptyAllocationDomain is set, an output without an
// explicitly declared allocation domain accepts any layout.
func okToRelayout(out *graph.Tensor, newLayout Layout, canOverrideEmptyAllocationDomain bool) bool {
	allocation := out.MaybeAllocationDomain()
	if canOverrideEmptyAllocationDomain {
		allocation = out.AllocationDomain()
	}
	return newLayout.IsCompliantWith(Layout{
		Allocation: allocation,
		Contiguity: out.MaybeContiguity(),
	})
}

// finalize confirms, for every graph output with an aliased ancestor,
// that the output's preferred layout complies with its declared
// layout constraints. Non-compliant opportunities are dropped.
func (r *Result) finalize(g *graph.Graph, canOverrideEmptyAllocationDomain bool) {
	for _, out := range g.Outputs() {
		root := r.FindNearestAliasedIo(out)
		if root == nil {
			continue
		}

		preferred := r.PreferredLayout(out)
		if !okToRelayout(out, preferred, canOverrideEmptyAllocationDomain) {
			logrus.Debugf("alias analysis: output %s cannot relayout to %s; dropping alias of %s", out, preferred, root)
			continue
		}

		r.outToRoot[out] = root
		r.outOrder = append(r.outOrder, out)
	}
}

// String returns a diagnostic dump of every alias edge and every
// confirmed output alias, in discovery order.
func (r *Result) String() string {
	var sb strings.Builder
	sb.WriteString("All aliases:")
	if len(r.aliasOrder) == 0 {
		sb.WriteString(" <empty>")
	}
	sb.WriteByte('\n')
	for _, alias := range r.aliasOrder {
		edge := r.aliasToSource[alias]
		fmt.Fprintf(&sb, "  %s is an alias of %s if its layout is %s\n", alias, edge.source, edge.layout)
	}
	sb.WriteString("Output aliases only:")
	if len(r.outOrder) == 0 {
		sb.WriteString(" <empty>")
	}
	sb.WriteByte('\n')
	for _, out := range r.outOrder {
		fmt.Fprintf(&sb, "  %s is a transitive alias of %s\n", out, r.outToRoot[out])
	}
	return sb.String()
}

// FindAliases runs the analysis over g's operations in topological
// order and finalizes the result against g's outputs. It returns an
// error only for internal-consistency violations that indicate a
// malformed graph; "cannot alias" outcomes are not errors.
func FindAliases(g *graph.Graph, canOverrideEmptyAllocationDomain bool) (*Result, error) {
	analysis := newResult()
	f := finder{analysis: analysis}
	for _, op := range g.Ops() {
		if err := f.dispatch(op); err != nil {
			return nil, fmt.Errorf("alias analysis of graph %s: %w", g.ID(), err)
		}
	}
	analysis.finalize(g, canOverrideEmptyAllocationDomain)
	logrus.Debugf("alias analysis of graph %s: %d alias edges, %d confirmed output aliases",
		g.ID(), len(analysis.aliasToSource), len(analysis.outToRoot))
	return analysis, nil
}
