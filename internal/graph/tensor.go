package graph

import "fmt"

// Tensor is one value flowing through the dataflow graph. It owns no
// data; it describes a logical multi-dimensional value through three
// axis sequences:
//
//   - root: the axes before any reshape transforms,
//   - logical: the axes seen by consumers, derived from root through
//     the transform chain (or a plain reordering for permute outputs),
//   - allocation (optional): an explicitly declared physical axis
//     order with parallel contiguity flags.
//
// Tensors are created through a Graph and compared by pointer.
type Tensor struct {
	name       string
	root       []*Axis
	logical    []*Axis
	transforms []Transform

	allocation []*Axis
	contiguity []Contiguity

	isInput  bool
	isOutput bool
}

// Name returns the diagnostic name of the tensor.
func (t *Tensor) Name() string { return t.name }

// String returns the tensor name.
func (t *Tensor) String() string { return t.name }

// Root returns the root axis sequence.
func (t *Tensor) Root() []*Axis { return t.root }

// Logical returns the logical axis sequence.
func (t *Tensor) Logical() []*Axis { return t.logical }

// Transforms returns the root-to-logical transform chain in
// dependency order. It is empty unless the tensor is a reshape or
// slice output.
func (t *Tensor) Transforms() []Transform { return t.transforms }

// IsGraphInput reports whether the tensor is an input of its graph.
func (t *Tensor) IsGraphInput() bool { return t.isInput }

// IsGraphOutput reports whether the tensor is an output of its graph.
func (t *Tensor) IsGraphOutput() bool { return t.isOutput }

// AllocationDomain returns the explicitly declared allocation domain,
// or nil when none was declared.
func (t *Tensor) AllocationDomain() []*Axis { return t.allocation }

// DeclaredContiguity returns the contiguity flags declared alongside
// the allocation domain, or nil when none was declared.
func (t *Tensor) DeclaredContiguity() []Contiguity { return t.contiguity }

// MaybeAllocationDomain returns the declared allocation domain, or the
// logical order when none was declared.
func (t *Tensor) MaybeAllocationDomain() []*Axis {
	if t.allocation != nil {
		return t.allocation
	}
	return t.logical
}

// MaybeContiguity returns the declared contiguity flags. When none
// were declared it assumes the weakest determinate state: Dense for
// iteration axes, NotApplicable for broadcast and expanded axes.
func (t *Tensor) MaybeContiguity() []Contiguity {
	if t.contiguity != nil {
		return t.contiguity
	}
	flags := make([]Contiguity, len(t.logical))
	for i, a := range t.logical {
		if a.IsBroadcast() {
			flags[i] = NotApplicable
		} else {
			flags[i] = Dense
		}
	}
	return flags
}

// SetAllocationDomain declares the physical axis order and per-axis
// contiguity of the tensor. Both slices must have the same length. The
// allocation domain is usually a reordering of the logical domain, but
// that is not required here; the alias analysis checks it per
// operation and gives up on tensors it cannot reason about.
func (t *Tensor) SetAllocationDomain(allocation []*Axis, contiguity []Contiguity) error {
	if len(allocation) != len(contiguity) {
		return fmt.Errorf("tensor %s: allocation domain has %d axes but %d contiguity flags",
			t.name, len(allocation), len(contiguity))
	}
	t.allocation = allocation
	t.contiguity = contiguity
	return nil
}

// IsResizedFromRoot reports whether the given axis is derived from the
// tensor's root domain through at least one Resize transform. The
// slice handler uses this to detect bound-restricted axes.
func (t *Tensor) IsResizedFromRoot(a *Axis) bool {
	producers := make(map[*Axis]Transform, len(t.transforms))
	for _, tr := range t.transforms {
		switch tr := tr.(type) {
		case *Split:
			producers[tr.Outer] = tr
			producers[tr.Inner] = tr
		case *Merge:
			producers[tr.Out] = tr
		case *Resize:
			producers[tr.Out] = tr
		}
	}

	var visit func(a *Axis) bool
	visit = func(a *Axis) bool {
		tr, ok := producers[a]
		if !ok {
			return false
		}
		switch tr := tr.(type) {
		case *Split:
			return visit(tr.In)
		case *Merge:
			return visit(tr.Outer) || visit(tr.Inner)
		case *Resize:
			return true
		}
		return false
	}
	return visit(a)
}
