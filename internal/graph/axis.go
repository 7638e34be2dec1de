package graph

// Axis is the identity of one logical dimension of a tensor. Axes are
// created through a Graph and compared by pointer; two axes with the
// same name and extent are still distinct dimensions.
type Axis struct {
	name      string
	extent    int
	reduction bool
	broadcast bool
	expanded  bool
}

// Name returns the diagnostic name of the axis.
func (a *Axis) Name() string { return a.name }

// Extent returns the number of elements along the axis.
func (a *Axis) Extent() int { return a.extent }

// IsReduction reports whether the axis is a reduction dimension.
// Reduction axes disappear from downstream tensors.
func (a *Axis) IsReduction() bool { return a.reduction }

// IsBroadcast reports whether the axis is a broadcast dimension.
func (a *Axis) IsBroadcast() bool { return a.broadcast }

// HasExpandedExtent reports whether the axis is a broadcast dimension
// expanded to a concrete extent without materialization.
func (a *Axis) HasExpandedExtent() bool { return a.expanded }

// String returns the axis name.
func (a *Axis) String() string { return a.name }

// IsPermutationOf reports whether b holds exactly the same axes as a,
// in any order. Axes are compared by identity.
func IsPermutationOf(a, b []*Axis) bool {
	if len(a) != len(b) {
		return false
	}
	seen := make(map[*Axis]int, len(a))
	for _, ax := range a {
		seen[ax]++
	}
	for _, ax := range b {
		seen[ax]--
		if seen[ax] < 0 {
			return false
		}
	}
	return true
}
