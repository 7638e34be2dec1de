package alias

import (
	"fmt"
	"strings"

	"github.com/kiln-ml/kiln/internal/graph"
)

// Layout describes a physical memory layout: an ordered allocation
// domain and a parallel sequence of per-axis contiguity flags.
type Layout struct {
	Allocation []*graph.Axis
	Contiguity []graph.Contiguity
}

// String renders the layout in the form
// <allocation=[i2 i0 i1], contiguity=[t t t]>.
func (l Layout) String() string {
	var sb strings.Builder
	sb.WriteString("<allocation=[")
	for i, a := range l.Allocation {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(a.Name())
	}
	sb.WriteString("], contiguity=[")
	for i, c := range l.Contiguity {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(c.String())
	}
	sb.WriteString("]>")
	return sb.String()
}

func contiguityIsCompliant(actual, required graph.Contiguity) bool {
	// A fully contiguous axis also satisfies a weaker dense-only
	// requirement.
	if actual == graph.Contiguous && required == graph.Dense {
		return true
	}
	return actual == required
}

// IsCompliantWith reports whether a tensor laid out as l satisfies the
// externally declared layout required. An empty required allocation
// domain places no constraint. Otherwise the allocation domains must
// match exactly, axis for axis, and each actual contiguity flag must
// satisfy the required one.
func (l Layout) IsCompliantWith(required Layout) bool {
	if len(required.Allocation) == 0 {
		return true
	}

	if len(l.Allocation) != len(required.Allocation) {
		return false
	}
	for i, a := range l.Allocation {
		// This can be relaxed by allowing broadcast dimensions to be
		// ordered differently.
		if a != required.Allocation[i] {
			return false
		}
	}

	for i := range l.Allocation {
		if !contiguityIsCompliant(l.Contiguity[i], required.Contiguity[i]) {
			return false
		}
	}
	return true
}

func validateLayout(l Layout) error {
	if len(l.Allocation) != len(l.Contiguity) {
		return fmt.Errorf("layout with %d allocation axes but %d contiguity flags",
			len(l.Allocation), len(l.Contiguity))
	}
	return nil
}
