package alias

import "github.com/kiln-ml/kiln/internal/graph"

// splitContiguity computes the contiguity of the outer and inner axes
// produced by splitting an axis with the given contiguity.
func splitContiguity(c graph.Contiguity) (outer, inner graph.Contiguity) {
	switch c {
	case graph.NotApplicable:
		return graph.NotApplicable, graph.NotApplicable
	case graph.Contiguous:
		return graph.Contiguous, graph.Contiguous
	default:
		return graph.Contiguous, graph.Dense
	}
}

// mergeContiguity computes whether two axes can be merged without
// materialization and, if so, the contiguity of the merged axis. The
// outer and inner axes are consulted for their expanded extents:
// merging an expanded axis with a non-expanded one cannot preserve a
// single stride.
func mergeContiguity(
	outer *graph.Axis, outerContiguity graph.Contiguity,
	inner *graph.Axis, innerContiguity graph.Contiguity,
) (mergeable bool, merged graph.Contiguity) {
	// o\i | t  f  b  e
	// ----+-----------
	//  t  | t  f  t  C
	//  f  | C  C  f  C
	//  b  | t  f  b  e
	//  e  | C  C  e  e
	//
	// where t/f/b/e are contiguous, dense, plain broadcast and
	// expanded broadcast, and C means the merge is not aliasable.
	if outerContiguity == graph.NotApplicable && !outer.HasExpandedExtent() {
		return true, innerContiguity
	}
	if innerContiguity == graph.NotApplicable && !inner.HasExpandedExtent() {
		return true, outerContiguity
	}

	if outer.HasExpandedExtent() && inner.HasExpandedExtent() {
		return true, graph.NotApplicable
	}
	if outer.HasExpandedExtent() || inner.HasExpandedExtent() {
		return false, graph.NotApplicable
	}

	if outerContiguity == graph.Contiguous {
		return true, innerContiguity
	}
	return false, graph.NotApplicable
}
