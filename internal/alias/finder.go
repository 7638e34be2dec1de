package alias

import (
	"fmt"

	"github.com/kiln-ml/kiln/internal/graph"
	"github.com/kiln-ml/kiln/internal/ordmap"
)

// finder discovers aliases between each operation's input and output
// and records the findings in the shared result. A handler that
// returns a nil error without registering anything simply found no
// aliasing opportunity; a non-nil error indicates a malformed graph.
type finder struct {
	analysis *Result
}

func (f *finder) dispatch(op graph.Op) error {
	switch op := op.(type) {
	case *graph.ViewOp:
		return f.handleView(op)
	case *graph.PermuteOp:
		return f.handlePermute(op)
	case *graph.SliceOp:
		return f.handleSlice(op)
	case *graph.BroadcastOp:
		return f.handleBroadcast(op)
	case *graph.SqueezeOp:
		return f.handleSqueeze(op)
	default:
		// Unsupported operations are skipped; the output keeps its own
		// declared layout.
		return nil
	}
}

// inputLayoutForAliasing returns the input's preferred layout if its
// allocation domain is a pure reordering of its logical domain, which
// every handler requires. The bool is false when aliasing must be
// given up for this operation.
func (f *finder) inputLayoutForAliasing(in *graph.Tensor) (Layout, bool) {
	l := f.analysis.PreferredLayout(in)
	if !graph.IsPermutationOf(in.Logical(), l.Allocation) {
		return Layout{}, false
	}
	return l, true
}

func (f *finder) handleView(view *graph.ViewOp) error {
	in, out := view.In(), view.Out()

	inLayout, ok := f.inputLayoutForAliasing(in)
	if !ok {
		return nil
	}

	m, err := graph.Pairwise(view)
	if err != nil {
		return err
	}

	// Collect the allocation order of the input's logical domain, and
	// thus of the output's root domain, keyed by input-side axes.
	alloc := ordmap.New[*graph.Axis, graph.Contiguity]()
	for i, a := range inLayout.Allocation {
		if a.IsReduction() {
			// Reduction axes do not appear in the output's root domain.
			continue
		}
		alloc.PushBack(a, inLayout.Contiguity[i])
	}

	// Replay the transforms from the output's root to its logical
	// domain on the allocation order. Stop when a transform requires a
	// data copy.
	for _, tr := range out.Transforms() {
		switch tr := tr.(type) {
		case *graph.Split:
			splitIn := m.ToProducerOr(tr.In)
			c, pos, found := alloc.Erase(splitIn)
			if !found {
				return fmt.Errorf("view %s -> %s: split input %s missing from allocation order", in, out, tr.In)
			}
			outerC, innerC := splitContiguity(c)
			alloc.InsertBefore(pos, tr.Outer, outerC)
			alloc.InsertBefore(pos, tr.Inner, innerC)
		case *graph.Merge:
			outer := m.ToProducerOr(tr.Outer)
			inner := m.ToProducerOr(tr.Inner)
			outerC, pos, found := alloc.Erase(outer)
			if !found {
				return fmt.Errorf("view %s -> %s: merge outer %s missing from allocation order", in, out, tr.Outer)
			}
			if pos == nil || pos.Key() != inner {
				// Outer and inner are not adjacent in allocation order.
				return nil
			}
			innerC, mergePos, _ := alloc.Erase(inner)
			mergeable, mergedC := mergeContiguity(outer, outerC, inner, innerC)
			if !mergeable {
				return nil
			}
			alloc.InsertBefore(mergePos, tr.Out, mergedC)
		default:
			return fmt.Errorf("view %s -> %s: expected split or merge, found %s", in, out, tr)
		}
	}

	// Translate surviving input-side keys to output-root axes; axes
	// created by the replayed transforms pass through unchanged.
	outLayout := Layout{
		Allocation: make([]*graph.Axis, 0, alloc.Len()),
		Contiguity: make([]graph.Contiguity, 0, alloc.Len()),
	}
	for n := alloc.Front(); n != nil; n = n.Next() {
		outLayout.Allocation = append(outLayout.Allocation, m.ToConsumerOr(n.Key()))
		outLayout.Contiguity = append(outLayout.Contiguity, n.Value())
	}
	return f.analysis.add(out, in, outLayout)
}

func (f *finder) handlePermute(permute *graph.PermuteOp) error {
	in, out := permute.In(), permute.Out()

	// Look at the preferred layout, not the input's declared layout.
	inLayout, ok := f.inputLayoutForAliasing(in)
	if !ok {
		return nil
	}

	// A permute changes the logical shape but not the physical layout,
	// so the output's preferred allocation domain is the input's
	// allocation domain translated axis for axis.
	m, err := graph.Pairwise(permute)
	if err != nil {
		return err
	}

	outLayout := Layout{}
	for i, a := range inLayout.Allocation {
		if a.IsReduction() {
			continue
		}
		mapped, found := m.ToConsumer(a)
		if !found {
			return fmt.Errorf("permute %s -> %s: axis %s missing from correspondence", in, out, a)
		}
		outLayout.Allocation = append(outLayout.Allocation, mapped)
		outLayout.Contiguity = append(outLayout.Contiguity, inLayout.Contiguity[i])
	}
	return f.analysis.add(out, in, outLayout)
}

func (f *finder) handleSlice(slice *graph.SliceOp) error {
	in, out := slice.In(), slice.Out()

	inLayout, ok := f.inputLayoutForAliasing(in)
	if !ok {
		return nil
	}

	m, err := graph.Pairwise(slice)
	if err != nil {
		return err
	}

	outRoot, outLogical := out.Root(), out.Logical()
	rootToLogical := make(map[*graph.Axis]*graph.Axis, len(outRoot))
	for i, a := range outRoot {
		rootToLogical[a] = outLogical[i]
	}

	// Inherit the allocation order from the input; the contiguity
	// flags are refined below.
	outLayout := Layout{}
	var inContiguity []graph.Contiguity
	for i, a := range inLayout.Allocation {
		if a.IsReduction() {
			continue
		}
		mapped, found := m.ToConsumer(a)
		if !found {
			return fmt.Errorf("slice %s -> %s: axis %s missing from correspondence", in, out, a)
		}
		logical, found := rootToLogical[mapped]
		if !found {
			return fmt.Errorf("slice %s -> %s: root axis %s has no logical counterpart", in, out, mapped)
		}
		outLayout.Allocation = append(outLayout.Allocation, logical)
		inContiguity = append(inContiguity, inLayout.Contiguity[i])
	}

	// Scan minor-to-major. When an axis is bound-restricted, the next
	// more-major non-broadcast axis can no longer be contiguous.
	outLayout.Contiguity = make([]graph.Contiguity, len(outLayout.Allocation))
	nextIsNonContiguous := false
	for i := len(outLayout.Allocation) - 1; i >= 0; i-- {
		a := outLayout.Allocation[i]
		switch {
		case a.IsBroadcast():
			outLayout.Contiguity[i] = graph.NotApplicable
		case nextIsNonContiguous:
			outLayout.Contiguity[i] = graph.Dense
			nextIsNonContiguous = false
		default:
			outLayout.Contiguity[i] = inContiguity[i]
		}

		// A broadcast axis can be a slicing product as well.
		if out.IsResizedFromRoot(a) {
			nextIsNonContiguous = true
		}
	}

	return f.analysis.add(out, in, outLayout)
}

func (f *finder) handleBroadcast(bcast *graph.BroadcastOp) error {
	in, out := bcast.In(), bcast.Out()

	inLayout, ok := f.inputLayoutForAliasing(in)
	if !ok {
		return nil
	}

	m, err := graph.Pairwise(bcast)
	if err != nil {
		return err
	}

	// Preserve the allocation order of existing dimensions.
	outLayout := Layout{}
	for i, a := range inLayout.Allocation {
		if a.IsReduction() {
			continue
		}
		mapped, found := m.ToConsumer(a)
		if !found {
			return fmt.Errorf("broadcast %s -> %s: axis %s missing from correspondence", in, out, a)
		}
		outLayout.Allocation = append(outLayout.Allocation, mapped)
		outLayout.Contiguity = append(outLayout.Contiguity, inLayout.Contiguity[i])
	}

	// New broadcast dimensions go to the end of the allocation order,
	// wherever they sit logically.
	for i, a := range out.Logical() {
		if bcast.IsBroadcastDim(i) {
			outLayout.Allocation = append(outLayout.Allocation, a)
			outLayout.Contiguity = append(outLayout.Contiguity, graph.NotApplicable)
		}
	}

	return f.analysis.add(out, in, outLayout)
}

func (f *finder) handleSqueeze(squeeze *graph.SqueezeOp) error {
	in, out := squeeze.In(), squeeze.Out()

	inLayout, ok := f.inputLayoutForAliasing(in)
	if !ok {
		return nil
	}

	m, err := graph.Pairwise(squeeze)
	if err != nil {
		return err
	}

	// Keep only the axes that survive the squeeze, in order.
	outLayout := Layout{}
	for i, a := range inLayout.Allocation {
		mapped, found := m.ToConsumer(a)
		if !found {
			continue
		}
		outLayout.Allocation = append(outLayout.Allocation, mapped)
		outLayout.Contiguity = append(outLayout.Contiguity, inLayout.Contiguity[i])
	}

	return f.analysis.add(out, in, outLayout)
}
