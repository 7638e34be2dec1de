package alias

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kiln-ml/kiln/internal/graph"
)

func TestSplitContiguityTable(t *testing.T) {
	tests := []struct {
		name      string
		in        graph.Contiguity
		wantOuter graph.Contiguity
		wantInner graph.Contiguity
	}{
		{"not applicable", graph.NotApplicable, graph.NotApplicable, graph.NotApplicable},
		{"contiguous", graph.Contiguous, graph.Contiguous, graph.Contiguous},
		{"dense", graph.Dense, graph.Contiguous, graph.Dense},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outer, inner := splitContiguity(tt.in)
			assert.Equal(t, tt.wantOuter, outer)
			assert.Equal(t, tt.wantInner, inner)
		})
	}
}

func TestMergeContiguityTable(t *testing.T) {
	g := graph.New()
	iter := func(name string) *graph.Axis { return g.NewAxis(name, 4) }
	bcast := func(name string) *graph.Axis { return g.NewBroadcastAxis(name) }
	expanded := func(name string) *graph.Axis { return g.NewExpandedAxis(name, 4) }

	tests := []struct {
		name          string
		outer         *graph.Axis
		outerC        graph.Contiguity
		inner         *graph.Axis
		innerC        graph.Contiguity
		wantMergeable bool
		wantMerged    graph.Contiguity
	}{
		{"contiguous x contiguous", iter("a"), graph.Contiguous, iter("b"), graph.Contiguous, true, graph.Contiguous},
		{"contiguous x dense", iter("c"), graph.Contiguous, iter("d"), graph.Dense, true, graph.Dense},
		{"dense outer stops", iter("e"), graph.Dense, iter("f"), graph.Contiguous, false, graph.NotApplicable},
		{"broadcast outer passes through inner", bcast("g"), graph.NotApplicable, iter("h"), graph.Contiguous, true, graph.Contiguous},
		{"broadcast inner passes through outer", iter("i"), graph.Dense, bcast("j"), graph.NotApplicable, true, graph.Dense},
		{"both expanded", expanded("k"), graph.NotApplicable, expanded("l"), graph.NotApplicable, true, graph.NotApplicable},
		{"only outer expanded", expanded("m"), graph.NotApplicable, iter("n"), graph.Contiguous, false, graph.NotApplicable},
		{"only inner expanded", iter("o"), graph.Contiguous, expanded("p"), graph.NotApplicable, false, graph.NotApplicable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mergeable, merged := mergeContiguity(tt.outer, tt.outerC, tt.inner, tt.innerC)
			require.Equal(t, tt.wantMergeable, mergeable)
			if mergeable {
				assert.Equal(t, tt.wantMerged, merged)
			}
		})
	}
}
