package alias_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kiln-ml/kiln/alias"
	"github.com/kiln-ml/kiln/graph"
)

// TestFindOverPublicAPI drives the analysis the way a code generator
// would: build a graph, run Find, then query buffer-reuse decisions.
func TestFindOverPublicAPI(t *testing.T) {
	g := graph.New()
	i0 := g.NewAxis("i0", 16)
	i1 := g.NewAxis("i1", 128)
	in := g.NewTensor("in", i0, i1)
	require.NoError(t, in.SetAllocationDomain(
		[]*graph.Axis{i0, i1},
		[]graph.Contiguity{graph.Contiguous, graph.Contiguous}))
	g.AddInput(in)

	r0 := g.NewAxis("r0", 16)
	r1 := g.NewAxis("r1", 128)
	out, err := g.NewPermutedTensor("out", []*graph.Axis{r0, r1}, []*graph.Axis{r1, r0})
	require.NoError(t, err)
	g.AddOutput(out)
	g.AddPermute(in, out)

	result, err := alias.Find(g)
	require.NoError(t, err)

	src := result.GetNearestAliasedIo(out)
	require.Same(t, in, src)

	layout := result.PreferredLayout(out)
	assert.Equal(t, []*graph.Axis{r0, r1}, layout.Allocation)
	assert.Equal(t, []graph.Contiguity{graph.Contiguous, graph.Contiguous}, layout.Contiguity)

	assert.Contains(t, result.String(), "out is an alias of in")
}

func TestFindStrictOverPublicAPI(t *testing.T) {
	g := graph.New()
	i0 := g.NewAxis("i0", 4)
	i1 := g.NewAxis("i1", 2)
	in := g.NewTensor("in", i0, i1)
	require.NoError(t, in.SetAllocationDomain(
		[]*graph.Axis{i0, i1},
		[]graph.Contiguity{graph.Contiguous, graph.Contiguous}))
	g.AddInput(in)

	r0 := g.NewAxis("r0", 4)
	r1 := g.NewAxis("r1", 2)
	out, err := g.NewPermutedTensor("out", []*graph.Axis{r0, r1}, []*graph.Axis{r1, r0})
	require.NoError(t, err)
	g.AddOutput(out)
	g.AddPermute(in, out)

	strict, err := alias.FindStrict(g)
	require.NoError(t, err)
	assert.Nil(t, strict.GetNearestAliasedIo(out), "strict mode holds the output to its logical-order layout")
}
