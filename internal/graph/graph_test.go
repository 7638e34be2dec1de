package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplayTransformsSplitMerge(t *testing.T) {
	g := New()
	o0 := g.NewAxis("o0", 2)
	o1 := g.NewAxis("o1", 3)
	o2 := g.NewAxis("o2", 4)
	o2a := g.NewAxis("o2a", 2)
	o2b := g.NewAxis("o2b", 2)
	m01 := g.NewAxis("m01", 6)

	out, err := g.NewReshapedTensor("out", []*Axis{o0, o1, o2}, []Transform{
		&Split{In: o2, Outer: o2a, Inner: o2b},
		&Merge{Outer: o0, Inner: o1, Out: m01},
	})
	require.NoError(t, err)

	assert.Equal(t, []*Axis{o0, o1, o2}, out.Root())
	assert.Equal(t, []*Axis{m01, o2a, o2b}, out.Logical())
}

func TestReplayTransformsRejectsNonAdjacentMerge(t *testing.T) {
	g := New()
	o0 := g.NewAxis("o0", 2)
	o1 := g.NewAxis("o1", 3)
	o2 := g.NewAxis("o2", 4)
	m := g.NewAxis("m", 8)

	_, err := g.NewReshapedTensor("out", []*Axis{o0, o1, o2}, []Transform{
		&Merge{Outer: o0, Inner: o2, Out: m},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not adjacent")
}

func TestReplayTransformsResize(t *testing.T) {
	g := New()
	b0 := g.NewAxis("b0", 8)
	b1 := g.NewAxis("b1", 4)
	b1s := g.NewAxis("b1s", 2)

	out, err := g.NewReshapedTensor("out", []*Axis{b0, b1}, []Transform{
		&Resize{In: b1, Out: b1s},
	})
	require.NoError(t, err)

	assert.Equal(t, []*Axis{b0, b1s}, out.Logical())
	assert.True(t, out.IsResizedFromRoot(b1s))
	assert.False(t, out.IsResizedFromRoot(b0))
}

func TestIsResizedFromRootThroughSplit(t *testing.T) {
	g := New()
	r0 := g.NewAxis("r0", 16)
	r0s := g.NewAxis("r0s", 8)
	outA := g.NewAxis("outA", 2)
	inA := g.NewAxis("inA", 4)

	// A resize followed by a split: both split products are
	// bound-restricted.
	out, err := g.NewReshapedTensor("out", []*Axis{r0}, []Transform{
		&Resize{In: r0, Out: r0s},
		&Split{In: r0s, Outer: outA, Inner: inA},
	})
	require.NoError(t, err)

	assert.True(t, out.IsResizedFromRoot(outA))
	assert.True(t, out.IsResizedFromRoot(inA))
}

func TestPairwiseMapsPositionally(t *testing.T) {
	g := New()
	i0 := g.NewAxis("i0", 2)
	i1 := g.NewAxis("i1", 3)
	r0 := g.NewAxis("r0", 2)
	r1 := g.NewAxis("r1", 3)

	x := g.NewTensor("x", i0, i1)
	y, err := g.NewPermutedTensor("y", []*Axis{r0, r1}, []*Axis{r1, r0})
	require.NoError(t, err)
	op := g.AddPermute(x, y)

	m, err := Pairwise(op)
	require.NoError(t, err)

	mapped, ok := m.ToConsumer(i0)
	require.True(t, ok)
	assert.Same(t, r0, mapped)

	back, ok := m.ToProducer(r1)
	require.True(t, ok)
	assert.Same(t, i1, back)
}

func TestPairwiseSkipsReductionAxes(t *testing.T) {
	g := New()
	i0 := g.NewAxis("i0", 2)
	red := g.NewReductionAxis("red", 3)
	i2 := g.NewAxis("i2", 4)
	r0 := g.NewAxis("r0", 2)
	r2 := g.NewAxis("r2", 4)

	x := g.NewTensor("x", i0, red, i2)
	y := g.NewTensor("y", r0, r2)
	op := g.AddPermute(x, y)

	m, err := Pairwise(op)
	require.NoError(t, err)

	_, ok := m.ToConsumer(red)
	assert.False(t, ok)

	mapped, ok := m.ToConsumer(i2)
	require.True(t, ok)
	assert.Same(t, r2, mapped)
}

func TestPairwiseSkipsBroadcastNewDims(t *testing.T) {
	g := New()
	i0 := g.NewAxis("i0", 2)
	n0 := g.NewBroadcastAxis("n0")
	r0 := g.NewAxis("r0", 2)

	x := g.NewTensor("x", i0)
	y := g.NewTensor("y", n0, r0)
	op, err := g.AddBroadcast(x, y, []bool{true, false})
	require.NoError(t, err)

	m, err := Pairwise(op)
	require.NoError(t, err)

	mapped, ok := m.ToConsumer(i0)
	require.True(t, ok)
	assert.Same(t, r0, mapped)

	_, ok = m.ToProducer(n0)
	assert.False(t, ok)
}

func TestPairwiseSkipsSqueezedDims(t *testing.T) {
	g := New()
	b0 := g.NewBroadcastAxis("b0")
	i1 := g.NewAxis("i1", 5)
	r0 := g.NewAxis("r0", 5)

	x := g.NewTensor("x", b0, i1)
	y := g.NewTensor("y", r0)
	op, err := g.AddSqueeze(x, y, []bool{true, false})
	require.NoError(t, err)

	m, err := Pairwise(op)
	require.NoError(t, err)

	_, ok := m.ToConsumer(b0)
	assert.False(t, ok)

	mapped, ok := m.ToConsumer(i1)
	require.True(t, ok)
	assert.Same(t, r0, mapped)
}

func TestPairwiseReportsRankMismatch(t *testing.T) {
	g := New()
	i0 := g.NewAxis("i0", 2)
	i1 := g.NewAxis("i1", 3)
	r0 := g.NewAxis("r0", 2)

	x := g.NewTensor("x", i0, i1)
	y := g.NewTensor("y", r0)
	op := g.AddPermute(x, y)

	_, err := Pairwise(op)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "producer axes")
}

func TestIsPermutationOf(t *testing.T) {
	g := New()
	a := g.NewAxis("a", 2)
	b := g.NewAxis("b", 3)
	c := g.NewAxis("c", 4)

	assert.True(t, IsPermutationOf([]*Axis{a, b, c}, []*Axis{c, a, b}))
	assert.False(t, IsPermutationOf([]*Axis{a, b, c}, []*Axis{a, b}))
	assert.False(t, IsPermutationOf([]*Axis{a, b}, []*Axis{a, a}))
}

func TestMaybeAllocationDomainDefaults(t *testing.T) {
	g := New()
	i0 := g.NewAxis("i0", 2)
	i1 := g.NewAxis("i1", 3)
	x := g.NewTensor("x", i0, i1)

	assert.Equal(t, []*Axis{i0, i1}, x.MaybeAllocationDomain())
	assert.Equal(t, []Contiguity{Dense, Dense}, x.MaybeContiguity())
	assert.Nil(t, x.AllocationDomain())

	require.NoError(t, x.SetAllocationDomain([]*Axis{i1, i0}, []Contiguity{Contiguous, Dense}))
	assert.Equal(t, []*Axis{i1, i0}, x.MaybeAllocationDomain())
	assert.Equal(t, []Contiguity{Contiguous, Dense}, x.MaybeContiguity())
}

func TestSetAllocationDomainLengthMismatch(t *testing.T) {
	g := New()
	i0 := g.NewAxis("i0", 2)
	x := g.NewTensor("x", i0)

	err := x.SetAllocationDomain([]*Axis{i0}, []Contiguity{})
	require.Error(t, err)
}

func TestGraphBookkeeping(t *testing.T) {
	g := New()
	assert.NotEmpty(t, g.ID())

	i0 := g.NewAxis("i0", 2)
	x := g.NewTensor("x", i0)
	y := g.NewTensor("y", i0)
	g.AddInput(x)
	g.AddOutput(y)
	g.AddOther("add", y, x)

	assert.True(t, x.IsGraphInput())
	assert.False(t, x.IsGraphOutput())
	assert.True(t, y.IsGraphOutput())
	assert.Len(t, g.Ops(), 1)
	assert.Equal(t, []*Tensor{x}, g.Inputs())
	assert.Equal(t, []*Tensor{y}, g.Outputs())
}
