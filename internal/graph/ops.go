package graph

import "fmt"

// Op is one shape-transforming operation of the graph. The concrete
// kinds understood by the alias analysis are ViewOp, PermuteOp,
// SliceOp, BroadcastOp and SqueezeOp; anything else is represented as
// an OtherOp and skipped by the analysis.
type Op interface {
	// In returns the operation's primary input tensor.
	In() *Tensor
	// Out returns the operation's output tensor.
	Out() *Tensor
	isOp()
}

// ViewOp reshapes its input; the output's root-to-logical transform
// chain records the Split/Merge steps.
type ViewOp struct {
	in  *Tensor
	out *Tensor
}

func (v *ViewOp) In() *Tensor  { return v.in }
func (v *ViewOp) Out() *Tensor { return v.out }
func (*ViewOp) isOp()          {}

// PermuteOp reorders the logical axes of its input without changing
// the physical layout.
type PermuteOp struct {
	in  *Tensor
	out *Tensor
}

func (p *PermuteOp) In() *Tensor  { return p.in }
func (p *PermuteOp) Out() *Tensor { return p.out }
func (*PermuteOp) isOp()          {}

// SliceOp restricts one or more axes to sub-ranges; the output's
// transform chain records the Resize steps.
type SliceOp struct {
	in  *Tensor
	out *Tensor
}

func (s *SliceOp) In() *Tensor  { return s.in }
func (s *SliceOp) Out() *Tensor { return s.out }
func (*SliceOp) isOp()          {}

// BroadcastOp introduces broadcast axes into its input.
type BroadcastOp struct {
	in  *Tensor
	out *Tensor
	// isNewDim is indexed over the output's logical domain; true marks
	// an axis introduced by this broadcast.
	isNewDim []bool
}

func (b *BroadcastOp) In() *Tensor  { return b.in }
func (b *BroadcastOp) Out() *Tensor { return b.out }
func (*BroadcastOp) isOp()          {}

// IsBroadcastDim reports whether the i-th output logical axis was
// introduced by this broadcast.
func (b *BroadcastOp) IsBroadcastDim(i int) bool { return b.isNewDim[i] }

// SqueezeOp removes broadcast axes from its input.
type SqueezeOp struct {
	in  *Tensor
	out *Tensor
	// isSqueezedDim is indexed over the input's logical domain; true
	// marks an axis removed by this squeeze.
	isSqueezedDim []bool
}

func (s *SqueezeOp) In() *Tensor  { return s.in }
func (s *SqueezeOp) Out() *Tensor { return s.out }
func (*SqueezeOp) isOp()          {}

// IsSqueezedDim reports whether the i-th input logical axis is removed
// by this squeeze.
func (s *SqueezeOp) IsSqueezedDim(i int) bool { return s.isSqueezedDim[i] }

// OtherOp is any operation the alias analysis does not reason about,
// for example an elementwise compute or a reduction. It may have extra
// inputs beyond the primary one.
type OtherOp struct {
	kind string
	ins  []*Tensor
	out  *Tensor
}

func (o *OtherOp) In() *Tensor  { return o.ins[0] }
func (o *OtherOp) Out() *Tensor { return o.out }
func (*OtherOp) isOp()          {}

// Kind returns the free-form kind label of the operation.
func (o *OtherOp) Kind() string { return o.kind }

// Ins returns all input tensors.
func (o *OtherOp) Ins() []*Tensor { return o.ins }

// AddView records a view operation. The output tensor must carry the
// Split/Merge transform chain relating its root to its logical domain.
func (g *Graph) AddView(in, out *Tensor) *ViewOp {
	op := &ViewOp{in: in, out: out}
	g.ops = append(g.ops, op)
	return op
}

// AddPermute records a permute operation. The output tensor's logical
// domain must be a reordering of its root domain.
func (g *Graph) AddPermute(in, out *Tensor) *PermuteOp {
	op := &PermuteOp{in: in, out: out}
	g.ops = append(g.ops, op)
	return op
}

// AddSlice records a slice operation. The output tensor must carry
// Resize transforms for every bound-restricted axis.
func (g *Graph) AddSlice(in, out *Tensor) *SliceOp {
	op := &SliceOp{in: in, out: out}
	g.ops = append(g.ops, op)
	return op
}

// AddBroadcast records a broadcast operation. isNewDim is indexed over
// the output's logical domain and marks the introduced axes.
func (g *Graph) AddBroadcast(in, out *Tensor, isNewDim []bool) (*BroadcastOp, error) {
	if len(isNewDim) != len(out.logical) {
		return nil, fmt.Errorf("broadcast %s -> %s: %d flags for %d output axes",
			in, out, len(isNewDim), len(out.logical))
	}
	op := &BroadcastOp{in: in, out: out, isNewDim: isNewDim}
	g.ops = append(g.ops, op)
	return op, nil
}

// AddSqueeze records a squeeze operation. isSqueezedDim is indexed
// over the input's logical domain and marks the removed axes.
func (g *Graph) AddSqueeze(in, out *Tensor, isSqueezedDim []bool) (*SqueezeOp, error) {
	if len(isSqueezedDim) != len(in.logical) {
		return nil, fmt.Errorf("squeeze %s -> %s: %d flags for %d input axes",
			in, out, len(isSqueezedDim), len(in.logical))
	}
	op := &SqueezeOp{in: in, out: out, isSqueezedDim: isSqueezedDim}
	g.ops = append(g.ops, op)
	return op, nil
}

// AddOther records an operation the alias analysis will skip.
func (g *Graph) AddOther(kind string, out *Tensor, ins ...*Tensor) *OtherOp {
	op := &OtherOp{kind: kind, ins: ins, out: out}
	g.ops = append(g.ops, op)
	return op
}
