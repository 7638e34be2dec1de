package graph

import "fmt"

// Transform is one primitive reshape step relating a tensor's root
// domain to its logical domain. The concrete kinds are Split, Merge
// and Resize; a view chain is a dependency-ordered sequence of them.
type Transform interface {
	isTransform()
	String() string
}

// Split divides one axis into an outer and an inner axis.
type Split struct {
	In    *Axis
	Outer *Axis
	Inner *Axis
}

func (*Split) isTransform() {}

func (s *Split) String() string {
	return fmt.Sprintf("split(%s -> %s, %s)", s.In, s.Outer, s.Inner)
}

// Merge combines two axes that are adjacent in the logical domain into
// one axis, outer-major.
type Merge struct {
	Outer *Axis
	Inner *Axis
	Out   *Axis
}

func (*Merge) isTransform() {}

func (m *Merge) String() string {
	return fmt.Sprintf("merge(%s, %s -> %s)", m.Outer, m.Inner, m.Out)
}

// Resize restricts an axis to a sub-range, producing a new axis with a
// smaller extent. Slice outputs relate root to logical through Resize
// transforms.
type Resize struct {
	In  *Axis
	Out *Axis
}

func (*Resize) isTransform() {}

func (r *Resize) String() string {
	return fmt.Sprintf("resize(%s -> %s)", r.In, r.Out)
}

// replayTransforms applies a root-to-logical transform chain to the
// root axis order and returns the resulting logical order. Merge
// operands must be adjacent in the running order; the chain must be in
// dependency order.
func replayTransforms(root []*Axis, transforms []Transform) ([]*Axis, error) {
	axes := make([]*Axis, len(root))
	copy(axes, root)

	position := func(a *Axis) int {
		for i, ax := range axes {
			if ax == a {
				return i
			}
		}
		return -1
	}

	for _, tr := range transforms {
		switch tr := tr.(type) {
		case *Split:
			i := position(tr.In)
			if i < 0 {
				return nil, fmt.Errorf("split input %s not in domain", tr.In)
			}
			replaced := append([]*Axis{}, axes[:i]...)
			replaced = append(replaced, tr.Outer, tr.Inner)
			axes = append(replaced, axes[i+1:]...)
		case *Merge:
			i := position(tr.Outer)
			if i < 0 {
				return nil, fmt.Errorf("merge outer %s not in domain", tr.Outer)
			}
			if i+1 >= len(axes) || axes[i+1] != tr.Inner {
				return nil, fmt.Errorf("merge operands %s and %s are not adjacent", tr.Outer, tr.Inner)
			}
			replaced := append([]*Axis{}, axes[:i]...)
			replaced = append(replaced, tr.Out)
			axes = append(replaced, axes[i+2:]...)
		case *Resize:
			i := position(tr.In)
			if i < 0 {
				return nil, fmt.Errorf("resize input %s not in domain", tr.In)
			}
			axes[i] = tr.Out
		default:
			return nil, fmt.Errorf("unknown transform kind %T", tr)
		}
	}
	return axes, nil
}
