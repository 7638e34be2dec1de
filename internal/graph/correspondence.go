package graph

import "fmt"

// AxisMap is the bidirectional axis correspondence between an
// operation's input (producer) logical domain and its output
// (consumer) root domain.
type AxisMap struct {
	toConsumer map[*Axis]*Axis
	toProducer map[*Axis]*Axis
}

// Pairwise builds the axis correspondence for one of the supported
// operation kinds. Producer reduction axes, consumer axes introduced
// by a broadcast, and producer axes removed by a squeeze have no
// counterpart and are skipped; the remaining axes are paired
// positionally.
func Pairwise(op Op) (*AxisMap, error) {
	in, out := op.In(), op.Out()

	producer := make([]*Axis, 0, len(in.logical))
	for i, a := range in.logical {
		if a.IsReduction() {
			continue
		}
		if sq, ok := op.(*SqueezeOp); ok && sq.IsSqueezedDim(i) {
			continue
		}
		producer = append(producer, a)
	}

	consumer := make([]*Axis, 0, len(out.root))
	for i, a := range out.root {
		if bc, ok := op.(*BroadcastOp); ok && bc.IsBroadcastDim(i) {
			continue
		}
		consumer = append(consumer, a)
	}

	if len(producer) != len(consumer) {
		return nil, fmt.Errorf("pairwise map %s -> %s: %d producer axes vs %d consumer axes",
			in, out, len(producer), len(consumer))
	}

	m := &AxisMap{
		toConsumer: make(map[*Axis]*Axis, len(producer)),
		toProducer: make(map[*Axis]*Axis, len(producer)),
	}
	for i, p := range producer {
		m.toConsumer[p] = consumer[i]
		m.toProducer[consumer[i]] = p
	}
	return m, nil
}

// ToConsumer maps a producer logical axis to its consumer root
// counterpart.
func (m *AxisMap) ToConsumer(a *Axis) (*Axis, bool) {
	c, ok := m.toConsumer[a]
	return c, ok
}

// ToProducer maps a consumer root axis to its producer logical
// counterpart.
func (m *AxisMap) ToProducer(a *Axis) (*Axis, bool) {
	p, ok := m.toProducer[a]
	return p, ok
}

// ToConsumerOr maps a producer axis to its consumer counterpart, or
// returns the axis itself when it has none.
func (m *AxisMap) ToConsumerOr(a *Axis) *Axis {
	if c, ok := m.toConsumer[a]; ok {
		return c
	}
	return a
}

// ToProducerOr maps a consumer axis to its producer counterpart, or
// returns the axis itself when it has none.
func (m *AxisMap) ToProducerOr(a *Axis) *Axis {
	if p, ok := m.toProducer[a]; ok {
		return p
	}
	return a
}
