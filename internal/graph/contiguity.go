package graph

// Contiguity is the tri-state per-axis layout marker.
//
// An axis is Contiguous when its stride equals the combined extent of
// all more-minor axes, Dense when elements are laid out without
// reordering but with a gap (for example after slicing a more-minor
// axis), and NotApplicable for broadcast or expanded axes where a
// stride carries no meaning.
type Contiguity uint8

const (
	NotApplicable Contiguity = iota
	Contiguous
	Dense
)

// String renders the flag in the compact form used by layout dumps:
// "t" for contiguous, "f" for dense, "n" for not-applicable.
func (c Contiguity) String() string {
	switch c {
	case Contiguous:
		return "t"
	case Dense:
		return "f"
	case NotApplicable:
		return "n"
	default:
		return "?"
	}
}
