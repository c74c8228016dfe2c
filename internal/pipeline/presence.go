package pipeline

// Transition is the edge produced by a presence update.
type Transition int

const (
	// None means the presence state did not change.
	None Transition = iota
	// Appeared means a hand became visible.
	Appeared
	// Disappeared means a visible hand was lost.
	Disappeared
)

func (t Transition) String() string {
	switch t {
	case Appeared:
		return "appeared"
	case Disappeared:
		return "disappeared"
	default:
		return "none"
	}
}

// PresenceTracker latches whether a hand is visible and reports each
// change exactly once. It is not safe for concurrent use; the owning
// pipeline serializes updates.
type PresenceTracker struct {
	visible bool
}

// Update records whether the current frame contains a hand and returns
// the resulting transition. Repeated frames of the same kind return None.
func (p *PresenceTracker) Update(handInFrame bool) Transition {
	switch {
	case handInFrame && !p.visible:
		p.visible = true
		return Appeared
	case !handInFrame && p.visible:
		p.visible = false
		return Disappeared
	default:
		return None
	}
}

// Visible reports the latched state.
func (p *PresenceTracker) Visible() bool {
	return p.visible
}

// Reset returns the tracker to not-visible without reporting a transition.
func (p *PresenceTracker) Reset() {
	p.visible = false
}
