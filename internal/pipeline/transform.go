package pipeline

import "github.com/ayusman/handosc/internal/detector"

// Projector maps a capture-relative normalized point (origin top-left)
// into view pixel coordinates.
type Projector interface {
	Project(p detector.Point) detector.Point
}

// ProjectorFunc adapts a function to the Projector interface.
type ProjectorFunc func(p detector.Point) detector.Point

// Project calls f(p).
func (f ProjectorFunc) Project(p detector.Point) detector.Point {
	return f(p)
}

// Identity leaves normalized points unchanged.
var Identity Projector = ProjectorFunc(func(p detector.Point) detector.Point { return p })

// FlipY converts a detector-space point (origin bottom-left) into
// capture-device space (origin top-left). Applying it twice returns the
// original point.
func FlipY(p detector.Point) detector.Point {
	return detector.Point{X: p.X, Y: 1 - p.Y}
}

// Transform flips every joint of obs into capture-device space and
// projects it into view coordinates. The result has one point per joint
// in joint order, or is empty when obs is nil.
func Transform(obs *Observation, proj Projector) []detector.Point {
	if obs == nil {
		return []detector.Point{}
	}
	if proj == nil {
		proj = Identity
	}

	points := make([]detector.Point, detector.NumJoints)
	for i, s := range obs.Joints {
		points[i] = proj.Project(FlipY(s.Location))
	}
	return points
}
