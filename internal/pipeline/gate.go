// Package pipeline implements the per-frame hand-point stages: confidence
// gating, coordinate transform, presence tracking and OSC emission.
package pipeline

import "github.com/ayusman/handosc/internal/detector"

// ConfidenceThreshold is the confidence every joint must exceed for the
// frame's hand to be accepted.
const ConfidenceThreshold float32 = 0.3

// Observation is a hand that passed the confidence gate: exactly one
// sample per joint, indexed by joint name.
type Observation struct {
	Joints [detector.NumJoints]detector.JointSample
}

// Gate accepts a detector result only if all 21 joints are present and
// each has confidence above ConfidenceThreshold. Any other input,
// including a nil hand, yields nil. A single weak joint discards the whole
// hand; partial skeletons are never produced.
func Gate(hand detector.Hand) *Observation {
	if hand == nil {
		return nil
	}

	obs := &Observation{}
	for _, j := range detector.AllJoints() {
		sample, ok := hand[j]
		if !ok || sample.Confidence <= ConfidenceThreshold {
			return nil
		}
		sample.Name = j
		obs.Joints[j] = sample
	}
	return obs
}
