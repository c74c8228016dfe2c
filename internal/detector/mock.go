package detector

import (
	"sync"

	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	mu       sync.Mutex
	hand     Hand
	sequence []Hand
	err      error
	calls    int
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHand sets the hand that will be returned by every Detect call.
func (m *MockDetector) SetHand(hand Hand) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hand = hand
	m.sequence = nil
}

// SetSequence makes Detect return the given hands in order, one per call.
// Once the sequence is exhausted Detect reports no hand.
func (m *MockDetector) SetSequence(hands []Hand) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sequence = hands
	m.hand = nil
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Calls returns how many times Detect has been called.
func (m *MockDetector) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Detect returns the pre-configured hand or error.
func (m *MockDetector) Detect(frame *gocv.Mat) (Hand, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	if m.sequence != nil {
		if len(m.sequence) == 0 {
			return nil, nil
		}
		next := m.sequence[0]
		m.sequence = m.sequence[1:]
		return next, nil
	}
	return m.hand, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// UniformHand returns a hand with every joint at the given confidence.
// Joint i sits at (0.02+0.045*i, 0.1+0.04*i) so each location is distinct.
func UniformHand(confidence float32) Hand {
	hand := make(Hand, NumJoints)
	for _, j := range AllJoints() {
		hand[j] = JointSample{
			Name:       j,
			Location:   Point{X: 0.02 + 0.045*float32(j), Y: 0.1 + 0.04*float32(j)},
			Confidence: confidence,
		}
	}
	return hand
}

// OpenPalmHand returns a preset hand with all fingers extended upward,
// in detector space (y grows toward the top of the frame).
func OpenPalmHand() Hand {
	locations := map[JointName]Point{
		Wrist: {X: 0.50, Y: 0.20},

		ThumbCMC: {X: 0.55, Y: 0.25},
		ThumbMP:  {X: 0.62, Y: 0.30},
		ThumbIP:  {X: 0.68, Y: 0.35},
		ThumbTip: {X: 0.73, Y: 0.40},

		IndexMCP: {X: 0.55, Y: 0.32},
		IndexPIP: {X: 0.57, Y: 0.45},
		IndexDIP: {X: 0.58, Y: 0.55},
		IndexTip: {X: 0.58, Y: 0.65},

		MiddleMCP: {X: 0.50, Y: 0.34},
		MiddlePIP: {X: 0.50, Y: 0.48},
		MiddleDIP: {X: 0.50, Y: 0.60},
		MiddleTip: {X: 0.50, Y: 0.72},

		RingMCP: {X: 0.45, Y: 0.32},
		RingPIP: {X: 0.43, Y: 0.45},
		RingDIP: {X: 0.42, Y: 0.55},
		RingTip: {X: 0.42, Y: 0.65},

		LittleMCP: {X: 0.40, Y: 0.30},
		LittlePIP: {X: 0.37, Y: 0.40},
		LittleDIP: {X: 0.35, Y: 0.50},
		LittleTip: {X: 0.34, Y: 0.58},
	}

	hand := make(Hand, NumJoints)
	for j, p := range locations {
		hand[j] = JointSample{Name: j, Location: p, Confidence: 0.9}
	}
	return hand
}
