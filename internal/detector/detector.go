package detector

import (
	"fmt"

	"gocv.io/x/gocv"
)

// Detector defines the interface for hand-pose detection implementations.
type Detector interface {
	// Detect analyzes a video frame and returns the joints of the first
	// detected hand, or nil if no hand is in the frame.
	Detect(frame *gocv.Mat) (Hand, error)

	// Close releases any resources held by the detector.
	Close() error
}

// Config holds configuration options for hand detection.
type Config struct {
	// MaxHands is the maximum number of hands the service looks for.
	// Only the first hand is reported.
	MaxHands int

	// MinConfidence is the minimum detection confidence threshold (0.0-1.0)
	// passed to the detection service.
	MinConfidence float64

	// MinTrackingConf is the minimum tracking confidence threshold (0.0-1.0).
	MinTrackingConf float64
}

// DefaultConfig returns a Config that tracks a single hand.
func DefaultConfig() Config {
	return Config{
		MaxHands:        1,
		MinConfidence:   0.5,
		MinTrackingConf: 0.5,
	}
}

// Error is a failure of the detector while processing a single frame.
// It ends the capture session that produced the frame.
type Error struct {
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("hand detection failed: %v", e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
