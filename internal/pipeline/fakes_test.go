package pipeline

import (
	"errors"

	"github.com/ayusman/handosc/internal/detector"
)

type sentMessage struct {
	Address string
	Args    []float32
}

type recordingTransport struct {
	messages []sentMessage
	failOn   map[string]bool
}

func (r *recordingTransport) Send(address string, args ...float32) error {
	if r.failOn[address] {
		return errors.New("network unreachable")
	}
	r.messages = append(r.messages, sentMessage{Address: address, Args: append([]float32(nil), args...)})
	return nil
}

type recordingOverlay struct {
	frames [][]detector.Point
}

func (r *recordingOverlay) Show(points []detector.Point) {
	r.frames = append(r.frames, points)
}

type recordingCues struct {
	events []Transition
}

func (r *recordingCues) Appeared()    { r.events = append(r.events, Appeared) }
func (r *recordingCues) Disappeared() { r.events = append(r.events, Disappeared) }
