package pipeline

import (
	"strconv"

	"go.uber.org/zap"

	"github.com/ayusman/handosc/internal/detector"
)

// AddressPrefix is the OSC address prefix for joint messages; the joint
// index is appended, e.g. "/hand/point7".
const AddressPrefix = "/hand/point"

// Transport sends one message with float arguments to a fixed receiver.
type Transport interface {
	Send(address string, args ...float32) error
}

// Address returns the OSC address for the point at index i.
func Address(i int) string {
	return AddressPrefix + strconv.Itoa(i)
}

// Emitter sends one message per transformed point.
type Emitter struct {
	transport Transport
	log       *zap.SugaredLogger
}

// NewEmitter creates an Emitter that writes to transport.
func NewEmitter(transport Transport, log *zap.SugaredLogger) *Emitter {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Emitter{transport: transport, log: log}
}

// Emit sends /hand/point{i} with (x, y) for each point in order. An empty
// slice sends nothing. Send failures are logged and otherwise ignored;
// delivery belongs to the transport. Returns the number of messages the
// transport accepted.
func (e *Emitter) Emit(points []detector.Point) int {
	if e.transport == nil {
		return 0
	}

	sent := 0
	for i, p := range points {
		if err := e.transport.Send(Address(i), p.X, p.Y); err != nil {
			e.log.Debugw("OSC send failed", "address", Address(i), "error", err)
			continue
		}
		sent++
	}
	return sent
}
