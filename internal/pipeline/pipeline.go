package pipeline

import (
	"go.uber.org/zap"

	"github.com/ayusman/handosc/internal/detector"
)

// Overlay receives the transformed points of every frame, 0 or 21 of them.
type Overlay interface {
	Show(points []detector.Point)
}

// Cues plays the audio cues for presence transitions.
type Cues interface {
	Appeared()
	Disappeared()
}

// FrameSizer is implemented by projectors whose mapping depends on the
// size of the captured frame.
type FrameSizer interface {
	SetFrameSize(width, height int)
}

// Result is the outcome of one frame.
type Result struct {
	Points     []detector.Point
	Transition Transition
	Sent       int
}

// Pipeline runs the post-gate stages for one capture session. Handle and
// Reset must be called from a single goroutine.
type Pipeline struct {
	projector Projector
	presence  PresenceTracker
	emitter   *Emitter
	overlay   Overlay
	cues      Cues
	log       *zap.SugaredLogger
}

// Options configures a Pipeline. Nil collaborators are skipped.
type Options struct {
	Projector Projector
	Transport Transport
	Overlay   Overlay
	Cues      Cues
	Logger    *zap.SugaredLogger
}

// New creates a Pipeline from opts.
func New(opts Options) *Pipeline {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	proj := opts.Projector
	if proj == nil {
		proj = Identity
	}
	return &Pipeline{
		projector: proj,
		emitter:   NewEmitter(opts.Transport, log),
		overlay:   opts.Overlay,
		cues:      opts.Cues,
		log:       log,
	}
}

// Handle transforms obs, updates presence, plays a cue on a transition,
// emits the points and hands them to the overlay.
func (p *Pipeline) Handle(obs *Observation) Result {
	points := Transform(obs, p.projector)

	transition := p.presence.Update(len(points) > 0)
	switch transition {
	case Appeared:
		p.log.Infow("Hand detected")
		if p.cues != nil {
			p.cues.Appeared()
		}
	case Disappeared:
		p.log.Infow("Hand lost")
		if p.cues != nil {
			p.cues.Disappeared()
		}
	}

	sent := p.emitter.Emit(points)

	if p.overlay != nil {
		p.overlay.Show(points)
	}

	return Result{Points: points, Transition: transition, Sent: sent}
}

// SetFrameSize passes the size of the delivered frames to the projector
// when it depends on it. Non-positive sizes are ignored.
func (p *Pipeline) SetFrameSize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	if fs, ok := p.projector.(FrameSizer); ok {
		fs.SetFrameSize(width, height)
	}
}

// HandVisible reports the current presence state.
func (p *Pipeline) HandVisible() bool {
	return p.presence.Visible()
}

// Reset clears the presence state for a new session.
func (p *Pipeline) Reset() {
	p.presence.Reset()
}
