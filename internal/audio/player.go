package audio

import (
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"
	"go.uber.org/zap"
)

// output is the audio device. The speaker package is the production
// implementation; tests substitute a recorder.
type output interface {
	Init(rate beep.SampleRate, bufferSize int) error
	Play(s beep.Streamer)
	Clear()
}

type speakerOutput struct{}

func (speakerOutput) Init(rate beep.SampleRate, bufferSize int) error {
	return speaker.Init(rate, bufferSize)
}
func (speakerOutput) Play(s beep.Streamer) { speaker.Play(s) }
func (speakerOutput) Clear()               { speaker.Clear() }

// Player plays the appear cue when a hand shows up and, when a hand is
// lost, either plays the disappear cue or silences the appear cue.
// Playback never blocks the caller.
type Player struct {
	appear    *Cue
	disappear *Cue
	rate      beep.SampleRate
	out       output
	log       *zap.SugaredLogger

	initOnce sync.Once
	initErr  error
}

// NewPlayer creates a Player. appear may be nil for a silent player;
// disappear may be nil to stop the appear cue instead.
func NewPlayer(appear, disappear *Cue, log *zap.SugaredLogger) *Player {
	return newPlayer(appear, disappear, speakerOutput{}, log)
}

func newPlayer(appear, disappear *Cue, out output, log *zap.SugaredLogger) *Player {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	p := &Player{appear: appear, disappear: disappear, out: out, log: log}
	switch {
	case appear != nil:
		p.rate = appear.Format().SampleRate
	case disappear != nil:
		p.rate = disappear.Format().SampleRate
	}
	return p
}

// LoadPlayer loads the cue files and creates a Player. An empty path
// disables that cue.
func LoadPlayer(appearPath, disappearPath string, log *zap.SugaredLogger) (*Player, error) {
	var appear, disappear *Cue
	var err error
	if appearPath != "" {
		if appear, err = LoadCue(appearPath); err != nil {
			return nil, err
		}
	}
	if disappearPath != "" {
		if disappear, err = LoadCue(disappearPath); err != nil {
			return nil, err
		}
	}
	return NewPlayer(appear, disappear, log), nil
}

func (p *Player) ready() bool {
	if p.appear == nil && p.disappear == nil {
		return false
	}
	p.initOnce.Do(func() {
		p.initErr = p.out.Init(p.rate, p.rate.N(time.Second/10))
		if p.initErr != nil {
			p.log.Warnw("Audio output unavailable, cues disabled", "error", p.initErr)
		}
	})
	return p.initErr == nil
}

// Appeared restarts the appear cue from the beginning.
func (p *Player) Appeared() {
	if p.appear == nil || !p.ready() {
		return
	}
	p.out.Clear()
	p.out.Play(p.streamer(p.appear))
}

// Disappeared plays the disappear cue, or stops the appear cue if there
// is none.
func (p *Player) Disappeared() {
	if !p.ready() {
		return
	}
	p.out.Clear()
	if p.disappear != nil {
		p.out.Play(p.streamer(p.disappear))
	}
}

// streamer resamples the cue to the output rate when they differ.
func (p *Player) streamer(c *Cue) beep.Streamer {
	s := c.Streamer()
	if rate := c.Format().SampleRate; rate != p.rate {
		return beep.Resample(4, rate, p.rate, s)
	}
	return s
}
