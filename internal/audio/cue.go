// Package audio plays the hand appear and disappear cues.
package audio

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/faiface/beep"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/wav"
)

// Cue is a decoded sound held in memory so it can be restarted instantly.
type Cue struct {
	Name   string
	buffer *beep.Buffer
}

// LoadCue decodes a wav or mp3 file into memory.
func LoadCue(path string) (*Cue, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open cue: %w", err)
	}
	defer f.Close()

	var (
		streamer beep.StreamSeekCloser
		format   beep.Format
	)
	switch ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")); ext {
	case "wav":
		streamer, format, err = wav.Decode(f)
	case "mp3":
		streamer, format, err = mp3.Decode(f)
	default:
		return nil, fmt.Errorf("unsupported cue format %q; use mp3 or wav", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("decode cue %s: %w", path, err)
	}
	defer streamer.Close()

	buffer := beep.NewBuffer(format)
	buffer.Append(streamer)
	if buffer.Len() == 0 {
		return nil, errors.New("cue has no samples")
	}

	return &Cue{Name: filepath.Base(path), buffer: buffer}, nil
}

// Format returns the sample format of the cue.
func (c *Cue) Format() beep.Format {
	return c.buffer.Format()
}

// Len returns the cue length in samples.
func (c *Cue) Len() int {
	return c.buffer.Len()
}

// Streamer returns a new streamer over the whole cue, starting at the
// beginning.
func (c *Cue) Streamer() beep.StreamSeeker {
	return c.buffer.Streamer(0, c.buffer.Len())
}
