package main

import (
	"strconv"
	"strings"
	"sync"

	"github.com/hypebeast/go-osc/osc"
	"go.uber.org/zap"

	"github.com/ayusman/handosc/internal/detector"
	"github.com/ayusman/handosc/internal/pipeline"
)

// monitor is an osc.Dispatcher that prints the hand point messages it
// receives. Dispatch may be called from several goroutines.
type monitor struct {
	log        *zap.SugaredLogger
	showOthers bool
	framesOnly bool

	mu       sync.Mutex
	messages int
	frames   int
	ignored  int
	current  [detector.NumJoints]bool
}

func newMonitor(log *zap.SugaredLogger, showOthers, framesOnly bool) *monitor {
	return &monitor{log: log, showOthers: showOthers, framesOnly: framesOnly}
}

// Dispatch implements osc.Dispatcher.
func (m *monitor) Dispatch(packet osc.Packet) {
	switch p := packet.(type) {
	case *osc.Message:
		m.handleMessage(p)
	case *osc.Bundle:
		for _, msg := range p.Messages {
			m.handleMessage(msg)
		}
		for _, b := range p.Bundles {
			m.Dispatch(b)
		}
	}
}

func (m *monitor) handleMessage(msg *osc.Message) {
	index, ok := pointIndex(msg.Address)
	if !ok {
		m.mu.Lock()
		m.ignored++
		m.mu.Unlock()
		if m.showOthers {
			m.log.Infow("Message", "address", msg.Address, "args", msg.Arguments)
		}
		return
	}

	x, y, ok := pointArgs(msg)
	if !ok {
		m.log.Warnw("Malformed point message", "address", msg.Address, "args", msg.Arguments)
		return
	}

	m.mu.Lock()
	m.messages++
	if index == 0 {
		// A frame starts at point 0; drop what is left of a partial one.
		m.current = [detector.NumJoints]bool{}
	}
	m.current[index] = true
	complete := index == detector.NumJoints-1 && m.frameComplete()
	if complete {
		m.frames++
		m.current = [detector.NumJoints]bool{}
	}
	frames := m.frames
	m.mu.Unlock()

	if !m.framesOnly {
		m.log.Infow("Point", "joint", detector.JointName(index).String(), "address", msg.Address, "x", x, "y", y)
	} else if complete {
		m.log.Infow("Frame", "frame", frames)
	}
}

func (m *monitor) frameComplete() bool {
	for _, seen := range m.current {
		if !seen {
			return false
		}
	}
	return true
}

// stats returns the number of point messages, complete frames and
// messages for other addresses seen so far.
func (m *monitor) stats() (messages, frames, ignored int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.messages, m.frames, m.ignored
}

// pointIndex parses "/hand/point{i}" into i.
func pointIndex(address string) (int, bool) {
	rest, ok := strings.CutPrefix(address, pipeline.AddressPrefix)
	if !ok || rest == "" {
		return 0, false
	}
	i, err := strconv.Atoi(rest)
	if err != nil || i < 0 || i >= detector.NumJoints {
		return 0, false
	}
	return i, true
}

func pointArgs(msg *osc.Message) (x, y float32, ok bool) {
	if len(msg.Arguments) != 2 {
		return 0, 0, false
	}
	x, okX := msg.Arguments[0].(float32)
	y, okY := msg.Arguments[1].(float32)
	return x, y, okX && okY
}
