package app

import (
	"sync"

	"gocv.io/x/gocv"

	"github.com/ayusman/handosc/internal/capture"
	"github.com/ayusman/handosc/internal/detector"
)

// stubCamera yields empty frames without touching a capture device.
type stubCamera struct {
	mu      sync.Mutex
	open    bool
	openErr error
	fps     int
	opens   int
	closes  int
}

func newStubCamera() *stubCamera {
	return &stubCamera{fps: 200}
}

func (c *stubCamera) Open() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.opens++
	if c.openErr != nil {
		return c.openErr
	}
	c.open = true
	return nil
}

func (c *stubCamera) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closes++
	c.open = false
	return nil
}

func (c *stubCamera) ReadFrame() (*gocv.Mat, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.open {
		return nil, capture.ErrCameraNotOpen
	}
	return nil, nil
}

func (c *stubCamera) SetFPS(fps int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fps = fps
}

func (c *stubCamera) FPS() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fps
}

func (c *stubCamera) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.open
}

type message struct {
	address string
	args    []float32
}

type recordingTransport struct {
	mu   sync.Mutex
	sent []message
}

func (r *recordingTransport) Send(address string, args ...float32) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, message{address: address, args: append([]float32(nil), args...)})
	return nil
}

func (r *recordingTransport) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sent)
}

type recordingCues struct {
	mu     sync.Mutex
	events []string
}

func (r *recordingCues) Appeared() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, "appeared")
}

func (r *recordingCues) Disappeared() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, "disappeared")
}

func (r *recordingCues) list() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

// recordingOverlay records how many points each frame carried.
type recordingOverlay struct {
	mu     sync.Mutex
	frames []int
}

func (r *recordingOverlay) Show(points []detector.Point) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frames = append(r.frames, len(points))
}

func (r *recordingOverlay) list() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int(nil), r.frames...)
}
