// Package app runs capture sessions: it reads camera frames, detects the
// hand, gates it and hands the observation to the pipeline on the main queue.
package app

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gocv.io/x/gocv"

	"github.com/ayusman/handosc/internal/capture"
	"github.com/ayusman/handosc/internal/detector"
	"github.com/ayusman/handosc/internal/pipeline"
	"github.com/ayusman/handosc/internal/store"
)

// ErrClosed is returned by Start after Close.
var ErrClosed = errors.New("app: closed")

// FrameTap receives every captured frame before detection. It must not
// retain the frame after Publish returns.
type FrameTap interface {
	Publish(frame *gocv.Mat)
}

// Options holds the collaborators of an App. Store and FrameTap are optional.
type Options struct {
	Camera    capture.Camera
	Detector  detector.Detector
	Pipeline  *pipeline.Pipeline
	Store     *store.Store
	FrameTap  FrameTap
	OSCTarget string
	Logger    *zap.SugaredLogger
}

// Status is a snapshot of the capture state.
type Status struct {
	Running         bool    `json:"running"`
	SessionID       string  `json:"sessionId,omitempty"`
	HandVisible     bool    `json:"handVisible"`
	Frames          int64   `json:"frames"`
	DetectLatencyMs float64 `json:"detectLatencyMs"`
	DetectFPS       float64 `json:"detectFps"`
	OSCTarget       string  `json:"oscTarget"`
	LastError       string  `json:"lastError,omitempty"`
}

type session struct {
	id     string
	stop   chan struct{}
	done   chan struct{}
	halt   sync.Once
	frames atomic.Int64
}

func newSession() *session {
	return &session{
		id:   uuid.NewString(),
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
}

func (s *session) requestStop() {
	s.halt.Do(func() { close(s.stop) })
}

// App owns the capture lifecycle. Start and Stop may be called from any
// goroutine; pipeline work always runs on the main queue.
type App struct {
	camera   capture.Camera
	detector detector.Detector
	pipeline *pipeline.Pipeline
	store    *store.Store
	tap      FrameTap
	target   string
	log      *zap.SugaredLogger
	queue    *Queue

	mu      sync.RWMutex
	session *session
	lastErr error
	closed  bool

	handVisible atomic.Bool
	latency     atomic.Int64

	cbMu       sync.RWMutex
	onFatal    []func(error)
	onPresence []func(visible bool)
}

// New creates an App. The main queue starts immediately; call Close to
// release it together with the detector.
func New(opts Options) *App {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &App{
		camera:   opts.Camera,
		detector: opts.Detector,
		pipeline: opts.Pipeline,
		store:    opts.Store,
		tap:      opts.FrameTap,
		target:   opts.OSCTarget,
		log:      log,
		queue:    NewQueue(),
	}
}

// OnFatal registers fn to be called when a detection failure ends a session.
func (a *App) OnFatal(fn func(error)) {
	a.cbMu.Lock()
	defer a.cbMu.Unlock()
	a.onFatal = append(a.onFatal, fn)
}

// OnPresence registers fn to be called on the main queue whenever the hand
// visibility changes, including the reset when a session ends. fn must not
// call Stop.
func (a *App) OnPresence(fn func(visible bool)) {
	a.cbMu.Lock()
	defer a.cbMu.Unlock()
	a.onPresence = append(a.onPresence, fn)
}

// Start opens the camera and begins a capture session. It is a no-op when
// a session is already running and returns ErrClosed after Close. A camera that cannot be opened is
// reported as a *capture.SetupError and no session is started.
func (a *App) Start() error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return ErrClosed
	}
	if a.session != nil {
		a.mu.Unlock()
		return nil
	}

	if err := a.camera.Open(); err != nil {
		var setupErr *capture.SetupError
		if !errors.As(err, &setupErr) {
			err = &capture.SetupError{Reason: "could not open camera", Err: err}
		}
		a.lastErr = err
		a.mu.Unlock()
		a.log.Errorw("Camera setup failed", "error", err)
		return err
	}

	sess := newSession()
	a.session = sess
	a.lastErr = nil
	a.mu.Unlock()

	a.latency.Store(0)
	a.journalStart(sess)

	go a.runSession(sess)

	a.log.Infow("Capture session started", "session", sess.id, "target", a.target)
	return nil
}

// Stop ends the running session and waits for its worker to finish.
func (a *App) Stop() {
	a.mu.RLock()
	sess := a.session
	a.mu.RUnlock()

	if sess == nil {
		return
	}
	sess.requestStop()
	<-sess.done
}

// Close stops any session, releases the detector and stops the main queue.
// The App cannot be started again.
func (a *App) Close() error {
	a.mu.Lock()
	a.closed = true
	a.mu.Unlock()

	a.Stop()
	a.queue.Close()
	if a.detector == nil {
		return nil
	}
	return a.detector.Close()
}

// Running reports whether a capture session is active.
func (a *App) Running() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.session != nil
}

// HandVisible reports the presence state as of the last processed frame.
func (a *App) HandVisible() bool {
	return a.handVisible.Load()
}

// LastError returns the error that ended the last session, or the last
// camera setup failure.
func (a *App) LastError() error {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.lastErr
}

// Status returns a snapshot of the capture state.
func (a *App) Status() Status {
	a.mu.RLock()
	sess := a.session
	lastErr := a.lastErr
	a.mu.RUnlock()

	latency := time.Duration(a.latency.Load())
	st := Status{
		Running:         sess != nil,
		HandVisible:     a.handVisible.Load(),
		DetectLatencyMs: float64(latency) / float64(time.Millisecond),
		OSCTarget:       a.target,
	}
	if sess != nil {
		st.SessionID = sess.id
		st.Frames = sess.frames.Load()
	}
	if latency > 0 {
		st.DetectFPS = float64(time.Second) / float64(latency)
	}
	if lastErr != nil {
		st.LastError = lastErr.Error()
	}
	return st
}

func (a *App) notifyPresence(visible bool) {
	a.cbMu.RLock()
	callbacks := a.onPresence
	a.cbMu.RUnlock()

	for _, fn := range callbacks {
		fn(visible)
	}
}

func (a *App) notifyFatal(err error) {
	a.cbMu.RLock()
	callbacks := a.onFatal
	a.cbMu.RUnlock()

	for _, fn := range callbacks {
		fn(err)
	}
}

func (a *App) journalStart(sess *session) {
	if a.store == nil {
		return
	}
	err := a.store.Sessions().Create(&store.Session{ID: sess.id, OSCTarget: a.target})
	if err != nil {
		a.log.Warnw("Failed to journal session start", "session", sess.id, "error", err)
	}
}

func (a *App) journalStop(sess *session, reason store.StopReason) {
	if a.store == nil {
		return
	}
	if err := a.store.Sessions().Finish(sess.id, reason, sess.frames.Load()); err != nil {
		a.log.Warnw("Failed to journal session stop", "session", sess.id, "error", err)
	}
}

func (a *App) journalTransition(sess *session, t pipeline.Transition, frame int64) {
	if a.store == nil {
		return
	}
	kind := store.EventAppeared
	if t == pipeline.Disappeared {
		kind = store.EventDisappeared
	}
	err := a.store.Events().Record(&store.PresenceEvent{SessionID: sess.id, Kind: kind, Frame: frame})
	if err != nil {
		a.log.Warnw("Failed to journal presence event", "session", sess.id, "kind", kind, "error", err)
	}
}
