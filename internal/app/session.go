package app

import (
	"errors"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/handosc/internal/capture"
	"github.com/ayusman/handosc/internal/detector"
	"github.com/ayusman/handosc/internal/pipeline"
	"github.com/ayusman/handosc/internal/store"
)

// errQueueClosed ends a session whose frames can no longer reach the
// pipeline.
var errQueueClosed = errors.New("main queue closed")

// runSession is the capture loop of one session. Frames are read at the
// camera frame rate and processed one at a time; a frame is not read
// until the main queue has finished with the previous one.
func (a *App) runSession(sess *session) {
	fps := a.camera.FPS()
	if fps <= 0 {
		fps = capture.DefaultFPS
	}

	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	reason := store.StopReasonUser
	var cause error

loop:
	for {
		select {
		case <-sess.stop:
			break loop
		case <-ticker.C:
			frame, err := a.camera.ReadFrame()
			if err != nil {
				a.log.Debugw("Frame read failed", "error", err)
				continue
			}

			if err := a.processFrame(sess, frame); err != nil {
				if errors.Is(err, errQueueClosed) {
					break loop
				}
				reason = store.StopReasonError
				cause = err
				break loop
			}
		}
	}

	a.finish(sess, reason, cause)
}

// processFrame runs detection and the confidence gate on the worker, then
// the rest of the pipeline on the main queue. A detection failure is
// returned as a *detector.Error and ends the session. errQueueClosed is
// returned when the main queue has been closed.
func (a *App) processFrame(sess *session, frame *gocv.Mat) error {
	var width, height int
	if frame != nil {
		defer frame.Close()
		width, height = frame.Cols(), frame.Rows()
		if a.tap != nil {
			a.tap.Publish(frame)
		}
	}

	start := time.Now()
	hand, err := a.detector.Detect(frame)
	elapsed := time.Since(start)
	a.latency.Store(int64(elapsed))

	if err != nil {
		var detErr *detector.Error
		if !errors.As(err, &detErr) {
			detErr = &detector.Error{Err: err}
		}
		return detErr
	}

	obs := pipeline.Gate(hand)
	index := sess.frames.Add(1)

	var res pipeline.Result
	ok := a.queue.Sync(func() {
		a.pipeline.SetFrameSize(width, height)
		res = a.pipeline.Handle(obs)
		if res.Transition != pipeline.None {
			a.handVisible.Store(res.Transition == pipeline.Appeared)
			a.notifyPresence(res.Transition == pipeline.Appeared)
		}
	})
	if !ok {
		return errQueueClosed
	}

	if res.Transition != pipeline.None {
		a.journalTransition(sess, res.Transition, index)
	}

	a.log.Debugw("Frame processed",
		"frame", index,
		"points", len(res.Points),
		"sent", res.Sent,
		"detect", elapsed,
	)
	return nil
}

// finish releases the camera, clears the presence state without a cue and
// records how the session ended.
func (a *App) finish(sess *session, reason store.StopReason, cause error) {
	if err := a.camera.Close(); err != nil {
		a.log.Warnw("Error closing camera", "error", err)
	}

	a.queue.Sync(func() {
		wasVisible := a.pipeline.HandVisible()
		a.pipeline.Reset()
		a.handVisible.Store(false)
		if wasVisible {
			a.notifyPresence(false)
		}
	})

	a.journalStop(sess, reason)

	a.mu.Lock()
	if a.session == sess {
		a.session = nil
	}
	if cause != nil {
		a.lastErr = cause
	}
	a.mu.Unlock()

	if cause != nil {
		a.log.Errorw("Capture session ended", "session", sess.id, "frames", sess.frames.Load(), "error", cause)
		a.notifyFatal(cause)
	} else {
		a.log.Infow("Capture session stopped", "session", sess.id, "frames", sess.frames.Load())
	}

	close(sess.done)
}
