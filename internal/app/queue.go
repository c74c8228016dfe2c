package app

import "sync"

// Queue runs functions one at a time on a single goroutine that owns the
// presence state, the overlay and the audio cues. Sync blocks the caller
// until its function has run, so a slow consumer holds back capture.
type Queue struct {
	tasks   chan func()
	quit    chan struct{}
	stopped chan struct{}
	once    sync.Once
}

// NewQueue starts a Queue.
func NewQueue() *Queue {
	q := &Queue{
		tasks:   make(chan func()),
		quit:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	go q.run()
	return q
}

func (q *Queue) run() {
	defer close(q.stopped)
	for {
		select {
		case fn := <-q.tasks:
			fn()
		case <-q.quit:
			return
		}
	}
}

// Sync runs fn on the queue goroutine and waits for it to return. It
// reports false without running fn once the queue is closed.
func (q *Queue) Sync(fn func()) bool {
	done := make(chan struct{})
	task := func() {
		defer close(done)
		fn()
	}

	select {
	case q.tasks <- task:
	case <-q.quit:
		return false
	}
	<-done
	return true
}

// Close stops the queue after the running function, if any, returns.
func (q *Queue) Close() {
	q.once.Do(func() { close(q.quit) })
	<-q.stopped
}
