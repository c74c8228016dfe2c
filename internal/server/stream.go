package server

import (
	"bytes"
	"fmt"
	"net/http"
	"sync"

	"go.uber.org/zap"
	"gocv.io/x/gocv"
)

// StreamHandler serves the captured frames as an MJPEG preview. Frames are
// pushed by the capture loop through Publish and only encoded while at
// least one client is watching.
type StreamHandler struct {
	mu      sync.Mutex
	clients int
	frame   []byte
	update  chan struct{}
	log     *zap.SugaredLogger
}

// NewStreamHandler creates a StreamHandler with no frame yet.
func NewStreamHandler(log *zap.SugaredLogger) *StreamHandler {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &StreamHandler{
		update: make(chan struct{}),
		log:    log,
	}
}

// Clients returns the number of connected preview clients.
func (h *StreamHandler) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.clients
}

// Publish encodes frame as JPEG and hands it to the connected clients.
func (h *StreamHandler) Publish(frame *gocv.Mat) {
	if h.Clients() == 0 || frame == nil || frame.Empty() {
		return
	}

	buf, err := gocv.IMEncode(gocv.JPEGFileExt, *frame)
	if err != nil {
		h.log.Debugw("Failed to encode preview frame", "error", err)
		return
	}
	data := bytes.Clone(buf.GetBytes())
	buf.Close()

	h.publishJPEG(data)
}

func (h *StreamHandler) publishJPEG(data []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.frame = data
	close(h.update)
	h.update = make(chan struct{})
}

// ServeHTTP streams MJPEG frames to connected clients.
func (h *StreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary=frame")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}

	h.mu.Lock()
	h.clients++
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		h.clients--
		h.mu.Unlock()
	}()

	for {
		h.mu.Lock()
		wait := h.update
		h.mu.Unlock()

		select {
		case <-r.Context().Done():
			return
		case <-wait:
		}

		h.mu.Lock()
		data := h.frame
		h.mu.Unlock()

		// Write MJPEG frame
		fmt.Fprintf(w, "--frame\r\n")
		fmt.Fprintf(w, "Content-Type: image/jpeg\r\n")
		fmt.Fprintf(w, "Content-Length: %d\r\n\r\n", len(data))
		if _, err := w.Write(data); err != nil {
			return
		}
		fmt.Fprintf(w, "\r\n")

		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}
	}
}
