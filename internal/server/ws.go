package server

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/ayusman/handosc/internal/detector"
)

// pointsWriteTimeout bounds how long a slow client may hold up a frame.
const pointsWriteTimeout = 100 * time.Millisecond

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

type pointJSON struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
}

type pointsMessage struct {
	Points      []pointJSON `json:"points"`
	HandVisible bool        `json:"handVisible"`
	Timestamp   int64       `json:"timestamp"`
}

// PointsHandler is the overlay sink of the pipeline: every frame's
// projected points are broadcast to the connected WebSocket clients.
type PointsHandler struct {
	clients map[*websocket.Conn]bool
	mu      sync.RWMutex
	log     *zap.SugaredLogger
}

// NewPointsHandler creates a PointsHandler with no clients.
func NewPointsHandler(log *zap.SugaredLogger) *PointsHandler {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &PointsHandler{
		clients: make(map[*websocket.Conn]bool),
		log:     log,
	}
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *PointsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Debugw("WebSocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()

	defer h.remove(conn)

	// Keep connection alive by reading messages
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

// Clients returns the number of connected clients.
func (h *PointsHandler) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Show broadcasts one frame of points. An empty frame is sent as an empty
// list so clients can clear their overlay.
func (h *PointsHandler) Show(points []detector.Point) {
	h.mu.RLock()
	if len(h.clients) == 0 {
		h.mu.RUnlock()
		return
	}
	conns := make([]*websocket.Conn, 0, len(h.clients))
	for conn := range h.clients {
		conns = append(conns, conn)
	}
	h.mu.RUnlock()

	msg := pointsMessage{
		Points:      make([]pointJSON, len(points)),
		HandVisible: len(points) > 0,
		Timestamp:   time.Now().UnixMilli(),
	}
	for i, p := range points {
		msg.Points[i] = pointJSON{X: p.X, Y: p.Y}
	}
	data, err := json.Marshal(msg)
	if err != nil {
		h.log.Warnw("Failed to encode points", "error", err)
		return
	}

	for _, conn := range conns {
		conn.SetWriteDeadline(time.Now().Add(pointsWriteTimeout))
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			h.log.Debugw("Dropping points client", "remote", conn.RemoteAddr().String(), "error", err)
			h.remove(conn)
			conn.Close()
		}
	}
}

func (h *PointsHandler) remove(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, conn)
}
