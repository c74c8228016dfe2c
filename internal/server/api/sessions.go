// Package api provides HTTP API handlers for the handosc session journal.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ayusman/handosc/internal/store"
)

// defaultListLimit caps GET /api/sessions when no limit is given.
const defaultListLimit = 50

// SessionHandler handles HTTP requests for recorded capture sessions.
type SessionHandler struct {
	store *store.Store
}

// NewSessionHandler creates a new SessionHandler with the given store.
func NewSessionHandler(s *store.Store) *SessionHandler {
	return &SessionHandler{store: s}
}

// ServeHTTP routes /api/sessions, /api/sessions/{id} and
// /api/sessions/{id}/events.
func (h *SessionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/sessions")
	path = strings.Trim(path, "/")

	if path == "" {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.list(w, r)
		return
	}

	id, rest, _ := strings.Cut(path, "/")
	switch {
	case rest == "":
		switch r.Method {
		case http.MethodGet:
			h.get(w, id)
		case http.MethodDelete:
			h.delete(w, id)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	case rest == "events":
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.events(w, id)
	default:
		http.NotFound(w, r)
	}
}

type sessionResponse struct {
	ID         string  `json:"id"`
	OSCTarget  string  `json:"osc_target"`
	StartedAt  string  `json:"started_at"`
	StoppedAt  *string `json:"stopped_at"`
	StopReason string  `json:"stop_reason,omitempty"`
	Frames     int64   `json:"frames"`
	Running    bool    `json:"running"`
}

type listSessionsResponse struct {
	Sessions []sessionResponse `json:"sessions"`
}

type eventResponse struct {
	Kind      string `json:"kind"`
	Frame     int64  `json:"frame"`
	CreatedAt string `json:"created_at"`
}

type listEventsResponse struct {
	SessionID string          `json:"session_id"`
	Events    []eventResponse `json:"events"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func toResponse(s *store.Session) sessionResponse {
	resp := sessionResponse{
		ID:         s.ID,
		OSCTarget:  s.OSCTarget,
		StartedAt:  s.StartedAt.Format(time.RFC3339),
		StopReason: string(s.StopReason),
		Frames:     s.Frames,
		Running:    s.Running(),
	}
	if s.StoppedAt != nil {
		stopped := s.StoppedAt.Format(time.RFC3339)
		resp.StoppedAt = &stopped
	}
	return resp
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// WriteError writes a JSON error response.
func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, errorResponse{Error: message})
}

// list handles GET /api/sessions?limit=N, newest first.
func (h *SessionHandler) list(w http.ResponseWriter, r *http.Request) {
	limit := defaultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			WriteError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = n
	}

	sessions, err := h.store.Sessions().List(limit)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Failed to list sessions")
		return
	}

	response := listSessionsResponse{
		Sessions: make([]sessionResponse, 0, len(sessions)),
	}
	for _, s := range sessions {
		response.Sessions = append(response.Sessions, toResponse(s))
	}

	WriteJSON(w, http.StatusOK, response)
}

// get handles GET /api/sessions/{id}.
func (h *SessionHandler) get(w http.ResponseWriter, id string) {
	sess, err := h.store.Sessions().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "Session not found")
			return
		}
		WriteError(w, http.StatusInternalServerError, "Failed to get session")
		return
	}

	WriteJSON(w, http.StatusOK, toResponse(sess))
}

// delete handles DELETE /api/sessions/{id}. Running sessions cannot be deleted.
func (h *SessionHandler) delete(w http.ResponseWriter, id string) {
	sess, err := h.store.Sessions().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "Session not found")
			return
		}
		WriteError(w, http.StatusInternalServerError, "Failed to get session")
		return
	}
	if sess.Running() {
		WriteError(w, http.StatusConflict, "Session is still running")
		return
	}

	if err := h.store.Sessions().Delete(id); err != nil {
		WriteError(w, http.StatusInternalServerError, "Failed to delete session")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// events handles GET /api/sessions/{id}/events.
func (h *SessionHandler) events(w http.ResponseWriter, id string) {
	if _, err := h.store.Sessions().GetByID(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "Session not found")
			return
		}
		WriteError(w, http.StatusInternalServerError, "Failed to get session")
		return
	}

	events, err := h.store.Events().ListBySession(id)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Failed to list events")
		return
	}

	response := listEventsResponse{
		SessionID: id,
		Events:    make([]eventResponse, 0, len(events)),
	}
	for _, e := range events {
		response.Events = append(response.Events, eventResponse{
			Kind:      string(e.Kind),
			Frame:     e.Frame,
			CreatedAt: e.CreatedAt.Format(time.RFC3339),
		})
	}

	WriteJSON(w, http.StatusOK, response)
}
