// Package server provides the HTTP control surface of handosc.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/ayusman/handosc/internal/app"
	"github.com/ayusman/handosc/internal/capture"
	"github.com/ayusman/handosc/internal/server/api"
	"github.com/ayusman/handosc/internal/store"
)

// Controller starts and stops capture sessions.
type Controller interface {
	Start() error
	Stop()
	Status() app.Status
}

// Config holds the server configuration. Every collaborator is optional;
// its routes are only registered when it is set.
type Config struct {
	StaticDir  string
	Store      *store.Store
	Controller Controller
	Stream     *StreamHandler
	Points     *PointsHandler
	Logger     *zap.SugaredLogger
}

// Server represents the HTTP server for the handosc application.
type Server struct {
	config Config
	mux    *http.ServeMux
	start  time.Time
	log    *zap.SugaredLogger
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	log := config.Logger
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		start:  time.Now(),
		log:    log,
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)

	if s.config.Controller != nil {
		s.mux.HandleFunc("/api/status", s.handleStatus)
		s.mux.HandleFunc("/api/session/start", s.handleStart)
		s.mux.HandleFunc("/api/session/stop", s.handleStop)
	}

	if s.config.Store != nil {
		sessions := api.NewSessionHandler(s.config.Store)
		s.mux.Handle("/api/sessions", sessions)
		s.mux.Handle("/api/sessions/", sessions)
	}

	if s.config.Stream != nil {
		s.mux.Handle("/api/stream", s.config.Stream)
	}

	if s.config.Points != nil {
		s.mux.Handle("/api/points", s.config.Points)
	}

	// Serve static files if StaticDir is configured
	if s.config.StaticDir != "" {
		fs := http.FileServer(http.Dir(s.config.StaticDir))
		s.mux.Handle("/", fs)
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	api.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"uptime": time.Since(s.start).String(),
	})
}

// handleStatus handles GET /api/status.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	api.WriteJSON(w, http.StatusOK, s.config.Controller.Status())
}

// handleStart handles POST /api/session/start. A camera that cannot be
// set up is reported as 503.
func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := s.config.Controller.Start(); err != nil {
		var setupErr *capture.SetupError
		if errors.As(err, &setupErr) {
			api.WriteError(w, http.StatusServiceUnavailable, err.Error())
			return
		}
		s.log.Errorw("Failed to start session", "error", err)
		api.WriteError(w, http.StatusInternalServerError, "Failed to start session")
		return
	}

	api.WriteJSON(w, http.StatusOK, s.config.Controller.Status())
}

// handleStop handles POST /api/session/stop. Stopping an idle app succeeds.
func (s *Server) handleStop(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	s.config.Controller.Stop()
	api.WriteJSON(w, http.StatusOK, s.config.Controller.Status())
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Infow("HTTP server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
