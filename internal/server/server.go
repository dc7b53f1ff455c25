// Package server provides the HTTP server for the Ushna thermal viewer.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ayusman/ushna/internal/server/api"
	"github.com/ayusman/ushna/internal/store"
	"github.com/ayusman/ushna/internal/viewer"
)

// Viewer is the part of the thermal pipeline the server talks to.
type Viewer interface {
	Command(cmd string) error
	Status() viewer.Status
	Subscribe() chan []byte
	Unsubscribe(ch chan []byte)
	CameraOpen() bool
}

// Config holds the server configuration.
type Config struct {
	StaticDir string
	Store     *store.Store
	Viewer    Viewer
}

// Server represents the HTTP server for the Ushna application.
type Server struct {
	config    Config
	mux       *http.ServeMux
	start     time.Time
	telemetry *TelemetryHandler
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)

	// Register media API handler if Store is configured
	if s.config.Store != nil {
		mediaHandler := api.NewMediaHandler(s.config.Store)
		s.mux.Handle("/api/media", mediaHandler)
		s.mux.Handle("/api/media/", mediaHandler)
	}

	// Register viewer endpoints if Viewer is configured
	if s.config.Viewer != nil {
		commandHandler := api.NewCommandHandler(s.config.Viewer)
		s.mux.Handle("/command/", commandHandler)

		streamHandler := NewStreamHandler(s.config.Viewer)
		s.mux.Handle("/video_feed", streamHandler)

		s.telemetry = NewTelemetryHandler(s.config.Viewer)
		s.mux.Handle("/api/telemetry", s.telemetry)

		s.mux.HandleFunc("/api/status", s.handleStatus)
	}

	// Serve static files if StaticDir is configured, otherwise fall back to
	// the built-in control page
	if s.config.StaticDir != "" {
		fs := http.FileServer(http.Dir(s.config.StaticDir))
		s.mux.Handle("/", fs)
	} else {
		s.mux.HandleFunc("/", s.handleIndex)
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

	status := "ok"
	cameraOpen := false
	if s.config.Viewer != nil {
		cameraOpen = s.config.Viewer.CameraOpen()
	}
	if !cameraOpen {
		status = "degraded"
	}

	response := map[string]interface{}{
		"status":             status,
		"camera_initialized": cameraOpen,
		"uptime":             time.Since(s.start).String(),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// handleStatus handles GET requests to /api/status.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.config.Viewer.Status()); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// Close stops the server's background broadcasters.
func (s *Server) Close() {
	if s.telemetry != nil {
		s.telemetry.Close()
	}
}

// ListenAndServe starts the HTTP server on the given address.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s)
}
