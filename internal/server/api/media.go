// Package api provides HTTP API handlers for the Ushna thermal viewer.
package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/ayusman/ushna/internal/store"
)

// MediaHandler handles HTTP requests for captured media resources.
type MediaHandler struct {
	store *store.Store
}

// NewMediaHandler creates a new MediaHandler with the given store.
func NewMediaHandler(s *store.Store) *MediaHandler {
	return &MediaHandler{store: s}
}

// ServeHTTP implements the http.Handler interface and routes requests to appropriate methods.
func (h *MediaHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Parse the path to determine if this is a collection or item request
	// Expected paths: /api/media or /api/media/{id}
	path := strings.TrimPrefix(r.URL.Path, "/api/media")
	path = strings.TrimPrefix(path, "/")

	if path == "" {
		// Collection endpoint: /api/media
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.list(w, r)
		return
	}

	// Item endpoint: /api/media/{id}
	id := path
	switch r.Method {
	case http.MethodGet:
		h.get(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// Response types

type mediaResponse struct {
	ID         string `json:"id"`
	Kind       string `json:"kind"`
	Path       string `json:"path"`
	Colormap   string `json:"colormap"`
	DurationMs int64  `json:"duration_ms"`
	CreatedAt  string `json:"created_at"`
}

type listMediaResponse struct {
	Media []mediaResponse `json:"media"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// toResponse converts a store.Media to a mediaResponse.
func toResponse(m *store.Media) mediaResponse {
	return mediaResponse{
		ID:         m.ID,
		Kind:       string(m.Kind),
		Path:       m.Path,
		Colormap:   m.Colormap,
		DurationMs: m.Duration.Milliseconds(),
		CreatedAt:  m.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// list handles GET /api/media and returns all captured media, newest first.
func (h *MediaHandler) list(w http.ResponseWriter, r *http.Request) {
	records, err := h.store.Media().List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list media")
		return
	}

	response := listMediaResponse{
		Media: make([]mediaResponse, 0, len(records)),
	}

	for _, m := range records {
		response.Media = append(response.Media, toResponse(m))
	}

	writeJSON(w, http.StatusOK, response)
}

// get handles GET /api/media/{id} and returns a single media record.
func (h *MediaHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	m, err := h.store.Media().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Media not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get media")
		return
	}

	writeJSON(w, http.StatusOK, toResponse(m))
}

// delete handles DELETE /api/media/{id} and removes the record along with
// its file on disk.
func (h *MediaHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	m, err := h.store.Media().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Media not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get media")
		return
	}

	if err := h.store.Media().Delete(id); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete media")
		return
	}

	// The record is gone; a stale file is only worth a log line
	if err := os.Remove(m.Path); err != nil && !os.IsNotExist(err) {
		log.Printf("Failed to remove media file %s: %v", m.Path, err)
	}

	w.WriteHeader(http.StatusNoContent)
}
