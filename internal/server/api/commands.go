package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/ayusman/ushna/internal/viewer"
)

// Commander executes viewer control commands.
type Commander interface {
	Command(cmd string) error
	CameraOpen() bool
}

// CommandHandler handles HTTP requests to /command/{cmd}. Commands are plain
// GETs so the control page can fire them from a fetch without a body.
type CommandHandler struct {
	viewer Commander
}

// NewCommandHandler creates a new CommandHandler driving the given viewer.
func NewCommandHandler(v Commander) *CommandHandler {
	return &CommandHandler{viewer: v}
}

type commandResponse struct {
	Status  string `json:"status"`
	Command string `json:"command"`
}

// ServeHTTP implements the http.Handler interface.
func (h *CommandHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	cmd := strings.TrimPrefix(r.URL.Path, "/command/")
	if cmd == "" || strings.Contains(cmd, "/") {
		writeError(w, http.StatusBadRequest, "Missing command")
		return
	}

	if !h.viewer.CameraOpen() {
		writeError(w, http.StatusServiceUnavailable, "Camera not initialized")
		return
	}

	if err := h.viewer.Command(cmd); err != nil {
		if errors.Is(err, viewer.ErrUnknownCommand) {
			writeError(w, http.StatusNotFound, "Unknown command")
			return
		}
		writeError(w, http.StatusInternalServerError, "Command failed")
		return
	}

	writeJSON(w, http.StatusOK, commandResponse{Status: "ok", Command: cmd})
}
