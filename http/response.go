package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sharebox/sharebox"
)

// Message is the payload of both upload envelope variants.
type Message struct {
	Message string `json:"message"`
}

// UploadResponse is the upload envelope. Exactly one field is set, so the
// JSON is either {"Ok":{"message":...}} or {"Error":{"message":...}}.
type UploadResponse struct {
	Ok    *Message `json:"Ok,omitempty"`
	Error *Message `json:"Error,omitempty"`
}

const notFoundBody = "File not found"

// WriteJSON writes a JSON response
func WriteJSON(w http.ResponseWriter, code int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	return json.NewEncoder(w).Encode(data)
}

// WriteUploadOK writes the success envelope carrying the retrieval URL.
func WriteUploadOK(w http.ResponseWriter, url string) {
	if err := WriteJSON(w, http.StatusOK, UploadResponse{Ok: &Message{Message: url}}); err != nil {
		slog.Error("failed to encode upload response", "error", err)
	}
}

// WriteUploadError writes the error envelope.
func WriteUploadError(w http.ResponseWriter, code int, message string) {
	if err := WriteJSON(w, code, UploadResponse{Error: &Message{Message: message}}); err != nil {
		slog.Error("failed to encode error response", "error", err)
	}
}

// WriteNotFound writes the plain-text retrieval miss.
func WriteNotFound(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusNotFound)
	_, _ = w.Write([]byte(notFoundBody))
}

// HandleUploadError maps an upload failure to a status and JSON envelope.
// rejectStatus is the status used for a bad token.
func HandleUploadError(w http.ResponseWriter, err error, rejectStatus int) {
	switch {
	case errors.Is(err, sharebox.ErrUnauthorized):
		slog.Warn("upload rejected", "error", err)
		WriteUploadError(w, rejectStatus, "Invalid token")
	case errors.Is(err, ErrPayloadTooLarge):
		slog.Warn("upload rejected", "error", err)
		WriteUploadError(w, http.StatusRequestEntityTooLarge, "Payload too large")
	case errors.Is(err, sharebox.ErrTimeout):
		slog.Error("upload failed", "error", err)
		WriteUploadError(w, http.StatusGatewayTimeout, "Storage backend timed out")
	default:
		slog.Error("upload failed", "error", err)
		WriteUploadError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// HandleGetError maps a retrieval failure to a plain-text response.
func HandleGetError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, sharebox.ErrNotFound):
		WriteNotFound(w)
	case errors.Is(err, sharebox.ErrTimeout):
		slog.Error("retrieval failed", "error", err)
		http.Error(w, "Storage backend timed out", http.StatusGatewayTimeout)
	default:
		slog.Error("retrieval failed", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
