package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// errorResponse is the envelope returned on every failure.
type errorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// setResponseHeaders applies the headers every dispatcher response carries:
// JSON content type, explicit no-cache directives and a closed connection.
func setResponseHeaders(w http.ResponseWriter) {
	h := w.Header()
	h.Set("Content-Type", "application/json; charset=UTF-8")
	h.Set("Cache-Control", "no-cache, no-store, must-revalidate")
	h.Set("Pragma", "no-cache")
	h.Set("Expires", "0")
	h.Set("Connection", "close")
}

// writeJSON writes a success payload. The payload type is expected to embed
// the code and message envelope fields.
func writeJSON(w http.ResponseWriter, data any) {
	setResponseHeaders(w)
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Headers are already sent, nothing to recover
		slog.Default().Error("failed to encode JSON response", "error", err)
	}
}

// writeError writes the error envelope with the given wire code and HTTP status.
func writeError(w http.ResponseWriter, httpStatus, code int, message string) {
	setResponseHeaders(w)
	w.WriteHeader(httpStatus)
	//nolint:errcheck
	_ = json.NewEncoder(w).Encode(errorResponse{Code: code, Message: message})
}
