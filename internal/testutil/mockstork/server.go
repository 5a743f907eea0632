// Package mockstork provides a mock Stork API server for testing.
//
// It records every notification the bridge sends and lets tests inject
// upstream rejections for the settings and notification flows.
package mockstork

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
)

// Notification is one recorded call against the mock API.
type Notification struct {
	Method        string
	Path          string
	Authorization string
	Payload       map[string]any
}

// Server is a mock Stork API server.
type Server struct {
	mu            sync.Mutex
	notifications []Notification

	pluginStatusCode  int
	contentStatusCode int
}

// New creates a mock server that accepts everything with 200.
func New() *Server {
	return &Server{
		pluginStatusCode:  http.StatusOK,
		contentStatusCode: http.StatusOK,
	}
}

// Handler returns the HTTP handler serving the mocked API surface.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/public/plugin/status", func(w http.ResponseWriter, r *http.Request) {
		s.record(r)
		s.respond(w, s.statusFor(&s.pluginStatusCode))
	})
	mux.HandleFunc("/public/content/status", func(w http.ResponseWriter, r *http.Request) {
		s.record(r)
		s.respond(w, s.statusFor(&s.contentStatusCode))
	})
	return mux
}

// Start runs the mock on an ephemeral port. The caller owns the returned
// server and must Close it.
func (s *Server) Start() *httptest.Server {
	return httptest.NewServer(s.Handler())
}

// SetPluginStatusCode makes the plugin status endpoint answer with the
// given HTTP status.
func (s *Server) SetPluginStatusCode(code int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pluginStatusCode = code
}

// SetContentStatusCode makes the content status endpoint answer with the
// given HTTP status.
func (s *Server) SetContentStatusCode(code int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.contentStatusCode = code
}

// Notifications returns a copy of all recorded calls.
func (s *Server) Notifications() []Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Notification(nil), s.notifications...)
}

// Reset clears recorded calls and restores 200 responses.
func (s *Server) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = nil
	s.pluginStatusCode = http.StatusOK
	s.contentStatusCode = http.StatusOK
}

func (s *Server) record(r *http.Request) {
	var payload map[string]any
	//nolint:errcheck // Malformed payloads are recorded with a nil body
	_ = json.NewDecoder(r.Body).Decode(&payload)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = append(s.notifications, Notification{
		Method:        r.Method,
		Path:          r.URL.Path,
		Authorization: r.Header.Get("Authorization"),
		Payload:       payload,
	})
}

func (s *Server) statusFor(field *int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *field
}

func (s *Server) respond(w http.ResponseWriter, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck
	_ = json.NewEncoder(w).Encode(map[string]any{"code": 0, "message": ""})
}
