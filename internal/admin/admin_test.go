package admin

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/contentbird/stork-bridge/internal/cms"
	"github.com/contentbird/stork-bridge/internal/notify"
	"github.com/contentbird/stork-bridge/internal/stork"
)

// testToken carries {"domain":"example.com"} in its middle segment.
const testToken = "abc.eyJkb21haW4iOiJleGFtcGxlLmNvbSJ9.xyz"

// fakeStore is an in-memory Store for handler tests.
type fakeStore struct {
	mu          sync.Mutex
	options     map[string]string
	contents    map[int64]*cms.Content
	transitions []cms.Status
	pingErr     error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		options:  make(map[string]string),
		contents: make(map[int64]*cms.Content),
	}
}

func (f *fakeStore) Ping(_ context.Context) error { return f.pingErr }

func (f *fakeStore) GetOption(_ context.Context, name string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.options[name], nil
}

func (f *fakeStore) SetOption(_ context.Context, name, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.options[name] = value
	return nil
}

func (f *fakeStore) GetContent(_ context.Context, id int64) (*cms.Content, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.contents[id]
	if !ok {
		return nil, cms.ErrNotFound
	}
	return c, nil
}

func (f *fakeStore) TransitionStatus(_ context.Context, id int64, newStatus cms.Status) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.contents[id]
	if !ok {
		return cms.ErrNotFound
	}
	c.Status = newStatus
	f.transitions = append(f.transitions, newStatus)
	return nil
}

func (f *fakeStore) option(name string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.options[name]
}

// fakeReporter records plugin status reports and returns a canned result.
type fakeReporter struct {
	mu       sync.Mutex
	statuses []string
	tokens   []string
	status   int
	err      error
}

func (f *fakeReporter) ReportPluginStatus(_ context.Context, token, status string) (*stork.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens = append(f.tokens, token)
	f.statuses = append(f.statuses, status)
	if f.err != nil {
		return nil, f.err
	}
	code := f.status
	if code == 0 {
		code = http.StatusOK
	}
	return &stork.Result{StatusCode: code}, nil
}

func (f *fakeReporter) reported() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.statuses...)
}

func newTestHandler(store *fakeStore, reporter *fakeReporter) *Handler {
	logger := slog.New(slog.NewTextHandler(bytes.NewBuffer(nil), nil))
	return NewHandler(store, reporter, new(slog.LevelVar), "2.1.0", logger)
}

func TestBootstrapStoresHash(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	if err := Bootstrap(context.Background(), store, "admin-secret"); err != nil {
		t.Fatalf("Bootstrap failed: %v", err)
	}

	hash := store.option(cms.OptionAdminTokenHash)
	if hash == "" {
		t.Fatal("expected hash to be stored")
	}
	if hash == "admin-secret" {
		t.Fatal("admin token stored in plaintext")
	}
	if err := cms.VerifyKey("admin-secret", hash); err != nil {
		t.Errorf("stored hash does not verify: %v", err)
	}
}

func TestTokenAuthMiddleware(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	if err := Bootstrap(context.Background(), store, "admin-secret"); err != nil {
		t.Fatalf("Bootstrap failed: %v", err)
	}
	h := newTestHandler(store, &fakeReporter{})
	router := h.NewRouter()

	tests := []struct {
		name       string
		token      string
		wantStatus int
	}{
		{"missing token", "", http.StatusUnauthorized},
		{"wrong token", "wrong", http.StatusUnauthorized},
		{"correct token", "admin-secret", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/api/status", nil)
			if tt.token != "" {
				req.Header.Set("X-Admin-Token", tt.token)
			}
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestHandleStatus(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	store.options[cms.OptionAPIToken] = testToken
	h := newTestHandler(store, &fakeReporter{})

	req := httptest.NewRequest("GET", "/api/status", nil)
	rec := httptest.NewRecorder()

	h.HandleStatus(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp StatusResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if !resp.TokenInserted {
		t.Error("token_inserted = false, want true")
	}
	if resp.InstanceDomain != "example.com" {
		t.Errorf("instance_domain = %q, want example.com", resp.InstanceDomain)
	}
	if resp.Version != "2.1.0" {
		t.Errorf("version = %q", resp.Version)
	}
}

func TestHandleSaveSettingsSuccess(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	reporter := &fakeReporter{}
	h := newTestHandler(store, reporter)

	body, _ := json.Marshal(SaveSettingsRequest{Token: testToken})
	req := httptest.NewRequest("PUT", "/api/settings", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.HandleSaveSettings(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body: %s)", rec.Code, rec.Body.String())
	}
	if got := store.option(cms.OptionAPIToken); got != testToken {
		t.Errorf("stored token = %q, want %q", got, testToken)
	}
	if reported := reporter.reported(); len(reported) != 1 || reported[0] != notify.PluginActivated {
		t.Errorf("reported statuses = %v, want [activated]", reported)
	}
}

func TestHandleSaveSettingsRollback(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		upstreamStatus int
		upstreamErr    error
		wantStatus     int
		wantErrCode    string
	}{
		{
			name:           "upstream rejects token",
			upstreamStatus: http.StatusUnauthorized,
			wantStatus:     http.StatusUnprocessableEntity,
			wantErrCode:    ErrCodeInvalidToken,
		},
		{
			name:           "upstream refuses request",
			upstreamStatus: http.StatusBadRequest,
			wantStatus:     http.StatusUnprocessableEntity,
			wantErrCode:    ErrCodeRequestFailed,
		},
		{
			name:           "upstream server error",
			upstreamStatus: http.StatusInternalServerError,
			wantStatus:     http.StatusBadGateway,
			wantErrCode:    ErrCodeUnknownError,
		},
		{
			name:        "upstream unreachable",
			upstreamErr: errors.New("connection refused"),
			wantStatus:  http.StatusBadGateway,
			wantErrCode: ErrCodeUnknownError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			store := newFakeStore()
			reporter := &fakeReporter{status: tt.upstreamStatus, err: tt.upstreamErr}
			h := newTestHandler(store, reporter)

			body, _ := json.Marshal(SaveSettingsRequest{Token: testToken})
			req := httptest.NewRequest("PUT", "/api/settings", bytes.NewReader(body))
			rec := httptest.NewRecorder()

			h.HandleSaveSettings(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}

			var apiErr APIError
			if err := json.Unmarshal(rec.Body.Bytes(), &apiErr); err != nil {
				t.Fatalf("invalid JSON: %v", err)
			}
			if apiErr.Error != tt.wantErrCode {
				t.Errorf("error code = %q, want %q", apiErr.Error, tt.wantErrCode)
			}

			// Failed activation must not leave the rejected token stored
			if got := store.option(cms.OptionAPIToken); got != "" {
				t.Errorf("stored token = %q, want cleared after rollback", got)
			}
		})
	}
}

func TestHandleSaveSettingsMalformedToken(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	reporter := &fakeReporter{}
	h := newTestHandler(store, reporter)

	body, _ := json.Marshal(SaveSettingsRequest{Token: "no-metadata-here"})
	req := httptest.NewRequest("PUT", "/api/settings", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.HandleSaveSettings(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", rec.Code)
	}
	if len(reporter.reported()) != 0 {
		t.Error("no activation report expected for malformed token")
	}
}

func TestHandleDeleteSettings(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	store.options[cms.OptionAPIToken] = testToken
	reporter := &fakeReporter{}
	h := newTestHandler(store, reporter)

	req := httptest.NewRequest("DELETE", "/api/settings", nil)
	rec := httptest.NewRecorder()

	h.HandleDeleteSettings(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := store.option(cms.OptionAPIToken); got != "" {
		t.Errorf("token still stored: %q", got)
	}
	if reported := reporter.reported(); len(reported) != 1 || reported[0] != notify.PluginDeactivated {
		t.Errorf("reported statuses = %v, want [deactivated]", reported)
	}
}

func TestHandleDeleteSettingsClearsOnUpstreamFailure(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	store.options[cms.OptionAPIToken] = testToken
	reporter := &fakeReporter{err: errors.New("connection refused")}
	h := newTestHandler(store, reporter)

	req := httptest.NewRequest("DELETE", "/api/settings", nil)
	rec := httptest.NewRecorder()

	h.HandleDeleteSettings(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	// A dead upstream must not pin the token
	if got := store.option(cms.OptionAPIToken); got != "" {
		t.Errorf("token still stored: %q", got)
	}
}

func TestHandleContentStatus(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	store.contents[5] = &cms.Content{ID: 5, Status: cms.StatusDraft}
	if err := Bootstrap(context.Background(), store, "admin-secret"); err != nil {
		t.Fatalf("Bootstrap failed: %v", err)
	}
	h := newTestHandler(store, &fakeReporter{})
	router := h.NewRouter()

	body, _ := json.Marshal(ContentStatusRequest{Status: "publish"})
	req := httptest.NewRequest("POST", "/api/content/5/status", bytes.NewReader(body))
	req.Header.Set("X-Admin-Token", "admin-secret")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body: %s)", rec.Code, rec.Body.String())
	}
	if store.contents[5].Status != cms.StatusPublish {
		t.Errorf("content status = %s, want publish", store.contents[5].Status)
	}
}

func TestHandleContentStatusErrors(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	store.contents[5] = &cms.Content{ID: 5, Status: cms.StatusDraft}
	if err := Bootstrap(context.Background(), store, "admin-secret"); err != nil {
		t.Fatalf("Bootstrap failed: %v", err)
	}
	h := newTestHandler(store, &fakeReporter{})
	router := h.NewRouter()

	tests := []struct {
		name       string
		path       string
		body       string
		wantStatus int
	}{
		{"unknown content", "/api/content/999/status", `{"status":"publish"}`, http.StatusNotFound},
		{"invalid status", "/api/content/5/status", `{"status":"bogus"}`, http.StatusBadRequest},
		{"revision status not allowed", "/api/content/5/status", `{"status":"inherit"}`, http.StatusBadRequest},
		{"invalid JSON", "/api/content/5/status", `{`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", tt.path, bytes.NewReader([]byte(tt.body)))
			req.Header.Set("X-Admin-Token", "admin-secret")
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestHandleSetLogLevel(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	h := newTestHandler(store, &fakeReporter{})

	body := bytes.NewReader([]byte(`{"level":"debug"}`))
	req := httptest.NewRequest("POST", "/api/loglevel", body)
	rec := httptest.NewRecorder()

	h.HandleSetLogLevel(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if h.logLevel.Level() != slog.LevelDebug {
		t.Errorf("log level = %v, want debug", h.logLevel.Level())
	}

	// Invalid level is rejected
	req = httptest.NewRequest("POST", "/api/loglevel", bytes.NewReader([]byte(`{"level":"loud"}`)))
	rec = httptest.NewRecorder()
	h.HandleSetLogLevel(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHandleHealthAndReady(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	h := newTestHandler(store, &fakeReporter{})

	rec := httptest.NewRecorder()
	h.HandleHealth(rec, httptest.NewRequest("GET", "/health", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("health status = %d, want 200", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.HandleReady(rec, httptest.NewRequest("GET", "/ready", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("ready status = %d, want 200", rec.Code)
	}

	store.pingErr = errors.New("database gone")
	rec = httptest.NewRecorder()
	h.HandleReady(rec, httptest.NewRequest("GET", "/ready", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("ready status = %d, want 503", rec.Code)
	}
}
