package admin

import (
	"encoding/json"
	"net/http"

	"github.com/contentbird/stork-bridge/internal/auth"
	"github.com/contentbird/stork-bridge/internal/cms"
	"github.com/contentbird/stork-bridge/internal/notify"
)

// StatusResponse describes the current installation state.
// GET /api/status
type StatusResponse struct {
	Version        string `json:"version"`
	TokenInserted  bool   `json:"token_inserted"`
	InstanceDomain string `json:"instance_domain,omitempty"`
}

// HandleStatus returns the bridge version and token state
// GET /api/status
func (h *Handler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	token, err := h.store.GetOption(r.Context(), cms.OptionAPIToken)
	if err != nil {
		h.logger.Error("failed to load installation token", "error", err)
		WriteError(w, http.StatusInternalServerError, ErrCodeInternalError, "internal error")
		return
	}

	resp := StatusResponse{
		Version:       h.version,
		TokenInserted: token != "",
	}
	if token != "" {
		if inst, err := auth.ParseInstance(token); err == nil {
			resp.InstanceDomain = inst.Domain
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	//nolint:errcheck
	_ = json.NewEncoder(w).Encode(resp)
}

// SaveSettingsRequest is the body for storing an installation token.
type SaveSettingsRequest struct {
	Token string `json:"token"`
}

// HandleSaveSettings stores a new installation token and activates the
// integration.
// PUT /api/settings
//
// The token is persisted first so the activation report authenticates with
// it; if the platform rejects the report the stored token is cleared again.
func (h *Handler) HandleSaveSettings(w http.ResponseWriter, r *http.Request) {
	var req SaveSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Token == "" {
		WriteError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "missing token")
		return
	}

	inst, err := auth.ParseInstance(req.Token)
	if err != nil {
		WriteError(w, http.StatusUnprocessableEntity, ErrCodeInvalidRequest,
			"token carries no instance metadata")
		return
	}

	ctx := r.Context()

	if err := h.store.SetOption(ctx, cms.OptionAPIToken, req.Token); err != nil {
		h.logger.Error("failed to store installation token", "error", err)
		WriteError(w, http.StatusInternalServerError, ErrCodeInternalError, "internal error")
		return
	}

	result, err := h.reporter.ReportPluginStatus(ctx, req.Token, notify.PluginActivated)
	if err != nil {
		h.rollbackToken(r)
		h.logger.Warn("activation report failed", "error", err)
		WriteError(w, http.StatusBadGateway, ErrCodeUnknownError, "unknown error")
		return
	}

	switch result.StatusCode {
	case http.StatusOK:
		h.logger.Info("installation token saved", "instance_domain", inst.Domain)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		//nolint:errcheck
		_ = json.NewEncoder(w).Encode(map[string]any{
			"token_inserted":  true,
			"instance_domain": inst.Domain,
		})
	case http.StatusUnauthorized:
		h.rollbackToken(r)
		WriteError(w, http.StatusUnprocessableEntity, ErrCodeInvalidToken, "invalid token")
	case http.StatusBadRequest:
		h.rollbackToken(r)
		WriteError(w, http.StatusUnprocessableEntity, ErrCodeRequestFailed, "request failed")
	default:
		h.rollbackToken(r)
		h.logger.Warn("activation report rejected", "status_code", result.StatusCode)
		WriteError(w, http.StatusBadGateway, ErrCodeUnknownError, "unknown error")
	}
}

// HandleDeleteSettings removes the installation token and deactivates the
// integration.
// DELETE /api/settings
//
// The deactivation report is best effort: the token is cleared even when
// the platform cannot be reached, so a dead upstream never pins a token.
func (h *Handler) HandleDeleteSettings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	token, err := h.store.GetOption(ctx, cms.OptionAPIToken)
	if err != nil {
		h.logger.Error("failed to load installation token", "error", err)
		WriteError(w, http.StatusInternalServerError, ErrCodeInternalError, "internal error")
		return
	}

	if token != "" {
		if _, err := h.reporter.ReportPluginStatus(ctx, token, notify.PluginDeactivated); err != nil {
			h.logger.Warn("deactivation report failed", "error", err)
		}
	}

	if err := h.store.SetOption(ctx, cms.OptionAPIToken, ""); err != nil {
		h.logger.Error("failed to clear installation token", "error", err)
		WriteError(w, http.StatusInternalServerError, ErrCodeInternalError, "internal error")
		return
	}

	h.logger.Info("installation token removed")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	//nolint:errcheck
	_ = json.NewEncoder(w).Encode(map[string]any{"token_inserted": false})
}

// rollbackToken clears the stored token after a failed activation, so a
// token the platform never accepted cannot linger half-configured.
func (h *Handler) rollbackToken(r *http.Request) {
	if err := h.store.SetOption(r.Context(), cms.OptionAPIToken, ""); err != nil {
		h.logger.Error("failed to roll back installation token", "error", err)
	}
}
