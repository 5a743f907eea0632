package admin

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/contentbird/stork-bridge/internal/cms"
)

// ContentStatusRequest is the body for a manual status transition.
type ContentStatusRequest struct {
	Status string `json:"status"`
}

// validTransitions are the statuses an operator can move a record into.
var validTransitions = map[cms.Status]bool{
	cms.StatusDraft:   true,
	cms.StatusPending: true,
	cms.StatusFuture:  true,
	cms.StatusPublish: true,
	cms.StatusTrash:   true,
}

// HandleContentStatus transitions a content record to a new status.
// POST /api/content/{id}/status
// Body: {"status": "publish"}
//
// This is the editorial entry point: publishing through it fires the same
// transition hooks the platform is notified by.
func (h *Handler) HandleContentStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		WriteError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid content ID")
		return
	}

	var req ContentStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid JSON")
		return
	}

	status := cms.Status(req.Status)
	if !validTransitions[status] {
		WriteError(w, http.StatusBadRequest, ErrCodeInvalidRequest,
			"invalid status (must be: draft, pending, future, publish, trash)")
		return
	}

	if err := h.store.TransitionStatus(r.Context(), id, status); err != nil {
		if errors.Is(err, cms.ErrNotFound) {
			WriteError(w, http.StatusNotFound, ErrCodeNotFound, "content not found")
			return
		}
		h.logger.Error("failed to transition content status", "content_id", id, "error", err)
		WriteError(w, http.StatusInternalServerError, ErrCodeInternalError, "internal error")
		return
	}

	h.logger.Info("content status transitioned", "content_id", id, "status", req.Status)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	//nolint:errcheck
	_ = json.NewEncoder(w).Encode(map[string]any{
		"cms_content_id": id,
		"status":         req.Status,
	})
}
