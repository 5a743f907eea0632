package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/contentbird/stork-bridge/internal/cms"
	"github.com/contentbird/stork-bridge/internal/render"
)

// createRequest is the body of a content/create request.
type createRequest struct {
	ContentID int64        `json:"content_id"`
	Post      *contentData `json:"post"`
}

// contentData carries the editorial fields of a content record on the wire.
type contentData struct {
	Title       string       `json:"post_title"`
	Content     string       `json:"post_content"`
	Status      string       `json:"post_status"`
	PlannedDate string       `json:"planned_publish_date"`
	Meta        *contentMeta `json:"post_meta"`
}

// contentMeta carries the CMS-side placement of a content record.
type contentMeta struct {
	UserID     int64   `json:"cms_user_id"`
	PostType   string  `json:"cms_post_type"`
	Categories []int64 `json:"cms_post_categories"`
}

// updateRequest is the body of a content/update request.
type updateRequest struct {
	CMSContentID int64        `json:"cms_content_id"`
	Post         *contentData `json:"post"`
}

// idResponse acknowledges a create or update with the CMS-side record ID.
type idResponse struct {
	Code         int    `json:"code"`
	Message      string `json:"message"`
	CMSContentID int64  `json:"cms_content_id"`
}

// contentResponse is the payload for the content/get action. The platform
// only consumes the editorial fields, so nothing else leaves the instance.
type contentResponse struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Content contentView `json:"content"`
}

type contentView struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// plannedDateFormats are the timestamp layouts accepted for scheduled
// publish dates, tried in order.
var plannedDateFormats = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parsePlannedDate(s string) (time.Time, bool) {
	for _, layout := range plannedDateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// handleContentCreate creates a new content record from platform-supplied
// data. Validation failures are reported with their specific wire code;
// the order of checks is part of the contract.
func (h *Handler) handleContentCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Post == nil {
		writeError(w, http.StatusUnprocessableEntity, CodeObjectInvalid, "Object is not valid")
		return
	}
	post := req.Post

	if post.Meta == nil || post.Meta.UserID == 0 {
		writeError(w, http.StatusUnprocessableEntity, CodeNoAuthorGiven, "No author given")
		return
	}
	if post.Title == "" {
		writeError(w, http.StatusUnprocessableEntity, CodeNoTitleGiven, "No title given")
		return
	}

	postType := post.Meta.PostType
	if postType != "" && !cms.TypeExists(postType) {
		writeError(w, http.StatusUnprocessableEntity, CodeUnknownPostType, "Unknown post type")
		return
	}

	ctx := r.Context()
	for _, catID := range post.Meta.Categories {
		ok, err := h.store.CategoryExists(ctx, catID)
		if err != nil {
			h.logger.Error("failed to check category", "category_id", catID, "error", err)
			writeError(w, http.StatusInternalServerError, CodeGeneral, "Unknown error")
			return
		}
		if !ok {
			writeError(w, http.StatusUnprocessableEntity, CodeUnknownPostCategory, "Unknown post category")
			return
		}
	}

	author, err := h.store.GetUser(ctx, post.Meta.UserID)
	if err != nil {
		if errors.Is(err, cms.ErrNotFound) {
			writeError(w, http.StatusUnprocessableEntity, CodeUserNotFound, "User not found")
			return
		}
		h.logger.Error("failed to resolve author", "user_id", post.Meta.UserID, "error", err)
		writeError(w, http.StatusInternalServerError, CodeGeneral, "Unknown error")
		return
	}

	content := &cms.Content{
		Title:      post.Title,
		Body:       post.Content,
		AuthorID:   author.ID,
		Status:     cms.Status(post.Status),
		Type:       postType,
		ExternalID: req.ContentID,
	}
	if content.Status == "" {
		content.Status = cms.StatusDraft
	}

	if post.PlannedDate != "" {
		if planned, ok := parsePlannedDate(post.PlannedDate); ok {
			content.Date = planned
			// A draft with a planned date on or after today becomes a
			// scheduled record; the explicit date is marked so later
			// transitions keep it.
			today := time.Now().UTC().Truncate(24 * time.Hour)
			if content.Status == cms.StatusDraft && !planned.Truncate(24*time.Hour).Before(today) {
				content.Status = cms.StatusFuture
				content.EditDate = true
			}
		}
	}

	// The body arrives from the trusted platform editor; the usual save
	// filters would strip its markup.
	id, err := h.store.CreateContent(ctx, content, cms.SaveOptions{SkipSanitize: true})
	if err != nil {
		h.logger.Error("failed to create content", "error", err)
		writeError(w, http.StatusInternalServerError, CodeGeneral, "Unknown error")
		return
	}

	if len(post.Meta.Categories) > 0 {
		if err := h.store.SetContentCategories(ctx, id, post.Meta.Categories); err != nil {
			h.logger.Error("failed to attach categories", "content_id", id, "error", err)
			writeError(w, http.StatusInternalServerError, CodeGeneral, "Unknown error")
			return
		}
	}

	if req.ContentID != 0 {
		if err := h.store.LinkExternal(ctx, id, req.ContentID); err != nil {
			h.logger.Error("failed to link external content", "content_id", id, "error", err)
			writeError(w, http.StatusInternalServerError, CodeGeneral, "Unknown error")
			return
		}
	}

	h.logger.Info("content created", "content_id", id, "external_id", req.ContentID,
		"status", content.Status, "type", content.Type)

	writeJSON(w, idResponse{Code: CodeOkay, Message: "", CMSContentID: id})
}

// getRequest is the body of a content/get request.
type getRequest struct {
	CMSContentID int64 `json:"cms_content_id"`
}

// handleContentGet returns a content record with its body rendered the way
// the site would deliver it, except that shortcodes stay unexpanded.
func (h *Handler) handleContentGet(w http.ResponseWriter, r *http.Request) {
	var req getRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.CMSContentID == 0 {
		writeError(w, http.StatusUnprocessableEntity, CodeNoContentGiven, "No content given")
		return
	}

	content, err := h.store.GetContent(r.Context(), req.CMSContentID)
	if err != nil {
		if errors.Is(err, cms.ErrNotFound) {
			writeError(w, http.StatusUnprocessableEntity, CodeNotFound, "Content not found")
			return
		}
		h.logger.Error("failed to load content", "content_id", req.CMSContentID, "error", err)
		writeError(w, http.StatusInternalServerError, CodeGeneral, "Unknown error")
		return
	}

	writeJSON(w, contentResponse{Code: CodeOkay, Message: "", Content: contentView{
		Title:   content.Title,
		Content: render.Content(content.Body, render.FilterShortcode),
	}})
}

// handleContentUpdate updates a content record. Records that are already
// published or scheduled keep their live body; the new text is stored as an
// autosave revision instead, so the change waits for an editor.
func (h *Handler) handleContentUpdate(w http.ResponseWriter, r *http.Request) {
	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Post == nil {
		writeError(w, http.StatusUnprocessableEntity, CodeObjectInvalid, "Object is not valid")
		return
	}
	if req.CMSContentID == 0 {
		writeError(w, http.StatusUnprocessableEntity, CodeNoContentGiven, "No content given")
		return
	}
	if req.Post.Title == "" {
		writeError(w, http.StatusUnprocessableEntity, CodeNoTitleGiven, "No title given")
		return
	}
	if req.Post.Content == "" {
		writeError(w, http.StatusUnprocessableEntity, CodeNoContentGiven, "No content given")
		return
	}

	ctx := r.Context()
	content, err := h.store.GetContent(ctx, req.CMSContentID)
	if err != nil {
		if errors.Is(err, cms.ErrNotFound) {
			writeError(w, http.StatusUnprocessableEntity, CodeNotFound, "Content not found")
			return
		}
		h.logger.Error("failed to load content", "content_id", req.CMSContentID, "error", err)
		writeError(w, http.StatusInternalServerError, CodeGeneral, "Unknown error")
		return
	}

	if content.Status == cms.StatusPublish || content.Status == cms.StatusFuture {
		revision := &cms.Content{
			Title:    req.Post.Title,
			Body:     req.Post.Content,
			AuthorID: content.AuthorID,
			Status:   cms.StatusInherit,
			Type:     cms.TypeRevision,
			Slug:     fmt.Sprintf("%d-autosave-%s", content.ID, uuid.NewString()),
			ParentID: content.ID,
		}
		revID, err := h.store.CreateContent(ctx, revision, cms.SaveOptions{SkipSanitize: true})
		if err != nil {
			h.logger.Error("failed to create revision", "content_id", content.ID, "error", err)
			writeError(w, http.StatusInternalServerError, CodeGeneral, "Unknown error")
			return
		}
		h.logger.Info("content revision stored", "content_id", content.ID, "revision_id", revID)
	} else {
		err := h.store.UpdateContentBody(ctx, content.ID, req.Post.Title, req.Post.Content,
			cms.SaveOptions{SkipSanitize: true})
		if err != nil {
			h.logger.Error("failed to update content", "content_id", content.ID, "error", err)
			writeError(w, http.StatusInternalServerError, CodeGeneral, "Unknown error")
			return
		}
		h.logger.Info("content updated", "content_id", content.ID)
	}

	writeJSON(w, idResponse{Code: CodeOkay, Message: "", CMSContentID: content.ID})
}
