// Package api implements the inbound dispatcher the external platform calls
// to create, fetch and update content inside the CMS.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/contentbird/stork-bridge/internal/auth"
	"github.com/contentbird/stork-bridge/internal/cms"
	"github.com/contentbird/stork-bridge/internal/metrics"
)

// Store defines the content store operations the dispatcher needs.
// This interface enables testing with mock implementations.
type Store interface {
	GetOption(ctx context.Context, name string) (string, error)

	ListUsers(ctx context.Context) ([]*cms.User, error)
	GetUser(ctx context.Context, id int64) (*cms.User, error)

	ListCategories(ctx context.Context) ([]*cms.Category, error)
	CategoryExists(ctx context.Context, id int64) (bool, error)
	SetContentCategories(ctx context.Context, contentID int64, categoryIDs []int64) error

	CreateContent(ctx context.Context, c *cms.Content, opts cms.SaveOptions) (int64, error)
	GetContent(ctx context.Context, id int64) (*cms.Content, error)
	UpdateContentBody(ctx context.Context, id int64, title, body string, opts cms.SaveOptions) error
	LinkExternal(ctx context.Context, id, externalID int64) error
}

// Handler handles dispatcher requests.
type Handler struct {
	store   Store
	logger  *slog.Logger
	version string
}

// NewHandler creates a new dispatcher handler.
// If logger is nil, slog.Default() will be used.
func NewHandler(store Store, version string, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		store:   store,
		logger:  logger,
		version: version,
	}
}

// Routes returns the router for the dispatcher endpoint. The whole surface
// hangs off one endpoint; the trailing path selects the action.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(h.tokenAuth)
	r.HandleFunc("/", h.handle)
	r.HandleFunc("/*", h.handle)
	return r
}

// tokenAuth enforces the installation token on every action.
// The token travels as a request parameter, not a header, and is compared
// by exact match against the stored configuration value.
func (h *Handler) tokenAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		stored, err := h.store.GetOption(r.Context(), cms.OptionAPIToken)
		if err != nil {
			h.logger.Error("failed to load installation token", "error", err)
			writeError(w, http.StatusInternalServerError, CodeGeneral, "Unknown error")
			return
		}

		supplied := r.URL.Query().Get("token")

		switch err := auth.ValidateToken(stored, supplied); err {
		case nil:
			next.ServeHTTP(w, r)
		case auth.ErrNotConfigured:
			metrics.RecordAuthFailure("not_configured")
			writeError(w, http.StatusUnprocessableEntity, CodeGeneral,
				"Please enter installation token on plugin settings page.")
		case auth.ErrMissingToken:
			metrics.RecordAuthFailure("missing_token")
			writeError(w, http.StatusUnprocessableEntity, CodeGeneral, "Missing token")
		case auth.ErrInvalidToken:
			metrics.RecordAuthFailure("invalid_token")
			h.logger.Warn("invalid token on dispatcher request", "remote_addr", r.RemoteAddr)
			writeError(w, http.StatusUnauthorized, CodeGeneral, "Invalid token")
		default:
			writeError(w, http.StatusInternalServerError, CodeGeneral, "Unknown error")
		}
	})
}

// handle routes a request to its action handler. Unknown actions share one
// error path with requests carrying no action at all.
func (h *Handler) handle(w http.ResponseWriter, r *http.Request) {
	actionPath := strings.Trim(chi.URLParam(r, "*"), "/")

	action := ParseAction(actionPath)
	switch action {
	case ActionMeta:
		h.handleMeta(w, r)
	case ActionUsers:
		h.handleUsers(w, r)
	case ActionPluginStatus:
		h.handlePluginStatus(w, r)
	case ActionContentCreate:
		h.handleContentCreate(w, r)
	case ActionContentGet:
		h.handleContentGet(w, r)
	case ActionContentUpdate:
		h.handleContentUpdate(w, r)
	case ActionUnknown:
		writeError(w, http.StatusBadRequest, CodeUnknownMethod, "Unknown method")
	}
}

// metaResponse is the payload for the meta action.
type metaResponse struct {
	Code     int      `json:"code"`
	Message  string   `json:"message"`
	MetaData metaData `json:"meta_data"`
}

type metaData struct {
	PostTypes      []cms.ContentType `json:"post_types"`
	PostCategories []categoryInfo    `json:"post_categories"`
}

type categoryInfo struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// handleMeta returns the public content types and all categories.
func (h *Handler) handleMeta(w http.ResponseWriter, r *http.Request) {
	cats, err := h.store.ListCategories(r.Context())
	if err != nil {
		h.logger.Error("failed to list categories", "error", err)
		writeError(w, http.StatusInternalServerError, CodeGeneral, "Unknown error")
		return
	}

	catInfos := make([]categoryInfo, 0, len(cats))
	for _, c := range cats {
		catInfos = append(catInfos, categoryInfo{ID: c.ID, Name: c.Name, Slug: c.Slug})
	}

	writeJSON(w, metaResponse{
		Code:    CodeOkay,
		Message: "",
		MetaData: metaData{
			PostTypes:      cms.ContentTypes(true),
			PostCategories: catInfos,
		},
	})
}

// usersResponse is the payload for the users action. Users are keyed by
// their internal ID.
type usersResponse struct {
	Code    int                `json:"code"`
	Message string             `json:"message"`
	Users   map[int64]userInfo `json:"users"`
}

type userInfo struct {
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
}

// handleUsers returns all author accounts.
func (h *Handler) handleUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.store.ListUsers(r.Context())
	if err != nil {
		h.logger.Error("failed to list users", "error", err)
		writeError(w, http.StatusInternalServerError, CodeGeneral, "Unknown error")
		return
	}

	userList := make(map[int64]userInfo, len(users))
	for _, u := range users {
		userList[u.ID] = userInfo{DisplayName: u.DisplayName, Email: u.Email}
	}

	writeJSON(w, usersResponse{
		Code:    CodeOkay,
		Message: "",
		Users:   userList,
	})
}

// pluginStatusResponse is the payload for the plugin/status action.
type pluginStatusResponse struct {
	Code          int    `json:"code"`
	Message       string `json:"message"`
	Version       string `json:"version"`
	TokenInserted bool   `json:"token_inserted"`
}

// handlePluginStatus returns the bridge version and whether a token is configured.
func (h *Handler) handlePluginStatus(w http.ResponseWriter, r *http.Request) {
	token, err := h.store.GetOption(r.Context(), cms.OptionAPIToken)
	if err != nil {
		h.logger.Error("failed to load installation token", "error", err)
		writeError(w, http.StatusInternalServerError, CodeGeneral, "Unknown error")
		return
	}

	writeJSON(w, pluginStatusResponse{
		Code:          CodeOkay,
		Message:       "",
		Version:       h.version,
		TokenInserted: token != "",
	})
}
