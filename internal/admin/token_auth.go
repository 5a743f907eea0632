package admin

import (
	"net/http"
	"strings"

	"github.com/contentbird/stork-bridge/internal/cms"
)

// TokenAuthMiddleware validates the admin credential for the admin API.
// The credential arrives in the X-Admin-Token header and is compared against
// the bcrypt hash stored at bootstrap.
func (h *Handler) TokenAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		supplied := strings.TrimSpace(r.Header.Get("X-Admin-Token"))
		if supplied == "" {
			WriteError(w, http.StatusUnauthorized, ErrCodeInvalidCredentials, "missing admin token")
			return
		}

		hash, err := h.store.GetOption(r.Context(), cms.OptionAdminTokenHash)
		if err != nil {
			h.logger.Error("failed to load admin token hash", "error", err)
			WriteError(w, http.StatusInternalServerError, ErrCodeInternalError, "internal error")
			return
		}
		if hash == "" {
			WriteError(w, http.StatusUnauthorized, ErrCodeInvalidCredentials, "admin access not configured")
			return
		}

		if err := cms.VerifyKey(supplied, hash); err != nil {
			h.logger.Warn("invalid admin token attempt", "remote_addr", r.RemoteAddr)
			WriteError(w, http.StatusUnauthorized, ErrCodeInvalidCredentials, "invalid admin token")
			return
		}

		next.ServeHTTP(w, r)
	})
}
