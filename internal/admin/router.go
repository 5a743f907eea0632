package admin

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter creates the admin router with API routes only
func (h *Handler) NewRouter() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Public endpoints (no auth)
	r.Get("/health", h.HandleHealth)
	r.Get("/ready", h.HandleReady)

	// Admin API (token auth)
	r.Route("/api", func(r chi.Router) {
		r.Use(h.TokenAuthMiddleware)

		// Installation state and settings lifecycle
		r.Get("/status", h.HandleStatus)
		r.Put("/settings", h.HandleSaveSettings)
		r.Delete("/settings", h.HandleDeleteSettings)

		// Editorial status transitions
		r.Post("/content/{id}/status", h.HandleContentStatus)

		// Log level management
		r.Post("/loglevel", h.HandleSetLogLevel)
	})

	return r
}
