// Package admin provides the operator-facing endpoints of the bridge:
// health probes, the settings lifecycle for the installation token, manual
// content status transitions and runtime log level control.
package admin

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/contentbird/stork-bridge/internal/cms"
	"github.com/contentbird/stork-bridge/internal/stork"
)

// Store is the subset of the content store the admin surface needs.
type Store interface {
	Ping(ctx context.Context) error
	GetOption(ctx context.Context, name string) (string, error)
	SetOption(ctx context.Context, name, value string) error
	GetContent(ctx context.Context, id int64) (*cms.Content, error)
	TransitionStatus(ctx context.Context, id int64, newStatus cms.Status) error
}

// Reporter delivers plugin lifecycle notifications to the platform.
type Reporter interface {
	ReportPluginStatus(ctx context.Context, token, status string) (*stork.Result, error)
}

// Handler provides admin endpoints
type Handler struct {
	store    Store
	reporter Reporter
	logger   *slog.Logger
	logLevel *slog.LevelVar
	version  string
}

// NewHandler creates an admin handler
func NewHandler(store Store, reporter Reporter, logLevel *slog.LevelVar, version string, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	if logLevel == nil {
		logLevel = new(slog.LevelVar)
	}

	return &Handler{
		store:    store,
		reporter: reporter,
		logger:   logger,
		logLevel: logLevel,
		version:  version,
	}
}

// Bootstrap stores the bcrypt hash of the configured admin credential so
// the plaintext never touches the database. Called once at startup.
func Bootstrap(ctx context.Context, store Store, adminToken string) error {
	hash, err := cms.HashKey(adminToken)
	if err != nil {
		return fmt.Errorf("failed to hash admin token: %w", err)
	}
	if err := store.SetOption(ctx, cms.OptionAdminTokenHash, hash); err != nil {
		return fmt.Errorf("failed to store admin token hash: %w", err)
	}
	return nil
}
