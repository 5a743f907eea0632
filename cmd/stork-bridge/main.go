// Package main provides the entry point for the Stork bridge server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/contentbird/stork-bridge/internal/admin"
	"github.com/contentbird/stork-bridge/internal/api"
	"github.com/contentbird/stork-bridge/internal/cms"
	"github.com/contentbird/stork-bridge/internal/config"
	"github.com/contentbird/stork-bridge/internal/metrics"
	"github.com/contentbird/stork-bridge/internal/middleware"
	"github.com/contentbird/stork-bridge/internal/notify"
	"github.com/contentbird/stork-bridge/internal/stork"
)

const version = "2.1.0"

// maxBodySize limits dispatcher request bodies. Editorial payloads are
// text; anything beyond this is abuse.
const maxBodySize = 2 << 20 // 2 MiB

func main() {
	if err := run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logLevel := new(slog.LevelVar)
	logLevel.Set(parseLogLevel(cfg.LogLevel))
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	logger.Info("starting stork bridge", "version", version, "listen_addr", cfg.ListenAddr)

	if err := metrics.Init(prometheus.DefaultRegisterer, version); err != nil {
		return fmt.Errorf("failed to init metrics: %w", err)
	}

	store, err := cms.New(cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open content store: %w", err)
	}
	defer func() {
		//nolint:errcheck
		store.Close()
	}()

	ctx := context.Background()
	if err := admin.Bootstrap(ctx, store, cfg.AdminToken); err != nil {
		return fmt.Errorf("failed to bootstrap admin credentials: %w", err)
	}

	var storkOpts []stork.Option
	if cfg.StorkAPIURL != "" {
		storkOpts = append(storkOpts, stork.WithBaseURL(cfg.StorkAPIURL))
	}
	client := stork.NewClient(storkOpts...)

	notifier := notify.New(store, client, cfg.SiteURL, cfg.AdminURL, logger)
	store.OnTransition(notifier.HandleTransition)

	apiHandler := api.NewHandler(store, version, logger)
	adminHandler := admin.NewHandler(store, notifier, logLevel, version, logger)

	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.MaxBodySize(maxBodySize))
	r.Use(middleware.Metrics(normalizeAction))
	r.Use(middleware.HTTPLogging(logger, nil))

	// Dispatcher endpoint the platform calls
	r.Mount("/lbcm", apiHandler.Routes())

	// Operator surface: health probes and the admin API
	r.Mount("/", adminHandler.NewRouter())

	// Metrics on a separate listener, not exposed to the platform
	metricsSrv := &http.Server{
		Addr:              cfg.MetricsListenAddr,
		Handler:           metricsRouter(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info("metrics listening", "addr", cfg.MetricsListenAddr)
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", "error", err)
		}
	}()

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case sig := <-sigCh:
		logger.Info("shutting down", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("server shutdown incomplete", "error", err)
	}
	//nolint:errcheck
	metricsSrv.Shutdown(shutdownCtx)

	// Let in-flight notifications finish before closing the store
	notifier.Wait()

	logger.Info("stopped")
	return nil
}

func metricsRouter() http.Handler {
	r := chi.NewRouter()
	r.Handle("/metrics", metrics.Handler())
	return r
}

// normalizeAction maps request paths to low-cardinality metric labels.
func normalizeAction(r *http.Request) string {
	path := strings.Trim(r.URL.Path, "/")
	if rest, ok := strings.CutPrefix(path, "lbcm"); ok {
		action := api.ParseAction(strings.Trim(rest, "/"))
		return "lbcm/" + action.String()
	}
	if strings.HasPrefix(path, "api/content/") {
		return "api/content/:id/status"
	}
	return path
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
