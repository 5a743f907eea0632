// Package config provides configuration loading and validation from environment variables.
package config

import (
	"fmt"
	"os"
	"strings"
)

// Config holds all application configuration for the bridge service.
type Config struct {
	LogLevel          string // debug, info, warn, error
	ListenAddr        string // Server listen address (e.g., ":8080")
	MetricsListenAddr string // Metrics listener address (e.g., "localhost:9090")
	DatabasePath      string // SQLite database path
	StorkAPIURL       string // Optional: Base URL for the Stork API (empty = use default)
	SiteURL           string // Public frontend URL of the CMS instance
	AdminURL          string // Admin URL of the CMS instance
	AdminToken        string // Required: credential for the admin API
}

// Load parses configuration from environment variables.
// All configuration options except ADMIN_TOKEN have sensible defaults.
func Load() (*Config, error) {
	logLevel := os.Getenv("LOG_LEVEL")
	listenAddr := os.Getenv("LISTEN_ADDR")
	metricsListenAddr := os.Getenv("METRICS_LISTEN_ADDR")
	databasePath := os.Getenv("DATABASE_PATH")
	storkAPIURL := os.Getenv("STORK_API_URL")
	siteURL := os.Getenv("SITE_URL")
	adminURL := os.Getenv("ADMIN_URL")
	adminToken := os.Getenv("ADMIN_TOKEN")

	// Set defaults for optional fields
	if logLevel == "" {
		logLevel = "info"
	}

	if listenAddr == "" {
		listenAddr = ":8080"
	}

	if metricsListenAddr == "" {
		metricsListenAddr = "localhost:9090"
	}

	if databasePath == "" {
		databasePath = "/data/bridge.db"
	}

	if siteURL == "" {
		siteURL = "http://localhost:8080"
	}

	siteURL = strings.TrimRight(siteURL, "/")

	if adminURL == "" {
		adminURL = siteURL + "/admin"
	}

	cfg := &Config{
		LogLevel:          logLevel,
		ListenAddr:        listenAddr,
		MetricsListenAddr: metricsListenAddr,
		DatabasePath:      databasePath,
		StorkAPIURL:       storkAPIURL,
		SiteURL:           siteURL,
		AdminURL:          strings.TrimRight(adminURL, "/"),
		AdminToken:        adminToken,
	}

	return cfg, nil
}

// Validate checks all configuration constraints.
func (c *Config) Validate() error {
	if c.AdminToken == "" {
		return fmt.Errorf("ADMIN_TOKEN environment variable is required")
	}
	return nil
}
