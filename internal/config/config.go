// Airwave - Radio Playlist Scraping and Analytics
// Copyright 2026 A. Vierling (avierling)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/avierling/airwave

// Package config holds Airwave's configuration types and the Koanf v2
// layered loader. Precedence, highest wins: environment variables
// (AIRWAVE_ prefix), config file (config.yaml), built-in defaults.
package config

import (
	"fmt"
	"time"

	"github.com/avierling/airwave/internal/validation"
)

// Config is the top-level application configuration.
type Config struct {
	Database  DatabaseConfig  `koanf:"database"`
	Backup    BackupConfig    `koanf:"backup"`
	Scraper   ScraperConfig   `koanf:"scraper"`
	LastFM    LastFMConfig    `koanf:"lastfm"`
	Server    ServerConfig    `koanf:"server"`
	Scheduler SchedulerConfig `koanf:"scheduler"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// DatabaseConfig configures the DuckDB event store.
type DatabaseConfig struct {
	// Path is the single analytical database file.
	Path string `koanf:"path" validate:"required"`
	// MaxMemory caps DuckDB memory usage (e.g. "1GB").
	MaxMemory string `koanf:"max_memory" validate:"required"`
	// Threads for DuckDB; 0 = runtime.NumCPU().
	Threads int `koanf:"threads" validate:"min=0"`
}

// BackupConfig configures the pre-mutation snapshot guard.
type BackupConfig struct {
	// Dir is the dedicated snapshot directory. Snapshots are named with
	// their creation timestamp, never overwritten, never auto-pruned.
	Dir string `koanf:"dir" validate:"required"`
}

// ScraperConfig configures the playlist page scraper.
type ScraperConfig struct {
	// URL is the station playlist search endpoint.
	URL string `koanf:"url" validate:"required,url"`
	// Delay between page requests.
	Delay time.Duration `koanf:"delay" validate:"min=0"`
	// UserAgent sent with every request.
	UserAgent string `koanf:"user_agent"`
	// Timeout per page request.
	Timeout time.Duration `koanf:"timeout" validate:"min=0"`
}

// LastFMConfig configures the genre lookup oracle.
type LastFMConfig struct {
	// APIKey authenticates against the Last.fm API. Required only for
	// the enrich command.
	APIKey string `koanf:"api_key"`
	// URL is the API root.
	URL string `koanf:"url" validate:"required,url"`
	// LookupInterval is the minimum spacing between oracle calls,
	// enforced process-wide. The spec ceiling is one call per second.
	LookupInterval time.Duration `koanf:"lookup_interval" validate:"min=0"`
	// Timeout per lookup request.
	Timeout time.Duration `koanf:"timeout" validate:"min=0"`
}

// ServerConfig configures the read-only analytics HTTP API.
type ServerConfig struct {
	Host            string        `koanf:"host" validate:"required"`
	Port            int           `koanf:"port" validate:"min=1,max=65535"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"min=0"`
	// RateLimitReqs is the per-IP request ceiling per RateLimitWindow.
	RateLimitReqs   int           `koanf:"rate_limit_reqs" validate:"min=1"`
	RateLimitWindow time.Duration `koanf:"rate_limit_window" validate:"min=0"`
	CORSOrigins     []string      `koanf:"cors_origins"`
}

// SchedulerConfig configures scheduled scraping in serve mode.
type SchedulerConfig struct {
	// Interval between scheduled ingestion runs. Each run scrapes
	// yesterday and today to catch plays around midnight.
	Interval time.Duration `koanf:"interval" validate:"min=1m"`
}

// LoggingConfig configures the global logger.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error disabled"`
	Format string `koanf:"format" validate:"oneof=json console"`
}

// defaultConfig returns a Config with all defaults applied. These are
// loaded first and overridden by the config file and environment.
func defaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path:      "data/airwave.duckdb",
			MaxMemory: "1GB",
			Threads:   0, // 0 = use runtime.NumCPU()
		},
		Backup: BackupConfig{
			Dir: "data/backups",
		},
		Scraper: ScraperConfig{
			URL:       "https://www1.wdr.de/radio/cosmo/musik/playlist/index.jsp",
			Delay:     1 * time.Second,
			UserAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36",
			Timeout:   30 * time.Second,
		},
		LastFM: LastFMConfig{
			APIKey:         "",
			URL:            "https://ws.audioscrobbler.com/2.0/",
			LookupInterval: 1 * time.Second,
			Timeout:        10 * time.Second,
		},
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            3858,
			ShutdownTimeout: 10 * time.Second,
			RateLimitReqs:   100,
			RateLimitWindow: 1 * time.Minute,
			CORSOrigins:     []string{"*"},
		},
		Scheduler: SchedulerConfig{
			Interval: 6 * time.Hour,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Validate checks the configuration via go-playground/validator tags.
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
