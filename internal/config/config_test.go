// Airwave - Radio Playlist Scraping and Analytics
// Copyright 2026 A. Vierling (avierling)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/avierling/airwave

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	// Run from a temp dir so no stray config.yaml is picked up.
	chdirTemp(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Database.Path != "data/airwave.duckdb" {
		t.Errorf("Database.Path = %q, want %q", cfg.Database.Path, "data/airwave.duckdb")
	}
	if cfg.Server.Port != 3858 {
		t.Errorf("Server.Port = %d, want 3858", cfg.Server.Port)
	}
	if cfg.LastFM.LookupInterval != time.Second {
		t.Errorf("LastFM.LookupInterval = %v, want 1s", cfg.LastFM.LookupInterval)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want info", cfg.Logging.Level)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	chdirTemp(t)

	t.Setenv("AIRWAVE_DATABASE_PATH", "/tmp/custom.duckdb")
	t.Setenv("AIRWAVE_SERVER_PORT", "9090")
	t.Setenv("AIRWAVE_LASTFM_API_KEY", "abc123")
	t.Setenv("AIRWAVE_LOGGING_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Database.Path != "/tmp/custom.duckdb" {
		t.Errorf("Database.Path = %q, want /tmp/custom.duckdb", cfg.Database.Path)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.LastFM.APIKey != "abc123" {
		t.Errorf("LastFM.APIKey = %q, want abc123", cfg.LastFM.APIKey)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `database:
  path: /var/lib/airwave/plays.duckdb
scraper:
  delay: 2s
server:
  cors_origins:
    - https://radio.example.com
    - https://dash.example.com
`
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Database.Path != "/var/lib/airwave/plays.duckdb" {
		t.Errorf("Database.Path = %q, want /var/lib/airwave/plays.duckdb", cfg.Database.Path)
	}
	if cfg.Scraper.Delay != 2*time.Second {
		t.Errorf("Scraper.Delay = %v, want 2s", cfg.Scraper.Delay)
	}
	if len(cfg.Server.CORSOrigins) != 2 || cfg.Server.CORSOrigins[0] != "https://radio.example.com" {
		t.Errorf("Server.CORSOrigins = %v, want two origins from file", cfg.Server.CORSOrigins)
	}
	// Unset file keys keep their defaults.
	if cfg.Server.Port != 3858 {
		t.Errorf("Server.Port = %d, want default 3858", cfg.Server.Port)
	}
}

func TestLoadCORSOriginsFromEnv(t *testing.T) {
	chdirTemp(t)

	t.Setenv("AIRWAVE_SERVER_CORS_ORIGINS", "https://a.example.com, https://b.example.com")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	want := []string{"https://a.example.com", "https://b.example.com"}
	if len(cfg.Server.CORSOrigins) != len(want) {
		t.Fatalf("CORSOrigins = %v, want %v", cfg.Server.CORSOrigins, want)
	}
	for i := range want {
		if cfg.Server.CORSOrigins[i] != want[i] {
			t.Errorf("CORSOrigins[%d] = %q, want %q", i, cfg.Server.CORSOrigins[i], want[i])
		}
	}
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	chdirTemp(t)

	t.Setenv("AIRWAVE_LOGGING_LEVEL", "loud")

	if _, err := Load(); err == nil {
		t.Fatal("Load() succeeded with invalid logging level, want error")
	}
}

func TestEnvTransformFunc(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"AIRWAVE_DATABASE_PATH", "database.path"},
		{"AIRWAVE_LASTFM_API_KEY", "lastfm.api_key"},
		{"AIRWAVE_SERVER_RATE_LIMIT_REQS", "server.rate_limit_reqs"},
		{"AIRWAVE_LOGGING_LEVEL", "logging.level"},
	}

	for _, tt := range tests {
		if got := envTransformFunc(tt.in); got != tt.want {
			t.Errorf("envTransformFunc(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

// chdirTemp switches the working directory to a fresh temp dir for the test.
func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	old, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working directory: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("failed to chdir: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Errorf("failed to restore working directory: %v", err)
		}
	})
	return dir
}
