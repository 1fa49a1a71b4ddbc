// Airwave - Radio Playlist Scraping and Analytics
// Copyright 2026 A. Vierling (avierling)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/avierling/airwave

package api

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/avierling/airwave/internal/config"
	"github.com/avierling/airwave/internal/database"
	"github.com/avierling/airwave/internal/models"
)

// mockAPIStore serves canned analytics results.
type mockAPIStore struct {
	songs   []models.SongPlays
	artists []models.ArtistPlays
	stats   *models.StoreStats
	pingErr error

	lastLimit  int
	lastWindow database.Window
}

func (m *mockAPIStore) TopSongs(_ context.Context, window database.Window, limit int) ([]models.SongPlays, error) {
	if err := window.Validate(); err != nil {
		return nil, err
	}
	m.lastWindow = window
	m.lastLimit = limit
	return m.songs, nil
}

func (m *mockAPIStore) TopArtists(_ context.Context, window database.Window, limit int) ([]models.ArtistPlays, error) {
	if err := window.Validate(); err != nil {
		return nil, err
	}
	m.lastWindow = window
	m.lastLimit = limit
	return m.artists, nil
}

func (m *mockAPIStore) Stats(_ context.Context) (*models.StoreStats, error) {
	return m.stats, nil
}

func (m *mockAPIStore) Ping(_ context.Context) error {
	return m.pingErr
}

func newTestServer(store Store) *httptest.Server {
	router := NewRouter(&config.ServerConfig{
		Host:            "127.0.0.1",
		Port:            0,
		RateLimitReqs:   1000,
		RateLimitWindow: time.Minute,
		CORSOrigins:     []string{"*"},
	}, store)
	return httptest.NewServer(router.Setup())
}

func getJSON(t *testing.T, url string) (*http.Response, *models.APIResponse) {
	t.Helper()
	resp, err := http.Get(url) //nolint:gosec // Test server URL
	if err != nil {
		t.Fatalf("GET %s failed: %v", url, err)
	}
	defer resp.Body.Close() //nolint:errcheck // Test cleanup

	var body models.APIResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return resp, &body
}

func TestTopSongsEndpoint(t *testing.T) {
	store := &mockAPIStore{
		songs: []models.SongPlays{
			{Artist: "Rema", Title: "Calm Down", PlayCount: 12},
			{Artist: "Rosalía", Title: "Despechá", PlayCount: 9},
		},
	}
	srv := newTestServer(store)
	defer srv.Close()

	resp, body := getJSON(t, srv.URL+"/api/v1/top-songs?start=2026-08-01&end=2026-08-27&limit=5")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if body.Status != "success" {
		t.Errorf("status = %q, want success", body.Status)
	}
	if body.Metadata.Count != 2 {
		t.Errorf("count = %d, want 2", body.Metadata.Count)
	}
	if store.lastLimit != 5 {
		t.Errorf("limit passed to store = %d, want 5", store.lastLimit)
	}
}

func TestTopSongsDefaultLimit(t *testing.T) {
	store := &mockAPIStore{}
	srv := newTestServer(store)
	defer srv.Close()

	resp, body := getJSON(t, srv.URL+"/api/v1/top-songs")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if store.lastLimit != defaultLimit {
		t.Errorf("limit = %d, want default %d", store.lastLimit, defaultLimit)
	}
	// An empty store answers with an empty array, not null.
	if body.Data == nil {
		t.Error("data = null, want empty array")
	}
}

func TestTopSongsInvalidRange(t *testing.T) {
	srv := newTestServer(&mockAPIStore{})
	defer srv.Close()

	resp, body := getJSON(t, srv.URL+"/api/v1/top-songs?start=2026-08-27&end=2026-08-01")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	if body.Error == nil || body.Error.Code != "INVALID_RANGE" {
		t.Errorf("error = %+v, want INVALID_RANGE", body.Error)
	}
}

func TestTopSongsMalformedDate(t *testing.T) {
	srv := newTestServer(&mockAPIStore{})
	defer srv.Close()

	resp, body := getJSON(t, srv.URL+"/api/v1/top-songs?start=27.08.2026")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	if body.Error == nil || body.Error.Code != "INVALID_DATE" {
		t.Errorf("error = %+v, want INVALID_DATE", body.Error)
	}
}

func TestTopArtistsEndpoint(t *testing.T) {
	store := &mockAPIStore{
		artists: []models.ArtistPlays{{Artist: "Burna Boy", PlayCount: 30}},
	}
	srv := newTestServer(store)
	defer srv.Close()

	resp, body := getJSON(t, srv.URL+"/api/v1/top-artists")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if body.Metadata.Count != 1 {
		t.Errorf("count = %d, want 1", body.Metadata.Count)
	}
}

func TestStatsEndpoint(t *testing.T) {
	store := &mockAPIStore{
		stats: &models.StoreStats{TotalPlays: 100, UniqueSongs: 40, UniqueArtists: 25},
	}
	srv := newTestServer(store)
	defer srv.Close()

	resp, body := getJSON(t, srv.URL+"/api/v1/stats")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	data, ok := body.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("data = %T, want object", body.Data)
	}
	if data["total_plays"] != float64(100) {
		t.Errorf("total_plays = %v, want 100", data["total_plays"])
	}
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(&mockAPIStore{})
	defer srv.Close()

	resp, _ := getJSON(t, srv.URL+"/api/v1/health")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
}

func TestHealthEndpointUnhealthy(t *testing.T) {
	srv := newTestServer(&mockAPIStore{pingErr: fmt.Errorf("database gone")})
	defer srv.Close()

	resp, body := getJSON(t, srv.URL+"/api/v1/health")
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", resp.StatusCode)
	}
	if body.Error == nil || body.Error.Code != "UNHEALTHY" {
		t.Errorf("error = %+v, want UNHEALTHY", body.Error)
	}
}

func TestMetricsEndpointExposed(t *testing.T) {
	srv := newTestServer(&mockAPIStore{})
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/metrics") //nolint:gosec // Test server URL
	if err != nil {
		t.Fatalf("GET /metrics failed: %v", err)
	}
	defer resp.Body.Close() //nolint:errcheck // Test cleanup
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}
