// Airwave - Radio Playlist Scraping and Analytics
// Copyright 2026 A. Vierling (avierling)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/avierling/airwave

package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/avierling/airwave/internal/database"
	"github.com/avierling/airwave/internal/models"
)

// defaultLimit is the row cap applied when the request does not set one.
const defaultLimit = 20

// Store is the read-only slice of the event store the API serves from.
type Store interface {
	TopSongs(ctx context.Context, window database.Window, limit int) ([]models.SongPlays, error)
	TopArtists(ctx context.Context, window database.Window, limit int) ([]models.ArtistPlays, error)
	Stats(ctx context.Context) (*models.StoreStats, error)
	Ping(ctx context.Context) error
}

// Handler holds the API handlers.
type Handler struct {
	store Store
}

// NewHandler creates an API handler backed by store.
func NewHandler(store Store) *Handler {
	return &Handler{store: store}
}

// TopSongs handles GET /api/v1/top-songs.
//
// Query parameters: start and end (YYYY-MM-DD, both optional, inclusive)
// and limit (default 20, 0 for all rows).
func (h *Handler) TopSongs(w http.ResponseWriter, r *http.Request) {
	window, ok := windowFromQuery(w, r)
	if !ok {
		return
	}
	limit := getIntParam(r, "limit", defaultLimit)

	songs, err := h.store.TopSongs(r.Context(), window, limit)
	if err != nil {
		if errors.Is(err, database.ErrInvalidRange) {
			respondError(w, http.StatusBadRequest, "INVALID_RANGE", err.Error(), nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "QUERY_FAILED", "Failed to query top songs", err)
		return
	}
	if songs == nil {
		songs = []models.SongPlays{}
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   songs,
		Metadata: models.Metadata{
			Timestamp: time.Now(),
			Count:     len(songs),
		},
	})
}

// TopArtists handles GET /api/v1/top-artists. Same parameters as TopSongs.
func (h *Handler) TopArtists(w http.ResponseWriter, r *http.Request) {
	window, ok := windowFromQuery(w, r)
	if !ok {
		return
	}
	limit := getIntParam(r, "limit", defaultLimit)

	artists, err := h.store.TopArtists(r.Context(), window, limit)
	if err != nil {
		if errors.Is(err, database.ErrInvalidRange) {
			respondError(w, http.StatusBadRequest, "INVALID_RANGE", err.Error(), nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "QUERY_FAILED", "Failed to query top artists", err)
		return
	}
	if artists == nil {
		artists = []models.ArtistPlays{}
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   artists,
		Metadata: models.Metadata{
			Timestamp: time.Now(),
			Count:     len(artists),
		},
	})
}

// Stats handles GET /api/v1/stats.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.store.Stats(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "QUERY_FAILED", "Failed to query stats", err)
		return
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   stats,
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
	})
}

// Health handles GET /api/v1/health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Ping(r.Context()); err != nil {
		respondError(w, http.StatusServiceUnavailable, "UNHEALTHY", "Database unreachable", err)
		return
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   map[string]string{"status": "healthy"},
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
	})
}

// windowFromQuery builds an aggregation window from start/end query params.
// Writes a 400 and returns ok=false on malformed dates.
func windowFromQuery(w http.ResponseWriter, r *http.Request) (database.Window, bool) {
	var start, end time.Time

	if s := r.URL.Query().Get("start"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			respondError(w, http.StatusBadRequest, "INVALID_DATE", "start must be YYYY-MM-DD", nil)
			return database.Window{}, false
		}
		start = t
	}
	if s := r.URL.Query().Get("end"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			respondError(w, http.StatusBadRequest, "INVALID_DATE", "end must be YYYY-MM-DD", nil)
			return database.Window{}, false
		}
		end = t
	}

	return database.Range(start, end), true
}
