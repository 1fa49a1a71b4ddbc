// Airwave - Radio Playlist Scraping and Analytics
// Copyright 2026 A. Vierling (avierling)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/avierling/airwave

// Package scraper fetches the station's public playlist pages and extracts
// raw play records from them.
//
// The playlist search endpoint answers a POSTed form with the songs played
// within roughly thirty minutes of the queried time, so a full day is
// assembled by querying every hour and deduplicating the overlap. Records
// come out raw; normalization and persistence belong to the ingest package.
package scraper

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/avierling/airwave/internal/config"
	"github.com/avierling/airwave/internal/logging"
	"github.com/avierling/airwave/internal/metrics"
	"github.com/avierling/airwave/internal/models"
)

// Scraper fetches playlist pages over HTTP.
type Scraper struct {
	cfg    *config.ScraperConfig
	client *http.Client

	// now is swappable for tests that pin "today".
	now func() time.Time
}

// New creates a playlist scraper.
func New(cfg *config.ScraperConfig) *Scraper {
	return &Scraper{
		cfg: cfg,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		now: time.Now,
	}
}

// FetchDay fetches all plays for one calendar day. For today, only hours up
// to the current one are queried; a past day is queried in full.
func (s *Scraper) FetchDay(ctx context.Context, date time.Time) ([]models.RawPlayRecord, error) {
	maxHour := 24
	now := s.now()
	if date.Year() == now.Year() && date.YearDay() == now.YearDay() {
		maxHour = now.Hour() + 1
	}

	var all []models.RawPlayRecord
	seen := make(map[string]bool)

	for hour := 0; hour < maxHour; hour++ {
		records, err := s.fetchHour(ctx, date, hour)
		if err != nil {
			// One failed page must not lose the rest of the day.
			logging.Warn().
				Err(err).
				Str("date", date.Format("2006-01-02")).
				Int("hour", hour).
				Msg("Playlist page fetch failed, continuing")
			continue
		}

		for _, r := range records {
			key := r.Artist + "\x00" + r.Title + "\x00" + r.Timestamp
			if !seen[key] {
				seen[key] = true
				all = append(all, r)
			}
		}

		if hour < maxHour-1 {
			if err := s.pause(ctx); err != nil {
				return all, err
			}
		}
	}

	sort.Slice(all, func(i, j int) bool { return all[i].Timestamp < all[j].Timestamp })

	logging.Info().
		Str("date", date.Format("2006-01-02")).
		Int("records", len(all)).
		Msg("Fetched playlist day")

	return all, nil
}

// FetchRange fetches all plays for an inclusive date range, day by day.
func (s *Scraper) FetchRange(ctx context.Context, start, end time.Time) ([]models.RawPlayRecord, error) {
	if start.After(end) {
		return nil, fmt.Errorf("invalid range: start %s after end %s",
			start.Format("2006-01-02"), end.Format("2006-01-02"))
	}

	var all []models.RawPlayRecord
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		records, err := s.FetchDay(ctx, d)
		if err != nil {
			return all, err
		}
		all = append(all, records...)
	}

	return all, nil
}

// fetchHour posts the playlist search form for one hour slot and parses the
// response.
func (s *Scraper) fetchHour(ctx context.Context, date time.Time, hour int) ([]models.RawPlayRecord, error) {
	startTime := time.Now()

	form := url.Values{
		"playlistSearch_date":    {date.Format("2006-01-02")},
		"playlistSearch_hours":   {fmt.Sprintf("%02d", hour)},
		"playlistSearch_minutes": {"00"},
		"submit":                 {"suchen"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.URL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if s.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", s.cfg.UserAgent)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		metrics.RecordScrapePage(time.Since(startTime), err)
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			logging.Warn().Err(closeErr).Msg("Failed to close response body")
		}
	}()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("unexpected status %d", resp.StatusCode)
		metrics.RecordScrapePage(time.Since(startTime), err)
		return nil, err
	}

	records, err := parsePlaylist(resp.Body, date)
	metrics.RecordScrapePage(time.Since(startTime), err)
	return records, err
}

// pause waits the configured inter-request delay, honoring cancellation.
func (s *Scraper) pause(ctx context.Context) error {
	if s.cfg.Delay <= 0 {
		return nil
	}
	timer := time.NewTimer(s.cfg.Delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
