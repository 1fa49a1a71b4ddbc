// Airwave - Radio Playlist Scraping and Analytics
// Copyright 2026 A. Vierling (avierling)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/avierling/airwave

package ingest

import (
	"fmt"
	"strings"
	"time"

	"github.com/avierling/airwave/internal/models"
)

// timestampLayouts lists the accepted raw timestamp formats, tried in order.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// normalizeRecord validates a raw record and derives the stored shape.
// Artist and title are trimmed but otherwise preserved verbatim; dedup is
// exact, so normalization must not rewrite them.
func normalizeRecord(raw *models.RawPlayRecord) (models.PlayEvent, error) {
	artist := strings.TrimSpace(raw.Artist)
	title := strings.TrimSpace(raw.Title)

	if artist == "" {
		return models.PlayEvent{}, fmt.Errorf("empty artist")
	}
	if title == "" {
		return models.PlayEvent{}, fmt.Errorf("empty title")
	}

	playedAt, err := parseTimestamp(raw.Timestamp)
	if err != nil {
		return models.PlayEvent{}, err
	}

	return models.PlayEvent{
		Artist:   artist,
		Title:    title,
		PlayTime: playedAt.Format("15:04"),
		PlayDate: time.Date(playedAt.Year(), playedAt.Month(), playedAt.Day(), 0, 0, 0, 0, time.UTC),
		PlayedAt: playedAt,
	}, nil
}

// parseTimestamp parses a raw timestamp against the accepted layouts.
func parseTimestamp(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}

	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unparseable timestamp %q", raw)
}
