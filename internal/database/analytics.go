// Airwave - Radio Playlist Scraping and Analytics
// Copyright 2026 A. Vierling (avierling)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/avierling/airwave

/*
analytics.go - Windowed Aggregation Queries

All operations here are read-only grouped aggregations over play_events.
None of them take the write path, so none are wrapped by the backup guard.

Ordering discipline: play count descending, then artist ascending, then
title ascending as a deterministic tie-break. A window with no matching rows
returns an empty result set, never an error; an inverted range fails
Validate() before any SQL runs.
*/

//nolint:staticcheck // File documentation, not package doc
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/avierling/airwave/internal/metrics"
	"github.com/avierling/airwave/internal/models"
)

// TopSongs returns the most played (artist, title) pairs within the window.
// limit <= 0 returns all rows.
func (db *DB) TopSongs(ctx context.Context, window Window, limit int) ([]models.SongPlays, error) {
	if err := window.Validate(); err != nil {
		return nil, err
	}

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	defer func(start time.Time) {
		metrics.RecordDBQuery("top_songs", time.Since(start))
	}(time.Now())

	whereSQL, args := window.dateFilter()
	query := `SELECT artist, title, COUNT(*) AS play_count
		FROM play_events` + whereSQL + `
		GROUP BY artist, title
		ORDER BY play_count DESC, artist ASC, title ASC`
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query top songs: %w", err)
	}
	defer rows.Close()

	var songs []models.SongPlays
	for rows.Next() {
		var s models.SongPlays
		if err := rows.Scan(&s.Artist, &s.Title, &s.PlayCount); err != nil {
			return nil, fmt.Errorf("failed to scan top songs row: %w", err)
		}
		songs = append(songs, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating top songs: %w", err)
	}

	return songs, nil
}

// TopArtists returns the most played artists within the window.
// limit <= 0 returns all rows.
func (db *DB) TopArtists(ctx context.Context, window Window, limit int) ([]models.ArtistPlays, error) {
	if err := window.Validate(); err != nil {
		return nil, err
	}

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	defer func(start time.Time) {
		metrics.RecordDBQuery("top_artists", time.Since(start))
	}(time.Now())

	whereSQL, args := window.dateFilter()
	query := `SELECT artist, COUNT(*) AS play_count
		FROM play_events` + whereSQL + `
		GROUP BY artist
		ORDER BY play_count DESC, artist ASC`
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query top artists: %w", err)
	}
	defer rows.Close()

	var artists []models.ArtistPlays
	for rows.Next() {
		var a models.ArtistPlays
		if err := rows.Scan(&a.Artist, &a.PlayCount); err != nil {
			return nil, fmt.Errorf("failed to scan top artists row: %w", err)
		}
		artists = append(artists, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating top artists: %w", err)
	}

	return artists, nil
}

// Stats returns a point-in-time snapshot of the event store: totals,
// distinct counts, covered time span and enrichment backlog. No windowing.
func (db *DB) Stats(ctx context.Context) (*models.StoreStats, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	defer func(start time.Time) {
		metrics.RecordDBQuery("stats", time.Since(start))
	}(time.Now())

	query := `SELECT
		COUNT(*) AS total_plays,
		COUNT(DISTINCT artist || '|' || title) AS unique_songs,
		COUNT(DISTINCT artist) AS unique_artists,
		MIN(played_at) AS earliest_play,
		MAX(played_at) AS latest_play,
		MIN(play_date) AS earliest_date,
		MAX(play_date) AS latest_date,
		COUNT(*) FILTER (WHERE genre IS NULL) AS missing_genre
	FROM play_events`

	var stats models.StoreStats
	var earliest, latest, earliestDate, latestDate sql.NullTime

	err := db.conn.QueryRowContext(ctx, query).Scan(
		&stats.TotalPlays, &stats.UniqueSongs, &stats.UniqueArtists,
		&earliest, &latest, &earliestDate, &latestDate, &stats.MissingGenre,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query stats: %w", err)
	}

	if earliest.Valid {
		stats.EarliestPlay = &earliest.Time
	}
	if latest.Valid {
		stats.LatestPlay = &latest.Time
	}
	if earliestDate.Valid && latestDate.Valid {
		stats.DaysCovered = int(latestDate.Time.Sub(earliestDate.Time).Hours()/24) + 1
	}

	return &stats, nil
}
