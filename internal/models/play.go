// Airwave - Radio Playlist Scraping and Analytics
// Copyright 2026 A. Vierling (avierling)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/avierling/airwave

// Package models defines data structures used throughout the Airwave
// application: play events, raw scraper records, operation reports, and
// analytics results.
package models

import "time"

// PlayEvent represents one observed play of a song on the station.
//
// Events are created by the ingestion pipeline and are append-only: the only
// field ever mutated after creation is Genre, written by the enrichment
// bridge. The (Artist, Title, PlayedAt) tuple is unique and serves as the
// sole deduplication key; the same song logged one minute apart is two rows.
type PlayEvent struct {
	// ID is a store-assigned surrogate key, monotonically increasing and
	// never reused.
	ID int64 `json:"id"`

	Artist string `json:"artist"`
	Title  string `json:"title"`

	// PlayTime is the time-of-day as scraped ("17:15", venue local time).
	PlayTime string `json:"play_time"`
	// PlayDate is the calendar day of the play, midnight UTC.
	PlayDate time.Time `json:"play_date"`
	// PlayedAt combines PlayDate and PlayTime for range queries and dedup.
	PlayedAt time.Time `json:"played_at"`

	// Genre is a comma-joined tag list, absent until enrichment runs.
	Genre *string `json:"genre,omitempty"`

	// IngestedAt is the row creation timestamp, immutable once set.
	IngestedAt time.Time `json:"ingested_at"`
}

// RawPlayRecord is a single row as produced by the scraper before
// normalization. Timestamp is free text; the ingestion pipeline owns
// rejecting malformed entries, not the scraper.
type RawPlayRecord struct {
	Artist    string `json:"artist"`
	Title     string `json:"title"`
	Timestamp string `json:"timestamp"`
}

// IngestionReport summarizes one ingestion batch. Received always equals
// Inserted + SkippedDuplicates + Malformed.
type IngestionReport struct {
	Received          int `json:"received"`
	Inserted          int `json:"inserted"`
	SkippedDuplicates int `json:"skipped_duplicates"`
	Malformed         int `json:"malformed"`
}

// EnrichmentReport summarizes one genre enrichment run.
type EnrichmentReport struct {
	Attempted int `json:"attempted"`
	Found     int `json:"found"`
	NotFound  int `json:"not_found"`
}

// SongPlays is one row of a top-songs aggregation.
type SongPlays struct {
	Artist    string `json:"artist"`
	Title     string `json:"title"`
	PlayCount int64  `json:"play_count"`
}

// ArtistPlays is one row of a top-artists aggregation.
type ArtistPlays struct {
	Artist    string `json:"artist"`
	PlayCount int64  `json:"play_count"`
}

// StoreStats is a point-in-time snapshot of the event store.
type StoreStats struct {
	TotalPlays    int64      `json:"total_plays"`
	UniqueSongs   int64      `json:"unique_songs"`
	UniqueArtists int64      `json:"unique_artists"`
	EarliestPlay  *time.Time `json:"earliest_play,omitempty"`
	LatestPlay    *time.Time `json:"latest_play,omitempty"`
	MissingGenre  int64      `json:"missing_genre"`
	DaysCovered   int        `json:"days_covered"`
}
