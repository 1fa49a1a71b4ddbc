// Airwave - Radio Playlist Scraping and Analytics
// Copyright 2026 A. Vierling (avierling)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/avierling/airwave

/*
schema.go - Play Event Schema

One table holds all persisted state. IDs come from a DuckDB sequence so they
are monotonically increasing and never reused, even when a conflicting insert
burns a sequence value.

The UNIQUE(artist, title, played_at) constraint is the sole deduplication
key. It is exact-match only: the same song scraped one minute apart produces
two rows. Genre is nullable and written later by the enrichment bridge; every
other column is immutable after insert.
*/

//nolint:staticcheck // File documentation, not package doc
package database

import (
	"context"
	"fmt"
	"time"
)

// createSchema creates the play_events table, its id sequence and indexes.
func (db *DB) createSchema() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	queries := []string{
		`CREATE SEQUENCE IF NOT EXISTS play_events_id_seq START 1`,
		`CREATE TABLE IF NOT EXISTS play_events (
			id BIGINT PRIMARY KEY DEFAULT nextval('play_events_id_seq'),
			artist VARCHAR NOT NULL,
			title VARCHAR NOT NULL,
			play_time VARCHAR,
			play_date DATE NOT NULL,
			played_at TIMESTAMP NOT NULL,
			genre VARCHAR,
			ingested_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			UNIQUE(artist, title, played_at)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_play_events_artist ON play_events(artist)`,
		`CREATE INDEX IF NOT EXISTS idx_play_events_play_date ON play_events(play_date)`,
		`CREATE INDEX IF NOT EXISTS idx_play_events_played_at ON play_events(played_at)`,
	}

	for _, query := range queries {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}

	return nil
}
