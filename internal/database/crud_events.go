// Airwave - Radio Playlist Scraping and Analytics
// Copyright 2026 A. Vierling (avierling)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/avierling/airwave

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/avierling/airwave/internal/logging"
	"github.com/avierling/airwave/internal/models"
)

// InsertPlayEvents inserts a batch of play events with duplicate handling.
//
// Deduplication uses INSERT ... ON CONFLICT DO NOTHING against the
// UNIQUE(artist, title, played_at) constraint, so the call is idempotent
// with respect to the dedup key: re-ingesting an already-scraped day is a
// counted no-op, never an error. Returns the number of rows actually added
// and the number of exact duplicates skipped.
func (db *DB) InsertPlayEvents(ctx context.Context, events []models.PlayEvent) (inserted int, duplicates int, err error) {
	if len(events) == 0 {
		return 0, 0, nil
	}

	db.writeMu.Lock()
	defer db.writeMu.Unlock()

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				logging.Error().
					Err(rbErr).
					AnErr("original_error", err).
					Msg("Transaction rollback failed")
			}
		}
	}()

	query := `INSERT INTO play_events (
		artist, title, play_time, play_date, played_at, ingested_at
	) VALUES (?, ?, ?, ?, ?, ?) ON CONFLICT DO NOTHING`

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() {
		if closeErr := stmt.Close(); closeErr != nil {
			logging.Warn().Err(closeErr).Msg("Failed to close prepared statement")
		}
	}()

	for i := range events {
		event := &events[i]
		if event.IngestedAt.IsZero() {
			event.IngestedAt = time.Now()
		}

		result, execErr := stmt.ExecContext(ctx,
			event.Artist, event.Title, event.PlayTime,
			event.PlayDate, event.PlayedAt, event.IngestedAt,
		)
		if execErr != nil {
			err = fmt.Errorf("failed to insert play event %s - %s: %w", event.Artist, event.Title, execErr)
			return 0, 0, err
		}

		affected, raErr := result.RowsAffected()
		if raErr != nil {
			err = fmt.Errorf("failed to get affected rows: %w", raErr)
			return 0, 0, err
		}

		if affected > 0 {
			inserted++
		} else {
			duplicates++
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return inserted, duplicates, nil
}

// UpdateGenre sets the genre of a single play event. The only permitted
// post-creation mutation. Returns ErrNotFound if the id no longer exists.
func (db *DB) UpdateGenre(ctx context.Context, id int64, genre string) error {
	db.writeMu.Lock()
	defer db.writeMu.Unlock()

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	result, err := db.conn.ExecContext(ctx, `UPDATE play_events SET genre = ? WHERE id = ?`, genre, id)
	if err != nil {
		return fmt.Errorf("failed to update genre: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: id %d", ErrNotFound, id)
	}

	return nil
}

// EventsMissingGenre returns play events with no genre tag yet, oldest
// first, up to limit (limit <= 0 means all). The enrichment bridge's work
// queue.
func (db *DB) EventsMissingGenre(ctx context.Context, limit int) ([]models.PlayEvent, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	query := `SELECT id, artist, title, play_time, play_date, played_at, genre, ingested_at
		FROM play_events WHERE genre IS NULL ORDER BY id`
	args := []interface{}{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	return db.queryEvents(ctx, query, args...)
}

// EventsByDate returns all play events for one calendar day in play order.
func (db *DB) EventsByDate(ctx context.Context, date time.Time) ([]models.PlayEvent, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	query := `SELECT id, artist, title, play_time, play_date, played_at, genre, ingested_at
		FROM play_events WHERE play_date = ? ORDER BY played_at`

	return db.queryEvents(ctx, query, truncateToDay(date))
}

// queryEvents runs a play-event SELECT and scans all rows.
func (db *DB) queryEvents(ctx context.Context, query string, args ...interface{}) ([]models.PlayEvent, error) {
	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query play events: %w", err)
	}
	defer rows.Close()

	var events []models.PlayEvent
	for rows.Next() {
		var e models.PlayEvent
		if err := rows.Scan(&e.ID, &e.Artist, &e.Title, &e.PlayTime,
			&e.PlayDate, &e.PlayedAt, &e.Genre, &e.IngestedAt); err != nil {
			return nil, fmt.Errorf("failed to scan play event: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating play events: %w", err)
	}

	return events, nil
}
