// Airwave - Radio Playlist Scraping and Analytics
// Copyright 2026 A. Vierling (avierling)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/avierling/airwave

// Package ingest turns raw scraped playlist records into stored play events.
//
// The pipeline normalizes each record, drops the malformed ones, and writes
// the rest through the snapshot guard in a single batch. A batch always
// completes: duplicates and malformed records are counted, never fatal.
package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/avierling/airwave/internal/backup"
	"github.com/avierling/airwave/internal/logging"
	"github.com/avierling/airwave/internal/metrics"
	"github.com/avierling/airwave/internal/models"
)

// Store is the slice of the event store the pipeline writes to.
type Store interface {
	InsertPlayEvents(ctx context.Context, events []models.PlayEvent) (inserted int, duplicates int, err error)
}

// Guard wraps mutations with pre-write snapshots and post-write integrity
// checks.
type Guard interface {
	Mutate(ctx context.Context, trigger backup.Trigger, op func(ctx context.Context) error) (*backup.Snapshot, error)
}

// Pipeline ingests raw playlist records into the event store.
type Pipeline struct {
	store Store
	guard Guard
}

// NewPipeline creates an ingestion pipeline.
func NewPipeline(store Store, guard Guard) *Pipeline {
	return &Pipeline{store: store, guard: guard}
}

// Ingest normalizes and stores a batch of raw records. The report is non-nil
// whenever the batch ran, including the all-duplicates and all-malformed
// cases; only snapshot failures, store errors and integrity violations
// surface as errors.
func (p *Pipeline) Ingest(ctx context.Context, records []models.RawPlayRecord) (*models.IngestionReport, error) {
	startTime := time.Now()

	report := &models.IngestionReport{Received: len(records)}

	events := make([]models.PlayEvent, 0, len(records))
	for i := range records {
		event, err := normalizeRecord(&records[i])
		if err != nil {
			report.Malformed++
			logging.Warn().
				Err(err).
				Str("artist", records[i].Artist).
				Str("title", records[i].Title).
				Str("timestamp", records[i].Timestamp).
				Msg("Dropping malformed playlist record")
			continue
		}
		events = append(events, event)
	}

	if len(events) == 0 {
		// Nothing to write, so nothing to guard.
		metrics.RecordIngestBatch(report.Received, 0, 0, report.Malformed, time.Since(startTime))
		return report, nil
	}

	_, err := p.guard.Mutate(ctx, backup.TriggerIngest, func(ctx context.Context) error {
		inserted, duplicates, insErr := p.store.InsertPlayEvents(ctx, events)
		if insErr != nil {
			return fmt.Errorf("failed to insert play events: %w", insErr)
		}
		report.Inserted = inserted
		report.SkippedDuplicates = duplicates
		return nil
	})

	metrics.RecordIngestBatch(report.Received, report.Inserted, report.SkippedDuplicates,
		report.Malformed, time.Since(startTime))

	if err != nil {
		return report, err
	}

	logging.Info().
		Int("received", report.Received).
		Int("inserted", report.Inserted).
		Int("duplicates", report.SkippedDuplicates).
		Int("malformed", report.Malformed).
		Msg("Ingestion batch complete")

	return report, nil
}
