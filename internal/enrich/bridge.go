// Airwave - Radio Playlist Scraping and Analytics
// Copyright 2026 A. Vierling (avierling)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/avierling/airwave

package enrich

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/avierling/airwave/internal/backup"
	"github.com/avierling/airwave/internal/database"
	"github.com/avierling/airwave/internal/logging"
	"github.com/avierling/airwave/internal/metrics"
	"github.com/avierling/airwave/internal/models"
)

// Store is the slice of the event store the bridge reads and writes.
type Store interface {
	EventsMissingGenre(ctx context.Context, limit int) ([]models.PlayEvent, error)
	UpdateGenre(ctx context.Context, id int64, genre string) error
}

// Guard wraps the genre writes with a pre-write snapshot.
type Guard interface {
	Mutate(ctx context.Context, trigger backup.Trigger, op func(ctx context.Context) error) (*backup.Snapshot, error)
}

// Oracle resolves a genre for one song.
type Oracle interface {
	LookupGenre(ctx context.Context, artist, title string) (genre string, found bool, err error)
}

// Bridge walks the enrichment backlog, rate-limits oracle lookups and
// writes results back through the snapshot guard.
type Bridge struct {
	store   Store
	guard   Guard
	oracle  Oracle
	limiter *rate.Limiter
}

// NewBridge creates an enrichment bridge. interval is the minimum spacing
// between oracle lookups; the limiter is suspension based, so a slow batch
// never bursts to catch up.
func NewBridge(store Store, guard Guard, oracle Oracle, interval time.Duration) *Bridge {
	return &Bridge{
		store:   store,
		guard:   guard,
		oracle:  oracle,
		limiter: rate.NewLimiter(rate.Every(interval), 1),
	}
}

// Enrich looks up genres for up to limit events missing one (limit <= 0
// means the whole backlog). Misses and unreachable-oracle rows are counted
// and skipped; the batch keeps going. Only snapshot failures and store
// write errors abort it.
func (b *Bridge) Enrich(ctx context.Context, limit int) (*models.EnrichmentReport, error) {
	events, err := b.store.EventsMissingGenre(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load enrichment backlog: %w", err)
	}

	report := &models.EnrichmentReport{}
	if len(events) == 0 {
		logging.Info().Msg("Enrichment backlog is empty")
		return report, nil
	}

	_, err = b.guard.Mutate(ctx, backup.TriggerEnrichment, func(ctx context.Context) error {
		return b.enrichEvents(ctx, events, report)
	})
	if err != nil {
		return report, err
	}

	logging.Info().
		Int("attempted", report.Attempted).
		Int("found", report.Found).
		Int("not_found", report.NotFound).
		Msg("Enrichment batch complete")

	return report, nil
}

// enrichEvents processes the backlog inside the guarded mutation. Lookups
// for repeated (artist, title) pairs within the batch hit a local cache
// instead of the oracle.
func (b *Bridge) enrichEvents(ctx context.Context, events []models.PlayEvent, report *models.EnrichmentReport) error {
	type cached struct {
		genre string
		found bool
	}
	cache := make(map[string]cached)

	for i := range events {
		event := &events[i]
		report.Attempted++

		key := event.Artist + "\x00" + event.Title
		hit, ok := cache[key]
		if !ok {
			if err := b.limiter.Wait(ctx); err != nil {
				return err
			}

			lookupStart := time.Now()
			genre, found, err := b.oracle.LookupGenre(ctx, event.Artist, event.Title)
			if err != nil {
				// Unreachable oracle is a per-row failure counted under
				// notFound; the rest of the batch still runs. The breaker
				// inside the client makes the remaining rows fail fast.
				metrics.RecordEnrichmentLookup("error", time.Since(lookupStart))
				logging.Warn().
					Err(err).
					Str("artist", event.Artist).
					Str("title", event.Title).
					Msg("Genre lookup failed, skipping")
				report.NotFound++
				continue
			}

			hit = cached{genre: genre, found: found}
			cache[key] = hit

			if found {
				metrics.RecordEnrichmentLookup("found", time.Since(lookupStart))
			} else {
				metrics.RecordEnrichmentLookup("not_found", time.Since(lookupStart))
			}
		}

		if !hit.found {
			report.NotFound++
			continue
		}

		if err := b.store.UpdateGenre(ctx, event.ID, hit.genre); err != nil {
			if errors.Is(err, database.ErrNotFound) {
				// The row vanished between the backlog read and now.
				logging.Warn().Int64("id", event.ID).Msg("Play event gone before genre write, skipping")
				report.NotFound++
				continue
			}
			return fmt.Errorf("failed to write genre for event %d: %w", event.ID, err)
		}
		report.Found++
	}

	return nil
}
