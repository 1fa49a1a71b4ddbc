// Airwave - Radio Playlist Scraping and Analytics
// Copyright 2026 A. Vierling (avierling)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/avierling/airwave

package services

import (
	"context"
	"time"

	"github.com/avierling/airwave/internal/logging"
	"github.com/avierling/airwave/internal/models"
)

// Fetcher pulls the raw play records for one broadcast day.
// Satisfied by *scraper.Scraper.
type Fetcher interface {
	FetchDay(ctx context.Context, date time.Time) ([]models.RawPlayRecord, error)
}

// Ingestor stores a batch of raw records behind the snapshot guard.
// Satisfied by *ingest.Pipeline.
type Ingestor interface {
	Ingest(ctx context.Context, records []models.RawPlayRecord) (*models.IngestionReport, error)
}

// ScrapeSchedulerService periodically scrapes the station playlist and
// feeds it through the ingestion pipeline.
//
// Each run covers yesterday and today. The overlap is intentional: runs
// close to midnight would otherwise miss plays that land on the previous
// date, and the store's dedup key absorbs the re-submitted rows.
type ScrapeSchedulerService struct {
	fetcher  Fetcher
	ingestor Ingestor
	interval time.Duration
	name     string

	// now is injectable for tests.
	now func() time.Time
}

// NewScrapeSchedulerService creates a scheduler that runs once at start
// and then every interval.
func NewScrapeSchedulerService(fetcher Fetcher, ingestor Ingestor, interval time.Duration) *ScrapeSchedulerService {
	if interval <= 0 {
		interval = 6 * time.Hour
	}
	return &ScrapeSchedulerService{
		fetcher:  fetcher,
		ingestor: ingestor,
		interval: interval,
		name:     "scrape-scheduler",
		now:      time.Now,
	}
}

// Serve implements suture.Service. It runs an initial scrape immediately
// so a fresh deployment does not wait a full interval for data, then
// ticks until the context is canceled.
//
// A failed run is logged and retried on the next tick rather than
// returned, so one bad scrape does not trip the supervisor's restart
// backoff.
func (s *ScrapeSchedulerService) Serve(ctx context.Context) error {
	logging.Info().
		Dur("interval", s.interval).
		Msg("Scrape scheduler started")

	s.run(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logging.Info().Msg("Scrape scheduler stopping")
			return ctx.Err()
		case <-ticker.C:
			s.run(ctx)
		}
	}
}

// run scrapes yesterday and today and ingests the combined batch.
func (s *ScrapeSchedulerService) run(ctx context.Context) {
	today := s.now()
	yesterday := today.AddDate(0, 0, -1)

	var records []models.RawPlayRecord
	for _, day := range []time.Time{yesterday, today} {
		dayRecords, err := s.fetcher.FetchDay(ctx, day)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logging.Warn().
				Err(err).
				Str("date", day.Format("2006-01-02")).
				Msg("Scheduled scrape failed for day")
			continue
		}
		records = append(records, dayRecords...)
	}

	if len(records) == 0 {
		logging.Info().Msg("Scheduled scrape produced no records")
		return
	}

	report, err := s.ingestor.Ingest(ctx, records)
	if err != nil {
		logging.Error().Err(err).Msg("Scheduled ingestion failed")
		return
	}

	logging.Info().
		Int("received", report.Received).
		Int("inserted", report.Inserted).
		Int("duplicates", report.SkippedDuplicates).
		Int("malformed", report.Malformed).
		Msg("Scheduled ingestion run complete")
}

// String implements fmt.Stringer for logging.
// Suture uses this to identify the service in log messages.
func (s *ScrapeSchedulerService) String() string {
	return s.name
}
