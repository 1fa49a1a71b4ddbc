// Airwave - Radio Playlist Scraping and Analytics
// Copyright 2026 A. Vierling (avierling)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/avierling/airwave

package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/avierling/airwave/internal/config"
	"github.com/avierling/airwave/internal/ingest"
	"github.com/avierling/airwave/internal/logging"
	"github.com/avierling/airwave/internal/models"
	"github.com/avierling/airwave/internal/scraper"
)

// cmdIngest scrapes the station playlist and stores the play events.
//
// Exactly one day selection applies, checked in this order: an explicit
// --start-date/--end-date range, a single --date, or --days counting
// back from today (default 1, meaning today only).
func cmdIngest(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("ingest", flag.ExitOnError)
	dateFlag := fs.String("date", "", "single day to scrape (YYYY-MM-DD)")
	startFlag := fs.String("start-date", "", "first day of range (YYYY-MM-DD)")
	endFlag := fs.String("end-date", "", "last day of range (YYYY-MM-DD)")
	daysFlag := fs.Int("days", 1, "number of days to scrape, counting back from today")
	if err := fs.Parse(args); err != nil {
		return err
	}

	start, end, err := resolveIngestRange(*dateFlag, *startFlag, *endFlag, *daysFlag, time.Now())
	if err != nil {
		return err
	}

	s := scraper.New(&cfg.Scraper)
	records, err := s.FetchRange(ctx, start, end)
	if err != nil {
		return fmt.Errorf("scrape failed: %w", err)
	}

	db, guard, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer closeQuietly(db)

	pipeline := ingest.NewPipeline(db, guard)
	report, err := pipeline.Ingest(ctx, records)
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	printIngestionReport(report, start, end)
	return nil
}

// resolveIngestRange turns the mutually exclusive day-selection flags
// into an inclusive [start, end] day range.
func resolveIngestRange(date, startDate, endDate string, days int, now time.Time) (time.Time, time.Time, error) {
	switch {
	case startDate != "" || endDate != "":
		if startDate == "" || endDate == "" {
			return time.Time{}, time.Time{}, fmt.Errorf("--start-date and --end-date must be used together")
		}
		start, err := time.Parse("2006-01-02", startDate)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --start-date %q: %w", startDate, err)
		}
		end, err := time.Parse("2006-01-02", endDate)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --end-date %q: %w", endDate, err)
		}
		if start.After(end) {
			return time.Time{}, time.Time{}, fmt.Errorf("--start-date %s is after --end-date %s", startDate, endDate)
		}
		return start, end, nil

	case date != "":
		day, err := time.Parse("2006-01-02", date)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --date %q: %w", date, err)
		}
		return day, day, nil

	default:
		if days < 1 {
			return time.Time{}, time.Time{}, fmt.Errorf("--days must be at least 1, got %d", days)
		}
		end := now
		start := now.AddDate(0, 0, -(days - 1))
		return start, end, nil
	}
}

func printIngestionReport(report *models.IngestionReport, start, end time.Time) {
	logging.Info().
		Str("start", start.Format("2006-01-02")).
		Str("end", end.Format("2006-01-02")).
		Int("received", report.Received).
		Int("inserted", report.Inserted).
		Int("duplicates", report.SkippedDuplicates).
		Int("malformed", report.Malformed).
		Msg("Ingestion complete")

	fmt.Printf("Ingested %s to %s: %d received, %d inserted, %d duplicates skipped, %d malformed\n",
		start.Format("2006-01-02"), end.Format("2006-01-02"),
		report.Received, report.Inserted, report.SkippedDuplicates, report.Malformed)
}
