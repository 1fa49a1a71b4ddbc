// Airwave - Radio Playlist Scraping and Analytics
// Copyright 2026 A. Vierling (avierling)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/avierling/airwave

package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/avierling/airwave/internal/config"
	"github.com/avierling/airwave/internal/enrich"
	"github.com/avierling/airwave/internal/logging"
)

// cmdEnrich looks up missing genres through the Last.fm API and writes
// them back behind the snapshot guard.
func cmdEnrich(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("enrich", flag.ExitOnError)
	limitFlag := fs.Int("limit", 0, "maximum rows to enrich, 0 for all missing")
	verboseFlag := fs.Bool("verbose", false, "log every lookup at debug level")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if cfg.LastFM.APIKey == "" {
		return fmt.Errorf("lastfm.api_key is not configured (set AIRWAVE_LASTFM_API_KEY)")
	}

	if *verboseFlag {
		logging.Init(logging.Config{Level: "debug", Format: cfg.Logging.Format})
	}

	db, guard, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer closeQuietly(db)

	oracle := enrich.NewClient(&cfg.LastFM)
	bridge := enrich.NewBridge(db, guard, oracle, cfg.LastFM.LookupInterval)

	report, err := bridge.Enrich(ctx, *limitFlag)
	if err != nil {
		return fmt.Errorf("enrichment failed: %w", err)
	}

	fmt.Printf("Enriched %d of %d rows (%d without a genre match)\n",
		report.Found, report.Attempted, report.NotFound)
	return nil
}
