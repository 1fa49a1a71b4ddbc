// Airwave - Radio Playlist Scraping and Analytics
// Copyright 2026 A. Vierling (avierling)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/avierling/airwave

// Package main is the entry point for the airwave command.
//
// Airwave scrapes a radio station's published playlist into a DuckDB
// event store, guards every write with a pre-mutation snapshot, and
// answers play-count questions over arbitrary date windows. Genre
// metadata is filled in lazily from the Last.fm API.
//
// # Commands
//
//	airwave ingest --date 2026-01-13          Scrape and store one day
//	airwave ingest --days 3                   Scrape the last N days
//	airwave ingest --start-date ... --end-date ...
//	airwave top-day --date 2026-01-13         Top songs for one day
//	airwave top-week --start 2026-01-12       Top songs for a week
//	airwave top-month --month 2026-01         Top songs for a month
//	airwave top-range --start ... --end ...   Top songs for a range
//	airwave top-songs [--limit N]             All-time (or ranged) top songs
//	airwave top-artists [--limit N]           Top artists
//	airwave stats                             Store statistics
//	airwave enrich [--limit N]                Fill in missing genres
//	airwave serve                             Scheduler plus HTTP API
//
// # Configuration
//
// Configuration is loaded via Koanf v2 with layered sources (highest
// priority wins): environment variables (AIRWAVE_ prefix), config file
// (config.yaml), built-in defaults.
//
// # Signal Handling
//
// serve mode shuts down gracefully on SIGINT and SIGTERM: the scheduler
// stops, in-flight HTTP requests get the configured drain timeout, and
// the database is closed cleanly.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/avierling/airwave/internal/backup"
	"github.com/avierling/airwave/internal/config"
	"github.com/avierling/airwave/internal/database"
	"github.com/avierling/airwave/internal/logging"
)

const usageText = `Usage: airwave <command> [flags]

Commands:
  ingest       Scrape the station playlist and store play events
  top-day      Top songs for a single day
  top-week     Top songs for a 7-day window
  top-month    Top songs for a calendar month
  top-range    Top songs for an arbitrary date range
  top-songs    Top songs, all time or filtered with --start/--end
  top-artists  Top artists, all time or filtered with --start/--end
  stats        Event store statistics
  enrich       Look up missing genres via Last.fm
  serve        Run the scrape scheduler and the analytics HTTP API

Run 'airwave <command> -h' for command flags.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usageText)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})

	ctx, cancel := signalContext()
	defer cancel()

	command, args := os.Args[1], os.Args[2:]

	var runErr error
	switch command {
	case "ingest":
		runErr = cmdIngest(ctx, cfg, args)
	case "top-day":
		runErr = cmdTopDay(ctx, cfg, args)
	case "top-week":
		runErr = cmdTopWeek(ctx, cfg, args)
	case "top-month":
		runErr = cmdTopMonth(ctx, cfg, args)
	case "top-range":
		runErr = cmdTopRange(ctx, cfg, args)
	case "top-songs":
		runErr = cmdTopSongs(ctx, cfg, args)
	case "top-artists":
		runErr = cmdTopArtists(ctx, cfg, args)
	case "stats":
		runErr = cmdStats(ctx, cfg, args)
	case "enrich":
		runErr = cmdEnrich(ctx, cfg, args)
	case "serve":
		runErr = cmdServe(ctx, cfg, args)
	case "help", "-h", "--help":
		fmt.Print(usageText)
	default:
		fmt.Fprintf(os.Stderr, "airwave: unknown command %q\n\n%s", command, usageText)
		os.Exit(2)
	}

	if runErr != nil {
		logging.Error().Err(runErr).Str("command", command).Msg("Command failed")
		os.Exit(1)
	}
}

// signalContext returns a context canceled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()
	return ctx, cancel
}

// openDB opens the database for read-only commands. The caller must
// Close the returned DB.
func openDB(cfg *config.Config) (*database.DB, error) {
	db, err := database.New(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

// openStore opens the database and wires the snapshot guard around it.
// Used by the commands that mutate the store. The caller must Close the
// returned DB.
func openStore(cfg *config.Config) (*database.DB, *backup.Guard, error) {
	db, err := database.New(&cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}

	guard, err := backup.NewGuard(&cfg.Backup, db)
	if err != nil {
		closeQuietly(db)
		return nil, nil, fmt.Errorf("failed to initialize snapshot guard: %w", err)
	}

	return db, guard, nil
}

func closeQuietly(db *database.DB) {
	if err := db.Close(); err != nil {
		logging.Error().Err(err).Msg("Error closing database")
	}
}
