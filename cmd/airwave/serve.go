// Airwave - Radio Playlist Scraping and Analytics
// Copyright 2026 A. Vierling (avierling)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/avierling/airwave

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/avierling/airwave/internal/api"
	"github.com/avierling/airwave/internal/config"
	"github.com/avierling/airwave/internal/ingest"
	"github.com/avierling/airwave/internal/logging"
	"github.com/avierling/airwave/internal/scraper"
	"github.com/avierling/airwave/internal/supervisor"
	"github.com/avierling/airwave/internal/supervisor/services"
)

// cmdServe runs the supervised long-running mode: the scrape scheduler
// and the read-only analytics HTTP API under one suture tree.
func cmdServe(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	db, guard, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer closeQuietly(db)

	slogger := slog.New(logging.NewSlogHandler())
	treeConfig := supervisor.DefaultTreeConfig()
	treeConfig.ShutdownTimeout = cfg.Server.ShutdownTimeout
	tree := supervisor.NewTree(slogger, treeConfig)

	pipeline := ingest.NewPipeline(db, guard)
	tree.AddIngestService(services.NewScrapeSchedulerService(
		scraper.New(&cfg.Scraper), pipeline, cfg.Scheduler.Interval))

	router := api.NewRouter(&cfg.Server, db)
	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))

	logging.Info().
		Str("addr", server.Addr).
		Dur("scrape_interval", cfg.Scheduler.Interval).
		Msg("Starting supervisor tree")

	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Shutting down, waiting for supervisor to finish")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("supervisor tree failed: %w", err)
		}
		return nil
	}

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Msg("Stopped gracefully")
	return nil
}
