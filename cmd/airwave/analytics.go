// Airwave - Radio Playlist Scraping and Analytics
// Copyright 2026 A. Vierling (avierling)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/avierling/airwave

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/avierling/airwave/internal/config"
	"github.com/avierling/airwave/internal/database"
	"github.com/avierling/airwave/internal/models"
)

// cmdTopDay prints the top songs for a single day. Defaults to today.
func cmdTopDay(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("top-day", flag.ExitOnError)
	dateFlag := fs.String("date", "", "day to aggregate (YYYY-MM-DD, default today)")
	limitFlag := fs.Int("limit", 20, "maximum rows, 0 for all")
	if err := fs.Parse(args); err != nil {
		return err
	}

	day := time.Now()
	if *dateFlag != "" {
		parsed, err := time.Parse("2006-01-02", *dateFlag)
		if err != nil {
			return fmt.Errorf("invalid --date %q: %w", *dateFlag, err)
		}
		day = parsed
	}

	return runTopSongs(ctx, cfg, database.Day(day), *limitFlag,
		fmt.Sprintf("Top songs for %s", day.Format("2006-01-02")))
}

// cmdTopWeek prints the top songs for the 7 days starting at --start.
// Defaults to the week ending today.
func cmdTopWeek(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("top-week", flag.ExitOnError)
	startFlag := fs.String("start", "", "first day of the week (YYYY-MM-DD, default 6 days ago)")
	limitFlag := fs.Int("limit", 20, "maximum rows, 0 for all")
	if err := fs.Parse(args); err != nil {
		return err
	}

	start := time.Now().AddDate(0, 0, -6)
	if *startFlag != "" {
		parsed, err := time.Parse("2006-01-02", *startFlag)
		if err != nil {
			return fmt.Errorf("invalid --start %q: %w", *startFlag, err)
		}
		start = parsed
	}

	return runTopSongs(ctx, cfg, database.Week(start), *limitFlag,
		fmt.Sprintf("Top songs for week starting %s", start.Format("2006-01-02")))
}

// cmdTopMonth prints the top songs for a calendar month (--month YYYY-MM).
// Defaults to the current month.
func cmdTopMonth(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("top-month", flag.ExitOnError)
	monthFlag := fs.String("month", "", "month to aggregate (YYYY-MM, default current month)")
	limitFlag := fs.Int("limit", 20, "maximum rows, 0 for all")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ref := time.Now()
	if *monthFlag != "" {
		parsed, err := time.Parse("2006-01", *monthFlag)
		if err != nil {
			return fmt.Errorf("invalid --month %q, want YYYY-MM: %w", *monthFlag, err)
		}
		ref = parsed
	}

	return runTopSongs(ctx, cfg, database.Month(ref.Year(), ref.Month()), *limitFlag,
		fmt.Sprintf("Top songs for %s", ref.Format("2006-01")))
}

// cmdTopRange prints the top songs for an inclusive date range.
func cmdTopRange(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("top-range", flag.ExitOnError)
	startFlag := fs.String("start", "", "first day (YYYY-MM-DD)")
	endFlag := fs.String("end", "", "last day (YYYY-MM-DD)")
	limitFlag := fs.Int("limit", 20, "maximum rows, 0 for all")
	if err := fs.Parse(args); err != nil {
		return err
	}

	window, err := rangeWindow(*startFlag, *endFlag)
	if err != nil {
		return err
	}

	return runTopSongs(ctx, cfg, window, *limitFlag, "Top songs")
}

// cmdTopSongs prints the all-time top songs, optionally filtered with
// --start/--end.
func cmdTopSongs(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("top-songs", flag.ExitOnError)
	startFlag := fs.String("start", "", "first day (YYYY-MM-DD, optional)")
	endFlag := fs.String("end", "", "last day (YYYY-MM-DD, optional)")
	limitFlag := fs.Int("limit", 20, "maximum rows, 0 for all")
	if err := fs.Parse(args); err != nil {
		return err
	}

	window, err := rangeWindow(*startFlag, *endFlag)
	if err != nil {
		return err
	}

	return runTopSongs(ctx, cfg, window, *limitFlag, "Top songs")
}

// cmdTopArtists prints the top artists, optionally filtered with
// --start/--end.
func cmdTopArtists(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("top-artists", flag.ExitOnError)
	startFlag := fs.String("start", "", "first day (YYYY-MM-DD, optional)")
	endFlag := fs.String("end", "", "last day (YYYY-MM-DD, optional)")
	limitFlag := fs.Int("limit", 20, "maximum rows, 0 for all")
	if err := fs.Parse(args); err != nil {
		return err
	}

	window, err := rangeWindow(*startFlag, *endFlag)
	if err != nil {
		return err
	}

	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer closeQuietly(db)

	artists, err := db.TopArtists(ctx, window, *limitFlag)
	if err != nil {
		return err
	}

	printArtistTable(artists)
	return nil
}

// cmdStats prints event store statistics.
func cmdStats(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer closeQuietly(db)

	stats, err := db.Stats(ctx)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "Total plays:\t%d\n", stats.TotalPlays)
	fmt.Fprintf(w, "Unique songs:\t%d\n", stats.UniqueSongs)
	fmt.Fprintf(w, "Unique artists:\t%d\n", stats.UniqueArtists)
	if stats.EarliestPlay != nil && stats.LatestPlay != nil {
		fmt.Fprintf(w, "Coverage:\t%s to %s (%d days)\n",
			stats.EarliestPlay.Format("2006-01-02"),
			stats.LatestPlay.Format("2006-01-02"),
			stats.DaysCovered)
	}
	fmt.Fprintf(w, "Missing genre:\t%d\n", stats.MissingGenre)
	return w.Flush()
}

// runTopSongs opens the store, runs the aggregation, and prints a table.
func runTopSongs(ctx context.Context, cfg *config.Config, window database.Window, limit int, heading string) error {
	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer closeQuietly(db)

	songs, err := db.TopSongs(ctx, window, limit)
	if err != nil {
		return err
	}

	fmt.Println(heading)
	printSongTable(songs)
	return nil
}

// rangeWindow builds a window from optional start/end date strings.
// Both empty yields the all-time window.
func rangeWindow(startStr, endStr string) (database.Window, error) {
	var start, end time.Time

	if startStr != "" {
		parsed, err := time.Parse("2006-01-02", startStr)
		if err != nil {
			return database.Window{}, fmt.Errorf("invalid --start %q: %w", startStr, err)
		}
		start = parsed
	}
	if endStr != "" {
		parsed, err := time.Parse("2006-01-02", endStr)
		if err != nil {
			return database.Window{}, fmt.Errorf("invalid --end %q: %w", endStr, err)
		}
		end = parsed
	}

	if start.IsZero() && end.IsZero() {
		return database.AllTime(), nil
	}
	window := database.Range(start, end)
	if err := window.Validate(); err != nil {
		return database.Window{}, err
	}
	return window, nil
}

func printSongTable(songs []models.SongPlays) {
	if len(songs) == 0 {
		fmt.Println("No plays in this window.")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PLAYS\tARTIST\tTITLE")
	for _, s := range songs {
		fmt.Fprintf(w, "%d\t%s\t%s\n", s.PlayCount, s.Artist, s.Title)
	}
	w.Flush() //nolint:errcheck // Stdout flush
}

func printArtistTable(artists []models.ArtistPlays) {
	if len(artists) == 0 {
		fmt.Println("No plays in this window.")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PLAYS\tARTIST")
	for _, a := range artists {
		fmt.Fprintf(w, "%d\t%s\n", a.PlayCount, a.Artist)
	}
	w.Flush() //nolint:errcheck // Stdout flush
}
