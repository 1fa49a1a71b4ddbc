// Airwave - Radio Playlist Scraping and Analytics
// Copyright 2026 A. Vierling (avierling)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/avierling/airwave

package database

import (
	"fmt"
	"time"
)

// Window scopes an aggregation to a day, a week, a calendar month, or an
// arbitrary inclusive date range. The zero value means all-time.
//
// Internally both bounds are inclusive calendar days; the generated SQL uses
// a half-open interval on play_date (end + 1 day) so the end day's plays are
// fully included regardless of time-of-day.
type Window struct {
	start *time.Time
	end   *time.Time
}

// AllTime returns an unbounded window.
func AllTime() Window {
	return Window{}
}

// Day returns a window covering a single calendar day.
func Day(d time.Time) Window {
	day := truncateToDay(d)
	return Window{start: &day, end: &day}
}

// Week returns a window covering the 7 contiguous days starting at start.
func Week(start time.Time) Window {
	first := truncateToDay(start)
	last := first.AddDate(0, 0, 6)
	return Window{start: &first, end: &last}
}

// Month returns a window covering a calendar month.
func Month(year int, month time.Month) Window {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	return Window{start: &first, end: &last}
}

// Range returns a window covering an inclusive date range. Either bound may
// be zero for an open end.
func Range(start, end time.Time) Window {
	w := Window{}
	if !start.IsZero() {
		s := truncateToDay(start)
		w.start = &s
	}
	if !end.IsZero() {
		e := truncateToDay(end)
		w.end = &e
	}
	return w
}

// Validate reports ErrInvalidRange when both bounds are set and start is
// after end. Called before any query runs.
func (w Window) Validate() error {
	if w.start != nil && w.end != nil && w.start.After(*w.end) {
		return fmt.Errorf("%w: %s > %s", ErrInvalidRange,
			w.start.Format("2006-01-02"), w.end.Format("2006-01-02"))
	}
	return nil
}

// Start returns the inclusive start day, or nil for an open start.
func (w Window) Start() *time.Time { return w.start }

// End returns the inclusive end day, or nil for an open end.
func (w Window) End() *time.Time { return w.end }

// dateFilter builds the WHERE clause and args for play_date filtering.
// Returns an empty string for an all-time window.
func (w Window) dateFilter() (string, []interface{}) {
	var conditions []string
	var args []interface{}

	if w.start != nil {
		conditions = append(conditions, "play_date >= ?")
		args = append(args, *w.start)
	}
	if w.end != nil {
		// Half-open upper bound so the end day is fully included.
		conditions = append(conditions, "play_date < ?")
		args = append(args, w.end.AddDate(0, 0, 1))
	}

	if len(conditions) == 0 {
		return "", nil
	}

	whereSQL := " WHERE " + conditions[0]
	for _, c := range conditions[1:] {
		whereSQL += " AND " + c
	}
	return whereSQL, args
}

// truncateToDay drops the time-of-day component, keeping UTC midnight.
func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
