// Airwave - Radio Playlist Scraping and Analytics
// Copyright 2026 A. Vierling (avierling)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/avierling/airwave

package database

import "errors"

var (
	// ErrNotFound is returned by UpdateGenre when the target row no longer
	// exists. The enrichment loop treats it as skip-and-continue.
	ErrNotFound = errors.New("play event not found")

	// ErrInvalidRange is returned by windowed queries when the start date is
	// after the end date. Surfaced immediately, no partial result.
	ErrInvalidRange = errors.New("invalid date range: start after end")
)
