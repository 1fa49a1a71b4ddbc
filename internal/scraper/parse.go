// Airwave - Radio Playlist Scraping and Analytics
// Copyright 2026 A. Vierling (avierling)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/avierling/airwave

package scraper

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/avierling/airwave/internal/logging"
	"github.com/avierling/airwave/internal/models"
)

// parsePlaylist extracts play records from a playlist results page.
//
// The page is a table.thleft with one tr.data per play:
//   - th.entry.datetime holds "13.01.2026, 17.15 Uhr"
//   - td.entry.title holds the song title
//   - td.entry.performer holds the artist
//
// The date argument anchors the time-of-day to a full timestamp; the page's
// own date cell is ignored since the search form already fixed the day.
func parsePlaylist(r io.Reader, date time.Time) ([]models.RawPlayRecord, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse playlist HTML: %w", err)
	}

	table := doc.Find("table.thleft").First()
	if table.Length() == 0 {
		logging.Warn().Msg("Playlist table not found in page")
		return nil, nil
	}

	var records []models.RawPlayRecord
	table.Find("tr.data").Each(func(_ int, row *goquery.Selection) {
		title := strings.TrimSpace(row.Find("td.entry.title").Text())
		artist := strings.TrimSpace(row.Find("td.entry.performer").Text())
		if title == "" || artist == "" {
			return
		}

		clock := extractClock(row.Find("th.entry.datetime").Text())
		records = append(records, models.RawPlayRecord{
			Artist:    artist,
			Title:     title,
			Timestamp: combineTimestamp(date, clock),
		})
	})

	return records, nil
}

// extractClock pulls "17:15" out of a datetime cell like "13.01.2026, 17.15 Uhr".
func extractClock(text string) string {
	text = strings.TrimSpace(strings.ReplaceAll(text, "Uhr", ""))

	// The cell always carries a "date, time" pair; a cell without the comma
	// has no usable clock.
	idx := strings.Index(text, ",")
	if idx < 0 {
		return ""
	}
	text = strings.TrimSpace(text[idx+1:])

	// "17.15" -> "17:15"
	text = strings.ReplaceAll(text, ".", ":")

	parts := strings.Split(text, ":")
	if len(parts) != 2 {
		return ""
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return ""
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return ""
	}

	return fmt.Sprintf("%02d:%02d", hour, minute)
}

// combineTimestamp anchors a clock reading to the queried day. An empty
// clock yields an empty timestamp, which ingestion counts as malformed.
func combineTimestamp(date time.Time, clock string) string {
	if clock == "" {
		return ""
	}
	return date.Format("2006-01-02") + " " + clock + ":00"
}
