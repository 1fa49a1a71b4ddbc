// Airwave - Radio Playlist Scraping and Analytics
// Copyright 2026 A. Vierling (avierling)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/avierling/airwave

package enrich

import (
	"regexp"
	"strings"
)

// titleStripPatterns remove suffixes that hurt tag lookups. Applied in
// order; all are case-insensitive.
var titleStripPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\s*\(feat\.?\s+[^)]+\)`),
	regexp.MustCompile(`(?i)\s*\(ft\.?\s+[^)]+\)`),
	regexp.MustCompile(`(?i)\s*\(featuring\s+[^)]+\)`),
	regexp.MustCompile(`(?i)\s*\(with\s+[^)]+\)`),
	regexp.MustCompile(`(?i)\s*\([^)]*remix[^)]*\)`),
	regexp.MustCompile(`(?i)\s*\(radio\s*edit\)`),
	regexp.MustCompile(`(?i)\s*\(radio\s*version\)`),
	regexp.MustCompile(`(?i)\s*\(edit\)`),
	regexp.MustCompile(`(?i)\s*\(original\s*mix\)`),
	regexp.MustCompile(`(?i)\s*\(extended\s*mix\)`),
	regexp.MustCompile(`(?i)\s*\(club\s*mix\)`),
	regexp.MustCompile(`(?i)\s*\(acoustic\)`),
	regexp.MustCompile(`(?i)\s*\(live\)`),
	regexp.MustCompile(`(?i)\s*\((\d{4}\s*)?remaster(ed)?\)`),
	regexp.MustCompile(`(?i)\s*-\s*remix$`),
	regexp.MustCompile(`(?i)\s*-\s*radio\s*edit$`),
}

// artistSeparators split multi-artist credits; the first segment is the
// primary artist. Matching is case-insensitive.
var artistSeparators = []string{
	" feat.", " feat ", " ft.", " ft ", " & ", " x ", " vs ", " vs. ", ", ",
}

// cleanTitle strips remix, edit and guest-credit suffixes from a title.
func cleanTitle(title string) string {
	cleaned := title
	for _, pattern := range titleStripPatterns {
		cleaned = pattern.ReplaceAllString(cleaned, "")
	}
	return strings.TrimSpace(cleaned)
}

// extractPrimaryArtist reduces a multi-artist credit to its first artist.
func extractPrimaryArtist(artist string) string {
	lower := strings.ToLower(artist)
	for _, sep := range artistSeparators {
		if idx := strings.Index(lower, sep); idx >= 0 {
			return strings.TrimSpace(artist[:idx])
		}
	}
	return strings.TrimSpace(artist)
}
