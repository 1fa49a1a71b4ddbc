// Airwave - Radio Playlist Scraping and Analytics
// Copyright 2026 A. Vierling (avierling)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/avierling/airwave

package enrich

import "testing"

func TestCleanTitle(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Blinding Lights (Radio Edit)", "Blinding Lights"},
		{"Levitating (feat. DaBaby)", "Levitating"},
		{"One More Time (Club Mix)", "One More Time"},
		{"Dreams (2004 Remaster)", "Dreams"},
		{"Dreams (Remastered)", "Dreams"},
		{"Titanium - Radio Edit", "Titanium"},
		{"Midnight City - Remix", "Midnight City"},
		{"Something (Tiësto Remix)", "Something"},
		{"Plain Title", "Plain Title"},
	}

	for _, tt := range tests {
		if got := cleanTitle(tt.in); got != tt.want {
			t.Errorf("cleanTitle(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestExtractPrimaryArtist(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Dua Lipa feat. DaBaby", "Dua Lipa"},
		{"David Guetta & Sia", "David Guetta"},
		{"Aya Nakamura & Kali Uchis", "Aya Nakamura"},
		{"KAROL G, Shakira", "KAROL G"},
		{"Skrillex x Fred again..", "Skrillex"},
		{"Radiohead", "Radiohead"},
	}

	for _, tt := range tests {
		if got := extractPrimaryArtist(tt.in); got != tt.want {
			t.Errorf("extractPrimaryArtist(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatTagsTakesTopThree(t *testing.T) {
	got := formatTags([]string{"afrobeats", "pop", "dance", "nigerian", "2022"})
	want := "afrobeats, pop, dance"
	if got != want {
		t.Errorf("formatTags() = %q, want %q", got, want)
	}

	if got := formatTags([]string{"indie"}); got != "indie" {
		t.Errorf("formatTags() = %q, want %q", got, "indie")
	}
}
