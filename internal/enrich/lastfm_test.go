// Airwave - Radio Playlist Scraping and Analytics
// Copyright 2026 A. Vierling (avierling)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/avierling/airwave

package enrich

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/avierling/airwave/internal/config"
)

func newTestClient(srvURL string) *Client {
	return NewClient(&config.LastFMConfig{
		APIKey:  "test-key",
		URL:     srvURL,
		Timeout: 5 * time.Second,
	})
}

func TestLookupGenreExactHit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("method") != "track.getTopTags" {
			t.Errorf("method = %q, want track.getTopTags", r.URL.Query().Get("method"))
		}
		w.Write([]byte(`{"toptags":{"tag":[
			{"name":"afrobeats","count":100},
			{"name":"pop","count":60},
			{"name":"dance","count":30},
			{"name":"nigeria","count":10},
			{"name":"zero","count":0}
		]}}`)) //nolint:errcheck // Test server
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	genre, found, err := c.LookupGenre(context.Background(), "Rema", "Calm Down")
	if err != nil {
		t.Fatalf("LookupGenre() failed: %v", err)
	}
	if !found {
		t.Fatal("LookupGenre() found = false, want true")
	}
	if genre != "afrobeats, pop, dance" {
		t.Errorf("genre = %q, want top-3 comma joined", genre)
	}
}

func TestLookupGenreFallsBackToArtistTags(t *testing.T) {
	var methods []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method := r.URL.Query().Get("method")
		methods = append(methods, method)
		if method == "artist.getTopTags" {
			w.Write([]byte(`{"toptags":{"tag":[{"name":"french pop","count":80}]}}`)) //nolint:errcheck // Test server
			return
		}
		// Track lookups all miss.
		w.Write([]byte(`{"error":6,"message":"Track not found"}`)) //nolint:errcheck // Test server
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	genre, found, err := c.LookupGenre(context.Background(), "Aya Nakamura & Kali Uchis", "Baby boy (Radio Edit)")
	if err != nil {
		t.Fatalf("LookupGenre() failed: %v", err)
	}
	if !found || genre != "french pop" {
		t.Fatalf("genre = %q found = %v, want french pop via artist fallback", genre, found)
	}

	// Full ladder: exact, cleaned title, primary artist, primary + cleaned,
	// then artist tags.
	wantMethods := []string{
		"track.getTopTags", "track.getTopTags", "track.getTopTags",
		"track.getTopTags", "artist.getTopTags",
	}
	if len(methods) != len(wantMethods) {
		t.Fatalf("made %d calls (%v), want %d", len(methods), methods, len(wantMethods))
	}
	for i, m := range wantMethods {
		if methods[i] != m {
			t.Errorf("call %d = %q, want %q", i, methods[i], m)
		}
	}
}

func TestLookupGenreNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"toptags":{"tag":[]}}`)) //nolint:errcheck // Test server
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	genre, found, err := c.LookupGenre(context.Background(), "Unknown Artist 12345", "Unknown Song 67890")
	if err != nil {
		t.Fatalf("LookupGenre() failed: %v", err)
	}
	if found || genre != "" {
		t.Errorf("genre = %q found = %v, want empty miss", genre, found)
	}
}

func TestLookupGenreSingleTagObject(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		// The API collapses a single tag to an object with a string count.
		w.Write([]byte(`{"toptags":{"tag":{"name":"shoegaze","count":"42"}}}`)) //nolint:errcheck // Test server
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	genre, found, err := c.LookupGenre(context.Background(), "Slowdive", "Alison")
	if err != nil {
		t.Fatalf("LookupGenre() failed: %v", err)
	}
	if !found || genre != "shoegaze" {
		t.Errorf("genre = %q found = %v, want shoegaze", genre, found)
	}
}

func TestLookupGenreServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	if _, _, err := c.LookupGenre(context.Background(), "Anyone", "Anything"); err == nil {
		t.Fatal("LookupGenre() succeeded against a 502, want error")
	}
}
