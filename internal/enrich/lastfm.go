// Airwave - Radio Playlist Scraping and Analytics
// Copyright 2026 A. Vierling (avierling)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/avierling/airwave

// Package enrich tags stored play events with genres from the Last.fm API.
//
// Last.fm tag coverage is user-driven, so a track lookup that misses is
// retried along a fallback ladder: cleaned title, primary artist, and
// finally the artist's own top tags. All API traffic flows through one
// circuit breaker and, in the bridge, one process-wide rate limiter.
package enrich

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/avierling/airwave/internal/config"
	"github.com/avierling/airwave/internal/logging"
	"github.com/avierling/airwave/internal/metrics"
)

// ErrOracleUnavailable is returned when the circuit breaker has opened and
// lookups are being rejected without hitting the network.
var ErrOracleUnavailable = errors.New("genre oracle unavailable")

// maxTagsPerLookup caps how many raw tags are read from a response.
const maxTagsPerLookup = 5

// maxTagsInGenre caps how many tags end up in the stored genre string.
const maxTagsInGenre = 3

// Client queries the Last.fm API for track and artist tags.
type Client struct {
	cfg    *config.LastFMConfig
	client *http.Client
	cb     *gobreaker.CircuitBreaker[[]string]
}

// NewClient creates a Last.fm client with circuit breaker protection.
func NewClient(cfg *config.LastFMConfig) *Client {
	cbName := "lastfm-api"
	metrics.RecordCircuitBreakerState(cbName, 0) // 0 = closed

	cb := gobreaker.NewCircuitBreaker[[]string](gobreaker.Settings{
		Name:        cbName,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= 0.6
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Info().
				Str("from", stateToString(from)).
				Str("to", stateToString(to)).
				Msg("Genre oracle circuit breaker state change")
			metrics.RecordCircuitBreakerState(name, stateToFloat(to))
		},
	})

	return &Client{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		cb:     cb,
	}
}

// LookupGenre resolves a genre string for one song. The lookup walks a
// fallback ladder, stopping at the first strategy that yields tags:
//  1. exact artist + title
//  2. artist + cleaned title (remix, edit and feat suffixes stripped)
//  3. primary artist + title
//  4. primary artist + cleaned title
//  5. artist top tags
//
// Returns found=false when every strategy came up empty; that is a normal
// outcome, not an error.
func (c *Client) LookupGenre(ctx context.Context, artist, title string) (genre string, found bool, err error) {
	tags, err := c.trackTags(ctx, artist, title)
	if err != nil {
		return "", false, err
	}
	if len(tags) > 0 {
		return formatTags(tags), true, nil
	}

	cleanedTitle := cleanTitle(title)
	if cleanedTitle != title {
		tags, err = c.trackTags(ctx, artist, cleanedTitle)
		if err != nil {
			return "", false, err
		}
		if len(tags) > 0 {
			return formatTags(tags), true, nil
		}
	}

	primaryArtist := extractPrimaryArtist(artist)
	if primaryArtist != artist {
		tags, err = c.trackTags(ctx, primaryArtist, title)
		if err != nil {
			return "", false, err
		}
		if len(tags) > 0 {
			return formatTags(tags), true, nil
		}

		if cleanedTitle != title {
			tags, err = c.trackTags(ctx, primaryArtist, cleanedTitle)
			if err != nil {
				return "", false, err
			}
			if len(tags) > 0 {
				return formatTags(tags), true, nil
			}
		}
	}

	tags, err = c.artistTags(ctx, primaryArtist)
	if err != nil {
		return "", false, err
	}
	if len(tags) > 0 {
		return formatTags(tags), true, nil
	}

	return "", false, nil
}

// trackTags fetches top tags for a track. An API-level miss (unknown track,
// no tags) returns an empty slice with no error.
func (c *Client) trackTags(ctx context.Context, artist, title string) ([]string, error) {
	return c.fetchTags(ctx, url.Values{
		"method":  {"track.getTopTags"},
		"artist":  {artist},
		"track":   {title},
		"api_key": {c.cfg.APIKey},
		"format":  {"json"},
	})
}

// artistTags fetches top tags for an artist.
func (c *Client) artistTags(ctx context.Context, artist string) ([]string, error) {
	return c.fetchTags(ctx, url.Values{
		"method":  {"artist.getTopTags"},
		"artist":  {artist},
		"api_key": {c.cfg.APIKey},
		"format":  {"json"},
	})
}

// fetchTags performs one API call through the circuit breaker.
func (c *Client) fetchTags(ctx context.Context, params url.Values) ([]string, error) {
	tags, err := c.cb.Execute(func() ([]string, error) {
		return c.doFetchTags(ctx, params)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.RecordCircuitBreakerRequest("lastfm-api", "rejected")
			return nil, fmt.Errorf("%w: %w", ErrOracleUnavailable, err)
		}
		metrics.RecordCircuitBreakerRequest("lastfm-api", "failure")
		return nil, err
	}
	metrics.RecordCircuitBreakerRequest("lastfm-api", "success")
	return tags, nil
}

func (c *Client) doFetchTags(ctx context.Context, params url.Values) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.URL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", "Airwave/1.0")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			logging.Warn().Err(closeErr).Msg("Failed to close response body")
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var payload topTagsResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	// API-level errors (unknown artist, invalid params) are misses, not
	// transport failures.
	if payload.Error != 0 {
		logging.Debug().
			Int("code", payload.Error).
			Str("message", payload.Message).
			Msg("Genre oracle returned an API error")
		return nil, nil
	}

	names := make([]string, 0, maxTagsPerLookup)
	for _, tag := range payload.TopTags.Tags {
		if tag.Count > 0 && tag.Name != "" {
			names = append(names, tag.Name)
		}
		if len(names) == maxTagsPerLookup {
			break
		}
	}
	return names, nil
}

// formatTags joins the strongest tags into the stored genre string.
func formatTags(tags []string) string {
	if len(tags) > maxTagsInGenre {
		tags = tags[:maxTagsInGenre]
	}
	return strings.Join(tags, ", ")
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
