// Airwave - Radio Playlist Scraping and Analytics
// Copyright 2026 A. Vierling (avierling)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/avierling/airwave

package enrich

import (
	"strconv"

	"github.com/goccy/go-json"
)

// topTagsResponse covers both track.getTopTags and artist.getTopTags.
type topTagsResponse struct {
	TopTags struct {
		Tags tagList `json:"tag"`
	} `json:"toptags"`
	Error   int    `json:"error"`
	Message string `json:"message"`
}

type tag struct {
	Name  string   `json:"name"`
	Count tagCount `json:"count"`
}

// tagList absorbs the API quirk of returning a single tag as an object
// instead of a one-element array.
type tagList []tag

func (l *tagList) UnmarshalJSON(data []byte) error {
	var many []tag
	if err := json.Unmarshal(data, &many); err == nil {
		*l = many
		return nil
	}

	var one tag
	if err := json.Unmarshal(data, &one); err != nil {
		return err
	}
	*l = tagList{one}
	return nil
}

// tagCount absorbs counts that arrive as either a number or a string.
type tagCount int

func (c *tagCount) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		*c = tagCount(n)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		*c = 0
		return nil
	}
	*c = tagCount(n)
	return nil
}
