package tmdb

import (
	"context"
	"encoding/json/v2"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Search queries the movie search endpoint. Pages are 1-based; the
// provider's page size is fixed at 20. Search results only carry genre
// IDs, so names are resolved through the lazily-populated genre cache.
func (c *Client) Search(ctx context.Context, query string, page int) (*SearchPage, error) {
	if strings.TrimSpace(query) == "" {
		return nil, wrapError("search", "", fmt.Errorf("empty query"))
	}
	if page < 1 {
		page = 1
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("page", strconv.Itoa(page))
	params.Set("include_adult", "false")

	body, err := c.doRequest(ctx, "/search/movie", params)
	if err != nil {
		return nil, wrapError("search", "", err)
	}

	var resp rawSearchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, wrapError("search", "", fmt.Errorf("parse response: %w", err))
	}

	items := make([]Movie, 0, len(resp.Results))
	for i := range resp.Results {
		r := &resp.Results[i]

		genres, err := c.genres.Names(ctx, r.GenreIDs)
		if err != nil {
			// Genre resolution is cosmetic; a failed taxonomy fetch
			// must not fail the whole search
			if c.logger != nil {
				c.logger.Warn("genre resolution failed", "error", err)
			}
			genres = nil
		}

		items = append(items, Movie{
			ID:          strconv.FormatInt(r.ID, 10),
			Title:       r.Title,
			Overview:    r.Overview,
			Genres:      genres,
			ReleaseDate: r.ReleaseDate,
			Language:    r.OriginalLanguage,
			PosterURL:   posterURL(r.PosterPath),
		})
	}

	return &SearchPage{
		Items:        items,
		TotalResults: resp.TotalResults,
		TotalPages:   resp.TotalPages,
	}, nil
}
