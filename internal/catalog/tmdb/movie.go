package tmdb

import (
	"context"
	"encoding/json/v2"
	"fmt"
	"net/url"
	"strings"
)

// GetMovie fetches full movie details by provider ID.
// Returns ErrNotFound if the provider has no such movie. Detail responses
// embed full genre objects, so no cache lookup is needed here.
func (c *Client) GetMovie(ctx context.Context, movieID string) (*Movie, error) {
	if strings.TrimSpace(movieID) == "" {
		return nil, wrapError("getMovie", movieID, fmt.Errorf("empty movie id"))
	}

	body, err := c.doRequest(ctx, "/movie/"+url.PathEscape(movieID), url.Values{})
	if err != nil {
		return nil, wrapError("getMovie", movieID, err)
	}

	var raw rawMovieDetail
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, wrapError("getMovie", movieID, fmt.Errorf("parse response: %w", err))
	}

	genres := make([]string, 0, len(raw.Genres))
	for _, g := range raw.Genres {
		if g.Name != "" {
			genres = append(genres, g.Name)
		}
	}

	return &Movie{
		ID:             movieID,
		Title:          raw.Title,
		Tagline:        raw.Tagline,
		Overview:       raw.Overview,
		Genres:         genres,
		ReleaseDate:    raw.ReleaseDate,
		Language:       raw.OriginalLanguage,
		PosterURL:      posterURL(raw.PosterPath),
		RuntimeMinutes: raw.Runtime,
	}, nil
}
