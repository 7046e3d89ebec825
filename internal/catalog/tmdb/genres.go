package tmdb

import (
	"context"
	"encoding/json/v2"
	"fmt"
	"net/url"
	"sync"
)

// GenreCache maps provider genre IDs to names. The taxonomy is fetched
// lazily on first use and never expires; TMDB's genre list is effectively
// static. Concurrent first lookups may race to populate it, which is
// harmless: the overwrite is idempotent.
type GenreCache struct {
	client *Client

	mu     sync.RWMutex
	names  map[int64]string
	loaded bool
}

func newGenreCache(c *Client) *GenreCache {
	return &GenreCache{
		client: c,
		names:  make(map[int64]string),
	}
}

// Names resolves a list of genre IDs to display names, fetching the
// taxonomy on first use. Unknown IDs are skipped rather than erroring so
// a stale taxonomy never breaks search.
func (g *GenreCache) Names(ctx context.Context, ids []int64) ([]string, error) {
	if err := g.ensureLoaded(ctx); err != nil {
		return nil, err
	}

	g.mu.RLock()
	defer g.mu.RUnlock()

	names := make([]string, 0, len(ids))
	for _, id := range ids {
		if name, ok := g.names[id]; ok {
			names = append(names, name)
		}
	}
	return names, nil
}

func (g *GenreCache) ensureLoaded(ctx context.Context) error {
	g.mu.RLock()
	loaded := g.loaded
	g.mu.RUnlock()
	if loaded {
		return nil
	}

	body, err := g.client.doRequest(ctx, "/genre/movie/list", url.Values{})
	if err != nil {
		return wrapError("genres", "", err)
	}

	var list rawGenreList
	if err := json.Unmarshal(body, &list); err != nil {
		return wrapError("genres", "", fmt.Errorf("parse response: %w", err))
	}

	names := make(map[int64]string, len(list.Genres))
	for _, genre := range list.Genres {
		names[genre.ID] = genre.Name
	}

	g.mu.Lock()
	g.names = names
	g.loaded = true
	g.mu.Unlock()

	return nil
}

// Reset clears the cache, forcing a refetch on next use. Test hook.
func (g *GenreCache) Reset() {
	g.mu.Lock()
	g.names = make(map[int64]string)
	g.loaded = false
	g.mu.Unlock()
}

// Genres exposes the client's genre cache.
func (c *Client) Genres() *GenreCache {
	return c.genres
}
