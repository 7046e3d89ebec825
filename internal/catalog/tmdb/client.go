// Package tmdb is a rate-limited client for The Movie Database API (v3).
package tmdb

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/shelfdapp/shelfd-server/internal/ratelimit"
)

const (
	defaultBaseURL = "https://api.themoviedb.org/3"

	// TMDB enforces roughly 50 req/s; stay well below it
	defaultRPS   = 20.0
	defaultBurst = 20

	defaultTimeout = 30 * time.Second

	imageBaseURL = "https://image.tmdb.org/t/p/w500"
)

// Client is a rate-limited TMDB API client.
type Client struct {
	http    *http.Client
	limiter *ratelimit.KeyedRateLimiter
	logger  *slog.Logger
	baseURL string
	apiKey  string
	genres  *GenreCache
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API base URL. Used by tests to point the
// client at a local server.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = u
	}
}

// New creates a new TMDB client. The API key is required by the provider
// for every endpoint.
func New(logger *slog.Logger, apiKey string, opts ...Option) *Client {
	c := &Client{
		http: &http.Client{
			Timeout: defaultTimeout,
		},
		limiter: ratelimit.New(defaultRPS, defaultBurst),
		logger:  logger,
		baseURL: defaultBaseURL,
		apiKey:  apiKey,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.genres = newGenreCache(c)
	return c
}

// Close releases resources held by the client.
func (c *Client) Close() {
	c.limiter.Stop()
}

// doRequest executes a GET against the API with rate limiting and maps
// provider statuses onto the package's error types.
func (c *Client) doRequest(ctx context.Context, path string, query url.Values) ([]byte, error) {
	if err := c.limiter.Wait(ctx, "tmdb"); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	query.Set("api_key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "Shelfd/1.0")

	if c.logger != nil {
		c.logger.Debug("tmdb request", "path", path)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		return body, nil
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, &UpstreamError{Status: resp.StatusCode, Err: ErrInvalidKey}
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, &UpstreamError{Status: resp.StatusCode, Err: ErrRateLimited}
	default:
		return nil, &UpstreamError{
			Status: resp.StatusCode,
			Err:    fmt.Errorf("unexpected status %d", resp.StatusCode),
		}
	}
}

// posterURL builds a full image URL from a provider poster path.
func posterURL(path string) string {
	if path == "" {
		return ""
	}
	return imageBaseURL + path
}
