package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/shelfdapp/shelfd-server/internal/catalog/tmdb"
	"github.com/shelfdapp/shelfd-server/internal/domain"
	domainerrors "github.com/shelfdapp/shelfd-server/internal/errors"
)

// MovieClient is the subset of the TMDB client the adapter needs.
type MovieClient interface {
	Search(ctx context.Context, query string, page int) (*tmdb.SearchPage, error)
	GetMovie(ctx context.Context, movieID string) (*tmdb.Movie, error)
}

// MovieAdapter adapts the TMDB client to the Adapter interface.
type MovieAdapter struct {
	client MovieClient
}

// NewMovieAdapter creates a movie catalog adapter.
func NewMovieAdapter(client MovieClient) *MovieAdapter {
	return &MovieAdapter{client: client}
}

// Kind implements Adapter.
func (a *MovieAdapter) Kind() domain.MediaKind {
	return domain.MediaKindMovie
}

// Search implements Adapter. TMDB ignores pageSize; its pages are fixed
// at 20 results.
func (a *MovieAdapter) Search(ctx context.Context, query string, page, _ int) ([]domain.Media, int, error) {
	result, err := a.client.Search(ctx, query, page)
	if err != nil {
		return nil, 0, mapMovieError(err)
	}

	items := make([]domain.Media, 0, len(result.Items))
	for i := range result.Items {
		items = append(items, movieToMedia(&result.Items[i]))
	}
	return items, result.TotalResults, nil
}

// GetByID implements Adapter.
func (a *MovieAdapter) GetByID(ctx context.Context, externalID string) (*domain.Media, error) {
	movie, err := a.client.GetMovie(ctx, externalID)
	if err != nil {
		return nil, mapMovieError(err)
	}
	media := movieToMedia(movie)
	return &media, nil
}

func movieToMedia(m *tmdb.Movie) domain.Media {
	var released time.Time
	if m.ReleaseDate != "" {
		released, _ = time.Parse("2006-01-02", m.ReleaseDate)
	}

	return domain.Media{
		Kind:           domain.MediaKindMovie,
		ExternalID:     m.ID,
		Title:          m.Title,
		Subtitle:       m.Tagline,
		Description:    m.Overview,
		Tags:           m.Genres,
		ReleaseDate:    released,
		Language:       m.Language,
		CoverURL:       m.PosterURL,
		RuntimeMinutes: m.RuntimeMinutes,
	}
}

// mapMovieError translates provider errors into domain errors, carrying
// the provider's HTTP status through for upstream failures.
func mapMovieError(err error) error {
	if errors.Is(err, tmdb.ErrNotFound) {
		return domainerrors.NotFound("movie not found in catalog").WithCause(err)
	}

	var upstream *tmdb.UpstreamError
	if errors.As(err, &upstream) {
		return domainerrors.Upstream("movie catalog unavailable", upstream.Status).WithCause(err)
	}

	return domainerrors.Upstream("movie catalog request failed", 0).WithCause(err)
}
