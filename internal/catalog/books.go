package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/shelfdapp/shelfd-server/internal/catalog/googlebooks"
	"github.com/shelfdapp/shelfd-server/internal/domain"
	domainerrors "github.com/shelfdapp/shelfd-server/internal/errors"
)

// BookClient is the subset of the Google Books client the adapter needs.
type BookClient interface {
	Search(ctx context.Context, query string, page, pageSize int) (*googlebooks.SearchPage, error)
	GetVolume(ctx context.Context, volumeID string) (*googlebooks.Volume, error)
}

// BookAdapter adapts the Google Books client to the Adapter interface.
type BookAdapter struct {
	client BookClient
}

// NewBookAdapter creates a book catalog adapter.
func NewBookAdapter(client BookClient) *BookAdapter {
	return &BookAdapter{client: client}
}

// Kind implements Adapter.
func (a *BookAdapter) Kind() domain.MediaKind {
	return domain.MediaKindBook
}

// Search implements Adapter. Returns normalized partial records and the
// provider's total result count.
func (a *BookAdapter) Search(ctx context.Context, query string, page, pageSize int) ([]domain.Media, int, error) {
	result, err := a.client.Search(ctx, query, page, pageSize)
	if err != nil {
		return nil, 0, mapBookError(err)
	}

	items := make([]domain.Media, 0, len(result.Items))
	for i := range result.Items {
		items = append(items, volumeToMedia(&result.Items[i]))
	}
	return items, result.TotalItems, nil
}

// GetByID implements Adapter.
func (a *BookAdapter) GetByID(ctx context.Context, externalID string) (*domain.Media, error) {
	volume, err := a.client.GetVolume(ctx, externalID)
	if err != nil {
		return nil, mapBookError(err)
	}
	media := volumeToMedia(volume)
	return &media, nil
}

func volumeToMedia(v *googlebooks.Volume) domain.Media {
	return domain.Media{
		Kind:        domain.MediaKindBook,
		ExternalID:  v.ID,
		Title:       v.Title,
		Subtitle:    v.Subtitle,
		Description: v.Description,
		Authors:     v.Authors,
		Tags:        v.Categories,
		ReleaseDate: parseFlexibleDate(v.PublishedDate),
		Publisher:   v.Publisher,
		Language:    v.Language,
		CoverURL:    v.CoverURL,
		PageCount:   v.PageCount,
	}
}

// parseFlexibleDate handles the provider's varying date precision.
func parseFlexibleDate(s string) time.Time {
	for _, layout := range []string{"2006-01-02", "2006-01", "2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// mapBookError translates provider errors into domain errors, carrying
// the provider's HTTP status through for upstream failures.
func mapBookError(err error) error {
	if errors.Is(err, googlebooks.ErrNotFound) {
		return domainerrors.NotFound("book not found in catalog").WithCause(err)
	}

	var upstream *googlebooks.UpstreamError
	if errors.As(err, &upstream) {
		return domainerrors.Upstream("book catalog unavailable", upstream.Status).WithCause(err)
	}

	return domainerrors.Upstream("book catalog request failed", 0).WithCause(err)
}
