// Package service implements the application's business logic on top of
// the store and catalog layers.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shelfdapp/shelfd-server/internal/catalog"
	"github.com/shelfdapp/shelfd-server/internal/domain"
	domainerrors "github.com/shelfdapp/shelfd-server/internal/errors"
	"github.com/shelfdapp/shelfd-server/internal/id"
	"github.com/shelfdapp/shelfd-server/internal/query"
	"github.com/shelfdapp/shelfd-server/internal/store"
)

// MediaService resolves identifiers to persisted media records and serves
// catalog reads.
type MediaService struct {
	store    *store.Store
	catalogs *catalog.Registry
	logger   *slog.Logger
}

// NewMediaService creates a new media service.
func NewMediaService(store *store.Store, catalogs *catalog.Registry, logger *slog.Logger) *MediaService {
	return &MediaService{
		store:    store,
		catalogs: catalogs,
		logger:   logger,
	}
}

// prefixForKind returns the local ID prefix for a media kind.
func prefixForKind(kind domain.MediaKind) string {
	if kind == domain.MediaKindMovie {
		return id.PrefixMovie
	}
	return id.PrefixBook
}

// EnsureMedia resolves an identifier to a persisted media record,
// creating the record from the upstream catalog on first reference.
//
// Local identifiers are looked up by primary key and fail with NotFound
// when absent. External identifiers first check the local cache by
// external ID; on a miss the upstream adapter is called and the result
// persisted. Two concurrent first-references may both miss the cache and
// both attempt the write; the unique constraint on external ID makes the
// loser re-fetch the winner's record, so the operation is idempotent
// under races.
func (s *MediaService) EnsureMedia(ctx context.Context, kind domain.MediaKind, identifier string) (*domain.Media, error) {
	if !kind.Valid() {
		return nil, domainerrors.Validationf("invalid media kind %q", kind)
	}
	if identifier == "" {
		return nil, domainerrors.Validation("identifier is required")
	}

	if id.IsLocal(identifier) {
		media, err := s.store.GetMedia(ctx, identifier)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil, domainerrors.NotFoundf("media %s not found", identifier)
			}
			return nil, fmt.Errorf("getting media: %w", err)
		}
		if media.Kind != kind {
			return nil, domainerrors.NotFoundf("media %s not found", identifier)
		}
		return media, nil
	}

	// External identifier: cache hit means no upstream call at all
	media, err := s.store.GetMediaByExternalID(ctx, kind, identifier)
	if err == nil {
		return media, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("looking up external id: %w", err)
	}

	adapter := s.catalogs.For(kind)
	if adapter == nil {
		return nil, domainerrors.Internalf("no catalog adapter for kind %q", kind)
	}

	fetched, err := adapter.GetByID(ctx, identifier)
	if err != nil {
		return nil, err
	}

	localID, err := id.Generate(prefixForKind(kind))
	if err != nil {
		return nil, fmt.Errorf("generating media id: %w", err)
	}
	fetched.ID = localID
	fetched.Kind = kind
	fetched.InitTimestamps()

	if err := s.store.CreateMedia(ctx, fetched); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			// Lost the race: another request persisted this external ID
			// between our miss and our write. Return the winner's record.
			s.logger.Debug("ensure media lost creation race", "kind", kind, "external_id", identifier)
			return s.store.GetMediaByExternalID(ctx, kind, identifier)
		}
		return nil, fmt.Errorf("persisting media: %w", err)
	}

	s.logger.Info("catalogued new media", "id", fetched.ID, "kind", kind, "external_id", identifier, "title", fetched.Title)
	return fetched, nil
}

// GetMedia fetches a media record by local ID.
func (s *MediaService) GetMedia(ctx context.Context, mediaID string) (*domain.Media, error) {
	media, err := s.store.GetMedia(ctx, mediaID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFoundf("media %s not found", mediaID)
		}
		return nil, fmt.Errorf("getting media: %w", err)
	}
	return media, nil
}

// ListMedia executes a parsed list query over the catalogued records.
func (s *MediaService) ListMedia(ctx context.Context, q *query.Query) (*query.Result, error) {
	var records []*domain.Media
	for media, err := range s.store.ListMedia(ctx) {
		if err != nil {
			return nil, fmt.Errorf("listing media: %w", err)
		}
		records = append(records, media)
	}
	return query.Run(records, q)
}
