package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shelfdapp/shelfd-server/internal/catalog"
	"github.com/shelfdapp/shelfd-server/internal/domain"
	domainerrors "github.com/shelfdapp/shelfd-server/internal/errors"
	"github.com/shelfdapp/shelfd-server/internal/store"
)

const searchPageSize = 20

// SearchService queries upstream catalogs and annotates results with
// local catalog state.
type SearchService struct {
	store    *store.Store
	catalogs *catalog.Registry
	logger   *slog.Logger
}

// NewSearchService creates a new search service.
func NewSearchService(store *store.Store, catalogs *catalog.Registry, logger *slog.Logger) *SearchService {
	return &SearchService{
		store:    store,
		catalogs: catalogs,
		logger:   logger,
	}
}

// SearchPage is one annotated page of upstream search results.
type SearchPage struct {
	Results []domain.SearchResult `json:"results"`
	Total   int                   `json:"total"`
	Page    int                   `json:"page"`
}

// Search runs an upstream catalog search and marks which results are
// already catalogued locally. Enrichment uses one batched lookup across
// all result external IDs rather than a query per result, and never
// writes: items enter the catalog only through EnsureMedia.
func (s *SearchService) Search(ctx context.Context, kind domain.MediaKind, rawQuery string, page int) (*SearchPage, error) {
	if !kind.Valid() {
		return nil, domainerrors.Validationf("invalid media kind %q", kind)
	}
	if strings.TrimSpace(rawQuery) == "" {
		return nil, domainerrors.Validation("search query is required")
	}
	if page < 1 {
		page = 1
	}

	adapter := s.catalogs.For(kind)
	if adapter == nil {
		return nil, domainerrors.Internalf("no catalog adapter for kind %q", kind)
	}

	items, total, err := adapter.Search(ctx, rawQuery, page, searchPageSize)
	if err != nil {
		return nil, err
	}

	externalIDs := make([]string, 0, len(items))
	for i := range items {
		externalIDs = append(externalIDs, items[i].ExternalID)
	}

	cached, err := s.store.GetMediaByExternalIDs(ctx, kind, externalIDs)
	if err != nil {
		return nil, fmt.Errorf("enriching search results: %w", err)
	}

	results := make([]domain.SearchResult, 0, len(items))
	for i := range items {
		if local, ok := cached[items[i].ExternalID]; ok {
			// Prefer the local record: it carries the local ID and the
			// denormalized rating summary
			results = append(results, domain.SearchResult{Media: *local, IsEnriched: true})
			continue
		}
		results = append(results, domain.SearchResult{Media: items[i], IsEnriched: false})
	}

	s.logger.Debug("catalog search", "kind", kind, "query", rawQuery, "page", page, "results", len(results), "enriched", len(cached))

	return &SearchPage{
		Results: results,
		Total:   total,
		Page:    page,
	}, nil
}
