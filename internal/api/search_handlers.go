package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/shelfdapp/shelfd-server/internal/domain"
	domainerrors "github.com/shelfdapp/shelfd-server/internal/errors"
	"github.com/shelfdapp/shelfd-server/internal/service"
)

func (s *Server) registerSearchRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "searchCatalog",
		Method:      http.MethodGet,
		Path:        "/api/v1/search/{kind}",
		Summary:     "Search upstream catalog",
		Description: "Searches the upstream provider for a kind and marks results that are already catalogued locally",
		Tags:        []string{"Search"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleSearchCatalog)
}

// === DTOs ===

// SearchInput contains search parameters.
type SearchInput struct {
	Authorization string `header:"Authorization"`
	Kind          string `path:"kind" enum:"books,movies" doc:"Media kind"`
	Q             string `query:"q" doc:"Search terms"`
	Page          int    `query:"page" doc:"Result page, 1-based"`
}

// SearchResultResponse is one annotated search hit.
type SearchResultResponse struct {
	Media      domain.Media `json:"media" doc:"The item. Catalogued items carry their local ID and rating summary."`
	IsEnriched bool         `json:"is_enriched" doc:"Whether the item is already catalogued locally"`
}

// SearchResponse is one page of search results.
type SearchResponse struct {
	Results []SearchResultResponse `json:"results" doc:"Annotated results"`
	Total   int                    `json:"total" doc:"Total upstream matches"`
	Page    int                    `json:"page" doc:"Current page"`
}

// SearchOutput wraps the search response for huma.
type SearchOutput struct {
	Body SearchResponse
}

// === Handlers ===

func (s *Server) handleSearchCatalog(ctx context.Context, input *SearchInput) (*SearchOutput, error) {
	if _, err := s.authenticateRequest(ctx, input.Authorization); err != nil {
		return nil, err
	}

	kind, ok := domain.ParseMediaKind(input.Kind)
	if !ok {
		return nil, domainerrors.Validationf("invalid media kind %q", input.Kind)
	}

	page, err := s.services.Search.Search(ctx, kind, input.Q, input.Page)
	if err != nil {
		return nil, err
	}

	return &SearchOutput{Body: toSearchResponse(page)}, nil
}

func toSearchResponse(page *service.SearchPage) SearchResponse {
	results := make([]SearchResultResponse, len(page.Results))
	for i, r := range page.Results {
		results[i] = SearchResultResponse{Media: r.Media, IsEnriched: r.IsEnriched}
	}
	return SearchResponse{
		Results: results,
		Total:   page.Total,
		Page:    page.Page,
	}
}
