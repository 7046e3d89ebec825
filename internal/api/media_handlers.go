package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/shelfdapp/shelfd-server/internal/domain"
	domainerrors "github.com/shelfdapp/shelfd-server/internal/errors"
	"github.com/shelfdapp/shelfd-server/internal/query"
)

func (s *Server) registerMediaRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listMedia",
		Method:      http.MethodGet,
		Path:        "/api/v1/media/{kind}",
		Summary:     "List catalogued media",
		Description: "Lists locally catalogued items of a kind, shaped by filter, sort, pagination and projection parameters",
		Tags:        []string{"Media"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListMedia)

	huma.Register(s.api, huma.Operation{
		OperationID: "getMedia",
		Method:      http.MethodGet,
		Path:        "/api/v1/media/{kind}/{identifier}",
		Summary:     "Get media detail",
		Description: "Resolves an identifier to a media record. External identifiers are catalogued from the upstream provider on first reference.",
		Tags:        []string{"Media"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetMedia)
}

// === DTOs ===

// ListMediaInput contains parameters for listing catalogued media.
type ListMediaInput struct {
	ListQueryInput
	Authorization string `header:"Authorization"`
	Kind          string `path:"kind" enum:"books,movies" doc:"Media kind"`
}

// GetMediaInput contains parameters for resolving one item.
type GetMediaInput struct {
	Authorization string `header:"Authorization"`
	Kind          string `path:"kind" enum:"books,movies" doc:"Media kind"`
	Identifier    string `path:"identifier" doc:"Local media ID or upstream catalog ID"`
}

// MediaOutput wraps a media record for huma.
type MediaOutput struct {
	Body *domain.Media
}

// === Handlers ===

func (s *Server) handleListMedia(ctx context.Context, input *ListMediaInput) (*ListOutput, error) {
	if _, err := s.authenticateRequest(ctx, input.Authorization); err != nil {
		return nil, err
	}

	kind, ok := domain.ParseMediaKind(input.Kind)
	if !ok {
		return nil, domainerrors.Validationf("invalid media kind %q", input.Kind)
	}

	q := input.Query()
	q.Filters = append(q.Filters, query.Filter{
		Field:  "kind",
		Op:     query.OpContainsAll,
		Values: []string{string(kind)},
	})

	result, err := s.services.Media.ListMedia(ctx, q)
	if err != nil {
		return nil, err
	}
	return toListOutput(result), nil
}

func (s *Server) handleGetMedia(ctx context.Context, input *GetMediaInput) (*MediaOutput, error) {
	if _, err := s.authenticateRequest(ctx, input.Authorization); err != nil {
		return nil, err
	}

	kind, ok := domain.ParseMediaKind(input.Kind)
	if !ok {
		return nil, domainerrors.Validationf("invalid media kind %q", input.Kind)
	}

	media, err := s.services.Media.EnsureMedia(ctx, kind, input.Identifier)
	if err != nil {
		return nil, err
	}
	return &MediaOutput{Body: media}, nil
}
