package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/shelfdapp/shelfd-server/internal/domain"
	domainerrors "github.com/shelfdapp/shelfd-server/internal/errors"
)

func (s *Server) registerReviewRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "createReview",
		Method:      http.MethodPost,
		Path:        "/api/v1/reviews",
		Summary:     "Create review",
		Description: "Reviews an item, cataloguing it first if the identifier is external. One review per user per item. The item is also placed on the reviewer's default list.",
		Tags:        []string{"Reviews"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateReview)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateReview",
		Method:      http.MethodPatch,
		Path:        "/api/v1/reviews/{id}",
		Summary:     "Update review",
		Description: "Changes a review's rating or text and refreshes the item's rating summary",
		Tags:        []string{"Reviews"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateReview)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteReview",
		Method:      http.MethodDelete,
		Path:        "/api/v1/reviews/{id}",
		Summary:     "Delete review",
		Description: "Deletes a review. Admins may delete any review.",
		Tags:        []string{"Reviews"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteReview)

	huma.Register(s.api, huma.Operation{
		OperationID: "listMediaReviews",
		Method:      http.MethodGet,
		Path:        "/api/v1/media/{kind}/{id}/reviews",
		Summary:     "List reviews for an item",
		Description: "Returns an item's reviews, shaped by filter, sort and pagination parameters",
		Tags:        []string{"Reviews"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListMediaReviews)
}

// === DTOs ===

// CreateReviewRequest is the request body for creating a review.
type CreateReviewRequest struct {
	Kind       string `json:"kind" enum:"book,movie" doc:"Media kind"`
	Identifier string `json:"identifier" validate:"required" doc:"Local media ID or upstream catalog ID"`
	Rating     int    `json:"rating" validate:"required,min=1,max=10" doc:"Rating from 1 to 10"`
	Text       string `json:"text,omitempty" validate:"omitempty,max=10000" doc:"Optional review text"`
}

// CreateReviewInput wraps the create request for huma.
type CreateReviewInput struct {
	Authorization string `header:"Authorization"`
	Body          CreateReviewRequest
}

// UpdateReviewRequest is the request body for updating a review.
type UpdateReviewRequest struct {
	Rating int    `json:"rating" validate:"required,min=1,max=10" doc:"New rating from 1 to 10"`
	Text   string `json:"text,omitempty" validate:"omitempty,max=10000" doc:"New review text"`
}

// UpdateReviewInput wraps the update request for huma.
type UpdateReviewInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Review ID"`
	Body          UpdateReviewRequest
}

// ReviewIDInput identifies a review.
type ReviewIDInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Review ID"`
}

// MediaReviewsInput contains parameters for listing an item's reviews.
type MediaReviewsInput struct {
	ListQueryInput
	Authorization string `header:"Authorization"`
	Kind          string `path:"kind" enum:"books,movies" doc:"Media kind"`
	ID            string `path:"id" doc:"Local media ID"`
}

// ReviewOutput wraps a review for huma.
type ReviewOutput struct {
	Body *domain.Review
}

// === Handlers ===

func (s *Server) handleCreateReview(ctx context.Context, input *CreateReviewInput) (*ReviewOutput, error) {
	user, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.validate.Validate(input.Body); err != nil {
		return nil, err
	}

	kind, ok := domain.ParseMediaKind(input.Body.Kind)
	if !ok {
		return nil, domainerrors.Validationf("invalid media kind %q", input.Body.Kind)
	}

	review, err := s.services.Reviews.CreateReview(ctx, user.ID, kind, input.Body.Identifier, input.Body.Rating, input.Body.Text)
	if err != nil {
		return nil, err
	}
	return &ReviewOutput{Body: review}, nil
}

func (s *Server) handleUpdateReview(ctx context.Context, input *UpdateReviewInput) (*ReviewOutput, error) {
	user, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.validate.Validate(input.Body); err != nil {
		return nil, err
	}

	review, err := s.services.Reviews.UpdateReview(ctx, user.ID, input.ID, input.Body.Rating, input.Body.Text)
	if err != nil {
		return nil, err
	}
	return &ReviewOutput{Body: review}, nil
}

func (s *Server) handleDeleteReview(ctx context.Context, input *ReviewIDInput) (*MessageOutput, error) {
	user, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.services.Reviews.DeleteReview(ctx, user, input.ID); err != nil {
		return nil, err
	}
	return &MessageOutput{Body: MessageResponse{Message: "Review deleted"}}, nil
}

func (s *Server) handleListMediaReviews(ctx context.Context, input *MediaReviewsInput) (*ListOutput, error) {
	if _, err := s.authenticateRequest(ctx, input.Authorization); err != nil {
		return nil, err
	}

	kind, ok := domain.ParseMediaKind(input.Kind)
	if !ok {
		return nil, domainerrors.Validationf("invalid media kind %q", input.Kind)
	}

	// Resolve first so an unknown or mismatched ID reads as 404 instead of
	// an empty page
	media, err := s.services.Media.GetMedia(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if media.Kind != kind {
		return nil, domainerrors.NotFoundf("media %s not found", input.ID)
	}

	result, err := s.services.Reviews.ReviewsForMedia(ctx, media.ID, input.Query())
	if err != nil {
		return nil, err
	}
	return toListOutput(result), nil
}
