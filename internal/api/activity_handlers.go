package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/shelfdapp/shelfd-server/internal/domain"
	domainerrors "github.com/shelfdapp/shelfd-server/internal/errors"
)

func (s *Server) registerActivityRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getSocialFeed",
		Method:      http.MethodGet,
		Path:        "/api/v1/feed",
		Summary:     "Social feed",
		Description: "Returns recent activity from the authenticated user and the users they follow, newest first",
		Tags:        []string{"Feed"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleSocialFeed)

	huma.Register(s.api, huma.Operation{
		OperationID: "getGlobalFeed",
		Method:      http.MethodGet,
		Path:        "/api/v1/feed/global",
		Summary:     "Global feed",
		Description: "Returns recent activity across all users, newest first",
		Tags:        []string{"Feed"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGlobalFeed)

	huma.Register(s.api, huma.Operation{
		OperationID: "getUserActivities",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/{id}/activities",
		Summary:     "User activity",
		Description: "Returns one user's activity, newest first",
		Tags:        []string{"Feed"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUserActivities)

	huma.Register(s.api, huma.Operation{
		OperationID: "getMediaActivities",
		Method:      http.MethodGet,
		Path:        "/api/v1/media/{kind}/{id}/activities",
		Summary:     "Item activity",
		Description: "Returns the activity about a single catalogue item, newest first",
		Tags:        []string{"Feed"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleMediaActivities)

	huma.Register(s.api, huma.Operation{
		OperationID: "toggleActivityLike",
		Method:      http.MethodPost,
		Path:        "/api/v1/activities/{id}/like",
		Summary:     "Toggle like",
		Description: "Likes the activity, or removes the caller's existing like",
		Tags:        []string{"Feed"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleToggleLike)

	huma.Register(s.api, huma.Operation{
		OperationID: "addActivityComment",
		Method:      http.MethodPost,
		Path:        "/api/v1/activities/{id}/comments",
		Summary:     "Add comment",
		Description: "Adds a comment to an activity",
		Tags:        []string{"Feed"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleAddComment)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteActivityComment",
		Method:      http.MethodDelete,
		Path:        "/api/v1/activities/{id}/comments/{commentID}",
		Summary:     "Delete comment",
		Description: "Deletes a comment. Allowed for the comment author, the activity owner and admins.",
		Tags:        []string{"Feed"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteComment)
}

// === DTOs ===

// FeedInput contains feed paging and filter parameters.
type FeedInput struct {
	ListQueryInput
	Authorization string `header:"Authorization"`
}

// UserActivitiesInput contains parameters for one user's activity.
type UserActivitiesInput struct {
	ListQueryInput
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"User ID"`
}

// MediaActivitiesInput contains parameters for one item's activity.
type MediaActivitiesInput struct {
	ListQueryInput
	Authorization string `header:"Authorization"`
	Kind          string `path:"kind" enum:"books,movies" doc:"Media kind"`
	ID            string `path:"id" doc:"Local media ID"`
}

// ActivityIDInput identifies an activity.
type ActivityIDInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Activity ID"`
}

// LikeResponse reports the like state after a toggle.
type LikeResponse struct {
	Liked     bool `json:"liked" doc:"Whether the caller likes the activity after the toggle"`
	LikeCount int  `json:"like_count" doc:"Total likes on the activity"`
}

// LikeOutput wraps the like state for huma.
type LikeOutput struct {
	Body LikeResponse
}

// AddCommentRequest is the request body for commenting on an activity.
type AddCommentRequest struct {
	Text string `json:"text" validate:"required,max=2000" doc:"Comment text"`
}

// AddCommentInput wraps the comment request for huma.
type AddCommentInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Activity ID"`
	Body          AddCommentRequest
}

// CommentPathInput identifies a comment on an activity.
type CommentPathInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Activity ID"`
	CommentID     string `path:"commentID" doc:"Comment ID"`
}

// CommentOutput wraps a comment for huma.
type CommentOutput struct {
	Body *domain.Comment
}

// === Handlers ===

func (s *Server) handleSocialFeed(ctx context.Context, input *FeedInput) (*ListOutput, error) {
	user, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	result, err := s.services.Activity.SocialFeed(ctx, user.ID, input.Query())
	if err != nil {
		return nil, err
	}
	return toListOutput(result), nil
}

func (s *Server) handleGlobalFeed(ctx context.Context, input *FeedInput) (*ListOutput, error) {
	if _, err := s.authenticateRequest(ctx, input.Authorization); err != nil {
		return nil, err
	}

	result, err := s.services.Activity.GlobalFeed(ctx, input.Query())
	if err != nil {
		return nil, err
	}
	return toListOutput(result), nil
}

func (s *Server) handleUserActivities(ctx context.Context, input *UserActivitiesInput) (*ListOutput, error) {
	viewer, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	// Resolves visibility the same way profiles do, so deactivated
	// accounts read as 404.
	if _, err := s.services.Users.GetUser(ctx, viewer, input.ID); err != nil {
		return nil, err
	}

	result, err := s.services.Activity.PersonalFeed(ctx, input.ID, input.Query())
	if err != nil {
		return nil, err
	}
	return toListOutput(result), nil
}

func (s *Server) handleMediaActivities(ctx context.Context, input *MediaActivitiesInput) (*ListOutput, error) {
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

	result, err := s.services.Activity.MediaFeed(ctx, media.ID, input.Query())
	if err != nil {
		return nil, err
	}
	return toListOutput(result), nil
}

func (s *Server) handleToggleLike(ctx context.Context, input *ActivityIDInput) (*LikeOutput, error) {
	user, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	liked, err := s.services.Activity.ToggleLike(ctx, user.ID, input.ID)
	if err != nil {
		return nil, err
	}

	activity, err := s.services.Activity.GetActivity(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	return &LikeOutput{
		Body: LikeResponse{Liked: liked, LikeCount: len(activity.Likes)},
	}, nil
}

func (s *Server) handleAddComment(ctx context.Context, input *AddCommentInput) (*CommentOutput, error) {
	user, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.validate.Validate(input.Body); err != nil {
		return nil, err
	}

	comment, err := s.services.Activity.AddComment(ctx, user.ID, input.ID, input.Body.Text)
	if err != nil {
		return nil, err
	}
	return &CommentOutput{Body: comment}, nil
}

func (s *Server) handleDeleteComment(ctx context.Context, input *CommentPathInput) (*MessageOutput, error) {
	user, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.services.Activity.DeleteComment(ctx, user, input.ID, input.CommentID); err != nil {
		return nil, err
	}
	return &MessageOutput{Body: MessageResponse{Message: "Comment deleted"}}, nil
}
