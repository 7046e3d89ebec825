package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/shelfdapp/shelfd-server/internal/domain"
)

func (s *Server) registerSocialRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "followUser",
		Method:      http.MethodPost,
		Path:        "/api/v1/follows/{userID}",
		Summary:     "Follow user",
		Description: "Creates a follow edge from the authenticated user to the target",
		Tags:        []string{"Social"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleFollowUser)

	huma.Register(s.api, huma.Operation{
		OperationID: "unfollowUser",
		Method:      http.MethodDelete,
		Path:        "/api/v1/follows/{userID}",
		Summary:     "Unfollow user",
		Description: "Removes a follow edge. Fails with 404 when no edge exists.",
		Tags:        []string{"Social"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUnfollowUser)

	huma.Register(s.api, huma.Operation{
		OperationID: "listFollowers",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/{id}/followers",
		Summary:     "List followers",
		Description: "Returns the users following the given user",
		Tags:        []string{"Social"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListFollowers)

	huma.Register(s.api, huma.Operation{
		OperationID: "listFollowing",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/{id}/following",
		Summary:     "List following",
		Description: "Returns the users the given user follows",
		Tags:        []string{"Social"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListFollowing)
}

// === DTOs ===

// FollowTargetInput identifies the user being followed or unfollowed.
type FollowTargetInput struct {
	Authorization string `header:"Authorization"`
	UserID        string `path:"userID" doc:"Target user ID"`
}

// UserIDInput identifies a user.
type UserIDInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"User ID"`
}

// FollowResponse describes a follow edge.
type FollowResponse struct {
	ID         string `json:"id" doc:"Follow edge ID"`
	FollowerID string `json:"follower_id" doc:"Following user"`
	FolloweeID string `json:"followee_id" doc:"Followed user"`
}

// FollowOutput wraps a follow edge for huma.
type FollowOutput struct {
	Body FollowResponse
}

// UsersOutput wraps a set of users for huma.
type UsersOutput struct {
	Body []UserResponse
}

// === Handlers ===

func (s *Server) handleFollowUser(ctx context.Context, input *FollowTargetInput) (*FollowOutput, error) {
	user, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	follow, err := s.services.Social.Follow(ctx, user.ID, input.UserID)
	if err != nil {
		return nil, err
	}

	return &FollowOutput{
		Body: FollowResponse{
			ID:         follow.ID,
			FollowerID: follow.FollowerID,
			FolloweeID: follow.FolloweeID,
		},
	}, nil
}

func (s *Server) handleUnfollowUser(ctx context.Context, input *FollowTargetInput) (*MessageOutput, error) {
	user, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.services.Social.Unfollow(ctx, user.ID, input.UserID); err != nil {
		return nil, err
	}
	return &MessageOutput{Body: MessageResponse{Message: "Unfollowed"}}, nil
}

func (s *Server) handleListFollowers(ctx context.Context, input *UserIDInput) (*UsersOutput, error) {
	if _, err := s.authenticateRequest(ctx, input.Authorization); err != nil {
		return nil, err
	}

	users, err := s.services.Social.Followers(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &UsersOutput{Body: toUserResponses(users)}, nil
}

func (s *Server) handleListFollowing(ctx context.Context, input *UserIDInput) (*UsersOutput, error) {
	if _, err := s.authenticateRequest(ctx, input.Authorization); err != nil {
		return nil, err
	}

	users, err := s.services.Social.Following(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &UsersOutput{Body: toUserResponses(users)}, nil
}

func toUserResponses(users []*domain.User) []UserResponse {
	out := make([]UserResponse, len(users))
	for i, u := range users {
		out[i] = toUserResponse(u, false)
	}
	return out
}
