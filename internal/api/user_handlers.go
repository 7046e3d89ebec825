package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/shelfdapp/shelfd-server/internal/domain"
	"github.com/shelfdapp/shelfd-server/internal/query"
	"github.com/shelfdapp/shelfd-server/internal/service"
)

func (s *Server) registerUserRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getCurrentUser",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/me",
		Summary:     "Current user",
		Description: "Returns the authenticated user's own account, including email",
		Tags:        []string{"Users"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetCurrentUser)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateCurrentUser",
		Method:      http.MethodPatch,
		Path:        "/api/v1/users/me",
		Summary:     "Update profile",
		Description: "Updates the authenticated user's display name or bio",
		Tags:        []string{"Users"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateCurrentUser)

	huma.Register(s.api, huma.Operation{
		OperationID: "getUserProfile",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/{id}/profile",
		Summary:     "User profile",
		Description: "Returns a user's profile with follower counts, public lists and recent activity",
		Tags:        []string{"Users"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetUserProfile)

	huma.Register(s.api, huma.Operation{
		OperationID: "listUserLists",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/{id}/lists",
		Summary:     "User lists",
		Description: "Returns a user's lists. Private lists are included only for their owner.",
		Tags:        []string{"Users"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListUserLists)

	huma.Register(s.api, huma.Operation{
		OperationID: "listUserReviews",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/{id}/reviews",
		Summary:     "User reviews",
		Description: "Returns a user's reviews, shaped by filter, sort and pagination parameters",
		Tags:        []string{"Users"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListUserReviews)

	huma.Register(s.api, huma.Operation{
		OperationID: "listUsers",
		Method:      http.MethodGet,
		Path:        "/api/v1/users",
		Summary:     "List users",
		Description: "Admin only. Lists accounts, optionally restricted to active ones.",
		Tags:        []string{"Admin"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListUsers)

	huma.Register(s.api, huma.Operation{
		OperationID: "setUserStatus",
		Method:      http.MethodPatch,
		Path:        "/api/v1/users/{id}/status",
		Summary:     "Set account status",
		Description: "Admin only. Activates or deactivates an account. Admins cannot deactivate themselves.",
		Tags:        []string{"Admin"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleSetUserStatus)
}

// === DTOs ===

// AuthHeaderInput carries only the bearer token.
type AuthHeaderInput struct {
	Authorization string `header:"Authorization"`
}

// UserOutput wraps a user payload for huma.
type UserOutput struct {
	Body UserResponse
}

// UpdateProfileRequest is the request body for updating the caller's
// profile. Omitted fields are left unchanged.
type UpdateProfileRequest struct {
	DisplayName *string `json:"display_name,omitempty" validate:"omitempty,min=1,max=100" doc:"New display name"`
	Bio         *string `json:"bio,omitempty" validate:"omitempty,max=1000" doc:"New bio"`
}

// UpdateProfileInput wraps the profile update for huma.
type UpdateProfileInput struct {
	Authorization string `header:"Authorization"`
	Body          UpdateProfileRequest
}

// ProfileResponse is a user's public profile page.
type ProfileResponse struct {
	User           UserResponse     `json:"user" doc:"The profile's owner"`
	FollowerCount  int              `json:"follower_count" doc:"Number of followers"`
	FollowingCount int              `json:"following_count" doc:"Number of users followed"`
	ReviewCount    int              `json:"review_count" doc:"Number of reviews written"`
	IsFollowing    bool             `json:"is_following" doc:"Whether the viewer follows this user"`
	Lists          []query.Document `json:"lists" doc:"Lists visible to the viewer"`
	RecentActivity []query.Document `json:"recent_activity" doc:"The user's most recent activity"`
}

// ProfileOutput wraps a profile for huma.
type ProfileOutput struct {
	Body ProfileResponse
}

// UserListsInput contains parameters for listing a user's lists.
type UserListsInput struct {
	ListQueryInput
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"User ID"`
}

// ListUsersInput contains admin account-listing parameters.
type ListUsersInput struct {
	ListQueryInput
	Authorization string `header:"Authorization"`
	ActiveOnly    bool   `query:"active_only" doc:"Restrict to active accounts"`
}

// SetUserStatusRequest is the request body for changing an account's status.
type SetUserStatusRequest struct {
	Status string `json:"status" enum:"active,inactive" doc:"New account status"`
}

// SetUserStatusInput wraps the status change for huma.
type SetUserStatusInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"User ID"`
	Body          SetUserStatusRequest
}

// === Handlers ===

func (s *Server) handleGetCurrentUser(ctx context.Context, input *AuthHeaderInput) (*UserOutput, error) {
	user, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}
	return &UserOutput{Body: toUserResponse(user, true)}, nil
}

func (s *Server) handleUpdateCurrentUser(ctx context.Context, input *UpdateProfileInput) (*UserOutput, error) {
	user, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.validate.Validate(input.Body); err != nil {
		return nil, err
	}

	updated, err := s.services.Users.UpdateProfile(ctx, user.ID, service.ProfileUpdate{
		DisplayName: input.Body.DisplayName,
		Bio:         input.Body.Bio,
	})
	if err != nil {
		return nil, err
	}
	return &UserOutput{Body: toUserResponse(updated, true)}, nil
}

func (s *Server) handleGetUserProfile(ctx context.Context, input *UserIDInput) (*ProfileOutput, error) {
	viewer, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	profile, err := s.services.Users.GetProfile(ctx, viewer, input.ID)
	if err != nil {
		return nil, err
	}

	lists, err := s.services.Lists.ListsForUser(ctx, viewer.ID, input.ID, profileSectionQuery())
	if err != nil {
		return nil, err
	}

	recent, err := s.services.Activity.PersonalFeed(ctx, input.ID, profileSectionQuery())
	if err != nil {
		return nil, err
	}

	return &ProfileOutput{
		Body: ProfileResponse{
			User:           toUserResponse(profile.User, false),
			FollowerCount:  profile.FollowerCount,
			FollowingCount: profile.FollowingCount,
			ReviewCount:    profile.ReviewCount,
			IsFollowing:    profile.IsFollowing,
			Lists:          lists.Items,
			RecentActivity: recent.Items,
		},
	}, nil
}

func (s *Server) handleListUserLists(ctx context.Context, input *UserListsInput) (*ListOutput, error) {
	viewer, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	result, err := s.services.Lists.ListsForUser(ctx, viewer.ID, input.ID, input.Query())
	if err != nil {
		return nil, err
	}
	return toListOutput(result), nil
}

func (s *Server) handleListUserReviews(ctx context.Context, input *UserListsInput) (*ListOutput, error) {
	viewer, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	if _, err := s.services.Users.GetUser(ctx, viewer, input.ID); err != nil {
		return nil, err
	}

	result, err := s.services.Reviews.ReviewsForUser(ctx, input.ID, input.Query())
	if err != nil {
		return nil, err
	}
	return toListOutput(result), nil
}

func (s *Server) handleListUsers(ctx context.Context, input *ListUsersInput) (*ListOutput, error) {
	if _, err := s.authenticateAndRequireAdmin(ctx, input.Authorization); err != nil {
		return nil, err
	}

	result, err := s.services.Users.ListUsers(ctx, input.ActiveOnly, input.Query())
	if err != nil {
		return nil, err
	}
	return toListOutput(result), nil
}

func (s *Server) handleSetUserStatus(ctx context.Context, input *SetUserStatusInput) (*UserOutput, error) {
	actor, err := s.authenticateAndRequireAdmin(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	updated, err := s.services.Users.SetUserStatus(ctx, actor, input.ID, domain.UserStatus(input.Body.Status))
	if err != nil {
		return nil, err
	}
	return &UserOutput{Body: toUserResponse(updated, true)}, nil
}

// profileSectionQuery is the fixed page used for the embedded profile
// sections. Callers wanting more page through the dedicated endpoints.
func profileSectionQuery() *query.Query {
	return &query.Query{
		Page:  1,
		Limit: 10,
		Sorts: []query.Sort{{Field: "created_at", Desc: true}},
	}
}
