package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shelfdapp/shelfd-server/internal/domain"
	domainerrors "github.com/shelfdapp/shelfd-server/internal/errors"
	"github.com/shelfdapp/shelfd-server/internal/query"
	"github.com/shelfdapp/shelfd-server/internal/store"
)

// UserService serves profiles and account administration.
type UserService struct {
	store  *store.Store
	social *SocialService
	logger *slog.Logger
}

// NewUserService creates a new user service.
func NewUserService(store *store.Store, social *SocialService, logger *slog.Logger) *UserService {
	return &UserService{
		store:  store,
		social: social,
		logger: logger,
	}
}

// Profile is a user's public profile with social counts.
type Profile struct {
	User           *domain.User `json:"user"`
	FollowerCount  int          `json:"follower_count"`
	FollowingCount int          `json:"following_count"`
	ReviewCount    int          `json:"review_count"`
	IsFollowing    bool         `json:"is_following"`
}

// GetUser fetches a user by ID. Inactive accounts read as not found to
// everyone but themselves and admins.
func (s *UserService) GetUser(ctx context.Context, viewer *domain.User, userID string) (*domain.User, error) {
	user, err := s.store.Users.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFoundf("user %s not found", userID)
		}
		return nil, fmt.Errorf("getting user: %w", err)
	}

	if !user.IsActive() && viewer.ID != user.ID && !viewer.IsAdmin() {
		return nil, domainerrors.NotFoundf("user %s not found", userID)
	}
	return user, nil
}

// GetProfile assembles a user's profile with follower, following and
// review counts, plus whether the viewer follows them.
func (s *UserService) GetProfile(ctx context.Context, viewer *domain.User, userID string) (*Profile, error) {
	user, err := s.GetUser(ctx, viewer, userID)
	if err != nil {
		return nil, err
	}

	followers, err := s.store.Follows.ListByIndex(ctx, "followee", userID)
	if err != nil {
		return nil, fmt.Errorf("counting followers: %w", err)
	}
	following, err := s.store.Follows.ListByIndex(ctx, "follower", userID)
	if err != nil {
		return nil, fmt.Errorf("counting following: %w", err)
	}
	reviews, err := s.store.Reviews.ListByIndex(ctx, "user", userID)
	if err != nil {
		return nil, fmt.Errorf("counting reviews: %w", err)
	}

	isFollowing := false
	if viewer.ID != userID {
		isFollowing, err = s.social.IsFollowing(ctx, viewer.ID, userID)
		if err != nil {
			return nil, err
		}
	}

	return &Profile{
		User:           user,
		FollowerCount:  len(followers),
		FollowingCount: len(following),
		ReviewCount:    len(reviews),
		IsFollowing:    isFollowing,
	}, nil
}

// ProfileUpdate carries the mutable profile fields. Nil means unchanged.
type ProfileUpdate struct {
	DisplayName *string
	Bio         *string
}

// UpdateProfile applies a profile update to the caller's own account.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, update ProfileUpdate) (*domain.User, error) {
	user, err := s.store.Users.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFoundf("user %s not found", userID)
		}
		return nil, fmt.Errorf("getting user: %w", err)
	}

	if update.DisplayName != nil {
		name := strings.TrimSpace(*update.DisplayName)
		if name == "" {
			return nil, domainerrors.Validation("display name is required")
		}
		user.DisplayName = name
	}
	if update.Bio != nil {
		user.Bio = *update.Bio
	}
	user.Touch()

	if err := s.store.Users.Update(ctx, user.ID, user); err != nil {
		return nil, fmt.Errorf("updating user: %w", err)
	}
	return user, nil
}

// ListUsers lists accounts, shaped by the query. There is no implicit
// status filter: callers that want only active accounts pass activeOnly
// explicitly, so soft-deletion can never be bypassed by accident.
func (s *UserService) ListUsers(ctx context.Context, activeOnly bool, q *query.Query) (*query.Result, error) {
	var users []*domain.User
	for user, err := range s.store.Users.List(ctx) {
		if err != nil {
			return nil, fmt.Errorf("listing users: %w", err)
		}
		if activeOnly && !user.IsActive() {
			continue
		}
		users = append(users, user)
	}

	result, err := query.Run(users, q)
	if err != nil {
		return nil, err
	}
	// The stored record carries the credential; admin listings must not.
	for _, doc := range result.Items {
		delete(doc, "password_hash")
	}
	return result, nil
}

// SetUserStatus activates or deactivates an account. Admin only; admins
// cannot deactivate themselves.
func (s *UserService) SetUserStatus(ctx context.Context, actor *domain.User, userID string, status domain.UserStatus) (*domain.User, error) {
	if !actor.IsAdmin() {
		return nil, domainerrors.Forbidden("admin role required")
	}
	if actor.ID == userID && status == domain.UserStatusInactive {
		return nil, domainerrors.Validation("you cannot deactivate your own account")
	}
	if status != domain.UserStatusActive && status != domain.UserStatusInactive {
		return nil, domainerrors.Validationf("invalid status %q", status)
	}

	user, err := s.store.Users.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFoundf("user %s not found", userID)
		}
		return nil, fmt.Errorf("getting user: %w", err)
	}

	user.Status = status
	user.Touch()
	if err := s.store.Users.Update(ctx, user.ID, user); err != nil {
		return nil, fmt.Errorf("updating user: %w", err)
	}

	s.logger.Info("user status changed", "user_id", userID, "status", status, "actor", actor.ID)
	return user, nil
}
