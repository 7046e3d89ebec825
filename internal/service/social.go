package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shelfdapp/shelfd-server/internal/domain"
	domainerrors "github.com/shelfdapp/shelfd-server/internal/errors"
	"github.com/shelfdapp/shelfd-server/internal/id"
	"github.com/shelfdapp/shelfd-server/internal/store"
)

// SocialService manages the follow graph.
type SocialService struct {
	store    *store.Store
	activity *ActivityService
	logger   *slog.Logger
}

// NewSocialService creates a new social service.
func NewSocialService(store *store.Store, activity *ActivityService, logger *slog.Logger) *SocialService {
	return &SocialService{
		store:    store,
		activity: activity,
		logger:   logger,
	}
}

// Follow creates a follow edge. Self-follows are rejected, and following
// the same user twice is a conflict.
func (s *SocialService) Follow(ctx context.Context, followerID, followeeID string) (*domain.Follow, error) {
	if followerID == followeeID {
		return nil, domainerrors.Validation("you cannot follow yourself")
	}

	followee, err := s.store.Users.Get(ctx, followeeID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFoundf("user %s not found", followeeID)
		}
		return nil, fmt.Errorf("getting followee: %w", err)
	}
	if !followee.IsActive() {
		return nil, domainerrors.NotFoundf("user %s not found", followeeID)
	}

	follow := &domain.Follow{
		FollowerID: followerID,
		FolloweeID: followeeID,
		CreatedAt:  time.Now(),
	}
	followID, err := id.Generate(id.PrefixFollow)
	if err != nil {
		return nil, fmt.Errorf("generating follow id: %w", err)
	}
	follow.ID = followID

	if err := s.store.Follows.Create(ctx, follow.ID, follow); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.Conflict("you already follow this user")
		}
		return nil, fmt.Errorf("creating follow: %w", err)
	}

	// Feed write is best-effort: the edge exists either way
	if err := s.activity.RecordFollowCreated(ctx, follow); err != nil {
		s.logger.Error("failed to record follow activity", "follow_id", follow.ID, "error", err)
	}

	return follow, nil
}

// Unfollow removes a follow edge. Unfollowing someone you do not follow
// is NotFound: there is no edge to remove.
func (s *SocialService) Unfollow(ctx context.Context, followerID, followeeID string) error {
	follow, err := s.store.Follows.GetByIndex(ctx, "edge", store.FollowEdgeKey(followerID, followeeID))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound("you do not follow this user")
		}
		return fmt.Errorf("looking up follow edge: %w", err)
	}

	if err := s.store.Follows.Delete(ctx, follow.ID); err != nil {
		return fmt.Errorf("deleting follow: %w", err)
	}
	return nil
}

// IsFollowing reports whether follower follows followee.
func (s *SocialService) IsFollowing(ctx context.Context, followerID, followeeID string) (bool, error) {
	_, err := s.store.Follows.GetByIndex(ctx, "edge", store.FollowEdgeKey(followerID, followeeID))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("looking up follow edge: %w", err)
	}
	return true, nil
}

// Followers returns the users following the given user.
func (s *SocialService) Followers(ctx context.Context, userID string) ([]*domain.User, error) {
	follows, err := s.store.Follows.ListByIndex(ctx, "followee", userID)
	if err != nil {
		return nil, fmt.Errorf("listing followers: %w", err)
	}

	users := make([]*domain.User, 0, len(follows))
	for _, f := range follows {
		user, err := s.store.Users.Get(ctx, f.FollowerID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				continue
			}
			return nil, fmt.Errorf("getting follower: %w", err)
		}
		users = append(users, user)
	}
	return users, nil
}

// Following returns the users the given user follows.
func (s *SocialService) Following(ctx context.Context, userID string) ([]*domain.User, error) {
	follows, err := s.store.Follows.ListByIndex(ctx, "follower", userID)
	if err != nil {
		return nil, fmt.Errorf("listing following: %w", err)
	}

	users := make([]*domain.User, 0, len(follows))
	for _, f := range follows {
		user, err := s.store.Users.Get(ctx, f.FolloweeID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				continue
			}
			return nil, fmt.Errorf("getting followee: %w", err)
		}
		users = append(users, user)
	}
	return users, nil
}
