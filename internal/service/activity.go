package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/shelfdapp/shelfd-server/internal/domain"
	domainerrors "github.com/shelfdapp/shelfd-server/internal/errors"
	"github.com/shelfdapp/shelfd-server/internal/id"
	"github.com/shelfdapp/shelfd-server/internal/query"
	"github.com/shelfdapp/shelfd-server/internal/store"
)

const maxCommentLength = 2000

// ActivityService records feed events and serves the three feed views.
type ActivityService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewActivityService creates a new activity service.
func NewActivityService(store *store.Store, logger *slog.Logger) *ActivityService {
	return &ActivityService{
		store:  store,
		logger: logger,
	}
}

// RecordReviewCreated writes the feed event for a new review.
// Events are only recorded for creations, never updates or deletions.
func (s *ActivityService) RecordReviewCreated(ctx context.Context, review *domain.Review) error {
	return s.record(ctx, &domain.Activity{
		UserID:    review.UserID,
		Type:      domain.ActivityReviewCreated,
		Subject:   domain.Subject{Kind: domain.SubjectReview, ID: review.ID},
		MediaID:   review.MediaID,
		MediaKind: review.MediaKind,
	})
}

// RecordEntryCreated writes the feed event for a new library entry.
func (s *ActivityService) RecordEntryCreated(ctx context.Context, entry *domain.LibraryEntry) error {
	return s.record(ctx, &domain.Activity{
		UserID:    entry.UserID,
		Type:      domain.ActivityEntryCreated,
		Subject:   domain.Subject{Kind: domain.SubjectEntry, ID: entry.ID},
		MediaID:   entry.MediaID,
		MediaKind: entry.MediaKind,
	})
}

// RecordFollowCreated writes the feed event for a new follow edge.
func (s *ActivityService) RecordFollowCreated(ctx context.Context, follow *domain.Follow) error {
	return s.record(ctx, &domain.Activity{
		UserID:  follow.FollowerID,
		Type:    domain.ActivityFollowCreated,
		Subject: domain.Subject{Kind: domain.SubjectFollow, ID: follow.ID},
	})
}

func (s *ActivityService) record(ctx context.Context, activity *domain.Activity) error {
	activityID, err := id.Generate(id.PrefixActivity)
	if err != nil {
		return fmt.Errorf("generating activity id: %w", err)
	}
	activity.ID = activityID
	activity.CreatedAt = time.Now()

	if err := s.store.CreateActivity(ctx, activity); err != nil {
		return fmt.Errorf("recording activity: %w", err)
	}
	return nil
}

// feedFetchLimit computes how many records the store must produce for the
// query's page to be fully served after in-memory shaping. A filtered or
// searched feed can match arbitrarily old records, so it reads the whole
// stream; a plain page needs records only up to its own offset.
func feedFetchLimit(q *query.Query) int {
	if len(q.Filters) > 0 || len(q.SearchTokens) > 0 {
		return 0
	}
	return q.Offset() + q.Limit
}

// PersonalFeed returns one user's own activities, shaped by the query.
func (s *ActivityService) PersonalFeed(ctx context.Context, userID string, q *query.Query) (*query.Result, error) {
	activities, err := s.store.GetUserActivities(ctx, userID, feedFetchLimit(q))
	if err != nil {
		return nil, fmt.Errorf("fetching personal feed: %w", err)
	}
	return query.Run(activities, q)
}

// SocialFeed returns the requesting user's activities merged with those
// of everyone they follow.
func (s *ActivityService) SocialFeed(ctx context.Context, userID string, q *query.Query) (*query.Result, error) {
	follows, err := s.store.Follows.ListByIndex(ctx, "follower", userID)
	if err != nil {
		return nil, fmt.Errorf("fetching follow edges: %w", err)
	}

	userIDs := make([]string, 0, len(follows)+1)
	userIDs = append(userIDs, userID)
	for _, f := range follows {
		userIDs = append(userIDs, f.FolloweeID)
	}

	activities, err := s.store.GetUsersActivities(ctx, userIDs, feedFetchLimit(q))
	if err != nil {
		return nil, fmt.Errorf("fetching social feed: %w", err)
	}
	return query.Run(activities, q)
}

// GlobalFeed returns the unfiltered feed, newest first.
func (s *ActivityService) GlobalFeed(ctx context.Context, q *query.Query) (*query.Result, error) {
	activities, err := s.store.GetActivitiesFeed(ctx, feedFetchLimit(q))
	if err != nil {
		return nil, fmt.Errorf("fetching global feed: %w", err)
	}
	return query.Run(activities, q)
}

// MediaFeed returns the activity stream about a single catalogue item,
// newest first.
func (s *ActivityService) MediaFeed(ctx context.Context, mediaID string, q *query.Query) (*query.Result, error) {
	activities, err := s.store.GetMediaActivities(ctx, mediaID, feedFetchLimit(q))
	if err != nil {
		return nil, fmt.Errorf("fetching media feed: %w", err)
	}
	return query.Run(activities, q)
}

// ToggleLike adds the user to the activity's like set if absent, removes
// them if present. Returns whether the user likes the activity afterwards.
// Toggle semantics come from a membership check, not an atomic flip, which
// is acceptable for the request-scoped consistency this feed needs.
func (s *ActivityService) ToggleLike(ctx context.Context, userID, activityID string) (bool, error) {
	activity, err := s.getActivity(ctx, activityID)
	if err != nil {
		return false, err
	}

	liked := false
	if activity.LikedBy(userID) {
		activity.Likes = slices.DeleteFunc(activity.Likes, func(uid string) bool {
			return uid == userID
		})
	} else {
		activity.Likes = append(activity.Likes, userID)
		liked = true
	}

	if err := s.store.UpdateActivity(ctx, activity); err != nil {
		return false, fmt.Errorf("updating likes: %w", err)
	}
	return liked, nil
}

// AddComment appends a comment to an activity.
func (s *ActivityService) AddComment(ctx context.Context, userID, activityID, text string) (*domain.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, domainerrors.Validation("comment text is required")
	}
	if len(text) > maxCommentLength {
		return nil, domainerrors.Validationf("comment exceeds %d characters", maxCommentLength)
	}

	activity, err := s.getActivity(ctx, activityID)
	if err != nil {
		return nil, err
	}

	commentID, err := id.Generate(id.PrefixComment)
	if err != nil {
		return nil, fmt.Errorf("generating comment id: %w", err)
	}

	comment := domain.Comment{
		ID:        commentID,
		UserID:    userID,
		Text:      text,
		CreatedAt: time.Now(),
	}
	activity.Comments = append(activity.Comments, comment)

	if err := s.store.UpdateActivity(ctx, activity); err != nil {
		return nil, fmt.Errorf("adding comment: %w", err)
	}
	return &comment, nil
}

// DeleteComment removes a comment. Only the comment's author or an admin
// may delete it.
func (s *ActivityService) DeleteComment(ctx context.Context, actor *domain.User, activityID, commentID string) error {
	activity, err := s.getActivity(ctx, activityID)
	if err != nil {
		return err
	}

	idx := slices.IndexFunc(activity.Comments, func(c domain.Comment) bool {
		return c.ID == commentID
	})
	if idx < 0 {
		return domainerrors.NotFoundf("comment %s not found", commentID)
	}

	if activity.Comments[idx].UserID != actor.ID && !actor.IsAdmin() {
		return domainerrors.Forbidden("only the comment author may delete it")
	}

	activity.Comments = slices.Delete(activity.Comments, idx, idx+1)

	if err := s.store.UpdateActivity(ctx, activity); err != nil {
		return fmt.Errorf("deleting comment: %w", err)
	}
	return nil
}

// GetActivity fetches a single activity by ID.
func (s *ActivityService) GetActivity(ctx context.Context, activityID string) (*domain.Activity, error) {
	return s.getActivity(ctx, activityID)
}

func (s *ActivityService) getActivity(ctx context.Context, activityID string) (*domain.Activity, error) {
	activity, err := s.store.GetActivity(ctx, activityID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFoundf("activity %s not found", activityID)
		}
		return nil, fmt.Errorf("getting activity: %w", err)
	}
	return activity, nil
}
