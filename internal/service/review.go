package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shelfdapp/shelfd-server/internal/domain"
	domainerrors "github.com/shelfdapp/shelfd-server/internal/errors"
	"github.com/shelfdapp/shelfd-server/internal/id"
	"github.com/shelfdapp/shelfd-server/internal/query"
	"github.com/shelfdapp/shelfd-server/internal/store"
)

// ReviewService manages reviews and keeps the denormalized rating summary
// on media records current.
type ReviewService struct {
	store    *store.Store
	media    *MediaService
	lists    *ListService
	activity *ActivityService
	logger   *slog.Logger
}

// NewReviewService creates a new review service.
func NewReviewService(store *store.Store, media *MediaService, lists *ListService, activity *ActivityService, logger *slog.Logger) *ReviewService {
	return &ReviewService{
		store:    store,
		media:    media,
		lists:    lists,
		activity: activity,
		logger:   logger,
	}
}

// CreateReview creates a review for an item, cataloguing it first if the
// identifier is external. Side effects after the review write, in order:
// the media's rating summary is recomputed, a feed event is recorded, and
// the item is placed on the reviewer's default list with the finished
// status. The side effects are best-effort; none of them can fail the
// review creation.
func (s *ReviewService) CreateReview(ctx context.Context, userID string, kind domain.MediaKind, identifier string, rating int, text string) (*domain.Review, error) {
	if !domain.ValidRating(rating) {
		return nil, domainerrors.Validationf("rating must be between %d and %d", domain.MinRating, domain.MaxRating)
	}

	media, err := s.media.EnsureMedia(ctx, kind, identifier)
	if err != nil {
		return nil, err
	}

	review := &domain.Review{
		UserID:    userID,
		MediaID:   media.ID,
		MediaKind: media.Kind,
		Rating:    rating,
		Text:      text,
	}
	reviewID, err := id.Generate(id.PrefixReview)
	if err != nil {
		return nil, fmt.Errorf("generating review id: %w", err)
	}
	review.ID = reviewID
	review.InitTimestamps()

	if err := s.store.Reviews.Create(ctx, review.ID, review); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.Conflict("you already reviewed this item")
		}
		return nil, fmt.Errorf("creating review: %w", err)
	}

	s.recomputeRating(ctx, media.ID)

	if err := s.activity.RecordReviewCreated(ctx, review); err != nil {
		s.logger.Error("failed to record review activity", "review_id", review.ID, "error", err)
	}

	if err := s.lists.addToDefaultList(ctx, userID, media); err != nil {
		s.logger.Error("failed to add reviewed item to default list", "review_id", review.ID, "error", err)
	}

	return review, nil
}

// UpdateReview changes a review's rating or text and recomputes the
// item's rating summary. Updates never produce feed events.
func (s *ReviewService) UpdateReview(ctx context.Context, userID, reviewID string, rating int, text string) (*domain.Review, error) {
	if !domain.ValidRating(rating) {
		return nil, domainerrors.Validationf("rating must be between %d and %d", domain.MinRating, domain.MaxRating)
	}

	review, err := s.ownedReview(ctx, userID, reviewID)
	if err != nil {
		return nil, err
	}

	review.Rating = rating
	review.Text = text
	review.Touch()

	if err := s.store.Reviews.Update(ctx, review.ID, review); err != nil {
		return nil, fmt.Errorf("updating review: %w", err)
	}

	s.recomputeRating(ctx, review.MediaID)
	return review, nil
}

// DeleteReview removes a review and recomputes the item's rating summary.
// Admins may delete any review.
func (s *ReviewService) DeleteReview(ctx context.Context, actor *domain.User, reviewID string) error {
	review, err := s.store.Reviews.Get(ctx, reviewID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFoundf("review %s not found", reviewID)
		}
		return fmt.Errorf("getting review: %w", err)
	}
	if review.UserID != actor.ID && !actor.IsAdmin() {
		return domainerrors.Forbidden("you do not own this review")
	}

	if err := s.store.Reviews.Delete(ctx, reviewID); err != nil {
		return fmt.Errorf("deleting review: %w", err)
	}

	s.recomputeRating(ctx, review.MediaID)
	return nil
}

// GetReview fetches a single review.
func (s *ReviewService) GetReview(ctx context.Context, reviewID string) (*domain.Review, error) {
	review, err := s.store.Reviews.Get(ctx, reviewID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFoundf("review %s not found", reviewID)
		}
		return nil, fmt.Errorf("getting review: %w", err)
	}
	return review, nil
}

// ReviewsForMedia returns an item's reviews, shaped by the query.
func (s *ReviewService) ReviewsForMedia(ctx context.Context, mediaID string, q *query.Query) (*query.Result, error) {
	reviews, err := s.store.Reviews.ListByIndex(ctx, "media", mediaID)
	if err != nil {
		return nil, fmt.Errorf("listing reviews: %w", err)
	}
	return query.Run(reviews, q)
}

// ReviewsForUser returns a user's reviews, shaped by the query.
func (s *ReviewService) ReviewsForUser(ctx context.Context, userID string, q *query.Query) (*query.Result, error) {
	reviews, err := s.store.Reviews.ListByIndex(ctx, "user", userID)
	if err != nil {
		return nil, fmt.Errorf("listing reviews: %w", err)
	}
	return query.Run(reviews, q)
}

// recomputeRating recalculates the item's average rating and count from
// all its reviews and writes the summary back onto the media record.
// Failures are logged and swallowed: the rating summary is best-effort
// denormalization and must never fail the review mutation that
// triggered it. Zero reviews resets both fields rather than leaving
// stale values.
func (s *ReviewService) recomputeRating(ctx context.Context, mediaID string) {
	reviews, err := s.store.Reviews.ListByIndex(ctx, "media", mediaID)
	if err != nil {
		s.logger.Error("rating recompute failed to list reviews", "media_id", mediaID, "error", err)
		return
	}

	var average float64
	if len(reviews) > 0 {
		var sum int
		for _, r := range reviews {
			sum += r.Rating
		}
		average = float64(sum) / float64(len(reviews))
	}

	media, err := s.store.GetMedia(ctx, mediaID)
	if err != nil {
		s.logger.Error("rating recompute failed to load media", "media_id", mediaID, "error", err)
		return
	}

	media.AverageRating = average
	media.RatingsCount = len(reviews)
	media.Touch()

	if err := s.store.UpdateMedia(ctx, media); err != nil {
		s.logger.Error("rating recompute failed to update media", "media_id", mediaID, "error", err)
	}
}

func (s *ReviewService) ownedReview(ctx context.Context, userID, reviewID string) (*domain.Review, error) {
	review, err := s.store.Reviews.Get(ctx, reviewID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFoundf("review %s not found", reviewID)
		}
		return nil, fmt.Errorf("getting review: %w", err)
	}
	if review.UserID != userID {
		return nil, domainerrors.Forbidden("you do not own this review")
	}
	return review, nil
}
