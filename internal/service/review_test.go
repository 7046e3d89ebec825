package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfdapp/shelfd-server/internal/domain"
	domainerrors "github.com/shelfdapp/shelfd-server/internal/errors"
	"github.com/shelfdapp/shelfd-server/internal/store"
)

func TestCreateReviewCataloguesAndRates(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	user := env.seedUser(t, "ana@example.com")
	env.seedBook("vol1", "Dune")

	review, err := env.reviews.CreateReview(ctx, user.ID, domain.MediaKindBook, "vol1", 8, "a classic")
	require.NoError(t, err)
	assert.Equal(t, 8, review.Rating)

	media, err := env.store.GetMedia(ctx, review.MediaID)
	require.NoError(t, err)
	assert.Equal(t, 8.0, media.AverageRating)
	assert.Equal(t, 1, media.RatingsCount)
}

func TestCreateReviewRejectsSecondReviewForSameItem(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	user := env.seedUser(t, "ana@example.com")
	env.seedBook("vol1", "Dune")

	_, err := env.reviews.CreateReview(ctx, user.ID, domain.MediaKindBook, "vol1", 8, "")
	require.NoError(t, err)

	_, err = env.reviews.CreateReview(ctx, user.ID, domain.MediaKindBook, "vol1", 9, "")
	assert.ErrorIs(t, err, domainerrors.ErrConflict)

	// A different user reviewing the same item is fine
	other := env.seedUser(t, "ben@example.com")
	_, err = env.reviews.CreateReview(ctx, other.ID, domain.MediaKindBook, "vol1", 6, "")
	assert.NoError(t, err)
}

func TestCreateReviewValidatesRating(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	user := env.seedUser(t, "ana@example.com")
	env.seedBook("vol1", "Dune")

	for _, rating := range []int{0, 11, -3} {
		_, err := env.reviews.CreateReview(ctx, user.ID, domain.MediaKindBook, "vol1", rating, "")
		assert.ErrorIs(t, err, domainerrors.ErrValidation, "rating %d", rating)
	}
	// Out-of-range ratings never catalogue the item
	assert.Equal(t, 0, env.books.getCalls)
}

func TestRatingSummaryAveragesAllReviews(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	env.seedBook("vol1", "Dune")

	ratings := []int{8, 6, 10}
	var mediaID string
	for i, rating := range ratings {
		user := env.seedUser(t, string(rune('a'+i))+"@example.com")
		review, err := env.reviews.CreateReview(ctx, user.ID, domain.MediaKindBook, "vol1", rating, "")
		require.NoError(t, err)
		mediaID = review.MediaID
	}

	media, err := env.store.GetMedia(ctx, mediaID)
	require.NoError(t, err)
	assert.Equal(t, 8.0, media.AverageRating)
	assert.Equal(t, 3, media.RatingsCount)
}

func TestRatingSummaryRecomputedOnUpdateAndDelete(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	user := env.seedUser(t, "ana@example.com")
	env.seedBook("vol1", "Dune")

	review, err := env.reviews.CreateReview(ctx, user.ID, domain.MediaKindBook, "vol1", 4, "")
	require.NoError(t, err)

	_, err = env.reviews.UpdateReview(ctx, user.ID, review.ID, 10, "changed my mind")
	require.NoError(t, err)

	media, err := env.store.GetMedia(ctx, review.MediaID)
	require.NoError(t, err)
	assert.Equal(t, 10.0, media.AverageRating)

	// Deleting the last review resets the summary instead of leaving stale values
	require.NoError(t, env.reviews.DeleteReview(ctx, user, review.ID))

	media, err = env.store.GetMedia(ctx, review.MediaID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, media.AverageRating)
	assert.Equal(t, 0, media.RatingsCount)
}

func TestCreateReviewAddsItemToDefaultList(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	user := env.seedUser(t, "ana@example.com")
	env.seedMovie("603", "The Matrix")

	review, err := env.reviews.CreateReview(ctx, user.ID, domain.MediaKindMovie, "603", 9, "")
	require.NoError(t, err)

	def, err := env.store.Lists.GetByIndex(ctx, "owner_name", store.ListNameKey(user.ID, domain.DefaultMovieListName))
	require.NoError(t, err)

	entries, err := env.store.Entries.ListByIndex(ctx, "list", def.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, review.MediaID, entries[0].MediaID)
	assert.Equal(t, domain.StatusWatched, entries[0].Status)
}

func TestCreateReviewToleratesItemAlreadyOnDefaultList(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	user := env.seedUser(t, "ana@example.com")
	env.seedBook("vol1", "Dune")

	def, err := env.store.Lists.GetByIndex(ctx, "owner_name", store.ListNameKey(user.ID, domain.DefaultBookListName))
	require.NoError(t, err)

	_, err = env.lists.AddEntry(ctx, user.ID, def.ID, "vol1", domain.StatusReading)
	require.NoError(t, err)

	// The auto-add hits the triple constraint and is quietly skipped
	_, err = env.reviews.CreateReview(ctx, user.ID, domain.MediaKindBook, "vol1", 7, "")
	require.NoError(t, err)

	entries, err := env.store.Entries.ListByIndex(ctx, "list", def.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	// The pre-existing entry's status is untouched
	assert.Equal(t, domain.StatusReading, entries[0].Status)
}

func TestDeleteReviewPermissions(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	author := env.seedUser(t, "ana@example.com")
	other := env.seedUser(t, "ben@example.com")
	admin := env.seedUser(t, "root@example.com")
	admin.Role = domain.RoleAdmin
	require.NoError(t, env.store.Users.Update(ctx, admin.ID, admin))
	env.seedBook("vol1", "Dune")

	review, err := env.reviews.CreateReview(ctx, author.ID, domain.MediaKindBook, "vol1", 8, "")
	require.NoError(t, err)

	err = env.reviews.DeleteReview(ctx, other, review.ID)
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)

	require.NoError(t, env.reviews.DeleteReview(ctx, admin, review.ID))

	_, err = env.reviews.GetReview(ctx, review.ID)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestReviewsForMediaAndUser(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	ana := env.seedUser(t, "ana@example.com")
	ben := env.seedUser(t, "ben@example.com")
	env.seedBook("vol1", "Dune")
	env.seedBook("vol2", "Dune Messiah")

	first, err := env.reviews.CreateReview(ctx, ana.ID, domain.MediaKindBook, "vol1", 8, "")
	require.NoError(t, err)
	_, err = env.reviews.CreateReview(ctx, ana.ID, domain.MediaKindBook, "vol2", 7, "")
	require.NoError(t, err)
	_, err = env.reviews.CreateReview(ctx, ben.ID, domain.MediaKindBook, "vol1", 5, "")
	require.NoError(t, err)

	byMedia, err := env.reviews.ReviewsForMedia(ctx, first.MediaID, defaultQuery(t, ""))
	require.NoError(t, err)
	assert.Equal(t, 2, byMedia.Total)

	byUser, err := env.reviews.ReviewsForUser(ctx, ana.ID, defaultQuery(t, "rating[gte]=8"))
	require.NoError(t, err)
	assert.Equal(t, 1, byUser.Total)
}
