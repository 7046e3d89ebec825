package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfdapp/shelfd-server/internal/domain"
	domainerrors "github.com/shelfdapp/shelfd-server/internal/errors"
)

func TestFollowRejectsSelf(t *testing.T) {
	env := setupEnv(t)
	user := env.seedUser(t, "ana@example.com")

	_, err := env.social.Follow(context.Background(), user.ID, user.ID)
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestFollowRejectsDuplicateEdge(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	ana := env.seedUser(t, "ana@example.com")
	ben := env.seedUser(t, "ben@example.com")

	_, err := env.social.Follow(ctx, ana.ID, ben.ID)
	require.NoError(t, err)

	_, err = env.social.Follow(ctx, ana.ID, ben.ID)
	assert.ErrorIs(t, err, domainerrors.ErrConflict)

	// The reverse edge is a distinct relationship
	_, err = env.social.Follow(ctx, ben.ID, ana.ID)
	assert.NoError(t, err)
}

func TestFollowHidesInactiveAndMissingUsers(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	ana := env.seedUser(t, "ana@example.com")
	ghost := env.seedUser(t, "ghost@example.com")
	ghost.Status = domain.UserStatusInactive
	require.NoError(t, env.store.Users.Update(ctx, ghost.ID, ghost))

	_, err := env.social.Follow(ctx, ana.ID, ghost.ID)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)

	_, err = env.social.Follow(ctx, ana.ID, "usr-missing")
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestUnfollowMissingEdgeIsNotFound(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	ana := env.seedUser(t, "ana@example.com")
	ben := env.seedUser(t, "ben@example.com")

	// No edge exists yet, so there is nothing to remove.
	err := env.social.Unfollow(ctx, ana.ID, ben.ID)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)

	_, err = env.social.Follow(ctx, ana.ID, ben.ID)
	require.NoError(t, err)

	require.NoError(t, env.social.Unfollow(ctx, ana.ID, ben.ID))

	// The edge is gone, so removing it again misses too.
	err = env.social.Unfollow(ctx, ana.ID, ben.ID)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)

	following, err := env.social.IsFollowing(ctx, ana.ID, ben.ID)
	require.NoError(t, err)
	assert.False(t, following)
}

func TestFollowersAndFollowing(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	ana := env.seedUser(t, "ana@example.com")
	ben := env.seedUser(t, "ben@example.com")
	cara := env.seedUser(t, "cara@example.com")

	_, err := env.social.Follow(ctx, ben.ID, ana.ID)
	require.NoError(t, err)
	_, err = env.social.Follow(ctx, cara.ID, ana.ID)
	require.NoError(t, err)
	_, err = env.social.Follow(ctx, ana.ID, ben.ID)
	require.NoError(t, err)

	followers, err := env.social.Followers(ctx, ana.ID)
	require.NoError(t, err)
	assert.Len(t, followers, 2)

	following, err := env.social.Following(ctx, ana.ID)
	require.NoError(t, err)
	require.Len(t, following, 1)
	assert.Equal(t, ben.ID, following[0].ID)
}

func TestUnfollowRepeatedlyAfterRefollow(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	ana := env.seedUser(t, "ana@example.com")
	ben := env.seedUser(t, "ben@example.com")

	// The edge index must be reusable after deletion
	_, err := env.social.Follow(ctx, ana.ID, ben.ID)
	require.NoError(t, err)
	require.NoError(t, env.social.Unfollow(ctx, ana.ID, ben.ID))

	_, err = env.social.Follow(ctx, ana.ID, ben.ID)
	require.NoError(t, err)

	following, err := env.social.IsFollowing(ctx, ana.ID, ben.ID)
	require.NoError(t, err)
	assert.True(t, following)
}
