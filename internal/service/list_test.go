package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfdapp/shelfd-server/internal/domain"
	domainerrors "github.com/shelfdapp/shelfd-server/internal/errors"
	"github.com/shelfdapp/shelfd-server/internal/service"
)

func TestCreateDefaultListsBootstrapsBothKinds(t *testing.T) {
	env := setupEnv(t)
	user := env.seedUser(t, "ana@example.com")

	result, err := env.lists.ListsForUser(context.Background(), user.ID, user.ID, defaultQuery(t, ""))
	require.NoError(t, err)
	require.Equal(t, 2, result.Total)

	names := map[string]bool{}
	for _, item := range result.Items {
		names[item["name"].(string)] = true
	}
	assert.True(t, names[domain.DefaultBookListName])
	assert.True(t, names[domain.DefaultMovieListName])
}

func TestCreateListRejectsDuplicateName(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	user := env.seedUser(t, "ana@example.com")

	_, err := env.lists.CreateList(ctx, user.ID, "Sci-Fi", domain.MediaKindBook, "", true)
	require.NoError(t, err)

	_, err = env.lists.CreateList(ctx, user.ID, "Sci-Fi", domain.MediaKindBook, "", true)
	assert.ErrorIs(t, err, domainerrors.ErrConflict)

	// Same name under a different owner is fine
	other := env.seedUser(t, "ben@example.com")
	_, err = env.lists.CreateList(ctx, other.ID, "Sci-Fi", domain.MediaKindBook, "", true)
	assert.NoError(t, err)
}

func TestPrivateListHiddenFromNonOwners(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	owner := env.seedUser(t, "ana@example.com")
	viewer := env.seedUser(t, "ben@example.com")

	private, err := env.lists.CreateList(ctx, owner.ID, "Secret", domain.MediaKindBook, "", false)
	require.NoError(t, err)

	_, err = env.lists.GetList(ctx, owner.ID, private.ID)
	assert.NoError(t, err)

	_, err = env.lists.GetList(ctx, viewer.ID, private.ID)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)

	_, err = env.lists.ListEntries(ctx, viewer.ID, private.ID, defaultQuery(t, ""))
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestListsForUserFiltersPrivateForOthers(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	owner := env.seedUser(t, "ana@example.com")
	viewer := env.seedUser(t, "ben@example.com")

	_, err := env.lists.CreateList(ctx, owner.ID, "Public Picks", domain.MediaKindBook, "", true)
	require.NoError(t, err)
	_, err = env.lists.CreateList(ctx, owner.ID, "Secret", domain.MediaKindBook, "", false)
	require.NoError(t, err)

	// Owner sees defaults plus both custom lists
	mine, err := env.lists.ListsForUser(ctx, owner.ID, owner.ID, defaultQuery(t, ""))
	require.NoError(t, err)
	assert.Equal(t, 4, mine.Total)

	// Defaults are private, so the viewer sees only the public list
	theirs, err := env.lists.ListsForUser(ctx, viewer.ID, owner.ID, defaultQuery(t, ""))
	require.NoError(t, err)
	require.Equal(t, 1, theirs.Total)
	assert.Equal(t, "Public Picks", theirs.Items[0]["name"])
}

func TestDefaultListsCannotBeDeletedOrRenamed(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	user := env.seedUser(t, "ana@example.com")

	lists, err := env.store.Lists.ListByIndex(ctx, "owner", user.ID)
	require.NoError(t, err)
	require.Len(t, lists, 2)
	def := lists[0]
	require.True(t, def.IsDefault)

	err = env.lists.DeleteList(ctx, user.ID, def.ID)
	assert.ErrorIs(t, err, domainerrors.ErrValidation)

	newName := "Renamed"
	_, err = env.lists.UpdateList(ctx, user.ID, def.ID, service.ListUpdate{Name: &newName})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)

	// Descriptions and visibility on defaults stay editable
	desc := "everything I finished"
	updated, err := env.lists.UpdateList(ctx, user.ID, def.ID, service.ListUpdate{Description: &desc})
	require.NoError(t, err)
	assert.Equal(t, desc, updated.Description)
}

func TestDeleteListRemovesEntries(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	user := env.seedUser(t, "ana@example.com")
	env.seedBook("vol1", "Dune")

	list, err := env.lists.CreateList(ctx, user.ID, "Sci-Fi", domain.MediaKindBook, "", true)
	require.NoError(t, err)

	entry, err := env.lists.AddEntry(ctx, user.ID, list.ID, "vol1", domain.StatusReading)
	require.NoError(t, err)

	require.NoError(t, env.lists.DeleteList(ctx, user.ID, list.ID))

	entries, err := env.store.Entries.ListByIndex(ctx, "list", list.ID)
	require.NoError(t, err)
	assert.Empty(t, entries)

	_, err = env.lists.UpdateEntryStatus(ctx, user.ID, entry.ID, domain.StatusRead)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestAddEntryCataloguesExternalItems(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	user := env.seedUser(t, "ana@example.com")
	env.seedBook("vol1", "Dune")

	list, err := env.lists.CreateList(ctx, user.ID, "Sci-Fi", domain.MediaKindBook, "", true)
	require.NoError(t, err)

	entry, err := env.lists.AddEntry(ctx, user.ID, list.ID, "vol1", domain.StatusWantToRead)
	require.NoError(t, err)

	media, err := env.store.GetMedia(ctx, entry.MediaID)
	require.NoError(t, err)
	assert.Equal(t, "vol1", media.ExternalID)
	assert.Equal(t, domain.MediaKindBook, entry.MediaKind)
}

func TestAddEntryRejectsDuplicateItem(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	user := env.seedUser(t, "ana@example.com")
	env.seedBook("vol1", "Dune")

	list, err := env.lists.CreateList(ctx, user.ID, "Sci-Fi", domain.MediaKindBook, "", true)
	require.NoError(t, err)

	_, err = env.lists.AddEntry(ctx, user.ID, list.ID, "vol1", domain.StatusReading)
	require.NoError(t, err)

	// Same item again, regardless of status or identifier form
	_, err = env.lists.AddEntry(ctx, user.ID, list.ID, "vol1", domain.StatusRead)
	assert.ErrorIs(t, err, domainerrors.ErrConflict)
}

func TestEntryStatusMustMatchListKind(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	user := env.seedUser(t, "ana@example.com")
	env.seedBook("vol1", "Dune")
	env.seedMovie("603", "The Matrix")

	bookList, err := env.lists.CreateList(ctx, user.ID, "Sci-Fi Books", domain.MediaKindBook, "", true)
	require.NoError(t, err)

	// WATCHED is a real status, just not a book status
	_, err = env.lists.AddEntry(ctx, user.ID, bookList.ID, "vol1", domain.StatusWatched)
	assert.ErrorIs(t, err, domainerrors.ErrValidation)

	movieList, err := env.lists.CreateList(ctx, user.ID, "Sci-Fi Films", domain.MediaKindMovie, "", true)
	require.NoError(t, err)

	entry, err := env.lists.AddEntry(ctx, user.ID, movieList.ID, "603", domain.StatusWatching)
	require.NoError(t, err)

	_, err = env.lists.UpdateEntryStatus(ctx, user.ID, entry.ID, domain.StatusRead)
	assert.ErrorIs(t, err, domainerrors.ErrValidation)

	updated, err := env.lists.UpdateEntryStatus(ctx, user.ID, entry.ID, domain.StatusWatched)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusWatched, updated.Status)
}

func TestEntryOwnershipChecks(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	owner := env.seedUser(t, "ana@example.com")
	other := env.seedUser(t, "ben@example.com")
	env.seedBook("vol1", "Dune")

	list, err := env.lists.CreateList(ctx, owner.ID, "Sci-Fi", domain.MediaKindBook, "", true)
	require.NoError(t, err)

	_, err = env.lists.AddEntry(ctx, other.ID, list.ID, "vol1", domain.StatusReading)
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)

	entry, err := env.lists.AddEntry(ctx, owner.ID, list.ID, "vol1", domain.StatusReading)
	require.NoError(t, err)

	_, err = env.lists.UpdateEntryStatus(ctx, other.ID, entry.ID, domain.StatusRead)
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)

	err = env.lists.RemoveEntry(ctx, other.ID, entry.ID)
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)

	require.NoError(t, env.lists.RemoveEntry(ctx, owner.ID, entry.ID))
}

func TestListEntriesFilteredByStatus(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	user := env.seedUser(t, "ana@example.com")
	env.seedBook("vol1", "Dune")
	env.seedBook("vol2", "Dune Messiah")

	list, err := env.lists.CreateList(ctx, user.ID, "Sci-Fi", domain.MediaKindBook, "", true)
	require.NoError(t, err)

	_, err = env.lists.AddEntry(ctx, user.ID, list.ID, "vol1", domain.StatusRead)
	require.NoError(t, err)
	_, err = env.lists.AddEntry(ctx, user.ID, list.ID, "vol2", domain.StatusReading)
	require.NoError(t, err)

	result, err := env.lists.ListEntries(ctx, user.ID, list.ID, defaultQuery(t, "status=READING"))
	require.NoError(t, err)
	require.Equal(t, 1, result.Total)
	assert.Equal(t, "READING", result.Items[0]["status"])
}
