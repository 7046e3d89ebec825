package store_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shelfdapp/shelfd-server/internal/store"
)

type TestEntity struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Owner string `json:"owner"`
}

func setupTestStore(t *testing.T) *store.Store {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "entity-test-*")
	require.NoError(t, err)

	dbPath := filepath.Join(tmpDir, "test.db")
	s, err := store.New(dbPath, nil)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = s.Close()
		_ = os.RemoveAll(tmpDir)
	})

	return s
}

func TestEntity_CreateAndGet(t *testing.T) {
	s := setupTestStore(t)

	entity := store.NewEntity[TestEntity](s, "test:")

	testData := &TestEntity{
		ID:    "1",
		Name:  "John Doe",
		Email: "john@example.com",
	}

	err := entity.Create(context.Background(), "1", testData)
	require.NoError(t, err)

	retrieved, err := entity.Get(context.Background(), "1")
	require.NoError(t, err)
	require.Equal(t, testData.Name, retrieved.Name)
	require.Equal(t, testData.Email, retrieved.Email)
}

func TestEntity_Create_AlreadyExists(t *testing.T) {
	s := setupTestStore(t)

	entity := store.NewEntity[TestEntity](s, "test:")

	testData := &TestEntity{ID: "1", Name: "John Doe"}

	err := entity.Create(context.Background(), "1", testData)
	require.NoError(t, err)

	err = entity.Create(context.Background(), "1", testData)
	require.ErrorIs(t, err, store.ErrAlreadyExists)
}

func TestEntity_Get_NotFound(t *testing.T) {
	s := setupTestStore(t)

	entity := store.NewEntity[TestEntity](s, "test:")

	_, err := entity.Get(context.Background(), "missing")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestEntity_UniqueIndex_Conflict(t *testing.T) {
	s := setupTestStore(t)

	entity := store.NewEntity[TestEntity](s, "test:").
		WithIndex("email", func(e *TestEntity) []string {
			return []string{e.Email}
		})

	err := entity.Create(context.Background(), "1", &TestEntity{ID: "1", Email: "a@example.com"})
	require.NoError(t, err)

	err = entity.Create(context.Background(), "2", &TestEntity{ID: "2", Email: "a@example.com"})
	require.ErrorIs(t, err, store.ErrAlreadyExists)

	// A different value is fine
	err = entity.Create(context.Background(), "2", &TestEntity{ID: "2", Email: "b@example.com"})
	require.NoError(t, err)

	got, err := entity.GetByIndex(context.Background(), "email", "b@example.com")
	require.NoError(t, err)
	require.Equal(t, "2", got.ID)
}

func TestEntity_MultiIndex_AllowsDuplicates(t *testing.T) {
	s := setupTestStore(t)

	entity := store.NewEntity[TestEntity](s, "test:").
		WithMultiIndex("owner", func(e *TestEntity) []string {
			return []string{e.Owner}
		})

	for i := range 3 {
		id := fmt.Sprintf("%d", i)
		err := entity.Create(context.Background(), id, &TestEntity{ID: id, Owner: "usr-1"})
		require.NoError(t, err)
	}
	err := entity.Create(context.Background(), "other", &TestEntity{ID: "other", Owner: "usr-2"})
	require.NoError(t, err)

	results, err := entity.ListByIndex(context.Background(), "owner", "usr-1")
	require.NoError(t, err)
	require.Len(t, results, 3)

	results, err = entity.ListByIndex(context.Background(), "owner", "usr-2")
	require.NoError(t, err)
	require.Len(t, results, 1)
}

func TestEntity_Update_ReindexesMulti(t *testing.T) {
	s := setupTestStore(t)

	entity := store.NewEntity[TestEntity](s, "test:").
		WithMultiIndex("owner", func(e *TestEntity) []string {
			return []string{e.Owner}
		})

	err := entity.Create(context.Background(), "1", &TestEntity{ID: "1", Owner: "usr-1"})
	require.NoError(t, err)

	err = entity.Update(context.Background(), "1", &TestEntity{ID: "1", Owner: "usr-2"})
	require.NoError(t, err)

	results, err := entity.ListByIndex(context.Background(), "owner", "usr-1")
	require.NoError(t, err)
	require.Empty(t, results)

	results, err = entity.ListByIndex(context.Background(), "owner", "usr-2")
	require.NoError(t, err)
	require.Len(t, results, 1)
}

func TestEntity_Delete_CleansIndexes(t *testing.T) {
	s := setupTestStore(t)

	entity := store.NewEntity[TestEntity](s, "test:").
		WithIndex("email", func(e *TestEntity) []string {
			return []string{e.Email}
		}).
		WithMultiIndex("owner", func(e *TestEntity) []string {
			return []string{e.Owner}
		})

	err := entity.Create(context.Background(), "1", &TestEntity{ID: "1", Email: "a@example.com", Owner: "usr-1"})
	require.NoError(t, err)

	err = entity.Delete(context.Background(), "1")
	require.NoError(t, err)

	_, err = entity.GetByIndex(context.Background(), "email", "a@example.com")
	require.ErrorIs(t, err, store.ErrNotFound)

	results, err := entity.ListByIndex(context.Background(), "owner", "usr-1")
	require.NoError(t, err)
	require.Empty(t, results)

	// Deleting again is a no-op
	err = entity.Delete(context.Background(), "1")
	require.NoError(t, err)

	// Email is reusable after deletion
	err = entity.Create(context.Background(), "2", &TestEntity{ID: "2", Email: "a@example.com"})
	require.NoError(t, err)
}

func TestEntity_List(t *testing.T) {
	s := setupTestStore(t)

	entity := store.NewEntity[TestEntity](s, "test:").
		WithIndex("email", func(e *TestEntity) []string {
			return []string{e.Email}
		})

	for i := range 5 {
		id := fmt.Sprintf("%d", i)
		err := entity.Create(context.Background(), id, &TestEntity{ID: id, Email: id + "@example.com"})
		require.NoError(t, err)
	}

	var count int
	for _, err := range entity.List(context.Background()) {
		require.NoError(t, err)
		count++
	}
	require.Equal(t, 5, count)
}

func TestStore_Users_EmailCaseInsensitive(t *testing.T) {
	s := setupTestStore(t)

	ctx := context.Background()
	user := newTestUser("usr-abc", "Alice@Example.COM")

	err := s.Users.Create(ctx, user.ID, user)
	require.NoError(t, err)

	got, err := s.Users.GetByIndex(ctx, "email", "alice@example.com")
	require.NoError(t, err)
	require.Equal(t, user.ID, got.ID)

	// A different casing of the same address conflicts
	dup := newTestUser("usr-def", "ALICE@example.com")
	err = s.Users.Create(ctx, dup.ID, dup)
	require.ErrorIs(t, err, store.ErrAlreadyExists)
}
