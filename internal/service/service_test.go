package service_test

import (
	"context"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shelfdapp/shelfd-server/internal/catalog"
	"github.com/shelfdapp/shelfd-server/internal/domain"
	domainerrors "github.com/shelfdapp/shelfd-server/internal/errors"
	"github.com/shelfdapp/shelfd-server/internal/id"
	"github.com/shelfdapp/shelfd-server/internal/logger"
	"github.com/shelfdapp/shelfd-server/internal/query"
	"github.com/shelfdapp/shelfd-server/internal/service"
	"github.com/shelfdapp/shelfd-server/internal/store"
)

// fakeAdapter is an in-memory catalog.Adapter for tests.
type fakeAdapter struct {
	kind domain.MediaKind

	// items by external ID, served by GetByID
	items map[string]domain.Media

	// canned search response
	searchResults []domain.Media
	searchTotal   int

	getCalls    int
	searchCalls int
	err         error
}

func (f *fakeAdapter) Kind() domain.MediaKind { return f.kind }

func (f *fakeAdapter) Search(_ context.Context, _ string, _, _ int) ([]domain.Media, int, error) {
	f.searchCalls++
	if f.err != nil {
		return nil, 0, f.err
	}
	return f.searchResults, f.searchTotal, nil
}

func (f *fakeAdapter) GetByID(_ context.Context, externalID string) (*domain.Media, error) {
	f.getCalls++
	if f.err != nil {
		return nil, f.err
	}
	item, ok := f.items[externalID]
	if !ok {
		return nil, domainerrors.NotFound("not found in catalog")
	}
	return &item, nil
}

type env struct {
	store    *store.Store
	books    *fakeAdapter
	movies   *fakeAdapter
	media    *service.MediaService
	search   *service.SearchService
	lists    *service.ListService
	reviews  *service.ReviewService
	social   *service.SocialService
	activity *service.ActivityService
	users    *service.UserService
}

func setupEnv(t *testing.T) *env {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "service-test-*")
	require.NoError(t, err)

	s, err := store.New(filepath.Join(tmpDir, "db"), nil)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = s.Close()
		_ = os.RemoveAll(tmpDir)
	})

	books := &fakeAdapter{kind: domain.MediaKindBook, items: map[string]domain.Media{}}
	movies := &fakeAdapter{kind: domain.MediaKindMovie, items: map[string]domain.Media{}}
	registry := catalog.NewRegistry(books, movies)

	log := logger.Discard()

	media := service.NewMediaService(s, registry, log.Logger)
	activity := service.NewActivityService(s, log.Logger)
	lists := service.NewListService(s, media, activity, log.Logger)
	reviews := service.NewReviewService(s, media, lists, activity, log.Logger)
	social := service.NewSocialService(s, activity, log.Logger)
	users := service.NewUserService(s, social, log.Logger)
	search := service.NewSearchService(s, registry, log.Logger)

	return &env{
		store:    s,
		books:    books,
		movies:   movies,
		media:    media,
		search:   search,
		lists:    lists,
		reviews:  reviews,
		social:   social,
		activity: activity,
		users:    users,
	}
}

// seedUser creates a user with bootstrapped default lists.
func (e *env) seedUser(t *testing.T, email string) *domain.User {
	t.Helper()
	ctx := context.Background()

	user := &domain.User{
		Email:       email,
		DisplayName: "User " + email,
		Role:        domain.RoleMember,
		Status:      domain.UserStatusActive,
	}
	user.ID = id.MustGenerate(id.PrefixUser)
	user.InitTimestamps()

	require.NoError(t, e.store.Users.Create(ctx, user.ID, user))
	require.NoError(t, e.lists.CreateDefaultLists(ctx, user.ID))
	return user
}

// seedBook registers an external book with the fake adapter.
func (e *env) seedBook(externalID, title string) {
	e.books.items[externalID] = domain.Media{
		Kind:       domain.MediaKindBook,
		ExternalID: externalID,
		Title:      title,
	}
}

// seedMovie registers an external movie with the fake adapter.
func (e *env) seedMovie(externalID, title string) {
	e.movies.items[externalID] = domain.Media{
		Kind:       domain.MediaKindMovie,
		ExternalID: externalID,
		Title:      title,
	}
}

// defaultQuery parses an empty parameter set.
func defaultQuery(t *testing.T, raw string) *query.Query {
	t.Helper()
	values, err := url.ParseQuery(raw)
	require.NoError(t, err)
	return query.Parse(values)
}
