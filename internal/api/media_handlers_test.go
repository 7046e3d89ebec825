package api

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfdapp/shelfd-server/internal/domain"
)

func TestGetMedia_CataloguesOnFirstReference(t *testing.T) {
	ts := setupTestServer(t, Options{})
	authResp := ts.registerAndLogin(t, "media@example.com", "Media")
	ts.seedBook("gbvol1", "The Left Hand of Darkness")

	resp := ts.request(t, http.MethodGet, "/api/v1/media/books/gbvol1", nil, authResp.AccessToken)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	env := decodeEnvelope[domain.Media](t, resp)
	require.True(t, env.Success)
	assert.True(t, strings.HasPrefix(env.Data.ID, "bk-"))
	assert.Equal(t, "gbvol1", env.Data.ExternalID)
	assert.Equal(t, "The Left Hand of Darkness", env.Data.Title)

	// The local ID resolves to the same record.
	resp = ts.request(t, http.MethodGet, "/api/v1/media/books/"+env.Data.ID, nil, authResp.AccessToken)
	require.Equal(t, http.StatusOK, resp.Code)

	again := decodeEnvelope[domain.Media](t, resp)
	assert.Equal(t, env.Data.ID, again.Data.ID)
}

func TestGetMedia_UnknownExternalID(t *testing.T) {
	ts := setupTestServer(t, Options{})
	authResp := ts.registerAndLogin(t, "media404@example.com", "Media")

	resp := ts.request(t, http.MethodGet, "/api/v1/media/books/doesnotexist", nil, authResp.AccessToken)
	assert.Equal(t, http.StatusNotFound, resp.Code)

	env := decodeEnvelope[any](t, resp)
	assert.False(t, env.Success)
}

func TestGetMedia_RequiresAuth(t *testing.T) {
	ts := setupTestServer(t, Options{})
	ts.seedBook("gbvol1", "Dune")

	resp := ts.request(t, http.MethodGet, "/api/v1/media/books/gbvol1", nil, "")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestListMedia_ScopedToKind(t *testing.T) {
	ts := setupTestServer(t, Options{})
	authResp := ts.registerAndLogin(t, "listmedia@example.com", "Media")
	ts.seedBook("gbvol1", "Dune")
	ts.seedMovie("tm550", "Fight Club")

	// Catalogue one of each.
	resp := ts.request(t, http.MethodGet, "/api/v1/media/books/gbvol1", nil, authResp.AccessToken)
	require.Equal(t, http.StatusOK, resp.Code)
	resp = ts.request(t, http.MethodGet, "/api/v1/media/movies/tm550", nil, authResp.AccessToken)
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.request(t, http.MethodGet, "/api/v1/media/books", nil, authResp.AccessToken)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	env := decodeEnvelope[ListResult](t, resp)
	require.True(t, env.Success)
	assert.Equal(t, 1, env.Data.Total)
	require.Len(t, env.Data.Items, 1)
	assert.Equal(t, "Dune", env.Data.Items[0]["title"])
}

func TestMediaActivities_ListsItemEvents(t *testing.T) {
	ts := setupTestServer(t, Options{})
	ana := ts.registerAndLogin(t, "itemfeed@example.com", "Ana")
	ts.seedBook("gbvol1", "Dune")

	// Reviewing emits review_created plus the default-list entry_created,
	// both indexed under the item.
	review := ts.postReview(t, ana.AccessToken, "book", "gbvol1", 8)

	resp := ts.request(t, http.MethodGet, "/api/v1/media/books/"+review.MediaID+"/activities", nil, ana.AccessToken)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	env := decodeEnvelope[ListResult](t, resp)
	require.True(t, env.Success)
	assert.Equal(t, 2, env.Data.Total)
	for _, item := range env.Data.Items {
		assert.Equal(t, review.MediaID, item["media_id"])
	}

	// A book ID under the movies path reads as missing.
	resp = ts.request(t, http.MethodGet, "/api/v1/media/movies/"+review.MediaID+"/activities", nil, ana.AccessToken)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestSearch_MarksEnrichedResults(t *testing.T) {
	ts := setupTestServer(t, Options{})
	authResp := ts.registerAndLogin(t, "search@example.com", "Search")
	ts.seedBook("gbvol1", "Dune")

	// Catalogue gbvol1 so the search hit carries a local ID.
	resp := ts.request(t, http.MethodGet, "/api/v1/media/books/gbvol1", nil, authResp.AccessToken)
	require.Equal(t, http.StatusOK, resp.Code)

	ts.books.searchResults = []domain.Media{
		{Kind: domain.MediaKindBook, ExternalID: "gbvol1", Title: "Dune"},
		{Kind: domain.MediaKindBook, ExternalID: "gbvol2", Title: "Dune Messiah"},
	}
	ts.books.searchTotal = 2

	resp = ts.request(t, http.MethodGet, "/api/v1/search/books?q=dune", nil, authResp.AccessToken)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	env := decodeEnvelope[SearchResponse](t, resp)
	require.True(t, env.Success)
	assert.Equal(t, 2, env.Data.Total)
	require.Len(t, env.Data.Results, 2)

	assert.True(t, env.Data.Results[0].IsEnriched)
	assert.True(t, strings.HasPrefix(env.Data.Results[0].Media.ID, "bk-"))
	assert.False(t, env.Data.Results[1].IsEnriched)
	assert.Empty(t, env.Data.Results[1].Media.ID)
}

func TestSearch_BlankQuery(t *testing.T) {
	ts := setupTestServer(t, Options{})
	authResp := ts.registerAndLogin(t, "blankq@example.com", "Search")

	resp := ts.request(t, http.MethodGet, "/api/v1/search/books?q=+", nil, authResp.AccessToken)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}
