package googlebooks

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := New(nil, WithBaseURL(srv.URL))
	t.Cleanup(c.Close)
	return c
}

func TestSearch_Normalizes(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/volumes", r.URL.Path)
		assert.Equal(t, "golang", r.URL.Query().Get("q"))
		assert.Equal(t, "0", r.URL.Query().Get("startIndex"))

		fmt.Fprint(w, `{
			"totalItems": 2,
			"items": [
				{
					"id": "zyTCAlFPjgYC",
					"volumeInfo": {
						"title": "The Go Programming Language",
						"subtitle": "A Tutorial",
						"description": "<p>A <b>great</b> book.</p>",
						"authors": ["Alan Donovan", "Brian Kernighan"],
						"categories": ["Computers / Programming", "Computers / Languages"],
						"publisher": "Addison-Wesley",
						"publishedDate": "2015-11-16",
						"language": "en",
						"pageCount": 380,
						"imageLinks": {"thumbnail": "http://img/thumb.jpg"}
					}
				},
				{
					"id": "abc",
					"volumeInfo": {"title": "Other"}
				}
			]
		}`)
	})

	page, err := c.Search(context.Background(), "golang", 1, 20)
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, 2, page.TotalItems)

	v := page.Items[0]
	assert.Equal(t, "zyTCAlFPjgYC", v.ID)
	assert.Equal(t, "The Go Programming Language", v.Title)
	assert.NotContains(t, v.Description, "<p>", "HTML converted to markdown")
	assert.Contains(t, v.Description, "great")
	// Nested category paths flatten and deduplicate
	assert.Equal(t, []string{"Computers", "Programming", "Languages"}, v.Categories)
	assert.Equal(t, "http://img/thumb.jpg", v.CoverURL)
	assert.Equal(t, 380, v.PageCount)
}

func TestSearch_ClampRetryOnEmptyBoundaryPage(t *testing.T) {
	var calls int
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		switch calls {
		case 1:
			// Boundary quirk: positive total, empty items
			assert.Equal(t, "20", r.URL.Query().Get("maxResults"))
			fmt.Fprint(w, `{"totalItems": 3, "items": []}`)
		case 2:
			// Retry clamps maxResults to the reported total
			assert.Equal(t, "3", r.URL.Query().Get("maxResults"))
			fmt.Fprint(w, `{"totalItems": 3, "items": [
				{"id": "a", "volumeInfo": {"title": "A"}},
				{"id": "b", "volumeInfo": {"title": "B"}},
				{"id": "c", "volumeInfo": {"title": "C"}}
			]}`)
		default:
			t.Error("search retried more than once")
		}
	})

	page, err := c.Search(context.Background(), "rare query", 1, 20)
	require.NoError(t, err)
	assert.Equal(t, 2, calls, "exactly one retry")
	assert.Len(t, page.Items, 3)
}

func TestSearch_NoRetryWhenGenuinelyEmpty(t *testing.T) {
	var calls int
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		fmt.Fprint(w, `{"totalItems": 0, "items": []}`)
	})

	page, err := c.Search(context.Background(), "no results", 1, 20)
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Empty(t, page.Items)
}

func TestSearch_EmptyQuery(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected for empty query")
	})

	_, err := c.Search(context.Background(), "   ", 1, 20)
	require.Error(t, err)
}

func TestGetVolume_NotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := c.GetVolume(context.Background(), "missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestGetVolume_UpstreamStatusPropagated(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := c.GetVolume(context.Background(), "zyTCAlFPjgYC")
	require.Error(t, err)

	var upstream *UpstreamError
	require.True(t, errors.As(err, &upstream))
	assert.Equal(t, http.StatusServiceUnavailable, upstream.Status)
}

func TestGetVolume_Success(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/volumes/zyTCAlFPjgYC", r.URL.Path)
		fmt.Fprint(w, `{"id": "zyTCAlFPjgYC", "volumeInfo": {"title": "The Go Programming Language", "pageCount": 380}}`)
	})

	v, err := c.GetVolume(context.Background(), "zyTCAlFPjgYC")
	require.NoError(t, err)
	assert.Equal(t, "The Go Programming Language", v.Title)
}

func TestFlattenCategories(t *testing.T) {
	tags := flattenCategories([]string{
		"Fiction / Thrillers / Suspense",
		"Fiction",
		"fiction / Crime",
	})
	assert.Equal(t, []string{"Fiction", "Thrillers", "Suspense", "Crime"}, tags)
}
