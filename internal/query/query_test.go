package query_test

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfdapp/shelfd-server/internal/query"
)

type fixture struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Subtitle  string    `json:"subtitle,omitempty"`
	Tags      []string  `json:"tags,omitempty"`
	PageCount int       `json:"page_count,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func fixtures() []*fixture {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	return []*fixture{
		{ID: "1", Title: "The Go Programming Language", Subtitle: "A Tutorial", Tags: []string{"Fiction"}, PageCount: 380, CreatedAt: base},
		{ID: "2", Title: "Sapiens", Subtitle: "A Brief History of Humankind", Tags: []string{"Fiction", "History"}, PageCount: 443, CreatedAt: base.Add(time.Hour)},
		{ID: "3", Title: "Go in Action", Tags: []string{"History"}, PageCount: 264, CreatedAt: base.Add(2 * time.Hour)},
	}
}

func parse(t *testing.T, raw string) *query.Query {
	t.Helper()
	values, err := url.ParseQuery(raw)
	require.NoError(t, err)
	return query.Parse(values)
}

func TestParse_Defaults(t *testing.T) {
	q := parse(t, "")
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, query.DefaultLimit, q.Limit)
	assert.Equal(t, []query.Sort{{Field: "created_at", Desc: true}}, q.Sorts)
	assert.Empty(t, q.Filters)
}

func TestParse_LimitCap(t *testing.T) {
	q := parse(t, "limit=10000")
	assert.Equal(t, query.MaxLimit, q.Limit)

	q = parse(t, "limit=-5&page=0")
	assert.Equal(t, query.DefaultLimit, q.Limit)
	assert.Equal(t, 1, q.Page)
}

func TestParse_RangeOperators(t *testing.T) {
	q := parse(t, "page_count[gte]=300&page_count[lt]=400")
	require.Len(t, q.Filters, 2)

	ops := map[query.Op]string{}
	for _, f := range q.Filters {
		assert.Equal(t, "page_count", f.Field)
		ops[f.Op] = f.Values[0]
	}
	assert.Equal(t, "300", ops[query.OpGte])
	assert.Equal(t, "400", ops[query.OpLt])
}

func TestRun_ConjunctiveTagFilter(t *testing.T) {
	// Comma-separated multi-value filters require ALL values, not any.
	q := parse(t, "tags=Fiction,History")
	res, err := query.Run(fixtures(), q)
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "2", res.Items[0]["id"])

	// Single value matches every document containing it
	q = parse(t, "tags=History")
	res, err = query.Run(fixtures(), q)
	require.NoError(t, err)
	assert.Len(t, res.Items, 2)
}

func TestRun_TextSearchConjunctiveTokens(t *testing.T) {
	// Every token must appear in title or subtitle, any order, any case.
	q := parse(t, "q=go+language")
	res, err := query.Run(fixtures(), q)
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "1", res.Items[0]["id"])

	// Token matching in subtitle counts
	q = parse(t, "q=brief+sapiens")
	res, err = query.Run(fixtures(), q)
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "2", res.Items[0]["id"])

	// A token matching nothing excludes the document
	q = parse(t, "q=go+nonexistent")
	res, err = query.Run(fixtures(), q)
	require.NoError(t, err)
	assert.Empty(t, res.Items)
}

func TestRun_RangeFilter(t *testing.T) {
	q := parse(t, "page_count[gte]=300&page_count[lte]=443")
	res, err := query.Run(fixtures(), q)
	require.NoError(t, err)
	assert.Len(t, res.Items, 2)
}

func TestRun_SortAndDefaults(t *testing.T) {
	// Default sort is newest-created first
	q := parse(t, "")
	res, err := query.Run(fixtures(), q)
	require.NoError(t, err)
	require.Len(t, res.Items, 3)
	assert.Equal(t, "3", res.Items[0]["id"])
	assert.Equal(t, "1", res.Items[2]["id"])

	// Explicit ascending sort on a numeric field
	q = parse(t, "sort=page_count")
	res, err = query.Run(fixtures(), q)
	require.NoError(t, err)
	assert.Equal(t, "3", res.Items[0]["id"])
	assert.Equal(t, "2", res.Items[2]["id"])

	// Descending with '-' prefix
	q = parse(t, "sort=-page_count")
	res, err = query.Run(fixtures(), q)
	require.NoError(t, err)
	assert.Equal(t, "2", res.Items[0]["id"])
}

func TestRun_Pagination(t *testing.T) {
	q := parse(t, "limit=2&page=1&sort=title")
	res, err := query.Run(fixtures(), q)
	require.NoError(t, err)
	assert.Len(t, res.Items, 2)
	assert.Equal(t, 3, res.Total)

	q = parse(t, "limit=2&page=2&sort=title")
	res, err = query.Run(fixtures(), q)
	require.NoError(t, err)
	assert.Len(t, res.Items, 1)

	// Past the end yields an empty page, not an error
	q = parse(t, "limit=2&page=5")
	res, err = query.Run(fixtures(), q)
	require.NoError(t, err)
	assert.Empty(t, res.Items)
	assert.Equal(t, 3, res.Total)
}

func TestRun_Projection(t *testing.T) {
	q := parse(t, "fields=title")
	res, err := query.Run(fixtures(), q)
	require.NoError(t, err)
	require.NotEmpty(t, res.Items)

	for _, item := range res.Items {
		assert.Contains(t, item, "title")
		assert.Contains(t, item, "id", "identifier always survives projection")
		assert.NotContains(t, item, "page_count")
		assert.NotContains(t, item, "created_at")
	}
}
