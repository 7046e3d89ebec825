package api

import (
	"github.com/danielgtaylor/huma/v2"

	"github.com/shelfdapp/shelfd-server/internal/query"
)

// ListQueryInput captures the full raw query string for list endpoints.
// Filters may name arbitrary record fields, so the parameters cannot be
// enumerated as typed huma fields; the resolver grabs everything.
type ListQueryInput struct {
	query *query.Query
}

// Resolve implements huma.Resolver.
func (i *ListQueryInput) Resolve(ctx huma.Context) []error {
	u := ctx.URL()
	i.query = query.Parse(u.Query())
	return nil
}

// Query returns the parsed list query.
func (i *ListQueryInput) Query() *query.Query {
	return i.query
}

// ListResult is the serialized shape of a query result page.
type ListResult struct {
	Items []query.Document `json:"items" doc:"Matching records, projected if fields was given"`
	Total int              `json:"total" doc:"Total matches before pagination"`
	Page  int              `json:"page" doc:"Current page, 1-based"`
	Limit int              `json:"limit" doc:"Page size"`
}

// ListOutput wraps a query result for huma.
type ListOutput struct {
	Body ListResult
}

func toListOutput(result *query.Result) *ListOutput {
	return &ListOutput{
		Body: ListResult{
			Items: result.Items,
			Total: result.Total,
			Page:  result.Page,
			Limit: result.Limit,
		},
	}
}
