// Package query translates untrusted request parameters into filter, sort,
// projection and pagination directives, and executes them against JSON
// document representations. Parsing is a pure translation step with no I/O;
// execution happens over records the caller already loaded.
package query

import (
	"net/url"
	"strconv"
	"strings"
)

// Pagination defaults. Limit is capped so a caller cannot request an
// unbounded result set.
const (
	DefaultLimit = 100
	MaxLimit     = 500
	DefaultPage  = 1
)

// Reserved parameter names stripped from filters.
var reservedKeys = map[string]bool{
	"page":   true,
	"limit":  true,
	"sort":   true,
	"fields": true,
	"q":      true,
}

// Op is a filter comparison operator.
type Op string

const (
	// OpContainsAll matches when the document field (scalar or array)
	// contains every one of the filter's values. Multi-valued filters
	// are conjunctive, not disjunctive.
	OpContainsAll Op = "all"
	OpGte         Op = "gte"
	OpGt          Op = "gt"
	OpLte         Op = "lte"
	OpLt          Op = "lt"
)

// Filter is a single field condition.
type Filter struct {
	Field  string
	Op     Op
	Values []string
}

// Sort is a single ordering directive.
type Sort struct {
	Field string
	Desc  bool
}

// Query is the parsed, executable form of a list request.
type Query struct {
	Filters      []Filter
	SearchTokens []string
	Sorts        []Sort
	Fields       []string
	Page         int
	Limit        int
}

// Offset returns the number of records to skip for the requested page.
func (q *Query) Offset() int {
	return (q.Page - 1) * q.Limit
}

// Parse translates URL query parameters into a Query. Unknown keys become
// filters; reserved keys (page, limit, sort, fields, q) control pagination,
// ordering, projection and text search. Never returns an error: malformed
// numeric parameters fall back to defaults rather than failing the request.
func Parse(values url.Values) *Query {
	q := &Query{
		Page:  DefaultPage,
		Limit: DefaultLimit,
	}

	for key, vals := range values {
		if len(vals) == 0 {
			continue
		}
		if reservedKeys[key] {
			continue
		}

		field, op := splitOperator(key)
		if op != OpContainsAll {
			// Range operators take a single value; extras are ignored
			q.Filters = append(q.Filters, Filter{Field: field, Op: op, Values: vals[:1]})
			continue
		}

		// Repeated parameters and comma-separated values both expand
		// into a conjunctive value set.
		var all []string
		for _, v := range vals {
			for _, part := range strings.Split(v, ",") {
				if part = strings.TrimSpace(part); part != "" {
					all = append(all, part)
				}
			}
		}
		if len(all) > 0 {
			q.Filters = append(q.Filters, Filter{Field: field, Op: OpContainsAll, Values: all})
		}
	}

	// Text search: whitespace-split tokens, each required somewhere in the
	// title or subtitle, in any order.
	if raw := strings.TrimSpace(values.Get("q")); raw != "" {
		for _, tok := range strings.Fields(raw) {
			q.SearchTokens = append(q.SearchTokens, strings.ToLower(tok))
		}
	}

	q.Sorts = parseSorts(values.Get("sort"))

	if raw := strings.TrimSpace(values.Get("fields")); raw != "" {
		for _, f := range strings.Split(raw, ",") {
			if f = strings.TrimSpace(f); f != "" {
				q.Fields = append(q.Fields, f)
			}
		}
	}

	if page, err := strconv.Atoi(values.Get("page")); err == nil && page > 0 {
		q.Page = page
	}
	if limit, err := strconv.Atoi(values.Get("limit")); err == nil && limit > 0 {
		q.Limit = min(limit, MaxLimit)
	}

	return q
}

// splitOperator parses "field[gte]" style keys into field and operator.
// Keys without a recognized bracket suffix are containment filters.
func splitOperator(key string) (string, Op) {
	open := strings.IndexByte(key, '[')
	if open <= 0 || !strings.HasSuffix(key, "]") {
		return key, OpContainsAll
	}

	field := key[:open]
	switch Op(key[open+1 : len(key)-1]) {
	case OpGte:
		return field, OpGte
	case OpGt:
		return field, OpGt
	case OpLte:
		return field, OpLte
	case OpLt:
		return field, OpLt
	default:
		return key, OpContainsAll
	}
}

// parseSorts parses a comma-separated sort list where a leading '-' means
// descending. Default ordering is newest-created first.
func parseSorts(raw string) []Sort {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []Sort{{Field: "created_at", Desc: true}}
	}

	var sorts []Sort
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if strings.HasPrefix(part, "-") {
			sorts = append(sorts, Sort{Field: part[1:], Desc: true})
		} else {
			sorts = append(sorts, Sort{Field: part})
		}
	}
	if len(sorts) == 0 {
		return []Sort{{Field: "created_at", Desc: true}}
	}
	return sorts
}
