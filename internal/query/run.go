package query

import (
	"encoding/json/v2"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Document is the generic JSON-map form a record takes during query
// execution. Field names follow the record's JSON tags.
type Document = map[string]any

// Result is one page of executed query output.
type Result struct {
	Items []Document `json:"items"`
	Total int        `json:"total"`
	Page  int        `json:"page"`
	Limit int        `json:"limit"`
}

// Run executes a parsed query over a slice of records: filter, text match,
// sort, paginate, project, in that order. Total reflects the count after
// filtering but before pagination.
func Run[T any](records []*T, q *Query) (*Result, error) {
	docs := make([]Document, 0, len(records))
	for _, rec := range records {
		doc, err := toDocument(rec)
		if err != nil {
			return nil, err
		}
		if !matches(doc, q) {
			continue
		}
		docs = append(docs, doc)
	}

	sortDocuments(docs, q.Sorts)

	total := len(docs)
	start := q.Offset()
	if start > total {
		start = total
	}
	end := min(start+q.Limit, total)
	page := docs[start:end]

	if len(q.Fields) > 0 {
		for i, doc := range page {
			page[i] = project(doc, q.Fields)
		}
	}

	return &Result{
		Items: page,
		Total: total,
		Page:  q.Page,
		Limit: q.Limit,
	}, nil
}

func toDocument(rec any) (Document, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("marshaling record: %w", err)
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("unmarshaling record: %w", err)
	}
	return doc, nil
}

func matches(doc Document, q *Query) bool {
	for _, f := range q.Filters {
		if !matchFilter(doc, f) {
			return false
		}
	}

	if len(q.SearchTokens) > 0 {
		haystack := strings.ToLower(asString(doc["title"]) + " " + asString(doc["subtitle"]))
		for _, tok := range q.SearchTokens {
			if !strings.Contains(haystack, tok) {
				return false
			}
		}
	}

	return true
}

func matchFilter(doc Document, f Filter) bool {
	val, ok := doc[f.Field]
	if !ok || val == nil {
		return false
	}

	switch f.Op {
	case OpContainsAll:
		return containsAll(val, f.Values)
	default:
		return compareRange(val, f.Op, f.Values[0])
	}
}

// containsAll requires every filter value to be present. Array fields must
// contain each value as an element; a scalar field can only satisfy a
// single-value filter by equality.
func containsAll(val any, wanted []string) bool {
	if arr, ok := val.([]any); ok {
		for _, w := range wanted {
			found := false
			for _, elem := range arr {
				if strings.EqualFold(asString(elem), w) {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		}
		return true
	}

	if len(wanted) != 1 {
		return false
	}
	return strings.EqualFold(asString(val), wanted[0])
}

func compareRange(val any, op Op, bound string) bool {
	cmp, ok := compareValues(val, bound)
	if !ok {
		return false
	}

	switch op {
	case OpGte:
		return cmp >= 0
	case OpGt:
		return cmp > 0
	case OpLte:
		return cmp <= 0
	case OpLt:
		return cmp < 0
	default:
		return false
	}
}

// compareValues compares a document value against a raw filter bound.
// Numbers compare numerically; everything else falls back to string
// comparison, which also orders RFC 3339 timestamps correctly.
func compareValues(val any, bound string) (int, bool) {
	if num, ok := asNumber(val); ok {
		boundNum, err := strconv.ParseFloat(bound, 64)
		if err != nil {
			return 0, false
		}
		switch {
		case num < boundNum:
			return -1, true
		case num > boundNum:
			return 1, true
		default:
			return 0, true
		}
	}

	return strings.Compare(asString(val), bound), true
}

func sortDocuments(docs []Document, sorts []Sort) {
	if len(sorts) == 0 {
		return
	}

	sort.SliceStable(docs, func(i, j int) bool {
		for _, s := range sorts {
			cmp := compareDocValues(docs[i][s.Field], docs[j][s.Field])
			if cmp == 0 {
				continue
			}
			if s.Desc {
				return cmp > 0
			}
			return cmp < 0
		}
		return false
	})
}

func compareDocValues(a, b any) int {
	aNum, aOK := asNumber(a)
	bNum, bOK := asNumber(b)
	if aOK && bOK {
		switch {
		case aNum < bNum:
			return -1
		case aNum > bNum:
			return 1
		default:
			return 0
		}
	}
	return strings.Compare(asString(a), asString(b))
}

func project(doc Document, fields []string) Document {
	out := make(Document, len(fields)+1)
	// The identifier always survives projection
	if id, ok := doc["id"]; ok {
		out["id"] = id
	}
	for _, f := range fields {
		if v, ok := doc[f]; ok {
			out[f] = v
		}
	}
	return out
}

func asString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprintf("%v", t)
	}
}

func asNumber(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	default:
		return 0, false
	}
}
