// Package domain contains the core business entities and domain logic for the Shelfd catalogue.
package domain

import "time"

// MediaKind discriminates the two item types in the catalogue.
type MediaKind string

const (
	MediaKindBook  MediaKind = "book"
	MediaKindMovie MediaKind = "movie"
)

// Valid reports whether the kind is a recognized media kind.
func (k MediaKind) Valid() bool {
	return k == MediaKindBook || k == MediaKindMovie
}

// ParseMediaKind converts a string ("book"/"books", "movie"/"movies") into a
// MediaKind. Returns false if the string names no known kind.
func ParseMediaKind(s string) (MediaKind, bool) {
	switch s {
	case "book", "books":
		return MediaKindBook, true
	case "movie", "movies":
		return MediaKindMovie, true
	default:
		return "", false
	}
}

// Media is a catalogue item sourced from an upstream provider.
//
// Items are shared records: they belong to no user, are created exactly once
// per (kind, external id) by the get-or-create resolver, and after creation
// only the denormalized rating summary changes.
type Media struct {
	Record
	Kind       MediaKind `json:"kind"`
	ExternalID string    `json:"external_id"` // Google Books volume ID or TMDB ID; unique per kind

	Title    string `json:"title"`
	Subtitle string `json:"subtitle,omitempty"`

	// Descriptive metadata, provider-shaped where noted.
	Description string    `json:"description,omitempty"`
	Authors     []string  `json:"authors,omitempty"` // books only
	Tags        []string  `json:"tags,omitempty"`    // flattened, deduplicated categories/genres
	ReleaseDate time.Time `json:"release_date,omitzero"`
	Publisher   string    `json:"publisher,omitempty"` // books only
	Language    string    `json:"language,omitempty"`
	CoverURL    string    `json:"cover_url,omitempty"`

	PageCount      int `json:"page_count,omitempty"`      // books only
	RuntimeMinutes int `json:"runtime_minutes,omitempty"` // movies only

	// Denormalized review summary, maintained by rating aggregation.
	AverageRating float64 `json:"average_rating"`
	RatingsCount  int     `json:"ratings_count"`
}

// SearchResult is a hybrid search hit: an upstream result annotated with
// local cache presence. Nothing is persisted during search.
type SearchResult struct {
	// Media holds the normalized upstream data. Media.ID is set only when
	// the item is already cached locally.
	Media Media `json:"media"`

	// IsEnriched is true when a locally persisted item exists for the
	// result's external ID. When false, the external ID is the identifier
	// clients should use for detail and ensure-exists calls.
	IsEnriched bool `json:"is_enriched"`
}
