package domain

// Default list names created at registration. Defaults cannot be deleted or
// renamed and double as the auto-target for reviews of the matching kind.
const (
	DefaultBookListName  = "My Books"
	DefaultMovieListName = "My Movies"
)

// List is a user-owned, typed collection of library entries.
type List struct {
	Record
	OwnerID     string    `json:"owner_id"`
	Name        string    `json:"name"` // unique per owner
	Kind        MediaKind `json:"kind"` // entries must match this kind
	Description string    `json:"description,omitempty"`
	IsPublic    bool      `json:"is_public"`
	IsDefault   bool      `json:"is_default"`
}

// DefaultListName returns the reserved default list name for a kind.
func DefaultListName(kind MediaKind) string {
	if kind == MediaKindMovie {
		return DefaultMovieListName
	}
	return DefaultBookListName
}
