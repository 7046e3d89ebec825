package domain

// Rating bounds for reviews.
const (
	MinRating = 1
	MaxRating = 10
)

// Review is a user's rating and optional text for an item.
// One review per (user, media) pair.
type Review struct {
	Record
	UserID    string    `json:"user_id"`
	MediaID   string    `json:"media_id"`
	MediaKind MediaKind `json:"media_kind"`
	Rating    int       `json:"rating"` // 1-10
	Text      string    `json:"text,omitempty"`
}

// ValidRating reports whether r is within the allowed rating range.
func ValidRating(r int) bool {
	return r >= MinRating && r <= MaxRating
}
