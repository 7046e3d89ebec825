package domain

import "time"

// ActivityType identifies what kind of event an activity records.
type ActivityType string

const (
	ActivityReviewCreated ActivityType = "review_created"
	ActivityEntryCreated  ActivityType = "entry_created"
	ActivityFollowCreated ActivityType = "follow_created"
)

// SubjectKind tags what the activity subject refers to.
type SubjectKind string

const (
	SubjectReview SubjectKind = "review"
	SubjectEntry  SubjectKind = "entry"
	SubjectFollow SubjectKind = "follow"
)

// Subject is a tagged reference to the record an activity is about.
type Subject struct {
	Kind SubjectKind `json:"kind"`
	ID   string      `json:"id"`
}

// Comment is a user comment attached to an activity.
type Comment struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// Activity is an immutable feed event. Likes and Comments are the only
// mutable parts; everything else is fixed at creation time.
type Activity struct {
	ID        string       `json:"id"`
	UserID    string       `json:"user_id"` // actor
	Type      ActivityType `json:"type"`
	Subject   Subject      `json:"subject"`
	MediaID   string       `json:"media_id,omitempty"`
	MediaKind MediaKind    `json:"media_kind,omitempty"`
	Likes     []string     `json:"likes,omitempty"` // user IDs, deduplicated
	Comments  []Comment    `json:"comments,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
}

// LikedBy reports whether the given user has liked this activity.
func (a *Activity) LikedBy(userID string) bool {
	for _, id := range a.Likes {
		if id == userID {
			return true
		}
	}
	return false
}
