package domain

import "time"

// EntryStatus tracks a user's progress with an item. The valid set depends
// on the entry's media kind.
type EntryStatus string

const (
	StatusRead       EntryStatus = "READ"
	StatusReading    EntryStatus = "READING"
	StatusWantToRead EntryStatus = "WANT_TO_READ"

	StatusWatched     EntryStatus = "WATCHED"
	StatusWatching    EntryStatus = "WATCHING"
	StatusWantToWatch EntryStatus = "WANT_TO_WATCH"
)

// statusesByKind is the explicit lookup table for the kind-dependent status
// enumeration. Cross-field rule: an entry's status must come from its kind's
// set, so READ on a movie entry is invalid even though READ is a valid status.
var statusesByKind = map[MediaKind][]EntryStatus{
	MediaKindBook:  {StatusRead, StatusReading, StatusWantToRead},
	MediaKindMovie: {StatusWatched, StatusWatching, StatusWantToWatch},
}

// ValidStatus reports whether status is allowed for the given kind.
func ValidStatus(kind MediaKind, status EntryStatus) bool {
	for _, s := range statusesByKind[kind] {
		if s == status {
			return true
		}
	}
	return false
}

// FinishedStatus returns the "completed" status for a kind, used when a
// review auto-adds the item to the user's default list.
func FinishedStatus(kind MediaKind) EntryStatus {
	if kind == MediaKindMovie {
		return StatusWatched
	}
	return StatusRead
}

// LibraryEntry is the join record placing an item on a user's list.
// The (user, list, media) triple is unique.
type LibraryEntry struct {
	ID        string      `json:"id"`
	UserID    string      `json:"user_id"`
	ListID    string      `json:"list_id"`
	MediaID   string      `json:"media_id"`
	MediaKind MediaKind   `json:"media_kind"`
	Status    EntryStatus `json:"status"`
	AddedAt   time.Time   `json:"added_at"`
}
