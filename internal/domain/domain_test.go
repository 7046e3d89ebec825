package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseMediaKind(t *testing.T) {
	tests := []struct {
		input  string
		want   MediaKind
		wantOK bool
	}{
		{"book", MediaKindBook, true},
		{"books", MediaKindBook, true},
		{"movie", MediaKindMovie, true},
		{"movies", MediaKindMovie, true},
		{"album", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseMediaKind(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidStatus(t *testing.T) {
	// Valid statuses come from the kind's own set.
	assert.True(t, ValidStatus(MediaKindBook, StatusRead))
	assert.True(t, ValidStatus(MediaKindBook, StatusReading))
	assert.True(t, ValidStatus(MediaKindBook, StatusWantToRead))
	assert.True(t, ValidStatus(MediaKindMovie, StatusWatched))
	assert.True(t, ValidStatus(MediaKindMovie, StatusWatching))
	assert.True(t, ValidStatus(MediaKindMovie, StatusWantToWatch))

	// Statuses from the other kind's set are rejected.
	assert.False(t, ValidStatus(MediaKindMovie, StatusRead))
	assert.False(t, ValidStatus(MediaKindBook, StatusWatched))
	assert.False(t, ValidStatus(MediaKindBook, EntryStatus("FINISHED")))
	assert.False(t, ValidStatus(MediaKind("album"), StatusRead))
}

func TestValidRating(t *testing.T) {
	assert.False(t, ValidRating(0))
	assert.True(t, ValidRating(1))
	assert.True(t, ValidRating(10))
	assert.False(t, ValidRating(11))
	assert.False(t, ValidRating(-3))
}

func TestUserIsActive(t *testing.T) {
	u := &User{}
	assert.True(t, u.IsActive(), "empty status treated as active")

	u.Status = UserStatusActive
	assert.True(t, u.IsActive())

	u.Status = UserStatusInactive
	assert.False(t, u.IsActive())
}

func TestActivityLikedBy(t *testing.T) {
	a := &Activity{Likes: []string{"usr-a", "usr-b"}}
	assert.True(t, a.LikedBy("usr-a"))
	assert.False(t, a.LikedBy("usr-c"))

	empty := &Activity{}
	assert.False(t, empty.LikedBy("usr-a"))
}

func TestDefaultListName(t *testing.T) {
	assert.Equal(t, DefaultBookListName, DefaultListName(MediaKindBook))
	assert.Equal(t, DefaultMovieListName, DefaultListName(MediaKindMovie))
}
