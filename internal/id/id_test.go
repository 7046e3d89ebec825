package id

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	got, err := Generate(PrefixBook)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(got, "bk-"))
	assert.Len(t, got, len("bk-")+21)
}

func TestGenerate_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for range 100 {
		id := MustGenerate(PrefixMovie)
		assert.False(t, seen[id], "duplicate ID generated: %s", id)
		seen[id] = true
	}
}

func TestIsLocal(t *testing.T) {
	tests := []struct {
		name string
		id   string
		want bool
	}{
		{"generated book id", MustGenerate(PrefixBook), true},
		{"generated movie id", MustGenerate(PrefixMovie), true},
		{"generated user id", MustGenerate(PrefixUser), true},
		{"google books volume id", "zyTCAlFPjgYC", false},
		{"google books volume id with dash-like chars", "s1gVAAAAYAAJ", false},
		{"tmdb numeric id", "550", false},
		{"tmdb long numeric id", "1084736", false},
		{"unknown prefix", "xyz-V1StGXR8_Z5jdHi6BmyTa", false},
		{"known prefix wrong length", "bk-tooshort", false},
		{"known prefix invalid chars", "bk-V1StGXR8 Z5jdHi6B-myT", false},
		{"empty string", "", false},
		{"bare prefix", "bk-", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsLocal(tt.id))
		})
	}
}
