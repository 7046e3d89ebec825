// Package id generates prefixed NanoID identifiers and classifies
// identifier strings as local or external.
package id

import (
	"fmt"
	"strings"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Entity prefixes. Every locally generated ID carries one of these,
// which is what makes local IDs distinguishable from external catalog IDs.
const (
	PrefixUser     = "usr"
	PrefixBook     = "bk"
	PrefixMovie    = "mv"
	PrefixList     = "list"
	PrefixEntry    = "ent"
	PrefixReview   = "rev"
	PrefixFollow   = "fol"
	PrefixActivity = "act"
	PrefixComment  = "cmt"
	PrefixSession  = "sess"
	PrefixToken    = "token"
)

// nanoidLength is the default NanoID length (21 URL-safe characters).
const nanoidLength = 21

// Generate creates a prefixed unique ID using NanoID
// Format: prefix-nanoid (e.g., "bk-V1StGXR8_Z5jdHi6B-myT")
//
// NanoIDs are URL-friendly, compact (21 characters vs UUID's 36),
// and use a larger alphabet for better entropy per character.
//
// Returns an error if the system has insufficient entropy for secure random generation.
func Generate(prefix string) (string, error) {
	id, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return prefix + "-" + id, nil
}

// MustGenerate is like Generate but panics if ID generation fails.
// Use this only when failure should crash the program (e.g., during seeding).
func MustGenerate(prefix string) string {
	id, err := Generate(prefix)
	if err != nil {
		panic(fmt.Sprintf("failed to generate ID: %v", err))
	}
	return id
}

// knownPrefixes is the set of prefixes this server generates.
var knownPrefixes = map[string]bool{
	PrefixUser:     true,
	PrefixBook:     true,
	PrefixMovie:    true,
	PrefixList:     true,
	PrefixEntry:    true,
	PrefixReview:   true,
	PrefixFollow:   true,
	PrefixActivity: true,
	PrefixComment:  true,
	PrefixSession:  true,
	PrefixToken:    true,
}

// IsLocal reports whether s has the shape of a locally generated ID:
// a known prefix, a dash, and exactly 21 NanoID alphabet characters.
//
// External catalog identifiers never collide with this shape: Google Books
// volume IDs are ~12 alphanumerics with no structural dash, and TMDB IDs
// are purely numeric. If either the ID scheme or an upstream provider is
// swapped, this policy must be re-validated.
func IsLocal(s string) bool {
	prefix, rest, ok := strings.Cut(s, "-")
	if !ok || !knownPrefixes[prefix] {
		return false
	}
	if len(rest) != nanoidLength {
		return false
	}
	for i := range len(rest) {
		if !isNanoIDChar(rest[i]) {
			return false
		}
	}
	return true
}

// isNanoIDChar reports whether c belongs to the default NanoID alphabet
// (A-Za-z0-9_-).
func isNanoIDChar(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	case c == '_' || c == '-':
		return true
	default:
		return false
	}
}
