package store

import (
	"encoding/json/v2"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dgraph-io/badger/v4"

	"github.com/shelfdapp/shelfd-server/internal/domain"
)

// Store wraps a Badger database instance.
type Store struct {
	db     *badger.DB
	logger *slog.Logger

	// Generic entities
	Users    *Entity[domain.User]
	Lists    *Entity[domain.List]
	Entries  *Entity[domain.LibraryEntry]
	Reviews  *Entity[domain.Review]
	Follows  *Entity[domain.Follow]
	Sessions *Entity[domain.Session]
}

// New creates a new Store instance with the given database path.
func New(path string, logger *slog.Logger) (*Store, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil            // Disable Badger's internal logging
	opts.SyncWrites = true       // Ensure writes are synced to disk to prevent corruption on crashes
	opts.CompactL0OnClose = true // Compact L0 tables on close for faster startup

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db: %w", err)
	}

	store := &Store{
		db:     db,
		logger: logger,
	}

	store.initUsers()
	store.initLists()
	store.initEntries()
	store.initReviews()
	store.initFollows()
	store.initSessions()

	if logger != nil {
		logger.Info("Badger database opened successfully", "path", path)
	}

	return store, nil
}

// Close gracefully closes the database connection.
func (s *Store) Close() error {
	if s.logger != nil {
		s.logger.Info("Closing database connection")
	}
	return s.db.Close()
}

// Helper methods for database operations.

// get retrieves a value by key.
func (s *Store) get(key []byte, dest any) error {
	return s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, dest)
		})
	})
}

// set stores a value by key.
func (s *Store) set(key []byte, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, data)
	})
}

// delete removes a key from the database.
func (s *Store) delete(key []byte) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(key)
	})
}

// exists checks if a key exists.
func (s *Store) exists(key []byte) (bool, error) {
	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(key)
		return err
	})

	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// normalizeEmail lowercases and trims an email for case-insensitive lookup.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// initUsers initializes the Users entity on the store.
// Uses case-insensitive email indexing via normalizeEmail transformation.
func (s *Store) initUsers() {
	s.Users = NewEntity[domain.User](s, "user:").
		WithIndexTransform("email",
			func(u *domain.User) []string {
				return []string{normalizeEmail(u.Email)}
			},
			normalizeEmail,
		)
}

// initLists initializes the Lists entity on the store.
// The name index is unique per owner, so the key embeds the owner ID.
func (s *Store) initLists() {
	s.Lists = NewEntity[domain.List](s, "list:").
		WithIndex("owner_name", func(l *domain.List) []string {
			return []string{l.OwnerID + ":" + strings.ToLower(l.Name)}
		}).
		WithMultiIndex("owner", func(l *domain.List) []string {
			return []string{l.OwnerID}
		})
}

// ListNameKey builds the composite value for the Lists owner_name index.
func ListNameKey(ownerID, name string) string {
	return ownerID + ":" + strings.ToLower(name)
}

// initEntries initializes the Entries entity on the store.
// The triple index enforces one entry per (user, list, media); the list
// and user multi indexes serve the listing queries.
func (s *Store) initEntries() {
	s.Entries = NewEntity[domain.LibraryEntry](s, "entry:").
		WithIndex("triple", func(en *domain.LibraryEntry) []string {
			return []string{en.UserID + ":" + en.ListID + ":" + en.MediaID}
		}).
		WithMultiIndex("list", func(en *domain.LibraryEntry) []string {
			return []string{en.ListID}
		}).
		WithMultiIndex("user", func(en *domain.LibraryEntry) []string {
			return []string{en.UserID}
		})
}

// EntryTripleKey builds the composite value for the Entries triple index.
func EntryTripleKey(userID, listID, mediaID string) string {
	return userID + ":" + listID + ":" + mediaID
}

// initReviews initializes the Reviews entity on the store.
// The pair index enforces one review per (user, media).
func (s *Store) initReviews() {
	s.Reviews = NewEntity[domain.Review](s, "review:").
		WithIndex("pair", func(r *domain.Review) []string {
			return []string{r.UserID + ":" + r.MediaID}
		}).
		WithMultiIndex("user", func(r *domain.Review) []string {
			return []string{r.UserID}
		}).
		WithMultiIndex("media", func(r *domain.Review) []string {
			return []string{r.MediaID}
		})
}

// ReviewPairKey builds the composite value for the Reviews pair index.
func ReviewPairKey(userID, mediaID string) string {
	return userID + ":" + mediaID
}

// initFollows initializes the Follows entity on the store.
// The edge index enforces one follow per (follower, followee); the
// follower and followee multi indexes serve the two directions of listing.
func (s *Store) initFollows() {
	s.Follows = NewEntity[domain.Follow](s, "follow:").
		WithIndex("edge", func(f *domain.Follow) []string {
			return []string{f.FollowerID + ":" + f.FolloweeID}
		}).
		WithMultiIndex("follower", func(f *domain.Follow) []string {
			return []string{f.FollowerID}
		}).
		WithMultiIndex("followee", func(f *domain.Follow) []string {
			return []string{f.FolloweeID}
		})
}

// FollowEdgeKey builds the composite value for the Follows edge index.
func FollowEdgeKey(followerID, followeeID string) string {
	return followerID + ":" + followeeID
}

// initSessions initializes the Sessions entity on the store.
func (s *Store) initSessions() {
	s.Sessions = NewEntity[domain.Session](s, "session:").
		WithIndex("token", func(sess *domain.Session) []string {
			return []string{sess.RefreshTokenHash}
		}).
		WithMultiIndex("user", func(sess *domain.Session) []string {
			return []string{sess.UserID}
		})
}
