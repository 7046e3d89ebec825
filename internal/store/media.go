package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"
	"iter"
	"strings"

	"github.com/dgraph-io/badger/v4"

	"github.com/shelfdapp/shelfd-server/internal/domain"
)

// Media storage key prefixes. The external index maps a provider identifier
// to the local record, scoped by kind so a numeric TMDB ID can never
// collide with a Google Books volume ID.
const (
	mediaPrefix            = "media:"
	mediaIdxExternalPrefix = "media:idx:external:"
)

func mediaExternalKey(kind domain.MediaKind, externalID string) []byte {
	return []byte(mediaIdxExternalPrefix + string(kind) + ":" + externalID)
}

// CreateMedia stores a new media record and its external-ID index in a
// single transaction. Returns ErrAlreadyExists if the external ID is
// already catalogued for this kind.
func (s *Store) CreateMedia(ctx context.Context, media *domain.Media) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(media)
	if err != nil {
		return fmt.Errorf("marshaling media: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		primaryKey := []byte(mediaPrefix + media.ID)
		if _, err := txn.Get(primaryKey); err == nil {
			return ErrAlreadyExists
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("checking primary key: %w", err)
		}

		extKey := mediaExternalKey(media.Kind, media.ExternalID)
		if _, err := txn.Get(extKey); err == nil {
			return fmt.Errorf("external id %s already catalogued: %w", media.ExternalID, ErrAlreadyExists)
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("checking external index: %w", err)
		}

		if err := txn.Set(primaryKey, data); err != nil {
			return fmt.Errorf("setting primary key: %w", err)
		}
		if err := txn.Set(extKey, []byte(media.ID)); err != nil {
			return fmt.Errorf("setting external index: %w", err)
		}
		return nil
	})
}

// GetMedia retrieves a media record by local ID.
func (s *Store) GetMedia(ctx context.Context, id string) (*domain.Media, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var media domain.Media
	err := s.get([]byte(mediaPrefix+id), &media)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, fmt.Errorf("media %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("getting media %s: %w", id, err)
	}

	return &media, nil
}

// GetMediaByExternalID resolves a provider identifier to the local record.
func (s *Store) GetMediaByExternalID(ctx context.Context, kind domain.MediaKind, externalID string) (*domain.Media, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var media domain.Media
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(mediaExternalKey(kind, externalID))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("getting external index: %w", err)
		}

		var id string
		if err := item.Value(func(val []byte) error {
			id = string(val)
			return nil
		}); err != nil {
			return err
		}

		return s.getMediaInTxn(txn, id, &media)
	})

	if err != nil {
		return nil, err
	}

	return &media, nil
}

// GetMediaByExternalIDs resolves many provider identifiers in one read
// transaction. The result maps external ID to record; missing IDs are
// simply absent, not errors. Used to mark search results already in the
// catalog without one lookup per result.
func (s *Store) GetMediaByExternalIDs(ctx context.Context, kind domain.MediaKind, externalIDs []string) (map[string]*domain.Media, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	found := make(map[string]*domain.Media, len(externalIDs))

	err := s.db.View(func(txn *badger.Txn) error {
		for _, extID := range externalIDs {
			item, err := txn.Get(mediaExternalKey(kind, extID))
			if errors.Is(err, badger.ErrKeyNotFound) {
				continue
			}
			if err != nil {
				return fmt.Errorf("getting external index for %s: %w", extID, err)
			}

			var id string
			if err := item.Value(func(val []byte) error {
				id = string(val)
				return nil
			}); err != nil {
				return err
			}

			var media domain.Media
			if err := s.getMediaInTxn(txn, id, &media); err != nil {
				if errors.Is(err, badger.ErrKeyNotFound) {
					continue // index key outlived the record
				}
				return err
			}
			found[extID] = &media
		}
		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("resolving external ids: %w", err)
	}

	return found, nil
}

// UpdateMedia rewrites an existing media record. The kind and external ID
// are immutable, so the external index never needs maintenance here.
func (s *Store) UpdateMedia(ctx context.Context, media *domain.Media) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(media)
	if err != nil {
		return fmt.Errorf("marshaling media: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		primaryKey := []byte(mediaPrefix + media.ID)
		if _, err := txn.Get(primaryKey); errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("media %s: %w", media.ID, ErrNotFound)
		} else if err != nil {
			return fmt.Errorf("checking primary key: %w", err)
		}

		if err := txn.Set(primaryKey, data); err != nil {
			return fmt.Errorf("setting primary key: %w", err)
		}
		return nil
	})
}

// ListMedia returns an iterator over all media records.
func (s *Store) ListMedia(ctx context.Context) iter.Seq2[*domain.Media, error] {
	return func(yield func(*domain.Media, error) bool) {
		s.db.View(func(txn *badger.Txn) error {
			opts := badger.DefaultIteratorOptions
			opts.Prefix = []byte(mediaPrefix)
			opts.PrefetchValues = true

			it := txn.NewIterator(opts)
			defer it.Close()

			for it.Seek([]byte(mediaPrefix)); it.ValidForPrefix([]byte(mediaPrefix)); it.Next() {
				if ctx.Err() != nil {
					yield(nil, ctx.Err())
					return ctx.Err()
				}

				key := string(it.Item().Key())
				if strings.HasPrefix(key, mediaIdxExternalPrefix) {
					continue
				}

				var media domain.Media
				err := it.Item().Value(func(val []byte) error {
					return json.Unmarshal(val, &media)
				})
				if err != nil {
					yield(nil, err)
					return err
				}

				if !yield(&media, nil) {
					return nil
				}
			}

			return nil
		})
	}
}

func (s *Store) getMediaInTxn(txn *badger.Txn, id string, dest *domain.Media) error {
	item, err := txn.Get([]byte(mediaPrefix + id))
	if err != nil {
		return err
	}
	return item.Value(func(val []byte) error {
		return json.Unmarshal(val, dest)
	})
}
