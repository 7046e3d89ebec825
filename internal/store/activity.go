package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/shelfdapp/shelfd-server/internal/domain"
)

// Activity storage key prefixes.
// Uses inverted timestamps for descending order (newest first) during forward iteration.
const (
	activityPrefix         = "activity:"
	activityIdxTimePrefix  = "activity:idx:time:"
	activityIdxUserPrefix  = "activity:idx:user:"
	activityIdxMediaPrefix = "activity:idx:media:"
)

// invertedTimestamp returns a string that sorts in descending order.
// Uses MaxInt64 - UnixNano to ensure newest timestamps come first during forward iteration.
func invertedTimestamp(t time.Time) string {
	inverted := math.MaxInt64 - t.UnixNano()
	return fmt.Sprintf("%019d", inverted)
}

// CreateActivity stores a new activity with all indexes in a single transaction.
func (s *Store) CreateActivity(ctx context.Context, activity *domain.Activity) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(activity)
	if err != nil {
		return fmt.Errorf("marshaling activity: %w", err)
	}

	invertedTS := invertedTimestamp(activity.CreatedAt)

	return s.db.Update(func(txn *badger.Txn) error {
		// Primary key: activity:{id} → Activity JSON
		primaryKey := []byte(activityPrefix + activity.ID)
		if err := txn.Set(primaryKey, data); err != nil {
			return fmt.Errorf("setting primary key: %w", err)
		}

		// Time index: activity:idx:time:{inverted_timestamp}:{id} → "" (key-only)
		// This allows scanning newest-first without reverse iteration
		timeKey := []byte(activityIdxTimePrefix + invertedTS + ":" + activity.ID)
		if err := txn.Set(timeKey, []byte{}); err != nil {
			return fmt.Errorf("setting time index: %w", err)
		}

		// User index: activity:idx:user:{userId}:{inverted_timestamp}:{id} → ""
		userKey := []byte(activityIdxUserPrefix + activity.UserID + ":" + invertedTS + ":" + activity.ID)
		if err := txn.Set(userKey, []byte{}); err != nil {
			return fmt.Errorf("setting user index: %w", err)
		}

		// Media index (only for media-related activities; follows have none)
		if activity.MediaID != "" {
			mediaKey := []byte(activityIdxMediaPrefix + activity.MediaID + ":" + invertedTS + ":" + activity.ID)
			if err := txn.Set(mediaKey, []byte{}); err != nil {
				return fmt.Errorf("setting media index: %w", err)
			}
		}

		return nil
	})
}

// GetActivity retrieves a single activity by ID.
func (s *Store) GetActivity(ctx context.Context, id string) (*domain.Activity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var activity domain.Activity
	err := s.get([]byte(activityPrefix+id), &activity)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, fmt.Errorf("activity %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("getting activity %s: %w", id, err)
	}

	return &activity, nil
}

// UpdateActivity rewrites an activity's stored record. Only likes and
// comments ever change; CreatedAt is immutable so the time-ordered
// indexes need no maintenance.
func (s *Store) UpdateActivity(ctx context.Context, activity *domain.Activity) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(activity)
	if err != nil {
		return fmt.Errorf("marshaling activity: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		primaryKey := []byte(activityPrefix + activity.ID)
		if _, err := txn.Get(primaryKey); errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("activity %s: %w", activity.ID, ErrNotFound)
		} else if err != nil {
			return fmt.Errorf("checking primary key: %w", err)
		}
		return txn.Set(primaryKey, data)
	})
}

// GetActivitiesFeed retrieves the global activity feed sorted by CreatedAt
// descending, walking the inverted time index. Returns up to 'limit'
// activities; limit <= 0 means the whole stream.
func (s *Store) GetActivitiesFeed(ctx context.Context, limit int) ([]*domain.Activity, error) {
	return s.getIndexedActivities(ctx, activityIdxTimePrefix, limit)
}

// GetUserActivities retrieves activities for a specific user sorted by CreatedAt descending.
func (s *Store) GetUserActivities(ctx context.Context, userID string, limit int) ([]*domain.Activity, error) {
	return s.getIndexedActivities(ctx, activityIdxUserPrefix+userID+":", limit)
}

// GetMediaActivities retrieves activities about a specific item sorted by CreatedAt descending.
func (s *Store) GetMediaActivities(ctx context.Context, mediaID string, limit int) ([]*domain.Activity, error) {
	return s.getIndexedActivities(ctx, activityIdxMediaPrefix+mediaID+":", limit)
}

// GetUsersActivities merges the per-user streams for a set of users into a
// single feed sorted by CreatedAt descending, up to limit. Each user's
// stream is already newest-first, so taking limit from each before the
// merge never drops an item that belongs in the result.
func (s *Store) GetUsersActivities(ctx context.Context, userIDs []string, limit int) ([]*domain.Activity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var merged []*domain.Activity
	for _, userID := range userIDs {
		activities, err := s.GetUserActivities(ctx, userID, limit)
		if err != nil {
			return nil, err
		}
		merged = append(merged, activities...)
	}

	sort.Slice(merged, func(i, j int) bool {
		return merged[i].CreatedAt.After(merged[j].CreatedAt)
	})

	if limit > 0 && len(merged) > limit {
		merged = merged[:limit]
	}
	return merged, nil
}

func (s *Store) getIndexedActivities(ctx context.Context, indexPrefix string, limit int) ([]*domain.Activity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var activities []*domain.Activity
	prefix := []byte(indexPrefix)

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = prefix

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if limit > 0 && len(activities) >= limit {
				break
			}

			key := string(it.Item().Key())
			activityID := extractIDAfter(key, indexPrefix)
			if activityID == "" {
				continue
			}

			activity, err := s.getActivityInTxn(txn, activityID)
			if err != nil {
				continue
			}
			activities = append(activities, activity)
		}

		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("fetching indexed activities: %w", err)
	}

	return activities, nil
}

// getActivityInTxn retrieves an activity within an existing transaction.
func (s *Store) getActivityInTxn(txn *badger.Txn, id string) (*domain.Activity, error) {
	item, err := txn.Get([]byte(activityPrefix + id))
	if err != nil {
		return nil, err
	}

	var activity domain.Activity
	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, &activity)
	})
	if err != nil {
		return nil, err
	}

	return &activity, nil
}

// extractIDAfter extracts the activity ID from an index key of the form
// {prefix}{inverted_ts}:{id}, where the inverted timestamp is 19 digits.
func extractIDAfter(key, prefix string) string {
	if len(key) <= len(prefix)+20 { // 19 digits + colon
		return ""
	}
	return key[len(prefix)+20:]
}
