package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shelfdapp/shelfd-server/internal/domain"
	domainerrors "github.com/shelfdapp/shelfd-server/internal/errors"
	"github.com/shelfdapp/shelfd-server/internal/id"
	"github.com/shelfdapp/shelfd-server/internal/query"
	"github.com/shelfdapp/shelfd-server/internal/store"
)

// ListService manages user lists and their entries.
type ListService struct {
	store    *store.Store
	media    *MediaService
	activity *ActivityService
	logger   *slog.Logger
}

// NewListService creates a new list service.
func NewListService(store *store.Store, media *MediaService, activity *ActivityService, logger *slog.Logger) *ListService {
	return &ListService{
		store:    store,
		media:    media,
		activity: activity,
		logger:   logger,
	}
}

// CreateDefaultLists bootstraps the two reserved lists for a new user.
// Called once at registration.
func (s *ListService) CreateDefaultLists(ctx context.Context, ownerID string) error {
	for _, kind := range []domain.MediaKind{domain.MediaKindBook, domain.MediaKindMovie} {
		list := &domain.List{
			OwnerID:   ownerID,
			Name:      domain.DefaultListName(kind),
			Kind:      kind,
			IsDefault: true,
		}
		list.ID = id.MustGenerate(id.PrefixList)
		list.InitTimestamps()

		if err := s.store.Lists.Create(ctx, list.ID, list); err != nil {
			return fmt.Errorf("creating default %s list: %w", kind, err)
		}
	}
	return nil
}

// CreateList creates a user-owned list.
func (s *ListService) CreateList(ctx context.Context, ownerID, name string, kind domain.MediaKind, description string, isPublic bool) (*domain.List, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domainerrors.Validation("list name is required")
	}
	if !kind.Valid() {
		return nil, domainerrors.Validationf("invalid media kind %q", kind)
	}

	list := &domain.List{
		OwnerID:     ownerID,
		Name:        name,
		Kind:        kind,
		Description: description,
		IsPublic:    isPublic,
	}
	listID, err := id.Generate(id.PrefixList)
	if err != nil {
		return nil, fmt.Errorf("generating list id: %w", err)
	}
	list.ID = listID
	list.InitTimestamps()

	if err := s.store.Lists.Create(ctx, list.ID, list); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.Conflictf("you already have a list named %q", name)
		}
		return nil, fmt.Errorf("creating list: %w", err)
	}
	return list, nil
}

// GetList fetches a list, enforcing visibility: private lists are visible
// only to their owner.
func (s *ListService) GetList(ctx context.Context, viewerID, listID string) (*domain.List, error) {
	list, err := s.store.Lists.Get(ctx, listID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFoundf("list %s not found", listID)
		}
		return nil, fmt.Errorf("getting list: %w", err)
	}

	if !list.IsPublic && list.OwnerID != viewerID {
		// Hide existence of private lists from non-owners
		return nil, domainerrors.NotFoundf("list %s not found", listID)
	}
	return list, nil
}

// ListUpdate carries the mutable fields of a list. Nil means unchanged.
type ListUpdate struct {
	Name        *string
	Description *string
	IsPublic    *bool
}

// UpdateList applies an update after ownership checks. Default lists
// cannot be renamed.
func (s *ListService) UpdateList(ctx context.Context, ownerID, listID string, update ListUpdate) (*domain.List, error) {
	list, err := s.ownedList(ctx, ownerID, listID)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		if name == "" {
			return nil, domainerrors.Validation("list name is required")
		}
		if list.IsDefault && name != list.Name {
			return nil, domainerrors.Validation("default lists cannot be renamed")
		}
		list.Name = name
	}
	if update.Description != nil {
		list.Description = *update.Description
	}
	if update.IsPublic != nil {
		list.IsPublic = *update.IsPublic
	}
	list.Touch()

	if err := s.store.Lists.Update(ctx, list.ID, list); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.Conflictf("you already have a list named %q", list.Name)
		}
		return nil, fmt.Errorf("updating list: %w", err)
	}
	return list, nil
}

// DeleteList removes a list and its entries. Default lists cannot be
// deleted.
func (s *ListService) DeleteList(ctx context.Context, ownerID, listID string) error {
	list, err := s.ownedList(ctx, ownerID, listID)
	if err != nil {
		return err
	}
	if list.IsDefault {
		return domainerrors.Validation("default lists cannot be deleted")
	}

	entries, err := s.store.Entries.ListByIndex(ctx, "list", listID)
	if err != nil {
		return fmt.Errorf("listing entries for deletion: %w", err)
	}
	for _, entry := range entries {
		if err := s.store.Entries.Delete(ctx, entry.ID); err != nil {
			return fmt.Errorf("deleting entry %s: %w", entry.ID, err)
		}
	}

	if err := s.store.Lists.Delete(ctx, listID); err != nil {
		return fmt.Errorf("deleting list: %w", err)
	}
	return nil
}

// ListsForUser returns a user's lists. The owner sees everything; other
// viewers see public lists only.
func (s *ListService) ListsForUser(ctx context.Context, viewerID, ownerID string, q *query.Query) (*query.Result, error) {
	lists, err := s.store.Lists.ListByIndex(ctx, "owner", ownerID)
	if err != nil {
		return nil, fmt.Errorf("listing lists: %w", err)
	}

	visible := lists[:0]
	for _, list := range lists {
		if list.IsPublic || list.OwnerID == viewerID {
			visible = append(visible, list)
		}
	}
	return query.Run(visible, q)
}

// AddEntry puts an item on a list. The identifier may be local or
// external; external items are catalogued through the resolver first.
// The entry status must belong to the list's media kind.
func (s *ListService) AddEntry(ctx context.Context, userID, listID, identifier string, status domain.EntryStatus) (*domain.LibraryEntry, error) {
	list, err := s.ownedList(ctx, userID, listID)
	if err != nil {
		return nil, err
	}

	if !domain.ValidStatus(list.Kind, status) {
		return nil, domainerrors.Validationf("status %q is not valid for %s entries", status, list.Kind)
	}

	media, err := s.media.EnsureMedia(ctx, list.Kind, identifier)
	if err != nil {
		return nil, err
	}

	entry := &domain.LibraryEntry{
		UserID:    userID,
		ListID:    listID,
		MediaID:   media.ID,
		MediaKind: list.Kind,
		Status:    status,
		AddedAt:   time.Now(),
	}
	entryID, err := id.Generate(id.PrefixEntry)
	if err != nil {
		return nil, fmt.Errorf("generating entry id: %w", err)
	}
	entry.ID = entryID

	if err := s.store.Entries.Create(ctx, entry.ID, entry); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.Conflictf("%q is already on this list", media.Title)
		}
		return nil, fmt.Errorf("creating entry: %w", err)
	}

	// Feed write is best-effort: the entry exists either way
	if err := s.activity.RecordEntryCreated(ctx, entry); err != nil {
		s.logger.Error("failed to record entry activity", "entry_id", entry.ID, "error", err)
	}

	return entry, nil
}

// UpdateEntryStatus changes an entry's progress status.
func (s *ListService) UpdateEntryStatus(ctx context.Context, userID, entryID string, status domain.EntryStatus) (*domain.LibraryEntry, error) {
	entry, err := s.store.Entries.Get(ctx, entryID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFoundf("entry %s not found", entryID)
		}
		return nil, fmt.Errorf("getting entry: %w", err)
	}
	if entry.UserID != userID {
		return nil, domainerrors.Forbidden("you do not own this entry")
	}

	if !domain.ValidStatus(entry.MediaKind, status) {
		return nil, domainerrors.Validationf("status %q is not valid for %s entries", status, entry.MediaKind)
	}

	entry.Status = status
	if err := s.store.Entries.Update(ctx, entry.ID, entry); err != nil {
		return nil, fmt.Errorf("updating entry: %w", err)
	}
	return entry, nil
}

// RemoveEntry deletes an entry from a list after an ownership check.
func (s *ListService) RemoveEntry(ctx context.Context, userID, entryID string) error {
	entry, err := s.store.Entries.Get(ctx, entryID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFoundf("entry %s not found", entryID)
		}
		return fmt.Errorf("getting entry: %w", err)
	}
	if entry.UserID != userID {
		return domainerrors.Forbidden("you do not own this entry")
	}

	if err := s.store.Entries.Delete(ctx, entryID); err != nil {
		return fmt.Errorf("deleting entry: %w", err)
	}
	return nil
}

// ListEntries returns a list's entries, shaped by the query, after the
// same visibility check as GetList.
func (s *ListService) ListEntries(ctx context.Context, viewerID, listID string, q *query.Query) (*query.Result, error) {
	if _, err := s.GetList(ctx, viewerID, listID); err != nil {
		return nil, err
	}

	entries, err := s.store.Entries.ListByIndex(ctx, "list", listID)
	if err != nil {
		return nil, fmt.Errorf("listing entries: %w", err)
	}
	return query.Run(entries, q)
}

// addToDefaultList places reviewed media on the user's default list with
// the kind's finished status. A Conflict (already on the list) is not an
// error here.
func (s *ListService) addToDefaultList(ctx context.Context, userID string, media *domain.Media) error {
	list, err := s.store.Lists.GetByIndex(ctx, "owner_name", store.ListNameKey(userID, domain.DefaultListName(media.Kind)))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("default %s list missing for user %s", media.Kind, userID)
		}
		return fmt.Errorf("finding default list: %w", err)
	}

	entry := &domain.LibraryEntry{
		UserID:    userID,
		ListID:    list.ID,
		MediaID:   media.ID,
		MediaKind: media.Kind,
		Status:    domain.FinishedStatus(media.Kind),
		AddedAt:   time.Now(),
	}
	entryID, err := id.Generate(id.PrefixEntry)
	if err != nil {
		return fmt.Errorf("generating entry id: %w", err)
	}
	entry.ID = entryID

	if err := s.store.Entries.Create(ctx, entry.ID, entry); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil // already on the default list
		}
		return fmt.Errorf("creating default-list entry: %w", err)
	}

	if err := s.activity.RecordEntryCreated(ctx, entry); err != nil {
		s.logger.Error("failed to record entry activity", "entry_id", entry.ID, "error", err)
	}
	return nil
}

func (s *ListService) ownedList(ctx context.Context, ownerID, listID string) (*domain.List, error) {
	list, err := s.store.Lists.Get(ctx, listID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFoundf("list %s not found", listID)
		}
		return nil, fmt.Errorf("getting list: %w", err)
	}
	if list.OwnerID != ownerID {
		return nil, domainerrors.Forbidden("you do not own this list")
	}
	return list, nil
}
