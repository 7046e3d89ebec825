package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/shelfdapp/shelfd-server/internal/domain"
	domainerrors "github.com/shelfdapp/shelfd-server/internal/errors"
	"github.com/shelfdapp/shelfd-server/internal/service"
)

func (s *Server) registerListRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "createList",
		Method:      http.MethodPost,
		Path:        "/api/v1/lists",
		Summary:     "Create list",
		Description: "Creates a named list of one media kind. List names are unique per owner.",
		Tags:        []string{"Lists"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateList)

	huma.Register(s.api, huma.Operation{
		OperationID: "getList",
		Method:      http.MethodGet,
		Path:        "/api/v1/lists/{id}",
		Summary:     "Get list",
		Description: "Returns a list. Private lists are visible only to their owner.",
		Tags:        []string{"Lists"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetList)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateList",
		Method:      http.MethodPatch,
		Path:        "/api/v1/lists/{id}",
		Summary:     "Update list",
		Description: "Updates a list's name, description or visibility. Default lists cannot be renamed.",
		Tags:        []string{"Lists"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateList)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteList",
		Method:      http.MethodDelete,
		Path:        "/api/v1/lists/{id}",
		Summary:     "Delete list",
		Description: "Deletes a list and its entries. Default lists cannot be deleted.",
		Tags:        []string{"Lists"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteList)

	huma.Register(s.api, huma.Operation{
		OperationID: "listEntries",
		Method:      http.MethodGet,
		Path:        "/api/v1/lists/{id}/entries",
		Summary:     "List entries",
		Description: "Returns a list's entries, shaped by filter, sort and pagination parameters",
		Tags:        []string{"Lists"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListEntries)

	huma.Register(s.api, huma.Operation{
		OperationID: "addEntry",
		Method:      http.MethodPost,
		Path:        "/api/v1/lists/{id}/entries",
		Summary:     "Add entry",
		Description: "Puts an item on a list. External identifiers are catalogued on first reference. An item can appear once per list.",
		Tags:        []string{"Lists"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleAddEntry)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateEntry",
		Method:      http.MethodPatch,
		Path:        "/api/v1/lists/{id}/entries/{entryID}",
		Summary:     "Update entry status",
		Description: "Changes an entry's progress status. The status must belong to the list's media kind.",
		Tags:        []string{"Lists"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateEntry)

	huma.Register(s.api, huma.Operation{
		OperationID: "removeEntry",
		Method:      http.MethodDelete,
		Path:        "/api/v1/lists/{id}/entries/{entryID}",
		Summary:     "Remove entry",
		Description: "Removes an entry from a list",
		Tags:        []string{"Lists"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleRemoveEntry)
}

// === DTOs ===

// CreateListRequest is the request body for creating a list.
type CreateListRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=100" doc:"List name, unique per owner"`
	Kind        string `json:"kind" enum:"book,movie" doc:"Media kind the list holds"`
	Description string `json:"description,omitempty" validate:"omitempty,max=1000" doc:"Optional description"`
	IsPublic    bool   `json:"is_public,omitempty" doc:"Whether the list is publicly visible"`
}

// CreateListInput wraps the create request for huma.
type CreateListInput struct {
	Authorization string `header:"Authorization"`
	Body          CreateListRequest
}

// ListIDInput identifies a list.
type ListIDInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"List ID"`
}

// UpdateListRequest is the request body for updating a list.
// Omitted fields are left unchanged.
type UpdateListRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=100" doc:"New name"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=1000" doc:"New description"`
	IsPublic    *bool   `json:"is_public,omitempty" doc:"New visibility"`
}

// UpdateListInput wraps the update request for huma.
type UpdateListInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"List ID"`
	Body          UpdateListRequest
}

// ListEntriesInput contains parameters for listing a list's entries.
type ListEntriesInput struct {
	ListQueryInput
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"List ID"`
}

// AddEntryRequest is the request body for adding an entry.
type AddEntryRequest struct {
	Identifier string `json:"identifier" validate:"required" doc:"Local media ID or upstream catalog ID"`
	Status     string `json:"status" validate:"required" doc:"Progress status, must match the list's kind"`
}

// AddEntryInput wraps the add request for huma.
type AddEntryInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"List ID"`
	Body          AddEntryRequest
}

// UpdateEntryRequest is the request body for changing an entry's status.
type UpdateEntryRequest struct {
	Status string `json:"status" validate:"required" doc:"New progress status"`
}

// UpdateEntryInput wraps the entry update for huma.
type UpdateEntryInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"List ID"`
	EntryID       string `path:"entryID" doc:"Entry ID"`
	Body          UpdateEntryRequest
}

// EntryPathInput identifies an entry on a list.
type EntryPathInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"List ID"`
	EntryID       string `path:"entryID" doc:"Entry ID"`
}

// ListResponseOutput wraps a list record for huma.
type ListResponseOutput struct {
	Body *domain.List
}

// EntryOutput wraps a library entry for huma.
type EntryOutput struct {
	Body *domain.LibraryEntry
}

// === Handlers ===

func (s *Server) handleCreateList(ctx context.Context, input *CreateListInput) (*ListResponseOutput, error) {
	user, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.validate.Validate(input.Body); err != nil {
		return nil, err
	}

	kind, ok := domain.ParseMediaKind(input.Body.Kind)
	if !ok {
		return nil, domainerrors.Validationf("invalid media kind %q", input.Body.Kind)
	}

	list, err := s.services.Lists.CreateList(ctx, user.ID, input.Body.Name, kind, input.Body.Description, input.Body.IsPublic)
	if err != nil {
		return nil, err
	}
	return &ListResponseOutput{Body: list}, nil
}

func (s *Server) handleGetList(ctx context.Context, input *ListIDInput) (*ListResponseOutput, error) {
	user, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	list, err := s.services.Lists.GetList(ctx, user.ID, input.ID)
	if err != nil {
		return nil, err
	}
	return &ListResponseOutput{Body: list}, nil
}

func (s *Server) handleUpdateList(ctx context.Context, input *UpdateListInput) (*ListResponseOutput, error) {
	user, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.validate.Validate(input.Body); err != nil {
		return nil, err
	}

	list, err := s.services.Lists.UpdateList(ctx, user.ID, input.ID, service.ListUpdate{
		Name:        input.Body.Name,
		Description: input.Body.Description,
		IsPublic:    input.Body.IsPublic,
	})
	if err != nil {
		return nil, err
	}
	return &ListResponseOutput{Body: list}, nil
}

func (s *Server) handleDeleteList(ctx context.Context, input *ListIDInput) (*MessageOutput, error) {
	user, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.services.Lists.DeleteList(ctx, user.ID, input.ID); err != nil {
		return nil, err
	}
	return &MessageOutput{Body: MessageResponse{Message: "List deleted"}}, nil
}

func (s *Server) handleListEntries(ctx context.Context, input *ListEntriesInput) (*ListOutput, error) {
	user, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	result, err := s.services.Lists.ListEntries(ctx, user.ID, input.ID, input.Query())
	if err != nil {
		return nil, err
	}
	return toListOutput(result), nil
}

func (s *Server) handleAddEntry(ctx context.Context, input *AddEntryInput) (*EntryOutput, error) {
	user, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.validate.Validate(input.Body); err != nil {
		return nil, err
	}

	entry, err := s.services.Lists.AddEntry(ctx, user.ID, input.ID, input.Body.Identifier, domain.EntryStatus(input.Body.Status))
	if err != nil {
		return nil, err
	}
	return &EntryOutput{Body: entry}, nil
}

func (s *Server) handleUpdateEntry(ctx context.Context, input *UpdateEntryInput) (*EntryOutput, error) {
	user, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	entry, err := s.services.Lists.UpdateEntryStatus(ctx, user.ID, input.EntryID, domain.EntryStatus(input.Body.Status))
	if err != nil {
		return nil, err
	}
	return &EntryOutput{Body: entry}, nil
}

func (s *Server) handleRemoveEntry(ctx context.Context, input *EntryPathInput) (*MessageOutput, error) {
	user, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.services.Lists.RemoveEntry(ctx, user.ID, input.EntryID); err != nil {
		return nil, err
	}
	return &MessageOutput{Body: MessageResponse{Message: "Entry removed"}}, nil
}
