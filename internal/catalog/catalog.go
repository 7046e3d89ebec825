// Package catalog adapts upstream media providers (Google Books, TMDB)
// to a single interface producing normalized Media records.
package catalog

import (
	"context"

	"github.com/shelfdapp/shelfd-server/internal/domain"
)

// Adapter is the provider-neutral surface the resolver and search layers
// consume. Search results are partial records with no local ID attached;
// GetByID returns the fullest record the provider offers.
type Adapter interface {
	Kind() domain.MediaKind
	Search(ctx context.Context, query string, page, pageSize int) ([]domain.Media, int, error)
	GetByID(ctx context.Context, externalID string) (*domain.Media, error)
}

// Registry holds one adapter per media kind.
type Registry struct {
	adapters map[domain.MediaKind]Adapter
}

// NewRegistry builds a registry from the given adapters.
func NewRegistry(adapters ...Adapter) *Registry {
	r := &Registry{adapters: make(map[domain.MediaKind]Adapter, len(adapters))}
	for _, a := range adapters {
		r.adapters[a.Kind()] = a
	}
	return r
}

// For returns the adapter for a kind, or nil if none is registered.
func (r *Registry) For(kind domain.MediaKind) Adapter {
	return r.adapters[kind]
}
