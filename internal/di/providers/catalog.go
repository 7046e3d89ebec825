package providers

import (
	"github.com/samber/do/v2"

	"github.com/shelfdapp/shelfd-server/internal/catalog"
	"github.com/shelfdapp/shelfd-server/internal/catalog/googlebooks"
	"github.com/shelfdapp/shelfd-server/internal/catalog/tmdb"
	"github.com/shelfdapp/shelfd-server/internal/config"
	"github.com/shelfdapp/shelfd-server/internal/logger"
)

// GoogleBooksClientHandle wraps the Google Books client with Shutdownable.
type GoogleBooksClientHandle struct {
	*googlebooks.Client
}

// Shutdown implements do.Shutdownable.
func (h *GoogleBooksClientHandle) Shutdown() error {
	h.Close()
	return nil
}

// ProvideGoogleBooksClient provides the Google Books API client.
func ProvideGoogleBooksClient(i do.Injector) (*GoogleBooksClientHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	var opts []googlebooks.Option
	if cfg.Catalog.GoogleBooksAPIKey != "" {
		opts = append(opts, googlebooks.WithAPIKey(cfg.Catalog.GoogleBooksAPIKey))
	}
	if cfg.Catalog.GoogleBooksBaseURL != "" {
		opts = append(opts, googlebooks.WithBaseURL(cfg.Catalog.GoogleBooksBaseURL))
	}

	return &GoogleBooksClientHandle{Client: googlebooks.New(log.Logger, opts...)}, nil
}

// TMDBClientHandle wraps the TMDB client with Shutdownable.
type TMDBClientHandle struct {
	*tmdb.Client
}

// Shutdown implements do.Shutdownable.
func (h *TMDBClientHandle) Shutdown() error {
	h.Close()
	return nil
}

// ProvideTMDBClient provides the TMDB API client.
func ProvideTMDBClient(i do.Injector) (*TMDBClientHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if cfg.Catalog.TMDBAPIKey == "" {
		log.Warn("TMDB API key not configured, movie lookups will fail upstream")
	}

	var opts []tmdb.Option
	if cfg.Catalog.TMDBBaseURL != "" {
		opts = append(opts, tmdb.WithBaseURL(cfg.Catalog.TMDBBaseURL))
	}

	return &TMDBClientHandle{Client: tmdb.New(log.Logger, cfg.Catalog.TMDBAPIKey, opts...)}, nil
}

// ProvideCatalogRegistry provides the kind-indexed adapter registry.
func ProvideCatalogRegistry(i do.Injector) (*catalog.Registry, error) {
	books := do.MustInvoke[*GoogleBooksClientHandle](i)
	movies := do.MustInvoke[*TMDBClientHandle](i)

	return catalog.NewRegistry(
		catalog.NewBookAdapter(books.Client),
		catalog.NewMovieAdapter(movies.Client),
	), nil
}
