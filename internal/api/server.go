// Package api provides the HTTP API server and handlers for Shelfd.
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/shelfdapp/shelfd-server/internal/ratelimit"
	"github.com/shelfdapp/shelfd-server/internal/store"
	"github.com/shelfdapp/shelfd-server/internal/validation"
)

// Options configures server construction.
type Options struct {
	// CORSOrigins lists the allowed browser origins.
	CORSOrigins []string
	// AuthRateLimiter guards the auth endpoints per client IP. A default
	// limiter is installed when nil.
	AuthRateLimiter *ratelimit.KeyedRateLimiter
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	store    *store.Store
	services *Services
	router   *chi.Mux
	api      huma.API
	logger   *slog.Logger
	validate *validation.Validator

	authRateLimiter *ratelimit.KeyedRateLimiter
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(store *store.Store, services *Services, opts Options, logger *slog.Logger) *Server {
	limiter := opts.AuthRateLimiter
	if limiter == nil {
		limiter = NewAuthRateLimiter(20, time.Minute, 10)
	}

	s := &Server{
		store:           store,
		services:        services,
		router:          chi.NewRouter(),
		logger:          logger,
		validate:        validation.New(),
		authRateLimiter: limiter,
	}

	s.setupMiddleware(opts)
	s.setupAPI()
	s.registerRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// setupMiddleware configures the middleware stack.
func (s *Server) setupMiddleware(opts Options) {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))

	if len(opts.CORSOrigins) > 0 {
		s.router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   opts.CORSOrigins,
			AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	s.router.Use(rateLimitAuthRoutes(s.authRateLimiter, s.logger))
}

// setupAPI creates the huma API on top of the chi router.
func (s *Server) setupAPI() {
	config := huma.DefaultConfig("Shelfd API", "1.0.0")
	config.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "PASETO",
		},
	}
	config.Transformers = append(config.Transformers, EnvelopeTransformer)

	RegisterErrorHandler()
	s.api = humachi.New(s.router, config)
}

// registerRoutes registers all huma operations.
func (s *Server) registerRoutes() {
	s.registerHealthRoutes()
	s.registerAuthRoutes()
	s.registerMediaRoutes()
	s.registerSearchRoutes()
	s.registerListRoutes()
	s.registerReviewRoutes()
	s.registerSocialRoutes()
	s.registerActivityRoutes()
	s.registerUserRoutes()
}
