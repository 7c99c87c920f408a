// Package api provides the HTTP API server and handlers for the BookQuest server.
package api

import (
	"log/slog"
	"net"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/bookquest/bookquest-server/internal/config"
	"github.com/bookquest/bookquest-server/internal/http/response"
	"github.com/bookquest/bookquest-server/internal/ratelimit"
	"github.com/bookquest/bookquest-server/internal/search"
	"github.com/bookquest/bookquest-server/internal/service"
	"github.com/bookquest/bookquest-server/internal/validation"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	recommendations *service.RecommendationService
	library         *service.LibraryService
	metadata        *service.MetadataService
	userData        *service.UserDataService
	searchIndex     *search.Index
	validator       *validation.Validator
	router          *chi.Mux
	logger          *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(
	cfg config.ServerConfig,
	recommendations *service.RecommendationService,
	library *service.LibraryService,
	metadataService *service.MetadataService,
	userData *service.UserDataService,
	searchIndex *search.Index,
	logger *slog.Logger,
) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Server{
		recommendations: recommendations,
		library:         library,
		metadata:        metadataService,
		userData:        userData,
		searchIndex:     searchIndex,
		validator:       validation.New(),
		router:          chi.NewRouter(),
		logger:          logger,
	}

	s.setupMiddleware(cfg)
	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// setupMiddleware configures the middleware stack.
func (s *Server) setupMiddleware(cfg config.ServerConfig) {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Authorization"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	if cfg.RateLimitRPS > 0 {
		s.router.Use(rateLimitMiddleware(ratelimit.New(float64(cfg.RateLimitRPS), cfg.RateLimitBurst), s.logger))
	}
}

// rateLimitMiddleware throttles requests per client address. RealIP runs
// earlier in the stack, so RemoteAddr already reflects the originating client.
func rateLimitMiddleware(limiter *ratelimit.KeyedRateLimiter, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.RemoteAddr
			if host, _, err := net.SplitHostPort(key); err == nil {
				key = host
			}
			if !limiter.Allow(key) {
				response.Error(w, http.StatusTooManyRequests, "too many requests", logger)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	// Health check.
	s.router.Get("/health", s.handleHealthCheck)

	// API v1.
	s.router.Route("/api/v1", func(r chi.Router) {
		// Recommendations.
		r.Get("/recommendations", s.handleGetRecommendations)
		r.Post("/recommendations", s.handlePostRecommendations)
		r.Get("/recommendations/genre/{genre}", s.handleRecommendationsByGenre)
		r.Get("/recommendations/author/{author}", s.handleRecommendationsByAuthor)
		r.Post("/recommendations/hybrid", s.handleHybridRecommendations)

		// Catalog browsing.
		r.Route("/books", func(r chi.Router) {
			r.Get("/popular", s.handlePopularBooks)
			r.Get("/random", s.handleRandomBooks)
			r.Get("/genre/{genre}", s.handleBooksByGenre)
			r.Get("/{title}", s.handleGetBook)
		})
		r.Get("/genres", s.handleListGenres)
		r.Get("/authors", s.handleListAuthors)

		// Full-text catalog search.
		r.Get("/search", s.handleSearch)

		// External metadata lookup.
		r.Get("/metadata", s.handleMetadataLookup)

		// Per-user favorites and ratings.
		r.Route("/users/{userID}", func(r chi.Router) {
			r.Get("/favorites", s.handleListFavorites)
			r.Post("/favorites", s.handleAddFavorite)
			r.Delete("/favorites/{title}", s.handleRemoveFavorite)
			r.Get("/ratings", s.handleListRatings)
			r.Put("/ratings", s.handleSetRating)
		})
	})
}

// queryInt parses an integer query parameter, falling back to def when
// missing or malformed.
func queryInt(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}
