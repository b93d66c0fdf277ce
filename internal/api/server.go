package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	corslib "github.com/rs/cors"

	"github.com/notesdureal/notes-data/internal/api/handler"
	"github.com/notesdureal/notes-data/internal/cache"
	"github.com/notesdureal/notes-data/internal/config"
	"github.com/notesdureal/notes-data/internal/name"
	"github.com/notesdureal/notes-data/internal/store"
)

// NewRouter creates and configures the Chi router with all middleware and routes.
func NewRouter(s store.Store, appCache *cache.Cache, cfg *config.Config, names *name.Normalizer) *chi.Mux {
	r := chi.NewRouter()

	// --- Middleware stack ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(TimingMiddleware)
	r.Use(middleware.Compress(5)) // gzip

	// CORS
	c := corslib.New(corslib.Options{
		AllowedOrigins:   cfg.CORSAllowOrigins,
		AllowedMethods:   []string{"GET", "HEAD", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Accept-Encoding", "Content-Type", "If-None-Match", "Cache-Control"},
		ExposedHeaders:   []string{"X-Process-Time", "X-Cache", "ETag"},
		AllowCredentials: false,
	})
	r.Use(c.Handler)

	// Rate limiting
	if cfg.RateLimitEnabled {
		r.Use(RateLimitMiddleware(cfg.RateLimitRequests, cfg.RateLimitWindow))
	}

	// --- Handler dependencies ---
	h := handler.New(s, appCache, cfg, names)

	// --- Routes ---

	// Root
	r.Get("/", h.Root)

	// Health checks
	r.Route("/health", func(r chi.Router) {
		r.Get("/", h.HealthCheck)
		r.Get("/store", h.HealthCheckStore)
		r.Get("/cache", h.HealthCheckCache)
	})

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/stats", h.GetStats)
		r.Get("/stats/players/{name}", h.GetPlayerStats)
		r.Get("/competitions", h.GetCompetitions)
	})

	return r
}
