// Package handler provides HTTP handlers for all API endpoints. Handlers
// read the persisted corpora through the store — no service layer. The
// heavy statistics recomputes happen in the ingestion CLI; the API mostly
// serves the stored result with an in-memory cache in front.
package handler

import (
	"net/http"
	"time"

	"github.com/notesdureal/notes-data/internal/api/respond"
	"github.com/notesdureal/notes-data/internal/cache"
	"github.com/notesdureal/notes-data/internal/config"
	"github.com/notesdureal/notes-data/internal/name"
	"github.com/notesdureal/notes-data/internal/store"
)

// Handler holds shared dependencies for all endpoint handlers.
type Handler struct {
	store store.Store
	cache *cache.Cache
	cfg   *config.Config
	names *name.Normalizer
}

// New creates a Handler with shared dependencies.
func New(s store.Store, c *cache.Cache, cfg *config.Config, names *name.Normalizer) *Handler {
	return &Handler{
		store: s,
		cache: c,
		cfg:   cfg,
		names: names,
	}
}

// Root serves API info at /.
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"name":    "Notes du Real API",
		"version": "1.0.0",
		"status":  "running",
		"club":    h.cfg.ClubName,
		"optimizations": []string{
			"in_memory_cache",
			"etag_support",
			"gzip_compression",
		},
	})
}

// HealthCheck returns basic health status.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// HealthCheckStore verifies the storage backend is reachable.
func (h *Handler) HealthCheckStore(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Ping(r.Context()); err != nil {
		respond.WriteJSONObject(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status":    "unhealthy",
			"store":     "unreachable",
			"error":     "Storage backend check failed",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"store":     "reachable",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// HealthCheckCache returns cache statistics.
func (h *Handler) HealthCheckCache(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"cache":     h.cache.Stats(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
