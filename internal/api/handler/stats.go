package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/notesdureal/notes-data/internal/api/respond"
	"github.com/notesdureal/notes-data/internal/cache"
	"github.com/notesdureal/notes-data/internal/stats"
	"github.com/notesdureal/notes-data/internal/store"
)

// GetStats returns the player ranking. Without a competition filter it
// serves the stored precomputed statistics; with one it recomputes from
// the corpora so per-competition means are scoped, not post-filtered.
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	competition := q.Get("competition")
	player := q.Get("player")

	minMatches := 0
	if v := q.Get("min_matches"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			respond.WriteError(w, http.StatusBadRequest, "INVALID_PARAM", "min_matches must be a non-negative integer")
			return
		}
		minMatches = n
	}
	top := 0
	if v := q.Get("top"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			respond.WriteError(w, http.StatusBadRequest, "INVALID_PARAM", "top must be a non-negative integer")
			return
		}
		top = n
	}

	cacheKey := fmt.Sprintf("stats:%s:%s:%d:%d", strings.ToLower(competition), strings.ToLower(player), minMatches, top)
	if data, etag, ok := h.cache.Get(cacheKey); ok {
		if cache.CheckETagMatch(r.Header.Get("If-None-Match"), etag) {
			respond.WriteNotModified(w, etag)
			return
		}
		respond.WriteJSON(w, data, etag, cache.TTLStats, true)
		return
	}

	results, err := h.computeOrLoad(r, competition)
	if err != nil {
		respond.WriteError(w, http.StatusInternalServerError, "STORE_ERROR", "Failed to read statistics")
		return
	}
	results = stats.Filter(results, player)
	results = stats.MinMatches(results, minMatches)
	if top > 0 && top < len(results) {
		results = results[:top]
	}
	if results == nil {
		results = []stats.PlayerStats{}
	}

	data, err := json.Marshal(results)
	if err != nil {
		respond.WriteError(w, http.StatusInternalServerError, "ENCODING_ERROR", "Failed to encode statistics")
		return
	}
	etag := h.cache.Set(cacheKey, data, cache.TTLStats)
	respond.WriteJSON(w, data, etag, cache.TTLStats, false)
}

// GetPlayerStats returns one player's statistics by canonical name,
// case-insensitively. Alias forms resolve through the normalizer, so
// /players/vini and /players/Vinicius%20Jr hit the same record.
func (h *Handler) GetPlayerStats(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "name")
	if raw == "" {
		respond.WriteError(w, http.StatusBadRequest, "MISSING_NAME", "player name is required")
		return
	}
	canonical := h.names.Normalize(raw)
	competition := r.URL.Query().Get("competition")

	cacheKey := fmt.Sprintf("player:%s:%s", strings.ToLower(canonical), strings.ToLower(competition))
	if data, etag, ok := h.cache.Get(cacheKey); ok {
		if cache.CheckETagMatch(r.Header.Get("If-None-Match"), etag) {
			respond.WriteNotModified(w, etag)
			return
		}
		respond.WriteJSON(w, data, etag, cache.TTLStats, true)
		return
	}

	all, err := h.computeOrLoad(r, competition)
	if err != nil {
		respond.WriteError(w, http.StatusInternalServerError, "STORE_ERROR", "Failed to read statistics")
		return
	}
	matched := stats.Filter(all, canonical)
	if len(matched) == 0 {
		respond.WriteError(w, http.StatusNotFound, "NOT_FOUND", "No statistics for "+raw)
		return
	}

	data, err := json.Marshal(matched[0])
	if err != nil {
		respond.WriteError(w, http.StatusInternalServerError, "ENCODING_ERROR", "Failed to encode statistics")
		return
	}
	etag := h.cache.Set(cacheKey, data, cache.TTLStats)
	respond.WriteJSON(w, data, etag, cache.TTLStats, false)
}

// GetCompetitions lists competitions present in the article corpus with
// their match counts.
func (h *Handler) GetCompetitions(w http.ResponseWriter, r *http.Request) {
	cacheKey := "competitions"
	if data, etag, ok := h.cache.Get(cacheKey); ok {
		if cache.CheckETagMatch(r.Header.Get("If-None-Match"), etag) {
			respond.WriteNotModified(w, etag)
			return
		}
		respond.WriteJSON(w, data, etag, cache.TTLListing, true)
		return
	}

	articles, err := store.LoadArticles(r.Context(), h.store)
	if err != nil {
		respond.WriteError(w, http.StatusInternalServerError, "STORE_ERROR", "Failed to read articles")
		return
	}

	data, err := json.Marshal(stats.Competitions(articles))
	if err != nil {
		respond.WriteError(w, http.StatusInternalServerError, "ENCODING_ERROR", "Failed to encode competitions")
		return
	}
	etag := h.cache.Set(cacheKey, data, cache.TTLListing)
	respond.WriteJSON(w, data, etag, cache.TTLListing, false)
}

func (h *Handler) computeOrLoad(r *http.Request, competition string) ([]stats.PlayerStats, error) {
	if competition == "" {
		return store.LoadStats(r.Context(), h.store)
	}
	articles, err := store.LoadArticles(r.Context(), h.store)
	if err != nil {
		return nil, err
	}
	matches, err := store.LoadMatches(r.Context(), h.store)
	if err != nil {
		return nil, err
	}
	return stats.Compute(articles, matches, stats.Options{Competition: competition}, h.names, nil), nil
}
