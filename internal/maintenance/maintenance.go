// Package maintenance runs periodic background tasks as Go tickers. The
// API process is already persistent, so the recompute schedule is driven
// from Go instead of an external cron.
package maintenance

import (
	"context"
	"log/slog"
	"time"

	"github.com/notesdureal/notes-data/internal/cache"
	"github.com/notesdureal/notes-data/internal/name"
	"github.com/notesdureal/notes-data/internal/stats"
	"github.com/notesdureal/notes-data/internal/store"
)

// Config controls maintenance task intervals. Zero duration disables a task.
type Config struct {
	StatsRefreshInterval time.Duration // Full statistics recompute from the stored corpora
}

// Start launches the configured maintenance tickers. Blocks until ctx is
// cancelled. Intended to be called with `go`.
func Start(ctx context.Context, s store.Store, appCache *cache.Cache, names *name.Normalizer, cfg Config, logger *slog.Logger) {
	if cfg.StatsRefreshInterval <= 0 {
		logger.Info("Maintenance disabled, no intervals configured")
		return
	}
	logger.Info("Maintenance tickers started", "stats_refresh", cfg.StatsRefreshInterval)

	t := time.NewTicker(cfg.StatsRefreshInterval)
	defer t.Stop()

	for {
		select {
		case <-t.C:
			refreshStats(ctx, s, appCache, names, logger)
		case <-ctx.Done():
			logger.Info("Maintenance tickers stopped")
			return
		}
	}
}

// refreshStats recomputes the statistics corpus from the stored article and
// FotMob corpora. Picks up corpus updates written by an ingestion run on
// another host when both point at the same backend.
func refreshStats(ctx context.Context, s store.Store, appCache *cache.Cache, names *name.Normalizer, logger *slog.Logger) {
	articles, err := store.LoadArticles(ctx, s)
	if err != nil {
		logger.Warn("Stats refresh: failed to load articles", "error", err)
		return
	}
	matches, err := store.LoadMatches(ctx, s)
	if err != nil {
		logger.Warn("Stats refresh: failed to load matches", "error", err)
		return
	}
	if len(articles) == 0 {
		logger.Info("Stats refresh: empty article corpus, skipping")
		return
	}

	results := stats.Compute(articles, matches, stats.Options{}, names, logger)
	if err := store.SaveStats(ctx, s, results); err != nil {
		logger.Warn("Stats refresh: failed to save statistics", "error", err)
		return
	}
	appCache.Clear()
	logger.Info("Stats refresh: recomputed", "players", len(results), "articles", len(articles), "fotmob_matches", len(matches))
}
