package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/notesdureal/notes-data/internal/config"
	"github.com/notesdureal/notes-data/internal/db"
)

// Open selects a backend from the configuration. The file store is the
// default; Postgres requires DATABASE_URL.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	switch cfg.StorageBackend {
	case config.StoragePostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("storage backend %q requires DATABASE_URL", cfg.StorageBackend)
		}
		pool, err := db.New(ctx, cfg)
		if err != nil {
			return nil, err
		}
		logger.Info("Using Postgres snapshot store")
		return NewPostgresStore(pool), nil
	case config.StorageFile, "":
		logger.Info("Using file store", "dir", cfg.OutputDir)
		return NewFileStore(cfg.OutputDir)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}
