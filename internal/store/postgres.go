package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/notesdureal/notes-data/internal/db"
)

// PostgresStore keeps each corpus as one jsonb row. The upsert replaces
// the whole document in a single statement, so readers never observe a
// half-written corpus.
type PostgresStore struct {
	pool *db.Pool
}

// NewPostgresStore wraps an existing connection pool.
func NewPostgresStore(pool *db.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Load reads a corpus snapshot, (nil, nil) when none was ever saved.
func (p *PostgresStore) Load(ctx context.Context, corpus string) ([]byte, error) {
	var data []byte
	err := p.pool.QueryRow(ctx, "snapshot_get", corpus).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Save upserts a corpus snapshot.
func (p *PostgresStore) Save(ctx context.Context, corpus string, data []byte) error {
	_, err := p.pool.Exec(ctx, "snapshot_put", corpus, data)
	return err
}

// Ping verifies database connectivity.
func (p *PostgresStore) Ping(ctx context.Context) error {
	return p.pool.HealthCheck(ctx)
}

// Close releases the pool.
func (p *PostgresStore) Close() {
	p.pool.Close()
}
