package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type DB struct {
	Pool *pgxpool.Pool
}

func New(ctx context.Context, connString string) (*DB, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &DB{Pool: pool}, nil
}

func (db *DB) Close() {
	db.Pool.Close()
}

const schema = `
    CREATE TABLE IF NOT EXISTS rate_limit_windows (
        key      TEXT PRIMARY KEY,
        hits     INTEGER NOT NULL,
        reset_at TIMESTAMPTZ NOT NULL
    );
    CREATE INDEX IF NOT EXISTS rate_limit_windows_reset_at_idx ON rate_limit_windows (reset_at);
`

// Migrate creates the tables used by the service if they do not exist.
func (db *DB) Migrate(ctx context.Context) error {
	if _, err := db.Pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}
