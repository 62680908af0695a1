package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/kitbuilder587/guru-api/internal/repository"
)

type RateWindowRepo struct {
	db *DB
}

func NewRateWindowRepo(db *DB) *RateWindowRepo {
	return &RateWindowRepo{db: db}
}

// Increment bumps the counter for key, opening a new window when the stored
// one has expired. The upsert takes a row lock so concurrent hits serialize.
func (r *RateWindowRepo) Increment(ctx context.Context, key string, window time.Duration) (int, time.Time, error) {
	query := `
        INSERT INTO rate_limit_windows (key, hits, reset_at)
        VALUES ($1, 1, now() + make_interval(secs => $2::double precision / 1000))
        ON CONFLICT (key) DO UPDATE SET
            hits = CASE
                WHEN rate_limit_windows.reset_at <= now() THEN 1
                ELSE rate_limit_windows.hits + 1
            END,
            reset_at = CASE
                WHEN rate_limit_windows.reset_at <= now() THEN EXCLUDED.reset_at
                ELSE rate_limit_windows.reset_at
            END
        RETURNING hits, reset_at
    `

	var (
		hits    int
		resetAt time.Time
	)
	err := r.db.Pool.QueryRow(ctx, query, key, window.Milliseconds()).Scan(&hits, &resetAt)
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("increment rate window: %w", err)
	}

	return hits, resetAt, nil
}

func (r *RateWindowRepo) DeleteExpired(ctx context.Context) (int64, error) {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM rate_limit_windows WHERE reset_at <= now()`)
	if err != nil {
		return 0, fmt.Errorf("delete expired rate windows: %w", err)
	}
	return tag.RowsAffected(), nil
}

var _ repository.RateWindowRepository = (*RateWindowRepo)(nil)
