package repository

import (
	"context"
	"time"
)

// RateWindowRepository stores fixed-window hit counters. It satisfies
// ratelimit.Store.
type RateWindowRepository interface {
	Increment(ctx context.Context, key string, window time.Duration) (count int, resetAt time.Time, err error)
	DeleteExpired(ctx context.Context) (int64, error)
}
