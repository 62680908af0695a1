// Package ratelimit implements a fixed-window request counter per client
// identity. Counting is delegated to a Store so the same Limiter runs against
// process memory, redis or postgres.
package ratelimit

import (
	"context"
	"fmt"
	"math"
	"time"
)

const (
	DefaultLimit  = 4
	DefaultWindow = time.Minute
)

// Store atomically counts a hit for key in the current window. A window starts
// with the first hit for a key and lasts exactly window; the returned resetAt
// is when the counter goes back to zero.
type Store interface {
	Increment(ctx context.Context, key string, window time.Duration) (count int, resetAt time.Time, err error)
}

type Config struct {
	Limit  int
	Window time.Duration
}

type Limiter struct {
	store  Store
	limit  int
	window time.Duration
}

type Result struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// RetryAfter is the time left until the window resets, rounded up to a whole
// second for the Retry-After header.
func (r Result) RetryAfter(now time.Time) time.Duration {
	d := r.ResetAt.Sub(now)
	if d <= 0 {
		return 0
	}
	return time.Duration(math.Ceil(d.Seconds())) * time.Second
}

func New(store Store, cfg Config) *Limiter {
	if cfg.Limit <= 0 {
		cfg.Limit = DefaultLimit
	}
	if cfg.Window <= 0 {
		cfg.Window = DefaultWindow
	}

	return &Limiter{
		store:  store,
		limit:  cfg.Limit,
		window: cfg.Window,
	}
}

func (l *Limiter) Limit() int {
	return l.limit
}

func (l *Limiter) Window() time.Duration {
	return l.window
}

// Allow - считаем запрос и проверяем, влезает ли он в окно.
// Отклонённые тоже считаются, но окно не сдвигают.
func (l *Limiter) Allow(ctx context.Context, key string) (Result, error) {
	count, resetAt, err := l.store.Increment(ctx, key, l.window)
	if err != nil {
		return Result{Allowed: true, Limit: l.limit, Remaining: l.limit}, fmt.Errorf("rate limit store: %w", err)
	}

	remaining := l.limit - count
	if remaining < 0 {
		remaining = 0
	}

	return Result{
		Allowed:   count <= l.limit,
		Limit:     l.limit,
		Remaining: remaining,
		ResetAt:   resetAt,
	}, nil
}
