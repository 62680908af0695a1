package ratelimit

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// StatsEvent is one limiter decision.
type StatsEvent struct {
	Key     string
	Allowed bool
	Method  string
	Path    string
	At      time.Time
}

// StatsRecorder persists decisions. Callers treat it as best effort.
type StatsRecorder interface {
	Record(ctx context.Context, ev StatsEvent) error
}

// RedisStats keeps allowed/denied counters in redis hashes: a cumulative
// total, one hash per minute and one field pair per route. Per-key counters
// are off by default to keep cardinality bounded.
type RedisStats struct {
	rdb       *redis.Client
	prefix    string
	ttl       time.Duration
	trackKeys bool
}

type RedisStatsOption func(*RedisStats)

func WithStatsPrefix(prefix string) RedisStatsOption {
	return func(s *RedisStats) { s.prefix = strings.Trim(prefix, ":") }
}

func WithStatsTTL(d time.Duration) RedisStatsOption {
	return func(s *RedisStats) { s.ttl = d }
}

func WithStatsTrackKeys(track bool) RedisStatsOption {
	return func(s *RedisStats) { s.trackKeys = track }
}

func NewRedisStats(rdb *redis.Client, opts ...RedisStatsOption) *RedisStats {
	s := &RedisStats{
		rdb:    rdb,
		prefix: "guru:ratelimit:stats",
		ttl:    24 * time.Hour,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RedisStats) Record(ctx context.Context, ev StatsEvent) error {
	if s == nil || s.rdb == nil {
		return nil
	}

	at := ev.At
	if at.IsZero() {
		at = time.Now()
	}

	field := "denied"
	if ev.Allowed {
		field = "allowed"
	}

	pipe := s.rdb.Pipeline()
	pipe.HIncrBy(ctx, s.prefix+":total", field, 1)

	minuteKey := fmt.Sprintf("%s:minute:%s", s.prefix, at.UTC().Format("200601021504"))
	pipe.HIncrBy(ctx, minuteKey, field, 1)
	if s.ttl > 0 {
		pipe.Expire(ctx, minuteKey, s.ttl)
	}

	if route := strings.TrimSpace(ev.Method + " " + ev.Path); route != "" {
		pipe.HIncrBy(ctx, s.prefix+":route", route+":"+field, 1)
	}

	if s.trackKeys && ev.Key != "" {
		keyKey := s.prefix + ":key:" + ev.Key
		pipe.HIncrBy(ctx, keyKey, field, 1)
		if s.ttl > 0 {
			pipe.Expire(ctx, keyKey, s.ttl)
		}
	}

	_, err := pipe.Exec(ctx)
	return err
}
