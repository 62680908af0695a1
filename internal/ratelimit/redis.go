package ratelimit

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// The first INCR of a window sets its expiry, so later hits never move it.
var incrementScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
	redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return {current, redis.call("PTTL", KEYS[1])}
`)

type RedisStore struct {
	rdb    *redis.Client
	prefix string
}

type RedisOption func(*RedisStore)

func WithKeyPrefix(prefix string) RedisOption {
	return func(s *RedisStore) { s.prefix = strings.Trim(prefix, ":") }
}

func NewRedisStore(rdb *redis.Client, opts ...RedisOption) *RedisStore {
	s := &RedisStore{
		rdb:    rdb,
		prefix: "guru:ratelimit",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RedisStore) Increment(ctx context.Context, key string, d time.Duration) (int, time.Time, error) {
	now := time.Now()

	vals, err := incrementScript.Run(ctx, s.rdb, []string{s.prefix + ":" + key}, d.Milliseconds()).Int64Slice()
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("redis increment: %w", err)
	}
	if len(vals) != 2 {
		return 0, time.Time{}, fmt.Errorf("redis increment: unexpected reply %v", vals)
	}

	ttl := time.Duration(vals[1]) * time.Millisecond
	if ttl < 0 {
		ttl = d
	}

	return int(vals[0]), now.Add(ttl), nil
}
