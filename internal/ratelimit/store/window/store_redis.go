package window

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"hamon/internal/ratelimit/models"
)

// fixedWindowScript performs the fixed-window step atomically inside Redis.
// KEYS[1] window hash; ARGV: now (unix ms), window (ms), max requests.
// Returns {allowed, count, window_start_ms}.
var fixedWindowScript = redis.NewScript(`
local fields = redis.call('HMGET', KEYS[1], 'count', 'start')
local count = tonumber(fields[1])
local start = tonumber(fields[2])
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local max = tonumber(ARGV[3])

if count == nil or start == nil or now - start >= window then
  redis.call('HSET', KEYS[1], 'count', 1, 'start', now)
  redis.call('PEXPIRE', KEYS[1], window)
  return {1, 1, now}
end

if count < max then
  count = redis.call('HINCRBY', KEYS[1], 'count', 1)
  return {1, count, start}
end

return {0, count, start}
`)

// RedisStore shares windows across instances. Each window is a hash whose
// TTL equals the window length, so Redis evicts expired windows itself.
type RedisStore struct {
	rdb    redis.Cmdable
	prefix string
}

// RedisOption configures a RedisStore.
type RedisOption func(*RedisStore)

// WithKeyPrefix namespaces every key written by the store.
func WithKeyPrefix(prefix string) RedisOption {
	return func(s *RedisStore) {
		if p := strings.Trim(prefix, ":"); p != "" {
			s.prefix = p
		}
	}
}

// NewRedisStore creates a Redis-backed window store.
func NewRedisStore(rdb redis.Cmdable, opts ...RedisOption) *RedisStore {
	s := &RedisStore{rdb: rdb, prefix: "hamon:ratelimit"}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RedisStore) redisKey(key string) string {
	return s.prefix + ":" + key
}

// Allow runs the fixed-window script. The caller's now is passed in so every
// instance and the fallback store agree on the request instant.
func (s *RedisStore) Allow(ctx context.Context, key string, limit models.Limit, now time.Time) (*models.Decision, error) {
	if key == "" {
		return nil, fmt.Errorf("rate limit key is required")
	}
	reply, err := fixedWindowScript.Run(ctx, s.rdb,
		[]string{s.redisKey(key)},
		now.UnixMilli(), limit.Window.Milliseconds(), limit.MaxRequests,
	).Int64Slice()
	if err != nil {
		return nil, fmt.Errorf("run fixed window script: %w", err)
	}
	return decisionFromReply(key, reply, limit, now)
}

func decisionFromReply(key string, reply []int64, limit models.Limit, now time.Time) (*models.Decision, error) {
	if len(reply) != 3 {
		return nil, fmt.Errorf("unexpected fixed window reply length %d", len(reply))
	}
	w := models.ClientWindow{
		Key:         key,
		Count:       int(reply[1]),
		WindowStart: time.UnixMilli(reply[2]).UTC(),
	}
	d := models.DecisionFor(w, reply[0] == 1, limit, now)
	return &d, nil
}

// Reset deletes the window hash for key.
func (s *RedisStore) Reset(ctx context.Context, key string) error {
	if err := s.rdb.Del(ctx, s.redisKey(key)).Err(); err != nil {
		return fmt.Errorf("reset rate limit: %w", err)
	}
	return nil
}
