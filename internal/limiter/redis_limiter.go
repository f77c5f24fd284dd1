package limiter

import (
	"context"
	"fmt"
	"time"

	"github.com/evyataryagoni/storefinder/internal/logger"
	"github.com/redis/go-redis/v9"
)

// fixedWindowScript increments the window counter and sets its expiry on the
// first hit, atomically on the Redis server
//
// KEYS[1] = counter key, ARGV[1] = TTL in milliseconds
var fixedWindowScript = redis.NewScript(`
local current = redis.call('INCR', KEYS[1])
if current == 1 then
	redis.call('PEXPIRE', KEYS[1], ARGV[1])
end
return current
`)

// RedisLimiter implements distributed fixed-window rate limiting using Redis
// Limits are shared across every instance pointing at the same Redis
//
// Key format: "ratelimit:{key}:{window index}"
type RedisLimiter struct {
	client *redis.Client
	limit  int64
	window time.Duration
	logger *logger.Logger
}

// NewRedisLimiter connects to Redis and returns a limiter allowing limit
// requests per window per key
func NewRedisLimiter(addr, password string, db, limit int, window time.Duration, log *logger.Logger) (*RedisLimiter, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis for rate limiting: %w", err)
	}

	return NewRedisLimiterWithClient(client, limit, window, log), nil
}

// NewRedisLimiterWithClient wraps an existing client; the limiter owns it from then on
func NewRedisLimiterWithClient(client *redis.Client, limit int, window time.Duration, log *logger.Logger) *RedisLimiter {
	if limit < 1 {
		limit = 1
	}
	if window < time.Millisecond {
		window = time.Second
	}
	if log == nil {
		log = logger.Nop()
	}

	return &RedisLimiter{
		client: client,
		limit:  int64(limit),
		window: window,
		logger: log.WithComponent("RedisLimiter"),
	}
}

// Allow implements the Limiter interface
// Redis errors fail open so an outage doesn't take the API down with it
func (rl *RedisLimiter) Allow(ctx context.Context, key string) bool {
	windowIndex := time.Now().UnixMilli() / rl.window.Milliseconds()
	redisKey := fmt.Sprintf("ratelimit:%s:%d", key, windowIndex)

	count, err := fixedWindowScript.Run(ctx, rl.client, []string{redisKey}, (2 * rl.window).Milliseconds()).Int64()
	if err != nil {
		rl.logger.Error().Err(err).Str("key", key).Msg("Rate limit check failed, allowing request")
		return true
	}

	return count <= rl.limit
}

// Close closes the Redis connection and cleans up resources
func (rl *RedisLimiter) Close() error {
	if rl.client != nil {
		return rl.client.Close()
	}
	return nil
}
