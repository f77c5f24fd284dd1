package limiter

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const idleBucketTTL = 5 * time.Minute

// client is one caller's token bucket plus the last time it was used
type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// MemoryLimiter keeps a token bucket per client key
// Thread-safe; suitable for single-server deployments
//
// Each bucket refills at limit/window and holds at most limit tokens, so a
// client can burst a whole window's worth of requests then continue at the
// average rate
type MemoryLimiter struct {
	mu          sync.Mutex
	clients     map[string]*client
	every       rate.Limit
	burst       int
	lastCleanup time.Time
}

// NewMemoryLimiter creates a limiter allowing limit requests per window per key
// Non-positive values are raised to 1 request / 1 second
func NewMemoryLimiter(limit int, window time.Duration) *MemoryLimiter {
	if limit < 1 {
		limit = 1
	}
	if window <= 0 {
		window = time.Second
	}

	return &MemoryLimiter{
		clients:     make(map[string]*client),
		every:       rate.Every(window / time.Duration(limit)),
		burst:       limit,
		lastCleanup: time.Now(),
	}
}

// Allow implements the Limiter interface
func (ml *MemoryLimiter) Allow(_ context.Context, key string) bool {
	now := time.Now()

	ml.mu.Lock()
	c, ok := ml.clients[key]
	if !ok {
		c = &client{limiter: rate.NewLimiter(ml.every, ml.burst)}
		ml.clients[key] = c
	}
	c.lastSeen = now
	ml.maybeCleanup(now)
	ml.mu.Unlock()

	return c.limiter.AllowN(now, 1)
}

// maybeCleanup drops buckets idle for idleBucketTTL; must be called with mu held
func (ml *MemoryLimiter) maybeCleanup(now time.Time) {
	if now.Sub(ml.lastCleanup) < idleBucketTTL {
		return
	}

	threshold := now.Add(-idleBucketTTL)
	for key, c := range ml.clients {
		if c.lastSeen.Before(threshold) {
			delete(ml.clients, key)
		}
	}
	ml.lastCleanup = now
}

// Close implements the Limiter interface
// For in-memory implementation, there's nothing to clean up
func (ml *MemoryLimiter) Close() error {
	return nil
}
