package limiter

import "context"

// Limiter is the interface that all rate limiters must implement
// This allows us to easily swap between in-memory and Redis implementations
type Limiter interface {
	// Allow checks if a request from the given client key should be allowed
	// Returns true if allowed, false if rate limited
	Allow(ctx context.Context, key string) bool

	// Close cleans up any resources (Redis connections, goroutines, etc.)
	Close() error
}
