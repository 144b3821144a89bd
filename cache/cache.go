// Package cache provides the page-cache backend for rendered feed
// responses. The store is injected wherever caching is needed so
// deployments can pick Redis, process memory, or nothing at all.
package cache

import (
	"context"
	"time"
)

// Store is a byte-blob cache with per-entry TTL. Implementations must make
// Get/Set/Clear individually atomic; last writer wins and entries only
// disappear by expiry or an explicit Clear.
type Store interface {
	// Get returns the cached blob for key and whether it was present and
	// unexpired.
	Get(ctx context.Context, key string) ([]byte, bool)
	// Set stores val under key for ttl. Non-positive ttl falls back to the
	// implementation default.
	Set(ctx context.Context, key string, val []byte, ttl time.Duration)
	// Clear drops the entry for key immediately.
	Clear(ctx context.Context, key string)
}
