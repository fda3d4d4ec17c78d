// Package cache stores computed layouts, rendered artifacts and generated
// blueprints behind a small byte-oriented interface.
//
// Three backends are provided: [FileCache] for the CLI, [RedisCache] for the
// HTTP server and [NullCache] when caching is disabled. Keys are produced by
// a [Keyer] so that every component agrees on the key layout.
package cache

import (
	"context"
	"time"
)

// Default TTLs per entry kind.
const (
	LayoutTTL    = 7 * 24 * time.Hour
	ArtifactTTL  = 7 * 24 * time.Hour
	BlueprintTTL = 24 * time.Hour
)

// Cache is a byte store with per-entry expiration.
// A TTL of zero stores the entry without expiration.
type Cache interface {
	// Get returns the stored bytes and whether the key was found.
	// Expired entries are reported as misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Clearer is implemented by caches that can drop all of their entries.
// Clear returns how many entries were removed.
type Clearer interface {
	Clear(ctx context.Context) (int, error)
}
