// Package cache provides byte-oriented caching for the layout pipeline.
//
// Three backends implement the Cache interface:
//   - FileCache: local directory cache for CLI usage
//   - RedisCache: shared cache for the hosted service
//   - NullCache: no-op cache for tests and --no-cache runs
//
// Keys are derived through a Keyer so that every pipeline stage (coarse
// layout, spacing + routing, rendered artifacts) caches under a content
// hash of its inputs plus the options that influence the result. A
// ScopedKeyer prefixes keys for per-viewer isolation.
package cache

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by backends when a key does not exist and the
// miss cannot be expressed through the bool return (e.g. internal lookups).
var ErrNotFound = errors.New("not found")

// DefaultTTL is the expiry applied by callers that have no better policy.
// Layout results are cheap to recompute; a day keeps warm paths fast
// without letting stale topology linger.
const DefaultTTL = 24 * time.Hour

// Stage-specific TTLs. Input graphs outlive the derived data because
// layouts and artifacts recompute deterministically from them.
const (
	TTLGraph    = 7 * 24 * time.Hour
	TTLLayout   = 24 * time.Hour
	TTLArtifact = 24 * time.Hour
)

// Cache stores opaque byte values under string keys with optional expiry.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the stored value and whether the key was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores a value. A non-positive ttl means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes a key; deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases backend resources.
	Close() error
}

// NullCache is a no-op cache that never stores anything.
type NullCache struct{}

// NewNullCache creates a null cache.
func NewNullCache() Cache { return &NullCache{} }

// Get always returns a miss.
func (c *NullCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return nil, false, nil
}

// Set does nothing.
func (c *NullCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return nil
}

// Delete does nothing.
func (c *NullCache) Delete(ctx context.Context, key string) error { return nil }

// Close does nothing.
func (c *NullCache) Close() error { return nil }

var _ Cache = (*NullCache)(nil)
