// Package cache stores computed page layouts and rendered artifacts.
//
// Placement and rendering are pure functions of the document content and the
// render options, so their outputs can be cached under a content hash. The
// [Keyer] builds those keys; a [Cache] backend stores the bytes:
//   - [FileCache]: files under a directory, for the CLI
//   - [MemoryCache]: an in-process map, for the server and tests
//   - [RedisCache]: shared across server instances
//   - [NullCache]: caching disabled
//
// # Usage
//
//	c, err := cache.NewFileCache(dir)
//	key := cache.NewDefaultKeyer().LayoutKey(docHash, cache.LayoutKeyOpts{Width: 420})
//	if data, hit, _ := c.Get(ctx, key); hit {
//	    // use data
//	}
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with optional expiry.
type Cache interface {
	// Get returns the cached bytes and whether the key was present.
	// A missing or expired key is a miss, not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend's resources.
	Close() error
}

// Default time-to-live values for cached entries.
const (
	TTLLayout   = 7 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)
