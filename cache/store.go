package cache

import (
	"context"
	"time"
)

// Store is a minimal byte store with TTLs, backing a StoreCache.
// Implementations must be safe for concurrent use and byte-for-byte
// transparent: Get must return exactly the []byte previously passed to Set
// for the same key, with no prepended metadata or re-encoding. Stores with
// coarse expiry (a global life window, approximate eviction) are fine; the
// StoreCache envelope re-checks the TTL on read.
type Store interface {
	// Get returns (value, true, nil) on hit; (nil, false, nil) on miss.
	// IO errors are returned as (nil, false, err).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores value with the given TTL. Returns ok=false when the store
	// rejected the write under pressure.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) (ok bool, err error)

	// Del removes a key (best-effort).
	Del(ctx context.Context, key string) error

	// Reset drops all entries.
	Reset(ctx context.Context) error

	// Close releases resources.
	Close(ctx context.Context) error
}
