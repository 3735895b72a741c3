// Package provider defines the storage abstraction behind both cache tiers.
//
// Implementations MUST be byte-for-byte transparent: Get must return exactly the
// same []byte that was previously passed to Set for a key (no prepended/appended
// metadata, no re-encoding, no mutation). If a store performs internal transforms
// (e.g., compression), they MUST be fully reversed.
//
// Values written by cacheaside are framed entries (real value or negative
// placeholder). Foreign bytes under the same keys are treated as corruption and
// deleted on read.
package provider

import (
	"context"
	"time"
)

// Provider is a minimal byte store with TTLs.
// Must be safe for concurrent use.
type Provider interface {
	// Get returns (value, true, nil) on hit; (nil, false, nil) on miss.
	// If an IO/remote error happens, return (nil, false, err).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores value with the given TTL. May ignore cost if unsupported.
	// Returns ok=false when the store rejected the write under pressure.
	Set(ctx context.Context, key string, value []byte, cost int64, ttl time.Duration) (ok bool, err error)

	// Del removes a key (best-effort).
	Del(ctx context.Context, key string) error

	// Close releases resources.
	Close(ctx context.Context) error
}

// Batch is an optional capability for stores that can read or write many keys
// in one round-trip (e.g. a Redis pipeline).
type Batch interface {
	// GetMany returns the subset of keys that are present. A non-nil error
	// means some or all keys could not be read; the returned map still holds
	// whatever was read successfully.
	GetMany(ctx context.Context, keys []string) (map[string][]byte, error)

	// SetMany writes all items with the same TTL.
	SetMany(ctx context.Context, items map[string][]byte, ttl time.Duration) error
}
