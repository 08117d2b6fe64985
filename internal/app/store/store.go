/*
Package store defines the session store abstraction shared by every stateful component.

The service runs as any number of independent instances with no in-process shared memory,
so rooms, active users, and removal markers all live behind this interface. Two backends
exist: a Redis-backed store for production (shared across instances) and a mutex-guarded
in-process map for single-instance and test use.
*/
package store

import (
	"context"
	"time"
)

// Store is a key/value store with optional per-key expiry.
//
// A zero TTL means the key does not expire automatically. Implementations must be
// safe for concurrent callers; only the Redis backend is safe across instances.
type Store interface {
	// Get returns the value for key. The second return is false when the key
	// is absent or expired.
	Get(ctx context.Context, key string) (string, bool, error)

	// Put writes key to value, replacing any existing entry. A positive ttl
	// schedules automatic expiry.
	Put(ctx context.Context, key, value string, ttl time.Duration) error

	// PutNX writes key to value only if the key is currently absent, and
	// reports whether the write happened. This is the primitive behind
	// atomic name reservation.
	PutNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error)

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// ListKeys returns every live key beginning with prefix, in no particular order.
	ListKeys(ctx context.Context, prefix string) ([]string, error)
}
