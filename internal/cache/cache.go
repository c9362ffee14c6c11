// Package cache implements the tiered key-value store backing breach results
// and poll tokens. The preferred tier is a shared Redis backend so concurrent
// server instances deduplicate lookups between them; when Redis is down the
// store degrades to a process-local map with identical TTL semantics instead
// of failing the request. Availability of the cache is prioritized over
// strict multi-instance consistency.
//
// Entries are plain key → value pairs with a TTL and no further eviction
// policy: the working set is bounded by popular-password reuse and the
// external breach service remains the source of truth.
package cache

import (
	"context"
	"time"
)

// Store is the cache contract consumed by the dispatcher and token broker.
//
// Get returns (value, true, nil) on a hit and (nil, false, nil) on a miss;
// the error return is reserved for backend failures. Set stores value under
// key for ttl. SetNX stores the value only when the key is absent and
// reports whether this call won; the dispatcher relies on it so concurrent
// misses for one digest elect a single in-flight lookup. Implementations
// must be safe for concurrent use and must not block beyond their configured
// connection timeouts.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	SetNX(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error)
}
