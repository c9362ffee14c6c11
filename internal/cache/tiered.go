package cache

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// TieredStore tries a shared primary Store first and falls back to a local
// Store whenever the primary errors (connection refused, timeout, transient
// backend failure). Backend errors are logged and absorbed: no failure of
// the cache ever propagates to a request.
//
// The fallback tier carries the same TTL semantics but is scoped to this
// process, which weakens cross-instance deduplication while the primary is
// down. That trade is intentional.
type TieredStore struct {
	primary  Store
	fallback Store
	log      zerolog.Logger
}

// NewTieredStore composes primary and fallback tiers. primary may be nil
// (no shared backend configured), in which case every operation goes to the
// fallback directly.
func NewTieredStore(primary Store, fallback Store, log zerolog.Logger) *TieredStore {
	return &TieredStore{primary: primary, fallback: fallback, log: log}
}

// Get reads key from the primary tier, degrading to the fallback on backend
// error. A clean miss on the primary does NOT consult the fallback: the
// primary is authoritative while healthy, and mixing tiers on miss could
// resurrect entries the shared tier already expired.
func (s *TieredStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if s.primary != nil {
		data, ok, err := s.primary.Get(ctx, key)
		if err == nil {
			return data, ok, nil
		}
		s.log.Warn().Err(err).Str("key_prefix", keyPrefix(key)).Msg("cache primary get failed, using local tier")
	}
	return s.fallback.Get(ctx, key)
}

// Set writes through to the primary tier, degrading to the fallback on
// backend error. Writes are not duplicated into both tiers: while the
// primary is healthy the local tier stays cold so it cannot serve stale
// values after a failover window.
func (s *TieredStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if s.primary != nil {
		err := s.primary.Set(ctx, key, value, ttl)
		if err == nil {
			return nil
		}
		s.log.Warn().Err(err).Str("key_prefix", keyPrefix(key)).Msg("cache primary set failed, using local tier")
	}
	return s.fallback.Set(ctx, key, value, ttl)
}

// SetNX performs an atomic set-if-absent on the primary tier, degrading to
// the fallback on backend error. During a failover window each process
// elects its own winner; that weakening is the documented cost of keeping
// the cache available.
func (s *TieredStore) SetNX(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error) {
	if s.primary != nil {
		won, err := s.primary.SetNX(ctx, key, value, ttl)
		if err == nil {
			return won, nil
		}
		s.log.Warn().Err(err).Str("key_prefix", keyPrefix(key)).Msg("cache primary setnx failed, using local tier")
	}
	return s.fallback.SetNX(ctx, key, value, ttl)
}

// keyPrefix returns the namespace portion of a cache key ("hibp", "token")
// for logging. Full keys carry digests and tokens and must stay out of logs.
func keyPrefix(key string) string {
	for i := 0; i < len(key); i++ {
		if key[i] == ':' {
			return key[:i]
		}
	}
	return key
}
