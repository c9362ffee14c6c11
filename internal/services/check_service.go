// Package services – CheckService
//
// This file implements the dispatcher for one end-to-end breach check. The
// flow: fingerprint the password, consult the cache, and on a miss elect a
// single in-flight lookup (atomic pending placeholder), which either runs on
// the background pool or inline in the request when no pool is configured or
// it refuses the job. Both execution modes write their terminal result
// through the same cache contract, so the token broker and status endpoint
// are agnostic to which mode produced it.
package services

import (
	"context"
	"errors"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/tbourn/go-pwdcheck-backend/internal/cache"
	"github.com/tbourn/go-pwdcheck-backend/internal/domain"
	"github.com/tbourn/go-pwdcheck-backend/internal/fingerprint"
	"github.com/tbourn/go-pwdcheck-backend/internal/token"
	"github.com/tbourn/go-pwdcheck-backend/internal/worker"
)

// BreachClient is the external lookup contract required by CheckService.
// Implementations retry internally; a returned error means the lookup is
// unverifiable, which is distinct from a zero count.
type BreachClient interface {
	Count(ctx context.Context, digest string) (int, error)
}

// TokenBroker mints and resolves poll tokens. Satisfied by *token.Broker.
type TokenBroker interface {
	Issue(ctx context.Context, digest string) (string, error)
	Resolve(ctx context.Context, tok string) (domain.BreachResult, error)
}

// CheckReceipt is what a check request hands back to the transport layer.
// It carries the poll token and nothing else: the digest stays server-side.
type CheckReceipt struct {
	Token string
}

// CheckService orchestrates breach checks. All fields are injected so tests
// can substitute fakes with controllable TTL and failure behavior.
type CheckService struct {
	// Store is the tiered cache shared with the token broker.
	Store cache.Store
	// Client performs the k-anonymity lookup.
	Client BreachClient
	// Broker mints poll tokens.
	Broker TokenBroker
	// Pool is the optional background pool; nil means inline-only mode.
	Pool *worker.Pool

	// CacheTTL bounds how long terminal results are reused.
	CacheTTL time.Duration
	// PendingTTL bounds the placeholder so a crashed job cannot strand
	// pollers; must be shorter than the token TTL.
	PendingTTL time.Duration
	// LookupBudget caps one background lookup end to end (all retries).
	LookupBudget time.Duration
	// MaxPasswordRunes rejects absurd inputs before hashing. <= 0 disables.
	MaxPasswordRunes int

	Log zerolog.Logger
}

// NewCheckService constructs a CheckService with production defaults for the
// TTLs and input bounds.
func NewCheckService(store cache.Store, client BreachClient, broker TokenBroker, pool *worker.Pool, log zerolog.Logger) *CheckService {
	return &CheckService{
		Store:            store,
		Client:           client,
		Broker:           broker,
		Pool:             pool,
		CacheTTL:         30 * time.Minute,
		PendingTTL:       2 * time.Minute,
		LookupBudget:     time.Minute,
		MaxPasswordRunes: 1024,
		Log:              log,
	}
}

// Check runs one breach check for password and returns a freshly minted poll
// token. The request returns as soon as a token exists; whether the lookup
// ran inline, is running in the background, or was served from cache is
// invisible to the caller.
func (s *CheckService) Check(ctx context.Context, password string) (*CheckReceipt, error) {
	if s.MaxPasswordRunes > 0 && utf8.RuneCountInString(password) > s.MaxPasswordRunes {
		return nil, ErrPasswordTooLong
	}

	digest := fingerprint.SHA1Hex(password)
	key := domain.CacheKey(digest)

	// Fast path: a live entry means no new dispatch. Terminal entries make
	// the token resolve immediately; a pending entry means a lookup for
	// this digest is already in flight and its result will serve us too.
	if data, ok, err := s.Store.Get(ctx, key); err == nil && ok {
		if _, derr := domain.DecodeBreachResult(data); derr == nil {
			cacheLookups.WithLabelValues("hit").Inc()
			return s.receipt(ctx, digest)
		}
	}
	cacheLookups.WithLabelValues("miss").Inc()

	// Elect a single in-flight lookup per digest. Losing the race means a
	// concurrent request dispatched already; its terminal write serves us.
	pendingVal, err := domain.Pending().Encode()
	if err != nil {
		return nil, err
	}
	won, err := s.Store.SetNX(ctx, key, pendingVal, s.PendingTTL)
	if err != nil {
		return nil, err
	}
	if !won {
		return s.receipt(ctx, digest)
	}

	if s.Pool.TrySubmit(func(jobCtx context.Context) { s.lookup(jobCtx, digest, "async") }) {
		return s.receipt(ctx, digest)
	}

	// No pool, or the pool refused the job: run the lookup inline so the
	// token resolves as ready on the very first poll. Latency is bounded by
	// the client's retry budget. The lookup is detached from the request
	// context: a client disconnect must not abort the call and cache a
	// terminal Error for every later request on this digest. The result is
	// written either way, so abandoned checks still warm the cache.
	s.lookup(context.WithoutCancel(ctx), digest, "inline")
	return s.receipt(ctx, digest)
}

// Status resolves a poll token to its breach result.
func (s *CheckService) Status(ctx context.Context, tok string) (domain.BreachResult, error) {
	res, err := s.Broker.Resolve(ctx, tok)
	if errors.Is(err, token.ErrNotFound) {
		return domain.BreachResult{}, ErrTokenNotFound
	}
	return res, err
}

// receipt mints the per-request poll token. Tokens are never reused across
// submissions, even for identical digests.
func (s *CheckService) receipt(ctx context.Context, digest string) (*CheckReceipt, error) {
	tok, err := s.Broker.Issue(ctx, digest)
	if err != nil {
		return nil, err
	}
	return &CheckReceipt{Token: tok}, nil
}

// lookup performs the external call and writes the terminal result through
// the cache. It never returns anything to the dispatcher: abandoned pollers
// simply let the cached result benefit the next digest-identical request.
func (s *CheckService) lookup(ctx context.Context, digest, mode string) {
	if s.LookupBudget > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.LookupBudget)
		defer cancel()
	}

	var res domain.BreachResult
	count, err := s.Client.Count(ctx, digest)
	if err != nil {
		s.Log.Warn().Err(err).Str("mode", mode).Msg("breach lookup failed")
		lookups.WithLabelValues("error", mode).Inc()
		res = domain.Failed()
	} else {
		lookups.WithLabelValues("ok", mode).Inc()
		res = domain.Ready(count)
	}

	val, err := res.Encode()
	if err != nil {
		s.Log.Error().Err(err).Msg("encode breach result")
		return
	}
	// Overwrite the pending placeholder unconditionally: terminal results
	// are last-write-wins and idempotent for a given corpus snapshot.
	if err := s.Store.Set(context.WithoutCancel(ctx), domain.CacheKey(digest), val, s.CacheTTL); err != nil {
		s.Log.Error().Err(err).Str("mode", mode).Msg("write breach result")
	}
}
