// Package token implements the poll-token indirection: a browser polls for a
// breach result with an opaque, short-lived token and never holds or
// transmits the password digest that produced it.
//
// Tokens are minted fresh for every accepted check request, even when two
// submissions hash identically, so a guessed or shared token can never leak
// another session's result beyond the short polling window. The underlying
// cache entry for the digest is shared regardless.
package token

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/tbourn/go-pwdcheck-backend/internal/cache"
	"github.com/tbourn/go-pwdcheck-backend/internal/domain"
)

// keyPrefix namespaces token mappings in the shared store.
const keyPrefix = "token:"

// tokenBytes is the entropy of a minted token. 32 bytes (256 bits) makes
// online guessing within the token TTL infeasible.
const tokenBytes = 32

// ErrNotFound is returned when a token is unknown or expired. It is distinct
// from a pending result: callers must stop polling on ErrNotFound.
var ErrNotFound = errors.New("poll token unknown or expired")

// Broker mints tokens and resolves them to cached breach results.
type Broker struct {
	store cache.Store
	ttl   time.Duration
}

// NewBroker returns a Broker whose tokens live for ttl, which should equal
// the client's total polling window (poll interval × max attempts).
func NewBroker(store cache.Store, ttl time.Duration) *Broker {
	return &Broker{store: store, ttl: ttl}
}

// Issue mints a fresh opaque token mapped to digest and stores the mapping
// with the broker TTL.
func (b *Broker) Issue(ctx context.Context, digest string) (string, error) {
	tok, err := newToken()
	if err != nil {
		return "", fmt.Errorf("mint poll token: %w", err)
	}
	if err := b.store.Set(ctx, keyPrefix+tok, []byte(digest), b.ttl); err != nil {
		return "", fmt.Errorf("store poll token: %w", err)
	}
	return tok, nil
}

// Resolve maps tok back to its digest and reads the cached breach result.
//
// Outcomes:
//   - token unknown/expired            → ErrNotFound (stop polling)
//   - cache entry absent or pending    → a pending result (keep polling)
//   - terminal entry                   → that result
//
// The digest never appears in the returned value.
func (b *Broker) Resolve(ctx context.Context, tok string) (domain.BreachResult, error) {
	data, ok, err := b.store.Get(ctx, keyPrefix+tok)
	if err != nil {
		return domain.BreachResult{}, err
	}
	if !ok {
		return domain.BreachResult{}, ErrNotFound
	}

	entry, ok, err := b.store.Get(ctx, domain.CacheKey(string(data)))
	if err != nil {
		return domain.BreachResult{}, err
	}
	if !ok {
		// Placeholder expired before a terminal write, or the worker has not
		// written yet. Either way the caller keeps polling; a fresh check
		// request will redispatch the lookup.
		return domain.Pending(), nil
	}

	res, err := domain.DecodeBreachResult(entry)
	if err != nil {
		// Corrupt cache value: report pending rather than inventing a result.
		return domain.Pending(), nil
	}
	return res, nil
}

// newToken returns a URL-safe, unpadded base64 string over 256 bits from the
// OS CSPRNG.
func newToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
