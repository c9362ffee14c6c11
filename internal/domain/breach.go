// Package domain defines the core value types of the breach-check pipeline:
// the password digest used as a cache key and the breach result that moves
// through cache, worker, and status endpoint.
package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
)

// BreachStatus is the lifecycle state of a breach lookup for one digest.
//
// A result starts as StatusPending (placeholder written by the dispatcher),
// and transitions exactly once to StatusReady or StatusError. Terminal states
// persist until the cache entry expires.
type BreachStatus string

const (
	// StatusPending means the lookup is queued or in flight.
	StatusPending BreachStatus = "pending"
	// StatusReady means the lookup completed and Count is meaningful.
	StatusReady BreachStatus = "ready"
	// StatusError means the lookup exhausted its retries. Count is nil;
	// an error must never be reported as "not breached".
	StatusError BreachStatus = "error"
)

// BreachResult is the cached outcome of a breach-corpus lookup.
//
// Fields:
//   - Status: pending / ready / error (see BreachStatus).
//   - Count: occurrences of the password in the breach corpus. Non-nil only
//     when Status is StatusReady; 0 means confirmed-not-breached.
type BreachResult struct {
	Status BreachStatus `json:"status"`
	Count  *int         `json:"count,omitempty"`
}

// Pending returns the placeholder result written on a cache miss.
func Pending() BreachResult { return BreachResult{Status: StatusPending} }

// Ready returns a terminal result carrying the breach count.
func Ready(count int) BreachResult {
	return BreachResult{Status: StatusReady, Count: &count}
}

// Failed returns a terminal result for a lookup that exhausted its retries.
func Failed() BreachResult { return BreachResult{Status: StatusError} }

// Terminal reports whether the result will no longer change for this digest
// until its cache entry expires.
func (r BreachResult) Terminal() bool {
	return r.Status == StatusReady || r.Status == StatusError
}

// Encode serializes the result for storage as a cache value.
func (r BreachResult) Encode() ([]byte, error) {
	return json.Marshal(r)
}

// DecodeBreachResult parses a cache value previously produced by Encode.
// Unknown statuses are rejected so a corrupt entry cannot masquerade as a
// terminal result.
func DecodeBreachResult(data []byte) (BreachResult, error) {
	var r BreachResult
	if err := json.Unmarshal(data, &r); err != nil {
		return BreachResult{}, fmt.Errorf("decode breach result: %w", err)
	}
	switch r.Status {
	case StatusPending, StatusReady, StatusError:
	default:
		return BreachResult{}, fmt.Errorf("decode breach result: unknown status %q", r.Status)
	}
	if r.Status == StatusReady && r.Count == nil {
		return BreachResult{}, errors.New("decode breach result: ready without count")
	}
	return r, nil
}

// digestRE matches a 40-character uppercase hexadecimal SHA-1 digest.
var digestRE = regexp.MustCompile(`^[0-9A-F]{40}$`)

// ValidDigest reports whether s is a well-formed password digest. Digests are
// produced internally by the fingerprinter; anything else is a programmer
// error surfaced early rather than a malformed cache key.
func ValidDigest(s string) bool { return digestRE.MatchString(s) }

// CacheKey returns the cache key under which the breach result for digest is
// stored. The digest itself never appears in any client-facing payload.
func CacheKey(digest string) string { return "hibp:" + digest }
