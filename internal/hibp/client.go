// Package hibp implements the k-anonymity client for the external breach
// corpus ("Have I Been Pwned" range API).
//
// Privacy contract: only the first 5 hex characters of a password's SHA-1
// digest are ever transmitted. The service answers with every known
// 35-character suffix sharing that prefix plus its occurrence count, and the
// exact match is filtered locally.
//
// Transient failures (network errors, 5xx, 429, malformed bodies) are
// retried with exponential backoff and jitter up to a bounded number of
// attempts. Exhausting the retry budget yields ErrLookupFailed rather than a
// zero count, since "could not verify" and "confirmed clean" must stay
// distinguishable.
package hibp

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/tbourn/go-pwdcheck-backend/internal/domain"
	"github.com/tbourn/go-pwdcheck-backend/internal/fingerprint"
)

// DefaultBaseURL is the public HIBP range endpoint.
const DefaultBaseURL = "https://api.pwnedpasswords.com"

var (
	// ErrLookupFailed is returned once the retry budget is exhausted (or a
	// permanent response was received). Callers surface it as "could not
	// verify, try later", never as count 0.
	ErrLookupFailed = errors.New("breach lookup failed")

	// ErrBadDigest flags a digest that is not 40 uppercase hex characters.
	// It indicates a programmer error upstream of the client.
	ErrBadDigest = errors.New("malformed password digest")
)

// Options configures a Client. Zero values fall back to defaults suitable
// for the public API.
type Options struct {
	BaseURL     string        // range API base, default DefaultBaseURL
	UserAgent   string        // sent to the service, default "go-pwdcheck-backend"
	Timeout     time.Duration // per-request timeout, default 5s
	MaxAttempts int           // total attempts including the first, default 4
	BackoffBase time.Duration // first retry delay, default 500ms
	BackoffMax  time.Duration // delay cap, default 8s
}

// Client queries the breach corpus by digest prefix. It is safe for
// concurrent use.
type Client struct {
	baseURL     string
	userAgent   string
	httpClient  *http.Client
	maxAttempts uint
	backoffBase time.Duration
	backoffMax  time.Duration
}

// NewClient builds a Client from opts, applying defaults for unset fields.
func NewClient(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "go-pwdcheck-backend"
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Second
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 4
	}
	if opts.BackoffBase <= 0 {
		opts.BackoffBase = 500 * time.Millisecond
	}
	if opts.BackoffMax <= 0 {
		opts.BackoffMax = 8 * time.Second
	}
	return &Client{
		baseURL:     strings.TrimRight(opts.BaseURL, "/"),
		userAgent:   opts.UserAgent,
		httpClient:  &http.Client{Timeout: opts.Timeout},
		maxAttempts: uint(opts.MaxAttempts),
		backoffBase: opts.BackoffBase,
		backoffMax:  opts.BackoffMax,
	}
}

// Count resolves how many times the password behind digest appears in the
// breach corpus. 0 means confirmed-not-breached. Errors wrap
// ErrLookupFailed; they must not be conflated with a zero count.
func (c *Client) Count(ctx context.Context, digest string) (int, error) {
	if !domain.ValidDigest(digest) {
		return 0, ErrBadDigest
	}

	count, err := backoff.Retry(ctx,
		func() (int, error) { return c.rangeQuery(ctx, digest) },
		backoff.WithBackOff(c.newBackOff()),
		backoff.WithMaxTries(c.maxAttempts),
	)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrLookupFailed, err)
	}
	return count, nil
}

// newBackOff returns the retry schedule: delays grow geometrically from the
// base with ±20% jitter, capped at the configured maximum. Jitter bands of
// consecutive attempts do not overlap below the cap, so observed delays are
// monotonically non-decreasing until the cap is reached.
func (c *Client) newBackOff() *backoff.ExponentialBackOff {
	b := &backoff.ExponentialBackOff{
		InitialInterval:     c.backoffBase,
		RandomizationFactor: 0.2,
		Multiplier:          2,
		MaxInterval:         c.backoffMax,
	}
	b.Reset()
	return b
}

// rangeQuery performs one attempt against the range API. Returned errors are
// retryable unless wrapped with backoff.Permanent.
func (c *Client) rangeQuery(ctx context.Context, digest string) (int, error) {
	prefix, suffix := fingerprint.Split(digest)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/range/"+prefix, nil)
	if err != nil {
		return 0, backoff.Permanent(err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("range request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		// fall through to parsing
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return 0, fmt.Errorf("range request: status %d", resp.StatusCode)
	default:
		// 4xx other than 429 will not improve on retry.
		return 0, backoff.Permanent(fmt.Errorf("range request: status %d", resp.StatusCode))
	}

	count, err := matchSuffix(resp.Body, suffix)
	if err != nil {
		// A garbled body is treated like a network failure: retry.
		return 0, fmt.Errorf("range response: %w", err)
	}
	return count, nil
}

// matchSuffix scans newline-delimited "SUFFIX:COUNT" pairs and returns the
// count for the wanted suffix, or 0 when the suffix is absent from the
// response set. Suffix comparison is case-insensitive.
func matchSuffix(body io.Reader, want string) (int, error) {
	scanner := bufio.NewScanner(body)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		got, countStr, ok := strings.Cut(line, ":")
		if !ok {
			return 0, fmt.Errorf("malformed line %q", line)
		}
		if !strings.EqualFold(got, want) {
			continue
		}
		count, err := strconv.Atoi(strings.TrimSpace(countStr))
		if err != nil || count < 0 {
			return 0, fmt.Errorf("malformed count in line %q", line)
		}
		return count, nil
	}
	if err := scanner.Err(); err != nil {
		return 0, err
	}
	return 0, nil
}
