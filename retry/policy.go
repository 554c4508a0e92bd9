// Package retry implements the bounded exponential backoff applied to
// idempotent requests against the workflow service.
package retry

import (
	"math"
	"math/rand"
	"time"

	"github.com/kochabx/flowclient/errors"
)

const (
	DefaultMaxAttempts = 3
	DefaultBaseDelay   = time.Second
	DefaultMaxDelay    = 10 * time.Second
	DefaultJitterMax   = time.Second
)

// Policy decides whether a failed attempt is retried and how long to wait
// before the next one.
type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	JitterMax   time.Duration
}

// NewPolicy creates a policy, zero values fall back to the defaults.
func NewPolicy(maxAttempts int, baseDelay, maxDelay, jitterMax time.Duration) *Policy {
	p := &Policy{
		MaxAttempts: maxAttempts,
		BaseDelay:   baseDelay,
		MaxDelay:    maxDelay,
		JitterMax:   jitterMax,
	}
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = DefaultMaxAttempts
	}
	if p.BaseDelay <= 0 {
		p.BaseDelay = DefaultBaseDelay
	}
	if p.MaxDelay <= 0 {
		p.MaxDelay = DefaultMaxDelay
	}
	if p.JitterMax <= 0 {
		p.JitterMax = DefaultJitterMax
	}
	return p
}

// ShouldRetry reports whether another attempt is warranted after the given
// number of completed attempts. Only transient failures qualify: request
// timeouts, rate limiting, server errors and transport failures.
func (p *Policy) ShouldRetry(completed int, err error) bool {
	if err == nil || completed >= p.MaxAttempts {
		return false
	}
	return errors.KindOf(err).Retryable()
}

// Backoff computes the delay before the attempt following n completed
// attempts: min(base * 2^n, max) plus uniform jitter in [0, jitterMax).
func (p *Policy) Backoff(n int) time.Duration {
	if n < 0 {
		n = 0
	}

	delay := float64(p.BaseDelay) * math.Pow(2, float64(n))
	if delay > float64(p.MaxDelay) {
		delay = float64(p.MaxDelay)
	}

	return time.Duration(delay) + time.Duration(rand.Int63n(int64(p.JitterMax)))
}
