package valuation

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

// ErrQuotaExhausted is returned when the daily valuation quota is used up.
var ErrQuotaExhausted = errors.New("daily valuation quota exhausted")

// RateLimiter caps outbound valuation calls with a token bucket and an
// optional rolling 24-hour quota. A zero daily limit disables the quota.
type RateLimiter struct {
	limiter  *rate.Limiter
	used     atomic.Int64
	maxDaily int64
	resetAt  time.Time
	mu       sync.Mutex
	nowFunc  func() time.Time
}

// RateLimiterOption configures the RateLimiter.
type RateLimiterOption func(*RateLimiter)

// WithRateLimiterNowFunc overrides the time function for testing.
func WithRateLimiterNowFunc(f func() time.Time) RateLimiterOption {
	return func(r *RateLimiter) {
		r.nowFunc = f
	}
}

// NewRateLimiter creates a limiter allowing perSecond calls with the given
// burst and at most maxDaily calls per window.
func NewRateLimiter(perSecond float64, burst int, maxDaily int64, opts ...RateLimiterOption) *RateLimiter {
	r := &RateLimiter{
		limiter:  rate.NewLimiter(rate.Limit(perSecond), burst),
		maxDaily: maxDaily,
		nowFunc:  time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.resetAt = r.nowFunc().Add(24 * time.Hour)
	return r
}

// Wait blocks until a call is allowed or ctx is done.
func (r *RateLimiter) Wait(ctx context.Context) error {
	r.rollWindow()

	if r.maxDaily > 0 && r.used.Load() >= r.maxDaily {
		return fmt.Errorf("%w (%d/%d)", ErrQuotaExhausted, r.used.Load(), r.maxDaily)
	}

	if err := r.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter wait: %w", err)
	}

	r.used.Add(1)
	return nil
}

// Used returns the number of calls made in the current window.
func (r *RateLimiter) Used() int64 {
	return r.used.Load()
}

func (r *RateLimiter) rollWindow() {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.nowFunc()
	if now.After(r.resetAt) {
		r.used.Store(0)
		r.resetAt = now.Add(24 * time.Hour)
	}
}
