// Package ratelimit provides the blocking call limiter shared by clients of
// rate-limited external providers.
package ratelimit

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Limiter allows one call per interval. Callers that arrive early block in
// Acquire until their slot comes up; slots are handed out in arrival order.
type Limiter struct {
	interval time.Duration
	limiter  *rate.Limiter
}

// New creates a limiter allowing one call per interval. A non-positive
// interval disables limiting.
func New(interval time.Duration) *Limiter {
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	return &Limiter{
		interval: interval,
		limiter:  rate.NewLimiter(limit, 1),
	}
}

// Acquire blocks until the caller may proceed or ctx is done
func (l *Limiter) Acquire(ctx context.Context) error {
	return l.limiter.Wait(ctx)
}

// Reserve claims the next slot as of now and returns how long the caller
// must wait before using it.
func (l *Limiter) Reserve(now time.Time) time.Duration {
	return l.limiter.ReserveN(now, 1).DelayFrom(now)
}

// Interval returns the configured minimum spacing between calls
func (l *Limiter) Interval() time.Duration {
	return l.interval
}
