package utils

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter enforces a minimum delay between consecutive calls
type RateLimiter struct {
	lim   *rate.Limiter
	delay time.Duration
}

// NewRateLimiter creates a new RateLimiter with the given delay in milliseconds.
// A delay of zero or less disables waiting.
func NewRateLimiter(delayMs int) *RateLimiter {
	if delayMs <= 0 {
		return &RateLimiter{lim: rate.NewLimiter(rate.Inf, 1)}
	}
	delay := time.Duration(delayMs) * time.Millisecond
	return &RateLimiter{
		lim:   rate.NewLimiter(rate.Every(delay), 1),
		delay: delay,
	}
}

// Wait blocks until enough time has passed since the last call, or until ctx
// is done. It fails fast when ctx's deadline is too close to be met.
func (r *RateLimiter) Wait(ctx context.Context) error {
	return r.lim.Wait(ctx)
}

// Delay returns the configured minimum gap
func (r *RateLimiter) Delay() time.Duration {
	return r.delay
}
