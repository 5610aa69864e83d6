package soundnet

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter enforces a minimum spacing between SoundNet calls. The clock and
// the sleep are fields so tests can drive it without waiting.
type RateLimiter struct {
	limiter *rate.Limiter
	now     func() time.Time
	sleep   func(ctx context.Context, d time.Duration) error
}

// NewRateLimiter allows one call per interval with no bursting.
func NewRateLimiter(interval time.Duration) *RateLimiter {
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	return &RateLimiter{
		limiter: rate.NewLimiter(limit, 1),
		now:     time.Now,
		sleep:   sleepWithContext,
	}
}

// Wait blocks until the next call is allowed or ctx is done.
func (l *RateLimiter) Wait(ctx context.Context) error {
	now := l.now()
	r := l.limiter.ReserveN(now, 1)
	if !r.OK() {
		return fmt.Errorf("soundnet: rate limiter cannot satisfy request")
	}

	if err := l.sleep(ctx, r.DelayFrom(now)); err != nil {
		r.CancelAt(l.now())
		return err
	}
	return nil
}

func sleepWithContext(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return fmt.Errorf("soundnet: request canceled: %w", ctx.Err())
	case <-timer.C:
		return nil
	}
}
