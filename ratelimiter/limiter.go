package ratelimiter

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter pairs a per-minute token budget with a per-minute request
// budget. Each budget refills continuously and starts full.
type RateLimiter struct {
	mu       sync.Mutex
	tokens   *rate.Limiter
	requests *rate.Limiter
}

var _ Limiter = (*RateLimiter)(nil)

// New returns a limiter allowing tokensPerMinute tokens and requestsPerMinute
// requests. A non-positive budget is unlimited.
func New(tokensPerMinute, requestsPerMinute int) *RateLimiter {
	return &RateLimiter{
		tokens:   perMinute(tokensPerMinute),
		requests: perMinute(requestsPerMinute),
	}
}

func perMinute(n int) *rate.Limiter {
	if n <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	return rate.NewLimiter(rate.Limit(float64(n)/60), n)
}

// TryConsume implements Limiter.
func (rl *RateLimiter) TryConsume(numTokens int) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	tr := rl.tokens.ReserveN(now, numTokens)
	if !tr.OK() || tr.DelayFrom(now) > 0 {
		tr.CancelAt(now)
		return false
	}
	rr := rl.requests.ReserveN(now, 1)
	if !rr.OK() || rr.DelayFrom(now) > 0 {
		rr.CancelAt(now)
		tr.CancelAt(now)
		return false
	}
	return true
}

// TimeUntilAvailable implements Limiter. A request larger than the token
// budget can never be served and reports rate.InfDuration.
func (rl *RateLimiter) TimeUntilAvailable(numTokens int) time.Duration {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	tr := rl.tokens.ReserveN(now, numTokens)
	rr := rl.requests.ReserveN(now, 1)
	defer tr.CancelAt(now)
	defer rr.CancelAt(now)

	if !tr.OK() || !rr.OK() {
		return rate.InfDuration
	}
	return max(tr.DelayFrom(now), rr.DelayFrom(now))
}

// WaitAndConsume implements Limiter. Tokens and the request slot are taken
// together once both are available; nothing is held while waiting.
func (rl *RateLimiter) WaitAndConsume(ctx context.Context, numTokens int, maxWait time.Duration) error {
	if maxWait > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, maxWait)
		defer cancel()
	}

	for {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("waiting for %d tokens: %w", numTokens, err)
		}

		delay, err := rl.reserveOrDelay(numTokens)
		if err != nil {
			return err
		}
		if delay == 0 {
			return nil
		}

		if deadline, ok := ctx.Deadline(); ok && time.Now().Add(delay).After(deadline) {
			return fmt.Errorf("waiting %s for %d tokens: %w", delay, numTokens, context.DeadlineExceeded)
		}

		timer := time.NewTimer(delay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("waiting for %d tokens: %w", numTokens, ctx.Err())
		}
	}
}

// reserveOrDelay consumes numTokens and one request if both are available
// now. Otherwise it consumes nothing and returns how long to wait.
func (rl *RateLimiter) reserveOrDelay(numTokens int) (time.Duration, error) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	tr := rl.tokens.ReserveN(now, numTokens)
	if !tr.OK() {
		return 0, fmt.Errorf("%d tokens exceed the per-minute budget", numTokens)
	}
	rr := rl.requests.ReserveN(now, 1)
	if !rr.OK() {
		tr.CancelAt(now)
		return 0, fmt.Errorf("request budget is empty")
	}

	delay := max(tr.DelayFrom(now), rr.DelayFrom(now))
	if delay > 0 {
		rr.CancelAt(now)
		tr.CancelAt(now)
	}
	return delay, nil
}
