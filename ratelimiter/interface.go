package ratelimiter

import (
	"context"
	"time"
)

// Limiter gates model calls on a token budget and a request budget.
type Limiter interface {
	// TryConsume takes numTokens and one request slot if both are available
	// right now. It takes nothing otherwise.
	TryConsume(numTokens int) bool

	// TimeUntilAvailable reports how long until numTokens and one request
	// would be available. It does not consume anything.
	TimeUntilAvailable(numTokens int) time.Duration

	// WaitAndConsume blocks until capacity is available, the context is done,
	// or maxWait elapses. A zero maxWait waits as long as the context allows.
	WaitAndConsume(ctx context.Context, numTokens int, maxWait time.Duration) error
}
