package imagestudio

import (
	"errors"
	"fmt"
	"time"
)

// RateLimitError is returned when a rate limit is hit.
type RateLimitError struct {
	RetryAfter time.Duration
	LimitType  string
	Model      string
	Err        error // Underlying error from the provider
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limit exceeded for %s: %s limit, retry after %v",
		e.Model, e.LimitType, e.RetryAfter)
}

func (e *RateLimitError) Unwrap() error {
	return e.Err
}

// IsRateLimitError checks if an error is a RateLimitError.
func IsRateLimitError(err error) bool {
	var rlErr *RateLimitError
	return errors.As(err, &rlErr)
}

// ErrNoImageReturned is returned when a model response carries no image.
var ErrNoImageReturned = errors.New("no image was returned")

// ErrRequestInFlight is returned when a submission arrives while the previous
// one is still waiting on the model.
var ErrRequestInFlight = errors.New("a generation request is already in progress")

// ErrNoResult is returned when an action needs a generated image and the
// outcome slot holds none.
var ErrNoResult = errors.New("there is no generated image")

// ErrUnknownSlot is returned for an image slot other than primary or secondary.
var ErrUnknownSlot = errors.New("unknown image slot")
