package cache

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrNetwork marks failures to reach a shared backend (Redis or MongoDB).
var ErrNetwork = errors.New("network error")

// RetryableError marks a backend failure that is worth another attempt.
type RetryableError struct{ Err error }

// Retryable wraps err so that [RetryWithBackoff] tries again. Nil stays nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// IsRetryable reports whether err (or anything it wraps) is a [RetryableError].
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// retryAttempts and retryDelay bound connection retries. The delay doubles
// after every failed attempt.
var (
	retryAttempts = 3
	retryDelay    = time.Second
)

// RetryWithBackoff calls fn until it succeeds, returns a non-retryable error,
// runs out of attempts, or ctx is done.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	delay := retryDelay
	var err error
	for attempt := 1; ; attempt++ {
		if err = fn(); err == nil || !IsRetryable(err) || attempt >= retryAttempts {
			return err
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		delay *= 2
	}
}

// pingWithRetry checks that a shared backend answers, retrying transient
// failures. Each ping gets its own timeout when one is set.
func pingWithRetry(ctx context.Context, backend string, timeout time.Duration, ping func(context.Context) error) error {
	return RetryWithBackoff(ctx, func() error {
		pingCtx, cancel := ctx, context.CancelFunc(func() {})
		if timeout > 0 {
			pingCtx, cancel = context.WithTimeout(ctx, timeout)
		}
		defer cancel()
		if err := ping(pingCtx); err != nil {
			return Retryable(fmt.Errorf("%w: %s ping: %v", ErrNetwork, backend, err))
		}
		return nil
	})
}
