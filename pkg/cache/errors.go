package cache

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when a requested item does not exist.
	ErrNotFound = errors.New("not found")

	// ErrNetwork marks transient backend failures (timeouts, refused
	// connections, a Redis node mid-failover). Errors carrying it are
	// also wrapped retryable, so callers can distinguish "try again"
	// from "the key is bad".
	ErrNetwork = errors.New("network error")
)

// RetryableError marks an error as transient. The Redis backend wraps
// its network failures with it; the file backend never does, since a
// failing disk write will not heal on its own.
type RetryableError struct{ Err error }

// Retryable wraps err as transient. A nil err stays nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

func (e *RetryableError) Error() string { return e.Err.Error() }

func (e *RetryableError) Unwrap() error { return e.Err }

// IsRetryable reports whether err carries a RetryableError anywhere
// in its chain.
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// retryAttempts bounds RetryWithBackoff. Three tries with doubling
// delay covers a Redis restart without stalling a serve startup for
// more than a few seconds.
const retryAttempts = 3

// RetryWithBackoff runs fn until it succeeds, returns a permanent
// error, or exhausts the attempt budget. Only errors marked with
// Retryable re-run fn; everything else returns immediately. The
// context cancels the wait between attempts.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	delay := time.Second
	var lastErr error

	for i := 0; i < retryAttempts; i++ {
		err := fn()
		if err == nil {
			return nil
		}
		if !IsRetryable(err) {
			return err
		}
		lastErr = err

		if i < retryAttempts-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
				delay *= 2
			}
		}
	}
	return lastErr
}
