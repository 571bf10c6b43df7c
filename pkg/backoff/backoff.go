// Package backoff runs operations against the remote memory backend with
// bounded retries and exponential delay. It is the only place in the system
// where transient failures are masked; every other component either
// propagates errors or converts them to an explicit negative result.
package backoff

import (
	"time"

	"go.uber.org/zap"
)

// sleep is stubbed in tests to capture retry delays.
var sleep = time.Sleep

// Policy bounds the retry behavior of Retry and Run.
type Policy struct {
	// MaxRetries is the number of additional attempts after the first,
	// so an operation runs at most MaxRetries+1 times.
	MaxRetries int

	// BaseDelay is the delay before the first retry. The delay before
	// retry n is BaseDelay * 2^n (n counted from 0).
	BaseDelay time.Duration
}

// DefaultPolicy returns the retry policy used for all backend calls.
func DefaultPolicy() Policy {
	return Policy{
		MaxRetries: 3,
		BaseDelay:  time.Second,
	}
}

// Retry executes op until it succeeds or the policy is exhausted. The error
// of the final attempt is returned unwrapped so callers can match it with
// errors.Is against sentinels from the backend driver.
func Retry[T any](p Policy, logger *zap.Logger, op func() (T, error)) (T, error) {
	var zero T
	var lastErr error

	for attempt := 0; attempt <= p.MaxRetries; attempt++ {
		result, err := op()
		if err == nil {
			return result, nil
		}
		lastErr = err

		if attempt == p.MaxRetries {
			break
		}

		delay := p.BaseDelay << uint(attempt)
		logger.Warn("backend call failed, retrying",
			zap.Int("attempt", attempt+1),
			zap.Duration("delay", delay),
			zap.Error(err),
		)
		sleep(delay)
	}

	return zero, lastErr
}

// Run is Retry for operations that return no value.
func Run(p Policy, logger *zap.Logger, op func() error) error {
	_, err := Retry(p, logger, func() (struct{}, error) {
		return struct{}{}, op()
	})
	return err
}
