// Package retry wraps record store calls in bounded exponential backoff.
//
// Not-found, validation, and cancellation errors are permanent and returned
// immediately; everything else is retried until MaxAttempts is reached.
package retry

import (
	"context"
	"time"

	"honor-sync/core/errors"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

// Config bounds the retry loop.
type Config struct {
	// MaxAttempts is the total number of tries, including the first.
	MaxAttempts int `mapstructure:"max_attempts" default:"3"`
	// InitialIntervalMs is the first backoff delay.
	InitialIntervalMs int `mapstructure:"initial_interval_ms" default:"200"`
	// MaxIntervalMs caps a single backoff delay.
	MaxIntervalMs int `mapstructure:"max_interval_ms" default:"2000"`
}

// DefaultConfig returns the production retry bounds.
func DefaultConfig() Config {
	return Config{MaxAttempts: 3, InitialIntervalMs: 200, MaxIntervalMs: 2000}
}

func (c Config) policy(ctx context.Context) backoff.BackOff {
	eb := backoff.NewExponentialBackOff()
	if c.InitialIntervalMs > 0 {
		eb.InitialInterval = time.Duration(c.InitialIntervalMs) * time.Millisecond
	}
	if c.MaxIntervalMs > 0 {
		eb.MaxInterval = time.Duration(c.MaxIntervalMs) * time.Millisecond
	}
	// Attempts bound the loop, not wall time.
	eb.MaxElapsedTime = 0

	attempts := c.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	return backoff.WithContext(backoff.WithMaxRetries(eb, uint64(attempts-1)), ctx)
}

// Do runs op until it succeeds, returns a permanent error, or attempts run out.
// The last error is returned unwrapped.
func Do(ctx context.Context, cfg Config, log *zap.Logger, op func(ctx context.Context) error) error {
	attempt := 0
	wrapped := func() error {
		attempt++
		err := op(ctx)
		if err == nil {
			return nil
		}
		if isPermanent(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	notify := func(err error, next time.Duration) {
		if log != nil {
			log.Debug("Retrying store operation",
				zap.Int("attempt", attempt),
				zap.Duration("backoff", next),
				zap.Error(err))
		}
	}

	return backoff.RetryNotify(wrapped, cfg.policy(ctx), notify)
}

func isPermanent(err error) bool {
	// Store failures are retried only when the store classified them transient.
	var se *errors.StoreError
	if errors.As(err, &se) && !errors.Is(err, errors.ErrTransient) {
		return true
	}
	return errors.Is(err, errors.ErrNotFound) ||
		errors.Is(err, errors.ErrInvalidInput) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}
