// Package retry re-invokes fallible operations on transient upstream
// failures with exponential backoff. Both the AI question generator and the
// remote question service client share this policy so behavior stays
// consistent across call boundaries.
package retry

import (
	"context"
	"time"

	"github.com/mkarpov/interview-runner/internal/utils"

	"go.uber.org/zap"
)

var wait = utils.WaitFor

const (
	DefaultMaxRetries   = 3
	DefaultInitialDelay = 2 * time.Second
)

// Config controls the retry behavior.
type Config struct {
	// MaxRetries is the number of re-invocations after the initial attempt.
	MaxRetries int
	// InitialDelay is the delay before the first retry; each subsequent
	// delay doubles.
	InitialDelay time.Duration
	// IsTransient classifies errors worth retrying. Defaults to
	// IsTransientUpstream.
	IsTransient func(error) bool
}

func (c Config) withDefaults() Config {
	if c.MaxRetries <= 0 {
		c.MaxRetries = DefaultMaxRetries
	}
	if c.InitialDelay <= 0 {
		c.InitialDelay = DefaultInitialDelay
	}
	if c.IsTransient == nil {
		c.IsTransient = IsTransientUpstream
	}
	return c
}

// Delay returns the backoff delay before the retry with the given
// zero-based attempt number: InitialDelay * 2^attempt.
func (c Config) Delay(attempt int) time.Duration {
	c = c.withDefaults()
	return c.InitialDelay * (1 << attempt)
}

// Do invokes op until it succeeds, fails with a non-transient error, or
// MaxRetries re-invocations are exhausted. The last error is returned
// unchanged so the original cause stays visible to the caller.
func Do[T any](ctx context.Context, cfg Config, logger *zap.Logger, op func(ctx context.Context) (T, error)) (T, error) {
	cfg = cfg.withDefaults()
	if logger == nil {
		logger = zap.NewNop()
	}

	var zero T
	var lastErr error

	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		result, err := op(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if attempt == cfg.MaxRetries || !cfg.IsTransient(err) {
			return zero, lastErr
		}

		delay := cfg.Delay(attempt)
		logger.Warn("transient upstream failure, retrying",
			zap.Int("attempt", attempt+1),
			zap.Int("max_retries", cfg.MaxRetries),
			zap.Duration("delay", delay),
			zap.Error(err),
		)

		if err := wait(ctx, delay); err != nil {
			return zero, err
		}
	}

	return zero, lastErr
}
