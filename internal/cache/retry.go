package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/goran-ethernal/EventCache/internal/common"
	"github.com/goran-ethernal/EventCache/internal/logger"
	"github.com/goran-ethernal/EventCache/pkg/cache"
	"github.com/goran-ethernal/EventCache/pkg/config"
)

func calculateBackoff(attempt int, cfg *config.RetryConfig) time.Duration {
	return common.Backoff(attempt, cfg.InitialBackoff.Duration, cfg.MaxBackoff.Duration, cfg.BackoffMultiplier)
}

// retryOnConflict runs fn until it succeeds, fails with something other than a store conflict,
// or cfg.MaxAttempts is reached. A nil cfg runs fn once.
func retryOnConflict[T any](ctx context.Context, cfg *config.RetryConfig, log *logger.Logger,
	operation string, fn func() (T, error)) (T, error) {
	var zero T
	if cfg == nil {
		return fn()
	}

	var lastErr error
	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		if wait := calculateBackoff(attempt, cfg); wait > 0 {
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return zero, fmt.Errorf("%s cancelled during backoff (attempt %d/%d): %w",
					operation, attempt, cfg.MaxAttempts, ctx.Err())
			}
			storeRetryInc(operation)
		}

		result, err := fn()
		if err == nil {
			return result, nil
		}
		if !cache.IsConflict(err) {
			return zero, err
		}

		lastErr = err
		log.Debugw("store conflict, retrying", "operation", operation, "attempt", attempt, "error", err)
	}

	return zero, fmt.Errorf("%s failed after %d attempts: %w", operation, cfg.MaxAttempts, lastErr)
}
