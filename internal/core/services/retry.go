package services

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
)

const defaultPostRetryDelay = 50 * time.Millisecond

// retryOnConflict runs op and, if it fails with a concurrency conflict, runs it exactly
// once more after a jittered delay. Any other failure is returned immediately.
func retryOnConflict(ctx context.Context, baseDelay time.Duration, op func(ctx context.Context) error, onRetry func(err error, delay time.Duration)) error {
	err := op(ctx)
	if err == nil || !errors.Is(err, apperrors.ErrConflict) {
		return err
	}

	delay := jitter(baseDelay)
	if onRetry != nil {
		onRetry(err, delay)
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
	}

	return op(ctx)
}

// jitter spreads d over [d/2, 3d/2).
func jitter(d time.Duration) time.Duration {
	if d <= 0 {
		return 0
	}
	return d/2 + rand.N(d)
}
