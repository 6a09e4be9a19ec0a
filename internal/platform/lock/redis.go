package lock

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/redis/go-redis/v9"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/middleware"
)

const defaultDriftFactor = 0.01

// RedisLocker serializes posting of a journal entry across processes with a redsync mutex.
// Acquisition is tried once; a held lock is reported as a conflict instead of waiting.
type RedisLocker struct {
	redsync *redsync.Redsync
	expiry  time.Duration
}

// NewRedisLocker creates a locker backed by client. expiry bounds how long a crashed
// holder can block an entry.
func NewRedisLocker(client redis.UniversalClient, expiry time.Duration) *RedisLocker {
	return &RedisLocker{
		redsync: redsync.New(goredis.NewPool(client)),
		expiry:  expiry,
	}
}

var _ portssvc.EntryLocker = (*RedisLocker)(nil)

// Lock acquires the entry lock or fails fast.
func (l *RedisLocker) Lock(ctx context.Context, entryID string) (portssvc.UnlockFunc, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	key := EntryKey(entryID)

	mutex := l.redsync.NewMutex(
		key,
		redsync.WithExpiry(l.expiry),
		redsync.WithTries(1),
		redsync.WithDriftFactor(defaultDriftFactor),
	)

	if err := mutex.LockContext(ctx); err != nil {
		if isContention(err) {
			logger.Debug("Entry lock already held", slog.String("lock_key", key))
			return nil, apperrors.NewConflict(fmt.Sprintf("journal entry %s is being posted by another request", entryID), err)
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("failed to acquire lock %s: %w", key, err)
	}

	logger.Debug("Entry lock acquired", slog.String("lock_key", key))

	return func(ctx context.Context) error {
		ok, err := mutex.UnlockContext(ctx)
		if err != nil {
			return fmt.Errorf("failed to release lock %s: %w", key, err)
		}
		if !ok {
			return fmt.Errorf("lock %s was not held or already expired", key)
		}
		return nil
	}, nil
}

// redsync reports contention either as ErrFailed or as a per-node ErrTaken.
func isContention(err error) bool {
	var taken *redsync.ErrTaken
	if errors.Is(err, redsync.ErrFailed) || errors.As(err, &taken) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "lock already taken") || strings.Contains(msg, "failed to acquire lock")
}
