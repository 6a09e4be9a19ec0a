package lock

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
)

func TestEntryKey(t *testing.T) {
	assert.Equal(t, "ledger:journal:abc:lock", EntryKey("abc"))
}

func newRedisLocker(t *testing.T) (*RedisLocker, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisLocker(client, 5*time.Second), mr
}

func TestRedisLocker_ContentionIsConflict(t *testing.T) {
	locker, mr := newRedisLocker(t)
	ctx := context.Background()

	unlock, err := locker.Lock(ctx, "e1")
	require.NoError(t, err)
	assert.True(t, mr.Exists(EntryKey("e1")))

	_, err = locker.Lock(ctx, "e1")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	// other entries are independent
	unlockOther, err := locker.Lock(ctx, "e2")
	require.NoError(t, err)
	require.NoError(t, unlockOther(ctx))

	require.NoError(t, unlock(ctx))
	assert.False(t, mr.Exists(EntryKey("e1")))

	unlock, err = locker.Lock(ctx, "e1")
	require.NoError(t, err)
	require.NoError(t, unlock(ctx))
}

func TestRedisLocker_ExpiredLockCanBeRetaken(t *testing.T) {
	locker, mr := newRedisLocker(t)
	ctx := context.Background()

	_, err := locker.Lock(ctx, "e1")
	require.NoError(t, err)

	mr.FastForward(6 * time.Second)

	unlock, err := locker.Lock(ctx, "e1")
	require.NoError(t, err)
	require.NoError(t, unlock(ctx))
}

func TestLocalLocker(t *testing.T) {
	var locker portssvc.EntryLocker = NewLocalLocker()
	ctx := context.Background()

	unlock, err := locker.Lock(ctx, "e1")
	require.NoError(t, err)

	_, err = locker.Lock(ctx, "e1")
	assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))

	require.NoError(t, unlock(ctx))
	// a second release is harmless
	require.NoError(t, unlock(ctx))

	unlock, err = locker.Lock(ctx, "e1")
	require.NoError(t, err)
	require.NoError(t, unlock(ctx))
}

func TestLocalLocker_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewLocalLocker().Lock(ctx, "e1")
	assert.ErrorIs(t, err, context.Canceled)
}
