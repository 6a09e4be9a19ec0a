package lock

import (
	"context"
	"fmt"
	"sync"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
)

// LocalLocker is the in-process EntryLocker used when Redis is not configured.
// It has the same fail-fast semantics as RedisLocker but only covers one process.
type LocalLocker struct {
	mu   sync.Mutex
	held map[string]struct{}
}

// NewLocalLocker creates an empty LocalLocker.
func NewLocalLocker() *LocalLocker {
	return &LocalLocker{held: make(map[string]struct{})}
}

var _ portssvc.EntryLocker = (*LocalLocker)(nil)

// Lock acquires the entry lock or fails fast with a conflict.
func (l *LocalLocker) Lock(ctx context.Context, entryID string) (portssvc.UnlockFunc, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	key := EntryKey(entryID)

	l.mu.Lock()
	defer l.mu.Unlock()
	if _, busy := l.held[key]; busy {
		return nil, apperrors.NewConflict(fmt.Sprintf("journal entry %s is being posted by another request", entryID), nil)
	}
	l.held[key] = struct{}{}

	var once sync.Once
	return func(context.Context) error {
		once.Do(func() {
			l.mu.Lock()
			delete(l.held, key)
			l.mu.Unlock()
		})
		return nil
	}, nil
}
