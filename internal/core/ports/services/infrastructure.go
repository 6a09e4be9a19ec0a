package services

import (
	"context"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
)

// EventPublisher delivers journal events after the originating transaction committed.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.JournalEvent) error
}

// UnlockFunc releases a lock obtained from an EntryLocker.
type UnlockFunc func(ctx context.Context) error

// EntryLocker serializes posting operations on a single journal entry.
// Lock fails fast with an apperrors.ErrConflict when the entry is already held.
type EntryLocker interface {
	Lock(ctx context.Context, entryID string) (UnlockFunc, error)
}
