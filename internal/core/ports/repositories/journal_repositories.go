package repositories

import (
	"context"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
)

// JournalReader defines read operations for journal entries.
type JournalReader interface {
	// FindJournalEntryByID retrieves an entry and its lines.
	FindJournalEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// ListJournalEntries retrieves entries matching the filter, newest entry date first.
	ListJournalEntries(ctx context.Context, filter domain.JournalFilter) ([]domain.JournalEntry, error)
}

// JournalWriter defines write operations for journal entries.
type JournalWriter interface {
	// FindJournalEntryForUpdate loads an entry and locks it for the rest of the transaction.
	FindJournalEntryForUpdate(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// SaveJournalEntry inserts a new entry with its lines.
	SaveJournalEntry(ctx context.Context, entry domain.JournalEntry) error

	// UpdateJournalEntry replaces an entry's header and lines if its stored version equals
	// expectedVersion, and stores entry.Version as the new version. A version mismatch
	// returns apperrors.ErrConflict.
	UpdateJournalEntry(ctx context.Context, entry domain.JournalEntry, expectedVersion int64) error

	// DeleteJournalEntry removes an entry if its stored version equals expectedVersion.
	DeleteJournalEntry(ctx context.Context, entryID string, expectedVersion int64) error
}

// JournalRepositoryFacade combines all journal-related repository interfaces.
type JournalRepositoryFacade interface {
	JournalReader
	JournalWriter
}
