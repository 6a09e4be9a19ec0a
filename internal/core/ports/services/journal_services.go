package services

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
)

// JournalReaderSvc defines read operations for journal entries
type JournalReaderSvc interface {
	// GetJournalEntry retrieves a specific entry with its lines.
	GetJournalEntry(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// ListJournalEntries retrieves entries by status and entry date window, newest first.
	ListJournalEntries(ctx context.Context, filter domain.JournalFilter) ([]domain.JournalEntry, error)
}

// JournalWriterSvc defines write operations on draft entries
type JournalWriterSvc interface {
	// CreateJournalEntry validates and stores a new DRAFT entry.
	CreateJournalEntry(ctx context.Context, draft domain.JournalEntryDraft, actorID string) (*domain.JournalEntry, error)

	// UpdateJournalEntry replaces the fields and lines of a DRAFT entry.
	UpdateJournalEntry(ctx context.Context, entryID string, draft domain.JournalEntryDraft, actorID string) (*domain.JournalEntry, error)

	// DeleteJournalEntry removes a DRAFT entry.
	DeleteJournalEntry(ctx context.Context, entryID string, actorID string) error
}

// JournalWorkflowSvc moves entries out of DRAFT
type JournalWorkflowSvc interface {
	// ApproveJournalEntry re-validates a DRAFT entry and marks it APPROVED.
	ApproveJournalEntry(ctx context.Context, entryID string, approverID string) (*domain.JournalEntry, error)

	// RejectJournalEntry marks a DRAFT entry REJECTED with a mandatory reason.
	RejectJournalEntry(ctx context.Context, entryID string, reason string, actorID string) (*domain.JournalEntry, error)
}

// JournalSvcFacade combines all journal-related service interfaces
// This is a facade for clients that need access to all operations
type JournalSvcFacade interface {
	JournalReaderSvc
	JournalWriterSvc
	JournalWorkflowSvc
}

// PostingSvcFacade is the only writer of general ledger rows and of the POSTED status.
type PostingSvcFacade interface {
	// PostJournalEntry appends one ledger row per line of an APPROVED entry and marks it POSTED.
	PostJournalEntry(ctx context.Context, entryID string, actorID string) (*domain.JournalEntry, error)

	// ReverseJournalEntry creates and posts an entry with every line's sides swapped,
	// and links it to the original. It returns the reversing entry.
	ReverseJournalEntry(ctx context.Context, entryID string, reversalDate time.Time, reason string, actorID string) (*domain.JournalEntry, error)
}
