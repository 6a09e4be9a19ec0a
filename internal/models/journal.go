package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalStatus indicates the state of a journal entry.
type JournalStatus string

const (
	Draft    JournalStatus = "DRAFT"
	Approved JournalStatus = "APPROVED"
	Rejected JournalStatus = "REJECTED"
	Posted   JournalStatus = "POSTED"
)

// JournalEntry is a row of journal_entries. Lines live in journal_lines.
type JournalEntry struct {
	EntryID          string        `db:"entry_id"`
	EntryDate        time.Time     `db:"entry_date"`
	Description      string        `db:"description"`
	ReferenceNumber  string        `db:"reference_number"`
	Source           string        `db:"source"`
	Status           JournalStatus `db:"status"`
	OriginalEntryID  *string       `db:"original_entry_id"`
	ReversingEntryID *string       `db:"reversing_entry_id"`
	ApprovedBy       *string       `db:"approved_by"`
	ApprovedAt       *time.Time    `db:"approved_at"`
	RejectionReason  *string       `db:"rejection_reason"`
	ReversalReason   *string       `db:"reversal_reason"`
	PostedBy         *string       `db:"posted_by"`
	PostedAt         *time.Time    `db:"posted_at"`
	Version          int64         `db:"version"`
	AuditFields
}

// JournalLine is a row of journal_lines. Exactly one of Debit and Credit is positive.
type JournalLine struct {
	EntryID   string          `db:"entry_id"`
	LineNo    int             `db:"line_no"`
	AccountID string          `db:"account_id"`
	Debit     decimal.Decimal `db:"debit"`
	Credit    decimal.Decimal `db:"credit"`
	Memo      string          `db:"memo"`
}
