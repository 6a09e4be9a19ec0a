package mapping

import (
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/models"
)

// ToModelJournalEntry converts a domain JournalEntry to its header row and line rows.
func ToModelJournalEntry(d domain.JournalEntry) (models.JournalEntry, []models.JournalLine) {
	entry := models.JournalEntry{
		EntryID:          d.EntryID,
		EntryDate:        d.EntryDate,
		Description:      d.Description,
		ReferenceNumber:  d.ReferenceNumber,
		Source:           d.Source,
		Status:           models.JournalStatus(d.Status),
		OriginalEntryID:  d.OriginalEntryID,
		ReversingEntryID: d.ReversingEntryID,
		ApprovedBy:       d.ApprovedBy,
		ApprovedAt:       d.ApprovedAt,
		RejectionReason:  d.RejectionReason,
		ReversalReason:   d.ReversalReason,
		PostedBy:         d.PostedBy,
		PostedAt:         d.PostedAt,
		Version:          d.Version,
		AuditFields:      ToModelAuditFields(d.AuditFields),
	}
	lines := make([]models.JournalLine, len(d.Lines))
	for i, l := range d.Lines {
		lines[i] = models.JournalLine{
			EntryID:   d.EntryID,
			LineNo:    l.LineNo,
			AccountID: l.AccountID,
			Debit:     l.Debit,
			Credit:    l.Credit,
			Memo:      l.Memo,
		}
	}
	return entry, lines
}

// ToDomainJournalEntry converts a header row and its line rows to a domain JournalEntry.
func ToDomainJournalEntry(m models.JournalEntry, lines []models.JournalLine) domain.JournalEntry {
	d := domain.JournalEntry{
		EntryID:          m.EntryID,
		EntryDate:        domain.NormalizeDate(m.EntryDate),
		Description:      m.Description,
		ReferenceNumber:  m.ReferenceNumber,
		Source:           m.Source,
		Status:           domain.JournalStatus(m.Status),
		OriginalEntryID:  m.OriginalEntryID,
		ReversingEntryID: m.ReversingEntryID,
		ApprovedBy:       m.ApprovedBy,
		ApprovedAt:       m.ApprovedAt,
		RejectionReason:  m.RejectionReason,
		ReversalReason:   m.ReversalReason,
		PostedBy:         m.PostedBy,
		PostedAt:         m.PostedAt,
		Version:          m.Version,
		AuditFields:      ToDomainAuditFields(m.AuditFields),
		Lines:            make([]domain.JournalLine, len(lines)),
	}
	for i, l := range lines {
		d.Lines[i] = domain.JournalLine{
			LineNo:    l.LineNo,
			AccountID: l.AccountID,
			Debit:     l.Debit,
			Credit:    l.Credit,
			Memo:      l.Memo,
		}
	}
	return d
}
