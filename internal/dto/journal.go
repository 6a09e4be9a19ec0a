package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
)

// JournalLineRequest is one debit or credit of a journal entry request.
type JournalLineRequest struct {
	AccountID string          `json:"accountID" binding:"required"`
	Debit     decimal.Decimal `json:"debit" binding:"decimal_gte0"`
	Credit    decimal.Decimal `json:"credit" binding:"decimal_gte0"`
	Memo      string          `json:"memo" binding:"max=255"`
}

// JournalEntryRequest defines the data needed to create or replace a draft entry.
// Balance and line rules are enforced by the journal service, so an unbalanced
// request still binds and is reported with every violated rule.
type JournalEntryRequest struct {
	EntryDate       Date                 `json:"entryDate"`
	Description     string               `json:"description" binding:"max=500"`
	ReferenceNumber string               `json:"referenceNumber" binding:"max=100"`
	Source          string               `json:"source" binding:"max=50"`
	Lines           []JournalLineRequest `json:"lines" binding:"dive"`
}

// ToDraft converts the request into the service input.
func (r JournalEntryRequest) ToDraft() domain.JournalEntryDraft {
	lines := make([]domain.JournalLine, len(r.Lines))
	for i, l := range r.Lines {
		lines[i] = domain.JournalLine{
			LineNo:    i + 1,
			AccountID: l.AccountID,
			Debit:     l.Debit,
			Credit:    l.Credit,
			Memo:      l.Memo,
		}
	}
	return domain.JournalEntryDraft{
		EntryDate:       r.EntryDate.Time,
		Description:     r.Description,
		ReferenceNumber: r.ReferenceNumber,
		Source:          r.Source,
		Lines:           lines,
	}
}

// RejectJournalEntryRequest carries the mandatory rejection reason.
type RejectJournalEntryRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// ReverseJournalEntryRequest carries the reversal date and reason.
type ReverseJournalEntryRequest struct {
	ReversalDate Date   `json:"reversalDate"`
	Reason       string `json:"reason" binding:"required"`
}

// ListJournalEntriesParams defines query parameters for listing entries.
type ListJournalEntriesParams struct {
	Status string     `form:"status" binding:"omitempty,oneof=DRAFT APPROVED REJECTED POSTED"`
	From   *time.Time `form:"from" time_format:"2006-01-02" time_utc:"1"`
	To     *time.Time `form:"to" time_format:"2006-01-02" time_utc:"1"`
	Limit  int        `form:"limit,default=50" binding:"min=0,max=500"`
}

// ToFilter converts the query into a journal filter.
func (p ListJournalEntriesParams) ToFilter() domain.JournalFilter {
	return domain.JournalFilter{
		Status: domain.JournalStatus(p.Status),
		From:   p.From,
		To:     p.To,
		Limit:  p.Limit,
	}
}

// JournalLineResponse defines the data returned for a journal line.
type JournalLineResponse struct {
	LineNo    int             `json:"lineNo"`
	AccountID string          `json:"accountID"`
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
	Memo      string          `json:"memo,omitempty"`
}

// JournalEntryResponse defines the data returned for a journal entry.
type JournalEntryResponse struct {
	EntryID          string                `json:"entryID"`
	EntryDate        string                `json:"entryDate"`
	Description      string                `json:"description"`
	ReferenceNumber  string                `json:"referenceNumber,omitempty"`
	Source           string                `json:"source"`
	Status           domain.JournalStatus  `json:"status"`
	Lines            []JournalLineResponse `json:"lines"`
	TotalDebits      decimal.Decimal       `json:"totalDebits"`
	TotalCredits     decimal.Decimal       `json:"totalCredits"`
	OriginalEntryID  *string               `json:"originalEntryID,omitempty"`
	ReversingEntryID *string               `json:"reversingEntryID,omitempty"`
	ApprovedBy       *string               `json:"approvedBy,omitempty"`
	ApprovedAt       *time.Time            `json:"approvedAt,omitempty"`
	RejectionReason  *string               `json:"rejectionReason,omitempty"`
	ReversalReason   *string               `json:"reversalReason,omitempty"`
	PostedBy         *string               `json:"postedBy,omitempty"`
	PostedAt         *time.Time            `json:"postedAt,omitempty"`
	Version          int64                 `json:"version"`
	CreatedAt        time.Time             `json:"createdAt"`
	CreatedBy        string                `json:"createdBy"`
	LastUpdatedAt    time.Time             `json:"lastUpdatedAt"`
	LastUpdatedBy    string                `json:"lastUpdatedBy"`
}

// ListJournalEntriesResponse wraps a list of entries.
type ListJournalEntriesResponse struct {
	Entries []JournalEntryResponse `json:"entries"`
}

// ToJournalEntryResponse converts a domain.JournalEntry to its response DTO.
func ToJournalEntryResponse(e *domain.JournalEntry) JournalEntryResponse {
	lines := make([]JournalLineResponse, len(e.Lines))
	for i, l := range e.Lines {
		lines[i] = JournalLineResponse{
			LineNo:    l.LineNo,
			AccountID: l.AccountID,
			Debit:     l.Debit,
			Credit:    l.Credit,
			Memo:      l.Memo,
		}
	}
	debits, credits := e.Totals()
	return JournalEntryResponse{
		EntryID:          e.EntryID,
		EntryDate:        FormatDate(e.EntryDate),
		Description:      e.Description,
		ReferenceNumber:  e.ReferenceNumber,
		Source:           e.Source,
		Status:           e.Status,
		Lines:            lines,
		TotalDebits:      debits,
		TotalCredits:     credits,
		OriginalEntryID:  e.OriginalEntryID,
		ReversingEntryID: e.ReversingEntryID,
		ApprovedBy:       e.ApprovedBy,
		ApprovedAt:       e.ApprovedAt,
		RejectionReason:  e.RejectionReason,
		ReversalReason:   e.ReversalReason,
		PostedBy:         e.PostedBy,
		PostedAt:         e.PostedAt,
		Version:          e.Version,
		CreatedAt:        e.CreatedAt,
		CreatedBy:        e.CreatedBy,
		LastUpdatedAt:    e.LastUpdatedAt,
		LastUpdatedBy:    e.LastUpdatedBy,
	}
}

// ToListJournalEntriesResponse converts entries to the list response.
func ToListJournalEntriesResponse(entries []domain.JournalEntry) ListJournalEntriesResponse {
	res := ListJournalEntriesResponse{Entries: make([]JournalEntryResponse, len(entries))}
	for i := range entries {
		res.Entries[i] = ToJournalEntryResponse(&entries[i])
	}
	return res
}
