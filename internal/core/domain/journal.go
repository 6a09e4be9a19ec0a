package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalStatus indicates the workflow state of a journal entry.
type JournalStatus string

const (
	Draft    JournalStatus = "DRAFT"
	Approved JournalStatus = "APPROVED"
	Rejected JournalStatus = "REJECTED"
	Posted   JournalStatus = "POSTED"
)

// DefaultSource is recorded on entries created without an explicit source system.
const DefaultSource = "Manual"

// JournalLine is a single debit or credit against one account.
type JournalLine struct {
	LineNo    int             `json:"lineNo"`
	AccountID string          `json:"accountID"`
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
	Memo      string          `json:"memo,omitempty"`
}

// IsDebit reports whether the line carries a debit amount.
func (l JournalLine) IsDebit() bool {
	return l.Debit.IsPositive()
}

// JournalEntry is a balanced set of lines plus its approval/posting workflow state.
type JournalEntry struct {
	EntryID          string        `json:"entryID"`
	EntryDate        time.Time     `json:"entryDate"`
	Description      string        `json:"description"`
	ReferenceNumber  string        `json:"referenceNumber,omitempty"`
	Source           string        `json:"source"`
	Lines            []JournalLine `json:"lines"`
	Status           JournalStatus `json:"status"`
	OriginalEntryID  *string       `json:"originalEntryID,omitempty"`
	ReversingEntryID *string       `json:"reversingEntryID,omitempty"`
	ApprovedBy       *string       `json:"approvedBy,omitempty"`
	ApprovedAt       *time.Time    `json:"approvedAt,omitempty"`
	RejectionReason  *string       `json:"rejectionReason,omitempty"`
	ReversalReason   *string       `json:"reversalReason,omitempty"`
	PostedBy         *string       `json:"postedBy,omitempty"`
	PostedAt         *time.Time    `json:"postedAt,omitempty"`
	Version          int64         `json:"version"`
	AuditFields
}

// Totals returns the summed debits and credits of all lines.
func (e JournalEntry) Totals() (debits, credits decimal.Decimal) {
	return SumLines(e.Lines)
}

// IsBalanced reports whether total debits equal total credits exactly.
func (e JournalEntry) IsBalanced() bool {
	d, c := e.Totals()
	return d.Equal(c)
}

// IsReversed reports whether a reversing entry has been created for this entry.
func (e JournalEntry) IsReversed() bool {
	return e.ReversingEntryID != nil
}

// IsReversal reports whether this entry was created by reversing another entry.
func (e JournalEntry) IsReversal() bool {
	return e.OriginalEntryID != nil
}

// AccountIDs returns the distinct account ids referenced by the lines, in line order.
func (e JournalEntry) AccountIDs() []string {
	seen := make(map[string]struct{}, len(e.Lines))
	ids := make([]string, 0, len(e.Lines))
	for _, l := range e.Lines {
		if _, ok := seen[l.AccountID]; ok {
			continue
		}
		seen[l.AccountID] = struct{}{}
		ids = append(ids, l.AccountID)
	}
	return ids
}

// Clone returns a deep copy so stores can hand out entries without sharing state.
func (e JournalEntry) Clone() JournalEntry {
	out := e
	out.Lines = append([]JournalLine(nil), e.Lines...)
	out.OriginalEntryID = cloneString(e.OriginalEntryID)
	out.ReversingEntryID = cloneString(e.ReversingEntryID)
	out.ApprovedBy = cloneString(e.ApprovedBy)
	out.RejectionReason = cloneString(e.RejectionReason)
	out.ReversalReason = cloneString(e.ReversalReason)
	out.PostedBy = cloneString(e.PostedBy)
	out.ApprovedAt = cloneTime(e.ApprovedAt)
	out.PostedAt = cloneTime(e.PostedAt)
	return out
}

// SumLines totals the debit and credit columns.
func SumLines(lines []JournalLine) (debits, credits decimal.Decimal) {
	debits, credits = decimal.Zero, decimal.Zero
	for _, l := range lines {
		debits = debits.Add(l.Debit)
		credits = credits.Add(l.Credit)
	}
	return debits, credits
}

// SwapLines returns copies of lines with debit and credit exchanged per line.
func SwapLines(lines []JournalLine) []JournalLine {
	out := make([]JournalLine, len(lines))
	for i, l := range lines {
		out[i] = JournalLine{
			LineNo:    l.LineNo,
			AccountID: l.AccountID,
			Debit:     l.Credit,
			Credit:    l.Debit,
			Memo:      l.Memo,
		}
	}
	return out
}

// JournalFilter narrows journal entry listings.
type JournalFilter struct {
	Status JournalStatus
	From   *time.Time
	To     *time.Time
	Limit  int
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

// JournalEntryDraft carries the caller-supplied fields of a new or edited entry.
type JournalEntryDraft struct {
	EntryDate       time.Time
	Description     string
	ReferenceNumber string
	Source          string
	Lines           []JournalLine
}
