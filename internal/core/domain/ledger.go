package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// GeneralLedgerRow is one immutable posting produced from a line of a posted entry.
type GeneralLedgerRow struct {
	Seq         int64           `json:"seq"`
	EntryID     string          `json:"entryID"`
	LineNo      int             `json:"lineNo"`
	AccountID   string          `json:"accountID"`
	AccountCode string          `json:"accountCode"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	PostingDate time.Time       `json:"postingDate"`
	PostedAt    time.Time       `json:"postedAt"`
	PostedBy    string          `json:"postedBy"`
}

// LedgerCursor positions a scan strictly after the given row in (PostingDate, Seq) order.
type LedgerCursor struct {
	PostingDate time.Time
	Seq         int64
}

// LedgerFilter selects rows whose posting date lies in the window (From, To].
// Nil bounds are open. An empty AccountID selects every account; a non-empty EntryID
// narrows the selection to the rows of one entry.
type LedgerFilter struct {
	AccountID string
	EntryID   string
	From      *time.Time
	To        *time.Time
	After     *LedgerCursor
	Limit     int
}

// Matches reports whether row falls inside the filter window.
func (f LedgerFilter) Matches(row GeneralLedgerRow) bool {
	if f.AccountID != "" && row.AccountID != f.AccountID {
		return false
	}
	if f.EntryID != "" && row.EntryID != f.EntryID {
		return false
	}
	if f.From != nil && !row.PostingDate.After(*f.From) {
		return false
	}
	if f.To != nil && row.PostingDate.After(*f.To) {
		return false
	}
	if f.After != nil {
		if row.PostingDate.Before(f.After.PostingDate) {
			return false
		}
		if row.PostingDate.Equal(f.After.PostingDate) && row.Seq <= f.After.Seq {
			return false
		}
	}
	return true
}

// AccountTotals accumulates raw debit and credit sums for one account.
type AccountTotals struct {
	AccountID   string
	AccountCode string
	Debit       decimal.Decimal
	Credit      decimal.Decimal
}

// Add folds a ledger row into the totals.
func (t *AccountTotals) Add(row GeneralLedgerRow) {
	t.Debit = t.Debit.Add(row.Debit)
	t.Credit = t.Credit.Add(row.Credit)
	if t.AccountCode == "" {
		t.AccountCode = row.AccountCode
	}
}
