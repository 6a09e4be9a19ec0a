package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// GeneralLedgerRow is a row of general_ledger_rows. Seq is assigned by the database.
type GeneralLedgerRow struct {
	Seq         int64           `db:"seq"`
	EntryID     string          `db:"entry_id"`
	LineNo      int             `db:"line_no"`
	AccountID   string          `db:"account_id"`
	AccountCode string          `db:"account_code"`
	Debit       decimal.Decimal `db:"debit"`
	Credit      decimal.Decimal `db:"credit"`
	PostingDate time.Time       `db:"posting_date"`
	PostedAt    time.Time       `db:"posted_at"`
	PostedBy    string          `db:"posted_by"`
}
