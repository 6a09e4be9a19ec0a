package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
)

// DateLayout is the wire format of calendar dates.
const DateLayout = "2006-01-02"

// FormatDate renders a posting or entry date.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

// ListLedgerRowsParams defines query parameters for paging through ledger rows.
// Both From and To are inclusive posting dates.
type ListLedgerRowsParams struct {
	AccountID string     `form:"accountID"`
	From      *time.Time `form:"from" time_format:"2006-01-02" time_utc:"1"`
	To        *time.Time `form:"to" time_format:"2006-01-02" time_utc:"1"`
	Limit     int        `form:"limit,default=100" binding:"min=0,max=1000"`
	PageToken string     `form:"pageToken"`
}

// ToFilter converts the query into a ledger filter. The filter's lower bound is
// exclusive, so an inclusive from date becomes the day before it.
func (p ListLedgerRowsParams) ToFilter() domain.LedgerFilter {
	var from *time.Time
	if p.From != nil {
		d := domain.NormalizeDate(*p.From).AddDate(0, 0, -1)
		from = &d
	}
	return domain.LedgerFilter{
		AccountID: p.AccountID,
		From:      from,
		To:        p.To,
		Limit:     p.Limit,
	}
}

// LedgerRowResponse defines the data returned for a general ledger row.
type LedgerRowResponse struct {
	Seq         int64           `json:"seq"`
	EntryID     string          `json:"entryID"`
	LineNo      int             `json:"lineNo"`
	AccountID   string          `json:"accountID"`
	AccountCode string          `json:"accountCode"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	PostingDate string          `json:"postingDate"`
	PostedAt    time.Time       `json:"postedAt"`
	PostedBy    string          `json:"postedBy"`
}

// ListLedgerRowsResponse is one page of ledger rows.
type ListLedgerRowsResponse struct {
	Rows          []LedgerRowResponse `json:"rows"`
	NextPageToken string              `json:"nextPageToken,omitempty"`
}

// ToListLedgerRowsResponse converts a page of rows.
func ToListLedgerRowsResponse(rows []domain.GeneralLedgerRow, nextPageToken string) ListLedgerRowsResponse {
	res := ListLedgerRowsResponse{
		Rows:          make([]LedgerRowResponse, len(rows)),
		NextPageToken: nextPageToken,
	}
	for i, r := range rows {
		res.Rows[i] = LedgerRowResponse{
			Seq:         r.Seq,
			EntryID:     r.EntryID,
			LineNo:      r.LineNo,
			AccountID:   r.AccountID,
			AccountCode: r.AccountCode,
			Debit:       r.Debit,
			Credit:      r.Credit,
			PostingDate: FormatDate(r.PostingDate),
			PostedAt:    r.PostedAt,
			PostedBy:    r.PostedBy,
		}
	}
	return res
}
