package services

import (
	"context"
	"iter"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
)

// LedgerSvc exposes read access to the general ledger.
type LedgerSvc interface {
	// QueryRows streams rows in (PostingDate, Seq) order.
	QueryRows(ctx context.Context, filter domain.LedgerFilter) iter.Seq2[domain.GeneralLedgerRow, error]

	// ListRows returns one page of rows and the token of the next page, empty when exhausted.
	ListRows(ctx context.Context, filter domain.LedgerFilter, pageToken string) ([]domain.GeneralLedgerRow, string, error)
}
