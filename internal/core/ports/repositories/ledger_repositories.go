package repositories

import (
	"context"
	"iter"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
)

// LedgerReader defines read operations on the general ledger.
type LedgerReader interface {
	// QueryRows returns a lazy, restartable sequence of rows matching the filter in
	// (PostingDate, Seq) order. Every range over the sequence re-executes the query.
	QueryRows(ctx context.Context, filter domain.LedgerFilter) iter.Seq2[domain.GeneralLedgerRow, error]

	// CountRowsByEntry returns how many rows were appended for an entry.
	CountRowsByEntry(ctx context.Context, entryID string) (int, error)
}

// LedgerWriter appends rows. The ledger exposes no update or delete.
type LedgerWriter interface {
	// AppendRows stores rows and assigns their sequence numbers.
	AppendRows(ctx context.Context, rows []domain.GeneralLedgerRow) error
}

// LedgerRepositoryFacade combines all ledger repository interfaces.
type LedgerRepositoryFacade interface {
	LedgerReader
	LedgerWriter
}
