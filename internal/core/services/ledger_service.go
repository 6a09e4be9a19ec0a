package services

import (
	"context"
	"fmt"
	"iter"
	"log/slog"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/utils/pagination"
)

const (
	defaultLedgerPageSize = 100
	maxLedgerPageSize     = 1000
)

// ledgerService provides read access to the general ledger.
type ledgerService struct {
	BaseService
	ledgerRepo portsrepo.LedgerReader
}

// NewLedgerService creates a new ledger service.
func NewLedgerService(ledgerRepo portsrepo.LedgerReader) portssvc.LedgerSvc {
	return &ledgerService{ledgerRepo: ledgerRepo}
}

var _ portssvc.LedgerSvc = (*ledgerService)(nil)

// QueryRows streams rows in (PostingDate, Seq) order.
func (s *ledgerService) QueryRows(ctx context.Context, filter domain.LedgerFilter) iter.Seq2[domain.GeneralLedgerRow, error] {
	return s.ledgerRepo.QueryRows(ctx, filter)
}

// ListRows returns one page of rows after the position encoded in pageToken.
func (s *ledgerService) ListRows(ctx context.Context, filter domain.LedgerFilter, pageToken string) ([]domain.GeneralLedgerRow, string, error) {
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return nil, "", apperrors.NewValidation(apperrors.ValidationFailure{
			Code:    apperrors.CodeInvalidDateRange,
			Field:   "to",
			Message: "end of date range precedes its start",
		})
	}
	if pageToken != "" {
		cursor, err := pagination.DecodeLedgerCursor(pageToken)
		if err != nil {
			return nil, "", apperrors.NewValidation(apperrors.ValidationFailure{
				Code:    apperrors.CodeInvalidPageToken,
				Field:   "pageToken",
				Message: err.Error(),
			})
		}
		filter.After = &cursor
	}

	pageSize := filter.Limit
	switch {
	case pageSize <= 0:
		pageSize = defaultLedgerPageSize
	case pageSize > maxLedgerPageSize:
		pageSize = maxLedgerPageSize
	}
	// One extra row tells us whether another page exists.
	filter.Limit = pageSize + 1

	rows := make([]domain.GeneralLedgerRow, 0, pageSize)
	for row, err := range s.ledgerRepo.QueryRows(ctx, filter) {
		if err != nil {
			s.LogError(ctx, err, "Failed to query ledger rows", slog.String("account_id", filter.AccountID))
			return nil, "", fmt.Errorf("failed to query ledger rows: %w", err)
		}
		rows = append(rows, row)
	}

	if len(rows) <= pageSize {
		return rows, "", nil
	}
	rows = rows[:pageSize]
	last := rows[len(rows)-1]
	return rows, pagination.EncodeLedgerCursor(domain.LedgerCursor{PostingDate: last.PostingDate, Seq: last.Seq}), nil
}
