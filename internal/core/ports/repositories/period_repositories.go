package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
)

// PeriodReader defines read operations for accounting periods.
type PeriodReader interface {
	// FindPeriodByID retrieves a period by its identifier.
	FindPeriodByID(ctx context.Context, periodID string) (*domain.AccountingPeriod, error)

	// FindPeriodByDate returns the period containing date, or apperrors.ErrNotFound when
	// no period covers it. Inside a transaction the period row stays share-locked until
	// commit, so it cannot be closed underneath a posting.
	FindPeriodByDate(ctx context.Context, date time.Time) (*domain.AccountingPeriod, error)

	// ListPeriods retrieves periods matching the filter ordered by start date.
	ListPeriods(ctx context.Context, filter domain.PeriodFilter) ([]domain.AccountingPeriod, error)
}

// PeriodWriter defines write operations for accounting periods.
type PeriodWriter interface {
	// FindPeriodForUpdate loads a period and locks it for the rest of the transaction.
	FindPeriodForUpdate(ctx context.Context, periodID string) (*domain.AccountingPeriod, error)

	// SavePeriod inserts a period. A period overlapping an existing one returns
	// apperrors.ErrDuplicate.
	SavePeriod(ctx context.Context, period domain.AccountingPeriod) error

	// UpdatePeriod stores period if its stored version equals expectedVersion.
	UpdatePeriod(ctx context.Context, period domain.AccountingPeriod, expectedVersion int64) error
}

// PeriodRepositoryFacade combines all accounting period repository interfaces.
type PeriodRepositoryFacade interface {
	PeriodReader
	PeriodWriter
}
