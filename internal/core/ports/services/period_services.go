package services

import (
	"context"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
)

// PeriodSvc manages accounting periods. Posting into a CLOSED period is refused.
type PeriodSvc interface {
	// CreatePeriod stores a new OPEN period. Periods may not overlap.
	CreatePeriod(ctx context.Context, draft domain.AccountingPeriodDraft, actorID string) (*domain.AccountingPeriod, error)

	// GetPeriod retrieves a period by id.
	GetPeriod(ctx context.Context, periodID string) (*domain.AccountingPeriod, error)

	// ListPeriods retrieves periods ordered by start date.
	ListPeriods(ctx context.Context, filter domain.PeriodFilter) ([]domain.AccountingPeriod, error)

	// ClosePeriod marks an OPEN period CLOSED.
	ClosePeriod(ctx context.Context, periodID string, actorID string) (*domain.AccountingPeriod, error)

	// ReopenPeriod marks a CLOSED period OPEN again.
	ReopenPeriod(ctx context.Context, periodID string, actorID string) (*domain.AccountingPeriod, error)
}
