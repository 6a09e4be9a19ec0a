package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
)

type periodService struct {
	BaseService
	periods   portsrepo.PeriodRepositoryFacade
	txManager portsrepo.TransactionManager
	now       func() time.Time
}

// PeriodServiceOption is a functional option for configuring the period service
type PeriodServiceOption func(*periodService)

// WithPeriodClock overrides the time source.
func WithPeriodClock(now func() time.Time) PeriodServiceOption {
	return func(s *periodService) {
		s.now = now
	}
}

// NewPeriodService creates a period service.
func NewPeriodService(periods portsrepo.PeriodRepositoryFacade, txManager portsrepo.TransactionManager, options ...PeriodServiceOption) portssvc.PeriodSvc {
	svc := &periodService{
		periods:   periods,
		txManager: txManager,
		now:       time.Now,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.PeriodSvc = (*periodService)(nil)

func (s *periodService) CreatePeriod(ctx context.Context, draft domain.AccountingPeriodDraft, actorID string) (*domain.AccountingPeriod, error) {
	name := strings.TrimSpace(draft.Name)
	start := domain.NormalizeDate(draft.StartDate)
	end := domain.NormalizeDate(draft.EndDate)

	var failures []apperrors.ValidationFailure
	if name == "" {
		failures = append(failures, apperrors.ValidationFailure{
			Code: apperrors.CodeNameRequired, Field: "name", Message: "period name is required",
		})
	}
	switch {
	case start.IsZero() || end.IsZero():
		failures = append(failures, apperrors.ValidationFailure{
			Code: apperrors.CodeInvalidDateRange, Field: "startDate", Message: "start and end dates are required",
		})
	case end.Before(start):
		failures = append(failures, apperrors.ValidationFailure{
			Code:  apperrors.CodeInvalidDateRange,
			Field: "endDate",
			Message: fmt.Sprintf("period end %s precedes start %s",
				end.Format(time.DateOnly), start.Format(time.DateOnly)),
		})
	}
	if len(failures) > 0 {
		return nil, apperrors.NewValidation(failures...)
	}

	now := s.now().UTC()
	period := domain.AccountingPeriod{
		PeriodID:  uuid.NewString(),
		Name:      name,
		StartDate: start,
		EndDate:   end,
		Status:    domain.PeriodOpen,
		Version:   1,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}
	if err := s.periods.SavePeriod(ctx, period); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, apperrors.NewDuplicate(apperrors.CodePeriodOverlap,
				fmt.Sprintf("period %s to %s overlaps an existing period",
					start.Format(time.DateOnly), end.Format(time.DateOnly)), err)
		}
		s.LogError(ctx, err, "Failed to save accounting period")
		return nil, fmt.Errorf("failed to save accounting period: %w", err)
	}

	s.LogInfo(ctx, "Accounting period created",
		slog.String("period_id", period.PeriodID),
		slog.Time("start", start),
		slog.Time("end", end))
	return &period, nil
}

func (s *periodService) GetPeriod(ctx context.Context, periodID string) (*domain.AccountingPeriod, error) {
	period, err := s.periods.FindPeriodByID(ctx, periodID)
	if err != nil {
		return nil, periodLookupError(err, periodID)
	}
	return period, nil
}

func (s *periodService) ListPeriods(ctx context.Context, filter domain.PeriodFilter) ([]domain.AccountingPeriod, error) {
	periods, err := s.periods.ListPeriods(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounting periods: %w", err)
	}
	return periods, nil
}

func (s *periodService) ClosePeriod(ctx context.Context, periodID string, actorID string) (*domain.AccountingPeriod, error) {
	period, err := s.transition(ctx, periodID, domain.PeriodOpen, domain.PeriodClosed, actorID)
	if err != nil {
		return nil, err
	}
	s.LogInfo(ctx, "Accounting period closed", slog.String("period_id", periodID), slog.String("closed_by", actorID))
	return period, nil
}

func (s *periodService) ReopenPeriod(ctx context.Context, periodID string, actorID string) (*domain.AccountingPeriod, error) {
	period, err := s.transition(ctx, periodID, domain.PeriodClosed, domain.PeriodOpen, actorID)
	if err != nil {
		return nil, err
	}
	s.LogWarn(ctx, "Accounting period reopened", slog.String("period_id", periodID), slog.String("actor", actorID))
	return period, nil
}

// transition locks the period so a close waits for in-flight postings into it.
func (s *periodService) transition(ctx context.Context, periodID string, from, to domain.PeriodStatus, actorID string) (*domain.AccountingPeriod, error) {
	var out *domain.AccountingPeriod
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		period, err := repos.Periods.FindPeriodForUpdate(ctx, periodID)
		if err != nil {
			return periodLookupError(err, periodID)
		}
		if period.Status != from {
			return apperrors.NewInvalidState(apperrors.CodeInvalidTransition,
				fmt.Sprintf("accounting period %s is %s; expected %s", periodID, period.Status, from))
		}

		now := s.now().UTC()
		expected := period.Version
		period.Status = to
		if to == domain.PeriodClosed {
			period.ClosedBy = &actorID
			period.ClosedAt = &now
		} else {
			period.ClosedBy = nil
			period.ClosedAt = nil
		}
		period.Version++
		period.LastUpdatedAt = now
		period.LastUpdatedBy = actorID
		if err := repos.Periods.UpdatePeriod(ctx, *period, expected); err != nil {
			if errors.Is(err, apperrors.ErrConflict) {
				return apperrors.NewConflict(fmt.Sprintf("accounting period %s was modified concurrently", periodID), err)
			}
			return fmt.Errorf("failed to update accounting period %s: %w", periodID, err)
		}
		out = period
		return nil
	})
	return out, err
}

func periodLookupError(err error, periodID string) error {
	if errors.Is(err, apperrors.ErrNotFound) {
		return apperrors.NewNotFound(apperrors.CodePeriodNotFound, fmt.Sprintf("accounting period %s not found", periodID))
	}
	return fmt.Errorf("failed to load accounting period %s: %w", periodID, err)
}

// checkPeriodOpen refuses a posting date covered by a CLOSED period. Dates outside
// every defined period are open.
func checkPeriodOpen(ctx context.Context, periods portsrepo.PeriodReader, postingDate time.Time) error {
	period, err := periods.FindPeriodByDate(ctx, postingDate)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load accounting period for %s: %w", postingDate.Format(time.DateOnly), err)
	}
	if period.IsClosed() {
		return apperrors.NewInvalidState(apperrors.CodePeriodClosed,
			fmt.Sprintf("posting date %s falls in closed period %s", postingDate.Format(time.DateOnly), period.Name))
	}
	return nil
}
