package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
)

type PeriodServiceTestSuite struct {
	suite.Suite
	f   *ledgerFixture
	ctx context.Context
}

func (s *PeriodServiceTestSuite) SetupTest() {
	s.f = newLedgerFixture()
	s.ctx = context.Background()
}

func TestPeriodServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PeriodServiceTestSuite))
}

func (s *PeriodServiceTestSuite) january() *domain.AccountingPeriod {
	period, err := s.f.svc.Period.CreatePeriod(s.ctx, domain.AccountingPeriodDraft{
		Name: " January 2025 ", StartDate: date(2025, 1, 1), EndDate: date(2025, 1, 31),
	}, actor)
	s.Require().NoError(err)
	return period
}

func (s *PeriodServiceTestSuite) TestCreatePeriod() {
	period := s.january()
	s.Equal("January 2025", period.Name)
	s.Equal(domain.PeriodOpen, period.Status)
	s.Equal(int64(1), period.Version)

	got, err := s.f.svc.Period.GetPeriod(s.ctx, period.PeriodID)
	s.Require().NoError(err)
	s.Equal(period.PeriodID, got.PeriodID)
	s.True(got.Contains(date(2025, 1, 31)), "end date is inclusive")
}

func (s *PeriodServiceTestSuite) TestCreatePeriod_Validation() {
	_, err := s.f.svc.Period.CreatePeriod(s.ctx, domain.AccountingPeriodDraft{
		StartDate: date(2025, 2, 1), EndDate: date(2025, 1, 1),
	}, actor)
	s.ErrorIs(err, apperrors.ErrValidation)
	s.True(apperrors.HasFailure(err, apperrors.CodeNameRequired))
	s.True(apperrors.HasFailure(err, apperrors.CodeInvalidDateRange))
}

func (s *PeriodServiceTestSuite) TestCreatePeriod_Overlap() {
	s.january()

	_, err := s.f.svc.Period.CreatePeriod(s.ctx, domain.AccountingPeriodDraft{
		Name: "Q1", StartDate: date(2025, 1, 31), EndDate: date(2025, 3, 31),
	}, actor)
	s.ErrorIs(err, apperrors.ErrDuplicate)
	s.Equal(apperrors.CodePeriodOverlap, apperrors.CodeOf(err))

	_, err = s.f.svc.Period.CreatePeriod(s.ctx, domain.AccountingPeriodDraft{
		Name: "February 2025", StartDate: date(2025, 2, 1), EndDate: date(2025, 2, 28),
	}, actor)
	s.NoError(err, "adjacent periods do not overlap")
}

func (s *PeriodServiceTestSuite) TestCloseAndReopen() {
	period := s.january()

	closed, err := s.f.svc.Period.ClosePeriod(s.ctx, period.PeriodID, "controller-1")
	s.Require().NoError(err)
	s.Equal(domain.PeriodClosed, closed.Status)
	s.Require().NotNil(closed.ClosedBy)
	s.Equal("controller-1", *closed.ClosedBy)
	s.NotNil(closed.ClosedAt)
	s.Equal(int64(2), closed.Version)

	_, err = s.f.svc.Period.ClosePeriod(s.ctx, period.PeriodID, actor)
	s.ErrorIs(err, apperrors.ErrInvalidState)
	s.Equal(apperrors.CodeInvalidTransition, apperrors.CodeOf(err))

	reopened, err := s.f.svc.Period.ReopenPeriod(s.ctx, period.PeriodID, actor)
	s.Require().NoError(err)
	s.Equal(domain.PeriodOpen, reopened.Status)
	s.Nil(reopened.ClosedBy)
	s.Nil(reopened.ClosedAt)

	_, err = s.f.svc.Period.ReopenPeriod(s.ctx, period.PeriodID, actor)
	s.Equal(apperrors.CodeInvalidTransition, apperrors.CodeOf(err))
}

func (s *PeriodServiceTestSuite) TestUnknownPeriod() {
	_, err := s.f.svc.Period.GetPeriod(s.ctx, "missing")
	s.ErrorIs(err, apperrors.ErrNotFound)
	s.Equal(apperrors.CodePeriodNotFound, apperrors.CodeOf(err))

	_, err = s.f.svc.Period.ClosePeriod(s.ctx, "missing", actor)
	s.Equal(apperrors.CodePeriodNotFound, apperrors.CodeOf(err))
}

func (s *PeriodServiceTestSuite) TestListPeriods() {
	january := s.january()
	_, err := s.f.svc.Period.CreatePeriod(s.ctx, domain.AccountingPeriodDraft{
		Name: "February 2025", StartDate: date(2025, 2, 1), EndDate: date(2025, 2, 28),
	}, actor)
	s.Require().NoError(err)
	_, err = s.f.svc.Period.ClosePeriod(s.ctx, january.PeriodID, actor)
	s.Require().NoError(err)

	all, err := s.f.svc.Period.ListPeriods(s.ctx, domain.PeriodFilter{})
	s.Require().NoError(err)
	s.Require().Len(all, 2)
	s.Equal("January 2025", all[0].Name)

	closed, err := s.f.svc.Period.ListPeriods(s.ctx, domain.PeriodFilter{Status: domain.PeriodClosed})
	s.Require().NoError(err)
	s.Require().Len(closed, 1)
	s.Equal(january.PeriodID, closed[0].PeriodID)

	febOnly, err := s.f.svc.Period.ListPeriods(s.ctx, domain.PeriodFilter{From: datePtr(2025, 2, 10)})
	s.Require().NoError(err)
	s.Require().Len(febOnly, 1)
	s.Equal("February 2025", febOnly[0].Name)
}
