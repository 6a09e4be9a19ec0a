package handlers_test

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
)

func samplePeriod(status domain.PeriodStatus) *domain.AccountingPeriod {
	return &domain.AccountingPeriod{
		PeriodID:  "period-1",
		Name:      "January 2025",
		StartDate: date(2025, 1, 1),
		EndDate:   date(2025, 1, 31),
		Status:    status,
		Version:   1,
	}
}

func sampleTemplate(status domain.TemplateStatus) *domain.RecurringTemplate {
	return &domain.RecurringTemplate{
		TemplateID:  "tmpl-1",
		Code:        "RENT",
		Frequency:   domain.FrequencyMonthly,
		StartDate:   date(2025, 1, 31),
		NextRunDate: date(2025, 2, 28),
		Status:      status,
		Version:     1,
		Lines: []domain.JournalLine{
			{LineNo: 1, AccountID: "E200", Debit: decimal.NewFromInt(1200), Credit: decimal.Zero},
			{LineNo: 2, AccountID: "A100", Debit: decimal.Zero, Credit: decimal.NewFromInt(1200)},
		},
	}
}

func (s *HandlerTestSuite) TestCreatePeriod() {
	s.periods.On("CreatePeriod", mock.Anything, mock.MatchedBy(func(d domain.AccountingPeriodDraft) bool {
		return d.Name == "January 2025" && d.StartDate.Equal(date(2025, 1, 1)) && d.EndDate.Equal(date(2025, 1, 31))
	}), testActor).Return(samplePeriod(domain.PeriodOpen), nil).Once()

	w := s.do(http.MethodPost, "/api/v1/periods",
		`{"name":"January 2025","startDate":"2025-01-01","endDate":"2025-01-31"}`)

	s.Equal(http.StatusCreated, w.Code, w.Body.String())
	out := s.decode(w)
	s.Equal("2025-01-31", out["endDate"])
	s.Equal("OPEN", out["status"])
	s.periods.AssertExpectations(s.T())
}

func (s *HandlerTestSuite) TestCreatePeriod_Overlap() {
	s.periods.On("CreatePeriod", mock.Anything, mock.Anything, testActor).
		Return(nil, apperrors.NewDuplicate(apperrors.CodePeriodOverlap, "overlaps", apperrors.ErrDuplicate)).Once()

	w := s.do(http.MethodPost, "/api/v1/periods",
		`{"name":"Q1","startDate":"2025-01-15","endDate":"2025-03-31"}`)

	s.Equal(http.StatusConflict, w.Code)
	s.Equal(apperrors.CodePeriodOverlap, s.decodeError(w).Code)
}

func (s *HandlerTestSuite) TestClosePeriod() {
	s.periods.On("ClosePeriod", mock.Anything, "period-1", testActor).
		Return(samplePeriod(domain.PeriodClosed), nil).Once()
	s.periods.On("ReopenPeriod", mock.Anything, "period-1", testActor).
		Return(nil, apperrors.NewInvalidState(apperrors.CodeInvalidTransition, "period is OPEN")).Once()

	w := s.do(http.MethodPost, "/api/v1/periods/period-1/close", nil)
	s.Equal(http.StatusOK, w.Code, w.Body.String())
	s.Equal("CLOSED", s.decode(w)["status"])

	w = s.do(http.MethodPost, "/api/v1/periods/period-1/reopen", nil)
	s.Equal(http.StatusConflict, w.Code)
	s.periods.AssertExpectations(s.T())
}

func (s *HandlerTestSuite) TestListPeriods() {
	s.periods.On("ListPeriods", mock.Anything, mock.MatchedBy(func(f domain.PeriodFilter) bool {
		return f.Status == domain.PeriodClosed && f.From != nil && f.From.Equal(date(2025, 1, 1)) && f.To == nil
	})).Return([]domain.AccountingPeriod{*samplePeriod(domain.PeriodClosed)}, nil).Once()

	w := s.do(http.MethodGet, "/api/v1/periods?status=CLOSED&from=2025-01-01", nil)
	s.Equal(http.StatusOK, w.Code, w.Body.String())
	s.Len(s.decode(w)["periods"], 1)

	w = s.do(http.MethodGet, "/api/v1/periods?status=LOCKED", nil)
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *HandlerTestSuite) TestGetPeriod_NotFound() {
	s.periods.On("GetPeriod", mock.Anything, "missing").
		Return(nil, apperrors.NewNotFound(apperrors.CodePeriodNotFound, "accounting period missing not found")).Once()

	w := s.do(http.MethodGet, "/api/v1/periods/missing", nil)
	s.Equal(http.StatusNotFound, w.Code)
	s.Equal(apperrors.CodePeriodNotFound, s.decodeError(w).Code)
}

func (s *HandlerTestSuite) TestCreateRecurringTemplate() {
	s.recurring.On("CreateTemplate", mock.Anything, mock.MatchedBy(func(d domain.RecurringTemplateDraft) bool {
		return d.Code == "RENT" &&
			d.Frequency == domain.FrequencyMonthly &&
			d.StartDate.Equal(date(2025, 1, 31)) &&
			d.EndDate != nil && d.EndDate.Equal(date(2025, 12, 31)) &&
			len(d.Lines) == 2 && d.Lines[1].LineNo == 2
	}), testActor).Return(sampleTemplate(domain.TemplateDraft), nil).Once()

	w := s.do(http.MethodPost, "/api/v1/recurring-entries", `{"code":"RENT","frequency":"MONTHLY",
		"startDate":"2025-01-31","endDate":"2025-12-31","lines":[
		{"accountID":"E200","debit":"1200","credit":"0"},
		{"accountID":"A100","debit":"0","credit":"1200"}]}`)

	s.Equal(http.StatusCreated, w.Code, w.Body.String())
	out := s.decode(w)
	s.Equal("2025-02-28", out["nextRunDate"])
	s.Equal("1200", out["totalAmount"])
	s.recurring.AssertExpectations(s.T())
}

func (s *HandlerTestSuite) TestCreateRecurringTemplate_UnknownFrequency() {
	w := s.do(http.MethodPost, "/api/v1/recurring-entries",
		`{"code":"RENT","frequency":"HOURLY","startDate":"2025-01-31","lines":[]}`)

	s.Equal(http.StatusBadRequest, w.Code)
	s.recurring.AssertNotCalled(s.T(), "CreateTemplate", mock.Anything, mock.Anything, mock.Anything)
}

func (s *HandlerTestSuite) TestRecurringTemplateTransitions() {
	s.recurring.On("ApproveTemplate", mock.Anything, "tmpl-1", testActor).
		Return(sampleTemplate(domain.TemplateApproved), nil).Once()
	s.recurring.On("SuspendTemplate", mock.Anything, "tmpl-1", "vendor dispute", testActor).
		Return(sampleTemplate(domain.TemplateSuspended), nil).Once()
	s.recurring.On("ReactivateTemplate", mock.Anything, "tmpl-1", testActor).
		Return(nil, apperrors.NewInvalidState(apperrors.CodeInvalidTransition, "not suspended")).Once()

	w := s.do(http.MethodPost, "/api/v1/recurring-entries/tmpl-1/approve", nil)
	s.Equal(http.StatusOK, w.Code, w.Body.String())
	s.Equal("APPROVED", s.decode(w)["status"])

	w = s.do(http.MethodPost, "/api/v1/recurring-entries/tmpl-1/suspend", `{"reason":"vendor dispute"}`)
	s.Equal(http.StatusOK, w.Code, w.Body.String())

	w = s.do(http.MethodPost, "/api/v1/recurring-entries/tmpl-1/suspend", `{}`)
	s.Equal(http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, "/api/v1/recurring-entries/tmpl-1/reactivate", nil)
	s.Equal(http.StatusConflict, w.Code)
	s.recurring.AssertExpectations(s.T())
}

func (s *HandlerTestSuite) TestGenerateRecurringEntries() {
	run := &domain.RecurringRun{
		AsOf:      date(2025, 3, 31),
		Generated: []domain.GeneratedEntry{{TemplateID: "tmpl-1", EntryID: "entry-9", EntryDate: date(2025, 3, 31)}},
	}
	s.recurring.On("GenerateDue", mock.Anything, sameDay(date(2025, 3, 31)), testActor).Return(run, nil).Once()
	s.recurring.On("GenerateDue", mock.Anything, mock.MatchedBy(func(t time.Time) bool {
		return !t.IsZero() && !t.Equal(date(2025, 3, 31))
	}), testActor).Return(&domain.RecurringRun{}, nil).Once()

	w := s.do(http.MethodPost, "/api/v1/recurring-entries/generate", `{"asOf":"2025-03-31"}`)
	s.Equal(http.StatusOK, w.Code, w.Body.String())
	s.Len(s.decode(w)["generated"], 1)

	w = s.do(http.MethodPost, "/api/v1/recurring-entries/generate", nil)
	s.Equal(http.StatusOK, w.Code, w.Body.String())
	s.recurring.AssertExpectations(s.T())
}

func (s *HandlerTestSuite) TestCashFlowStatement() {
	s.reporting.On("GenerateCashFlowStatement", mock.Anything,
		domain.Period{Start: date(2024, 12, 31), End: date(2025, 1, 31)}).
		Return(&domain.CashFlowStatement{
			Period:      domain.Period{Start: date(2024, 12, 31), End: date(2025, 1, 31)},
			NetCashFlow: decimal.NewFromInt(1315),
		}, nil).Once()

	w := s.do(http.MethodGet, "/api/v1/reports/cash-flow?from=2024-12-31&to=2025-01-31", nil)
	s.Equal(http.StatusOK, w.Code, w.Body.String())
	s.Equal("1315", s.decode(w)["netCashFlow"])

	w = s.do(http.MethodGet, "/api/v1/reports/cash-flow?to=2025-01-31", nil)
	s.Equal(http.StatusBadRequest, w.Code)
	s.reporting.AssertExpectations(s.T())
}
