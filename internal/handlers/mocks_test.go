package handlers_test

import (
	"context"
	"iter"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
)

// --- Mock JournalService ---
type MockJournalService struct {
	mock.Mock
}

func (m *MockJournalService) GetJournalEntry(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}
func (m *MockJournalService) ListJournalEntries(ctx context.Context, filter domain.JournalFilter) ([]domain.JournalEntry, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalEntry), args.Error(1)
}
func (m *MockJournalService) CreateJournalEntry(ctx context.Context, draft domain.JournalEntryDraft, actorID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, draft, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}
func (m *MockJournalService) UpdateJournalEntry(ctx context.Context, entryID string, draft domain.JournalEntryDraft, actorID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, entryID, draft, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}
func (m *MockJournalService) DeleteJournalEntry(ctx context.Context, entryID string, actorID string) error {
	args := m.Called(ctx, entryID, actorID)
	return args.Error(0)
}
func (m *MockJournalService) ApproveJournalEntry(ctx context.Context, entryID string, approverID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, entryID, approverID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}
func (m *MockJournalService) RejectJournalEntry(ctx context.Context, entryID string, reason string, actorID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, entryID, reason, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

var _ portssvc.JournalSvcFacade = (*MockJournalService)(nil)

// --- Mock PostingService ---
type MockPostingService struct {
	mock.Mock
}

func (m *MockPostingService) PostJournalEntry(ctx context.Context, entryID string, actorID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, entryID, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}
func (m *MockPostingService) ReverseJournalEntry(ctx context.Context, entryID string, reversalDate time.Time, reason string, actorID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, entryID, reversalDate, reason, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

var _ portssvc.PostingSvcFacade = (*MockPostingService)(nil)

// --- Mock LedgerService ---
type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) QueryRows(ctx context.Context, filter domain.LedgerFilter) iter.Seq2[domain.GeneralLedgerRow, error] {
	args := m.Called(ctx, filter)
	return args.Get(0).(iter.Seq2[domain.GeneralLedgerRow, error])
}
func (m *MockLedgerService) ListRows(ctx context.Context, filter domain.LedgerFilter, pageToken string) ([]domain.GeneralLedgerRow, string, error) {
	args := m.Called(ctx, filter, pageToken)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).([]domain.GeneralLedgerRow), args.String(1), args.Error(2)
}

var _ portssvc.LedgerSvc = (*MockLedgerService)(nil)

// --- Mock ReportingService ---
type MockReportingService struct {
	mock.Mock
}

func (m *MockReportingService) AccountBalance(ctx context.Context, accountID string, asOf time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, accountID, asOf)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}
func (m *MockReportingService) PeriodActivity(ctx context.Context, accountID string, start, end time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, accountID, start, end)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}
func (m *MockReportingService) GenerateBalanceSheet(ctx context.Context, asOf time.Time, comparativeAsOf *time.Time) (*domain.BalanceSheet, error) {
	args := m.Called(ctx, asOf, comparativeAsOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BalanceSheet), args.Error(1)
}
func (m *MockReportingService) GenerateIncomeStatement(ctx context.Context, period domain.Period, comparative *domain.Period) (*domain.IncomeStatement, error) {
	args := m.Called(ctx, period, comparative)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.IncomeStatement), args.Error(1)
}
func (m *MockReportingService) GenerateTrialBalance(ctx context.Context, asOf time.Time) (*domain.TrialBalance, error) {
	args := m.Called(ctx, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TrialBalance), args.Error(1)
}

func (m *MockReportingService) GenerateCashFlowStatement(ctx context.Context, period domain.Period) (*domain.CashFlowStatement, error) {
	args := m.Called(ctx, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CashFlowStatement), args.Error(1)
}

var _ portssvc.ReportingService = (*MockReportingService)(nil)

// --- Mock PeriodService ---
type MockPeriodService struct {
	mock.Mock
}

func (m *MockPeriodService) period(args mock.Arguments) (*domain.AccountingPeriod, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountingPeriod), args.Error(1)
}
func (m *MockPeriodService) CreatePeriod(ctx context.Context, draft domain.AccountingPeriodDraft, actorID string) (*domain.AccountingPeriod, error) {
	return m.period(m.Called(ctx, draft, actorID))
}
func (m *MockPeriodService) GetPeriod(ctx context.Context, periodID string) (*domain.AccountingPeriod, error) {
	return m.period(m.Called(ctx, periodID))
}
func (m *MockPeriodService) ListPeriods(ctx context.Context, filter domain.PeriodFilter) ([]domain.AccountingPeriod, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AccountingPeriod), args.Error(1)
}
func (m *MockPeriodService) ClosePeriod(ctx context.Context, periodID string, actorID string) (*domain.AccountingPeriod, error) {
	return m.period(m.Called(ctx, periodID, actorID))
}
func (m *MockPeriodService) ReopenPeriod(ctx context.Context, periodID string, actorID string) (*domain.AccountingPeriod, error) {
	return m.period(m.Called(ctx, periodID, actorID))
}

var _ portssvc.PeriodSvc = (*MockPeriodService)(nil)

// --- Mock RecurringService ---
type MockRecurringService struct {
	mock.Mock
}

func (m *MockRecurringService) template(args mock.Arguments) (*domain.RecurringTemplate, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RecurringTemplate), args.Error(1)
}
func (m *MockRecurringService) CreateTemplate(ctx context.Context, draft domain.RecurringTemplateDraft, actorID string) (*domain.RecurringTemplate, error) {
	return m.template(m.Called(ctx, draft, actorID))
}
func (m *MockRecurringService) GetTemplate(ctx context.Context, templateID string) (*domain.RecurringTemplate, error) {
	return m.template(m.Called(ctx, templateID))
}
func (m *MockRecurringService) ListTemplates(ctx context.Context, filter domain.TemplateFilter) ([]domain.RecurringTemplate, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RecurringTemplate), args.Error(1)
}
func (m *MockRecurringService) ApproveTemplate(ctx context.Context, templateID string, approverID string) (*domain.RecurringTemplate, error) {
	return m.template(m.Called(ctx, templateID, approverID))
}
func (m *MockRecurringService) SuspendTemplate(ctx context.Context, templateID string, reason string, actorID string) (*domain.RecurringTemplate, error) {
	return m.template(m.Called(ctx, templateID, reason, actorID))
}
func (m *MockRecurringService) ReactivateTemplate(ctx context.Context, templateID string, actorID string) (*domain.RecurringTemplate, error) {
	return m.template(m.Called(ctx, templateID, actorID))
}
func (m *MockRecurringService) GenerateDue(ctx context.Context, asOf time.Time, actorID string) (*domain.RecurringRun, error) {
	args := m.Called(ctx, asOf, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RecurringRun), args.Error(1)
}

var _ portssvc.RecurringSvc = (*MockRecurringService)(nil)

// --- Mock AccountService ---
type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockAccountService) GetAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockAccountService) ListAccounts(ctx context.Context, filter domain.AccountFilter) ([]domain.Account, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

var _ portssvc.AccountSvc = (*MockAccountService)(nil)
