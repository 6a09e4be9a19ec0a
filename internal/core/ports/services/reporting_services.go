package services

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ReportingService defines operations for generating balances and financial statements
type ReportingService interface {
	// AccountBalance returns the balance on the account's normal side as of a date, inclusive.
	AccountBalance(ctx context.Context, accountID string, asOf time.Time) (decimal.Decimal, error)

	// PeriodActivity returns the net normal-side movement with start < posting date <= end.
	PeriodActivity(ctx context.Context, accountID string, start, end time.Time) (decimal.Decimal, error)

	// GenerateBalanceSheet builds a balance sheet, optionally against a comparative date.
	GenerateBalanceSheet(ctx context.Context, asOf time.Time, comparativeAsOf *time.Time) (*domain.BalanceSheet, error)

	// GenerateIncomeStatement builds an income statement, optionally against a comparative period.
	GenerateIncomeStatement(ctx context.Context, period domain.Period, comparative *domain.Period) (*domain.IncomeStatement, error)

	// GenerateCashFlowStatement explains the change in cash over the period (start, end].
	GenerateCashFlowStatement(ctx context.Context, period domain.Period) (*domain.CashFlowStatement, error)

	// GenerateTrialBalance lists every account's balance as of a date
	GenerateTrialBalance(ctx context.Context, asOf time.Time) (*domain.TrialBalance, error)
}
