package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
)

// AsOfParams selects a single report date.
type AsOfParams struct {
	AsOf *time.Time `form:"asOf" time_format:"2006-01-02" time_utc:"1"`
}

// BalanceSheetParams selects the report date and an optional comparative date.
type BalanceSheetParams struct {
	AsOf      *time.Time `form:"asOf" time_format:"2006-01-02" time_utc:"1"`
	CompareTo *time.Time `form:"compareTo" time_format:"2006-01-02" time_utc:"1"`
}

// PeriodParams selects a (from, to] window.
type PeriodParams struct {
	From time.Time `form:"from" time_format:"2006-01-02" time_utc:"1" binding:"required"`
	To   time.Time `form:"to" time_format:"2006-01-02" time_utc:"1" binding:"required"`
}

// Period returns the (From, To] window.
func (p PeriodParams) Period() domain.Period {
	return domain.Period{Start: p.From, End: p.To}
}

// IncomeStatementParams selects the period and an optional comparative period.
type IncomeStatementParams struct {
	From        time.Time  `form:"from" time_format:"2006-01-02" time_utc:"1" binding:"required"`
	To          time.Time  `form:"to" time_format:"2006-01-02" time_utc:"1" binding:"required"`
	CompareFrom *time.Time `form:"compareFrom" time_format:"2006-01-02" time_utc:"1"`
	CompareTo   *time.Time `form:"compareTo" time_format:"2006-01-02" time_utc:"1"`
}

// Period returns the main reporting period.
func (p IncomeStatementParams) Period() domain.Period {
	return domain.Period{Start: p.From, End: p.To}
}

// ComparativePeriod returns the comparative period when both bounds were supplied.
func (p IncomeStatementParams) ComparativePeriod() *domain.Period {
	if p.CompareFrom == nil || p.CompareTo == nil {
		return nil
	}
	return &domain.Period{Start: *p.CompareFrom, End: *p.CompareTo}
}

// AccountBalanceResponse defines the data returned for an account balance query.
type AccountBalanceResponse struct {
	AccountID string          `json:"accountID"`
	AsOf      string          `json:"asOf"`
	Balance   decimal.Decimal `json:"balance"`
}

// AccountActivityResponse defines the net movement of an account over a period.
type AccountActivityResponse struct {
	AccountID string          `json:"accountID"`
	From      string          `json:"from"`
	To        string          `json:"to"`
	Activity  decimal.Decimal `json:"activity"`
}
