package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReportTolerance is the amount below which balances are treated as zero.
var ReportTolerance = decimal.New(1, -2)

// IsNegligible reports whether |d| is below the report tolerance.
func IsNegligible(d decimal.Decimal) bool {
	return d.Abs().LessThan(ReportTolerance)
}

// Warning codes attached to reports.
const (
	WarningUnknownAccount        = "UnknownAccount"
	WarningInactiveAccount       = "InactiveAccount"
	WarningBalanceSheetImbalance = "BalanceSheetImbalance"
	WarningTrialBalanceImbalance = "TrialBalanceImbalance"
	WarningUnbalancedPosting     = "UnbalancedPosting"
	WarningPostingRowMismatch    = "PostingRowMismatch"
	WarningCashFlowUnreconciled  = "CashFlowUnreconciled"
)

// DataIntegrityWarning is a non-fatal anomaly found while deriving a report.
type DataIntegrityWarning struct {
	Code      string `json:"code"`
	AccountID string `json:"accountID,omitempty"`
	EntryID   string `json:"entryID,omitempty"`
	Message   string `json:"message"`
}

// StatementLine is one account row of a financial statement.
type StatementLine struct {
	AccountID   string           `json:"accountID"`
	AccountCode string           `json:"accountCode"`
	AccountName string           `json:"accountName"`
	Amount      decimal.Decimal  `json:"amount"`
	Comparative *decimal.Decimal `json:"comparative,omitempty"`
	Variance    *decimal.Decimal `json:"variance,omitempty"`
}

// StatementSubsection groups lines of the same account type.
type StatementSubsection struct {
	Name        string           `json:"name"`
	Lines       []StatementLine  `json:"lines"`
	Total       decimal.Decimal  `json:"total"`
	Comparative *decimal.Decimal `json:"comparative,omitempty"`
}

// StatementSection is a top-level block such as Assets or Operating Expenses.
type StatementSection struct {
	Name        string                `json:"name"`
	Subsections []StatementSubsection `json:"subsections"`
	Total       decimal.Decimal       `json:"total"`
	Comparative *decimal.Decimal      `json:"comparative,omitempty"`
}

// BalanceSheet is the statement of financial position as of a date.
type BalanceSheet struct {
	AsOf             time.Time              `json:"asOf"`
	ComparativeAsOf  *time.Time             `json:"comparativeAsOf,omitempty"`
	Assets           StatementSection       `json:"assets"`
	Liabilities      StatementSection       `json:"liabilities"`
	Equity           StatementSection       `json:"equity"`
	Unclassified     []StatementLine        `json:"unclassified,omitempty"`
	TotalAssets      decimal.Decimal        `json:"totalAssets"`
	TotalLiabilities decimal.Decimal        `json:"totalLiabilities"`
	TotalEquity      decimal.Decimal        `json:"totalEquity"`
	IsBalanced       bool                   `json:"isBalanced"`
	Warnings         []DataIntegrityWarning `json:"warnings,omitempty"`
}

// Period is a reporting window (Start, End].
type Period struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// IncomeStatementTotals carries the derived figures for one period.
type IncomeStatementTotals struct {
	Revenue           decimal.Decimal `json:"revenue"`
	CostOfGoodsSold   decimal.Decimal `json:"costOfGoodsSold"`
	GrossProfit       decimal.Decimal `json:"grossProfit"`
	OperatingExpenses decimal.Decimal `json:"operatingExpenses"`
	OperatingIncome   decimal.Decimal `json:"operatingIncome"`
	OtherIncome       decimal.Decimal `json:"otherIncome"`
	OtherExpenses     decimal.Decimal `json:"otherExpenses"`
	NetIncome         decimal.Decimal `json:"netIncome"`
}

// Derive fills the derived figures from the section totals.
func (t *IncomeStatementTotals) Derive() {
	t.GrossProfit = t.Revenue.Sub(t.CostOfGoodsSold)
	t.OperatingIncome = t.GrossProfit.Sub(t.OperatingExpenses)
	t.NetIncome = t.OperatingIncome.Add(t.OtherIncome).Sub(t.OtherExpenses)
}

// IncomeStatement reports activity of revenue and expense accounts over a period.
type IncomeStatement struct {
	Period            Period                 `json:"period"`
	ComparativePeriod *Period                `json:"comparativePeriod,omitempty"`
	Revenue           StatementSection       `json:"revenue"`
	CostOfGoodsSold   StatementSection       `json:"costOfGoodsSold"`
	OperatingExpenses StatementSection       `json:"operatingExpenses"`
	OtherIncome       StatementSection       `json:"otherIncome"`
	OtherExpenses     StatementSection       `json:"otherExpenses"`
	Unclassified      []StatementLine        `json:"unclassified,omitempty"`
	Totals            IncomeStatementTotals  `json:"totals"`
	Comparative       *IncomeStatementTotals `json:"comparative,omitempty"`
	Warnings          []DataIntegrityWarning `json:"warnings,omitempty"`
}

// TrialBalanceRow represents a single row in a trial balance report.
type TrialBalanceRow struct {
	AccountID   string          `json:"accountID"`
	AccountCode string          `json:"accountCode"`
	AccountName string          `json:"accountName"`
	Category    AccountCategory `json:"category"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

// TrialBalance lists every account's net balance in debit or credit column.
type TrialBalance struct {
	AsOf         time.Time              `json:"asOf"`
	Rows         []TrialBalanceRow      `json:"rows"`
	TotalDebits  decimal.Decimal        `json:"totalDebits"`
	TotalCredits decimal.Decimal        `json:"totalCredits"`
	OutOfBalance decimal.Decimal        `json:"outOfBalance"`
	IsBalanced   bool                   `json:"isBalanced"`
	Warnings     []DataIntegrityWarning `json:"warnings,omitempty"`
}

// CashFlowLine is one derived figure of a cash flow section. Inflows are positive.
type CashFlowLine struct {
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
}

// CashFlowSection is the operating, investing or financing block of the statement.
type CashFlowSection struct {
	Name  string          `json:"name"`
	Lines []CashFlowLine  `json:"lines"`
	Total decimal.Decimal `json:"total"`
}

// CashFlowStatement explains the change in cash over a period by indirect method.
// EndingCash is read from the ledger; NetCashFlow is the sum of the sections.
type CashFlowStatement struct {
	Period        Period                 `json:"period"`
	Operating     CashFlowSection        `json:"operating"`
	Investing     CashFlowSection        `json:"investing"`
	Financing     CashFlowSection        `json:"financing"`
	NetCashFlow   decimal.Decimal        `json:"netCashFlow"`
	BeginningCash decimal.Decimal        `json:"beginningCash"`
	EndingCash    decimal.Decimal        `json:"endingCash"`
	Warnings      []DataIntegrityWarning `json:"warnings,omitempty"`
}
