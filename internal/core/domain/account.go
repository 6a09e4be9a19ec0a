package domain

import (
	"github.com/shopspring/decimal"
)

// AccountCategory is the top-level classification of an account in the chart.
type AccountCategory string

const (
	Asset     AccountCategory = "ASSET"
	Liability AccountCategory = "LIABILITY"
	Equity    AccountCategory = "EQUITY"
	Revenue   AccountCategory = "REVENUE"
	Expense   AccountCategory = "EXPENSE"
)

// IsBalanceSheet reports whether balances of this category are cumulative since inception.
func (c AccountCategory) IsBalanceSheet() bool {
	return c == Asset || c == Liability || c == Equity
}

// Finer account classifications used for statement subsections.
const (
	TypeCurrentAsset      = "Current Asset"
	TypeFixedAsset        = "Fixed Asset"
	TypeCurrentLiability  = "Current Liability"
	TypeLongTermLiability = "Long-term Liability"
	TypeEquity            = "Equity"
	TypeRevenue           = "Revenue"
	TypeOtherIncome       = "Other Income"
	TypeCostOfGoodsSold   = "Cost of Goods Sold"
	TypeOperatingExpense  = "Operating Expense"
	TypeOtherExpense      = "Other Expense"
	TypeRetainedEarnings  = "Retained Earnings"
	TypeUnclassified      = "Unclassified"
)

// NormalBalance is the side on which an account's natural balance sits.
type NormalBalance string

const (
	NormalDebit  NormalBalance = "DEBIT"
	NormalCredit NormalBalance = "CREDIT"
)

// Account is a node of the chart of accounts. The ledger core only reads accounts.
type Account struct {
	AccountID       string          `json:"accountID"`
	Code            string          `json:"code"`
	Name            string          `json:"name"`
	Category        AccountCategory `json:"category"`
	AccountType     string          `json:"accountType"`
	NormalBalance   NormalBalance   `json:"normalBalance"`
	ParentAccountID string          `json:"parentAccountID,omitempty"`
	Description     string          `json:"description,omitempty"`
	IsActive        bool            `json:"isActive"`
	AuditFields
}

// SignedBalance converts raw debit/credit totals into a balance expressed on the
// account's normal side. Contra balances come out negative.
func (a Account) SignedBalance(debit, credit decimal.Decimal) decimal.Decimal {
	if a.NormalBalance == NormalCredit {
		return credit.Sub(debit)
	}
	return debit.Sub(credit)
}

// AccountFilter narrows ListAccounts results. Zero values mean "any".
type AccountFilter struct {
	Category   AccountCategory
	ActiveOnly bool
}
