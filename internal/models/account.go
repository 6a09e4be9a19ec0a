package models

// AccountCategory is the top-level classification stored in accounts.category.
type AccountCategory string

const (
	Asset     AccountCategory = "ASSET"
	Liability AccountCategory = "LIABILITY"
	Equity    AccountCategory = "EQUITY"
	Revenue   AccountCategory = "REVENUE"
	Expense   AccountCategory = "EXPENSE"
)

// Account represents a row of the chart of accounts.
// ParentAccountID and Description are nullable in the database and empty here when NULL.
type Account struct {
	AccountID       string          `db:"account_id"`
	Code            string          `db:"code"`
	Name            string          `db:"name"`
	Category        AccountCategory `db:"category"`
	AccountType     string          `db:"account_type"`
	NormalBalance   string          `db:"normal_balance"`
	ParentAccountID string          `db:"parent_account_id"`
	Description     string          `db:"description"`
	IsActive        bool            `db:"is_active"`
	AuditFields
}
