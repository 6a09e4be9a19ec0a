package accounting

import (
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TrialBalanceColumns places the net of debit and credit totals in the debit column when
// positive and in the credit column otherwise. Exactly one column is non-zero unless the
// account nets to zero.
func TrialBalanceColumns(debit, credit decimal.Decimal) (dr, cr decimal.Decimal) {
	net := debit.Sub(credit)
	if net.IsPositive() {
		return net, decimal.Zero
	}
	return decimal.Zero, net.Neg()
}

// StatementAmount is the figure shown for an account on a financial statement: its
// balance on the account's normal side. Contra accounts come out negative.
func StatementAmount(account domain.Account, totals domain.AccountTotals) decimal.Decimal {
	return account.SignedBalance(totals.Debit, totals.Credit)
}

// NetEarnings is cumulative revenue minus expense activity: the credit-side net of
// every income statement account.
func NetEarnings(totals []domain.AccountTotals, accounts map[string]domain.Account) decimal.Decimal {
	earnings := decimal.Zero
	for _, t := range totals {
		account, ok := accounts[t.AccountID]
		if !ok || account.Category.IsBalanceSheet() {
			continue
		}
		earnings = earnings.Add(t.Credit.Sub(t.Debit))
	}
	return earnings
}

// SumDiff returns |a - b|.
func SumDiff(a, b decimal.Decimal) decimal.Decimal {
	return a.Sub(b).Abs()
}
