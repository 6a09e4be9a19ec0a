package services

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/utils/accounting"
)

// Cash flow section and line names.
const (
	cashFlowOperating = "Operating Activities"
	cashFlowInvesting = "Investing Activities"
	cashFlowFinancing = "Financing Activities"

	lineNetIncome            = "Net income"
	lineNonCashCharges       = "Depreciation and amortization"
	lineCurrentLiabilities   = "Change in current liabilities"
	lineCurrentAssets        = "Change in non-cash current assets"
	lineFixedAssetPurchases  = "Purchase of fixed assets"
	lineFixedAssetSales      = "Proceeds from sale of fixed assets"
	lineLoanProceeds         = "Proceeds from loans"
	lineLoanRepayments       = "Repayment of loans"
	lineOwnerContributions   = "Owner contributions"
	lineOwnerDistributions   = "Owner distributions"
	lineOtherLongTermChanges = "Change in other long-term liabilities"
)

// cashFlowClass is where an account's period activity lands on the cash flow statement.
type cashFlowClass int

const (
	flowNone cashFlowClass = iota
	flowCash
	flowNonCashCharge
	flowCurrentAsset
	flowCurrentLiability
	flowFixedAsset
	flowLoan
	flowOtherLongTerm
	flowOwnerEquity
	flowRetainedEarnings
)

// classifyCashFlow places an account by category, account type and name. Cash and bank
// accounts are asset accounts named as such; loans are liabilities named as such.
// Accumulated depreciation and amortization are non-cash and never investing activity.
// Retained earnings activity, such as closing entries, folds into net income.
func classifyCashFlow(account domain.Account) cashFlowClass {
	name := strings.ToLower(account.Name)
	nonCash := strings.Contains(name, "depreciation") || strings.Contains(name, "amortization")

	switch account.Category {
	case domain.Asset:
		switch {
		case strings.Contains(name, "cash") || strings.Contains(name, "bank"):
			return flowCash
		case nonCash:
			return flowNone
		case account.AccountType == domain.TypeFixedAsset:
			return flowFixedAsset
		}
		return flowCurrentAsset
	case domain.Liability:
		switch {
		case strings.Contains(name, "loan"):
			return flowLoan
		case account.AccountType == domain.TypeLongTermLiability:
			return flowOtherLongTerm
		}
		return flowCurrentLiability
	case domain.Equity:
		if account.AccountType == domain.TypeRetainedEarnings {
			return flowRetainedEarnings
		}
		return flowOwnerEquity
	case domain.Expense:
		if nonCash {
			return flowNonCashCharge
		}
	}
	return flowNone
}

// cashFlowFigures accumulates the derived amounts of one period.
type cashFlowFigures struct {
	netIncome            decimal.Decimal
	nonCashCharges       decimal.Decimal
	currentLiabilities   decimal.Decimal
	currentAssets        decimal.Decimal
	fixedAssetPurchases  decimal.Decimal
	fixedAssetSales      decimal.Decimal
	loanProceeds         decimal.Decimal
	loanRepayments       decimal.Decimal
	ownerContributions   decimal.Decimal
	ownerDistributions   decimal.Decimal
	otherLongTermChanges decimal.Decimal
	cashChange           decimal.Decimal
}

func newCashFlowFigures() *cashFlowFigures {
	return &cashFlowFigures{
		netIncome:            decimal.Zero,
		nonCashCharges:       decimal.Zero,
		currentLiabilities:   decimal.Zero,
		currentAssets:        decimal.Zero,
		fixedAssetPurchases:  decimal.Zero,
		fixedAssetSales:      decimal.Zero,
		loanProceeds:         decimal.Zero,
		loanRepayments:       decimal.Zero,
		ownerContributions:   decimal.Zero,
		ownerDistributions:   decimal.Zero,
		otherLongTermChanges: decimal.Zero,
		cashChange:           decimal.Zero,
	}
}

// add folds one account's period totals into the figures. Every amount is signed so
// that a positive figure is a cash inflow.
func (f *cashFlowFigures) add(account domain.Account, t domain.AccountTotals) {
	switch classifyCashFlow(account) {
	case flowCash:
		f.cashChange = f.cashChange.Add(t.Debit.Sub(t.Credit))
	case flowNonCashCharge:
		f.nonCashCharges = f.nonCashCharges.Add(t.Debit.Sub(t.Credit))
	case flowCurrentAsset:
		f.currentAssets = f.currentAssets.Sub(t.Debit.Sub(t.Credit))
	case flowCurrentLiability:
		f.currentLiabilities = f.currentLiabilities.Add(t.Credit.Sub(t.Debit))
	case flowFixedAsset:
		f.fixedAssetPurchases = f.fixedAssetPurchases.Sub(t.Debit)
		f.fixedAssetSales = f.fixedAssetSales.Add(t.Credit)
	case flowLoan:
		f.loanProceeds = f.loanProceeds.Add(t.Credit)
		f.loanRepayments = f.loanRepayments.Sub(t.Debit)
	case flowOtherLongTerm:
		f.otherLongTermChanges = f.otherLongTermChanges.Add(t.Credit.Sub(t.Debit))
	case flowOwnerEquity:
		f.ownerContributions = f.ownerContributions.Add(t.Credit)
		f.ownerDistributions = f.ownerDistributions.Sub(t.Debit)
	case flowRetainedEarnings:
		f.netIncome = f.netIncome.Add(t.Credit.Sub(t.Debit))
	}
}

func (f *cashFlowFigures) sections() (operating, investing, financing domain.CashFlowSection) {
	operating = cashFlowSection(cashFlowOperating,
		domain.CashFlowLine{Description: lineNetIncome, Amount: f.netIncome},
		domain.CashFlowLine{Description: lineNonCashCharges, Amount: f.nonCashCharges},
		domain.CashFlowLine{Description: lineCurrentLiabilities, Amount: f.currentLiabilities},
		domain.CashFlowLine{Description: lineCurrentAssets, Amount: f.currentAssets},
	)
	investing = cashFlowSection(cashFlowInvesting,
		domain.CashFlowLine{Description: lineFixedAssetPurchases, Amount: f.fixedAssetPurchases},
		domain.CashFlowLine{Description: lineFixedAssetSales, Amount: f.fixedAssetSales},
	)
	financing = cashFlowSection(cashFlowFinancing,
		domain.CashFlowLine{Description: lineLoanProceeds, Amount: f.loanProceeds},
		domain.CashFlowLine{Description: lineLoanRepayments, Amount: f.loanRepayments},
		domain.CashFlowLine{Description: lineOtherLongTermChanges, Amount: f.otherLongTermChanges},
		domain.CashFlowLine{Description: lineOwnerContributions, Amount: f.ownerContributions},
		domain.CashFlowLine{Description: lineOwnerDistributions, Amount: f.ownerDistributions},
	)
	return operating, investing, financing
}

// cashFlowSection keeps net income even when zero; other negligible lines are dropped.
func cashFlowSection(name string, lines ...domain.CashFlowLine) domain.CashFlowSection {
	section := domain.CashFlowSection{Name: name, Lines: make([]domain.CashFlowLine, 0, len(lines)), Total: decimal.Zero}
	for _, l := range lines {
		if l.Description != lineNetIncome && domain.IsNegligible(l.Amount) {
			continue
		}
		section.Lines = append(section.Lines, l)
		section.Total = section.Total.Add(l.Amount)
	}
	return section
}

// buildCashFlow derives the statement from period totals and the opening totals of
// rows posted on or before the period start.
func buildCashFlow(period domain.Period, accounts map[string]domain.Account, current, opening map[string]*domain.AccountTotals, warnings *warningSet) *domain.CashFlowStatement {
	figures := newCashFlowFigures()
	figures.netIncome = accounting.NetEarnings(valuesOf(current), accounts)

	for _, id := range unionIDs(current, nil) {
		account, known := accounts[id]
		if !known {
			warnings.unknownAccount(id, current[id].AccountCode)
			continue
		}
		if !account.IsActive {
			warnings.inactiveAccount(account)
		}
		figures.add(account, *current[id])
	}

	beginning := decimal.Zero
	for id, t := range opening {
		if account, ok := accounts[id]; ok && classifyCashFlow(account) == flowCash {
			beginning = beginning.Add(t.Debit.Sub(t.Credit))
		}
	}

	stmt := &domain.CashFlowStatement{Period: period, BeginningCash: beginning}
	stmt.Operating, stmt.Investing, stmt.Financing = figures.sections()
	stmt.NetCashFlow = stmt.Operating.Total.Add(stmt.Investing.Total).Add(stmt.Financing.Total)
	stmt.EndingCash = beginning.Add(figures.cashChange)

	if diff := accounting.SumDiff(stmt.NetCashFlow, figures.cashChange); !domain.IsNegligible(diff) {
		warnings.add(domain.DataIntegrityWarning{
			Code: domain.WarningCashFlowUnreconciled,
			Message: fmt.Sprintf("derived cash flow %s differs from the change in cash %s by %s",
				stmt.NetCashFlow.StringFixed(2), figures.cashChange.StringFixed(2), diff.StringFixed(2)),
		})
	}
	return stmt
}
