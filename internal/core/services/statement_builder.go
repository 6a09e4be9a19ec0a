package services

import (
	"cmp"
	"fmt"
	"maps"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/utils/accounting"
)

// Income statement section names.
const (
	sectionRevenue       = "Revenue"
	sectionCOGS          = "Cost of Goods Sold"
	sectionOperatingExp  = "Operating Expenses"
	sectionOtherIncome   = "Other Income"
	sectionOtherExpenses = "Other Expenses"
)

// subsectionRank orders well-known account types; anything else sorts after them by name.
var subsectionRank = map[string]int{
	domain.TypeCurrentAsset:      0,
	domain.TypeFixedAsset:        1,
	domain.TypeCurrentLiability:  0,
	domain.TypeLongTermLiability: 1,
	domain.TypeEquity:            0,
	domain.TypeRetainedEarnings:  1,
}

const unrankedSubsection = 100

// sectionBuilder accumulates statement lines into subsections keyed by account type.
type sectionBuilder struct {
	name            string
	withComparative bool
	subsections     map[string][]domain.StatementLine
}

func newSectionBuilder(name string, withComparative bool) *sectionBuilder {
	return &sectionBuilder{
		name:            name,
		withComparative: withComparative,
		subsections:     make(map[string][]domain.StatementLine),
	}
}

// add places an account line; lines negligible in both periods are dropped.
func (b *sectionBuilder) add(account domain.Account, amount decimal.Decimal, comparative *decimal.Decimal) {
	subsection := account.AccountType
	if subsection == "" {
		subsection = b.name
	}
	b.addLine(subsection, domain.StatementLine{
		AccountID:   account.AccountID,
		AccountCode: account.Code,
		AccountName: account.Name,
	}, amount, comparative)
}

// addSynthetic places a computed line that belongs to no account.
func (b *sectionBuilder) addSynthetic(name, subsection string, amount decimal.Decimal, comparative *decimal.Decimal) {
	b.addLine(subsection, domain.StatementLine{AccountName: name}, amount, comparative)
}

func (b *sectionBuilder) addLine(subsection string, line domain.StatementLine, amount decimal.Decimal, comparative *decimal.Decimal) {
	if domain.IsNegligible(amount) && (comparative == nil || domain.IsNegligible(*comparative)) {
		return
	}
	line.Amount = amount
	if comparative != nil {
		c := *comparative
		v := amount.Sub(c)
		line.Comparative = &c
		line.Variance = &v
	}
	b.subsections[subsection] = append(b.subsections[subsection], line)
}

func (b *sectionBuilder) build() domain.StatementSection {
	section := domain.StatementSection{
		Name:        b.name,
		Subsections: make([]domain.StatementSubsection, 0, len(b.subsections)),
		Total:       decimal.Zero,
	}
	sectionComp := decimal.Zero

	names := slices.SortedFunc(maps.Keys(b.subsections), func(a, c string) int {
		return cmp.Or(cmp.Compare(rankOf(a), rankOf(c)), cmp.Compare(a, c))
	})
	for _, name := range names {
		lines := b.subsections[name]
		slices.SortFunc(lines, func(x, y domain.StatementLine) int {
			return cmp.Or(cmp.Compare(x.AccountCode, y.AccountCode), cmp.Compare(x.AccountName, y.AccountName))
		})

		sub := domain.StatementSubsection{Name: name, Lines: lines, Total: decimal.Zero}
		subComp := decimal.Zero
		for _, l := range lines {
			sub.Total = sub.Total.Add(l.Amount)
			if l.Comparative != nil {
				subComp = subComp.Add(*l.Comparative)
			}
		}
		if b.withComparative {
			sub.Comparative = &subComp
		}
		section.Total = section.Total.Add(sub.Total)
		sectionComp = sectionComp.Add(subComp)
		section.Subsections = append(section.Subsections, sub)
	}
	if b.withComparative {
		section.Comparative = &sectionComp
	}
	return section
}

func rankOf(subsection string) int {
	if r, ok := subsectionRank[subsection]; ok {
		return r
	}
	return unrankedSubsection
}

// warningSet collects report warnings, once per code and account.
type warningSet struct {
	seen map[string]struct{}
	list []domain.DataIntegrityWarning
}

func newWarningSet() *warningSet {
	return &warningSet{seen: make(map[string]struct{})}
}

func (w *warningSet) add(warning domain.DataIntegrityWarning) {
	key := warning.Code + "|" + warning.AccountID + "|" + warning.EntryID
	if _, dup := w.seen[key]; dup {
		return
	}
	w.seen[key] = struct{}{}
	w.list = append(w.list, warning)
}

func (w *warningSet) unknownAccount(accountID, accountCode string) {
	w.add(domain.DataIntegrityWarning{
		Code:      domain.WarningUnknownAccount,
		AccountID: accountID,
		Message:   fmt.Sprintf("ledger rows reference account %s (code %q) which is not in the chart of accounts", accountID, accountCode),
	})
}

func (w *warningSet) inactiveAccount(account domain.Account) {
	w.add(domain.DataIntegrityWarning{
		Code:      domain.WarningInactiveAccount,
		AccountID: account.AccountID,
		Message:   fmt.Sprintf("inactive account %s (%s) has posted activity", account.Code, account.Name),
	})
}

// unionIDs returns the account ids present in either map, sorted.
func unionIDs(a, b map[string]*domain.AccountTotals) []string {
	ids := make([]string, 0, len(a)+len(b))
	for id := range a {
		ids = append(ids, id)
	}
	for id := range b {
		if _, ok := a[id]; !ok {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids
}

func valuesOf(totals map[string]*domain.AccountTotals) []domain.AccountTotals {
	out := make([]domain.AccountTotals, 0, len(totals))
	for _, t := range totals {
		out = append(out, *t)
	}
	return out
}

func codeOf(totals ...*domain.AccountTotals) string {
	for _, t := range totals {
		if t != nil && t.AccountCode != "" {
			return t.AccountCode
		}
	}
	return ""
}

// appendUnclassified adds a line for rows whose account is missing from the chart.
// Without a normal side the amount is shown as debit minus credit.
func appendUnclassified(lines []domain.StatementLine, accountID string, cur, comp *domain.AccountTotals, withComparative bool) []domain.StatementLine {
	amount := rawNet(cur)
	line := domain.StatementLine{
		AccountID:   accountID,
		AccountCode: codeOf(cur, comp),
		AccountName: domain.TypeUnclassified,
		Amount:      amount,
	}
	if withComparative {
		c := rawNet(comp)
		v := amount.Sub(c)
		line.Comparative = &c
		line.Variance = &v
	}
	return append(lines, line)
}

func rawNet(t *domain.AccountTotals) decimal.Decimal {
	if t == nil {
		return decimal.Zero
	}
	return t.Debit.Sub(t.Credit)
}

func amountOf(account domain.Account, t *domain.AccountTotals) decimal.Decimal {
	if t == nil {
		return decimal.Zero
	}
	return accounting.StatementAmount(account, *t)
}

func comparativeAmount(account domain.Account, t *domain.AccountTotals, enabled bool) *decimal.Decimal {
	if !enabled {
		return nil
	}
	a := amountOf(account, t)
	return &a
}

// incomeSectionOf places revenue and expense accounts by account type, falling back
// to the category's primary section.
func incomeSectionOf(account domain.Account) string {
	switch account.AccountType {
	case domain.TypeRevenue:
		return sectionRevenue
	case domain.TypeOtherIncome:
		return sectionOtherIncome
	case domain.TypeCostOfGoodsSold:
		return sectionCOGS
	case domain.TypeOperatingExpense:
		return sectionOperatingExp
	case domain.TypeOtherExpense:
		return sectionOtherExpenses
	}
	if account.Category == domain.Revenue {
		return sectionRevenue
	}
	return sectionOperatingExp
}

// incomeAmount shows income sections credit-positive and expense sections debit-positive.
// The result is signed, not an absolute magnitude: net credit activity on an expense
// account, such as a refund, reduces its section instead of adding to it.
func incomeAmount(section string, t *domain.AccountTotals) decimal.Decimal {
	if t == nil {
		return decimal.Zero
	}
	if section == sectionRevenue || section == sectionOtherIncome {
		return t.Credit.Sub(t.Debit)
	}
	return t.Debit.Sub(t.Credit)
}

func incomeComparative(section string, t *domain.AccountTotals, enabled bool) *decimal.Decimal {
	if !enabled {
		return nil
	}
	a := incomeAmount(section, t)
	return &a
}

func derefOrZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}
