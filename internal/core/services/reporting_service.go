package services

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/platform/metrics"
	"github.com/SscSPs/ledger_engine/internal/utils/accounting"
)

// Names of the synthetic equity line carrying unclosed revenue and expense activity.
const (
	CurrentEarningsName       = "Current Earnings"
	currentEarningsSubsection = domain.TypeRetainedEarnings
)

// reportingService implements the ReportingService interface
type reportingService struct {
	BaseService
	accounts portsrepo.ChartOfAccountsReader
	ledger   portsrepo.LedgerReader
	timeout  time.Duration
}

// ReportingServiceOption is a functional option for configuring the reporting service
type ReportingServiceOption func(*reportingService)

// WithReportingMetrics sets the metrics collectors.
func WithReportingMetrics(m *metrics.Metrics) ReportingServiceOption {
	return func(s *reportingService) {
		s.Metrics = m
	}
}

// WithReportTimeout bounds how long a single report may scan the ledger.
func WithReportTimeout(d time.Duration) ReportingServiceOption {
	return func(s *reportingService) {
		s.timeout = d
	}
}

// NewReportingService creates a new reporting service with the provided options
func NewReportingService(accounts portsrepo.ChartOfAccountsReader, ledger portsrepo.LedgerReader, options ...ReportingServiceOption) portssvc.ReportingService {
	svc := &reportingService{
		accounts: accounts,
		ledger:   ledger,
	}

	// Apply all options
	for _, option := range options {
		option(svc)
	}

	return svc
}

// Ensure reportingService implements the ReportingService interface
var _ portssvc.ReportingService = (*reportingService)(nil)

// AccountBalance returns the account's balance including every row posted on or before asOf.
func (s *reportingService) AccountBalance(ctx context.Context, accountID string, asOf time.Time) (decimal.Decimal, error) {
	account, err := s.findAccount(ctx, accountID)
	if err != nil {
		return decimal.Zero, err
	}
	asOf = domain.NormalizeDate(asOf)

	totals, err := s.scanTotals(ctx, domain.LedgerFilter{AccountID: accountID, To: &asOf})
	if err != nil {
		return decimal.Zero, err
	}
	t := totals[accountID]
	if t == nil {
		return decimal.Zero, nil
	}
	return accounting.StatementAmount(*account, *t), nil
}

// PeriodActivity returns the net normal-side movement with start < posting date <= end.
func (s *reportingService) PeriodActivity(ctx context.Context, accountID string, start, end time.Time) (decimal.Decimal, error) {
	period, err := normalizePeriod(domain.Period{Start: start, End: end})
	if err != nil {
		return decimal.Zero, err
	}
	account, err := s.findAccount(ctx, accountID)
	if err != nil {
		return decimal.Zero, err
	}

	totals, err := s.scanTotals(ctx, domain.LedgerFilter{AccountID: accountID, From: &period.Start, To: &period.End})
	if err != nil {
		return decimal.Zero, err
	}
	t := totals[accountID]
	if t == nil {
		return decimal.Zero, nil
	}
	return accounting.StatementAmount(*account, *t), nil
}

// GenerateBalanceSheet builds the statement of financial position as of asOf.
func (s *reportingService) GenerateBalanceSheet(ctx context.Context, asOf time.Time, comparativeAsOf *time.Time) (*domain.BalanceSheet, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	tracker := s.Metrics.TrackReport("balance_sheet")

	asOf = domain.NormalizeDate(asOf)
	var compAsOf *time.Time
	if comparativeAsOf != nil {
		d := domain.NormalizeDate(*comparativeAsOf)
		compAsOf = &d
	}

	accounts, current, comparative, err := s.loadSnapshots(ctx,
		domain.LedgerFilter{To: &asOf},
		optionalFilter(compAsOf != nil, func() domain.LedgerFilter { return domain.LedgerFilter{To: compAsOf} }))
	if err := tracker.End(err); err != nil {
		return nil, err
	}

	warnings := newWarningSet()
	sheet := &domain.BalanceSheet{AsOf: asOf, ComparativeAsOf: compAsOf}
	builders := map[domain.AccountCategory]*sectionBuilder{
		domain.Asset:     newSectionBuilder("Assets", compAsOf != nil),
		domain.Liability: newSectionBuilder("Liabilities", compAsOf != nil),
		domain.Equity:    newSectionBuilder("Equity", compAsOf != nil),
	}

	for _, id := range unionIDs(current, comparative) {
		cur, comp := current[id], comparative[id]
		account, known := accounts[id]
		if !known {
			warnings.unknownAccount(id, codeOf(cur, comp))
			sheet.Unclassified = appendUnclassified(sheet.Unclassified, id, cur, comp, compAsOf != nil)
			continue
		}
		if !account.IsActive {
			warnings.inactiveAccount(account)
		}
		if !account.Category.IsBalanceSheet() {
			continue
		}
		builders[account.Category].add(account, amountOf(account, cur), comparativeAmount(account, comp, compAsOf != nil))
	}

	earnings := accounting.NetEarnings(valuesOf(current), accounts)
	var compEarnings *decimal.Decimal
	if compAsOf != nil {
		e := accounting.NetEarnings(valuesOf(comparative), accounts)
		compEarnings = &e
	}
	builders[domain.Equity].addSynthetic(CurrentEarningsName, currentEarningsSubsection, earnings, compEarnings)

	sheet.Assets = builders[domain.Asset].build()
	sheet.Liabilities = builders[domain.Liability].build()
	sheet.Equity = builders[domain.Equity].build()
	sheet.TotalAssets = sheet.Assets.Total
	sheet.TotalLiabilities = sheet.Liabilities.Total
	sheet.TotalEquity = sheet.Equity.Total

	diff := accounting.SumDiff(sheet.TotalAssets, sheet.TotalLiabilities.Add(sheet.TotalEquity))
	sheet.IsBalanced = domain.IsNegligible(diff)
	if !sheet.IsBalanced {
		warnings.add(domain.DataIntegrityWarning{
			Code: domain.WarningBalanceSheetImbalance,
			Message: fmt.Sprintf("assets %s do not equal liabilities plus equity %s (difference %s)",
				sheet.TotalAssets.StringFixed(2), sheet.TotalLiabilities.Add(sheet.TotalEquity).StringFixed(2), diff.StringFixed(2)),
		})
	}

	sheet.Warnings = s.reportWarnings(ctx, "balance_sheet", warnings)
	s.LogInfo(ctx, "Balance sheet generated",
		slog.Time("as_of", asOf),
		slog.Bool("is_balanced", sheet.IsBalanced),
		slog.Int("warnings", len(sheet.Warnings)))
	return sheet, nil
}

// GenerateIncomeStatement reports revenue and expense activity within the period.
func (s *reportingService) GenerateIncomeStatement(ctx context.Context, period domain.Period, comparative *domain.Period) (*domain.IncomeStatement, error) {
	period, err := normalizePeriod(period)
	if err != nil {
		return nil, err
	}
	var compPeriod *domain.Period
	if comparative != nil {
		p, err := normalizePeriod(*comparative)
		if err != nil {
			return nil, err
		}
		compPeriod = &p
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	tracker := s.Metrics.TrackReport("income_statement")

	accounts, current, prior, err := s.loadSnapshots(ctx,
		domain.LedgerFilter{From: &period.Start, To: &period.End},
		optionalFilter(compPeriod != nil, func() domain.LedgerFilter {
			return domain.LedgerFilter{From: &compPeriod.Start, To: &compPeriod.End}
		}))
	if err := tracker.End(err); err != nil {
		return nil, err
	}

	hasComp := compPeriod != nil
	warnings := newWarningSet()
	stmt := &domain.IncomeStatement{Period: period, ComparativePeriod: compPeriod}
	builders := map[string]*sectionBuilder{
		sectionRevenue:       newSectionBuilder(sectionRevenue, hasComp),
		sectionCOGS:          newSectionBuilder(sectionCOGS, hasComp),
		sectionOperatingExp:  newSectionBuilder(sectionOperatingExp, hasComp),
		sectionOtherIncome:   newSectionBuilder(sectionOtherIncome, hasComp),
		sectionOtherExpenses: newSectionBuilder(sectionOtherExpenses, hasComp),
	}

	for _, id := range unionIDs(current, prior) {
		cur, comp := current[id], prior[id]
		account, known := accounts[id]
		if !known {
			warnings.unknownAccount(id, codeOf(cur, comp))
			stmt.Unclassified = appendUnclassified(stmt.Unclassified, id, cur, comp, hasComp)
			continue
		}
		if account.Category.IsBalanceSheet() {
			continue
		}
		if !account.IsActive {
			warnings.inactiveAccount(account)
		}
		section := incomeSectionOf(account)
		builders[section].add(account, incomeAmount(section, cur), incomeComparative(section, comp, hasComp))
	}

	stmt.Revenue = builders[sectionRevenue].build()
	stmt.CostOfGoodsSold = builders[sectionCOGS].build()
	stmt.OperatingExpenses = builders[sectionOperatingExp].build()
	stmt.OtherIncome = builders[sectionOtherIncome].build()
	stmt.OtherExpenses = builders[sectionOtherExpenses].build()

	stmt.Totals = domain.IncomeStatementTotals{
		Revenue:           stmt.Revenue.Total,
		CostOfGoodsSold:   stmt.CostOfGoodsSold.Total,
		OperatingExpenses: stmt.OperatingExpenses.Total,
		OtherIncome:       stmt.OtherIncome.Total,
		OtherExpenses:     stmt.OtherExpenses.Total,
	}
	stmt.Totals.Derive()
	if hasComp {
		c := domain.IncomeStatementTotals{
			Revenue:           derefOrZero(stmt.Revenue.Comparative),
			CostOfGoodsSold:   derefOrZero(stmt.CostOfGoodsSold.Comparative),
			OperatingExpenses: derefOrZero(stmt.OperatingExpenses.Comparative),
			OtherIncome:       derefOrZero(stmt.OtherIncome.Comparative),
			OtherExpenses:     derefOrZero(stmt.OtherExpenses.Comparative),
		}
		c.Derive()
		stmt.Comparative = &c
	}

	stmt.Warnings = s.reportWarnings(ctx, "income_statement", warnings)
	s.LogInfo(ctx, "Income statement generated",
		slog.Time("start", period.Start),
		slog.Time("end", period.End),
		slog.String("net_income", stmt.Totals.NetIncome.StringFixed(2)))
	return stmt, nil
}

// GenerateCashFlowStatement derives operating, investing and financing cash flows from
// the period's activity. Beginning cash includes every row posted on or before the start.
func (s *reportingService) GenerateCashFlowStatement(ctx context.Context, period domain.Period) (*domain.CashFlowStatement, error) {
	period, err := normalizePeriod(period)
	if err != nil {
		return nil, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	tracker := s.Metrics.TrackReport("cash_flow")

	accounts, current, opening, err := s.loadSnapshots(ctx,
		domain.LedgerFilter{From: &period.Start, To: &period.End},
		&domain.LedgerFilter{To: &period.Start})
	if err := tracker.End(err); err != nil {
		return nil, err
	}

	warnings := newWarningSet()
	stmt := buildCashFlow(period, accounts, current, opening, warnings)
	stmt.Warnings = s.reportWarnings(ctx, "cash_flow", warnings)
	s.LogInfo(ctx, "Cash flow statement generated",
		slog.Time("start", period.Start),
		slog.Time("end", period.End),
		slog.String("net_cash_flow", stmt.NetCashFlow.StringFixed(2)))
	return stmt, nil
}

// GenerateTrialBalance lists every account with activity and its net balance column.
func (s *reportingService) GenerateTrialBalance(ctx context.Context, asOf time.Time) (*domain.TrialBalance, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	tracker := s.Metrics.TrackReport("trial_balance")

	asOf = domain.NormalizeDate(asOf)
	accounts, current, _, err := s.loadSnapshots(ctx, domain.LedgerFilter{To: &asOf}, nil)
	if err := tracker.End(err); err != nil {
		return nil, err
	}

	warnings := newWarningSet()
	tb := &domain.TrialBalance{AsOf: asOf, TotalDebits: decimal.Zero, TotalCredits: decimal.Zero}
	for _, id := range unionIDs(current, nil) {
		t := current[id]
		row := domain.TrialBalanceRow{AccountID: id, AccountCode: t.AccountCode}
		if account, ok := accounts[id]; ok {
			row.AccountCode = account.Code
			row.AccountName = account.Name
			row.Category = account.Category
			if !account.IsActive {
				warnings.inactiveAccount(account)
			}
		} else {
			warnings.unknownAccount(id, t.AccountCode)
		}
		row.Debit, row.Credit = accounting.TrialBalanceColumns(t.Debit, t.Credit)
		if row.Debit.IsZero() && row.Credit.IsZero() {
			continue
		}
		tb.TotalDebits = tb.TotalDebits.Add(row.Debit)
		tb.TotalCredits = tb.TotalCredits.Add(row.Credit)
		tb.Rows = append(tb.Rows, row)
	}
	slices.SortFunc(tb.Rows, func(a, b domain.TrialBalanceRow) int {
		return cmp.Or(cmp.Compare(a.AccountCode, b.AccountCode), cmp.Compare(a.AccountID, b.AccountID))
	})

	tb.OutOfBalance = accounting.SumDiff(tb.TotalDebits, tb.TotalCredits)
	tb.IsBalanced = domain.IsNegligible(tb.OutOfBalance)
	if !tb.IsBalanced {
		warnings.add(domain.DataIntegrityWarning{
			Code:    domain.WarningTrialBalanceImbalance,
			Message: fmt.Sprintf("trial balance is out of balance by %s", tb.OutOfBalance.StringFixed(2)),
		})
	}

	tb.Warnings = s.reportWarnings(ctx, "trial_balance", warnings)
	return tb, nil
}

func (s *reportingService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout > 0 {
		return context.WithTimeout(ctx, s.timeout)
	}
	return context.WithCancel(ctx)
}

func (s *reportingService) findAccount(ctx context.Context, accountID string) (*domain.Account, error) {
	account, err := s.accounts.FindAccountByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewNotFound(apperrors.CodeAccountNotFound, fmt.Sprintf("account %s not found", accountID))
		}
		return nil, fmt.Errorf("failed to load account %s: %w", accountID, err)
	}
	return account, nil
}

// loadSnapshots reads the chart of accounts and runs the current and optional comparative
// ledger scans concurrently.
func (s *reportingService) loadSnapshots(ctx context.Context, currentFilter domain.LedgerFilter, comparativeFilter *domain.LedgerFilter) (map[string]domain.Account, map[string]*domain.AccountTotals, map[string]*domain.AccountTotals, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, nil, err
	}

	var (
		accounts    map[string]domain.Account
		current     map[string]*domain.AccountTotals
		comparative map[string]*domain.AccountTotals
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		list, err := s.accounts.ListAccounts(gctx, domain.AccountFilter{})
		if err != nil {
			return fmt.Errorf("failed to list accounts: %w", err)
		}
		accounts = make(map[string]domain.Account, len(list))
		for _, a := range list {
			accounts[a.AccountID] = a
		}
		return nil
	})
	g.Go(func() error {
		var err error
		current, err = s.scanTotals(gctx, currentFilter)
		return err
	})
	if comparativeFilter != nil {
		g.Go(func() error {
			var err error
			comparative, err = s.scanTotals(gctx, *comparativeFilter)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, nil, nil, ctxErr
		}
		s.LogError(ctx, err, "Failed to load report data")
		return nil, nil, nil, err
	}
	return accounts, current, comparative, nil
}

// scanTotals folds the rows selected by filter into per-account debit and credit sums.
func (s *reportingService) scanTotals(ctx context.Context, filter domain.LedgerFilter) (map[string]*domain.AccountTotals, error) {
	totals := make(map[string]*domain.AccountTotals)
	for row, err := range s.ledger.QueryRows(ctx, filter) {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if err != nil {
			return nil, fmt.Errorf("failed to scan ledger: %w", err)
		}
		t, ok := totals[row.AccountID]
		if !ok {
			t = &domain.AccountTotals{AccountID: row.AccountID, Debit: decimal.Zero, Credit: decimal.Zero}
			totals[row.AccountID] = t
		}
		t.Add(row)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return totals, nil
}

func (s *reportingService) reportWarnings(ctx context.Context, report string, w *warningSet) []domain.DataIntegrityWarning {
	for _, warning := range w.list {
		s.LogWarn(ctx, "Data integrity warning",
			slog.String("report", report),
			slog.String("code", warning.Code),
			slog.String("account_id", warning.AccountID),
			slog.String("message", warning.Message))
		s.Metrics.AddWarnings(warning.Code, 1)
	}
	return w.list
}

func optionalFilter(enabled bool, build func() domain.LedgerFilter) *domain.LedgerFilter {
	if !enabled {
		return nil
	}
	f := build()
	return &f
}

func normalizePeriod(p domain.Period) (domain.Period, error) {
	p.Start = domain.NormalizeDate(p.Start)
	p.End = domain.NormalizeDate(p.End)
	if p.End.Before(p.Start) {
		return p, apperrors.NewValidation(apperrors.ValidationFailure{
			Code:  apperrors.CodeInvalidDateRange,
			Field: "end",
			Message: fmt.Sprintf("period end %s precedes start %s",
				p.End.Format(time.DateOnly), p.Start.Format(time.DateOnly)),
		})
	}
	return p, nil
}
