package jobs_test

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/core/services"
	"github.com/SscSPs/ledger_engine/internal/platform/lock"
	"github.com/SscSPs/ledger_engine/internal/platform/metrics"
	"github.com/SscSPs/ledger_engine/internal/repositories/memory"
)

var chart = []domain.Account{
	{AccountID: "A100", Code: "A100", Name: "Cash", Category: domain.Asset, AccountType: domain.TypeCurrentAsset, NormalBalance: domain.NormalDebit, IsActive: true},
	{AccountID: "A200", Code: "A200", Name: "Owner Capital", Category: domain.Equity, AccountType: domain.TypeEquity, NormalBalance: domain.NormalCredit, IsActive: true},
}

type ledgerEnv struct {
	repos    portsrepo.RepositoryProvider
	svc      *portssvc.ServiceContainer
	registry *prometheus.Registry
	metrics  *metrics.Metrics
}

func newLedgerEnv() *ledgerEnv {
	store := memory.NewStore()
	store.SeedAccounts(chart...)
	repos := store.NewRepositoryProvider()
	registry := prometheus.NewRegistry()
	m := metrics.NewMetrics(registry)

	return &ledgerEnv{
		repos:    repos,
		registry: registry,
		metrics:  m,
		svc: &portssvc.ServiceContainer{
			Journal:   services.NewJournalService(repos.AccountRepo, repos.JournalRepo),
			Posting:   services.NewPostingService(repos.TxManager, lock.NewLocalLocker()),
			Ledger:    services.NewLedgerService(repos.LedgerRepo),
			Reporting: services.NewReportingService(repos.AccountRepo, repos.LedgerRepo, services.WithReportingMetrics(m)),
			Recurring: services.NewRecurringService(repos.AccountRepo, repos.TemplateRepo, repos.TxManager),
		},
	}
}

func day(d int) time.Time {
	return time.Date(2025, 1, d, 0, 0, 0, 0, time.UTC)
}

// postCapital posts a balanced cash/capital entry and returns it.
func (e *ledgerEnv) postCapital(ctx context.Context, d int, amount string) *domain.JournalEntry {
	amt := decimal.RequireFromString(amount)
	entry, err := e.svc.Journal.CreateJournalEntry(ctx, domain.JournalEntryDraft{
		EntryDate:   day(d),
		Description: "capital",
		Lines: []domain.JournalLine{
			{AccountID: "A100", Debit: amt, Credit: decimal.Zero},
			{AccountID: "A200", Debit: decimal.Zero, Credit: amt},
		},
	}, "user-1")
	if err != nil {
		panic(err)
	}
	if _, err := e.svc.Journal.ApproveJournalEntry(ctx, entry.EntryID, "approver-1"); err != nil {
		panic(err)
	}
	posted, err := e.svc.Posting.PostJournalEntry(ctx, entry.EntryID, "user-1")
	if err != nil {
		panic(err)
	}
	return posted
}

// injectRow appends a ledger row without a matching journal line.
func (e *ledgerEnv) injectRow(ctx context.Context, entryID string, d int, debit string) {
	err := e.repos.LedgerRepo.AppendRows(ctx, []domain.GeneralLedgerRow{{
		EntryID:     entryID,
		LineNo:      99,
		AccountID:   "A100",
		AccountCode: "A100",
		Debit:       decimal.RequireFromString(debit),
		Credit:      decimal.Zero,
		PostingDate: day(d),
		PostedAt:    day(d),
		PostedBy:    "intruder",
	}})
	if err != nil {
		panic(err)
	}
}

// counterValue reads a counter from the registry by metric name and label values.
func (e *ledgerEnv) counterValue(name string, labels map[string]string) float64 {
	families, err := e.registry.Gather()
	if err != nil {
		panic(err)
	}
	for _, family := range families {
		if family.GetName() != name {
			continue
		}
	metrics:
		for _, metric := range family.GetMetric() {
			for _, pair := range metric.GetLabel() {
				if want, ok := labels[pair.GetName()]; ok && want != pair.GetValue() {
					continue metrics
				}
			}
			return metric.GetCounter().GetValue()
		}
	}
	return 0
}
