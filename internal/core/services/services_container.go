package services

import (
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/platform/config"
	"github.com/SscSPs/ledger_engine/internal/platform/metrics"
)

// Dependencies are the infrastructure adapters shared by the services.
type Dependencies struct {
	Publisher portssvc.EventPublisher
	Locker    portssvc.EntryLocker
	Metrics   *metrics.Metrics
}

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, deps Dependencies) *portssvc.ServiceContainer {
	return &portssvc.ServiceContainer{
		Account: NewAccountService(repos.AccountRepo),
		Journal: NewJournalService(
			repos.AccountRepo,
			repos.JournalRepo,
			WithJournalEventPublisher(deps.Publisher),
			WithJournalMetrics(deps.Metrics),
		),
		Posting: NewPostingService(
			repos.TxManager,
			deps.Locker,
			WithPostingEventPublisher(deps.Publisher),
			WithPostingMetrics(deps.Metrics),
			WithPostRetryDelay(cfg.PostRetryDelay),
		),
		Ledger: NewLedgerService(repos.LedgerRepo),
		Reporting: NewReportingService(
			repos.AccountRepo,
			repos.LedgerRepo,
			WithReportingMetrics(deps.Metrics),
			WithReportTimeout(cfg.ReportTimeout),
		),
		Period: NewPeriodService(repos.PeriodRepo, repos.TxManager),
		Recurring: NewRecurringService(
			repos.AccountRepo,
			repos.TemplateRepo,
			repos.TxManager,
			WithRecurringEventPublisher(deps.Publisher),
			WithRecurringMetrics(deps.Metrics),
		),
	}
}
