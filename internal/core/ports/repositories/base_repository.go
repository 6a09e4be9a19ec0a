package repositories

import (
	"context"
)

// TxRepositories are the repositories bound to a single transaction.
type TxRepositories struct {
	Accounts  ChartOfAccountsReader
	Journals  JournalRepositoryFacade
	Ledger    LedgerRepositoryFacade
	Periods   PeriodRepositoryFacade
	Templates RecurringTemplateRepositoryFacade
}

// TransactionManager runs work inside one atomic unit. Either every write made through
// the TxRepositories commits, or none does.
type TransactionManager interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context, repos TxRepositories) error) error
}
