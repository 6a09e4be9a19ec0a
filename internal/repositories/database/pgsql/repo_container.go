package pgsql

import (
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo:  newPgxAccountRepository(dbPool),
		JournalRepo:  newPgxJournalRepository(dbPool),
		LedgerRepo:   newPgxLedgerRepository(dbPool),
		PeriodRepo:   newPgxPeriodRepository(dbPool),
		TemplateRepo: newPgxTemplateRepository(dbPool),
		TxManager:    newPgxTransactionManager(dbPool),
	}
}
