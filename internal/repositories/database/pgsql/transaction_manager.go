package pgsql

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
)

// PgxTransactionManager runs units of work in repeatable-read transactions.
type PgxTransactionManager struct {
	pool *pgxpool.Pool
}

func newPgxTransactionManager(pool *pgxpool.Pool) *PgxTransactionManager {
	return &PgxTransactionManager{pool: pool}
}

var _ portsrepo.TransactionManager = (*PgxTransactionManager)(nil)

// WithinTransaction hands fn repositories bound to one transaction. The transaction
// commits when fn returns nil and rolls back otherwise.
func (m *PgxTransactionManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context, repos portsrepo.TxRepositories) error) error {
	tx, err := m.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead})
	if err != nil {
		return apperrors.NewInternal("failed to begin transaction", err)
	}
	base := BaseRepository{db: tx}
	defer base.Rollback(ctx, tx) // no-op after commit

	repos := portsrepo.TxRepositories{
		Accounts:  newPgxAccountRepository(tx),
		Journals:  newPgxJournalRepository(tx),
		Ledger:    newPgxLedgerRepository(tx),
		Periods:   newPgxPeriodRepository(tx),
		Templates: newPgxTemplateRepository(tx),
	}
	if err := fn(ctx, repos); err != nil {
		return err
	}
	return base.Commit(ctx, tx)
}
