package memory

import (
	"context"
	"iter"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
)

// AccountRepository reads the chart of accounts.
type AccountRepository struct {
	store *Store
}

// NewAccountRepository creates an AccountRepository over store.
func NewAccountRepository(store *Store) *AccountRepository {
	return &AccountRepository{store: store}
}

var _ portsrepo.ChartOfAccountsReader = (*AccountRepository)(nil)

func (r *AccountRepository) GetAccount(ctx context.Context, code string) (*domain.Account, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return (&accountView{state: r.store.readView()}).GetAccount(ctx, code)
}

func (r *AccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return (&accountView{state: r.store.readView()}).FindAccountByID(ctx, accountID)
}

func (r *AccountRepository) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return (&accountView{state: r.store.readView()}).FindAccountsByIDs(ctx, accountIDs)
}

func (r *AccountRepository) ListAccounts(ctx context.Context, filter domain.AccountFilter) ([]domain.Account, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return (&accountView{state: r.store.readView()}).ListAccounts(ctx, filter)
}

// JournalRepository stores journal entries. Each write runs as its own transaction.
type JournalRepository struct {
	store *Store
	tx    *TransactionManager
}

// NewJournalRepository creates a JournalRepository over store.
func NewJournalRepository(store *Store) *JournalRepository {
	return &JournalRepository{store: store, tx: NewTransactionManager(store)}
}

var _ portsrepo.JournalRepositoryFacade = (*JournalRepository)(nil)

func (r *JournalRepository) FindJournalEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return (&journalView{state: r.store.readView()}).FindJournalEntryByID(ctx, entryID)
}

func (r *JournalRepository) FindJournalEntryForUpdate(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	return r.FindJournalEntryByID(ctx, entryID)
}

func (r *JournalRepository) ListJournalEntries(ctx context.Context, filter domain.JournalFilter) ([]domain.JournalEntry, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return (&journalView{state: r.store.readView()}).ListJournalEntries(ctx, filter)
}

func (r *JournalRepository) SaveJournalEntry(ctx context.Context, entry domain.JournalEntry) error {
	return r.tx.WithinTransaction(ctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		return repos.Journals.SaveJournalEntry(ctx, entry)
	})
}

func (r *JournalRepository) UpdateJournalEntry(ctx context.Context, entry domain.JournalEntry, expectedVersion int64) error {
	return r.tx.WithinTransaction(ctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		return repos.Journals.UpdateJournalEntry(ctx, entry, expectedVersion)
	})
}

func (r *JournalRepository) DeleteJournalEntry(ctx context.Context, entryID string, expectedVersion int64) error {
	return r.tx.WithinTransaction(ctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		return repos.Journals.DeleteJournalEntry(ctx, entryID, expectedVersion)
	})
}

// LedgerRepository reads and appends general ledger rows.
type LedgerRepository struct {
	store *Store
	tx    *TransactionManager
}

// NewLedgerRepository creates a LedgerRepository over store.
func NewLedgerRepository(store *Store) *LedgerRepository {
	return &LedgerRepository{store: store, tx: NewTransactionManager(store)}
}

var _ portsrepo.LedgerRepositoryFacade = (*LedgerRepository)(nil)

// QueryRows takes a consistent snapshot under the read lock each time it is ranged
// and yields without holding the lock, so slow consumers never block posting.
func (r *LedgerRepository) QueryRows(ctx context.Context, filter domain.LedgerFilter) iter.Seq2[domain.GeneralLedgerRow, error] {
	return yieldRows(ctx, func() []domain.GeneralLedgerRow {
		r.store.mu.RLock()
		defer r.store.mu.RUnlock()
		return r.store.readView().matchingRows(filter)
	})
}

func (r *LedgerRepository) CountRowsByEntry(ctx context.Context, entryID string) (int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return (&ledgerView{state: r.store.readView()}).CountRowsByEntry(ctx, entryID)
}

func (r *LedgerRepository) AppendRows(ctx context.Context, rows []domain.GeneralLedgerRow) error {
	return r.tx.WithinTransaction(ctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		return repos.Ledger.AppendRows(ctx, rows)
	})
}
