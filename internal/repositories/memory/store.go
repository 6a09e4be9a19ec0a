// Package memory is an in-process implementation of the ledger repositories. A
// transaction holds the store's write lock for its whole duration and stages its
// writes, which become visible only when the transaction function returns nil.
package memory

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
)

// Store holds accounts, journal entries, ledger rows, accounting periods and
// recurring templates.
type Store struct {
	mu        sync.RWMutex
	accounts  map[string]domain.Account
	entries   map[string]domain.JournalEntry
	rows      []domain.GeneralLedgerRow
	nextSeq   int64
	periods   map[string]domain.AccountingPeriod
	templates map[string]domain.RecurringTemplate
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		accounts:  make(map[string]domain.Account),
		entries:   make(map[string]domain.JournalEntry),
		nextSeq:   1,
		periods:   make(map[string]domain.AccountingPeriod),
		templates: make(map[string]domain.RecurringTemplate),
	}
}

// SeedAccounts inserts or replaces chart of accounts entries.
func (s *Store) SeedAccounts(accounts ...domain.Account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range accounts {
		s.accounts[a.AccountID] = a
	}
}

// RemoveAccount deletes an account from the chart. Ledger rows referencing it remain.
func (s *Store) RemoveAccount(accountID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.accounts, accountID)
}

// NewRepositoryProvider wires every repository over the store.
func (s *Store) NewRepositoryProvider() portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo:  NewAccountRepository(s),
		JournalRepo:  NewJournalRepository(s),
		LedgerRepo:   NewLedgerRepository(s),
		PeriodRepo:   NewPeriodRepository(s),
		TemplateRepo: NewTemplateRepository(s),
		TxManager:    NewTransactionManager(s),
	}
}

// readView returns a state with nothing staged. Callers must hold at least the read lock.
func (s *Store) readView() *txState {
	return &txState{store: s}
}

// txState is the store as seen from inside one transaction.
type txState struct {
	store     *Store
	entries   map[string]domain.JournalEntry
	deleted   map[string]struct{}
	rows      []domain.GeneralLedgerRow
	nextSeq   int64
	periods   map[string]domain.AccountingPeriod
	templates map[string]domain.RecurringTemplate
}

func newTxState(s *Store) *txState {
	return &txState{
		store:     s,
		entries:   make(map[string]domain.JournalEntry),
		deleted:   make(map[string]struct{}),
		nextSeq:   s.nextSeq,
		periods:   make(map[string]domain.AccountingPeriod),
		templates: make(map[string]domain.RecurringTemplate),
	}
}

func (t *txState) entry(entryID string) (domain.JournalEntry, bool) {
	if _, gone := t.deleted[entryID]; gone {
		return domain.JournalEntry{}, false
	}
	if e, ok := t.entries[entryID]; ok {
		return e, true
	}
	e, ok := t.store.entries[entryID]
	return e, ok
}

func (t *txState) allEntries() []domain.JournalEntry {
	out := make([]domain.JournalEntry, 0, len(t.store.entries)+len(t.entries))
	for id, e := range t.store.entries {
		if _, gone := t.deleted[id]; gone {
			continue
		}
		if staged, ok := t.entries[id]; ok {
			e = staged
		}
		out = append(out, e)
	}
	for id, e := range t.entries {
		if _, base := t.store.entries[id]; !base {
			out = append(out, e)
		}
	}
	return out
}

// matchingRows returns committed plus staged rows selected by filter, ordered by (PostingDate, Seq).
func (t *txState) matchingRows(filter domain.LedgerFilter) []domain.GeneralLedgerRow {
	out := make([]domain.GeneralLedgerRow, 0)
	for _, source := range [][]domain.GeneralLedgerRow{t.store.rows, t.rows} {
		for _, r := range source {
			if filter.Matches(r) {
				out = append(out, r)
			}
		}
	}
	slices.SortFunc(out, compareRows)
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out
}

func (t *txState) commit() {
	s := t.store
	for id := range t.deleted {
		delete(s.entries, id)
	}
	for id, e := range t.entries {
		s.entries[id] = e
	}
	s.rows = append(s.rows, t.rows...)
	s.nextSeq = t.nextSeq
	for id, p := range t.periods {
		s.periods[id] = p
	}
	for id, tmpl := range t.templates {
		s.templates[id] = tmpl
	}
}

func compareRows(a, b domain.GeneralLedgerRow) int {
	return cmp.Or(a.PostingDate.Compare(b.PostingDate), cmp.Compare(a.Seq, b.Seq))
}

// TransactionManager runs functions against a staged view of the store.
type TransactionManager struct {
	store *Store
}

// NewTransactionManager creates a TransactionManager over store.
func NewTransactionManager(store *Store) *TransactionManager {
	return &TransactionManager{store: store}
}

var _ portsrepo.TransactionManager = (*TransactionManager)(nil)

// WithinTransaction serializes fn against every other transaction and commits its
// staged writes only when fn returns nil.
func (m *TransactionManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context, repos portsrepo.TxRepositories) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	tx := newTxState(m.store)
	repos := portsrepo.TxRepositories{
		Accounts:  &accountView{state: tx},
		Journals:  &journalView{state: tx, writable: true},
		Ledger:    &ledgerView{state: tx, writable: true},
		Periods:   &periodView{state: tx, writable: true},
		Templates: &templateView{state: tx, writable: true},
	}
	if err := fn(ctx, repos); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	tx.commit()
	return nil
}
