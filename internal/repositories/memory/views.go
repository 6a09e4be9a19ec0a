package memory

import (
	"cmp"
	"context"
	"fmt"
	"iter"
	"slices"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
)

// The views below implement the repository ports over a txState. They never lock;
// callers either hold the store lock for a transaction or take it around each call.

type accountView struct {
	state *txState
}

func (v *accountView) GetAccount(ctx context.Context, code string) (*domain.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for _, a := range v.state.store.accounts {
		if a.Code == code {
			return &a, nil
		}
	}
	return nil, fmt.Errorf("%w: account code %s", apperrors.ErrNotFound, code)
}

func (v *accountView) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	a, ok := v.state.store.accounts[accountID]
	if !ok {
		return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
	}
	return &a, nil
}

func (v *accountView) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make(map[string]domain.Account, len(accountIDs))
	for _, id := range accountIDs {
		if a, ok := v.state.store.accounts[id]; ok {
			out[id] = a
		}
	}
	return out, nil
}

func (v *accountView) ListAccounts(ctx context.Context, filter domain.AccountFilter) ([]domain.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]domain.Account, 0, len(v.state.store.accounts))
	for _, a := range v.state.store.accounts {
		if filter.Category != "" && a.Category != filter.Category {
			continue
		}
		if filter.ActiveOnly && !a.IsActive {
			continue
		}
		out = append(out, a)
	}
	slices.SortFunc(out, func(a, b domain.Account) int { return cmp.Compare(a.Code, b.Code) })
	return out, nil
}

type journalView struct {
	state    *txState
	writable bool
}

func (v *journalView) FindJournalEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	e, ok := v.state.entry(entryID)
	if !ok {
		return nil, fmt.Errorf("%w: journal entry %s", apperrors.ErrNotFound, entryID)
	}
	c := e.Clone()
	return &c, nil
}

// FindJournalEntryForUpdate needs no row lock: the transaction already owns the store.
func (v *journalView) FindJournalEntryForUpdate(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	return v.FindJournalEntryByID(ctx, entryID)
}

func (v *journalView) ListJournalEntries(ctx context.Context, filter domain.JournalFilter) ([]domain.JournalEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]domain.JournalEntry, 0)
	for _, e := range v.state.allEntries() {
		if filter.Status != "" && e.Status != filter.Status {
			continue
		}
		if filter.From != nil && e.EntryDate.Before(*filter.From) {
			continue
		}
		if filter.To != nil && e.EntryDate.After(*filter.To) {
			continue
		}
		out = append(out, e.Clone())
	}
	slices.SortFunc(out, func(a, b domain.JournalEntry) int {
		return cmp.Or(b.EntryDate.Compare(a.EntryDate), b.CreatedAt.Compare(a.CreatedAt), cmp.Compare(a.EntryID, b.EntryID))
	})
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (v *journalView) SaveJournalEntry(ctx context.Context, entry domain.JournalEntry) error {
	if err := v.checkWrite(ctx); err != nil {
		return err
	}
	if _, exists := v.state.entry(entry.EntryID); exists {
		return fmt.Errorf("%w: journal entry %s", apperrors.ErrDuplicate, entry.EntryID)
	}
	delete(v.state.deleted, entry.EntryID)
	v.state.entries[entry.EntryID] = entry.Clone()
	return nil
}

func (v *journalView) UpdateJournalEntry(ctx context.Context, entry domain.JournalEntry, expectedVersion int64) error {
	if err := v.checkWrite(ctx); err != nil {
		return err
	}
	current, ok := v.state.entry(entry.EntryID)
	if !ok {
		return fmt.Errorf("%w: journal entry %s", apperrors.ErrNotFound, entry.EntryID)
	}
	if current.Version != expectedVersion {
		return fmt.Errorf("%w: journal entry %s is at version %d, expected %d",
			apperrors.ErrConflict, entry.EntryID, current.Version, expectedVersion)
	}
	v.state.entries[entry.EntryID] = entry.Clone()
	return nil
}

func (v *journalView) DeleteJournalEntry(ctx context.Context, entryID string, expectedVersion int64) error {
	if err := v.checkWrite(ctx); err != nil {
		return err
	}
	current, ok := v.state.entry(entryID)
	if !ok {
		return fmt.Errorf("%w: journal entry %s", apperrors.ErrNotFound, entryID)
	}
	if current.Version != expectedVersion {
		return fmt.Errorf("%w: journal entry %s is at version %d, expected %d",
			apperrors.ErrConflict, entryID, current.Version, expectedVersion)
	}
	delete(v.state.entries, entryID)
	v.state.deleted[entryID] = struct{}{}
	return nil
}

func (v *journalView) checkWrite(ctx context.Context) error {
	if !v.writable {
		return fmt.Errorf("%w: write outside a transaction", apperrors.ErrInternal)
	}
	return ctx.Err()
}

type ledgerView struct {
	state    *txState
	writable bool
}

// QueryRows snapshots the matching rows when ranged; the tx lock is already held.
func (v *ledgerView) QueryRows(ctx context.Context, filter domain.LedgerFilter) iter.Seq2[domain.GeneralLedgerRow, error] {
	return yieldRows(ctx, func() []domain.GeneralLedgerRow { return v.state.matchingRows(filter) })
}

func (v *ledgerView) CountRowsByEntry(ctx context.Context, entryID string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return v.state.countRows(entryID), nil
}

func (v *ledgerView) AppendRows(ctx context.Context, rows []domain.GeneralLedgerRow) error {
	if !v.writable {
		return fmt.Errorf("%w: ledger append outside a transaction", apperrors.ErrInternal)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	for i := range rows {
		rows[i].Seq = v.state.nextSeq
		v.state.nextSeq++
		v.state.rows = append(v.state.rows, rows[i])
	}
	return nil
}

func (t *txState) countRows(entryID string) int {
	n := 0
	for _, source := range [][]domain.GeneralLedgerRow{t.store.rows, t.rows} {
		for _, r := range source {
			if r.EntryID == entryID {
				n++
			}
		}
	}
	return n
}

// yieldRows builds a restartable sequence: every range takes a fresh snapshot.
func yieldRows(ctx context.Context, snapshot func() []domain.GeneralLedgerRow) iter.Seq2[domain.GeneralLedgerRow, error] {
	return func(yield func(domain.GeneralLedgerRow, error) bool) {
		if err := ctx.Err(); err != nil {
			yield(domain.GeneralLedgerRow{}, err)
			return
		}
		for _, row := range snapshot() {
			if err := ctx.Err(); err != nil {
				yield(domain.GeneralLedgerRow{}, err)
				return
			}
			if !yield(row, nil) {
				return
			}
		}
	}
}
