package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
)

// PeriodRepository stores accounting periods. Each write runs as its own transaction.
type PeriodRepository struct {
	store *Store
	tx    *TransactionManager
}

// NewPeriodRepository creates a PeriodRepository over store.
func NewPeriodRepository(store *Store) *PeriodRepository {
	return &PeriodRepository{store: store, tx: NewTransactionManager(store)}
}

var _ portsrepo.PeriodRepositoryFacade = (*PeriodRepository)(nil)

func (r *PeriodRepository) FindPeriodByID(ctx context.Context, periodID string) (*domain.AccountingPeriod, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return (&periodView{state: r.store.readView()}).FindPeriodByID(ctx, periodID)
}

func (r *PeriodRepository) FindPeriodByDate(ctx context.Context, date time.Time) (*domain.AccountingPeriod, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return (&periodView{state: r.store.readView()}).FindPeriodByDate(ctx, date)
}

func (r *PeriodRepository) ListPeriods(ctx context.Context, filter domain.PeriodFilter) ([]domain.AccountingPeriod, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return (&periodView{state: r.store.readView()}).ListPeriods(ctx, filter)
}

func (r *PeriodRepository) FindPeriodForUpdate(ctx context.Context, periodID string) (*domain.AccountingPeriod, error) {
	return r.FindPeriodByID(ctx, periodID)
}

func (r *PeriodRepository) SavePeriod(ctx context.Context, period domain.AccountingPeriod) error {
	return r.tx.WithinTransaction(ctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		return repos.Periods.SavePeriod(ctx, period)
	})
}

func (r *PeriodRepository) UpdatePeriod(ctx context.Context, period domain.AccountingPeriod, expectedVersion int64) error {
	return r.tx.WithinTransaction(ctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		return repos.Periods.UpdatePeriod(ctx, period, expectedVersion)
	})
}

type periodView struct {
	state    *txState
	writable bool
}

func (t *txState) period(periodID string) (domain.AccountingPeriod, bool) {
	if p, ok := t.periods[periodID]; ok {
		return p, true
	}
	p, ok := t.store.periods[periodID]
	return p, ok
}

func (t *txState) allPeriods() []domain.AccountingPeriod {
	out := make([]domain.AccountingPeriod, 0, len(t.store.periods)+len(t.periods))
	for id, p := range t.store.periods {
		if staged, ok := t.periods[id]; ok {
			p = staged
		}
		out = append(out, p)
	}
	for id, p := range t.periods {
		if _, base := t.store.periods[id]; !base {
			out = append(out, p)
		}
	}
	slices.SortFunc(out, func(a, b domain.AccountingPeriod) int {
		return cmp.Or(a.StartDate.Compare(b.StartDate), cmp.Compare(a.PeriodID, b.PeriodID))
	})
	return out
}

func (v *periodView) FindPeriodByID(ctx context.Context, periodID string) (*domain.AccountingPeriod, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p, ok := v.state.period(periodID)
	if !ok {
		return nil, fmt.Errorf("%w: accounting period %s", apperrors.ErrNotFound, periodID)
	}
	return &p, nil
}

// FindPeriodByDate needs no share lock: a transaction already owns the store.
func (v *periodView) FindPeriodByDate(ctx context.Context, date time.Time) (*domain.AccountingPeriod, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for _, p := range v.state.allPeriods() {
		if p.Contains(date) {
			return &p, nil
		}
	}
	return nil, fmt.Errorf("%w: no accounting period covers %s", apperrors.ErrNotFound, date.Format(time.DateOnly))
}

func (v *periodView) ListPeriods(ctx context.Context, filter domain.PeriodFilter) ([]domain.AccountingPeriod, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]domain.AccountingPeriod, 0)
	for _, p := range v.state.allPeriods() {
		if filter.Matches(p) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (v *periodView) FindPeriodForUpdate(ctx context.Context, periodID string) (*domain.AccountingPeriod, error) {
	return v.FindPeriodByID(ctx, periodID)
}

func (v *periodView) SavePeriod(ctx context.Context, period domain.AccountingPeriod) error {
	if err := v.checkWrite(ctx); err != nil {
		return err
	}
	if _, exists := v.state.period(period.PeriodID); exists {
		return fmt.Errorf("%w: accounting period %s", apperrors.ErrDuplicate, period.PeriodID)
	}
	for _, p := range v.state.allPeriods() {
		if p.Overlaps(period.StartDate, period.EndDate) {
			return fmt.Errorf("%w: accounting period overlaps %s", apperrors.ErrDuplicate, p.Name)
		}
	}
	v.state.periods[period.PeriodID] = period
	return nil
}

func (v *periodView) UpdatePeriod(ctx context.Context, period domain.AccountingPeriod, expectedVersion int64) error {
	if err := v.checkWrite(ctx); err != nil {
		return err
	}
	current, ok := v.state.period(period.PeriodID)
	if !ok {
		return fmt.Errorf("%w: accounting period %s", apperrors.ErrNotFound, period.PeriodID)
	}
	if current.Version != expectedVersion {
		return fmt.Errorf("%w: accounting period %s is at version %d, expected %d",
			apperrors.ErrConflict, period.PeriodID, current.Version, expectedVersion)
	}
	v.state.periods[period.PeriodID] = period
	return nil
}

func (v *periodView) checkWrite(ctx context.Context) error {
	if !v.writable {
		return fmt.Errorf("%w: write outside a transaction", apperrors.ErrInternal)
	}
	return ctx.Err()
}
