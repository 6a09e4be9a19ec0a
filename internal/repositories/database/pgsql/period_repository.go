package pgsql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_engine/internal/models"
	"github.com/SscSPs/ledger_engine/internal/utils/mapping"
)

const periodColumns = `
	period_id, name, start_date, end_date, status, closed_by, closed_at, version,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxPeriodRepository struct {
	BaseRepository
}

// newPgxPeriodRepository creates a new repository for accounting periods.
func newPgxPeriodRepository(db querier) *PgxPeriodRepository {
	return &PgxPeriodRepository{BaseRepository: BaseRepository{db: db}}
}

var _ portsrepo.PeriodRepositoryFacade = (*PgxPeriodRepository)(nil)

// FindPeriodByID retrieves a period.
func (r *PgxPeriodRepository) FindPeriodByID(ctx context.Context, periodID string) (*domain.AccountingPeriod, error) {
	return r.findOne(ctx, `SELECT `+periodColumns+` FROM accounting_periods WHERE period_id = $1`, "find accounting period "+periodID, periodID)
}

// FindPeriodForUpdate retrieves a period and locks its row until the transaction ends.
func (r *PgxPeriodRepository) FindPeriodForUpdate(ctx context.Context, periodID string) (*domain.AccountingPeriod, error) {
	return r.findOne(ctx, `SELECT `+periodColumns+` FROM accounting_periods WHERE period_id = $1 FOR UPDATE`, "lock accounting period "+periodID, periodID)
}

// FindPeriodByDate share-locks the covering period so a concurrent close waits for the
// posting transaction, or fails it with a serialization error if it committed first.
func (r *PgxPeriodRepository) FindPeriodByDate(ctx context.Context, date time.Time) (*domain.AccountingPeriod, error) {
	query := `SELECT ` + periodColumns + ` FROM accounting_periods WHERE $1 BETWEEN start_date AND end_date FOR SHARE`
	return r.findOne(ctx, query, "find accounting period for "+date.Format(time.DateOnly), domain.NormalizeDate(date))
}

func (r *PgxPeriodRepository) findOne(ctx context.Context, query, action string, args ...any) (*domain.AccountingPeriod, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, translateError(err, action)
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.AccountingPeriod])
	if err != nil {
		return nil, translateError(err, action)
	}
	p := mapping.ToDomainAccountingPeriod(m)
	return &p, nil
}

// ListPeriods returns periods ordered by start date. From and To select periods that
// overlap the inclusive range.
func (r *PgxPeriodRepository) ListPeriods(ctx context.Context, filter domain.PeriodFilter) ([]domain.AccountingPeriod, error) {
	var (
		conds []string
		args  []any
	)
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		conds = append(conds, fmt.Sprintf("end_date >= $%d", len(args)))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		conds = append(conds, fmt.Sprintf("start_date <= $%d", len(args)))
	}

	query := `SELECT ` + periodColumns + ` FROM accounting_periods`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY start_date, period_id`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, translateError(err, "list accounting periods")
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.AccountingPeriod])
	if err != nil {
		return nil, translateError(err, "scan accounting periods")
	}
	out := make([]domain.AccountingPeriod, len(ms))
	for i, m := range ms {
		out[i] = mapping.ToDomainAccountingPeriod(m)
	}
	return out, nil
}

// SavePeriod inserts a period. Overlaps are rejected by the table's exclusion constraint.
func (r *PgxPeriodRepository) SavePeriod(ctx context.Context, period domain.AccountingPeriod) error {
	m := mapping.ToModelAccountingPeriod(period)
	query := `INSERT INTO accounting_periods (` + periodColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);`
	if _, err := r.db.Exec(ctx, query, periodArgs(m)...); err != nil {
		return translateError(err, "insert accounting period "+m.PeriodID)
	}
	return nil
}

// UpdatePeriod overwrites a period when its stored version equals expectedVersion.
func (r *PgxPeriodRepository) UpdatePeriod(ctx context.Context, period domain.AccountingPeriod, expectedVersion int64) error {
	m := mapping.ToModelAccountingPeriod(period)
	query := `
		UPDATE accounting_periods SET
			name = $2, start_date = $3, end_date = $4, status = $5, closed_by = $6, closed_at = $7,
			version = $8, created_at = $9, created_by = $10, last_updated_at = $11, last_updated_by = $12
		WHERE period_id = $1 AND version = $13;
	`
	tag, err := r.db.Exec(ctx, query, append(periodArgs(m), expectedVersion)...)
	if err != nil {
		return translateError(err, "update accounting period "+m.PeriodID)
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM accounting_periods WHERE period_id = $1);`, m.PeriodID).Scan(&exists); err != nil {
			return translateError(err, "check accounting period "+m.PeriodID)
		}
		if !exists {
			return fmt.Errorf("%w: accounting period %s", apperrors.ErrNotFound, m.PeriodID)
		}
		return fmt.Errorf("%w: accounting period %s is no longer at version %d", apperrors.ErrConflict, m.PeriodID, expectedVersion)
	}
	return nil
}

func periodArgs(m models.AccountingPeriod) []any {
	return []any{
		m.PeriodID,
		m.Name,
		m.StartDate,
		m.EndDate,
		m.Status,
		m.ClosedBy,
		m.ClosedAt,
		m.Version,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	}
}
