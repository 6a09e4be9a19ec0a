package pgsql

import (
	"context"
	"fmt"
	"iter"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_engine/internal/models"
	"github.com/SscSPs/ledger_engine/internal/utils/mapping"
)

const ledgerColumns = `seq, entry_id, line_no, account_id, account_code, debit, credit, posting_date, posted_at, posted_by`

type PgxLedgerRepository struct {
	BaseRepository
}

// newPgxLedgerRepository creates a new repository over the append-only general ledger.
func newPgxLedgerRepository(db querier) *PgxLedgerRepository {
	return &PgxLedgerRepository{BaseRepository: BaseRepository{db: db}}
}

// Ensure PgxLedgerRepository implements portsrepo.LedgerRepositoryFacade
var _ portsrepo.LedgerRepositoryFacade = (*PgxLedgerRepository)(nil)

// QueryRows streams the rows selected by filter in (posting_date, seq) order. Every range
// over the result runs the query again.
func (r *PgxLedgerRepository) QueryRows(ctx context.Context, filter domain.LedgerFilter) iter.Seq2[domain.GeneralLedgerRow, error] {
	return func(yield func(domain.GeneralLedgerRow, error) bool) {
		query, args := buildLedgerQuery(filter)
		rows, err := r.db.Query(ctx, query, args...)
		if err != nil {
			yield(domain.GeneralLedgerRow{}, translateError(err, "query ledger rows"))
			return
		}
		defer rows.Close()

		for rows.Next() {
			m, err := pgx.RowToStructByName[models.GeneralLedgerRow](rows)
			if err != nil {
				yield(domain.GeneralLedgerRow{}, translateError(err, "scan ledger row"))
				return
			}
			if !yield(mapping.ToDomainLedgerRow(m), nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(domain.GeneralLedgerRow{}, translateError(err, "read ledger rows"))
		}
	}
}

// CountRowsByEntry returns how many rows an entry has produced.
func (r *PgxLedgerRepository) CountRowsByEntry(ctx context.Context, entryID string) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM general_ledger_rows WHERE entry_id = $1;`, entryID).Scan(&n); err != nil {
		return 0, translateError(err, "count ledger rows of entry "+entryID)
	}
	return n, nil
}

// AppendRows inserts rows in slice order; seq is assigned by the table's sequence.
func (r *PgxLedgerRepository) AppendRows(ctx context.Context, rows []domain.GeneralLedgerRow) error {
	if len(rows) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	query := `
		INSERT INTO general_ledger_rows (entry_id, line_no, account_id, account_code, debit, credit, posting_date, posted_at, posted_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	for _, row := range rows {
		m := mapping.ToModelLedgerRow(row)
		batch.Queue(query, m.EntryID, m.LineNo, m.AccountID, m.AccountCode, m.Debit, m.Credit, m.PostingDate, m.PostedAt, m.PostedBy)
	}
	if err := r.db.SendBatch(ctx, batch).Close(); err != nil {
		return translateError(err, "append ledger rows")
	}
	return nil
}

// buildLedgerQuery renders filter as SQL. The window is (From, To].
func buildLedgerQuery(filter domain.LedgerFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if filter.AccountID != "" {
		args = append(args, filter.AccountID)
		conds = append(conds, fmt.Sprintf("account_id = $%d", len(args)))
	}
	if filter.EntryID != "" {
		args = append(args, filter.EntryID)
		conds = append(conds, fmt.Sprintf("entry_id = $%d", len(args)))
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		conds = append(conds, fmt.Sprintf("posting_date > $%d", len(args)))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		conds = append(conds, fmt.Sprintf("posting_date <= $%d", len(args)))
	}
	if filter.After != nil {
		args = append(args, filter.After.PostingDate, filter.After.Seq)
		conds = append(conds, fmt.Sprintf("(posting_date, seq) > ($%d, $%d)", len(args)-1, len(args)))
	}

	var b strings.Builder
	b.WriteString(`SELECT ` + ledgerColumns + ` FROM general_ledger_rows`)
	if len(conds) > 0 {
		b.WriteString(` WHERE ` + strings.Join(conds, " AND "))
	}
	b.WriteString(` ORDER BY posting_date, seq`)
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		fmt.Fprintf(&b, ` LIMIT $%d`, len(args))
	}
	return b.String(), args
}
