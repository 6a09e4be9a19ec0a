package pgsql

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_engine/internal/models"
	"github.com/SscSPs/ledger_engine/internal/utils/mapping"
)

const journalColumns = `
	entry_id, entry_date, description, reference_number, source, status,
	original_entry_id, reversing_entry_id, approved_by, approved_at,
	rejection_reason, reversal_reason, posted_by, posted_at, version,
	created_at, created_by, last_updated_at, last_updated_by`

const lineColumns = `entry_id, line_no, account_id, debit, credit, memo`

type PgxJournalRepository struct {
	BaseRepository
}

// newPgxJournalRepository creates a new repository for journal entries and their lines.
func newPgxJournalRepository(db querier) *PgxJournalRepository {
	return &PgxJournalRepository{BaseRepository: BaseRepository{db: db}}
}

// Ensure PgxJournalRepository implements portsrepo.JournalRepositoryFacade
var _ portsrepo.JournalRepositoryFacade = (*PgxJournalRepository)(nil)

// FindJournalEntryByID retrieves an entry with its lines.
func (r *PgxJournalRepository) FindJournalEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	return r.findEntry(ctx, entryID, false)
}

// FindJournalEntryForUpdate retrieves an entry and locks its row until the surrounding
// transaction ends.
func (r *PgxJournalRepository) FindJournalEntryForUpdate(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	return r.findEntry(ctx, entryID, true)
}

func (r *PgxJournalRepository) findEntry(ctx context.Context, entryID string, forUpdate bool) (*domain.JournalEntry, error) {
	query := `SELECT ` + journalColumns + ` FROM journal_entries WHERE entry_id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	rows, err := r.db.Query(ctx, query, entryID)
	if err != nil {
		return nil, translateError(err, "find journal entry "+entryID)
	}
	header, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.JournalEntry])
	if err != nil {
		return nil, translateError(err, "find journal entry "+entryID)
	}

	lines, err := r.loadLines(ctx, []string{entryID})
	if err != nil {
		return nil, err
	}
	entry := mapping.ToDomainJournalEntry(header, lines[entryID])
	return &entry, nil
}

// ListJournalEntries returns entries newest first. The date window is inclusive at both ends.
func (r *PgxJournalRepository) ListJournalEntries(ctx context.Context, filter domain.JournalFilter) ([]domain.JournalEntry, error) {
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
		conds = append(conds, fmt.Sprintf("entry_date >= $%d", len(args)))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		conds = append(conds, fmt.Sprintf("entry_date <= $%d", len(args)))
	}

	query := `SELECT ` + journalColumns + ` FROM journal_entries`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY entry_date DESC, created_at DESC, entry_id`
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(` LIMIT $%d`, len(args))
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, translateError(err, "list journal entries")
	}
	headers, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.JournalEntry])
	if err != nil {
		return nil, translateError(err, "scan journal entries")
	}
	if len(headers) == 0 {
		return []domain.JournalEntry{}, nil
	}

	ids := make([]string, len(headers))
	for i, h := range headers {
		ids[i] = h.EntryID
	}
	lines, err := r.loadLines(ctx, ids)
	if err != nil {
		return nil, err
	}

	entries := make([]domain.JournalEntry, len(headers))
	for i, h := range headers {
		entries[i] = mapping.ToDomainJournalEntry(h, lines[h.EntryID])
	}
	return entries, nil
}

// SaveJournalEntry inserts a new entry and its lines.
func (r *PgxJournalRepository) SaveJournalEntry(ctx context.Context, entry domain.JournalEntry) error {
	header, lines := mapping.ToModelJournalEntry(entry)
	return r.inTx(ctx, func(tx pgx.Tx) error {
		query := `
			INSERT INTO journal_entries (` + journalColumns + `)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19);
		`
		if _, err := tx.Exec(ctx, query, headerArgs(header)...); err != nil {
			return translateError(err, "insert journal entry "+header.EntryID)
		}
		return insertLines(ctx, tx, lines)
	})
}

// UpdateJournalEntry overwrites an entry and replaces its lines when the stored version
// still equals expectedVersion.
func (r *PgxJournalRepository) UpdateJournalEntry(ctx context.Context, entry domain.JournalEntry, expectedVersion int64) error {
	header, lines := mapping.ToModelJournalEntry(entry)
	return r.inTx(ctx, func(tx pgx.Tx) error {
		query := `
			UPDATE journal_entries SET
				entry_date = $2, description = $3, reference_number = $4, source = $5, status = $6,
				original_entry_id = $7, reversing_entry_id = $8, approved_by = $9, approved_at = $10,
				rejection_reason = $11, reversal_reason = $12, posted_by = $13, posted_at = $14,
				version = $15, created_at = $16, created_by = $17, last_updated_at = $18, last_updated_by = $19
			WHERE entry_id = $1 AND version = $20;
		`
		args := append(headerArgs(header), expectedVersion)
		tag, err := tx.Exec(ctx, query, args...)
		if err != nil {
			return translateError(err, "update journal entry "+header.EntryID)
		}
		if tag.RowsAffected() == 0 {
			return r.missingOrStale(ctx, tx, header.EntryID, expectedVersion)
		}

		if _, err := tx.Exec(ctx, `DELETE FROM journal_lines WHERE entry_id = $1;`, header.EntryID); err != nil {
			return translateError(err, "replace lines of journal entry "+header.EntryID)
		}
		return insertLines(ctx, tx, lines)
	})
}

// DeleteJournalEntry removes an entry when the stored version equals expectedVersion.
// Lines are removed by the foreign key cascade.
func (r *PgxJournalRepository) DeleteJournalEntry(ctx context.Context, entryID string, expectedVersion int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM journal_entries WHERE entry_id = $1 AND version = $2;`, entryID, expectedVersion)
	if err != nil {
		return translateError(err, "delete journal entry "+entryID)
	}
	if tag.RowsAffected() == 0 {
		return r.missingOrStale(ctx, r.db, entryID, expectedVersion)
	}
	return nil
}

// missingOrStale explains why a versioned write touched no row.
func (r *PgxJournalRepository) missingOrStale(ctx context.Context, q querier, entryID string, expectedVersion int64) error {
	var exists bool
	if err := q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM journal_entries WHERE entry_id = $1);`, entryID).Scan(&exists); err != nil {
		return translateError(err, "check journal entry "+entryID)
	}
	if !exists {
		return fmt.Errorf("%w: journal entry %s", apperrors.ErrNotFound, entryID)
	}
	return fmt.Errorf("%w: journal entry %s is no longer at version %d", apperrors.ErrConflict, entryID, expectedVersion)
}

// loadLines fetches the lines of the given entries keyed by entry id, in line order.
func (r *PgxJournalRepository) loadLines(ctx context.Context, entryIDs []string) (map[string][]models.JournalLine, error) {
	query := `SELECT ` + lineColumns + ` FROM journal_lines WHERE entry_id = ANY($1) ORDER BY entry_id, line_no;`
	rows, err := r.db.Query(ctx, query, entryIDs)
	if err != nil {
		return nil, translateError(err, "query journal lines")
	}
	lines, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.JournalLine])
	if err != nil {
		return nil, translateError(err, "scan journal lines")
	}

	out := make(map[string][]models.JournalLine, len(entryIDs))
	for _, l := range lines {
		out[l.EntryID] = append(out[l.EntryID], l)
	}
	return out, nil
}

func insertLines(ctx context.Context, tx pgx.Tx, lines []models.JournalLine) error {
	if len(lines) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	query := `INSERT INTO journal_lines (` + lineColumns + `) VALUES ($1, $2, $3, $4, $5, $6);`
	for _, l := range lines {
		batch.Queue(query, l.EntryID, l.LineNo, l.AccountID, l.Debit, l.Credit, l.Memo)
	}
	// Close reports the first failing command of the batch.
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return translateError(err, "insert journal lines")
	}
	return nil
}

func headerArgs(m models.JournalEntry) []any {
	return []any{
		m.EntryID,
		m.EntryDate,
		m.Description,
		m.ReferenceNumber,
		m.Source,
		m.Status,
		m.OriginalEntryID,
		m.ReversingEntryID,
		m.ApprovedBy,
		m.ApprovedAt,
		m.RejectionReason,
		m.ReversalReason,
		m.PostedBy,
		m.PostedAt,
		m.Version,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	}
}
