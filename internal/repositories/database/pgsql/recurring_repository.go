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

const templateColumns = `
	template_id, code, description, frequency, custom_interval_days, start_date, end_date,
	next_run_date, last_generated_date, generated_count, status, approved_by, approved_at,
	suspension_reason, version, created_at, created_by, last_updated_at, last_updated_by`

const templateLineColumns = `template_id, line_no, account_id, debit, credit, memo`

type PgxTemplateRepository struct {
	BaseRepository
}

// newPgxTemplateRepository creates a new repository for recurring templates and their lines.
func newPgxTemplateRepository(db querier) *PgxTemplateRepository {
	return &PgxTemplateRepository{BaseRepository: BaseRepository{db: db}}
}

var _ portsrepo.RecurringTemplateRepositoryFacade = (*PgxTemplateRepository)(nil)

// FindTemplateByID retrieves a template with its lines.
func (r *PgxTemplateRepository) FindTemplateByID(ctx context.Context, templateID string) (*domain.RecurringTemplate, error) {
	return r.findTemplate(ctx, templateID, false)
}

// FindTemplateForUpdate retrieves a template and locks its row until the transaction ends.
func (r *PgxTemplateRepository) FindTemplateForUpdate(ctx context.Context, templateID string) (*domain.RecurringTemplate, error) {
	return r.findTemplate(ctx, templateID, true)
}

func (r *PgxTemplateRepository) findTemplate(ctx context.Context, templateID string, forUpdate bool) (*domain.RecurringTemplate, error) {
	query := `SELECT ` + templateColumns + ` FROM recurring_templates WHERE template_id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	rows, err := r.db.Query(ctx, query, templateID)
	if err != nil {
		return nil, translateError(err, "find recurring template "+templateID)
	}
	header, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.RecurringTemplate])
	if err != nil {
		return nil, translateError(err, "find recurring template "+templateID)
	}
	lines, err := r.loadLines(ctx, []string{templateID})
	if err != nil {
		return nil, err
	}
	tmpl := mapping.ToDomainRecurringTemplate(header, lines[templateID])
	return &tmpl, nil
}

// ListTemplates returns templates ordered by next run date, then code.
func (r *PgxTemplateRepository) ListTemplates(ctx context.Context, filter domain.TemplateFilter) ([]domain.RecurringTemplate, error) {
	var (
		conds []string
		args  []any
	)
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.DueBy != nil {
		args = append(args, string(domain.TemplateApproved), domain.NormalizeDate(*filter.DueBy))
		conds = append(conds, fmt.Sprintf("status = $%d AND next_run_date <= $%d", len(args)-1, len(args)))
	}

	query := `SELECT ` + templateColumns + ` FROM recurring_templates`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY next_run_date, code`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, translateError(err, "list recurring templates")
	}
	headers, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.RecurringTemplate])
	if err != nil {
		return nil, translateError(err, "scan recurring templates")
	}
	if len(headers) == 0 {
		return []domain.RecurringTemplate{}, nil
	}

	ids := make([]string, len(headers))
	for i, h := range headers {
		ids[i] = h.TemplateID
	}
	lines, err := r.loadLines(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]domain.RecurringTemplate, len(headers))
	for i, h := range headers {
		out[i] = mapping.ToDomainRecurringTemplate(h, lines[h.TemplateID])
	}
	return out, nil
}

// SaveTemplate inserts a template and its lines.
func (r *PgxTemplateRepository) SaveTemplate(ctx context.Context, template domain.RecurringTemplate) error {
	header, lines := mapping.ToModelRecurringTemplate(template)
	return r.inTx(ctx, func(tx pgx.Tx) error {
		query := `
			INSERT INTO recurring_templates (` + templateColumns + `)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19);
		`
		if _, err := tx.Exec(ctx, query, templateArgs(header)...); err != nil {
			return translateError(err, "insert recurring template "+header.TemplateID)
		}
		return insertTemplateLines(ctx, tx, lines)
	})
}

// UpdateTemplate overwrites a template and replaces its lines when the stored version
// still equals expectedVersion.
func (r *PgxTemplateRepository) UpdateTemplate(ctx context.Context, template domain.RecurringTemplate, expectedVersion int64) error {
	header, lines := mapping.ToModelRecurringTemplate(template)
	return r.inTx(ctx, func(tx pgx.Tx) error {
		query := `
			UPDATE recurring_templates SET
				code = $2, description = $3, frequency = $4, custom_interval_days = $5, start_date = $6,
				end_date = $7, next_run_date = $8, last_generated_date = $9, generated_count = $10,
				status = $11, approved_by = $12, approved_at = $13, suspension_reason = $14, version = $15,
				created_at = $16, created_by = $17, last_updated_at = $18, last_updated_by = $19
			WHERE template_id = $1 AND version = $20;
		`
		tag, err := tx.Exec(ctx, query, append(templateArgs(header), expectedVersion)...)
		if err != nil {
			return translateError(err, "update recurring template "+header.TemplateID)
		}
		if tag.RowsAffected() == 0 {
			var exists bool
			if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM recurring_templates WHERE template_id = $1);`, header.TemplateID).Scan(&exists); err != nil {
				return translateError(err, "check recurring template "+header.TemplateID)
			}
			if !exists {
				return fmt.Errorf("%w: recurring template %s", apperrors.ErrNotFound, header.TemplateID)
			}
			return fmt.Errorf("%w: recurring template %s is no longer at version %d", apperrors.ErrConflict, header.TemplateID, expectedVersion)
		}

		if _, err := tx.Exec(ctx, `DELETE FROM recurring_template_lines WHERE template_id = $1;`, header.TemplateID); err != nil {
			return translateError(err, "replace lines of recurring template "+header.TemplateID)
		}
		return insertTemplateLines(ctx, tx, lines)
	})
}

func (r *PgxTemplateRepository) loadLines(ctx context.Context, templateIDs []string) (map[string][]models.RecurringTemplateLine, error) {
	query := `SELECT ` + templateLineColumns + ` FROM recurring_template_lines WHERE template_id = ANY($1) ORDER BY template_id, line_no;`
	rows, err := r.db.Query(ctx, query, templateIDs)
	if err != nil {
		return nil, translateError(err, "query recurring template lines")
	}
	lines, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.RecurringTemplateLine])
	if err != nil {
		return nil, translateError(err, "scan recurring template lines")
	}
	out := make(map[string][]models.RecurringTemplateLine, len(templateIDs))
	for _, l := range lines {
		out[l.TemplateID] = append(out[l.TemplateID], l)
	}
	return out, nil
}

func insertTemplateLines(ctx context.Context, tx pgx.Tx, lines []models.RecurringTemplateLine) error {
	if len(lines) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	query := `INSERT INTO recurring_template_lines (` + templateLineColumns + `) VALUES ($1, $2, $3, $4, $5, $6);`
	for _, l := range lines {
		batch.Queue(query, l.TemplateID, l.LineNo, l.AccountID, l.Debit, l.Credit, l.Memo)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return translateError(err, "insert recurring template lines")
	}
	return nil
}

func templateArgs(m models.RecurringTemplate) []any {
	return []any{
		m.TemplateID,
		m.Code,
		m.Description,
		m.Frequency,
		m.CustomIntervalDays,
		m.StartDate,
		m.EndDate,
		m.NextRunDate,
		m.LastGeneratedDate,
		m.GeneratedCount,
		m.Status,
		m.ApprovedBy,
		m.ApprovedAt,
		m.SuspensionReason,
		m.Version,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	}
}
