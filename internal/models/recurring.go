package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecurringTemplate is a row of recurring_templates. Lines live in recurring_template_lines.
type RecurringTemplate struct {
	TemplateID         string     `db:"template_id"`
	Code               string     `db:"code"`
	Description        string     `db:"description"`
	Frequency          string     `db:"frequency"`
	CustomIntervalDays int        `db:"custom_interval_days"`
	StartDate          time.Time  `db:"start_date"`
	EndDate            *time.Time `db:"end_date"`
	NextRunDate        time.Time  `db:"next_run_date"`
	LastGeneratedDate  *time.Time `db:"last_generated_date"`
	GeneratedCount     int        `db:"generated_count"`
	Status             string     `db:"status"`
	ApprovedBy         *string    `db:"approved_by"`
	ApprovedAt         *time.Time `db:"approved_at"`
	SuspensionReason   *string    `db:"suspension_reason"`
	Version            int64      `db:"version"`
	AuditFields
}

// RecurringTemplateLine is a row of recurring_template_lines.
type RecurringTemplateLine struct {
	TemplateID string          `db:"template_id"`
	LineNo     int             `db:"line_no"`
	AccountID  string          `db:"account_id"`
	Debit      decimal.Decimal `db:"debit"`
	Credit     decimal.Decimal `db:"credit"`
	Memo       string          `db:"memo"`
}
