package models

import "time"

// AccountingPeriod is a row of accounting_periods.
type AccountingPeriod struct {
	PeriodID  string     `db:"period_id"`
	Name      string     `db:"name"`
	StartDate time.Time  `db:"start_date"`
	EndDate   time.Time  `db:"end_date"`
	Status    string     `db:"status"`
	ClosedBy  *string    `db:"closed_by"`
	ClosedAt  *time.Time `db:"closed_at"`
	Version   int64      `db:"version"`
	AuditFields
}
