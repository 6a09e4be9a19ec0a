package domain

import "time"

// PeriodStatus indicates whether postings may land in an accounting period.
type PeriodStatus string

const (
	PeriodOpen   PeriodStatus = "OPEN"
	PeriodClosed PeriodStatus = "CLOSED"
)

// AccountingPeriod is a named, inclusive range of posting dates that can be closed
// against further posting. Periods never overlap.
type AccountingPeriod struct {
	PeriodID  string       `json:"periodID"`
	Name      string       `json:"name"`
	StartDate time.Time    `json:"startDate"`
	EndDate   time.Time    `json:"endDate"`
	Status    PeriodStatus `json:"status"`
	ClosedBy  *string      `json:"closedBy,omitempty"`
	ClosedAt  *time.Time   `json:"closedAt,omitempty"`
	Version   int64        `json:"version"`
	AuditFields
}

// Contains reports whether date falls on or between the period's start and end dates.
func (p AccountingPeriod) Contains(date time.Time) bool {
	date = NormalizeDate(date)
	return !date.Before(p.StartDate) && !date.After(p.EndDate)
}

// Overlaps reports whether the period shares at least one day with [start, end].
func (p AccountingPeriod) Overlaps(start, end time.Time) bool {
	return !p.StartDate.After(end) && !start.After(p.EndDate)
}

// IsClosed reports whether posting into the period is blocked.
func (p AccountingPeriod) IsClosed() bool {
	return p.Status == PeriodClosed
}

// AccountingPeriodDraft is the input for creating a period.
type AccountingPeriodDraft struct {
	Name      string
	StartDate time.Time
	EndDate   time.Time
}

// PeriodFilter narrows period listings. Zero values mean "any"; From and To select
// periods overlapping the inclusive range.
type PeriodFilter struct {
	Status PeriodStatus
	From   *time.Time
	To     *time.Time
}

// Matches reports whether p satisfies the filter.
func (f PeriodFilter) Matches(p AccountingPeriod) bool {
	if f.Status != "" && p.Status != f.Status {
		return false
	}
	if f.From != nil && p.EndDate.Before(*f.From) {
		return false
	}
	if f.To != nil && p.StartDate.After(*f.To) {
		return false
	}
	return true
}
