package domain

import (
	"time"
)

// RecurrenceFrequency is how often a recurring template produces an entry.
type RecurrenceFrequency string

const (
	FrequencyWeekly    RecurrenceFrequency = "WEEKLY"
	FrequencyMonthly   RecurrenceFrequency = "MONTHLY"
	FrequencyQuarterly RecurrenceFrequency = "QUARTERLY"
	FrequencyAnnually  RecurrenceFrequency = "ANNUALLY"
	FrequencyCustom    RecurrenceFrequency = "CUSTOM"
)

// IsValid reports whether f is a known frequency.
func (f RecurrenceFrequency) IsValid() bool {
	switch f {
	case FrequencyWeekly, FrequencyMonthly, FrequencyQuarterly, FrequencyAnnually, FrequencyCustom:
		return true
	}
	return false
}

// TemplateStatus indicates the lifecycle state of a recurring template.
type TemplateStatus string

const (
	TemplateDraft     TemplateStatus = "DRAFT"
	TemplateApproved  TemplateStatus = "APPROVED"
	TemplateSuspended TemplateStatus = "SUSPENDED"
	TemplateExpired   TemplateStatus = "EXPIRED"
)

// SourceRecurring is the source recorded on entries generated from a template.
const SourceRecurring = "Recurring"

// RecurringTemplate is a balanced set of lines that produces a DRAFT journal entry on
// every occurrence of its schedule until its end date.
type RecurringTemplate struct {
	TemplateID         string              `json:"templateID"`
	Code               string              `json:"code"`
	Description        string              `json:"description"`
	Frequency          RecurrenceFrequency `json:"frequency"`
	CustomIntervalDays int                 `json:"customIntervalDays,omitempty"`
	Lines              []JournalLine       `json:"lines"`
	StartDate          time.Time           `json:"startDate"`
	EndDate            *time.Time          `json:"endDate,omitempty"`
	NextRunDate        time.Time           `json:"nextRunDate"`
	LastGeneratedDate  *time.Time          `json:"lastGeneratedDate,omitempty"`
	GeneratedCount     int                 `json:"generatedCount"`
	Status             TemplateStatus      `json:"status"`
	ApprovedBy         *string             `json:"approvedBy,omitempty"`
	ApprovedAt         *time.Time          `json:"approvedAt,omitempty"`
	SuspensionReason   *string             `json:"suspensionReason,omitempty"`
	Version            int64               `json:"version"`
	AuditFields
}

// Occurrence returns the date of the n-th run, counting the start date as run zero.
// Monthly schedules keep the start day where the month has it and fall back to the
// month's last day otherwise, so a template started on the 31st runs at every month end.
func (t RecurringTemplate) Occurrence(n int) time.Time {
	switch t.Frequency {
	case FrequencyWeekly:
		return t.StartDate.AddDate(0, 0, 7*n)
	case FrequencyCustom:
		return t.StartDate.AddDate(0, 0, t.CustomIntervalDays*n)
	case FrequencyQuarterly:
		return addMonthsClamped(t.StartDate, 3*n)
	case FrequencyAnnually:
		return addMonthsClamped(t.StartDate, 12*n)
	default:
		return addMonthsClamped(t.StartDate, n)
	}
}

// IsDue reports whether an APPROVED template has a run on or before asOf.
func (t RecurringTemplate) IsDue(asOf time.Time) bool {
	return t.Status == TemplateApproved && !t.NextRunDate.After(NormalizeDate(asOf))
}

// RecordGeneration advances the schedule past runDate. A template whose next run would
// fall after its end date expires.
func (t *RecurringTemplate) RecordGeneration(runDate time.Time) {
	generated := runDate
	t.LastGeneratedDate = &generated
	t.GeneratedCount++
	t.NextRunDate = t.Occurrence(t.GeneratedCount)
	if t.EndDate != nil && t.NextRunDate.After(*t.EndDate) {
		t.Status = TemplateExpired
	}
}

// Clone returns a deep copy.
func (t RecurringTemplate) Clone() RecurringTemplate {
	out := t
	out.Lines = append([]JournalLine(nil), t.Lines...)
	out.EndDate = cloneTime(t.EndDate)
	out.LastGeneratedDate = cloneTime(t.LastGeneratedDate)
	out.ApprovedAt = cloneTime(t.ApprovedAt)
	out.ApprovedBy = cloneString(t.ApprovedBy)
	out.SuspensionReason = cloneString(t.SuspensionReason)
	return out
}

func addMonthsClamped(start time.Time, months int) time.Time {
	y, m, d := start.Date()
	first := time.Date(y, m+time.Month(months), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1).Day()
	return time.Date(first.Year(), first.Month(), min(d, last), 0, 0, 0, 0, time.UTC)
}

// RecurringTemplateDraft is the input for creating a template.
type RecurringTemplateDraft struct {
	Code               string
	Description        string
	Frequency          RecurrenceFrequency
	CustomIntervalDays int
	Lines              []JournalLine
	StartDate          time.Time
	EndDate            *time.Time
}

// TemplateFilter narrows template listings. A non-nil DueBy selects APPROVED templates
// whose next run is on or before it.
type TemplateFilter struct {
	Status TemplateStatus
	DueBy  *time.Time
}

// Matches reports whether t satisfies the filter.
func (f TemplateFilter) Matches(t RecurringTemplate) bool {
	if f.Status != "" && t.Status != f.Status {
		return false
	}
	if f.DueBy != nil && !t.IsDue(*f.DueBy) {
		return false
	}
	return true
}

// GeneratedEntry records one DRAFT entry produced by a recurring run.
type GeneratedEntry struct {
	TemplateID string    `json:"templateID"`
	EntryID    string    `json:"entryID"`
	EntryDate  time.Time `json:"entryDate"`
}

// TemplateFailure records a template that could not generate during a run.
type TemplateFailure struct {
	TemplateID string `json:"templateID"`
	Code       string `json:"code,omitempty"`
	Message    string `json:"message"`
}

// RecurringRun summarises one pass over the due templates.
type RecurringRun struct {
	AsOf      time.Time         `json:"asOf"`
	Generated []GeneratedEntry  `json:"generated"`
	Failed    []TemplateFailure `json:"failed,omitempty"`
}
