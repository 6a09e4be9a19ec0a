package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
)

// RecurringTemplateRequest defines a recurring entry template. Line rules are enforced
// by the recurring service, as for journal entries.
type RecurringTemplateRequest struct {
	Code               string               `json:"code" binding:"required,max=50"`
	Description        string               `json:"description" binding:"max=500"`
	Frequency          string               `json:"frequency" binding:"required,oneof=WEEKLY MONTHLY QUARTERLY ANNUALLY CUSTOM"`
	CustomIntervalDays int                  `json:"customIntervalDays" binding:"min=0"`
	StartDate          Date                 `json:"startDate"`
	EndDate            *Date                `json:"endDate"`
	Lines              []JournalLineRequest `json:"lines" binding:"dive"`
}

// ToDraft converts the request into the service input.
func (r RecurringTemplateRequest) ToDraft() domain.RecurringTemplateDraft {
	lines := make([]domain.JournalLine, len(r.Lines))
	for i, l := range r.Lines {
		lines[i] = domain.JournalLine{
			LineNo:    i + 1,
			AccountID: l.AccountID,
			Debit:     l.Debit,
			Credit:    l.Credit,
			Memo:      l.Memo,
		}
	}
	var end *time.Time
	if r.EndDate != nil && !r.EndDate.IsZero() {
		t := r.EndDate.Time
		end = &t
	}
	return domain.RecurringTemplateDraft{
		Code:               r.Code,
		Description:        r.Description,
		Frequency:          domain.RecurrenceFrequency(r.Frequency),
		CustomIntervalDays: r.CustomIntervalDays,
		Lines:              lines,
		StartDate:          r.StartDate.Time,
		EndDate:            end,
	}
}

// SuspendTemplateRequest carries the mandatory suspension reason.
type SuspendTemplateRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// GenerateRecurringRequest selects the run date. A missing asOf means today.
type GenerateRecurringRequest struct {
	AsOf Date `json:"asOf"`
}

// ListTemplatesParams defines query parameters for listing templates.
type ListTemplatesParams struct {
	Status string     `form:"status" binding:"omitempty,oneof=DRAFT APPROVED SUSPENDED EXPIRED"`
	DueBy  *time.Time `form:"dueBy" time_format:"2006-01-02" time_utc:"1"`
}

// ToFilter converts the query into a template filter.
func (p ListTemplatesParams) ToFilter() domain.TemplateFilter {
	return domain.TemplateFilter{Status: domain.TemplateStatus(p.Status), DueBy: p.DueBy}
}

// RecurringTemplateResponse defines the data returned for a template.
type RecurringTemplateResponse struct {
	TemplateID         string                     `json:"templateID"`
	Code               string                     `json:"code"`
	Description        string                     `json:"description"`
	Frequency          domain.RecurrenceFrequency `json:"frequency"`
	CustomIntervalDays int                        `json:"customIntervalDays,omitempty"`
	Lines              []JournalLineResponse      `json:"lines"`
	TotalAmount        decimal.Decimal            `json:"totalAmount"`
	StartDate          string                     `json:"startDate"`
	EndDate            *string                    `json:"endDate,omitempty"`
	NextRunDate        string                     `json:"nextRunDate"`
	LastGeneratedDate  *string                    `json:"lastGeneratedDate,omitempty"`
	GeneratedCount     int                        `json:"generatedCount"`
	Status             domain.TemplateStatus      `json:"status"`
	ApprovedBy         *string                    `json:"approvedBy,omitempty"`
	ApprovedAt         *time.Time                 `json:"approvedAt,omitempty"`
	SuspensionReason   *string                    `json:"suspensionReason,omitempty"`
	Version            int64                      `json:"version"`
	CreatedAt          time.Time                  `json:"createdAt"`
	CreatedBy          string                     `json:"createdBy"`
	LastUpdatedAt      time.Time                  `json:"lastUpdatedAt"`
	LastUpdatedBy      string                     `json:"lastUpdatedBy"`
}

// ListTemplatesResponse wraps a list of templates.
type ListTemplatesResponse struct {
	Templates []RecurringTemplateResponse `json:"templates"`
}

func formatDatePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := FormatDate(*t)
	return &s
}

// ToRecurringTemplateResponse converts a domain.RecurringTemplate to its response DTO.
func ToRecurringTemplateResponse(t *domain.RecurringTemplate) RecurringTemplateResponse {
	lines := make([]JournalLineResponse, len(t.Lines))
	total := decimal.Zero
	for i, l := range t.Lines {
		lines[i] = JournalLineResponse{
			LineNo:    l.LineNo,
			AccountID: l.AccountID,
			Debit:     l.Debit,
			Credit:    l.Credit,
			Memo:      l.Memo,
		}
		total = total.Add(l.Debit)
	}
	return RecurringTemplateResponse{
		TemplateID:         t.TemplateID,
		Code:               t.Code,
		Description:        t.Description,
		Frequency:          t.Frequency,
		CustomIntervalDays: t.CustomIntervalDays,
		Lines:              lines,
		TotalAmount:        total,
		StartDate:          FormatDate(t.StartDate),
		EndDate:            formatDatePtr(t.EndDate),
		NextRunDate:        FormatDate(t.NextRunDate),
		LastGeneratedDate:  formatDatePtr(t.LastGeneratedDate),
		GeneratedCount:     t.GeneratedCount,
		Status:             t.Status,
		ApprovedBy:         t.ApprovedBy,
		ApprovedAt:         t.ApprovedAt,
		SuspensionReason:   t.SuspensionReason,
		Version:            t.Version,
		CreatedAt:          t.CreatedAt,
		CreatedBy:          t.CreatedBy,
		LastUpdatedAt:      t.LastUpdatedAt,
		LastUpdatedBy:      t.LastUpdatedBy,
	}
}

// ToListTemplatesResponse converts templates to the list response.
func ToListTemplatesResponse(templates []domain.RecurringTemplate) ListTemplatesResponse {
	res := ListTemplatesResponse{Templates: make([]RecurringTemplateResponse, len(templates))}
	for i := range templates {
		res.Templates[i] = ToRecurringTemplateResponse(&templates[i])
	}
	return res
}
