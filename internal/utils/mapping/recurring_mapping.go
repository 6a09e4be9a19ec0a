package mapping

import (
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/models"
)

// ToModelRecurringTemplate converts a domain template to its header row and line rows.
func ToModelRecurringTemplate(d domain.RecurringTemplate) (models.RecurringTemplate, []models.RecurringTemplateLine) {
	tmpl := models.RecurringTemplate{
		TemplateID:         d.TemplateID,
		Code:               d.Code,
		Description:        d.Description,
		Frequency:          string(d.Frequency),
		CustomIntervalDays: d.CustomIntervalDays,
		StartDate:          d.StartDate,
		EndDate:            d.EndDate,
		NextRunDate:        d.NextRunDate,
		LastGeneratedDate:  d.LastGeneratedDate,
		GeneratedCount:     d.GeneratedCount,
		Status:             string(d.Status),
		ApprovedBy:         d.ApprovedBy,
		ApprovedAt:         d.ApprovedAt,
		SuspensionReason:   d.SuspensionReason,
		Version:            d.Version,
		AuditFields:        ToModelAuditFields(d.AuditFields),
	}
	lines := make([]models.RecurringTemplateLine, len(d.Lines))
	for i, l := range d.Lines {
		lines[i] = models.RecurringTemplateLine{
			TemplateID: d.TemplateID,
			LineNo:     l.LineNo,
			AccountID:  l.AccountID,
			Debit:      l.Debit,
			Credit:     l.Credit,
			Memo:       l.Memo,
		}
	}
	return tmpl, lines
}

// ToDomainRecurringTemplate converts a header row and its line rows to a domain template.
func ToDomainRecurringTemplate(m models.RecurringTemplate, lines []models.RecurringTemplateLine) domain.RecurringTemplate {
	d := domain.RecurringTemplate{
		TemplateID:         m.TemplateID,
		Code:               m.Code,
		Description:        m.Description,
		Frequency:          domain.RecurrenceFrequency(m.Frequency),
		CustomIntervalDays: m.CustomIntervalDays,
		StartDate:          domain.NormalizeDate(m.StartDate),
		EndDate:            normalizeDatePtr(m.EndDate),
		NextRunDate:        domain.NormalizeDate(m.NextRunDate),
		LastGeneratedDate:  normalizeDatePtr(m.LastGeneratedDate),
		GeneratedCount:     m.GeneratedCount,
		Status:             domain.TemplateStatus(m.Status),
		ApprovedBy:         m.ApprovedBy,
		ApprovedAt:         m.ApprovedAt,
		SuspensionReason:   m.SuspensionReason,
		Version:            m.Version,
		AuditFields:        ToDomainAuditFields(m.AuditFields),
		Lines:              make([]domain.JournalLine, len(lines)),
	}
	for i, l := range lines {
		d.Lines[i] = domain.JournalLine{
			LineNo:    l.LineNo,
			AccountID: l.AccountID,
			Debit:     l.Debit,
			Credit:    l.Credit,
			Memo:      l.Memo,
		}
	}
	return d
}

func normalizeDatePtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	d := domain.NormalizeDate(*t)
	return &d
}
