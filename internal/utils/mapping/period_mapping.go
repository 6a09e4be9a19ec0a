package mapping

import (
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/models"
)

// ToModelAccountingPeriod converts a domain AccountingPeriod to its row.
func ToModelAccountingPeriod(d domain.AccountingPeriod) models.AccountingPeriod {
	return models.AccountingPeriod{
		PeriodID:    d.PeriodID,
		Name:        d.Name,
		StartDate:   d.StartDate,
		EndDate:     d.EndDate,
		Status:      string(d.Status),
		ClosedBy:    d.ClosedBy,
		ClosedAt:    d.ClosedAt,
		Version:     d.Version,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainAccountingPeriod converts a row to a domain AccountingPeriod.
func ToDomainAccountingPeriod(m models.AccountingPeriod) domain.AccountingPeriod {
	return domain.AccountingPeriod{
		PeriodID:    m.PeriodID,
		Name:        m.Name,
		StartDate:   domain.NormalizeDate(m.StartDate),
		EndDate:     domain.NormalizeDate(m.EndDate),
		Status:      domain.PeriodStatus(m.Status),
		ClosedBy:    m.ClosedBy,
		ClosedAt:    m.ClosedAt,
		Version:     m.Version,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}
