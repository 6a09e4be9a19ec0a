package mapping

import (
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/models"
)

// ToModelLedgerRow converts a domain GeneralLedgerRow to a model GeneralLedgerRow
func ToModelLedgerRow(d domain.GeneralLedgerRow) models.GeneralLedgerRow {
	return models.GeneralLedgerRow{
		Seq:         d.Seq,
		EntryID:     d.EntryID,
		LineNo:      d.LineNo,
		AccountID:   d.AccountID,
		AccountCode: d.AccountCode,
		Debit:       d.Debit,
		Credit:      d.Credit,
		PostingDate: d.PostingDate,
		PostedAt:    d.PostedAt,
		PostedBy:    d.PostedBy,
	}
}

// ToDomainLedgerRow converts a model GeneralLedgerRow to a domain GeneralLedgerRow
func ToDomainLedgerRow(m models.GeneralLedgerRow) domain.GeneralLedgerRow {
	return domain.GeneralLedgerRow{
		Seq:         m.Seq,
		EntryID:     m.EntryID,
		LineNo:      m.LineNo,
		AccountID:   m.AccountID,
		AccountCode: m.AccountCode,
		Debit:       m.Debit,
		Credit:      m.Credit,
		PostingDate: domain.NormalizeDate(m.PostingDate),
		PostedAt:    m.PostedAt,
		PostedBy:    m.PostedBy,
	}
}
