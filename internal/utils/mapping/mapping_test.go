package mapping_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/utils/mapping"
)

func TestJournalEntryMapping(t *testing.T) {
	approver := "approver-1"
	entry := domain.JournalEntry{
		EntryID:    "e1",
		EntryDate:  time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		Status:     domain.Approved,
		ApprovedBy: &approver,
		Version:    2,
		Lines: []domain.JournalLine{
			{LineNo: 1, AccountID: "A100", Debit: decimal.RequireFromString("10"), Credit: decimal.Zero},
			{LineNo: 2, AccountID: "A200", Debit: decimal.Zero, Credit: decimal.RequireFromString("10"), Memo: "capital"},
		},
	}

	header, lines := mapping.ToModelJournalEntry(entry)
	require.Len(t, lines, 2)
	for _, l := range lines {
		assert.Equal(t, "e1", l.EntryID, "lines carry the entry id")
	}

	back := mapping.ToDomainJournalEntry(header, lines)
	assert.Equal(t, entry, back)
}

func TestToDomainLedgerRow_NormalizesPostingDate(t *testing.T) {
	// DATE columns come back in the connection's time zone
	local := time.Date(2025, 3, 4, 0, 0, 0, 0, time.FixedZone("IST", 19800))
	row := mapping.ToModelLedgerRow(domain.GeneralLedgerRow{PostingDate: local, Seq: 9})

	got := mapping.ToDomainLedgerRow(row)
	assert.Equal(t, time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC), got.PostingDate)
	assert.Equal(t, int64(9), got.Seq)
}

func TestToDomainRecurringTemplate_NormalizesScheduleDates(t *testing.T) {
	local := time.FixedZone("UTC+9", 9*60*60)
	end := time.Date(2025, 12, 31, 0, 0, 0, 0, local)
	tmpl := domain.RecurringTemplate{
		TemplateID:  "t1",
		Code:        "RENT",
		Frequency:   domain.FrequencyMonthly,
		StartDate:   time.Date(2025, 1, 31, 0, 0, 0, 0, local),
		EndDate:     &end,
		NextRunDate: time.Date(2025, 2, 28, 0, 0, 0, 0, local),
		Status:      domain.TemplateApproved,
		Lines: []domain.JournalLine{
			{LineNo: 1, AccountID: "E200", Debit: decimal.RequireFromString("500"), Credit: decimal.Zero},
			{LineNo: 2, AccountID: "A100", Debit: decimal.Zero, Credit: decimal.RequireFromString("500")},
		},
	}

	header, lines := mapping.ToModelRecurringTemplate(tmpl)
	require.Len(t, lines, 2)
	assert.Equal(t, "t1", lines[1].TemplateID)

	back := mapping.ToDomainRecurringTemplate(header, lines)
	assert.Equal(t, time.UTC, back.StartDate.Location())
	assert.Equal(t, time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC), back.NextRunDate)
	require.NotNil(t, back.EndDate)
	assert.Equal(t, time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC), *back.EndDate)
	assert.Equal(t, tmpl.Lines, back.Lines)
}
