package domain_test

import (
	"testing"
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func stringPtr(s string) *string {
	return &s
}

func TestJournalEntry_IsBalanced(t *testing.T) {
	tests := []struct {
		name  string
		lines []domain.JournalLine
		want  bool
	}{
		{
			name: "balanced two lines",
			lines: []domain.JournalLine{
				{AccountID: "a", Debit: dec("1000"), Credit: decimal.Zero},
				{AccountID: "b", Debit: decimal.Zero, Credit: dec("1000")},
			},
			want: true,
		},
		{
			name: "balanced with fractional amounts split across lines",
			lines: []domain.JournalLine{
				{AccountID: "a", Debit: dec("0.10"), Credit: decimal.Zero},
				{AccountID: "b", Debit: dec("0.20"), Credit: decimal.Zero},
				{AccountID: "c", Debit: decimal.Zero, Credit: dec("0.30")},
			},
			want: true,
		},
		{
			name: "unbalanced",
			lines: []domain.JournalLine{
				{AccountID: "a", Debit: dec("500"), Credit: decimal.Zero},
				{AccountID: "b", Debit: decimal.Zero, Credit: dec("400")},
			},
			want: false,
		},
		{
			name:  "empty",
			lines: nil,
			want:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := domain.JournalEntry{Lines: tt.lines}
			assert.Equal(t, tt.want, e.IsBalanced())
		})
	}
}

func TestSwapLines(t *testing.T) {
	lines := []domain.JournalLine{
		{LineNo: 1, AccountID: "cash", Debit: dec("250.75"), Credit: decimal.Zero, Memo: "m1"},
		{LineNo: 2, AccountID: "equity", Debit: decimal.Zero, Credit: dec("250.75")},
	}

	swapped := domain.SwapLines(lines)

	assert.Len(t, swapped, 2)
	for i := range lines {
		assert.True(t, swapped[i].Debit.Equal(lines[i].Credit))
		assert.True(t, swapped[i].Credit.Equal(lines[i].Debit))
		assert.Equal(t, lines[i].AccountID, swapped[i].AccountID)
		assert.Equal(t, lines[i].LineNo, swapped[i].LineNo)
	}
	// original untouched
	assert.True(t, lines[0].Debit.Equal(dec("250.75")))
}

func TestJournalEntry_AccountIDs(t *testing.T) {
	e := domain.JournalEntry{Lines: []domain.JournalLine{
		{AccountID: "b"}, {AccountID: "a"}, {AccountID: "b"},
	}}
	assert.Equal(t, []string{"b", "a"}, e.AccountIDs())
}

func TestJournalEntry_Clone(t *testing.T) {
	now := time.Now()
	e := domain.JournalEntry{
		EntryID:    "e1",
		Lines:      []domain.JournalLine{{AccountID: "a", Debit: dec("1")}},
		ApprovedBy: stringPtr("u1"),
		PostedAt:   &now,
	}
	c := e.Clone()
	c.Lines[0].AccountID = "changed"
	*c.ApprovedBy = "u2"

	assert.Equal(t, "a", e.Lines[0].AccountID)
	assert.Equal(t, "u1", *e.ApprovedBy)
	assert.NotSame(t, e.PostedAt, c.PostedAt)
}

func TestAccount_SignedBalance(t *testing.T) {
	debitNormal := domain.Account{NormalBalance: domain.NormalDebit}
	creditNormal := domain.Account{NormalBalance: domain.NormalCredit}

	assert.True(t, debitNormal.SignedBalance(dec("1000"), dec("250")).Equal(dec("750")))
	assert.True(t, creditNormal.SignedBalance(dec("1000"), dec("250")).Equal(dec("-750")))
	assert.True(t, creditNormal.SignedBalance(decimal.Zero, dec("1000")).Equal(dec("1000")))
}

func TestLedgerFilter_Matches(t *testing.T) {
	d := func(day int) time.Time { return time.Date(2025, 1, day, 0, 0, 0, 0, time.UTC) }
	from, to := d(1), d(15)
	row := func(day int, seq int64) domain.GeneralLedgerRow {
		return domain.GeneralLedgerRow{AccountID: "a", PostingDate: d(day), Seq: seq}
	}

	f := domain.LedgerFilter{From: &from, To: &to}
	assert.False(t, f.Matches(row(1, 1)), "from bound is exclusive")
	assert.True(t, f.Matches(row(2, 1)))
	assert.True(t, f.Matches(row(15, 1)), "to bound is inclusive")
	assert.False(t, f.Matches(row(16, 1)))

	f = domain.LedgerFilter{AccountID: "b"}
	assert.False(t, f.Matches(row(3, 1)))

	f = domain.LedgerFilter{After: &domain.LedgerCursor{PostingDate: d(5), Seq: 7}}
	assert.False(t, f.Matches(row(5, 7)))
	assert.True(t, f.Matches(row(5, 8)))
	assert.False(t, f.Matches(row(4, 9)))
	assert.True(t, f.Matches(row(6, 1)))
}

func TestIncomeStatementTotals_Derive(t *testing.T) {
	totals := domain.IncomeStatementTotals{
		Revenue:           dec("1000"),
		CostOfGoodsSold:   dec("400"),
		OperatingExpenses: dec("250"),
		OtherIncome:       dec("30"),
		OtherExpenses:     dec("80"),
	}
	totals.Derive()

	assert.True(t, totals.GrossProfit.Equal(dec("600")))
	assert.True(t, totals.OperatingIncome.Equal(dec("350")))
	assert.True(t, totals.NetIncome.Equal(dec("300")))
}

func TestNormalizeDate(t *testing.T) {
	loc := time.FixedZone("X", 5*3600)
	in := time.Date(2025, 3, 4, 22, 15, 0, 0, loc)
	assert.Equal(t, time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC), domain.NormalizeDate(in))
	assert.True(t, domain.NormalizeDate(time.Time{}).IsZero())
}
