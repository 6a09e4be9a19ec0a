package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
)

type StoreTestSuite struct {
	suite.Suite
	store *Store
	repos portsrepo.RepositoryProvider
	ctx   context.Context
}

func (s *StoreTestSuite) SetupTest() {
	s.store = NewStore()
	s.repos = s.store.NewRepositoryProvider()
	s.ctx = context.Background()
	s.store.SeedAccounts(
		domain.Account{AccountID: "a2", Code: "2000", Name: "Payables", Category: domain.Liability, IsActive: true},
		domain.Account{AccountID: "a1", Code: "1000", Name: "Cash", Category: domain.Asset, IsActive: true},
		domain.Account{AccountID: "a3", Code: "3000", Name: "Old", Category: domain.Equity, IsActive: false},
	)
}

func TestStoreTestSuite(t *testing.T) {
	suite.Run(t, new(StoreTestSuite))
}

func day(d int) time.Time {
	return time.Date(2025, 1, d, 0, 0, 0, 0, time.UTC)
}

func row(entryID, accountID string, postingDate time.Time, debit string) domain.GeneralLedgerRow {
	return domain.GeneralLedgerRow{
		EntryID:     entryID,
		AccountID:   accountID,
		Debit:       decimal.RequireFromString(debit),
		Credit:      decimal.Zero,
		PostingDate: postingDate,
	}
}

func (s *StoreTestSuite) collect(filter domain.LedgerFilter) []domain.GeneralLedgerRow {
	var out []domain.GeneralLedgerRow
	for r, err := range s.repos.LedgerRepo.QueryRows(s.ctx, filter) {
		s.Require().NoError(err)
		out = append(out, r)
	}
	return out
}

func (s *StoreTestSuite) TestAccounts() {
	acct, err := s.repos.AccountRepo.GetAccount(s.ctx, "2000")
	s.Require().NoError(err)
	s.Equal("a2", acct.AccountID)

	_, err = s.repos.AccountRepo.FindAccountByID(s.ctx, "missing")
	s.ErrorIs(err, apperrors.ErrNotFound)

	found, err := s.repos.AccountRepo.FindAccountsByIDs(s.ctx, []string{"a1", "missing"})
	s.Require().NoError(err)
	s.Len(found, 1)
	s.Contains(found, "a1")

	all, err := s.repos.AccountRepo.ListAccounts(s.ctx, domain.AccountFilter{})
	s.Require().NoError(err)
	s.Equal([]string{"1000", "2000", "3000"}, []string{all[0].Code, all[1].Code, all[2].Code})

	active, err := s.repos.AccountRepo.ListAccounts(s.ctx, domain.AccountFilter{ActiveOnly: true})
	s.Require().NoError(err)
	s.Len(active, 2)
}

func (s *StoreTestSuite) TestJournalVersionCheck() {
	entry := domain.JournalEntry{EntryID: "e1", EntryDate: day(1), Status: domain.Draft, Version: 1}
	s.Require().NoError(s.repos.JournalRepo.SaveJournalEntry(s.ctx, entry))
	s.ErrorIs(s.repos.JournalRepo.SaveJournalEntry(s.ctx, entry), apperrors.ErrDuplicate)

	entry.Description = "changed"
	entry.Version = 2
	s.Require().NoError(s.repos.JournalRepo.UpdateJournalEntry(s.ctx, entry, 1))

	entry.Version = 3
	err := s.repos.JournalRepo.UpdateJournalEntry(s.ctx, entry, 1)
	s.ErrorIs(err, apperrors.ErrConflict)

	got, err := s.repos.JournalRepo.FindJournalEntryByID(s.ctx, "e1")
	s.Require().NoError(err)
	s.Equal("changed", got.Description)
	s.Equal(int64(2), got.Version)

	s.ErrorIs(s.repos.JournalRepo.DeleteJournalEntry(s.ctx, "e1", 1), apperrors.ErrConflict)
	s.Require().NoError(s.repos.JournalRepo.DeleteJournalEntry(s.ctx, "e1", 2))
	_, err = s.repos.JournalRepo.FindJournalEntryByID(s.ctx, "e1")
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *StoreTestSuite) TestReturnedEntriesAreCopies() {
	entry := domain.JournalEntry{EntryID: "e1", Lines: []domain.JournalLine{{AccountID: "a1"}}, Version: 1}
	s.Require().NoError(s.repos.JournalRepo.SaveJournalEntry(s.ctx, entry))

	got, err := s.repos.JournalRepo.FindJournalEntryByID(s.ctx, "e1")
	s.Require().NoError(err)
	got.Lines[0].AccountID = "tampered"

	again, err := s.repos.JournalRepo.FindJournalEntryByID(s.ctx, "e1")
	s.Require().NoError(err)
	s.Equal("a1", again.Lines[0].AccountID)
}

func (s *StoreTestSuite) TestListJournalEntries() {
	for i, st := range []domain.JournalStatus{domain.Draft, domain.Posted, domain.Draft} {
		s.Require().NoError(s.repos.JournalRepo.SaveJournalEntry(s.ctx, domain.JournalEntry{
			EntryID: string(rune('a' + i)), EntryDate: day(i + 1), Status: st, Version: 1,
		}))
	}

	drafts, err := s.repos.JournalRepo.ListJournalEntries(s.ctx, domain.JournalFilter{Status: domain.Draft})
	s.Require().NoError(err)
	s.Require().Len(drafts, 2)
	s.Equal("c", drafts[0].EntryID, "newest entry date first")

	from, to := day(2), day(3)
	windowed, err := s.repos.JournalRepo.ListJournalEntries(s.ctx, domain.JournalFilter{From: &from, To: &to, Limit: 1})
	s.Require().NoError(err)
	s.Require().Len(windowed, 1)
	s.Equal("c", windowed[0].EntryID)
}

func (s *StoreTestSuite) TestTransactionRollback() {
	boom := errors.New("boom")
	err := s.repos.TxManager.WithinTransaction(s.ctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		s.Require().NoError(repos.Journals.SaveJournalEntry(ctx, domain.JournalEntry{EntryID: "e1", Version: 1}))
		s.Require().NoError(repos.Ledger.AppendRows(ctx, []domain.GeneralLedgerRow{row("e1", "a1", day(1), "10")}))

		// staged writes are visible inside the transaction
		_, err := repos.Journals.FindJournalEntryForUpdate(ctx, "e1")
		s.Require().NoError(err)
		n, err := repos.Ledger.CountRowsByEntry(ctx, "e1")
		s.Require().NoError(err)
		s.Equal(1, n)
		return boom
	})
	s.ErrorIs(err, boom)

	_, err = s.repos.JournalRepo.FindJournalEntryByID(s.ctx, "e1")
	s.ErrorIs(err, apperrors.ErrNotFound)
	s.Empty(s.collect(domain.LedgerFilter{}))
}

func (s *StoreTestSuite) TestTransactionCommitAssignsSequence() {
	err := s.repos.TxManager.WithinTransaction(s.ctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		return repos.Ledger.AppendRows(ctx, []domain.GeneralLedgerRow{
			row("e1", "a1", day(5), "10"),
			row("e1", "a2", day(5), "20"),
		})
	})
	s.Require().NoError(err)
	s.Require().NoError(s.repos.LedgerRepo.AppendRows(s.ctx, []domain.GeneralLedgerRow{row("e2", "a1", day(2), "30")}))

	rows := s.collect(domain.LedgerFilter{})
	s.Require().Len(rows, 3)
	s.Equal("e2", rows[0].EntryID, "ordered by posting date first")
	s.Equal(int64(3), rows[0].Seq)
	s.Equal(int64(1), rows[1].Seq)
	s.Equal(int64(2), rows[2].Seq)
}

func (s *StoreTestSuite) TestQueryRowsWindowAndRestart() {
	s.Require().NoError(s.repos.LedgerRepo.AppendRows(s.ctx, []domain.GeneralLedgerRow{
		row("e1", "a1", day(1), "1"),
		row("e2", "a1", day(10), "2"),
		row("e3", "a1", day(20), "3"),
		row("e4", "a2", day(10), "4"),
	}))

	from, to := day(1), day(10)
	seq := s.repos.LedgerRepo.QueryRows(s.ctx, domain.LedgerFilter{AccountID: "a1", From: &from, To: &to})

	var first, second []string
	for r, err := range seq {
		s.Require().NoError(err)
		first = append(first, r.EntryID)
	}
	// a later append is visible on the next range
	s.Require().NoError(s.repos.LedgerRepo.AppendRows(s.ctx, []domain.GeneralLedgerRow{row("e5", "a1", day(9), "5")}))
	for r, err := range seq {
		s.Require().NoError(err)
		second = append(second, r.EntryID)
	}

	s.Equal([]string{"e2"}, first)
	s.Equal([]string{"e5", "e2"}, second)

	limited := s.collect(domain.LedgerFilter{Limit: 2})
	s.Len(limited, 2)
}

func TestQueryRows_CancelledContext(t *testing.T) {
	store := NewStore()
	repo := NewLedgerRepository(store)
	require.NoError(t, repo.AppendRows(context.Background(), []domain.GeneralLedgerRow{row("e1", "a1", day(1), "1")}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var gotErr error
	for _, err := range repo.QueryRows(ctx, domain.LedgerFilter{}) {
		gotErr = err
		break
	}
	assert.ErrorIs(t, gotErr, context.Canceled)
}

func TestRemoveAccount(t *testing.T) {
	store := NewStore()
	store.SeedAccounts(domain.Account{AccountID: "a1", Code: "1000"})
	store.RemoveAccount("a1")

	_, err := NewAccountRepository(store).FindAccountByID(context.Background(), "a1")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func (s *StoreTestSuite) TestPeriods_OverlapAndLookup() {
	jan := domain.AccountingPeriod{PeriodID: "p1", Name: "Jan", StartDate: day(1), EndDate: day(31), Status: domain.PeriodOpen, Version: 1}
	s.Require().NoError(s.repos.PeriodRepo.SavePeriod(s.ctx, jan))

	overlapping := domain.AccountingPeriod{PeriodID: "p2", Name: "Late Jan", StartDate: day(31), EndDate: day(31).AddDate(0, 1, 0), Version: 1}
	s.ErrorIs(s.repos.PeriodRepo.SavePeriod(s.ctx, overlapping), apperrors.ErrDuplicate)

	found, err := s.repos.PeriodRepo.FindPeriodByDate(s.ctx, day(31))
	s.Require().NoError(err)
	s.Equal("p1", found.PeriodID)

	_, err = s.repos.PeriodRepo.FindPeriodByDate(s.ctx, day(31).AddDate(0, 0, 1))
	s.ErrorIs(err, apperrors.ErrNotFound)

	jan.Status = domain.PeriodClosed
	jan.Version = 2
	s.ErrorIs(s.repos.PeriodRepo.UpdatePeriod(s.ctx, jan, 5), apperrors.ErrConflict)
	s.Require().NoError(s.repos.PeriodRepo.UpdatePeriod(s.ctx, jan, 1))

	closed, err := s.repos.PeriodRepo.ListPeriods(s.ctx, domain.PeriodFilter{Status: domain.PeriodClosed})
	s.Require().NoError(err)
	s.Len(closed, 1)
}

func (s *StoreTestSuite) TestPeriods_RolledBackWithTransaction() {
	boom := errors.New("boom")
	err := s.repos.TxManager.WithinTransaction(s.ctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		p := domain.AccountingPeriod{PeriodID: "p1", Name: "Jan", StartDate: day(1), EndDate: day(31), Version: 1}
		if err := repos.Periods.SavePeriod(ctx, p); err != nil {
			return err
		}
		_, err := repos.Periods.FindPeriodByDate(ctx, day(15))
		s.Require().NoError(err, "staged period is visible inside the transaction")
		return boom
	})
	s.ErrorIs(err, boom)

	_, err = s.repos.PeriodRepo.FindPeriodByID(s.ctx, "p1")
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *StoreTestSuite) TestTemplates_DuplicateCodeAndClones() {
	tmpl := domain.RecurringTemplate{
		TemplateID: "t1", Code: "RENT", Frequency: domain.FrequencyMonthly,
		StartDate: day(1), NextRunDate: day(1), Status: domain.TemplateApproved, Version: 1,
		Lines: []domain.JournalLine{{LineNo: 1, AccountID: "a1", Debit: decimal.NewFromInt(5), Credit: decimal.Zero}},
	}
	s.Require().NoError(s.repos.TemplateRepo.SaveTemplate(s.ctx, tmpl))

	dup := tmpl
	dup.TemplateID = "t2"
	s.ErrorIs(s.repos.TemplateRepo.SaveTemplate(s.ctx, dup), apperrors.ErrDuplicate)

	got, err := s.repos.TemplateRepo.FindTemplateByID(s.ctx, "t1")
	s.Require().NoError(err)
	got.Lines[0].AccountID = "mutated"

	again, err := s.repos.TemplateRepo.FindTemplateByID(s.ctx, "t1")
	s.Require().NoError(err)
	s.Equal("a1", again.Lines[0].AccountID)

	dueBy := day(1)
	due, err := s.repos.TemplateRepo.ListTemplates(s.ctx, domain.TemplateFilter{DueBy: &dueBy})
	s.Require().NoError(err)
	s.Len(due, 1)

	s.ErrorIs(s.repos.TemplateRepo.UpdateTemplate(s.ctx, tmpl, 9), apperrors.ErrConflict)
}
