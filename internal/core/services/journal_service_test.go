package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
)

type JournalServiceTestSuite struct {
	suite.Suite
	f   *ledgerFixture
	ctx context.Context
}

func (s *JournalServiceTestSuite) SetupTest() {
	s.f = newLedgerFixture()
	s.ctx = context.Background()
}

func TestJournalServiceTestSuite(t *testing.T) {
	suite.Run(t, new(JournalServiceTestSuite))
}

func (s *JournalServiceTestSuite) failureCodes(err error) []string {
	codes := make([]string, 0)
	for _, f := range apperrors.FailuresOf(err) {
		codes = append(codes, f.Code)
	}
	return codes
}

func (s *JournalServiceTestSuite) TestCreate_StoresDraft() {
	draft := draftOn(date(2025, 1, 1), debit("A100", "1000"), credit("A200", "1000"))
	draft.ReferenceNumber = " INV-7 "

	entry, err := s.f.svc.Journal.CreateJournalEntry(s.ctx, draft, actor)
	s.Require().NoError(err)

	s.Equal(domain.Draft, entry.Status)
	s.Equal(domain.DefaultSource, entry.Source)
	s.Equal("INV-7", entry.ReferenceNumber)
	s.Equal(int64(1), entry.Version)
	s.Equal(actor, entry.CreatedBy)
	s.Equal([]int{1, 2}, []int{entry.Lines[0].LineNo, entry.Lines[1].LineNo})

	stored, err := s.f.svc.Journal.GetJournalEntry(s.ctx, entry.EntryID)
	s.Require().NoError(err)
	s.Equal(entry.EntryID, stored.EntryID)
	s.Equal([]domain.JournalEventType{domain.EventJournalCreated}, s.f.publisher.types())
}

func (s *JournalServiceTestSuite) TestCreate_UnbalancedIsRejectedAndNotPersisted() {
	_, err := s.f.svc.Journal.CreateJournalEntry(s.ctx,
		draftOn(date(2025, 1, 1), debit("A100", "500"), credit("A200", "400")), actor)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrValidation)
	s.True(apperrors.HasFailure(err, apperrors.CodeUnbalancedEntry))
	s.Contains(err.Error(), "entry is not balanced: debits 500.00 ≠ credits 400.00")

	entries, err := s.f.svc.Journal.ListJournalEntries(s.ctx, domain.JournalFilter{})
	s.Require().NoError(err)
	s.Empty(entries)
	s.Empty(s.f.publisher.types())
}

func (s *JournalServiceTestSuite) TestCreate_CollectsFailuresInOrder() {
	bad := domain.JournalLine{AccountID: "nope", Debit: dec("-5"), Credit: dec("0")}
	_, err := s.f.svc.Journal.CreateJournalEntry(s.ctx, domain.JournalEntryDraft{Lines: []domain.JournalLine{bad}}, actor)

	s.Equal([]string{
		apperrors.CodeEntryDateRequired,
		apperrors.CodeInvalidLineCount,
		apperrors.CodeInvalidLineAmount,
		apperrors.CodeUnbalancedEntry,
		apperrors.CodeUnknownAccount,
	}, s.failureCodes(err))
	s.Equal(apperrors.CodeEntryDateRequired, apperrors.CodeOf(err))
}

func (s *JournalServiceTestSuite) TestCreate_LineAmountRules() {
	both := domain.JournalLine{AccountID: "A100", Debit: dec("10"), Credit: dec("10")}
	neither := domain.JournalLine{AccountID: "A200", Debit: dec("0"), Credit: dec("0")}
	_, err := s.f.svc.Journal.CreateJournalEntry(s.ctx, draftOn(date(2025, 1, 1), both, neither), actor)

	failures := apperrors.FailuresOf(err)
	s.Require().Len(failures, 2)
	s.Equal(apperrors.CodeInvalidLineAmount, failures[0].Code)
	s.Equal("lines[0]", failures[0].Field)
	s.Equal(apperrors.CodeInvalidLineAmount, failures[1].Code)
	s.Equal("lines[1]", failures[1].Field)
}

func (s *JournalServiceTestSuite) TestCreate_InactiveAccountIsUnknown() {
	_, err := s.f.svc.Journal.CreateJournalEntry(s.ctx,
		draftOn(date(2025, 1, 1), debit("X999", "10"), credit("A200", "10")), actor)

	s.Equal([]string{apperrors.CodeUnknownAccount}, s.failureCodes(err))
	s.Contains(err.Error(), "inactive")
}

func (s *JournalServiceTestSuite) TestUpdate_DraftBumpsVersion() {
	entry, err := s.f.svc.Journal.CreateJournalEntry(s.ctx,
		draftOn(date(2025, 1, 1), debit("A100", "10"), credit("A200", "10")), actor)
	s.Require().NoError(err)

	updated, err := s.f.svc.Journal.UpdateJournalEntry(s.ctx, entry.EntryID,
		draftOn(date(2025, 1, 2), debit("A100", "25"), credit("A200", "25")), "user-2")
	s.Require().NoError(err)

	s.Equal(int64(2), updated.Version)
	s.Equal(date(2025, 1, 2), updated.EntryDate)
	s.True(updated.Lines[0].Debit.Equal(dec("25")))
	s.Equal("user-2", updated.LastUpdatedBy)
	s.Equal(actor, updated.CreatedBy)
}

func (s *JournalServiceTestSuite) TestUpdate_RevalidatesContent() {
	entry, err := s.f.svc.Journal.CreateJournalEntry(s.ctx,
		draftOn(date(2025, 1, 1), debit("A100", "10"), credit("A200", "10")), actor)
	s.Require().NoError(err)

	_, err = s.f.svc.Journal.UpdateJournalEntry(s.ctx, entry.EntryID,
		draftOn(date(2025, 1, 1), debit("A100", "10"), credit("A200", "9")), actor)
	s.True(apperrors.HasFailure(err, apperrors.CodeUnbalancedEntry))
}

func (s *JournalServiceTestSuite) TestPostedEntryIsImmutable() {
	posted, err := s.f.postEntry(s.ctx, draftOn(date(2025, 1, 1), debit("A100", "10"), credit("A200", "10")))
	s.Require().NoError(err)

	_, err = s.f.svc.Journal.UpdateJournalEntry(s.ctx, posted.EntryID,
		draftOn(date(2025, 1, 1), debit("A100", "99"), credit("A200", "99")), actor)
	s.Equal(apperrors.CodeEntryNotDraft, apperrors.CodeOf(err))
	s.ErrorIs(err, apperrors.ErrInvalidState)
	s.Contains(err.Error(), "reverse it instead")

	err = s.f.svc.Journal.DeleteJournalEntry(s.ctx, posted.EntryID, actor)
	s.Equal(apperrors.CodeEntryNotDraft, apperrors.CodeOf(err))

	stored, err := s.f.svc.Journal.GetJournalEntry(s.ctx, posted.EntryID)
	s.Require().NoError(err)
	s.True(stored.Lines[0].Debit.Equal(dec("10")))
	s.Equal(domain.Posted, stored.Status)
}

func (s *JournalServiceTestSuite) TestDelete_Draft() {
	entry, err := s.f.svc.Journal.CreateJournalEntry(s.ctx,
		draftOn(date(2025, 1, 1), debit("A100", "10"), credit("A200", "10")), actor)
	s.Require().NoError(err)

	s.Require().NoError(s.f.svc.Journal.DeleteJournalEntry(s.ctx, entry.EntryID, actor))

	_, err = s.f.svc.Journal.GetJournalEntry(s.ctx, entry.EntryID)
	s.Equal(apperrors.CodeEntryNotFound, apperrors.CodeOf(err))
	s.ErrorIs(err, apperrors.ErrNotFound)
	s.Equal([]domain.JournalEventType{domain.EventJournalCreated, domain.EventJournalDeleted}, s.f.publisher.types())
}

func (s *JournalServiceTestSuite) TestApprove() {
	entry, err := s.f.svc.Journal.CreateJournalEntry(s.ctx,
		draftOn(date(2025, 1, 1), debit("A100", "10"), credit("A200", "10")), actor)
	s.Require().NoError(err)

	approved, err := s.f.svc.Journal.ApproveJournalEntry(s.ctx, entry.EntryID, "approver-1")
	s.Require().NoError(err)
	s.Equal(domain.Approved, approved.Status)
	s.Require().NotNil(approved.ApprovedBy)
	s.Equal("approver-1", *approved.ApprovedBy)
	s.NotNil(approved.ApprovedAt)

	_, err = s.f.svc.Journal.ApproveJournalEntry(s.ctx, entry.EntryID, "approver-1")
	s.Equal(apperrors.CodeInvalidTransition, apperrors.CodeOf(err))
}

func (s *JournalServiceTestSuite) TestApprove_RevalidatesAccounts() {
	entry, err := s.f.svc.Journal.CreateJournalEntry(s.ctx,
		draftOn(date(2025, 1, 1), debit("A150", "10"), credit("A200", "10")), actor)
	s.Require().NoError(err)

	retired := testChart[1]
	retired.IsActive = false
	s.f.store.SeedAccounts(retired)

	_, err = s.f.svc.Journal.ApproveJournalEntry(s.ctx, entry.EntryID, "approver-1")
	s.True(apperrors.HasFailure(err, apperrors.CodeUnknownAccount))
}

func (s *JournalServiceTestSuite) TestReject() {
	entry, err := s.f.svc.Journal.CreateJournalEntry(s.ctx,
		draftOn(date(2025, 1, 1), debit("A100", "10"), credit("A200", "10")), actor)
	s.Require().NoError(err)

	_, err = s.f.svc.Journal.RejectJournalEntry(s.ctx, entry.EntryID, "   ", actor)
	s.Equal(apperrors.CodeReasonRequired, apperrors.CodeOf(err))

	rejected, err := s.f.svc.Journal.RejectJournalEntry(s.ctx, entry.EntryID, "wrong period", actor)
	s.Require().NoError(err)
	s.Equal(domain.Rejected, rejected.Status)
	s.Equal("wrong period", *rejected.RejectionReason)

	// REJECTED is terminal
	_, err = s.f.svc.Journal.ApproveJournalEntry(s.ctx, entry.EntryID, "approver-1")
	s.Equal(apperrors.CodeInvalidTransition, apperrors.CodeOf(err))
	_, err = s.f.svc.Journal.RejectJournalEntry(s.ctx, entry.EntryID, "again", actor)
	s.Equal(apperrors.CodeInvalidTransition, apperrors.CodeOf(err))
	_, err = s.f.svc.Posting.PostJournalEntry(s.ctx, entry.EntryID, actor)
	s.Equal(apperrors.CodeEntryNotApproved, apperrors.CodeOf(err))
}

func (s *JournalServiceTestSuite) TestNotFound() {
	_, err := s.f.svc.Journal.GetJournalEntry(s.ctx, "missing")
	s.Equal(apperrors.CodeEntryNotFound, apperrors.CodeOf(err))

	_, err = s.f.svc.Journal.ApproveJournalEntry(s.ctx, "missing", "approver-1")
	s.Equal(apperrors.CodeEntryNotFound, apperrors.CodeOf(err))

	_, err = s.f.svc.Posting.PostJournalEntry(s.ctx, "missing", actor)
	s.Equal(apperrors.CodeEntryNotFound, apperrors.CodeOf(err))
}

func (s *JournalServiceTestSuite) TestList_FiltersAndValidatesRange() {
	for d := 1; d <= 3; d++ {
		_, err := s.f.svc.Journal.CreateJournalEntry(s.ctx,
			draftOn(date(2025, 1, d), debit("A100", "10"), credit("A200", "10")), actor)
		s.Require().NoError(err)
	}

	entries, err := s.f.svc.Journal.ListJournalEntries(s.ctx, domain.JournalFilter{Status: domain.Draft, Limit: 2})
	s.Require().NoError(err)
	s.Require().Len(entries, 2)
	s.Equal(date(2025, 1, 3), entries[0].EntryDate)

	_, err = s.f.svc.Journal.ListJournalEntries(s.ctx, domain.JournalFilter{From: datePtr(2025, 2, 1), To: datePtr(2025, 1, 1)})
	s.Equal(apperrors.CodeInvalidDateRange, apperrors.CodeOf(err))
}
