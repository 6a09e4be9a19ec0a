package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/platform/metrics"
)

// postingService is the only component that writes general ledger rows.
type postingService struct {
	BaseService
	txManager  portsrepo.TransactionManager
	locker     portssvc.EntryLocker
	retryDelay time.Duration
	now        func() time.Time
}

// PostingServiceOption is a functional option for configuring the posting service
type PostingServiceOption func(*postingService)

// WithPostingEventPublisher sets where committed postings are announced.
func WithPostingEventPublisher(publisher portssvc.EventPublisher) PostingServiceOption {
	return func(s *postingService) {
		s.Publisher = publisher
	}
}

// WithPostingMetrics sets the metrics collectors.
func WithPostingMetrics(m *metrics.Metrics) PostingServiceOption {
	return func(s *postingService) {
		s.Metrics = m
	}
}

// WithPostRetryDelay sets the base delay before a conflicting post is retried.
func WithPostRetryDelay(d time.Duration) PostingServiceOption {
	return func(s *postingService) {
		s.retryDelay = d
	}
}

// WithPostingClock overrides the time source.
func WithPostingClock(now func() time.Time) PostingServiceOption {
	return func(s *postingService) {
		s.now = now
	}
}

// NewPostingService creates a posting service. Every post and reverse holds the
// locker's per-entry lock for the duration of its transaction.
func NewPostingService(txManager portsrepo.TransactionManager, locker portssvc.EntryLocker, options ...PostingServiceOption) portssvc.PostingSvcFacade {
	svc := &postingService{
		txManager:  txManager,
		locker:     locker,
		retryDelay: defaultPostRetryDelay,
		now:        time.Now,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.PostingSvcFacade = (*postingService)(nil)

// PostJournalEntry appends the ledger rows of an APPROVED entry and marks it POSTED.
func (s *postingService) PostJournalEntry(ctx context.Context, entryID string, actorID string) (*domain.JournalEntry, error) {
	tracker := s.Metrics.TrackPosting("post")

	var posted *domain.JournalEntry
	err := retryOnConflict(ctx, s.retryDelay, func(ctx context.Context) error {
		entry, err := s.postOnce(ctx, entryID, actorID)
		posted = entry
		return err
	}, s.logRetry(ctx, entryID))
	if err := tracker.End(err); err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Journal entry posted",
		slog.String("entry_id", entryID),
		slog.Int("rows", len(posted.Lines)))
	s.publish(ctx, newEvent(domain.EventJournalPosted, entryID, actorID, *posted.PostedAt))
	return posted, nil
}

func (s *postingService) postOnce(ctx context.Context, entryID, actorID string) (*domain.JournalEntry, error) {
	var posted *domain.JournalEntry
	err := s.withEntryLock(ctx, entryID, func(ctx context.Context) error {
		return s.txManager.WithinTransaction(ctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
			entry, err := repos.Journals.FindJournalEntryForUpdate(ctx, entryID)
			if err != nil {
				return entryLookupError(err, entryID)
			}
			if entry.Status != domain.Approved {
				return apperrors.NewInvalidState(apperrors.CodeEntryNotApproved,
					fmt.Sprintf("journal entry %s is %s; only APPROVED entries can be posted", entryID, entry.Status))
			}

			if err := s.postEntry(ctx, repos, entry, actorID); err != nil {
				return err
			}
			posted = entry
			return nil
		})
	})
	return posted, err
}

// ReverseJournalEntry creates an entry with every line's sides swapped, posts it in the
// same transaction and links it to the original.
func (s *postingService) ReverseJournalEntry(ctx context.Context, entryID string, reversalDate time.Time, reason string, actorID string) (*domain.JournalEntry, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, apperrors.NewValidation(apperrors.ValidationFailure{
			Code:    apperrors.CodeReasonRequired,
			Field:   "reason",
			Message: "a reversal reason is required",
		})
	}
	reversalDate = domain.NormalizeDate(reversalDate)
	if reversalDate.IsZero() {
		return nil, apperrors.NewValidation(apperrors.ValidationFailure{
			Code:    apperrors.CodeEntryDateRequired,
			Field:   "reversalDate",
			Message: "reversal date is required",
		})
	}

	tracker := s.Metrics.TrackPosting("reverse")

	var reversal *domain.JournalEntry
	err := retryOnConflict(ctx, s.retryDelay, func(ctx context.Context) error {
		entry, err := s.reverseOnce(ctx, entryID, reversalDate, reason, actorID)
		reversal = entry
		return err
	}, s.logRetry(ctx, entryID))
	if err := tracker.End(err); err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Journal entry reversed",
		slog.String("entry_id", entryID),
		slog.String("reversing_entry_id", reversal.EntryID))

	reversed := newEvent(domain.EventJournalReversed, entryID, actorID, *reversal.PostedAt)
	reversed.RelatedEntryID = reversal.EntryID
	posted := newEvent(domain.EventJournalPosted, reversal.EntryID, actorID, *reversal.PostedAt)
	posted.RelatedEntryID = entryID
	s.publish(ctx, reversed, posted)
	return reversal, nil
}

func (s *postingService) reverseOnce(ctx context.Context, entryID string, reversalDate time.Time, reason, actorID string) (*domain.JournalEntry, error) {
	var reversal *domain.JournalEntry
	err := s.withEntryLock(ctx, entryID, func(ctx context.Context) error {
		return s.txManager.WithinTransaction(ctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
			original, err := repos.Journals.FindJournalEntryForUpdate(ctx, entryID)
			if err != nil {
				return entryLookupError(err, entryID)
			}
			if original.Status != domain.Posted {
				return apperrors.NewInvalidState(apperrors.CodeEntryNotPosted,
					fmt.Sprintf("journal entry %s is %s; only POSTED entries can be reversed", entryID, original.Status))
			}
			if original.IsReversed() {
				return apperrors.NewInvalidState(apperrors.CodeAlreadyReversed,
					fmt.Sprintf("journal entry %s was already reversed by %s", entryID, *original.ReversingEntryID))
			}
			if reversalDate.Before(original.EntryDate) {
				return apperrors.NewValidation(apperrors.ValidationFailure{
					Code:  apperrors.CodeInvalidReversalDate,
					Field: "reversalDate",
					Message: fmt.Sprintf("reversal date %s precedes original entry date %s",
						reversalDate.Format(time.DateOnly), original.EntryDate.Format(time.DateOnly)),
				})
			}

			now := s.now().UTC()
			created := s.newReversal(original, reversalDate, reason, actorID, now)
			if err := repos.Journals.SaveJournalEntry(ctx, created); err != nil {
				return fmt.Errorf("failed to save reversing entry: %w", err)
			}
			if err := s.postReversal(ctx, repos, &created, original, actorID); err != nil {
				return err
			}

			expected := original.Version
			original.ReversingEntryID = &created.EntryID
			original.ReversalReason = &reason
			original.Version++
			original.LastUpdatedAt = now
			original.LastUpdatedBy = actorID
			if err := updateWithVersion(ctx, repos.Journals, *original, expected); err != nil {
				return err
			}

			reversal = &created
			return nil
		})
	})
	return reversal, err
}

func (s *postingService) newReversal(original *domain.JournalEntry, reversalDate time.Time, reason, actorID string, now time.Time) domain.JournalEntry {
	originalID := original.EntryID
	approver := actorID
	approvedAt := now
	return domain.JournalEntry{
		EntryID:         uuid.NewString(),
		EntryDate:       reversalDate,
		Description:     fmt.Sprintf("Reversal of %s: %s", original.EntryID, reason),
		ReferenceNumber: original.ReferenceNumber,
		Source:          original.Source,
		Lines:           domain.SwapLines(original.Lines),
		Status:          domain.Approved,
		OriginalEntryID: &originalID,
		ApprovedBy:      &approver,
		ApprovedAt:      &approvedAt,
		Version:         1,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}
}

// postEntry re-validates an APPROVED entry, appends its rows and marks it POSTED.
// It must run inside a transaction that holds the entry row.
func (s *postingService) postEntry(ctx context.Context, repos portsrepo.TxRepositories, entry *domain.JournalEntry, actorID string) error {
	accounts, err := newEntryValidator(repos.Accounts).validate(ctx, entry.EntryDate, entry.Lines)
	if err != nil {
		return err
	}
	if err := checkPeriodOpen(ctx, repos.Periods, entry.EntryDate); err != nil {
		return err
	}

	codes := make(map[string]string, len(accounts))
	for id, account := range accounts {
		codes[id] = account.Code
	}
	return s.appendAndMarkPosted(ctx, repos, entry, codes, actorID)
}

// postReversal posts a reversing entry without re-checking the chart: its accounts were
// accepted when the original posted, and the codes they were posted under are reused.
func (s *postingService) postReversal(ctx context.Context, repos portsrepo.TxRepositories, reversal, original *domain.JournalEntry, actorID string) error {
	if err := validateReversal(ctx, reversal.EntryDate, reversal.Lines); err != nil {
		return err
	}
	if err := checkPeriodOpen(ctx, repos.Periods, reversal.EntryDate); err != nil {
		return err
	}
	codes, err := postedAccountCodes(ctx, repos, original)
	if err != nil {
		return err
	}
	return s.appendAndMarkPosted(ctx, repos, reversal, codes, actorID)
}

// postedAccountCodes maps each account of a posted entry to the code on its ledger rows.
// Accounts without rows fall back to the chart, whatever their active state.
func postedAccountCodes(ctx context.Context, repos portsrepo.TxRepositories, entry *domain.JournalEntry) (map[string]string, error) {
	codes := make(map[string]string, len(entry.Lines))
	for row, err := range repos.Ledger.QueryRows(ctx, domain.LedgerFilter{EntryID: entry.EntryID}) {
		if err != nil {
			return nil, fmt.Errorf("failed to load ledger rows of entry %s: %w", entry.EntryID, err)
		}
		codes[row.AccountID] = row.AccountCode
	}

	var missing []string
	for _, id := range entry.AccountIDs() {
		if _, ok := codes[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) == 0 {
		return codes, nil
	}
	accounts, err := repos.Accounts.FindAccountsByIDs(ctx, missing)
	if err != nil {
		return nil, fmt.Errorf("failed to load accounts of entry %s: %w", entry.EntryID, err)
	}
	for id, account := range accounts {
		codes[id] = account.Code
	}
	return codes, nil
}

// appendAndMarkPosted writes one ledger row per line and moves the entry to POSTED.
func (s *postingService) appendAndMarkPosted(ctx context.Context, repos portsrepo.TxRepositories, entry *domain.JournalEntry, codes map[string]string, actorID string) error {
	now := s.now().UTC()
	rows := make([]domain.GeneralLedgerRow, 0, len(entry.Lines))
	for _, line := range entry.Lines {
		rows = append(rows, domain.GeneralLedgerRow{
			EntryID:     entry.EntryID,
			LineNo:      line.LineNo,
			AccountID:   line.AccountID,
			AccountCode: codes[line.AccountID],
			Debit:       line.Debit,
			Credit:      line.Credit,
			PostingDate: entry.EntryDate,
			PostedAt:    now,
			PostedBy:    actorID,
		})
	}
	if err := repos.Ledger.AppendRows(ctx, rows); err != nil {
		return fmt.Errorf("failed to append ledger rows for entry %s: %w", entry.EntryID, err)
	}

	expected := entry.Version
	entry.Status = domain.Posted
	entry.PostedAt = &now
	entry.PostedBy = &actorID
	entry.Version++
	entry.LastUpdatedAt = now
	entry.LastUpdatedBy = actorID
	return updateWithVersion(ctx, repos.Journals, *entry, expected)
}

func (s *postingService) withEntryLock(ctx context.Context, entryID string, fn func(ctx context.Context) error) error {
	unlock, err := s.locker.Lock(ctx, entryID)
	if err != nil {
		return err
	}
	defer func() {
		if uerr := unlock(context.WithoutCancel(ctx)); uerr != nil {
			s.LogWarn(ctx, "Failed to release entry lock", slog.String("entry_id", entryID), slog.String("error", uerr.Error()))
		}
	}()
	return fn(ctx)
}

func (s *postingService) logRetry(ctx context.Context, entryID string) func(error, time.Duration) {
	return func(err error, delay time.Duration) {
		s.LogWarn(ctx, "Concurrent modification while posting, retrying once",
			slog.String("entry_id", entryID),
			slog.Duration("delay", delay),
			slog.String("error", err.Error()))
	}
}

func updateWithVersion(ctx context.Context, journals portsrepo.JournalWriter, entry domain.JournalEntry, expected int64) error {
	if err := journals.UpdateJournalEntry(ctx, entry, expected); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return apperrors.NewConflict(fmt.Sprintf("journal entry %s was modified concurrently", entry.EntryID), err)
		}
		return fmt.Errorf("failed to update journal entry %s: %w", entry.EntryID, err)
	}
	return nil
}
