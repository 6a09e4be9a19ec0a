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

const (
	defaultJournalListLimit = 50
	maxJournalListLimit     = 500
)

// journalService owns the DRAFT side of the journal entry workflow.
type journalService struct {
	BaseService
	accounts    portsrepo.ChartOfAccountsReader
	journalRepo portsrepo.JournalRepositoryFacade
	now         func() time.Time
}

// JournalServiceOption is a functional option for configuring the journal service
type JournalServiceOption func(*journalService)

// WithJournalEventPublisher sets where committed transitions are announced.
func WithJournalEventPublisher(publisher portssvc.EventPublisher) JournalServiceOption {
	return func(s *journalService) {
		s.Publisher = publisher
	}
}

// WithJournalMetrics sets the metrics collectors.
func WithJournalMetrics(m *metrics.Metrics) JournalServiceOption {
	return func(s *journalService) {
		s.Metrics = m
	}
}

// WithJournalClock overrides the time source.
func WithJournalClock(now func() time.Time) JournalServiceOption {
	return func(s *journalService) {
		s.now = now
	}
}

// NewJournalService creates a new journal service with the provided options
func NewJournalService(accounts portsrepo.ChartOfAccountsReader, journalRepo portsrepo.JournalRepositoryFacade, options ...JournalServiceOption) portssvc.JournalSvcFacade {
	svc := &journalService{
		accounts:    accounts,
		journalRepo: journalRepo,
		now:         time.Now,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

// Ensure journalService implements the JournalSvcFacade interface
var _ portssvc.JournalSvcFacade = (*journalService)(nil)

// CreateJournalEntry validates and stores a new DRAFT entry.
func (s *journalService) CreateJournalEntry(ctx context.Context, draft domain.JournalEntryDraft, actorID string) (*domain.JournalEntry, error) {
	lines := normalizeLines(draft.Lines)
	entryDate := domain.NormalizeDate(draft.EntryDate)

	if _, err := newEntryValidator(s.accounts).validate(ctx, entryDate, lines); err != nil {
		s.LogWarn(ctx, "Journal entry rejected by validation", slog.String("error", err.Error()))
		return nil, err
	}

	now := s.now().UTC()
	entry := domain.JournalEntry{
		EntryID:         uuid.NewString(),
		EntryDate:       entryDate,
		Description:     strings.TrimSpace(draft.Description),
		ReferenceNumber: strings.TrimSpace(draft.ReferenceNumber),
		Source:          sourceOrDefault(draft.Source),
		Lines:           lines,
		Status:          domain.Draft,
		Version:         1,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}

	if err := s.journalRepo.SaveJournalEntry(ctx, entry); err != nil {
		s.LogError(ctx, err, "Failed to save journal entry", slog.String("entry_id", entry.EntryID))
		return nil, fmt.Errorf("failed to save journal entry: %w", err)
	}

	s.LogInfo(ctx, "Journal entry created",
		slog.String("entry_id", entry.EntryID),
		slog.Int("lines", len(entry.Lines)))
	s.publish(ctx, newEvent(domain.EventJournalCreated, entry.EntryID, actorID, now))
	return &entry, nil
}

// UpdateJournalEntry replaces the content of a DRAFT entry.
func (s *journalService) UpdateJournalEntry(ctx context.Context, entryID string, draft domain.JournalEntryDraft, actorID string) (*domain.JournalEntry, error) {
	entry, err := s.loadEntry(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if err := requireDraft(entry, "updated"); err != nil {
		return nil, err
	}

	lines := normalizeLines(draft.Lines)
	entryDate := domain.NormalizeDate(draft.EntryDate)
	if _, err := newEntryValidator(s.accounts).validate(ctx, entryDate, lines); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	expected := entry.Version
	entry.EntryDate = entryDate
	entry.Description = strings.TrimSpace(draft.Description)
	entry.ReferenceNumber = strings.TrimSpace(draft.ReferenceNumber)
	entry.Source = sourceOrDefault(draft.Source)
	entry.Lines = lines
	entry.Version++
	entry.LastUpdatedAt = now
	entry.LastUpdatedBy = actorID

	if err := s.saveUpdate(ctx, *entry, expected); err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Journal entry updated", slog.String("entry_id", entryID), slog.Int64("version", entry.Version))
	s.publish(ctx, newEvent(domain.EventJournalUpdated, entryID, actorID, now))
	return entry, nil
}

// DeleteJournalEntry removes a DRAFT entry.
func (s *journalService) DeleteJournalEntry(ctx context.Context, entryID string, actorID string) error {
	entry, err := s.loadEntry(ctx, entryID)
	if err != nil {
		return err
	}
	if err := requireDraft(entry, "deleted"); err != nil {
		return err
	}

	if err := s.journalRepo.DeleteJournalEntry(ctx, entryID, entry.Version); err != nil {
		return s.mapWriteError(ctx, err, entryID)
	}

	s.LogInfo(ctx, "Journal entry deleted", slog.String("entry_id", entryID))
	s.publish(ctx, newEvent(domain.EventJournalDeleted, entryID, actorID, s.now().UTC()))
	return nil
}

// ApproveJournalEntry re-validates a DRAFT entry and records its approver.
func (s *journalService) ApproveJournalEntry(ctx context.Context, entryID string, approverID string) (*domain.JournalEntry, error) {
	entry, err := s.loadEntry(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if err := requireTransitionFromDraft(entry, domain.Approved); err != nil {
		return nil, err
	}

	// Accounts may have been deactivated since the draft was saved.
	if _, err := newEntryValidator(s.accounts).validate(ctx, entry.EntryDate, entry.Lines); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	expected := entry.Version
	entry.Status = domain.Approved
	entry.ApprovedBy = &approverID
	entry.ApprovedAt = &now
	entry.Version++
	entry.LastUpdatedAt = now
	entry.LastUpdatedBy = approverID

	if err := s.saveUpdate(ctx, *entry, expected); err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Journal entry approved", slog.String("entry_id", entryID), slog.String("approver_id", approverID))
	s.publish(ctx, newEvent(domain.EventJournalApproved, entryID, approverID, now))
	return entry, nil
}

// RejectJournalEntry marks a DRAFT entry REJECTED. The reason is mandatory.
func (s *journalService) RejectJournalEntry(ctx context.Context, entryID string, reason string, actorID string) (*domain.JournalEntry, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, apperrors.NewValidation(apperrors.ValidationFailure{
			Code:    apperrors.CodeReasonRequired,
			Field:   "reason",
			Message: "a rejection reason is required",
		})
	}

	entry, err := s.loadEntry(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if err := requireTransitionFromDraft(entry, domain.Rejected); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	expected := entry.Version
	entry.Status = domain.Rejected
	entry.RejectionReason = &reason
	entry.Version++
	entry.LastUpdatedAt = now
	entry.LastUpdatedBy = actorID

	if err := s.saveUpdate(ctx, *entry, expected); err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Journal entry rejected", slog.String("entry_id", entryID))
	s.publish(ctx, newEvent(domain.EventJournalRejected, entryID, actorID, now))
	return entry, nil
}

// GetJournalEntry retrieves a specific entry with its lines.
func (s *journalService) GetJournalEntry(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	return s.loadEntry(ctx, entryID)
}

// ListJournalEntries retrieves entries by status and date window.
func (s *journalService) ListJournalEntries(ctx context.Context, filter domain.JournalFilter) ([]domain.JournalEntry, error) {
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return nil, apperrors.NewValidation(apperrors.ValidationFailure{
			Code:    apperrors.CodeInvalidDateRange,
			Field:   "to",
			Message: "end of date range precedes its start",
		})
	}
	switch {
	case filter.Limit <= 0:
		filter.Limit = defaultJournalListLimit
	case filter.Limit > maxJournalListLimit:
		filter.Limit = maxJournalListLimit
	}

	entries, err := s.journalRepo.ListJournalEntries(ctx, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to list journal entries")
		return nil, fmt.Errorf("failed to list journal entries: %w", err)
	}
	return entries, nil
}

func (s *journalService) loadEntry(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	entry, err := s.journalRepo.FindJournalEntryByID(ctx, entryID)
	if err != nil {
		return nil, entryLookupError(err, entryID)
	}
	return entry, nil
}

func (s *journalService) saveUpdate(ctx context.Context, entry domain.JournalEntry, expectedVersion int64) error {
	if err := s.journalRepo.UpdateJournalEntry(ctx, entry, expectedVersion); err != nil {
		return s.mapWriteError(ctx, err, entry.EntryID)
	}
	return nil
}

func (s *journalService) mapWriteError(ctx context.Context, err error, entryID string) error {
	switch {
	case errors.Is(err, apperrors.ErrConflict):
		return apperrors.NewConflict(fmt.Sprintf("journal entry %s was modified concurrently", entryID), err)
	case errors.Is(err, apperrors.ErrNotFound):
		return entryLookupError(err, entryID)
	}
	s.LogError(ctx, err, "Failed to write journal entry", slog.String("entry_id", entryID))
	return fmt.Errorf("failed to write journal entry %s: %w", entryID, err)
}

// entryLookupError maps a repository lookup failure to the entry error vocabulary.
func entryLookupError(err error, entryID string) error {
	if errors.Is(err, apperrors.ErrNotFound) {
		return apperrors.NewNotFound(apperrors.CodeEntryNotFound, fmt.Sprintf("journal entry %s not found", entryID))
	}
	return fmt.Errorf("failed to load journal entry %s: %w", entryID, err)
}

func requireDraft(entry *domain.JournalEntry, verb string) error {
	if entry.Status == domain.Draft {
		return nil
	}
	msg := fmt.Sprintf("journal entry %s is %s and cannot be %s", entry.EntryID, entry.Status, verb)
	if entry.Status == domain.Posted {
		msg += "; reverse it instead"
	}
	return apperrors.NewInvalidState(apperrors.CodeEntryNotDraft, msg)
}

func requireTransitionFromDraft(entry *domain.JournalEntry, target domain.JournalStatus) error {
	if entry.Status == domain.Draft {
		return nil
	}
	return apperrors.NewInvalidState(apperrors.CodeInvalidTransition,
		fmt.Sprintf("journal entry %s cannot move from %s to %s", entry.EntryID, entry.Status, target))
}

// normalizeLines numbers lines in order and keeps amounts at their given precision.
func normalizeLines(lines []domain.JournalLine) []domain.JournalLine {
	out := make([]domain.JournalLine, len(lines))
	for i, l := range lines {
		l.LineNo = i + 1
		l.AccountID = strings.TrimSpace(l.AccountID)
		l.Memo = strings.TrimSpace(l.Memo)
		out[i] = l
	}
	return out
}

func sourceOrDefault(source string) string {
	if source = strings.TrimSpace(source); source != "" {
		return source
	}
	return domain.DefaultSource
}
