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

// maxRunsPerTemplate bounds the catch-up of one template in a single pass.
const maxRunsPerTemplate = 60

type recurringService struct {
	BaseService
	accounts  portsrepo.ChartOfAccountsReader
	templates portsrepo.RecurringTemplateRepositoryFacade
	txManager portsrepo.TransactionManager
	now       func() time.Time
}

// RecurringServiceOption is a functional option for configuring the recurring service
type RecurringServiceOption func(*recurringService)

// WithRecurringEventPublisher sets where created entries are announced.
func WithRecurringEventPublisher(publisher portssvc.EventPublisher) RecurringServiceOption {
	return func(s *recurringService) {
		s.Publisher = publisher
	}
}

// WithRecurringMetrics sets the metrics collectors.
func WithRecurringMetrics(m *metrics.Metrics) RecurringServiceOption {
	return func(s *recurringService) {
		s.Metrics = m
	}
}

// WithRecurringClock overrides the time source.
func WithRecurringClock(now func() time.Time) RecurringServiceOption {
	return func(s *recurringService) {
		s.now = now
	}
}

// NewRecurringService creates a recurring template service.
func NewRecurringService(
	accounts portsrepo.ChartOfAccountsReader,
	templates portsrepo.RecurringTemplateRepositoryFacade,
	txManager portsrepo.TransactionManager,
	options ...RecurringServiceOption,
) portssvc.RecurringSvc {
	svc := &recurringService{
		accounts:  accounts,
		templates: templates,
		txManager: txManager,
		now:       time.Now,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.RecurringSvc = (*recurringService)(nil)

func (s *recurringService) CreateTemplate(ctx context.Context, draft domain.RecurringTemplateDraft, actorID string) (*domain.RecurringTemplate, error) {
	code := strings.TrimSpace(draft.Code)
	start := domain.NormalizeDate(draft.StartDate)
	var end *time.Time
	if draft.EndDate != nil {
		d := domain.NormalizeDate(*draft.EndDate)
		end = &d
	}
	lines := normalizeLines(draft.Lines)

	failures := scheduleFailures(code, draft.Frequency, draft.CustomIntervalDays, start, end)
	if _, err := newEntryValidator(s.accounts).validate(ctx, start, lines); err != nil {
		if apperrors.KindOf(err) != apperrors.KindValidation {
			return nil, err
		}
		failures = append(failures, apperrors.FailuresOf(err)...)
	}
	if len(failures) > 0 {
		s.LogWarn(ctx, "Recurring template rejected by validation", slog.String("code", code))
		return nil, apperrors.NewValidation(failures...)
	}

	now := s.now().UTC()
	template := domain.RecurringTemplate{
		TemplateID:         uuid.NewString(),
		Code:               code,
		Description:        strings.TrimSpace(draft.Description),
		Frequency:          draft.Frequency,
		CustomIntervalDays: draft.CustomIntervalDays,
		Lines:              lines,
		StartDate:          start,
		EndDate:            end,
		NextRunDate:        start,
		Status:             domain.TemplateDraft,
		Version:            1,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}
	if err := s.templates.SaveTemplate(ctx, template); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, apperrors.NewDuplicate(apperrors.CodeDuplicateTemplateCode,
				fmt.Sprintf("recurring template code %q already exists", code), err)
		}
		s.LogError(ctx, err, "Failed to save recurring template")
		return nil, fmt.Errorf("failed to save recurring template: %w", err)
	}

	s.LogInfo(ctx, "Recurring template created",
		slog.String("template_id", template.TemplateID),
		slog.String("frequency", string(template.Frequency)))
	return &template, nil
}

func scheduleFailures(code string, frequency domain.RecurrenceFrequency, customDays int, start time.Time, end *time.Time) []apperrors.ValidationFailure {
	var failures []apperrors.ValidationFailure
	if code == "" {
		failures = append(failures, apperrors.ValidationFailure{
			Code: apperrors.CodeNameRequired, Field: "code", Message: "template code is required",
		})
	}
	switch {
	case !frequency.IsValid():
		failures = append(failures, apperrors.ValidationFailure{
			Code: apperrors.CodeInvalidSchedule, Field: "frequency",
			Message: fmt.Sprintf("unknown frequency %q", frequency),
		})
	case frequency == domain.FrequencyCustom && customDays <= 0:
		failures = append(failures, apperrors.ValidationFailure{
			Code: apperrors.CodeInvalidSchedule, Field: "customIntervalDays",
			Message: "a custom schedule needs a positive interval in days",
		})
	}
	if end != nil && !start.IsZero() && end.Before(start) {
		failures = append(failures, apperrors.ValidationFailure{
			Code:  apperrors.CodeInvalidDateRange,
			Field: "endDate",
			Message: fmt.Sprintf("end date %s precedes start date %s",
				end.Format(time.DateOnly), start.Format(time.DateOnly)),
		})
	}
	return failures
}

func (s *recurringService) GetTemplate(ctx context.Context, templateID string) (*domain.RecurringTemplate, error) {
	template, err := s.templates.FindTemplateByID(ctx, templateID)
	if err != nil {
		return nil, templateLookupError(err, templateID)
	}
	return template, nil
}

func (s *recurringService) ListTemplates(ctx context.Context, filter domain.TemplateFilter) ([]domain.RecurringTemplate, error) {
	templates, err := s.templates.ListTemplates(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list recurring templates: %w", err)
	}
	return templates, nil
}

func (s *recurringService) ApproveTemplate(ctx context.Context, templateID string, approverID string) (*domain.RecurringTemplate, error) {
	template, err := s.transition(ctx, templateID, approverID, func(ctx context.Context, repos portsrepo.TxRepositories, t *domain.RecurringTemplate, now time.Time) error {
		if t.Status != domain.TemplateDraft {
			return templateStateError(t, "approved")
		}
		// Accounts may have been deactivated since the template was saved.
		if _, err := newEntryValidator(repos.Accounts).validate(ctx, t.NextRunDate, t.Lines); err != nil {
			return err
		}
		t.Status = domain.TemplateApproved
		t.ApprovedBy = &approverID
		t.ApprovedAt = &now
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.LogInfo(ctx, "Recurring template approved", slog.String("template_id", templateID), slog.String("approver_id", approverID))
	return template, nil
}

func (s *recurringService) SuspendTemplate(ctx context.Context, templateID string, reason string, actorID string) (*domain.RecurringTemplate, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, apperrors.NewValidation(apperrors.ValidationFailure{
			Code: apperrors.CodeReasonRequired, Field: "reason", Message: "a suspension reason is required",
		})
	}
	template, err := s.transition(ctx, templateID, actorID, func(_ context.Context, _ portsrepo.TxRepositories, t *domain.RecurringTemplate, _ time.Time) error {
		if t.Status != domain.TemplateDraft && t.Status != domain.TemplateApproved {
			return templateStateError(t, "suspended")
		}
		t.Status = domain.TemplateSuspended
		t.SuspensionReason = &reason
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.LogWarn(ctx, "Recurring template suspended", slog.String("template_id", templateID), slog.String("reason", reason))
	return template, nil
}

// ReactivateTemplate restores APPROVED when the template had been approved before its
// suspension and DRAFT otherwise.
func (s *recurringService) ReactivateTemplate(ctx context.Context, templateID string, actorID string) (*domain.RecurringTemplate, error) {
	template, err := s.transition(ctx, templateID, actorID, func(_ context.Context, _ portsrepo.TxRepositories, t *domain.RecurringTemplate, _ time.Time) error {
		if t.Status != domain.TemplateSuspended {
			return templateStateError(t, "reactivated")
		}
		t.Status = domain.TemplateDraft
		if t.ApprovedAt != nil {
			t.Status = domain.TemplateApproved
		}
		t.SuspensionReason = nil
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.LogInfo(ctx, "Recurring template reactivated", slog.String("template_id", templateID), slog.String("status", string(template.Status)))
	return template, nil
}

type templateMutation func(ctx context.Context, repos portsrepo.TxRepositories, t *domain.RecurringTemplate, now time.Time) error

func (s *recurringService) transition(ctx context.Context, templateID, actorID string, mutate templateMutation) (*domain.RecurringTemplate, error) {
	var out *domain.RecurringTemplate
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		template, err := repos.Templates.FindTemplateForUpdate(ctx, templateID)
		if err != nil {
			return templateLookupError(err, templateID)
		}
		now := s.now().UTC()
		expected := template.Version
		if err := mutate(ctx, repos, template, now); err != nil {
			return err
		}
		template.Version++
		template.LastUpdatedAt = now
		template.LastUpdatedBy = actorID
		if err := updateTemplate(ctx, repos, *template, expected); err != nil {
			return err
		}
		out = template
		return nil
	})
	return out, err
}

// GenerateDue runs each due template in its own transaction, so the entries of one
// template commit together with its advanced schedule.
func (s *recurringService) GenerateDue(ctx context.Context, asOf time.Time, actorID string) (*domain.RecurringRun, error) {
	asOf = domain.NormalizeDate(asOf)
	due, err := s.templates.ListTemplates(ctx, domain.TemplateFilter{DueBy: &asOf})
	if err != nil {
		return nil, fmt.Errorf("failed to list due recurring templates: %w", err)
	}

	run := &domain.RecurringRun{AsOf: asOf, Generated: []domain.GeneratedEntry{}}
	for _, t := range due {
		if err := ctx.Err(); err != nil {
			return run, err
		}
		generated, err := s.generateTemplate(ctx, t.TemplateID, asOf, actorID)
		if err != nil {
			s.LogWarn(ctx, "Recurring template failed to generate",
				slog.String("template_id", t.TemplateID),
				slog.String("error", err.Error()))
			run.Failed = append(run.Failed, domain.TemplateFailure{
				TemplateID: t.TemplateID,
				Code:       apperrors.CodeOf(err),
				Message:    err.Error(),
			})
			continue
		}
		run.Generated = append(run.Generated, generated...)

		now := s.now().UTC()
		for _, g := range generated {
			s.publish(ctx, newEvent(domain.EventJournalCreated, g.EntryID, actorID, now))
		}
	}

	s.LogInfo(ctx, "Recurring templates generated",
		slog.Time("as_of", asOf),
		slog.Int("entries", len(run.Generated)),
		slog.Int("failed", len(run.Failed)))
	return run, nil
}

func (s *recurringService) generateTemplate(ctx context.Context, templateID string, asOf time.Time, actorID string) ([]domain.GeneratedEntry, error) {
	var generated []domain.GeneratedEntry
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		generated = nil
		template, err := repos.Templates.FindTemplateForUpdate(ctx, templateID)
		if err != nil {
			return templateLookupError(err, templateID)
		}
		expected := template.Version
		validator := newEntryValidator(repos.Accounts)

		for n := 0; template.IsDue(asOf) && n < maxRunsPerTemplate; n++ {
			runDate := template.NextRunDate
			if _, err := validator.validate(ctx, runDate, template.Lines); err != nil {
				return err
			}
			entry := s.entryFromTemplate(template, runDate, actorID)
			if err := repos.Journals.SaveJournalEntry(ctx, entry); err != nil {
				return fmt.Errorf("failed to save journal entry for template %s: %w", template.Code, err)
			}
			template.RecordGeneration(runDate)
			generated = append(generated, domain.GeneratedEntry{
				TemplateID: template.TemplateID,
				EntryID:    entry.EntryID,
				EntryDate:  runDate,
			})
		}
		if len(generated) == 0 {
			return nil
		}

		template.Version++
		template.LastUpdatedAt = s.now().UTC()
		template.LastUpdatedBy = actorID
		return updateTemplate(ctx, repos, *template, expected)
	})
	if err != nil {
		return nil, err
	}
	return generated, nil
}

func (s *recurringService) entryFromTemplate(t *domain.RecurringTemplate, runDate time.Time, actorID string) domain.JournalEntry {
	now := s.now().UTC()
	description := t.Description
	if description == "" {
		description = t.Code
	}
	return domain.JournalEntry{
		EntryID:         uuid.NewString(),
		EntryDate:       runDate,
		Description:     description,
		ReferenceNumber: t.Code,
		Source:          domain.SourceRecurring,
		Lines:           normalizeLines(t.Lines),
		Status:          domain.Draft,
		Version:         1,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}
}

func updateTemplate(ctx context.Context, repos portsrepo.TxRepositories, t domain.RecurringTemplate, expected int64) error {
	if err := repos.Templates.UpdateTemplate(ctx, t, expected); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return apperrors.NewConflict(fmt.Sprintf("recurring template %s was modified concurrently", t.TemplateID), err)
		}
		return fmt.Errorf("failed to update recurring template %s: %w", t.TemplateID, err)
	}
	return nil
}

func templateStateError(t *domain.RecurringTemplate, action string) error {
	return apperrors.NewInvalidState(apperrors.CodeInvalidTransition,
		fmt.Sprintf("recurring template %s is %s and cannot be %s", t.Code, t.Status, action))
}

func templateLookupError(err error, templateID string) error {
	if errors.Is(err, apperrors.ErrNotFound) {
		return apperrors.NewNotFound(apperrors.CodeTemplateNotFound, fmt.Sprintf("recurring template %s not found", templateID))
	}
	return fmt.Errorf("failed to load recurring template %s: %w", templateID, err)
}
