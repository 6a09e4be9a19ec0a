package services

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
)

// RecurringSvc manages recurring entry templates and generates their DRAFT entries.
type RecurringSvc interface {
	// CreateTemplate validates and stores a DRAFT template.
	CreateTemplate(ctx context.Context, draft domain.RecurringTemplateDraft, actorID string) (*domain.RecurringTemplate, error)

	// GetTemplate retrieves a template by id.
	GetTemplate(ctx context.Context, templateID string) (*domain.RecurringTemplate, error)

	// ListTemplates retrieves templates ordered by next run date, then code.
	ListTemplates(ctx context.Context, filter domain.TemplateFilter) ([]domain.RecurringTemplate, error)

	// ApproveTemplate makes a DRAFT template eligible for generation.
	ApproveTemplate(ctx context.Context, templateID string, approverID string) (*domain.RecurringTemplate, error)

	// SuspendTemplate stops generation until the template is reactivated.
	SuspendTemplate(ctx context.Context, templateID string, reason string, actorID string) (*domain.RecurringTemplate, error)

	// ReactivateTemplate returns a SUSPENDED template to the state it was suspended from.
	ReactivateTemplate(ctx context.Context, templateID string, actorID string) (*domain.RecurringTemplate, error)

	// GenerateDue creates one DRAFT entry per due occurrence of every APPROVED template,
	// catching up missed runs. A failing template does not stop the others.
	GenerateDue(ctx context.Context, asOf time.Time, actorID string) (*domain.RecurringRun, error)
}
