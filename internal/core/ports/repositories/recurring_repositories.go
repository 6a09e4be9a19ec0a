package repositories

import (
	"context"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
)

// RecurringTemplateReader defines read operations for recurring entry templates.
type RecurringTemplateReader interface {
	// FindTemplateByID retrieves a template and its lines.
	FindTemplateByID(ctx context.Context, templateID string) (*domain.RecurringTemplate, error)

	// ListTemplates retrieves templates matching the filter ordered by next run date, then code.
	ListTemplates(ctx context.Context, filter domain.TemplateFilter) ([]domain.RecurringTemplate, error)
}

// RecurringTemplateWriter defines write operations for recurring entry templates.
type RecurringTemplateWriter interface {
	// FindTemplateForUpdate loads a template and locks it for the rest of the transaction.
	FindTemplateForUpdate(ctx context.Context, templateID string) (*domain.RecurringTemplate, error)

	// SaveTemplate inserts a template. A duplicate code returns apperrors.ErrDuplicate.
	SaveTemplate(ctx context.Context, template domain.RecurringTemplate) error

	// UpdateTemplate stores template if its stored version equals expectedVersion.
	UpdateTemplate(ctx context.Context, template domain.RecurringTemplate, expectedVersion int64) error
}

// RecurringTemplateRepositoryFacade combines all template repository interfaces.
type RecurringTemplateRepositoryFacade interface {
	RecurringTemplateReader
	RecurringTemplateWriter
}
