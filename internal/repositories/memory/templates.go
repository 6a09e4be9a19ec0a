package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
)

// TemplateRepository stores recurring entry templates. Each write runs as its own transaction.
type TemplateRepository struct {
	store *Store
	tx    *TransactionManager
}

// NewTemplateRepository creates a TemplateRepository over store.
func NewTemplateRepository(store *Store) *TemplateRepository {
	return &TemplateRepository{store: store, tx: NewTransactionManager(store)}
}

var _ portsrepo.RecurringTemplateRepositoryFacade = (*TemplateRepository)(nil)

func (r *TemplateRepository) FindTemplateByID(ctx context.Context, templateID string) (*domain.RecurringTemplate, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return (&templateView{state: r.store.readView()}).FindTemplateByID(ctx, templateID)
}

func (r *TemplateRepository) ListTemplates(ctx context.Context, filter domain.TemplateFilter) ([]domain.RecurringTemplate, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return (&templateView{state: r.store.readView()}).ListTemplates(ctx, filter)
}

func (r *TemplateRepository) FindTemplateForUpdate(ctx context.Context, templateID string) (*domain.RecurringTemplate, error) {
	return r.FindTemplateByID(ctx, templateID)
}

func (r *TemplateRepository) SaveTemplate(ctx context.Context, template domain.RecurringTemplate) error {
	return r.tx.WithinTransaction(ctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		return repos.Templates.SaveTemplate(ctx, template)
	})
}

func (r *TemplateRepository) UpdateTemplate(ctx context.Context, template domain.RecurringTemplate, expectedVersion int64) error {
	return r.tx.WithinTransaction(ctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		return repos.Templates.UpdateTemplate(ctx, template, expectedVersion)
	})
}

type templateView struct {
	state    *txState
	writable bool
}

func (t *txState) template(templateID string) (domain.RecurringTemplate, bool) {
	if tmpl, ok := t.templates[templateID]; ok {
		return tmpl, true
	}
	tmpl, ok := t.store.templates[templateID]
	return tmpl, ok
}

func (t *txState) allTemplates() []domain.RecurringTemplate {
	out := make([]domain.RecurringTemplate, 0, len(t.store.templates)+len(t.templates))
	for id, tmpl := range t.store.templates {
		if staged, ok := t.templates[id]; ok {
			tmpl = staged
		}
		out = append(out, tmpl)
	}
	for id, tmpl := range t.templates {
		if _, base := t.store.templates[id]; !base {
			out = append(out, tmpl)
		}
	}
	return out
}

func (v *templateView) FindTemplateByID(ctx context.Context, templateID string) (*domain.RecurringTemplate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	tmpl, ok := v.state.template(templateID)
	if !ok {
		return nil, fmt.Errorf("%w: recurring template %s", apperrors.ErrNotFound, templateID)
	}
	c := tmpl.Clone()
	return &c, nil
}

func (v *templateView) ListTemplates(ctx context.Context, filter domain.TemplateFilter) ([]domain.RecurringTemplate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]domain.RecurringTemplate, 0)
	for _, tmpl := range v.state.allTemplates() {
		if filter.Matches(tmpl) {
			out = append(out, tmpl.Clone())
		}
	}
	slices.SortFunc(out, func(a, b domain.RecurringTemplate) int {
		return cmp.Or(a.NextRunDate.Compare(b.NextRunDate), cmp.Compare(a.Code, b.Code))
	})
	return out, nil
}

func (v *templateView) FindTemplateForUpdate(ctx context.Context, templateID string) (*domain.RecurringTemplate, error) {
	return v.FindTemplateByID(ctx, templateID)
}

func (v *templateView) SaveTemplate(ctx context.Context, template domain.RecurringTemplate) error {
	if err := v.checkWrite(ctx); err != nil {
		return err
	}
	if _, exists := v.state.template(template.TemplateID); exists {
		return fmt.Errorf("%w: recurring template %s", apperrors.ErrDuplicate, template.TemplateID)
	}
	for _, existing := range v.state.allTemplates() {
		if existing.Code == template.Code {
			return fmt.Errorf("%w: recurring template code %s", apperrors.ErrDuplicate, template.Code)
		}
	}
	v.state.templates[template.TemplateID] = template.Clone()
	return nil
}

func (v *templateView) UpdateTemplate(ctx context.Context, template domain.RecurringTemplate, expectedVersion int64) error {
	if err := v.checkWrite(ctx); err != nil {
		return err
	}
	current, ok := v.state.template(template.TemplateID)
	if !ok {
		return fmt.Errorf("%w: recurring template %s", apperrors.ErrNotFound, template.TemplateID)
	}
	if current.Version != expectedVersion {
		return fmt.Errorf("%w: recurring template %s is at version %d, expected %d",
			apperrors.ErrConflict, template.TemplateID, current.Version, expectedVersion)
	}
	v.state.templates[template.TemplateID] = template.Clone()
	return nil
}

func (v *templateView) checkWrite(ctx context.Context) error {
	if !v.writable {
		return fmt.Errorf("%w: write outside a transaction", apperrors.ErrInternal)
	}
	return ctx.Err()
}
