package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/platform/metrics"
)

// RecurringActor is recorded as the creator of scheduled entries.
const RecurringActor = "system:recurring"

// RecurringJob turns due recurring templates into DRAFT journal entries.
type RecurringJob struct {
	recurring portssvc.RecurringSvc
	logger    *slog.Logger
	metrics   *metrics.Metrics
	clock     func() time.Time
}

// NewRecurringJob initialises the recurring generation handler.
func NewRecurringJob(recurring portssvc.RecurringSvc, logger *slog.Logger, m *metrics.Metrics) *RecurringJob {
	if logger == nil {
		logger = slog.Default()
	}
	return &RecurringJob{
		recurring: recurring,
		logger:    logger,
		metrics:   m,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Handle executes a generation pass for TaskRecurringGenerate tasks.
func (j *RecurringJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.recurring == nil {
		return errors.New("recurring: handler not configured")
	}
	var payload RecurringPayload
	if len(t.Payload()) > 0 {
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return fmt.Errorf("decode recurring payload: %v: %w", err, asynq.SkipRetry)
		}
	}
	asOf := j.clock()
	if payload.AsOf != nil {
		asOf = *payload.AsOf
	}

	_, err := j.Run(ctx, asOf)
	return err
}

// Run generates every due occurrence up to asOf. Template failures are logged and do
// not fail the run; they stay due and are retried on the next schedule.
func (j *RecurringJob) Run(ctx context.Context, asOf time.Time) (run *domain.RecurringRun, err error) {
	tracker := j.metrics.TrackJob("recurring_generate")
	defer func() {
		err = tracker.End(err)
	}()

	logger := j.logger.With(slog.Time("as_of", domain.NormalizeDate(asOf)))
	run, err = j.recurring.GenerateDue(ctx, asOf, RecurringActor)
	if err != nil {
		logger.Error("recurring generation failed", slog.Any("error", err))
		return run, err
	}
	for _, f := range run.Failed {
		logger.Warn("recurring template skipped",
			slog.String("template_id", f.TemplateID),
			slog.String("code", f.Code),
			slog.String("message", f.Message))
	}
	logger.Info("recurring generation finished",
		slog.Int("generated", len(run.Generated)),
		slog.Int("failed", len(run.Failed)))
	return run, nil
}
