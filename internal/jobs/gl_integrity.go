package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/shopspring/decimal"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/platform/metrics"
)

// GLIntegrityJob verifies that every posted entry's ledger rows balance and that the
// trial balance as a whole balances.
type GLIntegrityJob struct {
	ledger    portsrepo.LedgerReader
	reporting portssvc.ReportingService
	logger    *slog.Logger
	metrics   *metrics.Metrics
	clock     func() time.Time
}

// NewGLIntegrityJob initialises the integrity check handler.
func NewGLIntegrityJob(ledger portsrepo.LedgerReader, reporting portssvc.ReportingService, logger *slog.Logger, m *metrics.Metrics) *GLIntegrityJob {
	if logger == nil {
		logger = slog.Default()
	}
	return &GLIntegrityJob{
		ledger:    ledger,
		reporting: reporting,
		logger:    logger,
		metrics:   m,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Handle executes the integrity check for TaskGLIntegrity tasks.
func (j *GLIntegrityJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil {
		return errors.New("gl integrity: handler not configured")
	}
	var payload GLIntegrityPayload
	if len(t.Payload()) > 0 {
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return fmt.Errorf("decode integrity payload: %v: %w", err, asynq.SkipRetry)
		}
	}
	asOf := j.clock()
	if payload.AsOf != nil {
		asOf = *payload.AsOf
	}

	_, err := j.Check(ctx, asOf)
	return err
}

// Check runs both checks for rows posted on or before asOf and returns what it found.
func (j *GLIntegrityJob) Check(ctx context.Context, asOf time.Time) (warnings []domain.DataIntegrityWarning, err error) {
	tracker := j.metrics.TrackJob("gl_integrity")
	defer func() {
		err = tracker.End(err)
	}()

	asOf = domain.NormalizeDate(asOf)
	logger := j.logger.With(slog.Time("as_of", asOf))
	logger.Info("starting gl integrity check")

	warnings, err = j.unbalancedEntries(ctx, asOf)
	if err != nil {
		logger.Error("ledger scan failed", slog.Any("error", err))
		return nil, err
	}

	tb, err := j.reporting.GenerateTrialBalance(ctx, asOf)
	if err != nil {
		logger.Error("trial balance failed", slog.Any("error", err))
		return nil, err
	}
	warnings = append(warnings, tb.Warnings...)

	for _, w := range warnings {
		logger.Warn("gl integrity warning",
			slog.String("code", w.Code),
			slog.String("entry_id", w.EntryID),
			slog.String("account_id", w.AccountID),
			slog.String("message", w.Message))
	}
	// trial balance warnings are already counted by the reporting service
	for _, w := range warnings {
		if w.Code == domain.WarningUnbalancedPosting {
			j.metrics.AddWarnings(w.Code, 1)
		}
	}
	logger.Info("gl integrity check finished",
		slog.Int("warnings", len(warnings)),
		slog.Bool("trial_balance_balanced", tb.IsBalanced))
	return warnings, nil
}

type entrySums struct {
	debit, credit decimal.Decimal
}

// unbalancedEntries groups ledger rows by entry and reports entries whose rows do not net to zero.
func (j *GLIntegrityJob) unbalancedEntries(ctx context.Context, asOf time.Time) ([]domain.DataIntegrityWarning, error) {
	sums := make(map[string]*entrySums)
	var order []string
	for row, err := range j.ledger.QueryRows(ctx, domain.LedgerFilter{To: &asOf}) {
		if err != nil {
			return nil, err
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		s, ok := sums[row.EntryID]
		if !ok {
			s = &entrySums{debit: decimal.Zero, credit: decimal.Zero}
			sums[row.EntryID] = s
			order = append(order, row.EntryID)
		}
		s.debit = s.debit.Add(row.Debit)
		s.credit = s.credit.Add(row.Credit)
	}

	var warnings []domain.DataIntegrityWarning
	for _, id := range order {
		s := sums[id]
		if s.debit.Equal(s.credit) {
			continue
		}
		warnings = append(warnings, domain.DataIntegrityWarning{
			Code:    domain.WarningUnbalancedPosting,
			EntryID: id,
			Message: fmt.Sprintf("ledger rows of entry %s are not balanced: debits %s ≠ credits %s",
				id, s.debit.StringFixed(2), s.credit.StringFixed(2)),
		})
	}
	return warnings, nil
}
