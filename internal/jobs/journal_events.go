package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_engine/internal/platform/metrics"
)

// JournalEventHandler consumes journal events. For posted entries it confirms the ledger
// holds exactly one row per journal line.
type JournalEventHandler struct {
	journals portsrepo.JournalReader
	ledger   portsrepo.LedgerReader
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

// NewJournalEventHandler constructs the handler.
func NewJournalEventHandler(journals portsrepo.JournalReader, ledger portsrepo.LedgerReader, logger *slog.Logger, m *metrics.Metrics) *JournalEventHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &JournalEventHandler{journals: journals, ledger: ledger, logger: logger, metrics: m}
}

// Handle processes TaskJournalEvent tasks.
func (h *JournalEventHandler) Handle(ctx context.Context, t *asynq.Task) error {
	var event domain.JournalEvent
	if err := json.Unmarshal(t.Payload(), &event); err != nil {
		return fmt.Errorf("decode journal event: %v: %w", err, asynq.SkipRetry)
	}
	return h.HandleEvent(ctx, event)
}

// HandleEvent processes one decoded event.
func (h *JournalEventHandler) HandleEvent(ctx context.Context, event domain.JournalEvent) error {
	logger := h.logger.With(
		slog.String("event_id", event.EventID),
		slog.String("type", string(event.Type)),
		slog.String("entry_id", event.EntryID))
	h.metrics.IncEvent(string(event.Type), "consumed")

	if event.Type != domain.EventJournalPosted {
		logger.Debug("journal event received")
		return nil
	}

	entry, err := h.journals.FindJournalEntryByID(ctx, event.EntryID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("posted entry no longer exists")
			return fmt.Errorf("entry %s: %v: %w", event.EntryID, err, asynq.SkipRetry)
		}
		return fmt.Errorf("load entry %s: %w", event.EntryID, err)
	}
	rows, err := h.ledger.CountRowsByEntry(ctx, event.EntryID)
	if err != nil {
		return fmt.Errorf("count ledger rows of %s: %w", event.EntryID, err)
	}

	if rows != len(entry.Lines) {
		logger.Warn("ledger rows do not match journal lines",
			slog.Int("rows", rows),
			slog.Int("lines", len(entry.Lines)))
		h.metrics.AddWarnings(domain.WarningPostingRowMismatch, 1)
		return nil
	}
	logger.Info("posting confirmed", slog.Int("rows", rows))
	return nil
}
