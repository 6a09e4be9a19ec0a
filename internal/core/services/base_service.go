package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/middleware"
	"github.com/SscSPs/ledger_engine/internal/platform/metrics"
)

// BaseService provides common functionality for all services
type BaseService struct {
	Publisher portssvc.EventPublisher
	Metrics   *metrics.Metrics
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	return middleware.GetLoggerFromCtx(ctx)
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.Error(msg, args...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Info(msg, keyvals...)
}

// LogWarn logs a warning with consistent formatting
func (s *BaseService) LogWarn(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Warn(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Debug(msg, keyvals...)
}

// publish emits events for a transition that has already committed. Delivery failures
// are logged and never undo the transition.
func (s *BaseService) publish(ctx context.Context, events ...domain.JournalEvent) {
	if s.Publisher == nil {
		return
	}
	for _, event := range events {
		if err := s.Publisher.Publish(ctx, event); err != nil {
			s.LogError(ctx, err, "Failed to publish journal event",
				slog.String("event_type", string(event.Type)),
				slog.String("entry_id", event.EntryID))
			continue
		}
		s.Metrics.IncEvent(string(event.Type), "published")
	}
}

func newEvent(eventType domain.JournalEventType, entryID, actorID string, occurredAt time.Time) domain.JournalEvent {
	return domain.JournalEvent{
		EventID:    uuid.NewString(),
		Type:       eventType,
		EntryID:    entryID,
		Actor:      actorID,
		OccurredAt: occurredAt,
	}
}
