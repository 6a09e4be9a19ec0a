package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
)

// AsynqPublisher enqueues journal events as asynq tasks.
type AsynqPublisher struct {
	client *asynq.Client
}

// NewAsynqPublisher constructs a publisher over a new asynq client.
func NewAsynqPublisher(redisOpts asynq.RedisConnOpt) *AsynqPublisher {
	return &AsynqPublisher{client: asynq.NewClient(redisOpts)}
}

var _ portssvc.EventPublisher = (*AsynqPublisher)(nil)

// Publish enqueues event. An event that is already queued is not an error.
func (p *AsynqPublisher) Publish(ctx context.Context, event domain.JournalEvent) error {
	task, err := NewJournalEventTask(event)
	if err != nil {
		return err
	}
	if _, err := p.client.EnqueueContext(ctx, task); err != nil {
		if errors.Is(err, asynq.ErrTaskIDConflict) {
			return nil
		}
		return fmt.Errorf("enqueue %s for entry %s: %w", event.Type, event.EntryID, err)
	}
	return nil
}

// Close releases client resources.
func (p *AsynqPublisher) Close() error {
	return p.client.Close()
}

// LogPublisher writes events to the log. It stands in for the queue when Redis is absent.
type LogPublisher struct {
	logger *slog.Logger
}

// NewLogPublisher constructs a LogPublisher; a nil logger means slog.Default().
func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogPublisher{logger: logger}
}

var _ portssvc.EventPublisher = (*LogPublisher)(nil)

// Publish logs event at Info level.
func (p *LogPublisher) Publish(ctx context.Context, event domain.JournalEvent) error {
	p.logger.InfoContext(ctx, "journal event",
		slog.String("event_id", event.EventID),
		slog.String("type", string(event.Type)),
		slog.String("entry_id", event.EntryID),
		slog.String("related_entry_id", event.RelatedEntryID),
		slog.String("actor", event.Actor),
		slog.Time("occurred_at", event.OccurredAt))
	return nil
}
