package jobs

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
)

const (
	// QueueDefault is the queue journal events and ledger jobs run on.
	QueueDefault = "ledger"
	// TaskJournalEvent carries a committed journal transition.
	TaskJournalEvent = "ledger:journal_event"
	// TaskGLIntegrity runs the general ledger integrity check.
	TaskGLIntegrity = "ledger:gl_integrity"
	// TaskRecurringGenerate creates the entries of due recurring templates.
	TaskRecurringGenerate = "ledger:recurring_generate"
)

// NewJournalEventTask constructs the task for a journal event. The event id becomes the
// task id so a re-published event is enqueued once.
func NewJournalEventTask(event domain.JournalEvent) (*asynq.Task, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("marshal journal event: %w", err)
	}
	return asynq.NewTask(TaskJournalEvent, data, asynq.TaskID(event.EventID), asynq.Queue(QueueDefault), asynq.MaxRetry(5)), nil
}

// GLIntegrityPayload selects the cut-off date of an integrity run. A nil AsOf means today.
type GLIntegrityPayload struct {
	AsOf *time.Time `json:"asOf,omitempty"`
}

// NewGLIntegrityTask constructs the integrity check task.
func NewGLIntegrityTask(payload GLIntegrityPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal integrity payload: %w", err)
	}
	return asynq.NewTask(TaskGLIntegrity, data, asynq.Queue(QueueDefault)), nil
}

// RecurringPayload selects the run date of a recurring generation. A nil AsOf means today.
type RecurringPayload struct {
	AsOf *time.Time `json:"asOf,omitempty"`
}

// NewRecurringGenerateTask constructs the recurring generation task.
func NewRecurringGenerateTask(payload RecurringPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal recurring payload: %w", err)
	}
	return asynq.NewTask(TaskRecurringGenerate, data, asynq.Queue(QueueDefault), asynq.MaxRetry(3)), nil
}
