package jobs_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SscSPs/ledger_engine/internal/jobs"
)

func TestAsynqPublisher_EnqueuesOncePerEvent(t *testing.T) {
	mr := miniredis.RunT(t)
	opts := asynq.RedisClientOpt{Addr: mr.Addr()}
	publisher := jobs.NewAsynqPublisher(opts)
	defer publisher.Close()

	event := postedEvent("e1")
	require.NoError(t, publisher.Publish(context.Background(), event))
	require.NoError(t, publisher.Publish(context.Background(), event), "re-publishing is not an error")

	inspector := asynq.NewInspector(opts)
	defer inspector.Close()
	tasks, err := inspector.ListPendingTasks(jobs.QueueDefault)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, jobs.TaskJournalEvent, tasks[0].Type)
	assert.Equal(t, event.EventID, tasks[0].ID)
}

func TestQueueInspector_UnknownQueue(t *testing.T) {
	mr := miniredis.RunT(t)
	q := jobs.NewQueueInspector(asynq.RedisClientOpt{Addr: mr.Addr()})
	defer q.Close()

	status, err := q.Status()
	require.NoError(t, err)
	assert.Equal(t, jobs.QueueStatus{Queue: jobs.QueueDefault}, status)
}

func TestLogPublisher(t *testing.T) {
	var buf bytes.Buffer
	publisher := jobs.NewLogPublisher(slog.New(slog.NewJSONHandler(&buf, nil)))

	require.NoError(t, publisher.Publish(context.Background(), postedEvent("e1")))
	assert.Contains(t, buf.String(), `"type":"journal.posted"`)
	assert.Contains(t, buf.String(), `"entry_id":"e1"`)
}
