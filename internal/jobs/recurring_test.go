package jobs_test

import (
	"context"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/jobs"
)

type RecurringJobTestSuite struct {
	suite.Suite
	ctx      context.Context
	env      *ledgerEnv
	job      *jobs.RecurringJob
	template *domain.RecurringTemplate
}

func (s *RecurringJobTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.env = newLedgerEnv()
	s.job = jobs.NewRecurringJob(s.env.svc.Recurring, nil, s.env.metrics)

	amount := decimal.RequireFromString("400")
	template, err := s.env.svc.Recurring.CreateTemplate(s.ctx, domain.RecurringTemplateDraft{
		Code:      "RENT",
		Frequency: domain.FrequencyWeekly,
		StartDate: day(1),
		Lines: []domain.JournalLine{
			{AccountID: "A200", Debit: amount, Credit: decimal.Zero},
			{AccountID: "A100", Debit: decimal.Zero, Credit: amount},
		},
	}, "user-1")
	s.Require().NoError(err)
	_, err = s.env.svc.Recurring.ApproveTemplate(s.ctx, template.TemplateID, "approver-1")
	s.Require().NoError(err)
	s.template = template
}

func TestRecurringJobTestSuite(t *testing.T) {
	suite.Run(t, new(RecurringJobTestSuite))
}

func (s *RecurringJobTestSuite) TestRunCatchesUpMissedWeeks() {
	run, err := s.job.Run(s.ctx, day(15))
	s.Require().NoError(err)
	s.Require().Len(run.Generated, 3)
	s.Equal(day(1), run.Generated[0].EntryDate)
	s.Equal(day(15), run.Generated[2].EntryDate)

	entry, err := s.env.svc.Journal.GetJournalEntry(s.ctx, run.Generated[0].EntryID)
	s.Require().NoError(err)
	s.Equal(domain.Draft, entry.Status)
	s.Equal(domain.SourceRecurring, entry.Source)
	s.Equal(jobs.RecurringActor, entry.CreatedBy)

	s.Equal(1.0, s.env.counterValue("ledger_jobs_total",
		map[string]string{"job": "recurring_generate", "status": "success"}))
}

func (s *RecurringJobTestSuite) TestSecondRunIsIdle() {
	_, err := s.job.Run(s.ctx, day(15))
	s.Require().NoError(err)

	run, err := s.job.Run(s.ctx, day(15))
	s.Require().NoError(err)
	s.Empty(run.Generated)
}

func (s *RecurringJobTestSuite) TestHandleUsesPayloadDate() {
	asOf := day(8)
	task, err := jobs.NewRecurringGenerateTask(jobs.RecurringPayload{AsOf: &asOf})
	s.Require().NoError(err)
	s.Require().NoError(s.job.Handle(s.ctx, task))

	template, err := s.env.svc.Recurring.GetTemplate(s.ctx, s.template.TemplateID)
	s.Require().NoError(err)
	s.Equal(2, template.GeneratedCount)
	s.Equal(day(15), template.NextRunDate)
}

func TestRecurringJob_BadPayload(t *testing.T) {
	env := newLedgerEnv()
	job := jobs.NewRecurringJob(env.svc.Recurring, nil, nil)

	err := job.Handle(context.Background(), asynq.NewTask(jobs.TaskRecurringGenerate, []byte("{")))
	assert.ErrorIs(t, err, asynq.SkipRetry)
}

func TestRecurringJob_NotConfigured(t *testing.T) {
	job := jobs.NewRecurringJob(nil, nil, nil)

	err := job.Handle(context.Background(), asynq.NewTask(jobs.TaskRecurringGenerate, nil))
	require.Error(t, err)
}
