package services_test

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/core/services"
	"github.com/SscSPs/ledger_engine/internal/platform/lock"
	"github.com/SscSPs/ledger_engine/internal/repositories/memory"
)

const actor = "user-1"

// Chart used across service tests. Ids double as codes to keep assertions readable.
var testChart = []domain.Account{
	{AccountID: "A100", Code: "A100", Name: "Cash", Category: domain.Asset, AccountType: domain.TypeCurrentAsset, NormalBalance: domain.NormalDebit, IsActive: true},
	{AccountID: "A150", Code: "A150", Name: "Equipment", Category: domain.Asset, AccountType: domain.TypeFixedAsset, NormalBalance: domain.NormalDebit, IsActive: true},
	{AccountID: "L100", Code: "L100", Name: "Payables", Category: domain.Liability, AccountType: domain.TypeCurrentLiability, NormalBalance: domain.NormalCredit, IsActive: true},
	{AccountID: "A200", Code: "A200", Name: "Owner Capital", Category: domain.Equity, AccountType: domain.TypeEquity, NormalBalance: domain.NormalCredit, IsActive: true},
	{AccountID: "R100", Code: "R100", Name: "Sales", Category: domain.Revenue, AccountType: domain.TypeRevenue, NormalBalance: domain.NormalCredit, IsActive: true},
	{AccountID: "R900", Code: "R900", Name: "Interest Income", Category: domain.Revenue, AccountType: domain.TypeOtherIncome, NormalBalance: domain.NormalCredit, IsActive: true},
	{AccountID: "E100", Code: "E100", Name: "Cost of Sales", Category: domain.Expense, AccountType: domain.TypeCostOfGoodsSold, NormalBalance: domain.NormalDebit, IsActive: true},
	{AccountID: "E200", Code: "E200", Name: "Rent", Category: domain.Expense, AccountType: domain.TypeOperatingExpense, NormalBalance: domain.NormalDebit, IsActive: true},
	{AccountID: "E900", Code: "E900", Name: "Bank Fees", Category: domain.Expense, AccountType: domain.TypeOtherExpense, NormalBalance: domain.NormalDebit, IsActive: true},
	{AccountID: "X999", Code: "X999", Name: "Retired", Category: domain.Asset, AccountType: domain.TypeCurrentAsset, NormalBalance: domain.NormalDebit, IsActive: false},
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.JournalEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, event domain.JournalEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) types() []domain.JournalEventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]domain.JournalEventType, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

// ledgerFixture wires every service over one memory store.
type ledgerFixture struct {
	store     *memory.Store
	locker    *lock.LocalLocker
	publisher *recordingPublisher
	svc       *portssvc.ServiceContainer
}

func newLedgerFixture() *ledgerFixture {
	store := memory.NewStore()
	store.SeedAccounts(testChart...)
	repos := store.NewRepositoryProvider()
	locker := lock.NewLocalLocker()
	publisher := &recordingPublisher{}

	return &ledgerFixture{
		store:     store,
		locker:    locker,
		publisher: publisher,
		svc: &portssvc.ServiceContainer{
			Account: services.NewAccountService(repos.AccountRepo),
			Journal: services.NewJournalService(repos.AccountRepo, repos.JournalRepo,
				services.WithJournalEventPublisher(publisher)),
			Posting: services.NewPostingService(repos.TxManager, locker,
				services.WithPostingEventPublisher(publisher),
				services.WithPostRetryDelay(time.Millisecond)),
			Ledger:    services.NewLedgerService(repos.LedgerRepo),
			Reporting: services.NewReportingService(repos.AccountRepo, repos.LedgerRepo),
			Period:    services.NewPeriodService(repos.PeriodRepo, repos.TxManager),
			Recurring: services.NewRecurringService(repos.AccountRepo, repos.TemplateRepo, repos.TxManager,
				services.WithRecurringEventPublisher(publisher)),
		},
	}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := date(y, m, d)
	return &t
}

func debit(accountID, amount string) domain.JournalLine {
	return domain.JournalLine{AccountID: accountID, Debit: dec(amount), Credit: decimal.Zero}
}

func credit(accountID, amount string) domain.JournalLine {
	return domain.JournalLine{AccountID: accountID, Debit: decimal.Zero, Credit: dec(amount)}
}

func draftOn(entryDate time.Time, lines ...domain.JournalLine) domain.JournalEntryDraft {
	return domain.JournalEntryDraft{EntryDate: entryDate, Description: "test entry", Lines: lines}
}

// postEntry drives an entry through create, approve and post.
func (f *ledgerFixture) postEntry(ctx context.Context, draft domain.JournalEntryDraft) (*domain.JournalEntry, error) {
	entry, err := f.svc.Journal.CreateJournalEntry(ctx, draft, actor)
	if err != nil {
		return nil, err
	}
	if _, err := f.svc.Journal.ApproveJournalEntry(ctx, entry.EntryID, "approver-1"); err != nil {
		return nil, err
	}
	return f.svc.Posting.PostJournalEntry(ctx, entry.EntryID, actor)
}

func (f *ledgerFixture) rowCount(ctx context.Context, entryID string) int {
	n := 0
	for row, err := range f.svc.Ledger.QueryRows(ctx, domain.LedgerFilter{}) {
		if err != nil {
			panic(err)
		}
		if row.EntryID == entryID {
			n++
		}
	}
	return n
}
