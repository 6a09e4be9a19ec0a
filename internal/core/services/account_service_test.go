package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_engine/internal/core/services"
)

type MockChartOfAccounts struct {
	mock.Mock
}

var _ portsrepo.ChartOfAccountsReader = (*MockChartOfAccounts)(nil)

func (m *MockChartOfAccounts) GetAccount(ctx context.Context, code string) (*domain.Account, error) {
	args := m.Called(ctx, code)
	acc, _ := args.Get(0).(*domain.Account)
	return acc, args.Error(1)
}

func (m *MockChartOfAccounts) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	acc, _ := args.Get(0).(*domain.Account)
	return acc, args.Error(1)
}

func (m *MockChartOfAccounts) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, accountIDs)
	accs, _ := args.Get(0).(map[string]domain.Account)
	return accs, args.Error(1)
}

func (m *MockChartOfAccounts) ListAccounts(ctx context.Context, filter domain.AccountFilter) ([]domain.Account, error) {
	args := m.Called(ctx, filter)
	accs, _ := args.Get(0).([]domain.Account)
	return accs, args.Error(1)
}

func TestAccountService_Lookups(t *testing.T) {
	ctx := context.Background()
	f := newLedgerFixture()

	acc, err := f.svc.Account.GetAccountByID(ctx, "A100")
	require.NoError(t, err)
	assert.Equal(t, "Cash", acc.Name)

	acc, err = f.svc.Account.GetAccountByCode(ctx, "E200")
	require.NoError(t, err)
	assert.Equal(t, "Rent", acc.Name)

	_, err = f.svc.Account.GetAccountByID(ctx, "nope")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.Equal(t, apperrors.CodeAccountNotFound, apperrors.CodeOf(err))

	_, err = f.svc.Account.GetAccountByCode(ctx, "nope")
	assert.Equal(t, apperrors.CodeAccountNotFound, apperrors.CodeOf(err))
}

func TestAccountService_ListAccounts(t *testing.T) {
	ctx := context.Background()
	f := newLedgerFixture()

	all, err := f.svc.Account.ListAccounts(ctx, domain.AccountFilter{})
	require.NoError(t, err)
	assert.Len(t, all, len(testChart))
	for i := 1; i < len(all); i++ {
		assert.Less(t, all[i-1].Code, all[i].Code)
	}

	assets, err := f.svc.Account.ListAccounts(ctx, domain.AccountFilter{Category: domain.Asset, ActiveOnly: true})
	require.NoError(t, err)
	codes := make([]string, 0, len(assets))
	for _, a := range assets {
		codes = append(codes, a.Code)
	}
	assert.Equal(t, []string{"A100", "A150"}, codes)
}

func TestAccountService_RepositoryFailure(t *testing.T) {
	ctx := context.Background()
	repo := new(MockChartOfAccounts)
	boom := errors.New("connection reset")
	repo.On("FindAccountByID", ctx, "A100").Return(nil, boom).Once()
	repo.On("ListAccounts", ctx, domain.AccountFilter{}).Return(nil, boom).Once()

	svc := services.NewAccountService(repo)

	_, err := svc.GetAccountByID(ctx, "A100")
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, apperrors.CodeOf(err))

	_, err = svc.ListAccounts(ctx, domain.AccountFilter{})
	assert.ErrorIs(t, err, boom)

	repo.AssertExpectations(t)
}
