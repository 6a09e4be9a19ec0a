package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
)

// accountService serves chart of accounts lookups. Accounts are maintained elsewhere.
type accountService struct {
	BaseService
	accountRepo portsrepo.ChartOfAccountsReader
}

// NewAccountService creates a new chart of accounts service.
func NewAccountService(accountRepo portsrepo.ChartOfAccountsReader) portssvc.AccountSvc {
	return &accountService{accountRepo: accountRepo}
}

var _ portssvc.AccountSvc = (*accountService)(nil)

func (s *accountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, s.lookupError(ctx, err, "account "+accountID+" not found", slog.String("account_id", accountID))
	}
	return account, nil
}

func (s *accountService) GetAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	account, err := s.accountRepo.GetAccount(ctx, code)
	if err != nil {
		return nil, s.lookupError(ctx, err, "account with code "+code+" not found", slog.String("account_code", code))
	}
	return account, nil
}

// ListAccounts returns accounts ordered by code.
func (s *accountService) ListAccounts(ctx context.Context, filter domain.AccountFilter) ([]domain.Account, error) {
	accounts, err := s.accountRepo.ListAccounts(ctx, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts", slog.String("category", string(filter.Category)))
		return nil, err
	}
	return accounts, nil
}

func (s *accountService) lookupError(ctx context.Context, err error, notFound string, attr slog.Attr) error {
	if errors.Is(err, apperrors.ErrNotFound) {
		s.LogDebug(ctx, "Account not found", attr)
		return apperrors.NewNotFound(apperrors.CodeAccountNotFound, notFound)
	}
	s.LogError(ctx, err, "Failed to load account", attr)
	return err
}
