package services

import (
	"context"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
)

// AccountSvc exposes the read-only chart of accounts.
type AccountSvc interface {
	GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error)
	GetAccountByCode(ctx context.Context, code string) (*domain.Account, error)
	ListAccounts(ctx context.Context, filter domain.AccountFilter) ([]domain.Account, error)
}
