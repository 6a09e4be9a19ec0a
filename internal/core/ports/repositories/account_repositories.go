package repositories

import (
	"context"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
)

// ChartOfAccountsReader is the read-only view of the chart of accounts consumed by the ledger core.
// Account maintenance happens outside this service.
type ChartOfAccountsReader interface {
	// GetAccount retrieves an account by its unique code.
	GetAccount(ctx context.Context, code string) (*domain.Account, error)

	// FindAccountByID retrieves an account by its identifier.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// FindAccountsByIDs retrieves multiple accounts by their IDs. Unknown IDs are absent from the map.
	FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)

	// ListAccounts retrieves accounts matching the filter, ordered by code.
	ListAccounts(ctx context.Context, filter domain.AccountFilter) ([]domain.Account, error)
}
