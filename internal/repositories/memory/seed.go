package memory

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
)

// DecodeAccounts reads a JSON array of accounts. A missing normal balance is derived
// from the category and accounts are active unless the document says otherwise.
func DecodeAccounts(r io.Reader) ([]domain.Account, error) {
	var raw []struct {
		domain.Account
		IsActive *bool `json:"isActive"`
	}
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode accounts: %w", err)
	}

	accounts := make([]domain.Account, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for i, item := range raw {
		a := item.Account
		if a.AccountID == "" || a.Code == "" {
			return nil, fmt.Errorf("account #%d: accountID and code are required", i+1)
		}
		if _, dup := seen[a.AccountID]; dup {
			return nil, fmt.Errorf("account #%d: duplicate accountID %s", i+1, a.AccountID)
		}
		seen[a.AccountID] = struct{}{}

		switch a.Category {
		case domain.Asset, domain.Expense:
			if a.NormalBalance == "" {
				a.NormalBalance = domain.NormalDebit
			}
		case domain.Liability, domain.Equity, domain.Revenue:
			if a.NormalBalance == "" {
				a.NormalBalance = domain.NormalCredit
			}
		default:
			return nil, fmt.Errorf("account %s: unknown category %q", a.AccountID, a.Category)
		}
		a.IsActive = item.IsActive == nil || *item.IsActive
		accounts = append(accounts, a)
	}
	return accounts, nil
}

// SeedAccountsFromFile loads a JSON chart of accounts into the store and returns how
// many accounts it holds.
func (s *Store) SeedAccountsFromFile(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open accounts seed: %w", err)
	}
	defer f.Close()

	accounts, err := DecodeAccounts(f)
	if err != nil {
		return 0, err
	}
	s.SeedAccounts(accounts...)
	return len(accounts), nil
}
