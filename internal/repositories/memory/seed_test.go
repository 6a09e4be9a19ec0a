package memory

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
)

func TestDecodeAccounts(t *testing.T) {
	doc := `[
		{"accountID": "cash", "code": "1000", "name": "Cash", "category": "ASSET", "accountType": "Current Asset"},
		{"accountID": "sales", "code": "4000", "name": "Sales", "category": "REVENUE", "accountType": "Revenue"},
		{"accountID": "old", "code": "1900", "name": "Old", "category": "ASSET", "normalBalance": "CREDIT", "isActive": false}
	]`

	accounts, err := DecodeAccounts(strings.NewReader(doc))
	require.NoError(t, err)
	require.Len(t, accounts, 3)

	assert.Equal(t, domain.NormalDebit, accounts[0].NormalBalance)
	assert.True(t, accounts[0].IsActive)
	assert.Equal(t, domain.NormalCredit, accounts[1].NormalBalance)
	assert.Equal(t, domain.NormalCredit, accounts[2].NormalBalance)
	assert.False(t, accounts[2].IsActive)
}

func TestDecodeAccounts_Rejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"not json", `{`, "decode accounts"},
		{"missing code", `[{"accountID": "a", "category": "ASSET"}]`, "required"},
		{"duplicate", `[{"accountID": "a", "code": "1", "category": "ASSET"}, {"accountID": "a", "code": "2", "category": "ASSET"}]`, "duplicate"},
		{"bad category", `[{"accountID": "a", "code": "1", "category": "STUFF"}]`, "unknown category"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeAccounts(strings.NewReader(tt.doc))
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestStore_SeedAccountsFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "accounts.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"accountID": "cash", "code": "1000", "name": "Cash", "category": "ASSET"}]`), 0o600))

	store := NewStore()
	n, err := store.SeedAccountsFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	acc, err := store.NewRepositoryProvider().AccountRepo.GetAccount(context.Background(), "1000")
	require.NoError(t, err)
	assert.Equal(t, "cash", acc.AccountID)

	_, err = store.SeedAccountsFromFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorContains(t, err, "open accounts seed")
}
