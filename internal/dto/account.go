package dto

import (
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
)

// ListAccountsParams defines query parameters for listing the chart of accounts.
type ListAccountsParams struct {
	Category   domain.AccountCategory `form:"category" binding:"omitempty,oneof=ASSET LIABILITY EQUITY REVENUE EXPENSE"`
	ActiveOnly bool                   `form:"activeOnly"`
	Code       string                 `form:"code"`
}

// ToFilter converts the query into an account filter.
func (p ListAccountsParams) ToFilter() domain.AccountFilter {
	return domain.AccountFilter{Category: p.Category, ActiveOnly: p.ActiveOnly}
}

// AccountResponse defines the data returned for a chart of accounts entry.
type AccountResponse struct {
	AccountID       string                 `json:"accountID"`
	Code            string                 `json:"code"`
	Name            string                 `json:"name"`
	Category        domain.AccountCategory `json:"category"`
	AccountType     string                 `json:"accountType"`
	NormalBalance   domain.NormalBalance   `json:"normalBalance"`
	ParentAccountID string                 `json:"parentAccountID,omitempty"`
	Description     string                 `json:"description,omitempty"`
	IsActive        bool                   `json:"isActive"`
	CreatedAt       time.Time              `json:"createdAt"`
	LastUpdatedAt   time.Time              `json:"lastUpdatedAt"`
}

// ToAccountResponse converts a domain account to its response form.
func ToAccountResponse(a domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:       a.AccountID,
		Code:            a.Code,
		Name:            a.Name,
		Category:        a.Category,
		AccountType:     a.AccountType,
		NormalBalance:   a.NormalBalance,
		ParentAccountID: a.ParentAccountID,
		Description:     a.Description,
		IsActive:        a.IsActive,
		CreatedAt:       a.CreatedAt,
		LastUpdatedAt:   a.LastUpdatedAt,
	}
}

// ListAccountsResponse wraps a list of accounts.
type ListAccountsResponse struct {
	Accounts []AccountResponse `json:"accounts"`
}

// ToListAccountsResponse converts accounts to the list response.
func ToListAccountsResponse(accounts []domain.Account) ListAccountsResponse {
	out := make([]AccountResponse, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, ToAccountResponse(a))
	}
	return ListAccountsResponse{Accounts: out}
}
