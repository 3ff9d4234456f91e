package dto

import (
	"time"

	"github.com/finbooks/books_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest defines the payload for creating a chart-of-accounts node.
type CreateAccountRequest struct {
	Code             string             `json:"code" binding:"required"`
	Name             string             `json:"name" binding:"required"`
	AccountType      domain.AccountType `json:"accountType" binding:"required"`
	ParentAccountID  string             `json:"parentAccountID"`
	Description      string             `json:"description"`
	OpeningBalance   decimal.Decimal    `json:"openingBalance"`
	IsCashEquivalent bool               `json:"isCashEquivalent"`
}

// UpdateAccountRequest defines the payload for updating account details.
// Nil fields are left unchanged. Code, type and opening balance are fixed
// after creation.
type UpdateAccountRequest struct {
	Name             *string `json:"name,omitempty"`
	ParentAccountID  *string `json:"parentAccountID,omitempty"`
	Description      *string `json:"description,omitempty"`
	IsCashEquivalent *bool   `json:"isCashEquivalent,omitempty"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID        string             `json:"accountID"`
	Code             string             `json:"code"`
	Name             string             `json:"name"`
	AccountType      domain.AccountType `json:"accountType"`
	ParentAccountID  string             `json:"parentAccountID,omitempty"`
	Description      string             `json:"description,omitempty"`
	OpeningBalance   decimal.Decimal    `json:"openingBalance"`
	CurrentBalance   decimal.Decimal    `json:"currentBalance"`
	IsSystemAccount  bool               `json:"isSystemAccount"`
	IsCashEquivalent bool               `json:"isCashEquivalent"`
	IsActive         bool               `json:"isActive"`
	CreatedAt        time.Time          `json:"createdAt"`
}

// VerifyBalanceResponse reports the outcome of an account balance verification.
type VerifyBalanceResponse struct {
	AccountID       string          `json:"accountID"`
	CurrentBalance  decimal.Decimal `json:"currentBalance"`
	ComputedBalance decimal.Decimal `json:"computedBalance"`
	Consistent      bool            `json:"consistent"`
}

// ToAccountResponse converts a domain Account to its response DTO.
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:        acc.AccountID,
		Code:             acc.Code,
		Name:             acc.Name,
		AccountType:      acc.AccountType,
		ParentAccountID:  acc.ParentAccountID,
		Description:      acc.Description,
		OpeningBalance:   acc.OpeningBalance,
		CurrentBalance:   acc.CurrentBalance,
		IsSystemAccount:  acc.IsSystemAccount,
		IsCashEquivalent: acc.IsCashEquivalent,
		IsActive:         acc.IsActive,
		CreatedAt:        acc.CreatedAt,
	}
}

// ToAccountResponses converts a slice of domain Accounts to response DTOs.
func ToAccountResponses(accounts []domain.Account) []AccountResponse {
	responses := make([]AccountResponse, len(accounts))
	for i := range accounts {
		responses[i] = ToAccountResponse(&accounts[i])
	}
	return responses
}
