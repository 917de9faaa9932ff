package dto

import (
	"time"

	"github.com/opsdash/ledgercore/internal/core/domain"
)

// CreateAccountRequest defines the expected JSON for creating an account.
type CreateAccountRequest struct {
	Code        string             `json:"code" binding:"required,alphanum,max=10"`
	Name        string             `json:"name" binding:"required,max=100"`
	AccountType domain.AccountType `json:"accountType" binding:"required,oneof=ASSET LIABILITY EQUITY REVENUE EXPENSE"`
	Description string             `json:"description" binding:"max=255"`
}

// AccountResponse defines the account data returned by the API.
type AccountResponse struct {
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	AccountType string    `json:"accountType"`
	NormalSide  string    `json:"normalSide"`
	Description string    `json:"description,omitempty"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ToAccountResponse converts a domain.Account to its response DTO.
func ToAccountResponse(a *domain.Account) AccountResponse {
	return AccountResponse{
		Code:        a.Code,
		Name:        a.Name,
		AccountType: string(a.AccountType),
		NormalSide:  string(a.AccountType.NormalSide()),
		Description: a.Description,
		IsActive:    a.IsActive,
		CreatedAt:   a.CreatedAt,
	}
}

// ToAccountResponses converts a slice of accounts.
func ToAccountResponses(accounts []domain.Account) []AccountResponse {
	responses := make([]AccountResponse, len(accounts))
	for i := range accounts {
		responses[i] = ToAccountResponse(&accounts[i])
	}
	return responses
}
