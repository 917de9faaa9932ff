package services

import (
	"context"

	"github.com/opsdash/ledgercore/internal/core/domain"
	"github.com/opsdash/ledgercore/internal/dto"
)

// AccountSvc manages the chart of accounts.
type AccountSvc interface {
	CreateAccount(ctx context.Context, req dto.CreateAccountRequest, userID string) (*domain.Account, error)
	GetAccountByCode(ctx context.Context, code string) (*domain.Account, error)
	GetAccountsByCodes(ctx context.Context, codes []string) (map[string]domain.Account, error)
	ListAccounts(ctx context.Context, activeOnly bool) ([]domain.Account, error)

	// DeactivateAccount retires an account from new postings. Accounts are
	// never deleted.
	DeactivateAccount(ctx context.Context, code string, userID string) error
}
