package repositories

import (
	"context"

	"github.com/opsdash/ledgercore/internal/core/domain"
)

// AccountReader defines read operations for the chart of accounts.
type AccountReader interface {
	// FindAccountByCode retrieves a single account by its stable code.
	FindAccountByCode(ctx context.Context, code string) (*domain.Account, error)

	// FindAccountsByCodes retrieves several accounts at once, keyed by code.
	// Codes with no matching account are absent from the map.
	FindAccountsByCodes(ctx context.Context, codes []string) (map[string]domain.Account, error)

	// ListAccounts retrieves the chart of accounts ordered by code.
	// When activeOnly is set, deactivated accounts are excluded.
	ListAccounts(ctx context.Context, activeOnly bool) ([]domain.Account, error)
}

// AccountWriter defines write operations for the chart of accounts.
type AccountWriter interface {
	// SaveAccount persists a new account. Duplicate codes fail with ErrDuplicate.
	SaveAccount(ctx context.Context, account domain.Account) error

	// DeactivateAccount flips the active flag. Accounts are never deleted,
	// historical postings must remain attributable.
	DeactivateAccount(ctx context.Context, code string) error
}

// AccountRepository combines account read and write operations.
type AccountRepository interface {
	AccountReader
	AccountWriter
}
