package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/opsdash/ledgercore/internal/apperrors"
	"github.com/opsdash/ledgercore/internal/core/domain"
	portsrepo "github.com/opsdash/ledgercore/internal/core/ports/repositories"
	portssvc "github.com/opsdash/ledgercore/internal/core/ports/services"
	"github.com/opsdash/ledgercore/internal/dto"
)

// accountService manages the chart of accounts.
type accountService struct {
	BaseService
	accountRepo portsrepo.AccountRepository
}

// NewAccountService creates a new AccountSvc.
func NewAccountService(accountRepo portsrepo.AccountRepository) portssvc.AccountSvc {
	return &accountService{accountRepo: accountRepo}
}

var _ portssvc.AccountSvc = (*accountService)(nil)

// CreateAccount adds a new account to the chart. Codes are stable and unique;
// a duplicate code fails with ErrDuplicate.
func (s *accountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, userID string) (*domain.Account, error) {
	if !req.AccountType.Valid() {
		return nil, fmt.Errorf("%w: unknown account type %q", apperrors.ErrValidation, req.AccountType)
	}

	now := time.Now().UTC()
	account := domain.Account{
		Code:        req.Code,
		Name:        req.Name,
		AccountType: req.AccountType,
		Description: req.Description,
		IsActive:    true,
		AuditFields: domain.AuditFields{
			CreatedAt: now,
			CreatedBy: userID,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		s.LogError(ctx, err, "Failed to save account", slog.String("code", req.Code))
		return nil, err
	}

	s.LogInfo(ctx, "Account created", slog.String("code", account.Code), slog.String("type", string(account.AccountType)))
	return &account, nil
}

func (s *accountService) GetAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	return account, nil
}

func (s *accountService) GetAccountsByCodes(ctx context.Context, codes []string) (map[string]domain.Account, error) {
	return s.accountRepo.FindAccountsByCodes(ctx, codes)
}

func (s *accountService) ListAccounts(ctx context.Context, activeOnly bool) ([]domain.Account, error) {
	return s.accountRepo.ListAccounts(ctx, activeOnly)
}

// DeactivateAccount retires an account from new postings. The account row
// stays so historical postings remain attributable.
func (s *accountService) DeactivateAccount(ctx context.Context, code string, userID string) error {
	account, err := s.accountRepo.FindAccountByCode(ctx, code)
	if err != nil {
		return err
	}
	if !account.IsActive {
		return nil // Already inactive, nothing to do
	}

	if err := s.accountRepo.DeactivateAccount(ctx, code); err != nil {
		s.LogError(ctx, err, "Failed to deactivate account", slog.String("code", code))
		return err
	}

	s.LogInfo(ctx, "Account deactivated", slog.String("code", code), slog.String("user_id", userID))
	return nil
}
