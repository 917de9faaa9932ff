package services

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/opsdash/ledgercore/internal/core/domain"
	portsrepo "github.com/opsdash/ledgercore/internal/core/ports/repositories"
	portssvc "github.com/opsdash/ledgercore/internal/core/ports/services"
)

// balanceService computes account balances as pure folds over the ledger.
// There is no cached balance anywhere; correctness reduces to the fold.
type balanceService struct {
	BaseService
	accountRepo portsrepo.AccountRepository
	journalRepo portsrepo.JournalRepository
}

// NewBalanceService creates a new BalanceSvc.
func NewBalanceService(accountRepo portsrepo.AccountRepository, journalRepo portsrepo.JournalRepository) portssvc.BalanceSvc {
	return &balanceService{
		accountRepo: accountRepo,
		journalRepo: journalRepo,
	}
}

var _ portssvc.BalanceSvc = (*balanceService)(nil)

// normalizedBalance folds raw debit/credit totals into a signed balance on
// the account's normal side: debits minus credits for debit-normal accounts,
// the negation otherwise. Downstream code treats "balance" uniformly
// regardless of account type.
func normalizedBalance(accountType domain.AccountType, debits, credits decimal.Decimal) decimal.Decimal {
	net := debits.Sub(credits)
	if accountType.NormalSide() == domain.DebitNormal {
		return net
	}
	return net.Neg()
}

// BalanceAsOf returns the account's signed balance as of the given date.
func (s *balanceService) BalanceAsOf(ctx context.Context, accountCode string, asOf time.Time) (decimal.Decimal, error) {
	account, err := s.accountRepo.FindAccountByCode(ctx, accountCode)
	if err != nil {
		return decimal.Zero, err
	}

	debits, credits, err := s.journalRepo.SumPostingsByAccount(ctx, accountCode, asOf)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum postings for account %s: %w", accountCode, err)
	}
	return normalizedBalance(account.AccountType, debits, credits), nil
}

// BalancesForPeriod returns opening balance, period debit/credit totals and
// closing balance for one account. Opening is the balance at the end of the
// day before the period starts.
func (s *balanceService) BalancesForPeriod(ctx context.Context, accountCode string, from, to time.Time) (*domain.PeriodBalance, error) {
	account, err := s.accountRepo.FindAccountByCode(ctx, accountCode)
	if err != nil {
		return nil, err
	}

	openDebits, openCredits, err := s.journalRepo.SumPostingsByAccount(ctx, accountCode, from.AddDate(0, 0, -1))
	if err != nil {
		return nil, fmt.Errorf("failed to sum opening postings for account %s: %w", accountCode, err)
	}

	postings, err := s.journalRepo.ListPostingsByAccount(ctx, accountCode, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list period postings for account %s: %w", accountCode, err)
	}

	periodDebits := decimal.Zero
	periodCredits := decimal.Zero
	for _, p := range postings {
		if p.Side == domain.Debit {
			periodDebits = periodDebits.Add(p.Amount)
		} else {
			periodCredits = periodCredits.Add(p.Amount)
		}
	}

	opening := normalizedBalance(account.AccountType, openDebits, openCredits)
	closing := normalizedBalance(account.AccountType, openDebits.Add(periodDebits), openCredits.Add(periodCredits))

	return &domain.PeriodBalance{
		AccountCode:    accountCode,
		OpeningBalance: opening,
		PeriodDebits:   periodDebits,
		PeriodCredits:  periodCredits,
		ClosingBalance: closing,
	}, nil
}
