package services

import (
	"context"
	"time"

	"github.com/opsdash/ledgercore/internal/core/domain"
	"github.com/opsdash/ledgercore/internal/dto"
	"github.com/shopspring/decimal"
)

// LedgerSvc owns the posting invariant: it validates candidate entries and
// appends them atomically to the append-only store.
type LedgerSvc interface {
	// PostEntry validates and appends a journal entry. Every account must
	// exist and be active, debits must equal credits exactly, and the entry
	// needs at least one debit and one credit line with positive amounts.
	PostEntry(ctx context.Context, req dto.CreateEntryRequest, source domain.EntrySource, createdBy string) (*domain.JournalEntry, error)

	// ReverseEntry creates a new entry with every posting's side flipped,
	// linked to the original. The original is never mutated beyond the
	// reversal link.
	ReverseEntry(ctx context.Context, entryID string, userID string) (*domain.JournalEntry, error)

	// GetEntry retrieves an entry with its postings.
	GetEntry(ctx context.Context, entryID string) (*domain.JournalEntry, []domain.Posting, error)

	// ListAccountPostings retrieves an account's postings in a date range.
	ListAccountPostings(ctx context.Context, accountCode string, from, to time.Time) ([]domain.Posting, error)
}

// BalanceSvc computes account balances as pure folds over the ledger.
type BalanceSvc interface {
	// BalanceAsOf returns the account's signed balance as of a date, sign
	// normalized to the account's normal side.
	BalanceAsOf(ctx context.Context, accountCode string, asOf time.Time) (decimal.Decimal, error)

	// BalancesForPeriod returns opening balance, period debits/credits and
	// closing balance for one account.
	BalancesForPeriod(ctx context.Context, accountCode string, from, to time.Time) (*domain.PeriodBalance, error)
}
