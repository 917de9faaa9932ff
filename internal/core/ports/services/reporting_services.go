package services

import (
	"context"
	"time"

	"github.com/opsdash/ledgercore/internal/core/domain"
)

// ReportingSvc derives the standard financial statements from the ledger
// alone plus a period boundary. Every statement carries its structural
// cross-check; a failed check surfaces as apperrors.ErrReconciliation
// instead of a silently wrong report.
type ReportingSvc interface {
	TrialBalance(ctx context.Context, asOf time.Time) (*domain.TrialBalance, error)
	BalanceSheet(ctx context.Context, asOf time.Time) (*domain.BalanceSheet, error)
	IncomeStatement(ctx context.Context, from, to time.Time) (*domain.IncomeStatement, error)
	CashFlow(ctx context.Context, from, to time.Time) (*domain.CashFlowStatement, error)
}
