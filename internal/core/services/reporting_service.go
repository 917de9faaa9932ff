package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/opsdash/ledgercore/internal/apperrors"
	"github.com/opsdash/ledgercore/internal/core/domain"
	portsrepo "github.com/opsdash/ledgercore/internal/core/ports/repositories"
	portssvc "github.com/opsdash/ledgercore/internal/core/ports/services"
)

// reportingService derives the four standard statements from the ledger
// alone plus a period boundary. Nothing here reads or writes cached totals.
// A failed structural identity is returned as ErrReconciliation, it is a
// data-integrity alarm, not a display concern.
type reportingService struct {
	BaseService
	journalRepo portsrepo.JournalRepository
}

// NewReportingService creates a new ReportingSvc.
func NewReportingService(journalRepo portsrepo.JournalRepository) portssvc.ReportingSvc {
	return &reportingService{journalRepo: journalRepo}
}

var _ portssvc.ReportingSvc = (*reportingService)(nil)

// TrialBalance lists every account's balance on its debit or credit column.
// The column totals must be exactly equal; that equality is the structural
// proof the ledger is internally consistent.
func (s *reportingService) TrialBalance(ctx context.Context, asOf time.Time) (*domain.TrialBalance, error) {
	activity, err := s.journalRepo.ActivityPerAccount(ctx, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve trial balance data: %w", err)
	}

	tb := &domain.TrialBalance{
		AsOf:        asOf,
		Rows:        make([]domain.TrialBalanceRow, 0, len(activity)),
		TotalDebit:  decimal.Zero,
		TotalCredit: decimal.Zero,
	}

	for _, a := range activity {
		row := domain.TrialBalanceRow{
			AccountCode: a.Account.Code,
			AccountName: a.Account.Name,
			AccountType: a.Account.AccountType,
			Debit:       decimal.Zero,
			Credit:      decimal.Zero,
		}
		net := a.Debits.Sub(a.Credits)
		switch {
		case net.IsPositive():
			row.Debit = net
		case net.IsNegative():
			row.Credit = net.Neg()
		}
		tb.Rows = append(tb.Rows, row)
		tb.TotalDebit = tb.TotalDebit.Add(row.Debit)
		tb.TotalCredit = tb.TotalCredit.Add(row.Credit)
	}

	if !tb.TotalDebit.Equal(tb.TotalCredit) {
		s.LogError(ctx, apperrors.ErrReconciliation, "Trial balance columns do not match",
			slog.String("total_debit", tb.TotalDebit.String()),
			slog.String("total_credit", tb.TotalCredit.String()))
		return nil, fmt.Errorf("%w: trial balance debit column %s vs credit column %s",
			apperrors.ErrReconciliation, tb.TotalDebit.String(), tb.TotalCredit.String())
	}
	tb.Reconciled = true

	s.LogInfo(ctx, "Trial balance generated",
		slog.String("as_of", asOf.Format("2006-01-02")),
		slog.Int("row_count", len(tb.Rows)))
	return tb, nil
}

// BalanceSheet partitions Asset, Liability and Equity balances as of a date
// and enforces the fundamental accounting identity. Retained earnings is not
// a posted balance in this chart, so it is synthesized from cumulative net
// income through the report date.
func (s *reportingService) BalanceSheet(ctx context.Context, asOf time.Time) (*domain.BalanceSheet, error) {
	activity, err := s.journalRepo.ActivityPerAccount(ctx, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve balance sheet data: %w", err)
	}

	bs := &domain.BalanceSheet{
		AsOf:             asOf,
		Assets:           []domain.AccountAmount{},
		Liabilities:      []domain.AccountAmount{},
		Equity:           []domain.AccountAmount{},
		TotalAssets:      decimal.Zero,
		TotalLiabilities: decimal.Zero,
		TotalEquity:      decimal.Zero,
	}
	retained := decimal.Zero

	for _, a := range activity {
		balance := normalizedBalance(a.Account.AccountType, a.Debits, a.Credits)
		amount := domain.AccountAmount{
			AccountCode: a.Account.Code,
			Name:        a.Account.Name,
			Amount:      balance,
		}
		switch a.Account.AccountType {
		case domain.Asset:
			bs.Assets = append(bs.Assets, amount)
			bs.TotalAssets = bs.TotalAssets.Add(balance)
		case domain.Liability:
			bs.Liabilities = append(bs.Liabilities, amount)
			bs.TotalLiabilities = bs.TotalLiabilities.Add(balance)
		case domain.Equity:
			bs.Equity = append(bs.Equity, amount)
			bs.TotalEquity = bs.TotalEquity.Add(balance)
		case domain.Revenue:
			retained = retained.Add(balance)
		case domain.Expense:
			retained = retained.Sub(balance)
		}
	}

	bs.RetainedEarnings = retained
	bs.Equity = append(bs.Equity, domain.AccountAmount{Name: "Retained Earnings", Amount: retained})
	bs.TotalEquity = bs.TotalEquity.Add(retained)

	if !bs.TotalAssets.Equal(bs.TotalLiabilities.Add(bs.TotalEquity)) {
		s.LogError(ctx, apperrors.ErrReconciliation, "Accounting identity failed",
			slog.String("total_assets", bs.TotalAssets.String()),
			slog.String("total_liabilities", bs.TotalLiabilities.String()),
			slog.String("total_equity", bs.TotalEquity.String()))
		return nil, fmt.Errorf("%w: assets %s != liabilities %s + equity %s",
			apperrors.ErrReconciliation, bs.TotalAssets.String(), bs.TotalLiabilities.String(), bs.TotalEquity.String())
	}
	bs.Reconciled = true

	s.LogInfo(ctx, "Balance sheet generated",
		slog.String("as_of", asOf.Format("2006-01-02")),
		slog.Int("asset_accounts", len(bs.Assets)),
		slog.Int("liability_accounts", len(bs.Liabilities)),
		slog.Int("equity_accounts", len(bs.Equity)))
	return bs, nil
}

// IncomeStatement sums revenue and expense flows over a date range. These
// are flow accounts, so the range matters; an as-of date does not apply.
func (s *reportingService) IncomeStatement(ctx context.Context, from, to time.Time) (*domain.IncomeStatement, error) {
	activity, err := s.journalRepo.ActivityPerAccountRange(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve income statement data: %w", err)
	}
	return buildIncomeStatement(from, to, activity), nil
}

func buildIncomeStatement(from, to time.Time, activity []domain.AccountActivity) *domain.IncomeStatement {
	is := &domain.IncomeStatement{
		From:              from,
		To:                to,
		Revenue:           []domain.AccountAmount{},
		CostOfGoodsSold:   []domain.AccountAmount{},
		OperatingExpenses: []domain.AccountAmount{},
		TotalRevenue:      decimal.Zero,
		TotalCOGS:         decimal.Zero,
		TotalExpenses:     decimal.Zero,
	}

	opex := decimal.Zero
	for _, a := range activity {
		net := normalizedBalance(a.Account.AccountType, a.Debits, a.Credits)
		amount := domain.AccountAmount{
			AccountCode: a.Account.Code,
			Name:        a.Account.Name,
			Amount:      net,
		}
		switch a.Account.AccountType {
		case domain.Revenue:
			is.Revenue = append(is.Revenue, amount)
			is.TotalRevenue = is.TotalRevenue.Add(net)
		case domain.Expense:
			if a.Account.IsCOGS() {
				is.CostOfGoodsSold = append(is.CostOfGoodsSold, amount)
				is.TotalCOGS = is.TotalCOGS.Add(net)
			} else {
				is.OperatingExpenses = append(is.OperatingExpenses, amount)
				opex = opex.Add(net)
			}
		}
	}

	is.TotalExpenses = is.TotalCOGS.Add(opex)
	is.GrossProfit = is.TotalRevenue.Sub(is.TotalCOGS)
	is.OperatingIncome = is.GrossProfit.Sub(opex)
	is.NetIncome = is.TotalRevenue.Sub(is.TotalExpenses)
	return is
}

// CashFlow derives the indirect-method statement: net income adjusted for
// balance changes in working-capital, long-lived and financing accounts
// between period start and end. The derived net cash flow must equal the
// observed change in cash-account balances over the same period; that
// cross-check is asserted, not hoped for.
func (s *reportingService) CashFlow(ctx context.Context, from, to time.Time) (*domain.CashFlowStatement, error) {
	opening, err := s.journalRepo.ActivityPerAccount(ctx, from.AddDate(0, 0, -1))
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve opening balances: %w", err)
	}
	closing, err := s.journalRepo.ActivityPerAccount(ctx, to)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve closing balances: %w", err)
	}
	periodActivity, err := s.journalRepo.ActivityPerAccountRange(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve period activity: %w", err)
	}

	netIncome := buildIncomeStatement(from, to, periodActivity).NetIncome

	type balancePair struct {
		account domain.Account
		open    decimal.Decimal
		close   decimal.Decimal
	}
	pairs := make(map[string]*balancePair)
	for _, a := range opening {
		pairs[a.Account.Code] = &balancePair{
			account: a.Account,
			open:    normalizedBalance(a.Account.AccountType, a.Debits, a.Credits),
			close:   decimal.Zero,
		}
	}
	for _, a := range closing {
		p, ok := pairs[a.Account.Code]
		if !ok {
			p = &balancePair{account: a.Account, open: decimal.Zero}
			pairs[a.Account.Code] = p
		}
		p.close = normalizedBalance(a.Account.AccountType, a.Debits, a.Credits)
	}

	codes := make([]string, 0, len(pairs))
	for code := range pairs {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	cf := &domain.CashFlowStatement{
		From:         from,
		To:           to,
		NetIncome:    netIncome,
		Operating:    []domain.CashFlowLine{},
		Investing:    []domain.CashFlowLine{},
		Financing:    []domain.CashFlowLine{},
		NetOperating: netIncome,
		NetInvesting: decimal.Zero,
		NetFinancing: decimal.Zero,
		OpeningCash:  decimal.Zero,
		ClosingCash:  decimal.Zero,
	}
	cf.Operating = append(cf.Operating, domain.CashFlowLine{Label: "Net income", Amount: netIncome})

	for _, code := range codes {
		p := pairs[code]
		// Revenue and expense movement is already inside net income.
		if p.account.AccountType == domain.Revenue || p.account.AccountType == domain.Expense {
			continue
		}
		delta := p.close.Sub(p.open)

		section := p.account.CashFlowSection()
		if section == domain.SectionCash {
			cf.OpeningCash = cf.OpeningCash.Add(p.open)
			cf.ClosingCash = cf.ClosingCash.Add(p.close)
			continue
		}
		if delta.IsZero() {
			continue
		}

		switch section {
		case domain.SectionOperating:
			// A growing operating asset consumes cash, a growing operating
			// liability frees it.
			adjustment := delta
			if p.account.AccountType == domain.Asset {
				adjustment = delta.Neg()
			}
			cf.Operating = append(cf.Operating, domain.CashFlowLine{
				Label:  fmt.Sprintf("Change in %s", p.account.Name),
				Amount: adjustment,
			})
			cf.NetOperating = cf.NetOperating.Add(adjustment)
		case domain.SectionInvesting:
			adjustment := delta.Neg()
			cf.Investing = append(cf.Investing, domain.CashFlowLine{
				Label:  fmt.Sprintf("Change in %s", p.account.Name),
				Amount: adjustment,
			})
			cf.NetInvesting = cf.NetInvesting.Add(adjustment)
		case domain.SectionFinancing:
			cf.Financing = append(cf.Financing, domain.CashFlowLine{
				Label:  fmt.Sprintf("Change in %s", p.account.Name),
				Amount: delta,
			})
			cf.NetFinancing = cf.NetFinancing.Add(delta)
		}
	}

	cf.NetCashFlow = cf.NetOperating.Add(cf.NetInvesting).Add(cf.NetFinancing)

	cashDelta := cf.ClosingCash.Sub(cf.OpeningCash)
	if !cf.NetCashFlow.Equal(cashDelta) {
		s.LogError(ctx, apperrors.ErrReconciliation, "Cash flow cross-check failed",
			slog.String("net_cash_flow", cf.NetCashFlow.String()),
			slog.String("cash_delta", cashDelta.String()))
		return nil, fmt.Errorf("%w: indirect net cash flow %s vs cash balance change %s",
			apperrors.ErrReconciliation, cf.NetCashFlow.String(), cashDelta.String())
	}
	cf.Reconciled = true

	s.LogInfo(ctx, "Cash flow statement generated",
		slog.String("from", from.Format("2006-01-02")),
		slog.String("to", to.Format("2006-01-02")),
		slog.String("net_cash_flow", cf.NetCashFlow.String()))
	return cf, nil
}
