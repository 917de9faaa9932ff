package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/opsdash/ledgercore/internal/apperrors"
	"github.com/opsdash/ledgercore/internal/core/domain"
	portssvc "github.com/opsdash/ledgercore/internal/core/ports/services"
	"github.com/opsdash/ledgercore/internal/core/services"
)

func activity(code, name string, accountType domain.AccountType, debits, credits int64) domain.AccountActivity {
	return domain.AccountActivity{
		Account: domain.Account{Code: code, Name: name, AccountType: accountType, IsActive: true},
		Debits:  decimal.NewFromInt(debits),
		Credits: decimal.NewFromInt(credits),
	}
}

type ReportingServiceTestSuite struct {
	suite.Suite
	mockJournalRepo *MockJournalRepository
	service         portssvc.ReportingSvc
	asOf            time.Time
	from            time.Time
	to              time.Time
}

func (suite *ReportingServiceTestSuite) SetupTest() {
	suite.mockJournalRepo = new(MockJournalRepository)
	suite.service = services.NewReportingService(suite.mockJournalRepo)
	suite.asOf = time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)
	suite.from = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	suite.to = suite.asOf
}

// An invoice of 6250 recognized to receivables and then collected: revenue
// sits in equity via retained earnings and cash carries the asset side.
func (suite *ReportingServiceTestSuite) invoiceCollectedActivity() []domain.AccountActivity {
	return []domain.AccountActivity{
		activity("1000", "Cash", domain.Asset, 6250, 0),
		activity("1100", "Accounts Receivable", domain.Asset, 6250, 6250),
		activity("4000", "Sales Revenue", domain.Revenue, 0, 6250),
	}
}

func (suite *ReportingServiceTestSuite) TestTrialBalance_Reconciles() {
	ctx := context.Background()
	suite.mockJournalRepo.On("ActivityPerAccount", ctx, suite.asOf).
		Return(suite.invoiceCollectedActivity(), nil).Once()

	tb, err := suite.service.TrialBalance(ctx, suite.asOf)

	suite.Require().NoError(err)
	suite.True(tb.Reconciled)
	suite.True(tb.TotalDebit.Equal(tb.TotalCredit))
	suite.True(tb.TotalDebit.Equal(decimal.NewFromInt(6250)))

	byCode := map[string]domain.TrialBalanceRow{}
	for _, row := range tb.Rows {
		byCode[row.AccountCode] = row
	}
	suite.True(byCode["1000"].Debit.Equal(decimal.NewFromInt(6250)))
	suite.True(byCode["1100"].Debit.IsZero())
	suite.True(byCode["1100"].Credit.IsZero())
	suite.True(byCode["4000"].Credit.Equal(decimal.NewFromInt(6250)))
}

func (suite *ReportingServiceTestSuite) TestTrialBalance_ColumnMismatch() {
	ctx := context.Background()
	// A lone debit with no matching credit cannot happen through the posting
	// path; if the store ever reports it, the statement must refuse.
	suite.mockJournalRepo.On("ActivityPerAccount", ctx, suite.asOf).
		Return([]domain.AccountActivity{
			activity("1000", "Cash", domain.Asset, 100, 0),
		}, nil).Once()

	_, err := suite.service.TrialBalance(ctx, suite.asOf)
	suite.Require().ErrorIs(err, apperrors.ErrReconciliation)
}

func (suite *ReportingServiceTestSuite) TestBalanceSheet_SynthesizesRetainedEarnings() {
	ctx := context.Background()
	suite.mockJournalRepo.On("ActivityPerAccount", ctx, suite.asOf).
		Return(suite.invoiceCollectedActivity(), nil).Once()

	bs, err := suite.service.BalanceSheet(ctx, suite.asOf)

	suite.Require().NoError(err)
	suite.True(bs.Reconciled)
	suite.True(bs.TotalAssets.Equal(decimal.NewFromInt(6250)))
	suite.True(bs.TotalLiabilities.IsZero())
	suite.True(bs.RetainedEarnings.Equal(decimal.NewFromInt(6250)))
	suite.True(bs.TotalAssets.Equal(bs.TotalLiabilities.Add(bs.TotalEquity)))

	// Retained earnings appears as a synthesized equity line
	suite.Require().NotEmpty(bs.Equity)
	last := bs.Equity[len(bs.Equity)-1]
	suite.Equal("Retained Earnings", last.Name)
	suite.True(last.Amount.Equal(decimal.NewFromInt(6250)))
}

func (suite *ReportingServiceTestSuite) TestIncomeStatement_SplitsCOGS() {
	ctx := context.Background()
	suite.mockJournalRepo.On("ActivityPerAccountRange", ctx, suite.from, suite.to).
		Return([]domain.AccountActivity{
			activity("4000", "Sales Revenue", domain.Revenue, 0, 10000),
			activity("5000", "Materials COGS", domain.Expense, 4000, 0),
			activity("6000", "Rent Expense", domain.Expense, 1000, 0),
		}, nil).Once()

	is, err := suite.service.IncomeStatement(ctx, suite.from, suite.to)

	suite.Require().NoError(err)
	suite.True(is.TotalRevenue.Equal(decimal.NewFromInt(10000)))
	suite.True(is.TotalCOGS.Equal(decimal.NewFromInt(4000)))
	suite.True(is.TotalExpenses.Equal(decimal.NewFromInt(5000)))
	suite.True(is.GrossProfit.Equal(decimal.NewFromInt(6000)))
	suite.True(is.OperatingIncome.Equal(decimal.NewFromInt(5000)))
	suite.True(is.NetIncome.Equal(decimal.NewFromInt(5000)))
	suite.Len(is.CostOfGoodsSold, 1)
	suite.Len(is.OperatingExpenses, 1)
}

func (suite *ReportingServiceTestSuite) TestCashFlow_CrossCheckHolds() {
	ctx := context.Background()

	suite.mockJournalRepo.On("ActivityPerAccount", ctx, suite.from.AddDate(0, 0, -1)).
		Return([]domain.AccountActivity{}, nil).Once()
	suite.mockJournalRepo.On("ActivityPerAccount", ctx, suite.to).
		Return(suite.invoiceCollectedActivity(), nil).Once()
	suite.mockJournalRepo.On("ActivityPerAccountRange", ctx, suite.from, suite.to).
		Return(suite.invoiceCollectedActivity(), nil).Once()

	cf, err := suite.service.CashFlow(ctx, suite.from, suite.to)

	suite.Require().NoError(err)
	suite.True(cf.Reconciled)
	suite.True(cf.NetIncome.Equal(decimal.NewFromInt(6250)))
	suite.True(cf.NetCashFlow.Equal(decimal.NewFromInt(6250)))
	suite.True(cf.ClosingCash.Sub(cf.OpeningCash).Equal(cf.NetCashFlow))
}

func (suite *ReportingServiceTestSuite) TestCashFlow_WorkingCapitalAdjustment() {
	ctx := context.Background()

	// Revenue of 6250 still sitting in receivables: no cash moved, so the
	// receivable growth must back net income out of operating cash flow.
	uncollected := []domain.AccountActivity{
		activity("1100", "Accounts Receivable", domain.Asset, 6250, 0),
		activity("4000", "Sales Revenue", domain.Revenue, 0, 6250),
	}
	suite.mockJournalRepo.On("ActivityPerAccount", ctx, suite.from.AddDate(0, 0, -1)).
		Return([]domain.AccountActivity{}, nil).Once()
	suite.mockJournalRepo.On("ActivityPerAccount", ctx, suite.to).
		Return(uncollected, nil).Once()
	suite.mockJournalRepo.On("ActivityPerAccountRange", ctx, suite.from, suite.to).
		Return(uncollected, nil).Once()

	cf, err := suite.service.CashFlow(ctx, suite.from, suite.to)

	suite.Require().NoError(err)
	suite.True(cf.Reconciled)
	suite.True(cf.NetIncome.Equal(decimal.NewFromInt(6250)))
	suite.True(cf.NetOperating.IsZero(), "net operating should be zero, got %s", cf.NetOperating)
	suite.True(cf.NetCashFlow.IsZero())
}

func (suite *ReportingServiceTestSuite) TestCashFlow_CrossCheckFails() {
	ctx := context.Background()

	// Cash grew with no income and no balance change to explain it.
	inconsistent := []domain.AccountActivity{
		activity("1000", "Cash", domain.Asset, 100, 0),
	}
	suite.mockJournalRepo.On("ActivityPerAccount", ctx, suite.from.AddDate(0, 0, -1)).
		Return([]domain.AccountActivity{}, nil).Once()
	suite.mockJournalRepo.On("ActivityPerAccount", ctx, suite.to).
		Return(inconsistent, nil).Once()
	suite.mockJournalRepo.On("ActivityPerAccountRange", ctx, suite.from, suite.to).
		Return([]domain.AccountActivity{}, nil).Once()

	_, err := suite.service.CashFlow(ctx, suite.from, suite.to)
	suite.Require().ErrorIs(err, apperrors.ErrReconciliation)
}

func TestReportingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ReportingServiceTestSuite))
}
