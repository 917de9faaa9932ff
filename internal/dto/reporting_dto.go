package dto

import (
	"github.com/opsdash/ledgercore/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TrialBalanceRowResponse represents a row in the trial balance report.
type TrialBalanceRowResponse struct {
	AccountCode string          `json:"accountCode"`
	AccountName string          `json:"accountName"`
	AccountType string          `json:"accountType"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

// TrialBalanceResponse represents the trial balance report response.
type TrialBalanceResponse struct {
	AsOf   string                    `json:"asOf"`
	Rows   []TrialBalanceRowResponse `json:"rows"`
	Totals struct {
		Debit  decimal.Decimal `json:"debit"`
		Credit decimal.Decimal `json:"credit"`
	} `json:"totals"`
	Reconciled bool `json:"reconciled"`
}

// AccountAmountResponse represents an account with its amount in a report.
type AccountAmountResponse struct {
	AccountCode string          `json:"accountCode"`
	Name        string          `json:"name"`
	Amount      decimal.Decimal `json:"amount"`
}

// BalanceSheetResponse represents the balance sheet report response.
type BalanceSheetResponse struct {
	AsOf        string                  `json:"asOf"`
	Assets      []AccountAmountResponse `json:"assets"`
	Liabilities []AccountAmountResponse `json:"liabilities"`
	Equity      []AccountAmountResponse `json:"equity"`
	Summary     struct {
		RetainedEarnings decimal.Decimal `json:"retainedEarnings"`
		TotalAssets      decimal.Decimal `json:"totalAssets"`
		TotalLiabilities decimal.Decimal `json:"totalLiabilities"`
		TotalEquity      decimal.Decimal `json:"totalEquity"`
	} `json:"summary"`
	Reconciled bool `json:"reconciled"`
}

// IncomeStatementResponse represents the income statement report response.
type IncomeStatementResponse struct {
	FromDate          string                  `json:"fromDate"`
	ToDate            string                  `json:"toDate"`
	Revenue           []AccountAmountResponse `json:"revenue"`
	CostOfGoodsSold   []AccountAmountResponse `json:"costOfGoodsSold"`
	OperatingExpenses []AccountAmountResponse `json:"operatingExpenses"`
	Summary           struct {
		TotalRevenue    decimal.Decimal `json:"totalRevenue"`
		TotalCOGS       decimal.Decimal `json:"totalCOGS"`
		TotalExpenses   decimal.Decimal `json:"totalExpenses"`
		GrossProfit     decimal.Decimal `json:"grossProfit"`
		OperatingIncome decimal.Decimal `json:"operatingIncome"`
		NetIncome       decimal.Decimal `json:"netIncome"`
	} `json:"summary"`
}

// CashFlowLineResponse is one adjustment line of the cash-flow statement.
type CashFlowLineResponse struct {
	Label  string          `json:"label"`
	Amount decimal.Decimal `json:"amount"`
}

// CashFlowResponse represents the indirect-method cash-flow statement.
type CashFlowResponse struct {
	FromDate  string                 `json:"fromDate"`
	ToDate    string                 `json:"toDate"`
	NetIncome decimal.Decimal        `json:"netIncome"`
	Operating []CashFlowLineResponse `json:"operating"`
	Investing []CashFlowLineResponse `json:"investing"`
	Financing []CashFlowLineResponse `json:"financing"`
	Summary   struct {
		NetOperating decimal.Decimal `json:"netOperating"`
		NetInvesting decimal.Decimal `json:"netInvesting"`
		NetFinancing decimal.Decimal `json:"netFinancing"`
		NetCashFlow  decimal.Decimal `json:"netCashFlow"`
		OpeningCash  decimal.Decimal `json:"openingCash"`
		ClosingCash  decimal.Decimal `json:"closingCash"`
	} `json:"summary"`
	Reconciled bool `json:"reconciled"`
}

// ToTrialBalanceResponse converts a domain trial balance to a DTO response.
func ToTrialBalanceResponse(tb *domain.TrialBalance) TrialBalanceResponse {
	response := TrialBalanceResponse{
		AsOf:       tb.AsOf.Format("2006-01-02"),
		Rows:       make([]TrialBalanceRowResponse, len(tb.Rows)),
		Reconciled: tb.Reconciled,
	}
	for i, row := range tb.Rows {
		response.Rows[i] = TrialBalanceRowResponse{
			AccountCode: row.AccountCode,
			AccountName: row.AccountName,
			AccountType: string(row.AccountType),
			Debit:       row.Debit,
			Credit:      row.Credit,
		}
	}
	response.Totals.Debit = tb.TotalDebit
	response.Totals.Credit = tb.TotalCredit
	return response
}

func toAccountAmountResponses(amounts []domain.AccountAmount) []AccountAmountResponse {
	responses := make([]AccountAmountResponse, len(amounts))
	for i, a := range amounts {
		responses[i] = AccountAmountResponse{
			AccountCode: a.AccountCode,
			Name:        a.Name,
			Amount:      a.Amount,
		}
	}
	return responses
}

// ToBalanceSheetResponse converts a domain balance sheet to a DTO response.
func ToBalanceSheetResponse(bs *domain.BalanceSheet) BalanceSheetResponse {
	response := BalanceSheetResponse{
		AsOf:        bs.AsOf.Format("2006-01-02"),
		Assets:      toAccountAmountResponses(bs.Assets),
		Liabilities: toAccountAmountResponses(bs.Liabilities),
		Equity:      toAccountAmountResponses(bs.Equity),
		Reconciled:  bs.Reconciled,
	}
	response.Summary.RetainedEarnings = bs.RetainedEarnings
	response.Summary.TotalAssets = bs.TotalAssets
	response.Summary.TotalLiabilities = bs.TotalLiabilities
	response.Summary.TotalEquity = bs.TotalEquity
	return response
}

// ToIncomeStatementResponse converts a domain income statement to a DTO response.
func ToIncomeStatementResponse(is *domain.IncomeStatement) IncomeStatementResponse {
	response := IncomeStatementResponse{
		FromDate:          is.From.Format("2006-01-02"),
		ToDate:            is.To.Format("2006-01-02"),
		Revenue:           toAccountAmountResponses(is.Revenue),
		CostOfGoodsSold:   toAccountAmountResponses(is.CostOfGoodsSold),
		OperatingExpenses: toAccountAmountResponses(is.OperatingExpenses),
	}
	response.Summary.TotalRevenue = is.TotalRevenue
	response.Summary.TotalCOGS = is.TotalCOGS
	response.Summary.TotalExpenses = is.TotalExpenses
	response.Summary.GrossProfit = is.GrossProfit
	response.Summary.OperatingIncome = is.OperatingIncome
	response.Summary.NetIncome = is.NetIncome
	return response
}

func toCashFlowLineResponses(lines []domain.CashFlowLine) []CashFlowLineResponse {
	responses := make([]CashFlowLineResponse, len(lines))
	for i, l := range lines {
		responses[i] = CashFlowLineResponse{Label: l.Label, Amount: l.Amount}
	}
	return responses
}

// ToCashFlowResponse converts a domain cash-flow statement to a DTO response.
func ToCashFlowResponse(cf *domain.CashFlowStatement) CashFlowResponse {
	response := CashFlowResponse{
		FromDate:   cf.From.Format("2006-01-02"),
		ToDate:     cf.To.Format("2006-01-02"),
		NetIncome:  cf.NetIncome,
		Operating:  toCashFlowLineResponses(cf.Operating),
		Investing:  toCashFlowLineResponses(cf.Investing),
		Financing:  toCashFlowLineResponses(cf.Financing),
		Reconciled: cf.Reconciled,
	}
	response.Summary.NetOperating = cf.NetOperating
	response.Summary.NetInvesting = cf.NetInvesting
	response.Summary.NetFinancing = cf.NetFinancing
	response.Summary.NetCashFlow = cf.NetCashFlow
	response.Summary.OpeningCash = cf.OpeningCash
	response.Summary.ClosingCash = cf.ClosingCash
	return response
}
