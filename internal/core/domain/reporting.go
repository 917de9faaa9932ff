package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountActivity is the raw debit/credit totals for one account over some
// window, as read from the ledger. Statements are derived from these rows
// plus the chart of accounts; nothing else.
type AccountActivity struct {
	Account Account
	Debits  decimal.Decimal
	Credits decimal.Decimal
}

// TrialBalanceRow places one account's net balance in its debit or credit
// column.
type TrialBalanceRow struct {
	AccountCode string          `json:"accountCode"`
	AccountName string          `json:"accountName"`
	AccountType AccountType     `json:"accountType"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

// TrialBalance lists every active account's balance split by column.
// Reconciled is true only when the two column totals are exactly equal.
type TrialBalance struct {
	AsOf        time.Time         `json:"asOf"`
	Rows        []TrialBalanceRow `json:"rows"`
	TotalDebit  decimal.Decimal   `json:"totalDebit"`
	TotalCredit decimal.Decimal   `json:"totalCredit"`
	Reconciled  bool              `json:"reconciled"`
}

// AccountAmount is an account with its net amount on a statement.
type AccountAmount struct {
	AccountCode string          `json:"accountCode"`
	Name        string          `json:"name"`
	Amount      decimal.Decimal `json:"amount"`
}

// BalanceSheet partitions Asset, Liability and Equity balances as of a date.
// RetainedEarnings is synthesized from cumulative net income when it is not
// itself a posted account balance.
type BalanceSheet struct {
	AsOf             time.Time       `json:"asOf"`
	Assets           []AccountAmount `json:"assets"`
	Liabilities      []AccountAmount `json:"liabilities"`
	Equity           []AccountAmount `json:"equity"`
	RetainedEarnings decimal.Decimal `json:"retainedEarnings"`
	TotalAssets      decimal.Decimal `json:"totalAssets"`
	TotalLiabilities decimal.Decimal `json:"totalLiabilities"`
	TotalEquity      decimal.Decimal `json:"totalEquity"`
	Reconciled       bool            `json:"reconciled"`
}

// IncomeStatement sums revenue and expense flows over a date range.
// COGS is split out by the 5xxx code-range convention so gross profit and
// operating income can be derived.
type IncomeStatement struct {
	From              time.Time       `json:"from"`
	To                time.Time       `json:"to"`
	Revenue           []AccountAmount `json:"revenue"`
	CostOfGoodsSold   []AccountAmount `json:"costOfGoodsSold"`
	OperatingExpenses []AccountAmount `json:"operatingExpenses"`
	TotalRevenue      decimal.Decimal `json:"totalRevenue"`
	TotalCOGS         decimal.Decimal `json:"totalCOGS"`
	TotalExpenses     decimal.Decimal `json:"totalExpenses"`
	GrossProfit       decimal.Decimal `json:"grossProfit"`
	OperatingIncome   decimal.Decimal `json:"operatingIncome"`
	NetIncome         decimal.Decimal `json:"netIncome"`
}

// CashFlowLine is one adjustment line on the cash-flow statement.
type CashFlowLine struct {
	Label  string          `json:"label"`
	Amount decimal.Decimal `json:"amount"`
}

// CashFlowStatement is the indirect-method statement: net income adjusted by
// working-capital and long-lived balance changes, partitioned into sections.
// NetCashFlow must equal the change in cash-account balances over the same
// period; Reconciled records that cross-check.
type CashFlowStatement struct {
	From         time.Time       `json:"from"`
	To           time.Time       `json:"to"`
	NetIncome    decimal.Decimal `json:"netIncome"`
	Operating    []CashFlowLine  `json:"operating"`
	Investing    []CashFlowLine  `json:"investing"`
	Financing    []CashFlowLine  `json:"financing"`
	NetOperating decimal.Decimal `json:"netOperating"`
	NetInvesting decimal.Decimal `json:"netInvesting"`
	NetFinancing decimal.Decimal `json:"netFinancing"`
	NetCashFlow  decimal.Decimal `json:"netCashFlow"`
	OpeningCash  decimal.Decimal `json:"openingCash"`
	ClosingCash  decimal.Decimal `json:"closingCash"`
	Reconciled   bool            `json:"reconciled"`
}
