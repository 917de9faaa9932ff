package domain

import "strings"

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// NormalSide is the side on which an account type naturally accumulates value.
type NormalSide string

const (
	DebitNormal  NormalSide = "DEBIT"
	CreditNormal NormalSide = "CREDIT"
)

// NormalSide returns the normal balance side for the account type.
// Asset and Expense accounts grow on the debit side; Liability, Equity and
// Revenue accounts grow on the credit side.
func (t AccountType) NormalSide() NormalSide {
	switch t {
	case Asset, Expense:
		return DebitNormal
	default:
		return CreditNormal
	}
}

// Valid reports whether the account type is one of the five known types.
func (t AccountType) Valid() bool {
	switch t {
	case Asset, Liability, Equity, Revenue, Expense:
		return true
	}
	return false
}

// Account represents a single account in the chart of accounts.
// Accounts are created at onboarding and never deleted, only deactivated,
// so historical postings stay attributable.
type Account struct {
	Code        string      `json:"code"`        // Stable unique code (e.g., "1001")
	Name        string      `json:"name"`        // Human readable name
	AccountType AccountType `json:"accountType"` // ASSET, LIABILITY, etc.
	Description string      `json:"description"` // Nullable user description
	IsActive    bool        `json:"isActive"`    // Deactivated accounts reject new postings
	AuditFields
}

// CashFlowSection identifies which section of the cash-flow statement an
// account's balance movement belongs to.
type CashFlowSection string

const (
	SectionCash      CashFlowSection = "CASH"
	SectionOperating CashFlowSection = "OPERATING"
	SectionInvesting CashFlowSection = "INVESTING"
	SectionFinancing CashFlowSection = "FINANCING"
)

// CashFlowSection classifies the account by the chart's code-range convention:
//
//	1000-1099  cash and cash equivalents
//	11xx-14xx  working capital assets (operating)
//	15xx-19xx  long-lived assets (investing)
//	20xx-24xx  current liabilities (operating)
//	25xx-29xx  long-term liabilities (financing)
//	3xxx       equity (financing)
//
// Revenue and expense accounts flow into net income and are never asked for
// a section. The convention is carried by the chart seed, not by per-account
// configuration.
func (a Account) CashFlowSection() CashFlowSection {
	switch a.AccountType {
	case Asset:
		if strings.HasPrefix(a.Code, "10") {
			return SectionCash
		}
		if a.Code >= "1500" && a.Code < "2000" {
			return SectionInvesting
		}
		return SectionOperating
	case Liability:
		if a.Code >= "2500" {
			return SectionFinancing
		}
		return SectionOperating
	default:
		return SectionFinancing
	}
}

// IsCOGS reports whether an expense account belongs to cost of goods sold
// under the 5xxx code-range convention.
func (a Account) IsCOGS() bool {
	return a.AccountType == Expense && strings.HasPrefix(a.Code, "5")
}
