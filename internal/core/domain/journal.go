package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryStatus indicates the state of a journal entry.
type EntryStatus string

const (
	Posted   EntryStatus = "POSTED"
	Reversed EntryStatus = "REVERSED"
)

// EntrySource records which collaborator produced a journal entry.
type EntrySource string

const (
	SourceManual        EntrySource = "MANUAL"
	SourceAICategorized EntrySource = "AI_CATEGORIZED"
	SourceBankImport    EntrySource = "BANK_IMPORT"
	SourceAutomatic     EntrySource = "AUTOMATIC"
)

// PostingSide indicates whether a posting line is a Debit or a Credit.
type PostingSide string

const (
	Debit  PostingSide = "DEBIT"
	Credit PostingSide = "CREDIT"
)

// JournalEntry is a single balanced financial event composed of two or more
// postings. Entries are immutable once posted; corrections are made by a
// linked reversing entry, never by mutation.
type JournalEntry struct {
	EntryID     string      `json:"entryID"`
	EntryDate   time.Time   `json:"entryDate"`
	Description string      `json:"description"`
	Reference   string      `json:"reference"` // External reference (order ID, bill number), may be empty
	Source      EntrySource `json:"source"`
	Status      EntryStatus `json:"status"`
	// Reversal linkage. ReversesEntryID is set on the reversing entry,
	// ReversedByEntryID on the original.
	ReversesEntryID   *string `json:"reversesEntryID,omitempty"`
	ReversedByEntryID *string `json:"reversedByEntryID,omitempty"`
	AuditFields
}

// Posting is one debit or credit line within a journal entry.
type Posting struct {
	PostingID   string          `json:"postingID"`
	EntryID     string          `json:"entryID"`
	AccountCode string          `json:"accountCode"`
	Side        PostingSide     `json:"side"`
	Amount      decimal.Decimal `json:"amount"` // Always positive; the side carries the sign
}

// SignedAmount applies the account's normal-side convention to the posting
// amount: a posting on the account's normal side increases the balance,
// a posting on the opposite side decreases it.
func (p Posting) SignedAmount(accountType AccountType) decimal.Decimal {
	if PostingSide(accountType.NormalSide()) == p.Side {
		return p.Amount
	}
	return p.Amount.Neg()
}

// Opposite returns the flipped posting side, used when building reversals.
func (s PostingSide) Opposite() PostingSide {
	if s == Debit {
		return Credit
	}
	return Debit
}

// PeriodBalance summarizes an account's movement over a period.
type PeriodBalance struct {
	AccountCode    string          `json:"accountCode"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	PeriodDebits   decimal.Decimal `json:"periodDebits"`
	PeriodCredits  decimal.Decimal `json:"periodCredits"`
	ClosingBalance decimal.Decimal `json:"closingBalance"`
}
