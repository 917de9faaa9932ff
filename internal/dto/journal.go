package dto

import (
	"time"

	"github.com/opsdash/ledgercore/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreatePostingRequest is one debit or credit line of a candidate entry.
// Amounts must be strictly positive; the custom posdecimal validator is
// registered at startup.
type CreatePostingRequest struct {
	AccountCode string             `json:"accountCode" binding:"required"`
	Side        domain.PostingSide `json:"side" binding:"required,oneof=DEBIT CREDIT"`
	Amount      decimal.Decimal    `json:"amount" binding:"required,posdecimal"`
}

// CreateEntryRequest defines the expected JSON for posting a journal entry.
type CreateEntryRequest struct {
	Date        time.Time              `json:"date" binding:"required" time_format:"2006-01-02"`
	Description string                 `json:"description" binding:"required,max=255"`
	Reference   string                 `json:"reference" binding:"max=100"`
	Postings    []CreatePostingRequest `json:"postings" binding:"required,min=2,dive"`
}

// PostingResponse defines the data returned for a posting line.
type PostingResponse struct {
	PostingID   string          `json:"postingID"`
	AccountCode string          `json:"accountCode"`
	Side        string          `json:"side"`
	Amount      decimal.Decimal `json:"amount"`
}

// EntryResponse defines the data returned for a journal entry.
type EntryResponse struct {
	EntryID           string            `json:"entryID"`
	Date              time.Time         `json:"date"`
	Description       string            `json:"description"`
	Reference         string            `json:"reference,omitempty"`
	Source            string            `json:"source"`
	Status            string            `json:"status"`
	ReversesEntryID   *string           `json:"reversesEntryID,omitempty"`
	ReversedByEntryID *string           `json:"reversedByEntryID,omitempty"`
	Postings          []PostingResponse `json:"postings,omitempty"`
	CreatedAt         time.Time         `json:"createdAt"`
	CreatedBy         string            `json:"createdBy"`
}

// ToPostingResponses converts domain postings to DTOs.
func ToPostingResponses(postings []domain.Posting) []PostingResponse {
	responses := make([]PostingResponse, len(postings))
	for i, p := range postings {
		responses[i] = PostingResponse{
			PostingID:   p.PostingID,
			AccountCode: p.AccountCode,
			Side:        string(p.Side),
			Amount:      p.Amount,
		}
	}
	return responses
}

// ToEntryResponse converts a domain entry with its postings to a DTO.
func ToEntryResponse(e *domain.JournalEntry, postings []domain.Posting) EntryResponse {
	return EntryResponse{
		EntryID:           e.EntryID,
		Date:              e.EntryDate,
		Description:       e.Description,
		Reference:         e.Reference,
		Source:            string(e.Source),
		Status:            string(e.Status),
		ReversesEntryID:   e.ReversesEntryID,
		ReversedByEntryID: e.ReversedByEntryID,
		Postings:          ToPostingResponses(postings),
		CreatedAt:         e.CreatedAt,
		CreatedBy:         e.CreatedBy,
	}
}

// PeriodBalanceResponse is the per-account period summary.
type PeriodBalanceResponse struct {
	AccountCode    string          `json:"accountCode"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	PeriodDebits   decimal.Decimal `json:"periodDebits"`
	PeriodCredits  decimal.Decimal `json:"periodCredits"`
	ClosingBalance decimal.Decimal `json:"closingBalance"`
}
