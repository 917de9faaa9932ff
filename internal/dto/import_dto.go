package dto

import (
	"time"

	"github.com/opsdash/ledgercore/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ImportRequest accompanies the uploaded statement file. Profile selects the
// source-specific column layout.
type ImportRequest struct {
	Profile string `form:"profile" binding:"required"`
	// SourceAccount hints which cash account the statement belongs to; it
	// feeds the transaction fingerprint so the same line from two accounts
	// is not treated as a duplicate.
	SourceAccount string `form:"sourceAccount"`
}

// TransactionOutcomeResponse is the per-transaction element of an import response.
type TransactionOutcomeResponse struct {
	Date           string                      `json:"date"`
	Description    string                      `json:"description"`
	Amount         decimal.Decimal             `json:"amount"`
	Classification domain.CategorizationResult `json:"classification"`
	PostedEntryID  *string                     `json:"postedEntryID,omitempty"`
	ReviewItemID   *string                     `json:"reviewItemID,omitempty"`
	Duplicate      bool                        `json:"duplicate,omitempty"`
}

// ImportSummaryResponse is the batch summary returned to the import UI.
type ImportSummaryResponse struct {
	Total          int                          `json:"total"`
	Categorized    int                          `json:"categorized"`
	NeedsReview    int                          `json:"needsReview"`
	Duplicates     int                          `json:"duplicates"`
	AssetsCreated  int                          `json:"assetsCreated"`
	BillsMatched   int                          `json:"billsMatched"`
	JournalEntries int                          `json:"journalEntries"`
	Transactions   []TransactionOutcomeResponse `json:"transactions"`
}

// ToImportSummaryResponse converts a domain import summary to a DTO response.
func ToImportSummaryResponse(s *domain.ImportSummary) ImportSummaryResponse {
	response := ImportSummaryResponse{
		Total:          s.Total,
		Categorized:    s.Categorized,
		NeedsReview:    s.NeedsReview,
		Duplicates:     s.Duplicates,
		AssetsCreated:  s.AssetsCreated,
		BillsMatched:   s.BillsMatched,
		JournalEntries: s.JournalEntries,
		Transactions:   make([]TransactionOutcomeResponse, len(s.Outcomes)),
	}
	for i, o := range s.Outcomes {
		response.Transactions[i] = TransactionOutcomeResponse{
			Date:           o.Transaction.Date.Format("2006-01-02"),
			Description:    o.Transaction.Description,
			Amount:         o.Transaction.Amount,
			Classification: o.Classification,
			PostedEntryID:  o.PostedEntryID,
			ReviewItemID:   o.ReviewItemID,
			Duplicate:      o.Duplicate,
		}
	}
	return response
}

// ResolveReviewRequest confirms or overrides a review item. When Reject is
// set the item is closed without posting. Account overrides are optional;
// absent fields keep the classifier's suggestion.
type ResolveReviewRequest struct {
	Reject            bool   `json:"reject"`
	DebitAccountCode  string `json:"debitAccountCode" binding:"omitempty,alphanum"`
	CreditAccountCode string `json:"creditAccountCode" binding:"omitempty,alphanum"`
	Category          string `json:"category" binding:"omitempty,max=50"`
}

// ReviewItemResponse is one review-queue entry.
type ReviewItemResponse struct {
	ItemID            string          `json:"itemID"`
	Date              string          `json:"date"`
	Description       string          `json:"description"`
	Amount            decimal.Decimal `json:"amount"`
	Category          string          `json:"category"`
	DebitAccountCode  string          `json:"debitAccountCode"`
	CreditAccountCode string          `json:"creditAccountCode"`
	Confidence        float64         `json:"confidence"`
	Status            string          `json:"status"`
	PostedEntryID     *string         `json:"postedEntryID,omitempty"`
	CreatedAt         time.Time       `json:"createdAt"`
}

// ToReviewItemResponse converts a domain review item to its DTO.
func ToReviewItemResponse(item *domain.ReviewItem) ReviewItemResponse {
	return ReviewItemResponse{
		ItemID:            item.ItemID,
		Date:              item.TxnDate.Format("2006-01-02"),
		Description:       item.Description,
		Amount:            item.Amount,
		Category:          item.Category,
		DebitAccountCode:  item.DebitAccountCode,
		CreditAccountCode: item.CreditAccountCode,
		Confidence:        item.Confidence,
		Status:            string(item.Status),
		PostedEntryID:     item.PostedEntryID,
		CreatedAt:         item.CreatedAt,
	}
}

// ToReviewItemResponses converts a slice of review items.
func ToReviewItemResponses(items []domain.ReviewItem) []ReviewItemResponse {
	responses := make([]ReviewItemResponse, len(items))
	for i := range items {
		responses[i] = ToReviewItemResponse(&items[i])
	}
	return responses
}
