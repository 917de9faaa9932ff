package services

import (
	"context"

	"github.com/opsdash/ledgercore/internal/core/domain"
	"github.com/opsdash/ledgercore/internal/dto"
)

// ClassifierSvc turns a raw transaction into a categorization result by a
// priority-ordered match over the rule table. Classification never fails:
// no match degrades to Uncategorized with needsReview set.
type ClassifierSvc interface {
	Classify(txn domain.RawTransaction, rules []domain.Rule) domain.CategorizationResult
}

// ImportSvc runs the categorization pipeline over a batch of raw
// transactions: fingerprint dedupe, classify, route to auto-post or review,
// execute declared side-effect actions. A failure on one transaction never
// aborts the batch.
type ImportSvc interface {
	ImportBatch(ctx context.Context, txns []domain.RawTransaction, importedBy string) (*domain.ImportSummary, error)
}

// ReviewSvc is the human escape hatch for low-confidence classifications.
type ReviewSvc interface {
	ListOpenItems(ctx context.Context) ([]domain.ReviewItem, error)

	// ResolveItem confirms or overrides the suggested account pairing and
	// posts the entry, or rejects the item without posting.
	ResolveItem(ctx context.Context, itemID string, req dto.ResolveReviewRequest, userID string) (*domain.ReviewItem, error)
}

// RuleSvc exposes the read-only rule table to the configuration surface.
type RuleSvc interface {
	ListRules(ctx context.Context) ([]domain.Rule, error)
}
