package repositories

import (
	"context"

	"github.com/opsdash/ledgercore/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RuleReader loads the categorization rule table supplied by the settings
// collaborator. Rules are data, not code branches.
type RuleReader interface {
	// ListRules retrieves active rules ordered by descending priority.
	ListRules(ctx context.Context) ([]domain.Rule, error)
}

// FingerprintWriter owns the idempotency log for imported transactions.
type FingerprintWriter interface {
	// InsertFingerprint atomically records a transaction fingerprint using
	// unique-constraint semantics. An already-present fingerprint yields
	// apperrors.ErrDuplicateTransaction.
	InsertFingerprint(ctx context.Context, fingerprint string, source string) error

	// DeleteFingerprint releases a fingerprint whose outcome could not be
	// recorded, so the transaction is seen again on the next import instead
	// of being treated as a duplicate.
	DeleteFingerprint(ctx context.Context, fingerprint string) error
}

// ReviewQueueRepository stores classified transactions awaiting human review.
type ReviewQueueRepository interface {
	SaveReviewItem(ctx context.Context, item domain.ReviewItem) error
	FindReviewItemByID(ctx context.Context, itemID string) (*domain.ReviewItem, error)
	ListOpenReviewItems(ctx context.Context) ([]domain.ReviewItem, error)

	// ClaimReviewItem transitions an item from OPEN to the given status.
	// The transition is conditional on the item still being OPEN, so of two
	// concurrent resolves exactly one claim succeeds; the loser gets
	// ErrNotFound.
	ClaimReviewItem(ctx context.Context, itemID string, status domain.ReviewStatus) error

	// AttachReviewEntry links the journal entry posted for a claimed item.
	AttachReviewEntry(ctx context.Context, itemID, entryID string) error

	// ReopenReviewItem returns a claimed item to OPEN after its entry could
	// not be posted.
	ReopenReviewItem(ctx context.Context, itemID string) error
}

// BillRepository gives the BILL_MATCH action access to open payables.
type BillRepository interface {
	// FindOpenBill locates an unpaid bill whose vendor name appears in the
	// transaction description, with the exact amount.
	FindOpenBill(ctx context.Context, description string, amount decimal.Decimal) (*domain.VendorBill, error)

	// MarkBillPaid settles a bill and links the paying journal entry.
	// Settling an already-paid bill is a no-op returning false, which keeps
	// the action idempotent on replay.
	MarkBillPaid(ctx context.Context, billID, entryID string) (bool, error)
}

// AssetRepository gives the ASSET_CREATE action a place to record capital
// purchases.
type AssetRepository interface {
	// InsertAsset records a fixed asset keyed by its source fingerprint.
	// A replayed import returns false instead of creating a second row.
	InsertAsset(ctx context.Context, asset domain.FixedAsset) (bool, error)
}

// CategorizationRepository combines the pipeline's persistence concerns.
type CategorizationRepository interface {
	RuleReader
	FingerprintWriter
	ReviewQueueRepository
	BillRepository
	AssetRepository
}
