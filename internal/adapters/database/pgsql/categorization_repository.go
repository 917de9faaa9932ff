package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/opsdash/ledgercore/internal/apperrors"
	"github.com/opsdash/ledgercore/internal/core/domain"
	portsrepo "github.com/opsdash/ledgercore/internal/core/ports/repositories"
)

type PgxCategorizationRepository struct {
	pool *pgxpool.Pool
}

// NewCategorizationRepository creates a new repository for the categorization
// pipeline's persistence: rules, fingerprints, the review queue, bills and
// fixed assets.
func NewCategorizationRepository(pool *pgxpool.Pool) portsrepo.CategorizationRepository {
	return &PgxCategorizationRepository{pool: pool}
}

var _ portsrepo.CategorizationRepository = (*PgxCategorizationRepository)(nil)

// ListRules retrieves active rules ordered by descending priority.
func (r *PgxCategorizationRepository) ListRules(ctx context.Context) ([]domain.Rule, error) {
	query := `
		SELECT rule_id, keyword, category, priority, confidence, debit_account_code, credit_account_code, actions, min_amount, vendor_allowlist, is_active
		FROM categorization_rules
		WHERE is_active
		ORDER BY priority DESC, rule_id;
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query categorization rules: %w", err)
	}
	defer rows.Close()

	rules := []domain.Rule{}
	for rows.Next() {
		var rule domain.Rule
		var actions []string
		if err := rows.Scan(
			&rule.RuleID,
			&rule.Keyword,
			&rule.Category,
			&rule.Priority,
			&rule.Confidence,
			&rule.DebitAccountCode,
			&rule.CreditAccountCode,
			&actions,
			&rule.MinAmount,
			&rule.VendorAllowlist,
			&rule.IsActive,
		); err != nil {
			return nil, fmt.Errorf("failed to scan rule row: %w", err)
		}
		for _, a := range actions {
			rule.Actions = append(rule.Actions, domain.ActionType(a))
		}
		rules = append(rules, rule)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rule rows: %w", err)
	}
	return rules, nil
}

// InsertFingerprint records a fingerprint with ON CONFLICT DO NOTHING.
// Zero rows affected means the fingerprint already existed.
func (r *PgxCategorizationRepository) InsertFingerprint(ctx context.Context, fingerprint string, source string) error {
	query := `
		INSERT INTO import_fingerprints (fingerprint, source, imported_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (fingerprint) DO NOTHING;
	`
	tag, err := r.pool.Exec(ctx, query, fingerprint, source, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to insert fingerprint: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", apperrors.ErrDuplicateTransaction, fingerprint)
	}
	return nil
}

// DeleteFingerprint removes a fingerprint so the transaction can be imported
// again. Used to compensate when recording the outcome fails after the
// fingerprint was committed.
func (r *PgxCategorizationRepository) DeleteFingerprint(ctx context.Context, fingerprint string) error {
	query := `DELETE FROM import_fingerprints WHERE fingerprint = $1;`
	if _, err := r.pool.Exec(ctx, query, fingerprint); err != nil {
		return fmt.Errorf("failed to delete fingerprint: %w", err)
	}
	return nil
}

const reviewItemColumns = `item_id, fingerprint, txn_date, description, amount, source_account_hint, category, debit_account_code, credit_account_code, confidence, status, posted_entry_id, created_at, created_by`

func (r *PgxCategorizationRepository) SaveReviewItem(ctx context.Context, item domain.ReviewItem) error {
	query := `
		INSERT INTO review_items (` + reviewItemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err := r.pool.Exec(ctx, query,
		item.ItemID,
		item.Fingerprint,
		item.TxnDate,
		item.Description,
		item.Amount,
		item.SourceAccountHint,
		item.Category,
		item.DebitAccountCode,
		item.CreditAccountCode,
		item.Confidence,
		item.Status,
		item.PostedEntryID,
		item.CreatedAt,
		item.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert review item %s: %w", item.ItemID, err)
	}
	return nil
}

func scanReviewItem(row pgx.Row) (*domain.ReviewItem, error) {
	var item domain.ReviewItem
	err := row.Scan(
		&item.ItemID,
		&item.Fingerprint,
		&item.TxnDate,
		&item.Description,
		&item.Amount,
		&item.SourceAccountHint,
		&item.Category,
		&item.DebitAccountCode,
		&item.CreditAccountCode,
		&item.Confidence,
		&item.Status,
		&item.PostedEntryID,
		&item.CreatedAt,
		&item.CreatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *PgxCategorizationRepository) FindReviewItemByID(ctx context.Context, itemID string) (*domain.ReviewItem, error) {
	query := `SELECT ` + reviewItemColumns + ` FROM review_items WHERE item_id = $1;`
	item, err := scanReviewItem(r.pool.QueryRow(ctx, query, itemID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: review item %s", apperrors.ErrNotFound, itemID)
		}
		return nil, fmt.Errorf("failed to find review item %s: %w", itemID, err)
	}
	return item, nil
}

func (r *PgxCategorizationRepository) ListOpenReviewItems(ctx context.Context) ([]domain.ReviewItem, error) {
	query := `SELECT ` + reviewItemColumns + ` FROM review_items WHERE status = $1 ORDER BY created_at;`
	rows, err := r.pool.Query(ctx, query, domain.ReviewOpen)
	if err != nil {
		return nil, fmt.Errorf("failed to query open review items: %w", err)
	}
	defer rows.Close()

	items := []domain.ReviewItem{}
	for rows.Next() {
		item, err := scanReviewItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan review item row: %w", err)
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating review item rows: %w", err)
	}
	return items, nil
}

// ClaimReviewItem transitions an OPEN item to the given status. The UPDATE is
// conditional on the item still being OPEN, so of two concurrent resolves
// exactly one claim wins; the loser sees zero rows and gets ErrNotFound.
func (r *PgxCategorizationRepository) ClaimReviewItem(ctx context.Context, itemID string, status domain.ReviewStatus) error {
	query := `
		UPDATE review_items
		SET status = $1
		WHERE item_id = $2 AND status = $3;
	`
	tag, err := r.pool.Exec(ctx, query, status, itemID, domain.ReviewOpen)
	if err != nil {
		return fmt.Errorf("failed to claim review item %s: %w", itemID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: open review item %s", apperrors.ErrNotFound, itemID)
	}
	return nil
}

// AttachReviewEntry links the journal entry posted for a claimed item.
func (r *PgxCategorizationRepository) AttachReviewEntry(ctx context.Context, itemID, entryID string) error {
	query := `UPDATE review_items SET posted_entry_id = $1 WHERE item_id = $2;`
	tag, err := r.pool.Exec(ctx, query, entryID, itemID)
	if err != nil {
		return fmt.Errorf("failed to attach entry to review item %s: %w", itemID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: review item %s", apperrors.ErrNotFound, itemID)
	}
	return nil
}

// ReopenReviewItem returns a claimed item to OPEN after its entry could not
// be posted.
func (r *PgxCategorizationRepository) ReopenReviewItem(ctx context.Context, itemID string) error {
	query := `UPDATE review_items SET status = $1, posted_entry_id = NULL WHERE item_id = $2;`
	tag, err := r.pool.Exec(ctx, query, domain.ReviewOpen, itemID)
	if err != nil {
		return fmt.Errorf("failed to reopen review item %s: %w", itemID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: review item %s", apperrors.ErrNotFound, itemID)
	}
	return nil
}

// FindOpenBill locates the oldest unpaid bill whose vendor name appears in
// the transaction description with the exact amount.
func (r *PgxCategorizationRepository) FindOpenBill(ctx context.Context, description string, amount decimal.Decimal) (*domain.VendorBill, error) {
	query := `
		SELECT bill_id, vendor_name, amount, status, paid_by_entry_id, created_at, created_by
		FROM vendor_bills
		WHERE status = $1 AND amount = $2 AND POSITION(LOWER(vendor_name) IN LOWER($3)) > 0
		ORDER BY created_at
		LIMIT 1;
	`
	var bill domain.VendorBill
	err := r.pool.QueryRow(ctx, query, domain.BillOpen, amount, description).Scan(
		&bill.BillID,
		&bill.VendorName,
		&bill.Amount,
		&bill.Status,
		&bill.PaidByEntryID,
		&bill.CreatedAt,
		&bill.CreatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: no open bill matches", apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find open bill: %w", err)
	}
	return &bill, nil
}

// MarkBillPaid settles a bill. An already-paid bill is left untouched and
// reported as false so replays stay idempotent.
func (r *PgxCategorizationRepository) MarkBillPaid(ctx context.Context, billID, entryID string) (bool, error) {
	query := `
		UPDATE vendor_bills
		SET status = $1, paid_by_entry_id = $2
		WHERE bill_id = $3 AND status = $4;
	`
	tag, err := r.pool.Exec(ctx, query, domain.BillPaid, entryID, billID, domain.BillOpen)
	if err != nil {
		return false, fmt.Errorf("failed to mark bill %s paid: %w", billID, err)
	}
	return tag.RowsAffected() > 0, nil
}

// InsertAsset records a fixed asset keyed by source fingerprint. A conflict
// on the fingerprint means the asset already exists from a prior import.
func (r *PgxCategorizationRepository) InsertAsset(ctx context.Context, asset domain.FixedAsset) (bool, error) {
	query := `
		INSERT INTO fixed_assets (asset_id, name, cost, acquired_on, source_fingerprint, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (source_fingerprint) DO NOTHING;
	`
	tag, err := r.pool.Exec(ctx, query,
		asset.AssetID,
		asset.Name,
		asset.Cost,
		asset.AcquiredOn,
		asset.SourceFingerprint,
		asset.CreatedAt,
		asset.CreatedBy,
	)
	if err != nil {
		return false, fmt.Errorf("failed to insert fixed asset: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
