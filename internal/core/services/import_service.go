package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/opsdash/ledgercore/internal/apperrors"
	"github.com/opsdash/ledgercore/internal/core/domain"
	portsrepo "github.com/opsdash/ledgercore/internal/core/ports/repositories"
	portssvc "github.com/opsdash/ledgercore/internal/core/ports/services"
	"github.com/opsdash/ledgercore/internal/dto"
)

// importService runs the categorization pipeline over a batch of raw
// transactions. Each transaction is an independent unit of work: one failure
// degrades that transaction to the review queue and the batch continues.
type importService struct {
	BaseService
	classifier      portssvc.ClassifierSvc
	ledger          portssvc.LedgerSvc
	catRepo         portsrepo.CategorizationRepository
	reviewThreshold float64
}

// NewImportService creates a new ImportSvc. reviewThreshold is the
// confidence below which classified transactions go to human review.
func NewImportService(classifier portssvc.ClassifierSvc, ledger portssvc.LedgerSvc, catRepo portsrepo.CategorizationRepository, reviewThreshold float64) portssvc.ImportSvc {
	return &importService{
		classifier:      classifier,
		ledger:          ledger,
		catRepo:         catRepo,
		reviewThreshold: reviewThreshold,
	}
}

var _ portssvc.ImportSvc = (*importService)(nil)

// ImportBatch processes each transaction independently: fingerprint dedupe,
// classify, then auto-post or enqueue for review. Cancellation is honored
// between transactions only; entries already posted stay posted, and the
// fingerprint log makes a re-run resume safely.
func (s *importService) ImportBatch(ctx context.Context, txns []domain.RawTransaction, importedBy string) (*domain.ImportSummary, error) {
	summary := &domain.ImportSummary{
		Total:    len(txns),
		Outcomes: make([]domain.TransactionOutcome, 0, len(txns)),
	}

	rules, err := s.catRepo.ListRules(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load categorization rules: %w", err)
	}

	for _, txn := range txns {
		if err := ctx.Err(); err != nil {
			s.LogWarn(ctx, "Import cancelled mid-batch",
				slog.Int("processed", len(summary.Outcomes)),
				slog.Int("total", summary.Total))
			return summary, err
		}

		outcome, err := s.processOne(ctx, txn, rules, importedBy, summary)
		if err != nil {
			// Infrastructure failure on this transaction; record it for
			// review and keep going.
			s.LogError(ctx, err, "Transaction failed during import", slog.String("description", txn.Description))
		}
		summary.Outcomes = append(summary.Outcomes, outcome)
	}

	s.LogInfo(ctx, "Import batch completed",
		slog.Int("total", summary.Total),
		slog.Int("categorized", summary.Categorized),
		slog.Int("needs_review", summary.NeedsReview),
		slog.Int("duplicates", summary.Duplicates),
		slog.Int("journal_entries", summary.JournalEntries))
	return summary, nil
}

func (s *importService) processOne(ctx context.Context, txn domain.RawTransaction, rules []domain.Rule, importedBy string, summary *domain.ImportSummary) (domain.TransactionOutcome, error) {
	outcome := domain.TransactionOutcome{Transaction: txn}

	fingerprint := txn.Fingerprint()
	if err := s.catRepo.InsertFingerprint(ctx, fingerprint, txn.SourceAccountHint); err != nil {
		if errors.Is(err, apperrors.ErrDuplicateTransaction) {
			// Fingerprint already processed; skip, never re-post. Import stays
			// safely re-runnable.
			outcome.Duplicate = true
			summary.Duplicates++
			return outcome, nil
		}
		return outcome, fmt.Errorf("failed to record fingerprint: %w", err)
	}

	result := s.classifier.Classify(txn, rules)

	if result.NeedsReview || result.Confidence < s.reviewThreshold {
		result.NeedsReview = true
		outcome.Classification = result
		itemID, err := s.enqueueReview(ctx, txn, fingerprint, result, importedBy)
		if err != nil {
			s.releaseFingerprint(ctx, fingerprint)
			return outcome, err
		}
		outcome.ReviewItemID = &itemID
		summary.NeedsReview++
		return outcome, nil
	}

	entry, err := s.postClassified(ctx, txn, result, importedBy)
	if err != nil {
		// A posting failure (unknown account from a misconfigured rule,
		// inactive account) is not fatal to the batch: degrade to review.
		s.LogWarn(ctx, "Auto-post failed, routing to review",
			slog.String("description", txn.Description),
			slog.String("error", err.Error()))
		result.NeedsReview = true
		outcome.Classification = result
		itemID, enqErr := s.enqueueReview(ctx, txn, fingerprint, result, importedBy)
		if enqErr != nil {
			s.releaseFingerprint(ctx, fingerprint)
			return outcome, errors.Join(err, enqErr)
		}
		outcome.ReviewItemID = &itemID
		summary.NeedsReview++
		return outcome, nil
	}

	result.TriggeredActions = append(result.TriggeredActions, domain.ActionJournalPost)
	outcome.Classification = result
	outcome.PostedEntryID = &entry.EntryID
	summary.Categorized++
	summary.JournalEntries++

	s.executeActions(ctx, txn, result, fingerprint, entry.EntryID, summary)
	return outcome, nil
}

// postClassified turns a classified transaction into a journal entry with
// source=AUTOMATIC. The entry amount is the absolute feed amount; the rule
// supplies the account pairing.
func (s *importService) postClassified(ctx context.Context, txn domain.RawTransaction, result domain.CategorizationResult, importedBy string) (*domain.JournalEntry, error) {
	amount := txn.Amount.Abs()
	req := dto.CreateEntryRequest{
		Date:        txn.Date,
		Description: txn.Description,
		Postings: []dto.CreatePostingRequest{
			{AccountCode: result.DebitAccountCode, Side: domain.Debit, Amount: amount},
			{AccountCode: result.CreditAccountCode, Side: domain.Credit, Amount: amount},
		},
	}
	return s.ledger.PostEntry(ctx, req, domain.SourceAutomatic, importedBy)
}

// releaseFingerprint deletes a fingerprint after neither an entry nor a
// review item could be recorded for it. Without the release the next import
// would classify the transaction as a duplicate and it would be lost for good.
func (s *importService) releaseFingerprint(ctx context.Context, fingerprint string) {
	if err := s.catRepo.DeleteFingerprint(ctx, fingerprint); err != nil {
		s.LogError(ctx, err, "Failed to release fingerprint", slog.String("fingerprint", fingerprint))
	}
}

func (s *importService) enqueueReview(ctx context.Context, txn domain.RawTransaction, fingerprint string, result domain.CategorizationResult, importedBy string) (string, error) {
	now := time.Now().UTC()
	item := domain.ReviewItem{
		ItemID:            uuid.NewString(),
		Fingerprint:       fingerprint,
		TxnDate:           txn.Date,
		Description:       txn.Description,
		Amount:            txn.Amount,
		SourceAccountHint: txn.SourceAccountHint,
		Category:          result.Category,
		DebitAccountCode:  result.DebitAccountCode,
		CreditAccountCode: result.CreditAccountCode,
		Confidence:        result.Confidence,
		Status:            domain.ReviewOpen,
		AuditFields: domain.AuditFields{
			CreatedAt: now,
			CreatedBy: importedBy,
		},
	}
	if err := s.catRepo.SaveReviewItem(ctx, item); err != nil {
		return "", fmt.Errorf("failed to enqueue review item: %w", err)
	}
	return item.ItemID, nil
}

// executeActions runs the declarative side effects a matched rule carries.
// Each action is idempotent under replay: assets are keyed by fingerprint,
// bill settlement is a no-op on an already-paid bill. Action failures are
// logged, not fatal, the journal entry already exists and stands.
func (s *importService) executeActions(ctx context.Context, txn domain.RawTransaction, result domain.CategorizationResult, fingerprint, entryID string, summary *domain.ImportSummary) {
	for _, action := range result.TriggeredActions {
		switch action {
		case domain.ActionAssetCreate:
			asset := domain.FixedAsset{
				AssetID:           uuid.NewString(),
				Name:              txn.Description,
				Cost:              txn.Amount.Abs(),
				AcquiredOn:        txn.Date,
				SourceFingerprint: fingerprint,
				AuditFields: domain.AuditFields{
					CreatedAt: time.Now().UTC(),
					CreatedBy: "import",
				},
			}
			created, err := s.catRepo.InsertAsset(ctx, asset)
			if err != nil {
				s.LogError(ctx, err, "Asset creation failed", slog.String("fingerprint", fingerprint))
				continue
			}
			if created {
				summary.AssetsCreated++
			}
		case domain.ActionBillMatch:
			bill, err := s.catRepo.FindOpenBill(ctx, txn.Description, txn.Amount.Abs())
			if err != nil {
				if !errors.Is(err, apperrors.ErrNotFound) {
					s.LogError(ctx, err, "Bill lookup failed", slog.String("description", txn.Description))
				}
				continue
			}
			matched, err := s.catRepo.MarkBillPaid(ctx, bill.BillID, entryID)
			if err != nil {
				s.LogError(ctx, err, "Bill settlement failed", slog.String("bill_id", bill.BillID))
				continue
			}
			if matched {
				summary.BillsMatched++
			}
		case domain.ActionInventoryUpdate:
			// Inventory is owned by an external collaborator; the trigger is
			// surfaced in the classification result for it to consume.
			s.LogInfo(ctx, "Inventory update signaled", slog.String("entry_id", entryID))
		}
	}
}
