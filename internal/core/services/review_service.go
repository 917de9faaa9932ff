package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/opsdash/ledgercore/internal/apperrors"
	"github.com/opsdash/ledgercore/internal/core/domain"
	portsrepo "github.com/opsdash/ledgercore/internal/core/ports/repositories"
	portssvc "github.com/opsdash/ledgercore/internal/core/ports/services"
	"github.com/opsdash/ledgercore/internal/dto"
)

// reviewService is the human escape hatch of the pipeline: items below the
// confidence threshold wait here until confirmed, overridden or rejected.
type reviewService struct {
	BaseService
	ledger  portssvc.LedgerSvc
	catRepo portsrepo.CategorizationRepository
}

// NewReviewService creates a new ReviewSvc.
func NewReviewService(ledger portssvc.LedgerSvc, catRepo portsrepo.CategorizationRepository) portssvc.ReviewSvc {
	return &reviewService{ledger: ledger, catRepo: catRepo}
}

var _ portssvc.ReviewSvc = (*reviewService)(nil)

func (s *reviewService) ListOpenItems(ctx context.Context) ([]domain.ReviewItem, error) {
	return s.catRepo.ListOpenReviewItems(ctx)
}

// ResolveItem confirms or overrides the suggested account pairing and posts
// the entry with source=AI_CATEGORIZED, or rejects the item without posting.
// Resolving a non-open item fails; an item is consumed exactly once.
func (s *reviewService) ResolveItem(ctx context.Context, itemID string, req dto.ResolveReviewRequest, userID string) (*domain.ReviewItem, error) {
	item, err := s.catRepo.FindReviewItemByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.Status != domain.ReviewOpen {
		return nil, fmt.Errorf("%w: review item %s is %s", apperrors.ErrValidation, itemID, item.Status)
	}

	if req.Reject {
		if err := s.catRepo.ClaimReviewItem(ctx, itemID, domain.ReviewRejected); err != nil {
			return nil, fmt.Errorf("failed to reject review item: %w", err)
		}
		item.Status = domain.ReviewRejected
		s.LogInfo(ctx, "Review item rejected", slog.String("item_id", itemID), slog.String("user_id", userID))
		return item, nil
	}

	debit := item.DebitAccountCode
	credit := item.CreditAccountCode
	if req.DebitAccountCode != "" {
		debit = req.DebitAccountCode
	}
	if req.CreditAccountCode != "" {
		credit = req.CreditAccountCode
	}
	if debit == "" || credit == "" {
		return nil, fmt.Errorf("%w: review item %s has no account pairing; provide one", apperrors.ErrValidation, itemID)
	}

	// Claim before posting. The claim is a conditional OPEN transition, so of
	// two concurrent resolves only one reaches the ledger; the other gets the
	// claim failure and posts nothing.
	if err := s.catRepo.ClaimReviewItem(ctx, itemID, domain.ReviewResolved); err != nil {
		return nil, fmt.Errorf("failed to claim review item: %w", err)
	}

	amount := item.Amount.Abs()
	entryReq := dto.CreateEntryRequest{
		Date:        item.TxnDate,
		Description: item.Description,
		Postings: []dto.CreatePostingRequest{
			{AccountCode: debit, Side: domain.Debit, Amount: amount},
			{AccountCode: credit, Side: domain.Credit, Amount: amount},
		},
	}
	entry, err := s.ledger.PostEntry(ctx, entryReq, domain.SourceAICategorized, userID)
	if err != nil {
		if reopenErr := s.catRepo.ReopenReviewItem(ctx, itemID); reopenErr != nil {
			s.LogError(ctx, reopenErr, "Failed to reopen review item after post failure", slog.String("item_id", itemID))
		}
		return nil, err
	}

	if err := s.catRepo.AttachReviewEntry(ctx, itemID, entry.EntryID); err != nil {
		// The entry is posted and the item claimed; only the back-link is
		// missing. Surface it in the log rather than failing the resolve.
		s.LogError(ctx, err, "Failed to record posted entry on review item",
			slog.String("item_id", itemID), slog.String("entry_id", entry.EntryID))
	}

	item.Status = domain.ReviewResolved
	item.PostedEntryID = &entry.EntryID
	item.DebitAccountCode = debit
	item.CreditAccountCode = credit

	s.LogInfo(ctx, "Review item resolved",
		slog.String("item_id", itemID),
		slog.String("entry_id", entry.EntryID),
		slog.String("user_id", userID))
	return item, nil
}
