package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/opsdash/ledgercore/internal/apperrors"
	"github.com/opsdash/ledgercore/internal/core/domain"
	portsrepo "github.com/opsdash/ledgercore/internal/core/ports/repositories"
	portssvc "github.com/opsdash/ledgercore/internal/core/ports/services"
	"github.com/opsdash/ledgercore/internal/dto"
)

// ledgerService owns the posting invariant: candidate entries are fully
// validated before any write, and the append itself is atomic.
type ledgerService struct {
	BaseService
	accountRepo portsrepo.AccountRepository
	journalRepo portsrepo.JournalRepository
}

// NewLedgerService creates a new LedgerSvc.
func NewLedgerService(accountRepo portsrepo.AccountRepository, journalRepo portsrepo.JournalRepository) portssvc.LedgerSvc {
	return &ledgerService{
		accountRepo: accountRepo,
		journalRepo: journalRepo,
	}
}

var _ portssvc.LedgerSvc = (*ledgerService)(nil)

// validatePostings enforces the structural entry invariants: at least one
// debit and one credit line, every amount strictly positive, and
// sum(debits) == sum(credits) with no tolerance.
func validatePostings(postings []dto.CreatePostingRequest) error {
	if len(postings) == 0 {
		return apperrors.ErrEmptyEntry
	}

	debits := decimal.Zero
	credits := decimal.Zero
	hasDebit, hasCredit := false, false

	for _, p := range postings {
		if p.Amount.LessThanOrEqual(decimal.Zero) {
			return fmt.Errorf("%w: account %s has amount %s", apperrors.ErrZeroOrNegativeAmount, p.AccountCode, p.Amount.String())
		}
		switch p.Side {
		case domain.Debit:
			debits = debits.Add(p.Amount)
			hasDebit = true
		case domain.Credit:
			credits = credits.Add(p.Amount)
			hasCredit = true
		default:
			return fmt.Errorf("%w: unknown posting side %q", apperrors.ErrValidation, p.Side)
		}
	}

	if !hasDebit || !hasCredit {
		return apperrors.ErrEmptyEntry
	}
	if !debits.Equal(credits) {
		return fmt.Errorf("%w: debits sum is %s and credits sum is %s",
			apperrors.ErrUnbalancedEntry, debits.String(), credits.String())
	}
	return nil
}

// PostEntry validates a candidate entry and appends it atomically. All
// failure conditions are checked before any state change; partial posting is
// never observable.
func (s *ledgerService) PostEntry(ctx context.Context, req dto.CreateEntryRequest, source domain.EntrySource, createdBy string) (*domain.JournalEntry, error) {
	if err := validatePostings(req.Postings); err != nil {
		return nil, err
	}

	// Every referenced account must exist and be active.
	codes := make([]string, 0, len(req.Postings))
	for _, p := range req.Postings {
		codes = append(codes, p.AccountCode)
	}
	codes = uniqueStrings(codes)

	accounts, err := s.accountRepo.FindAccountsByCodes(ctx, codes)
	if err != nil {
		s.LogError(ctx, err, "Failed to fetch accounts for entry validation")
		return nil, fmt.Errorf("failed to fetch accounts: %w", err)
	}
	for _, code := range codes {
		acc, found := accounts[code]
		if !found {
			return nil, fmt.Errorf("%w: code %s", apperrors.ErrUnknownAccount, code)
		}
		if !acc.IsActive {
			return nil, fmt.Errorf("%w: code %s", apperrors.ErrInactiveAccount, code)
		}
	}

	now := time.Now().UTC()
	entry := domain.JournalEntry{
		EntryID:     uuid.NewString(),
		EntryDate:   req.Date,
		Description: req.Description,
		Reference:   req.Reference,
		Source:      source,
		Status:      domain.Posted,
		AuditFields: domain.AuditFields{
			CreatedAt: now,
			CreatedBy: createdBy,
		},
	}

	postings := make([]domain.Posting, len(req.Postings))
	for i, p := range req.Postings {
		postings[i] = domain.Posting{
			PostingID:   uuid.NewString(),
			EntryID:     entry.EntryID,
			AccountCode: p.AccountCode,
			Side:        p.Side,
			Amount:      p.Amount,
		}
	}

	if err := s.journalRepo.SaveEntry(ctx, entry, postings); err != nil {
		s.LogError(ctx, err, "Failed to save journal entry", slog.String("entry_id", entry.EntryID))
		return nil, fmt.Errorf("failed to save entry: %w", err)
	}

	s.LogInfo(ctx, "Journal entry posted",
		slog.String("entry_id", entry.EntryID),
		slog.String("source", string(source)),
		slog.Int("postings", len(postings)))
	return &entry, nil
}

// ReverseEntry creates a new entry with every posting's side flipped and the
// same amounts, linked to the original for the audit trail. The original is
// never deleted.
func (s *ledgerService) ReverseEntry(ctx context.Context, entryID string, userID string) (*domain.JournalEntry, error) {
	original, err := s.journalRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if original.Status == domain.Reversed {
		return nil, fmt.Errorf("%w: entry %s", apperrors.ErrAlreadyReversed, entryID)
	}

	originalPostings, err := s.journalRepo.FindPostingsByEntryID(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to load postings for entry %s: %w", entryID, err)
	}

	now := time.Now().UTC()
	reversal := domain.JournalEntry{
		EntryID:         uuid.NewString(),
		EntryDate:       now,
		Description:     fmt.Sprintf("Reversal of: %s", original.Description),
		Reference:       original.Reference,
		Source:          original.Source,
		Status:          domain.Posted,
		ReversesEntryID: &original.EntryID,
		AuditFields: domain.AuditFields{
			CreatedAt: now,
			CreatedBy: userID,
		},
	}

	flipped := make([]domain.Posting, len(originalPostings))
	for i, p := range originalPostings {
		flipped[i] = domain.Posting{
			PostingID:   uuid.NewString(),
			EntryID:     reversal.EntryID,
			AccountCode: p.AccountCode,
			Side:        p.Side.Opposite(),
			Amount:      p.Amount,
		}
	}

	if err := s.journalRepo.SaveEntry(ctx, reversal, flipped); err != nil {
		s.LogError(ctx, err, "Failed to save reversal entry", slog.String("original_entry_id", entryID))
		return nil, fmt.Errorf("failed to save reversal: %w", err)
	}
	if err := s.journalRepo.LinkReversal(ctx, original.EntryID, reversal.EntryID); err != nil {
		s.LogError(ctx, err, "Failed to link reversal", slog.String("original_entry_id", entryID))
		return nil, fmt.Errorf("failed to link reversal: %w", err)
	}

	s.LogInfo(ctx, "Journal entry reversed",
		slog.String("entry_id", entryID),
		slog.String("reversal_entry_id", reversal.EntryID))
	return &reversal, nil
}

// GetEntry retrieves an entry with its postings.
func (s *ledgerService) GetEntry(ctx context.Context, entryID string) (*domain.JournalEntry, []domain.Posting, error) {
	entry, err := s.journalRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return nil, nil, err
	}
	postings, err := s.journalRepo.FindPostingsByEntryID(ctx, entryID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load postings for entry %s: %w", entryID, err)
	}
	return entry, postings, nil
}

// ListAccountPostings retrieves an account's postings in a date range.
func (s *ledgerService) ListAccountPostings(ctx context.Context, accountCode string, from, to time.Time) ([]domain.Posting, error) {
	if _, err := s.accountRepo.FindAccountByCode(ctx, accountCode); err != nil {
		return nil, err
	}
	return s.journalRepo.ListPostingsByAccount(ctx, accountCode, from, to)
}

// uniqueStrings de-duplicates in place preserving first occurrence order.
func uniqueStrings(input []string) []string {
	seen := make(map[string]struct{}, len(input))
	j := 0
	for _, v := range input {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		input[j] = v
		j++
	}
	return input[:j]
}
