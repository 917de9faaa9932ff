package services_test

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/opsdash/ledgercore/internal/core/domain"
	portsrepo "github.com/opsdash/ledgercore/internal/core/ports/repositories"
	portssvc "github.com/opsdash/ledgercore/internal/core/ports/services"
	"github.com/opsdash/ledgercore/internal/dto"
)

// --- Mock AccountRepository ---
type MockAccountRepository struct {
	mock.Mock
}

var _ portsrepo.AccountRepository = (*MockAccountRepository)(nil)

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) FindAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountsByCodes(ctx context.Context, codes []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, codes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccounts(ctx context.Context, activeOnly bool) ([]domain.Account, error) {
	args := m.Called(ctx, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) DeactivateAccount(ctx context.Context, code string) error {
	args := m.Called(ctx, code)
	return args.Error(0)
}

// --- Mock JournalRepository ---
type MockJournalRepository struct {
	mock.Mock
}

var _ portsrepo.JournalRepository = (*MockJournalRepository)(nil)

func (m *MockJournalRepository) SaveEntry(ctx context.Context, entry domain.JournalEntry, postings []domain.Posting) error {
	args := m.Called(ctx, entry, postings)
	return args.Error(0)
}

func (m *MockJournalRepository) LinkReversal(ctx context.Context, originalEntryID, reversingEntryID string) error {
	args := m.Called(ctx, originalEntryID, reversingEntryID)
	return args.Error(0)
}

func (m *MockJournalRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalRepository) FindPostingsByEntryID(ctx context.Context, entryID string) ([]domain.Posting, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Posting), args.Error(1)
}

func (m *MockJournalRepository) ListPostingsByAccount(ctx context.Context, accountCode string, from, to time.Time) ([]domain.Posting, error) {
	args := m.Called(ctx, accountCode, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Posting), args.Error(1)
}

func (m *MockJournalRepository) SumPostingsByAccount(ctx context.Context, accountCode string, asOf time.Time) (decimal.Decimal, decimal.Decimal, error) {
	args := m.Called(ctx, accountCode, asOf)
	return args.Get(0).(decimal.Decimal), args.Get(1).(decimal.Decimal), args.Error(2)
}

func (m *MockJournalRepository) ActivityPerAccount(ctx context.Context, asOf time.Time) ([]domain.AccountActivity, error) {
	args := m.Called(ctx, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AccountActivity), args.Error(1)
}

func (m *MockJournalRepository) ActivityPerAccountRange(ctx context.Context, from, to time.Time) ([]domain.AccountActivity, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AccountActivity), args.Error(1)
}

// --- Mock CategorizationRepository ---
type MockCategorizationRepository struct {
	mock.Mock
}

var _ portsrepo.CategorizationRepository = (*MockCategorizationRepository)(nil)

func (m *MockCategorizationRepository) ListRules(ctx context.Context) ([]domain.Rule, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Rule), args.Error(1)
}

func (m *MockCategorizationRepository) InsertFingerprint(ctx context.Context, fingerprint string, source string) error {
	args := m.Called(ctx, fingerprint, source)
	return args.Error(0)
}

func (m *MockCategorizationRepository) DeleteFingerprint(ctx context.Context, fingerprint string) error {
	args := m.Called(ctx, fingerprint)
	return args.Error(0)
}

func (m *MockCategorizationRepository) SaveReviewItem(ctx context.Context, item domain.ReviewItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockCategorizationRepository) FindReviewItemByID(ctx context.Context, itemID string) (*domain.ReviewItem, error) {
	args := m.Called(ctx, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReviewItem), args.Error(1)
}

func (m *MockCategorizationRepository) ListOpenReviewItems(ctx context.Context) ([]domain.ReviewItem, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ReviewItem), args.Error(1)
}

func (m *MockCategorizationRepository) ClaimReviewItem(ctx context.Context, itemID string, status domain.ReviewStatus) error {
	args := m.Called(ctx, itemID, status)
	return args.Error(0)
}

func (m *MockCategorizationRepository) AttachReviewEntry(ctx context.Context, itemID, entryID string) error {
	args := m.Called(ctx, itemID, entryID)
	return args.Error(0)
}

func (m *MockCategorizationRepository) ReopenReviewItem(ctx context.Context, itemID string) error {
	args := m.Called(ctx, itemID)
	return args.Error(0)
}

func (m *MockCategorizationRepository) FindOpenBill(ctx context.Context, description string, amount decimal.Decimal) (*domain.VendorBill, error) {
	args := m.Called(ctx, description, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.VendorBill), args.Error(1)
}

func (m *MockCategorizationRepository) MarkBillPaid(ctx context.Context, billID, entryID string) (bool, error) {
	args := m.Called(ctx, billID, entryID)
	return args.Bool(0), args.Error(1)
}

func (m *MockCategorizationRepository) InsertAsset(ctx context.Context, asset domain.FixedAsset) (bool, error) {
	args := m.Called(ctx, asset)
	return args.Bool(0), args.Error(1)
}

// --- Mock LedgerSvc ---
type MockLedgerService struct {
	mock.Mock
}

var _ portssvc.LedgerSvc = (*MockLedgerService)(nil)

func (m *MockLedgerService) PostEntry(ctx context.Context, req dto.CreateEntryRequest, source domain.EntrySource, createdBy string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, req, source, createdBy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockLedgerService) ReverseEntry(ctx context.Context, entryID string, userID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, entryID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockLedgerService) GetEntry(ctx context.Context, entryID string) (*domain.JournalEntry, []domain.Posting, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.JournalEntry), args.Get(1).([]domain.Posting), args.Error(2)
}

func (m *MockLedgerService) ListAccountPostings(ctx context.Context, accountCode string, from, to time.Time) ([]domain.Posting, error) {
	args := m.Called(ctx, accountCode, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Posting), args.Error(1)
}
