package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/opsdash/ledgercore/internal/apperrors"
	"github.com/opsdash/ledgercore/internal/core/domain"
	portssvc "github.com/opsdash/ledgercore/internal/core/ports/services"
	"github.com/opsdash/ledgercore/internal/core/services"
)

type ImportServiceTestSuite struct {
	suite.Suite
	mockCatRepo *MockCategorizationRepository
	mockLedger  *MockLedgerService
	service     portssvc.ImportSvc
	rules       []domain.Rule
	userID      string
}

func (suite *ImportServiceTestSuite) SetupTest() {
	suite.mockCatRepo = new(MockCategorizationRepository)
	suite.mockLedger = new(MockLedgerService)
	suite.service = services.NewImportService(
		services.NewClassifierService(),
		suite.mockLedger,
		suite.mockCatRepo,
		0.8,
	)
	suite.userID = uuid.NewString()

	suite.rules = []domain.Rule{
		{RuleID: "r-fuel", Keyword: "shell", Category: "Fuel", Priority: 50, Confidence: 0.95, DebitAccountCode: "6100", CreditAccountCode: "1000", IsActive: true},
		{RuleID: "r-icp", Keyword: "icp", Category: "Materials", Priority: 80, Confidence: 0.95, DebitAccountCode: "2000", CreditAccountCode: "1000", Actions: []domain.ActionType{domain.ActionBillMatch}, IsActive: true},
		{RuleID: "r-deposit", Keyword: "deposit", Category: "Sales", Priority: 30, Confidence: 0.70, DebitAccountCode: "1000", CreditAccountCode: "4000", IsActive: true},
	}
}

func feedTxn(description string, amount int64) domain.RawTransaction {
	return domain.RawTransaction{
		Date:              time.Date(2025, 5, 2, 0, 0, 0, 0, time.UTC),
		Description:       description,
		Amount:            decimal.NewFromInt(amount),
		SourceAccountHint: "1000",
	}
}

func postedEntry() *domain.JournalEntry {
	return &domain.JournalEntry{EntryID: uuid.NewString(), Status: domain.Posted}
}

func (suite *ImportServiceTestSuite) TestImportBatch_AutoPostsConfidentMatch() {
	ctx := context.Background()
	txns := []domain.RawTransaction{feedTxn("SHELL OIL 57442", -82)}

	suite.mockCatRepo.On("ListRules", ctx).Return(suite.rules, nil).Once()
	suite.mockCatRepo.On("InsertFingerprint", ctx, txns[0].Fingerprint(), "1000").Return(nil).Once()
	suite.mockLedger.On("PostEntry", ctx, mock.AnythingOfType("dto.CreateEntryRequest"), domain.SourceAutomatic, suite.userID).
		Return(postedEntry(), nil).Once()

	summary, err := suite.service.ImportBatch(ctx, txns, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(1, summary.Total)
	suite.Equal(1, summary.Categorized)
	suite.Equal(1, summary.JournalEntries)
	suite.Equal(0, summary.NeedsReview)
	suite.Require().Len(summary.Outcomes, 1)
	suite.NotNil(summary.Outcomes[0].PostedEntryID)
	suite.Contains(summary.Outcomes[0].Classification.TriggeredActions, domain.ActionJournalPost)

	suite.mockLedger.AssertExpectations(suite.T())
}

func (suite *ImportServiceTestSuite) TestImportBatch_SkipsDuplicates() {
	ctx := context.Background()
	txns := []domain.RawTransaction{feedTxn("SHELL OIL 57442", -82)}

	suite.mockCatRepo.On("ListRules", ctx).Return(suite.rules, nil).Once()
	suite.mockCatRepo.On("InsertFingerprint", ctx, txns[0].Fingerprint(), "1000").Return(apperrors.ErrDuplicateTransaction).Once()

	summary, err := suite.service.ImportBatch(ctx, txns, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(1, summary.Duplicates)
	suite.Equal(0, summary.Categorized)
	suite.True(summary.Outcomes[0].Duplicate)
	// A duplicate never reaches the ledger
	suite.mockLedger.AssertNotCalled(suite.T(), "PostEntry", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ImportServiceTestSuite) TestImportBatch_LowConfidenceGoesToReview() {
	ctx := context.Background()
	// The deposit rule carries 0.70 confidence, below the 0.8 threshold
	txns := []domain.RawTransaction{feedTxn("CUSTOMER DEPOSIT 1881", 2500)}

	suite.mockCatRepo.On("ListRules", ctx).Return(suite.rules, nil).Once()
	suite.mockCatRepo.On("InsertFingerprint", ctx, txns[0].Fingerprint(), "1000").Return(nil).Once()
	suite.mockCatRepo.On("SaveReviewItem", ctx, mock.AnythingOfType("domain.ReviewItem")).Return(nil).Once()

	summary, err := suite.service.ImportBatch(ctx, txns, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(1, summary.NeedsReview)
	suite.Equal(0, summary.JournalEntries)
	suite.NotNil(summary.Outcomes[0].ReviewItemID)
	suite.True(summary.Outcomes[0].Classification.NeedsReview)

	suite.mockLedger.AssertNotCalled(suite.T(), "PostEntry", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ImportServiceTestSuite) TestImportBatch_PostFailureDegradesToReview() {
	ctx := context.Background()
	txns := []domain.RawTransaction{feedTxn("SHELL OIL 57442", -82)}

	suite.mockCatRepo.On("ListRules", ctx).Return(suite.rules, nil).Once()
	suite.mockCatRepo.On("InsertFingerprint", ctx, txns[0].Fingerprint(), "1000").Return(nil).Once()
	// Rule references an account missing from the chart
	suite.mockLedger.On("PostEntry", ctx, mock.AnythingOfType("dto.CreateEntryRequest"), domain.SourceAutomatic, suite.userID).
		Return(nil, apperrors.ErrUnknownAccount).Once()
	suite.mockCatRepo.On("SaveReviewItem", ctx, mock.AnythingOfType("domain.ReviewItem")).Return(nil).Once()

	summary, err := suite.service.ImportBatch(ctx, txns, suite.userID)

	suite.Require().NoError(err, "one bad transaction must not fail the batch")
	suite.Equal(1, summary.NeedsReview)
	suite.Equal(0, summary.JournalEntries)
	suite.NotNil(summary.Outcomes[0].ReviewItemID)
}

func (suite *ImportServiceTestSuite) TestImportBatch_ReviewFailureReleasesFingerprint() {
	ctx := context.Background()
	txns := []domain.RawTransaction{feedTxn("CUSTOMER DEPOSIT 1881", 2500)}

	suite.mockCatRepo.On("ListRules", ctx).Return(suite.rules, nil).Once()
	suite.mockCatRepo.On("InsertFingerprint", ctx, txns[0].Fingerprint(), "1000").Return(nil).Once()
	suite.mockCatRepo.On("SaveReviewItem", ctx, mock.AnythingOfType("domain.ReviewItem")).
		Return(errors.New("connection reset")).Once()
	suite.mockCatRepo.On("DeleteFingerprint", ctx, txns[0].Fingerprint()).Return(nil).Once()

	summary, err := suite.service.ImportBatch(ctx, txns, suite.userID)

	// The batch keeps going, but the fingerprint must be released: otherwise
	// the next import of the same file would see a duplicate and the
	// transaction would never post or reach review.
	suite.Require().NoError(err)
	suite.Equal(0, summary.NeedsReview)
	suite.Equal(0, summary.Duplicates)
	suite.Nil(summary.Outcomes[0].ReviewItemID)
	suite.mockCatRepo.AssertExpectations(suite.T())
}

func (suite *ImportServiceTestSuite) TestImportBatch_PostAndReviewFailureReleasesFingerprint() {
	ctx := context.Background()
	txns := []domain.RawTransaction{feedTxn("SHELL OIL 57442", -82)}

	suite.mockCatRepo.On("ListRules", ctx).Return(suite.rules, nil).Once()
	suite.mockCatRepo.On("InsertFingerprint", ctx, txns[0].Fingerprint(), "1000").Return(nil).Once()
	suite.mockLedger.On("PostEntry", ctx, mock.AnythingOfType("dto.CreateEntryRequest"), domain.SourceAutomatic, suite.userID).
		Return(nil, apperrors.ErrUnknownAccount).Once()
	suite.mockCatRepo.On("SaveReviewItem", ctx, mock.AnythingOfType("domain.ReviewItem")).
		Return(errors.New("connection reset")).Once()
	suite.mockCatRepo.On("DeleteFingerprint", ctx, txns[0].Fingerprint()).Return(nil).Once()

	summary, err := suite.service.ImportBatch(ctx, txns, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(0, summary.JournalEntries)
	suite.Equal(0, summary.NeedsReview)
	suite.mockCatRepo.AssertExpectations(suite.T())
}

func (suite *ImportServiceTestSuite) TestImportBatch_BillMatchAction() {
	ctx := context.Background()
	txns := []domain.RawTransaction{feedTxn("ICP SUPPLY CO PAYMENT", -1200)}
	entry := postedEntry()
	bill := &domain.VendorBill{BillID: uuid.NewString(), VendorName: "ICP", Amount: decimal.NewFromInt(1200), Status: domain.BillOpen}

	suite.mockCatRepo.On("ListRules", ctx).Return(suite.rules, nil).Once()
	suite.mockCatRepo.On("InsertFingerprint", ctx, txns[0].Fingerprint(), "1000").Return(nil).Once()
	suite.mockLedger.On("PostEntry", ctx, mock.AnythingOfType("dto.CreateEntryRequest"), domain.SourceAutomatic, suite.userID).
		Return(entry, nil).Once()
	suite.mockCatRepo.On("FindOpenBill", ctx, "ICP SUPPLY CO PAYMENT", decimal.NewFromInt(1200)).Return(bill, nil).Once()
	suite.mockCatRepo.On("MarkBillPaid", ctx, bill.BillID, entry.EntryID).Return(true, nil).Once()

	summary, err := suite.service.ImportBatch(ctx, txns, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(1, summary.BillsMatched)
	suite.mockCatRepo.AssertExpectations(suite.T())
}

func (suite *ImportServiceTestSuite) TestImportBatch_BillMatchNoOpenBill() {
	ctx := context.Background()
	txns := []domain.RawTransaction{feedTxn("ICP SUPPLY CO PAYMENT", -1200)}

	suite.mockCatRepo.On("ListRules", ctx).Return(suite.rules, nil).Once()
	suite.mockCatRepo.On("InsertFingerprint", ctx, txns[0].Fingerprint(), "1000").Return(nil).Once()
	suite.mockLedger.On("PostEntry", ctx, mock.AnythingOfType("dto.CreateEntryRequest"), domain.SourceAutomatic, suite.userID).
		Return(postedEntry(), nil).Once()
	suite.mockCatRepo.On("FindOpenBill", ctx, "ICP SUPPLY CO PAYMENT", decimal.NewFromInt(1200)).
		Return(nil, apperrors.ErrNotFound).Once()

	summary, err := suite.service.ImportBatch(ctx, txns, suite.userID)

	// The entry still stands; only the side effect is skipped
	suite.Require().NoError(err)
	suite.Equal(1, summary.JournalEntries)
	suite.Equal(0, summary.BillsMatched)
}

func (suite *ImportServiceTestSuite) TestImportBatch_CancellationBetweenTransactions() {
	ctx, cancel := context.WithCancel(context.Background())
	txns := []domain.RawTransaction{
		feedTxn("SHELL OIL 57442", -82),
		feedTxn("SHELL OIL 99100", -61),
	}

	suite.mockCatRepo.On("ListRules", mock.Anything).Return(suite.rules, nil).Once()
	suite.mockCatRepo.On("InsertFingerprint", mock.Anything, txns[0].Fingerprint(), "1000").Return(nil).Once()
	suite.mockLedger.On("PostEntry", mock.Anything, mock.AnythingOfType("dto.CreateEntryRequest"), domain.SourceAutomatic, suite.userID).
		Run(func(mock.Arguments) { cancel() }).
		Return(postedEntry(), nil).Once()

	summary, err := suite.service.ImportBatch(ctx, txns, suite.userID)

	// The first transaction completed and stays posted; the second was never
	// started and a re-run will pick it up.
	suite.Require().ErrorIs(err, context.Canceled)
	suite.Require().NotNil(summary)
	suite.Len(summary.Outcomes, 1)
	suite.Equal(1, summary.JournalEntries)
	suite.mockCatRepo.AssertNotCalled(suite.T(), "InsertFingerprint", mock.Anything, txns[1].Fingerprint(), "1000")
}

func TestImportServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ImportServiceTestSuite))
}
