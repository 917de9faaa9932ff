package services_test

import (
	"context"
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
	"github.com/opsdash/ledgercore/internal/dto"
)

type ReviewServiceTestSuite struct {
	suite.Suite
	mockCatRepo *MockCategorizationRepository
	mockLedger  *MockLedgerService
	service     portssvc.ReviewSvc
	userID      string
}

func (suite *ReviewServiceTestSuite) SetupTest() {
	suite.mockCatRepo = new(MockCategorizationRepository)
	suite.mockLedger = new(MockLedgerService)
	suite.service = services.NewReviewService(suite.mockLedger, suite.mockCatRepo)
	suite.userID = uuid.NewString()
}

func openReviewItem() *domain.ReviewItem {
	return &domain.ReviewItem{
		ItemID:            uuid.NewString(),
		Fingerprint:       "abc123",
		TxnDate:           time.Date(2025, 5, 2, 0, 0, 0, 0, time.UTC),
		Description:       "CUSTOMER DEPOSIT 1881",
		Amount:            decimal.NewFromInt(2500),
		SourceAccountHint: "1000",
		Category:          "Sales",
		DebitAccountCode:  "1000",
		CreditAccountCode: "4000",
		Confidence:        0.70,
		Status:            domain.ReviewOpen,
	}
}

func (suite *ReviewServiceTestSuite) TestResolveItem_ConfirmsSuggestion() {
	ctx := context.Background()
	item := openReviewItem()
	entry := &domain.JournalEntry{EntryID: uuid.NewString(), Status: domain.Posted}

	suite.mockCatRepo.On("FindReviewItemByID", ctx, item.ItemID).Return(item, nil).Once()
	suite.mockCatRepo.On("ClaimReviewItem", ctx, item.ItemID, domain.ReviewResolved).Return(nil).Once()

	var postedReq dto.CreateEntryRequest
	suite.mockLedger.On("PostEntry", ctx, mock.AnythingOfType("dto.CreateEntryRequest"), domain.SourceAICategorized, suite.userID).
		Run(func(args mock.Arguments) {
			postedReq = args.Get(1).(dto.CreateEntryRequest)
		}).Return(entry, nil).Once()
	suite.mockCatRepo.On("AttachReviewEntry", ctx, item.ItemID, entry.EntryID).Return(nil).Once()

	resolved, err := suite.service.ResolveItem(ctx, item.ItemID, dto.ResolveReviewRequest{}, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.ReviewResolved, resolved.Status)
	suite.Require().NotNil(resolved.PostedEntryID)
	suite.Equal(entry.EntryID, *resolved.PostedEntryID)

	// The suggested pairing is posted as-is when nothing is overridden
	suite.Require().Len(postedReq.Postings, 2)
	suite.Equal("1000", postedReq.Postings[0].AccountCode)
	suite.Equal(domain.Debit, postedReq.Postings[0].Side)
	suite.Equal("4000", postedReq.Postings[1].AccountCode)
	suite.True(postedReq.Postings[0].Amount.Equal(decimal.NewFromInt(2500)))

	suite.mockCatRepo.AssertExpectations(suite.T())
}

func (suite *ReviewServiceTestSuite) TestResolveItem_OverridesAccounts() {
	ctx := context.Background()
	item := openReviewItem()
	entry := &domain.JournalEntry{EntryID: uuid.NewString(), Status: domain.Posted}

	suite.mockCatRepo.On("FindReviewItemByID", ctx, item.ItemID).Return(item, nil).Once()
	suite.mockCatRepo.On("ClaimReviewItem", ctx, item.ItemID, domain.ReviewResolved).Return(nil).Once()

	var postedReq dto.CreateEntryRequest
	suite.mockLedger.On("PostEntry", ctx, mock.AnythingOfType("dto.CreateEntryRequest"), domain.SourceAICategorized, suite.userID).
		Run(func(args mock.Arguments) {
			postedReq = args.Get(1).(dto.CreateEntryRequest)
		}).Return(entry, nil).Once()
	suite.mockCatRepo.On("AttachReviewEntry", ctx, item.ItemID, entry.EntryID).Return(nil).Once()

	req := dto.ResolveReviewRequest{CreditAccountCode: "4100"}
	resolved, err := suite.service.ResolveItem(ctx, item.ItemID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Equal("4100", resolved.CreditAccountCode)
	suite.Equal("1000", resolved.DebitAccountCode)
	suite.Equal("4100", postedReq.Postings[1].AccountCode)
}

func (suite *ReviewServiceTestSuite) TestResolveItem_RejectSkipsPosting() {
	ctx := context.Background()
	item := openReviewItem()

	suite.mockCatRepo.On("FindReviewItemByID", ctx, item.ItemID).Return(item, nil).Once()
	suite.mockCatRepo.On("ClaimReviewItem", ctx, item.ItemID, domain.ReviewRejected).Return(nil).Once()

	resolved, err := suite.service.ResolveItem(ctx, item.ItemID, dto.ResolveReviewRequest{Reject: true}, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.ReviewRejected, resolved.Status)
	suite.Nil(resolved.PostedEntryID)
	suite.mockLedger.AssertNotCalled(suite.T(), "PostEntry", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ReviewServiceTestSuite) TestResolveItem_LostClaimDoesNotPost() {
	ctx := context.Background()
	item := openReviewItem()

	// Both resolvers read the item while it was still OPEN; the conditional
	// claim decides the race, and the loser must never reach the ledger.
	suite.mockCatRepo.On("FindReviewItemByID", ctx, item.ItemID).Return(item, nil).Once()
	suite.mockCatRepo.On("ClaimReviewItem", ctx, item.ItemID, domain.ReviewResolved).
		Return(apperrors.ErrNotFound).Once()

	_, err := suite.service.ResolveItem(ctx, item.ItemID, dto.ResolveReviewRequest{}, suite.userID)

	suite.Require().ErrorIs(err, apperrors.ErrNotFound)
	suite.mockLedger.AssertNotCalled(suite.T(), "PostEntry", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ReviewServiceTestSuite) TestResolveItem_PostFailureReopensItem() {
	ctx := context.Background()
	item := openReviewItem()

	suite.mockCatRepo.On("FindReviewItemByID", ctx, item.ItemID).Return(item, nil).Once()
	suite.mockCatRepo.On("ClaimReviewItem", ctx, item.ItemID, domain.ReviewResolved).Return(nil).Once()
	suite.mockLedger.On("PostEntry", ctx, mock.AnythingOfType("dto.CreateEntryRequest"), domain.SourceAICategorized, suite.userID).
		Return(nil, apperrors.ErrUnknownAccount).Once()
	suite.mockCatRepo.On("ReopenReviewItem", ctx, item.ItemID).Return(nil).Once()

	_, err := suite.service.ResolveItem(ctx, item.ItemID, dto.ResolveReviewRequest{}, suite.userID)

	suite.Require().ErrorIs(err, apperrors.ErrUnknownAccount)
	suite.mockCatRepo.AssertExpectations(suite.T())
}

func (suite *ReviewServiceTestSuite) TestResolveItem_AlreadyResolved() {
	ctx := context.Background()
	item := openReviewItem()
	item.Status = domain.ReviewResolved

	suite.mockCatRepo.On("FindReviewItemByID", ctx, item.ItemID).Return(item, nil).Once()

	_, err := suite.service.ResolveItem(ctx, item.ItemID, dto.ResolveReviewRequest{}, suite.userID)

	suite.Require().ErrorIs(err, apperrors.ErrValidation)
	suite.mockLedger.AssertNotCalled(suite.T(), "PostEntry", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ReviewServiceTestSuite) TestResolveItem_MissingPairing() {
	ctx := context.Background()
	item := openReviewItem()
	// Unmatched transactions arrive with no suggested accounts at all
	item.DebitAccountCode = ""
	item.CreditAccountCode = ""

	suite.mockCatRepo.On("FindReviewItemByID", ctx, item.ItemID).Return(item, nil).Once()

	_, err := suite.service.ResolveItem(ctx, item.ItemID, dto.ResolveReviewRequest{}, suite.userID)

	suite.Require().ErrorIs(err, apperrors.ErrValidation)
}

func (suite *ReviewServiceTestSuite) TestResolveItem_NotFound() {
	ctx := context.Background()
	itemID := uuid.NewString()

	suite.mockCatRepo.On("FindReviewItemByID", ctx, itemID).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.ResolveItem(ctx, itemID, dto.ResolveReviewRequest{}, suite.userID)
	suite.Require().ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *ReviewServiceTestSuite) TestListOpenItems() {
	ctx := context.Background()
	items := []domain.ReviewItem{*openReviewItem()}

	suite.mockCatRepo.On("ListOpenReviewItems", ctx).Return(items, nil).Once()

	got, err := suite.service.ListOpenItems(ctx)

	suite.Require().NoError(err)
	suite.Len(got, 1)
}

func TestReviewServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ReviewServiceTestSuite))
}
