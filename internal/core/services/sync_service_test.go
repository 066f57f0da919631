package services_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/pocketledger/pocket_ledger_sync/internal/apperrors"
	"github.com/pocketledger/pocket_ledger_sync/internal/core/domain"
	"github.com/pocketledger/pocket_ledger_sync/internal/core/services"
	portssvc "github.com/pocketledger/pocket_ledger_sync/internal/core/ports/services"
	"github.com/pocketledger/pocket_ledger_sync/internal/dto"
)

type SyncServiceTestSuite struct {
	suite.Suite
	mockDrafts   *MockDraftRepository
	mockLedger   *MockLedgerRepository
	mockPending  *MockPendingRepository
	mockRemote   *MockRemoteClient
	mockUploader *MockAttachmentUploader
	service      portssvc.SyncSvcFacade
}

func (suite *SyncServiceTestSuite) SetupTest() {
	suite.mockDrafts = new(MockDraftRepository)
	suite.mockLedger = new(MockLedgerRepository)
	suite.mockPending = new(MockPendingRepository)
	suite.mockRemote = new(MockRemoteClient)
	suite.mockUploader = new(MockAttachmentUploader)
	suite.service = services.NewSyncService(
		suite.mockDrafts, suite.mockLedger, suite.mockPending, suite.mockRemote, suite.mockUploader,
	)
}

func stagedLeg(journalID int64, description string) domain.TransactionLeg {
	return domain.TransactionLeg{
		JournalID:    journalID,
		Amount:       decimal.NewFromFloat(12.50),
		Kind:         domain.KindWithdrawal,
		Description:  description,
		Date:         time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		CurrencyCode: "EUR",
		IsPending:    true,
	}
}

func committedResponse(groupID int64, journalIDs ...int64) *dto.GroupResponse {
	resp := &dto.GroupResponse{}
	resp.Data.ID = dto.FlexInt64(groupID)
	resp.Data.Attributes.GroupTitle = "Groceries"
	for _, id := range journalIDs {
		resp.Data.Attributes.Transactions = append(resp.Data.Attributes.Transactions, dto.RemoteLeg{
			TransactionJournalID: dto.FlexInt64(id),
			Type:                 "withdrawal",
			Description:          "Milk",
			Date:                 time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
			Amount:               decimal.NewFromFloat(12.50),
			CurrencyCode:         "EUR",
		})
	}
	return resp
}

func (suite *SyncServiceTestSuite) TestSubmitGroup_CommitsAndPurgesDraft() {
	ctx := context.Background()
	legs := []domain.TransactionLeg{stagedLeg(-11, "Milk"), stagedLeg(-12, "Bread")}

	suite.mockDrafts.On("LegsForMaster", ctx, int64(7)).Return(legs, nil)
	suite.mockRemote.On("CreateGroup", ctx, mock.MatchedBy(func(sub dto.GroupSubmission) bool {
		return sub.GroupTitle == "Groceries" && len(sub.Legs) == 2 && sub.IdempotencyKey != ""
	})).Return(committedResponse(42, 101, 102), nil)
	suite.mockLedger.On("UpsertLegs", ctx, mock.Anything, mock.Anything).Return(nil)
	suite.mockDrafts.On("PurgeMaster", ctx, int64(7)).Return(nil)

	result, err := suite.service.SubmitGroup(ctx, 7, "Groceries")

	suite.NoError(err)
	suite.Equal(dto.SubmitCommitted, result.Status)
	suite.Equal(int64(42), result.GroupID)
	suite.Equal([]int64{101, 102}, result.JournalIDs)
	suite.mockDrafts.AssertCalled(suite.T(), "PurgeMaster", ctx, int64(7))
	suite.mockPending.AssertNotCalled(suite.T(), "SavePending", mock.Anything, mock.Anything)
}

func (suite *SyncServiceTestSuite) TestSubmitGroup_NetworkFailureDefersSubmission() {
	ctx := context.Background()
	legs := []domain.TransactionLeg{stagedLeg(-11, "Milk")}

	suite.mockDrafts.On("LegsForMaster", ctx, int64(7)).Return(legs, nil)
	suite.mockRemote.On("CreateGroup", ctx, mock.Anything).
		Return(nil, apperrors.ErrRemoteUnreachable)
	suite.mockPending.On("SavePending", ctx, mock.MatchedBy(func(p domain.PendingSubmission) bool {
		return p.MasterID == 7 && p.GroupTitle == "Groceries"
	})).Return(nil)

	result, err := suite.service.SubmitGroup(ctx, 7, "Groceries")

	suite.NoError(err)
	suite.Equal(dto.SubmitPendingRetry, result.Status)
	suite.Contains(result.Message, "will be synced")
	// The draft survives the failure.
	suite.mockDrafts.AssertNotCalled(suite.T(), "PurgeMaster", mock.Anything, mock.Anything)
}

func (suite *SyncServiceTestSuite) TestSubmitGroup_RejectionRetainsDraft() {
	ctx := context.Background()
	legs := []domain.TransactionLeg{stagedLeg(-11, "Milk")}

	remoteErr := &dto.RemoteError{
		StatusCode: http.StatusUnprocessableEntity,
		Message:    "The given data was invalid.",
		Errors:     dto.RemoteFieldErrors{TransactionsCurrency: []string{"Unknown currency."}},
	}
	suite.mockDrafts.On("LegsForMaster", ctx, int64(7)).Return(legs, nil)
	suite.mockRemote.On("CreateGroup", ctx, mock.Anything).Return(nil, remoteErr)

	result, err := suite.service.SubmitGroup(ctx, 7, "Groceries")

	suite.NoError(err)
	suite.Equal(dto.SubmitRejected, result.Status)
	suite.Equal("Unknown currency.", result.Message)
	suite.mockDrafts.AssertNotCalled(suite.T(), "PurgeMaster", mock.Anything, mock.Anything)
	suite.mockPending.AssertNotCalled(suite.T(), "SavePending", mock.Anything, mock.Anything)
}

func (suite *SyncServiceTestSuite) TestSubmitGroup_EmptyGroupFails() {
	ctx := context.Background()
	suite.mockDrafts.On("LegsForMaster", ctx, int64(9)).Return([]domain.TransactionLeg{}, nil)

	_, err := suite.service.SubmitGroup(ctx, 9, "Empty")

	suite.ErrorIs(err, apperrors.ErrEmptyGroup)
	suite.mockRemote.AssertNotCalled(suite.T(), "CreateGroup", mock.Anything, mock.Anything)
}

func (suite *SyncServiceTestSuite) TestSubmitGroup_MirrorFailureKeepsDraft() {
	ctx := context.Background()
	legs := []domain.TransactionLeg{stagedLeg(-11, "Milk")}

	suite.mockDrafts.On("LegsForMaster", ctx, int64(7)).Return(legs, nil)
	suite.mockRemote.On("CreateGroup", ctx, mock.Anything).Return(committedResponse(42, 101), nil)
	suite.mockLedger.On("UpsertLegs", ctx, mock.Anything, mock.Anything).Return(assert.AnError)

	_, err := suite.service.SubmitGroup(ctx, 7, "Groceries")

	suite.Error(err)
	suite.mockDrafts.AssertNotCalled(suite.T(), "PurgeMaster", mock.Anything, mock.Anything)
}

func (suite *SyncServiceTestSuite) TestSubmitGroup_AttachmentsLinkedViaMarker() {
	ctx := context.Background()
	leg := stagedLeg(-11, "Milk")
	leg.AttachmentURIs = []string{"content://receipts/1.jpg"}

	resp := committedResponse(42, 101)
	resp.Data.Attributes.Transactions[0].InternalReference = "-11"

	suite.mockDrafts.On("LegsForMaster", ctx, int64(7)).Return([]domain.TransactionLeg{leg}, nil)
	suite.mockRemote.On("CreateGroup", ctx, mock.Anything).Return(resp, nil)
	suite.mockDrafts.On("AttachmentsFor", ctx, int64(-11)).Return([]string{"content://receipts/1.jpg"}, nil)
	suite.mockUploader.On("UploadFor", ctx, []string{"content://receipts/1.jpg"}, int64(101), portssvc.AttachableTypeTransaction).Return()
	suite.mockLedger.On("UpsertLegs", ctx, mock.Anything, mock.Anything).Return(nil)
	suite.mockDrafts.On("PurgeMaster", ctx, int64(7)).Return(nil)
	// The transient marker is cleared with a follow-up update.
	suite.mockRemote.On("UpdateGroup", ctx, int64(42), mock.MatchedBy(func(sub dto.GroupSubmission) bool {
		return len(sub.Legs) == 1 && sub.Legs[0][dto.FieldInternalReference] == ""
	})).Return(resp, nil)

	result, err := suite.service.SubmitGroup(ctx, 7, "Groceries")

	suite.NoError(err)
	suite.Equal(dto.SubmitCommitted, result.Status)
	suite.mockUploader.AssertExpectations(suite.T())
	suite.mockRemote.AssertExpectations(suite.T())
}

func (suite *SyncServiceTestSuite) TestResumeSubmission_ConsumesPendingOnCommit() {
	ctx := context.Background()
	pending := domain.PendingSubmission{MasterID: 7, GroupTitle: "Groceries", CreatedAt: time.Now().UTC()}
	legs := []domain.TransactionLeg{stagedLeg(-11, "Milk")}

	suite.mockDrafts.On("LegsForMaster", ctx, int64(7)).Return(legs, nil)
	suite.mockRemote.On("CreateGroup", ctx, mock.Anything).Return(committedResponse(42, 101), nil)
	suite.mockLedger.On("UpsertLegs", ctx, mock.Anything, mock.Anything).Return(nil)
	suite.mockDrafts.On("PurgeMaster", ctx, int64(7)).Return(nil)
	suite.mockPending.On("DeletePending", ctx, int64(7)).Return(nil)

	result, err := suite.service.ResumeSubmission(ctx, pending)

	suite.NoError(err)
	suite.Equal(dto.SubmitCommitted, result.Status)
	suite.mockPending.AssertCalled(suite.T(), "DeletePending", ctx, int64(7))
}

func (suite *SyncServiceTestSuite) TestResumeSubmission_KeepsPendingWhileUnreachable() {
	ctx := context.Background()
	pending := domain.PendingSubmission{MasterID: 7, GroupTitle: "Groceries", CreatedAt: time.Now().UTC()}
	legs := []domain.TransactionLeg{stagedLeg(-11, "Milk")}

	suite.mockDrafts.On("LegsForMaster", ctx, int64(7)).Return(legs, nil)
	suite.mockRemote.On("CreateGroup", ctx, mock.Anything).Return(nil, apperrors.ErrRemoteUnreachable)
	suite.mockPending.On("SavePending", ctx, mock.Anything).Return(nil)

	result, err := suite.service.ResumeSubmission(ctx, pending)

	suite.NoError(err)
	suite.Equal(dto.SubmitPendingRetry, result.Status)
	suite.mockPending.AssertNotCalled(suite.T(), "DeletePending", mock.Anything, mock.Anything)
}

func (suite *SyncServiceTestSuite) TestResumeSubmission_DropsOrphanedPending() {
	ctx := context.Background()
	pending := domain.PendingSubmission{MasterID: 7, GroupTitle: "Groceries", CreatedAt: time.Now().UTC()}

	suite.mockDrafts.On("LegsForMaster", ctx, int64(7)).Return([]domain.TransactionLeg{}, nil)
	suite.mockPending.On("DeletePending", ctx, int64(7)).Return(nil)

	_, err := suite.service.ResumeSubmission(ctx, pending)

	suite.ErrorIs(err, apperrors.ErrEmptyGroup)
	suite.mockPending.AssertCalled(suite.T(), "DeletePending", ctx, int64(7))
}

func (suite *SyncServiceTestSuite) TestFindPending_SurfacesRepositoryRecord() {
	ctx := context.Background()
	pending := &domain.PendingSubmission{MasterID: 7, GroupTitle: "Groceries", CreatedAt: time.Now().UTC()}

	suite.mockPending.On("FindPending", ctx, int64(7)).Return(pending, nil)

	got, err := suite.service.FindPending(ctx, 7)

	suite.NoError(err)
	suite.Equal(pending, got)
}

func TestSyncServiceTestSuite(t *testing.T) {
	suite.Run(t, new(SyncServiceTestSuite))
}
