package retry_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/pocketledger/pocket_ledger_sync/internal/apperrors"
	"github.com/pocketledger/pocket_ledger_sync/internal/core/domain"
	"github.com/pocketledger/pocket_ledger_sync/internal/dto"
	"github.com/pocketledger/pocket_ledger_sync/internal/retry"
)

// MockSyncService is a mock type for the SyncSvcFacade interface
type MockSyncService struct {
	mock.Mock
}

func (m *MockSyncService) SubmitGroup(ctx context.Context, masterID int64, groupTitle string) (*dto.SubmitResult, error) {
	args := m.Called(ctx, masterID, groupTitle)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.SubmitResult), args.Error(1)
}

func (m *MockSyncService) ResumeSubmission(ctx context.Context, pending domain.PendingSubmission) (*dto.SubmitResult, error) {
	args := m.Called(ctx, pending)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.SubmitResult), args.Error(1)
}

func (m *MockSyncService) ListPending(ctx context.Context) ([]domain.PendingSubmission, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PendingSubmission), args.Error(1)
}

func (m *MockSyncService) FindPending(ctx context.Context, masterID int64) (*domain.PendingSubmission, error) {
	args := m.Called(ctx, masterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PendingSubmission), args.Error(1)
}

type RunnerTestSuite struct {
	suite.Suite
	mockSync *MockSyncService
	runner   *retry.Runner
}

func (suite *RunnerTestSuite) SetupTest() {
	suite.mockSync = new(MockSyncService)
	suite.runner = retry.NewRunner(suite.mockSync, time.Minute, nil)
}

func (suite *RunnerTestSuite) TestPass_ResumesEveryPending() {
	ctx := context.Background()
	pendings := []domain.PendingSubmission{
		{MasterID: 7, GroupTitle: "Groceries"},
		{MasterID: 9, GroupTitle: "Rent"},
	}

	suite.mockSync.On("ListPending", ctx).Return(pendings, nil)
	suite.mockSync.On("ResumeSubmission", ctx, pendings[0]).
		Return(&dto.SubmitResult{Status: dto.SubmitCommitted}, nil)
	suite.mockSync.On("ResumeSubmission", ctx, pendings[1]).
		Return(&dto.SubmitResult{Status: dto.SubmitPendingRetry}, nil)

	suite.runner.Pass(ctx)

	suite.mockSync.AssertNumberOfCalls(suite.T(), "ResumeSubmission", 2)
}

func (suite *RunnerTestSuite) TestPass_SkipsBusyMasters() {
	ctx := context.Background()
	pendings := []domain.PendingSubmission{
		{MasterID: 7, GroupTitle: "Groceries"},
		{MasterID: 9, GroupTitle: "Rent"},
	}

	suite.mockSync.On("ListPending", ctx).Return(pendings, nil)
	suite.mockSync.On("ResumeSubmission", ctx, pendings[0]).Return(nil, apperrors.ErrConflict)
	suite.mockSync.On("ResumeSubmission", ctx, pendings[1]).
		Return(&dto.SubmitResult{Status: dto.SubmitCommitted}, nil)

	suite.runner.Pass(ctx)

	// A conflict on one master never blocks the rest of the pass.
	suite.mockSync.AssertCalled(suite.T(), "ResumeSubmission", ctx, pendings[1])
}

func (suite *RunnerTestSuite) TestPass_ListFailureAborts() {
	ctx := context.Background()
	suite.mockSync.On("ListPending", ctx).Return(nil, context.DeadlineExceeded)

	suite.runner.Pass(ctx)

	suite.mockSync.AssertNotCalled(suite.T(), "ResumeSubmission", mock.Anything, mock.Anything)
}

func (suite *RunnerTestSuite) TestRun_StopsOnContextCancel() {
	ctx, cancel := context.WithCancel(context.Background())
	runner := retry.NewRunner(suite.mockSync, 10*time.Millisecond, nil)
	suite.mockSync.On("ListPending", mock.Anything).Return([]domain.PendingSubmission{}, nil).Maybe()

	done := make(chan struct{})
	go func() {
		runner.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		suite.FailNow("runner did not stop on context cancel")
	}
}

func TestRunnerTestSuite(t *testing.T) {
	suite.Run(t, new(RunnerTestSuite))
}
