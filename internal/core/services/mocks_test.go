package services_test

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/pocketledger/pocket_ledger_sync/internal/core/domain"
	portssvc "github.com/pocketledger/pocket_ledger_sync/internal/core/ports/services"
	"github.com/pocketledger/pocket_ledger_sync/internal/dto"
)

// MockDraftRepository is a mock type for the DraftRepositoryFacade interface
type MockDraftRepository struct {
	mock.Mock
}

func (m *MockDraftRepository) StageLeg(ctx context.Context, masterID int64, leg domain.TransactionLeg) (domain.TransactionLeg, error) {
	args := m.Called(ctx, masterID, leg)
	return args.Get(0).(domain.TransactionLeg), args.Error(1)
}

func (m *MockDraftRepository) LegsForMaster(ctx context.Context, masterID int64) ([]domain.TransactionLeg, error) {
	args := m.Called(ctx, masterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TransactionLeg), args.Error(1)
}

func (m *MockDraftRepository) PurgeMaster(ctx context.Context, masterID int64) error {
	args := m.Called(ctx, masterID)
	return args.Error(0)
}

func (m *MockDraftRepository) AttachmentsFor(ctx context.Context, localJournalID int64) ([]string, error) {
	args := m.Called(ctx, localJournalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// MockLedgerRepository is a mock type for the LedgerRepositoryFacade interface
type MockLedgerRepository struct {
	mock.Mock
}

func (m *MockLedgerRepository) ReplaceWindow(ctx context.Context, window domain.MirrorWindow, legs []domain.TransactionLeg, entries []domain.GroupIndexEntry) error {
	args := m.Called(ctx, window, legs, entries)
	return args.Error(0)
}

func (m *MockLedgerRepository) UpsertLegs(ctx context.Context, legs []domain.TransactionLeg, entries []domain.GroupIndexEntry) error {
	args := m.Called(ctx, legs, entries)
	return args.Error(0)
}

func (m *MockLedgerRepository) DeleteByJournalID(ctx context.Context, journalID int64) error {
	args := m.Called(ctx, journalID)
	return args.Error(0)
}

func (m *MockLedgerRepository) CountInWindow(ctx context.Context, window domain.MirrorWindow) (int, error) {
	args := m.Called(ctx, window)
	return args.Int(0), args.Error(1)
}

func (m *MockLedgerRepository) SumByCurrency(ctx context.Context, window domain.MirrorWindow) (map[string]decimal.Decimal, error) {
	args := m.Called(ctx, window)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]decimal.Decimal), args.Error(1)
}

func (m *MockLedgerRepository) SumByTag(ctx context.Context, window domain.MirrorWindow, tag string) (map[string]decimal.Decimal, error) {
	args := m.Called(ctx, window, tag)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]decimal.Decimal), args.Error(1)
}

func (m *MockLedgerRepository) DistinctCategories(ctx context.Context, window domain.MirrorWindow) ([]string, error) {
	args := m.Called(ctx, window)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockLedgerRepository) DistinctBudgets(ctx context.Context, window domain.MirrorWindow) ([]string, error) {
	args := m.Called(ctx, window)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockLedgerRepository) DistinctSourceAccounts(ctx context.Context, window domain.MirrorWindow) ([]string, error) {
	args := m.Called(ctx, window)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockLedgerRepository) DistinctDestinationAccounts(ctx context.Context, window domain.MirrorWindow) ([]string, error) {
	args := m.Called(ctx, window)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockLedgerRepository) SearchByDescription(ctx context.Context, query string) ([]domain.TransactionLeg, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TransactionLeg), args.Error(1)
}

func (m *MockLedgerRepository) LegsForGroup(ctx context.Context, groupID int64) ([]domain.TransactionLeg, error) {
	args := m.Called(ctx, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TransactionLeg), args.Error(1)
}

// MockPendingRepository is a mock type for the PendingRepositoryFacade interface
type MockPendingRepository struct {
	mock.Mock
}

func (m *MockPendingRepository) ListPending(ctx context.Context) ([]domain.PendingSubmission, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PendingSubmission), args.Error(1)
}

func (m *MockPendingRepository) FindPending(ctx context.Context, masterID int64) (*domain.PendingSubmission, error) {
	args := m.Called(ctx, masterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PendingSubmission), args.Error(1)
}

func (m *MockPendingRepository) SavePending(ctx context.Context, pending domain.PendingSubmission) error {
	args := m.Called(ctx, pending)
	return args.Error(0)
}

func (m *MockPendingRepository) DeletePending(ctx context.Context, masterID int64) error {
	args := m.Called(ctx, masterID)
	return args.Error(0)
}

// MockWindowRegistry is a mock type for the WindowRegistry interface
type MockWindowRegistry struct {
	mock.Mock
}

func (m *MockWindowRegistry) MarkFresh(ctx context.Context, window domain.MirrorWindow) error {
	args := m.Called(ctx, window)
	return args.Error(0)
}

func (m *MockWindowRegistry) IsFresh(ctx context.Context, window domain.MirrorWindow) (bool, error) {
	args := m.Called(ctx, window)
	return args.Bool(0), args.Error(1)
}

// MockRemoteClient is a mock type for the RemoteLedgerClient interface
type MockRemoteClient struct {
	mock.Mock
}

func (m *MockRemoteClient) CreateGroup(ctx context.Context, sub dto.GroupSubmission) (*dto.GroupResponse, error) {
	args := m.Called(ctx, sub)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.GroupResponse), args.Error(1)
}

func (m *MockRemoteClient) UpdateGroup(ctx context.Context, groupID int64, sub dto.GroupSubmission) (*dto.GroupResponse, error) {
	args := m.Called(ctx, groupID, sub)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.GroupResponse), args.Error(1)
}

func (m *MockRemoteClient) DeleteByID(ctx context.Context, journalID int64) (int, error) {
	args := m.Called(ctx, journalID)
	return args.Int(0), args.Error(1)
}

func (m *MockRemoteClient) ListPage(ctx context.Context, window domain.MirrorWindow, page int) (*dto.PageResponse, error) {
	args := m.Called(ctx, window, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.PageResponse), args.Error(1)
}

func (m *MockRemoteClient) SearchText(ctx context.Context, query string) (*dto.PageResponse, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.PageResponse), args.Error(1)
}

func (m *MockRemoteClient) AttachmentsForJournal(ctx context.Context, journalID int64) ([]dto.RemoteAttachment, error) {
	args := m.Called(ctx, journalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]dto.RemoteAttachment), args.Error(1)
}

// MockAttachmentUploader is a mock type for the AttachmentUploader interface
type MockAttachmentUploader struct {
	mock.Mock
}

func (m *MockAttachmentUploader) UploadFor(ctx context.Context, uris []string, remoteJournalID int64, kind portssvc.AttachableType) {
	m.Called(ctx, uris, remoteJournalID, kind)
}
