package services

import (
	"context"

	"github.com/pocketledger/pocket_ledger_sync/internal/core/domain"
	"github.com/pocketledger/pocket_ledger_sync/internal/dto"
)

// SyncSvcFacade orchestrates submission of a draft group to the remote
// ledger and reconciliation of the authoritative response into local state.
//
// Per master id the state machine is Drafting -> Submitting -> {Committed |
// PendingRetry | Rejected}; it is not reentrant, so a second submission of
// the same master id fails with apperrors.ErrConflict while one is in flight.
type SyncSvcFacade interface {
	// SubmitGroup assembles the staged legs of masterID into one remote
	// group-create and classifies the outcome. See dto.SubmitStatus for the
	// contract of each branch.
	SubmitGroup(ctx context.Context, masterID int64, groupTitle string) (*dto.SubmitResult, error)

	// ResumeSubmission retries a deferred submission. On Committed or
	// Rejected the pending record is consumed; on another network failure
	// it is preserved.
	ResumeSubmission(ctx context.Context, pending domain.PendingSubmission) (*dto.SubmitResult, error)

	// ListPending lists deferred submissions awaiting retry, oldest first.
	ListPending(ctx context.Context) ([]domain.PendingSubmission, error)

	// FindPending looks up the deferred submission for masterID. Returns
	// apperrors.ErrNotFound when none is recorded.
	FindPending(ctx context.Context, masterID int64) (*domain.PendingSubmission, error)
}
