package repositories

import (
	"context"

	"github.com/pocketledger/pocket_ledger_sync/internal/core/domain"
)

// PendingReader defines read operations over deferred submissions.
type PendingReader interface {
	// ListPending retrieves all deferred submissions, oldest first.
	ListPending(ctx context.Context) ([]domain.PendingSubmission, error)

	// FindPending retrieves the deferred submission for a master id, or
	// apperrors.ErrNotFound.
	FindPending(ctx context.Context, masterID int64) (*domain.PendingSubmission, error)
}

// PendingWriter defines write operations over deferred submissions.
type PendingWriter interface {
	// SavePending persists a deferred submission. Saving the same master id
	// twice overwrites the existing record.
	SavePending(ctx context.Context, pending domain.PendingSubmission) error

	// DeletePending removes the deferred submission for a master id.
	// Idempotent.
	DeletePending(ctx context.Context, masterID int64) error
}

// PendingRepositoryFacade combines all deferred submission operations.
type PendingRepositoryFacade interface {
	PendingReader
	PendingWriter
}
