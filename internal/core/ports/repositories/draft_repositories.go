package repositories

import (
	"context"

	"github.com/pocketledger/pocket_ledger_sync/internal/core/domain"
)

// DraftReader defines read operations over the draft store.
type DraftReader interface {
	// LegsForMaster retrieves all legs staged under a master id, in the
	// order they were staged. That order becomes the leg order of the
	// eventual submitted group.
	LegsForMaster(ctx context.Context, masterID int64) ([]domain.TransactionLeg, error)

	// AttachmentsFor retrieves the staged attachment references of one
	// local-draft journal id.
	AttachmentsFor(ctx context.Context, localJournalID int64) ([]string, error)
}

// DraftWriter defines write operations over the draft store.
type DraftWriter interface {
	// StageLeg persists a leg tagged with a fresh local-draft journal id and
	// appends it to the group index entry for masterID, creating the entry
	// if absent. Purely local; never fails due to network state.
	StageLeg(ctx context.Context, masterID int64, leg domain.TransactionLeg) (domain.TransactionLeg, error)

	// PurgeMaster deletes all legs and the group index entry for masterID.
	// Idempotent: purging an absent master id is a no-op.
	PurgeMaster(ctx context.Context, masterID int64) error
}

// DraftRepositoryFacade combines all draft store operations.
type DraftRepositoryFacade interface {
	DraftReader
	DraftWriter
}
