package services

import (
	"context"

	"github.com/pocketledger/pocket_ledger_sync/internal/core/domain"
	"github.com/pocketledger/pocket_ledger_sync/internal/dto"
)

// DraftSvcFacade exposes the offline staging area. All operations are purely
// local and usable before any network round-trip.
type DraftSvcFacade interface {
	// StageLeg validates and persists one leg under masterID, assigning a
	// fresh local-draft journal id.
	StageLeg(ctx context.Context, masterID int64, req dto.StageLegRequest) (*domain.TransactionLeg, error)

	// LegsForMaster lists staged legs in staging order.
	LegsForMaster(ctx context.Context, masterID int64) ([]domain.TransactionLeg, error)

	// DiscardMaster drops a draft group. Idempotent.
	DiscardMaster(ctx context.Context, masterID int64) error
}
