package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pocketledger/pocket_ledger_sync/internal/apperrors"
	"github.com/pocketledger/pocket_ledger_sync/internal/core/domain"
	portsrepo "github.com/pocketledger/pocket_ledger_sync/internal/core/ports/repositories"
	portssvc "github.com/pocketledger/pocket_ledger_sync/internal/core/ports/services"
	"github.com/pocketledger/pocket_ledger_sync/internal/dto"
	"github.com/pocketledger/pocket_ledger_sync/internal/middleware"
)

// draftService exposes the offline staging area over the draft store.
type draftService struct {
	draftRepo portsrepo.DraftRepositoryFacade
}

// NewDraftService creates a new DraftService.
func NewDraftService(draftRepo portsrepo.DraftRepositoryFacade) portssvc.DraftSvcFacade {
	return &draftService{draftRepo: draftRepo}
}

var _ portssvc.DraftSvcFacade = (*draftService)(nil)

// StageLeg validates the request and persists the leg under masterID. The
// draft store assigns the local-draft journal id; nothing here touches the
// network, so staging succeeds regardless of connectivity.
func (s *draftService) StageLeg(ctx context.Context, masterID int64, req dto.StageLegRequest) (*domain.TransactionLeg, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	leg := req.ToDomainLeg()
	if err := leg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	staged, err := s.draftRepo.StageLeg(ctx, masterID, leg)
	if err != nil {
		logger.Error("Failed to stage draft leg", slog.Int64("master_id", masterID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to stage leg: %w", err)
	}

	logger.Info("Leg staged", slog.Int64("master_id", masterID), slog.Int64("journal_id", staged.JournalID))
	return &staged, nil
}

// LegsForMaster lists the staged legs of a draft group in staging order.
func (s *draftService) LegsForMaster(ctx context.Context, masterID int64) ([]domain.TransactionLeg, error) {
	legs, err := s.draftRepo.LegsForMaster(ctx, masterID)
	if err != nil {
		return nil, fmt.Errorf("failed to list staged legs for master %d: %w", masterID, err)
	}
	return legs, nil
}

// DiscardMaster drops a draft group entirely. Idempotent.
func (s *draftService) DiscardMaster(ctx context.Context, masterID int64) error {
	logger := middleware.GetLoggerFromCtx(ctx)
	if err := s.draftRepo.PurgeMaster(ctx, masterID); err != nil {
		logger.Error("Failed to discard draft group", slog.Int64("master_id", masterID), slog.String("error", err.Error()))
		return fmt.Errorf("failed to discard draft group %d: %w", masterID, err)
	}
	logger.Info("Draft group discarded", slog.Int64("master_id", masterID))
	return nil
}
