package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/pocketledger/pocket_ledger_sync/internal/apperrors"
	"github.com/pocketledger/pocket_ledger_sync/internal/core/domain"
	portsrepo "github.com/pocketledger/pocket_ledger_sync/internal/core/ports/repositories"
	portssvc "github.com/pocketledger/pocket_ledger_sync/internal/core/ports/services"
	"github.com/pocketledger/pocket_ledger_sync/internal/dto"
	"github.com/pocketledger/pocket_ledger_sync/internal/middleware"
	"github.com/pocketledger/pocket_ledger_sync/internal/utils"
)

// syncService implements the submission protocol: assemble a draft group into
// one remote write, classify the outcome, link attachments and reconcile the
// authoritative response into the local ledger mirror.
type syncService struct {
	draftRepo   portsrepo.DraftRepositoryFacade
	ledgerRepo  portsrepo.LedgerRepositoryFacade
	pendingRepo portsrepo.PendingRepositoryFacade
	remote      portssvc.RemoteLedgerClient
	uploader    portssvc.AttachmentUploader
	masters     *utils.KeyedMutex
}

// NewSyncService creates a new SyncService.
func NewSyncService(
	draftRepo portsrepo.DraftRepositoryFacade,
	ledgerRepo portsrepo.LedgerRepositoryFacade,
	pendingRepo portsrepo.PendingRepositoryFacade,
	remote portssvc.RemoteLedgerClient,
	uploader portssvc.AttachmentUploader,
) portssvc.SyncSvcFacade {
	return &syncService{
		draftRepo:   draftRepo,
		ledgerRepo:  ledgerRepo,
		pendingRepo: pendingRepo,
		remote:      remote,
		uploader:    uploader,
		masters:     utils.NewKeyedMutex(),
	}
}

var _ portssvc.SyncSvcFacade = (*syncService)(nil)

// SubmitGroup submits the staged legs of masterID as one atomic remote group.
// The per-master state machine is not reentrant: a concurrent submission of
// the same master id fails with ErrConflict.
func (s *syncService) SubmitGroup(ctx context.Context, masterID int64, groupTitle string) (*dto.SubmitResult, error) {
	key := strconv.FormatInt(masterID, 10)
	if !s.masters.TryLock(key) {
		return nil, fmt.Errorf("%w: submission already in flight for master %d", apperrors.ErrConflict, masterID)
	}
	defer s.masters.Unlock(key)

	return s.submitLocked(ctx, masterID, groupTitle)
}

// ResumeSubmission retries a deferred submission once connectivity is
// presumed restored. The pending record is consumed on any terminal outcome
// and preserved when the network is still unreachable.
func (s *syncService) ResumeSubmission(ctx context.Context, pending domain.PendingSubmission) (*dto.SubmitResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	key := strconv.FormatInt(pending.MasterID, 10)
	if !s.masters.TryLock(key) {
		return nil, fmt.Errorf("%w: submission already in flight for master %d", apperrors.ErrConflict, pending.MasterID)
	}
	defer s.masters.Unlock(key)

	result, err := s.submitLocked(ctx, pending.MasterID, pending.GroupTitle)
	if err != nil {
		if errors.Is(err, apperrors.ErrEmptyGroup) {
			// The draft was discarded while the submission waited; the
			// pending record has nothing left to submit.
			if delErr := s.pendingRepo.DeletePending(ctx, pending.MasterID); delErr != nil {
				logger.Error("Failed to drop orphaned pending submission", slog.Int64("master_id", pending.MasterID), slog.String("error", delErr.Error()))
			}
		}
		return nil, err
	}

	if result.Status != dto.SubmitPendingRetry {
		if err := s.pendingRepo.DeletePending(ctx, pending.MasterID); err != nil {
			logger.Error("Failed to consume pending submission", slog.Int64("master_id", pending.MasterID), slog.String("error", err.Error()))
		}
	}
	return result, nil
}

// ListPending lists deferred submissions awaiting retry.
func (s *syncService) ListPending(ctx context.Context) ([]domain.PendingSubmission, error) {
	return s.pendingRepo.ListPending(ctx)
}

// FindPending looks up the deferred submission for one master id.
func (s *syncService) FindPending(ctx context.Context, masterID int64) (*domain.PendingSubmission, error) {
	return s.pendingRepo.FindPending(ctx, masterID)
}

func (s *syncService) submitLocked(ctx context.Context, masterID int64, groupTitle string) (*dto.SubmitResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx).With(slog.Int64("master_id", masterID))

	legs, err := s.draftRepo.LegsForMaster(ctx, masterID)
	if err != nil {
		return nil, fmt.Errorf("failed to read staged legs: %w", err)
	}
	if len(legs) == 0 {
		return nil, fmt.Errorf("%w: %d", apperrors.ErrEmptyGroup, masterID)
	}

	sub := dto.BuildGroupSubmission(groupTitle, uuid.NewString(), legs)
	resp, err := s.remote.CreateGroup(ctx, sub)

	switch {
	case err == nil:
		return s.commitGroup(ctx, masterID, resp)

	case isRejection(err):
		var remoteErr *dto.RemoteError
		errors.As(err, &remoteErr)
		logger.Warn("Group submission rejected by remote ledger",
			slog.Int("status", remoteErr.StatusCode),
			slog.String("message", remoteErr.FirstFieldError()))
		// Draft retained: the caller surfaces the message and decides
		// whether to discard or let the user correct and resubmit.
		return &dto.SubmitResult{
			Status:  dto.SubmitRejected,
			Message: remoteErr.FirstFieldError(),
		}, nil

	default:
		// No response obtained, or an unclassified transport failure.
		// Fail safe toward retry rather than silent data loss.
		if apperrors.IsNetworkError(err) {
			logger.Info("Remote ledger unreachable, deferring submission", slog.String("error", err.Error()))
		} else {
			logger.Warn("Unclassified submission failure, deferring", slog.String("error", err.Error()))
		}
		pending := domain.PendingSubmission{
			MasterID:   masterID,
			GroupTitle: groupTitle,
			CreatedAt:  time.Now().UTC(),
		}
		if saveErr := s.pendingRepo.SavePending(ctx, pending); saveErr != nil {
			// Losing the pending record would orphan the draft silently.
			return nil, fmt.Errorf("failed to persist pending submission: %w", saveErr)
		}
		return &dto.SubmitResult{
			Status:  dto.SubmitPendingRetry,
			Message: fmt.Sprintf("%q will be synced once the server is reachable", groupTitle),
		}, nil
	}
}

// commitGroup reconciles a 2xx response: attachments are re-targeted from
// local-draft ids to the remote journal ids and handed off, the authoritative
// group is mirrored locally, the draft is purged and the transient
// correlation marker is cleared remotely.
func (s *syncService) commitGroup(ctx context.Context, masterID int64, resp *dto.GroupResponse) (*dto.SubmitResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx).With(slog.Int64("master_id", masterID))

	s.linkAttachments(ctx, resp)

	mirrorLegs, entries := resp.Data.ToDomainLegs()
	if err := s.ledgerRepo.UpsertLegs(ctx, mirrorLegs, entries); err != nil {
		// The remote write committed; surface the local failure but do not
		// purge the draft, so a re-run can reconcile.
		return nil, fmt.Errorf("group committed remotely but mirror update failed: %w", err)
	}

	if err := s.draftRepo.PurgeMaster(ctx, masterID); err != nil {
		return nil, fmt.Errorf("group committed remotely but draft purge failed: %w", err)
	}

	s.removeInternalMarker(ctx, resp)

	journalIDs := make([]int64, 0, len(mirrorLegs))
	for _, leg := range mirrorLegs {
		journalIDs = append(journalIDs, leg.JournalID)
	}
	logger.Info("Group committed", slog.Int64("group_id", int64(resp.Data.ID)), slog.Int("legs", len(journalIDs)))

	return &dto.SubmitResult{
		Status:     dto.SubmitCommitted,
		GroupID:    int64(resp.Data.ID),
		JournalIDs: journalIDs,
	}, nil
}

// linkAttachments hands staged attachment references to the uploader, keyed
// by the remote journal id echoed back through the correlation marker.
func (s *syncService) linkAttachments(ctx context.Context, resp *dto.GroupResponse) {
	logger := middleware.GetLoggerFromCtx(ctx)

	for _, remoteLeg := range resp.Data.Attributes.Transactions {
		if remoteLeg.InternalReference == "" {
			continue
		}
		localID, err := strconv.ParseInt(remoteLeg.InternalReference, 10, 64)
		if err != nil {
			logger.Warn("Unparseable correlation marker in response", slog.String("marker", remoteLeg.InternalReference))
			continue
		}
		uris, err := s.draftRepo.AttachmentsFor(ctx, localID)
		if err != nil {
			logger.Error("Failed to read staged attachments", slog.Int64("local_journal_id", localID), slog.String("error", err.Error()))
			continue
		}
		if len(uris) == 0 {
			continue
		}
		s.uploader.UploadFor(ctx, uris, int64(remoteLeg.TransactionJournalID), portssvc.AttachableTypeTransaction)
	}
}

// removeInternalMarker clears the transient correlation marker via a
// follow-up group update so it is not retained as permanent remote data.
// Best effort: the marker is cosmetic once attachments are linked.
func (s *syncService) removeInternalMarker(ctx context.Context, resp *dto.GroupResponse) {
	logger := middleware.GetLoggerFromCtx(ctx)

	hasMarker := false
	for _, remoteLeg := range resp.Data.Attributes.Transactions {
		if remoteLeg.InternalReference != "" {
			hasMarker = true
			break
		}
	}
	if !hasMarker {
		return
	}

	removal := dto.BuildMarkerRemoval(&resp.Data)
	if _, err := s.remote.UpdateGroup(ctx, int64(resp.Data.ID), removal); err != nil {
		logger.Warn("Failed to clear correlation marker on remote group",
			slog.Int64("group_id", int64(resp.Data.ID)), slog.String("error", err.Error()))
	}
}

// isRejection reports whether err is a structured remote rejection rather
// than a transport failure.
func isRejection(err error) bool {
	var remoteErr *dto.RemoteError
	return errors.As(err, &remoteErr)
}
