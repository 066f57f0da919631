package retry

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/pocketledger/pocket_ledger_sync/internal/apperrors"
	portssvc "github.com/pocketledger/pocket_ledger_sync/internal/core/ports/services"
	"github.com/pocketledger/pocket_ledger_sync/internal/dto"
)

// Runner periodically drains deferred submissions through the sync service.
// One pass walks the pending records oldest first and retries each; a record
// survives the pass only if the remote is still unreachable.
type Runner struct {
	syncSvc  portssvc.SyncSvcFacade
	interval time.Duration
	logger   *slog.Logger
}

// NewRunner creates a runner that retries on the given interval.
func NewRunner(syncSvc portssvc.SyncSvcFacade, interval time.Duration, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{syncSvc: syncSvc, interval: interval, logger: logger}
}

// Run blocks, draining deferred submissions every interval until ctx is
// cancelled. Intended to run on its own goroutine.
func (r *Runner) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Info("retry runner started", "interval", r.interval.String())
	for {
		select {
		case <-ctx.Done():
			r.logger.Info("retry runner stopped")
			return
		case <-ticker.C:
			r.Pass(ctx)
		}
	}
}

// Pass retries every deferred submission once.
func (r *Runner) Pass(ctx context.Context) {
	pendings, err := r.syncSvc.ListPending(ctx)
	if err != nil {
		r.logger.Error("failed to list pending submissions", "error", err)
		return
	}
	for _, pending := range pendings {
		if ctx.Err() != nil {
			return
		}
		result, err := r.syncSvc.ResumeSubmission(ctx, pending)
		switch {
		case errors.Is(err, apperrors.ErrConflict):
			// A foreground submission holds the master; leave it alone.
			continue
		case err != nil:
			r.logger.Error("retry pass failed for master",
				"master_id", pending.MasterID, "error", err)
		case result.Status == dto.SubmitPendingRetry:
			r.logger.Info("remote still unreachable, submission kept pending",
				"master_id", pending.MasterID)
		default:
			r.logger.Info("deferred submission resolved",
				"master_id", pending.MasterID, "status", string(result.Status))
		}
	}
}
