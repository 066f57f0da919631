package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/pocketledger/pocket_ledger_sync/internal/apperrors"
	"github.com/pocketledger/pocket_ledger_sync/internal/core/domain"
	portsrepo "github.com/pocketledger/pocket_ledger_sync/internal/core/ports/repositories"
	portssvc "github.com/pocketledger/pocket_ledger_sync/internal/core/ports/services"
	"github.com/pocketledger/pocket_ledger_sync/internal/dto"
	"github.com/pocketledger/pocket_ledger_sync/internal/middleware"
	"github.com/pocketledger/pocket_ledger_sync/internal/utils"
)

// DeleteStatusPolicy maps remote delete status codes to local behaviour.
// Some remote versions return 500 on an otherwise successful delete, so the
// mapping is configuration rather than a hard-coded contract.
type DeleteStatusPolicy struct {
	// SuccessStatuses delete the local copy (default 204, 404, 500).
	SuccessStatuses []int
	// PreserveStatuses leave the local copy untouched (default 401): an
	// ambiguous auth state must not destroy data.
	PreserveStatuses []int
}

// DefaultDeleteStatusPolicy returns the mapping observed across known remote
// ledger versions.
func DefaultDeleteStatusPolicy() DeleteStatusPolicy {
	return DeleteStatusPolicy{
		SuccessStatuses:  []int{204, 404, 500},
		PreserveStatuses: []int{401},
	}
}

// mirrorService maintains the local mirror of remote ledger data and answers
// aggregate queries from it.
type mirrorService struct {
	ledgerRepo portsrepo.LedgerRepositoryFacade
	registry   portsrepo.WindowRegistry
	remote     portssvc.RemoteLedgerClient
	windows    *utils.KeyedMutex
	success    map[int]bool
	preserve   map[int]bool
}

// NewMirrorService creates a new MirrorService.
func NewMirrorService(
	ledgerRepo portsrepo.LedgerRepositoryFacade,
	registry portsrepo.WindowRegistry,
	remote portssvc.RemoteLedgerClient,
	policy DeleteStatusPolicy,
) portssvc.MirrorSvcFacade {
	success := make(map[int]bool, len(policy.SuccessStatuses))
	for _, code := range policy.SuccessStatuses {
		success[code] = true
	}
	preserve := make(map[int]bool, len(policy.PreserveStatuses))
	for _, code := range policy.PreserveStatuses {
		preserve[code] = true
	}
	return &mirrorService{
		ledgerRepo: ledgerRepo,
		registry:   registry,
		remote:     remote,
		windows:    utils.NewKeyedMutex(),
		success:    success,
		preserve:   preserve,
	}
}

var _ portssvc.MirrorSvcFacade = (*mirrorService)(nil)

// RefreshWindow pulls the remote paginated listing for the window and
// replaces the matching local slice atomically. Pagination is fetched
// sequentially; two refreshes of the same window never interleave their
// delete/insert phases. Failures leave the previously cached slice intact.
func (s *mirrorService) RefreshWindow(ctx context.Context, window domain.MirrorWindow) dto.RefreshResult {
	logger := middleware.GetLoggerFromCtx(ctx).With(slog.String("window", window.Key()))

	s.windows.Lock(window.Key())
	defer s.windows.Unlock(window.Key())

	// A window refreshed within the session horizon is served from the
	// mirror without another remote round-trip. A registry failure just
	// means we cannot prove freshness, so refresh anyway.
	fresh, err := s.registry.IsFresh(ctx, window)
	if err != nil {
		logger.Warn("Failed to check window freshness", slog.String("error", err.Error()))
	} else if fresh {
		logger.Debug("Window still fresh, skipping remote fetch")
		return dto.RefreshResult{Status: dto.RefreshFresh}
	}

	firstPage, err := s.remote.ListPage(ctx, window, 1)
	if err != nil {
		logger.Info("Mirror refresh skipped, serving cached slice", slog.String("error", err.Error()))
		return dto.RefreshResult{Status: dto.RefreshStale, Err: err}
	}

	groups := firstPage.Data
	for page := 2; page <= firstPage.Meta.Pagination.TotalPages; page++ {
		next, err := s.remote.ListPage(ctx, window, page)
		if err != nil {
			// A partially fetched window is never applied.
			logger.Info("Mirror refresh aborted mid-pagination, serving cached slice",
				slog.Int("page", page), slog.String("error", err.Error()))
			return dto.RefreshResult{Status: dto.RefreshStale, Err: err}
		}
		groups = append(groups, next.Data...)
	}

	var legs []domain.TransactionLeg
	var entries []domain.GroupIndexEntry
	for _, group := range groups {
		groupLegs, groupEntries := group.ToDomainLegs()
		legs = append(legs, groupLegs...)
		entries = append(entries, groupEntries...)
	}

	if err := s.ledgerRepo.ReplaceWindow(ctx, window, legs, entries); err != nil {
		logger.Error("Failed to replace mirror window", slog.String("error", err.Error()))
		return dto.RefreshResult{Status: dto.RefreshStale, Err: err}
	}

	if err := s.registry.MarkFresh(ctx, window); err != nil {
		logger.Warn("Failed to record window freshness", slog.String("error", err.Error()))
	}

	logger.Debug("Mirror window refreshed", slog.Int("legs", len(legs)))
	return dto.RefreshResult{Status: dto.RefreshFresh}
}

// Summary refreshes the window implicitly and aggregates over the local
// mirror, so callers get remote-fresh data when reachable and last-known
// data otherwise.
func (s *mirrorService) Summary(ctx context.Context, window domain.MirrorWindow) (*dto.WindowSummary, error) {
	refresh := s.RefreshWindow(ctx, window)

	count, err := s.ledgerRepo.CountInWindow(ctx, window)
	if err != nil {
		return nil, fmt.Errorf("failed to count window: %w", err)
	}
	sums, err := s.ledgerRepo.SumByCurrency(ctx, window)
	if err != nil {
		return nil, fmt.Errorf("failed to sum window by currency: %w", err)
	}
	categories, err := s.ledgerRepo.DistinctCategories(ctx, window)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	budgets, err := s.ledgerRepo.DistinctBudgets(ctx, window)
	if err != nil {
		return nil, fmt.Errorf("failed to list budgets: %w", err)
	}
	sources, err := s.ledgerRepo.DistinctSourceAccounts(ctx, window)
	if err != nil {
		return nil, fmt.Errorf("failed to list source accounts: %w", err)
	}
	destinations, err := s.ledgerRepo.DistinctDestinationAccounts(ctx, window)
	if err != nil {
		return nil, fmt.Errorf("failed to list destination accounts: %w", err)
	}

	return &dto.WindowSummary{
		Window:              window,
		Count:               count,
		SumByCurrency:       sums,
		DistinctCategories:  categories,
		DistinctBudgets:     budgets,
		DistinctSources:     sources,
		DistinctDestination: destinations,
		Stale:               refresh.Status == dto.RefreshStale,
	}, nil
}

// SumByTag refreshes the window implicitly and sums mirrored amounts of legs
// carrying the tag, per currency.
func (s *mirrorService) SumByTag(ctx context.Context, window domain.MirrorWindow, tag string) (map[string]decimal.Decimal, error) {
	s.RefreshWindow(ctx, window)

	sums, err := s.ledgerRepo.SumByTag(ctx, window, tag)
	if err != nil {
		return nil, fmt.Errorf("failed to sum window by tag %q: %w", tag, err)
	}
	return sums, nil
}

// GroupLegs reads the mirrored legs of one transaction group, in the order
// they were indexed.
func (s *mirrorService) GroupLegs(ctx context.Context, groupID int64) ([]domain.TransactionLeg, error) {
	legs, err := s.ledgerRepo.LegsForGroup(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to read group %d: %w", groupID, err)
	}
	if len(legs) == 0 {
		return nil, fmt.Errorf("%w: group %d", apperrors.ErrNotFound, groupID)
	}
	return legs, nil
}

// DeleteByID deletes a transaction remotely and reconciles the local copy
// according to the configured status mapping. Transport failures delete the
// local copy too: a phantom remote record is preferred over a permanently
// orphaned local row.
func (s *mirrorService) DeleteByID(ctx context.Context, journalID int64) error {
	logger := middleware.GetLoggerFromCtx(ctx).With(slog.Int64("journal_id", journalID))

	code, err := s.remote.DeleteByID(ctx, journalID)
	if err != nil {
		logger.Warn("Remote delete failed, removing local copy", slog.String("error", err.Error()))
		return s.deleteLocal(ctx, journalID)
	}

	switch {
	case s.preserve[code]:
		logger.Warn("Remote delete returned ambiguous auth status, local copy retained", slog.Int("status", code))
		return fmt.Errorf("%w: delete returned %d", apperrors.ErrUnauthorized, code)
	case s.success[code]:
		return s.deleteLocal(ctx, journalID)
	default:
		logger.Warn("Remote delete returned unexpected status, removing local copy", slog.Int("status", code))
		return s.deleteLocal(ctx, journalID)
	}
}

func (s *mirrorService) deleteLocal(ctx context.Context, journalID int64) error {
	if err := s.ledgerRepo.DeleteByJournalID(ctx, journalID); err != nil {
		return fmt.Errorf("failed to delete local copy of journal %d: %w", journalID, err)
	}
	return nil
}
