package services

import (
	"context"
	"fmt"
	"log/slog"
	"unicode/utf8"

	"github.com/pocketledger/pocket_ledger_sync/internal/core/domain"
	portsrepo "github.com/pocketledger/pocket_ledger_sync/internal/core/ports/repositories"
	portssvc "github.com/pocketledger/pocket_ledger_sync/internal/core/ports/services"
	"github.com/pocketledger/pocket_ledger_sync/internal/dto"
	"github.com/pocketledger/pocket_ledger_sync/internal/middleware"
)

// remoteSearchMinLength is the query length above which a remote search is
// issued in addition to the local substring match.
const remoteSearchMinLength = 3

// searchService answers text search local-first, folding remote matches into
// the mirror as they arrive.
type searchService struct {
	ledgerRepo portsrepo.LedgerRepositoryFacade
	remote     portssvc.RemoteLedgerClient
}

// NewSearchService creates a new SearchService.
func NewSearchService(ledgerRepo portsrepo.LedgerRepositoryFacade, remote portssvc.RemoteLedgerClient) portssvc.SearchSvcFacade {
	return &searchService{ledgerRepo: ledgerRepo, remote: remote}
}

var _ portssvc.SearchSvcFacade = (*searchService)(nil)

// SearchByText serves the local substring page immediately. For queries
// longer than three characters one remote search runs concurrently; its rows
// are merged into the mirror keyed by journal id (no duplicates) and the
// refreshed local page is emitted once on the Merged channel before it
// closes. Remote failures are swallowed; the local result stands.
func (s *searchService) SearchByText(ctx context.Context, query string) (*dto.SearchResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx).With(slog.String("query", query))

	local, err := s.ledgerRepo.SearchByDescription(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("local search failed: %w", err)
	}

	merged := make(chan []domain.TransactionLeg, 1)
	if utf8.RuneCountInString(query) <= remoteSearchMinLength {
		close(merged)
		return &dto.SearchResult{Local: local, Merged: merged}, nil
	}

	go func() {
		defer close(merged)

		resp, err := s.remote.SearchText(ctx, query)
		if err != nil {
			logger.Debug("Remote search failed, local result stands", slog.String("error", err.Error()))
			return
		}

		var legs []domain.TransactionLeg
		var entries []domain.GroupIndexEntry
		for _, group := range resp.Data {
			groupLegs, groupEntries := group.ToDomainLegs()
			legs = append(legs, groupLegs...)
			entries = append(entries, groupEntries...)
		}
		if len(legs) > 0 {
			if err := s.ledgerRepo.UpsertLegs(ctx, legs, entries); err != nil {
				logger.Warn("Failed to merge remote search results", slog.String("error", err.Error()))
				return
			}
		}

		refreshed, err := s.ledgerRepo.SearchByDescription(ctx, query)
		if err != nil {
			logger.Warn("Failed to re-read merged search results", slog.String("error", err.Error()))
			return
		}

		select {
		case merged <- refreshed:
		case <-ctx.Done():
		}
	}()

	return &dto.SearchResult{Local: local, Merged: merged}, nil
}
