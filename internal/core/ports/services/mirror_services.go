package services

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/pocketledger/pocket_ledger_sync/internal/core/domain"
	"github.com/pocketledger/pocket_ledger_sync/internal/dto"
)

// MirrorSvcFacade keeps the local ledger mirror aligned with the remote
// ledger and answers aggregate queries from the mirror, remote-fresh when
// reachable and last-known otherwise.
type MirrorSvcFacade interface {
	// RefreshWindow replaces the local slice for the window from the remote
	// paginated listing. Best effort: failures are recorded in the result,
	// never surfaced as errors.
	RefreshWindow(ctx context.Context, window domain.MirrorWindow) dto.RefreshResult

	// Summary refreshes the window implicitly, then reports count, sums per
	// currency and the distinct categories/budgets/accounts inside it.
	Summary(ctx context.Context, window domain.MirrorWindow) (*dto.WindowSummary, error)

	// SumByTag refreshes the window implicitly, then sums amounts of legs
	// carrying tag, per currency.
	SumByTag(ctx context.Context, window domain.MirrorWindow, tag string) (map[string]decimal.Decimal, error)

	// GroupLegs returns the mirrored legs of one transaction group in their
	// original order, served from the mirror without a remote round-trip.
	// Returns apperrors.ErrNotFound for an unknown group.
	GroupLegs(ctx context.Context, groupID int64) ([]domain.TransactionLeg, error)

	// DeleteByID deletes a transaction remotely and reconciles the local
	// copy according to the configured status mapping. Returns
	// apperrors.ErrUnauthorized when the remote answers 401, in which case
	// local state is untouched.
	DeleteByID(ctx context.Context, journalID int64) error
}

// SearchSvcFacade answers text search over the mirrored ledger.
type SearchSvcFacade interface {
	// SearchByText serves the local substring match immediately. Queries
	// longer than three characters additionally trigger one remote search
	// whose rows are merged into the mirror and re-emitted on the result's
	// Merged channel. Remote failures are swallowed; the local result stands.
	SearchByText(ctx context.Context, query string) (*dto.SearchResult, error)
}
