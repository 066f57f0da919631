package repositories

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/pocketledger/pocket_ledger_sync/internal/core/domain"
)

// LedgerReader defines read operations over the local ledger mirror.
type LedgerReader interface {
	// CountInWindow counts mirrored legs inside the window.
	CountInWindow(ctx context.Context, window domain.MirrorWindow) (int, error)

	// SumByCurrency sums mirrored amounts inside the window per currency code.
	SumByCurrency(ctx context.Context, window domain.MirrorWindow) (map[string]decimal.Decimal, error)

	// SumByTag sums mirrored amounts inside the window for legs carrying tag,
	// per currency code.
	SumByTag(ctx context.Context, window domain.MirrorWindow, tag string) (map[string]decimal.Decimal, error)

	// DistinctCategories lists the distinct non-empty category names inside the window.
	DistinctCategories(ctx context.Context, window domain.MirrorWindow) ([]string, error)

	// DistinctBudgets lists the distinct non-empty budget names inside the window.
	DistinctBudgets(ctx context.Context, window domain.MirrorWindow) ([]string, error)

	// DistinctSourceAccounts lists the distinct source account names inside the window.
	DistinctSourceAccounts(ctx context.Context, window domain.MirrorWindow) ([]string, error)

	// DistinctDestinationAccounts lists the distinct destination account names inside the window.
	DistinctDestinationAccounts(ctx context.Context, window domain.MirrorWindow) ([]string, error)

	// SearchByDescription retrieves mirrored legs whose description contains
	// the query, case-insensitively, ordered by date descending.
	SearchByDescription(ctx context.Context, query string) ([]domain.TransactionLeg, error)

	// LegsForGroup retrieves the mirrored legs of one remote group in index order.
	LegsForGroup(ctx context.Context, groupID int64) ([]domain.TransactionLeg, error)
}

// LedgerWriter defines write operations over the local ledger mirror.
type LedgerWriter interface {
	// ReplaceWindow atomically deletes every mirrored leg (and its group
	// index row) inside the window and inserts the fetched legs with their
	// index entries. An unscoped window range replaces the entire mirror.
	// A concurrent reader never observes the half-replaced state.
	ReplaceWindow(ctx context.Context, window domain.MirrorWindow, legs []domain.TransactionLeg, entries []domain.GroupIndexEntry) error

	// UpsertLegs inserts or updates mirrored legs and index entries by
	// journal id, without touching other rows. Used by search merging and
	// commit reconciliation.
	UpsertLegs(ctx context.Context, legs []domain.TransactionLeg, entries []domain.GroupIndexEntry) error

	// DeleteByJournalID removes one mirrored leg and its index row.
	// Idempotent.
	DeleteByJournalID(ctx context.Context, journalID int64) error
}

// LedgerRepositoryFacade combines all local ledger mirror operations.
type LedgerRepositoryFacade interface {
	LedgerReader
	LedgerWriter
}
