package dto

import (
	"github.com/shopspring/decimal"

	"github.com/pocketledger/pocket_ledger_sync/internal/core/domain"
)

// SubmitStatus is the terminal state of one submission attempt.
type SubmitStatus string

const (
	// SubmitCommitted: the remote ledger accepted the group; drafts purged.
	SubmitCommitted SubmitStatus = "COMMITTED"
	// SubmitPendingRetry: no response was obtained; the draft is preserved
	// and a PendingSubmission was persisted. Callers treat this as
	// "saved, will sync later", not as a failure.
	SubmitPendingRetry SubmitStatus = "PENDING_RETRY"
	// SubmitRejected: the remote ledger rejected the group with a field
	// error. The draft is retained so the user can correct and resubmit.
	SubmitRejected SubmitStatus = "REJECTED"
)

// SubmitResult reports the outcome of SubmitGroup / ResumeSubmission.
type SubmitResult struct {
	Status     SubmitStatus `json:"status"`
	GroupID    int64        `json:"groupID,omitempty"`
	JournalIDs []int64      `json:"journalIDs,omitempty"`
	Message    string       `json:"message,omitempty"`
}

// RefreshStatus records which branch a best-effort mirror refresh took, so
// the swallow-the-error policy stays observable and testable.
type RefreshStatus string

const (
	// RefreshFresh: the window was replaced from remote data.
	RefreshFresh RefreshStatus = "FRESH"
	// RefreshStale: the remote was unreachable or failed; the previously
	// cached slice is being served as-is.
	RefreshStale RefreshStatus = "STALE"
)

// RefreshResult carries the refresh branch plus the swallowed error, if any.
type RefreshResult struct {
	Status RefreshStatus
	Err    error
}

// WindowSummary is the aggregate view over one mirror window.
type WindowSummary struct {
	Window              domain.MirrorWindow        `json:"window"`
	Count               int                        `json:"count"`
	SumByCurrency       map[string]decimal.Decimal `json:"sumByCurrency"`
	DistinctCategories  []string                   `json:"distinctCategories"`
	DistinctBudgets     []string                   `json:"distinctBudgets"`
	DistinctSources     []string                   `json:"distinctSources"`
	DistinctDestination []string                   `json:"distinctDestinations"`
	Stale               bool                       `json:"stale"`
}

// SearchResult is a live-updating search answer: Local is served immediately;
// Merged delivers at most one refreshed page once remote results (if any)
// have been folded into the mirror, then closes.
type SearchResult struct {
	Local  []domain.TransactionLeg
	Merged <-chan []domain.TransactionLeg
}
