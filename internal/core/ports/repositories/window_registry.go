package repositories

import (
	"context"

	"github.com/pocketledger/pocket_ledger_sync/internal/core/domain"
)

// WindowRegistry tracks which mirror windows were refreshed recently enough
// to be considered fresh for the current session. Aggregate queries over a
// window that is not fresh are served anyway, flagged as stale.
type WindowRegistry interface {
	// MarkFresh records that the window was just replaced from remote data.
	MarkFresh(ctx context.Context, window domain.MirrorWindow) error

	// IsFresh reports whether the window was refreshed within the session
	// freshness horizon.
	IsFresh(ctx context.Context, window domain.MirrorWindow) (bool, error)
}
