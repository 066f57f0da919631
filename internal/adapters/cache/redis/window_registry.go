package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pocketledger/pocket_ledger_sync/internal/apperrors"
	"github.com/pocketledger/pocket_ledger_sync/internal/core/domain"
	portsrepo "github.com/pocketledger/pocket_ledger_sync/internal/core/ports/repositories"
)

const keyPrefix = "mirror:fresh:"

// WindowRegistry records window freshness as expiring redis keys, so
// freshness is shared across instances and forgotten automatically once the
// session horizon passes.
type WindowRegistry struct {
	client *redis.Client
	ttl    time.Duration
}

// NewWindowRegistry creates a registry with the given freshness horizon.
func NewWindowRegistry(client *redis.Client, ttl time.Duration) *WindowRegistry {
	return &WindowRegistry{client: client, ttl: ttl}
}

var _ portsrepo.WindowRegistry = (*WindowRegistry)(nil)

// MarkFresh records that the window was just replaced from remote data.
func (r *WindowRegistry) MarkFresh(ctx context.Context, window domain.MirrorWindow) error {
	if err := r.client.Set(ctx, keyPrefix+window.Key(), "1", r.ttl).Err(); err != nil {
		return apperrors.NewAppError(500, "failed to mark window fresh", err)
	}
	return nil
}

// IsFresh reports whether the window's freshness key is still alive.
func (r *WindowRegistry) IsFresh(ctx context.Context, window domain.MirrorWindow) (bool, error) {
	n, err := r.client.Exists(ctx, keyPrefix+window.Key()).Result()
	if err != nil {
		return false, apperrors.NewAppError(500, "failed to check window freshness", err)
	}
	return n > 0, nil
}
