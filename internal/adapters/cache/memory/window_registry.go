package memory

import (
	"context"
	"sync"
	"time"

	"github.com/pocketledger/pocket_ledger_sync/internal/core/domain"
	portsrepo "github.com/pocketledger/pocket_ledger_sync/internal/core/ports/repositories"
)

// WindowRegistry tracks window freshness in process memory. Suitable for a
// single instance or for tests; entries expire lazily on read.
type WindowRegistry struct {
	mu      sync.RWMutex
	ttl     time.Duration
	expires map[string]time.Time
	now     func() time.Time
}

// NewWindowRegistry creates a registry with the given freshness horizon.
func NewWindowRegistry(ttl time.Duration) *WindowRegistry {
	return &WindowRegistry{
		ttl:     ttl,
		expires: make(map[string]time.Time),
		now:     time.Now,
	}
}

var _ portsrepo.WindowRegistry = (*WindowRegistry)(nil)

// MarkFresh records that the window was just replaced from remote data.
func (r *WindowRegistry) MarkFresh(_ context.Context, window domain.MirrorWindow) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.expires[window.Key()] = r.now().Add(r.ttl)
	return nil
}

// IsFresh reports whether the window was refreshed within the horizon.
func (r *WindowRegistry) IsFresh(_ context.Context, window domain.MirrorWindow) (bool, error) {
	r.mu.RLock()
	deadline, ok := r.expires[window.Key()]
	r.mu.RUnlock()
	if !ok {
		return false, nil
	}
	if r.now().After(deadline) {
		r.mu.Lock()
		delete(r.expires, window.Key())
		r.mu.Unlock()
		return false, nil
	}
	return true, nil
}
