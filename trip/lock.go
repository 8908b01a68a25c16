package trip

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"
)

// DefaultLockTimeout bounds how long a transition waits for the per-trip lock
const DefaultLockTimeout = 3 * time.Second

// lockEntry pairs a binary semaphore with the number of holders and waiters
// currently referencing it, so unused entries can be evicted.
type lockEntry struct {
	sem  *semaphore.Weighted
	refs int
}

// lockRegistry hands out one binary semaphore per (tenant, trip) pair so that
// the read-modify-write sequence of a transition is serialized per trip while
// operations on different trips never contend. Entries are dropped as soon as
// the last holder or waiter lets go, keeping the map bounded by in-flight
// transitions rather than by every trip ever touched.
type lockRegistry struct {
	mu    sync.Mutex
	locks map[string]*lockEntry
}

var registry = &lockRegistry{locks: make(map[string]*lockEntry)}

func (r *lockRegistry) get(key string) *lockEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.locks[key]
	if !ok {
		e = &lockEntry{sem: semaphore.NewWeighted(1)}
		r.locks[key] = e
	}
	e.refs++
	return e
}

func (r *lockRegistry) put(key string, e *lockEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e.refs--
	if e.refs == 0 {
		delete(r.locks, key)
	}
}

func (r *lockRegistry) size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.locks)
}

func lockKey(tenantId uuid.UUID, tripId uint32) string {
	return fmt.Sprintf("%s/%d", tenantId, tripId)
}

// acquireTripLock serializes transitions for a single trip. It waits at most
// timeout (or until ctx is done) and returns ErrBusy when the lock cannot be
// taken, leaving state untouched. The returned release function must be called
// exactly once.
func acquireTripLock(ctx context.Context, tenantId uuid.UUID, tripId uint32, timeout time.Duration) (func(), error) {
	if timeout <= 0 {
		timeout = DefaultLockTimeout
	}

	key := lockKey(tenantId, tripId)
	e := registry.get(key)

	acquireCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := e.sem.Acquire(acquireCtx, 1); err != nil {
		registry.put(key, e)
		return nil, ErrBusy
	}

	return func() {
		e.sem.Release(1)
		registry.put(key, e)
	}, nil
}
