// Package locks provides cooperative named mutual exclusion with lease
// expiry. A lock whose lease has elapsed is treated as abandoned and may be
// taken over by the next acquirer; lease expiry, not explicit release, is the
// recovery mechanism for a crashed holder.
package locks

import (
	"context"
	"time"
)

// Locker serialises access to a keyed resource.
//
// Acquire blocks up to timeout waiting for key to become free and reports
// whether the lock was taken. A successful acquisition holds the lock for at
// most the configured lease. Locks are not reentrant.
//
// Release is idempotent: releasing an unheld key logs and succeeds.
type Locker interface {
	Acquire(ctx context.Context, key string, timeout time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}
