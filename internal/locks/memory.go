package locks

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// DefaultLease bounds how long a holder may keep a lock before it is treated
// as abandoned.
const DefaultLease = 5 * time.Minute

type memoryLock struct {
	expiresAt time.Time
	released  chan struct{}
}

// MemoryLocker is a single-process Locker backed by a mutex-guarded map.
// It makes no cross-instance claims; deployments running more than one
// process must use RedisLocker behind the same contract.
type MemoryLocker struct {
	mu     sync.Mutex
	locks  map[string]*memoryLock
	lease  time.Duration
	logger *slog.Logger

	now func() time.Time
}

// NewMemoryLocker constructs an in-process locker. A non-positive lease falls
// back to DefaultLease.
func NewMemoryLocker(lease time.Duration, logger *slog.Logger) *MemoryLocker {
	if lease <= 0 {
		lease = DefaultLease
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &MemoryLocker{
		locks:  make(map[string]*memoryLock),
		lease:  lease,
		logger: logger,
		now:    time.Now,
	}
}

// Acquire blocks up to timeout waiting for key to become free.
func (l *MemoryLocker) Acquire(ctx context.Context, key string, timeout time.Duration) (bool, error) {
	deadline := l.now().Add(timeout)
	for {
		l.mu.Lock()
		now := l.now()
		current, held := l.locks[key]
		if !held || now.After(current.expiresAt) {
			if held {
				l.logger.Warn("replacing expired lock", slog.String("key", key))
			}
			l.locks[key] = &memoryLock{
				expiresAt: now.Add(l.lease),
				released:  make(chan struct{}),
			}
			l.mu.Unlock()
			return true, nil
		}
		released := current.released
		expiresAt := current.expiresAt
		l.mu.Unlock()

		if !now.Before(deadline) {
			return false, nil
		}

		// Wake on release, on the holder's lease elapsing, or on timeout,
		// whichever comes first, then re-contend.
		wait := deadline.Sub(now)
		if untilExpiry := expiresAt.Sub(now); untilExpiry < wait {
			wait = untilExpiry
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return false, ctx.Err()
		case <-released:
			timer.Stop()
		case <-timer.C:
			if !l.now().Before(deadline) {
				return false, nil
			}
		}
	}
}

// Release frees key. Releasing an unheld key is not an error.
func (l *MemoryLocker) Release(_ context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	current, held := l.locks[key]
	if !held {
		l.logger.Info("release of unheld lock", slog.String("key", key))
		return nil
	}
	close(current.released)
	delete(l.locks, key)
	return nil
}
