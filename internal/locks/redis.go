package locks

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// redisAcquirePoll is how often a blocked acquirer re-attempts SET NX.
const redisAcquirePoll = 50 * time.Millisecond

// releaseScript deletes the key only when this locker still holds it, so a
// takeover after lease expiry is never clobbered by a late release.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLocker is a Locker for multi-instance deployments, implemented with
// SET NX PX leases.
type RedisLocker struct {
	client *redis.Client
	lease  time.Duration
	logger *slog.Logger

	mu     sync.Mutex
	tokens map[string]string
}

// NewRedisLocker constructs a Redis-backed locker. A non-positive lease falls
// back to DefaultLease.
func NewRedisLocker(client *redis.Client, lease time.Duration, logger *slog.Logger) *RedisLocker {
	if lease <= 0 {
		lease = DefaultLease
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisLocker{
		client: client,
		lease:  lease,
		logger: logger,
		tokens: make(map[string]string),
	}
}

// Acquire blocks up to timeout waiting for key to become free.
func (l *RedisLocker) Acquire(ctx context.Context, key string, timeout time.Duration) (bool, error) {
	deadline := time.Now().Add(timeout)
	token := uuid.NewString()
	for {
		ok, err := l.client.SetNX(ctx, key, token, l.lease).Result()
		if err != nil {
			return false, err
		}
		if ok {
			l.mu.Lock()
			l.tokens[key] = token
			l.mu.Unlock()
			return true, nil
		}
		if !time.Now().Before(deadline) {
			return false, nil
		}
		wait := redisAcquirePoll
		if remaining := time.Until(deadline); remaining < wait {
			wait = remaining
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return false, ctx.Err()
		case <-timer.C:
		}
	}
}

// Release frees key when this locker still holds it. Releasing an unheld key
// is not an error.
func (l *RedisLocker) Release(ctx context.Context, key string) error {
	l.mu.Lock()
	token, held := l.tokens[key]
	delete(l.tokens, key)
	l.mu.Unlock()
	if !held {
		l.logger.Info("release of unheld lock", slog.String("key", key))
		return nil
	}
	deleted, err := releaseScript.Run(ctx, l.client, []string{key}, token).Int()
	if err != nil {
		return err
	}
	if deleted == 0 {
		l.logger.Warn("lock lease expired before release", slog.String("key", key))
	}
	return nil
}
