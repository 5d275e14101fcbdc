package locks

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisLocker_AcquireRelease(t *testing.T) {
	_, client := newTestRedis(t)
	l := NewRedisLocker(client, time.Minute, nil)
	ctx := context.Background()

	ok, err := l.Acquire(ctx, "report-lock", time.Second)
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, l.Release(ctx, "report-lock"))

	ok, err = l.Acquire(ctx, "report-lock", time.Second)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisLocker_SecondCallerTimesOut(t *testing.T) {
	_, client := newTestRedis(t)
	l := NewRedisLocker(client, time.Minute, nil)
	ctx := context.Background()

	ok, err := l.Acquire(ctx, "report-lock", time.Second)
	require.NoError(t, err)
	require.True(t, ok)

	other := NewRedisLocker(client, time.Minute, nil)
	start := time.Now()
	ok, err = other.Acquire(ctx, "report-lock", 200*time.Millisecond)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.GreaterOrEqual(t, time.Since(start), 200*time.Millisecond)
}

func TestRedisLocker_LeaseExpiryFreesKey(t *testing.T) {
	mr, client := newTestRedis(t)
	l := NewRedisLocker(client, 100*time.Millisecond, nil)
	ctx := context.Background()

	ok, err := l.Acquire(ctx, "report-lock", time.Second)
	require.NoError(t, err)
	require.True(t, ok)

	mr.FastForward(200 * time.Millisecond)

	other := NewRedisLocker(client, time.Minute, nil)
	ok, err = other.Acquire(ctx, "report-lock", time.Second)
	require.NoError(t, err)
	assert.True(t, ok, "abandoned lock must be taken over after lease expiry")

	// A late release by the original holder must not free the takeover.
	require.NoError(t, l.Release(ctx, "report-lock"))
	ok, err = l.Acquire(ctx, "report-lock", 100*time.Millisecond)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisLocker_ReleaseUnheldIsIdempotent(t *testing.T) {
	_, client := newTestRedis(t)
	l := NewRedisLocker(client, time.Minute, nil)
	ctx := context.Background()

	require.NoError(t, l.Release(ctx, "never-acquired"))
}
