package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/moonbase/moonrobot/pkg/adapters/redis"
	"github.com/moonbase/moonrobot/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ ports.DistributedLocker = (*redis.Locker)(nil)

func TestRedisLocker_LockUnlock(t *testing.T) {
	mr, client := newClient(t)
	locker := redis.NewLocker(client, "test:")
	ctx := context.Background()

	unlock, err := locker.Lock(ctx, "robot-1", 5*time.Second)
	require.NoError(t, err)
	require.NotNil(t, unlock)

	assert.True(t, mr.Exists("test:lock:robot-1"), "Lock key should be set in Redis")
	assert.Greater(t, mr.TTL("test:lock:robot-1"), time.Duration(0), "Lock key should expire")

	require.NoError(t, unlock(ctx))
	assert.False(t, mr.Exists("test:lock:robot-1"), "Lock key should be removed after unlock")
}

func TestRedisLocker_Contention(t *testing.T) {
	mr, client := newClient(t)
	locker1 := redis.NewLocker(client, "test:")
	locker2 := redis.NewLocker(client, "test:") // Same prefix -> contention
	ctx := context.Background()
	key := "shared-robot"

	unlock1, err := locker1.Lock(ctx, key, 5*time.Second)
	require.NoError(t, err)

	ctxTimeout, cancel := context.WithTimeout(ctx, 300*time.Millisecond)
	defer cancel()

	_, err = locker2.Lock(ctxTimeout, key, 5*time.Second)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	require.NoError(t, unlock1(ctx))

	unlock2, err := locker2.Lock(ctx, key, 5*time.Second)
	require.NoError(t, err)
	defer unlock2(ctx)

	assert.True(t, mr.Exists("test:lock:shared-robot"))
}

func TestRedisLocker_StaleUnlockKeepsNewOwner(t *testing.T) {
	mr, client := newClient(t)
	locker := redis.NewLocker(client, "test:")
	ctx := context.Background()

	unlock1, err := locker.Lock(ctx, "robot", time.Second)
	require.NoError(t, err)

	// First holder's lease expires and another replica takes over.
	mr.FastForward(2 * time.Second)
	unlock2, err := locker.Lock(ctx, "robot", 5*time.Second)
	require.NoError(t, err)

	require.NoError(t, unlock1(ctx))
	assert.True(t, mr.Exists("test:lock:robot"), "stale unlock must not release the new owner's lock")

	require.NoError(t, unlock2(ctx))
	assert.False(t, mr.Exists("test:lock:robot"))
}
