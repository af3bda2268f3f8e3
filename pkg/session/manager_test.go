package session_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/moonbase/moonrobot/pkg/adapters/memory"
	"github.com/moonbase/moonrobot/pkg/domain"
	"github.com/moonbase/moonrobot/pkg/ports"
	"github.com/moonbase/moonrobot/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// SlowStore simulates latency to provoke race conditions if locking is missing.
type SlowStore struct {
	*memory.Store
	saves atomic.Int32
}

func (s *SlowStore) LoadRobot(ctx context.Context, robotID string) (*domain.Robot, error) {
	time.Sleep(10 * time.Millisecond) // Simulate IO
	return s.Store.LoadRobot(ctx, robotID)
}

func (s *SlowStore) SaveRobot(ctx context.Context, robot *domain.Robot) error {
	time.Sleep(10 * time.Millisecond) // Simulate IO
	s.saves.Add(1)
	return s.Store.SaveRobot(ctx, robot)
}

func TestManager_ReadModifyWriteIsSerialized(t *testing.T) {
	store := &SlowStore{Store: memory.NewStore()}
	manager := session.NewManager(store)
	ctx := context.Background()
	id := "race-test"

	_, err := manager.LoadOrStart(ctx, id, domain.NewRobotState(0, 0, domain.North), time.Now())
	require.NoError(t, err)

	var wg sync.WaitGroup
	workers := 10
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := manager.WithLock(ctx, id, func(ctx context.Context) error {
				robot, err := store.LoadRobot(ctx, id)
				if err != nil {
					return err
				}
				robot.State.Position.Y++
				return store.SaveRobot(ctx, robot)
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	robot, err := store.LoadRobot(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, workers, robot.State.Position.Y, "no update may be lost")
}

func TestManager_LoadOrStart(t *testing.T) {
	store := &SlowStore{Store: memory.NewStore()}
	manager := session.NewManager(store)
	ctx := context.Background()
	id := "atomic-init"

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			robot, err := manager.LoadOrStart(ctx, id, domain.DefaultStartState(), time.Now())
			assert.NoError(t, err)
			assert.NotNil(t, robot)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), store.saves.Load(), "robot is initialized exactly once")

	// A later call with another start pose keeps the stored robot.
	robot, err := manager.LoadOrStart(ctx, id, domain.NewRobotState(9, 9, domain.East), time.Now())
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultStartState(), robot.State)
	assert.Equal(t, int32(1), store.saves.Load())
}

type fakeLocker struct {
	mu       sync.Mutex
	keys     []string
	ttl      time.Duration
	released int
	err      error
}

func (f *fakeLocker) Lock(ctx context.Context, key string, ttl time.Duration) (ports.UnlockFunc, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.keys = append(f.keys, key)
	f.ttl = ttl
	return func(ctx context.Context) error {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.released++
		return nil
	}, nil
}

func TestManager_DistributedLock(t *testing.T) {
	locker := &fakeLocker{}
	manager := session.NewManager(memory.NewStore(), session.WithLocker(locker), session.WithLockTTL(5*time.Second))

	called := false
	err := manager.WithLock(context.Background(), "r1", func(ctx context.Context) error {
		called = true
		return nil
	})
	require.NoError(t, err)
	assert.True(t, called)
	assert.Equal(t, []string{"r1"}, locker.keys)
	assert.Equal(t, 5*time.Second, locker.ttl)
	assert.Equal(t, 1, locker.released)
}

func TestManager_DistributedLockFailure(t *testing.T) {
	boom := errors.New("redis down")
	manager := session.NewManager(memory.NewStore(), session.WithLocker(&fakeLocker{err: boom}))

	err := manager.WithLock(context.Background(), "r1", func(ctx context.Context) error {
		t.Fatal("fn must not run without the lock")
		return nil
	})
	assert.ErrorIs(t, err, boom)
}
