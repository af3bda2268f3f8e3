package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"log/slog"

	"github.com/moonbase/moonrobot/internal/logging"
	"github.com/moonbase/moonrobot/pkg/domain"
	"github.com/moonbase/moonrobot/pkg/ports"
)

// DefaultLockTTL bounds how long a crashed holder can block other replicas.
const DefaultLockTTL = 30 * time.Second

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager orchestrates robot access, ensuring safe concurrent operations.
// It uses Reference Counting to garbage collect unused locks.
type Manager struct {
	store ports.Store

	mu    sync.Mutex            // Global lock for the map
	locks map[string]*lockEntry // Map of active locks

	locker  ports.DistributedLocker // Optional distributed locker
	lockTTL time.Duration
	logger  *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL sets the expiry of distributed locks.
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		if ttl > 0 {
			m.lockTTL = ttl
		}
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager creates a new Manager with the given persistence store.
func NewManager(store ports.Store, opts ...Option) *Manager {
	m := &Manager{
		store:   store,
		locks:   make(map[string]*lockEntry),
		lockTTL: DefaultLockTTL,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST Lock the entry.mu, and then call release(robotID) after unlocking.
func (m *Manager) acquire(robotID string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[robotID]
	if !exists {
		entry = &lockEntry{}
		m.locks[robotID] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) release(robotID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[robotID]
	if !exists {
		return
	}

	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, robotID)
	}
}

// LoadOrCreate loads the robot, persisting a new one at start if it does not exist.
// It does not lock; call it from inside WithLock.
func LoadOrCreate(ctx context.Context, store ports.RobotStore, robotID string, start domain.RobotState, now time.Time) (*domain.Robot, error) {
	robot, err := store.LoadRobot(ctx, robotID)
	if err == nil {
		return robot, nil
	}
	if !errors.Is(err, domain.ErrRobotNotFound) {
		return nil, fmt.Errorf("failed to check robot existence: %w", err)
	}

	robot = domain.NewRobot(robotID, start, now)
	if err := store.SaveRobot(ctx, robot); err != nil {
		return nil, fmt.Errorf("failed to initialize robot: %w", err)
	}
	return robot, nil
}

// LoadOrStart tries to load a robot. If not found, it initializes one at start.
func (m *Manager) LoadOrStart(ctx context.Context, robotID string, start domain.RobotState, now time.Time) (*domain.Robot, error) {
	var robot *domain.Robot
	err := m.WithLock(ctx, robotID, func(ctx context.Context) error {
		var err error
		robot, err = LoadOrCreate(ctx, m.store, robotID, start, now)
		return err
	})
	return robot, err
}

// WithLock executes a function while holding the lock for the robot.
func (m *Manager) WithLock(ctx context.Context, robotID string, fn func(context.Context) error) error {
	entry := m.acquire(robotID)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(robotID)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, robotID, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			// Release even if ctx was canceled mid-batch.
			if err := unlock(context.WithoutCancel(ctx)); err != nil {
				m.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"robot_id", robotID,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}
