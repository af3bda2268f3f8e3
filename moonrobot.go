package moonrobot

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/moonbase/moonrobot/internal/logging"
	"github.com/moonbase/moonrobot/internal/runtime"
	"github.com/moonbase/moonrobot/pkg/domain"
	"github.com/moonbase/moonrobot/pkg/ports"
	"github.com/moonbase/moonrobot/pkg/session"
)

// Controller is the high-level entry point for driving the robot.
// It owns the get-or-init, execute and commit cycle and serializes it per robot.
type Controller struct {
	store    ports.Store
	sessions *session.Manager
	locker   ports.DistributedLocker
	lockTTL  time.Duration
	hooks    domain.LifecycleHooks
	logger   *slog.Logger
	now      func() time.Time
	newID    func() string
	robotID  string
	start    domain.RobotState
	maxLen   int
}

// Option defines a functional option for configuring the Controller.
type Option func(*Controller)

// WithLifecycleHooks registers observability hooks.
// Calling it more than once chains the hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(c *Controller) {
		c.hooks = c.hooks.Merge(hooks)
	}
}

// WithLogger sets a custom structured logger for the controller.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// WithLocker enables distributed locking across replicas.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(c *Controller) {
		c.locker = locker
	}
}

// WithLockTTL sets the expiry of distributed locks (default 30s).
func WithLockTTL(ttl time.Duration) Option {
	return func(c *Controller) {
		c.lockTTL = ttl
	}
}

// WithRobotID selects the robot the controller drives (default "default").
func WithRobotID(id string) Option {
	return func(c *Controller) {
		c.robotID = id
	}
}

// WithStartState sets the pose used when the robot is first initialized.
func WithStartState(state domain.RobotState) Option {
	return func(c *Controller) {
		c.start = state
	}
}

// WithMaxCommandLength caps the length of a command string. Zero disables the cap.
func WithMaxCommandLength(n int) Option {
	return func(c *Controller) {
		c.maxLen = n
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		c.now = now
	}
}

// New initializes a Controller backed by store.
func New(store ports.Store, opts ...Option) (*Controller, error) {
	if store == nil {
		return nil, fmt.Errorf("store is required")
	}

	c := &Controller{
		store:   store,
		lockTTL: session.DefaultLockTTL,
		now:     time.Now,
		newID:   uuid.NewString,
		robotID: domain.DefaultRobotID,
		start:   domain.DefaultStartState(),
		maxLen:  domain.DefaultMaxCommandLength,
	}
	for _, opt := range opts {
		opt(c)
	}

	if !c.start.Direction.Valid() {
		return nil, fmt.Errorf("start state: %w: %q", domain.ErrInvalidDirection, c.start.Direction)
	}
	if c.robotID == "" {
		c.robotID = domain.DefaultRobotID
	}
	if c.logger == nil {
		c.logger = logging.NewNop()
	}
	c.logger = c.logger.With("robot_id", c.robotID)

	sessionOpts := []session.Option{
		session.WithLogger(c.logger),
		session.WithLockTTL(c.lockTTL),
	}
	if c.locker != nil {
		sessionOpts = append(sessionOpts, session.WithLocker(c.locker))
	}
	c.sessions = session.NewManager(store, sessionOpts...)

	return c, nil
}

// RobotID returns the robot driven by the controller.
func (c *Controller) RobotID() string {
	return c.robotID
}

// MaxCommandLength returns the configured command length cap.
func (c *Controller) MaxCommandLength() int {
	return c.maxLen
}

// Position returns the robot's current pose, initializing the robot on first use.
func (c *Controller) Position(ctx context.Context) (domain.RobotState, error) {
	robot, err := c.sessions.LoadOrStart(ctx, c.robotID, c.start, c.now().UTC())
	if err != nil {
		return domain.RobotState{}, err
	}
	return robot.State, nil
}

// Execute runs one command batch and persists its outcome.
// Invalid input is rejected before any state is read. A collision is not an error:
// the returned record reports it with Stopped and Obstacle.
func (c *Controller) Execute(ctx context.Context, commands string) (*domain.CommandExecutionRecord, error) {
	if err := domain.ValidateCommands(commands, c.maxLen); err != nil {
		return nil, err
	}

	var rec *domain.CommandExecutionRecord
	err := c.sessions.WithLock(ctx, c.robotID, func(ctx context.Context) error {
		started := c.now().UTC()
		robot, err := session.LoadOrCreate(ctx, c.store, c.robotID, c.start, started)
		if err != nil {
			return err
		}

		event := &domain.BatchEvent{
			EventBase: domain.EventBase{Timestamp: started, Type: domain.EventBatchStart, RobotID: c.robotID},
			Commands:  commands,
			Initial:   robot.State,
		}
		c.fire(ctx, c.hooks.OnBatchStart, event)

		rec, err = c.runBatch(ctx, robot, commands, started, event)

		event.Type = domain.EventBatchComplete
		event.Timestamp = c.now().UTC()
		event.Duration = event.Timestamp.Sub(started)
		event.Err = err
		c.fire(ctx, c.hooks.OnBatchComplete, event)
		return err
	})
	if err != nil {
		c.logger.Error("batch failed", "commands", commands, "err", err)
		return nil, err
	}

	c.logger.Info("batch executed",
		"commands", commands,
		"final", rec.Final.Position.String(),
		"direction", rec.Final.Direction,
		"stopped", rec.Stopped,
		"consumed", rec.Consumed,
	)
	return rec, nil
}

func (c *Controller) runBatch(ctx context.Context, robot *domain.Robot, commands string, started time.Time, event *domain.BatchEvent) (*domain.CommandExecutionRecord, error) {
	obstacles, err := c.store.Obstacles(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load obstacles: %w", err)
	}

	res, err := runtime.Execute(robot.State, obstacles, commands)
	if err != nil {
		return nil, err
	}
	event.Result = &res

	if res.Stopped {
		collision := *event
		collision.Type = domain.EventCollision
		c.fire(ctx, c.hooks.OnCollision, &collision)
		c.logger.Warn("batch stopped by obstacle", "obstacle", res.Obstacle.String(), "consumed", res.Consumed)
	}

	rec := domain.NewRecord(c.newID(), c.robotID, commands, robot.State, res, started)

	updated := robot.Snapshot()
	updated.State = res.State
	updated.UpdatedAt = started
	if err := c.store.CommitBatch(ctx, updated, rec); err != nil {
		return nil, fmt.Errorf("failed to commit batch: %w", err)
	}
	return rec, nil
}

func (c *Controller) fire(ctx context.Context, hook func(context.Context, *domain.BatchEvent), e *domain.BatchEvent) {
	if hook != nil {
		hook(ctx, e)
	}
}

// History returns the robot's batch records, newest first. A limit <= 0 returns all.
func (c *Controller) History(ctx context.Context, limit int) ([]domain.CommandExecutionRecord, error) {
	return c.store.History(ctx, c.robotID, limit)
}

// Obstacles returns the stored obstacle set.
func (c *Controller) Obstacles(ctx context.Context) (domain.ObstacleSet, error) {
	return c.store.Obstacles(ctx)
}

// SeedObstacles adds the positions of set that are not persisted yet and reports how many were added.
func (c *Controller) SeedObstacles(ctx context.Context, set domain.ObstacleSet) (int, error) {
	if set.Len() == 0 {
		c.logger.Info("no obstacles configured")
		return 0, nil
	}

	existing, err := c.store.Obstacles(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load obstacles: %w", err)
	}
	missing := set.Missing(existing)
	if len(missing) == 0 {
		c.logger.Info("obstacles already initialized", "count", existing.Len())
		return 0, nil
	}

	added, err := c.store.AddObstacles(ctx, missing)
	if err != nil {
		return 0, fmt.Errorf("failed to seed obstacles: %w", err)
	}
	c.logger.Info("initialized obstacles", "added", added, "total", existing.Len()+added)
	return added, nil
}

// Verify replays rec against the current obstacles.
func (c *Controller) Verify(ctx context.Context, rec domain.CommandExecutionRecord) error {
	obstacles, err := c.store.Obstacles(ctx)
	if err != nil {
		return fmt.Errorf("failed to load obstacles: %w", err)
	}
	return runtime.Replay(rec, obstacles)
}

// Health reports whether the store backend is reachable.
// Stores without a health probe are always healthy.
func (c *Controller) Health(ctx context.Context) error {
	p, ok := c.store.(ports.Pinger)
	if !ok {
		return nil
	}
	if err := p.Ping(ctx); err != nil {
		return fmt.Errorf("store unavailable: %w", err)
	}
	return nil
}
