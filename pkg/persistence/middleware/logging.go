package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/moonbase/moonrobot/pkg/domain"
	"github.com/moonbase/moonrobot/pkg/ports"
)

type loggingMiddleware struct {
	next   ports.Store
	logger *slog.Logger
}

// NewLoggingMiddleware logs every store call at debug level.
func NewLoggingMiddleware(logger *slog.Logger) Middleware {
	return func(next ports.Store) ports.Store {
		return &loggingMiddleware{next: next, logger: logger}
	}
}

func (m *loggingMiddleware) log(ctx context.Context, op string, started time.Time, err error, attrs ...any) {
	attrs = append(attrs, "op", op, "took", time.Since(started))
	if err != nil {
		m.logger.DebugContext(ctx, "store call failed", append(attrs, "err", err)...)
		return
	}
	m.logger.DebugContext(ctx, "store call", attrs...)
}

func (m *loggingMiddleware) LoadRobot(ctx context.Context, robotID string) (*domain.Robot, error) {
	started := time.Now()
	robot, err := m.next.LoadRobot(ctx, robotID)
	m.log(ctx, "load_robot", started, err, "robot", robotID)
	return robot, err
}

func (m *loggingMiddleware) SaveRobot(ctx context.Context, robot *domain.Robot) error {
	started := time.Now()
	err := m.next.SaveRobot(ctx, robot)
	m.log(ctx, "save_robot", started, err, "robot", robot.ID)
	return err
}

func (m *loggingMiddleware) Obstacles(ctx context.Context) (domain.ObstacleSet, error) {
	started := time.Now()
	set, err := m.next.Obstacles(ctx)
	m.log(ctx, "obstacles", started, err, "count", set.Len())
	return set, err
}

func (m *loggingMiddleware) AddObstacles(ctx context.Context, positions []domain.Position) (int, error) {
	started := time.Now()
	n, err := m.next.AddObstacles(ctx, positions)
	m.log(ctx, "add_obstacles", started, err, "requested", len(positions), "added", n)
	return n, err
}

func (m *loggingMiddleware) History(ctx context.Context, robotID string, limit int) ([]domain.CommandExecutionRecord, error) {
	started := time.Now()
	records, err := m.next.History(ctx, robotID, limit)
	m.log(ctx, "history", started, err, "robot", robotID, "limit", limit, "count", len(records))
	return records, err
}

func (m *loggingMiddleware) CommitBatch(ctx context.Context, robot *domain.Robot, record *domain.CommandExecutionRecord) error {
	started := time.Now()
	err := m.next.CommitBatch(ctx, robot, record)
	m.log(ctx, "commit_batch", started, err, "robot", robot.ID, "record", record.ID)
	return err
}

func (m *loggingMiddleware) Ping(ctx context.Context) error {
	started := time.Now()
	err := ping(ctx, m.next)
	m.log(ctx, "ping", started, err)
	return err
}
