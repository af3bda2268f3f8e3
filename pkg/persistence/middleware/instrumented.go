package middleware

import (
	"context"
	"errors"
	"time"

	"github.com/moonbase/moonrobot/pkg/domain"
	"github.com/moonbase/moonrobot/pkg/ports"
	"github.com/prometheus/client_golang/prometheus"
)

type instrumentedMiddleware struct {
	next     ports.Store
	duration *prometheus.HistogramVec
	errors   *prometheus.CounterVec
}

// NewInstrumentedMiddleware records the latency and failures of every store call.
// Collectors are registered once on reg; the returned Middleware may wrap many stores.
func NewInstrumentedMiddleware(reg prometheus.Registerer) Middleware {
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "moonrobot_store_operation_duration_seconds",
		Help:    "Latency of store operations.",
		Buckets: prometheus.ExponentialBuckets(0.0005, 4, 8),
	}, []string{"operation"})
	errs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "moonrobot_store_errors_total",
		Help: "Store operations that returned an error.",
	}, []string{"operation"})
	if reg != nil {
		reg.MustRegister(duration, errs)
	}

	return func(next ports.Store) ports.Store {
		return &instrumentedMiddleware{next: next, duration: duration, errors: errs}
	}
}

func (m *instrumentedMiddleware) observe(op string, started time.Time, err error) {
	m.duration.WithLabelValues(op).Observe(time.Since(started).Seconds())
	// A missing robot is an expected first-run outcome.
	if err != nil && !errors.Is(err, domain.ErrRobotNotFound) {
		m.errors.WithLabelValues(op).Inc()
	}
}

func (m *instrumentedMiddleware) LoadRobot(ctx context.Context, robotID string) (*domain.Robot, error) {
	started := time.Now()
	robot, err := m.next.LoadRobot(ctx, robotID)
	m.observe("load_robot", started, err)
	return robot, err
}

func (m *instrumentedMiddleware) SaveRobot(ctx context.Context, robot *domain.Robot) error {
	started := time.Now()
	err := m.next.SaveRobot(ctx, robot)
	m.observe("save_robot", started, err)
	return err
}

func (m *instrumentedMiddleware) Obstacles(ctx context.Context) (domain.ObstacleSet, error) {
	started := time.Now()
	set, err := m.next.Obstacles(ctx)
	m.observe("obstacles", started, err)
	return set, err
}

func (m *instrumentedMiddleware) AddObstacles(ctx context.Context, positions []domain.Position) (int, error) {
	started := time.Now()
	n, err := m.next.AddObstacles(ctx, positions)
	m.observe("add_obstacles", started, err)
	return n, err
}

func (m *instrumentedMiddleware) History(ctx context.Context, robotID string, limit int) ([]domain.CommandExecutionRecord, error) {
	started := time.Now()
	records, err := m.next.History(ctx, robotID, limit)
	m.observe("history", started, err)
	return records, err
}

func (m *instrumentedMiddleware) CommitBatch(ctx context.Context, robot *domain.Robot, record *domain.CommandExecutionRecord) error {
	started := time.Now()
	err := m.next.CommitBatch(ctx, robot, record)
	m.observe("commit_batch", started, err)
	return err
}

func (m *instrumentedMiddleware) Ping(ctx context.Context) error {
	started := time.Now()
	err := ping(ctx, m.next)
	m.observe("ping", started, err)
	return err
}
