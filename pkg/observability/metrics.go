package observability

import (
	"context"

	"github.com/moonbase/moonrobot/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors of the controller.
type Metrics struct {
	Batches          *prometheus.CounterVec
	Collisions       prometheus.Counter
	CommandsExecuted prometheus.Counter
	BatchDuration    prometheus.Histogram
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Batches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "moonrobot_batches_total",
				Help: "Total number of command batches executed, by outcome",
			},
			[]string{"outcome"},
		),
		Collisions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "moonrobot_collisions_total",
			Help: "Total number of batches stopped by an obstacle",
		}),
		CommandsExecuted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "moonrobot_commands_executed_total",
			Help: "Total number of individual commands applied",
		}),
		BatchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "moonrobot_batch_duration_seconds",
			Help:    "Duration of command batches including persistence",
			Buckets: prometheus.DefBuckets,
		}),
	}
	if reg != nil {
		reg.MustRegister(m.Batches, m.Collisions, m.CommandsExecuted, m.BatchDuration)
	}
	return m
}

// Hooks returns lifecycle hooks that record into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnCollision: func(ctx context.Context, e *domain.BatchEvent) {
			m.Collisions.Inc()
		},
		OnBatchComplete: func(ctx context.Context, e *domain.BatchEvent) {
			outcome := "completed"
			if e.Result == nil {
				outcome = "failed"
			} else {
				if e.Result.Stopped {
					outcome = "stopped"
				}
				m.CommandsExecuted.Add(float64(e.Result.Consumed))
			}
			m.Batches.WithLabelValues(outcome).Inc()
			m.BatchDuration.Observe(e.Duration.Seconds())
		},
	}
}
