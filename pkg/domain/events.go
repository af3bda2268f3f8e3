package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventBatchStart    EventType = "batch_start"
	EventCollision     EventType = "collision"
	EventBatchComplete EventType = "batch_complete"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	RobotID   string    `json:"robot_id"`
}

// BatchEvent describes a command batch at one point of its lifecycle.
type BatchEvent struct {
	EventBase
	Commands string        `json:"commands"`
	Initial  RobotState    `json:"initial"`
	Result   *Result       `json:"result,omitempty"`
	Duration time.Duration `json:"duration,omitempty"`
	// Err is set on completion when the batch failed after it started.
	Err error `json:"-"`
}

// LifecycleHooks defines callbacks for controller observability.
type LifecycleHooks struct {
	OnBatchStart    func(context.Context, *BatchEvent)
	OnCollision     func(context.Context, *BatchEvent)
	OnBatchComplete func(context.Context, *BatchEvent)
}

// Merge returns hooks that call h first and then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnBatchStart:    chain(h.OnBatchStart, other.OnBatchStart),
		OnCollision:     chain(h.OnCollision, other.OnCollision),
		OnBatchComplete: chain(h.OnBatchComplete, other.OnBatchComplete),
	}
}

func chain(a, b func(context.Context, *BatchEvent)) func(context.Context, *BatchEvent) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e *BatchEvent) {
		a(ctx, e)
		b(ctx, e)
	}
}
