package runtime

import (
	"errors"
	"fmt"

	"github.com/moonbase/moonrobot/pkg/domain"
)

// ErrReplayMismatch is returned when re-running a record does not reproduce its outcome.
var ErrReplayMismatch = errors.New("replay does not reproduce recorded outcome")

// Replay re-runs a recorded batch against obstacles and checks that the stored
// outcome is the one the interpreter produces.
func Replay(rec domain.CommandExecutionRecord, obstacles domain.ObstacleSet) error {
	got, err := Execute(rec.Initial, obstacles, rec.Commands)
	if err != nil {
		return fmt.Errorf("replay of record %s failed: %w", rec.ID, err)
	}

	want := rec.Result()
	switch {
	case got.State != want.State:
		return fmt.Errorf("%w: record %s final state %v/%s, replay %v/%s", ErrReplayMismatch, rec.ID,
			want.State.Position, want.State.Direction, got.State.Position, got.State.Direction)
	case got.Stopped != want.Stopped:
		return fmt.Errorf("%w: record %s stopped=%t, replay stopped=%t", ErrReplayMismatch, rec.ID, want.Stopped, got.Stopped)
	case !samePosition(got.Obstacle, want.Obstacle):
		return fmt.Errorf("%w: record %s obstacle differs", ErrReplayMismatch, rec.ID)
	case got.Consumed != want.Consumed:
		return fmt.Errorf("%w: record %s consumed=%d, replay consumed=%d", ErrReplayMismatch, rec.ID, want.Consumed, got.Consumed)
	}
	return nil
}

func samePosition(a, b *domain.Position) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
