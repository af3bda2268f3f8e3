package ports

import (
	"context"
	"testing"
	"time"

	"github.com/moonbase/moonrobot/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunStoreContract runs a suite of tests to verify that a Store implementation
// adheres to the defined interface contract. newStore must return an empty store.
func RunStoreContract(t *testing.T, newStore func(t *testing.T) Store) {
	ctx := context.Background()
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	t.Run("Load Non-Existent", func(t *testing.T) {
		store := newStore(t)
		_, err := store.LoadRobot(ctx, "missing")
		assert.ErrorIs(t, err, domain.ErrRobotNotFound)
	})

	t.Run("Save and Load", func(t *testing.T) {
		store := newStore(t)
		robot := domain.NewRobot("r1", domain.NewRobotState(-4, 7, domain.North), now)
		require.NoError(t, store.SaveRobot(ctx, robot), "SaveRobot should not return error")

		loaded, err := store.LoadRobot(ctx, "r1")
		require.NoError(t, err, "LoadRobot should not return error")
		assert.Equal(t, robot.ID, loaded.ID)
		assert.Equal(t, robot.State, loaded.State)
		assert.True(t, robot.CreatedAt.Equal(loaded.CreatedAt))

		// Mutating the loaded copy must not leak into the store.
		loaded.State.Position.X = 100
		again, err := store.LoadRobot(ctx, "r1")
		require.NoError(t, err)
		assert.Equal(t, -4, again.State.Position.X)
	})

	t.Run("Obstacles Union", func(t *testing.T) {
		store := newStore(t)
		empty, err := store.Obstacles(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, empty.Len())

		added, err := store.AddObstacles(ctx, []domain.Position{{X: 1, Y: 4}, {X: 3, Y: 5}, {X: 1, Y: 4}})
		require.NoError(t, err)
		assert.Equal(t, 2, added)

		added, err = store.AddObstacles(ctx, []domain.Position{{X: 3, Y: 5}, {X: -7, Y: -4}})
		require.NoError(t, err)
		assert.Equal(t, 1, added, "existing obstacles are not inserted twice")

		set, err := store.Obstacles(ctx)
		require.NoError(t, err)
		assert.Equal(t, []domain.Position{{X: -7, Y: -4}, {X: 1, Y: 4}, {X: 3, Y: 5}}, set.Sorted())
	})

	t.Run("Commit Batch", func(t *testing.T) {
		store := newStore(t)
		robot := domain.NewRobot("r2", domain.NewRobotState(4, 2, domain.West), now)
		require.NoError(t, store.SaveRobot(ctx, robot))

		for i, cmds := range []string{"F", "FL", "B"} {
			moved := robot.Snapshot()
			moved.State.Position.X -= i + 1
			moved.UpdatedAt = now.Add(time.Duration(i+1) * time.Minute)
			obstacle := domain.Position{X: 0, Y: i}
			rec := &domain.CommandExecutionRecord{
				ID:         cmds + "-id",
				RobotID:    "r2",
				Commands:   cmds,
				Initial:    robot.State,
				Final:      moved.State,
				Stopped:    i == 2,
				ExecutedAt: moved.UpdatedAt,
			}
			if rec.Stopped {
				rec.Obstacle = &obstacle
			}
			require.NoError(t, store.CommitBatch(ctx, moved, rec))
			robot = moved
		}

		loaded, err := store.LoadRobot(ctx, "r2")
		require.NoError(t, err)
		assert.Equal(t, robot.State, loaded.State, "commit applies the final state")

		history, err := store.History(ctx, "r2", 0)
		require.NoError(t, err)
		require.Len(t, history, 3)
		assert.Equal(t, "B", history[0].Commands, "history is newest first")
		assert.Equal(t, "F", history[2].Commands)
		require.NotNil(t, history[0].Obstacle)
		assert.Equal(t, domain.Position{X: 0, Y: 2}, *history[0].Obstacle)
		assert.Nil(t, history[1].Obstacle)

		limited, err := store.History(ctx, "r2", 2)
		require.NoError(t, err)
		require.Len(t, limited, 2)
		assert.Equal(t, "B", limited[0].Commands)
		assert.Equal(t, "FL", limited[1].Commands)

		other, err := store.History(ctx, "someone-else", 0)
		require.NoError(t, err)
		assert.Empty(t, other)
	})
}
