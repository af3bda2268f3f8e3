package file_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/moonbase/moonrobot/pkg/adapters/file"
	"github.com/moonbase/moonrobot/pkg/domain"
	"github.com/moonbase/moonrobot/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Ensure Store implements ports.Store
var (
	_ ports.Store  = (*file.Store)(nil)
	_ ports.Pinger = (*file.Store)(nil)
)

func TestFileStore_Contract(t *testing.T) {
	ports.RunStoreContract(t, func(t *testing.T) ports.Store {
		return file.New(t.TempDir())
	})
}

func TestFileStore_PersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	first := file.New(dir)
	robot := domain.NewRobot("", domain.DefaultStartState(), now)
	require.NoError(t, first.SaveRobot(ctx, robot))
	_, err := first.AddObstacles(ctx, []domain.Position{{X: 1, Y: 4}})
	require.NoError(t, err)

	second := file.New(dir)
	loaded, err := second.LoadRobot(ctx, domain.DefaultRobotID)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultStartState(), loaded.State)

	obstacles, err := second.Obstacles(ctx)
	require.NoError(t, err)
	assert.True(t, obstacles.Contains(domain.Position{X: 1, Y: 4}))
}

func TestFileStore_ReaderNeverSeesMissingDocument(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	writer := file.New(dir)
	reader := file.New(dir)
	robot := domain.NewRobot("", domain.DefaultStartState(), now)
	require.NoError(t, writer.SaveRobot(ctx, robot))

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 300; i++ {
			next := robot.Snapshot()
			next.State.Position.Y = i
			rec := domain.NewRecord(fmt.Sprintf("rec-%d", i), next.ID, "F", robot.State, domain.Result{State: next.State, Consumed: 1}, now)
			if err := writer.CommitBatch(ctx, next, rec); err != nil {
				t.Errorf("commit %d: %v", i, err)
				return
			}
		}
	}()

	missing := 0
	for running := true; running; {
		select {
		case <-done:
			running = false
		default:
		}
		if _, err := reader.LoadRobot(ctx, domain.DefaultRobotID); err != nil {
			require.ErrorIs(t, err, domain.ErrRobotNotFound)
			missing++
		}
	}
	assert.Zero(t, missing, "existing robot observed as not found during writes")

	history, err := reader.History(ctx, domain.DefaultRobotID, 0)
	require.NoError(t, err)
	assert.Len(t, history, 300)
}

func TestFileStore_NoTempFilesLeft(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	store := file.New(dir)

	robot := domain.NewRobot("r", domain.DefaultStartState(), time.Now())
	require.NoError(t, store.SaveRobot(ctx, robot))
	require.NoError(t, store.SaveRobot(ctx, robot))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, file.DefaultFileName, entries[0].Name())
}

func TestFileStore_CorruptDocument(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, file.DefaultFileName), []byte("{not json"), 0644))

	_, err := file.New(dir).LoadRobot(context.Background(), "r")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrRobotNotFound)
}
