package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/moonbase/moonrobot/pkg/domain"
)

// DefaultFileName is the snapshot document written under the base path.
const DefaultFileName = "moonrobot.json"

// snapshot is the on-disk document.
// History is stored oldest first; reads reverse it.
type snapshot struct {
	Robots    map[string]*domain.Robot                   `json:"robots"`
	Obstacles []domain.Position                          `json:"obstacles"`
	History   map[string][]domain.CommandExecutionRecord `json:"history"`
}

// Store implements ports.Store using the local filesystem.
// The whole state lives in one JSON document that is rewritten on every mutation.
type Store struct {
	BasePath string

	mu sync.Mutex
}

// New creates a new Store with the given base path.
// If basePath is empty, it defaults to ".moonrobot".
func New(basePath string) *Store {
	if basePath == "" {
		basePath = ".moonrobot"
	}
	return &Store{BasePath: basePath}
}

// Path returns the location of the snapshot document.
func (s *Store) Path() string {
	return filepath.Join(s.BasePath, DefaultFileName)
}

// LoadRobot retrieves the robot from the snapshot.
func (s *Store) LoadRobot(ctx context.Context, robotID string) (*domain.Robot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.read()
	if err != nil {
		return nil, err
	}
	robot, ok := snap.Robots[robotID]
	if !ok {
		return nil, domain.ErrRobotNotFound
	}
	return robot, nil
}

// SaveRobot persists the robot.
func (s *Store) SaveRobot(ctx context.Context, robot *domain.Robot) error {
	if robot.ID == "" {
		return fmt.Errorf("robot ID cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.read()
	if err != nil {
		return err
	}
	snap.Robots[robot.ID] = robot.Snapshot()
	return s.write(snap)
}

// Obstacles returns the stored obstacle set.
func (s *Store) Obstacles(ctx context.Context) (domain.ObstacleSet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.read()
	if err != nil {
		return nil, err
	}
	return domain.NewObstacleSet(snap.Obstacles...), nil
}

// AddObstacles inserts the positions not stored yet.
// The document is only rewritten when something was added.
func (s *Store) AddObstacles(ctx context.Context, positions []domain.Position) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.read()
	if err != nil {
		return 0, err
	}
	set := domain.NewObstacleSet(snap.Obstacles...)
	added := 0
	for _, p := range positions {
		if set.Add(p) {
			added++
		}
	}
	if added == 0 {
		return 0, nil
	}
	snap.Obstacles = set.Sorted()
	if err := s.write(snap); err != nil {
		return 0, err
	}
	return added, nil
}

// CommitBatch applies the robot state and appends the record in a single document rewrite.
func (s *Store) CommitBatch(ctx context.Context, robot *domain.Robot, record *domain.CommandExecutionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.read()
	if err != nil {
		return err
	}
	snap.Robots[robot.ID] = robot.Snapshot()
	snap.History[record.RobotID] = append(snap.History[record.RobotID], *record)
	return s.write(snap)
}

// History returns the records of robotID, newest first.
func (s *Store) History(ctx context.Context, robotID string, limit int) ([]domain.CommandExecutionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.read()
	if err != nil {
		return nil, err
	}
	records := snap.History[robotID]
	n := len(records)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]domain.CommandExecutionRecord, 0, n)
	for i := len(records) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, records[i])
	}
	return out, nil
}

// Ping checks that the base path is usable.
func (s *Store) Ping(ctx context.Context) error {
	if err := os.MkdirAll(s.BasePath, 0755); err != nil {
		return fmt.Errorf("store directory unavailable: %w", err)
	}
	return nil
}

func (s *Store) read() (*snapshot, error) {
	snap := &snapshot{
		Robots:  make(map[string]*domain.Robot),
		History: make(map[string][]domain.CommandExecutionRecord),
	}

	data, err := os.ReadFile(s.Path())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return snap, nil
		}
		return nil, fmt.Errorf("failed to read store file: %w", err)
	}
	if err := json.Unmarshal(data, snap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal store file: %w", err)
	}
	if snap.Robots == nil {
		snap.Robots = make(map[string]*domain.Robot)
	}
	if snap.History == nil {
		snap.History = make(map[string][]domain.CommandExecutionRecord)
	}
	return snap, nil
}

// write persists the snapshot atomically.
// It writes to a temporary file first, syncs via fsync, and then renames it to the destination.
func (s *Store) write(snap *snapshot) error {
	if err := os.MkdirAll(s.BasePath, 0755); err != nil {
		return fmt.Errorf("failed to ensure store directory: %w", err)
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal store file: %w", err)
	}

	// Same directory, so the rename stays on one filesystem.
	tmpFile, err := os.CreateTemp(s.BasePath, "tmp-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath) // no-op once renamed
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to fsync temp file: %w", err)
	}
	// Cannot rename an open file on Windows.
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	// Rename replaces the destination in one step, so readers never see it missing.
	if err := os.Rename(tmpPath, s.Path()); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}
