package memory

import (
	"context"
	"sync"

	"github.com/moonbase/moonrobot/pkg/domain"
)

// Store implements ports.Store in memory.
// Safe for concurrent use.
type Store struct {
	robots    map[string]*domain.Robot
	obstacles domain.ObstacleSet
	history   map[string][]domain.CommandExecutionRecord
	mu        sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		robots:    make(map[string]*domain.Robot),
		obstacles: domain.NewObstacleSet(),
		history:   make(map[string][]domain.CommandExecutionRecord),
	}
}

// SaveRobot persists the robot in memory.
func (s *Store) SaveRobot(ctx context.Context, robot *domain.Robot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.robots[robot.ID] = robot.Snapshot()
	return nil
}

// LoadRobot retrieves the robot from memory.
func (s *Store) LoadRobot(ctx context.Context, robotID string) (*domain.Robot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	robot, ok := s.robots[robotID]
	if !ok {
		return nil, domain.ErrRobotNotFound
	}
	// Copy on read so callers can't mutate store state through the pointer.
	return robot.Snapshot(), nil
}

// Obstacles returns a copy of the obstacle set.
func (s *Store) Obstacles(ctx context.Context) (domain.ObstacleSet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.obstacles.Union(nil), nil
}

// AddObstacles inserts the positions not stored yet.
func (s *Store) AddObstacles(ctx context.Context, positions []domain.Position) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	added := 0
	for _, p := range positions {
		if s.obstacles.Add(p) {
			added++
		}
	}
	return added, nil
}

// CommitBatch stores the robot and appends the record under a single write lock.
func (s *Store) CommitBatch(ctx context.Context, robot *domain.Robot, record *domain.CommandExecutionRecord) error {
	rec := *record
	if record.Obstacle != nil {
		o := *record.Obstacle
		rec.Obstacle = &o
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.robots[robot.ID] = robot.Snapshot()
	s.history[rec.RobotID] = append(s.history[rec.RobotID], rec)
	return nil
}

// History returns the records of robotID, newest first.
func (s *Store) History(ctx context.Context, robotID string, limit int) ([]domain.CommandExecutionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := s.history[robotID]
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
