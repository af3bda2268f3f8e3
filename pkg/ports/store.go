package ports

import (
	"context"

	"github.com/moonbase/moonrobot/pkg/domain"
)

// RobotStore persists robot poses.
type RobotStore interface {
	// LoadRobot retrieves the robot stored under robotID.
	// Returns domain.ErrRobotNotFound if it does not exist.
	LoadRobot(ctx context.Context, robotID string) (*domain.Robot, error)

	// SaveRobot creates or replaces the robot.
	SaveRobot(ctx context.Context, robot *domain.Robot) error
}

// ObstacleStore persists the obstacle set.
type ObstacleStore interface {
	// Obstacles returns every stored obstacle.
	Obstacles(ctx context.Context) (domain.ObstacleSet, error)

	// AddObstacles inserts the positions that are not stored yet and returns how many were added.
	AddObstacles(ctx context.Context, positions []domain.Position) (int, error)
}

// HistoryStore persists command execution records.
type HistoryStore interface {
	// History returns the records of robotID, newest first.
	// A limit <= 0 returns every record.
	History(ctx context.Context, robotID string, limit int) ([]domain.CommandExecutionRecord, error)
}

// Store is the persistence collaborator of the controller.
type Store interface {
	RobotStore
	ObstacleStore
	HistoryStore

	// CommitBatch saves the robot's final state and appends the audit record
	// as a single atomic unit of work.
	CommitBatch(ctx context.Context, robot *domain.Robot, record *domain.CommandExecutionRecord) error
}

// Pinger is implemented by stores that can report backend health.
type Pinger interface {
	Ping(ctx context.Context) error
}
