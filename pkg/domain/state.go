package domain

import "time"

// DefaultRobotID identifies the singleton robot.
const DefaultRobotID = "default"

// RobotState is the pose of the robot: where it stands and where it faces.
type RobotState struct {
	Position  Position  `json:"position" yaml:"position"`
	Direction Direction `json:"direction" yaml:"direction"`
}

// NewRobotState builds a state from raw coordinates.
func NewRobotState(x, y int, d Direction) RobotState {
	return RobotState{Position: Position{X: x, Y: y}, Direction: d}
}

// DefaultStartState is the pose a robot is created with when nothing else is configured.
func DefaultStartState() RobotState {
	return NewRobotState(4, 2, West)
}

// Robot is the persisted envelope around a RobotState.
type Robot struct {
	ID        string     `json:"id"`
	State     RobotState `json:"state"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// NewRobot creates a robot at the given pose.
func NewRobot(id string, state RobotState, now time.Time) *Robot {
	if id == "" {
		id = DefaultRobotID
	}
	return &Robot{
		ID:        id,
		State:     state,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Snapshot returns a copy of the robot.
func (r *Robot) Snapshot() *Robot {
	if r == nil {
		return nil
	}
	cp := *r
	return &cp
}
