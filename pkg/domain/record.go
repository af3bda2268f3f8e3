package domain

import "time"

// Result is the outcome of interpreting one batch.
type Result struct {
	State    RobotState `json:"state"`
	Stopped  bool       `json:"stopped"`
	Obstacle *Position  `json:"obstacle,omitempty"`
	// Consumed counts the commands applied before the scan ended.
	Consumed int `json:"consumed"`
}

// CommandExecutionRecord is the audit entry of one executed batch.
// It is written once and never modified.
type CommandExecutionRecord struct {
	ID         string     `json:"id"`
	RobotID    string     `json:"robot_id"`
	Commands   string     `json:"commands"`
	Initial    RobotState `json:"initial"`
	Final      RobotState `json:"final"`
	Stopped    bool       `json:"stopped"`
	Obstacle   *Position  `json:"obstacle,omitempty"`
	Consumed   int        `json:"consumed"`
	ExecutedAt time.Time  `json:"executed_at"`
}

// NewRecord builds the audit entry for a finished batch.
func NewRecord(id, robotID, commands string, initial RobotState, res Result, at time.Time) *CommandExecutionRecord {
	rec := &CommandExecutionRecord{
		ID:         id,
		RobotID:    robotID,
		Commands:   commands,
		Initial:    initial,
		Final:      res.State,
		Stopped:    res.Stopped,
		Consumed:   res.Consumed,
		ExecutedAt: at,
	}
	if res.Obstacle != nil {
		o := *res.Obstacle
		rec.Obstacle = &o
	}
	return rec
}

// Result rebuilds the interpreter outcome stored in the record.
func (r *CommandExecutionRecord) Result() Result {
	res := Result{State: r.Final, Stopped: r.Stopped, Consumed: r.Consumed}
	if r.Obstacle != nil {
		o := *r.Obstacle
		res.Obstacle = &o
	}
	return res
}
