package runtime

import (
	"fmt"

	"github.com/moonbase/moonrobot/pkg/domain"
)

// Phase is the state of the command scan.
type Phase int

const (
	// Scanning means commands are still being consumed.
	Scanning Phase = iota
	// Stopped means a translational move hit an obstacle. Terminal.
	Stopped
	// Done means the command string was exhausted. Terminal.
	Done
)

func (p Phase) String() string {
	switch p {
	case Scanning:
		return "scanning"
	case Stopped:
		return "stopped"
	case Done:
		return "done"
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

// Interpreter turns command strings into robot motion.
// The zero value is ready to use.
type Interpreter struct {
	position  domain.Position
	direction domain.Direction
	phase     Phase
	obstacle  *domain.Position
	consumed  int
}

// Execute runs a batch from initial against a fixed obstacle set.
// It is a pure function of its inputs.
//
// The whole string is validated before the first step: an invalid batch yields an
// error and no partial result. A translational move into an obstacle ends the scan
// immediately and the remaining commands are discarded.
func Execute(initial domain.RobotState, obstacles domain.ObstacleSet, commands string) (domain.Result, error) {
	var in Interpreter
	return in.Run(initial, obstacles, commands)
}

// Run executes commands, resetting any previous scan.
func (in *Interpreter) Run(initial domain.RobotState, obstacles domain.ObstacleSet, commands string) (domain.Result, error) {
	if !initial.Direction.Valid() {
		return domain.Result{}, fmt.Errorf("%w: %q", domain.ErrInvalidDirection, string(initial.Direction))
	}
	if err := domain.ValidateCommands(commands, 0); err != nil {
		return domain.Result{}, err
	}

	in.reset(initial)
	for i := 0; i < len(commands) && in.phase == Scanning; i++ {
		in.step(domain.Command(commands[i]), obstacles)
	}
	if in.phase == Scanning {
		in.phase = Done
	}
	return in.result(), nil
}

// Phase returns the phase reached by the last run.
func (in *Interpreter) Phase() Phase {
	return in.phase
}

func (in *Interpreter) reset(initial domain.RobotState) {
	in.position = initial.Position
	in.direction = initial.Direction
	in.phase = Scanning
	in.obstacle = nil
	in.consumed = 0
}

func (in *Interpreter) step(cmd domain.Command, obstacles domain.ObstacleSet) {
	switch cmd {
	case domain.Forward, domain.Backward:
		candidate := in.position.Add(in.direction.Delta())
		if cmd == domain.Backward {
			candidate = in.position.Sub(in.direction.Delta())
		}
		if obstacles.Contains(candidate) {
			in.phase = Stopped
			in.obstacle = &candidate
			return
		}
		in.position = candidate
	case domain.Left:
		in.direction = in.direction.TurnLeft()
	case domain.Right:
		in.direction = in.direction.TurnRight()
	}
	in.consumed++
}

func (in *Interpreter) result() domain.Result {
	res := domain.Result{
		State:    domain.RobotState{Position: in.position, Direction: in.direction},
		Stopped:  in.phase == Stopped,
		Consumed: in.consumed,
	}
	if in.obstacle != nil {
		o := *in.obstacle
		res.Obstacle = &o
	}
	return res
}
