package domain

import (
	"errors"
	"fmt"
)

// ErrRobotNotFound is returned when no robot is stored under the requested ID.
var ErrRobotNotFound = errors.New("robot not found")

// ErrEmptyCommands is returned when a batch contains no commands.
var ErrEmptyCommands = errors.New("command string is empty")

// ErrCommandsTooLong is returned when a batch exceeds the configured length limit.
var ErrCommandsTooLong = errors.New("command string exceeds maximum length")

// ErrInvalidCommandCharacter is returned when a batch contains a character outside F, B, L, R.
var ErrInvalidCommandCharacter = errors.New("invalid command character")

// ErrInvalidDirection is returned when a heading name is not NORTH, SOUTH, EAST or WEST.
var ErrInvalidDirection = errors.New("invalid direction")

// ErrInvalidObstacle is returned when an obstacle specification cannot be parsed.
var ErrInvalidObstacle = errors.New("invalid obstacle specification")

// InvalidCommandError reports the first offending character of a batch.
type InvalidCommandError struct {
	Index int
	Char  rune
}

func (e *InvalidCommandError) Error() string {
	return fmt.Sprintf("%v %q at index %d (allowed: F, B, L, R)", ErrInvalidCommandCharacter, e.Char, e.Index)
}

func (e *InvalidCommandError) Unwrap() error {
	return ErrInvalidCommandCharacter
}

// IsValidation reports whether err was caused by a rejected batch rather than an infrastructure failure.
func IsValidation(err error) bool {
	return errors.Is(err, ErrEmptyCommands) ||
		errors.Is(err, ErrCommandsTooLong) ||
		errors.Is(err, ErrInvalidCommandCharacter)
}
