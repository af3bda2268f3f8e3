package domain

import (
	"fmt"
	"unicode/utf8"
)

// Command is a single instruction of a batch.
type Command byte

const (
	Forward  Command = 'F'
	Backward Command = 'B'
	Left     Command = 'L'
	Right    Command = 'R'
)

// DefaultMaxCommandLength bounds the size of a single batch.
const DefaultMaxCommandLength = 4096

// Valid reports whether c belongs to the command alphabet.
func (c Command) Valid() bool {
	switch c {
	case Forward, Backward, Left, Right:
		return true
	}
	return false
}

// Moves reports whether c translates the robot.
func (c Command) Moves() bool {
	return c == Forward || c == Backward
}

// ValidateCommands checks a batch against the F/B/L/R alphabet.
// maxLen <= 0 disables the length check.
func ValidateCommands(commands string, maxLen int) error {
	if commands == "" {
		return ErrEmptyCommands
	}
	if maxLen > 0 && len(commands) > maxLen {
		return fmt.Errorf("%w: length=%d limit=%d", ErrCommandsTooLong, len(commands), maxLen)
	}
	// i is the byte offset of the decoded character.
	for i, r := range commands {
		if r >= utf8.RuneSelf || !Command(r).Valid() {
			return &InvalidCommandError{Index: i, Char: r}
		}
	}
	return nil
}
