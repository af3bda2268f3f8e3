package domain

import (
	"fmt"
	"strings"
)

// Direction is the compass heading the robot faces.
type Direction string

const (
	North Direction = "NORTH"
	South Direction = "SOUTH"
	East  Direction = "EAST"
	West  Direction = "WEST"
)

// Directions lists every heading in clockwise order starting at North.
var Directions = []Direction{North, East, South, West}

// ParseDirection converts a case-insensitive heading name into a Direction.
func ParseDirection(s string) (Direction, error) {
	d := Direction(strings.ToUpper(strings.TrimSpace(s)))
	if !d.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidDirection, s)
	}
	return d, nil
}

// Valid reports whether d is one of the four headings.
func (d Direction) Valid() bool {
	switch d {
	case North, South, East, West:
		return true
	}
	return false
}

// TurnLeft rotates the heading 90 degrees counter-clockwise.
func (d Direction) TurnLeft() Direction {
	switch d {
	case North:
		return West
	case West:
		return South
	case South:
		return East
	case East:
		return North
	}
	panic(fmt.Sprintf("domain: invalid direction %q", string(d)))
}

// TurnRight rotates the heading 90 degrees clockwise.
func (d Direction) TurnRight() Direction {
	switch d {
	case North:
		return East
	case East:
		return South
	case South:
		return West
	case West:
		return North
	}
	panic(fmt.Sprintf("domain: invalid direction %q", string(d)))
}

// Delta returns the unit vector of one forward step while facing d.
// A backward step is its negation.
func (d Direction) Delta() Position {
	switch d {
	case North:
		return Position{X: 0, Y: 1}
	case South:
		return Position{X: 0, Y: -1}
	case East:
		return Position{X: 1, Y: 0}
	case West:
		return Position{X: -1, Y: 0}
	}
	panic(fmt.Sprintf("domain: invalid direction %q", string(d)))
}

func (d Direction) String() string {
	return string(d)
}

// MarshalText implements encoding.TextMarshaler.
func (d Direction) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDirection, string(d))
	}
	return []byte(d), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Direction) UnmarshalText(text []byte) error {
	parsed, err := ParseDirection(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
