package domain

import "fmt"

// Position is a cell on the unbounded integer grid.
type Position struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

// Add returns p translated by v.
func (p Position) Add(v Position) Position {
	return Position{X: p.X + v.X, Y: p.Y + v.Y}
}

// Sub returns p translated by the negation of v.
func (p Position) Sub(v Position) Position {
	return Position{X: p.X - v.X, Y: p.Y - v.Y}
}

func (p Position) String() string {
	return fmt.Sprintf("(%d, %d)", p.X, p.Y)
}
