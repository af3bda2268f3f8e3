package domain

import "sort"

// ObstacleSet is a set of blocked grid cells.
// A nil ObstacleSet is empty and safe for lookups.
type ObstacleSet map[Position]struct{}

// NewObstacleSet builds a set from the given positions, dropping duplicates.
func NewObstacleSet(positions ...Position) ObstacleSet {
	s := make(ObstacleSet, len(positions))
	for _, p := range positions {
		s[p] = struct{}{}
	}
	return s
}

// Contains reports whether p is blocked.
func (s ObstacleSet) Contains(p Position) bool {
	_, ok := s[p]
	return ok
}

// Add inserts p and reports whether it was not already present.
func (s ObstacleSet) Add(p Position) bool {
	if _, ok := s[p]; ok {
		return false
	}
	s[p] = struct{}{}
	return true
}

// Len returns the number of obstacles.
func (s ObstacleSet) Len() int {
	return len(s)
}

// Union returns a new set holding the members of both sets.
func (s ObstacleSet) Union(other ObstacleSet) ObstacleSet {
	out := make(ObstacleSet, len(s)+len(other))
	for p := range s {
		out[p] = struct{}{}
	}
	for p := range other {
		out[p] = struct{}{}
	}
	return out
}

// Missing returns the members of s that are not in other, sorted.
func (s ObstacleSet) Missing(other ObstacleSet) []Position {
	var out []Position
	for p := range s {
		if !other.Contains(p) {
			out = append(out, p)
		}
	}
	sortPositions(out)
	return out
}

// Sorted returns the members ordered by x, then y.
func (s ObstacleSet) Sorted() []Position {
	out := make([]Position, 0, len(s))
	for p := range s {
		out = append(out, p)
	}
	sortPositions(out)
	return out
}

func sortPositions(ps []Position) {
	sort.Slice(ps, func(i, j int) bool {
		if ps[i].X != ps[j].X {
			return ps[i].X < ps[j].X
		}
		return ps[i].Y < ps[j].Y
	})
}
