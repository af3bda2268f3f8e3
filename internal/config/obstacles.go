package config

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/moonbase/moonrobot/pkg/domain"
)

// obstacleList is the grammar of the obstacle setting: "x,y;x,y".
// Empty entries between separators are allowed.
type obstacleList struct {
	Entries []*obstacleEntry `parser:"@@? ( ';' @@? )*"`
}

type obstacleEntry struct {
	X *coordinate `parser:"@@ ','"`
	Y *coordinate `parser:"@@"`
}

type coordinate struct {
	Negative bool `parser:"@'-'?"`
	Value    int  `parser:"@Int"`
}

func (c *coordinate) signed() int {
	if c.Negative {
		return -c.Value
	}
	return c.Value
}

var obstacleParser = participle.MustBuild[obstacleList]()

// ParseObstacles parses a "x,y;x,y" list into a set. Duplicates collapse.
func ParseObstacles(s string) (domain.ObstacleSet, error) {
	set := domain.NewObstacleSet()
	if strings.TrimSpace(s) == "" {
		return set, nil
	}

	list, err := obstacleParser.ParseString("obstacles", s)
	if err != nil {
		return nil, fmt.Errorf("%w: expected 'x,y;x,y' format: %v", domain.ErrInvalidObstacle, err)
	}
	for _, e := range list.Entries {
		set.Add(domain.Position{X: e.X.signed(), Y: e.Y.signed()})
	}
	return set, nil
}

// FormatObstacles renders a set in the same "x,y;x,y" form, sorted.
func FormatObstacles(set domain.ObstacleSet) string {
	parts := make([]string, 0, set.Len())
	for _, p := range set.Sorted() {
		parts = append(parts, fmt.Sprintf("%d,%d", p.X, p.Y))
	}
	return strings.Join(parts, ";")
}
