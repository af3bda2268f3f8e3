package domain_test

import (
	"testing"

	"github.com/moonbase/moonrobot/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestObstacleSet(t *testing.T) {
	s := domain.NewObstacleSet(
		domain.Position{X: 3, Y: 5},
		domain.Position{X: 1, Y: 4},
		domain.Position{X: 3, Y: 5},
	)
	assert.Equal(t, 2, s.Len(), "duplicates collapse")
	assert.True(t, s.Contains(domain.Position{X: 1, Y: 4}))
	assert.False(t, s.Contains(domain.Position{X: 4, Y: 1}))

	assert.True(t, s.Add(domain.Position{X: -2, Y: 0}))
	assert.False(t, s.Add(domain.Position{X: -2, Y: 0}))

	assert.Equal(t, []domain.Position{{X: -2, Y: 0}, {X: 1, Y: 4}, {X: 3, Y: 5}}, s.Sorted())
}

func TestObstacleSet_UnionAndMissing(t *testing.T) {
	configured := domain.NewObstacleSet(domain.Position{X: 1, Y: 4}, domain.Position{X: 7, Y: 4})
	persisted := domain.NewObstacleSet(domain.Position{X: 7, Y: 4}, domain.Position{X: 0, Y: 0})

	assert.Equal(t, []domain.Position{{X: 1, Y: 4}}, configured.Missing(persisted))
	assert.Equal(t, 3, configured.Union(persisted).Len())
	assert.Equal(t, 2, configured.Len(), "union does not mutate the receiver")
}

func TestObstacleSet_NilIsEmpty(t *testing.T) {
	var s domain.ObstacleSet
	assert.False(t, s.Contains(domain.Position{}))
	assert.Empty(t, s.Sorted())
}
