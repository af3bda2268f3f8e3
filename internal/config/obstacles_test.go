package config_test

import (
	"testing"

	"github.com/moonbase/moonrobot/internal/config"
	"github.com/moonbase/moonrobot/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseObstacles(t *testing.T) {
	tests := []struct {
		in   string
		want []domain.Position
	}{
		{"", []domain.Position{}},
		{"   ", []domain.Position{}},
		{"1,4;3,5;7,4", []domain.Position{{X: 1, Y: 4}, {X: 3, Y: 5}, {X: 7, Y: 4}}},
		{" 1, 4 ; 3,5 ", []domain.Position{{X: 1, Y: 4}, {X: 3, Y: 5}}},
		{"1,4;;3,5;", []domain.Position{{X: 1, Y: 4}, {X: 3, Y: 5}}},
		{"-2,-7", []domain.Position{{X: -2, Y: -7}}},
		{"1,4;1,4", []domain.Position{{X: 1, Y: 4}}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			set, err := config.ParseObstacles(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, set.Sorted())
		})
	}
}

func TestParseObstacles_Invalid(t *testing.T) {
	for _, in := range []string{"1", "1,", "a,b", "1,2,3", "1.5,2", "1,2 3,4"} {
		t.Run(in, func(t *testing.T) {
			_, err := config.ParseObstacles(in)
			assert.ErrorIs(t, err, domain.ErrInvalidObstacle)
		})
	}
}

func TestFormatObstacles(t *testing.T) {
	set := domain.NewObstacleSet(domain.Position{X: 7, Y: 4}, domain.Position{X: -1, Y: 0})
	assert.Equal(t, "-1,0;7,4", config.FormatObstacles(set))
}
