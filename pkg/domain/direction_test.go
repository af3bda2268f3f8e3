package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/moonbase/moonrobot/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirection_TurnsAreInverse(t *testing.T) {
	for _, d := range domain.Directions {
		assert.Equal(t, d, d.TurnLeft().TurnRight(), "left then right from %s", d)
		assert.Equal(t, d, d.TurnRight().TurnLeft(), "right then left from %s", d)
	}
}

func TestDirection_FourTurnsIsIdentity(t *testing.T) {
	for _, d := range domain.Directions {
		assert.Equal(t, d, d.TurnLeft().TurnLeft().TurnLeft().TurnLeft())
		assert.Equal(t, d, d.TurnRight().TurnRight().TurnRight().TurnRight())
	}
}

func TestDirection_TurnTables(t *testing.T) {
	assert.Equal(t, domain.West, domain.North.TurnLeft())
	assert.Equal(t, domain.South, domain.West.TurnLeft())
	assert.Equal(t, domain.East, domain.South.TurnLeft())
	assert.Equal(t, domain.North, domain.East.TurnLeft())

	assert.Equal(t, domain.East, domain.North.TurnRight())
	assert.Equal(t, domain.South, domain.East.TurnRight())
	assert.Equal(t, domain.West, domain.South.TurnRight())
	assert.Equal(t, domain.North, domain.West.TurnRight())
}

func TestDirection_Delta(t *testing.T) {
	assert.Equal(t, domain.Position{X: 0, Y: 1}, domain.North.Delta())
	assert.Equal(t, domain.Position{X: 0, Y: -1}, domain.South.Delta())
	assert.Equal(t, domain.Position{X: 1, Y: 0}, domain.East.Delta())
	assert.Equal(t, domain.Position{X: -1, Y: 0}, domain.West.Delta())

	origin := domain.Position{X: 7, Y: -3}
	for _, d := range domain.Directions {
		assert.Equal(t, origin, origin.Add(d.Delta()).Sub(d.Delta()), "forward then backward facing %s", d)
	}
}

func TestParseDirection(t *testing.T) {
	d, err := domain.ParseDirection(" west ")
	require.NoError(t, err)
	assert.Equal(t, domain.West, d)

	_, err = domain.ParseDirection("UP")
	assert.ErrorIs(t, err, domain.ErrInvalidDirection)
}

func TestDirection_JSON(t *testing.T) {
	data, err := json.Marshal(domain.NewRobotState(1, 2, domain.South))
	require.NoError(t, err)
	assert.JSONEq(t, `{"position":{"x":1,"y":2},"direction":"SOUTH"}`, string(data))

	var st domain.RobotState
	require.NoError(t, json.Unmarshal([]byte(`{"position":{"x":0,"y":0},"direction":"east"}`), &st))
	assert.Equal(t, domain.East, st.Direction)

	err = json.Unmarshal([]byte(`{"direction":"SIDEWAYS"}`), &st)
	assert.ErrorIs(t, err, domain.ErrInvalidDirection)
}
