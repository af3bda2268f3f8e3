package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/moonbase/moonrobot"
	"github.com/moonbase/moonrobot/internal/presentation/tui"
	"github.com/moonbase/moonrobot/pkg/adapters/memory"
	"github.com/moonbase/moonrobot/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestREPL(t *testing.T, input string) (*REPL, *bytes.Buffer) {
	t.Helper()
	ctrl, err := moonrobot.New(memory.NewStore())
	require.NoError(t, err)
	_, err = ctrl.SeedObstacles(context.Background(), domain.NewObstacleSet(domain.Position{X: 1, Y: 4}))
	require.NoError(t, err)

	var out bytes.Buffer
	return &REPL{
		Controller: ctrl,
		Editor:     NewScannerEditor(strings.NewReader(input), &out),
		Out:        &out,
		Render:     tui.PlainRenderer,
	}, &out
}

func TestREPL_ExecutesBatches(t *testing.T) {
	repl, out := newTestREPL(t, "FLFFFRFLB\n.position\n")
	require.NoError(t, repl.Run(context.Background()))

	state, err := repl.Controller.Position(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.NewRobotState(2, 0, domain.South), state)
	assert.Contains(t, out.String(), replPrompt)
	assert.Contains(t, out.String(), "FLFFFRFLB")
	assert.Contains(t, out.String(), "SOUTH")
}

func TestREPL_ReportsCollision(t *testing.T) {
	repl, out := newTestREPL(t, "RFFLFFFFF\n.quit\nF\n")
	require.NoError(t, repl.Run(context.Background()))

	assert.Contains(t, out.String(), "stopped")
	assert.Contains(t, out.String(), "(1, 4)")
	assert.Contains(t, out.String(), "Bye.")

	records, err := repl.Controller.History(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, records, 1, "lines after .quit are not read")
}

func TestREPL_ErrorsDoNotStopTheLoop(t *testing.T) {
	repl, out := newTestREPL(t, "FXF\n.bogus\n.history abc\nF\n.history 1\n.obstacles\n.help\n")
	require.NoError(t, repl.Run(context.Background()))

	text := out.String()
	assert.Contains(t, text, "invalid command character")
	assert.Contains(t, text, "unknown command .bogus")
	assert.Contains(t, text, `invalid history limit "abc"`)
	assert.Contains(t, text, "Obstacles (1)")
	assert.Contains(t, text, ".position")

	state, err := repl.Controller.Position(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.NewRobotState(3, 2, domain.West), state)
}

func TestREPL_StopsOnCancelledContext(t *testing.T) {
	repl, _ := newTestREPL(t, "F\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := repl.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, HandleExecutionError(err))
}

func TestREPL_SanitizesInput(t *testing.T) {
	repl, out := newTestREPL(t, "F\x00F\r\nF\xff\n")
	require.NoError(t, repl.Run(context.Background()))

	assert.Contains(t, out.String(), "invalid UTF-8")
	state, err := repl.Controller.Position(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.NewRobotState(2, 2, domain.West), state)
}
