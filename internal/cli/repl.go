package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/moonbase/moonrobot"
	"github.com/moonbase/moonrobot/internal/presentation/tui"
)

const (
	replPrompt          = "moonrobot> "
	defaultHistoryLimit = 10
)

const replHelp = `## Commands

- any run of **F B L R** executes a batch
- ` + "`.position`" + ` shows the current pose
- ` + "`.history [n]`" + ` lists the latest batches
- ` + "`.obstacles`" + ` lists known obstacles
- ` + "`.help`" + ` shows this text
- ` + "`.quit`" + ` leaves the session
`

// REPL drives a controller from line input.
type REPL struct {
	Controller *moonrobot.Controller
	Editor     *LineEditor
	Out        io.Writer
	Render     tui.Renderer
}

// Run reads lines until EOF, .quit or context cancellation.
// Batch errors are reported and the loop continues.
func (r *REPL) Run(ctx context.Context) error {
	render := r.Render
	if render == nil {
		render = tui.PlainRenderer
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		line, err := r.Editor.GetLine(replPrompt)
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		line, err = SanitizeLine(line, 0)
		if err != nil {
			fmt.Fprintln(r.Out, tui.Status(false, err.Error()))
			continue
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		md, quit, err := r.dispatch(ctx, line)
		if quit {
			PrintSystemMessage(r.Out, "Bye.")
			return nil
		}
		if err != nil {
			fmt.Fprintln(r.Out, tui.Status(false, err.Error()))
			continue
		}
		out, err := render(md)
		if err != nil {
			out = md
		}
		fmt.Fprint(r.Out, out)
	}
}

func (r *REPL) dispatch(ctx context.Context, line string) (string, bool, error) {
	if !strings.HasPrefix(line, ".") {
		rec, err := r.Controller.Execute(ctx, line)
		if err != nil {
			return "", false, err
		}
		return tui.ResultReport(rec), false, nil
	}

	fields := strings.Fields(line)
	switch fields[0] {
	case ".quit", ".exit":
		return "", true, nil
	case ".help":
		return replHelp, false, nil
	case ".position":
		state, err := r.Controller.Position(ctx)
		if err != nil {
			return "", false, err
		}
		return tui.PositionReport(state), false, nil
	case ".history":
		limit := defaultHistoryLimit
		if len(fields) > 1 {
			n, err := strconv.Atoi(fields[1])
			if err != nil || n < 0 {
				return "", false, fmt.Errorf("invalid history limit %q", fields[1])
			}
			limit = n
		}
		records, err := r.Controller.History(ctx, limit)
		if err != nil {
			return "", false, err
		}
		return tui.HistoryReport(records), false, nil
	case ".obstacles":
		set, err := r.Controller.Obstacles(ctx)
		if err != nil {
			return "", false, err
		}
		return tui.ObstaclesReport(set), false, nil
	default:
		return "", false, fmt.Errorf("unknown command %s (try .help)", fields[0])
	}
}
