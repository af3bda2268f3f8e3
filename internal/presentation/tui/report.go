package tui

import (
	"fmt"
	"strings"

	"github.com/moonbase/moonrobot/pkg/domain"
)

// PositionReport renders the robot pose as markdown.
func PositionReport(state domain.RobotState) string {
	return fmt.Sprintf("## Robot position\n\n| x | y | heading |\n|---|---|---|\n| %d | %d | %s |\n",
		state.Position.X, state.Position.Y, state.Direction)
}

// ResultReport renders the outcome of one batch.
func ResultReport(rec *domain.CommandExecutionRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## Batch `%s`\n\n", rec.Commands)
	fmt.Fprintf(&b, "- **from** %s facing %s\n", rec.Initial.Position, rec.Initial.Direction)
	fmt.Fprintf(&b, "- **to** %s facing %s\n", rec.Final.Position, rec.Final.Direction)
	fmt.Fprintf(&b, "- **applied** %d of %d commands\n", rec.Consumed, len(rec.Commands))
	if rec.Stopped && rec.Obstacle != nil {
		fmt.Fprintf(&b, "- **stopped** by obstacle at %s\n", *rec.Obstacle)
	}
	return b.String()
}

// HistoryReport renders batch records as a table, in the order given.
func HistoryReport(records []domain.CommandExecutionRecord) string {
	if len(records) == 0 {
		return "## History\n\n_No batches executed yet._\n"
	}

	var b strings.Builder
	b.WriteString("## History\n\n| executed at | commands | from | to | obstacle |\n|---|---|---|---|---|\n")
	for _, r := range records {
		obstacle := "-"
		if r.Obstacle != nil {
			obstacle = r.Obstacle.String()
		}
		fmt.Fprintf(&b, "| %s | `%s` | %s %s | %s %s | %s |\n",
			r.ExecutedAt.Format("2006-01-02 15:04:05"), r.Commands,
			r.Initial.Position, r.Initial.Direction,
			r.Final.Position, r.Final.Direction,
			obstacle)
	}
	return b.String()
}

// ObstaclesReport renders the obstacle set sorted by x then y.
func ObstaclesReport(set domain.ObstacleSet) string {
	if set.Len() == 0 {
		return "## Obstacles\n\n_None._\n"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "## Obstacles (%d)\n\n", set.Len())
	for _, p := range set.Sorted() {
		fmt.Fprintf(&b, "- %s\n", p)
	}
	return b.String()
}
