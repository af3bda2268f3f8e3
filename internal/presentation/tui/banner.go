package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"
)

// PrintBanner outputs the MoonRobot ASCII banner and version to w.
func PrintBanner(w io.Writer, version string) {
	p := termenv.ColorProfile()
	// Grey-to-white moon palette.
	lines := []struct {
		text  string
		color string
	}{
		{"  __  __                   ____       _           _   ", "#64748b"},
		{" |  \\/  | ___   ___  _ __ |  _ \\ ___ | |__   ___ | |_ ", "#94a3b8"},
		{" | |\\/| |/ _ \\ / _ \\| '_ \\| |_) / _ \\| '_ \\ / _ \\| __|", "#cbd5e1"},
		{" | |  | | (_) | (_) | | | |  _ < (_) | |_) | (_) | |_ ", "#e2e8f0"},
		{" |_|  |_|\\___/ \\___/|_| |_|_| \\_\\___/|_.__/ \\___/ \\__|", "#f8fafc"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	if v := strings.TrimSpace(version); v != "" {
		fmt.Fprintln(w, termenv.String("  v"+v).Faint())
	}
	fmt.Fprintln(w)
}

// Status renders a short coloured status word, e.g. "STOPPED" in red.
func Status(ok bool, text string) string {
	p := termenv.ColorProfile()
	color := "#22c55e"
	if !ok {
		color = "#ef4444"
	}
	return termenv.String(text).Foreground(p.Color(color)).Bold().String()
}
