package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/moonbase/moonrobot/internal/cli"
	"github.com/moonbase/moonrobot/internal/config"
	"github.com/moonbase/moonrobot/internal/presentation/tui"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var rootCmd = &cobra.Command{
	Use:   "moonrobot",
	Short: "MoonRobot drives a rover across an unbounded lunar grid",
	Long: `MoonRobot executes F/B/L/R command batches against a persisted robot,
stopping short of known obstacles. It runs as an HTTP API, an MCP server,
an interactive REPL or as one-shot commands.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to a YAML config file (default $"+config.ConfigEnv+")")
	rootCmd.PersistentFlags().String("log-level", "", "Override the log level (debug, info, warn, error)")
}

// loadSettings reads config from the --config file and the environment.
func loadSettings(cmd *cobra.Command) (*config.Settings, error) {
	path, _ := cmd.Flags().GetString("config")
	return config.Load(path, os.Environ())
}

// bootstrap wires the application for a command. The caller must Close the app.
func bootstrap(ctx context.Context, cmd *cobra.Command) (*cli.App, error) {
	settings, err := loadSettings(cmd)
	if err != nil {
		return nil, err
	}
	level, _ := cmd.Flags().GetString("log-level")
	logger, err := cli.NewLogger(settings, level)
	if err != nil {
		return nil, err
	}
	return cli.Bootstrap(ctx, settings, logger)
}

// rendererFor styles markdown only when w is a terminal.
func rendererFor(w io.Writer) tui.Renderer {
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return tui.NewRenderer()
	}
	return tui.PlainRenderer
}

func printMarkdown(w io.Writer, md string) error {
	out, err := rendererFor(w)(md)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(w, out)
	return err
}
