package main

import (
	"github.com/moonbase/moonrobot/internal/cli"
	"github.com/moonbase/moonrobot/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var positionCmd = &cobra.Command{
	Use:   "position",
	Short: "Print the current robot pose",
	Long: `Prints the pose stored by the configured store. With the default memory store
this is always the configured start pose; use the file or redis driver to read
the pose left by earlier runs.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := bootstrap(cmd.Context(), cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		state, err := app.Controller.Position(cmd.Context())
		if err != nil {
			return err
		}
		return printMarkdown(cmd.OutOrStdout(), tui.PositionReport(state))
	},
}

var execCmd = &cobra.Command{
	Use:   "exec <commands>",
	Short: "Execute one command batch, e.g. FLFFFRFLB",
	Long: `Executes one command batch against the configured store and prints the outcome.

With the default memory store the batch is lost when the command exits. Select the
file or redis driver (store.driver, or MOONROBOT_STORE_DRIVER) to keep the robot,
its obstacles and its history between runs.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		app, err := bootstrap(ctx, cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		if warning := cli.EphemeralWarning(app.Settings); warning != "" {
			app.Logger.Warn(warning)
		}

		rec, err := app.Controller.Execute(ctx, args[0])
		if err != nil {
			return cli.HandleExecutionError(err)
		}
		return printMarkdown(cmd.OutOrStdout(), tui.ResultReport(rec))
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List executed batches, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		app, err := bootstrap(cmd.Context(), cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		records, err := app.Controller.History(cmd.Context(), limit)
		if err != nil {
			return err
		}
		return printMarkdown(cmd.OutOrStdout(), tui.HistoryReport(records))
	},
}

var obstaclesCmd = &cobra.Command{
	Use:   "obstacles",
	Short: "List known obstacles",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := bootstrap(cmd.Context(), cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		set, err := app.Controller.Obstacles(cmd.Context())
		if err != nil {
			return err
		}
		return printMarkdown(cmd.OutOrStdout(), tui.ObstaclesReport(set))
	},
}

func init() {
	rootCmd.AddCommand(positionCmd, execCmd, historyCmd, obstaclesCmd)
	historyCmd.Flags().IntP("limit", "n", 10, "Maximum number of batches to list (0 for all)")
}
