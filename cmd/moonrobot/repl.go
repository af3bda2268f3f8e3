package main

import (
	"os"

	"github.com/moonbase/moonrobot"
	"github.com/moonbase/moonrobot/internal/cli"
	"github.com/moonbase/moonrobot/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Drive the robot interactively",
	Long:  `Reads command batches line by line. Type .help for the dot-commands.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		app, err := bootstrap(ctx, cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		editor := cli.NewLineEditor()
		defer editor.Close()

		out := cmd.OutOrStdout()
		if editor.Interactive() {
			tui.PrintBanner(out, moonrobot.Version)
			cli.PrintSystemMessage(out, "Robot %q ready. Type .help for commands.", app.Controller.RobotID())
		}

		repl := &cli.REPL{
			Controller: app.Controller,
			Editor:     editor,
			Out:        out,
			Render:     rendererFor(os.Stdout),
		}
		return cli.HandleExecutionError(repl.Run(ctx))
	},
}

func init() {
	rootCmd.AddCommand(replCmd)
}
