package main

import (
	"fmt"
	"strings"

	"github.com/moonbase/moonrobot"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of moonrobot",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "moonrobot version %s\n", strings.TrimSpace(moonrobot.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
