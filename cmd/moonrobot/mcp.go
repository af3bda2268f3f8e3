package main

import (
	"fmt"
	"log"
	"os"

	"github.com/moonbase/moonrobot/internal/cli"
	"github.com/moonbase/moonrobot/pkg/adapters/mcp"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Exposes the robot as MCP tools so AI agents can drive it.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		transport, _ := cmd.Flags().GetString("transport")
		port, _ := cmd.Flags().GetInt("port")

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		app, err := bootstrap(ctx, cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		srv := mcp.NewServer(app.Controller,
			mcp.WithLogger(app.Logger),
			mcp.WithMaxCommandLength(app.Settings.MaxCommandLength),
		)

		switch transport {
		case "stdio":
			// Keep stdout clean for JSON-RPC.
			log.SetOutput(os.Stderr)
			app.Logger.Info("Starting MoonRobot MCP Server (Stdio)")
			return srv.ServeStdio()
		case "sse":
			app.Logger.Info("Starting MoonRobot MCP Server (SSE)", "port", port)
			if err := srv.ServeSSE(ctx, port); err != nil {
				return err
			}
			app.Logger.Info("MCP Server stopped gracefully")
			return nil
		default:
			return fmt.Errorf("unknown transport: %s. Supported: stdio, sse", transport)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().String("transport", "stdio", "Transport protocol to use: 'stdio' or 'sse'")
	mcpCmd.Flags().Int("port", 8080, "Port to listen on (only for SSE)")
}
