package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/moonbase/moonrobot"
	"github.com/moonbase/moonrobot/internal/cli"
	"github.com/moonbase/moonrobot/internal/presentation/tui"
	httpadapter "github.com/moonbase/moonrobot/pkg/adapters/http"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long:  `Exposes the robot over a JSON API under /api/v1, with OpenAPI docs at /swagger.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		app, err := bootstrap(ctx, cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		if cmd.Flags().Changed("port") {
			app.Settings.APIPort, _ = cmd.Flags().GetInt("port")
		}
		withMetrics, _ := cmd.Flags().GetBool("metrics")

		opts := []httpadapter.HandlerOption{
			httpadapter.WithLogger(app.Logger),
			httpadapter.WithCORS(app.Settings.Debug),
			httpadapter.WithMaxCommandLength(app.Settings.MaxCommandLength),
		}
		if withMetrics {
			opts = append(opts, httpadapter.WithMetrics(app.Registry))
		}

		srv := &http.Server{
			Addr:              app.Settings.Addr(),
			Handler:           httpadapter.NewHandler(app.Controller, opts...),
			ReadHeaderTimeout: 10 * time.Second,
		}

		serverErrors := make(chan error, 1)
		go func() {
			tui.PrintBanner(cmd.ErrOrStderr(), moonrobot.Version)
			app.Logger.Info("Starting MoonRobot server",
				"addr", srv.Addr,
				"store", app.Settings.Store.Driver,
				"robot", app.Controller.RobotID(),
			)
			serverErrors <- srv.ListenAndServe()
		}()

		select {
		case err := <-serverErrors:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("server error: %w", err)

		case <-ctx.Done():
			app.Logger.Info("Start shutdown", "signal", ctx.Signal())

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				app.Logger.Error("Graceful shutdown did not complete", "timeout", shutdownTimeout, "err", err)
				if err := srv.Close(); err != nil {
					return fmt.Errorf("error killing server: %w", err)
				}
			}
			app.Logger.Info("MoonRobot server stopped gracefully")
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntP("port", "p", 8000, "Port to listen on (overrides api_port)")
	serveCmd.Flags().Bool("metrics", true, "Expose Prometheus metrics at /metrics")
}
