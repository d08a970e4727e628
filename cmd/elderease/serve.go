package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"elderease/config"
	"elderease/log"
	"elderease/srv"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Connects the configured store and parser and serves the HTTP API until
interrupted. A store or parser that cannot be reached is logged and the data
routes answer 500 until the process is restarted with a working setup.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		// logger setup
		var flushLog func()
		ctx, flushLog = setupLogger(ctx, cfg)
		defer flushLog()

		logger := log.FromCtx(ctx)
		logger.Info().Msg("starting elderease")

		services := NewServices(ctx, cfg)

		srv.StartServices(ctx, services)

		// Wait for shutdown signal
		srv.ShutdownServices(ctx, services, cfg.Timeouts.Shutdown)
		logger.Info().Msg("elderease has been shut down gracefully")

		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
