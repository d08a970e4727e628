package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"elderease/config"
	"elderease/log"
)

var (
	debug bool
)

var rootCmd = &cobra.Command{
	Use:   "elderease",
	Short: "ElderEase memory backend",
	Long: `ElderEase remembers where things are. Tell it "my keys are on the table"
and ask it later where your keys are.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// Global flags available to all subcommands
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug logging")
}

func setupLogger(ctx context.Context, cfg *config.Config) (context.Context, func()) {
	return log.NewContextWithLogger(ctx, debug || cfg.Debug, cfg.LogJSON)
}
