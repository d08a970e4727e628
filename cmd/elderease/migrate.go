package main

import (
	"github.com/spf13/cobra"

	"elderease/config"
	"elderease/log"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or upgrade the store schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		ctx, flushLog := setupLogger(cmd.Context(), cfg)
		defer flushLog()

		mgr, closeStore, err := initStorage(ctx, cfg)
		if err != nil {
			return err
		}
		defer func() { _ = closeStore() }()

		log.FromCtx(ctx).Info().Str("dialect", mgr.Dialect()).Msg("store migrated")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
