package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"elderease/config"
	"elderease/nlp"
)

var extractCmd = &cobra.Command{
	Use:   "extract <sentence...>",
	Short: "Show what would be remembered from a sentence",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		ctx, flushLog := setupLogger(cmd.Context(), cfg)
		defer flushLog()

		parser, err := initParser(ctx, cfg)
		if err != nil {
			return err
		}

		sentence := strings.Join(args, " ")
		ext, ok, err := nlp.NewExtractor(parser).Extract(ctx, sentence)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if !ok {
			fmt.Fprintln(out, "nothing to remember")
			return nil
		}
		fmt.Fprintf(out, "item:  %s\nvalue: %s\n", ext.Item, ext.Value)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(extractCmd)
}
