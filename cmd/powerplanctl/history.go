package main

import (
	"context"

	"codeberg.org/mutker/powerplanctl/internal/display"
	"codeberg.org/mutker/powerplanctl/internal/eventlog"
	"codeberg.org/mutker/powerplanctl/internal/journal"
	"codeberg.org/mutker/powerplanctl/internal/logger"
	"github.com/spf13/cobra"
)

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Print the newest events recorded in the journal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logCloser, err := setup(cmd)
			if err != nil {
				return err
			}
			defer logCloser.Close()

			limit, _ := cmd.Flags().GetInt("limit")

			// History reads the journal even when recording is off.
			jcfg := journal.DefaultConfig()
			jcfg.Enabled = true
			jcfg.DBPath = cfg.JournalDB

			jrnl, err := journal.New(jcfg)
			if err != nil {
				logger.Error().Err(err).Str("path", cfg.JournalDB).Msg("Failed to open journal")
				return err
			}
			defer jrnl.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), queryTimeout)
			defer cancel()

			records, err := jrnl.Recent(ctx, limit)
			if err != nil {
				logger.Error().Err(err).Msg("Failed to read journal")
				return err
			}

			out := display.New(cmd.OutOrStdout())
			out.Print(out.History(records))

			return nil
		},
	}

	cmd.Flags().IntP("limit", "n", eventlog.DefaultCapacity, "Number of records to print")

	return cmd
}
