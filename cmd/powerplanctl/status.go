package main

import (
	"context"

	"codeberg.org/mutker/powerplanctl/internal/display"
	"codeberg.org/mutker/powerplanctl/internal/logger"
	"codeberg.org/mutker/powerplanctl/internal/power"
	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the platform, the active plan and the effective settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logCloser, err := setup(cmd)
			if err != nil {
				return err
			}
			defer logCloser.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), queryTimeout)
			defer cancel()

			active, err := power.NewProvider().CurrentPlan(ctx)
			if err != nil {
				logger.Warn().Err(err).Msg("Failed to query the active power plan")
				active = power.UnknownPlan
			}

			out := display.New(cmd.OutOrStdout())
			out.Print(out.Status(display.Status{
				Platform:   power.CheckPlatform(),
				ActivePlan: active,
				Settings:   cfg.Settings,
				Simulate:   cfg.Simulate,
				DryRun:     cfg.DryRun,
				Journal:    cfg.Journal,
			}))

			return nil
		},
	}
}
