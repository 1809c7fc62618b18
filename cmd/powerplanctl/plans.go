package main

import (
	"context"

	"codeberg.org/mutker/powerplanctl/internal/display"
	"codeberg.org/mutker/powerplanctl/internal/logger"
	"codeberg.org/mutker/powerplanctl/internal/power"
	"github.com/spf13/cobra"
)

func newPlansCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "plans",
		Short: "List the power plans known to the operating system",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, logCloser, err := setup(cmd)
			if err != nil {
				return err
			}
			defer logCloser.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), queryTimeout)
			defer cancel()

			plans, err := power.NewProvider().ListPlans(ctx)
			if err != nil {
				logger.Error().Err(err).Msg("Failed to list power plans")
				return err
			}

			out := display.New(cmd.OutOrStdout())
			out.Print(out.Plans(plans))

			return nil
		},
	}
}
