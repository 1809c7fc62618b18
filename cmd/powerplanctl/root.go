package main

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"codeberg.org/mutker/powerplanctl/internal/config"
	"codeberg.org/mutker/powerplanctl/internal/logger"
	"codeberg.org/mutker/powerplanctl/internal/policy"
	"codeberg.org/mutker/powerplanctl/internal/power"
	"github.com/spf13/cobra"
)

const queryTimeout = 15 * time.Second

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "powerplanctl",
		Short: "Switch the power plan based on CPU load",
		Long: `powerplanctl samples CPU usage at a fixed interval and switches between
the High Performance and Balanced power plans. Usage above the high
threshold selects High Performance, usage below the low threshold selects
Balanced, and anything in between keeps the current plan.

Running without a subcommand is the same as "powerplanctl run".`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runMonitor,
	}

	config.RegisterFlags(root.PersistentFlags())
	registerRunFlags(root)

	root.AddCommand(
		newRunCmd(),
		newPlansCmd(),
		newStatusCmd(),
		newHistoryCmd(),
	)

	return root
}

// setup loads the configuration and initializes logging. The returned
// closer releases the log file, if any.
func setup(cmd *cobra.Command) (*config.Config, io.Closer, error) {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return nil, nil, err
	}

	level, err := logger.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil {
		return nil, nil, err
	}

	opts := logger.Options{
		Level:     level,
		IsService: logger.IsService(),
		Console:   os.Stderr,
	}

	var closer io.Closer = nopCloser{}
	if cfg.LogFile != "" {
		f, err := logger.OpenFile(cfg.LogFile)
		if err != nil {
			return nil, nil, err
		}
		opts.File = f
		closer = f
	}

	logger.Init(opts)
	logger.Debug().Str("log_level", cfg.LogLevel).Msg("Config loaded")

	return cfg, closer, nil
}

// initialPlan maps the plan the operating system reports as active onto a
// managed plan. Anything else, including a failed query, is Unknown.
func initialPlan(ctx context.Context, provider power.Provider, settings config.Settings) policy.State {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	plans, err := provider.ListPlans(ctx)
	if err != nil {
		logger.Debug().Err(err).Msg("Could not determine the active power plan")
		return policy.Unknown
	}

	for _, p := range plans {
		if !p.Active {
			continue
		}
		switch {
		case strings.EqualFold(p.ID, settings.HighPerformancePlan):
			return policy.HighPerformance
		case strings.EqualFold(p.ID, settings.BalancedPlan):
			return policy.Balanced
		}
	}

	return policy.Unknown
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
