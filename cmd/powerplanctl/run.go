package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"codeberg.org/mutker/powerplanctl/internal/config"
	"codeberg.org/mutker/powerplanctl/internal/cpu"
	"codeberg.org/mutker/powerplanctl/internal/display"
	"codeberg.org/mutker/powerplanctl/internal/eventlog"
	"codeberg.org/mutker/powerplanctl/internal/journal"
	"codeberg.org/mutker/powerplanctl/internal/logger"
	"codeberg.org/mutker/powerplanctl/internal/monitor"
	"codeberg.org/mutker/powerplanctl/internal/pid"
	"codeberg.org/mutker/powerplanctl/internal/plan"
	"codeberg.org/mutker/powerplanctl/internal/power"
	"codeberg.org/mutker/powerplanctl/internal/sampler"
	"github.com/spf13/cobra"
)

func registerRunFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("once", false, "Perform a single tick and exit")
}

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Monitor CPU usage and switch power plans",
		RunE:  runMonitor,
	}
	registerRunFlags(cmd)

	return cmd
}

func runMonitor(cmd *cobra.Command, _ []string) error {
	cfg, logCloser, err := setup(cmd)
	if err != nil {
		return err
	}
	defer logCloser.Close()

	once, _ := cmd.Flags().GetBool("once")

	pidFile := pid.New(cfg.PIDFile)
	if err := pidFile.Write(); err != nil {
		logger.Error().Err(err).Str("path", pidFile.Path()).Msg("Failed to write PID file")
		return err
	}
	defer func() {
		if err := pidFile.Remove(); err != nil {
			logger.Error().Err(err).Msg("Failed to remove PID file")
		}
	}()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	platform := power.CheckPlatform()
	if !platform.Supported {
		logger.Warn().
			Str("platform", platform.Name).
			Msg("Power plans are not supported on this platform, switching will fail")
	}

	jrnl, err := newJournal(cfg)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize journal")
		return err
	}
	defer func() {
		if err := jrnl.Close(); err != nil {
			logger.Error().Err(err).Msg("Failed to close journal")
		}
	}()

	out := display.New(cmd.OutOrStdout())
	events := eventlog.New(eventlog.WithSink(out), eventlog.WithSink(jrnl))

	smp := newSampler(cfg)
	provider := power.NewProvider()
	controller := plan.NewController(provider, events,
		plan.WithSimulation(cfg.DryRun || smp.Simulated()))

	mon := monitor.New(smp, controller, events,
		monitor.WithInitialPlan(initialPlan(ctx, provider, cfg.Settings)))

	logger.Debug().
		Bool("simulated_cpu", smp.Simulated()).
		Bool("dry_run", cfg.DryRun).
		Str("run_id", jrnl.RunID()).
		Msg("Components initialized")

	if err := mon.Start(ctx, cfg.Settings); err != nil {
		logger.Error().Err(err).Msg("Failed to start monitoring")
		return err
	}

	if !once {
		waitForSignal(ctx)
	}

	mon.Stop()
	mon.Wait()
	logger.Info().Msg("Exiting...")

	return nil
}

func newSampler(cfg *config.Config) *sampler.Sampler {
	if cfg.Simulate {
		return sampler.New(nil)
	}

	host, err := cpu.NewHostProvider()
	if err != nil {
		logger.Warn().Err(err).Msg("CPU sensor unavailable, using simulated readings")
		return sampler.New(nil)
	}

	return sampler.New(host)
}

func newJournal(cfg *config.Config) (journal.Journal, error) {
	jcfg := journal.DefaultConfig()
	jcfg.Enabled = cfg.Journal
	jcfg.DBPath = cfg.JournalDB

	return journal.New(jcfg)
}

func waitForSignal(ctx context.Context) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigs)

	select {
	case <-sigs:
		logger.Info().Msg("Received termination signal.")
	case <-ctx.Done():
	}
}
