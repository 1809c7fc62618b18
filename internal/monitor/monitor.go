package monitor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"codeberg.org/mutker/powerplanctl/internal/config"
	"codeberg.org/mutker/powerplanctl/internal/eventlog"
	"codeberg.org/mutker/powerplanctl/internal/logger"
	"codeberg.org/mutker/powerplanctl/internal/plan"
	"codeberg.org/mutker/powerplanctl/internal/policy"
	"codeberg.org/mutker/powerplanctl/internal/sampler"
)

const (
	MsgStarting = "Starting CPU monitoring..."
	MsgStopped  = "Stopped CPU monitoring."
)

// Sampler produces one CPU reading per tick.
type Sampler interface {
	Sample(ctx context.Context) sampler.Sample
}

// Controller applies policy decisions.
type Controller interface {
	Apply(ctx context.Context, tracker plan.Tracker, d policy.Decision, ids plan.IDs) plan.Outcome
}

// Status is a snapshot of the monitor.
type Status struct {
	Running  bool
	Sample   sampler.Sample
	Plan     policy.State
	Settings config.Settings
}

// Monitor runs the sample, decide, apply and log sequence on a fixed
// cadence. Settings are captured by Start and stay frozen until Stop.
// Only one tick runs at a time. A scheduled or manual tick that comes due
// while another is in flight is skipped; the first tick of Start waits for it.
type Monitor struct {
	sampler    Sampler
	controller Controller
	events     *eventlog.Log
	logger     logger.Logger

	mu       sync.Mutex
	running  bool
	settings config.Settings
	session  *session
	cancel   context.CancelFunc
	done     chan struct{}

	// tickMu is held for the duration of a tick.
	tickMu sync.Mutex
}

type Option func(*Monitor)

// WithInitialPlan seeds the tracked plan, for example from the plan the
// operating system reports as active.
func WithInitialPlan(p policy.State) Option {
	return func(m *Monitor) {
		m.session.SetPlan(p)
	}
}

func New(s Sampler, c Controller, events *eventlog.Log, opts ...Option) *Monitor {
	m := &Monitor{
		sampler:    s,
		controller: c,
		events:     events,
		logger:     logger.New("monitor"),
		session:    newSession(),
	}
	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Start begins a run with the given settings, performs the first tick
// before returning and schedules the rest every settings.Interval seconds.
// Starting a running monitor does nothing. Invalid settings are rejected.
func (m *Monitor) Start(ctx context.Context, settings config.Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return nil
	}

	sess := m.session
	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	m.running = true
	m.settings = settings
	m.cancel = cancel
	m.done = done
	m.mu.Unlock()

	m.events.Append(MsgStarting, eventlog.Info)
	m.logger.Info().
		Int("high_threshold", settings.HighThreshold).
		Int("low_threshold", settings.LowThreshold).
		Int("interval", settings.Interval).
		Msg("Monitoring started")

	// A tick left over from the previous run finishes first.
	m.tickMu.Lock()
	m.runTick(context.WithoutCancel(runCtx), sess, settings)
	m.tickMu.Unlock()

	go m.loop(runCtx, sess, settings, done)

	return nil
}

// Stop ends the run. A tick already in flight completes and its effects are
// kept. The current plan, last sample and event log are preserved. Stopping
// an idle monitor does nothing.
func (m *Monitor) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	m.running = false
	m.cancel()
	m.mu.Unlock()

	m.events.Append(MsgStopped, eventlog.Info)
	m.logger.Info().Msg("Monitoring stopped")
}

// Wait blocks until the cadence goroutine of the last run and any tick it
// started have finished.
func (m *Monitor) Wait() {
	m.mu.Lock()
	done := m.done
	m.mu.Unlock()

	if done != nil {
		<-done
	}
}

// Tick runs one tick immediately with the settings of the current run. It
// returns false when the monitor is idle or another tick is in flight.
func (m *Monitor) Tick(ctx context.Context) bool {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return false
	}
	sess, settings := m.session, m.settings
	m.mu.Unlock()

	return m.tick(ctx, sess, settings)
}

// ClearLogs empties the event log.
func (m *Monitor) ClearLogs() {
	m.events.Clear()
}

// Events returns the event log.
func (m *Monitor) Events() *eventlog.Log {
	return m.events
}

func (m *Monitor) Status() Status {
	m.mu.Lock()
	running, settings, sess := m.running, m.settings, m.session
	m.mu.Unlock()

	sample, current := sess.snapshot()

	return Status{
		Running:  running,
		Sample:   sample,
		Plan:     current,
		Settings: settings,
	}
}

func (m *Monitor) loop(ctx context.Context, sess *session, settings config.Settings, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(settings.IntervalDuration())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.expire(done)
			return
		case <-ticker.C:
			// Ticks are not cancellable once issued.
			m.tick(context.WithoutCancel(ctx), sess, settings)
		}
	}
}

// expire marks the run owning done as stopped when its parent context was
// cancelled without a call to Stop.
func (m *Monitor) expire(done chan struct{}) {
	m.mu.Lock()
	if !m.running || m.done != done {
		m.mu.Unlock()
		return
	}
	m.running = false
	m.cancel()
	m.mu.Unlock()

	m.events.Append(MsgStopped, eventlog.Info)
	m.logger.Info().Msg("Monitoring stopped, context cancelled")
}

func (m *Monitor) tick(ctx context.Context, sess *session, settings config.Settings) bool {
	if !m.tickMu.TryLock() {
		m.logger.Debug().Msg("Previous tick still in progress, skipping")
		return false
	}
	defer m.tickMu.Unlock()

	m.runTick(ctx, sess, settings)

	return true
}

// runTick performs one sample, decide, apply and log sequence. Callers hold
// tickMu.
func (m *Monitor) runTick(ctx context.Context, sess *session, settings config.Settings) {
	sample := m.sampler.Sample(ctx)
	sess.setSample(sample)
	m.events.Append(sampleMessage(sample), eventlog.Info)

	current := sess.Plan()
	decision := policy.Decide(sample.Value, current, policy.Thresholds{
		High: settings.HighThreshold,
		Low:  settings.LowThreshold,
	})

	m.logger.Debug().
		Int("cpu", sample.Value).
		Bool("simulated", sample.Simulated).
		Str("plan", current.String()).
		Str("next_plan", decision.Next.String()).
		Str("reason", string(decision.Reason)).
		Msg("Tick evaluated")

	m.controller.Apply(ctx, sess, decision, plan.IDs{
		HighPerformance: settings.HighPerformancePlan,
		Balanced:        settings.BalancedPlan,
	})
}

func sampleMessage(s sampler.Sample) string {
	msg := fmt.Sprintf("CPU Usage: %d%%", s.Value)
	if s.Simulated {
		msg += plan.SimulatedSuffix
	}

	return msg
}
