// Package plan applies policy decisions to the operating system.
package plan

import (
	"context"

	"codeberg.org/mutker/powerplanctl/internal/eventlog"
	"codeberg.org/mutker/powerplanctl/internal/logger"
	"codeberg.org/mutker/powerplanctl/internal/policy"
	"codeberg.org/mutker/powerplanctl/internal/power"
)

const (
	MsgSwitchedHigh     = "Threshold exceeded. Switched to High Performance plan."
	MsgSwitchedBalanced = "CPU usage low. Switched to Balanced plan."
	MsgSwitchFailed     = "Failed to switch power plan. May require administrator privileges."
	SimulatedSuffix     = " (Simulated)"
)

// Tracker holds the plan the monitor believes to be active.
type Tracker interface {
	SetPlan(policy.State)
}

// IDs maps the two managed plans to their operating system identifiers.
type IDs struct {
	HighPerformance string
	Balanced        string
}

func (ids IDs) For(s policy.State) string {
	switch s {
	case policy.HighPerformance:
		return ids.HighPerformance
	case policy.Balanced:
		return ids.Balanced
	default:
		return ""
	}
}

// Outcome reports what Apply did.
type Outcome struct {
	// Attempted is false when the decision required no transition.
	Attempted bool
	// Simulated is true when the OS was deliberately not touched.
	Simulated bool
	// Err is the provider error of a failed switch.
	Err error
}

// Applied reports whether the plan change reached the operating system.
func (o Outcome) Applied() bool {
	return o.Attempted && !o.Simulated && o.Err == nil
}

// Controller switches plans through a power.Provider. The tracked plan is
// updated before the provider is called and is not rolled back when the
// call fails, so it reflects intent rather than confirmed OS state. A failed
// switch is not retried.
type Controller struct {
	provider power.Provider
	events   *eventlog.Log
	simulate bool
	logger   logger.Logger
}

type Option func(*Controller)

// WithSimulation makes the controller log transitions without calling the
// provider.
func WithSimulation(simulate bool) Option {
	return func(c *Controller) {
		c.simulate = simulate
	}
}

func NewController(provider power.Provider, events *eventlog.Log, opts ...Option) *Controller {
	c := &Controller{
		provider: provider,
		events:   events,
		logger:   logger.New("plan"),
	}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Simulated reports whether the controller runs without touching the OS.
func (c *Controller) Simulated() bool {
	return c.simulate
}

// Apply executes d. Decisions without a transition are a no-op.
func (c *Controller) Apply(ctx context.Context, tracker Tracker, d policy.Decision, ids IDs) Outcome {
	if !d.Transition {
		return Outcome{}
	}

	tracker.SetPlan(d.Next)

	message, severity := successMessage(d.Next)

	if c.simulate {
		c.events.Append(message+SimulatedSuffix, severity)
		c.logger.Info().Str("plan", d.Next.String()).Str("reason", string(d.Reason)).Msg("Simulated power plan switch")
		return Outcome{Attempted: true, Simulated: true}
	}

	id := ids.For(d.Next)
	if err := c.provider.SetPlan(ctx, id); err != nil {
		c.events.Append(MsgSwitchFailed, eventlog.Warning)
		c.logger.Warn().Err(err).Str("plan", d.Next.String()).Str("id", id).Msg("Power plan switch failed")
		return Outcome{Attempted: true, Err: err}
	}

	c.events.Append(message, severity)
	c.logger.Info().Str("plan", d.Next.String()).Str("id", id).Str("reason", string(d.Reason)).Msg("Power plan switched")

	return Outcome{Attempted: true}
}

// successMessage returns the event for a completed switch. Switching to high
// performance is a warning since it is the costly state.
func successMessage(s policy.State) (string, eventlog.Severity) {
	if s == policy.HighPerformance {
		return MsgSwitchedHigh, eventlog.Warning
	}

	return MsgSwitchedBalanced, eventlog.Success
}
