// Package policy decides which power plan should be active for a CPU sample.
//
// The decision uses two thresholds. Above High the high performance plan is
// selected, below Low the balanced plan is selected, and in between the
// current plan is kept. Both comparisons are strict.
package policy

// State is the power plan the monitor believes to be active.
type State int

const (
	Unknown State = iota
	HighPerformance
	Balanced
)

func (s State) String() string {
	switch s {
	case HighPerformance:
		return "High Performance"
	case Balanced:
		return "Balanced"
	default:
		return "Unknown"
	}
}

// Reason explains a decision.
type Reason string

const (
	ReasonThresholdExceeded Reason = "threshold exceeded"
	ReasonUsageLow          Reason = "usage low"
	ReasonNoChange          Reason = "no change"
)

// Thresholds are CPU usage percentages. Low must be lower than High.
type Thresholds struct {
	High int
	Low  int
}

// Decision is the outcome of Decide.
type Decision struct {
	Next       State
	Transition bool
	Reason     Reason
}

// Decide maps a sample to the plan that should be active. It has no side
// effects; calling it again with Next as the current plan and the same
// sample never yields a transition.
func Decide(sample int, current State, t Thresholds) Decision {
	switch {
	case sample > t.High && current != HighPerformance:
		return Decision{Next: HighPerformance, Transition: true, Reason: ReasonThresholdExceeded}
	case sample < t.Low && current != Balanced:
		return Decision{Next: Balanced, Transition: true, Reason: ReasonUsageLow}
	default:
		return Decision{Next: current, Transition: false, Reason: ReasonNoChange}
	}
}
