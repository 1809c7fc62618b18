package policy_test

import (
	"testing"

	"codeberg.org/mutker/powerplanctl/internal/policy"
	"github.com/stretchr/testify/assert"
)

var thresholds = policy.Thresholds{High: 50, Low: 35}

func TestDecide(t *testing.T) {
	tests := []struct {
		name       string
		sample     int
		current    policy.State
		want       policy.State
		transition bool
		reason     policy.Reason
	}{
		{"above high from balanced", 51, policy.Balanced, policy.HighPerformance, true, policy.ReasonThresholdExceeded},
		{"above high from unknown", 90, policy.Unknown, policy.HighPerformance, true, policy.ReasonThresholdExceeded},
		{"above high already high", 90, policy.HighPerformance, policy.HighPerformance, false, policy.ReasonNoChange},
		{"below low from high", 34, policy.HighPerformance, policy.Balanced, true, policy.ReasonUsageLow},
		{"below low from unknown", 0, policy.Unknown, policy.Balanced, true, policy.ReasonUsageLow},
		{"below low already balanced", 10, policy.Balanced, policy.Balanced, false, policy.ReasonNoChange},
		{"equal to high", 50, policy.Balanced, policy.Balanced, false, policy.ReasonNoChange},
		{"equal to low", 35, policy.HighPerformance, policy.HighPerformance, false, policy.ReasonNoChange},
		{"inside band stays unknown", 40, policy.Unknown, policy.Unknown, false, policy.ReasonNoChange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := policy.Decide(tt.sample, tt.current, thresholds)
			assert.Equal(t, tt.want, got.Next)
			assert.Equal(t, tt.transition, got.Transition)
			assert.Equal(t, tt.reason, got.Reason)
		})
	}
}

func TestDecideInsideBandNeverTransitions(t *testing.T) {
	for _, current := range []policy.State{policy.Unknown, policy.HighPerformance, policy.Balanced} {
		for s := thresholds.Low + 1; s < thresholds.High; s++ {
			got := policy.Decide(s, current, thresholds)
			assert.False(t, got.Transition, "sample %d from %s", s, current)
			assert.Equal(t, current, got.Next)
		}
	}
}

func TestDecideIsIdempotent(t *testing.T) {
	for s := 0; s <= 100; s++ {
		for _, current := range []policy.State{policy.Unknown, policy.HighPerformance, policy.Balanced} {
			first := policy.Decide(s, current, thresholds)
			second := policy.Decide(s, first.Next, thresholds)
			assert.False(t, second.Transition, "sample %d from %s oscillated", s, current)
		}
	}
}

func TestDecidePlanTrace(t *testing.T) {
	samples := []int{40, 55, 60, 30, 20}
	current := policy.Balanced

	var trace []policy.State
	for _, s := range samples {
		current = policy.Decide(s, current, thresholds).Next
		trace = append(trace, current)
	}

	assert.Equal(t, []policy.State{
		policy.Balanced,
		policy.HighPerformance,
		policy.HighPerformance,
		policy.Balanced,
		policy.Balanced,
	}, trace)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "High Performance", policy.HighPerformance.String())
	assert.Equal(t, "Balanced", policy.Balanced.String())
	assert.Equal(t, "Unknown", policy.Unknown.String())
}
