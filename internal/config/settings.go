package config

import (
	"fmt"
	"time"

	"codeberg.org/mutker/powerplanctl/internal/errors"
	"github.com/google/uuid"
)

const (
	DefaultHighThreshold       = 50
	DefaultLowThreshold        = 35
	DefaultInterval            = 5
	DefaultHighPerformancePlan = "8c5e7fda-e8bf-4a96-9a85-a6e23a8c635c"
	DefaultBalancedPlan        = "381b4222-f694-41f0-9685-ff5bb260df2e"

	guidLength = 36
)

// Settings is the snapshot a monitoring run is started with. It is replaced
// wholesale between runs and never mutated while a run is active.
type Settings struct {
	HighThreshold       int    `mapstructure:"high_threshold"`
	LowThreshold        int    `mapstructure:"low_threshold"`
	Interval            int    `mapstructure:"interval"`
	HighPerformancePlan string `mapstructure:"high_performance_plan"`
	BalancedPlan        string `mapstructure:"balanced_plan"`
}

// DefaultSettings returns the settings used when nothing is configured.
func DefaultSettings() Settings {
	return Settings{
		HighThreshold:       DefaultHighThreshold,
		LowThreshold:        DefaultLowThreshold,
		Interval:            DefaultInterval,
		HighPerformancePlan: DefaultHighPerformancePlan,
		BalancedPlan:        DefaultBalancedPlan,
	}
}

// IntervalDuration returns the tick cadence.
func (s Settings) IntervalDuration() time.Duration {
	return time.Duration(s.Interval) * time.Second
}

// Validate checks every field and returns the first problem found.
func (s Settings) Validate() error {
	errs := s.validationErrors()
	if len(errs) == 0 {
		return nil
	}

	return errors.New().Wrap(codeFor(errs[0].Field()), errs[0])
}

func (s Settings) validationErrors() []ValidationError {
	var errs []ValidationError

	if s.HighThreshold < 0 || s.HighThreshold > 100 {
		errs = append(errs, &fieldError{"high_threshold", s.HighThreshold, "must be between 0 and 100"})
	}
	if s.LowThreshold < 0 || s.LowThreshold > 100 {
		errs = append(errs, &fieldError{"low_threshold", s.LowThreshold, "must be between 0 and 100"})
	}
	if s.LowThreshold >= s.HighThreshold {
		errs = append(errs, &fieldError{
			"low_threshold", s.LowThreshold,
			fmt.Sprintf("must be lower than high_threshold (%d)", s.HighThreshold),
		})
	}
	if s.Interval <= 0 {
		errs = append(errs, &fieldError{"interval", s.Interval, "must be greater than zero"})
	}
	if !IsValidPlanID(s.HighPerformancePlan) {
		errs = append(errs, &fieldError{"high_performance_plan", s.HighPerformancePlan, "must be a GUID"})
	}
	if !IsValidPlanID(s.BalancedPlan) {
		errs = append(errs, &fieldError{"balanced_plan", s.BalancedPlan, "must be a GUID"})
	}

	return errs
}

// IsValidPlanID reports whether id is a GUID in canonical
// xxxxxxxx-xxxx-xxxx-xxxx-xxxxxxxxxxxx form.
func IsValidPlanID(id string) bool {
	if len(id) != guidLength {
		return false
	}

	_, err := uuid.Parse(id)

	return err == nil
}

func codeFor(field string) errors.ErrorCode {
	switch field {
	case "high_threshold", "low_threshold":
		return errors.ErrInvalidThreshold
	case "interval":
		return errors.ErrInvalidInterval
	case "high_performance_plan", "balanced_plan":
		return errors.ErrInvalidPlanID
	default:
		return errors.ErrInvalidConfig
	}
}

func toString(v interface{}) string {
	return fmt.Sprintf("%v", v)
}
