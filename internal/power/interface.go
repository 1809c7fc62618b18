package power

import "context"

// Provider queries and switches the operating system power plan.
type Provider interface {
	// CurrentPlan returns the name of the active plan, or a sentinel such
	// as UnsupportedPlatform when plans are not available.
	CurrentPlan(ctx context.Context) (string, error)

	// SetPlan activates the plan with the given GUID.
	SetPlan(ctx context.Context, id string) error

	// ListPlans returns the plans known to the system. It is empty when
	// plans are not available.
	ListPlans(ctx context.Context) ([]Plan, error)
}

// Plan is a power scheme known to the operating system.
type Plan struct {
	ID     string
	Name   string
	Active bool
}

// Platform describes the host as far as power plan support is concerned.
type Platform struct {
	Name      string
	Supported bool
}

// runner abstracts command execution for testing
type runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}
