package power

import (
	"context"
	"runtime"

	"codeberg.org/mutker/powerplanctl/internal/errors"
)

const windows = "windows"

// CheckPlatform reports the host OS and whether power plans can be switched.
func CheckPlatform() Platform {
	return Platform{
		Name:      runtime.GOOS,
		Supported: runtime.GOOS == windows,
	}
}

// NewProvider returns the provider for the host platform.
func NewProvider() Provider {
	if CheckPlatform().Supported {
		return NewPowercfg()
	}

	return Unsupported{}
}

// Unsupported is the provider for platforms without power plans. Queries
// return sentinel values and never fail; SetPlan always fails.
type Unsupported struct{}

func (Unsupported) CurrentPlan(context.Context) (string, error) {
	return UnsupportedPlatform, nil
}

func (Unsupported) SetPlan(context.Context, string) error {
	return errors.New().WithData(ErrUnsupportedPlatform, runtime.GOOS)
}

func (Unsupported) ListPlans(context.Context) ([]Plan, error) {
	return []Plan{}, nil
}
