package power

import "codeberg.org/mutker/powerplanctl/internal/errors"

const (
	UnsupportedPlatform = "Unsupported Platform"
	UnknownPlan         = "Unknown"

	ErrUnsupportedPlatform = errors.ErrUnsupportedPlatform
	ErrSetPlan             = errors.ErrSetPlan
	ErrQueryPlan           = errors.ErrQueryPlan
	ErrListPlans           = errors.ErrListPlans
	ErrCommandFailed       = errors.ErrorCode("power_command_failed")
)
