package cpu

import (
	"context"
	"math"
	"time"

	"codeberg.org/mutker/powerplanctl/internal/errors"
	"github.com/shirou/gopsutil/v4/cpu"
)

const (
	// DefaultWindow is the differential measurement window.
	DefaultWindow = 100 * time.Millisecond
	// DefaultTimeout bounds a single reading.
	DefaultTimeout = 2 * time.Second
)

// percentFunc matches cpu.PercentWithContext so tests can replace it.
type percentFunc func(ctx context.Context, interval time.Duration, perCPU bool) ([]float64, error)

// HostProvider measures system-wide CPU utilization by comparing idle and
// total CPU time across a short window, averaged over all cores.
type HostProvider struct {
	window  time.Duration
	timeout time.Duration
	percent percentFunc
}

type Option func(*HostProvider)

func WithWindow(d time.Duration) Option {
	return func(p *HostProvider) {
		p.window = d
	}
}

func WithTimeout(d time.Duration) Option {
	return func(p *HostProvider) {
		p.timeout = d
	}
}

// NewHostProvider checks that CPU times can be read on this host and returns
// a provider, or an error when no live sensor is available.
func NewHostProvider(opts ...Option) (*HostProvider, error) {
	p := newHostProvider(cpu.PercentWithContext, opts...)

	if _, err := cpu.Times(false); err != nil {
		return nil, errors.New().Wrap(errors.ErrUnavailable, err)
	}

	return p, nil
}

func newHostProvider(fn percentFunc, opts ...Option) *HostProvider {
	p := &HostProvider{
		window:  DefaultWindow,
		timeout: DefaultTimeout,
		percent: fn,
	}
	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Usage returns the rounded utilization percentage in [0,100].
func (p *HostProvider) Usage(ctx context.Context) (int, error) {
	errFactory := errors.New()

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	values, err := p.percent(ctx, p.window, false)
	if err != nil {
		return 0, errFactory.Wrap(errors.ErrSampleCPU, err)
	}
	if len(values) == 0 {
		return 0, errFactory.WithMessage(errors.ErrSampleCPU, "no CPU usage reported")
	}

	v := values[0]
	if math.IsNaN(v) {
		return 0, errFactory.WithMessage(errors.ErrSampleCPU, "CPU usage is not a number")
	}

	return int(math.Max(0, math.Min(100, math.Round(v)))), nil
}
