package sampler

import (
	"context"
	"sync"

	"codeberg.org/mutker/powerplanctl/internal/logger"
)

// Provider reads the current CPU utilization as an integer percentage.
type Provider interface {
	Usage(ctx context.Context) (int, error)
}

// Sample is a point-in-time CPU utilization reading in [0,100].
type Sample struct {
	Value     int
	Simulated bool
}

// Sampler produces one Sample per call and never fails. When the provider
// errors the previous value is returned unchanged. Without a provider it
// falls back to the Simulator.
type Sampler struct {
	provider Provider
	sim      *Simulator
	logger   logger.Logger

	mu   sync.Mutex
	last int
}

type Option func(*Sampler)

// WithSimulator sets the random walk used when no provider is available.
func WithSimulator(sim *Simulator) Option {
	return func(s *Sampler) {
		s.sim = sim
	}
}

// New returns a Sampler reading from provider. A nil provider selects the
// simulator.
func New(provider Provider, opts ...Option) *Sampler {
	s := &Sampler{
		provider: provider,
		logger:   logger.New("sampler"),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.provider == nil && s.sim == nil {
		s.sim = NewSimulator(nil)
	}

	return s
}

// Simulated reports whether samples come from the simulator.
func (s *Sampler) Simulated() bool {
	return s.provider == nil
}

// Sample returns the next reading.
func (s *Sampler) Sample(ctx context.Context) Sample {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.provider == nil {
		s.last = s.sim.Next(s.last)
		return Sample{Value: s.last, Simulated: true}
	}

	value, err := s.provider.Usage(ctx)
	if err != nil {
		s.logger.Debug().Err(err).Int("last", s.last).Msg("CPU sample failed, keeping last value")
		return Sample{Value: s.last}
	}

	s.last = clamp(value, 0, 100)

	return Sample{Value: s.last}
}

// Last returns the most recent value without sampling.
func (s *Sampler) Last() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

func clamp(value, minValue, maxValue int) int {
	if value < minValue {
		return minValue
	}
	if value > maxValue {
		return maxValue
	}

	return value
}
