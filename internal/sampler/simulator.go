package sampler

import (
	"math"
	"math/rand"
	"sync"
	"time"
)

const (
	busyLevel  = 70
	idleLevel  = 20
	normalStep = 15
)

// Simulator is a bounded random walk standing in for a real CPU sensor.
// Above busyLevel the walk drifts down, below idleLevel it drifts up.
type Simulator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSimulator returns a simulator drawing from rng, or from a time seeded
// source when rng is nil.
func NewSimulator(rng *rand.Rand) *Simulator {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	return &Simulator{rng: rng}
}

// Next returns the value following prev, rounded and clamped to [0,100].
func (s *Simulator) Next(prev int) int {
	s.mu.Lock()
	r := s.rng.Float64()
	s.mu.Unlock()

	base := float64(prev)

	var next float64
	switch {
	case prev > busyLevel:
		next = base + (r*5 - 4)
	case prev < idleLevel:
		next = base + (r*4 - 1)
	default:
		next = base + (r-0.5)*normalStep
	}

	return clamp(int(math.Round(next)), 0, 100)
}
