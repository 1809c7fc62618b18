package monitor

import (
	"sync"

	"codeberg.org/mutker/powerplanctl/internal/policy"
	"codeberg.org/mutker/powerplanctl/internal/sampler"
)

// session is the sample and plan the monitor tracks. One session lives as
// long as the Monitor, so a tick finishing after Stop still updates the state
// the next run starts from.
type session struct {
	mu     sync.RWMutex
	sample sampler.Sample
	plan   policy.State
}

func newSession() *session {
	return &session{plan: policy.Unknown}
}

func (s *session) SetPlan(p policy.State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.plan = p
}

func (s *session) Plan() policy.State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.plan
}

func (s *session) setSample(v sampler.Sample) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sample = v
}

func (s *session) snapshot() (sampler.Sample, policy.State) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sample, s.plan
}
