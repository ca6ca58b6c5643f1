// Package controltest provides scripted controllers for driving matches in tests.
package controltest

import (
	"sync"

	"github.com/pthm-cable/tankarena/control"
)

var _ control.Controller = (*Script)(nil)

// Script replays a fixed list of per-tick instruction batches, then idles.
// It records what it is told so tests can inspect it.
type Script struct {
	Steps [][]control.Instruction

	mu           sync.Mutex
	next         int
	observations []control.Observation
	outcome      *control.Outcome
	finishCalls  int
}

// NewScript creates a scripted controller.
func NewScript(steps ...[]control.Instruction) *Script {
	return &Script{Steps: steps}
}

func (s *Script) Poll() []control.Instruction {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.next >= len(s.Steps) {
		return nil
	}
	step := s.Steps[s.next]
	s.next++
	return step
}

func (s *Script) Observe(o control.Observation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observations = append(s.observations, o)
}

func (s *Script) Finish(o control.Outcome) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.finishCalls++
	if s.outcome == nil {
		s.outcome = &o
	}
}

// Outcome returns the reported outcome, if any.
func (s *Script) Outcome() (control.Outcome, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.outcome == nil {
		return 0, false
	}
	return *s.outcome, true
}

// FinishCalls returns how many times Finish was called.
func (s *Script) FinishCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.finishCalls
}

// LastObservation returns the most recent observation.
func (s *Script) LastObservation() (control.Observation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.observations) == 0 {
		return control.Observation{}, false
	}
	return s.observations[len(s.observations)-1], true
}

// Observations returns how many observations were received.
func (s *Script) Observations() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.observations)
}
