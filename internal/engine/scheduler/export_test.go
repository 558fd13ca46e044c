package scheduler

import "go.trai.ch/ffbuild/internal/core/domain"

// StatusOf returns the recorded state of one target.
// This is exported for testing purposes only.
func (s *Scheduler) StatusOf(id domain.TargetID) domain.TargetState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status[id]
}
