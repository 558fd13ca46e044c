package pipeline

import (
	"go.trai.ch/ffbuild/internal/core/domain"
	"go.trai.ch/zerr"
)

// Observer is notified of every state change of a target.
type Observer func(id domain.TargetID, state domain.TargetState)

// machine enforces the target lifecycle.
type machine struct {
	id      domain.TargetID
	state   domain.TargetState
	observe Observer
}

func newMachine(id domain.TargetID, observe Observer) *machine {
	return &machine{id: id, state: domain.StatePending, observe: observe}
}

func (m *machine) to(next domain.TargetState) error {
	if !m.state.CanTransition(next) {
		err := zerr.With(zerr.Wrap(domain.ErrIllegalTransition, "rejected state change"), "from", string(m.state))
		return zerr.With(zerr.With(err, "to", string(next)), "target", m.id.String())
	}
	m.state = next
	if m.observe != nil {
		m.observe(m.id, next)
	}
	return nil
}
