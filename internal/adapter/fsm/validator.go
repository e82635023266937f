package fsm

import (
	"context"
	"errors"

	loopfsm "github.com/looplab/fsm"

	"github.com/neomorfeo/statuskit/internal/domain"
)

// Compile-time check: Validator implements domain.GraphValidator.
var _ domain.GraphValidator = (*Validator)(nil)

// Validator implements domain.GraphValidator using looplab/fsm. Unlike a
// compile-time state machine, the states and events here are rows: the FSM
// is rebuilt per Validate call from the outgoing edge set of the entity's
// current status. This keeps the engine faithful to whatever graph the
// tenant has configured at the moment of the check, and sidesteps
// looplab/fsm's internal statefulness the same way a per-call machine does.
type Validator struct{}

// New creates a new FSM-backed graph validator.
func New() *Validator {
	return &Validator{}
}

// Validate checks that target is reachable via one edge from current.
// Event names are target status ids, so firing the target's id either moves
// the machine or proves the edge does not exist. A move to the current
// status itself is always invalid: the graph holds no self-loops.
func (v *Validator) Validate(ctx context.Context, current domain.StatusDefinition, edges []domain.TransitionEdge, target domain.StatusDefinition) error {
	events := make([]loopfsm.EventDesc, 0, len(edges))
	for _, edge := range edges {
		events = append(events, loopfsm.EventDesc{
			Name: edge.ToStatusID,
			Src:  []string{edge.FromStatusID},
			Dst:  edge.ToStatusID,
		})
	}

	machine := loopfsm.NewFSM(current.ID, events, nil)

	if err := machine.Event(ctx, target.ID); err != nil {
		var invalidEvent loopfsm.InvalidEventError
		var unknownEvent loopfsm.UnknownEventError
		var noTransition loopfsm.NoTransitionError
		if errors.As(err, &invalidEvent) || errors.As(err, &unknownEvent) || errors.As(err, &noTransition) {
			return &domain.InvalidTransitionError{From: current.Code, To: target.Code}
		}
		return err
	}

	return nil
}
