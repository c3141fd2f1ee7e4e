package sim

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when removing a constraint that is not
	// registered.
	ErrNotFound = errors.New("sim: entity not found")

	// ErrUnknownKind is returned in strict mode when an entity declares a
	// kind that cannot be registered.
	ErrUnknownKind = errors.New("sim: unrecognized entity kind")

	// ErrMutationDuringTick is returned when a constraint is removed while
	// the simulator is stepping. Flag the constraint as deleted instead.
	ErrMutationDuringTick = errors.New(
		"sim: registry cannot be restructured while stepping")

	// ErrDetached is returned by a Handle that was never attached.
	ErrDetached = errors.New("sim: handle is not attached to a simulator")
)

// Phase identifies the stage of the per-tick pipeline.
type Phase int

// The pipeline stages that can fail.
const (
	PhaseIntegrate Phase = iota
	PhaseConstrain
	PhaseEvaluate
)

func (p Phase) String() string {
	switch p {
	case PhaseIntegrate:
		return "integrate"
	case PhaseConstrain:
		return "constrain"
	case PhaseEvaluate:
		return "evaluate"
	default:
		return "unknown"
	}
}

// A TickError reports an entity callback failure that aborted a tick.
type TickError struct {
	Phase Phase
	Tick  uint64
	Err   error
}

func (e *TickError) Error() string {
	return fmt.Sprintf("sim: tick %d failed during %s: %v",
		e.Tick, e.Phase, e.Err)
}

func (e *TickError) Unwrap() error {
	return e.Err
}
