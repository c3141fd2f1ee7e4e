package sim

import (
	"time"

	"github.com/sarchlab/verlet/instrumentation/hooking"
	"github.com/sarchlab/verlet/timing"
)

// simulate runs one tick: cull, integrate, constrain. The lock is held.
func (s *Simulator) simulate(step time.Duration) error {
	tick := timing.Tick{
		Index: s.ticks,
		Time:  s.simTime + step,
	}

	hookCtx := hooking.HookCtx{
		Domain: s,
		Pos:    HookPosBeforeTick,
		Item:   tick,
	}
	s.InvokeHook(hookCtx)

	culled := s.cull()

	if err := s.integrate(step); err != nil {
		return err
	}

	if err := s.constrain(step); err != nil {
		return err
	}

	s.ticks++
	s.simTime = tick.Time

	hookCtx.Pos = HookPosAfterTick
	hookCtx.Detail = TickInfo{
		Particles:   len(s.particles),
		Forces:      len(s.forces),
		Constraints: s.constraints.len(),
		Culled:      culled,
	}
	s.InvokeHook(hookCtx)

	return nil
}

// cull is the tick's safe point: deferred registrations land and flagged
// constraints leave.
func (s *Simulator) cull() int {
	s.applyPending()

	return s.constraints.cull()
}

// integrate applies every force to a particle before integrating it, and only
// then moves on to the next particle. Forces may carry state across the
// sequence of applications to one particle.
func (s *Simulator) integrate(step time.Duration) error {
	for _, p := range s.particles {
		for _, f := range s.forces {
			if err := f.ApplyTo(p); err != nil {
				return s.tickError(PhaseIntegrate, err)
			}
		}

		if err := p.Integrate(step); err != nil {
			return s.tickError(PhaseIntegrate, err)
		}
	}

	return nil
}

// constrain runs the solver passes and then evaluates every constraint once.
// The pass count is read once so it stays fixed for the tick.
func (s *Simulator) constrain(step time.Duration) error {
	passes := s.iterations
	n := s.constraints.len()

	for pass := 0; pass < passes; pass++ {
		for k := 0; k < n; k++ {
			c := s.constraints.at(k)
			if err := c.Correct(step, s.particles, pass, passes); err != nil {
				return s.tickError(PhaseConstrain, err)
			}
		}
	}

	for k := 0; k < n; k++ {
		if err := s.constraints.at(k).Evaluate(step, s.particles); err != nil {
			return s.tickError(PhaseEvaluate, err)
		}
	}

	return nil
}

func (s *Simulator) tickError(phase Phase, err error) error {
	return &TickError{Phase: phase, Tick: s.ticks, Err: err}
}
