package sim

import "fmt"

// A Loop is the view of a Simulator for code that runs on its stepping loop:
// entity callbacks, hooks and bodies.
//
// While a frame or a RunTicks batch runs, the loop holds the registry lock.
// The Simulator's own mutating methods take that lock, so calling them from
// the loop would block forever. The Loop instead defers registrations to the
// next cull point, refuses removals and turns Stop into a request honored once
// the frame finishes. Outside of a tick it behaves like the Simulator.
//
// A Loop must not be used from other goroutines; they call the Simulator,
// which waits for the current frame and then applies the change.
type Loop struct {
	s *Simulator
}

// Loop returns the loop-side view of s.
func (s *Simulator) Loop() Loop {
	return Loop{s: s}
}

// Simulator returns the simulator the loop belongs to.
func (l Loop) Simulator() *Simulator {
	return l.s
}

// Stepping reports whether the loop is inside a frame or batch.
func (l Loop) Stepping() bool {
	return l.s.busy.Load()
}

// Add registers e like Simulator.Add. Inside a tick the registration is
// deferred to the start of the next tick.
func (l Loop) Add(e Entity) (Entity, error) {
	if !l.Stepping() {
		return l.s.Add(e)
	}

	if !registrable(e) {
		if l.s.strict {
			return e, fmt.Errorf("%w: %s (%T)", ErrUnknownKind, kindOf(e), e)
		}

		return e, nil
	}

	l.s.pendingLock.Lock()
	l.s.pending = append(l.s.pending, e)
	l.s.pendingLock.Unlock()

	return e, nil
}

// Remove removes a constraint like Simulator.Remove. Inside a tick it returns
// ErrMutationDuringTick; flag the constraint as deleted instead and it is
// culled at the next tick.
func (l Loop) Remove(e Entity) error {
	if !l.Stepping() {
		return l.s.Remove(e)
	}

	if _, ok := e.(Constraint); !ok || kindOf(e) != KindConstraint {
		return nil
	}

	return ErrMutationDuringTick
}

// Stop stops the simulator. Inside a frame, the frame runs to completion and
// no further frame is scheduled.
func (l Loop) Stop() {
	if !l.Stepping() {
		l.s.Stop()
		return
	}

	l.s.stopRequested.Store(true)
}

// Particles returns the live particle registry.
func (l Loop) Particles() []Particle {
	return l.s.particles
}
