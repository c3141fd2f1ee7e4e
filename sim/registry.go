package sim

import (
	"fmt"

	"github.com/sarchlab/verlet/vec"
)

// Add registers e according to its declared kind and returns it unchanged.
//
// Particles and forces are appended in insertion order. A constraint gets its
// priority from the configured priority list and is inserted in solve order.
// A body is appended and handed a Handle.
//
// An entity whose kind is unknown, or that does not implement the interface
// its kind calls for, is not registered. By default this is silent and the
// returned error is nil; in strict mode the error wraps ErrUnknownKind.
//
// Add waits for a running frame to finish and then registers e at once. It
// must not be called from entity callbacks or hooks; use Loop.Add there.
func (s *Simulator) Add(e Entity) (Entity, error) {
	if !registrable(e) {
		if s.strict {
			return e, fmt.Errorf("%w: %s (%T)", ErrUnknownKind, kindOf(e), e)
		}

		return e, nil
	}

	s.admit(e)

	return e, nil
}

// AddParticle registers a particle.
func (s *Simulator) AddParticle(p Particle) Particle {
	s.admit(p)
	return p
}

// AddForce registers a force.
func (s *Simulator) AddForce(f Force) Force {
	s.admit(f)
	return f
}

// AddConstraint registers a constraint.
func (s *Simulator) AddConstraint(c Constraint) Constraint {
	s.admit(c)
	return c
}

// AddBody registers a body and attaches it to the simulator.
func (s *Simulator) AddBody(b Body) Body {
	s.admit(b)
	return b
}

func kindOf(e Entity) Kind {
	if e == nil {
		return KindUnknown
	}

	return e.Kind()
}

func registrable(e Entity) bool {
	var ok bool

	switch kindOf(e) {
	case KindParticle:
		_, ok = e.(Particle)
	case KindForce:
		_, ok = e.(Force)
	case KindConstraint:
		_, ok = e.(Constraint)
	case KindBody:
		_, ok = e.(Body)
	}

	return ok
}

func (s *Simulator) admit(e Entity) {
	s.enter()
	defer s.leave()

	body, handle := s.register(e)
	if body == nil {
		return
	}

	// The body registers its parts through its handle. With the simulator
	// marked busy they are queued, then landed before returning.
	body.SetSimulator(handle)
	s.applyPending()
}

// register stores e in the registry of its kind. For bodies it returns the
// body and its handle; the caller attaches them.
func (s *Simulator) register(e Entity) (Body, Handle) {
	switch kindOf(e) {
	case KindParticle:
		s.particles = append(s.particles, e.(Particle))
	case KindForce:
		s.forces = append(s.forces, e.(Force))
	case KindConstraint:
		c := e.(Constraint)
		c.SetPriority(s.priorities)
		s.constraints.insert(c)
	case KindBody:
		b := e.(Body)
		s.bodies = append(s.bodies, b)

		return b, Handle{index: len(s.bodies) - 1, owner: s.Loop()}
	}

	return nil, Handle{}
}

// applyPending registers the entities deferred while stepping. It runs with
// the lock held, at the cull point or after a body has been attached. Bodies
// attached here register their parts through the pending queue as well, so it
// is drained until empty.
func (s *Simulator) applyPending() {
	for {
		s.pendingLock.Lock()
		batch := s.pending
		s.pending = nil
		s.pendingLock.Unlock()

		if len(batch) == 0 {
			return
		}

		for _, e := range batch {
			body, handle := s.register(e)
			if body != nil {
				body.SetSimulator(handle)
			}
		}
	}
}

// Remove unregisters a constraint immediately. It returns an error wrapping
// ErrNotFound if the constraint is not registered, leaving the registry
// untouched. Entities of other kinds cannot be removed and are ignored.
//
// Remove waits for a running frame to finish. It must not be called from
// entity callbacks or hooks; use Loop.Remove there.
func (s *Simulator) Remove(e Entity) error {
	c, ok := e.(Constraint)
	if !ok || kindOf(e) != KindConstraint {
		return nil
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	if !s.constraints.remove(c.ID()) {
		return fmt.Errorf("%w: constraint %d", ErrNotFound, c.ID())
	}

	return nil
}

// FindNearest returns the particle closest to point whose squared distance is
// strictly below radius². Ties go to the particle registered first.
//
// Like the other registry accessors, FindNearest does not lock. Call it from
// the loop (entity callbacks, hooks) or when nothing is stepping concurrently;
// other goroutines should use Snapshot.
func (s *Simulator) FindNearest(point vec.Vec2, radius float64) (Particle, bool) {
	i := nearest(len(s.particles), func(i int) vec.Vec2 {
		return s.particles[i].Position()
	}, point, radius)

	if i < 0 {
		return nil, false
	}

	return s.particles[i], true
}

func nearest(
	n int,
	position func(i int) vec.Vec2,
	point vec.Vec2,
	radius float64,
) int {
	found := -1
	best := radius * radius

	for i := 0; i < n; i++ {
		d := position(i).DistanceSquared(point)
		if d < best {
			found = i
			best = d
		}
	}

	return found
}

// Particles returns the live particle registry. The slice is shared with the
// simulator, not copied.
func (s *Simulator) Particles() []Particle {
	return s.particles
}

// Forces returns the live force registry.
func (s *Simulator) Forces() []Force {
	return s.forces
}

// Bodies returns the live body registry.
func (s *Simulator) Bodies() []Body {
	return s.bodies
}

// Constraints returns the registered constraints in solve order.
func (s *Simulator) Constraints() []Constraint {
	return s.constraints.list()
}

// Snapshot is a copy of the particle positions taken under the registry lock.
type Snapshot struct {
	Tick      uint64     `json:"tick"`
	Positions []vec.Vec2 `json:"positions"`
}

// Nearest applies the FindNearest rule to the snapshot and returns the index
// of the particle found, or -1.
func (sn Snapshot) Nearest(point vec.Vec2, radius float64) int {
	return nearest(len(sn.Positions), func(i int) vec.Vec2 {
		return sn.Positions[i]
	}, point, radius)
}

// Snapshot copies the particle positions. It takes the registry lock, so it
// is safe from other goroutines but must not be called from the loop.
func (s *Simulator) Snapshot() Snapshot {
	s.lock.Lock()
	defer s.lock.Unlock()

	sn := Snapshot{
		Tick:      s.ticks,
		Positions: make([]vec.Vec2, len(s.particles)),
	}

	for i, p := range s.particles {
		sn.Positions[i] = p.Position()
	}

	return sn
}
