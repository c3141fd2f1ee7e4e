package sim

// registrar is the part of the Simulator a body is allowed to reach.
type registrar interface {
	Add(e Entity) (Entity, error)
	Remove(e Entity) error
	Particles() []Particle
}

// A Handle is a body's non-owning reference to the simulator it was added
// to. It only exposes registration and the particle registry, and it is a
// plain value: copying it does not copy or retain any simulator state beyond
// the reference itself.
//
// A body runs on the stepping loop, so its handle goes through the
// simulator's Loop: additions made inside a tick are deferred and removals
// are refused.
type Handle struct {
	index int
	owner registrar
}

// Index returns the body's position in the body registry.
func (h Handle) Index() int {
	return h.index
}

// Attached reports whether the handle refers to a simulator.
func (h Handle) Attached() bool {
	return h.owner != nil
}

// Add registers e with the simulator the body belongs to.
func (h Handle) Add(e Entity) (Entity, error) {
	if h.owner == nil {
		return e, ErrDetached
	}

	return h.owner.Add(e)
}

// Remove removes a constraint from the simulator the body belongs to.
func (h Handle) Remove(e Entity) error {
	if h.owner == nil {
		return ErrDetached
	}

	return h.owner.Remove(e)
}

// Particles returns the simulator's live particle registry, or nil when the
// handle is detached.
func (h Handle) Particles() []Particle {
	if h.owner == nil {
		return nil
	}

	return h.owner.Particles()
}
