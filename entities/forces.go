package entities

import (
	"github.com/sarchlab/verlet/sim"
	"github.com/sarchlab/verlet/vec"
)

// Accelerable is a particle that accepts accelerations.
type Accelerable interface {
	Accelerate(a vec.Vec2)
}

// Dampable is a particle that can lose part of its velocity.
type Dampable interface {
	Damp(k float64)
}

// Gravity accelerates every particle by the same amount.
type Gravity struct {
	Acceleration vec.Vec2
}

// NewGravity creates a Gravity force pulling with acceleration a.
func NewGravity(a vec.Vec2) *Gravity {
	return &Gravity{Acceleration: a}
}

// Kind returns sim.KindForce.
func (g *Gravity) Kind() sim.Kind {
	return sim.KindForce
}

// ApplyTo accelerates p. Particles that cannot be accelerated are skipped.
func (g *Gravity) ApplyTo(p sim.Particle) error {
	if a, ok := p.(Accelerable); ok {
		a.Accelerate(g.Acceleration)
	}

	return nil
}

// Drag slows particles down in proportion to their velocity.
type Drag struct {
	Coefficient float64
}

// NewDrag creates a Drag removing the fraction k of the velocity per tick.
func NewDrag(k float64) *Drag {
	return &Drag{Coefficient: k}
}

// Kind returns sim.KindForce.
func (d *Drag) Kind() sim.Kind {
	return sim.KindForce
}

// ApplyTo damps p. Particles that cannot be damped are skipped.
func (d *Drag) ApplyTo(p sim.Particle) error {
	if dp, ok := p.(Dampable); ok {
		dp.Damp(d.Coefficient)
	}

	return nil
}
