package entities

import (
	"time"

	"github.com/sarchlab/verlet/sim"
	"github.com/sarchlab/verlet/vec"
)

// Pin holds a point at an anchor.
type Pin struct {
	*sim.ConstraintBase

	point  *Point
	anchor vec.Vec2
}

// NewPin anchors p where it currently is.
func NewPin(p *Point) *Pin {
	return &Pin{
		ConstraintBase: sim.NewConstraintBase(CategoryPin),
		point:          p,
		anchor:         p.Position(),
	}
}

// Anchor returns where the point is held.
func (c *Pin) Anchor() vec.Vec2 {
	return c.anchor
}

// SetAnchor moves the anchor. The point follows on the next pass.
func (c *Pin) SetAnchor(a vec.Vec2) {
	c.anchor = a
}

// Correct places the point on the anchor.
func (c *Pin) Correct(time.Duration, []sim.Particle, int, int) error {
	c.point.Place(c.anchor)
	return nil
}

// Evaluate does nothing.
func (c *Pin) Evaluate(time.Duration, []sim.Particle) error {
	return nil
}
