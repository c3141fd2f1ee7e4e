package entities

import (
	"time"

	"github.com/sarchlab/verlet/sim"
)

// Constraint categories used by the entities in this package.
const (
	CategoryPin      = "pin"
	CategoryDistance = "distance"
)

// Distance keeps two points at a fixed rest length.
//
// The stiffness is ramped over the solver passes, reaching its full value on
// the last pass. A Distance with a tear ratio flags itself as deleted once the
// points end a tick farther apart than rest length times that ratio.
type Distance struct {
	*sim.ConstraintBase

	a, b      *Point
	rest      float64
	stiffness float64
	tearRatio float64
}

// NewDistance links a and b at their current distance with full stiffness.
func NewDistance(a, b *Point) *Distance {
	return &Distance{
		ConstraintBase: sim.NewConstraintBase(CategoryDistance),
		a:              a,
		b:              b,
		rest:           a.Position().Distance(b.Position()),
		stiffness:      1,
	}
}

// Ends returns the two linked points.
func (d *Distance) Ends() (*Point, *Point) {
	return d.a, d.b
}

// RestLength returns the length the constraint pulls towards.
func (d *Distance) RestLength() float64 {
	return d.rest
}

// SetRestLength changes the rest length.
func (d *Distance) SetRestLength(l float64) {
	d.rest = l
}

// SetStiffness sets the full-pass stiffness, between 0 and 1.
func (d *Distance) SetStiffness(k float64) {
	d.stiffness = k
}

// SetTearRatio sets how far, relative to the rest length, the link may
// stretch before it breaks. Zero means it never breaks.
func (d *Distance) SetTearRatio(r float64) {
	d.tearRatio = r
}

// Correct moves both ends towards the rest length, each in proportion to its
// inverse mass.
func (d *Distance) Correct(
	_ time.Duration,
	_ []sim.Particle,
	pass, passes int,
) error {
	delta := d.b.Position().Sub(d.a.Position())
	length := delta.Length()

	wa, wb := d.a.InvMass(), d.b.InvMass()
	if length == 0 || wa+wb == 0 {
		return nil
	}

	k := d.stiffness * float64(pass+1) / float64(passes)
	diff := (length - d.rest) / length * k

	d.a.Move(delta.Scale(diff * wa / (wa + wb)))
	d.b.Move(delta.Scale(-diff * wb / (wa + wb)))

	return nil
}

// Evaluate tears the link if it is overstretched.
func (d *Distance) Evaluate(_ time.Duration, _ []sim.Particle) error {
	if d.tearRatio <= 0 {
		return nil
	}

	if d.a.Position().Distance(d.b.Position()) > d.rest*d.tearRatio {
		d.MarkDeleted()
	}

	return nil
}
