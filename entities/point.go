// Package entities provides reference particles, forces, constraints and
// bodies for the sim package: Verlet points held together by distance and pin
// constraints, moved by gravity and slowed by drag.
package entities

import (
	"errors"
	"log"
	"math"
	"time"

	"github.com/sarchlab/verlet/sim"
	"github.com/sarchlab/verlet/vec"
)

// ErrDiverged is returned when a point's position stops being finite.
var ErrDiverged = errors.New("entities: point position diverged")

// A Point is a position-based particle. Its velocity is implicit in the
// difference between the current and the previous position.
type Point struct {
	pos      vec.Vec2
	prev     vec.Vec2
	acc      vec.Vec2
	mass     float64
	friction float64
	pinned   bool
}

// NewPoint creates a resting point of unit mass at pos.
func NewPoint(pos vec.Vec2) *Point {
	return &Point{
		pos:      pos,
		prev:     pos,
		mass:     1,
		friction: 1,
	}
}

// Kind returns sim.KindParticle.
func (p *Point) Kind() sim.Kind {
	return sim.KindParticle
}

// Position returns the current position.
func (p *Point) Position() vec.Vec2 {
	return p.pos
}

// Previous returns the position before the last integration.
func (p *Point) Previous() vec.Vec2 {
	return p.prev
}

// Displacement returns how far the point moved during the last tick.
func (p *Point) Displacement() vec.Vec2 {
	return p.pos.Sub(p.prev)
}

// Mass returns the point mass.
func (p *Point) Mass() float64 {
	return p.mass
}

// SetMass changes the point mass. The mass must be positive.
func (p *Point) SetMass(m float64) {
	if m <= 0 {
		log.Panic("point mass must be positive")
	}

	p.mass = m
}

// InvMass returns the inverse mass, or 0 for pinned points.
func (p *Point) InvMass() float64 {
	if p.pinned {
		return 0
	}

	return 1 / p.mass
}

// SetFriction sets the fraction of the implicit velocity kept each tick.
func (p *Point) SetFriction(f float64) {
	p.friction = f
}

// Pinned reports whether the point is held in place.
func (p *Point) Pinned() bool {
	return p.pinned
}

// Pin holds the point in place, or releases it.
func (p *Point) Pin(pinned bool) {
	p.pinned = pinned
}

// Accelerate adds a to the acceleration accumulated for the next tick.
func (p *Point) Accelerate(a vec.Vec2) {
	p.acc = p.acc.Add(a)
}

// Push applies force f, scaled by the point's mass.
func (p *Point) Push(f vec.Vec2) {
	p.acc = p.acc.Add(f.Scale(1 / p.mass))
}

// Damp removes the fraction k of the point's implicit velocity.
func (p *Point) Damp(k float64) {
	p.prev = p.pos.Sub(p.Displacement().Scale(1 - k))
}

// Place teleports the point to pos, leaving it at rest.
func (p *Point) Place(pos vec.Vec2) {
	p.pos = pos
	p.prev = pos
}

// Move shifts the point without changing its implicit velocity history. It is
// how constraints push points around.
func (p *Point) Move(delta vec.Vec2) {
	p.pos = p.pos.Add(delta)
}

// Integrate advances the point with position Verlet integration:
//
//	x' = x + (x - prev) * friction + a * dt²
//
// and clears the accumulated acceleration.
func (p *Point) Integrate(step time.Duration) error {
	defer func() { p.acc = vec.Vec2{} }()

	if p.pinned {
		p.prev = p.pos
		return nil
	}

	dt := step.Seconds()
	next := p.pos.
		Add(p.Displacement().Scale(p.friction)).
		Add(p.acc.Scale(dt * dt))

	if !finite(next) {
		return ErrDiverged
	}

	p.prev = p.pos
	p.pos = next

	return nil
}

func finite(v vec.Vec2) bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) &&
		!math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0)
}
