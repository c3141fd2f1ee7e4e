package cmd

import (
	"github.com/sarchlab/verlet/entities"
	"github.com/sarchlab/verlet/sim"
	"github.com/sarchlab/verlet/vec"
)

const (
	sceneGravity = 9.8
	sceneDrag    = 0.01
)

// buildScene adds the demo scene to s: a rope of the given number of unit
// segments hanging from its pinned left end, under gravity and drag.
func buildScene(s *sim.Simulator, ropeLength int) *entities.Rope {
	s.AddForce(entities.NewGravity(vec.Vec2{Y: sceneGravity}))
	s.AddForce(entities.NewDrag(sceneDrag))

	rope := entities.NewRope(
		vec.Vec2{},
		vec.Vec2{X: float64(ropeLength)},
		ropeLength,
	).WithTearRatio(3)
	s.AddBody(rope)

	return rope
}
