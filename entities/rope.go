package entities

import (
	"log"

	"github.com/sarchlab/verlet/sim"
	"github.com/sarchlab/verlet/vec"
)

// A Rope is a chain of points linked by distance constraints. It creates its
// parts when it is added to a simulator.
type Rope struct {
	start, end vec.Vec2
	segments   int
	stiffness  float64
	tearRatio  float64
	friction   float64
	pinStart   bool

	handle sim.Handle
	points []*Point
	links  []*Distance
	pin    *Pin
	err    error
}

// NewRope creates a rope of the given number of segments stretched from
// start to end. The first point is pinned.
func NewRope(start, end vec.Vec2, segments int) *Rope {
	if segments < 1 {
		log.Panic("a rope needs at least one segment")
	}

	return &Rope{
		start:     start,
		end:       end,
		segments:  segments,
		stiffness: 1,
		friction:  1,
		pinStart:  true,
	}
}

// WithStiffness sets the stiffness of every link.
func (r *Rope) WithStiffness(k float64) *Rope {
	r.stiffness = k
	return r
}

// WithTearRatio lets links break when stretched past ratio times their rest
// length.
func (r *Rope) WithTearRatio(ratio float64) *Rope {
	r.tearRatio = ratio
	return r
}

// WithFriction sets the friction of every point.
func (r *Rope) WithFriction(f float64) *Rope {
	r.friction = f
	return r
}

// WithPinnedStart sets whether the first point is held at its start position.
func (r *Rope) WithPinnedStart(pinned bool) *Rope {
	r.pinStart = pinned
	return r
}

// Kind returns sim.KindBody.
func (r *Rope) Kind() sim.Kind {
	return sim.KindBody
}

// SetSimulator builds the rope's points and links and registers them through
// h.
func (r *Rope) SetSimulator(h sim.Handle) {
	r.handle = h
	r.points = r.points[:0]
	r.links = r.links[:0]

	step := r.end.Sub(r.start).Scale(1 / float64(r.segments))
	for i := 0; i <= r.segments; i++ {
		p := NewPoint(r.start.Add(step.Scale(float64(i))))
		p.SetFriction(r.friction)
		r.points = append(r.points, p)
		r.add(p)
	}

	for i := 1; i <= r.segments; i++ {
		link := NewDistance(r.points[i-1], r.points[i])
		link.SetStiffness(r.stiffness)
		link.SetTearRatio(r.tearRatio)
		r.links = append(r.links, link)
		r.add(link)
	}

	if r.pinStart {
		r.points[0].Pin(true)
		r.pin = NewPin(r.points[0])
		r.add(r.pin)
	}
}

func (r *Rope) add(e sim.Entity) {
	if _, err := r.handle.Add(e); err != nil && r.err == nil {
		r.err = err
	}
}

// Handle returns the handle given by the simulator.
func (r *Rope) Handle() sim.Handle {
	return r.handle
}

// Points returns the rope's points from start to end.
func (r *Rope) Points() []*Point {
	return r.points
}

// Links returns the rope's distance constraints from start to end, including
// torn ones.
func (r *Rope) Links() []*Distance {
	return r.links
}

// Err returns the first registration error met while attaching the rope.
func (r *Rope) Err() error {
	return r.err
}

// Torn reports whether any link has broken.
func (r *Rope) Torn() bool {
	for _, l := range r.links {
		if l.Deleted() {
			return true
		}
	}

	return false
}
