package sim

import (
	"sync/atomic"
	"time"

	"github.com/sarchlab/verlet/idgen"
	"github.com/sarchlab/verlet/vec"
)

// Kind is the declared variant of a registrable entity.
type Kind int

// The registrable variants.
const (
	KindUnknown Kind = iota
	KindParticle
	KindForce
	KindConstraint
	KindBody
)

func (k Kind) String() string {
	switch k {
	case KindParticle:
		return "Particle"
	case KindForce:
		return "Force"
	case KindConstraint:
		return "Constraint"
	case KindBody:
		return "Body"
	default:
		return "Unknown"
	}
}

// An Entity is anything that can be added to a Simulator. Kind selects the
// registration path; the entity must also implement the matching variant
// interface (Particle, Force, Constraint or Body) to be registered.
type Entity interface {
	Kind() Kind
}

// A Particle is a point mass moved by the simulator.
type Particle interface {
	Entity

	// Position returns where the particle currently is.
	Position() vec.Vec2

	// Integrate advances the particle's motion by one tick.
	Integrate(step time.Duration) error
}

// A Force acts on particles before they integrate. Forces are applied in
// registration order, all of them to one particle before the next particle.
type Force interface {
	Entity

	ApplyTo(p Particle) error
}

// A Constraint corrects particle state towards satisfying a geometric or
// physical relation.
type Constraint interface {
	Entity

	// ID returns the constraint's unique id.
	ID() idgen.ID

	// SetPriority derives the constraint's priority from the simulator's
	// priority list. It is called once, at registration.
	SetPriority(order []string)

	// Priority returns the priority assigned by SetPriority.
	Priority() int

	// Deleted reports whether the constraint is flagged for removal.
	Deleted() bool

	// Correct runs one solver pass. pass counts from 0 to passes-1.
	Correct(
		step time.Duration,
		particles []Particle,
		pass, passes int,
	) error

	// Evaluate runs once per tick, after every pass has completed.
	Evaluate(step time.Duration, particles []Particle) error
}

// A Body is a composite of particles and constraints. It is given a Handle
// when registered and manages its own parts through it.
type Body interface {
	Entity

	SetSimulator(h Handle)
}

// ConstraintBase provides the bookkeeping every Constraint needs. It is meant
// to be embedded.
type ConstraintBase struct {
	id       idgen.ID
	category string
	priority int
	deleted  atomic.Bool
}

// NewConstraintBase creates a ConstraintBase with a fresh id. The category is
// matched against the simulator's priority list.
func NewConstraintBase(category string) *ConstraintBase {
	return &ConstraintBase{
		id:       idgen.Default().Generate(),
		category: category,
	}
}

// Kind returns KindConstraint.
func (b *ConstraintBase) Kind() Kind {
	return KindConstraint
}

// ID returns the constraint id.
func (b *ConstraintBase) ID() idgen.ID {
	return b.id
}

// Category returns the name used to look the constraint up in priority lists.
func (b *ConstraintBase) Category() string {
	return b.category
}

// SetPriority gives the constraint priority len(order)-i, where i is the
// position of its category in order. Earlier categories solve first.
// Categories missing from the list get priority 0.
func (b *ConstraintBase) SetPriority(order []string) {
	b.priority = 0

	for i, category := range order {
		if category == b.category {
			b.priority = len(order) - i
			return
		}
	}
}

// Priority returns the priority assigned by SetPriority.
func (b *ConstraintBase) Priority() int {
	return b.priority
}

// Deleted reports whether MarkDeleted was called.
func (b *ConstraintBase) Deleted() bool {
	return b.deleted.Load()
}

// MarkDeleted flags the constraint. The simulator drops it at the start of
// the next tick. It is safe to call from inside Correct or Evaluate.
func (b *ConstraintBase) MarkDeleted() {
	b.deleted.Store(true)
}
