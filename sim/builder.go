package sim

import (
	"fmt"
	"slices"

	"github.com/sarchlab/verlet/instrumentation/hooking"
	"github.com/sarchlab/verlet/timing"
)

// Builder can build Simulators.
type Builder struct {
	tickRate   timing.Freq
	maxBacklog int
	iterations int
	priorities []string
	scheduler  timing.FrameScheduler
	clock      timing.Clock
	strict     bool
}

// MakeBuilder creates a Builder with the default settings: 60 ticks per
// second, a backlog of 100 ticks and 10 solver passes per tick.
func MakeBuilder() Builder {
	return Builder{
		tickRate:   60 * timing.Hz,
		maxBacklog: 100,
		iterations: 10,
	}
}

// WithTickRate sets how many fixed ticks make up one simulated second.
func (b Builder) WithTickRate(freq timing.Freq) Builder {
	b.tickRate = freq
	return b
}

// WithMaxBacklog sets the most ticks a single frame may catch up on.
func (b Builder) WithMaxBacklog(ticks int) Builder {
	b.maxBacklog = ticks
	return b
}

// WithIterations sets the number of solver passes per tick.
func (b Builder) WithIterations(passes int) Builder {
	b.iterations = passes
	return b
}

// WithPriorities sets the constraint categories in solve order.
func (b Builder) WithPriorities(categories []string) Builder {
	b.priorities = slices.Clone(categories)
	return b
}

// WithFrameScheduler sets the host frame primitive. By default frames are
// emulated with timers at the tick rate.
func (b Builder) WithFrameScheduler(s timing.FrameScheduler) Builder {
	b.scheduler = s
	return b
}

// WithClock sets the wall clock read by the accumulator.
func (b Builder) WithClock(c timing.Clock) Builder {
	b.clock = c
	return b
}

// WithStrictRegistration makes Add fail on entities it cannot register
// instead of ignoring them.
func (b Builder) WithStrictRegistration() Builder {
	b.strict = true
	return b
}

// Build creates a Simulator in the Stopped state.
func (b Builder) Build() *Simulator {
	if b.tickRate <= 0 {
		panic(fmt.Sprintf("sim: tick rate must be positive, got %f", b.tickRate))
	}

	if b.maxBacklog < 1 {
		panic(fmt.Sprintf("sim: max backlog must be at least 1, got %d",
			b.maxBacklog))
	}

	if b.iterations < 1 {
		panic(fmt.Sprintf("sim: iterations must be at least 1, got %d",
			b.iterations))
	}

	s := &Simulator{
		HookableBase: hooking.NewHookableBase(),
		tickInterval: b.tickRate.Period(),
		maxBacklog:   b.maxBacklog,
		iterations:   b.iterations,
		priorities:   b.priorities,
		strict:       b.strict,
		scheduler:    b.scheduler,
		clock:        b.clock,
		constraints:  newConstraintArena(),
	}

	if s.scheduler == nil {
		s.scheduler = timing.NewIntervalScheduler(b.tickRate)
	}

	if s.clock == nil {
		s.clock = timing.WallClock{}
	}

	return s
}
