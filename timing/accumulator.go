// Package timing turns variable host frame timing into fixed simulation ticks.
package timing

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInvalidInterval is returned when the tick interval is not positive.
	ErrInvalidInterval = errors.New("timing: tick interval must be positive")

	// ErrInvalidBacklog is returned when the backlog cap is below one tick.
	ErrInvalidBacklog = errors.New("timing: max backlog must be at least 1")
)

// Tick is one fixed-duration step of simulated time.
type Tick struct {
	// Index counts the ticks produced by the accumulator, starting at 0.
	Index uint64

	// Time is the simulated time at the end of the tick.
	Time time.Duration
}

// An Accumulator buckets wall-clock time into a bounded queue of fixed ticks.
//
// Freeze is called once per host frame. It measures the wall time elapsed since
// the previous Freeze and turns it into pending ticks. Next then hands the
// pending ticks out one at a time. Ticks that would push the backlog above the
// cap are discarded together with the sub-tick remainder, so a long stall
// costs at most maxBacklog ticks of catch-up.
type Accumulator struct {
	interval   time.Duration
	maxBacklog int
	clock      Clock

	last    time.Time
	carry   time.Duration
	pending int
	emitted uint64
	dropped uint64
}

// NewAccumulator creates an Accumulator whose reference point is the clock's
// current time.
func NewAccumulator(
	interval time.Duration,
	maxBacklog int,
	clock Clock,
) (*Accumulator, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInterval, interval)
	}

	if maxBacklog < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidBacklog, maxBacklog)
	}

	if clock == nil {
		clock = WallClock{}
	}

	return &Accumulator{
		interval:   interval,
		maxBacklog: maxBacklog,
		clock:      clock,
		last:       clock.Now(),
	}, nil
}

// Interval returns the fixed tick duration.
func (a *Accumulator) Interval() time.Duration {
	return a.interval
}

// MaxBacklog returns the cap on pending ticks.
func (a *Accumulator) MaxBacklog() int {
	return a.maxBacklog
}

// Freeze captures the wall time elapsed since the last call and enqueues the
// whole ticks it covers, up to the backlog cap. It returns the tick interval.
func (a *Accumulator) Freeze() time.Duration {
	now := a.clock.Now()
	elapsed := now.Sub(a.last)
	a.last = now

	if elapsed < 0 {
		elapsed = 0
	}

	total := a.carry + elapsed
	n := int(total / a.interval)
	a.carry = total % a.interval

	room := a.maxBacklog - a.pending
	if n > room {
		a.dropped += uint64(n - room)
		n = room
		a.carry = 0
	}

	a.pending += n

	return a.interval
}

// Next dequeues one pending tick. It returns false once the ticks enqueued by
// the last Freeze are exhausted.
func (a *Accumulator) Next() (Tick, bool) {
	if a.pending == 0 {
		return Tick{}, false
	}

	a.pending--
	tick := Tick{
		Index: a.emitted,
		Time:  time.Duration(a.emitted+1) * a.interval,
	}
	a.emitted++

	return tick, true
}

// Pending returns the number of ticks waiting to be dequeued.
func (a *Accumulator) Pending() int {
	return a.pending
}

// Emitted returns the number of ticks handed out by Next so far.
func (a *Accumulator) Emitted() uint64 {
	return a.emitted
}

// Dropped returns the number of ticks discarded because of the backlog cap.
func (a *Accumulator) Dropped() uint64 {
	return a.dropped
}
