package tracing

import (
	"sync"
	"time"

	"github.com/sarchlab/verlet/instrumentation/hooking"
	"github.com/sarchlab/verlet/sim"
	"github.com/sarchlab/verlet/timing"
)

// FrameTimeTracer measures the wall time spent inside frame callbacks.
type FrameTimeTracer struct {
	clock timing.Clock

	lock    sync.Mutex
	start   time.Time
	started bool
	frames  uint64
	average time.Duration
	max     time.Duration
}

// NewFrameTimeTracer creates a FrameTimeTracer reading clock. A nil clock
// reads the wall time.
func NewFrameTimeTracer(clock timing.Clock) *FrameTimeTracer {
	if clock == nil {
		clock = timing.WallClock{}
	}

	return &FrameTimeTracer{clock: clock}
}

// Func starts the measurement before a frame and ends it after.
func (t *FrameTimeTracer) Func(ctx hooking.HookCtx) {
	switch ctx.Pos {
	case sim.HookPosBeforeFrame:
		t.lock.Lock()
		t.start = t.clock.Now()
		t.started = true
		t.lock.Unlock()
	case sim.HookPosAfterFrame:
		t.endFrame()
	}
}

func (t *FrameTimeTracer) endFrame() {
	t.lock.Lock()
	defer t.lock.Unlock()

	if !t.started {
		return
	}

	d := t.clock.Now().Sub(t.start)
	t.started = false

	t.average = time.Duration(
		(float64(t.average)*float64(t.frames) + float64(d)) /
			float64(t.frames+1))
	t.frames++

	if d > t.max {
		t.max = d
	}
}

// Frames returns the number of frames measured.
func (t *FrameTimeTracer) Frames() uint64 {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.frames
}

// Average returns the mean frame duration.
func (t *FrameTimeTracer) Average() time.Duration {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.average
}

// Max returns the longest frame duration.
func (t *FrameTimeTracer) Max() time.Duration {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.max
}
