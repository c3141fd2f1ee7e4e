package tracing

import (
	"github.com/sarchlab/verlet/datarecording"
	"github.com/sarchlab/verlet/instrumentation/hooking"
	"github.com/sarchlab/verlet/sim"
	"github.com/sarchlab/verlet/timing"
)

// TickRow is the record written for every completed tick.
type TickRow struct {
	Tick        uint64
	SimTimeNs   int64
	Particles   int
	Forces      int
	Constraints int
	Culled      int
}

// FailureRow is the record written for every failed tick.
type FailureRow struct {
	Tick  uint64
	Phase string
	Error string
}

// TickRecorder writes one row per tick into a DataRecorder.
type TickRecorder struct {
	recorder     datarecording.DataRecorder
	tickTable    string
	failureTable string
}

// NewTickRecorder creates the tick and failure tables, named after prefix,
// and returns a hook filling them.
func NewTickRecorder(
	recorder datarecording.DataRecorder,
	prefix string,
) *TickRecorder {
	r := &TickRecorder{
		recorder:     recorder,
		tickTable:    prefix + "_ticks",
		failureTable: prefix + "_failures",
	}

	recorder.CreateTable(r.tickTable, TickRow{})
	recorder.CreateTable(r.failureTable, FailureRow{})

	return r
}

// Func records completed and failed ticks.
func (r *TickRecorder) Func(ctx hooking.HookCtx) {
	switch ctx.Pos {
	case sim.HookPosAfterTick:
		tick, ok := ctx.Item.(timing.Tick)
		if !ok {
			return
		}

		info, _ := ctx.Detail.(sim.TickInfo)
		r.recorder.InsertData(r.tickTable, TickRow{
			Tick:        tick.Index,
			SimTimeNs:   tick.Time.Nanoseconds(),
			Particles:   info.Particles,
			Forces:      info.Forces,
			Constraints: info.Constraints,
			Culled:      info.Culled,
		})
	case sim.HookPosTickFailed:
		tickErr, ok := ctx.Item.(*sim.TickError)
		if !ok {
			return
		}

		r.recorder.InsertData(r.failureTable, FailureRow{
			Tick:  tickErr.Tick,
			Phase: tickErr.Phase.String(),
			Error: tickErr.Err.Error(),
		})
	}
}
