// Package tracing provides hooks that observe a sim.Simulator: a logger, a
// frame timer, hook counters and a per-tick recorder.
package tracing

import (
	"log"

	"github.com/sarchlab/verlet/instrumentation/hooking"
	"github.com/sarchlab/verlet/sim"
	"github.com/sarchlab/verlet/timing"
)

// TickLogger is a hook that prints tick information.
type TickLogger struct {
	Logger *log.Logger
}

// NewTickLogger returns a TickLogger writing into logger.
func NewTickLogger(logger *log.Logger) *TickLogger {
	return &TickLogger{Logger: logger}
}

// Func writes completed ticks, failures and state changes into the logger.
func (h *TickLogger) Func(ctx hooking.HookCtx) {
	switch ctx.Pos {
	case sim.HookPosAfterTick:
		tick, ok := ctx.Item.(timing.Tick)
		if !ok {
			return
		}

		info, _ := ctx.Detail.(sim.TickInfo)
		h.Logger.Printf("tick %d, t=%s, particles=%d, constraints=%d, culled=%d",
			tick.Index, tick.Time,
			info.Particles, info.Constraints, info.Culled)
	case sim.HookPosTickFailed:
		h.Logger.Printf("tick failed: %v", ctx.Item)
	case sim.HookPosStateChange:
		h.Logger.Printf("simulator %s", ctx.Item)
	}
}
