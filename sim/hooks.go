package sim

import "github.com/sarchlab/verlet/instrumentation/hooking"

var (
	// HookPosBeforeFrame fires when a frame callback starts stepping.
	// Item is a FrameInfo.
	HookPosBeforeFrame = &hooking.HookPos{Name: "BeforeFrame"}

	// HookPosAfterFrame fires when a frame callback finished draining its
	// ticks, successfully or not. Item is a FrameInfo.
	HookPosAfterFrame = &hooking.HookPos{Name: "AfterFrame"}

	// HookPosBeforeTick fires before the cull phase. Item is a timing.Tick.
	HookPosBeforeTick = &hooking.HookPos{Name: "BeforeTick"}

	// HookPosAfterTick fires after the evaluate phase. Item is a
	// timing.Tick, Detail a TickInfo.
	HookPosAfterTick = &hooking.HookPos{Name: "AfterTick"}

	// HookPosTickFailed fires when a tick is aborted. Item is a *TickError.
	HookPosTickFailed = &hooking.HookPos{Name: "TickFailed"}

	// HookPosStateChange fires on Stopped/Running transitions. Item is the
	// new State.
	HookPosStateChange = &hooking.HookPos{Name: "StateChange"}
)

// FrameInfo describes one frame callback.
type FrameInfo struct {
	Index   uint64
	Ticks   int
	Dropped uint64
	Err     error
}

// TickInfo carries registry sizes observed at the end of a tick.
type TickInfo struct {
	Particles   int
	Forces      int
	Constraints int
	Culled      int
}
