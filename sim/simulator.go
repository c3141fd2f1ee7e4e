// Package sim is the stepping core of a particle/constraint physics engine.
//
// A Simulator owns registries of particles, forces, constraints and bodies
// and advances them in fixed ticks. Each host frame, the accumulator turns the
// wall time since the previous frame into zero or more ticks, and every tick
// runs the same pipeline:
//
//  1. cull: drop constraints flagged as deleted;
//  2. integrate: for each particle, apply every force, then integrate;
//  3. constrain: a fixed number of solver passes over the constraints in
//     priority order, then one evaluate call per constraint.
//
// Entity callbacks and hooks run on the stepping loop while it holds the
// registry lock. They reach the simulator through a Loop, which defers
// registrations to the next cull point. Other goroutines call the Simulator
// directly; their calls wait for the current frame to finish.
package sim

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/sarchlab/verlet/instrumentation/hooking"
	"github.com/sarchlab/verlet/timing"
)

// A Simulator advances a world of particles, forces, constraints and bodies.
type Simulator struct {
	*hooking.HookableBase

	lock          sync.Mutex
	busy          atomic.Bool
	state         atomic.Int32
	stopRequested atomic.Bool

	tickInterval time.Duration
	maxBacklog   int
	iterations   int
	priorities   []string
	strict       bool

	scheduler   timing.FrameScheduler
	clock       timing.Clock
	accumulator *timing.Accumulator
	cancelFrame func()
	frameGen    uint64
	err         error

	particles   []Particle
	forces      []Force
	constraints *constraintArena
	bodies      []Body

	pendingLock sync.Mutex
	pending     []Entity

	frames  uint64
	ticks   uint64
	dropped uint64
	simTime time.Duration
}

// TickInterval returns the fixed duration of one tick.
func (s *Simulator) TickInterval() time.Duration {
	return s.tickInterval
}

// Iterations returns the number of solver passes run per tick.
func (s *Simulator) Iterations() int {
	return s.iterations
}

// State returns the lifecycle state. It is safe to call from any goroutine.
func (s *Simulator) State() State {
	return State(s.state.Load())
}

// Err returns the failure that last stopped the simulator, if any. Like
// Stats, it must not be called from entity callbacks or hooks.
func (s *Simulator) Err() error {
	s.lock.Lock()
	defer s.lock.Unlock()

	return s.err
}

// Start moves the simulator to Running and schedules the first frame.
//
// The accumulator is recreated on every call, so calling Start while already
// running discards any wall time that has not been turned into ticks yet.
// Start waits for a running frame to finish, so it must not be called from
// entity callbacks or hooks.
func (s *Simulator) Start() error {
	s.enter()
	defer s.leave()

	acc, err := timing.NewAccumulator(s.tickInterval, s.maxBacklog, s.clock)
	if err != nil {
		return err
	}

	if s.cancelFrame != nil {
		s.cancelFrame()
		s.cancelFrame = nil
	}

	s.accumulator = acc
	s.err = nil
	s.stopRequested.Store(false)
	s.setState(StateRunning)
	s.scheduleFrame()

	return nil
}

// Stop moves the simulator to Stopped and cancels the pending frame. It waits
// for a running frame to finish. From entity callbacks or hooks, use
// Loop.Stop.
func (s *Simulator) Stop() {
	s.enter()
	defer s.leave()

	s.stopLocked()
}

func (s *Simulator) stopLocked() {
	s.stopRequested.Store(false)

	s.frameGen++
	if s.cancelFrame != nil {
		s.cancelFrame()
		s.cancelFrame = nil
	}

	s.setState(StateStopped)
}

func (s *Simulator) setState(state State) {
	if State(s.state.Swap(int32(state))) == state {
		return
	}

	s.InvokeHook(hooking.HookCtx{
		Domain: s,
		Pos:    HookPosStateChange,
		Item:   state,
	})
}

// enter takes the registry lock for work that may call into entities or
// hooks. While it is held, Loop registrations are deferred.
func (s *Simulator) enter() {
	s.lock.Lock()
	s.busy.Store(true)
}

func (s *Simulator) leave() {
	s.busy.Store(false)
	s.lock.Unlock()
}

func (s *Simulator) scheduleFrame() {
	s.frameGen++
	gen := s.frameGen

	s.cancelFrame = s.scheduler.ScheduleOnce(func() { s.frame(gen) })
}

// frame is the frame callback. A callback from an earlier Start, or one that
// fires after Stop, does nothing and does not reschedule, which ends the loop.
func (s *Simulator) frame(gen uint64) {
	s.enter()
	defer s.leave()

	if gen != s.frameGen || s.State() != StateRunning {
		return
	}

	s.cancelFrame = nil

	if err := s.runFrame(); err != nil {
		return
	}

	if s.stopRequested.Load() {
		s.stopLocked()
		return
	}

	s.scheduleFrame()
}

func (s *Simulator) runFrame() error {
	info := FrameInfo{Index: s.frames}
	hookCtx := hooking.HookCtx{
		Domain: s,
		Pos:    HookPosBeforeFrame,
		Item:   info,
	}
	s.InvokeHook(hookCtx)

	droppedBefore := s.accumulator.Dropped()
	step := s.accumulator.Freeze()
	info.Dropped = s.accumulator.Dropped() - droppedBefore
	s.dropped += info.Dropped

	var err error
	for {
		if _, ok := s.accumulator.Next(); !ok {
			break
		}

		if err = s.simulate(step); err != nil {
			break
		}

		info.Ticks++
	}

	s.frames++

	if err != nil {
		s.fail(err)
		info.Err = err
	}

	hookCtx.Pos = HookPosAfterFrame
	hookCtx.Item = info
	s.InvokeHook(hookCtx)

	return err
}

// RunTicks runs n ticks back to back at the fixed interval, without the
// accumulator or the frame scheduler. It is meant for headless batch runs and
// tests. A failing tick stops the run and, like a failing frame, stops the
// simulator. The lifecycle state is left as it is, so a host can use Start and
// Stop to gate its batches.
func (s *Simulator) RunTicks(n int) error {
	s.enter()
	defer s.leave()

	for i := 0; i < n; i++ {
		if err := s.simulate(s.tickInterval); err != nil {
			s.fail(err)
			return err
		}
	}

	if s.stopRequested.Load() {
		s.stopLocked()
	}

	return nil
}

func (s *Simulator) fail(err error) {
	s.err = err

	s.InvokeHook(hooking.HookCtx{
		Domain: s,
		Pos:    HookPosTickFailed,
		Item:   err,
	})

	s.stopLocked()
}

// Stats returns a summary of the simulator. It takes the registry lock, so it
// must not be called from entity callbacks or hooks.
func (s *Simulator) Stats() Stats {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.pendingLock.Lock()
	pending := len(s.pending)
	s.pendingLock.Unlock()

	return Stats{
		State:        s.State(),
		Frames:       s.frames,
		Ticks:        s.ticks,
		DroppedTicks: s.dropped,
		SimTime:      s.simTime,
		Particles:    len(s.particles),
		Forces:       len(s.forces),
		Constraints:  s.constraints.len(),
		Bodies:       len(s.bodies),
		PendingAdds:  pending,
	}
}
