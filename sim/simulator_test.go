package sim

import (
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/verlet/instrumentation/hooking"
	"github.com/sarchlab/verlet/timing"
	"github.com/sarchlab/verlet/vec"
)

type hookRecord struct {
	pos  *hooking.HookPos
	item any
}

var _ = Describe("Simulator", func() {
	var (
		clock     *timing.ManualClock
		scheduler *timing.ManualScheduler
		s         *Simulator
		records   []hookRecord
	)

	BeforeEach(func() {
		clock = timing.NewManualClock(time.Unix(0, 0))
		scheduler = timing.NewManualScheduler()
		s = MakeBuilder().
			WithTickRate(100 * timing.Hz).
			WithMaxBacklog(5).
			WithIterations(2).
			WithFrameScheduler(scheduler).
			WithClock(clock).
			Build()

		records = nil
		s.AcceptHook(hooking.HookFunc(func(ctx hooking.HookCtx) {
			records = append(records, hookRecord{pos: ctx.Pos, item: ctx.Item})
		}))
	})

	positions := func() []*hooking.HookPos {
		var out []*hooking.HookPos
		for _, r := range records {
			out = append(out, r.pos)
		}

		return out
	}

	It("should start stopped", func() {
		Expect(s.State()).To(Equal(StateStopped))
		Expect(scheduler.Pending()).To(BeZero())
		Expect(s.TickInterval()).To(Equal(10 * time.Millisecond))
		Expect(s.Iterations()).To(Equal(2))
	})

	It("should schedule one frame on start", func() {
		Expect(s.Start()).To(Succeed())

		Expect(s.State()).To(Equal(StateRunning))
		Expect(scheduler.Pending()).To(Equal(1))
		Expect(records).To(Equal([]hookRecord{
			{pos: HookPosStateChange, item: StateRunning},
		}))
	})

	It("should turn elapsed wall time into whole ticks", func() {
		c := s.AddConstraint(newFakeConstraint("c", nil)).(*fakeConstraint)
		Expect(s.Start()).To(Succeed())

		clock.Advance(35 * time.Millisecond)
		Expect(scheduler.RunFrame()).To(Equal(1))

		Expect(c.evaluates).To(Equal(3))
		Expect(scheduler.Pending()).To(Equal(1))

		clock.Advance(5 * time.Millisecond)
		scheduler.RunFrame()

		Expect(c.evaluates).To(Equal(4))
		stats := s.Stats()
		Expect(stats.Frames).To(Equal(uint64(2)))
		Expect(stats.Ticks).To(Equal(uint64(4)))
		Expect(stats.SimTime).To(Equal(40 * time.Millisecond))
	})

	It("should run no tick on a short frame", func() {
		Expect(s.Start()).To(Succeed())
		records = nil

		clock.Advance(4 * time.Millisecond)
		scheduler.RunFrame()

		Expect(positions()).To(Equal([]*hooking.HookPos{
			HookPosBeforeFrame, HookPosAfterFrame,
		}))
		Expect(records[1].item).To(Equal(FrameInfo{Index: 0}))
	})

	It("should cap the ticks run in one frame", func() {
		c := s.AddConstraint(newFakeConstraint("c", nil)).(*fakeConstraint)
		Expect(s.Start()).To(Succeed())
		records = nil

		clock.Advance(time.Second)
		scheduler.RunFrame()

		Expect(c.evaluates).To(Equal(5))
		Expect(s.Stats().DroppedTicks).To(Equal(uint64(95)))
		last := records[len(records)-1]
		Expect(last.pos).To(Equal(HookPosAfterFrame))
		Expect(last.item).To(Equal(FrameInfo{Index: 0, Ticks: 5, Dropped: 95}))

		clock.Advance(10 * time.Millisecond)
		scheduler.RunFrame()
		Expect(c.evaluates).To(Equal(6))
	})

	It("should fire tick hooks around every tick", func() {
		s.AddParticle(newFakeParticle("p", 0, 0, nil))
		Expect(s.Start()).To(Succeed())
		records = nil

		clock.Advance(20 * time.Millisecond)
		scheduler.RunFrame()

		Expect(positions()).To(Equal([]*hooking.HookPos{
			HookPosBeforeFrame,
			HookPosBeforeTick, HookPosAfterTick,
			HookPosBeforeTick, HookPosAfterTick,
			HookPosAfterFrame,
		}))
		Expect(records[3].item).To(Equal(timing.Tick{
			Index: 1,
			Time:  20 * time.Millisecond,
		}))
	})

	It("should cancel the pending frame on stop", func() {
		Expect(s.Start()).To(Succeed())

		s.Stop()

		Expect(s.State()).To(Equal(StateStopped))
		Expect(scheduler.Pending()).To(BeZero())
		Expect(positions()).To(Equal([]*hooking.HookPos{
			HookPosStateChange, HookPosStateChange,
		}))
	})

	It("should not fire a state change when stopping twice", func() {
		s.Stop()
		s.Stop()

		Expect(records).To(BeEmpty())
	})

	It("should leave a single frame loop when started twice", func() {
		c := s.AddConstraint(newFakeConstraint("c", nil)).(*fakeConstraint)
		Expect(s.Start()).To(Succeed())
		Expect(s.Start()).To(Succeed())

		Expect(scheduler.Pending()).To(Equal(1))

		clock.Advance(10 * time.Millisecond)
		scheduler.RunFrame()
		Expect(c.evaluates).To(Equal(1))
		Expect(scheduler.Pending()).To(Equal(1))
	})

	It("should discard the backlog when restarted while running", func() {
		c := s.AddConstraint(newFakeConstraint("c", nil)).(*fakeConstraint)
		Expect(s.Start()).To(Succeed())

		clock.Advance(30 * time.Millisecond)
		Expect(s.Start()).To(Succeed())
		scheduler.RunFrame()

		Expect(c.evaluates).To(BeZero())
	})

	It("should ignore a stale frame callback", func() {
		var stale func()
		s.scheduler = schedulerFunc(func(cb func()) func() {
			stale = cb
			return func() {}
		})

		Expect(s.Start()).To(Succeed())
		first := stale
		Expect(s.Start()).To(Succeed())
		second := stale

		clock.Advance(10 * time.Millisecond)
		first()
		Expect(s.Stats().Frames).To(BeZero())

		second()
		Expect(s.Stats().Frames).To(Equal(uint64(1)))

		s.Stop()
		clock.Advance(10 * time.Millisecond)
		stale()
		Expect(s.Stats().Frames).To(Equal(uint64(1)))
	})

	It("should stop after the frame when stopped from a hook", func() {
		c := s.AddConstraint(newFakeConstraint("c", nil)).(*fakeConstraint)
		c.onEvaluate = s.Loop().Stop
		Expect(s.Start()).To(Succeed())

		clock.Advance(30 * time.Millisecond)
		scheduler.RunFrame()

		Expect(c.evaluates).To(Equal(3))
		Expect(s.State()).To(Equal(StateStopped))
		Expect(scheduler.Pending()).To(BeZero())
	})

	Context("when another goroutine calls in during a frame", func() {
		var (
			held      *fakeConstraint
			entered   chan struct{}
			release   chan struct{}
			frameDone chan struct{}
		)

		BeforeEach(func() {
			held = newFakeConstraint("c", nil)
			entered = make(chan struct{})
			release = make(chan struct{})
			frameDone = make(chan struct{})
			held.onCorrect = func() {
				if held.corrects == 1 {
					close(entered)
					<-release
				}
			}
		})

		runFrameInBackground := func() {
			Expect(s.Start()).To(Succeed())
			clock.Advance(10 * time.Millisecond)

			go func() {
				defer GinkgoRecover()
				scheduler.RunFrame()
				close(frameDone)
			}()

			Eventually(entered).Should(BeClosed())
		}

		It("should remove a registered constraint once the frame finishes", func() {
			other := s.AddConstraint(newFakeConstraint("c", nil))
			s.AddConstraint(held)
			runFrameInBackground()

			removed := make(chan error, 1)
			go func() { removed <- s.Remove(other) }()

			Consistently(removed, 50*time.Millisecond).ShouldNot(Receive())
			close(release)
			Eventually(frameDone).Should(BeClosed())

			var err error
			Eventually(removed).Should(Receive(&err))
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Constraints()).To(Equal([]Constraint{held}))
		})

		It("should register an addition at once after the frame", func() {
			s.AddConstraint(held)
			runFrameInBackground()

			p := newFakeParticle("p", 1, 0, nil)
			added := make(chan struct{})
			go func() {
				s.AddParticle(p)
				close(added)
			}()

			Consistently(added, 50*time.Millisecond).ShouldNot(BeClosed())
			close(release)
			Eventually(added).Should(BeClosed())
			Eventually(frameDone).Should(BeClosed())

			Expect(s.Stats().PendingAdds).To(BeZero())
			found, ok := s.FindNearest(vec.Vec2{X: 1}, 0.5)
			Expect(ok).To(BeTrue())
			Expect(found).To(BeIdenticalTo(p))
		})

		It("should start and stop once the frame finishes", func() {
			s.AddConstraint(held)
			runFrameInBackground()

			started := make(chan error, 1)
			go func() { started <- s.Start() }()

			Consistently(started, 50*time.Millisecond).ShouldNot(Receive())
			close(release)

			var err error
			Eventually(started).Should(Receive(&err))
			Expect(err).NotTo(HaveOccurred())
			Eventually(frameDone).Should(BeClosed())
			Expect(s.State()).To(Equal(StateRunning))

			s.Stop()
			Expect(s.State()).To(Equal(StateStopped))
		})
	})

	It("should defer a hook's stop until the frame ends", func() {
		loop := s.Loop()
		s.AcceptHook(hooking.HookFunc(func(ctx hooking.HookCtx) {
			if ctx.Pos == HookPosBeforeFrame {
				Expect(loop.Stepping()).To(BeTrue())
				loop.Stop()
			}
		}))
		Expect(s.Start()).To(Succeed())
		Expect(loop.Stepping()).To(BeFalse())

		clock.Advance(20 * time.Millisecond)
		scheduler.RunFrame()

		Expect(s.Stats().Ticks).To(Equal(uint64(2)))
		Expect(s.State()).To(Equal(StateStopped))
		Expect(scheduler.Pending()).To(BeZero())
	})

	It("should halt the loop when a tick fails", func() {
		cause := errors.New("broken")
		c := s.AddConstraint(newFakeConstraint("c", nil)).(*fakeConstraint)
		c.correctErr = cause
		Expect(s.Start()).To(Succeed())
		records = nil

		clock.Advance(30 * time.Millisecond)
		scheduler.RunFrame()

		Expect(c.corrects).To(Equal(1))
		Expect(s.State()).To(Equal(StateStopped))
		Expect(scheduler.Pending()).To(BeZero())
		Expect(s.Err()).To(MatchError(cause))

		Expect(positions()).To(Equal([]*hooking.HookPos{
			HookPosBeforeFrame,
			HookPosBeforeTick,
			HookPosTickFailed,
			HookPosStateChange,
			HookPosAfterFrame,
		}))
		info := records[len(records)-1].item.(FrameInfo)
		Expect(info.Ticks).To(BeZero())
		Expect(info.Err).To(MatchError(cause))
	})

	It("should clear the failure on restart", func() {
		c := s.AddConstraint(newFakeConstraint("c", nil)).(*fakeConstraint)
		c.correctErr = errors.New("broken")
		Expect(s.Start()).To(Succeed())
		clock.Advance(10 * time.Millisecond)
		scheduler.RunFrame()
		Expect(s.Err()).To(HaveOccurred())

		c.correctErr = nil
		Expect(s.Start()).To(Succeed())

		Expect(s.Err()).NotTo(HaveOccurred())
		Expect(s.State()).To(Equal(StateRunning))
	})

	It("should run ticks headlessly", func() {
		c := s.AddConstraint(newFakeConstraint("c", nil)).(*fakeConstraint)

		Expect(s.RunTicks(7)).To(Succeed())

		Expect(c.evaluates).To(Equal(7))
		Expect(s.State()).To(Equal(StateStopped))
		Expect(s.Stats().SimTime).To(Equal(70 * time.Millisecond))
	})
})

type schedulerFunc func(cb func()) func()

func (f schedulerFunc) ScheduleOnce(cb func()) func() {
	return f(cb)
}
