package timing

import (
	"sync"
	"time"
)

// A FrameScheduler invokes a callback once, asynchronously, at the host's
// frame cadence.
//
// The returned cancel function prevents the callback from running if it has
// not started yet. Calling cancel after the callback ran is a no-op.
type FrameScheduler interface {
	ScheduleOnce(callback func()) (cancel func())
}

// IntervalScheduler emulates a host frame cadence with timers. It is used when
// there is no real rendering host, for example in headless runs.
type IntervalScheduler struct {
	period time.Duration
}

// NewIntervalScheduler creates an IntervalScheduler firing at freq.
func NewIntervalScheduler(freq Freq) *IntervalScheduler {
	return &IntervalScheduler{period: freq.Period()}
}

// Period returns the time between two frames.
func (s *IntervalScheduler) Period() time.Duration {
	return s.period
}

// ScheduleOnce runs callback after one frame period.
func (s *IntervalScheduler) ScheduleOnce(callback func()) func() {
	timer := time.AfterFunc(s.period, callback)

	return func() { timer.Stop() }
}

// ManualScheduler queues callbacks until RunFrame is called. It gives tests
// and tools full control over when frames happen.
type ManualScheduler struct {
	lock    sync.Mutex
	nextID  uint64
	pending []manualCallback
}

type manualCallback struct {
	id       uint64
	callback func()
}

// NewManualScheduler creates a ManualScheduler with nothing queued.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

// ScheduleOnce queues callback for the next RunFrame.
func (s *ManualScheduler) ScheduleOnce(callback func()) func() {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.nextID++
	id := s.nextID
	s.pending = append(s.pending, manualCallback{id: id, callback: callback})

	return func() { s.cancel(id) }
}

func (s *ManualScheduler) cancel(id uint64) {
	s.lock.Lock()
	defer s.lock.Unlock()

	for i, c := range s.pending {
		if c.id == id {
			s.pending = append(s.pending[:i], s.pending[i+1:]...)
			return
		}
	}
}

// RunFrame runs the callbacks queued before the call and returns how many ran.
// Callbacks scheduled while the frame runs wait for the next RunFrame.
func (s *ManualScheduler) RunFrame() int {
	s.lock.Lock()
	frame := s.pending
	s.pending = nil
	s.lock.Unlock()

	for _, c := range frame {
		c.callback()
	}

	return len(frame)
}

// Pending returns the number of queued callbacks.
func (s *ManualScheduler) Pending() int {
	s.lock.Lock()
	defer s.lock.Unlock()

	return len(s.pending)
}
