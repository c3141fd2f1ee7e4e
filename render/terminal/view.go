// Package terminal draws a running simulation in a terminal and drives its
// frames.
package terminal

import (
	"context"
	"fmt"
	"math"
	"slices"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/sarchlab/verlet/sim"
	"github.com/sarchlab/verlet/timing"
	"github.com/sarchlab/verlet/vec"
)

// ParticleSource provides the positions to draw. *sim.Simulator is one.
type ParticleSource interface {
	Snapshot() sim.Snapshot
}

var (
	particleStyle = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	statusStyle   = tcell.StyleDefault.Foreground(tcell.ColorGray)
)

// A View is a terminal host. It is also the timing.FrameScheduler of the
// simulation it shows: every frame it first runs the callbacks scheduled for
// that frame, then draws the particles.
type View struct {
	screen tcell.Screen
	src    ParticleSource
	period time.Duration
	scale  float64
	origin vec.Vec2

	lock    sync.Mutex
	nextID  uint64
	pending map[uint64]func()
	frames  uint64

	quit     chan struct{}
	quitOnce sync.Once
}

// NewView creates a View refreshing at freq. One world unit spans scale
// terminal columns.
func NewView(
	screen tcell.Screen,
	src ParticleSource,
	freq timing.Freq,
	scale float64,
) *View {
	return &View{
		screen:  screen,
		src:     src,
		period:  freq.Period(),
		scale:   scale,
		pending: make(map[uint64]func()),
		quit:    make(chan struct{}),
	}
}

// WithSource sets what the view draws. A view may be created without a source
// and given one once the simulation it schedules frames for exists.
func (v *View) WithSource(src ParticleSource) *View {
	v.src = src
	return v
}

// WithOrigin sets the world point drawn at the top center of the screen.
func (v *View) WithOrigin(origin vec.Vec2) *View {
	v.origin = origin
	return v
}

// ScheduleOnce runs callback on the next frame.
func (v *View) ScheduleOnce(callback func()) func() {
	v.lock.Lock()
	defer v.lock.Unlock()

	v.nextID++
	id := v.nextID
	v.pending[id] = callback

	return func() {
		v.lock.Lock()
		delete(v.pending, id)
		v.lock.Unlock()
	}
}

// Frames returns the number of frames drawn.
func (v *View) Frames() uint64 {
	v.lock.Lock()
	defer v.lock.Unlock()

	return v.frames
}

// Quit makes Run return.
func (v *View) Quit() {
	v.quitOnce.Do(func() { close(v.quit) })
}

// Run refreshes the screen until the user quits with Esc, q or Ctrl-C, Quit
// is called, or ctx is done. The screen must be initialized.
func (v *View) Run(ctx context.Context) error {
	events := make(chan tcell.Event, 16)
	go func() {
		for {
			ev := v.screen.PollEvent()
			if ev == nil {
				return
			}

			select {
			case events <- ev:
			case <-v.quit:
				return
			}
		}
	}()

	ticker := time.NewTicker(v.period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-v.quit:
			return nil
		case ev := <-events:
			v.handleEvent(ev)
		case <-ticker.C:
			v.Frame()
		}
	}
}

func (v *View) handleEvent(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC ||
			(ev.Key() == tcell.KeyRune && ev.Rune() == 'q') {
			v.Quit()
		}
	case *tcell.EventResize:
		v.screen.Sync()
	}
}

// Frame runs the callbacks scheduled before the call and redraws the screen.
func (v *View) Frame() {
	v.lock.Lock()
	callbacks := make([]func(), 0, len(v.pending))
	ids := make([]uint64, 0, len(v.pending))
	for id := range v.pending {
		ids = append(ids, id)
	}

	slices.Sort(ids)
	for _, id := range ids {
		callbacks = append(callbacks, v.pending[id])
		delete(v.pending, id)
	}
	v.lock.Unlock()

	for _, cb := range callbacks {
		cb()
	}

	v.Draw()

	v.lock.Lock()
	v.frames++
	v.lock.Unlock()
}

// Draw renders the current particle positions and a status line.
func (v *View) Draw() {
	var snapshot sim.Snapshot
	if v.src != nil {
		snapshot = v.src.Snapshot()
	}

	width, height := v.screen.Size()

	v.screen.Clear()

	for _, p := range snapshot.Positions {
		x, y, ok := v.cell(p, width, height-1)
		if ok {
			v.screen.SetContent(x, y, '●', nil, particleStyle)
		}
	}

	status := fmt.Sprintf("tick %d  particles %d  q: quit",
		snapshot.Tick, len(snapshot.Positions))
	for i, r := range status {
		if i >= width {
			break
		}

		v.screen.SetContent(i, height-1, r, nil, statusStyle)
	}

	v.screen.Show()
}

// cell maps a world position to a terminal cell. Cells are about twice as
// tall as they are wide, so rows use half the column scale.
func (v *View) cell(p vec.Vec2, width, height int) (int, int, bool) {
	rel := p.Sub(v.origin)
	x := width/2 + int(math.Round(rel.X*v.scale))
	y := int(math.Round(rel.Y * v.scale / 2))

	if x < 0 || x >= width || y < 0 || y >= height {
		return 0, 0, false
	}

	return x, y, true
}
