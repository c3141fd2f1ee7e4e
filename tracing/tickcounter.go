package tracing

import (
	"sync"

	"github.com/sarchlab/verlet/instrumentation/hooking"
)

// TickCounter counts how many times each hook position fired.
type TickCounter struct {
	lock   sync.Mutex
	names  []string
	counts map[string]uint64
}

// NewTickCounter creates an empty TickCounter.
func NewTickCounter() *TickCounter {
	return &TickCounter{counts: make(map[string]uint64)}
}

// Func counts the position the hook fired from.
func (c *TickCounter) Func(ctx hooking.HookCtx) {
	if ctx.Pos == nil {
		return
	}

	c.lock.Lock()
	defer c.lock.Unlock()

	name := ctx.Pos.Name
	if _, ok := c.counts[name]; !ok {
		c.names = append(c.names, name)
	}

	c.counts[name]++
}

// Names returns the positions seen, in the order they first fired.
func (c *TickCounter) Names() []string {
	c.lock.Lock()
	defer c.lock.Unlock()

	return append([]string(nil), c.names...)
}

// Count returns how many times the named position fired.
func (c *TickCounter) Count(name string) uint64 {
	c.lock.Lock()
	defer c.lock.Unlock()

	return c.counts[name]
}
