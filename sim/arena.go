package sim

import (
	"slices"

	"github.com/sarchlab/verlet/idgen"
)

type constraintSlot struct {
	constraint Constraint
	dead       bool
}

// constraintArena stores constraints in stable slots. Removal only sets the
// tombstone bit; slots are compacted at cull, the one point in a tick where
// nothing is iterating over them.
type constraintArena struct {
	slots []constraintSlot
	order []int
	byID  map[idgen.ID]int
	dead  int
}

func newConstraintArena() *constraintArena {
	return &constraintArena{
		byID: make(map[idgen.ID]int),
	}
}

func (a *constraintArena) len() int {
	return len(a.order)
}

func (a *constraintArena) contains(id idgen.ID) bool {
	_, ok := a.byID[id]
	return ok
}

// insert adds c and restores solve order. Inserting an id that is already
// live is ignored.
func (a *constraintArena) insert(c Constraint) bool {
	if a.contains(c.ID()) {
		return false
	}

	slot := len(a.slots)
	a.slots = append(a.slots, constraintSlot{constraint: c})
	a.byID[c.ID()] = slot
	a.order = append(a.order, slot)

	slices.SortFunc(a.order, func(i, j int) int {
		return compareConstraints(a.slots[i].constraint, a.slots[j].constraint)
	})

	return true
}

// remove tombstones the constraint with the given id and takes it out of the
// solve order immediately.
func (a *constraintArena) remove(id idgen.ID) bool {
	slot, ok := a.byID[id]
	if !ok {
		return false
	}

	a.slots[slot].dead = true
	a.dead++
	delete(a.byID, id)

	pos := slices.Index(a.order, slot)
	a.order = slices.Delete(a.order, pos, pos+1)

	return true
}

// cull drops every constraint flagged as deleted, keeping the relative order
// of the survivors, then compacts the slots. It returns how many were culled.
func (a *constraintArena) cull() int {
	culled := 0
	survivors := a.order[:0]

	for _, slot := range a.order {
		c := a.slots[slot].constraint
		if !c.Deleted() {
			survivors = append(survivors, slot)
			continue
		}

		a.slots[slot].dead = true
		a.dead++
		delete(a.byID, c.ID())
		culled++
	}

	a.order = survivors
	a.compact()

	return culled
}

func (a *constraintArena) compact() {
	if a.dead == 0 {
		return
	}

	remap := make([]int, len(a.slots))
	live := make([]constraintSlot, 0, len(a.slots)-a.dead)

	for i, s := range a.slots {
		if s.dead {
			remap[i] = -1
			continue
		}

		remap[i] = len(live)
		a.byID[s.constraint.ID()] = len(live)
		live = append(live, s)
	}

	for k, slot := range a.order {
		a.order[k] = remap[slot]
	}

	a.slots = live
	a.dead = 0
}

func (a *constraintArena) at(k int) Constraint {
	return a.slots[a.order[k]].constraint
}

func (a *constraintArena) list() []Constraint {
	list := make([]Constraint, len(a.order))
	for k := range a.order {
		list[k] = a.at(k)
	}

	return list
}
