package impulse

// handle addresses an arena slot. A slot's generation changes when its value
// is removed, so stale handles stop resolving.
type handle struct {
	index      uint32
	generation uint32
}

// BodyHandle is a stable reference to a body owned by a World.
type BodyHandle handle

// ConstraintHandle is a stable reference to a constraint owned by a World.
type ConstraintHandle handle

type slot[T any] struct {
	value      T
	generation uint32
	alive      bool
}

type arena[T any] struct {
	slots []slot[T]
	free  []uint32
	count int
}

func (a *arena[T]) insert(value T) handle {
	a.count++
	if n := len(a.free); n > 0 {
		index := a.free[n-1]
		a.free = a.free[:n-1]
		s := &a.slots[index]
		s.value, s.alive = value, true
		return handle{index: index, generation: s.generation}
	}
	a.slots = append(a.slots, slot[T]{value: value, generation: 1, alive: true})
	return handle{index: uint32(len(a.slots) - 1), generation: 1}
}

func (a *arena[T]) get(h handle) (T, bool) {
	if int(h.index) >= len(a.slots) {
		var zero T
		return zero, false
	}
	s := a.slots[h.index]
	if !s.alive || s.generation != h.generation {
		var zero T
		return zero, false
	}
	return s.value, true
}

func (a *arena[T]) remove(h handle) (T, bool) {
	value, ok := a.get(h)
	if !ok {
		return value, false
	}
	s := &a.slots[h.index]
	var zero T
	s.value, s.alive = zero, false
	s.generation++
	a.free = append(a.free, h.index)
	a.count--
	return value, true
}

func (a *arena[T]) len() int {
	return a.count
}

// each visits the live values in slot order until fn returns false.
func (a *arena[T]) each(fn func(h handle, value T) bool) {
	for i := range a.slots {
		s := &a.slots[i]
		if !s.alive {
			continue
		}
		if !fn(handle{index: uint32(i), generation: s.generation}, s.value) {
			return
		}
	}
}
