package reactive

// as converts a stored cell value back to T. A nil value is only a valid T
// when T is an interface type.
func as[T any](v any) (T, bool) {
	if v == nil {
		var zero T
		return zero, any(zero) == nil
	}

	t, ok := v.(T)
	return t, ok
}

// Signal is a typed read/write handle bound to one cell of a Runtime.
// The zero Signal is not bound to any cell; using it panics.
type Signal[T any] struct {
	rt *Runtime
	id SignalID
}

// NewSignal creates a cell holding initial and returns a handle to it.
func NewSignal[T any](rt *Runtime, initial T) Signal[T] {
	if rt == nil {
		fatal("create signal", 0, ErrUnknownCell)
	}
	return Signal[T]{rt: rt, id: rt.newCell(initial)}
}

// Bind returns a handle to an existing cell. It panics if the runtime did not
// create a cell with this id, or if the cell does not hold a T.
func Bind[T any](rt *Runtime, id SignalID) Signal[T] {
	c := rt.cell("bind", id)
	if _, ok := as[T](c.value); !ok {
		fatal("bind", uint64(id), ErrWrongType)
	}
	return Signal[T]{rt: rt, id: id}
}

// Get returns the current value of the cell. When called while an effect is
// running, the effect is subscribed to the cell.
func (s Signal[T]) Get() T {
	c := s.rt.cell("get", s.id)
	s.rt.track(c)

	v, ok := as[T](c.value)
	if !ok {
		fatal("get", uint64(s.id), ErrWrongType)
	}
	return v
}

// Set stores v and re-runs every subscribed effect before returning.
// Setting a value equal to the current one still notifies subscribers.
func (s Signal[T]) Set(v T) {
	c := s.rt.cell("set", s.id)
	c.value = v
	s.rt.notify(c)
}

// ID returns the id of the cell behind the handle.
func (s Signal[T]) ID() SignalID { return s.id }

// Runtime returns the runtime the handle is bound to.
func (s Signal[T]) Runtime() *Runtime { return s.rt }

// Bound reports whether the handle refers to a cell.
func (s Signal[T]) Bound() bool { return s.rt != nil }

// Untrack runs fn without subscribing the running effect to any cell read
// inside fn.
func Untrack[T any](rt *Runtime, fn func() T) T {
	var result T
	rt.checkOwner()
	rt.tracker.runUntracked(func() { result = fn() })
	return result
}
