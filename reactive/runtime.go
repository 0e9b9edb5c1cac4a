// Package reactive provides the fine-grained dependency runtime used by the
// rule engine: typed cells ("signals"), effects that re-run when a cell they
// read is written, and automatic read tracking.
//
// A Runtime is an explicit context object. Every signal handle is bound to
// the runtime that created it, and all work happens synchronously on the
// caller's stack:
//
//	rt := reactive.NewRuntime()
//	count := reactive.NewSignal(rt, 0)
//
//	rt.NewEffect(func() {
//		fmt.Println("count is", count.Get())
//	})
//
//	count.Set(10) // prints "count is 10" before Set returns
//
// Writes are not batched and not deduplicated: an effect that reads two cells
// re-runs once per write to either of them. Subscriptions are never pruned;
// a cell read on any earlier run keeps the effect subscribed.
//
// A Runtime is not safe for concurrent use. It remembers the goroutine that
// created it and panics when used from another one, unless the runtime was
// created with AllowAnyGoroutine and the caller serializes access itself.
package reactive

import (
	"log/slog"
	"maps"
	"slices"

	"github.com/petermattis/goid"
)

// SignalID identifies a cell within one Runtime.
type SignalID uint64

// EffectID identifies an effect within one Runtime.
type EffectID uint64

type cell struct {
	value any
	subs  map[EffectID]struct{}
}

type effect struct {
	fn   func()
	runs int
}

// Runtime owns every cell and effect created through it.
type Runtime struct {
	cells   []*cell
	effects []*effect

	tracker *tracker

	owner        int64
	anyGoroutine bool

	log *slog.Logger
}

// Option configures a Runtime.
type Option func(r *Runtime)

// WithLogger sets the logger used to report effect runs at debug level.
// Default: discard.
func WithLogger(l *slog.Logger) Option {
	return func(r *Runtime) {
		if l != nil {
			r.log = l
		}
	}
}

// AllowAnyGoroutine disables the owner goroutine check. The caller becomes
// responsible for serializing every access to the runtime.
func AllowAnyGoroutine() Option {
	return func(r *Runtime) {
		r.anyGoroutine = true
	}
}

// NewRuntime creates an empty runtime owned by the calling goroutine.
func NewRuntime(opts ...Option) *Runtime {
	r := &Runtime{
		tracker: newTracker(),
		owner:   goid.Get(),
		log:     slog.New(slog.DiscardHandler),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// NewEffect registers fn and runs it immediately. The effect runs again
// every time a cell it has read is written.
func (r *Runtime) NewEffect(fn func()) EffectID {
	r.checkOwner()
	if fn == nil {
		fatal("create effect", uint64(len(r.effects)), ErrNilEffect)
	}

	r.effects = append(r.effects, &effect{fn: fn})
	id := EffectID(len(r.effects) - 1)

	r.RunEffect(id)
	return id
}

// RunEffect runs the effect with the given id as the running effect, then
// restores whichever effect was running before, even if the body panics.
func (r *Runtime) RunEffect(id EffectID) {
	e := r.effect("run effect", id)

	e.runs++
	r.log.Debug("running effect", "effect", id, "run", e.runs)

	r.tracker.runWithEffect(id, e.fn)
}

// Running returns the id of the effect currently executing, if any.
func (r *Runtime) Running() (EffectID, bool) {
	r.checkOwner()
	return r.tracker.current()
}

// Runs returns how many times the effect has executed, including its first
// run at registration.
func (r *Runtime) Runs(id EffectID) int {
	return r.effect("runs", id).runs
}

// Subscribers returns the ids of the effects subscribed to the cell, in
// ascending order.
func (r *Runtime) Subscribers(id SignalID) []EffectID {
	return slices.Sorted(maps.Keys(r.cell("subscribers", id).subs))
}

// CellCount is the number of cells created by this runtime.
func (r *Runtime) CellCount() int {
	r.checkOwner()
	return len(r.cells)
}

// EffectCount is the number of effects registered with this runtime.
func (r *Runtime) EffectCount() int {
	r.checkOwner()
	return len(r.effects)
}

func (r *Runtime) newCell(initial any) SignalID {
	r.checkOwner()
	r.cells = append(r.cells, &cell{
		value: initial,
		subs:  map[EffectID]struct{}{},
	})
	return SignalID(len(r.cells) - 1)
}

func (r *Runtime) cell(op string, id SignalID) *cell {
	if r == nil {
		fatal(op, uint64(id), ErrUnknownCell)
	}
	r.checkOwner()
	if uint64(id) >= uint64(len(r.cells)) {
		fatal(op, uint64(id), ErrUnknownCell)
	}
	return r.cells[id]
}

func (r *Runtime) effect(op string, id EffectID) *effect {
	if r == nil {
		fatal(op, uint64(id), ErrUnknownEffect)
	}
	r.checkOwner()
	if uint64(id) >= uint64(len(r.effects)) {
		fatal(op, uint64(id), ErrUnknownEffect)
	}
	return r.effects[id]
}

// track subscribes the running effect to c.
func (r *Runtime) track(c *cell) {
	if !r.tracker.shouldTrack() {
		return
	}
	id, _ := r.tracker.current()
	c.subs[id] = struct{}{}
}

// notify re-runs the effects subscribed to c, once each, in ascending id
// order. The subscriber set is read before the first run; effects that
// subscribe while the re-runs are in progress are not visited by this write.
func (r *Runtime) notify(c *cell) {
	if len(c.subs) == 0 {
		return
	}

	for _, id := range slices.Sorted(maps.Keys(c.subs)) {
		r.RunEffect(id)
	}
}

func (r *Runtime) checkOwner() {
	if r.anyGoroutine {
		return
	}
	if gid := goid.Get(); gid != r.owner {
		fatal("access", uint64(gid), ErrWrongGoroutine)
	}
}
