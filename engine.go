package formlogic

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

var (
	// ErrCycle is wrapped by the CycleError returned when DetectCycles is on
	// and a join is reached again while it is still being evaluated.
	ErrCycle = errors.New("cycle in join graph")

	// ErrMaxDepth is returned when joins nest deeper than the MaxDepth option.
	ErrMaxDepth = errors.New("maximum join depth exceeded")
)

// CycleError reports the join ids on the evaluation path, ending with the
// join that was reached a second time.
type CycleError struct {
	Path []int
}

func (e *CycleError) Error() string {
	ids := make([]string, len(e.Path))
	for i, id := range e.Path {
		ids[i] = JoinLink(id).String()
	}
	return fmt.Sprintf("%v: %s", ErrCycle, strings.Join(ids, " -> "))
}

func (e *CycleError) Unwrap() error { return ErrCycle }

// Engine evaluates join graphs. It holds no rules itself; the rule set is
// passed to every call, so one engine can serve many rule sets.
//
// With the default options evaluation never fails: dangling links and
// unknown operators evaluate to false. A cyclic join graph recurses until
// the stack is exhausted unless DetectCycles or MaxDepth is set.
type Engine struct {
	opts EngineOptions
}

// NewEngine initializes an engine.
func NewEngine(opts ...EngineOption) *Engine {
	e := Engine{
		opts: EngineOptions{
			Logger: slog.New(slog.DiscardHandler),
		},
	}
	applyEngineOptions(&e.opts, opts...)
	return &e
}

// See the functional definitions below for the meaning.
type EngineOptions struct {
	DetectCycles bool
	MaxDepth     int
	Logger       *slog.Logger
}

type EngineOption func(f *EngineOptions)

// Given an array of EngineOption functions, apply their effect
// on the EngineOptions struct.
func applyEngineOptions(o *EngineOptions, opts ...EngineOption) {
	for _, opt := range opts {
		opt(o)
	}
}

// Track the joins on the current evaluation path and return a CycleError
// when a join is reached while it is already being evaluated, instead of
// recursing until the stack is exhausted.
// Default: off
func DetectCycles(b bool) EngineOption {
	return func(f *EngineOptions) {
		f.DetectCycles = b
	}
}

// Fail with ErrMaxDepth when joins nest more than n levels below the root.
// Default: 0 (unlimited)
func MaxDepth(n int) EngineOption {
	return func(f *EngineOptions) {
		f.MaxDepth = n
	}
}

// Log dangling links (debug) and detected cycles (warn) to l.
// Default: discard
func WithLogger(l *slog.Logger) EngineOption {
	return func(f *EngineOptions) {
		if l != nil {
			f.Logger = l
		}
	}
}

// Eval evaluates the join against the rule set. The root does not have to be
// stored in rs; the joins it links to are looked up there.
// Both sides of every join are evaluated, so each referenced cell is read
// (and subscribed, inside an effect) regardless of the outcome.
// A nil root evaluates to false.
func (e *Engine) Eval(rs *RuleSet, root *Join) (bool, error) {
	ev := e.newEvaluation(rs, false)
	pass, _, err := ev.join(root, 0)
	return pass, err
}

// EvalLink evaluates the condition or join the link points to.
func (e *Engine) EvalLink(rs *RuleSet, l RuleLink) (bool, error) {
	ev := e.newEvaluation(rs, false)
	pass, _, err := ev.link(-1, l, -1)
	return pass, err
}

// Trace evaluates the join like Eval and also returns the outcome of every
// condition and join visited.
func (e *Engine) Trace(rs *RuleSet, root *Join) (*Result, error) {
	ev := e.newEvaluation(rs, true)
	_, res, err := ev.join(root, 0)
	if err != nil {
		return nil, err
	}
	return res, nil
}

// evaluation is the state of a single Eval or Trace call.
type evaluation struct {
	e     *Engine
	rs    *RuleSet
	trace bool

	// joins on the active path; only kept when DetectCycles is on. Joins are
	// tracked by pointer, so a root outside the rule set may share an id
	// with a stored join.
	path   []int
	onPath map[*Join]bool
}

func (e *Engine) newEvaluation(rs *RuleSet, trace bool) *evaluation {
	ev := &evaluation{
		e:     e,
		rs:    rs,
		trace: trace,
	}
	if e.opts.DetectCycles {
		ev.onPath = map[*Join]bool{}
	}
	return ev
}

// Recursively evaluate the join and its operands
func (ev *evaluation) join(j *Join, depth int) (bool, *Result, error) {
	if j == nil {
		return false, ev.result(JoinLink(0), "", false, true), nil
	}

	if ev.e.opts.MaxDepth > 0 && depth > ev.e.opts.MaxDepth {
		return false, nil, fmt.Errorf("%w: j%d at depth %d", ErrMaxDepth, j.ID, depth)
	}

	if ev.onPath != nil {
		if ev.onPath[j] {
			err := &CycleError{Path: append(append([]int{}, ev.path...), j.ID)}
			ev.e.opts.Logger.Warn("cycle in join graph", "path", err.Path)
			return false, nil, err
		}
		ev.onPath[j] = true
		ev.path = append(ev.path, j.ID)
		defer func() {
			delete(ev.onPath, j)
			ev.path = ev.path[:len(ev.path)-1]
		}()
	}

	lhs, lres, err := ev.link(j.ID, j.LHS, depth)
	if err != nil {
		return false, nil, err
	}

	rhs, rres, err := ev.link(j.ID, j.RHS, depth)
	if err != nil {
		return false, nil, err
	}

	pass := j.Op.apply(lhs, rhs)

	res := ev.result(j.Link(), j.String(), pass, false)
	if res != nil {
		res.Results = []*Result{lres, rres}
		res.Evaluated += lres.Evaluated + rres.Evaluated
	}
	return pass, res, nil
}

// link resolves the link in the rule set and evaluates its target. A missing
// target evaluates to false. from is the id of the join owning the link, for
// logging.
func (ev *evaluation) link(from int, l RuleLink, depth int) (bool, *Result, error) {
	switch l.Kind {
	case LinkCondition:
		c, ok := ev.rs.Condition(l.TargetID)
		if !ok {
			ev.dangling(from, l)
			return false, ev.result(l, "", false, true), nil
		}
		pass := c.Evaluate()
		return pass, ev.result(l, c.String(), pass, false), nil

	case LinkJoin:
		j, ok := ev.rs.Join(l.TargetID)
		if !ok {
			ev.dangling(from, l)
			return false, ev.result(l, "", false, true), nil
		}
		return ev.join(j, depth+1)

	default:
		ev.dangling(from, l)
		return false, ev.result(l, "", false, true), nil
	}
}

func (ev *evaluation) dangling(from int, l RuleLink) {
	ev.e.opts.Logger.Debug("dangling rule link", "join", from, "link", l.String())
}

// result builds a trace node. It returns nil when not tracing.
func (ev *evaluation) result(l RuleLink, def string, pass, dangling bool) *Result {
	if !ev.trace {
		return nil
	}
	r := &Result{
		Link:       l,
		Definition: def,
		Pass:       pass,
		Dangling:   dangling,
	}
	if !dangling {
		r.Evaluated = 1
	}
	return r
}
