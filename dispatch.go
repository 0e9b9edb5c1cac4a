package formlogic

import (
	"fmt"

	"github.com/ezachrisen/formlogic/reactive"
)

// An Action is one step of an action block. Actions that change answers or
// form state do so through Signal.Set, so executing them propagates like any
// other write.
type Action interface {
	Execute()
}

// ActionFunc adapts a function to the Action interface.
type ActionFunc func()

func (f ActionFunc) Execute() { f() }

// ActionBlock is an ordered sequence of actions.
type ActionBlock []Action

// Execute runs the actions in order. Nil actions are skipped.
func (b ActionBlock) Execute() {
	for _, a := range b {
		if a != nil {
			a.Execute()
		}
	}
}

// Assign sets Target to Value: a constant, or the current value of another
// cell.
type Assign[T Answer] struct {
	Target reactive.Signal[T]
	Value  Operand[T]
}

// AssignTo returns an action assigning value to target.
func AssignTo[T Answer](target reactive.Signal[T], value Operand[T]) Assign[T] {
	return Assign[T]{Target: target, Value: value}
}

// Execute writes the value to the target cell. An assignment without a
// value does nothing.
func (a Assign[T]) Execute() {
	v, ok := resolve(a.Value)
	if !ok {
		return
	}
	a.Target.Set(v)
}

// IfThenElse runs Consequence when Predicate is true and Alternative
// otherwise.
type IfThenElse struct {
	Predicate   *Join
	Consequence ActionBlock
	Alternative ActionBlock
}

// Dispatch evaluates the predicate of ite with ev and executes the selected
// branch. It returns the predicate's outcome. If the evaluator fails, no
// branch runs.
func Dispatch(ev Evaluator, rs *RuleSet, ite *IfThenElse) (bool, error) {
	if ite == nil {
		return false, fmt.Errorf("dispatch called with nil rule")
	}

	pass, err := ev.Eval(rs, ite.Predicate)
	if err != nil {
		id := -1
		if ite.Predicate != nil {
			id = ite.Predicate.ID
		}
		return false, fmt.Errorf("evaluating predicate j%d: %w", id, err)
	}

	if pass {
		ite.Consequence.Execute()
	} else {
		ite.Alternative.Execute()
	}
	return pass, nil
}

// Dispatch evaluates ite with the engine. See Dispatch.
func (e *Engine) Dispatch(rs *RuleSet, ite *IfThenElse) (bool, error) {
	return Dispatch(e, rs, ite)
}

// Watch registers an effect on rt that dispatches ite now and again every
// time a cell read by the predicate (or by an assignment source) changes.
// onResult, if not nil, receives the outcome of every dispatch.
func Watch(rt *reactive.Runtime, ev Evaluator, rs *RuleSet, ite *IfThenElse, onResult func(pass bool, err error)) reactive.EffectID {
	return rt.NewEffect(func() {
		pass, err := Dispatch(ev, rs, ite)
		if onResult != nil {
			onResult(pass, err)
		}
	})
}
