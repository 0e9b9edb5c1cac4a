package formlogic

import (
	"fmt"

	"github.com/ezachrisen/formlogic/reactive"
)

// Operator is the comparison a condition performs.
type Operator int

const (
	// Equals is true when both sides hold the same value.
	Equals Operator = iota

	// NotEquals is true when the sides differ.
	NotEquals

	// IsAnswered is true when the question has an answer. Only an
	// AnsweredCondition performs it.
	IsAnswered

	// IsNotAnswered is true when the question has no answer.
	IsNotAnswered
)

func (o Operator) String() string {
	switch o {
	case Equals:
		return "=="
	case NotEquals:
		return "!="
	case IsAnswered:
		return "is answered"
	case IsNotAnswered:
		return "is not answered"
	default:
		return fmt.Sprintf("Operator(%d)", int(o))
	}
}

// Operand is the right-hand side of a condition or the value of an
// assignment: either a Constant or a CellRef. No other implementations exist.
type Operand[T Answer] interface {
	fmt.Stringer
	operand() T
}

// Constant is a literal operand.
type Constant[T Answer] struct {
	Value T
}

// CellRef is an operand that reads the current value of a cell.
type CellRef[T Answer] struct {
	Cell reactive.Signal[T]
}

// Const returns a constant operand.
func Const[T Answer](v T) Constant[T] { return Constant[T]{Value: v} }

// Ref returns an operand reading the cell behind s.
func Ref[T Answer](s reactive.Signal[T]) CellRef[T] { return CellRef[T]{Cell: s} }

func (c Constant[T]) operand() T { return c.Value }
func (c CellRef[T]) operand() T  { return c.Cell.Get() }

func (c Constant[T]) String() string { return formatConstant(c.Value) }
func (c CellRef[T]) String() string  { return fmt.Sprintf("cell %d", c.Cell.ID()) }

// resolve returns the current value of the operand. A nil operand has no
// value.
func resolve[T Answer](o Operand[T]) (T, bool) {
	switch v := o.(type) {
	case Constant[T]:
		return v.Value, true
	case CellRef[T]:
		return v.Cell.Get(), true
	default:
		var zero T
		return zero, false
	}
}

func formatConstant(v any) string {
	if s, ok := v.(string); ok {
		return fmt.Sprintf("%q", s)
	}
	return fmt.Sprintf("%v", v)
}

// Condition compares the answer held in LHS against a constant or another
// cell. A condition must not be modified once it has been added to a RuleSet.
type Condition[T Answer] struct {
	ID  int
	Op  Operator
	LHS reactive.Signal[T]
	RHS Operand[T]
}

// NewCondition creates a condition.
func NewCondition[T Answer](id int, op Operator, lhs reactive.Signal[T], rhs Operand[T]) *Condition[T] {
	return &Condition[T]{
		ID:  id,
		Op:  op,
		LHS: lhs,
		RHS: rhs,
	}
}

// Evaluate reads the cells involved, subscribing the running effect to them,
// and compares the values. An unknown operator or a missing right-hand side
// evaluates to false.
func (c *Condition[T]) Evaluate() bool {
	lhs := c.LHS.Get()

	rhs, ok := resolve(c.RHS)
	if !ok {
		return false
	}

	switch c.Op {
	case Equals:
		return lhs == rhs
	case NotEquals:
		return lhs != rhs
	default:
		return false
	}
}

// ConditionID returns the id of the condition.
func (c *Condition[T]) ConditionID() int { return c.ID }

// AnswerType returns the type of the answers being compared.
func (c *Condition[T]) AnswerType() Type { return TypeOf[T]() }

func (c *Condition[T]) String() string {
	rhs := "<nil>"
	if c.RHS != nil {
		rhs = c.RHS.String()
	}
	return fmt.Sprintf("cell %d %s %s", c.LHS.ID(), c.Op, rhs)
}

func (c *Condition[T]) condition() {}

// AnsweredCondition tests whether a question has been answered. Answered is
// the cell that is true while the question holds an answer; the form package
// keeps it next to the answer itself.
//
// Equals and NotEquals compare the current value whether or not the question
// is answered. Join them with an AnsweredCondition to require an answer.
type AnsweredCondition struct {
	ID       int
	Op       Operator
	Answered reactive.Signal[bool]
}

// NewAnsweredCondition creates a condition performing IsAnswered or
// IsNotAnswered on the answered cell.
func NewAnsweredCondition(id int, op Operator, answered reactive.Signal[bool]) *AnsweredCondition {
	return &AnsweredCondition{
		ID:       id,
		Op:       op,
		Answered: answered,
	}
}

// Evaluate reads the answered cell, subscribing the running effect. Any
// operator other than IsAnswered and IsNotAnswered evaluates to false.
func (c *AnsweredCondition) Evaluate() bool {
	answered := c.Answered.Get()

	switch c.Op {
	case IsAnswered:
		return answered
	case IsNotAnswered:
		return !answered
	default:
		return false
	}
}

// ConditionID returns the id of the condition.
func (c *AnsweredCondition) ConditionID() int { return c.ID }

// AnswerType returns Bool, the type of the answered cell.
func (c *AnsweredCondition) AnswerType() Type { return Bool{} }

func (c *AnsweredCondition) String() string {
	return fmt.Sprintf("cell %d %s", c.Answered.ID(), c.Op)
}

func (c *AnsweredCondition) condition() {}

// AnyCondition is a condition of any answer type. It is only implemented by
// *Condition[float64], *Condition[bool], *Condition[int],
// *Condition[string] and *AnsweredCondition, so a type switch over those
// five is exhaustive.
type AnyCondition interface {
	ConditionID() int
	Evaluate() bool
	AnswerType() Type
	String() string

	condition()
}
