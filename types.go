package formlogic

import "fmt"

// Answer is the closed set of Go types a question answer, and therefore a
// condition, can hold.
type Answer interface {
	float64 | bool | int | string
}

// Type describes an answer type. These types are used when rules are
// rendered, compiled to other expression forms, or loaded from flat records.
type Type interface {
	// Implements the stringer interface
	String() string

	// Zero returns the zero value of the Go type backing the answer type.
	Zero() any
}

// Float defines a floating point answer, backed by float64.
type Float struct{}

// Int defines an integer answer, backed by int.
type Int struct{}

// Bool defines a yes/no answer.
type Bool struct{}

// String defines a free text answer.
type String struct{}

func (Float) Zero() any  { return float64(0) }
func (Int) Zero() any    { return int(0) }
func (Bool) Zero() any   { return false }
func (String) Zero() any { return "" }

func (Float) String() string  { return "float" }
func (Int) String() string    { return "int" }
func (Bool) String() string   { return "bool" }
func (String) String() string { return "string" }

// TypeOf returns the answer type for T.
func TypeOf[T Answer]() Type {
	var zero T
	switch any(zero).(type) {
	case float64:
		return Float{}
	case int:
		return Int{}
	case bool:
		return Bool{}
	default:
		return String{}
	}
}

// ParseType parses the lower-case name of an answer type (float, int, bool,
// string) and returns the type.
func ParseType(t string) (Type, error) {
	switch t {
	case "float":
		return Float{}, nil
	case "int":
		return Int{}, nil
	case "bool":
		return Bool{}, nil
	case "string":
		return String{}, nil
	default:
		return nil, fmt.Errorf("unrecognized answer type: %s", t)
	}
}
