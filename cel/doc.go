// Package cel compiles formlogic join graphs into Google Common Expression
// Language (CEL) expressions and evaluates them with cel-go.
//
// See https://github.com/google/cel-go and https://opensource.google/projects/cel for more information
// about CEL.
//
// The compiled form is the general expression representation of a rule: the
// condition/join graph stays the source of truth, and the CEL expression is
// derived from it. For example, the graph
//
//	j2 OR
//	├── j1 AND
//	│   ├── c1  cell 0 == cell 1
//	│   └── c2  cell 2 == true
//	└── c3  cell 3 == 69
//
// compiles to
//
//	((cell_0 == cell_1 && cell_2 == true) || cell_3 == 69)
//
// # Cells
//
// Every cell referenced by a condition becomes a CEL variable named cell_<id>,
// declared with the CEL type of the answer: double, int, bool or string.
// When a program is evaluated, each variable is read through its signal
// handle, so evaluating inside an effect subscribes the effect to exactly the
// cells the native engine would.
//
// # Dangling Links and Cycles
//
// A link whose target does not exist compiles to the literal false, matching
// the native engine. A cycle in the join graph cannot be expressed and makes
// Compile fail with a formlogic.CycleError.
package cel
