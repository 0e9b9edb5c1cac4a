// Package formlogic provides the rule evaluation core of a dynamic form
// engine. Rules are built from typed conditions over question answers,
// combined by AND/OR joins, and drive if/then/else actions such as setting an
// answer or showing a question.
//
// Answers live in cells of a reactive.Runtime. Conditions read those cells
// through signal handles, so a rule evaluated inside an effect is evaluated
// again whenever an answer it depends on changes.
//
// Typical use is as follows:
//
//  1. Create a reactive runtime and a signal for each answer
//  2. Create conditions comparing answers to constants or to each other
//  3. Create joins combining conditions and other joins, and add both to a RuleSet
//  4. Create an engine
//  5. Wrap the root join in an IfThenElse with the actions for each branch
//  6. Watch the rule, or Dispatch it yourself from inside an effect
//
// # Rule Graphs
//
// Joins reference their operands by id, through RuleLinks, rather than by
// pointer. The tables can therefore be built in any order and modified after
// the fact:
//
//	j2 OR
//	├── j1 AND
//	│   ├── c1  cell 0 == cell 1
//	│   └── c2  cell 2 == true
//	└── c3  cell 3 == 69
//
// A link to an id that does not exist is not an error: that operand
// evaluates to false and evaluation carries on. Use RuleSet.Dangling to list
// such links.
//
// The join graph must be acyclic. By default the engine does not check this,
// and a cycle recurses until the stack is exhausted. Create the engine with
// DetectCycles to get a CycleError instead, or use RuleSet.Cycles to check a
// rule set up front.
//
// # Concurrency
//
// Evaluation is synchronous and single-threaded, like the reactive runtime
// it reads from. The Vault is the one type meant to be shared: it lets a
// rule set be replaced atomically while readers keep evaluating the version
// they loaded.
package formlogic
