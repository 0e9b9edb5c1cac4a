package formlogic

// Evaluator is the interface implemented by types that can evaluate the
// predicate of a rule. The Engine evaluates the join graph directly; other
// implementations (see the cel package) may first compile it to a different
// expression form.
type Evaluator interface {
	// Eval evaluates root against the conditions and joins in rs. It
	// returns an error only if the evaluator cannot produce an outcome at
	// all, such as a detected cycle; dangling links evaluate to false.
	Eval(rs *RuleSet, root *Join) (bool, error)
}
