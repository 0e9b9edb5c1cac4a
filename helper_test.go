package formlogic_test

import (
	"testing"

	"github.com/ezachrisen/formlogic"
	"github.com/ezachrisen/formlogic/reactive"
)

// questionnaire is the four question form used throughout the tests:
//
//	c1 = q1 == q2      (float)
//	c2 = q3 == true    (bool)
//	c3 = q4 == 69      (int)
//	j1 = c1 AND c2
//	j2 = j1 OR c3
type questionnaire struct {
	rt *reactive.Runtime
	q1 reactive.Signal[float64]
	q2 reactive.Signal[float64]
	q3 reactive.Signal[bool]
	q4 reactive.Signal[int]
	rs *formlogic.RuleSet
	j1 *formlogic.Join
	j2 *formlogic.Join
}

func newQuestionnaire(t testing.TB) *questionnaire {
	t.Helper()

	rt := reactive.NewRuntime()
	q := &questionnaire{
		rt: rt,
		q1: reactive.NewSignal(rt, 1.2),
		q2: reactive.NewSignal(rt, 1.2),
		q3: reactive.NewSignal(rt, false),
		q4: reactive.NewSignal(rt, 42),
		rs: formlogic.NewRuleSet(),
	}

	err := q.rs.AddCondition(
		formlogic.NewCondition[float64](1, formlogic.Equals, q.q1, formlogic.Ref(q.q2)),
		formlogic.NewCondition[bool](2, formlogic.Equals, q.q3, formlogic.Const(true)),
		formlogic.NewCondition[int](3, formlogic.Equals, q.q4, formlogic.Const(69)),
	)
	if err != nil {
		t.Fatalf("adding conditions: %v", err)
	}

	q.j1 = formlogic.NewJoin(1, formlogic.And, formlogic.ConditionLink(1), formlogic.ConditionLink(2))
	q.j2 = formlogic.NewJoin(2, formlogic.Or, q.j1.Link(), formlogic.ConditionLink(3))
	if err := q.rs.AddJoin(q.j1, q.j2); err != nil {
		t.Fatalf("adding joins: %v", err)
	}
	return q
}

// constants returns a rule set with two bool cells and conditions
// c1 = a == true, c2 = b == true, for building joins on top of.
func constants(t testing.TB, a, b bool) *formlogic.RuleSet {
	t.Helper()

	rt := reactive.NewRuntime()
	rs := formlogic.NewRuleSet()
	err := rs.AddCondition(
		formlogic.NewCondition[bool](1, formlogic.Equals, reactive.NewSignal(rt, a), formlogic.Const(true)),
		formlogic.NewCondition[bool](2, formlogic.Equals, reactive.NewSignal(rt, b), formlogic.Const(true)),
	)
	if err != nil {
		t.Fatalf("adding conditions: %v", err)
	}
	return rs
}

// flattenResults maps each node of a trace to its outcome, keyed by the
// link that reached it.
func flattenResults(res *formlogic.Result) map[string]bool {
	m := map[string]bool{}
	for _, r := range res.Flatten() {
		m[r.Link.String()] = r.Pass
	}
	return m
}
