package formlogic_test

import (
	"fmt"

	"github.com/ezachrisen/formlogic"
	"github.com/ezachrisen/formlogic/reactive"
)

// Example showing basic use of the formlogic rule engine: a rule that
// shows a follow-up question, re-evaluated as the answers change
func Example() {

	// Step 1: Create a runtime and a cell for each answer
	rt := reactive.NewRuntime()
	height := reactive.NewSignal(rt, 1.2)
	partnerHeight := reactive.NewSignal(rt, 1.2)
	married := reactive.NewSignal(rt, false)
	luckyNumber := reactive.NewSignal(rt, 42)
	showFollowUp := reactive.NewSignal(rt, false)

	// Step 2: Create conditions and joins
	rs := formlogic.NewRuleSet()
	err := rs.AddCondition(
		formlogic.NewCondition[float64](1, formlogic.Equals, height, formlogic.Ref(partnerHeight)),
		formlogic.NewCondition[bool](2, formlogic.Equals, married, formlogic.Const(true)),
		formlogic.NewCondition[int](3, formlogic.Equals, luckyNumber, formlogic.Const(69)),
	)
	if err != nil {
		fmt.Println(err)
		return
	}

	j1 := formlogic.NewJoin(1, formlogic.And, formlogic.ConditionLink(1), formlogic.ConditionLink(2))
	j2 := formlogic.NewJoin(2, formlogic.Or, j1.Link(), formlogic.ConditionLink(3))
	if err := rs.AddJoin(j1, j2); err != nil {
		fmt.Println(err)
		return
	}

	// Step 3: Create an engine
	engine := formlogic.NewEngine()

	// Step 4: Decide what happens in each case
	rule := &formlogic.IfThenElse{
		Predicate:   j2,
		Consequence: formlogic.ActionBlock{formlogic.AssignTo(showFollowUp, formlogic.Const(true))},
		Alternative: formlogic.ActionBlock{formlogic.AssignTo(showFollowUp, formlogic.Const(false))},
	}

	// Step 5: Watch the rule; it is dispatched now and whenever an answer changes
	formlogic.Watch(rt, engine, rs, rule, func(pass bool, err error) {
		if err != nil {
			fmt.Println(err)
			return
		}
		fmt.Println("predicate:", pass)
	})

	married.Set(true)
	luckyNumber.Set(69)
	fmt.Println("show follow-up:", showFollowUp.Get())

	// Output:
	// predicate: false
	// predicate: true
	// predicate: true
	// show follow-up: true
}

// Example showing the outcome of every condition and join in a rule
func ExampleEngine_Trace() {
	rt := reactive.NewRuntime()
	answer := reactive.NewSignal(rt, "yes")

	rs := formlogic.NewRuleSet()
	_ = rs.AddCondition(
		formlogic.NewCondition[string](1, formlogic.Equals, answer, formlogic.Const("yes")),
		formlogic.NewCondition[string](2, formlogic.NotEquals, answer, formlogic.Const("")),
	)
	root := formlogic.NewJoin(1, formlogic.And, formlogic.ConditionLink(1), formlogic.ConditionLink(2))

	res, err := formlogic.NewEngine().Trace(rs, root)
	if err != nil {
		fmt.Println(err)
		return
	}

	for _, r := range res.Flatten() {
		fmt.Printf("%s %v %s\n", r.Link, r.Pass, r.Definition)
	}

	// Output:
	// j1 true c1 AND c2
	// c1 true cell 0 == "yes"
	// c2 true cell 0 != ""
}

// Example showing the rule tree of a join graph
func ExampleRuleSet_Tree() {
	rt := reactive.NewRuntime()
	age := reactive.NewSignal(rt, 0)

	rs := formlogic.NewRuleSet()
	_ = rs.AddCondition(formlogic.NewCondition[int](1, formlogic.Equals, age, formlogic.Const(18)))
	_ = rs.AddJoin(
		formlogic.NewJoin(1, formlogic.Or, formlogic.ConditionLink(1), formlogic.ConditionLink(2)),
		formlogic.NewJoin(2, formlogic.And, formlogic.JoinLink(1), formlogic.JoinLink(3)),
	)

	root, _ := rs.Join(2)
	fmt.Print(rs.Tree(root))
	fmt.Println(rs.Dangling())

	// Output:
	// j2 AND
	// ├── j1 OR
	// │   ├── c1  cell 0 == 18
	// │   └── c2  (missing)
	// └── j3  (missing)
	// [j1 -> c2 j2 -> j3]
}
