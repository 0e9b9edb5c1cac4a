package formlogic_test

import (
	"testing"

	"github.com/ezachrisen/formlogic"
	"github.com/ezachrisen/formlogic/reactive"
)

// buildTree creates a balanced join tree over n conditions and returns the
// rule set and its root. Join ids start at 1 and the root has the highest id.
func buildTree(tb testing.TB, n int) (*formlogic.RuleSet, *formlogic.Join) {
	tb.Helper()

	rt := reactive.NewRuntime()
	cell := reactive.NewSignal(rt, 1)
	rs := formlogic.NewRuleSet()

	level := make([]formlogic.RuleLink, 0, n)
	for i := 1; i <= n; i++ {
		if err := rs.AddCondition(formlogic.NewCondition[int](i, formlogic.Equals, cell, formlogic.Const(i%2))); err != nil {
			tb.Fatal(err)
		}
		level = append(level, formlogic.ConditionLink(i))
	}

	var root *formlogic.Join
	next := 1
	for len(level) > 1 {
		var up []formlogic.RuleLink
		for i := 0; i < len(level); i += 2 {
			rhs := level[i]
			if i+1 < len(level) {
				rhs = level[i+1]
			}
			root = formlogic.NewJoin(next, formlogic.Or, level[i], rhs)
			if err := rs.AddJoin(root); err != nil {
				tb.Fatal(err)
			}
			up = append(up, root.Link())
			next++
		}
		level = up
	}
	return rs, root
}

func TestBuildTree(t *testing.T) {
	rs, root := buildTree(t, 100)

	pass, err := formlogic.NewEngine().Eval(rs, root)
	if err != nil {
		t.Fatal(err)
	}
	if !pass {
		t.Error("expected pass")
	}
	if len(rs.Cycles()) != 0 {
		t.Error("expected an acyclic tree")
	}
}

func BenchmarkEval_10k(b *testing.B) {
	rs, root := buildTree(b, 10_000)
	engine := formlogic.NewEngine()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := engine.Eval(rs, root); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkEval_DetectCycles_10k(b *testing.B) {
	rs, root := buildTree(b, 10_000)
	engine := formlogic.NewEngine(formlogic.DetectCycles(true))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := engine.Eval(rs, root); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkVault_ApplyMutations_10k(b *testing.B) {
	rs, root := buildTree(b, 10_000)
	v, err := formlogic.NewVault(rs)
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		j := *root
		j.Op = formlogic.JoinOp(i % 2)
		if err := v.ApplyMutations([]formlogic.Mutation{{Kind: formlogic.LinkJoin, ID: j.ID, Join: &j}}); err != nil {
			b.Fatal(err)
		}
	}
}
