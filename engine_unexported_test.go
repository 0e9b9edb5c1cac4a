package formlogic

import (
	"testing"

	"github.com/ezachrisen/formlogic/reactive"
	"github.com/matryer/is"
)

func TestJoinOpApply(t *testing.T) {
	is := is.New(t)

	is.True(And.apply(true, true))
	is.True(!And.apply(true, false))
	is.True(Or.apply(false, true))
	is.True(!Or.apply(false, false))
	is.True(!JoinOp(3).apply(true, true))
}

func TestResolve(t *testing.T) {
	is := is.New(t)

	rt := reactive.NewRuntime()
	cell := reactive.NewSignal(rt, 7)

	v, ok := resolve[int](Const(3))
	is.True(ok)
	is.Equal(v, 3)

	v, ok = resolve[int](Ref(cell))
	is.True(ok)
	is.Equal(v, 7)

	_, ok = resolve[int](nil)
	is.True(!ok)
}

func TestFormatConstant(t *testing.T) {
	is := is.New(t)

	is.Equal(formatConstant("a b"), `"a b"`)
	is.Equal(formatConstant(1.5), "1.5")
	is.Equal(formatConstant(false), "false")
}

func TestTraceOnlyBuildsResultsWhenTracing(t *testing.T) {
	is := is.New(t)

	rt := reactive.NewRuntime()
	rs := NewRuleSet()
	is.NoErr(rs.AddCondition(NewCondition[bool](1, Equals, reactive.NewSignal(rt, true), Const(true))))
	root := NewJoin(1, And, ConditionLink(1), ConditionLink(1))

	e := NewEngine()
	pass, res, err := e.newEvaluation(rs, false).join(root, 0)
	is.NoErr(err)
	is.True(pass)
	is.True(res == nil)

	pass, res, err = e.newEvaluation(rs, true).join(root, 0)
	is.NoErr(err)
	is.True(pass)
	is.Equal(res.Evaluated, 3)
}
