package formlogic

import (
	"cmp"
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// ErrDuplicateID is returned when a condition or join is added with an id
// already present in its table.
var ErrDuplicateID = errors.New("duplicate id")

// A RuleSet holds the condition table and the join table that links
// resolve against. Condition ids and join ids are unique within their own
// table; a condition and a join may share an id.
//
// A RuleSet is not safe for concurrent modification. Use a Vault to swap
// rule sets while other goroutines evaluate them.
type RuleSet struct {
	conditions map[int]AnyCondition
	joins      map[int]*Join
}

// NewRuleSet creates an empty rule set.
func NewRuleSet() *RuleSet {
	return &RuleSet{
		conditions: map[int]AnyCondition{},
		joins:      map[int]*Join{},
	}
}

// AddCondition adds conditions to the condition table.
func (rs *RuleSet) AddCondition(cs ...AnyCondition) error {
	for _, c := range cs {
		if c == nil {
			return fmt.Errorf("attempt to add nil condition")
		}
		if _, ok := rs.conditions[c.ConditionID()]; ok {
			return fmt.Errorf("condition %d: %w", c.ConditionID(), ErrDuplicateID)
		}
		rs.conditions[c.ConditionID()] = c
	}
	return nil
}

// AddJoin adds joins to the join table. Links are not checked; a link to a
// missing target evaluates to false.
func (rs *RuleSet) AddJoin(js ...*Join) error {
	for _, j := range js {
		if j == nil {
			return fmt.Errorf("attempt to add nil join")
		}
		if _, ok := rs.joins[j.ID]; ok {
			return fmt.Errorf("join %d: %w", j.ID, ErrDuplicateID)
		}
		rs.joins[j.ID] = j
	}
	return nil
}

// Condition returns the condition with the id.
func (rs *RuleSet) Condition(id int) (AnyCondition, bool) {
	if rs == nil {
		return nil, false
	}
	c, ok := rs.conditions[id]
	return c, ok
}

// Join returns the join with the id.
func (rs *RuleSet) Join(id int) (*Join, bool) {
	if rs == nil {
		return nil, false
	}
	j, ok := rs.joins[id]
	return j, ok
}

// Resolves reports whether the link's target exists.
func (rs *RuleSet) Resolves(l RuleLink) bool {
	switch l.Kind {
	case LinkCondition:
		_, ok := rs.Condition(l.TargetID)
		return ok
	case LinkJoin:
		_, ok := rs.Join(l.TargetID)
		return ok
	default:
		return false
	}
}

// RemoveCondition deletes the condition with the id. Links pointing at it
// become dangling.
func (rs *RuleSet) RemoveCondition(id int) bool {
	_, ok := rs.conditions[id]
	delete(rs.conditions, id)
	return ok
}

// RemoveJoin deletes the join with the id. Links pointing at it become
// dangling.
func (rs *RuleSet) RemoveJoin(id int) bool {
	_, ok := rs.joins[id]
	delete(rs.joins, id)
	return ok
}

// Conditions returns the conditions ordered by id.
func (rs *RuleSet) Conditions() []AnyCondition {
	out := make([]AnyCondition, 0, len(rs.conditions))
	for _, id := range slices.Sorted(maps.Keys(rs.conditions)) {
		out = append(out, rs.conditions[id])
	}
	return out
}

// Joins returns the joins ordered by id.
func (rs *RuleSet) Joins() []*Join {
	out := make([]*Join, 0, len(rs.joins))
	for _, id := range slices.Sorted(maps.Keys(rs.joins)) {
		out = append(out, rs.joins[id])
	}
	return out
}

// Len returns the number of conditions and joins.
func (rs *RuleSet) Len() (conditions, joins int) {
	return len(rs.conditions), len(rs.joins)
}

// Clone returns a copy of the rule set whose tables can be modified without
// affecting rs. Conditions are immutable and shared; joins are copied.
func (rs *RuleSet) Clone() *RuleSet {
	c := &RuleSet{
		conditions: maps.Clone(rs.conditions),
		joins:      make(map[int]*Join, len(rs.joins)),
	}
	for id, j := range rs.joins {
		jj := *j
		c.joins[id] = &jj
	}
	return c
}

// A DanglingLink is a join operand whose target does not exist.
type DanglingLink struct {
	JoinID int
	Link   RuleLink
}

func (d DanglingLink) String() string {
	return fmt.Sprintf("j%d -> %s", d.JoinID, d.Link)
}

// Dangling lists every join operand whose target is missing, ordered by
// join id. Dangling links are legal; this is for inspection only.
func (rs *RuleSet) Dangling() []DanglingLink {
	var out []DanglingLink
	for _, j := range rs.Joins() {
		for _, l := range []RuleLink{j.LHS, j.RHS} {
			if !rs.Resolves(l) {
				out = append(out, DanglingLink{JoinID: j.ID, Link: l})
			}
		}
	}
	return out
}

// Cycles returns the join ids of every cycle in the join graph, found
// with Tarjan's strongly connected components algorithm. Each cycle is
// sorted, and cycles are ordered by their smallest id. An acyclic graph
// returns nil.
func (rs *RuleSet) Cycles() [][]int {
	var (
		index   = 0
		stack   []int
		indices = make(map[int]int)
		lowlink = make(map[int]int)
		onStack = make(map[int]bool)
		cycles  [][]int
	)

	var strongConnect func(int)
	strongConnect = func(v int) {
		indices[v] = index
		lowlink[v] = index
		index++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range rs.successors(v) {
			if _, visited := indices[w]; !visited {
				strongConnect(w)
				lowlink[v] = min(lowlink[v], lowlink[w])
			} else if onStack[w] {
				lowlink[v] = min(lowlink[v], indices[w])
			}
		}

		if lowlink[v] == indices[v] {
			var scc []int
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				scc = append(scc, w)
				if w == v {
					break
				}
			}
			if len(scc) > 1 || slices.Contains(rs.successors(v), v) {
				slices.Sort(scc)
				cycles = append(cycles, scc)
			}
		}
	}

	for _, id := range slices.Sorted(maps.Keys(rs.joins)) {
		if _, visited := indices[id]; !visited {
			strongConnect(id)
		}
	}

	slices.SortFunc(cycles, func(a, b []int) int { return cmp.Compare(a[0], b[0]) })
	return cycles
}

// successors returns the ids of the existing joins that join id links to.
func (rs *RuleSet) successors(id int) []int {
	j, ok := rs.joins[id]
	if !ok {
		return nil
	}
	var out []int
	for _, l := range []RuleLink{j.LHS, j.RHS} {
		if l.Kind != LinkJoin {
			continue
		}
		if _, ok := rs.joins[l.TargetID]; ok {
			out = append(out, l.TargetID)
		}
	}
	return out
}

// String returns a table of the conditions and joins in the rule set.
func (rs *RuleSet) String() string {
	tw := table.NewWriter()
	tw.SetTitle("\nRULE SET\n")
	tw.AppendHeader(table.Row{"\nID", "\nKind", "Answer\nType", "\nDefinition"})

	for _, c := range rs.Conditions() {
		tw.AppendRow(table.Row{
			ConditionLink(c.ConditionID()).String(),
			LinkCondition.String(),
			c.AnswerType().String(),
			c.String(),
		})
	}

	for _, j := range rs.Joins() {
		tw.AppendRow(table.Row{
			JoinLink(j.ID).String(),
			LinkJoin.String(),
			"",
			j.String(),
		})
	}

	style := table.StyleLight
	style.Format.Header = text.FormatDefault
	tw.SetStyle(style)
	return tw.Render()
}
