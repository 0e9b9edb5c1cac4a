package formlogic

import (
	"fmt"
	"strings"
)

// LinkKind says which table a RuleLink points into.
type LinkKind int

const (
	LinkCondition LinkKind = iota
	LinkJoin
)

func (k LinkKind) String() string {
	switch k {
	case LinkCondition:
		return "condition"
	case LinkJoin:
		return "join"
	default:
		return fmt.Sprintf("LinkKind(%d)", int(k))
	}
}

// A RuleLink references a condition or a join by id. It is used as the
// operand of a join. A link whose target does not exist is allowed; it
// evaluates to false.
type RuleLink struct {
	Kind     LinkKind
	TargetID int
}

// ConditionLink returns a link to the condition with the id.
func ConditionLink(id int) RuleLink { return RuleLink{Kind: LinkCondition, TargetID: id} }

// JoinLink returns a link to the join with the id.
func JoinLink(id int) RuleLink { return RuleLink{Kind: LinkJoin, TargetID: id} }

func (l RuleLink) String() string {
	switch l.Kind {
	case LinkCondition:
		return fmt.Sprintf("c%d", l.TargetID)
	case LinkJoin:
		return fmt.Sprintf("j%d", l.TargetID)
	default:
		return fmt.Sprintf("?%d", l.TargetID)
	}
}

// JoinOp is the boolean operator combining the two sides of a join.
type JoinOp int

const (
	And JoinOp = iota
	Or
)

func (op JoinOp) String() string {
	switch op {
	case And:
		return "AND"
	case Or:
		return "OR"
	default:
		return fmt.Sprintf("JoinOp(%d)", int(op))
	}
}

// apply combines the two sides. Unknown operators yield false.
func (op JoinOp) apply(lhs, rhs bool) bool {
	switch op {
	case And:
		return lhs && rhs
	case Or:
		return lhs || rhs
	default:
		return false
	}
}

// A Join combines two links with AND or OR. Joins reference each other by
// id and form a directed graph, which must be acyclic unless the engine is
// created with DetectCycles.
type Join struct {
	ID  int
	Op  JoinOp
	LHS RuleLink
	RHS RuleLink
}

// NewJoin creates a join.
func NewJoin(id int, op JoinOp, lhs, rhs RuleLink) *Join {
	return &Join{
		ID:  id,
		Op:  op,
		LHS: lhs,
		RHS: rhs,
	}
}

// Link returns a link pointing at this join.
func (j *Join) Link() RuleLink { return JoinLink(j.ID) }

func (j *Join) String() string {
	return fmt.Sprintf("%s %s %s", j.LHS, j.Op, j.RHS)
}

// Tree returns a tree representation of the join graph below root, showing
// link targets and operators. Missing targets are marked. Recursion is
// limited to a depth of 20 levels, so cyclic graphs still render.
//
// Example output:
//
//	j2 OR
//	├── j1 AND
//	│   ├── c1  cell 0 == cell 1
//	│   └── c2  cell 2 == true
//	└── c3  cell 3 == 69
func (rs *RuleSet) Tree(root *Join) string {
	if root == nil {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("j%d %s\n", root.ID, root.Op))
	rs.buildTree(&sb, root, "", 0)
	return sb.String()
}

// buildTree recursively writes both sides of j with box-drawing connectors.
func (rs *RuleSet) buildTree(sb *strings.Builder, j *Join, prefix string, depth int) {
	if depth >= 20 {
		return
	}

	for i, link := range []RuleLink{j.LHS, j.RHS} {
		connector, childPrefix := "├── ", "│   "
		if i == 1 {
			connector, childPrefix = "└── ", "    "
		}

		sb.WriteString(prefix)
		sb.WriteString(connector)
		sb.WriteString(link.String())

		switch link.Kind {
		case LinkCondition:
			if c, ok := rs.Condition(link.TargetID); ok {
				sb.WriteString("  " + c.String() + "\n")
			} else {
				sb.WriteString("  (missing)\n")
			}
		case LinkJoin:
			child, ok := rs.Join(link.TargetID)
			if !ok {
				sb.WriteString("  (missing)\n")
				continue
			}
			sb.WriteString(" " + child.Op.String() + "\n")
			rs.buildTree(sb, child, prefix+childPrefix, depth+1)
		default:
			sb.WriteString("  (missing)\n")
		}
	}
}
