package formlogic

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// Result of evaluating a condition or join, as returned by Engine.Trace.
type Result struct {
	// The link that was followed to reach this node. The root of a trace
	// carries a link to the root join.
	Link RuleLink

	// Human-readable definition of the condition or join.
	// Empty for dangling links.
	Definition string

	// The boolean outcome of the node.
	Pass bool

	// Whether the link's target was missing. Dangling links never pass.
	Dangling bool

	// Results of the left and right operands of a join, in that order.
	// Empty for conditions.
	Results []*Result

	// Number of conditions and joins evaluated in this subtree, including
	// this node. Dangling links are not counted.
	Evaluated int
}

// Flatten returns the node and all of its descendants, depth first, left to
// right.
func (u *Result) Flatten() []*Result {
	if u == nil {
		return nil
	}
	l := []*Result{u}
	for _, c := range u.Results {
		l = append(l, c.Flatten()...)
	}
	return l
}

// String produces a table of the conditions and joins evaluated and their
// outcome.
func (u *Result) String() string {
	tw := table.NewWriter()
	tw.SetTitle("\nFORMLOGIC RESULT SUMMARY\n")
	tw.AppendHeader(table.Row{"\nNode", "Pass/\nFail", "\nDefinition", "Eval-\nuated"})

	for _, r := range u.resultsToRows(0) {
		tw.AppendRow(r)
	}

	tw.AppendFooter(table.Row{"", "", "nodes evaluated", humanize.Comma(int64(u.Evaluated))})

	style := table.StyleLight
	style.Format.Header = text.FormatDefault
	style.Format.Footer = text.FormatDefault
	tw.SetStyle(style)
	return tw.Render()
}

func boolString(b bool) string {
	switch b {
	case true:
		return "PASS"
	default:
		return "FAIL"
	}
}

// resultsToRows transforms the result tree to a list of rows
// for inclusion in a table.Writer table.
func (u *Result) resultsToRows(n int) []table.Row {
	rows := []table.Row{}
	indent := strings.Repeat("  ", n)

	def := u.Definition
	if u.Dangling {
		def = "(missing)"
	}

	rows = append(rows, table.Row{
		fmt.Sprintf("%s%s", indent, u.Link),
		boolString(u.Pass),
		def,
		fmt.Sprintf("%d", u.Evaluated),
	})

	for _, cd := range u.Results {
		rows = append(rows, cd.resultsToRows(n+1)...)
	}
	return rows
}
