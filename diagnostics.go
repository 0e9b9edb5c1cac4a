package formlogic

import (
	"fmt"
	"strings"

	"github.com/Delta456/box-cli-maker/v2"
	"github.com/alexeyco/simpletable"
)

// DiagnosticReport renders a boxed report of a trace: the rule tree of the
// root join followed by one line per node visited.
func DiagnosticReport(rs *RuleSet, res *Result) string {
	Box := box.New(box.Config{Px: 2, Py: 1, Type: "Double", Color: "Cyan", TitlePos: "Top", ContentAlign: "Left"})

	s := strings.Builder{}
	if res == nil {
		s.WriteString("No evaluation result.\n")
		return Box.String("FORMLOGIC EVALUATION DIAGNOSTIC REPORT", s.String())
	}

	if root, ok := rs.Join(res.Link.TargetID); ok && res.Link.Kind == LinkJoin {
		s.WriteString("Rule:\n")
		s.WriteString("-----\n")
		s.WriteString(rs.Tree(root))
		s.WriteString("\n")
	}

	s.WriteString("Evaluation State:\n")
	s.WriteString("-----------------\n")
	s.WriteString(diagnosticTable(res).String())

	if dangling := danglingCount(res); dangling > 0 {
		s.WriteString(fmt.Sprintf("\n\n%d dangling link(s) evaluated as false", dangling))
	}
	return Box.String("FORMLOGIC EVALUATION DIAGNOSTIC REPORT", s.String())
}

func diagnosticTable(res *Result) *simpletable.Table {
	table := simpletable.New()
	table.Header = &simpletable.Header{
		Cells: []*simpletable.Cell{
			{Align: simpletable.AlignCenter, Text: "Node"},
			{Align: simpletable.AlignCenter, Text: "Definition"},
			{Align: simpletable.AlignCenter, Text: "Value"},
			{Align: simpletable.AlignCenter, Text: "Source"},
		},
	}

	for _, r := range res.Flatten() {
		source := "evaluated"
		def := r.Definition
		if r.Dangling {
			source = "dangling"
			def = "(missing)"
		}
		table.Body.Cells = append(table.Body.Cells, []*simpletable.Cell{
			{Align: simpletable.AlignRight, Text: r.Link.String()},
			{Text: def},
			{Text: fmt.Sprintf("%t", r.Pass)},
			{Text: source},
		})
	}

	table.SetStyle(simpletable.StyleUnicode)
	return table
}

func danglingCount(res *Result) int {
	n := 0
	for _, r := range res.Flatten() {
		if r.Dangling {
			n++
		}
	}
	return n
}
