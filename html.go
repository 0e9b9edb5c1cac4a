package formlogic

import (
	"bytes"
	"html/template"
	"os"
)

// This file contains functions that render a join graph as a standalone
// HTML page, for inspecting large rule sets in a browser.

// htmlNode is one condition or join of the rendered graph.
type htmlNode struct {
	Link       string
	Op         string
	Definition string
	Missing    bool
	Children   []htmlNode
}

var htmlPage = template.Must(template.New("page").Parse(`
	<html>
	<head>
	<style>
	body {
		padding: 50px 30px 100px 50px;
		max-width: 700px;
		font-family: 'SF Pro Text', 'Roboto', 'Arial', sans-serif;
		color: #7F7F7F;
	}
	.title {
		font-size: 20px;
		font-weight: 600;
	}
	.join {
		font-size: 14px;
		font-weight: 500;
	}
	.itemText {
		font-size: 12px;
	}
	.missing {
		font-size: 12px;
		color: #D0021B;
	}
	ul {
		padding-left: 2em;
		margin: 0.5em;
		list-style: none;
	}
	</style>
	</head>
	<body>

	{{define "node"}}
		<li>
		{{if .Missing}}
			<span class="missing">{{.Link}} (missing)</span>
		{{else if .Op}}
			<span class="join">{{.Link}} {{.Op}}</span>
			<ul>
			{{range .Children}}
				{{template "node" .}}
			{{end}}
			</ul>
		{{else}}
			<span class="itemText">{{.Link}} {{.Definition}}</span>
		{{end}}
		</li>
	{{end}}

	<span class="title">Rule Graph</span>

	{{if .}}
		<ul>
		{{template "node" .}}
		</ul>
	{{else}}
		There is no rule defined
	{{end}}
	</body>
	</html>
`))

// HTML walks the join graph below root and returns a standalone HTML page
// showing every join, condition and missing target. Like Tree, recursion is
// limited to 20 levels.
func HTML(rs *RuleSet, root *Join) (string, error) {
	var data *htmlNode
	if root != nil {
		n := rs.htmlJoin(root, 0)
		data = &n
	}

	buf := new(bytes.Buffer)
	if err := htmlPage.Execute(buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// HTMLToTmpFile is a convenience wrapper around HTML.
// It writes the HTML to a temporary file and returns the file name.
func HTMLToTmpFile(rs *RuleSet, root *Join) (string, error) {
	html, err := HTML(rs, root)
	if err != nil {
		return "", err
	}

	f, err := os.CreateTemp("", "rules_*.html")
	if err != nil {
		return "", err
	}
	defer f.Close()

	if _, err := f.WriteString(html); err != nil {
		return "", err
	}
	return f.Name(), nil
}

func (rs *RuleSet) htmlJoin(j *Join, depth int) htmlNode {
	n := htmlNode{Link: j.Link().String(), Op: j.Op.String()}
	if depth >= 20 {
		return n
	}
	for _, l := range []RuleLink{j.LHS, j.RHS} {
		n.Children = append(n.Children, rs.htmlLink(l, depth))
	}
	return n
}

func (rs *RuleSet) htmlLink(l RuleLink, depth int) htmlNode {
	switch l.Kind {
	case LinkCondition:
		if c, ok := rs.Condition(l.TargetID); ok {
			return htmlNode{Link: l.String(), Definition: c.String()}
		}
	case LinkJoin:
		if j, ok := rs.Join(l.TargetID); ok {
			return rs.htmlJoin(j, depth+1)
		}
	}
	return htmlNode{Link: l.String(), Missing: true}
}
