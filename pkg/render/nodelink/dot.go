// Package nodelink renders the family graph as a Graphviz node-link diagram.
//
// Unlike the box layout (pkg/tree/layout), which positions every person on a
// generation grid, the node-link view lets Graphviz arrange the graph freely:
// parent edges point downward, spouse pairs are tied with undirected dashed
// edges. This view is useful for untangling data problems that the grid
// hides, such as a person with parents in two different subtrees.
package nodelink

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"

	"github.com/kintree/kintree/pkg/tree"
)

// ToDOT converts the augmented persons to Graphviz DOT format.
// Parent→child edges are directed; spouse pairs get a dashed undirected edge
// (emitted once per pair, from the lower person ID).
func ToDOT(persons []tree.Person) string {
	var buf bytes.Buffer
	buf.WriteString("digraph family {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=\"#fdf6ec\", fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.6;\n")
	buf.WriteString("  nodesep=0.4;\n")
	buf.WriteString("\n")

	for _, p := range persons {
		fmt.Fprintf(&buf, "  %d [label=%q];\n", p.ID, nodeLabel(p))
	}

	buf.WriteString("\n")
	for _, p := range persons {
		for _, c := range p.Children {
			fmt.Fprintf(&buf, "  %d -> %d;\n", p.ID, c.ID)
		}
		for _, s := range p.Spouses {
			if p.ID < s.ID {
				fmt.Fprintf(&buf, "  %d -> %d [dir=none, style=dashed, constraint=false];\n", p.ID, s.ID)
			}
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeLabel(p tree.Person) string {
	label := p.Name
	if p.BirthDate != "" || p.DeathDate != "" {
		label += "\n" + p.BirthDate + " – " + p.DeathDate
	}
	return label
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	return renderFormat(dot, graphviz.SVG)
}

// RenderPNG renders a DOT graph to PNG using Graphviz.
func RenderPNG(dot string) ([]byte, error) {
	return renderFormat(dot, graphviz.PNG)
}

func renderFormat(dot string, format graphviz.Format) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
