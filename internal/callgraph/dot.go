package callgraph

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// WriteDOT renders the graph in Graphviz DOT form. Functions defined in the
// project are drawn as boxes; unresolved external callees as dashed ovals.
func (g *Graph) WriteDOT(w io.Writer) error {
	var b strings.Builder
	b.WriteString("digraph callgraph {\n")
	b.WriteString("  rankdir=LR;\n")
	b.WriteString("  node [fontname=\"Helvetica\"];\n")

	for _, node := range g.Nodes {
		if node.External {
			fmt.Fprintf(&b, "  %s [style=dashed];\n", quote(node.Name))
			continue
		}
		fmt.Fprintf(&b, "  %s [shape=box];\n", quote(node.Name))
	}

	for _, edge := range g.Edges {
		attrs := ""
		if !edge.Resolved {
			attrs = " [style=dashed]"
		}
		fmt.Fprintf(&b, "  %s -> %s%s;\n", quote(edge.Caller), quote(edge.Callee), attrs)
	}

	b.WriteString("}\n")
	_, err := io.WriteString(w, b.String())
	return err
}

// WriteJSON emits the graph as indented JSON.
func (g *Graph) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(g)
}

func quote(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `\"`) + `"`
}
