// Package callgraph assembles a project-wide call graph from per-function
// records. Nodes are qualified function names; edges point from caller to
// callee. Callees that do not match any function defined in the project are
// kept as unresolved nodes so visualizers can render external calls.
package callgraph

import (
	"funcscan/internal/models"
)

// Node is one function in the graph.
type Node struct {
	Name     string `json:"name"`
	File     string `json:"file,omitempty"`
	Class    string `json:"class,omitempty"`
	External bool   `json:"external,omitempty"`
}

// Edge is one caller -> callee relation.
type Edge struct {
	Caller   string `json:"caller"`
	Callee   string `json:"callee"`
	Resolved bool   `json:"resolved"`
}

// Graph holds the assembled call graph. Nodes and edges preserve
// first-occurrence order.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`

	index map[string]int
}

// Build assembles the graph from per-file results. Defined functions are
// added first so that edge resolution sees every definition regardless of
// file order.
func Build(results []models.FileResult) *Graph {
	g := &Graph{index: make(map[string]int)}

	for _, res := range results {
		for _, fn := range res.Functions {
			g.addNode(Node{Name: fn.Qualified(), File: res.FilePath, Class: fn.Class})
		}
	}

	for _, res := range results {
		for _, fn := range res.Functions {
			caller := fn.Qualified()
			for _, callee := range fn.Calls {
				idx, defined := g.index[callee]
				resolved := defined && !g.Nodes[idx].External
				if !defined {
					g.addNode(Node{Name: callee, External: true})
				}
				g.Edges = append(g.Edges, Edge{Caller: caller, Callee: callee, Resolved: resolved})
			}
		}
	}

	return g
}

// Lookup returns the node with the given qualified name, if present.
func (g *Graph) Lookup(name string) (Node, bool) {
	idx, ok := g.index[name]
	if !ok {
		return Node{}, false
	}
	return g.Nodes[idx], true
}

func (g *Graph) addNode(node Node) {
	if idx, ok := g.index[node.Name]; ok {
		// A definition wins over a previously seen external reference.
		if g.Nodes[idx].External && !node.External {
			g.Nodes[idx] = node
		}
		return
	}
	g.index[node.Name] = len(g.Nodes)
	g.Nodes = append(g.Nodes, node)
}
