package server

import (
	"net/http"

	"github.com/platinummonkey/pipgraph/pkg/httputil"
)

// CytoscapeNode represents a node in Cytoscape.js format
type CytoscapeNode struct {
	Data CytoscapeNodeData `json:"data"`
}

// CytoscapeNodeData contains node data for Cytoscape.js
type CytoscapeNodeData struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"` // "root" or "dependency"
}

// CytoscapeEdge represents an edge in Cytoscape.js format
type CytoscapeEdge struct {
	Data CytoscapeEdgeData `json:"data"`
}

// CytoscapeEdgeData contains edge data for Cytoscape.js
type CytoscapeEdgeData struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
}

// CytoscapeGraph represents the complete graph in Cytoscape.js format
type CytoscapeGraph struct {
	Nodes []CytoscapeNode `json:"nodes"`
	Edges []CytoscapeEdge `json:"edges"`
}

// getCytoscapeGraph handles GET /api/v1/graph/cytoscape
func (s *Server) getCytoscapeGraph(w http.ResponseWriter, r *http.Request) {
	httputil.WriteSuccess(w, s.buildCytoscapeGraph())
}

// buildCytoscapeGraph flattens the adjacency into Cytoscape nodes and
// edges. Leaf dependencies that never became graph keys (filtered-out
// packages never appear at all, but failed or truncated ones do) still
// get nodes so every edge has both endpoints.
func (s *Server) buildCytoscapeGraph() CytoscapeGraph {
	cytoGraph := CytoscapeGraph{
		Nodes: make([]CytoscapeNode, 0, s.graph.Len()),
		Edges: make([]CytoscapeEdge, 0),
	}

	seen := make(map[string]bool)
	addNode := func(name string) {
		if seen[name] {
			return
		}
		seen[name] = true

		nodeType := "dependency"
		if name == s.root {
			nodeType = "root"
		}
		cytoGraph.Nodes = append(cytoGraph.Nodes, CytoscapeNode{
			Data: CytoscapeNodeData{
				ID:   name,
				Name: name,
				Type: nodeType,
			},
		})
	}

	for _, pkg := range s.graph.Packages() {
		addNode(pkg)
		for _, dep := range s.graph.Dependencies(pkg) {
			addNode(dep)
			cytoGraph.Edges = append(cytoGraph.Edges, CytoscapeEdge{
				Data: CytoscapeEdgeData{
					ID:     pkg + "->" + dep,
					Source: pkg,
					Target: dep,
				},
			})
		}
	}

	return cytoGraph
}
