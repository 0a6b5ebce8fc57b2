// Package render turns a dependency graph into a D2 diagram description
// and, when the d2 binary is present on the host, compiles it to an image.
package render

import (
	"fmt"
	"strings"

	"github.com/platinummonkey/pipgraph/pkg/depgraph"
)

// reservedChars are the characters that force an identifier to be quoted
// in D2 output.
const reservedChars = "-. :/\\"

// Description renders the graph as D2 text, one relation statement per
// edge. Output order follows the graph's package order, so the text is
// deterministic for a given graph.
func Description(g *depgraph.Graph) string {
	var b strings.Builder
	b.WriteString("# Dependency graph\n\n")

	for _, pkg := range g.Packages() {
		for _, dep := range g.Dependencies(pkg) {
			fmt.Fprintf(&b, "%s -> %s\n", escapeIdentifier(pkg), escapeIdentifier(dep))
		}
	}

	return b.String()
}

// escapeIdentifier quotes identifiers containing characters that D2
// treats as structure.
func escapeIdentifier(id string) string {
	if strings.ContainsAny(id, reservedChars) {
		return `"` + id + `"`
	}
	return id
}
