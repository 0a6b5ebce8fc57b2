package depgraph

// Cycle is an ordered dependency loop. The first and last entries are the
// same package: the slice is the traversal path from the first visit of
// that package down to the back-edge that closed the loop.
type Cycle []string

// Graph is an adjacency mapping from package name to its direct
// dependencies after filtering. Keys are recorded in the order the
// traversal first reached them. A Graph is read-only once built.
type Graph struct {
	deps   map[string][]string
	order  []string
	cycles []Cycle
}

func newGraph() *Graph {
	return &Graph{
		deps: make(map[string][]string),
	}
}

func (g *Graph) add(pkg string, deps []string) {
	if _, exists := g.deps[pkg]; !exists {
		g.order = append(g.order, pkg)
	}
	g.deps[pkg] = deps
}

func (g *Graph) addCycle(c Cycle) {
	g.cycles = append(g.cycles, c)
}

// Packages returns every package in the graph in first-visit order.
func (g *Graph) Packages() []string {
	out := make([]string, len(g.order))
	copy(out, g.order)
	return out
}

// Dependencies returns the filtered direct dependencies recorded for pkg.
// A nil result means pkg is not in the graph; an empty result means pkg
// has no dependencies (or its fetch failed and was absorbed).
func (g *Graph) Dependencies(pkg string) []string {
	deps, ok := g.deps[pkg]
	if !ok {
		return nil
	}
	out := make([]string, len(deps))
	copy(out, deps)
	return out
}

// Contains reports whether pkg was recorded as a graph key.
func (g *Graph) Contains(pkg string) bool {
	_, ok := g.deps[pkg]
	return ok
}

// Len returns the number of packages in the graph.
func (g *Graph) Len() int {
	return len(g.order)
}

// ReverseDependencies returns every package whose dependency list contains
// target. The result is in first-visit order; callers sort for display.
func (g *Graph) ReverseDependencies(target string) []string {
	dependents := make([]string, 0)
	for _, pkg := range g.order {
		for _, dep := range g.deps[pkg] {
			if dep == target {
				dependents = append(dependents, pkg)
				break
			}
		}
	}
	return dependents
}

// Cycles returns the dependency loops detected while the graph was built.
func (g *Graph) Cycles() []Cycle {
	out := make([]Cycle, len(g.cycles))
	copy(out, g.cycles)
	return out
}
